package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/policy-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func money(s string) decimal.Decimal { return engine.MustParseDecimal(s) }

func monthlyPolicy() engine.Policy {
	return engine.Policy{
		ID:             "pol-1",
		Insurer:        "GNP",
		PaymentType:    engine.PaymentFractional,
		Frequency:      engine.FreqMonthly,
		EffectiveStart: date(2024, time.January, 1),
		EffectiveEnd:   date(2025, time.January, 1),
		TotalPremium:   money("1200.00"),
		GracePeriodDays: 30,
	}
}

// =============================================================================
// RECEIPT COUNT
// =============================================================================

func TestReceiptCount_ByConfiguration(t *testing.T) {
	cases := []struct {
		pt   engine.PaymentType
		freq engine.Frequency
		want int
	}{
		{engine.PaymentAnnual, "", 1},
		{engine.PaymentFractional, engine.FreqMonthly, 12},
		{engine.PaymentFractional, engine.FreqQuarterly, 4},
		{engine.PaymentFractional, engine.FreqSemiannual, 2},
		{engine.PaymentFractional, "", 0},
		{engine.PaymentFractional, "weekly", 0},
		{"", "", 0},
	}
	for _, c := range cases {
		p := engine.Policy{PaymentType: c.pt, Frequency: c.freq}
		if got := engine.ReceiptCount(p); got != c.want {
			t.Errorf("ReceiptCount(%q/%q) = %d, want %d", c.pt, c.freq, got, c.want)
		}
	}
}

// =============================================================================
// FALLBACK GENERATION PATH
// =============================================================================

func TestGenerateSchedule_MonthlyTwelveReceipts(t *testing.T) {
	// GIVEN: effectiveStart=2024-01-01, fractional monthly, premium 1200.00,
	//        no overrides, grace 30 days
	// THEN: 12 receipts of 100.00, receipt #1 due 2024-01-31

	receipts := engine.GenerateSchedule(monthlyPolicy(), nil)

	if len(receipts) != 12 {
		t.Fatalf("expected 12 receipts, got %d", len(receipts))
	}
	if !receipts[0].DueDate.Equal(date(2024, time.January, 31)) {
		t.Errorf("receipt #1 due %s, want 2024-01-31", receipts[0].DueDate)
	}
	for i, r := range receipts {
		if r.Number != i+1 {
			t.Errorf("receipt %d has number %d", i, r.Number)
		}
		if !r.Amount.Equal(money("100.00")) {
			t.Errorf("receipt #%d amount %s, want 100.00", r.Number, r.Amount)
		}
		if r.Paid() {
			t.Errorf("generated receipt #%d must be unpaid", r.Number)
		}
	}
	// Monthly cadence: consecutive due dates one month apart.
	if !receipts[1].DueDate.Equal(date(2024, time.March, 2)) {
		// 2024-02-01 + 30 days
		t.Errorf("receipt #2 due %s, want 2024-03-02", receipts[1].DueDate)
	}
}

func TestGenerateSchedule_Annual_SingleReceipt(t *testing.T) {
	p := monthlyPolicy()
	p.PaymentType = engine.PaymentAnnual
	p.Frequency = ""

	receipts := engine.GenerateSchedule(p, nil)
	if len(receipts) != 1 {
		t.Fatalf("expected 1 receipt for annual, got %d", len(receipts))
	}
	if !receipts[0].Amount.Equal(money("1200.00")) {
		t.Errorf("annual receipt carries full premium, got %s", receipts[0].Amount)
	}
	if !receipts[0].DueDate.Equal(date(2024, time.January, 31)) {
		t.Errorf("annual receipt due %s, want 2024-01-31", receipts[0].DueDate)
	}
}

func TestGenerateSchedule_AmountRounding(t *testing.T) {
	// GIVEN: 1000.00 split across 12 receipts
	// THEN: each receipt is 83.33 (standard rounding, not truncation), and
	//       12 x 83.33 reconciles with the premium within 12 cents.

	p := monthlyPolicy()
	p.TotalPremium = money("1000.00")

	receipts := engine.GenerateSchedule(p, nil)
	if !receipts[0].Amount.Equal(money("83.33")) {
		t.Errorf("expected 83.33, got %s", receipts[0].Amount)
	}

	total := decimal.Zero
	for _, r := range receipts {
		total = total.Add(r.Amount)
	}
	drift := total.Sub(p.TotalPremium).Abs()
	if drift.GreaterThan(money("0.12")) {
		t.Errorf("reconciliation drift %s exceeds 12 cents", drift)
	}
}

func TestGenerateSchedule_AmountOverrides(t *testing.T) {
	// GIVEN: both override fields present
	// THEN: receipt #1 uses the first-payment amount, the rest use the
	//       subsequent amount.

	first := money("150.00")
	subsequent := money("95.45")
	p := monthlyPolicy()
	p.FirstPaymentAmount = &first
	p.SubsequentPaymentAmount = &subsequent

	receipts := engine.GenerateSchedule(p, nil)
	if !receipts[0].Amount.Equal(first) {
		t.Errorf("receipt #1 amount %s, want %s", receipts[0].Amount, first)
	}
	for _, r := range receipts[1:] {
		if !r.Amount.Equal(subsequent) {
			t.Errorf("receipt #%d amount %s, want %s", r.Number, r.Amount, subsequent)
		}
	}
}

func TestGenerateSchedule_FirstOverrideAlone_Ignored(t *testing.T) {
	// The first-payment override only applies when BOTH overrides are set.
	first := money("150.00")
	p := monthlyPolicy()
	p.FirstPaymentAmount = &first

	receipts := engine.GenerateSchedule(p, nil)
	if !receipts[0].Amount.Equal(money("100.00")) {
		t.Errorf("lone first override must be ignored; got %s", receipts[0].Amount)
	}
}

func TestGenerateSchedule_GraceDefaults(t *testing.T) {
	// GIVEN: no policy-level grace period
	// THEN: the injected insurer resolver decides (14 for Qualitas, 30 else)

	graceFor := func(insurer string) int {
		if insurer == "Qualitas" {
			return 14
		}
		return 30
	}

	p := monthlyPolicy()
	p.GracePeriodDays = 0
	p.Insurer = "Qualitas"
	receipts := engine.GenerateScheduleWithGrace(p, nil, graceFor)
	if !receipts[0].DueDate.Equal(date(2024, time.January, 15)) {
		t.Errorf("qualitas grace: receipt #1 due %s, want 2024-01-15", receipts[0].DueDate)
	}

	p.Insurer = "GNP"
	receipts = engine.GenerateScheduleWithGrace(p, nil, graceFor)
	if !receipts[0].DueDate.Equal(date(2024, time.January, 31)) {
		t.Errorf("standard grace: receipt #1 due %s, want 2024-01-31", receipts[0].DueDate)
	}
}

func TestGenerateSchedule_QuarterlyCadence(t *testing.T) {
	p := monthlyPolicy()
	p.Frequency = engine.FreqQuarterly

	receipts := engine.GenerateSchedule(p, nil)
	if len(receipts) != 4 {
		t.Fatalf("expected 4 receipts, got %d", len(receipts))
	}
	// Receipt #3: start + 6 months + 30 days grace.
	if !receipts[2].DueDate.Equal(date(2024, time.July, 31)) {
		t.Errorf("receipt #3 due %s, want 2024-07-31", receipts[2].DueDate)
	}
}

// =============================================================================
// DEGRADED INPUTS
// =============================================================================

func TestGenerateSchedule_NotSchedulable_EmptyResult(t *testing.T) {
	// Unknown configuration: no schedule, no error, callers render no
	// payment UI.
	p := monthlyPolicy()
	p.Frequency = ""

	if receipts := engine.GenerateSchedule(p, nil); len(receipts) != 0 {
		t.Errorf("expected empty schedule, got %d receipts", len(receipts))
	}
	if err := engine.Schedulable(p); err == nil {
		t.Error("Schedulable should explain the empty schedule")
	}
}

func TestGenerateSchedule_MissingStart_EmptyResult(t *testing.T) {
	p := monthlyPolicy()
	p.EffectiveStart = engine.Date{}

	if receipts := engine.GenerateSchedule(p, nil); len(receipts) != 0 {
		t.Errorf("expected empty schedule without a start date, got %d", len(receipts))
	}
}

// =============================================================================
// AUTHORITATIVE PERSISTED PATH
// =============================================================================

func TestGenerateSchedule_PersistedReceiptsAreAuthoritative(t *testing.T) {
	// GIVEN: persisted receipts with amounts that differ from what the
	//        generator would compute
	// THEN: they pass through untouched - never recomputed.

	p := monthlyPolicy()
	persisted := []engine.Receipt{
		{PolicyID: p.ID, Number: 2, DueDate: date(2024, time.March, 1), Amount: money("111.11")},
		{PolicyID: p.ID, Number: 1, DueDate: date(2024, time.February, 1), Amount: money("222.22")},
	}

	receipts := engine.GenerateSchedule(p, persisted)
	if len(receipts) != 2 {
		t.Fatalf("expected 2 receipts, got %d", len(receipts))
	}
	if receipts[0].Number != 1 || receipts[1].Number != 2 {
		t.Error("persisted receipts must come back in number order")
	}
	if !receipts[0].Amount.Equal(money("222.22")) {
		t.Errorf("persisted amount recomputed: got %s", receipts[0].Amount)
	}
}

func TestGenerateSchedule_TruncatesCorruptReceiptSet(t *testing.T) {
	// GIVEN: a quarterly policy (N=4) with receipts numbered past N, below 1,
	//        and duplicated
	// THEN: only the valid dense range survives.

	p := monthlyPolicy()
	p.Frequency = engine.FreqQuarterly

	persisted := []engine.Receipt{
		{Number: 1, Amount: money("300.00")},
		{Number: 2, Amount: money("300.00")},
		{Number: 2, Amount: money("999.99")}, // duplicate, dropped
		{Number: 5, Amount: money("300.00")}, // past N, dropped
		{Number: 0, Amount: money("300.00")}, // below range, dropped
	}

	receipts := engine.GenerateSchedule(p, persisted)
	if len(receipts) != 2 {
		t.Fatalf("expected 2 surviving receipts, got %d", len(receipts))
	}
	if !receipts[1].Amount.Equal(money("300.00")) {
		t.Error("first occurrence of a duplicated number must win")
	}
}
