/*
schedule.go - Receipt schedule generation

PURPOSE:
  Produces the ordered receipt schedule for a policy. Two paths:

  AUTHORITATIVE PATH (persisted receipts exist):
    The persisted set wins. Amounts and due dates are NEVER recomputed;
    the generator only filters defensively against corrupt data (numbers
    outside 1..N, duplicated numbers) and returns the set in number order.

  FALLBACK PATH (nothing persisted yet):
    Used before first persistence, e.g. while a capture flow is previewing
    a policy. Synthesizes receipts from the policy configuration:
      - count from payment type/frequency (annual 1, monthly 12,
        quarterly 4, semiannual 2)
      - receipt i due at effectiveStart advanced (i-1) frequency intervals,
        plus the grace period
      - amount from the per-receipt overrides, else totalPremium/count
        rounded to 2 decimals (standard rounding, not truncation, so
        count x amount reconciles with the premium on screen)

GRACE PERIOD:
  Days after effectiveStart before the first receipt is due. The policy
  override wins; otherwise the insurer default applies (14 for Qualitas,
  30 for everyone else - see the insurers package, injected here via
  GracePeriodFunc to keep this package free of catalog knowledge).

EDGE CASES:
  - Unknown payment type/frequency: count 0, empty schedule, no payment UI.
  - Missing effectiveStart: empty schedule (fallback path only).
  Both degrade silently; Schedulable() in errors.go explains why.

SEE ALSO:
  - status.go: Classifies the receipts this produces
  - errors.go: Boundary diagnostics for the empty-schedule cases
*/
package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RECEIPT COUNT
// =============================================================================

// DefaultGracePeriodDays applies when neither the policy nor the insurer
// catalog supplies a grace period.
const DefaultGracePeriodDays = 30

// ReceiptCount returns the schedule length for a policy: 1 for annual,
// 12/4/2 for fractional by frequency, 0 when the configuration is invalid
// (the policy is not schedulable).
func ReceiptCount(p Policy) int {
	switch p.PaymentType {
	case PaymentAnnual:
		return 1
	case PaymentFractional:
		switch p.Frequency {
		case FreqMonthly:
			return 12
		case FreqQuarterly:
			return 4
		case FreqSemiannual:
			return 2
		}
	}
	return 0
}

// GracePeriodFunc resolves an insurer-dependent grace period default.
// The insurers package provides the production implementation.
type GracePeriodFunc func(insurer string) int

// =============================================================================
// SCHEDULE GENERATION
// =============================================================================

// GenerateSchedule returns the ordered receipt schedule for a policy.
// When persisted receipts exist they are authoritative (filtered, never
// recomputed). Otherwise a synthetic schedule is generated from the policy
// configuration using the default grace period rules.
func GenerateSchedule(p Policy, persisted []Receipt) []Receipt {
	return GenerateScheduleWithGrace(p, persisted, nil)
}

// GenerateScheduleWithGrace is GenerateSchedule with an injected insurer
// grace-period resolver (nil falls back to DefaultGracePeriodDays).
func GenerateScheduleWithGrace(p Policy, persisted []Receipt, graceFor GracePeriodFunc) []Receipt {
	n := ReceiptCount(p)
	if n == 0 {
		return nil
	}

	if len(persisted) > 0 {
		return filterReceiptSet(persisted, n)
	}

	if p.EffectiveStart.IsZero() {
		return nil
	}

	grace := p.GracePeriodDays
	if grace <= 0 {
		if graceFor != nil {
			grace = graceFor(p.Insurer)
		} else {
			grace = DefaultGracePeriodDays
		}
	}

	defaultAmount := decimal.Zero
	if n > 0 {
		defaultAmount = p.TotalPremium.Div(decimal.NewFromInt(int64(n))).Round(2)
	}

	interval := p.Frequency.MonthsPerReceipt()
	receipts := make([]Receipt, 0, n)
	for i := 1; i <= n; i++ {
		receipts = append(receipts, Receipt{
			PolicyID: p.ID,
			Number:   i,
			DueDate:  p.EffectiveStart.AddMonths((i - 1) * interval).AddDays(grace),
			Amount:   receiptAmount(p, i, defaultAmount),
		})
	}
	return receipts
}

// receiptAmount applies the override rules: the first-payment override only
// counts when both overrides are present; later receipts take the
// subsequent override when present; everything else splits the premium.
func receiptAmount(p Policy, number int, defaultAmount decimal.Decimal) decimal.Decimal {
	if number == 1 && p.FirstPaymentAmount != nil && p.SubsequentPaymentAmount != nil {
		return *p.FirstPaymentAmount
	}
	if number > 1 && p.SubsequentPaymentAmount != nil {
		return *p.SubsequentPaymentAmount
	}
	return defaultAmount
}

// filterReceiptSet defends against corrupt persisted data: receipts outside
// 1..n or with a duplicated number are dropped, the rest returned in
// ascending number order. Persisted amounts and dates pass through untouched.
func filterReceiptSet(persisted []Receipt, n int) []Receipt {
	seen := make(map[int]bool, len(persisted))
	kept := make([]Receipt, 0, len(persisted))
	for _, r := range persisted {
		if r.Number < 1 || r.Number > n || seen[r.Number] {
			continue
		}
		seen[r.Number] = true
		kept = append(kept, r)
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Number < kept[j].Number })
	return kept
}
