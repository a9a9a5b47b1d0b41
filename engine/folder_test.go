package engine_test

import (
	"testing"
	"time"

	"github.com/warp/policy-engine/engine"
)

// paidPolicy returns a fully-paid issued policy whose effective period
// comfortably surrounds the given today, so no renewal rule fires.
func paidPolicy(today engine.Date) engine.Policy {
	return engine.Policy{
		ID:             "pol-folder",
		Insurer:        "GNP",
		PaymentType:    engine.PaymentAnnual,
		Stage:          engine.StageIssued,
		EffectiveStart: today.AddMonths(-3),
		EffectiveEnd:   today.AddMonths(9),
		TotalPremium:   money("12000.00"),
	}
}

func TestClassifyFolder_PriorityOrder(t *testing.T) {
	today := date(2024, time.June, 1)

	cases := []struct {
		name      string
		mutate    func(*engine.Policy)
		aggregate engine.Status
		want      engine.Folder
	}{
		{
			// Cancelled beats everything, including an overdue aggregate.
			name:      "cancelled wins over overdue",
			mutate:    func(p *engine.Policy) { p.Stage = engine.StageCancelled },
			aggregate: engine.StatusOverdue,
			want:      engine.FolderCancelled,
		},
		{
			// Overdue beats renewal staging.
			name:      "overdue wins over renewal stage",
			mutate:    func(p *engine.Policy) { p.Stage = engine.StageQuoteSent },
			aggregate: engine.StatusOverdue,
			want:      engine.FolderOverdue,
		},
		{
			name:      "pending lands in progress",
			mutate:    func(p *engine.Policy) {},
			aggregate: engine.StatusPending,
			want:      engine.FolderInProgress,
		},
		{
			name:      "due soon lands in progress",
			mutate:    func(p *engine.Policy) {},
			aggregate: engine.StatusDueSoon,
			want:      engine.FolderInProgress,
		},
		{
			// A paid policy in the renewal quoting pipeline.
			name:      "renewal stage wins over renewal window",
			mutate:    func(p *engine.Policy) { p.Stage = engine.StageInQuoteRenewal; p.EffectiveEnd = today.AddDays(10) },
			aggregate: engine.StatusPaid,
			want:      engine.FolderRenewalInProgress,
		},
		{
			name:      "effective end within 30 days means to renew",
			mutate:    func(p *engine.Policy) { p.EffectiveEnd = today.AddDays(20) },
			aggregate: engine.StatusPaid,
			want:      engine.FolderToRenew,
		},
		{
			name:      "explicit to_renew stage",
			mutate:    func(p *engine.Policy) { p.Stage = engine.StageToRenew },
			aggregate: engine.StatusPaid,
			want:      engine.FolderToRenew,
		},
		{
			// Renewed never re-enters ToRenew, even near its end date.
			name:      "renewed excluded from to renew",
			mutate:    func(p *engine.Policy) { p.Stage = engine.StageRenewed; p.EffectiveEnd = today.AddDays(10) },
			aggregate: engine.StatusPaid,
			want:      engine.FolderRenewed,
		},
		{
			name:      "paid and quiet is active",
			mutate:    func(p *engine.Policy) {},
			aggregate: engine.StatusPaid,
			want:      engine.FolderActive,
		},
		{
			// Unknown aggregate matches no rule: residual bucket.
			name:      "unknown status falls through",
			mutate:    func(p *engine.Policy) {},
			aggregate: engine.StatusUnknown,
			want:      engine.FolderNone,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := paidPolicy(today)
			c.mutate(&p)
			if got := engine.ClassifyFolder(p, c.aggregate, today); got != c.want {
				t.Errorf("got %s, want %s", got, c.want)
			}
		})
	}
}

func TestClassifyFolder_NoticeDateOverride(t *testing.T) {
	// GIVEN: a paid policy ending far out, but with an explicit renewal
	// notice date already reached
	today := date(2024, time.June, 1)
	p := paidPolicy(today)
	p.RenewalNoticeDate = today.AddDays(-1)

	// THEN: the override pulls the policy into ToRenew ahead of the
	// default end-minus-30 window.
	if got := engine.ClassifyFolder(p, engine.StatusPaid, today); got != engine.FolderToRenew {
		t.Errorf("got %s, want %s", got, engine.FolderToRenew)
	}
}

func TestClassifyFolder_DefaultNoticeIsEndMinus30(t *testing.T) {
	today := date(2024, time.June, 1)

	// End 31 days out: notice date tomorrow, window not yet entered.
	p := paidPolicy(today)
	p.EffectiveEnd = today.AddDays(31)
	if got := engine.ClassifyFolder(p, engine.StatusPaid, today); got != engine.FolderActive {
		t.Errorf("31 days from end: got %s, want %s", got, engine.FolderActive)
	}

	// End exactly 30 days out: window entered today.
	p.EffectiveEnd = today.AddDays(30)
	if got := engine.ClassifyFolder(p, engine.StatusPaid, today); got != engine.FolderToRenew {
		t.Errorf("30 days from end: got %s, want %s", got, engine.FolderToRenew)
	}
}

func TestClassifyFolder_ExactlyOneFolder(t *testing.T) {
	// Every (stage, aggregate) combination yields exactly one folder, and
	// never the synthetic FolderAll.
	today := date(2024, time.June, 1)
	stages := []engine.Stage{
		engine.StageIssued, engine.StageCancelled, engine.StageRenewed,
		engine.StageInQuoteRenewal, engine.StageQuoteReady, engine.StageQuoteSent,
		engine.StagePendingIssuanceRenewal, engine.StageToRenew,
	}
	statuses := []engine.Status{
		engine.StatusPaid, engine.StatusOverdue, engine.StatusDueSoon,
		engine.StatusPending, engine.StatusUnknown,
	}

	for _, stage := range stages {
		for _, status := range statuses {
			p := paidPolicy(today)
			p.Stage = stage
			got := engine.ClassifyFolder(p, status, today)
			if got == engine.FolderAll {
				t.Errorf("stage=%s status=%s: FolderAll must never be assigned", stage, status)
			}
		}
	}
}
