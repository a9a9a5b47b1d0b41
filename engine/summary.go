/*
summary.go - Financial summary buckets

PURPOSE:
  Sums receipt amounts per payment status for display: "paid $X, due soon
  $Y, overdue $Z, pending $W" plus the "3 of 12 paid" progress counter.

PRECISION:
  Accumulation happens in decimal.Decimal; rounding to the 2-decimal
  display precision happens once at the end, not at each step. The four
  bucket totals always reconcile with the sum of all receipt amounts.

SEE ALSO:
  - status.go: The per-receipt classification driving the buckets
*/
package engine

import "github.com/shopspring/decimal"

// Summary holds the per-status amount totals for a receipt set.
type Summary struct {
	PaidTotal    decimal.Decimal
	DueSoonTotal decimal.Decimal
	OverdueTotal decimal.Decimal
	PendingTotal decimal.Decimal

	// PaidCount of ReceiptCount receipts are paid ("X of N paid").
	PaidCount    int
	ReceiptCount int
}

// GrandTotal returns the sum of all four buckets.
func (s Summary) GrandTotal() decimal.Decimal {
	return s.PaidTotal.Add(s.DueSoonTotal).Add(s.OverdueTotal).Add(s.PendingTotal)
}

// Summarize buckets receipt amounts by status as of today.
func Summarize(receipts []Receipt, today Date) Summary {
	s := Summary{
		PaidTotal:    decimal.Zero,
		DueSoonTotal: decimal.Zero,
		OverdueTotal: decimal.Zero,
		PendingTotal: decimal.Zero,
		ReceiptCount: len(receipts),
	}

	for _, r := range receipts {
		switch ClassifyReceipt(r, today) {
		case StatusPaid:
			s.PaidTotal = s.PaidTotal.Add(r.Amount)
			s.PaidCount++
		case StatusDueSoon:
			s.DueSoonTotal = s.DueSoonTotal.Add(r.Amount)
		case StatusOverdue:
			s.OverdueTotal = s.OverdueTotal.Add(r.Amount)
		case StatusPending:
			s.PendingTotal = s.PendingTotal.Add(r.Amount)
		}
	}

	s.PaidTotal = s.PaidTotal.Round(2)
	s.DueSoonTotal = s.DueSoonTotal.Round(2)
	s.OverdueTotal = s.OverdueTotal.Round(2)
	s.PendingTotal = s.PendingTotal.Round(2)
	return s
}
