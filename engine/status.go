/*
status.go - Receipt and policy payment status classification

PURPOSE:
  Maps a single receipt (due date, paid date) to a payment status, and a
  policy's receipt set to one aggregate status.

PER-RECEIPT RULE (against a caller-supplied "today"):
  paid date present        -> Paid
  due date < today         -> Overdue
  due in 0..15 days        -> DueSoon ("por vencer")
  due in > 15 days         -> Pending

  Both boundaries of the DueSoon window are deliberate: a receipt due TODAY
  is DueSoon (not Overdue), and one due in exactly 15 days is DueSoon (not
  Pending). One UI surface shows a tighter 5-day inline badge; that is a
  display refinement on top of this canonical rule, never a separate status
  (see BadgeWindowDays).

AGGREGATE RULE:
  The policy status equals the status of its FIRST UNPAID receipt in
  ascending receipt-number order; all receipts paid -> Paid. With no
  receipts at all, the stored status is the fallback; with neither, the
  result is StatusUnknown - the engine must not invent a status when no
  schedule exists.

DETERMINISM:
  Classification is a pure function of (dueDate, paidDate, today). Callers
  supply "today" explicitly so batch evaluations share one snapshot date.

SEE ALSO:
  - summary.go: Buckets amounts by these statuses
  - folder.go: Uses the aggregate status for triage
*/
package engine

import "sort"

// DueSoonWindowDays is the canonical upper bound (inclusive) of the DueSoon
// window, in days from today.
const DueSoonWindowDays = 15

// BadgeWindowDays is the compact inline indicator threshold used by display
// layers. It refines the presentation of a DueSoon receipt; it is not a
// status of its own.
const BadgeWindowDays = 5

// ClassifyReceipt returns the payment status of one receipt as of today.
func ClassifyReceipt(r Receipt, today Date) Status {
	if r.Paid() {
		return StatusPaid
	}
	days := DaysBetween(today, r.DueDate)
	switch {
	case days < 0:
		return StatusOverdue
	case days <= DueSoonWindowDays:
		return StatusDueSoon
	default:
		return StatusPending
	}
}

// ClassifyPolicy returns the aggregate payment status of a policy from its
// receipts: the status of the first unpaid receipt in ascending number
// order, Paid when all are paid. With zero receipts the stored fallback is
// returned as-is, or StatusUnknown when there is none.
func ClassifyPolicy(receipts []Receipt, fallback Status, today Date) Status {
	if len(receipts) == 0 {
		if fallback != "" {
			return fallback
		}
		return StatusUnknown
	}

	ordered := make([]Receipt, len(receipts))
	copy(ordered, receipts)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Number < ordered[j].Number })

	for _, r := range ordered {
		if !r.Paid() {
			return ClassifyReceipt(r, today)
		}
	}
	return StatusPaid
}

// ExpiringSoon reports whether an unpaid receipt falls inside the compact
// 5-day badge window. Display-only; the receipt's status is still the
// canonical ClassifyReceipt result.
func ExpiringSoon(r Receipt, today Date) bool {
	if r.Paid() {
		return false
	}
	days := DaysBetween(today, r.DueDate)
	return days >= 0 && days <= BadgeWindowDays
}
