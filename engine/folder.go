/*
folder.go - Worklist folder classification

PURPOSE:
  Assigns a policy to exactly one operational worklist folder from its
  lifecycle stage, aggregate payment status, and renewal-window timing.
  The categories are not naturally disjoint, so evaluation order matters:
  the FIRST matching rule wins.

PRIORITY ORDER:
  1. Cancelled          stage == cancelled
  2. Overdue            aggregate status == overdue
  3. InProgress         aggregate status in {pending, due_soon}
  4. RenewalInProgress  stage in the renewal pipeline
  5. ToRenew            renewal notice reached, OR effective end within
                        0..30 days, OR stage == to_renew explicitly
  6. Renewed            stage == renewed
  7. Active             paid, no renewal stage, outside the renewal window

  Anything matching none of these lands in FolderNone, the UI's residual
  bucket. A cancelled or renewed policy never reaches the Active/ToRenew
  rules: Cancelled wins outright at rule 1; Renewed is excluded from rule 5
  and caught at rule 6 before rule 7.

RENEWAL WINDOW:
  The renewal notice date defaults to 30 days before the effective end;
  a policy-level override wins (Policy.NoticeDate).

SEE ALSO:
  - status.go: Produces the aggregate status consumed here
  - portfolio: Builds whole-worklist folder counts from this
*/
package engine

// ClassifyFolder returns the single worklist folder for a policy given its
// aggregate payment status, as of today. FolderAll is a trivial superset
// maintained by the worklist layer and never returned here.
func ClassifyFolder(p Policy, aggregate Status, today Date) Folder {
	if p.Stage == StageCancelled {
		return FolderCancelled
	}
	if aggregate == StatusOverdue {
		return FolderOverdue
	}
	if aggregate == StatusPending || aggregate == StatusDueSoon {
		return FolderInProgress
	}
	if p.Stage.IsRenewalInProgress() {
		return FolderRenewalInProgress
	}
	if p.Stage != StageRenewed && toRenew(p, today) {
		return FolderToRenew
	}
	if p.Stage == StageRenewed {
		return FolderRenewed
	}
	if aggregate == StatusPaid && !inRenewalWindow(p, today) {
		return FolderActive
	}
	return FolderNone
}

// toRenew reports whether the policy has entered its renewal window or was
// explicitly staged for renewal.
func toRenew(p Policy, today Date) bool {
	if p.Stage == StageToRenew {
		return true
	}
	if notice := p.NoticeDate(); !notice.IsZero() && notice.BeforeOrEqual(today) {
		return true
	}
	if !p.EffectiveEnd.IsZero() {
		days := DaysBetween(today, p.EffectiveEnd)
		if days >= 0 && days <= 30 {
			return true
		}
	}
	return false
}

// inRenewalWindow reports whether today falls at or past the renewal notice
// date or within 30 days of the effective end. A paid policy inside this
// window belongs in ToRenew, not Active.
func inRenewalWindow(p Policy, today Date) bool {
	if notice := p.NoticeDate(); !notice.IsZero() && notice.BeforeOrEqual(today) {
		return true
	}
	if !p.EffectiveEnd.IsZero() && DaysBetween(today, p.EffectiveEnd) <= 30 {
		return true
	}
	return false
}
