/*
Package engine provides the payment schedule and policy status engine.

PURPOSE:
  This package contains the core rules of the insurance back-office: how a
  policy's receipt schedule is generated, how each receipt and the policy as
  a whole derive a payment status from dates and payment records, how receipt
  amounts aggregate into summary buckets, how policies are triaged into
  worklist folders, and how duplicate policy records are detected.

KEY CONCEPTS IN THIS FILE (types.go):
  - Policy: One insurance contract record (the canonical shape)
  - Receipt: One scheduled installment under a policy
  - Status/Stage/Folder: The classification vocabularies
  - PaymentType/Frequency: Payment cadence configuration

DESIGN PRINCIPLES:
  1. Purity: Every computation is a function of (inputs, today) with no
     ambient state. Re-invocation with the same inputs is idempotent.
  2. Precision: Uses decimal.Decimal for money to avoid floating-point drift.
  3. Degraded but valid: Malformed input yields neutral results (empty
     schedule, Unknown status, zero totals), never panics or errors across
     the engine boundary.
  4. Normalized input: Collaborators normalize loosely-shaped capture
     payloads into these canonical types BEFORE calling the engine
     (see the factory package).

USAGE:
  schedule := engine.GenerateSchedule(policy, persisted)
  status := engine.ClassifyPolicy(schedule, policy.StoredStatus, today)
  folder := engine.ClassifyFolder(policy, status, today)

SEE ALSO:
  - schedule.go: Receipt schedule generation
  - status.go: Receipt and policy status classification
  - summary.go: Financial summary buckets
  - folder.go: Worklist folder classification
  - duplicates.go: Portfolio duplicate detection
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type PolicyID string

// =============================================================================
// PAYMENT CADENCE
// =============================================================================

// PaymentType is the payment cadence of a policy.
type PaymentType string

const (
	PaymentAnnual     PaymentType = "annual"     // single yearly payment
	PaymentFractional PaymentType = "fractional" // installments per Frequency
)

// Frequency is the installment cadence for fractional policies.
// Required iff PaymentType is fractional.
type Frequency string

const (
	FreqMonthly    Frequency = "monthly"    // 12 receipts
	FreqQuarterly  Frequency = "quarterly"  // 4 receipts
	FreqSemiannual Frequency = "semiannual" // 2 receipts
)

// MonthsPerReceipt returns the number of months between consecutive receipts,
// or 0 for an unknown frequency.
func (f Frequency) MonthsPerReceipt() int {
	switch f {
	case FreqMonthly:
		return 1
	case FreqQuarterly:
		return 3
	case FreqSemiannual:
		return 6
	default:
		return 0
	}
}

// =============================================================================
// LIFECYCLE STAGE
// =============================================================================

// Stage is the lifecycle tag of a policy, set by the capture/renewal flows.
type Stage string

const (
	StageIssued                 Stage = "issued"
	StageCancelled              Stage = "cancelled"
	StageRenewed                Stage = "renewed"
	StageInQuoteRenewal         Stage = "in_quote_renewal"
	StageQuoteReady             Stage = "quote_ready"
	StageQuoteSent              Stage = "quote_sent"
	StagePendingIssuanceRenewal Stage = "pending_issuance_renewal"
	StageToRenew                Stage = "to_renew"
)

// IsRenewalInProgress reports whether the stage is one of the active
// renewal-pipeline stages.
func (s Stage) IsRenewalInProgress() bool {
	switch s {
	case StageInQuoteRenewal, StageQuoteReady, StageQuoteSent, StagePendingIssuanceRenewal:
		return true
	default:
		return false
	}
}

// =============================================================================
// PAYMENT STATUS
// =============================================================================

// Status is the payment status of a receipt, or the aggregate status of a
// policy (derived from its first unpaid receipt).
type Status string

const (
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
	StatusDueSoon Status = "due_soon" // "por vencer"
	StatusPending Status = "pending"

	// StatusUnknown means there was insufficient data to classify: the policy
	// has no schedule and no stored status. Distinct from StatusPending so
	// callers can tell "not classifiable" from "classified as pending".
	StatusUnknown Status = "unknown"
)

// =============================================================================
// WORKLIST FOLDER
// =============================================================================

// Folder is a mutually-exclusive worklist bucket used to triage policies.
// FolderAll is the trivial superset and is never returned by classification.
type Folder string

const (
	FolderAll               Folder = "all"
	FolderInProgress        Folder = "in_progress"
	FolderActive            Folder = "active"
	FolderRenewed           Folder = "renewed"
	FolderRenewalInProgress Folder = "renewal_in_progress"
	FolderToRenew           Folder = "to_renew"
	FolderOverdue           Folder = "overdue"
	FolderCancelled         Folder = "cancelled"

	// FolderNone is the residual bucket for policies matching no rule.
	FolderNone Folder = ""
)

// =============================================================================
// POLICY - One insurance contract record
// =============================================================================

// Policy is the canonical policy shape consumed by every engine component.
// Collaborators must normalize alternate field names and fallback chains into
// this shape at the boundary; the engine never performs field fallbacks.
type Policy struct {
	ID           PolicyID
	Insurer      string
	Product      string
	PolicyNumber string
	VIN          string // vehicle identification, optional

	PaymentType PaymentType
	Frequency   Frequency // required iff PaymentType == fractional

	EffectiveStart Date
	EffectiveEnd   Date // start + 1 year; maintained by capture, not re-derived

	TotalPremium decimal.Decimal

	// GracePeriodDays is the insurer-dependent number of days after
	// EffectiveStart before the first receipt is due. Zero means "use the
	// insurer default" (see insurers.GracePeriodDays).
	GracePeriodDays int

	// Optional per-receipt amount overrides. FirstPaymentAmount applies to
	// receipt #1 only when BOTH overrides are present.
	FirstPaymentAmount      *decimal.Decimal
	SubsequentPaymentAmount *decimal.Decimal

	Stage Stage

	// LastPaidReceiptCount is a legacy counter from older capture flows,
	// kept for records migrated without per-receipt paid dates.
	LastPaidReceiptCount int

	// RenewalNoticeDate overrides the default renewal notice date
	// (EffectiveEnd - 30 days) when set.
	RenewalNoticeDate Date

	// StoredStatus is the explicit payment status recorded at capture time.
	// Used as the aggregate fallback when the policy has no schedule.
	StoredStatus Status
}

// NoticeDate returns the effective renewal notice date: the explicit override
// when present, else 30 days before the effective end.
func (p Policy) NoticeDate() Date {
	if !p.RenewalNoticeDate.IsZero() {
		return p.RenewalNoticeDate
	}
	if p.EffectiveEnd.IsZero() {
		return Date{}
	}
	return p.EffectiveEnd.AddDays(-30)
}

// =============================================================================
// RECEIPT - One scheduled installment under a policy
// =============================================================================

// Receipt is one payment obligation under a policy. Number is 1..N within
// the policy, N being the schedule length. A non-zero PaidDate is the single
// source of truth for "paid"; payment is binary, never partial.
type Receipt struct {
	PolicyID PolicyID
	Number   int
	DueDate  Date
	Amount   decimal.Decimal
	PaidDate Date // zero = unpaid

	// Opaque attachments recorded by the payment flow; never interpreted here.
	ProofURL          string
	InsurerReceiptURL string
}

// Paid reports whether the receipt has been paid.
func (r Receipt) Paid() bool { return !r.PaidDate.IsZero() }

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

// MustParseDecimal parses a decimal string, returning zero on malformed input.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
