/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  engine's canonical types from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

CONVENTIONS:
  Money travels as 2-decimal strings ("1200.00"); dates as YYYY-MM-DD,
  empty string for absent. Each receipt DTO carries the display-only
  `expiring_soon` badge (the compact 5-day indicator) next to its
  canonical status.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/policy.go: PolicyJSON capture payload (request side)
*/
package api

import (
	"github.com/warp/policy-engine/engine"
	"github.com/warp/policy-engine/portfolio"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ReceiptDTO represents one scheduled receipt with its derived status.
type ReceiptDTO struct {
	Number            int    `json:"number"`
	DueDate           string `json:"due_date"`
	Amount            string `json:"amount"`
	PaidDate          string `json:"paid_date,omitempty"`
	Status            string `json:"status"`
	ExpiringSoon      bool   `json:"expiring_soon"`
	ProofURL          string `json:"proof_url,omitempty"`
	InsurerReceiptURL string `json:"insurer_receipt_url,omitempty"`
}

// SummaryDTO is the financial summary of a policy's receipt set.
type SummaryDTO struct {
	PaidTotal    string `json:"paid_total"`
	DueSoonTotal string `json:"due_soon_total"`
	OverdueTotal string `json:"overdue_total"`
	PendingTotal string `json:"pending_total"`
	PaidCount    int    `json:"paid_count"`
	ReceiptCount int    `json:"receipt_count"`
}

// PolicyDTO is the evaluated view of one policy.
type PolicyDTO struct {
	ID              string       `json:"id"`
	Insurer         string       `json:"insurer"`
	Product         string       `json:"product,omitempty"`
	PolicyNumber    string       `json:"policy_number"`
	VIN             string       `json:"vin,omitempty"`
	PaymentType     string       `json:"payment_type"`
	Frequency       string       `json:"frequency,omitempty"`
	EffectiveStart  string       `json:"effective_start"`
	EffectiveEnd    string       `json:"effective_end"`
	TotalPremium    string       `json:"total_premium"`
	Stage           string       `json:"stage"`
	AggregateStatus string       `json:"aggregate_status"`
	Folder          string       `json:"folder"`
	Summary         SummaryDTO   `json:"summary"`
	Receipts        []ReceiptDTO `json:"receipts,omitempty"`
}

// WorklistDTO is the folder-count view of the portfolio.
type WorklistDTO struct {
	AsOf    string         `json:"as_of"`
	Total   int            `json:"total"`
	Folders map[string]int `json:"folders"`
}

// DuplicateFlagDTO identifies one flagged policy within a duplicate rule.
type DuplicateFlagDTO struct {
	PolicyID     string `json:"policy_id"`
	PolicyNumber string `json:"policy_number"`
	VIN          string `json:"vin,omitempty"`
}

// DuplicateReportDTO is the portfolio duplicate scan result.
type DuplicateReportDTO struct {
	ExactDuplicates     []DuplicateFlagDTO `json:"exact_duplicates"`
	VINCollisions       []DuplicateFlagDTO `json:"vin_collisions"`
	PolicyVINMismatches []DuplicateFlagDTO `json:"policy_vin_mismatches"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// RecordPaymentRequest records a payment against one receipt.
type RecordPaymentRequest struct {
	PaidDate          string `json:"paid_date"` // defaults to today
	ProofURL          string `json:"proof_url,omitempty"`
	InsurerReceiptURL string `json:"insurer_receipt_url,omitempty"`
}

// LoadScenarioRequest selects a demo scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toReceiptDTO(r engine.Receipt, status engine.Status, today engine.Date) ReceiptDTO {
	return ReceiptDTO{
		Number:            r.Number,
		DueDate:           r.DueDate.String(),
		Amount:            r.Amount.StringFixed(2),
		PaidDate:          r.PaidDate.String(),
		Status:            string(status),
		ExpiringSoon:      engine.ExpiringSoon(r, today),
		ProofURL:          r.ProofURL,
		InsurerReceiptURL: r.InsurerReceiptURL,
	}
}

func toSummaryDTO(s engine.Summary) SummaryDTO {
	return SummaryDTO{
		PaidTotal:    s.PaidTotal.StringFixed(2),
		DueSoonTotal: s.DueSoonTotal.StringFixed(2),
		OverdueTotal: s.OverdueTotal.StringFixed(2),
		PendingTotal: s.PendingTotal.StringFixed(2),
		PaidCount:    s.PaidCount,
		ReceiptCount: s.ReceiptCount,
	}
}

func toPolicyDTO(ev portfolio.Evaluation, today engine.Date, includeReceipts bool) PolicyDTO {
	p := ev.Policy
	dto := PolicyDTO{
		ID:              string(p.ID),
		Insurer:         p.Insurer,
		Product:         p.Product,
		PolicyNumber:    p.PolicyNumber,
		VIN:             p.VIN,
		PaymentType:     string(p.PaymentType),
		Frequency:       string(p.Frequency),
		EffectiveStart:  p.EffectiveStart.String(),
		EffectiveEnd:    p.EffectiveEnd.String(),
		TotalPremium:    p.TotalPremium.StringFixed(2),
		Stage:           string(p.Stage),
		AggregateStatus: string(ev.Aggregate),
		Folder:          string(ev.Folder),
		Summary:         toSummaryDTO(ev.Summary),
	}
	if includeReceipts {
		dto.Receipts = make([]ReceiptDTO, len(ev.Schedule))
		for i, r := range ev.Schedule {
			dto.Receipts[i] = toReceiptDTO(r, ev.Statuses[i], today)
		}
	}
	return dto
}

func toDuplicateFlagDTOs(flags []engine.DuplicateFlag) []DuplicateFlagDTO {
	dtos := make([]DuplicateFlagDTO, len(flags))
	for i, f := range flags {
		dtos[i] = DuplicateFlagDTO{
			PolicyID:     string(f.PolicyID),
			PolicyNumber: f.PolicyNumber,
			VIN:          f.VIN,
		}
	}
	return dtos
}
