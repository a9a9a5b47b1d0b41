/*
Package factory normalizes capture payloads into canonical engine records.

PURPOSE:
  Policies and receipts arrive from two capture flows - manual entry and
  PDF import - as loosely-shaped JSON with alternate field names (English
  and Spanish capture forms disagree, and extracted PDF fields carry
  currency formatting). This package is the ONE place where those fallback
  chains are resolved: each payload is normalized exactly once into the
  canonical engine.Policy/engine.Receipt shape, and every engine component
  downstream consumes that shape uniformly.

WHY A FACTORY?
  - Alternate field names are a collaborator concern, not core logic
  - Validation errors surface here with the engine's sentinel errors,
    before anything reaches the classification rules
  - The API and CLI share one normalization path

JSON SCHEMA (primary names; capture-form aliases in parentheses):
  {
    "id": "pol-001",
    "insurer": "Qualitas",              (aseguradora)
    "product": "Amplia",                (producto)
    "policy_number": "POL-100",         (poliza)
    "vin": "3VWSE69M...",               (serie)
    "payment_type": "fractional",       (tipo_pago; anual/fraccionado)
    "frequency": "monthly",             (frecuencia; mensual/trimestral/semestral)
    "effective_start": "2024-01-01",    (inicio_vigencia)
    "effective_end": "2025-01-01",      (fin_vigencia; defaults to start + 1 year)
    "total_premium": "1200.00",         (prima_total; "$1,200.00" accepted)
    "grace_period_days": 30,
    "first_payment_amount": "150.00",
    "subsequent_payment_amount": "95.45",
    "stage": "issued",
    "last_paid_receipt_count": 0,
    "renewal_notice_date": "2024-12-02",
    "status": "pending",
    "receipts": [
      {"number": 1, "due_date": "2024-01-31", "amount": "100.00",
       "paid_date": "2024-01-20"}       (recibo/vencimiento/importe/fecha_pago)
    ]
  }

SEE ALSO:
  - engine/types.go: The canonical shapes produced here
  - engine/errors.go: Sentinels reported on invalid configurations
*/
package factory

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/policy-engine/engine"
	"github.com/warp/policy-engine/insurers"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PolicyJSON is the wire representation of a captured policy. Alias fields
// mirror the Spanish capture forms; Normalize resolves each fallback chain
// exactly once.
type PolicyJSON struct {
	ID string `json:"id"`

	Insurer      string `json:"insurer,omitempty"`
	Aseguradora  string `json:"aseguradora,omitempty"`
	Product      string `json:"product,omitempty"`
	Producto     string `json:"producto,omitempty"`
	PolicyNumber string `json:"policy_number,omitempty"`
	Poliza       string `json:"poliza,omitempty"`
	VIN          string `json:"vin,omitempty"`
	Serie        string `json:"serie,omitempty"`

	PaymentType string `json:"payment_type,omitempty"`
	TipoPago    string `json:"tipo_pago,omitempty"`
	Frequency   string `json:"frequency,omitempty"`
	Frecuencia  string `json:"frecuencia,omitempty"`

	EffectiveStart string `json:"effective_start,omitempty"`
	InicioVigencia string `json:"inicio_vigencia,omitempty"`
	EffectiveEnd   string `json:"effective_end,omitempty"`
	FinVigencia    string `json:"fin_vigencia,omitempty"`

	TotalPremium string `json:"total_premium,omitempty"`
	PrimaTotal   string `json:"prima_total,omitempty"`

	GracePeriodDays         int    `json:"grace_period_days,omitempty"`
	FirstPaymentAmount      string `json:"first_payment_amount,omitempty"`
	SubsequentPaymentAmount string `json:"subsequent_payment_amount,omitempty"`

	Stage                string `json:"stage,omitempty"`
	LastPaidReceiptCount int    `json:"last_paid_receipt_count,omitempty"`
	RenewalNoticeDate    string `json:"renewal_notice_date,omitempty"`
	Status               string `json:"status,omitempty"`

	Receipts []ReceiptJSON `json:"receipts,omitempty"`
}

// ReceiptJSON is the wire representation of a captured receipt.
type ReceiptJSON struct {
	Number      int    `json:"number,omitempty"`
	Recibo      int    `json:"recibo,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	Vencimiento string `json:"vencimiento,omitempty"`
	Amount      string `json:"amount,omitempty"`
	Importe     string `json:"importe,omitempty"`
	PaidDate    string `json:"paid_date,omitempty"`
	FechaPago   string `json:"fecha_pago,omitempty"`

	ProofURL          string `json:"proof_url,omitempty"`
	InsurerReceiptURL string `json:"insurer_receipt_url,omitempty"`
}

// =============================================================================
// FACTORY
// =============================================================================

// PolicyFactory converts capture payloads into canonical engine records.
type PolicyFactory struct{}

func NewPolicyFactory() *PolicyFactory { return &PolicyFactory{} }

// ParsePolicy decodes and normalizes a capture payload. The returned policy
// is canonical and validated; the returned receipt list may be empty when
// the payload carried none (the schedule generator's fallback path covers
// that case).
func (f *PolicyFactory) ParsePolicy(raw string) (engine.Policy, []engine.Receipt, error) {
	var pj PolicyJSON
	if err := json.Unmarshal([]byte(raw), &pj); err != nil {
		return engine.Policy{}, nil, fmt.Errorf("failed to parse policy payload: %w", err)
	}
	return f.Normalize(pj)
}

// Normalize resolves every alternate-name fallback chain once and validates
// the result. This is the single boundary between loosely-shaped capture
// data and the canonical shapes the engine consumes.
func (f *PolicyFactory) Normalize(pj PolicyJSON) (engine.Policy, []engine.Receipt, error) {
	if pj.ID == "" {
		return engine.Policy{}, nil, fmt.Errorf("policy payload has no id")
	}

	p := engine.Policy{
		ID:                   engine.PolicyID(pj.ID),
		Insurer:              insurers.Canonical(first(pj.Insurer, pj.Aseguradora)),
		Product:              first(pj.Product, pj.Producto),
		PolicyNumber:         strings.TrimSpace(first(pj.PolicyNumber, pj.Poliza)),
		VIN:                  strings.TrimSpace(first(pj.VIN, pj.Serie)),
		PaymentType:          normalizePaymentType(first(pj.PaymentType, pj.TipoPago)),
		Frequency:            normalizeFrequency(first(pj.Frequency, pj.Frecuencia)),
		EffectiveStart:       engine.ParseDate(first(pj.EffectiveStart, pj.InicioVigencia)),
		EffectiveEnd:         engine.ParseDate(first(pj.EffectiveEnd, pj.FinVigencia)),
		TotalPremium:         parseMoney(first(pj.TotalPremium, pj.PrimaTotal)),
		GracePeriodDays:      pj.GracePeriodDays,
		Stage:                normalizeStage(pj.Stage),
		LastPaidReceiptCount: pj.LastPaidReceiptCount,
		RenewalNoticeDate:    engine.ParseDate(pj.RenewalNoticeDate),
		StoredStatus:         engine.Status(strings.ToLower(strings.TrimSpace(pj.Status))),
	}

	p.FirstPaymentAmount = parseOptionalMoney(pj.FirstPaymentAmount)
	p.SubsequentPaymentAmount = parseOptionalMoney(pj.SubsequentPaymentAmount)

	// Annual frequency is meaningless; drop it before validation.
	if p.PaymentType == engine.PaymentAnnual {
		p.Frequency = ""
	}
	if err := engine.Schedulable(p); err != nil {
		// A missing start date only blocks the generation path; payloads
		// carrying their own receipt set are still usable.
		if len(pj.Receipts) == 0 || errors.Is(err, engine.ErrInvalidConfiguration) {
			return p, nil, err
		}
	}

	if p.EffectiveEnd.IsZero() && !p.EffectiveStart.IsZero() {
		p.EffectiveEnd = p.EffectiveStart.AddYears(1)
	}

	receipts := make([]engine.Receipt, 0, len(pj.Receipts))
	for _, rj := range pj.Receipts {
		receipts = append(receipts, engine.Receipt{
			PolicyID:          p.ID,
			Number:            firstInt(rj.Number, rj.Recibo),
			DueDate:           engine.ParseDate(first(rj.DueDate, rj.Vencimiento)),
			Amount:            parseMoney(first(rj.Amount, rj.Importe)),
			PaidDate:          engine.ParseDate(first(rj.PaidDate, rj.FechaPago)),
			ProofURL:          rj.ProofURL,
			InsurerReceiptURL: rj.InsurerReceiptURL,
		})
	}
	return p, receipts, nil
}

// =============================================================================
// NORMALIZERS
// =============================================================================

func normalizePaymentType(s string) engine.PaymentType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "annual", "anual", "yearly":
		return engine.PaymentAnnual
	case "fractional", "fraccionado", "fractioned":
		return engine.PaymentFractional
	default:
		return engine.PaymentType(strings.ToLower(strings.TrimSpace(s)))
	}
}

func normalizeFrequency(s string) engine.Frequency {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly", "mensual":
		return engine.FreqMonthly
	case "quarterly", "trimestral":
		return engine.FreqQuarterly
	case "semiannual", "semestral", "biannual":
		return engine.FreqSemiannual
	default:
		return engine.Frequency(strings.ToLower(strings.TrimSpace(s)))
	}
}

func normalizeStage(s string) engine.Stage {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "issued", "emitida":
		return engine.StageIssued
	case "cancelled", "canceled", "cancelada":
		return engine.StageCancelled
	case "renewed", "renovada":
		return engine.StageRenewed
	case "in_quote_renewal", "en_cotizacion":
		return engine.StageInQuoteRenewal
	case "quote_ready", "cotizacion_lista":
		return engine.StageQuoteReady
	case "quote_sent", "cotizacion_enviada":
		return engine.StageQuoteSent
	case "pending_issuance_renewal", "por_emitir":
		return engine.StagePendingIssuanceRenewal
	case "to_renew", "por_renovar":
		return engine.StageToRenew
	default:
		return engine.Stage(strings.ToLower(strings.TrimSpace(s)))
	}
}

// parseMoney accepts plain decimals plus the currency formatting PDF
// extraction leaves behind ("$1,200.00"). Malformed input degrades to zero.
func parseMoney(s string) decimal.Decimal {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if cleaned == "" {
		return decimal.Zero
	}
	return engine.MustParseDecimal(cleaned)
}

func parseOptionalMoney(s string) *decimal.Decimal {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	d := parseMoney(s)
	return &d
}

func first(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstInt(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
