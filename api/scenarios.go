/*
scenarios.go - Demo portfolio seeds

PURPOSE:
  Small, self-describing portfolios for demos and manual testing. Each
  scenario clears the store and seeds records whose dates are anchored to
  the load date, so every worklist folder and duplicate rule has something
  to show regardless of when it is loaded.

SCENARIOS:
  mixed-portfolio   One policy per worklist folder
  duplicate-records Three pairs exercising the three duplicate rules
  qualitas-grace    Fallback schedule generation with insurer grace defaults

SEE ALSO:
  - handlers.go: Scenario endpoints
  - portfolio: The evaluation the seeds are meant to exercise
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/warp/policy-engine/engine"
	"github.com/warp/policy-engine/insurers"
	"github.com/warp/policy-engine/portfolio"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ID          string
	Name        string
	Description string
	Seed        func(today engine.Date) []portfolio.Entry
}

var scenarios = []scenario{
	{
		ID:          "mixed-portfolio",
		Name:        "Mixed Portfolio",
		Description: "One policy per worklist folder: active, in progress, overdue, renewal pipeline, to renew, renewed, cancelled.",
		Seed:        seedMixedPortfolio,
	},
	{
		ID:          "duplicate-records",
		Name:        "Duplicate Records",
		Description: "Pairs exercising exact duplicates, VIN collisions, and policy/VIN mismatches.",
		Seed:        seedDuplicateRecords,
	},
	{
		ID:          "qualitas-grace",
		Name:        "Qualitas Grace Period",
		Description: "Generated schedules showing the 14-day Qualitas grace default against the 30-day standard.",
		Seed:        seedQualitasGrace,
	},
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = ScenarioDTO{ID: s.ID, Name: s.Name, Description: s.Description}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCurrentScenario returns the currently loaded scenario id, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": h.currentScenario})
}

// LoadScenario clears the portfolio and seeds the selected scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var selected *scenario
	for i := range scenarios {
		if scenarios[i].ID == req.ScenarioID {
			selected = &scenarios[i]
			break
		}
	}
	if selected == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown scenario %q", req.ScenarioID), nil)
		return
	}

	ctx := r.Context()
	if err := h.clearPortfolio(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear portfolio", err)
		return
	}

	today := asOf(r)
	for _, entry := range selected.Seed(today) {
		if err := h.Store.SavePolicy(ctx, entry.Policy); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to seed policy", err)
			return
		}
		if err := h.Store.SaveReceipts(ctx, entry.Policy.ID, entry.Receipts); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to seed receipts", err)
			return
		}
	}

	h.currentScenario = selected.ID
	h.Log.WithField("scenario", selected.ID).Info("scenario loaded")
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": selected.ID})
}

// ResetPortfolio clears every policy and receipt.
func (h *Handler) ResetPortfolio(w http.ResponseWriter, r *http.Request) {
	if err := h.clearPortfolio(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset portfolio", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) clearPortfolio(ctx context.Context) error {
	policies, err := h.Store.ListPolicies(ctx)
	if err != nil {
		return err
	}
	for _, p := range policies {
		if err := h.Store.DeletePolicy(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// =============================================================================
// SEEDS
// =============================================================================

func money(s string) decimal.Decimal { return engine.MustParseDecimal(s) }

// seedPolicy builds a fractional-monthly policy effective `monthsAgo` months
// before today, with its generated schedule, and the first `paid` receipts
// marked paid on their due dates.
func seedPolicy(id, insurer, number, vin string, stage engine.Stage, today engine.Date, monthsAgo, paid int) portfolio.Entry {
	start := today.AddMonths(-monthsAgo)
	p := engine.Policy{
		ID:             engine.PolicyID(id),
		Insurer:        insurer,
		Product:        "Auto Amplia",
		PolicyNumber:   number,
		VIN:            vin,
		PaymentType:    engine.PaymentFractional,
		Frequency:      engine.FreqMonthly,
		EffectiveStart: start,
		EffectiveEnd:   start.AddYears(1),
		TotalPremium:   money("24000.00"),
		Stage:          stage,
	}
	receipts := engine.GenerateScheduleWithGrace(p, nil, insurers.GracePeriodDays)
	for i := range receipts {
		if receipts[i].Number <= paid {
			receipts[i].PaidDate = receipts[i].DueDate
		}
	}
	return portfolio.Entry{Policy: p, Receipts: receipts}
}

func seedMixedPortfolio(today engine.Date) []portfolio.Entry {
	// Fully paid annual policy, far from renewal: Active.
	activeStart := today.AddMonths(-3)
	active := engine.Policy{
		ID:             "demo-active",
		Insurer:        "GNP",
		Product:        "Auto Amplia",
		PolicyNumber:   "GNP-1001",
		VIN:            "1HGCM82633A004352",
		PaymentType:    engine.PaymentAnnual,
		EffectiveStart: activeStart,
		EffectiveEnd:   activeStart.AddYears(1),
		TotalPremium:   money("18500.00"),
		Stage:          engine.StageIssued,
	}
	activeReceipts := []engine.Receipt{{
		PolicyID: active.ID, Number: 1,
		DueDate: activeStart.AddDays(30), Amount: money("18500.00"),
		PaidDate: activeStart.AddDays(10),
	}}

	// Fully paid but ending in 20 days: ToRenew.
	toRenew := seedPolicy("demo-to-renew", "AXA", "AXA-2002", "2FTRX18W1XCA01234", engine.StageIssued, today, 11, 12)
	toRenew.Policy.EffectiveStart = today.AddDays(20).AddYears(-1)
	toRenew.Policy.EffectiveEnd = today.AddDays(20)

	entries := []portfolio.Entry{
		{Policy: active, Receipts: activeReceipts},
		// First receipt unpaid, due a month out: Pending aggregate, InProgress.
		seedPolicy("demo-in-progress", "HDI", "HDI-3003", "3VWSE69M72M123456", engine.StageIssued, today, 0, 0),
		// Unpaid receipt three months overdue: Overdue.
		seedPolicy("demo-overdue", "Chubb", "CHB-4004", "5YJSA1DN5CFP01657", engine.StageIssued, today, 3, 0),
		// Renewal pipeline stage wins over payment status once paid.
		seedPolicy("demo-renewal-quote", "Mapfre", "MPF-5005", "WVWZZZ1JZXW000001", engine.StageQuoteSent, today, 10, 12),
		toRenew,
		seedPolicy("demo-renewed", "Zurich", "ZRH-6006", "JH4KA7660MC000000", engine.StageRenewed, today, 12, 12),
		seedPolicy("demo-cancelled", "Banorte", "BAN-7007", "KMHDU46D17U123456", engine.StageCancelled, today, 2, 1),
	}
	return entries
}

func seedDuplicateRecords(today engine.Date) []portfolio.Entry {
	vin := "3N1AB7AP7KY254789"
	entries := []portfolio.Entry{
		// Exact duplicates: same number, insurer, and VIN.
		seedPolicy("dup-exact-a", "Qualitas", "QUA-9001", vin, engine.StageIssued, today, 1, 1),
		seedPolicy("dup-exact-b", "Qualitas", "QUA-9001", vin, engine.StageIssued, today, 1, 1),
		// VIN collision: same VIN under different policy numbers.
		seedPolicy("dup-collision", "GNP", "GNP-9002", vin, engine.StageIssued, today, 2, 2),
		// Policy/VIN mismatch: same number and insurer, different VINs.
		seedPolicy("dup-mismatch-a", "AXA", "AXA-9003", "1FTFW1ET5DFC10312", engine.StageIssued, today, 1, 1),
		seedPolicy("dup-mismatch-b", "AXA", "AXA-9003", "2HGFB2F59DH542312", engine.StageIssued, today, 1, 1),
		// Empty VINs never trigger any rule.
		seedPolicy("dup-no-vin-a", "HDI", "HDI-9004", "", engine.StageIssued, today, 1, 1),
		seedPolicy("dup-no-vin-b", "HDI", "HDI-9004", "", engine.StageIssued, today, 1, 1),
	}
	return entries
}

func seedQualitasGrace(today engine.Date) []portfolio.Entry {
	qualitas := engine.Policy{
		ID:             "grace-qualitas",
		Insurer:        "Qualitas",
		Product:        "Auto Limitada",
		PolicyNumber:   "QUA-100",
		PaymentType:    engine.PaymentFractional,
		Frequency:      engine.FreqQuarterly,
		EffectiveStart: today,
		EffectiveEnd:   today.AddYears(1),
		TotalPremium:   money("12000.00"),
		Stage:          engine.StageIssued,
	}
	standard := engine.Policy{
		ID:             "grace-standard",
		Insurer:        "GNP",
		Product:        "Auto Limitada",
		PolicyNumber:   "GNP-101",
		PaymentType:    engine.PaymentFractional,
		Frequency:      engine.FreqQuarterly,
		EffectiveStart: today,
		EffectiveEnd:   today.AddYears(1),
		TotalPremium:   money("12000.00"),
		Stage:          engine.StageIssued,
	}
	return []portfolio.Entry{
		{Policy: qualitas, Receipts: engine.GenerateScheduleWithGrace(qualitas, nil, insurers.GracePeriodDays)},
		{Policy: standard, Receipts: engine.GenerateScheduleWithGrace(standard, nil, insurers.GracePeriodDays)},
	}
}
