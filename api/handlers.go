/*
handlers.go - HTTP API handlers for the policy back office

PURPOSE:
  Exposes the schedule/status engine over REST. Handlers parse HTTP,
  load immutable snapshots from the store, call the engine, and render
  DTOs. Derived values are computed per request against a single
  snapshot date; nothing derived is ever persisted.

ENDPOINTS:
  Policies:
    GET    /api/policies                        Evaluated portfolio (?folder= filter)
    POST   /api/policies                        Capture a policy payload
    GET    /api/policies/{id}                   Policy detail with schedule
    DELETE /api/policies/{id}                   Remove a policy
    GET    /api/policies/{id}/schedule          Receipt schedule only
    POST   /api/policies/{id}/receipts/{number}/payment  Record a payment

  Worklist:
    GET    /api/worklist                        Folder counts
    GET    /api/duplicates                      Duplicate report

  Scenarios:
    GET    /api/scenarios                       List demo scenarios
    POST   /api/scenarios/load                  Load a demo scenario
    POST   /api/scenarios/reset                 Clear the portfolio

TEST DATES:
  Every read endpoint accepts ?as_of=YYYY-MM-DD to pin the evaluation
  date; it defaults to the current date. One request = one snapshot date.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Policy/receipt not found
  - 422: Payload normalized but not schedulable
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo portfolio seeds
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/warp/policy-engine/engine"
	"github.com/warp/policy-engine/factory"
	"github.com/warp/policy-engine/insurers"
	"github.com/warp/policy-engine/portfolio"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   portfolio.Store
	Factory *factory.PolicyFactory
	Log     *logrus.Logger

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store portfolio.Store, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.New()
	}
	return &Handler{
		Store:   store,
		Factory: factory.NewPolicyFactory(),
		Log:     log,
	}
}

// asOf resolves the snapshot date for a request: ?as_of=YYYY-MM-DD wins,
// else the current date.
func asOf(r *http.Request) engine.Date {
	if s := r.URL.Query().Get("as_of"); s != "" {
		if d := engine.ParseDate(s); !d.IsZero() {
			return d
		}
	}
	return engine.Today()
}

// =============================================================================
// POLICY HANDLERS
// =============================================================================

// ListPolicies returns the evaluated portfolio, optionally filtered by folder.
func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	entries, err := portfolio.LoadEntries(r.Context(), h.Store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load portfolio", err)
		return
	}

	today := asOf(r)
	worklist := portfolio.BuildWorklist(entries, today)

	evaluations := worklist.Evaluations
	if folder := r.URL.Query().Get("folder"); folder != "" {
		evaluations = worklist.ByFolder(engine.Folder(folder))
	}

	dtos := make([]PolicyDTO, len(evaluations))
	for i, ev := range evaluations {
		dtos[i] = toPolicyDTO(ev, today, false)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePolicy captures a policy payload, normalizes it, and persists the
// policy plus its receipt schedule. Payloads without receipts get the
// generated fallback schedule persisted on first save, which then becomes
// the authoritative set.
func (h *Handler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	policy, receipts, err := h.Factory.ParsePolicy(string(raw))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, engine.ErrInvalidConfiguration) || errors.Is(err, engine.ErrMissingRequiredDate) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, "Invalid policy payload", err)
		return
	}

	schedule := engine.GenerateScheduleWithGrace(policy, receipts, insurers.GracePeriodDays)

	ctx := r.Context()
	if err := h.Store.SavePolicy(ctx, policy); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save policy", err)
		return
	}
	if err := h.Store.SaveReceipts(ctx, policy.ID, schedule); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save receipts", err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"policy":   policy.ID,
		"insurer":  policy.Insurer,
		"receipts": len(schedule),
	}).Info("policy captured")

	today := asOf(r)
	ev := portfolio.Evaluate(portfolio.Entry{Policy: policy, Receipts: schedule}, today)
	writeJSON(w, http.StatusCreated, toPolicyDTO(ev, today, true))
}

// GetPolicy returns the full evaluated view of one policy.
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.loadEntry(w, r)
	if !ok {
		return
	}

	today := asOf(r)
	ev := portfolio.Evaluate(entry, today)
	writeJSON(w, http.StatusOK, toPolicyDTO(ev, today, true))
}

// DeletePolicy removes a policy and its receipts.
func (h *Handler) DeletePolicy(w http.ResponseWriter, r *http.Request) {
	id := engine.PolicyID(chi.URLParam(r, "id"))
	if err := h.Store.DeletePolicy(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete policy", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSchedule returns the receipt schedule of one policy.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.loadEntry(w, r)
	if !ok {
		return
	}

	today := asOf(r)
	ev := portfolio.Evaluate(entry, today)
	dtos := make([]ReceiptDTO, len(ev.Schedule))
	for i, rec := range ev.Schedule {
		dtos[i] = toReceiptDTO(rec, ev.Statuses[i], today)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RecordPayment records a payment against one receipt.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id := engine.PolicyID(chi.URLParam(r, "id"))
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number < 1 {
		writeError(w, http.StatusBadRequest, "Invalid receipt number", err)
		return
	}

	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	paidDate := engine.ParseDate(req.PaidDate)
	if paidDate.IsZero() {
		if req.PaidDate != "" {
			writeError(w, http.StatusBadRequest, "Invalid paid_date format (use YYYY-MM-DD)", nil)
			return
		}
		paidDate = engine.Today()
	}

	if err := h.Store.MarkReceiptPaid(r.Context(), id, number, paidDate, req.ProofURL, req.InsurerReceiptURL); err != nil {
		writeError(w, http.StatusNotFound, "Receipt not found", err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"policy":  id,
		"receipt": number,
		"paid_on": paidDate.String(),
	}).Info("payment recorded")

	entry, ok := h.loadEntry(w, r)
	if !ok {
		return
	}
	today := asOf(r)
	writeJSON(w, http.StatusOK, toPolicyDTO(portfolio.Evaluate(entry, today), today, true))
}

// =============================================================================
// WORKLIST HANDLERS
// =============================================================================

// GetWorklist returns the folder counts for the whole portfolio.
func (h *Handler) GetWorklist(w http.ResponseWriter, r *http.Request) {
	entries, err := portfolio.LoadEntries(r.Context(), h.Store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load portfolio", err)
		return
	}

	today := asOf(r)
	worklist := portfolio.BuildWorklist(entries, today)

	folders := make(map[string]int, len(worklist.Counts))
	for folder, count := range worklist.Counts {
		name := string(folder)
		if name == "" {
			name = "uncategorized"
		}
		folders[name] = count
	}

	writeJSON(w, http.StatusOK, WorklistDTO{
		AsOf:    today.String(),
		Total:   len(entries),
		Folders: folders,
	})
}

// GetDuplicates returns the duplicate report for the whole portfolio.
func (h *Handler) GetDuplicates(w http.ResponseWriter, r *http.Request) {
	entries, err := portfolio.LoadEntries(r.Context(), h.Store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load portfolio", err)
		return
	}

	report := portfolio.Duplicates(entries)
	writeJSON(w, http.StatusOK, DuplicateReportDTO{
		ExactDuplicates:     toDuplicateFlagDTOs(report.ExactDuplicates),
		VINCollisions:       toDuplicateFlagDTOs(report.VINCollisions),
		PolicyVINMismatches: toDuplicateFlagDTOs(report.PolicyVINMismatches),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) loadEntry(w http.ResponseWriter, r *http.Request) (portfolio.Entry, bool) {
	id := engine.PolicyID(chi.URLParam(r, "id"))

	policy, err := h.Store.GetPolicy(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get policy", err)
		return portfolio.Entry{}, false
	}
	if policy == nil {
		writeError(w, http.StatusNotFound, "Policy not found", nil)
		return portfolio.Entry{}, false
	}

	receipts, err := h.Store.ReceiptsForPolicy(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load receipts", err)
		return portfolio.Entry{}, false
	}
	return portfolio.Entry{Policy: *policy, Receipts: receipts}, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
