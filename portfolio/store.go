/*
store.go - Persistence interface for captured policies and receipts

PURPOSE:
  Defines the interface between the host layers (API, CLI) and the
  database. The engine itself owns no durable state: it recomputes every
  derived view (status, schedule, folder) on each invocation, so the store
  only holds what the capture flows recorded.

MUTATION CONTRACT:
  Receipts are written by capture (SaveReceipts, replace-set) and by the
  payment flow (MarkReceiptPaid). Derived values are NEVER persisted;
  anything the engine computes is recomputed on read.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - portfolio/store (memory.go): In-memory for tests

SEE ALSO:
  - portfolio.go: Consumes Entry snapshots loaded through this interface
*/
package portfolio

import (
	"context"

	"github.com/warp/policy-engine/engine"
)

// Store persists captured policies and their receipt sets.
type Store interface {
	// SavePolicy inserts or replaces a policy record.
	SavePolicy(ctx context.Context, p engine.Policy) error

	// GetPolicy returns a policy by id, or nil when absent.
	GetPolicy(ctx context.Context, id engine.PolicyID) (*engine.Policy, error)

	// ListPolicies returns all policies in insertion order.
	ListPolicies(ctx context.Context) ([]engine.Policy, error)

	// DeletePolicy removes a policy and its receipts.
	DeletePolicy(ctx context.Context, id engine.PolicyID) error

	// SaveReceipts replaces the receipt set of a policy.
	SaveReceipts(ctx context.Context, id engine.PolicyID, receipts []engine.Receipt) error

	// ReceiptsForPolicy returns the persisted receipts in number order.
	// An empty result means the schedule generator's fallback path applies.
	ReceiptsForPolicy(ctx context.Context, id engine.PolicyID) ([]engine.Receipt, error)

	// MarkReceiptPaid records a payment on one receipt: the paid date plus
	// the opaque proof attachments. Paid is binary; repeated calls update
	// the same receipt.
	MarkReceiptPaid(ctx context.Context, id engine.PolicyID, number int, paidDate engine.Date, proofURL, insurerReceiptURL string) error
}

// LoadEntries reads the whole portfolio as evaluation-ready entries.
func LoadEntries(ctx context.Context, s Store) ([]Entry, error) {
	policies, err := s.ListPolicies(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(policies))
	for _, p := range policies {
		receipts, err := s.ReceiptsForPolicy(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Policy: p, Receipts: receipts})
	}
	return entries, nil
}
