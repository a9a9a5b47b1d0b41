// Package store provides an in-memory portfolio.Store for tests and demos.
// It mirrors the SQLite implementation's semantics (replace-set receipts,
// insertion-ordered listing) without the database.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/policy-engine/engine"
	"github.com/warp/policy-engine/portfolio"
)

// Memory is a thread-safe in-memory store.
type Memory struct {
	mu       sync.RWMutex
	order    []engine.PolicyID
	policies map[engine.PolicyID]engine.Policy
	receipts map[engine.PolicyID][]engine.Receipt
}

var _ portfolio.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		policies: make(map[engine.PolicyID]engine.Policy),
		receipts: make(map[engine.PolicyID][]engine.Receipt),
	}
}

func (m *Memory) SavePolicy(ctx context.Context, p engine.Policy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.policies[p.ID]; !exists {
		m.order = append(m.order, p.ID)
	}
	m.policies[p.ID] = p
	return nil
}

func (m *Memory) GetPolicy(ctx context.Context, id engine.PolicyID) (*engine.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.policies[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Memory) ListPolicies(ctx context.Context) ([]engine.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]engine.Policy, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.policies[id])
	}
	return out, nil
}

func (m *Memory) DeletePolicy(ctx context.Context, id engine.PolicyID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.policies, id)
	delete(m.receipts, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) SaveReceipts(ctx context.Context, id engine.PolicyID, receipts []engine.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := make([]engine.Receipt, len(receipts))
	copy(set, receipts)
	sort.Slice(set, func(i, j int) bool { return set[i].Number < set[j].Number })
	m.receipts[id] = set
	return nil
}

func (m *Memory) ReceiptsForPolicy(ctx context.Context, id engine.PolicyID) ([]engine.Receipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set := m.receipts[id]
	out := make([]engine.Receipt, len(set))
	copy(out, set)
	return out, nil
}

func (m *Memory) MarkReceiptPaid(ctx context.Context, id engine.PolicyID, number int, paidDate engine.Date, proofURL, insurerReceiptURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.receipts[id]
	for i := range set {
		if set[i].Number == number {
			set[i].PaidDate = paidDate
			set[i].ProofURL = proofURL
			set[i].InsurerReceiptURL = insurerReceiptURL
			return nil
		}
	}
	return fmt.Errorf("receipt %d not found for policy %s", number, id)
}
