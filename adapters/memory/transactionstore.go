package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/andikar-ai/gateway/ports"
)

// TransactionStore is an in-memory implementation of ports.TransactionStore.
type TransactionStore struct {
	mu  sync.RWMutex
	txs map[string]ports.Transaction
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		txs: make(map[string]ports.Transaction),
	}
}

// Get retrieves a transaction by ID.
func (s *TransactionStore) Get(ctx context.Context, id string) (ports.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.txs[id]
	if !ok {
		return ports.Transaction{}, ports.ErrNotFound
	}
	return tx, nil
}

// GetByReference retrieves a transaction by provider reference.
func (s *TransactionStore) GetByReference(ctx context.Context, reference string) (ports.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, tx := range s.txs {
		if tx.Reference == reference {
			return tx, nil
		}
	}
	return ports.Transaction{}, ports.ErrNotFound
}

// Create stores a new transaction.
func (s *TransactionStore) Create(ctx context.Context, tx ports.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs[tx.ID] = tx
	return nil
}

// UpdateStatus updates transaction status.
func (s *TransactionStore) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[id]
	if !ok {
		return ports.ErrNotFound
	}
	tx.Status = status
	tx.UpdatedAt = at
	s.txs[id] = tx
	return nil
}

// ListByUser returns transactions for a user, newest first.
func (s *TransactionStore) ListByUser(ctx context.Context, userID string, limit int) ([]ports.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ports.Transaction
	for _, tx := range s.txs {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// List returns transactions with pagination, newest first.
func (s *TransactionStore) List(ctx context.Context, limit, offset int) ([]ports.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ports.Transaction, 0, len(s.txs))
	for _, tx := range s.txs {
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Ensure interface compliance.
var _ ports.TransactionStore = (*TransactionStore)(nil)
