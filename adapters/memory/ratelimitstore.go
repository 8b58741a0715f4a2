// Package memory provides in-memory implementations of storage ports.
// Used by tests and by --in-memory development mode.
package memory

import (
	"context"
	"sync"

	"github.com/andikar-ai/gateway/domain/ratelimit"
	"github.com/andikar-ai/gateway/ports"
)

// RateLimitStore is an in-memory implementation of ports.RateLimitStore.
type RateLimitStore struct {
	mu      sync.RWMutex
	records map[string]ratelimit.Record
}

// NewRateLimitStore creates a new in-memory rate limit store.
func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{
		records: make(map[string]ratelimit.Record),
	}
}

// Get retrieves the record for a key. Unseen keys yield a zero record.
func (s *RateLimitStore) Get(ctx context.Context, key string) (ratelimit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	if !ok {
		return ratelimit.Record{Key: key}, nil
	}
	// Copy the slice so callers cannot mutate stored state.
	out := rec
	out.Timestamps = append([]float64(nil), rec.Timestamps...)
	return out, nil
}

// Put stores the timestamp list for a key.
func (s *RateLimitStore) Put(ctx context.Context, key string, timestamps []float64, lastUpdated float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = ratelimit.Record{
		Key:         key,
		Timestamps:  append([]float64(nil), timestamps...),
		LastUpdated: lastUpdated,
	}
	return nil
}

// Clear removes all records (for testing).
func (s *RateLimitStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]ratelimit.Record)
}

// Ensure interface compliance.
var _ ports.RateLimitStore = (*RateLimitStore)(nil)
