package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/andikar-ai/gateway/ports"
)

// APILogStore is an in-memory implementation of ports.APILogStore.
type APILogStore struct {
	mu      sync.RWMutex
	entries []ports.APILog
}

// NewAPILogStore creates a new in-memory API log store.
func NewAPILogStore() *APILogStore {
	return &APILogStore{}
}

// Record stores one API call log entry.
func (s *APILogStore) Record(ctx context.Context, entry ports.APILog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// RecentByUser returns the newest entries for a user.
func (s *APILogStore) RecentByUser(ctx context.Context, userID string, limit int) ([]ports.APILog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ports.APILog
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountByEndpoint returns request counts grouped by endpoint.
func (s *APILogStore) CountByEndpoint(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, e := range s.entries {
		counts[e.Endpoint]++
	}
	return counts, nil
}

// All returns a copy of every entry (for testing).
func (s *APILogStore) All() []ports.APILog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.APILog(nil), s.entries...)
}

// Ensure interface compliance.
var _ ports.APILogStore = (*APILogStore)(nil)
