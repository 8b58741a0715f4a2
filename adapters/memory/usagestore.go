package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/andikar-ai/gateway/domain/usage"
	"github.com/andikar-ai/gateway/ports"
)

type usageKey struct {
	userID string
	day    usage.Day
}

// UsageStore is an in-memory implementation of ports.UsageStore.
type UsageStore struct {
	mu    sync.RWMutex
	stats map[usageKey]usage.Stat
}

// NewUsageStore creates a new in-memory usage store.
func NewUsageStore() *UsageStore {
	return &UsageStore{
		stats: make(map[usageKey]usage.Stat),
	}
}

// Get retrieves the aggregate for one (user, day) pair.
func (s *UsageStore) Get(ctx context.Context, userID string, day usage.Day) (usage.Stat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stat, ok := s.stats[usageKey{userID, day}]
	if !ok {
		return usage.Stat{}, ports.ErrNotFound
	}
	return stat, nil
}

// Upsert creates or replaces the aggregate row.
func (s *UsageStore) Upsert(ctx context.Context, stat usage.Stat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[usageKey{stat.UserID, stat.Date}] = stat
	return nil
}

// ListByUser returns the most recent aggregates for a user.
func (s *UsageStore) ListByUser(ctx context.Context, userID string, limit int) ([]usage.Stat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []usage.Stat
	for k, stat := range s.stats {
		if k.userID == userID {
			out = append(out, stat)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.String() > out[j].Date.String()
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListRange returns all aggregates between from and to inclusive.
func (s *UsageStore) ListRange(ctx context.Context, from, to usage.Day) ([]usage.Stat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []usage.Stat
	for k, stat := range s.stats {
		d := k.day.String()
		if d >= from.String() && d <= to.String() {
			out = append(out, stat)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.String() < out[j].Date.String()
	})
	return out, nil
}

// Ensure interface compliance.
var _ ports.UsageStore = (*UsageStore)(nil)
