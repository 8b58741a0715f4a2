package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/andikar-ai/gateway/domain/plan"
	"github.com/andikar-ai/gateway/ports"
)

// PlanStore is an in-memory implementation of ports.PlanStore.
type PlanStore struct {
	mu    sync.RWMutex
	plans map[string]plan.Plan
}

// NewPlanStore creates a new in-memory plan store.
func NewPlanStore() *PlanStore {
	return &PlanStore{
		plans: make(map[string]plan.Plan),
	}
}

// Get retrieves a plan by ID.
func (s *PlanStore) Get(ctx context.Context, id string) (plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.plans[id]
	if !ok {
		return plan.Plan{}, ports.ErrNotFound
	}
	return p, nil
}

// List returns all plans ordered by price.
func (s *PlanStore) List(ctx context.Context) ([]plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]plan.Plan, 0, len(s.plans))
	for _, p := range s.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

// Create stores a new plan.
func (s *PlanStore) Create(ctx context.Context, p plan.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[p.ID] = p
	return nil
}

// Update modifies a plan.
func (s *PlanStore) Update(ctx context.Context, p plan.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plans[p.ID]; !ok {
		return ports.ErrNotFound
	}
	s.plans[p.ID] = p
	return nil
}

// Delete removes a plan.
func (s *PlanStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plans[id]; !ok {
		return ports.ErrNotFound
	}
	delete(s.plans, id)
	return nil
}

// Ensure interface compliance.
var _ ports.PlanStore = (*PlanStore)(nil)
