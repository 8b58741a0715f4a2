package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/andikar-ai/gateway/ports"
)

// UserStore is an in-memory implementation of ports.UserStore.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]ports.User
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]ports.User),
	}
}

// Get retrieves a user by ID.
func (s *UserStore) Get(ctx context.Context, id string) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return ports.User{}, ports.ErrNotFound
	}
	return u, nil
}

// GetByUsername retrieves a user by username.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return ports.User{}, ports.ErrNotFound
}

// GetByEmail retrieves a user by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return ports.User{}, ports.ErrNotFound
}

// Create stores a new user.
func (s *UserStore) Create(ctx context.Context, u ports.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	return nil
}

// Update modifies an existing user.
func (s *UserStore) Update(ctx context.Context, u ports.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return ports.ErrNotFound
	}
	s.users[u.ID] = u
	return nil
}

// Delete removes a user.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ports.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// List returns users with pagination, ordered by join time.
func (s *UserStore) List(ctx context.Context, limit, offset int) ([]ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]ports.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].JoinedAt.Before(all[j].JoinedAt)
	})

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Count returns total user count.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

// AddWordsUsed accumulates processed words onto the account.
func (s *UserStore) AddWordsUsed(ctx context.Context, id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ports.ErrNotFound
	}
	u.WordsUsed += delta
	s.users[id] = u
	return nil
}

// Ensure interface compliance.
var _ ports.UserStore = (*UserStore)(nil)
