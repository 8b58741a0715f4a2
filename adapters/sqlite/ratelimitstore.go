package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andikar-ai/gateway/domain/ratelimit"
	"github.com/andikar-ai/gateway/ports"
)

// RateLimitStore implements ports.RateLimitStore using SQLite.
// Timestamp lists are stored as a JSON array per key.
type RateLimitStore struct {
	db *DB
}

// NewRateLimitStore creates a new SQLite rate limit store.
func NewRateLimitStore(db *DB) *RateLimitStore {
	return &RateLimitStore{db: db}
}

// Get retrieves the record for a key. Unseen keys yield a zero record.
func (s *RateLimitStore) Get(ctx context.Context, key string) (ratelimit.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT timestamps, last_updated
		FROM rate_limits
		WHERE key = ?
	`, key)

	var raw string
	rec := ratelimit.Record{Key: key}
	err := row.Scan(&raw, &rec.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, nil
	}
	if err != nil {
		return ratelimit.Record{}, fmt.Errorf("get rate limit %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), &rec.Timestamps); err != nil {
		return ratelimit.Record{}, fmt.Errorf("decode timestamps for %q: %w", key, err)
	}
	return rec, nil
}

// Put stores the timestamp list for a key.
func (s *RateLimitStore) Put(ctx context.Context, key string, timestamps []float64, lastUpdated float64) error {
	if timestamps == nil {
		timestamps = []float64{}
	}
	raw, err := json.Marshal(timestamps)
	if err != nil {
		return fmt.Errorf("encode timestamps for %q: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rate_limits (key, timestamps, last_updated)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			timestamps = excluded.timestamps,
			last_updated = excluded.last_updated
	`, key, string(raw), lastUpdated)
	if err != nil {
		return fmt.Errorf("put rate limit %q: %w", key, err)
	}
	return nil
}

// Ensure interface compliance.
var _ ports.RateLimitStore = (*RateLimitStore)(nil)
