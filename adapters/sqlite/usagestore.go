package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andikar-ai/gateway/domain/usage"
	"github.com/andikar-ai/gateway/ports"
)

// UsageStore implements ports.UsageStore using SQLite.
// One row per (user_id, year, month, day).
type UsageStore struct {
	db *DB
}

// NewUsageStore creates a new SQLite usage store.
func NewUsageStore(db *DB) *UsageStore {
	return &UsageStore{db: db}
}

// Get retrieves the aggregate for one (user, day) pair.
func (s *UsageStore) Get(ctx context.Context, userID string, day usage.Day) (usage.Stat, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, humanize_requests, detect_requests, words_processed, total_processing_time, updated_at
		FROM usage_stats
		WHERE user_id = ? AND year = ? AND month = ? AND day = ?
	`, userID, day.Year, day.Month, day.Day)

	stat := usage.Stat{UserID: userID, Date: day}
	err := row.Scan(
		&stat.ID,
		&stat.HumanizeRequests,
		&stat.DetectRequests,
		&stat.WordsProcessed,
		&stat.TotalProcessingTime,
		&stat.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return usage.Stat{}, ports.ErrNotFound
	}
	if err != nil {
		return usage.Stat{}, fmt.Errorf("get usage %s/%s: %w", userID, day, err)
	}
	return stat, nil
}

// Upsert creates or replaces the aggregate row.
func (s *UsageStore) Upsert(ctx context.Context, stat usage.Stat) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO usage_stats (
			id, user_id, year, month, day,
			humanize_requests, detect_requests, words_processed, total_processing_time, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, year, month, day) DO UPDATE SET
			humanize_requests = excluded.humanize_requests,
			detect_requests = excluded.detect_requests,
			words_processed = excluded.words_processed,
			total_processing_time = excluded.total_processing_time,
			updated_at = excluded.updated_at
	`,
		stat.ID, stat.UserID, stat.Date.Year, stat.Date.Month, stat.Date.Day,
		stat.HumanizeRequests, stat.DetectRequests, stat.WordsProcessed,
		stat.TotalProcessingTime, stat.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert usage %s/%s: %w", stat.UserID, stat.Date, err)
	}
	return nil
}

// ListByUser returns the most recent aggregates for a user.
func (s *UsageStore) ListByUser(ctx context.Context, userID string, limit int) ([]usage.Stat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, year, month, day,
		       humanize_requests, detect_requests, words_processed, total_processing_time, updated_at
		FROM usage_stats
		WHERE user_id = ?
		ORDER BY year DESC, month DESC, day DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list usage for %s: %w", userID, err)
	}
	defer rows.Close()

	return scanStats(rows)
}

// ListRange returns all aggregates between from and to inclusive.
func (s *UsageStore) ListRange(ctx context.Context, from, to usage.Day) ([]usage.Stat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, year, month, day,
		       humanize_requests, detect_requests, words_processed, total_processing_time, updated_at
		FROM usage_stats
		WHERE (year * 10000 + month * 100 + day) BETWEEN ? AND ?
		ORDER BY year, month, day
	`, dayOrdinal(from), dayOrdinal(to))
	if err != nil {
		return nil, fmt.Errorf("list usage range %s..%s: %w", from, to, err)
	}
	defer rows.Close()

	return scanStats(rows)
}

func dayOrdinal(d usage.Day) int {
	return d.Year*10000 + d.Month*100 + d.Day
}

func scanStats(rows *sql.Rows) ([]usage.Stat, error) {
	var stats []usage.Stat
	for rows.Next() {
		var stat usage.Stat
		err := rows.Scan(
			&stat.ID, &stat.UserID, &stat.Date.Year, &stat.Date.Month, &stat.Date.Day,
			&stat.HumanizeRequests, &stat.DetectRequests, &stat.WordsProcessed,
			&stat.TotalProcessingTime, &stat.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan usage stat: %w", err)
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

// Ensure interface compliance.
var _ ports.UsageStore = (*UsageStore)(nil)
