package sqlite

import (
	"context"
	"fmt"

	"github.com/andikar-ai/gateway/ports"
)

// APILogStore implements ports.APILogStore using SQLite.
type APILogStore struct {
	db *DB
}

// NewAPILogStore creates a new SQLite API log store.
func NewAPILogStore(db *DB) *APILogStore {
	return &APILogStore{db: db}
}

const logColumns = `id, user_id, endpoint, request_size, response_size, processing_time, status_code, error, ip_address, user_agent, timestamp`

// Record stores an API log entry.
func (s *APILogStore) Record(ctx context.Context, l ports.APILog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_logs (`+logColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.UserID, l.Endpoint, l.RequestSize, l.ResponseSize,
		l.ProcessingTime, l.StatusCode, l.Error, l.IPAddress, l.UserAgent,
		l.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("record api log: %w", err)
	}
	return nil
}

// RecentByUser returns a user's most recent log entries.
func (s *APILogStore) RecentByUser(ctx context.Context, userID string, limit int) ([]ports.APILog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+logColumns+` FROM api_logs
		WHERE user_id = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent api logs: %w", err)
	}
	defer rows.Close()

	var logs []ports.APILog
	for rows.Next() {
		var l ports.APILog
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.Endpoint, &l.RequestSize, &l.ResponseSize,
			&l.ProcessingTime, &l.StatusCode, &l.Error, &l.IPAddress,
			&l.UserAgent, &l.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan api log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// CountByEndpoint returns request counts grouped by endpoint.
func (s *APILogStore) CountByEndpoint(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT endpoint, COUNT(*) FROM api_logs GROUP BY endpoint`)
	if err != nil {
		return nil, fmt.Errorf("count api logs: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var endpoint string
		var count int
		if err := rows.Scan(&endpoint, &count); err != nil {
			return nil, fmt.Errorf("scan api log count: %w", err)
		}
		counts[endpoint] = count
	}
	return counts, rows.Err()
}

// Ensure interface compliance.
var _ ports.APILogStore = (*APILogStore)(nil)
