package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andikar-ai/gateway/ports"
)

// TransactionStore implements ports.TransactionStore using SQLite.
type TransactionStore struct {
	db *DB
}

// NewTransactionStore creates a new SQLite transaction store.
func NewTransactionStore(db *DB) *TransactionStore {
	return &TransactionStore{db: db}
}

const txColumns = `id, user_id, amount, currency, method, status, reference, created_at, updated_at`

// Get retrieves a transaction by ID.
func (s *TransactionStore) Get(ctx context.Context, id string) (ports.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+txColumns+` FROM transactions WHERE id = ?`, id)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Transaction{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// GetByReference retrieves a transaction by its provider reference.
func (s *TransactionStore) GetByReference(ctx context.Context, reference string) (ports.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+txColumns+` FROM transactions WHERE reference = ?`, reference)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Transaction{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.Transaction{}, fmt.Errorf("get transaction by reference: %w", err)
	}
	return t, nil
}

// Create stores a new transaction.
func (s *TransactionStore) Create(ctx context.Context, t ports.Transaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (`+txColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.UserID, t.Amount, t.Currency, t.Method, t.Status, t.Reference,
		t.CreatedAt.UTC(), t.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// UpdateStatus moves a transaction to a new status.
func (s *TransactionStore) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET status = ?, updated_at = ? WHERE id = ?`,
		status, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}
	return requireRow(res)
}

// ListByUser returns a user's transactions, newest first.
func (s *TransactionStore) ListByUser(ctx context.Context, userID string, limit int) ([]ports.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+txColumns+` FROM transactions
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions by user: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// List returns transactions with pagination, newest first.
func (s *TransactionStore) List(ctx context.Context, limit, offset int) ([]ports.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+txColumns+` FROM transactions
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]ports.Transaction, error) {
	var txs []ports.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func scanTransaction(row scannable) (ports.Transaction, error) {
	var t ports.Transaction
	err := row.Scan(
		&t.ID, &t.UserID, &t.Amount, &t.Currency, &t.Method, &t.Status,
		&t.Reference, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// Ensure interface compliance.
var _ ports.TransactionStore = (*TransactionStore)(nil)
