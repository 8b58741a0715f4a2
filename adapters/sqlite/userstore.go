package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andikar-ai/gateway/ports"
)

// UserStore implements ports.UserStore using SQLite.
type UserStore struct {
	db *DB
}

// NewUserStore creates a new SQLite user store.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, username, email, full_name, password_hash, plan_id, words_used, payment_status, is_active, joined_at`

// Get retrieves a user by ID.
func (s *UserStore) Get(ctx context.Context, id string) (ports.User, error) {
	return s.getBy(ctx, "id", id)
}

// GetByUsername retrieves a user by username.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (ports.User, error) {
	return s.getBy(ctx, "username", username)
}

// GetByEmail retrieves a user by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (ports.User, error) {
	return s.getBy(ctx, "email", email)
}

func (s *UserStore) getBy(ctx context.Context, column, value string) (ports.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, value)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.User{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.User{}, fmt.Errorf("get user by %s: %w", column, err)
	}
	return u, nil
}

// Create stores a new user.
func (s *UserStore) Create(ctx context.Context, u ports.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Username, u.Email, u.FullName, u.PasswordHash, u.PlanID,
		u.WordsUsed, u.PaymentStatus, u.IsActive, u.JoinedAt.UTC())
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update modifies an existing user.
func (s *UserStore) Update(ctx context.Context, u ports.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET username = ?, email = ?, full_name = ?, password_hash = ?,
		    plan_id = ?, words_used = ?, payment_status = ?, is_active = ?
		WHERE id = ?
	`, u.Username, u.Email, u.FullName, u.PasswordHash,
		u.PlanID, u.WordsUsed, u.PaymentStatus, u.IsActive, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(res)
}

// Delete removes a user.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(res)
}

// List returns users with pagination, ordered by join time.
func (s *UserStore) List(ctx context.Context, limit, offset int) ([]ports.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		ORDER BY joined_at
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []ports.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Count returns total user count.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// AddWordsUsed accumulates processed words onto the account.
func (s *UserStore) AddWordsUsed(ctx context.Context, id string, delta int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET words_used = words_used + ? WHERE id = ?`, delta, id)
	if err != nil {
		return fmt.Errorf("add words used: %w", err)
	}
	return requireRow(res)
}

type scannable interface {
	Scan(dest ...any) error
}

func scanUser(row scannable) (ports.User, error) {
	var u ports.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash,
		&u.PlanID, &u.WordsUsed, &u.PaymentStatus, &u.IsActive, &u.JoinedAt,
	)
	return u, err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Ensure interface compliance.
var _ ports.UserStore = (*UserStore)(nil)
