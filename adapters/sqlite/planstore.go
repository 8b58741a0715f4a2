package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andikar-ai/gateway/domain/plan"
	"github.com/andikar-ai/gateway/ports"
)

// PlanStore implements ports.PlanStore using SQLite. The features list
// is stored as a JSON array in a TEXT column.
type PlanStore struct {
	db *DB
}

// NewPlanStore creates a new SQLite plan store.
func NewPlanStore(db *DB) *PlanStore {
	return &PlanStore{db: db}
}

const planColumns = `id, name, description, price, currency, billing_cycle, word_limit, requests_per_day, features, is_active, created_at, updated_at`

// Get retrieves a plan by ID.
func (s *PlanStore) Get(ctx context.Context, id string) (plan.Plan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM pricing_plans WHERE id = ?`, id)

	p, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return plan.Plan{}, ports.ErrNotFound
	}
	if err != nil {
		return plan.Plan{}, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

// List returns all plans ordered by price ascending.
func (s *PlanStore) List(ctx context.Context) ([]plan.Plan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+planColumns+` FROM pricing_plans ORDER BY price`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []plan.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// Create stores a new plan.
func (s *PlanStore) Create(ctx context.Context, p plan.Plan) error {
	features, err := json.Marshal(p.Features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pricing_plans (`+planColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, p.Price, p.Currency, p.BillingCycle,
		p.WordLimit, p.RequestsPerDay, string(features), p.IsActive,
		p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

// Update modifies an existing plan.
func (s *PlanStore) Update(ctx context.Context, p plan.Plan) error {
	features, err := json.Marshal(p.Features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE pricing_plans
		SET name = ?, description = ?, price = ?, currency = ?, billing_cycle = ?,
		    word_limit = ?, requests_per_day = ?, features = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, p.Description, p.Price, p.Currency, p.BillingCycle,
		p.WordLimit, p.RequestsPerDay, string(features), p.IsActive,
		p.UpdatedAt.UTC(), p.ID)
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	return requireRow(res)
}

// Delete removes a plan.
func (s *PlanStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pricing_plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return requireRow(res)
}

func scanPlan(row scannable) (plan.Plan, error) {
	var p plan.Plan
	var features string
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Currency, &p.BillingCycle,
		&p.WordLimit, &p.RequestsPerDay, &features, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return plan.Plan{}, err
	}
	if features != "" {
		if err := json.Unmarshal([]byte(features), &p.Features); err != nil {
			return plan.Plan{}, fmt.Errorf("unmarshal features: %w", err)
		}
	}
	return p, nil
}

// Ensure interface compliance.
var _ ports.PlanStore = (*PlanStore)(nil)
