package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/andikar-ai/gateway/domain/usage"
	"github.com/andikar-ai/gateway/ports"
)

// Accountant records per-user daily usage. Unlike rate limiting,
// accounting failures propagate: a billing record that silently fails
// to persist is worse than a visible error.
type Accountant struct {
	store ports.UsageStore
	clock ports.Clock
	idGen ports.IDGenerator
}

// NewAccountant creates a new usage accountant.
func NewAccountant(store ports.UsageStore, clk ports.Clock, idGen ports.IDGenerator) *Accountant {
	return &Accountant{store: store, clock: clk, idGen: idGen}
}

// Record adds one operation of the given kind to the user's stat row
// for today (UTC). The row is created lazily on first use.
func (a *Accountant) Record(ctx context.Context, userID string, kind usage.Kind, wordCount int, processingSecs float64) (usage.Stat, error) {
	now := a.clock.Now().UTC()
	day := usage.DayOf(now)

	stat, err := a.store.Get(ctx, userID, day)
	if errors.Is(err, ports.ErrNotFound) {
		stat = usage.Stat{
			ID:     a.idGen.New(),
			UserID: userID,
			Date:   day,
		}
	} else if err != nil {
		return usage.Stat{}, fmt.Errorf("load usage stat: %w", err)
	}

	stat = usage.Apply(stat, kind, wordCount, processingSecs, now)

	if err := a.store.Upsert(ctx, stat); err != nil {
		return usage.Stat{}, fmt.Errorf("persist usage stat: %w", err)
	}
	return stat, nil
}

// Today returns the user's stat row for the current UTC day, or a zero
// stat when the user has no usage yet today.
func (a *Accountant) Today(ctx context.Context, userID string) (usage.Stat, error) {
	day := usage.DayOf(a.clock.Now().UTC())
	stat, err := a.store.Get(ctx, userID, day)
	if errors.Is(err, ports.ErrNotFound) {
		return usage.Stat{UserID: userID, Date: day}, nil
	}
	if err != nil {
		return usage.Stat{}, fmt.Errorf("load usage stat: %w", err)
	}
	return stat, nil
}

// History returns the user's most recent daily stat rows, newest first.
func (a *Accountant) History(ctx context.Context, userID string, limit int) ([]usage.Stat, error) {
	if limit <= 0 {
		limit = 30
	}
	return a.store.ListByUser(ctx, userID, limit)
}
