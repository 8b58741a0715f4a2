// Package app provides application services that orchestrate domain logic.
package app

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/andikar-ai/gateway/adapters/clock"
	"github.com/andikar-ai/gateway/domain/ratelimit"
	"github.com/andikar-ai/gateway/ports"
)

// RateLimiter enforces a sliding window request limit per caller key.
// Storage failures never block traffic: when the backing store cannot
// be read or written, the request is admitted and the failure logged.
type RateLimiter struct {
	store ports.RateLimitStore
	clock ports.Clock
	log   zerolog.Logger

	// Hot-reloadable limit configuration.
	cfg atomic.Pointer[ratelimit.Config]
}

// NewRateLimiter creates a new rate limiter service.
func NewRateLimiter(store ports.RateLimitStore, clk ports.Clock, cfg ratelimit.Config, log zerolog.Logger) *RateLimiter {
	rl := &RateLimiter{
		store: store,
		clock: clk,
		log:   log,
	}
	rl.UpdateConfig(cfg)
	return rl
}

// UpdateConfig swaps in new limit settings. Thread-safe; in-flight
// checks finish with the settings they started with.
func (rl *RateLimiter) UpdateConfig(cfg ratelimit.Config) {
	rl.cfg.Store(&cfg)
}

// Config returns the current limit settings.
func (rl *RateLimiter) Config() ratelimit.Config {
	return *rl.cfg.Load()
}

// Allow checks whether the caller identified by key may proceed. On an
// admitted request the window is persisted with the new timestamp; on a
// rejected request nothing is written, so the retained window stays as
// it was read.
func (rl *RateLimiter) Allow(ctx context.Context, key string) ratelimit.Result {
	cfg := rl.Config()
	now := clock.Epoch(rl.clock.Now())

	rec, err := rl.store.Get(ctx, key)
	if err != nil {
		rl.log.Warn().Err(err).Str("key", key).Msg("rate limit read failed, admitting request")
		return ratelimit.Result{Allowed: true, Remaining: cfg.MaxRequests}
	}
	rec.Key = key

	result, updated := ratelimit.Check(rec, cfg, now)
	if !result.Allowed {
		return result
	}

	if err := rl.store.Put(ctx, key, updated.Timestamps, updated.LastUpdated); err != nil {
		rl.log.Warn().Err(err).Str("key", key).Msg("rate limit write failed, admitting request")
	}
	return result
}
