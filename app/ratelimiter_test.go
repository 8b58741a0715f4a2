package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/andikar-ai/gateway/adapters/clock"
	"github.com/andikar-ai/gateway/adapters/memory"
	"github.com/andikar-ai/gateway/app"
	"github.com/andikar-ai/gateway/domain/ratelimit"
)

// failingRateLimitStore simulates storage outages.
type failingRateLimitStore struct {
	failGet bool
	failPut bool
	inner   *memory.RateLimitStore
	puts    int
}

func (f *failingRateLimitStore) Get(ctx context.Context, key string) (ratelimit.Record, error) {
	if f.failGet {
		return ratelimit.Record{}, errors.New("storage down")
	}
	return f.inner.Get(ctx, key)
}

func (f *failingRateLimitStore) Put(ctx context.Context, key string, timestamps []float64, lastUpdated float64) error {
	f.puts++
	if f.failPut {
		return errors.New("storage down")
	}
	return f.inner.Put(ctx, key, timestamps, lastUpdated)
}

func newLimiter(store *failingRateLimitStore, clk *clock.Fake, maxRequests, windowSecs int) *app.RateLimiter {
	return app.NewRateLimiter(store, clk, ratelimit.Config{
		MaxRequests: maxRequests,
		WindowSecs:  windowSecs,
	}, zerolog.Nop())
}

func TestRateLimiter_AdmitThenReject(t *testing.T) {
	clk := clock.NewFake(time.Unix(1000, 0))
	store := &failingRateLimitStore{inner: memory.NewRateLimitStore()}
	rl := newLimiter(store, clk, 3, 60)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res := rl.Allow(ctx, "user-1")
		if !res.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		clk.Advance(time.Second)
	}

	res := rl.Allow(ctx, "user-1")
	if res.Allowed {
		t.Fatal("fourth request within window should be rejected")
	}
	if res.Reason != ratelimit.ReasonLimitExceeded {
		t.Errorf("Reason = %s, want %s", res.Reason, ratelimit.ReasonLimitExceeded)
	}

	// After the window slides past the first request, traffic resumes.
	clk.Advance(58 * time.Second)
	res = rl.Allow(ctx, "user-1")
	if !res.Allowed {
		t.Fatal("request after window expiry should be allowed")
	}
}

func TestRateLimiter_RejectDoesNotPersist(t *testing.T) {
	clk := clock.NewFake(time.Unix(1000, 0))
	store := &failingRateLimitStore{inner: memory.NewRateLimitStore()}
	rl := newLimiter(store, clk, 1, 60)
	ctx := context.Background()

	rl.Allow(ctx, "user-1")
	putsAfterAdmit := store.puts

	res := rl.Allow(ctx, "user-1")
	if res.Allowed {
		t.Fatal("second request should be rejected")
	}
	if store.puts != putsAfterAdmit {
		t.Errorf("rejected request wrote to the store (%d puts, want %d)", store.puts, putsAfterAdmit)
	}
}

func TestRateLimiter_FailOpenOnRead(t *testing.T) {
	clk := clock.NewFake(time.Unix(1000, 0))
	store := &failingRateLimitStore{inner: memory.NewRateLimitStore(), failGet: true}
	rl := newLimiter(store, clk, 1, 60)

	for i := 0; i < 5; i++ {
		res := rl.Allow(context.Background(), "user-1")
		if !res.Allowed {
			t.Fatalf("request %d should be admitted during storage outage", i+1)
		}
	}
}

func TestRateLimiter_FailOpenOnWrite(t *testing.T) {
	clk := clock.NewFake(time.Unix(1000, 0))
	store := &failingRateLimitStore{inner: memory.NewRateLimitStore(), failPut: true}
	rl := newLimiter(store, clk, 5, 60)

	res := rl.Allow(context.Background(), "user-1")
	if !res.Allowed {
		t.Fatal("request should be admitted when the write fails")
	}
}

func TestRateLimiter_UpdateConfig(t *testing.T) {
	clk := clock.NewFake(time.Unix(1000, 0))
	store := &failingRateLimitStore{inner: memory.NewRateLimitStore()}
	rl := newLimiter(store, clk, 1, 60)
	ctx := context.Background()

	rl.Allow(ctx, "user-1")
	if res := rl.Allow(ctx, "user-1"); res.Allowed {
		t.Fatal("second request should be rejected at limit 1")
	}

	rl.UpdateConfig(ratelimit.Config{MaxRequests: 10, WindowSecs: 60})
	if res := rl.Allow(ctx, "user-1"); !res.Allowed {
		t.Fatal("request should be allowed after raising the limit")
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	clk := clock.NewFake(time.Unix(1000, 0))
	store := &failingRateLimitStore{inner: memory.NewRateLimitStore()}
	rl := newLimiter(store, clk, 1, 60)
	ctx := context.Background()

	rl.Allow(ctx, "user-1")
	if res := rl.Allow(ctx, "user-1"); res.Allowed {
		t.Fatal("user-1 should be limited")
	}
	if res := rl.Allow(ctx, "user-2"); !res.Allowed {
		t.Fatal("user-2 should not be affected by user-1's window")
	}
}
