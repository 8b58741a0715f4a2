// Package ratelimit provides pure sliding-window rate limiting.
// All functions are deterministic - same input always produces same output.
package ratelimit

// Record represents the persisted rate limit state for a caller key (value type).
// Timestamps are epoch seconds in insertion order, which is also
// chronological order.
type Record struct {
	Key         string
	Timestamps  []float64
	LastUpdated float64 // epoch seconds of most recent write
}

// Config holds rate limit configuration (value type).
type Config struct {
	MaxRequests int // Admits allowed per window
	WindowSecs  int // Window length in seconds
}

// Result represents the outcome of a rate limit check (value type).
type Result struct {
	Allowed   bool
	Remaining int    // Admits remaining in the window
	Reason    string // If not allowed, why
}

// Reasons for denial
const (
	ReasonLimitExceeded = "rate_limit_exceeded"
)

// Prune removes every timestamp that has aged out of the window.
// A timestamp t survives iff now - t < windowSecs. Order is preserved.
// This is a PURE function.
func Prune(timestamps []float64, now float64, windowSecs int) []float64 {
	window := float64(windowSecs)
	kept := make([]float64, 0, len(timestamps))
	for _, t := range timestamps {
		if now-t < window {
			kept = append(kept, t)
		}
	}
	return kept
}

// Check performs a sliding-window rate limit check.
// This is a PURE function - no side effects, deterministic.
//
// Parameters:
//   - rec: current record for the caller key (zero value for unseen keys)
//   - cfg: rate limit configuration
//   - now: current timestamp in epoch seconds
//
// Returns:
//   - result: whether the request is admitted and metadata
//   - newRec: updated record. The caller persists it only on admit;
//     a rejected check leaves the stored record untouched.
func Check(rec Record, cfg Config, now float64) (Result, Record) {
	remaining := Prune(rec.Timestamps, now, cfg.WindowSecs)

	if len(remaining) >= cfg.MaxRequests {
		return Result{
			Allowed:   false,
			Remaining: 0,
			Reason:    ReasonLimitExceeded,
		}, Record{Key: rec.Key, Timestamps: remaining, LastUpdated: rec.LastUpdated}
	}

	remaining = append(remaining, now)
	return Result{
		Allowed:   true,
		Remaining: cfg.MaxRequests - len(remaining),
	}, Record{Key: rec.Key, Timestamps: remaining, LastUpdated: now}
}
