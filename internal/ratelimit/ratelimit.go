package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of a single rate-limit check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Store counts requests per identifier within a fixed window. The first
// hit for an identifier opens the window; later hits increment the count
// until the window expires. Implementations decide where state lives
// (in-process map for a single instance, redis for many).
type Store interface {
	// Incr records one request and returns the count within the
	// current window together with the window's expiry.
	Incr(ctx context.Context, identifier string, window time.Duration) (count int, resetAt time.Time, err error)
}

// Limiter applies a fixed-window policy on top of a Store.
type Limiter struct {
	store       Store
	maxRequests int
	window      time.Duration
}

func NewLimiter(store Store, maxRequests int, window time.Duration) *Limiter {
	return &Limiter{store: store, maxRequests: maxRequests, window: window}
}

// Check records a request for the identifier and reports whether it is
// within the allowed budget. The request that exceeds the budget is
// counted but denied.
func (l *Limiter) Check(ctx context.Context, identifier string) (Result, error) {
	count, resetAt, err := l.store.Incr(ctx, identifier, l.window)
	if err != nil {
		return Result{}, err
	}

	remaining := l.maxRequests - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= l.maxRequests,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
