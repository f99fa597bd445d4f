// Package ratelimit paces outgoing requests so the library stays inside the
// exchange's published request quotas. It wraps Uber's token bucket limiter
// behind a small interface so the HTTP transport does not depend on a
// concrete implementation.
//
// This is transport-level pacing only: the library does not implement any
// admission-control policy on top of it, and the exchange may still return
// its own rate-limit errors which surface to the caller unchanged.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/ratelimit"
)

// Rate describes how many operations are permitted per interval.
// A Rate of {Limit: 120, Interval: time.Minute} allows two operations
// per second on average.
type Rate struct {
	// Limit is the maximum number of operations allowed within Interval.
	Limit int

	// Interval is the time window over which Limit applies.
	Interval time.Duration
}

// RateLimiter paces operations according to a configured Rate.
type RateLimiter interface {
	// Wait blocks until the next operation is permitted or the context is
	// cancelled. It must be called before each rate-limited operation.
	Wait(ctx context.Context) error

	// SetLimit replaces the active rate configuration. It returns an error
	// if the new rate has a non-positive limit or interval.
	SetLimit(limit Rate) error
}

// uberLimiter implements RateLimiter on top of Uber's token bucket.
type uberLimiter struct {
	limiter ratelimit.Limiter
	rate    Rate
}

// NewTokenBucketLimiter creates a token bucket limiter for the given rate.
//
// Example:
//
//	limiter := ratelimit.NewTokenBucketLimiter(ratelimit.Rate{
//		Limit:    10,
//		Interval: time.Second,
//	})
//	if err := limiter.Wait(ctx); err != nil {
//		return err
//	}
func NewTokenBucketLimiter(rate Rate) RateLimiter {
	return &uberLimiter{
		limiter: ratelimit.New(perSecond(rate)),
		rate:    rate,
	}
}

// Wait implements the RateLimiter interface.
func (l *uberLimiter) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limit wait cancelled: %w", ctx.Err())
	default:
		l.limiter.Take()
		return nil
	}
}

// SetLimit implements the RateLimiter interface.
func (l *uberLimiter) SetLimit(rate Rate) error {
	if rate.Limit <= 0 || rate.Interval <= 0 {
		return fmt.Errorf("invalid rate limit: %+v", rate)
	}
	l.limiter = ratelimit.New(perSecond(rate))
	l.rate = rate
	return nil
}

func perSecond(rate Rate) int {
	rps := int(float64(rate.Limit) / rate.Interval.Seconds())
	if rps < 1 {
		rps = 1
	}
	return rps
}
