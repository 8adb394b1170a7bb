// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the shared rate-limit coordination used by all
// outbound provider requests.
package httputil

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrExhausted is returned by Acquire once rate-limit retries are spent.
// The remaining requests of the run fail fast instead of probing a
// provider that has already throttled the client out.
var ErrExhausted = errors.New("rate limit retries exhausted")

// State is the coordinator's backoff state.
type State int

const (
	// StateIdle means requests flow normally through the token bucket.
	StateIdle State = iota

	// StateBackoff means a throttle signal was observed and requests
	// must wait until the backoff window closes.
	StateBackoff

	// StateFailed means retries were exhausted; Acquire fails
	// immediately with ErrExhausted.
	StateFailed
)

// DefaultBaseDelay is the starting backoff after the first 429. It doubles
// on every consecutive throttle: 10s, 20s, 40s, 80s, 160s. Declared as a
// var so tests can avoid real sleeps.
var DefaultBaseDelay = 10 * time.Second

const defaultMaxRetries = 5

// Coordinator serializes backoff across every pipeline that talks to the
// provider. The provider enforces a global rate limit, so concurrent
// pipelines must share one Coordinator: independent per-pipeline backoff
// would keep hammering the provider and risk an IP block.
//
// All methods are safe for concurrent use.
type Coordinator struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	state   State
	attempt int
	until   time.Time

	maxRetries int
	baseDelay  time.Duration
}

// NewCoordinator builds a coordinator with a token bucket sustaining
// requestsPerSecond. Zero or negative arguments select defaults
// (10 req/s, 5 retries, 10s base delay).
func NewCoordinator(requestsPerSecond float64, maxRetries int, baseDelay time.Duration) *Coordinator {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	return &Coordinator{
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), int(math.Ceil(requestsPerSecond))),
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

// CurrentState returns the backoff state, treating an expired window as idle.
func (c *Coordinator) CurrentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateBackoff && time.Now().After(c.until) {
		return StateIdle
	}
	return c.state
}

// Acquire blocks until a request may be sent: first waits out any open
// backoff window, then takes a token from the shared bucket. Returns the
// context error if the wait is cancelled, or ErrExhausted once the
// coordinator has failed.
func (c *Coordinator) Acquire(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateFailed {
		c.mu.Unlock()
		return ErrExhausted
	}
	wait := time.Duration(0)
	if c.state == StateBackoff {
		wait = time.Until(c.until)
	}
	c.mu.Unlock()

	if wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return c.limiter.Wait(ctx)
}

// ReportThrottle records a provider throttle signal. It moves the
// coordinator to StateBackoff with an exponentially growing window and
// reports whether another attempt is allowed. When attempts are exhausted
// the state becomes StateFailed and ok is false.
func (c *Coordinator) ReportThrottle() (delay time.Duration, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attempt >= c.maxRetries {
		c.state = StateFailed
		return 0, false
	}

	delay = time.Duration(math.Pow(2, float64(c.attempt))) * c.baseDelay
	c.attempt++
	c.state = StateBackoff
	c.until = time.Now().Add(delay)
	return delay, true
}

// ReportSuccess resets the coordinator to StateIdle after a request that
// was not throttled. A fresh throttle episode starts from the base delay.
func (c *Coordinator) ReportSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateIdle
	c.attempt = 0
	c.until = time.Time{}
}

// Attempt returns how many consecutive throttles the current episode has seen.
func (c *Coordinator) Attempt() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempt
}
