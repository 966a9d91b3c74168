package events

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrBreakerOpen is returned while the sink breaker is fast-failing.
var ErrBreakerOpen = errors.New("event sink breaker is open")

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

func (s breakerState) String() string {
	switch s {
	case breakerClosed:
		return "closed"
	case breakerOpen:
		return "open"
	case breakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig tunes the sink breaker.
type BreakerConfig struct {
	FailureThreshold int           // consecutive failures before fast-failing
	SuccessThreshold int           // consecutive half-open successes before recovery
	OpenTimeout      time.Duration // how long to fast-fail before probing
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      30 * time.Second,
	}
}

// BreakerPublisher wraps a Publisher with a circuit breaker so a dead broker
// costs each reserve/release one fast ErrBreakerOpen instead of a full
// connect timeout. Publication is already best-effort, so fast-failing loses
// nothing the sink wasn't already losing — it just stops paying for it.
type BreakerPublisher struct {
	inner Publisher
	cfg   BreakerConfig

	mu          sync.Mutex
	state       breakerState
	failures    int
	successes   int
	lastFailure time.Time
}

func NewBreakerPublisher(inner Publisher, cfg BreakerConfig) *BreakerPublisher {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	return &BreakerPublisher{inner: inner, cfg: cfg, state: breakerClosed}
}

// State reports the current breaker state, transitioning open → half-open once
// the open timeout has elapsed. Exposed for health reporting.
func (b *BreakerPublisher) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.maybeProbe()
	return b.state.String()
}

func (b *BreakerPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	b.mu.Lock()
	b.maybeProbe()
	if b.state == breakerOpen {
		b.mu.Unlock()
		return ErrBreakerOpen
	}
	b.mu.Unlock()

	err := b.inner.Publish(ctx, eventType, payload)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.onFailure()
		return err
	}
	b.onSuccess()
	return nil
}

// maybeProbe must be called under lock.
func (b *BreakerPublisher) maybeProbe() {
	if b.state == breakerOpen && time.Since(b.lastFailure) >= b.cfg.OpenTimeout {
		b.state = breakerHalfOpen
		b.successes = 0
	}
}

func (b *BreakerPublisher) onFailure() {
	b.failures++
	b.lastFailure = time.Now()
	switch b.state {
	case breakerClosed:
		if b.failures >= b.cfg.FailureThreshold {
			b.state = breakerOpen
			b.successes = 0
		}
	case breakerHalfOpen:
		// probe failed, back to fast-failing
		b.state = breakerOpen
		b.failures = 0
	}
}

func (b *BreakerPublisher) onSuccess() {
	switch b.state {
	case breakerClosed:
		b.failures = 0
	case breakerHalfOpen:
		b.successes++
		if b.successes >= b.cfg.SuccessThreshold {
			b.state = breakerClosed
			b.failures = 0
			b.successes = 0
		}
	}
}
