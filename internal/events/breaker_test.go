package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakySink struct {
	err   error
	calls int
}

func (s *flakySink) Publish(context.Context, string, any) error {
	s.calls++
	return s.err
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	sink := &flakySink{err: errors.New("broker down")}
	b := NewBreakerPublisher(sink, BreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, OpenTimeout: time.Hour})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := b.Publish(ctx, TypeReserved, nil)
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrBreakerOpen)
	}
	assert.Equal(t, "open", b.State())

	// fast-fail without touching the sink
	err := b.Publish(ctx, TypeReserved, nil)
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.Equal(t, 3, sink.calls)
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	sink := &flakySink{err: errors.New("broker down")}
	b := NewBreakerPublisher(sink, BreakerConfig{FailureThreshold: 1, SuccessThreshold: 2, OpenTimeout: time.Nanosecond})
	ctx := context.Background()

	require.Error(t, b.Publish(ctx, TypeReserved, nil))
	time.Sleep(time.Millisecond)
	assert.Equal(t, "half-open", b.State())

	sink.err = nil
	require.NoError(t, b.Publish(ctx, TypeReserved, nil))
	assert.Equal(t, "half-open", b.State())
	require.NoError(t, b.Publish(ctx, TypeReserved, nil))
	assert.Equal(t, "closed", b.State())
}

func TestBreakerReopensOnFailedProbe(t *testing.T) {
	sink := &flakySink{err: errors.New("broker down")}
	b := NewBreakerPublisher(sink, BreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, OpenTimeout: time.Nanosecond})
	ctx := context.Background()

	require.Error(t, b.Publish(ctx, TypeReserved, nil))
	time.Sleep(time.Millisecond)

	// probe fails — straight back to open
	require.Error(t, b.Publish(ctx, TypeReserved, nil))
	assert.Equal(t, "open", b.State())
}

func TestBreakerClosedResetsFailureStreak(t *testing.T) {
	sink := &flakySink{err: errors.New("broker down")}
	b := NewBreakerPublisher(sink, BreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, OpenTimeout: time.Hour})
	ctx := context.Background()

	require.Error(t, b.Publish(ctx, TypeReserved, nil))
	require.Error(t, b.Publish(ctx, TypeReserved, nil))

	sink.err = nil
	require.NoError(t, b.Publish(ctx, TypeReserved, nil))

	sink.err = errors.New("broker down")
	require.Error(t, b.Publish(ctx, TypeReserved, nil))
	require.Error(t, b.Publish(ctx, TypeReserved, nil))
	assert.Equal(t, "closed", b.State(), "interleaved success should reset the streak")
}
