package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Kavin-Nithil/inventory-svc/internal/dto"

	"github.com/stretchr/testify/assert"
)

// countingEngine records how often the sweeper ticks into SweepOnce.
type countingEngine struct {
	sweeps atomic.Int64
}

func (e *countingEngine) Reserve(context.Context, dto.ReserveRequest) (*dto.ReserveResponse, error) {
	return nil, nil
}
func (e *countingEngine) Release(context.Context, string) (*dto.ReleaseResponse, error) {
	return nil, nil
}
func (e *countingEngine) GetAvailability(context.Context, string, string) ([]dto.AvailabilityRow, error) {
	return nil, nil
}
func (e *countingEngine) SweepOnce(context.Context) (int, error) {
	e.sweeps.Add(1)
	return 0, nil
}

func TestSweeperTicksAndStops(t *testing.T) {
	engine := &countingEngine{}
	ctx, cancel := context.WithCancel(context.Background())

	StartSweeper(ctx, engine, 10*time.Millisecond)

	// let a few ticks elapse
	time.Sleep(60 * time.Millisecond)
	cancel()
	assert.GreaterOrEqual(t, engine.sweeps.Load(), int64(2), "sweeper should tick repeatedly")

	// give the goroutine time to observe cancellation, then verify quiescence
	time.Sleep(30 * time.Millisecond)
	ticked := engine.sweeps.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, ticked, engine.sweeps.Load())
}
