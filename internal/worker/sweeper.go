package worker

// sweeper.go
// Background goroutine that periodically reclaims expired reservations by
// driving them through the engine's close path. The interval is a driver
// concern — the engine only exposes the single-tick SweepOnce operation.

import (
	"context"
	"time"

	"github.com/Kavin-Nithil/inventory-svc/internal/service"

	"github.com/rs/zerolog/log"
)

// StartSweeper launches the sweep loop. It respects the context for graceful
// shutdown. A failed tick is logged and the next tick proceeds normally.
func StartSweeper(ctx context.Context, svc service.ReservationService, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("sweeper: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("sweeper: shutting down")
				return
			case <-ticker.C:
				reclaimed, err := svc.SweepOnce(ctx)
				if err != nil {
					log.Error().Err(err).Msg("sweeper: tick failed")
					continue
				}
				if reclaimed > 0 {
					log.Info().Int("reclaimed", reclaimed).Msg("sweeper: reclaimed expired reservations")
				}
			}
		}
	}()
}
