package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Kavin-Nithil/inventory-svc/internal/config"
	"github.com/Kavin-Nithil/inventory-svc/internal/events"
	"github.com/Kavin-Nithil/inventory-svc/internal/infra"
	"github.com/Kavin-Nithil/inventory-svc/internal/repository"
	"github.com/Kavin-Nithil/inventory-svc/internal/router"
	"github.com/Kavin-Nithil/inventory-svc/internal/service"
	"github.com/Kavin-Nithil/inventory-svc/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Event sink — best-effort, chosen by config. The engine treats all of
	// these identically: publish after commit, log-and-swallow failures.
	var publisher events.Publisher
	switch cfg.EventSink {
	case "kafka":
		kp := events.NewKafkaPublisher(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic)
		defer kp.Close()
		// breaker keeps a dead broker from stalling every reserve/release;
		// events it rejects are parked in Redis for replay
		publisher = events.NewDeadLetterPublisher(
			events.NewBreakerPublisher(kp, events.DefaultBreakerConfig()), rdb)
	case "redis":
		publisher = events.NewRedisPublisher(rdb)
	default:
		publisher = events.NewLogPublisher()
	}
	log.Info().Str("sink", cfg.EventSink).Msg("event sink configured")

	stockRepo := repository.NewStockRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	svc := service.NewReservationService(stockRepo, reservationRepo, publisher, service.Options{
		DefaultTTL:        time.Duration(cfg.ReservationTTLMinutes) * time.Minute,
		MaxTTL:            time.Duration(cfg.ReservationMaxTTLMinutes) * time.Minute,
		LowStockThreshold: cfg.LowStockThreshold,
		LockRetryAttempts: cfg.LockRetryAttempts,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker.StartSweeper(ctx, svc, cfg.SweepInterval())

	r := router.New(cfg, db, rdb, svc)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("inventory service listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
