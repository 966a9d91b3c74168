package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kavin-Nithil/inventory-svc/internal/dto"
	"github.com/Kavin-Nithil/inventory-svc/internal/events"
	"github.com/Kavin-Nithil/inventory-svc/internal/model"
	"github.com/Kavin-Nithil/inventory-svc/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReservationService is the reservation engine: the single implementation of
// the protocol that keeps on_hand, reserved, and reservation records mutually
// consistent. All mutation flows through it — the HTTP layer and the sweeper
// are just call sites.
type ReservationService interface {
	Reserve(ctx context.Context, req dto.ReserveRequest) (*dto.ReserveResponse, error)
	Release(ctx context.Context, reservationID string) (*dto.ReleaseResponse, error)
	GetAvailability(ctx context.Context, productSku, warehouseCode string) ([]dto.AvailabilityRow, error)
	SweepOnce(ctx context.Context) (int, error)
}

// Options tunes the engine. Zero values fall back to the defaults below.
type Options struct {
	DefaultTTL        time.Duration
	MaxTTL            time.Duration
	LowStockThreshold int
	LockRetryAttempts int
}

const (
	defaultTTL          = 15 * time.Minute
	defaultMaxTTL       = 24 * time.Hour
	defaultRetryBackoff = 25 * time.Millisecond
)

type reservationService struct {
	stocks       repository.StockRepository
	reservations repository.ReservationRepository
	events       events.Publisher
	opts         Options

	// injectable clock so expiry behavior is testable without wall-clock waits
	now func() time.Time
}

func NewReservationService(
	stocks repository.StockRepository,
	reservations repository.ReservationRepository,
	publisher events.Publisher,
	opts Options,
) ReservationService {
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = defaultTTL
	}
	if opts.MaxTTL <= 0 {
		opts.MaxTTL = defaultMaxTTL
	}
	return &reservationService{
		stocks:       stocks,
		reservations: reservations,
		events:       publisher,
		opts:         opts,
		now:          time.Now,
	}
}

// ── Reserve ──────────────────────────────────────────────────────────────────

func (s *reservationService) Reserve(ctx context.Context, req dto.ReserveRequest) (*dto.ReserveResponse, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	ttl := s.opts.DefaultTTL
	if req.TimeoutMinutes != nil {
		requested := time.Duration(*req.TimeoutMinutes) * time.Minute
		if requested <= 0 || requested > s.opts.MaxTTL {
			return nil, fmt.Errorf("%w: %dm (max %s)", ErrInvalidTimeout, *req.TimeoutMinutes, s.opts.MaxTTL)
		}
		ttl = requested
	}

	product, err := s.stocks.FindProductBySKU(ctx, req.ProductSku)
	if err != nil {
		return nil, s.classify(fmt.Errorf("product %s: %w", req.ProductSku, err))
	}
	warehouse, err := s.stocks.FindWarehouseByCode(ctx, req.WarehouseCode)
	if err != nil {
		return nil, s.classify(fmt.Errorf("warehouse %s: %w", req.WarehouseCode, err))
	}

	var (
		resp     *dto.ReserveResponse
		onHand   int
		reserved int
	)
	err = s.withRetry(ctx, func() error {
		return s.stocks.Transaction(ctx, func(tx *gorm.DB) error {
			entry, err := s.stocks.FindEntryForUpdate(tx, product.ID, warehouse.ID)
			if err != nil {
				return fmt.Errorf("stock entry %s@%s: %w", req.ProductSku, req.WarehouseCode, err)
			}

			available := entry.OnHand - entry.Reserved
			if available < req.Quantity {
				return &InsufficientStockError{Available: available, Requested: req.Quantity}
			}

			res := &model.Reservation{
				ReservationID: uuid.NewString(),
				StockEntryID:  entry.ID,
				Quantity:      req.Quantity,
				Status:        model.StatusActive,
				OrderID:       req.OrderID,
				ExpiresAt:     s.now().Add(ttl),
			}
			// capture post-reserve counters before the update mutates anything
			onHand = entry.OnHand
			reserved = entry.Reserved + req.Quantity

			if err := s.reservations.Create(tx, res); err != nil {
				return err
			}
			if err := s.stocks.AddReserved(tx, entry.ID, req.Quantity); err != nil {
				return err
			}
			resp = &dto.ReserveResponse{
				ReservationID: res.ReservationID,
				ExpiresAt:     res.ExpiresAt,
				Quantity:      res.Quantity,
			}
			return nil
		})
	})
	if err != nil {
		return nil, s.classify(err)
	}

	// Side effects only after the transaction has durably committed, outside
	// the lock scope. Failures are logged and swallowed.
	s.publish(ctx, events.TypeReserved, events.ReservedPayload{
		ReservationID: resp.ReservationID,
		ProductSku:    req.ProductSku,
		WarehouseCode: req.WarehouseCode,
		Quantity:      resp.Quantity,
		OrderID:       req.OrderID,
		ExpiresAt:     resp.ExpiresAt.Format(time.RFC3339),
	})

	if available := onHand - reserved; available <= s.opts.LowStockThreshold {
		if available < 0 {
			available = 0
		}
		s.publish(ctx, events.TypeLowStock, events.LowStockPayload{
			ProductSku:    req.ProductSku,
			WarehouseCode: req.WarehouseCode,
			Available:     available,
			OnHand:        onHand,
			Reserved:      reserved,
		})
	}

	return resp, nil
}

// ── Release ──────────────────────────────────────────────────────────────────

func (s *reservationService) Release(ctx context.Context, reservationID string) (*dto.ReleaseResponse, error) {
	res, err := s.closeReservation(ctx, reservationID, model.StatusReleased, events.ReasonExplicit)
	if err != nil {
		return nil, err
	}
	return &dto.ReleaseResponse{
		ReservationID: res.ReservationID,
		ReleasedAt:    *res.ReleasedAt,
	}, nil
}

// closeReservation drives an active reservation into a terminal state and
// returns the quantity to availability. It is the one shared routine behind
// both the public release call and the sweeper's reclaim — same lock order,
// same counter decrement, same event, parameterized by status and reason.
func (s *reservationService) closeReservation(ctx context.Context, reservationID, terminalStatus, reason string) (*model.Reservation, error) {
	var (
		closed *model.Reservation
		entry  *model.StockEntry
	)
	err := s.withRetry(ctx, func() error {
		return s.stocks.Transaction(ctx, func(tx *gorm.DB) error {
			res, err := s.reservations.FindByTokenForUpdate(tx, reservationID)
			if err != nil {
				return fmt.Errorf("reservation %s: %w", reservationID, err)
			}
			if res.Status != model.StatusActive {
				return &NotActiveError{ReservationID: reservationID, Status: res.Status}
			}

			e, err := s.stocks.FindEntryByIDForUpdate(tx, res.StockEntryID)
			if err != nil {
				return fmt.Errorf("stock entry for reservation %s: %w", reservationID, err)
			}

			// Deliberately unclamped: a negative result means the invariant
			// was already broken upstream, and hiding it would mask that.
			if newReserved := e.Reserved - res.Quantity; newReserved < 0 {
				log.Warn().
					Str("reservation_id", reservationID).
					Str("stock_entry_id", e.ID.String()).
					Int("reserved", e.Reserved).
					Int("quantity", res.Quantity).
					Msg("reserved counter going negative — invariant violation upstream")
			}
			if err := s.stocks.AddReserved(tx, e.ID, -res.Quantity); err != nil {
				return err
			}

			now := s.now()
			if err := s.reservations.Close(tx, res.ID, terminalStatus, now); err != nil {
				return err
			}
			res.Status = terminalStatus
			res.ReleasedAt = &now
			closed = res
			entry = e
			return nil
		})
	})
	if err != nil {
		return nil, s.classify(err)
	}

	payload := events.ReleasedPayload{
		ReservationID: closed.ReservationID,
		Quantity:      closed.Quantity,
		Reason:        reason,
	}
	if entry.Product != nil {
		payload.ProductSku = entry.Product.SKU
	}
	if entry.Warehouse != nil {
		payload.WarehouseCode = entry.Warehouse.Code
	}
	s.publish(ctx, events.TypeReleased, payload)

	return closed, nil
}

// ── Availability ─────────────────────────────────────────────────────────────

func (s *reservationService) GetAvailability(ctx context.Context, productSku, warehouseCode string) ([]dto.AvailabilityRow, error) {
	rows, err := s.stocks.Availability(ctx, productSku, warehouseCode)
	if err != nil {
		return nil, s.classify(err)
	}
	return rows, nil
}

// ── Sweep ────────────────────────────────────────────────────────────────────

// SweepOnce reclaims every reservation past its deadline, each in its own
// transaction so one failure never aborts the rest. A reservation that fails
// to close stays active and is retried on the next tick.
func (s *reservationService) SweepOnce(ctx context.Context) (int, error) {
	expired, err := s.reservations.ListExpired(ctx, s.now())
	if err != nil {
		return 0, s.classify(err)
	}

	reclaimed := 0
	for i := range expired {
		res := &expired[i]
		if _, err := s.closeReservation(ctx, res.ReservationID, model.StatusExpired, events.ReasonExpired); err != nil {
			var notActive *NotActiveError
			if errors.As(err, &notActive) {
				// lost the race to an explicit release — nothing to reclaim
				log.Debug().Str("reservation_id", res.ReservationID).Msg("sweep: reservation closed concurrently")
				continue
			}
			log.Error().Str("reservation_id", res.ReservationID).Err(err).Msg("sweep: failed to reclaim reservation")
			continue
		}
		reclaimed++
	}
	return reclaimed, nil
}

// ── Internals ────────────────────────────────────────────────────────────────

// withRetry re-runs op on transient store contention (serialization failure,
// deadlock, lock timeout) with exponential backoff. Exhaustion collapses to
// ErrUnavailable; everything else passes through untouched.
func (s *reservationService) withRetry(ctx context.Context, op func() error) error {
	backoff := defaultRetryBackoff
	var err error
	for attempt := 0; attempt <= s.opts.LockRetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		err = op()
		if err == nil || !isRetryable(err) {
			return err
		}
		log.Warn().Int("attempt", attempt+1).Err(err).Msg("store contention, retrying")
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03": // serialization failure, deadlock, lock not available
			return true
		}
	}
	return false
}

// classify maps store-level errors onto the engine's typed error kinds.
// Domain errors pass through; unknown persistence failures become ErrInternal
// so callers never see driver details.
func (s *reservationService) classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, err.Error())
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidTimeout),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrUnavailable):
		return err
	}
	var insufficient *InsufficientStockError
	var notActive *NotActiveError
	if errors.As(err, &insufficient) || errors.As(err, &notActive) {
		return err
	}
	log.Error().Err(err).Msg("unexpected persistence failure")
	return fmt.Errorf("%w: %v", ErrInternal, err)
}

// publish is fire-and-forget: a sink failure is recorded for operational
// visibility and never propagated into the operation's result.
func (s *reservationService) publish(ctx context.Context, eventType string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, payload); err != nil {
		log.Warn().Str("event_type", eventType).Err(err).Msg("event publish failed")
	}
}
