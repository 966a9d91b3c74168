package repository

import (
	"context"
	"time"

	"github.com/Kavin-Nithil/inventory-svc/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationRepository owns Reservation record lifetime. Mutations happen
// only inside the stock repository's transaction, under the StockEntry lock.
type ReservationRepository interface {
	// Used inside transactions — callers must pass the tx instance
	Create(tx *gorm.DB, r *model.Reservation) error
	FindByTokenForUpdate(tx *gorm.DB, reservationID string) (*model.Reservation, error)
	Close(tx *gorm.DB, id uuid.UUID, status string, releasedAt time.Time) error

	// ListExpired returns active reservations whose deadline is strictly in
	// the past. Read-only; each hit is re-checked under lock before closing.
	ListExpired(ctx context.Context, now time.Time) ([]model.Reservation, error)
}

type reservationRepo struct{ db *gorm.DB }

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepo{db: db}
}

func (r *reservationRepo) Create(tx *gorm.DB, res *model.Reservation) error {
	return tx.Create(res).Error
}

func (r *reservationRepo) FindByTokenForUpdate(tx *gorm.DB, reservationID string) (*model.Reservation, error) {
	var res model.Reservation
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("reservation_id = ?", reservationID).
		First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepo) Close(tx *gorm.DB, id uuid.UUID, status string, releasedAt time.Time) error {
	return tx.Model(&model.Reservation{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      status,
		"released_at": releasedAt,
	}).Error
}

func (r *reservationRepo) ListExpired(ctx context.Context, now time.Time) ([]model.Reservation, error) {
	var expired []model.Reservation
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", model.StatusActive, now).
		Order("expires_at ASC").
		Find(&expired).Error
	return expired, err
}
