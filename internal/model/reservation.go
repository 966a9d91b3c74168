package model

import (
	"time"

	"github.com/google/uuid"
)

// Reservation lifecycle: created active, then exactly one transition to
// released (explicit caller action) or expired (sweeper action). Terminal
// states never re-enter active.
const (
	StatusActive   = "active"
	StatusReleased = "released"
	StatusExpired  = "expired"
)

// Reservation is a time-bounded claim on a quantity of a StockEntry's
// available units. ReservationID is the opaque caller-facing token;
// the composite (status, expires_at) index serves the sweep query.
type Reservation struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReservationID string    `gorm:"uniqueIndex;not null"`
	StockEntryID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity      int       `gorm:"not null"`
	Status        string    `gorm:"not null;default:'active';index:idx_status_expires"`
	OrderID       string
	ExpiresAt     time.Time `gorm:"not null;index:idx_status_expires"`
	CreatedAt     time.Time
	ReleasedAt    *time.Time

	StockEntry *StockEntry `gorm:"foreignKey:StockEntryID"`
}
