package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is catalog identity only — the reservation engine reads it,
// never mutates it.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU         string    `gorm:"column:sku;uniqueIndex;not null"`
	Name        string    `gorm:"not null"`
	Description string
	CreatedAt   time.Time
}
