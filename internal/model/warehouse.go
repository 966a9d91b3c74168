package model

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse is a physical location holding stock. Like Product, it is
// reference data as far as the engine is concerned.
type Warehouse struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code      string    `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	Location  string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
}
