package model

import (
	"time"

	"github.com/google/uuid"
)

// StockEntry holds the per product×warehouse counters. Invariant: Reserved
// equals the summed quantity of all active reservations on this entry.
// Every mutating operation locks this row (SELECT … FOR UPDATE) for the
// duration of its read-modify-write.
type StockEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_warehouse"`
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_warehouse"`
	OnHand      int       `gorm:"not null;default:0"`
	Reserved    int       `gorm:"not null;default:0"`
	UpdatedAt   time.Time

	Product   *Product   `gorm:"foreignKey:ProductID"`
	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID"`
}

// TableName overrides GORM's default pluralization (stock_entries, not stock_entrys).
func (StockEntry) TableName() string { return "stock_entries" }

// Available is the unclaimed portion of stock, clamped at zero so a prior
// bookkeeping violation never surfaces as a negative availability.
func (e *StockEntry) Available() int {
	if avail := e.OnHand - e.Reserved; avail > 0 {
		return avail
	}
	return 0
}
