package repository

import (
	"context"

	"github.com/Kavin-Nithil/inventory-svc/internal/dto"
	"github.com/Kavin-Nithil/inventory-svc/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepository is the data access contract for products, warehouses and
// stock entries. Services depend on this interface, not on the concrete GORM
// implementation, enabling clean unit testing via stubs.
//
// Transaction is the single serialization point of the engine: every mutating
// operation runs inside it, and the ForUpdate methods acquire the row-level
// exclusive lock (SELECT … FOR UPDATE) that lasts until commit or rollback.
type StockRepository interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error

	FindProductBySKU(ctx context.Context, sku string) (*model.Product, error)
	FindWarehouseByCode(ctx context.Context, code string) (*model.Warehouse, error)

	// Used inside transactions — callers must pass the tx instance
	FindEntryForUpdate(tx *gorm.DB, productID, warehouseID uuid.UUID) (*model.StockEntry, error)
	FindEntryByIDForUpdate(tx *gorm.DB, entryID uuid.UUID) (*model.StockEntry, error)
	AddReserved(tx *gorm.DB, entryID uuid.UUID, delta int) error

	Availability(ctx context.Context, sku, warehouseCode string) ([]dto.AvailabilityRow, error)
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *stockRepo) FindProductBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&p).Error
	return &p, err
}

func (r *stockRepo) FindWarehouseByCode(ctx context.Context, code string) (*model.Warehouse, error) {
	var w model.Warehouse
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&w).Error
	return &w, err
}

func (r *stockRepo) FindEntryForUpdate(tx *gorm.DB, productID, warehouseID uuid.UUID) (*model.StockEntry, error) {
	var e model.StockEntry
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *stockRepo) FindEntryByIDForUpdate(tx *gorm.DB, entryID uuid.UUID) (*model.StockEntry, error) {
	var e model.StockEntry
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", entryID).
		First(&e).Error
	if err != nil {
		return nil, err
	}

	// Product/warehouse identifiers ride along for event payloads. Loaded as
	// plain reads after the lock is held — reference data, never mutated here.
	var p model.Product
	if err := tx.First(&p, "id = ?", e.ProductID).Error; err == nil {
		e.Product = &p
	}
	var w model.Warehouse
	if err := tx.First(&w, "id = ?", e.WarehouseID).Error; err == nil {
		e.Warehouse = &w
	}
	return &e, nil
}

func (r *stockRepo) AddReserved(tx *gorm.DB, entryID uuid.UUID, delta int) error {
	return tx.Model(&model.StockEntry{}).Where("id = ?", entryID).
		Update("reserved", gorm.Expr("reserved + ?", delta)).Error
}

func (r *stockRepo) Availability(ctx context.Context, sku, warehouseCode string) ([]dto.AvailabilityRow, error) {
	q := r.db.WithContext(ctx).
		Table("stock_entries").
		Select("products.sku AS product_sku, warehouses.code AS warehouse_code, stock_entries.on_hand, stock_entries.reserved").
		Joins("JOIN products ON products.id = stock_entries.product_id").
		Joins("JOIN warehouses ON warehouses.id = stock_entries.warehouse_id").
		Where("products.sku = ?", sku)

	if warehouseCode != "" {
		q = q.Where("warehouses.code = ?", warehouseCode)
	}

	var rows []dto.AvailabilityRow
	// Stable order by warehouse code — not contractual, but testable.
	if err := q.Order("warehouses.code ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		if avail := rows[i].OnHand - rows[i].Reserved; avail > 0 {
			rows[i].Available = avail
		}
	}
	return rows, nil
}
