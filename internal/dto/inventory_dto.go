package dto

import "time"

type ReserveRequest struct {
	ProductSku     string `json:"product_sku" validate:"required,max=50"`
	WarehouseCode  string `json:"warehouse_code" validate:"required,max=10"`
	Quantity       int    `json:"quantity" validate:"required,min=1"`
	OrderID        string `json:"order_id" validate:"omitempty,max=100"`
	// TimeoutMinutes overrides the configured reservation TTL. Bounds are
	// enforced by the service, not here, so the engine owns the contract.
	TimeoutMinutes *int `json:"timeout_minutes" validate:"omitempty"`
}

type ReserveResponse struct {
	ReservationID string    `json:"reservation_id"`
	ExpiresAt     time.Time `json:"expires_at"`
	Quantity      int       `json:"quantity"`
}

type ReleaseRequest struct {
	ReservationID string `json:"reservation_id" validate:"required,max=100"`
}

type ReleaseResponse struct {
	ReservationID string    `json:"reservation_id"`
	ReleasedAt    time.Time `json:"released_at"`
}

type AvailabilityQuery struct {
	ProductSku    string `form:"product_sku" binding:"required"`
	WarehouseCode string `form:"warehouse_code"`
}

// AvailabilityRow is scanned straight from the joined availability query;
// Available is derived afterwards, never stored.
type AvailabilityRow struct {
	ProductSku    string `json:"product_sku"`
	WarehouseCode string `json:"warehouse_code"`
	OnHand        int    `json:"on_hand"`
	Reserved      int    `json:"reserved"`
	Available     int    `json:"available"`
}
