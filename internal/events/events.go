// Package events defines the domain event contract of the reservation engine
// and the concrete sinks it can publish through. Publication is best-effort:
// the engine attempts it after its own state transition has committed and
// swallows failures, so no sink may ever block or fail a reserve/release.
package events

import "context"

// Event types, matching the upstream consumers' queue/topic naming.
const (
	TypeReserved = "inventory.reserved"
	TypeReleased = "inventory.released"
	TypeLowStock = "inventory.low_stock"
)

// Release reasons carried in the released payload.
const (
	ReasonExplicit = "explicit"
	ReasonExpired  = "expired"
)

// Publisher is the injected capability the engine depends on. Tests substitute
// a recording stub and assert exact event sequences.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// Envelope is the wire format shared by all sinks.
type Envelope struct {
	EventType string `json:"event_type"`
	Payload   any    `json:"payload"`
}

type ReservedPayload struct {
	ReservationID string `json:"reservation_id"`
	ProductSku    string `json:"product_sku"`
	WarehouseCode string `json:"warehouse_code"`
	Quantity      int    `json:"quantity"`
	OrderID       string `json:"order_id"`
	ExpiresAt     string `json:"expires_at"` // RFC 3339
}

type ReleasedPayload struct {
	ReservationID string `json:"reservation_id"`
	ProductSku    string `json:"product_sku"`
	WarehouseCode string `json:"warehouse_code"`
	Quantity      int    `json:"quantity"`
	Reason        string `json:"reason"` // explicit | expired
}

type LowStockPayload struct {
	ProductSku    string `json:"product_sku"`
	WarehouseCode string `json:"warehouse_code"`
	Available     int    `json:"available"`
	OnHand        int    `json:"on_hand"`
	Reserved      int    `json:"reserved"`
}
