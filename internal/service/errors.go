package service

import (
	"errors"
	"fmt"
)

// Typed engine errors. Business-rule violations get their own kind so callers
// never have to string-match; infrastructure failures collapse to
// ErrUnavailable (contention retries exhausted) or ErrInternal.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidTimeout  = errors.New("timeout out of bounds")
	ErrUnavailable     = errors.New("store temporarily unavailable")
	ErrInternal        = errors.New("internal error")
)

// InsufficientStockError is returned when a reserve exceeds the entry's
// available units. The entry is left untouched.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %d, requested %d", e.Available, e.Requested)
}

// NotActiveError is returned when closing a reservation that is not in the
// active state. A second release attempt is an error, not a no-op.
type NotActiveError struct {
	ReservationID string
	Status        string
}

func (e *NotActiveError) Error() string {
	return fmt.Sprintf("reservation %s is not active (status: %s)", e.ReservationID, e.Status)
}
