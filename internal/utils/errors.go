package utils

import (
	"errors"
	"fmt"
)

// Common application errors used across services.
var (
	ErrProductNotFound     = errors.New("PRODUCT_NOT_FOUND")
	ErrCustomerNotFound    = errors.New("CUSTOMER_NOT_FOUND")
	ErrOrderNotFound       = errors.New("ORDER_NOT_FOUND")
	ErrLotNotFound         = errors.New("LOT_NOT_FOUND")
	ErrSalespersonNotFound = errors.New("SALESPERSON_NOT_FOUND")
	ErrInvalidCredentials  = errors.New("INVALID_CREDENTIALS")
	ErrTenantUnresolved    = errors.New("TENANT_UNRESOLVED")
	ErrEmptyOrder          = errors.New("EMPTY_ORDER")
)

// InsufficientStockError reports a stock shortfall for a specific SKU so the
// caller can tell the user exactly what is missing.
type InsufficientStockError struct {
	SKU       string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d", e.SKU, e.Available, e.Requested)
}

// InvalidTransitionError reports an illegal order status change.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order transition: %s -> %s", e.From, e.To)
}

// ValidationError reports malformed input rejected before any business logic
// runs. Field may be empty when the problem is not tied to a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrLotNotFound) ||
		errors.Is(err, ErrSalespersonNotFound)
}
