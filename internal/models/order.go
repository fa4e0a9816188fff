package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderDraft         OrderStatus = "DRAFT"
	OrderConfirmed     OrderStatus = "CONFIRMED"
	OrderInPreparation OrderStatus = "IN_PREPARATION"
	OrderDelivered     OrderStatus = "DELIVERED"
	OrderCancelled     OrderStatus = "CANCELLED"
)

// Order is a client purchase. Created as DRAFT without touching stock;
// stock decrements happen only on the transition to CONFIRMED.
type Order struct {
	ID              int             `db:"id" json:"id"`
	OrderNumber     string          `db:"order_number" json:"orderNumber"`
	DistributorID   int             `db:"distributor_id" json:"-"`
	CustomerID      int             `db:"customer_id" json:"customerId"`
	SalespersonID   *int            `db:"salesperson_id" json:"salespersonId,omitempty"`
	Status          OrderStatus     `db:"status" json:"status"`
	Total           decimal.Decimal `db:"total" json:"total"`
	DeliveryAddress *string         `db:"delivery_address" json:"deliveryAddress,omitempty"`
	Notes           *string         `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"-"`
}

// OrderItem is one line of an order. UnitPrice is snapshotted from the
// product's price at creation time and never changes afterwards.
type OrderItem struct {
	ID        int             `db:"id" json:"id"`
	OrderID   int             `db:"order_id" json:"-"`
	ProductID int             `db:"product_id" json:"productId"`
	SKU       string          `db:"sku" json:"sku"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unitPrice"`
	Subtotal  decimal.Decimal `db:"subtotal" json:"subtotal"`
}

// OrderWithItems is the aggregate returned by order operations.
type OrderWithItems struct {
	Order
	Items []OrderItem `json:"items"`
}

// CanTransition reports whether an order may move from its current status to
// the target status. DELIVERED and CANCELLED are terminal.
func CanTransition(from, to OrderStatus) bool {
	switch from {
	case OrderDraft:
		return to == OrderConfirmed || to == OrderCancelled
	case OrderConfirmed:
		return to == OrderInPreparation || to == OrderCancelled
	case OrderInPreparation:
		return to == OrderDelivered || to == OrderCancelled
	default:
		return false
	}
}
