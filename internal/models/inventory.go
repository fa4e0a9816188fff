package models

import "time"

type MovementType string

const (
	MovementInbound    MovementType = "INBOUND"
	MovementOutbound   MovementType = "OUTBOUND"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// InventoryLot is one received batch of a product with its own expiration
// date. Quantities change only through stock movements; lots are never
// deleted so the audit trail stays replayable, quantity may reach 0.
type InventoryLot struct {
	ID             int       `db:"id" json:"id"`
	ProductID      int       `db:"product_id" json:"productId"`
	DistributorID  int       `db:"distributor_id" json:"-"`
	LotNumber      string    `db:"lot_number" json:"lotNumber"`
	StockQuantity  int       `db:"stock_quantity" json:"stockQuantity"`
	ExpirationDate time.Time `db:"expiration_date" json:"expirationDate"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"-"`
}

// StockMovement is one append-only audit row per quantity change.
// new_stock = previous_stock +/- quantity depending on type and must never
// go below zero.
type StockMovement struct {
	ID             int          `db:"id" json:"id"`
	InventoryLotID int          `db:"inventory_lot_id" json:"inventoryLotId"`
	Type           MovementType `db:"type" json:"type"`
	Quantity       int          `db:"quantity" json:"quantity"`
	PreviousStock  int          `db:"previous_stock" json:"previousStock"`
	NewStock       int          `db:"new_stock" json:"newStock"`
	Reason         string       `db:"reason" json:"reason"`
	OrderID        *int         `db:"order_id" json:"orderId,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"createdAt"`
}

// ProductStock is the availability view for one product: total units across
// lots plus the per-lot breakdown.
type ProductStock struct {
	ProductID int            `json:"productId"`
	SKU       string         `json:"sku"`
	Name      string         `json:"name"`
	Stock     int            `json:"stock"`
	Lots      []InventoryLot `json:"lots"`
}
