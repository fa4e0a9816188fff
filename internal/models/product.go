package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry owned by one distributor. Identity (id, sku) is
// immutable once created; prices are mutable through admin CRUD. Inactive
// products are soft-deleted: excluded from search, suggestions, and ordering.
type Product struct {
	ID              int              `db:"id" json:"id"`
	DistributorID   int              `db:"distributor_id" json:"-"`
	SKU             string           `db:"sku" json:"sku"`
	Name            string           `db:"name" json:"name"`
	Description     *string          `db:"description" json:"description,omitempty"`
	BasePrice       decimal.Decimal  `db:"base_price" json:"basePrice"`
	DiscountedPrice *decimal.Decimal `db:"discounted_price" json:"discountedPrice,omitempty"`
	IsActive        bool             `db:"is_active" json:"isActive"`
	CreatedAt       time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time        `db:"updated_at" json:"-"`
}

// EffectivePrice returns the discounted price when one is set, otherwise the
// base price. Order items snapshot this value at creation time.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.BasePrice
}
