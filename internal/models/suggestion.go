package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SuggestionFeatures are the per-candidate signals behind one suggestion,
// computed fresh from order and inventory history at a reference timestamp.
// They are never persisted; callers (and the language model) use the raw
// values to explain why a product was recommended.
type SuggestionFeatures struct {
	ClientOrderCount26w int        `json:"clientOrderCount26w"`
	ClientQty26w        int        `json:"clientQty26w"`
	LastBuyAt           *time.Time `json:"lastBuyAt,omitempty"`
	ClientBoughtBefore  bool       `json:"clientBoughtBefore"`
	GlobalOrderCount1y  int        `json:"globalOrderCount1y"`
	GlobalBuyerCount1y  int        `json:"globalBuyerCount1y"`
	GlobalQty1y         int        `json:"globalQty1y"`
	IsNew               bool       `json:"isNew"`
	StockTotal          int        `json:"stockTotal"`
	MinDaysToExpiry     *int       `json:"minDaysToExpiry,omitempty"`
	HasStock            bool       `json:"hasStock"`
	ExpiringSoon        bool       `json:"expiringSoon"`
}

// SuggestedProduct is one ranked recommendation.
type SuggestedProduct struct {
	ProductID int                `json:"productId"`
	SKU       string             `json:"sku"`
	Name      string             `json:"name"`
	Price     decimal.Decimal    `json:"price"`
	Score     float64            `json:"score"`
	Features  SuggestionFeatures `json:"features"`
}
