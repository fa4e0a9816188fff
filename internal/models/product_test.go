package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEffectivePrice(t *testing.T) {
	base := decimal.RequireFromString("100.00")
	discounted := decimal.RequireFromString("85.00")

	p := Product{BasePrice: base}
	if !p.EffectivePrice().Equal(base) {
		t.Errorf("without discount, effective price = %s, want %s", p.EffectivePrice(), base)
	}

	p.DiscountedPrice = &discounted
	if !p.EffectivePrice().Equal(discounted) {
		t.Errorf("with discount, effective price = %s, want %s", p.EffectivePrice(), discounted)
	}
}
