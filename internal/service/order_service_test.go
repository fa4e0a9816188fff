package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/DistriaGit/distria_api/internal/models"
	"github.com/DistriaGit/distria_api/internal/utils"
)

func TestOrderTotalSumsSubtotals(t *testing.T) {
	items := []models.OrderItem{
		{SKU: "A", Quantity: 3, UnitPrice: decimal.RequireFromString("12.50"), Subtotal: decimal.RequireFromString("37.50")},
		{SKU: "B", Quantity: 2, UnitPrice: decimal.RequireFromString("9.99"), Subtotal: decimal.RequireFromString("19.98")},
	}

	total := orderTotal(items)
	if !total.Equal(decimal.RequireFromString("57.48")) {
		t.Errorf("total = %s, want 57.48", total)
	}
}

func TestOrderTotalEmpty(t *testing.T) {
	if total := orderTotal(nil); !total.Equal(decimal.Zero) {
		t.Errorf("empty order total = %s, want 0", total)
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []models.OrderStatus{
		models.OrderDraft, models.OrderConfirmed, models.OrderInPreparation,
		models.OrderDelivered, models.OrderCancelled,
	} {
		if !validOrderStatus(s) {
			t.Errorf("%s should be a valid status", s)
		}
	}
	if validOrderStatus(models.OrderStatus("SHIPPED")) {
		t.Error("SHIPPED is not a known status")
	}
}

func TestTransitionError(t *testing.T) {
	if err := transitionError(models.OrderDraft, models.OrderConfirmed); err != nil {
		t.Fatalf("DRAFT -> CONFIRMED: unexpected error %v", err)
	}

	// Re-confirming an already confirmed order must fail. Confirmation runs
	// this check against the locked order row, so the second of two
	// concurrent confirmations lands here instead of decrementing again.
	err := transitionError(models.OrderConfirmed, models.OrderConfirmed)
	var transition *utils.InvalidTransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("CONFIRMED -> CONFIRMED: got %v, want InvalidTransitionError", err)
	}
	if transition.From != "CONFIRMED" || transition.To != "CONFIRMED" {
		t.Errorf("transition = %s -> %s, want CONFIRMED -> CONFIRMED", transition.From, transition.To)
	}

	if err := transitionError(models.OrderDelivered, models.OrderCancelled); err == nil {
		t.Error("DELIVERED -> CANCELLED should be rejected")
	}
}

func TestCanonicalItemOrder(t *testing.T) {
	items := []models.OrderItem{
		{ProductID: 30, SKU: "C"},
		{ProductID: 10, SKU: "A"},
		{ProductID: 20, SKU: "B"},
	}

	sorted := canonicalItemOrder(items)
	for i, want := range []int{10, 20, 30} {
		if sorted[i].ProductID != want {
			t.Errorf("sorted[%d].ProductID = %d, want %d", i, sorted[i].ProductID, want)
		}
	}
	if items[0].ProductID != 30 {
		t.Error("input slice should not be reordered")
	}
}
