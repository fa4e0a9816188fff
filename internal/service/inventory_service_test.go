package service

import (
	"errors"
	"testing"
	"time"

	"github.com/DistriaGit/distria_api/internal/models"
	"github.com/DistriaGit/distria_api/internal/utils"
)

func lot(id, stock int, expiresInDays int) models.InventoryLot {
	return models.InventoryLot{
		ID:             id,
		ProductID:      1,
		StockQuantity:  stock,
		ExpirationDate: time.Now().AddDate(0, 0, expiresInDays),
	}
}

func TestPlanFEFOConsumesEarliestExpiryFirst(t *testing.T) {
	// Lots arrive pre-ordered by expiration date, soonest first.
	lots := []models.InventoryLot{
		lot(1, 3, 5),
		lot(2, 10, 60),
	}

	plan, err := planFEFO("SKU-1", lots, 5)
	if err != nil {
		t.Fatalf("planFEFO: %v", err)
	}
	if len(plan) != 2 {
		t.Fatalf("expected 2 deductions, got %d", len(plan))
	}

	if plan[0].LotID != 1 || plan[0].Quantity != 3 {
		t.Errorf("first deduction = lot %d qty %d, want lot 1 qty 3", plan[0].LotID, plan[0].Quantity)
	}
	if plan[0].NewStock != 0 {
		t.Errorf("first lot should be drained to 0, got %d", plan[0].NewStock)
	}
	if plan[1].LotID != 2 || plan[1].Quantity != 2 {
		t.Errorf("second deduction = lot %d qty %d, want lot 2 qty 2", plan[1].LotID, plan[1].Quantity)
	}
	if plan[1].PreviousStock != 10 || plan[1].NewStock != 8 {
		t.Errorf("second lot stock %d -> %d, want 10 -> 8", plan[1].PreviousStock, plan[1].NewStock)
	}
}

func TestPlanFEFOSingleLotCoversRequest(t *testing.T) {
	lots := []models.InventoryLot{
		lot(1, 8, 10),
		lot(2, 4, 90),
	}

	plan, err := planFEFO("SKU-1", lots, 6)
	if err != nil {
		t.Fatalf("planFEFO: %v", err)
	}
	if len(plan) != 1 {
		t.Fatalf("expected 1 deduction, got %d", len(plan))
	}
	if plan[0].LotID != 1 || plan[0].NewStock != 2 {
		t.Errorf("deduction = lot %d newStock %d, want lot 1 newStock 2", plan[0].LotID, plan[0].NewStock)
	}
}

func TestPlanFEFOSkipsEmptyLots(t *testing.T) {
	lots := []models.InventoryLot{
		lot(1, 0, 2),
		lot(2, 5, 30),
	}

	plan, err := planFEFO("SKU-1", lots, 5)
	if err != nil {
		t.Fatalf("planFEFO: %v", err)
	}
	if len(plan) != 1 || plan[0].LotID != 2 {
		t.Fatalf("empty lot must not appear in plan: %+v", plan)
	}
}

func TestPlanFEFOInsufficientStock(t *testing.T) {
	lots := []models.InventoryLot{
		lot(1, 3, 5),
		lot(2, 7, 60),
	}

	plan, err := planFEFO("SKU-1", lots, 11)
	if plan != nil {
		t.Errorf("plan must be nil on shortfall, got %+v", plan)
	}

	var insufficientStock *utils.InsufficientStockError
	if !errors.As(err, &insufficientStock) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficientStock.SKU != "SKU-1" {
		t.Errorf("SKU = %q, want SKU-1", insufficientStock.SKU)
	}
	if insufficientStock.Available != 10 || insufficientStock.Requested != 11 {
		t.Errorf("available=%d requested=%d, want 10 and 11",
			insufficientStock.Available, insufficientStock.Requested)
	}
}

func TestPlanFEFONoLots(t *testing.T) {
	_, err := planFEFO("SKU-1", nil, 1)
	var insufficientStock *utils.InsufficientStockError
	if !errors.As(err, &insufficientStock) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficientStock.Available != 0 {
		t.Errorf("available = %d, want 0", insufficientStock.Available)
	}
}

func TestPlanFEFOExactCover(t *testing.T) {
	lots := []models.InventoryLot{
		lot(1, 4, 5),
		lot(2, 6, 60),
	}

	plan, err := planFEFO("SKU-1", lots, 10)
	if err != nil {
		t.Fatalf("planFEFO: %v", err)
	}
	total := 0
	for _, step := range plan {
		total += step.Quantity
		if step.NewStock != step.PreviousStock-step.Quantity {
			t.Errorf("inconsistent step %+v", step)
		}
	}
	if total != 10 {
		t.Errorf("plan covers %d units, want 10", total)
	}
}

func TestIntakeMovement(t *testing.T) {
	l := lot(4, 5, 90)

	movement, newStock := intakeMovement(&l, 7, "delivery 42")
	if newStock != 12 {
		t.Fatalf("newStock = %d, want 12", newStock)
	}
	if movement.Type != models.MovementInbound {
		t.Errorf("type = %s, want %s", movement.Type, models.MovementInbound)
	}
	if movement.PreviousStock != 5 || movement.NewStock != 12 || movement.Quantity != 7 {
		t.Errorf("movement %d -> %d qty %d, want 5 -> 12 qty 7",
			movement.PreviousStock, movement.NewStock, movement.Quantity)
	}
	if movement.InventoryLotID != 4 || movement.Reason != "delivery 42" {
		t.Errorf("lot/reason = %d/%q, want 4/delivery 42", movement.InventoryLotID, movement.Reason)
	}
}

func TestAdjustmentMovement(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		delta     int
		wantStock int
		wantQty   int
	}{
		{"positive delta", 5, 3, 8, 3},
		{"negative delta", 5, -2, 3, 2},
		{"drain to zero", 5, -5, 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := lot(1, tt.stock, 30)
			movement, newStock, err := adjustmentMovement("SKU-1", &l, tt.delta, "recount")
			if err != nil {
				t.Fatalf("adjustmentMovement: %v", err)
			}
			if newStock != tt.wantStock {
				t.Errorf("newStock = %d, want %d", newStock, tt.wantStock)
			}
			if movement.Quantity != tt.wantQty {
				t.Errorf("quantity = %d, want %d", movement.Quantity, tt.wantQty)
			}
			// The write is always derived from the quantity that was checked.
			if movement.NewStock != movement.PreviousStock+tt.delta {
				t.Errorf("movement %d -> %d does not reflect delta %d",
					movement.PreviousStock, movement.NewStock, tt.delta)
			}
		})
	}
}

func TestAdjustmentMovementRejectsNegativeStock(t *testing.T) {
	l := lot(1, 5, 30)

	movement, _, err := adjustmentMovement("SKU-1", &l, -6, "recount")
	if movement != nil {
		t.Errorf("movement must be nil on rejection, got %+v", movement)
	}
	var insufficientStock *utils.InsufficientStockError
	if !errors.As(err, &insufficientStock) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficientStock.Available != 5 || insufficientStock.Requested != 6 {
		t.Errorf("available=%d requested=%d, want 5 and 6",
			insufficientStock.Available, insufficientStock.Requested)
	}
}
