package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/DistriaGit/distria_api/internal/models"
	"github.com/DistriaGit/distria_api/internal/repository"
	"github.com/DistriaGit/distria_api/internal/utils"
)

// InventoryService is the authoritative stock ledger. Every quantity change
// goes through it and leaves exactly one audit movement row per lot touched,
// so the ledger can be replayed from the movement trail.
type InventoryService struct {
	db          *sqlx.DB
	invRepo     *repository.InventoryRepository
	productRepo *repository.ProductRepository
}

// NewInventoryService constructs an InventoryService.
func NewInventoryService(db *sqlx.DB, invRepo *repository.InventoryRepository, productRepo *repository.ProductRepository) *InventoryService {
	return &InventoryService{db: db, invRepo: invRepo, productRepo: productRepo}
}

// GetAvailableStock sums active-lot quantities for a SKU within a
// distributor. Unknown or inactive SKUs report ErrProductNotFound.
func (s *InventoryService) GetAvailableStock(ctx context.Context, distributorID int, sku string) (*models.ProductStock, error) {
	product, err := s.productRepo.GetBySKU(distributorID, sku)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, utils.ErrProductNotFound
	}

	lots, err := s.invRepo.LotsByProduct(product.ID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, lot := range lots {
		total += lot.StockQuantity
	}
	return &models.ProductStock{
		ProductID: product.ID,
		SKU:       product.SKU,
		Name:      product.Name,
		Stock:     total,
		Lots:      lots,
	}, nil
}

// lotDeduction is one step of a FEFO decrement plan.
type lotDeduction struct {
	LotID         int
	Quantity      int
	PreviousStock int
	NewStock      int
}

// planFEFO builds the deduction plan for removing quantity units from the
// given lots, consuming soonest-to-expire lots first. Lots must already be in
// FEFO order. Returns InsufficientStockError without touching anything when
// the lots cannot cover the request.
func planFEFO(sku string, lots []models.InventoryLot, quantity int) ([]lotDeduction, error) {
	available := 0
	for _, lot := range lots {
		available += lot.StockQuantity
	}
	if available < quantity {
		return nil, &utils.InsufficientStockError{SKU: sku, Available: available, Requested: quantity}
	}

	plan := make([]lotDeduction, 0, 2)
	remaining := quantity
	for _, lot := range lots {
		if remaining == 0 {
			break
		}
		if lot.StockQuantity == 0 {
			continue
		}
		take := lot.StockQuantity
		if take > remaining {
			take = remaining
		}
		plan = append(plan, lotDeduction{
			LotID:         lot.ID,
			Quantity:      take,
			PreviousStock: lot.StockQuantity,
			NewStock:      lot.StockQuantity - take,
		})
		remaining -= take
	}
	return plan, nil
}

// decrementTx removes quantity units of a product inside the caller's
// transaction: locks the lots FEFO, plans the deduction, applies it, and
// writes one OUTBOUND movement per touched lot.
func (s *InventoryService) decrementTx(tx *sqlx.Tx, product *models.Product, quantity int, orderID *int, reason string) error {
	lots, err := s.invRepo.LotsByProductForUpdate(tx, product.ID)
	if err != nil {
		return err
	}

	plan, err := planFEFO(product.SKU, lots, quantity)
	if err != nil {
		return err
	}

	for _, step := range plan {
		if err := s.invRepo.UpdateLotQuantityTx(tx, step.LotID, step.NewStock); err != nil {
			return err
		}
		movement := &models.StockMovement{
			InventoryLotID: step.LotID,
			Type:           models.MovementOutbound,
			Quantity:       step.Quantity,
			PreviousStock:  step.PreviousStock,
			NewStock:       step.NewStock,
			Reason:         reason,
			OrderID:        orderID,
		}
		if err := s.invRepo.InsertMovementTx(tx, movement); err != nil {
			return err
		}
	}
	return nil
}

// DecrementStock removes quantity units of a SKU in its own transaction,
// FEFO across lots. Fails with InsufficientStockError leaving state unchanged
// when the request exceeds availability.
func (s *InventoryService) DecrementStock(ctx context.Context, distributorID int, sku string, quantity int, reason string) error {
	if quantity <= 0 {
		return &utils.ValidationError{Field: "quantity", Message: "must be a positive integer"}
	}
	product, err := s.productRepo.GetBySKU(distributorID, sku)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return utils.ErrProductNotFound
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.decrementTx(tx, product, quantity, nil, reason); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	log.Info().Int("distributor_id", distributorID).Str("sku", sku).
		Int("quantity", quantity).Msg("stock decremented")
	return nil
}

// IncrementStock adds quantity units to a lot, creating the lot when the
// lot number is new (expirationDate is required in that case). Records one
// INBOUND movement.
func (s *InventoryService) IncrementStock(ctx context.Context, distributorID int, req *StockIntakeRequest) (*models.InventoryLot, error) {
	if req.Quantity <= 0 {
		return nil, &utils.ValidationError{Field: "quantity", Message: "must be a positive integer"}
	}
	product, err := s.productRepo.GetBySKU(distributorID, req.SKU)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, utils.ErrProductNotFound
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	lot, err := s.invRepo.GetLotByNumberForUpdate(tx, product.ID, req.LotNumber)
	if err != nil {
		if err != utils.ErrLotNotFound {
			return nil, err
		}
		if req.ExpirationDate.IsZero() {
			return nil, &utils.ValidationError{Field: "expirationDate", Message: "required when creating a new lot"}
		}
		lot = &models.InventoryLot{
			ProductID:      product.ID,
			DistributorID:  distributorID,
			LotNumber:      req.LotNumber,
			StockQuantity:  0,
			ExpirationDate: req.ExpirationDate,
		}
		if err := s.invRepo.CreateLotTx(tx, lot); err != nil {
			return nil, err
		}
	}

	movement, newStock := intakeMovement(lot, req.Quantity, req.Reason)
	if err := s.invRepo.UpdateLotQuantityTx(tx, lot.ID, newStock); err != nil {
		return nil, err
	}
	if err := s.invRepo.InsertMovementTx(tx, movement); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	lot.StockQuantity = newStock
	return lot, nil
}

// intakeMovement builds the INBOUND movement for adding quantity units to a
// locked lot. The new quantity is derived from the locked row so concurrent
// intakes never lose an update.
func intakeMovement(lot *models.InventoryLot, quantity int, reason string) (*models.StockMovement, int) {
	newStock := lot.StockQuantity + quantity
	return &models.StockMovement{
		InventoryLotID: lot.ID,
		Type:           models.MovementInbound,
		Quantity:       quantity,
		PreviousStock:  lot.StockQuantity,
		NewStock:       newStock,
		Reason:         reason,
	}, newStock
}

// adjustmentMovement builds the ADJUSTMENT movement for applying delta to a
// locked lot. Deltas that would take the lot below zero are rejected.
func adjustmentMovement(sku string, lot *models.InventoryLot, delta int, reason string) (*models.StockMovement, int, error) {
	newStock := lot.StockQuantity + delta
	if newStock < 0 {
		return nil, 0, &utils.InsufficientStockError{SKU: sku, Available: lot.StockQuantity, Requested: -delta}
	}
	quantity := delta
	if quantity < 0 {
		quantity = -quantity
	}
	return &models.StockMovement{
		InventoryLotID: lot.ID,
		Type:           models.MovementAdjustment,
		Quantity:       quantity,
		PreviousStock:  lot.StockQuantity,
		NewStock:       newStock,
		Reason:         reason,
	}, newStock, nil
}

// AdjustStock applies a manual correction to one lot. Negative deltas that
// would cross below zero are rejected. Records one ADJUSTMENT movement.
func (s *InventoryService) AdjustStock(ctx context.Context, distributorID, lotID, delta int, reason string) (*models.InventoryLot, error) {
	if delta == 0 {
		return nil, &utils.ValidationError{Field: "delta", Message: "must be non-zero"}
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Non-negativity is checked on the locked row: two concurrent negative
	// adjustments must not both pass against the same stale quantity.
	lot, err := s.invRepo.GetLotByIDForUpdate(tx, lotID)
	if err != nil {
		return nil, err
	}
	if lot.DistributorID != distributorID {
		return nil, utils.ErrLotNotFound
	}

	sku := fmt.Sprintf("lot %s", lot.LotNumber)
	if product, perr := s.productRepo.GetByID(distributorID, lot.ProductID); perr == nil {
		sku = product.SKU
	}
	movement, newStock, err := adjustmentMovement(sku, lot, delta, reason)
	if err != nil {
		return nil, err
	}

	if err := s.invRepo.UpdateLotQuantityTx(tx, lot.ID, newStock); err != nil {
		return nil, err
	}
	if err := s.invRepo.InsertMovementTx(tx, movement); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	lot.StockQuantity = newStock
	return lot, nil
}

// Movements returns the audit trail of one lot.
func (s *InventoryService) Movements(ctx context.Context, distributorID, lotID, limit int) ([]models.StockMovement, error) {
	lot, err := s.invRepo.GetLotByID(lotID)
	if err != nil {
		return nil, err
	}
	if lot.DistributorID != distributorID {
		return nil, utils.ErrLotNotFound
	}
	return s.invRepo.MovementsByLot(lotID, limit)
}

// StockIntakeRequest describes an inbound stock delivery. ExpirationDate is
// required only when the lot number is new for the product.
type StockIntakeRequest struct {
	SKU            string    `json:"sku" binding:"required"`
	LotNumber      string    `json:"lotNumber" binding:"required"`
	Quantity       int       `json:"quantity" binding:"required"`
	ExpirationDate time.Time `json:"expirationDate"`
	Reason         string    `json:"reason"`
}
