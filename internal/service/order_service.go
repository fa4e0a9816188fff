package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/DistriaGit/distria_api/internal/models"
	"github.com/DistriaGit/distria_api/internal/repository"
	"github.com/DistriaGit/distria_api/internal/utils"
)

// OrderService turns requested line items into persisted, stock-validated
// orders and drives the order status machine. Draft creation only pre-checks
// availability; the authoritative stock decrement happens at confirmation,
// all items inside one transaction.
type OrderService struct {
	db           *sqlx.DB
	orderRepo    *repository.OrderRepository
	productRepo  *repository.ProductRepository
	customerRepo *repository.CustomerRepository
	inventory    *InventoryService
}

// NewOrderService constructs an OrderService.
func NewOrderService(db *sqlx.DB, orderRepo *repository.OrderRepository, productRepo *repository.ProductRepository,
	customerRepo *repository.CustomerRepository, inventory *InventoryService) *OrderService {
	return &OrderService{
		db:           db,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		inventory:    inventory,
	}
}

// OrderItemRequest is one requested line of a new order.
type OrderItemRequest struct {
	SKU      string `json:"sku" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

// CreateOrderInput carries everything needed to create a draft order.
type CreateOrderInput struct {
	DistributorID   int
	CustomerID      int
	SalespersonID   *int
	Items           []OrderItemRequest
	DeliveryAddress *string
	Notes           *string
}

// CreateOrder validates the requested items, snapshots current prices, and
// persists a DRAFT order. Stock is checked per item but not reserved: the
// check is best-effort and availability can still change before confirmation.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.OrderWithItems, error) {
	if len(in.Items) == 0 {
		return nil, utils.ErrEmptyOrder
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, &utils.ValidationError{Field: "quantity", Message: fmt.Sprintf("must be a positive integer (sku %s)", item.SKU)}
		}
	}

	if _, err := s.customerRepo.GetByID(in.DistributorID, in.CustomerID); err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	for _, req := range in.Items {
		product, err := s.productRepo.GetBySKU(in.DistributorID, req.SKU)
		if err != nil {
			return nil, err
		}
		if !product.IsActive {
			return nil, utils.ErrProductNotFound
		}

		stock, err := s.inventory.GetAvailableStock(ctx, in.DistributorID, req.SKU)
		if err != nil {
			return nil, err
		}
		if stock.Stock < req.Quantity {
			return nil, &utils.InsufficientStockError{SKU: req.SKU, Available: stock.Stock, Requested: req.Quantity}
		}

		unitPrice := product.EffectivePrice()
		subtotal := unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			SKU:       product.SKU,
			Quantity:  req.Quantity,
			UnitPrice: unitPrice,
			Subtotal:  subtotal,
		})
	}
	total := orderTotal(items)

	orderNumber, err := utils.GenerateOrderNumber(time.Now())
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNumber:     orderNumber,
		DistributorID:   in.DistributorID,
		CustomerID:      in.CustomerID,
		SalespersonID:   in.SalespersonID,
		Status:          models.OrderDraft,
		Total:           total,
		DeliveryAddress: in.DeliveryAddress,
		Notes:           in.Notes,
	}
	if err := s.orderRepo.CreateWithItems(order, items); err != nil {
		return nil, err
	}

	log.Info().Str("order_number", order.OrderNumber).Int("customer_id", in.CustomerID).
		Int("items", len(items)).Str("total", total.String()).Msg("draft order created")
	return &models.OrderWithItems{Order: *order, Items: items}, nil
}

// ConfirmOrder transitions a DRAFT order to CONFIRMED, decrementing stock for
// every item inside one transaction. If any item lacks stock the whole
// confirmation fails, nothing is decremented, and the order stays DRAFT.
func (s *OrderService) ConfirmOrder(ctx context.Context, distributorID, orderID int) (*models.OrderWithItems, error) {
	order, err := s.orderRepo.GetByID(distributorID, orderID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// The DRAFT check runs on the locked row. A second confirmation of the
	// same order blocks here and then fails the transition instead of
	// decrementing stock twice.
	status, err := s.orderRepo.StatusForUpdateTx(tx, distributorID, order.ID)
	if err != nil {
		return nil, err
	}
	if err := transitionError(status, models.OrderConfirmed); err != nil {
		return nil, err
	}

	reason := fmt.Sprintf("order %s confirmed", order.OrderNumber)
	for _, item := range canonicalItemOrder(order.Items) {
		product, err := s.productRepo.GetByID(distributorID, item.ProductID)
		if err != nil {
			return nil, err
		}
		if err := s.inventory.decrementTx(tx, product, item.Quantity, &order.ID, reason); err != nil {
			return nil, err
		}
	}
	if err := s.orderRepo.UpdateStatusTx(tx, order.ID, models.OrderConfirmed); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	order.Status = models.OrderConfirmed
	log.Info().Str("order_number", order.OrderNumber).Msg("order confirmed")
	return order, nil
}

// UpdateStatus validates and applies a status transition. Transitions into
// CONFIRMED go through ConfirmOrder so stock decrements are never skipped.
// Like confirmation, the transition is validated against the locked order row.
func (s *OrderService) UpdateStatus(ctx context.Context, distributorID, orderID int, newStatus models.OrderStatus) (*models.OrderWithItems, error) {
	if newStatus == models.OrderConfirmed {
		return s.ConfirmOrder(ctx, distributorID, orderID)
	}
	if !validOrderStatus(newStatus) {
		return nil, &utils.ValidationError{Field: "status", Message: "unknown order status"}
	}

	order, err := s.orderRepo.GetByID(distributorID, orderID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	status, err := s.orderRepo.StatusForUpdateTx(tx, distributorID, order.ID)
	if err != nil {
		return nil, err
	}
	if err := transitionError(status, newStatus); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatusTx(tx, order.ID, newStatus); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	order.Status = newStatus
	log.Info().Str("order_number", order.OrderNumber).Str("status", string(newStatus)).Msg("order status updated")
	return order, nil
}

// GetOrder returns an order with items, tenant-scoped.
func (s *OrderService) GetOrder(ctx context.Context, distributorID, orderID int) (*models.OrderWithItems, error) {
	return s.orderRepo.GetByID(distributorID, orderID)
}

// GetOrderByNumber returns an order with items by its public number.
func (s *OrderService) GetOrderByNumber(ctx context.Context, distributorID int, orderNumber string) (*models.OrderWithItems, error) {
	return s.orderRepo.GetByNumber(distributorID, orderNumber)
}

// ListOrders returns the distributor's orders, optionally filtered by status.
func (s *OrderService) ListOrders(ctx context.Context, distributorID int, status string, limit, offset int) ([]models.Order, error) {
	if status != "" && !validOrderStatus(models.OrderStatus(status)) {
		return nil, &utils.ValidationError{Field: "status", Message: "unknown order status"}
	}
	return s.orderRepo.ListByDistributor(distributorID, status, limit, offset)
}

// transitionError maps an invalid status transition to its domain error.
func transitionError(from, to models.OrderStatus) error {
	if !models.CanTransition(from, to) {
		return &utils.InvalidTransitionError{From: string(from), To: string(to)}
	}
	return nil
}

// canonicalItemOrder returns the items sorted by product id. Confirmation
// locks each product's lots as it walks the items; a fixed product order
// across concurrent confirmations prevents lock cycles.
func canonicalItemOrder(items []models.OrderItem) []models.OrderItem {
	sorted := append([]models.OrderItem(nil), items...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })
	return sorted
}

// orderTotal sums the item subtotals. The persisted total always equals this
// sum; subtotals are themselves quantity times the snapshotted unit price.
func orderTotal(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}
	return total
}

func validOrderStatus(s models.OrderStatus) bool {
	switch s {
	case models.OrderDraft, models.OrderConfirmed, models.OrderInPreparation, models.OrderDelivered, models.OrderCancelled:
		return true
	}
	return false
}
