package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/DistriaGit/distria_api/internal/models"
	"github.com/DistriaGit/distria_api/internal/utils"
)

// OrderRepository handles data access for orders and their items.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateWithItems persists an order and its items in one transaction and
// fills in generated ids and timestamps.
func (r *OrderRepository) CreateWithItems(order *models.Order, items []models.OrderItem) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const qOrder = `
        INSERT INTO orders (order_number, distributor_id, customer_id, salesperson_id, status, total, delivery_address, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	if err := tx.QueryRowx(qOrder,
		order.OrderNumber, order.DistributorID, order.CustomerID, order.SalespersonID,
		order.Status, order.Total, order.DeliveryAddress, order.Notes,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return err
	}

	const qItem = `
        INSERT INTO order_items (order_id, product_id, sku, quantity, unit_price, subtotal)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`

	for i := range items {
		items[i].OrderID = order.ID
		if err := tx.QueryRowx(qItem,
			items[i].OrderID, items[i].ProductID, items[i].SKU,
			items[i].Quantity, items[i].UnitPrice, items[i].Subtotal,
		).Scan(&items[i].ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID returns an order with items, scoped to a distributor.
func (r *OrderRepository) GetByID(distributorID, orderID int) (*models.OrderWithItems, error) {
	const q = `SELECT * FROM orders WHERE distributor_id = $1 AND id = $2 LIMIT 1`

	var order models.Order
	if err := r.db.Get(&order, q, distributorID, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}
	return r.withItems(&order)
}

// GetByNumber returns an order with items by its public order number.
func (r *OrderRepository) GetByNumber(distributorID int, orderNumber string) (*models.OrderWithItems, error) {
	const q = `SELECT * FROM orders WHERE distributor_id = $1 AND order_number = $2 LIMIT 1`

	var order models.Order
	if err := r.db.Get(&order, q, distributorID, orderNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}
	return r.withItems(&order)
}

func (r *OrderRepository) withItems(order *models.Order) (*models.OrderWithItems, error) {
	items, err := r.ItemsByOrder(order.ID)
	if err != nil {
		return nil, err
	}
	return &models.OrderWithItems{Order: *order, Items: items}, nil
}

// ItemsByOrder returns the items of an order.
func (r *OrderRepository) ItemsByOrder(orderID int) ([]models.OrderItem, error) {
	const q = `SELECT * FROM order_items WHERE order_id = $1 ORDER BY id`

	var items []models.OrderItem
	if err := r.db.Select(&items, q, orderID); err != nil {
		return nil, err
	}
	return items, nil
}

// ListByDistributor returns orders for a distributor, optionally filtered by
// status, newest first.
func (r *OrderRepository) ListByDistributor(distributorID int, status string, limit, offset int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	const q = `
        SELECT * FROM orders
        WHERE distributor_id = $1
        AND ($2 = '' OR status = $2)
        ORDER BY created_at DESC, id DESC
        LIMIT $3 OFFSET $4`

	var orders []models.Order
	if err := r.db.Select(&orders, q, distributorID, status, limit, offset); err != nil {
		return nil, err
	}
	return orders, nil
}

// StatusForUpdateTx locks an order row within the given transaction and
// returns its current status. Status transitions must check this locked value,
// not an earlier read: two concurrent confirmations of the same order would
// otherwise both see DRAFT and both decrement stock.
func (r *OrderRepository) StatusForUpdateTx(tx *sqlx.Tx, distributorID, orderID int) (models.OrderStatus, error) {
	const q = `SELECT status FROM orders WHERE distributor_id = $1 AND id = $2 FOR UPDATE`

	var status models.OrderStatus
	if err := tx.Get(&status, q, distributorID, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", utils.ErrOrderNotFound
		}
		return "", err
	}
	return status, nil
}

// UpdateStatusTx sets an order's status within a transaction. Callers lock the
// row with StatusForUpdateTx first, so the write commits together with the
// validated transition (and with the stock decrements on confirmation).
func (r *OrderRepository) UpdateStatusTx(tx *sqlx.Tx, orderID int, status models.OrderStatus) error {
	const q = `UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := tx.Exec(q, orderID, status)
	return err
}

// ClientProductStat aggregates one client's purchases of one product inside a
// time window. Draft and cancelled orders do not count.
type ClientProductStat struct {
	ProductID  int          `db:"product_id"`
	OrderCount int          `db:"order_count"`
	Quantity   int          `db:"quantity"`
	LastBuyAt  sql.NullTime `db:"last_buy_at"`
}

// ClientProductStats returns per-product purchase aggregates for one customer
// within [since, until).
func (r *OrderRepository) ClientProductStats(distributorID, customerID int, since, until time.Time) ([]ClientProductStat, error) {
	const q = `
        SELECT oi.product_id,
               COUNT(DISTINCT o.id) AS order_count,
               COALESCE(SUM(oi.quantity), 0) AS quantity,
               MAX(o.created_at) AS last_buy_at
        FROM orders o
        JOIN order_items oi ON oi.order_id = o.id
        WHERE o.distributor_id = $1
        AND o.customer_id = $2
        AND o.status NOT IN ('DRAFT', 'CANCELLED')
        AND o.created_at >= $3 AND o.created_at < $4
        GROUP BY oi.product_id`

	var rows []ClientProductStat
	if err := r.db.Select(&rows, q, distributorID, customerID, since, until); err != nil {
		return nil, err
	}
	return rows, nil
}

// GlobalProductStat aggregates all clients' purchases of one product inside a
// time window.
type GlobalProductStat struct {
	ProductID  int `db:"product_id"`
	OrderCount int `db:"order_count"`
	BuyerCount int `db:"buyer_count"`
	Quantity   int `db:"quantity"`
}

// GlobalProductStats returns per-product purchase aggregates across all
// customers of a distributor within [since, until).
func (r *OrderRepository) GlobalProductStats(distributorID int, since, until time.Time) ([]GlobalProductStat, error) {
	const q = `
        SELECT oi.product_id,
               COUNT(DISTINCT o.id) AS order_count,
               COUNT(DISTINCT o.customer_id) AS buyer_count,
               COALESCE(SUM(oi.quantity), 0) AS quantity
        FROM orders o
        JOIN order_items oi ON oi.order_id = o.id
        WHERE o.distributor_id = $1
        AND o.status NOT IN ('DRAFT', 'CANCELLED')
        AND o.created_at >= $2 AND o.created_at < $3
        GROUP BY oi.product_id`

	var rows []GlobalProductStat
	if err := r.db.Select(&rows, q, distributorID, since, until); err != nil {
		return nil, err
	}
	return rows, nil
}

// FirstOrderTime is the earliest non-draft order containing a product.
type FirstOrderTime struct {
	ProductID int          `db:"product_id"`
	FirstAt   sql.NullTime `db:"first_at"`
}

// FirstOrderTimes returns, per product, the timestamp of its first recorded
// sale for the distributor. Products never sold are absent.
func (r *OrderRepository) FirstOrderTimes(distributorID int) ([]FirstOrderTime, error) {
	const q = `
        SELECT oi.product_id, MIN(o.created_at) AS first_at
        FROM orders o
        JOIN order_items oi ON oi.order_id = o.id
        WHERE o.distributor_id = $1
        AND o.status NOT IN ('DRAFT', 'CANCELLED')
        GROUP BY oi.product_id`

	var rows []FirstOrderTime
	if err := r.db.Select(&rows, q, distributorID); err != nil {
		return nil, err
	}
	return rows, nil
}
