package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/DistriaGit/distria_api/internal/models"
	"github.com/DistriaGit/distria_api/internal/utils"
)

// InventoryRepository handles data access for inventory lots and the stock
// movement audit trail. Quantity mutations run inside caller-owned
// transactions so one order confirmation stays a single atomic scope.
type InventoryRepository struct {
	db *sqlx.DB
}

// NewInventoryRepository creates a new InventoryRepository.
func NewInventoryRepository(db *sqlx.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// LotsByProduct returns all lots of a product ordered FEFO (soonest expiry
// first, lot number as tiebreak).
func (r *InventoryRepository) LotsByProduct(productID int) ([]models.InventoryLot, error) {
	const q = `
        SELECT * FROM inventory_lots
        WHERE product_id = $1
        ORDER BY expiration_date, lot_number`

	var lots []models.InventoryLot
	if err := r.db.Select(&lots, q, productID); err != nil {
		return nil, err
	}
	return lots, nil
}

// LotsByProductForUpdate locks a product's lots in FEFO order within the
// given transaction. Concurrent decrements against the same product block
// here, which is what keeps two confirmations from jointly overdrawing stock.
func (r *InventoryRepository) LotsByProductForUpdate(tx *sqlx.Tx, productID int) ([]models.InventoryLot, error) {
	const q = `
        SELECT * FROM inventory_lots
        WHERE product_id = $1
        ORDER BY expiration_date, lot_number
        FOR UPDATE`

	var lots []models.InventoryLot
	if err := tx.Select(&lots, q, productID); err != nil {
		return nil, err
	}
	return lots, nil
}

// GetLotByID returns a single lot.
func (r *InventoryRepository) GetLotByID(lotID int) (*models.InventoryLot, error) {
	const q = `SELECT * FROM inventory_lots WHERE id = $1 LIMIT 1`

	var lot models.InventoryLot
	if err := r.db.Get(&lot, q, lotID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrLotNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// GetLotByIDForUpdate locks a single lot row within the given transaction.
// Intake and adjustment read the quantity through this lock so the new
// absolute quantity they write is derived from the committed value, not from
// a stale read.
func (r *InventoryRepository) GetLotByIDForUpdate(tx *sqlx.Tx, lotID int) (*models.InventoryLot, error) {
	const q = `SELECT * FROM inventory_lots WHERE id = $1 FOR UPDATE`

	var lot models.InventoryLot
	if err := tx.Get(&lot, q, lotID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrLotNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// GetLotByNumberForUpdate locks a lot by product and lot number within the
// given transaction.
func (r *InventoryRepository) GetLotByNumberForUpdate(tx *sqlx.Tx, productID int, lotNumber string) (*models.InventoryLot, error) {
	const q = `SELECT * FROM inventory_lots WHERE product_id = $1 AND lot_number = $2 FOR UPDATE`

	var lot models.InventoryLot
	if err := tx.Get(&lot, q, productID, lotNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrLotNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// CreateLotTx inserts a new lot within a transaction. Used when stock is first
// received for a product/lot-number pair; the unique (product_id, lot_number)
// constraint rejects a concurrent duplicate insert.
func (r *InventoryRepository) CreateLotTx(tx *sqlx.Tx, lot *models.InventoryLot) error {
	const q = `
        INSERT INTO inventory_lots (product_id, distributor_id, lot_number, stock_quantity, expiration_date)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return tx.QueryRowx(q,
		lot.ProductID, lot.DistributorID, lot.LotNumber, lot.StockQuantity, lot.ExpirationDate,
	).Scan(&lot.ID, &lot.CreatedAt, &lot.UpdatedAt)
}

// UpdateLotQuantityTx sets a lot's quantity within a transaction.
func (r *InventoryRepository) UpdateLotQuantityTx(tx *sqlx.Tx, lotID, newQuantity int) error {
	const q = `UPDATE inventory_lots SET stock_quantity = $2, updated_at = NOW() WHERE id = $1`
	_, err := tx.Exec(q, lotID, newQuantity)
	return err
}

// InsertMovementTx appends one audit movement row within a transaction.
func (r *InventoryRepository) InsertMovementTx(tx *sqlx.Tx, m *models.StockMovement) error {
	const q = `
        INSERT INTO stock_movements (inventory_lot_id, type, quantity, previous_stock, new_stock, reason, order_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at`

	return tx.QueryRowx(q,
		m.InventoryLotID, m.Type, m.Quantity, m.PreviousStock, m.NewStock, m.Reason, m.OrderID,
	).Scan(&m.ID, &m.CreatedAt)
}

// MovementsByLot returns the audit trail for one lot, newest first.
func (r *InventoryRepository) MovementsByLot(lotID int, limit int) ([]models.StockMovement, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `
        SELECT * FROM stock_movements
        WHERE inventory_lot_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2`

	var movements []models.StockMovement
	if err := r.db.Select(&movements, q, lotID, limit); err != nil {
		return nil, err
	}
	return movements, nil
}

// StockSummary is the per-product availability aggregate used by the
// suggestion engine: total units and the nearest expiry among lots that still
// hold stock.
type StockSummary struct {
	ProductID  int        `db:"product_id"`
	StockTotal int        `db:"stock_total"`
	MinExpiry  *time.Time `db:"min_expiry"`
}

// StockSummaries returns availability aggregates for every product of a
// distributor that has at least one lot row.
func (r *InventoryRepository) StockSummaries(distributorID int) ([]StockSummary, error) {
	const q = `
        SELECT product_id,
               COALESCE(SUM(stock_quantity), 0) AS stock_total,
               MIN(expiration_date) FILTER (WHERE stock_quantity > 0) AS min_expiry
        FROM inventory_lots
        WHERE distributor_id = $1
        GROUP BY product_id`

	var rows []StockSummary
	if err := r.db.Select(&rows, q, distributorID); err != nil {
		return nil, err
	}
	return rows, nil
}
