package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/DistriaGit/distria_api/internal/models"
	"github.com/DistriaGit/distria_api/internal/utils"
)

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetBySKU returns a product by SKU within a distributor, active or not.
// Callers decide whether inactive products are acceptable.
func (r *ProductRepository) GetBySKU(distributorID int, sku string) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE distributor_id = $1 AND sku = $2 LIMIT 1`

	var p models.Product
	if err := r.db.Get(&p, q, distributorID, sku); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByID returns a product by id within a distributor.
func (r *ProductRepository) GetByID(distributorID, id int) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE distributor_id = $1 AND id = $2 LIMIT 1`

	var p models.Product
	if err := r.db.Get(&p, q, distributorID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListActive returns all active products of a distributor ordered by SKU.
func (r *ProductRepository) ListActive(distributorID int) ([]models.Product, error) {
	const q = `SELECT * FROM products WHERE distributor_id = $1 AND is_active = true ORDER BY sku`

	var products []models.Product
	if err := r.db.Select(&products, q, distributorID); err != nil {
		return nil, err
	}
	return products, nil
}

// StockSearchRow is one catalog search hit with its summed availability.
type StockSearchRow struct {
	ProductID       int              `db:"id"`
	SKU             string           `db:"sku"`
	Name            string           `db:"name"`
	BasePrice       decimal.Decimal  `db:"base_price"`
	DiscountedPrice *decimal.Decimal `db:"discounted_price"`
	AvailableStock  int              `db:"available_stock"`
}

// ListActiveWithStock returns every active product of a distributor with its
// summed lot stock, ordered by SKU.
func (r *ProductRepository) ListActiveWithStock(distributorID int) ([]StockSearchRow, error) {
	const q = `
        SELECT p.id, p.sku, p.name, p.base_price, p.discounted_price,
               COALESCE(SUM(l.stock_quantity), 0) AS available_stock
        FROM products p
        LEFT JOIN inventory_lots l ON l.product_id = p.id
        WHERE p.distributor_id = $1 AND p.is_active = true
        GROUP BY p.id, p.sku, p.name, p.base_price, p.discounted_price
        ORDER BY p.sku`

	var rows []StockSearchRow
	if err := r.db.Select(&rows, q, distributorID); err != nil {
		return nil, err
	}
	return rows, nil
}

// SearchActiveWithStock finds active products whose name or SKU contains any
// of the given terms and returns them with total lot stock. Terms are expected
// pre-normalized (lowercased, diacritics stripped); matching relies on the
// unaccent extension so stored names fold the same way.
func (r *ProductRepository) SearchActiveWithStock(distributorID int, terms []string) ([]StockSearchRow, error) {
	if len(terms) == 0 {
		return []StockSearchRow{}, nil
	}

	args := []interface{}{distributorID}
	conds := make([]string, 0, len(terms))
	for _, t := range terms {
		args = append(args, "%"+utils.EscapeLikePattern(t)+"%")
		idx := len(args)
		conds = append(conds, fmt.Sprintf(
			"(unaccent(lower(p.name)) LIKE $%d OR unaccent(lower(p.sku)) LIKE $%d)", idx, idx))
	}

	q := `
        SELECT p.id, p.sku, p.name, p.base_price, p.discounted_price,
               COALESCE(SUM(l.stock_quantity), 0) AS available_stock
        FROM products p
        LEFT JOIN inventory_lots l ON l.product_id = p.id
        WHERE p.distributor_id = $1 AND p.is_active = true
        AND (` + strings.Join(conds, " OR ") + `)
        GROUP BY p.id, p.sku, p.name, p.base_price, p.discounted_price
        ORDER BY p.sku`

	var rows []StockSearchRow
	if err := r.db.Select(&rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
