package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/DistriaGit/distria_api/internal/models"
	"github.com/DistriaGit/distria_api/internal/utils"
)

// CustomerRepository handles data access for customers. Customers are linked
// to distributors through customer_distributors, so every lookup joins that
// relation to enforce tenant scoping.
type CustomerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// GetByID returns a customer only if linked to the distributor.
func (r *CustomerRepository) GetByID(distributorID, customerID int) (*models.Customer, error) {
	const q = `
        SELECT c.* FROM customers c
        JOIN customer_distributors cd ON cd.customer_id = c.id
        WHERE cd.distributor_id = $1 AND c.id = $2
        LIMIT 1`

	var customer models.Customer
	if err := r.db.Get(&customer, q, distributorID, customerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// Search returns the distributor's customers, optionally filtered by a
// case/diacritic-insensitive name substring.
func (r *CustomerRepository) Search(distributorID int, name string, limit int) ([]models.Customer, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
        SELECT c.* FROM customers c
        JOIN customer_distributors cd ON cd.customer_id = c.id
        WHERE cd.distributor_id = $1
        AND ($2 = '' OR unaccent(lower(c.name)) LIKE '%' || $2 || '%')
        ORDER BY c.name, c.id
        LIMIT $3`

	var customers []models.Customer
	if err := r.db.Select(&customers, q, distributorID, utils.EscapeLikePattern(name), limit); err != nil {
		return nil, err
	}
	return customers, nil
}
