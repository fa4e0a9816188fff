package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/DistriaGit/distria_api/internal/models"
	"github.com/DistriaGit/distria_api/internal/utils"
)

// SalespersonRepository handles data access for salespeople.
type SalespersonRepository struct {
	db *sqlx.DB
}

// NewSalespersonRepository creates a new SalespersonRepository.
func NewSalespersonRepository(db *sqlx.DB) *SalespersonRepository {
	return &SalespersonRepository{db: db}
}

// GetByEmail returns an active salesperson by login email.
func (r *SalespersonRepository) GetByEmail(email string) (*models.Salesperson, error) {
	const q = `SELECT * FROM salespeople WHERE email = $1 AND is_active = true LIMIT 1`

	var sp models.Salesperson
	if err := r.db.Get(&sp, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrSalespersonNotFound
		}
		return nil, err
	}
	return &sp, nil
}

// GetByID returns a salesperson by id.
func (r *SalespersonRepository) GetByID(id int) (*models.Salesperson, error) {
	const q = `SELECT * FROM salespeople WHERE id = $1 LIMIT 1`

	var sp models.Salesperson
	if err := r.db.Get(&sp, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrSalespersonNotFound
		}
		return nil, err
	}
	return &sp, nil
}
