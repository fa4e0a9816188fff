package models

import "time"

// Salesperson is a distributor employee who logs into the API and drives the
// conversational agent. PasswordHash is bcrypt and never serialized.
type Salesperson struct {
	ID            int       `db:"id" json:"id"`
	DistributorID int       `db:"distributor_id" json:"distributorId"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	IsActive      bool      `db:"is_active" json:"isActive"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"-"`
}
