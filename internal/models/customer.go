package models

import "time"

// Customer is a buyer. Customer identity is not distributor-owned: the same
// row may be linked to several distributors through customer_distributors,
// and every query against customers is scoped through that relation.
type Customer struct {
	ID                    int       `db:"id" json:"id"`
	Name                  string    `db:"name" json:"name"`
	Phone                 *string   `db:"phone" json:"phone,omitempty"`
	Email                 *string   `db:"email" json:"email,omitempty"`
	Address               *string   `db:"address" json:"address,omitempty"`
	City                  *string   `db:"city" json:"city,omitempty"`
	ClientType            *string   `db:"client_type" json:"clientType,omitempty"`
	AssignedSalespersonID *int      `db:"assigned_salesperson_id" json:"assignedSalespersonId,omitempty"`
	CreatedAt             time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt             time.Time `db:"updated_at" json:"-"`
}
