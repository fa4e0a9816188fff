package service

import (
	"context"

	"github.com/DistriaGit/distria_api/internal/models"
	"github.com/DistriaGit/distria_api/internal/repository"
	"github.com/DistriaGit/distria_api/internal/utils"
)

// CustomerService provides tenant-scoped customer lookups for handlers and
// the agent's listarClientes tool.
type CustomerService struct {
	customerRepo *repository.CustomerRepository
}

// NewCustomerService constructs a CustomerService.
func NewCustomerService(customerRepo *repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CustomerSummary is the compact listing shape used by search results.
type CustomerSummary struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
	City  *string `json:"city,omitempty"`
}

// Search lists the distributor's customers, optionally filtered by name.
func (s *CustomerService) Search(ctx context.Context, distributorID int, name string, limit int) ([]CustomerSummary, error) {
	customers, err := s.customerRepo.Search(distributorID, utils.NormalizeSearchTerm(name), limit)
	if err != nil {
		return nil, err
	}
	summaries := make([]CustomerSummary, 0, len(customers))
	for _, c := range customers {
		summaries = append(summaries, CustomerSummary{ID: c.ID, Name: c.Name, Phone: c.Phone, City: c.City})
	}
	return summaries, nil
}

// Get returns one customer if linked to the distributor.
func (s *CustomerService) Get(ctx context.Context, distributorID, customerID int) (*models.Customer, error) {
	return s.customerRepo.GetByID(distributorID, customerID)
}
