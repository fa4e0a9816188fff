package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/DistriaGit/distria_api/internal/repository"
	"github.com/DistriaGit/distria_api/internal/utils"
)

// CatalogService answers free-text stock queries over the active catalog.
type CatalogService struct {
	productRepo *repository.ProductRepository
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(productRepo *repository.ProductRepository) *CatalogService {
	return &CatalogService{productRepo: productRepo}
}

// StockSearchResult is one catalog hit with current availability.
type StockSearchResult struct {
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	AvailableStock int             `json:"availableStock"`
}

// ListProducts returns the full active catalog with availability.
func (s *CatalogService) ListProducts(ctx context.Context, distributorID int) ([]StockSearchResult, error) {
	rows, err := s.productRepo.ListActiveWithStock(distributorID)
	if err != nil {
		return nil, err
	}
	return mapStockRows(rows), nil
}

// SearchStock matches the query (comma-separated multi-term, case and
// diacritic insensitive) against product names and SKUs and returns hits with
// their summed lot stock. An unmatched query yields an empty slice.
func (s *CatalogService) SearchStock(ctx context.Context, distributorID int, query string) ([]StockSearchResult, error) {
	terms := utils.SplitSearchTerms(query)
	if len(terms) == 0 {
		return nil, &utils.ValidationError{Field: "query", Message: "must not be empty"}
	}

	rows, err := s.productRepo.SearchActiveWithStock(distributorID, terms)
	if err != nil {
		return nil, err
	}
	return mapStockRows(rows), nil
}

func mapStockRows(rows []repository.StockSearchRow) []StockSearchResult {
	results := make([]StockSearchResult, 0, len(rows))
	for _, row := range rows {
		price := row.BasePrice
		if row.DiscountedPrice != nil {
			price = *row.DiscountedPrice
		}
		results = append(results, StockSearchResult{
			SKU:            row.SKU,
			Name:           row.Name,
			Price:          price,
			AvailableStock: row.AvailableStock,
		})
	}
	return results
}
