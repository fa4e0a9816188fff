package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/DistriaGit/distria_api/internal/service"
	"github.com/DistriaGit/distria_api/internal/utils"
)

// CatalogHandler handles catalog search endpoints.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListProducts handles GET /v1/catalog/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	distributorID, _, ok := tenantFrom(c)
	if !ok {
		utils.Error(c, 401, "UNAUTHORIZED", "No tenant context")
		return
	}

	products, err := h.catalogService.ListProducts(c.Request.Context(), distributorID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Products retrieved", gin.H{
		"products": products,
		"total":    len(products),
	})
}

// SearchStock handles GET /v1/catalog/search?q=...
func (h *CatalogHandler) SearchStock(c *gin.Context) {
	distributorID, _, ok := tenantFrom(c)
	if !ok {
		utils.Error(c, 401, "UNAUTHORIZED", "No tenant context")
		return
	}

	results, err := h.catalogService.SearchStock(c.Request.Context(), distributorID, c.Query("q"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, 200, "Catalog search results", gin.H{
		"results": results,
		"total":   len(results),
	})
}
