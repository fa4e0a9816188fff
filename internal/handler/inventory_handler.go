package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DistriaGit/distria_api/internal/service"
	"github.com/DistriaGit/distria_api/internal/utils"
)

// InventoryHandler handles stock ledger endpoints.
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

// NewInventoryHandler constructs an InventoryHandler.
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// GetStock handles GET /v1/inventory/:sku
func (h *InventoryHandler) GetStock(c *gin.Context) {
	distributorID, _, ok := tenantFrom(c)
	if !ok {
		utils.Error(c, 401, "UNAUTHORIZED", "No tenant context")
		return
	}

	stock, err := h.inventoryService.GetAvailableStock(c.Request.Context(), distributorID, c.Param("sku"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Stock retrieved", stock)
}

// Intake handles POST /v1/inventory/intake
func (h *InventoryHandler) Intake(c *gin.Context) {
	distributorID, _, ok := tenantFrom(c)
	if !ok {
		utils.Error(c, 401, "UNAUTHORIZED", "No tenant context")
		return
	}

	var req service.StockIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	lot, err := h.inventoryService.IncrementStock(c.Request.Context(), distributorID, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 201, "Stock received", lot)
}

// AdjustRequest is the manual correction payload.
type AdjustRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// Adjust handles POST /v1/inventory/lots/:id/adjust
func (h *InventoryHandler) Adjust(c *gin.Context) {
	distributorID, _, ok := tenantFrom(c)
	if !ok {
		utils.Error(c, 401, "UNAUTHORIZED", "No tenant context")
		return
	}

	lotID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid lot ID")
		return
	}

	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	lot, err := h.inventoryService.AdjustStock(c.Request.Context(), distributorID, lotID, req.Delta, req.Reason)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Stock adjusted", lot)
}

// Movements handles GET /v1/inventory/lots/:id/movements
func (h *InventoryHandler) Movements(c *gin.Context) {
	distributorID, _, ok := tenantFrom(c)
	if !ok {
		utils.Error(c, 401, "UNAUTHORIZED", "No tenant context")
		return
	}

	lotID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid lot ID")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	movements, err := h.inventoryService.Movements(c.Request.Context(), distributorID, lotID, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Movements retrieved", gin.H{
		"movements": movements,
		"total":     len(movements),
	})
}
