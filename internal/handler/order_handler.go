package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DistriaGit/distria_api/internal/models"
	"github.com/DistriaGit/distria_api/internal/service"
	"github.com/DistriaGit/distria_api/internal/utils"
)

// OrderHandler handles order pipeline endpoints.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrderRequest is the draft-order payload.
type CreateOrderRequest struct {
	ClientID        int                        `json:"clientId" binding:"required"`
	Items           []service.OrderItemRequest `json:"items" binding:"required"`
	DeliveryAddress *string                    `json:"deliveryAddress"`
	Notes           *string                    `json:"notes"`
}

// Create handles POST /v1/orders
func (h *OrderHandler) Create(c *gin.Context) {
	distributorID, salespersonID, ok := tenantFrom(c)
	if !ok {
		utils.Error(c, 401, "UNAUTHORIZED", "No tenant context")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		DistributorID:   distributorID,
		CustomerID:      req.ClientID,
		SalespersonID:   &salespersonID,
		Items:           req.Items,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 201, "Draft order created", order)
}

// Confirm handles POST /v1/orders/:id/confirm
func (h *OrderHandler) Confirm(c *gin.Context) {
	distributorID, _, ok := tenantFrom(c)
	if !ok {
		utils.Error(c, 401, "UNAUTHORIZED", "No tenant context")
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid order ID")
		return
	}

	order, err := h.orderService.ConfirmOrder(c.Request.Context(), distributorID, orderID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Order confirmed", order)
}

// UpdateStatusRequest carries a target status.
type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /v1/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	distributorID, _, ok := tenantFrom(c)
	if !ok {
		utils.Error(c, 401, "UNAUTHORIZED", "No tenant context")
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid order ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), distributorID, orderID, req.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Order status updated", order)
}

// Get handles GET /v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	distributorID, _, ok := tenantFrom(c)
	if !ok {
		utils.Error(c, 401, "UNAUTHORIZED", "No tenant context")
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), distributorID, orderID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Order retrieved", order)
}

// GetByNumber handles GET /v1/orders/by-number/:number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	distributorID, _, ok := tenantFrom(c)
	if !ok {
		utils.Error(c, 401, "UNAUTHORIZED", "No tenant context")
		return
	}

	order, err := h.orderService.GetOrderByNumber(c.Request.Context(), distributorID, c.Param("number"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Order retrieved", order)
}

// List handles GET /v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	distributorID, _, ok := tenantFrom(c)
	if !ok {
		utils.Error(c, 401, "UNAUTHORIZED", "No tenant context")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, err := h.orderService.ListOrders(c.Request.Context(), distributorID, c.Query("status"), limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Orders retrieved", gin.H{
		"orders": orders,
		"total":  len(orders),
	})
}
