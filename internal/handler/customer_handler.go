package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DistriaGit/distria_api/internal/service"
	"github.com/DistriaGit/distria_api/internal/utils"
)

// CustomerHandler handles customer lookup endpoints.
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler constructs a CustomerHandler.
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List handles GET /v1/customers?name=...
func (h *CustomerHandler) List(c *gin.Context) {
	distributorID, _, ok := tenantFrom(c)
	if !ok {
		utils.Error(c, 401, "UNAUTHORIZED", "No tenant context")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	customers, err := h.customerService.Search(c.Request.Context(), distributorID, c.Query("name"), limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Customers retrieved", gin.H{
		"customers": customers,
		"total":     len(customers),
	})
}

// Get handles GET /v1/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	distributorID, _, ok := tenantFrom(c)
	if !ok {
		utils.Error(c, 401, "UNAUTHORIZED", "No tenant context")
		return
	}

	customerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid customer ID")
		return
	}

	customer, err := h.customerService.Get(c.Request.Context(), distributorID, customerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Customer retrieved", customer)
}
