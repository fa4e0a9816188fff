package handler

import "github.com/gin-gonic/gin"

// tenantFrom reads the tenant identity injected by the auth middleware.
// Returns ok=false when the request somehow reached a handler without it.
func tenantFrom(c *gin.Context) (distributorID, salespersonID int, ok bool) {
	distributorID = c.GetInt("distributor_id")
	salespersonID = c.GetInt("salesperson_id")
	return distributorID, salespersonID, distributorID > 0 && salespersonID > 0
}
