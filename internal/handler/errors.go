package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/DistriaGit/distria_api/internal/utils"
)

// writeServiceError maps service-layer failures to the response envelope.
// Business-rule failures keep their domain message; everything else is logged
// and surfaced as a generic 500 so persistence errors never leak to clients.
func writeServiceError(c *gin.Context, err error) {
	var insufficientStock *utils.InsufficientStockError
	var invalidTransition *utils.InvalidTransitionError
	var validation *utils.ValidationError

	switch {
	case errors.As(err, &insufficientStock):
		utils.Error(c, 409, "INSUFFICIENT_STOCK", insufficientStock.Error())
	case errors.As(err, &invalidTransition):
		utils.Error(c, 409, "INVALID_TRANSITION", invalidTransition.Error())
	case errors.As(err, &validation):
		utils.Error(c, 400, "VALIDATION_ERROR", validation.Error())
	case errors.Is(err, utils.ErrEmptyOrder):
		utils.Error(c, 400, "EMPTY_ORDER", "An order requires at least one item")
	case errors.Is(err, utils.ErrProductNotFound):
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
	case errors.Is(err, utils.ErrCustomerNotFound):
		utils.Error(c, 404, "CUSTOMER_NOT_FOUND", "Customer not found")
	case errors.Is(err, utils.ErrOrderNotFound):
		utils.Error(c, 404, "ORDER_NOT_FOUND", "Order not found")
	case errors.Is(err, utils.ErrLotNotFound):
		utils.Error(c, 404, "LOT_NOT_FOUND", "Inventory lot not found")
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Something went wrong")
	}
}
