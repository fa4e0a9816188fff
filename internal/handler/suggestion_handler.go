package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DistriaGit/distria_api/internal/service"
	"github.com/DistriaGit/distria_api/internal/utils"
)

// SuggestionHandler handles product recommendation endpoints.
type SuggestionHandler struct {
	suggestionService *service.SuggestionService
}

// NewSuggestionHandler constructs a SuggestionHandler.
func NewSuggestionHandler(suggestionService *service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

// Suggest handles GET /v1/customers/:id/suggestions?topN=&asOf=
func (h *SuggestionHandler) Suggest(c *gin.Context) {
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

	topN, _ := strconv.Atoi(c.DefaultQuery("topN", "0"))

	var asOf time.Time
	if raw := c.Query("asOf"); raw != "" {
		asOf, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.Error(c, 400, "VALIDATION_ERROR", "asOf must be RFC3339")
			return
		}
	}

	suggestions, err := h.suggestionService.SuggestProducts(c.Request.Context(), distributorID, customerID, asOf, topN)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Suggestions computed", gin.H{
		"suggestions": suggestions,
		"total":       len(suggestions),
	})
}
