package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/DistriaGit/distria_api/internal/cache"
	"github.com/DistriaGit/distria_api/internal/utils"
)

// HealthHandler reports service liveness and dependency reachability.
type HealthHandler struct {
	db    *sqlx.DB
	redis *cache.RedisClient
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *sqlx.DB, redis *cache.RedisClient) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	status := gin.H{"database": "ok", "redis": "ok"}
	healthy := true

	if err := h.db.PingContext(c.Request.Context()); err != nil {
		status["database"] = "unreachable"
		healthy = false
	}
	if err := h.redis.Ping(c.Request.Context()); err != nil {
		status["redis"] = "unreachable"
		healthy = false
	}

	if !healthy {
		utils.Error(c, 503, "UNHEALTHY", "One or more dependencies are unreachable")
		return
	}
	utils.Success(c, 200, "Healthy", status)
}
