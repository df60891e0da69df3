package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/ventapos/venta_api/internal/utils"
)

// HealthHandler reports service and database health.
type HealthHandler struct {
	db *sqlx.DB
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// GetHealth handles GET /v1/health
func (h *HealthHandler) GetHealth(c *gin.Context) {
	dbStatus := "up"
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		dbStatus = "down"
	}
	utils.Success(c, 200, "OK", gin.H{
		"status":   "up",
		"database": dbStatus,
	})
}
