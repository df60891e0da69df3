package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ventapos/venta_api/internal/service"
	"github.com/ventapos/venta_api/internal/utils"
)

// RegisterHandler handles cash register session endpoints.
type RegisterHandler struct {
	registerService *service.RegisterService
}

// NewRegisterHandler constructs a RegisterHandler.
func NewRegisterHandler(registerService *service.RegisterService) *RegisterHandler {
	return &RegisterHandler{registerService: registerService}
}

// GetOpen handles GET /v1/registers/open
func (h *RegisterHandler) GetOpen(c *gin.Context) {
	sess, err := h.registerService.Current(c.Request.Context())
	if err != nil {
		if errors.Is(err, utils.ErrNoOpenRegister) {
			utils.Error(c, 404, "NO_OPEN_REGISTER", "No register session is open")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve register session")
		return
	}
	utils.Success(c, 200, "Open register session", sess)
}

// Open handles POST /v1/registers/open
func (h *RegisterHandler) Open(c *gin.Context) {
	var req struct {
		OpeningBalance float64 `json:"openingBalance"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	sess, err := h.registerService.Open(c.Request.Context(), c.GetString("email"), req.OpeningBalance)
	if err != nil {
		if errors.Is(err, utils.ErrRegisterOpen) {
			utils.Error(c, 409, "REGISTER_ALREADY_OPEN", "A register session is already open")
			return
		}
		log.Error().Err(err).Msg("register open failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to open register session")
		return
	}
	utils.Success(c, 201, "Register session opened", sess)
}

// Close handles POST /v1/registers/close
func (h *RegisterHandler) Close(c *gin.Context) {
	var req struct {
		ClosingBalance float64 `json:"closingBalance"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.registerService.Close(c.Request.Context(), req.ClosingBalance); err != nil {
		if errors.Is(err, utils.ErrNoOpenRegister) {
			utils.Error(c, 404, "NO_OPEN_REGISTER", "No register session is open")
			return
		}
		log.Error().Err(err).Msg("register close failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to close register session")
		return
	}
	utils.Success(c, 200, "Register session closed", nil)
}
