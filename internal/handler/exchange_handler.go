package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ventapos/venta_api/internal/service"
	"github.com/ventapos/venta_api/internal/utils"
)

// ExchangeHandler handles the product exchange endpoint.
type ExchangeHandler struct {
	exchangeService *service.ExchangeService
}

// NewExchangeHandler constructs an ExchangeHandler.
func NewExchangeHandler(exchangeService *service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{exchangeService: exchangeService}
}

// CreateExchange handles POST /v1/exchanges
func (h *ExchangeHandler) CreateExchange(c *gin.Context) {
	var req service.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := h.exchangeService.Exchange(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrNoOpenRegister):
			utils.Error(c, 409, "NO_OPEN_REGISTER", "No register session is open; exchanges cannot proceed")
		case errors.Is(err, utils.ErrProductNotFound):
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", err.Error())
		case errors.Is(err, utils.ErrSameProduct):
			utils.Error(c, 400, "SAME_PRODUCT", "Returned and replacement products cannot be the same")
		case errors.Is(err, utils.ErrInsufficientStock):
			utils.Error(c, 409, "INSUFFICIENT_STOCK", "Insufficient stock for the replacement product")
		case errors.Is(err, utils.ErrInvalidTier):
			utils.Error(c, 400, "INVALID_PRICE_TIER", "Unknown price tier")
		default:
			log.Error().Err(err).Msg("exchange failed")
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to process exchange")
		}
		return
	}
	utils.Success(c, 200, "Exchange completed successfully", result)
}
