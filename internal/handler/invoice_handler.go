package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ventapos/venta_api/internal/service"
	"github.com/ventapos/venta_api/internal/utils"
)

// InvoiceHandler handles invoice HTTP endpoints.
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler constructs an InvoiceHandler.
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// ListInvoices handles GET /v1/invoices?search=
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	rows, err := h.invoiceService.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		log.Error().Err(err).Msg("invoice listing failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve invoices")
		return
	}
	utils.Success(c, 200, "Invoices retrieved", rows)
}

// GetInvoice handles GET /v1/invoices/:id
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid invoice ID")
		return
	}
	inv, err := h.invoiceService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrInvoiceNotFound) {
			utils.Error(c, 404, "INVOICE_NOT_FOUND", "Invoice not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve invoice")
		return
	}
	utils.Success(c, 200, "Invoice retrieved", inv)
}

// GetFullInvoice handles GET /v1/invoices/:id/full
func (h *InvoiceHandler) GetFullInvoice(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid invoice ID")
		return
	}
	full, err := h.invoiceService.GetFull(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrInvoiceNotFound) {
			utils.Error(c, 404, "INVOICE_NOT_FOUND", "Invoice not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve invoice")
		return
	}
	utils.Success(c, 200, "Invoice retrieved", full)
}

// GetTicket handles GET /v1/invoices/:id/ticket
func (h *InvoiceHandler) GetTicket(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid invoice ID")
		return
	}
	ticket, err := h.invoiceService.Ticket(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrInvoiceNotFound) {
			utils.Error(c, 404, "INVOICE_NOT_FOUND", "Invoice not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to render ticket")
		return
	}
	utils.Success(c, 200, "Ticket rendered", gin.H{"ticket": ticket})
}

type invoiceBatchRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1"`
}

// MarkPaid handles POST /v1/invoices/mark-paid
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	var req invoiceBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	paid, err := h.invoiceService.MarkPaid(c.Request.Context(), req.IDs)
	if err != nil {
		h.writeBatchError(c, err, paid)
		return
	}
	utils.Success(c, 200, "Invoice(s) marked paid successfully", gin.H{"paid": paid})
}

// Cancel handles POST /v1/invoices/cancel
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	var req invoiceBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	cancelled, err := h.invoiceService.Cancel(c.Request.Context(), req.IDs)
	if err != nil {
		h.writeBatchError(c, err, cancelled)
		return
	}
	utils.Success(c, 200, "Invoice(s) cancelled successfully", gin.H{"cancelled": cancelled})
}

// writeBatchError maps a batch failure to the envelope, reporting which ids
// had already been processed when the batch stopped.
func (h *InvoiceHandler) writeBatchError(c *gin.Context, err error, done []int64) {
	code, errCode := 500, "INTERNAL_ERROR"
	switch {
	case errors.Is(err, utils.ErrInvoiceNotFound):
		code, errCode = 404, "INVOICE_NOT_FOUND"
	case errors.Is(err, utils.ErrInvoiceAlreadyPaid):
		code, errCode = 409, "INVOICE_ALREADY_PAID"
	case errors.Is(err, utils.ErrCreditInvoice):
		code, errCode = 409, "CREDIT_INVOICE"
	default:
		log.Error().Err(err).Msg("invoice batch operation failed")
	}
	c.JSON(code, gin.H{
		"success":   false,
		"code":      code,
		"message":   err.Error(),
		"error":     gin.H{"code": errCode, "message": err.Error()},
		"processed": done,
	})
}

// SetDiscount handles PUT /v1/invoices/:id/discount
func (h *InvoiceHandler) SetDiscount(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid invoice ID")
		return
	}

	var req struct {
		Discount float64 `json:"discount" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.invoiceService.SetDiscount(c.Request.Context(), id, req.Discount); err != nil {
		if errors.Is(err, utils.ErrInvoiceNotFound) {
			utils.Error(c, 404, "NOT_FOUND", "Invoice not found")
			return
		}
		log.Error().Err(err).Int64("invoice_id", id).Msg("discount update failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update discount")
		return
	}
	utils.Success(c, 200, "Discount updated successfully", nil)
}
