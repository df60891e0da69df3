package handler

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ventapos/venta_api/internal/models"
	"github.com/ventapos/venta_api/internal/repository"
	"github.com/ventapos/venta_api/internal/utils"
)

// CustomerHandler serves the customer directory.
type CustomerHandler struct {
	customers *repository.CustomerRepository
}

// NewCustomerHandler constructs a CustomerHandler.
func NewCustomerHandler(customers *repository.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// ListCustomers handles GET /v1/customers
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	rows, err := h.customers.GetAll(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("customer listing failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve customers")
		return
	}
	utils.Success(c, 200, "Customers retrieved", rows)
}

// GetCustomer handles GET /v1/customers/:id
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid customer ID")
		return
	}
	cust, err := h.customers.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.Error(c, 404, "NOT_FOUND", "Customer not found")
			return
		}
		log.Error().Err(err).Int64("customer_id", id).Msg("customer lookup failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve customer")
		return
	}
	utils.Success(c, 200, "Customer retrieved", cust)
}

type createCustomerRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// CreateCustomer handles POST /v1/customers
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}
	cust := &models.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
	}
	if err := h.customers.Create(c.Request.Context(), cust); err != nil {
		log.Error().Err(err).Msg("customer creation failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create customer")
		return
	}
	utils.Success(c, 201, "Customer created successfully", cust)
}
