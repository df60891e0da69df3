package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ventapos/venta_api/internal/pricing"
	"github.com/ventapos/venta_api/internal/service"
	"github.com/ventapos/venta_api/internal/utils"
)

// ProductHandler handles product catalog HTTP endpoints.
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProducts handles GET /v1/products?search=
func (h *ProductHandler) ListProducts(c *gin.Context) {
	rows, err := h.productService.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		log.Error().Err(err).Msg("product listing failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve products")
		return
	}
	utils.Success(c, 200, "Products retrieved", rows)
}

// CreateProduct handles POST /v1/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.productService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidAmount) {
			utils.Error(c, 400, "INVALID_AMOUNT", err.Error())
			return
		}
		log.Error().Err(err).Msg("product creation failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create product")
		return
	}

	utils.Success(c, 201, "Product created successfully", product)
}

// GetProduct handles GET /v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product ID")
		return
	}

	row, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrProductNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve product")
		return
	}
	utils.Success(c, 200, "Product retrieved", row)
}

// UpdateProduct handles PUT /v1/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product ID")
		return
	}

	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrProductNotFound):
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
		case errors.Is(err, pricing.ErrInvalidAmount):
			utils.Error(c, 400, "INVALID_AMOUNT", err.Error())
		default:
			log.Error().Err(err).Int64("product_id", id).Msg("product update failed")
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update product")
		}
		return
	}
	utils.Success(c, 200, "Product updated successfully", product)
}

// DeleteProduct handles DELETE /v1/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product ID")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, utils.ErrProductNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("product deletion failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete product")
		return
	}
	utils.Success(c, 200, "Product deleted successfully", nil)
}

// StockCheck handles GET /v1/products/:id/stock-check
func (h *ProductHandler) StockCheck(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product ID")
		return
	}
	status := h.productService.StockCheck(c.Request.Context(), id)
	utils.Success(c, 200, "Stock status", gin.H{"status": status})
}

// TopSelling handles GET /v1/products/top-selling?limit=
func (h *ProductHandler) TopSelling(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	rows, err := h.productService.TopSelling(c.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("top selling query failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve top sellers")
		return
	}
	utils.Success(c, 200, "Top selling products retrieved", rows)
}
