package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ventapos/venta_api/internal/models"
	"github.com/ventapos/venta_api/internal/repository"
	"github.com/ventapos/venta_api/internal/utils"
)

// CatalogHandler handles brand and category lookup endpoints.
type CatalogHandler struct {
	brands     *repository.BrandRepository
	categories *repository.CategoryRepository
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(brands *repository.BrandRepository, categories *repository.CategoryRepository) *CatalogHandler {
	return &CatalogHandler{brands: brands, categories: categories}
}

// ListBrands handles GET /v1/brands
func (h *CatalogHandler) ListBrands(c *gin.Context) {
	rows, err := h.brands.GetAll(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("brand listing failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve brands")
		return
	}
	utils.Success(c, 200, "Brands retrieved", rows)
}

// CreateBrand handles POST /v1/brands
func (h *CatalogHandler) CreateBrand(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	b := &models.Brand{Name: req.Name}
	if err := h.brands.Create(c.Request.Context(), b); err != nil {
		log.Error().Err(err).Msg("brand creation failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create brand")
		return
	}
	utils.Success(c, 201, "Brand created successfully", b)
}

// ListCategories handles GET /v1/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	rows, err := h.categories.GetAll(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("category listing failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve categories")
		return
	}
	utils.Success(c, 200, "Categories retrieved", rows)
}

// CreateCategory handles POST /v1/categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	cat := &models.Category{Name: req.Name}
	if err := h.categories.Create(c.Request.Context(), cat); err != nil {
		log.Error().Err(err).Msg("category creation failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create category")
		return
	}
	utils.Success(c, 201, "Category created successfully", cat)
}
