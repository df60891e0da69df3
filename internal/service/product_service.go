package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ventapos/venta_api/internal/cache"
	"github.com/ventapos/venta_api/internal/models"
	"github.com/ventapos/venta_api/internal/pricing"
	"github.com/ventapos/venta_api/internal/sse"
	"github.com/ventapos/venta_api/internal/utils"
)

// ProductStore is the persistence surface the product service needs.
type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	GetRowByID(ctx context.Context, id int64) (*models.ProductRow, error)
	GetAll(ctx context.Context) ([]models.ProductRow, error)
	Search(ctx context.Context, query string) ([]models.ProductRow, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int64) (bool, error)
	TopSelling(ctx context.Context, limit int) ([]models.TopSellingRow, error)
}

// ProductService handles product catalog operations and the pricing rules
// that keep derived fields consistent.
type ProductService struct {
	store    ProductStore
	catalog  cache.Catalog
	notifier sse.StockNotifier
}

// NewProductService constructs a ProductService.
func NewProductService(store ProductStore, catalog cache.Catalog, notifier sse.StockNotifier) *ProductService {
	if catalog == nil {
		catalog = cache.NoopCatalog{}
	}
	if notifier == nil {
		notifier = &sse.NopNotifier{}
	}
	return &ProductService{store: store, catalog: catalog, notifier: notifier}
}

// CreateProductRequest represents the request to create a new product.
// Sale prices left nil are derived from the cost price at the default markups.
type CreateProductRequest struct {
	Name               string   `json:"name" binding:"required"`
	CostPrice          float64  `json:"costPrice" binding:"required"`
	SalePriceNormal    *float64 `json:"salePriceNormal"`
	SalePriceWholesale *float64 `json:"salePriceWholesale"`
	SalePriceResale    *float64 `json:"salePriceResale"`
	StockCurrent       int      `json:"stockCurrent"`
	StockMin           int      `json:"stockMin"`
	StockMax           int      `json:"stockMax"`
	BrandID            *int64   `json:"brandId"`
	CategoryID         *int64   `json:"categoryId"`
}

// UpdateProductRequest represents a partial product update. Only non-nil
// fields are applied. A cost price change re-derives every sale price tier
// that is not explicitly supplied in the same request, then margins follow.
type UpdateProductRequest struct {
	Name               *string  `json:"name"`
	CostPrice          *float64 `json:"costPrice"`
	SalePriceNormal    *float64 `json:"salePriceNormal"`
	SalePriceWholesale *float64 `json:"salePriceWholesale"`
	SalePriceResale    *float64 `json:"salePriceResale"`
	StockCurrent       *int     `json:"stockCurrent"`
	StockMin           *int     `json:"stockMin"`
	StockMax           *int     `json:"stockMax"`
	BrandID            *int64   `json:"brandId"`
	CategoryID         *int64   `json:"categoryId"`
}

// Create assigns all derived fields, persists the product and returns it.
func (s *ProductService) Create(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	p := &models.Product{
		Name:         req.Name,
		CostPrice:    req.CostPrice,
		StockCurrent: req.StockCurrent,
		StockMin:     req.StockMin,
		StockMax:     req.StockMax,
		BrandID:      req.BrandID,
		CategoryID:   req.CategoryID,
		Available:    pricing.Available(req.StockCurrent),
	}

	var err error
	if p.SalePriceNormal, err = tierPrice(req.SalePriceNormal, req.CostPrice, pricing.MarkupNormal); err != nil {
		return nil, err
	}
	if p.SalePriceWholesale, err = tierPrice(req.SalePriceWholesale, req.CostPrice, pricing.MarkupWholesale); err != nil {
		return nil, err
	}
	if p.SalePriceResale, err = tierPrice(req.SalePriceResale, req.CostPrice, pricing.MarkupResale); err != nil {
		return nil, err
	}

	p.MarginNormal = pricing.Margin(p.SalePriceNormal, p.CostPrice)
	p.MarginWholesale = pricing.Margin(p.SalePriceWholesale, p.CostPrice)
	p.MarginResale = pricing.Margin(p.SalePriceResale, p.CostPrice)

	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	s.catalog.Invalidate(ctx)
	s.checkLowStock(p)
	return p, nil
}

// tierPrice returns the explicit price when supplied, otherwise derives one
// from the cost at the given markup.
func tierPrice(explicit *float64, cost, markup float64) (float64, error) {
	if explicit != nil {
		return *explicit, nil
	}
	return pricing.Price(cost, markup)
}

// List returns all products joined with brand and category names.
func (s *ProductService) List(ctx context.Context) ([]models.ProductRow, error) {
	if rows := s.catalog.GetList(ctx); rows != nil {
		return rows, nil
	}
	rows, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	s.catalog.SetList(ctx, rows)
	return rows, nil
}

// Get returns one product joined with brand and category names.
func (s *ProductService) Get(ctx context.Context, id int64) (*models.ProductRow, error) {
	row, err := s.store.GetRowByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return row, nil
}

// Search returns products matching the query across name, id, brand name
// and category name. An empty query falls back to the full listing.
func (s *ProductService) Search(ctx context.Context, query string) ([]models.ProductRow, error) {
	if query == "" {
		return s.List(ctx)
	}
	if rows := s.catalog.GetSearch(ctx, query); rows != nil {
		return rows, nil
	}
	rows, err := s.store.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	s.catalog.SetSearch(ctx, query, rows)
	return rows, nil
}

// Update applies a partial update with price/margin re-derivation.
func (s *ProductService) Update(ctx context.Context, id int64, req *UpdateProductRequest) (*models.Product, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.CostPrice != nil {
		p.CostPrice = *req.CostPrice
	}

	// A cost change re-derives any tier not explicitly supplied in the same
	// request; explicit prices always win for their own tier.
	if req.CostPrice != nil && req.SalePriceNormal == nil {
		if p.SalePriceNormal, err = pricing.Price(p.CostPrice, pricing.MarkupNormal); err != nil {
			return nil, err
		}
	}
	if req.CostPrice != nil && req.SalePriceWholesale == nil {
		if p.SalePriceWholesale, err = pricing.Price(p.CostPrice, pricing.MarkupWholesale); err != nil {
			return nil, err
		}
	}
	if req.CostPrice != nil && req.SalePriceResale == nil {
		if p.SalePriceResale, err = pricing.Price(p.CostPrice, pricing.MarkupResale); err != nil {
			return nil, err
		}
	}
	if req.SalePriceNormal != nil {
		p.SalePriceNormal = *req.SalePriceNormal
	}
	if req.SalePriceWholesale != nil {
		p.SalePriceWholesale = *req.SalePriceWholesale
	}
	if req.SalePriceResale != nil {
		p.SalePriceResale = *req.SalePriceResale
	}

	if req.CostPrice != nil || req.SalePriceNormal != nil {
		p.MarginNormal = pricing.Margin(p.SalePriceNormal, p.CostPrice)
	}
	if req.CostPrice != nil || req.SalePriceWholesale != nil {
		p.MarginWholesale = pricing.Margin(p.SalePriceWholesale, p.CostPrice)
	}
	if req.CostPrice != nil || req.SalePriceResale != nil {
		p.MarginResale = pricing.Margin(p.SalePriceResale, p.CostPrice)
	}

	if req.StockCurrent != nil {
		p.StockCurrent = *req.StockCurrent
		p.Available = pricing.Available(p.StockCurrent)
	}
	if req.StockMin != nil {
		p.StockMin = *req.StockMin
	}
	if req.StockMax != nil {
		p.StockMax = *req.StockMax
	}
	if req.BrandID != nil {
		p.BrandID = req.BrandID
	}
	if req.CategoryID != nil {
		p.CategoryID = req.CategoryID
	}

	if err := s.store.Update(ctx, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	s.catalog.Invalidate(ctx)
	s.checkLowStock(p)
	return p, nil
}

// Delete removes a product; utils.ErrProductNotFound signals an unknown id.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return utils.ErrProductNotFound
	}
	s.catalog.Invalidate(ctx)
	return nil
}

// StockCheck returns a human-readable stock status for a product.
func (s *ProductService) StockCheck(ctx context.Context, id int64) string {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Int64("product_id", id).Msg("stock check query failed")
		}
		return "Product not found."
	}
	if p.StockCurrent < p.StockMin {
		return fmt.Sprintf("Warning: stock for product %q is below the allowed minimum.", p.Name)
	}
	return fmt.Sprintf("Stock for product %q is within the allowed range.", p.Name)
}

// TopSelling returns the best-selling products by units sold.
func (s *ProductService) TopSelling(ctx context.Context, limit int) ([]models.TopSellingRow, error) {
	return s.store.TopSelling(ctx, limit)
}

func (s *ProductService) checkLowStock(p *models.Product) {
	if p.StockCurrent < p.StockMin {
		s.notifier.NotifyLowStock(p)
	}
}
