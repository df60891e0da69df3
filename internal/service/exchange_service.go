package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ventapos/venta_api/internal/models"
	"github.com/ventapos/venta_api/internal/utils"
)

// RegisterStore exposes the open cash session the exchange workflow requires.
type RegisterStore interface {
	GetOpen(ctx context.Context) (*models.RegisterSession, error)
}

// ExchangeProductStore is the product surface the exchange workflow needs.
type ExchangeProductStore interface {
	GetByExactName(ctx context.Context, name string) (*models.Product, error)
	ExchangeStock(ctx context.Context, returnedID int64, returnedQty int, replacementID int64, replacementQty int) error
}

// ExchangeService swaps a purchased product for another, moving stock
// between the two without producing an invoice line.
type ExchangeService struct {
	registers RegisterStore
	products  ExchangeProductStore
}

// NewExchangeService constructs an ExchangeService.
func NewExchangeService(registers RegisterStore, products ExchangeProductStore) *ExchangeService {
	return &ExchangeService{registers: registers, products: products}
}

// ExchangeRequest describes one user-initiated product exchange. Products
// are resolved by exact name match against user input.
type ExchangeRequest struct {
	ReturnedName    string           `json:"returnedName" binding:"required"`
	ReplacementName string           `json:"replacementName" binding:"required"`
	ReturnedQty     int              `json:"returnedQty" binding:"required"`
	ReplacementQty  int              `json:"replacementQty" binding:"required"`
	Tier            models.PriceTier `json:"priceTier"`
}

// ExchangeResult reports the completed movement and the price difference
// the customer owes at the selected tier (never negative).
type ExchangeResult struct {
	ReturnedID      int64   `json:"returnedId"`
	ReplacementID   int64   `json:"replacementId"`
	ReturnedQty     int     `json:"returnedQty"`
	ReplacementQty  int     `json:"replacementQty"`
	PriceDifference float64 `json:"priceDifference"`
}

// Exchange validates the swap and moves stock atomically: the returned
// product gains its quantity back, the replacement loses its quantity.
func (s *ExchangeService) Exchange(ctx context.Context, req *ExchangeRequest) (*ExchangeResult, error) {
	if req.ReturnedQty <= 0 || req.ReplacementQty <= 0 {
		return nil, fmt.Errorf("exchange quantities must be positive")
	}
	tier := req.Tier
	if tier == "" {
		tier = models.TierNormal
	}
	if !tier.Valid() {
		return nil, utils.ErrInvalidTier
	}

	if _, err := s.registers.GetOpen(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNoOpenRegister
		}
		return nil, err
	}

	returned, err := s.resolve(ctx, req.ReturnedName)
	if err != nil {
		return nil, err
	}
	replacement, err := s.resolve(ctx, req.ReplacementName)
	if err != nil {
		return nil, err
	}
	if returned.ID == replacement.ID {
		return nil, utils.ErrSameProduct
	}
	if req.ReplacementQty > replacement.StockCurrent {
		return nil, utils.ErrInsufficientStock
	}

	err = s.products.ExchangeStock(ctx, returned.ID, req.ReturnedQty, replacement.ID, req.ReplacementQty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Lost the race for the remaining stock.
			return nil, utils.ErrInsufficientStock
		}
		return nil, err
	}

	diff := replacement.SalePrice(tier)*float64(req.ReplacementQty) - returned.SalePrice(tier)*float64(req.ReturnedQty)
	if diff < 0 {
		diff = 0
	}

	log.Info().
		Int64("returned_id", returned.ID).
		Int64("replacement_id", replacement.ID).
		Int("returned_qty", req.ReturnedQty).
		Int("replacement_qty", req.ReplacementQty).
		Msg("product exchange completed")

	return &ExchangeResult{
		ReturnedID:      returned.ID,
		ReplacementID:   replacement.ID,
		ReturnedQty:     req.ReturnedQty,
		ReplacementQty:  req.ReplacementQty,
		PriceDifference: diff,
	}, nil
}

func (s *ExchangeService) resolve(ctx context.Context, name string) (*models.Product, error) {
	p, err := s.products.GetByExactName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %q: %w", name, utils.ErrProductNotFound)
		}
		return nil, err
	}
	return p, nil
}
