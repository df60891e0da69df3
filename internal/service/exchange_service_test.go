package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/ventapos/venta_api/internal/models"
	"github.com/ventapos/venta_api/internal/utils"
)

type stubRegisterStore struct {
	session *models.RegisterSession
}

func (s *stubRegisterStore) GetOpen(ctx context.Context) (*models.RegisterSession, error) {
	if s.session == nil {
		return nil, sql.ErrNoRows
	}
	return s.session, nil
}

type stockMove struct {
	returnedID, replacementID   int64
	returnedQty, replacementQty int
}

type stubExchangeStore struct {
	byName   map[string]*models.Product
	moves    []stockMove
	raceLost bool
}

func (s *stubExchangeStore) GetByExactName(ctx context.Context, name string) (*models.Product, error) {
	p, ok := s.byName[name]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (s *stubExchangeStore) ExchangeStock(ctx context.Context, returnedID int64, returnedQty int, replacementID int64, replacementQty int) error {
	if s.raceLost {
		return sql.ErrNoRows
	}
	s.moves = append(s.moves, stockMove{returnedID, replacementID, returnedQty, replacementQty})
	return nil
}

func openRegister() *stubRegisterStore {
	return &stubRegisterStore{session: &models.RegisterSession{ID: 1, Open: true}}
}

func exchangeProducts() *stubExchangeStore {
	return &stubExchangeStore{byName: map[string]*models.Product{
		"Hammer": {ID: 1, Name: "Hammer", StockCurrent: 4, SalePriceNormal: 500, SalePriceWholesale: 450},
		"Drill":  {ID: 2, Name: "Drill", StockCurrent: 3, SalePriceNormal: 1200, SalePriceWholesale: 1000},
	}}
}

func TestExchangeMovesStockAndPricesDifference(t *testing.T) {
	products := exchangeProducts()
	svc := NewExchangeService(openRegister(), products)

	res, err := svc.Exchange(context.Background(), &ExchangeRequest{
		ReturnedName:    "Hammer",
		ReplacementName: "Drill",
		ReturnedQty:     1,
		ReplacementQty:  2,
	})
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if len(products.moves) != 1 {
		t.Fatalf("moves = %d, want 1", len(products.moves))
	}
	move := products.moves[0]
	if move.returnedID != 1 || move.returnedQty != 1 || move.replacementID != 2 || move.replacementQty != 2 {
		t.Errorf("move = %+v", move)
	}
	// 2*1200 - 1*500 at the normal tier.
	if res.PriceDifference != 1900 {
		t.Errorf("price difference = %v, want 1900", res.PriceDifference)
	}
}

func TestExchangeUsesSelectedTier(t *testing.T) {
	svc := NewExchangeService(openRegister(), exchangeProducts())

	res, err := svc.Exchange(context.Background(), &ExchangeRequest{
		ReturnedName:    "Hammer",
		ReplacementName: "Drill",
		ReturnedQty:     1,
		ReplacementQty:  1,
		Tier:            models.TierWholesale,
	})
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if res.PriceDifference != 550 {
		t.Errorf("price difference = %v, want 550", res.PriceDifference)
	}
}

func TestExchangeDifferenceNeverNegative(t *testing.T) {
	svc := NewExchangeService(openRegister(), exchangeProducts())

	res, err := svc.Exchange(context.Background(), &ExchangeRequest{
		ReturnedName:    "Drill",
		ReplacementName: "Hammer",
		ReturnedQty:     2,
		ReplacementQty:  1,
	})
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if res.PriceDifference != 0 {
		t.Errorf("price difference = %v, want clamped 0", res.PriceDifference)
	}
}

func TestExchangeRequiresOpenRegister(t *testing.T) {
	svc := NewExchangeService(&stubRegisterStore{}, exchangeProducts())

	_, err := svc.Exchange(context.Background(), &ExchangeRequest{
		ReturnedName:    "Hammer",
		ReplacementName: "Drill",
		ReturnedQty:     1,
		ReplacementQty:  1,
	})
	if !errors.Is(err, utils.ErrNoOpenRegister) {
		t.Errorf("err = %v, want ErrNoOpenRegister", err)
	}
}

func TestExchangeUnknownProduct(t *testing.T) {
	svc := NewExchangeService(openRegister(), exchangeProducts())

	_, err := svc.Exchange(context.Background(), &ExchangeRequest{
		ReturnedName:    "Wrench",
		ReplacementName: "Drill",
		ReturnedQty:     1,
		ReplacementQty:  1,
	})
	if !errors.Is(err, utils.ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}

func TestExchangeSameProduct(t *testing.T) {
	svc := NewExchangeService(openRegister(), exchangeProducts())

	_, err := svc.Exchange(context.Background(), &ExchangeRequest{
		ReturnedName:    "Hammer",
		ReplacementName: "Hammer",
		ReturnedQty:     1,
		ReplacementQty:  1,
	})
	if !errors.Is(err, utils.ErrSameProduct) {
		t.Errorf("err = %v, want ErrSameProduct", err)
	}
}

func TestExchangeInsufficientStock(t *testing.T) {
	products := exchangeProducts()
	svc := NewExchangeService(openRegister(), products)

	_, err := svc.Exchange(context.Background(), &ExchangeRequest{
		ReturnedName:    "Hammer",
		ReplacementName: "Drill",
		ReturnedQty:     1,
		ReplacementQty:  4,
	})
	if !errors.Is(err, utils.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if len(products.moves) != 0 {
		t.Error("no stock should move when the replacement is short")
	}
}

func TestExchangeLosingStockRace(t *testing.T) {
	products := exchangeProducts()
	products.raceLost = true
	svc := NewExchangeService(openRegister(), products)

	_, err := svc.Exchange(context.Background(), &ExchangeRequest{
		ReturnedName:    "Hammer",
		ReplacementName: "Drill",
		ReturnedQty:     1,
		ReplacementQty:  1,
	})
	if !errors.Is(err, utils.ErrInsufficientStock) {
		t.Errorf("err = %v, want ErrInsufficientStock", err)
	}
}

func TestExchangeRejectsInvalidTier(t *testing.T) {
	svc := NewExchangeService(openRegister(), exchangeProducts())

	_, err := svc.Exchange(context.Background(), &ExchangeRequest{
		ReturnedName:    "Hammer",
		ReplacementName: "Drill",
		ReturnedQty:     1,
		ReplacementQty:  1,
		Tier:            models.PriceTier("vip"),
	})
	if !errors.Is(err, utils.ErrInvalidTier) {
		t.Errorf("err = %v, want ErrInvalidTier", err)
	}
}

func TestExchangeRejectsNonPositiveQuantities(t *testing.T) {
	svc := NewExchangeService(openRegister(), exchangeProducts())

	if _, err := svc.Exchange(context.Background(), &ExchangeRequest{
		ReturnedName:    "Hammer",
		ReplacementName: "Drill",
		ReturnedQty:     0,
		ReplacementQty:  1,
	}); err == nil {
		t.Error("expected an error for a zero returned quantity")
	}
}
