package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/ventapos/venta_api/internal/models"
	"github.com/ventapos/venta_api/internal/utils"
)

type stubProductStore struct {
	products map[int64]*models.Product
	nextID   int64
	updated  *models.Product
	deleted  []int64
}

func newStubProductStore(products ...*models.Product) *stubProductStore {
	s := &stubProductStore{products: map[int64]*models.Product{}, nextID: 1}
	for _, p := range products {
		if p.ID == 0 {
			p.ID = s.nextID
		}
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
		s.products[p.ID] = p
	}
	return s
}

func (s *stubProductStore) Create(ctx context.Context, p *models.Product) error {
	p.ID = s.nextID
	s.nextID++
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *stubProductStore) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (s *stubProductStore) GetRowByID(ctx context.Context, id int64) (*models.ProductRow, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.ProductRow{Product: *p}, nil
}

func (s *stubProductStore) GetAll(ctx context.Context) ([]models.ProductRow, error) {
	rows := []models.ProductRow{}
	for _, p := range s.products {
		rows = append(rows, models.ProductRow{Product: *p})
	}
	return rows, nil
}

func (s *stubProductStore) Search(ctx context.Context, query string) ([]models.ProductRow, error) {
	return s.GetAll(ctx)
}

func (s *stubProductStore) Update(ctx context.Context, p *models.Product) error {
	if _, ok := s.products[p.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *p
	s.products[p.ID] = &cp
	s.updated = &cp
	return nil
}

func (s *stubProductStore) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := s.products[id]; !ok {
		return false, nil
	}
	delete(s.products, id)
	s.deleted = append(s.deleted, id)
	return true, nil
}

func (s *stubProductStore) TopSelling(ctx context.Context, limit int) ([]models.TopSellingRow, error) {
	return nil, nil
}

type stubNotifier struct {
	alerts []int64
}

func (n *stubNotifier) NotifyLowStock(p *models.Product) {
	n.alerts = append(n.alerts, p.ID)
}

func f64(v float64) *float64 { return &v }

func i64(v int64) *int64 { return &v }

func iptr(v int) *int { return &v }

func TestCreateDerivesPricesAndMargins(t *testing.T) {
	store := newStubProductStore()
	svc := NewProductService(store, nil, nil)

	p, err := svc.Create(context.Background(), &CreateProductRequest{
		Name:         "Hammer",
		CostPrice:    800,
		StockCurrent: 5,
		StockMin:     2,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if p.SalePriceNormal != 1200 {
		t.Errorf("normal price = %v, want 1200", p.SalePriceNormal)
	}
	if p.SalePriceWholesale != 1100 {
		t.Errorf("wholesale price = %v, want 1100", p.SalePriceWholesale)
	}
	if p.SalePriceResale != 1100 {
		t.Errorf("resale price = %v, want 1100", p.SalePriceResale)
	}
	if p.MarginNormal != 400 || p.MarginWholesale != 300 || p.MarginResale != 300 {
		t.Errorf("margins = %v/%v/%v, want 400/300/300", p.MarginNormal, p.MarginWholesale, p.MarginResale)
	}
	if !p.Available {
		t.Error("product with positive stock should be available")
	}
	if p.ID == 0 {
		t.Error("expected persisted product to receive an id")
	}
}

func TestCreateExplicitPriceWins(t *testing.T) {
	store := newStubProductStore()
	svc := NewProductService(store, nil, nil)

	p, err := svc.Create(context.Background(), &CreateProductRequest{
		Name:            "Drill",
		CostPrice:       800,
		SalePriceNormal: f64(999),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.SalePriceNormal != 999 {
		t.Errorf("normal price = %v, want explicit 999", p.SalePriceNormal)
	}
	if p.MarginNormal != 199 {
		t.Errorf("normal margin = %v, want 199", p.MarginNormal)
	}
	if p.SalePriceWholesale != 1100 {
		t.Errorf("wholesale price = %v, want derived 1100", p.SalePriceWholesale)
	}
	if p.Available {
		t.Error("product with zero stock should not be available")
	}
}

func TestUpdateCostRederivesUnsuppliedTiers(t *testing.T) {
	store := newStubProductStore(&models.Product{
		ID: 7, Name: "Saw", CostPrice: 800,
		SalePriceNormal: 1200, SalePriceWholesale: 1100, SalePriceResale: 1100,
		MarginNormal: 400, MarginWholesale: 300, MarginResale: 300,
	})
	svc := NewProductService(store, nil, nil)

	p, err := svc.Update(context.Background(), 7, &UpdateProductRequest{CostPrice: f64(1000)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.SalePriceNormal != 1500 {
		t.Errorf("normal price = %v, want 1500", p.SalePriceNormal)
	}
	if p.SalePriceWholesale != 1400 {
		t.Errorf("wholesale price = %v, want 1400", p.SalePriceWholesale)
	}
	if p.SalePriceResale != 1400 {
		t.Errorf("resale price = %v, want 1400", p.SalePriceResale)
	}
	if p.MarginNormal != 500 || p.MarginWholesale != 400 || p.MarginResale != 400 {
		t.Errorf("margins = %v/%v/%v, want 500/400/400", p.MarginNormal, p.MarginWholesale, p.MarginResale)
	}
	if store.updated == nil {
		t.Fatal("expected the store to receive the updated product")
	}
}

func TestUpdateExplicitPriceOverridesDerivation(t *testing.T) {
	store := newStubProductStore(&models.Product{
		ID: 7, Name: "Saw", CostPrice: 800,
		SalePriceNormal: 1200, SalePriceWholesale: 1100, SalePriceResale: 1100,
	})
	svc := NewProductService(store, nil, nil)

	p, err := svc.Update(context.Background(), 7, &UpdateProductRequest{
		CostPrice:       f64(1000),
		SalePriceNormal: f64(1600),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.SalePriceNormal != 1600 {
		t.Errorf("normal price = %v, want explicit 1600", p.SalePriceNormal)
	}
	if p.MarginNormal != 600 {
		t.Errorf("normal margin = %v, want 600", p.MarginNormal)
	}
	if p.SalePriceWholesale != 1400 {
		t.Errorf("wholesale price = %v, want derived 1400", p.SalePriceWholesale)
	}
}

func TestUpdatePriceWithoutCostKeepsCost(t *testing.T) {
	store := newStubProductStore(&models.Product{
		ID: 3, Name: "Tape", CostPrice: 500,
		SalePriceNormal: 800, SalePriceWholesale: 700, SalePriceResale: 700,
	})
	svc := NewProductService(store, nil, nil)

	p, err := svc.Update(context.Background(), 3, &UpdateProductRequest{SalePriceResale: f64(750)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.CostPrice != 500 {
		t.Errorf("cost price = %v, want untouched 500", p.CostPrice)
	}
	if p.SalePriceResale != 750 {
		t.Errorf("resale price = %v, want 750", p.SalePriceResale)
	}
	if p.MarginResale != 250 {
		t.Errorf("resale margin = %v, want 250", p.MarginResale)
	}
	if p.SalePriceNormal != 800 {
		t.Errorf("normal price = %v, want untouched 800", p.SalePriceNormal)
	}
}

func TestUpdateStockTogglesAvailability(t *testing.T) {
	store := newStubProductStore(&models.Product{
		ID: 4, Name: "Glue", StockCurrent: 10, StockMin: 2, Available: true,
	})
	svc := NewProductService(store, nil, nil)

	p, err := svc.Update(context.Background(), 4, &UpdateProductRequest{StockCurrent: iptr(0)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.Available {
		t.Error("product with zero stock should not be available")
	}
}

func TestUpdateBelowMinimumNotifies(t *testing.T) {
	notifier := &stubNotifier{}
	store := newStubProductStore(&models.Product{
		ID: 4, Name: "Glue", StockCurrent: 10, StockMin: 5, Available: true,
	})
	svc := NewProductService(store, nil, notifier)

	if _, err := svc.Update(context.Background(), 4, &UpdateProductRequest{StockCurrent: iptr(3)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(notifier.alerts) != 1 || notifier.alerts[0] != 4 {
		t.Errorf("alerts = %v, want one alert for product 4", notifier.alerts)
	}
}

func TestUpdateUnknownProduct(t *testing.T) {
	svc := NewProductService(newStubProductStore(), nil, nil)
	if _, err := svc.Update(context.Background(), 99, &UpdateProductRequest{}); !errors.Is(err, utils.ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}

func TestDeleteUnknownProduct(t *testing.T) {
	svc := NewProductService(newStubProductStore(), nil, nil)
	if err := svc.Delete(context.Background(), 99); !errors.Is(err, utils.ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}

func TestStockCheckMessages(t *testing.T) {
	store := newStubProductStore(
		&models.Product{ID: 1, Name: "Low", StockCurrent: 1, StockMin: 5},
		&models.Product{ID: 2, Name: "Fine", StockCurrent: 9, StockMin: 5},
	)
	svc := NewProductService(store, nil, nil)
	ctx := context.Background()

	if got := svc.StockCheck(ctx, 1); got != `Warning: stock for product "Low" is below the allowed minimum.` {
		t.Errorf("low stock message = %q", got)
	}
	if got := svc.StockCheck(ctx, 2); got != `Stock for product "Fine" is within the allowed range.` {
		t.Errorf("in-range message = %q", got)
	}
	if got := svc.StockCheck(ctx, 42); got != "Product not found." {
		t.Errorf("missing product message = %q", got)
	}
}
