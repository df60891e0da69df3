package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/ventapos/venta_api/internal/models"
	"github.com/ventapos/venta_api/internal/utils"
)

type incomeRecord struct {
	invoiceID int64
	typeName  string
	amount    float64
}

// stubInvoiceStore mimics the transactional store contract: MarkPaidWithIncome
// and CancelWithStockRestore either apply fully or leave no trace.
type stubInvoiceStore struct {
	invoices   map[int64]*models.Invoice
	lines      map[int64][]models.InvoiceLine
	stock      map[int64]int
	incomes    []incomeRecord
	cancelled  []int64
	failPaid   map[int64]error
	failCancel map[int64]error
}

func newStubInvoiceStore(invoices ...*models.Invoice) *stubInvoiceStore {
	s := &stubInvoiceStore{
		invoices: map[int64]*models.Invoice{},
		lines:    map[int64][]models.InvoiceLine{},
		stock:    map[int64]int{},
	}
	for _, inv := range invoices {
		s.invoices[inv.ID] = inv
	}
	return s
}

func (s *stubInvoiceStore) GetByID(ctx context.Context, id int64) (*models.Invoice, error) {
	inv, ok := s.invoices[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *inv
	return &cp, nil
}

func (s *stubInvoiceStore) GetAll(ctx context.Context) ([]models.InvoiceRow, error) {
	rows := []models.InvoiceRow{}
	for _, inv := range s.invoices {
		rows = append(rows, models.InvoiceRow{Invoice: *inv})
	}
	return rows, nil
}

func (s *stubInvoiceStore) Search(ctx context.Context, query string) ([]models.InvoiceRow, error) {
	return s.GetAll(ctx)
}

func (s *stubInvoiceStore) GetFull(ctx context.Context, id int64) (*models.FullInvoice, error) {
	inv, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.FullInvoice{Invoice: models.InvoiceRow{Invoice: *inv}}, nil
}

func (s *stubInvoiceStore) MarkPaidWithIncome(ctx context.Context, id int64, typeName string, amount float64) error {
	if err := s.failPaid[id]; err != nil {
		return err
	}
	inv, ok := s.invoices[id]
	if !ok {
		return sql.ErrNoRows
	}
	inv.Paid = true
	s.incomes = append(s.incomes, incomeRecord{invoiceID: id, typeName: typeName, amount: amount})
	return nil
}

func (s *stubInvoiceStore) UpdateDiscount(ctx context.Context, id int64, discount float64) error {
	inv, ok := s.invoices[id]
	if !ok {
		return sql.ErrNoRows
	}
	inv.Discount = discount
	return nil
}

func (s *stubInvoiceStore) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := s.invoices[id]; !ok {
		return false, nil
	}
	delete(s.invoices, id)
	return true, nil
}

func (s *stubInvoiceStore) CancelWithStockRestore(ctx context.Context, id int64) error {
	if err := s.failCancel[id]; err != nil {
		return err
	}
	if _, ok := s.invoices[id]; !ok {
		return sql.ErrNoRows
	}
	for _, l := range s.lines[id] {
		s.stock[l.ProductID] += l.Quantity
	}
	delete(s.lines, id)
	delete(s.invoices, id)
	s.cancelled = append(s.cancelled, id)
	return nil
}

func TestMarkPaidRecordsIncome(t *testing.T) {
	store := newStubInvoiceStore(
		&models.Invoice{ID: 1, Type: models.InvoiceRetail, CashAmount: 300, TransferAmount: 200},
		&models.Invoice{ID: 2, Type: models.InvoiceWholesale, CashAmount: 1000},
	)
	svc := NewInvoiceService(store)

	done, err := svc.MarkPaid(context.Background(), []int64{1, 2})
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if len(done) != 2 {
		t.Fatalf("done = %v, want both invoices", done)
	}
	if len(store.incomes) != 2 {
		t.Fatalf("income records = %d, want 2", len(store.incomes))
	}
	if store.incomes[0].amount != 500 || store.incomes[0].typeName != "sale" {
		t.Errorf("first income = %+v, want sale/500", store.incomes[0])
	}
	if !store.invoices[1].Paid || !store.invoices[2].Paid {
		t.Error("both invoices should be flagged paid")
	}
}

func TestMarkPaidFailureLeavesNoPartialState(t *testing.T) {
	store := newStubInvoiceStore(
		&models.Invoice{ID: 1, Type: models.InvoiceRetail, CashAmount: 100},
		&models.Invoice{ID: 2, Type: models.InvoiceRetail, CashAmount: 200},
	)
	store.failPaid = map[int64]error{2: errors.New("income insert failed")}
	svc := NewInvoiceService(store)

	done, err := svc.MarkPaid(context.Background(), []int64{1, 2})
	if err == nil {
		t.Fatal("expected the failing payment to surface an error")
	}
	if len(done) != 1 || done[0] != 1 {
		t.Errorf("done = %v, want just invoice 1", done)
	}
	if store.invoices[2].Paid {
		t.Error("failed payment must not leave the invoice flagged paid")
	}
	for _, rec := range store.incomes {
		if rec.invoiceID == 2 {
			t.Error("failed payment must not leave an income record")
		}
	}
}

func TestMarkPaidRejectsPaidAndStops(t *testing.T) {
	store := newStubInvoiceStore(
		&models.Invoice{ID: 1, Type: models.InvoiceRetail, CashAmount: 100},
		&models.Invoice{ID: 2, Type: models.InvoiceRetail, Paid: true},
		&models.Invoice{ID: 3, Type: models.InvoiceRetail, CashAmount: 100},
	)
	svc := NewInvoiceService(store)

	done, err := svc.MarkPaid(context.Background(), []int64{1, 2, 3})
	if !errors.Is(err, utils.ErrInvoiceAlreadyPaid) {
		t.Fatalf("err = %v, want ErrInvoiceAlreadyPaid", err)
	}
	if len(done) != 1 || done[0] != 1 {
		t.Errorf("done = %v, want just invoice 1", done)
	}
	if store.invoices[3].Paid {
		t.Error("invoice after the failure must stay untouched")
	}
}

func TestMarkPaidRejectsCredit(t *testing.T) {
	store := newStubInvoiceStore(&models.Invoice{ID: 5, Type: models.InvoiceCredit})
	svc := NewInvoiceService(store)

	done, err := svc.MarkPaid(context.Background(), []int64{5})
	if !errors.Is(err, utils.ErrCreditInvoice) {
		t.Fatalf("err = %v, want ErrCreditInvoice", err)
	}
	if len(done) != 0 {
		t.Errorf("done = %v, want empty", done)
	}
	if len(store.incomes) != 0 {
		t.Error("credit invoice must not produce an income record")
	}
}

func TestCancelRestoresLineQuantities(t *testing.T) {
	store := newStubInvoiceStore(&models.Invoice{ID: 1, Type: models.InvoiceRetail})
	store.lines[1] = []models.InvoiceLine{
		{InvoiceID: 1, ProductID: 10, Quantity: 2},
		{InvoiceID: 1, ProductID: 20, Quantity: 3},
	}
	store.stock[10] = 5
	store.stock[20] = 0
	svc := NewInvoiceService(store)

	done, err := svc.Cancel(context.Background(), []int64{1})
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if len(done) != 1 {
		t.Fatalf("done = %v, want invoice 1", done)
	}
	if store.stock[10] != 7 {
		t.Errorf("product 10 stock = %d, want 5+2=7", store.stock[10])
	}
	if store.stock[20] != 3 {
		t.Errorf("product 20 stock = %d, want 0+3=3", store.stock[20])
	}
	if _, ok := store.invoices[1]; ok {
		t.Error("cancelled invoice should be removed")
	}
}

func TestCancelRejectsPaidAndStops(t *testing.T) {
	store := newStubInvoiceStore(
		&models.Invoice{ID: 1, Type: models.InvoiceRetail},
		&models.Invoice{ID: 2, Type: models.InvoiceRetail, Paid: true},
		&models.Invoice{ID: 3, Type: models.InvoiceRetail},
	)
	svc := NewInvoiceService(store)

	done, err := svc.Cancel(context.Background(), []int64{1, 2, 3})
	if !errors.Is(err, utils.ErrInvoiceAlreadyPaid) {
		t.Fatalf("err = %v, want ErrInvoiceAlreadyPaid", err)
	}
	if len(done) != 1 || done[0] != 1 {
		t.Errorf("done = %v, want just invoice 1", done)
	}
	if _, ok := store.invoices[3]; !ok {
		t.Error("invoice after the failure must stay untouched")
	}
}

func TestCancelRejectsCredit(t *testing.T) {
	store := newStubInvoiceStore(&models.Invoice{ID: 9, Type: models.InvoiceCredit})
	svc := NewInvoiceService(store)

	if _, err := svc.Cancel(context.Background(), []int64{9}); !errors.Is(err, utils.ErrCreditInvoice) {
		t.Fatalf("err = %v, want ErrCreditInvoice", err)
	}
	if _, ok := store.invoices[9]; !ok {
		t.Error("credit invoice must not be deleted")
	}
}

func TestGetUnknownInvoice(t *testing.T) {
	svc := NewInvoiceService(newStubInvoiceStore())
	if _, err := svc.Get(context.Background(), 404); !errors.Is(err, utils.ErrInvoiceNotFound) {
		t.Errorf("err = %v, want ErrInvoiceNotFound", err)
	}
}
