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

// InvoiceStore is the persistence surface the invoice service needs.
type InvoiceStore interface {
	GetByID(ctx context.Context, id int64) (*models.Invoice, error)
	GetAll(ctx context.Context) ([]models.InvoiceRow, error)
	Search(ctx context.Context, query string) ([]models.InvoiceRow, error)
	GetFull(ctx context.Context, id int64) (*models.FullInvoice, error)
	MarkPaidWithIncome(ctx context.Context, id int64, typeName string, amount float64) error
	UpdateDiscount(ctx context.Context, id int64, discount float64) error
	Delete(ctx context.Context, id int64) (bool, error)
	CancelWithStockRestore(ctx context.Context, id int64) error
}

// InvoiceService handles invoice queries, payment and cancellation workflows.
type InvoiceService struct {
	invoices InvoiceStore
}

// NewInvoiceService constructs an InvoiceService.
func NewInvoiceService(invoices InvoiceStore) *InvoiceService {
	return &InvoiceService{invoices: invoices}
}

// Get returns one invoice by id.
func (s *InvoiceService) Get(ctx context.Context, id int64) (*models.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrInvoiceNotFound
		}
		return nil, err
	}
	return inv, nil
}

// GetFull returns the invoice header with its customer and line items.
func (s *InvoiceService) GetFull(ctx context.Context, id int64) (*models.FullInvoice, error) {
	full, err := s.invoices.GetFull(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrInvoiceNotFound
		}
		return nil, err
	}
	return full, nil
}

// List returns all invoices joined with customer names.
func (s *InvoiceService) List(ctx context.Context) ([]models.InvoiceRow, error) {
	return s.invoices.GetAll(ctx)
}

// Search returns invoices matching the query. An empty query falls back to
// the full listing.
func (s *InvoiceService) Search(ctx context.Context, query string) ([]models.InvoiceRow, error) {
	if query == "" {
		return s.invoices.GetAll(ctx)
	}
	return s.invoices.Search(ctx, query)
}

// SetDiscount updates the discount of a pending invoice.
func (s *InvoiceService) SetDiscount(ctx context.Context, id int64, discount float64) error {
	if err := s.invoices.UpdateDiscount(ctx, id, discount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrInvoiceNotFound
		}
		return err
	}
	return nil
}

// MarkPaid marks invoices paid in order, recording the payment as register
// income. Paid and credit invoices are rejected; the returned slice holds
// the ids marked before the first failure (no batch-level atomicity). Each
// single payment persists its paid flag and income record atomically.
func (s *InvoiceService) MarkPaid(ctx context.Context, ids []int64) ([]int64, error) {
	done := make([]int64, 0, len(ids))
	for _, id := range ids {
		inv, err := s.Get(ctx, id)
		if err != nil {
			return done, fmt.Errorf("invoice %d: %w", id, err)
		}
		if inv.Type == models.InvoiceCredit {
			return done, fmt.Errorf("invoice %d: %w", id, utils.ErrCreditInvoice)
		}
		if inv.Paid {
			return done, fmt.Errorf("invoice %d: %w", id, utils.ErrInvoiceAlreadyPaid)
		}

		if err := s.invoices.MarkPaidWithIncome(ctx, id, "sale", inv.Total()); err != nil {
			return done, fmt.Errorf("mark invoice %d paid: %w", id, err)
		}
		log.Info().Int64("invoice_id", id).Float64("amount", inv.Total()).Msg("invoice marked paid")
		done = append(done, id)
	}
	return done, nil
}

// Cancel cancels pending sale invoices in order, restoring each line's
// quantity to its product's stock before deleting the invoice. Paid and
// credit invoices are rejected. Each invoice cancels atomically; across the
// batch the returned slice holds the ids cancelled before the first failure.
func (s *InvoiceService) Cancel(ctx context.Context, ids []int64) ([]int64, error) {
	done := make([]int64, 0, len(ids))
	for _, id := range ids {
		inv, err := s.Get(ctx, id)
		if err != nil {
			return done, fmt.Errorf("invoice %d: %w", id, err)
		}
		if inv.Paid {
			return done, fmt.Errorf("invoice %d: %w", id, utils.ErrInvoiceAlreadyPaid)
		}
		if inv.Type == models.InvoiceCredit {
			return done, fmt.Errorf("invoice %d: %w", id, utils.ErrCreditInvoice)
		}

		if err := s.invoices.CancelWithStockRestore(ctx, id); err != nil {
			return done, fmt.Errorf("cancel invoice %d: %w", id, err)
		}
		log.Info().Int64("invoice_id", id).Msg("invoice cancelled, stock restored")
		done = append(done, id)
	}
	return done, nil
}

// Ticket renders the plain-text sales ticket for an invoice.
func (s *InvoiceService) Ticket(ctx context.Context, id int64) (string, error) {
	full, err := s.GetFull(ctx, id)
	if err != nil {
		return "", err
	}
	return RenderTicket(full), nil
}
