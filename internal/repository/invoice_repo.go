package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ventapos/venta_api/internal/models"
)

// InvoiceRepository handles data access for invoices and their lines.
type InvoiceRepository struct {
	db *sqlx.DB
}

// NewInvoiceRepository creates a new InvoiceRepository.
func NewInvoiceRepository(db *sqlx.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

const invoiceRowColumns = `
        i.id, i.customer_id, i.cash_amount, i.transfer_amount, i.paid,
        i.type, i.payment_method, i.home_delivery, i.discount, i.issued_by,
        i.created_at, i.modified_at,
        cu.first_name || ' ' || cu.last_name AS customer_name`

const invoiceRowJoins = `
        FROM invoices i
        JOIN customers cu ON i.customer_id = cu.id`

// GetByID returns a single invoice entity by id.
func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*models.Invoice, error) {
	var inv models.Invoice
	if err := r.db.GetContext(ctx, &inv, `SELECT * FROM invoices WHERE id = $1 LIMIT 1`, id); err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetAll returns every invoice joined with the customer name, oldest first.
func (r *InvoiceRepository) GetAll(ctx context.Context) ([]models.InvoiceRow, error) {
	q := `SELECT` + invoiceRowColumns + invoiceRowJoins + ` ORDER BY i.id`
	rows := []models.InvoiceRow{}
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// Search returns invoices matching the query against id, customer name,
// creation date, payment method or invoice type, case-insensitively.
func (r *InvoiceRepository) Search(ctx context.Context, query string) ([]models.InvoiceRow, error) {
	q := `SELECT` + invoiceRowColumns + invoiceRowJoins + `
        WHERE CAST(i.id AS TEXT) ILIKE '%' || $1 || '%'
           OR cu.first_name || ' ' || cu.last_name ILIKE '%' || $1 || '%'
           OR TO_CHAR(i.created_at, 'YYYY-MM-DD') ILIKE '%' || $1 || '%'
           OR i.payment_method ILIKE '%' || $1 || '%'
           OR CAST(i.type AS TEXT) ILIKE '%' || $1 || '%'
        ORDER BY i.id`
	rows := []models.InvoiceRow{}
	if err := r.db.SelectContext(ctx, &rows, q, query); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetFull returns the invoice header, its customer and its line items with
// product names, denormalized for display and ticket rendering.
func (r *InvoiceRepository) GetFull(ctx context.Context, id int64) (*models.FullInvoice, error) {
	headQ := `SELECT` + invoiceRowColumns + invoiceRowJoins + ` WHERE i.id = $1 LIMIT 1`
	var head models.InvoiceRow
	if err := r.db.GetContext(ctx, &head, headQ, id); err != nil {
		return nil, err
	}

	var customer models.Customer
	if err := r.db.GetContext(ctx, &customer, `SELECT * FROM customers WHERE id = $1`, head.CustomerID); err != nil {
		return nil, err
	}

	const linesQ = `
        SELECT l.id, l.invoice_id, l.product_id, l.quantity, l.subtotal,
               p.name AS product_name
        FROM invoice_lines l
        JOIN products p ON l.product_id = p.id
        WHERE l.invoice_id = $1
        ORDER BY l.id`
	lines := []models.InvoiceLineRow{}
	if err := r.db.SelectContext(ctx, &lines, linesQ, id); err != nil {
		return nil, err
	}

	return &models.FullInvoice{Invoice: head, Customer: customer, Lines: lines}, nil
}

// MarkPaidWithIncome marks an invoice paid and records the payment as
// register income in one transaction: the paid flag, the income type row and
// the income row persist together or not at all. Returns sql.ErrNoRows when
// the invoice does not exist.
func (r *InvoiceRepository) MarkPaidWithIncome(ctx context.Context, id int64, typeName string, amount float64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const setPaid = `
        UPDATE invoices SET paid = true, modified_at = NOW()
        WHERE id = $1
        RETURNING id`
	var updated int64
	if err := tx.QueryRowxContext(ctx, setPaid, id).Scan(&updated); err != nil {
		return err
	}

	it := models.IncomeType{Name: typeName, InvoiceID: id}
	const insType = `INSERT INTO income_types (name, invoice_id) VALUES ($1, $2) RETURNING id`
	if err := tx.QueryRowxContext(ctx, insType, it.Name, it.InvoiceID).Scan(&it.ID); err != nil {
		return fmt.Errorf("record income type for invoice %d: %w", id, err)
	}
	inc := models.Income{IncomeTypeID: it.ID, Amount: amount}
	const insIncome = `INSERT INTO incomes (income_type_id, amount) VALUES ($1, $2)`
	if _, err := tx.ExecContext(ctx, insIncome, inc.IncomeTypeID, inc.Amount); err != nil {
		return fmt.Errorf("record income for invoice %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit payment of invoice %d: %w", id, err)
	}
	return nil
}

// UpdateDiscount sets the discount of an invoice.
func (r *InvoiceRepository) UpdateDiscount(ctx context.Context, id int64, discount float64) error {
	const q = `
        UPDATE invoices SET discount = $2, modified_at = NOW()
        WHERE id = $1
        RETURNING id`
	var updated int64
	return r.db.QueryRowxContext(ctx, q, id, discount).Scan(&updated)
}

// Delete removes an invoice and its lines. It reports whether a row was
// actually deleted.
func (r *InvoiceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, id); err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return n > 0, nil
}

// CancelWithStockRestore reverses the stock effect of an invoice and deletes
// it, all in one transaction: every line's quantity flows back into its
// product's stock before the invoice and its lines are removed. Either the
// whole cancellation persists or none of it does.
func (r *InvoiceRepository) CancelWithStockRestore(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Lines are grouped per product so an invoice holding the same product
	// twice restores the combined quantity.
	const restore = `
        UPDATE products p
        SET stock_current = p.stock_current + l.qty,
            available = (p.stock_current + l.qty) > 0,
            updated_at = NOW()
        FROM (
            SELECT product_id, SUM(quantity) AS qty
            FROM invoice_lines
            WHERE invoice_id = $1
            GROUP BY product_id
        ) l
        WHERE p.id = l.product_id`
	if _, err := tx.ExecContext(ctx, restore, id); err != nil {
		return fmt.Errorf("restore stock for invoice %d: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cancellation of invoice %d: %w", id, err)
	}
	return nil
}
