package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ventapos/venta_api/internal/models"
)

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// rowColumns is the select list shared by every joined product query.
const rowColumns = `
        p.id, p.name, p.cost_price,
        p.sale_price_normal, p.sale_price_wholesale, p.sale_price_resale,
        p.margin_normal, p.margin_wholesale, p.margin_resale,
        p.stock_current, p.stock_min, p.stock_max,
        p.brand_id, p.category_id, p.available, p.created_at, p.updated_at,
        b.name AS brand_name, c.name AS category_name`

const rowJoins = `
        FROM products p
        LEFT JOIN brands b ON p.brand_id = b.id
        LEFT JOIN categories c ON p.category_id = c.id`

// Create inserts a new product row and fills in its generated fields.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	const q = `
        INSERT INTO products (
            name, cost_price,
            sale_price_normal, sale_price_wholesale, sale_price_resale,
            margin_normal, margin_wholesale, margin_resale,
            stock_current, stock_min, stock_max,
            brand_id, category_id, available
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRowxContext(ctx, q,
		p.Name, p.CostPrice,
		p.SalePriceNormal, p.SalePriceWholesale, p.SalePriceResale,
		p.MarginNormal, p.MarginWholesale, p.MarginResale,
		p.StockCurrent, p.StockMin, p.StockMax,
		p.BrandID, p.CategoryID, p.Available,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// GetByID returns a single product entity by id.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE id = $1 LIMIT 1`
	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetRowByID returns a single product joined with brand and category names.
func (r *ProductRepository) GetRowByID(ctx context.Context, id int64) (*models.ProductRow, error) {
	q := `SELECT` + rowColumns + rowJoins + ` WHERE p.id = $1 LIMIT 1`
	var row models.ProductRow
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByExactName returns the product whose name matches exactly,
// case-insensitively. Used by the exchange workflow to resolve user input.
func (r *ProductRepository) GetByExactName(ctx context.Context, name string) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE LOWER(name) = LOWER($1) LIMIT 1`
	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, name); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAll returns every product joined with brand and category names.
func (r *ProductRepository) GetAll(ctx context.Context) ([]models.ProductRow, error) {
	q := `SELECT` + rowColumns + rowJoins + ` ORDER BY p.id`
	rows := []models.ProductRow{}
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// Search returns products whose name, id, brand name or category name
// contains the query, case-insensitively. The id is matched as text.
func (r *ProductRepository) Search(ctx context.Context, query string) ([]models.ProductRow, error) {
	q := `SELECT` + rowColumns + rowJoins + `
        WHERE p.name ILIKE '%' || $1 || '%'
           OR CAST(p.id AS TEXT) ILIKE '%' || $1 || '%'
           OR b.name ILIKE '%' || $1 || '%'
           OR c.name ILIKE '%' || $1 || '%'
        ORDER BY p.id`
	rows := []models.ProductRow{}
	if err := r.db.SelectContext(ctx, &rows, q, query); err != nil {
		return nil, err
	}
	return rows, nil
}

// Update writes back the full product row. Returns sql.ErrNoRows when the
// product does not exist.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	const q = `
        UPDATE products SET
            name = $2, cost_price = $3,
            sale_price_normal = $4, sale_price_wholesale = $5, sale_price_resale = $6,
            margin_normal = $7, margin_wholesale = $8, margin_resale = $9,
            stock_current = $10, stock_min = $11, stock_max = $12,
            brand_id = $13, category_id = $14, available = $15,
            updated_at = NOW()
        WHERE id = $1
        RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, q,
		p.ID, p.Name, p.CostPrice,
		p.SalePriceNormal, p.SalePriceWholesale, p.SalePriceResale,
		p.MarginNormal, p.MarginWholesale, p.MarginResale,
		p.StockCurrent, p.StockMin, p.StockMax,
		p.BrandID, p.CategoryID, p.Available,
	).Scan(&p.UpdatedAt)
}

// Delete removes a product. It reports whether a row was actually deleted.
func (r *ProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TopSelling returns the best-selling products by total units across all
// invoice lines.
func (r *ProductRepository) TopSelling(ctx context.Context, limit int) ([]models.TopSellingRow, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
        SELECT p.id AS product_id, p.name,
               SUM(l.quantity) AS units_sold,
               SUM(l.subtotal) AS revenue
        FROM products p
        JOIN invoice_lines l ON l.product_id = p.id
        GROUP BY p.id, p.name
        ORDER BY SUM(l.quantity) DESC
        LIMIT $1`
	rows := []models.TopSellingRow{}
	if err := r.db.SelectContext(ctx, &rows, q, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

// BelowMinimum returns products whose current stock is under their minimum.
func (r *ProductRepository) BelowMinimum(ctx context.Context) ([]models.Product, error) {
	const q = `SELECT * FROM products WHERE stock_current < stock_min ORDER BY id`
	rows := []models.Product{}
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// ExchangeStock atomically moves stock for a product exchange: the returned
// product gains returnedQty, the replacement loses replacementQty. The whole
// movement happens in one transaction; either both rows change or neither
// does. Returns sql.ErrNoRows if the replacement no longer has enough stock
// at commit time.
func (r *ProductRepository) ExchangeStock(ctx context.Context, returnedID int64, returnedQty int, replacementID int64, replacementQty int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const incr = `
        UPDATE products
        SET stock_current = stock_current + $2,
            available = (stock_current + $2) > 0,
            updated_at = NOW()
        WHERE id = $1`
	if _, err := tx.ExecContext(ctx, incr, returnedID, returnedQty); err != nil {
		return err
	}

	// The stock_current guard re-checks availability under the transaction:
	// a concurrent sale may have consumed stock since the service checked.
	const decr = `
        UPDATE products
        SET stock_current = stock_current - $2,
            available = (stock_current - $2) > 0,
            updated_at = NOW()
        WHERE id = $1 AND stock_current >= $2`
	res, err := tx.ExecContext(ctx, decr, replacementID, replacementQty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit exchange: %w", err)
	}
	return nil
}
