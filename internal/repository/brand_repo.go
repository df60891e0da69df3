package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ventapos/venta_api/internal/models"
)

// BrandRepository handles data access for brands.
type BrandRepository struct {
	db *sqlx.DB
}

// NewBrandRepository creates a new BrandRepository.
func NewBrandRepository(db *sqlx.DB) *BrandRepository {
	return &BrandRepository{db: db}
}

// GetAll returns all brands ordered by name.
func (r *BrandRepository) GetAll(ctx context.Context) ([]models.Brand, error) {
	rows := []models.Brand{}
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM brands ORDER BY name`); err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a brand and fills in its id.
func (r *BrandRepository) Create(ctx context.Context, b *models.Brand) error {
	const q = `INSERT INTO brands (name) VALUES ($1) RETURNING id`
	return r.db.QueryRowxContext(ctx, q, b.Name).Scan(&b.ID)
}
