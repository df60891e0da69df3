package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ventapos/venta_api/internal/models"
)

// CategoryRepository handles data access for categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetAll returns all categories ordered by name.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	rows := []models.Category{}
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM categories ORDER BY name`); err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a category and fills in its id.
func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	const q = `INSERT INTO categories (name) VALUES ($1) RETURNING id`
	return r.db.QueryRowxContext(ctx, q, c.Name).Scan(&c.ID)
}
