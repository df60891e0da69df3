package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ventapos/venta_api/internal/models"
)

// CustomerRepository handles data access for customers.
type CustomerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// GetByID returns a single customer by id.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.GetContext(ctx, &c, `SELECT * FROM customers WHERE id = $1 LIMIT 1`, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetAll returns all customers ordered by last name.
func (r *CustomerRepository) GetAll(ctx context.Context) ([]models.Customer, error) {
	rows := []models.Customer{}
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM customers ORDER BY last_name, first_name`); err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a customer and fills its id.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO customers (first_name, last_name, phone, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		c.FirstName, c.LastName, c.Phone, c.Address,
	).Scan(&c.ID)
}
