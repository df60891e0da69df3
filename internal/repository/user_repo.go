package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ventapos/venta_api/internal/models"
)

// UserRepository handles data access for back-office users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail returns the user with the given email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `
        SELECT id, email, password_hash, name, role, is_active, last_login_at, created_at, updated_at
        FROM users
        WHERE email = $1
    `, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user with a pre-hashed password.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	const q = `
        INSERT INTO users (email, password_hash, name, role, is_active)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRowxContext(ctx, q, u.Email, u.PasswordHash, u.Name, u.Role, u.IsActive).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

// TouchLogin records a successful login time.
func (r *UserRepository) TouchLogin(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, id, time.Now())
	return err
}
