package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ventapos/venta_api/internal/models"
)

// RegisterRepository handles data access for cash register sessions.
type RegisterRepository struct {
	db *sqlx.DB
}

// NewRegisterRepository creates a new RegisterRepository.
func NewRegisterRepository(db *sqlx.DB) *RegisterRepository {
	return &RegisterRepository{db: db}
}

// GetOpen returns the currently open register session, or sql.ErrNoRows when
// no session is open.
func (r *RegisterRepository) GetOpen(ctx context.Context) (*models.RegisterSession, error) {
	const q = `SELECT * FROM register_sessions WHERE open = true ORDER BY opened_at DESC LIMIT 1`
	var s models.RegisterSession
	if err := r.db.GetContext(ctx, &s, q); err != nil {
		return nil, err
	}
	return &s, nil
}

// Open creates a new open register session.
func (r *RegisterRepository) Open(ctx context.Context, s *models.RegisterSession) error {
	const q = `
        INSERT INTO register_sessions (opened_by, opening_balance, open)
        VALUES ($1, $2, true)
        RETURNING id, opened_at`
	return r.db.QueryRowxContext(ctx, q, s.OpenedBy, s.OpeningBalance).Scan(&s.ID, &s.OpenedAt)
}

// Close marks the session closed with its counted closing balance.
func (r *RegisterRepository) Close(ctx context.Context, id int64, closingBalance float64) error {
	const q = `
        UPDATE register_sessions
        SET open = false, closing_balance = $2, closed_at = $3
        WHERE id = $1 AND open = true
        RETURNING id`
	var closedID int64
	return r.db.QueryRowxContext(ctx, q, id, closingBalance, time.Now()).Scan(&closedID)
}
