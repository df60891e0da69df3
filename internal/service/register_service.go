package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ventapos/venta_api/internal/models"
	"github.com/ventapos/venta_api/internal/utils"
)

// RegisterSessionStore is the persistence surface for register sessions.
type RegisterSessionStore interface {
	GetOpen(ctx context.Context) (*models.RegisterSession, error)
	Open(ctx context.Context, s *models.RegisterSession) error
	Close(ctx context.Context, id int64, closingBalance float64) error
}

// RegisterService opens and closes cash register sessions. At most one
// session is open at a time.
type RegisterService struct {
	store RegisterSessionStore
}

// NewRegisterService constructs a RegisterService.
func NewRegisterService(store RegisterSessionStore) *RegisterService {
	return &RegisterService{store: store}
}

// Current returns the open session, or utils.ErrNoOpenRegister.
func (s *RegisterService) Current(ctx context.Context) (*models.RegisterSession, error) {
	sess, err := s.store.GetOpen(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNoOpenRegister
		}
		return nil, err
	}
	return sess, nil
}

// Open starts a new session unless one is already open.
func (s *RegisterService) Open(ctx context.Context, openedBy string, openingBalance float64) (*models.RegisterSession, error) {
	if _, err := s.store.GetOpen(ctx); err == nil {
		return nil, utils.ErrRegisterOpen
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	sess := &models.RegisterSession{
		OpenedBy:       openedBy,
		OpeningBalance: openingBalance,
		Open:           true,
	}
	if err := s.store.Open(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Close ends the open session with its counted closing balance.
func (s *RegisterService) Close(ctx context.Context, closingBalance float64) error {
	sess, err := s.Current(ctx)
	if err != nil {
		return err
	}
	if err := s.store.Close(ctx, sess.ID, closingBalance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrNoOpenRegister
		}
		return err
	}
	return nil
}
