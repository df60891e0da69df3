package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/ventapos/venta_api/internal/models"
	"github.com/ventapos/venta_api/internal/utils"
)

type stubSessionStore struct {
	open   *models.RegisterSession
	closed []int64
	nextID int64
}

func (s *stubSessionStore) GetOpen(ctx context.Context) (*models.RegisterSession, error) {
	if s.open == nil {
		return nil, sql.ErrNoRows
	}
	return s.open, nil
}

func (s *stubSessionStore) Open(ctx context.Context, sess *models.RegisterSession) error {
	s.nextID++
	sess.ID = s.nextID
	s.open = sess
	return nil
}

func (s *stubSessionStore) Close(ctx context.Context, id int64, closingBalance float64) error {
	if s.open == nil || s.open.ID != id {
		return sql.ErrNoRows
	}
	s.closed = append(s.closed, id)
	s.open = nil
	return nil
}

func TestRegisterOpenAndClose(t *testing.T) {
	store := &stubSessionStore{}
	svc := NewRegisterService(store)
	ctx := context.Background()

	sess, err := svc.Open(ctx, "ana@ventapos.io", 5000)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if sess.ID == 0 || !sess.Open {
		t.Errorf("session = %+v, want persisted open session", sess)
	}

	cur, err := svc.Current(ctx)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if cur.ID != sess.ID {
		t.Errorf("current session id = %d, want %d", cur.ID, sess.ID)
	}

	if err := svc.Close(ctx, 7500); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(store.closed) != 1 || store.closed[0] != sess.ID {
		t.Errorf("closed = %v, want session %d", store.closed, sess.ID)
	}
}

func TestRegisterOpenTwiceRejected(t *testing.T) {
	store := &stubSessionStore{}
	svc := NewRegisterService(store)
	ctx := context.Background()

	if _, err := svc.Open(ctx, "ana@ventapos.io", 5000); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := svc.Open(ctx, "luis@ventapos.io", 0); !errors.Is(err, utils.ErrRegisterOpen) {
		t.Errorf("err = %v, want ErrRegisterOpen", err)
	}
}

func TestRegisterCloseWithoutOpenSession(t *testing.T) {
	svc := NewRegisterService(&stubSessionStore{})

	if err := svc.Close(context.Background(), 100); !errors.Is(err, utils.ErrNoOpenRegister) {
		t.Errorf("err = %v, want ErrNoOpenRegister", err)
	}
}

func TestRegisterCurrentWithoutOpenSession(t *testing.T) {
	svc := NewRegisterService(&stubSessionStore{})

	if _, err := svc.Current(context.Background()); !errors.Is(err, utils.ErrNoOpenRegister) {
		t.Errorf("err = %v, want ErrNoOpenRegister", err)
	}
}
