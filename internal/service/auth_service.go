package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/ventapos/venta_api/internal/models"
	"github.com/ventapos/venta_api/internal/utils"
)

// UserStore is the persistence surface for back-office users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	TouchLogin(ctx context.Context, id int64) error
}

// AuthService authenticates back-office users and issues JWTs.
type AuthService struct {
	users UserStore
}

// NewAuthService constructs an AuthService.
func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		log.Warn().Str("email", email).Msg("login attempt for unknown user")
		return "", errors.New("invalid credentials")
	}
	if !user.IsActive {
		log.Warn().Str("email", email).Msg("login attempt for inactive account")
		return "", errors.New("account is inactive")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("password verification failed")
		return "", errors.New("invalid credentials")
	}

	if err := s.users.TouchLogin(ctx, user.ID); err != nil {
		log.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to record login time")
	}
	log.Info().Str("email", email).Msg("login successful")

	return utils.GenerateJWT(user.ID, user.Email, user.Role)
}

// CreateUser registers a new user with a bcrypt-hashed password.
func (s *AuthService) CreateUser(ctx context.Context, email, password, name, role string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &models.User{
		Email:        email,
		PasswordHash: string(hashed),
		Name:         name,
		Role:         role,
		IsActive:     true,
	}
	return s.users.Create(ctx, user)
}
