package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/heven-commerce/storefront/internal/model"
)

// UserRepositoryInterface defines the interface for user data access.
type UserRepositoryInterface interface {
	Insert(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]model.AdminUserRow, error)
	SetBlocked(ctx context.Context, id string, blocked bool) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	Count(ctx context.Context) (int, error)
}

// AuthService handles registration, login, and token issuing.
type AuthService struct {
	users      UserRepositoryInterface
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

// NewAuthService creates a new AuthService. tokenTTL is the access token
// lifetime; bcryptCost follows the configured hashing cost.
func NewAuthService(users UserRepositoryInterface, secret string, tokenTTL time.Duration, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		secret:     []byte(secret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// Register creates a customer account and returns it with a fresh token.
// Returns ErrEmailExists when the email is already registered.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         model.RoleCustomer,
	}
	if req.Phone != "" {
		u.Phone = &req.Phone
	}
	if err := s.users.Insert(ctx, u); err != nil {
		return nil, err
	}

	return s.issue(u)
}

// Login verifies credentials and returns the account with a fresh token.
// Returns ErrInvalidCredentials for a wrong email or password and
// ErrUserBlocked for a blocked account.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if u.IsBlocked {
		return nil, ErrUserBlocked
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, u.ID, now); err != nil {
		// Login still succeeds; the stamp is informational.
		log.Warn().Err(err).Str("user_id", u.ID).Msg("failed to stamp last login")
	} else {
		u.LastLogin = &now
	}

	return s.issue(u)
}

// issue signs an HS256 access token carrying the user ID and role.
func (s *AuthService) issue(u *model.User) (*model.AuthResponse, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)

	claims := jwt.MapClaims{
		"sub":  u.ID,
		"role": string(u.Role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &model.AuthResponse{Token: signed, ExpiresAt: expiresAt, User: *u}, nil
}
