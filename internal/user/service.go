package user

import (
	"context"
	"errors"

	"paygo/internal/auth"

	"github.com/google/uuid"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// BalanceReader reports the wallet balance for a profile. Declared here so
// the user package does not depend on the wallet package.
type BalanceReader interface {
	Balance(ctx context.Context, userID int) (int64, error)
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	Profile(ctx context.Context, authUID string) (*ProfileResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
}

type service struct {
	repo      Repository
	balances  BalanceReader
	jwtSecret string
}

func NewService(repo Repository, balances BalanceReader, jwtSecret string) Service {
	return &service{
		repo:      repo,
		balances:  balances,
		jwtSecret: jwtSecret,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	// Self-registered accounts get a fresh auth identity. Accounts created
	// through an external identity provider arrive with their own UID.
	authUID := uuid.NewString()

	u, err := s.repo.Create(ctx, authUID, req.DisplayName, req.PhoneNumber, req.Email, passwordHash, "member")
	if err != nil {
		return nil, "", "", err
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		u.AuthUID,
		u.Email,
		u.Role,
		s.jwtSecret,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return u, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		u.AuthUID,
		u.Email,
		u.Role,
		s.jwtSecret,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return u, accessToken, refreshToken, nil
}

func (s *service) Profile(ctx context.Context, authUID string) (*ProfileResponse, error) {
	u, err := s.repo.FindByAuthUID(ctx, authUID)
	if err != nil {
		return nil, err
	}

	balance, err := s.balances.Balance(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	return &ProfileResponse{User: *u, Balance: balance}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	u, err := s.repo.FindByAuthUID(ctx, claims.AuthUID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}

	newAccessToken, err := auth.GenerateAccessToken(u.AuthUID, u.Email, u.Role, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return newAccessToken, u, nil
}
