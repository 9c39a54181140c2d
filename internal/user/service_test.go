package user

import (
	"context"
	"testing"

	"paygo/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type MockRepo struct{ mock.Mock }

func (m *MockRepo) Create(ctx context.Context, authUID, displayName, phoneNumber, email, passwordHash, role string) (*User, error) {
	args := m.Called(ctx, authUID, displayName, phoneNumber, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepo) FindByAuthUID(ctx context.Context, authUID string) (*User, error) {
	args := m.Called(ctx, authUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepo) FindByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type stubBalances struct{ balance int64 }

func (s stubBalances) Balance(ctx context.Context, userID int) (int64, error) {
	return s.balance, nil
}

func TestRegister(t *testing.T) {
	t.Run("creates a member profile with tokens", func(t *testing.T) {
		repo := new(MockRepo)
		svc := NewService(repo, stubBalances{}, testSecret)

		repo.On("EmailExists", mock.Anything, "asha@example.com").Return(false, nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("string"), "Asha", "+911234567890",
			"asha@example.com", mock.AnythingOfType("string"), "member").
			Return(&User{ID: 1, AuthUID: "auth-1", Email: "asha@example.com", Role: "member"}, nil)

		u, access, refresh, err := svc.Register(context.Background(), RegisterRequest{
			DisplayName: "Asha", Email: "asha@example.com", PhoneNumber: "+911234567890", Password: "sup3rsecret",
		})

		require.NoError(t, err)
		assert.Equal(t, 1, u.ID)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)

		claims, err := auth.ValidateToken(access, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "auth-1", claims.AuthUID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockRepo)
		svc := NewService(repo, stubBalances{}, testSecret)

		repo.On("EmailExists", mock.Anything, "asha@example.com").Return(true, nil)

		_, _, _, err := svc.Register(context.Background(), RegisterRequest{
			DisplayName: "Asha", Email: "asha@example.com", PhoneNumber: "+911234567890", Password: "sup3rsecret",
		})

		assert.ErrorIs(t, err, ErrEmailExists)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("sup3rsecret")
	require.NoError(t, err)

	stored := &User{ID: 1, AuthUID: "auth-1", Email: "asha@example.com", Role: "member", PasswordHash: hash}

	t.Run("valid credentials", func(t *testing.T) {
		repo := new(MockRepo)
		svc := NewService(repo, stubBalances{}, testSecret)

		repo.On("FindByEmail", mock.Anything, "asha@example.com").Return(stored, nil)

		u, access, _, err := svc.Login(context.Background(), LoginRequest{
			Email: "asha@example.com", Password: "sup3rsecret",
		})

		require.NoError(t, err)
		assert.Equal(t, "auth-1", u.AuthUID)
		assert.NotEmpty(t, access)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockRepo)
		svc := NewService(repo, stubBalances{}, testSecret)

		repo.On("FindByEmail", mock.Anything, "asha@example.com").Return(stored, nil)

		_, _, _, err := svc.Login(context.Background(), LoginRequest{
			Email: "asha@example.com", Password: "letmein",
		})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email maps to the same error as a bad password", func(t *testing.T) {
		repo := new(MockRepo)
		svc := NewService(repo, stubBalances{}, testSecret)

		repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, ErrUserNotFound)

		_, _, _, err := svc.Login(context.Background(), LoginRequest{
			Email: "ghost@example.com", Password: "sup3rsecret",
		})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestProfile(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, stubBalances{balance: 750}, testSecret)

	repo.On("FindByAuthUID", mock.Anything, "auth-1").
		Return(&User{ID: 1, AuthUID: "auth-1", DisplayName: "Asha"}, nil)

	profile, err := svc.Profile(context.Background(), "auth-1")

	require.NoError(t, err)
	assert.Equal(t, "Asha", profile.User.DisplayName)
	assert.Equal(t, int64(750), profile.Balance)
}

func TestRefreshToken(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, stubBalances{}, testSecret)

	_, refresh, err := auth.GenerateTokens("auth-1", "asha@example.com", "member", testSecret, testSecret)
	require.NoError(t, err)

	repo.On("FindByAuthUID", mock.Anything, "auth-1").
		Return(&User{ID: 1, AuthUID: "auth-1", Email: "asha@example.com", Role: "member"}, nil)

	newAccess, u, err := svc.RefreshToken(context.Background(), refresh)

	require.NoError(t, err)
	assert.Equal(t, "auth-1", u.AuthUID)

	claims, err := auth.ValidateToken(newAccess, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.TokenType)
}
