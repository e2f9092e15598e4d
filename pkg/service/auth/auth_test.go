package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	infrarepo "github.com/amirasaad/bankmanager/infra/repository"
	"github.com/amirasaad/bankmanager/internal/testutil"
	"github.com/amirasaad/bankmanager/pkg/config"
	"github.com/amirasaad/bankmanager/pkg/domain/admin"
	adminsvc "github.com/amirasaad/bankmanager/pkg/service/admin"
	authsvc "github.com/amirasaad/bankmanager/pkg/service/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStrategy struct {
	mock.Mock
}

func (m *mockStrategy) Login(ctx context.Context, email, password string) (*admin.Admin, error) {
	args := m.Called(ctx, email, password)
	a, _ := args.Get(0).(*admin.Admin)
	return a, args.Error(1)
}

func (m *mockStrategy) GetCurrentAdminID(ctx context.Context) (uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockStrategy) GenerateToken(ctx context.Context, a *admin.Admin) (string, error) {
	args := m.Called(ctx, a)
	return args.String(0), args.Error(1)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLogin_StrategyErrors(t *testing.T) {
	t.Parallel()
	strategy := &mockStrategy{}
	strategy.On("Login", mock.Anything, "root@example.com", "wrong").
		Return(nil, admin.ErrInvalidCredentials).Once()
	s := authsvc.New(nil, strategy, discard())

	a, token, err := s.Login(context.Background(), "root@example.com", "wrong")
	assert.ErrorIs(t, err, admin.ErrInvalidCredentials)
	assert.Nil(t, a)
	assert.Empty(t, token)
	strategy.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)

	found := &admin.Admin{ID: uuid.New()}
	strategy.On("Login", mock.Anything, "root@example.com", "secret").Return(found, nil).Once()
	strategy.On("GenerateToken", mock.Anything, found).Return("", errors.New("sign error")).Once()
	_, _, err = s.Login(context.Background(), "root@example.com", "secret")
	assert.EqualError(t, err, "sign error")
	strategy.AssertExpectations(t)
}

func TestJWTLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uow := infrarepo.NewUoW(testutil.NewDB(t))
	cfg := &config.Jwt{Secret: "test-secret", Expiry: time.Hour}

	created, err := adminsvc.New(uow, discard()).Create(ctx, "Root", "root@example.com", "motdepasse")
	require.NoError(t, err)

	s := authsvc.NewWithJWT(uow, cfg, discard())
	a, token, err := s.Login(ctx, "ROOT@example.com", "motdepasse")
	require.NoError(t, err)
	assert.Equal(t, created.ID, a.ID)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) { return []byte(cfg.Secret), nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, authsvc.RoleAdmin, claims["role"])
	assert.Equal(t, "root@example.com", claims["email"])

	id, err := s.GetCurrentAdminID(parsed)
	require.NoError(t, err)
	assert.Equal(t, created.ID, id)

	_, _, err = s.Login(ctx, "root@example.com", "mauvais")
	assert.ErrorIs(t, err, admin.ErrInvalidCredentials)
	_, _, err = s.Login(ctx, "nobody@example.com", "motdepasse")
	assert.ErrorIs(t, err, admin.ErrInvalidCredentials)
}

func TestGetCurrentAdminID_InvalidTokens(t *testing.T) {
	t.Parallel()
	s := authsvc.NewWithJWT(nil, &config.Jwt{Secret: "x"}, discard())

	_, err := s.GetCurrentAdminID(&jwt.Token{})
	assert.ErrorIs(t, err, authsvc.ErrInvalidToken)

	_, err = s.GetCurrentAdminID(jwt.New(jwt.SigningMethodHS256))
	assert.ErrorIs(t, err, authsvc.ErrInvalidToken)

	bad := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"admin_id": "not-a-uuid"})
	_, err = s.GetCurrentAdminID(bad)
	assert.ErrorIs(t, err, authsvc.ErrInvalidToken)
}
