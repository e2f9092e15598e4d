package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/bankmanager/pkg/config"
	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/amirasaad/bankmanager/pkg/domain/admin"
	"github.com/amirasaad/bankmanager/pkg/repository"
	"github.com/amirasaad/bankmanager/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const tokenContextKey contextKey = "token"

// RoleAdmin is the role claim carried by admin tokens.
const RoleAdmin = "admin"

// dummyHash is compared against when the admin is unknown so that both
// paths take the same time.
const dummyHash = "$2a$10$7zFqzDbD3RrlkMTczbXG9OWZ0FLOXjIxXzSZ.QZxkVXjXcx7QZQiC"

// ErrInvalidToken is returned when a token lacks the expected claims.
var ErrInvalidToken = domain.NewError(domain.ErrUnauthorized, "UNAUTHORIZED", "Jeton invalide ou expiré")

type Strategy interface {
	Login(ctx context.Context, email, password string) (*admin.Admin, error)
	GetCurrentAdminID(ctx context.Context) (uuid.UUID, error)
	GenerateToken(ctx context.Context, a *admin.Admin) (string, error)
}

type Service struct {
	uow      repository.UnitOfWork
	strategy Strategy
	logger   *slog.Logger
}

func New(
	uow repository.UnitOfWork,
	strategy Strategy,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, strategy: strategy, logger: logger}
}

func NewWithJWT(
	uow repository.UnitOfWork,
	cfg *config.Jwt,
	logger *slog.Logger,
) *Service {
	return New(uow, NewJWTStrategy(uow, cfg, logger), logger)
}

// Login checks the credentials and returns a signed token for the admin.
func (s *Service) Login(
	ctx context.Context,
	email, password string,
) (a *admin.Admin, token string, err error) {
	log := s.logger.With("context", "Login", "email", email)
	log.Debug("Login called")
	a, err = s.strategy.Login(ctx, email, password)
	if err != nil {
		log.Warn("Login failed", "error", err)
		return nil, "", err
	}
	token, err = s.strategy.GenerateToken(ctx, a)
	if err != nil {
		log.Error("GenerateToken failed", "error", err)
		return nil, "", err
	}
	log.Info("Login successful", "admin_id", a.ID)
	return a, token, nil
}

// GetCurrentAdminID extracts the admin id from a validated token.
func (s *Service) GetCurrentAdminID(token *jwt.Token) (uuid.UUID, error) {
	return s.strategy.GetCurrentAdminID(context.WithValue(context.Background(), tokenContextKey, token))
}

// JWTStrategy authenticates admins by e-mail and password and issues
// HS256 tokens.
type JWTStrategy struct {
	uow    repository.UnitOfWork
	cfg    *config.Jwt
	logger *slog.Logger
}

func NewJWTStrategy(
	uow repository.UnitOfWork,
	cfg *config.Jwt,
	logger *slog.Logger,
) *JWTStrategy {
	return &JWTStrategy{uow: uow, cfg: cfg, logger: logger}
}

func (s *JWTStrategy) Login(
	ctx context.Context,
	email, password string,
) (a *admin.Admin, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AdminRepository()
		if err != nil {
			return err
		}
		a, err = repo.GetByEmail(ctx, email)
		if errors.Is(err, admin.ErrAdminNotFound) {
			_ = utils.CheckPasswordHash(password, dummyHash)
			return admin.ErrInvalidCredentials
		}
		if err != nil {
			return err
		}
		if !a.CheckPassword(password) {
			return admin.ErrInvalidCredentials
		}
		return nil
	})
	if err != nil {
		a = nil
	}
	return
}

func (s *JWTStrategy) GenerateToken(
	_ context.Context,
	a *admin.Admin,
) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["admin_id"] = a.ID.String()
	claims["email"] = a.Email
	claims["nom"] = a.Nom
	claims["role"] = RoleAdmin
	claims["exp"] = time.Now().Add(s.cfg.Expiry).Unix()
	return token.SignedString([]byte(s.cfg.Secret))
}

func (s *JWTStrategy) GetCurrentAdminID(
	ctx context.Context,
) (uuid.UUID, error) {
	token, ok := ctx.Value(tokenContextKey).(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	raw, ok := claims["admin_id"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		s.logger.Warn("Token carries a malformed admin id", "error", err)
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}
