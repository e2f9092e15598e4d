// Package middleware provides the authentication middleware of the HTTP API.
package middleware

import (
	"errors"

	"github.com/amirasaad/bankmanager/pkg/config"
	authsvc "github.com/amirasaad/bankmanager/pkg/service/auth"
	"github.com/amirasaad/bankmanager/webapi/common"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// UserKey is the fiber.Locals key holding the validated *jwt.Token.
const UserKey = "user"

// JwtProtected rejects requests without a valid HS256 bearer token.
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ContextKey:   UserKey,
		ErrorHandler: jwtError,
	})
}

// RequireAdmin must run after JwtProtected. It rejects tokens that do not
// carry the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals(UserKey).(*jwt.Token)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, common.CodeUnauthorized,
				"Authentification requise", nil)
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || claims["role"] != authsvc.RoleAdmin {
			return common.ErrorResponseJSON(c, fiber.StatusForbidden, common.CodeForbidden,
				"Accès réservé aux administrateurs", nil)
		}
		return c.Next()
	}
}

func jwtError(c *fiber.Ctx, err error) error {
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		return common.ErrorResponseJSON(c, fiber.StatusBadRequest, common.CodeBadRequest,
			"Jeton manquant ou mal formé", nil)
	}
	return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, common.CodeUnauthorized,
		"Jeton invalide ou expiré", nil)
}
