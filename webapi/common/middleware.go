package common

import (
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/bankmanager/pkg/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

const (
	APIVersion       = "v1"
	HeaderAPIVersion = "X-API-Version"
	HeaderRequestID  = "X-Request-ID"
	RequestIDKey     = "requestid"
)

// RequestID assigns every request a trace id, reusing an incoming
// X-Request-ID header when present.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     HeaderRequestID,
		Generator:  uuid.NewString,
		ContextKey: RequestIDKey,
	})
}

// Version stamps the API version on every response.
func Version() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(HeaderAPIVersion, APIVersion)
		return c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status, _ = ErrorStatus(err)
		}
		log := logger.With(
			"operation", c.Method(),
			"resource", c.Path(),
			"status_code", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"traceId", TraceID(c),
		)
		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("Request failed")
		case status >= fiber.StatusBadRequest:
			log.Warn("Request rejected")
		default:
			log.Info("Request handled")
		}
		return err
	}
}

// ClientIP keys rate limiting on the first X-Forwarded-For entry, then
// X-Real-IP, then the connection address.
func ClientIP(c *fiber.Ctx) string {
	if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		return strings.TrimSpace(first)
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}

// RateLimiter limits requests per client IP.
func RateLimiter(cfg *config.RateLimit) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          cfg.MaxRequests,
		Expiration:   cfg.Window,
		KeyGenerator: ClientIP,
		LimitReached: func(c *fiber.Ctx) error {
			return ErrorResponseJSON(
				c,
				fiber.StatusTooManyRequests,
				CodeRateLimitExceeded,
				"Trop de requêtes, veuillez réessayer plus tard",
				nil,
			)
		},
	})
}
