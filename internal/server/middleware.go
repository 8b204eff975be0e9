package server

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"timestrap/internal/auth"
	"timestrap/internal/domain"
	"timestrap/internal/errors"
)

// IdentityKey is the key under which the authenticated identity is stored in the Fiber context.
const IdentityKey = "identity"

// requestLogger writes one line per request. Errors are rendered here so the logged status
// is the one sent to the client.
func requestLogger(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			if handlerErr := c.App().Config().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		event := logger.Info()
		if status >= fiber.StatusInternalServerError {
			event = logger.Error()
		} else if status >= fiber.StatusBadRequest {
			event = logger.Warn()
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return nil
	}
}

// AuthMiddleware validates bearer tokens. When required is false, requests without an
// Authorization header pass through unauthenticated; a header that is present must always
// carry a valid token.
func AuthMiddleware(tokens *auth.TokenManager, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			if required {
				return unauthorized("Authorization header is required")
			}
			return c.Next()
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return unauthorized("Invalid authorization header format. Use: Bearer <token>")
		}

		claims, err := tokens.Validate(strings.TrimSpace(token))
		if err != nil {
			return unauthorized("Invalid or expired token")
		}

		c.Locals(IdentityKey, claims.Identity())
		return c.Next()
	}
}

func unauthorized(reason string) error {
	return &errors.AppError{
		Type:    errors.ErrorTypePermission,
		Message: reason,
		Code:    "UNAUTHORIZED",
	}
}

// requireEmployee rejects the request when an authenticated identity belongs to another
// employee. Unauthenticated requests pass.
func requireEmployee(c *fiber.Ctx, employeeCode string) error {
	identity, ok := c.Locals(IdentityKey).(domain.Identity)
	if !ok {
		return nil
	}
	if identity.EmployeeID != strings.TrimSpace(employeeCode) {
		return errors.NewPermissionError("access", "employee "+employeeCode)
	}
	return nil
}
