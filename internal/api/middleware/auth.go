package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/contracthub/auth-service/internal/api/metrics"
	"github.com/contracthub/auth-service/internal/core/domain"
	"github.com/contracthub/auth-service/internal/core/ports"
)

// Auth verifies the bearer token and injects the verified claims into the
// request context. A missing, malformed, tampered or expired token is always
// a 401; insufficient privilege is the RBAC middleware's 403.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues(verifyResult(err)).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, verifyMessage(err))
			}
			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()

			c.Set("subject", claims.Subject)
			c.Set("role", claims.Role)
			c.Set("claims", claims)

			return next(c)
		}
	}
}

func verifyResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignatureInvalid):
		return "invalid_signature"
	default:
		return "malformed"
	}
}

// verifyMessage distinguishes the guidance per token error kind without
// leaking anything useful to a forger: all paths are still 401.
func verifyMessage(err error) string {
	if errors.Is(err, domain.ErrTokenExpired) {
		return "token expired, log in again"
	}
	return "invalid token"
}
