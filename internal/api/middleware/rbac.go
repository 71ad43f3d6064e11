package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/contracthub/auth-service/internal/core/domain"
)

// RBAC enforces role-based access control over the role claim injected by
// Auth. Denial surfaces as domain.ErrForbidden, which the central error
// handler renders as 403: the caller is authenticated but not privileged,
// distinct from Auth's 401.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(domain.Role)
			if _, ok := allowed[role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
