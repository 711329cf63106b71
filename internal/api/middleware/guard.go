package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/healthics/portal/internal/api/metrics"
	"github.com/healthics/portal/internal/core/domain"
)

// LoginPath is where unauthenticated callers are pointed.
const LoginPath = "/auth/login"

// Guard enforces role-gated admission using the domain guard machine.
// An absent principal gets 401 plus the login path; a denied principal
// gets a terminal 403 naming the missing role — never a redirect.
func Guard(g domain.Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, _ := c.Get(ContextPrincipal).(*domain.Principal)

			state, err := g.Resolve(principal)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "authentication required",
					"login": LoginPath,
				})
			}

			if state == domain.GuardDenied {
				metrics.GuardDenialsTotal.WithLabelValues(g.Name).Inc()
				body := map[string]string{"error": "forbidden"}
				if g.Role != domain.RoleUnknown {
					body["requiredRole"] = g.Role.String()
				}
				return c.JSON(http.StatusForbidden, body)
			}

			return next(c)
		}
	}
}
