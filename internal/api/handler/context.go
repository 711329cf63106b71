package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/healthics/portal/internal/api/middleware"
	"github.com/healthics/portal/internal/core/domain"
)

// ctxSession extracts the session injected by the Auth middleware and
// fast-fails before any service call: a missing session means the
// middleware did not run on this route, which is a wiring bug surfaced
// as 401 rather than a panic.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess, _ := c.Get(middleware.ContextSession).(*domain.Session)
	if sess == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return sess, nil
}
