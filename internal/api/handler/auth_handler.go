package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/healthics/portal/internal/api/middleware"
	"github.com/healthics/portal/internal/core/domain"
	"github.com/healthics/portal/internal/core/ports"
)

// AuthHandler handles login, logout, and registration.
type AuthHandler struct {
	sessions  ports.SessionService
	jwtSecret string
}

func NewAuthHandler(sessions ports.SessionService, jwtSecret string) *AuthHandler {
	return &AuthHandler{sessions: sessions, jwtSecret: jwtSecret}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type principalResponse struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles"`
}

type loginResponse struct {
	Token string            `json:"token"`
	User  principalResponse `json:"user"`
}

// Login authenticates against the upstream backend and opens a gateway session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	out, err := h.sessions.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token: out.Token,
		User: principalResponse{
			ID:       out.Principal.ID,
			Username: out.Principal.Username,
			Email:    out.Principal.Email,
			Roles:    out.Principal.RoleNames(),
		},
	})
}

// Register creates a patient account upstream. Does not log the account in.
//
// @Summary      Register a new patient account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.sessions.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]string{"status": "registered"})
}

// Logout destroys the caller's session. Idempotent: a dead or missing
// session still yields 204, so the client can always clear local state.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204  "no content"
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sid := h.sessionIDFromToken(c)
	if sid != "" {
		if err := h.sessions.Logout(c.Request().Context(), sid); err != nil {
			return err
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// sessionIDFromToken reads the sid claim without requiring a live session,
// so logout works even after the session already expired. Token checks
// mirror the auth middleware, including the HS256 pin.
func (h *AuthHandler) sessionIDFromToken(c echo.Context) string {
	sess, _ := c.Get(middleware.ContextSession).(*domain.Session)
	if sess != nil {
		return sess.ID
	}

	authHeader := c.Request().Header.Get("Authorization")
	const prefix = "Bearer "
	if len(authHeader) <= len(prefix) {
		return ""
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(authHeader[len(prefix):], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil {
		return ""
	}
	sid, _ := claims["sid"].(string)
	return sid
}
