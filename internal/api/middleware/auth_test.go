package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/healthics/portal/internal/core/domain"
)

type storeStub struct {
	sessions map[string]*domain.Session
}

func newStoreStub() *storeStub {
	return &storeStub{sessions: make(map[string]*domain.Session)}
}

func (s *storeStub) Put(_ context.Context, sess *domain.Session) error {
	s.sessions[sess.ID] = sess
	return nil
}

func (s *storeStub) Get(_ context.Context, id string) (*domain.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNoSession
	}
	return sess, nil
}

func (s *storeStub) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAuth_ValidTokenWithLiveSession(t *testing.T) {
	e := echo.New()
	store := newStoreStub()
	store.sessions["s1"] = &domain.Session{
		ID:        "s1",
		Principal: domain.Principal{ID: 7, Username: "john", Roles: []domain.Role{domain.RolePatient}},
	}

	token := signToken(t, "secret", jwt.MapClaims{"sid": "s1", "exp": time.Now().Add(time.Hour).Unix()})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret", store)(func(c echo.Context) error {
		called = true
		sess, _ := c.Get(ContextSession).(*domain.Session)
		if sess == nil || sess.ID != "s1" {
			t.Fatalf("session not injected: %+v", sess)
		}
		principal, _ := c.Get(ContextPrincipal).(*domain.Principal)
		if principal == nil || principal.Username != "john" {
			t.Fatalf("principal not injected: %+v", principal)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuth_ValidTokenDeadSession(t *testing.T) {
	// the token is cryptographically fine, but logout/upstream-401 already
	// destroyed the session it references
	e := echo.New()
	token := signToken(t, "secret", jwt.MapClaims{"sid": "gone", "exp": time.Now().Add(time.Hour).Unix()})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth("secret", newStoreStub())(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_Rejections(t *testing.T) {
	e := echo.New()
	store := newStoreStub()

	wrongKey := signToken(t, "other-secret", jwt.MapClaims{"sid": "s1"})
	noSid := signToken(t, "secret", jwt.MapClaims{"username": "john"})

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic am9objpw"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong signing key", "Bearer " + wrongKey},
		{"no sid claim", "Bearer " + noSid},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		c := e.NewContext(req, httptest.NewRecorder())

		handler := Auth("secret", store)(func(c echo.Context) error {
			t.Fatalf("%s: should not reach next", tc.name)
			return nil
		})

		err := handler(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %v", tc.name, err)
		}
	}
}
