package ports

import (
	"context"

	"github.com/healthics/portal/internal/core/domain"
)

// SessionStore persists gateway sessions for their configured TTL.
// Get returns domain.ErrNoSession for unknown or expired IDs.
// Delete is idempotent: deleting an absent session is not an error.
type SessionStore interface {
	Put(ctx context.Context, sess *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// LoginOutput is what the gateway hands back after a successful login.
type LoginOutput struct {
	Token     string
	Principal domain.Principal
}

// SessionService owns the session lifecycle.
type SessionService interface {
	Login(ctx context.Context, username, password string) (*LoginOutput, error)
	Logout(ctx context.Context, sessionID string) error
	Register(ctx context.Context, input RegisterInput) error
	// Invalidate tears down a session out-of-band (upstream 401). Idempotent
	// and safe to call from any in-flight request.
	Invalidate(ctx context.Context, sessionID, reason string)
}
