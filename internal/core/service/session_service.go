package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/healthics/portal/internal/api/metrics"
	"github.com/healthics/portal/internal/core/domain"
	"github.com/healthics/portal/internal/core/ports"
)

// SessionService owns the session lifecycle. Credential verification is
// delegated to the upstream backend; the gateway only issues its own token
// binding the browser to a stored session.
type SessionService struct {
	auth      ports.AuthGateway
	store     ports.SessionStore
	audit     ports.AuditRecorder
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewSessionService(auth ports.AuthGateway, store ports.SessionStore, audit ports.AuditRecorder, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *SessionService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &SessionService{
		auth:      auth,
		store:     store,
		audit:     audit,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

func (s *SessionService) Login(ctx context.Context, username, password string) (*ports.LoginOutput, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}

	result, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	sess := &domain.Session{
		ID:            uuid.NewString(),
		Principal:     result.Principal,
		UpstreamToken: result.Token,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, err
	}

	token, err := s.issueToken(sess)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("session_id", sess.ID).Str("username", username).Msg("session created")
	s.audit.Record(domain.AuditEvent{
		UserID:   result.Principal.ID,
		Username: result.Principal.Username,
		Action:   domain.AuditLogin,
	})

	return &ports.LoginOutput{Token: token, Principal: result.Principal}, nil
}

// Logout destroys the session. Idempotent: logging out an already-dead
// session succeeds.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrNoSession) {
		return err
	}

	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	metrics.SessionInvalidationsTotal.WithLabelValues("logout").Inc()

	if sess != nil {
		s.audit.Record(domain.AuditEvent{
			UserID:   sess.Principal.ID,
			Username: sess.Principal.Username,
			Action:   domain.AuditLogout,
		})
	}
	return nil
}

// Register proxies account creation upstream. Never auto-logs-in.
func (s *SessionService) Register(ctx context.Context, input ports.RegisterInput) error {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return fmt.Errorf("%w: username, email and password are required", domain.ErrValidation)
	}

	if err := s.auth.Register(ctx, input); err != nil {
		return err
	}

	s.audit.Record(domain.AuditEvent{
		Username: input.Username,
		Action:   domain.AuditRegister,
	})
	return nil
}

// Invalidate tears down a session out-of-band, typically because upstream
// answered 401 on some unrelated in-flight request. Idempotent and safe to
// call concurrently; failures are logged, not returned, because the caller
// is already handling the original auth failure.
func (s *SessionService) Invalidate(ctx context.Context, sessionID, reason string) {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("session invalidation failed")
		return
	}
	metrics.SessionInvalidationsTotal.WithLabelValues(reason).Inc()
	s.log.Info().Str("session_id", sessionID).Str("reason", reason).Msg("session invalidated")
}

func (s *SessionService) issueToken(sess *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid":      sess.ID,
		"username": sess.Principal.Username,
		"roles":    sess.Principal.RoleNames(),
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
