// Package upstream implements the typed client layer for the Healthics
// backend: one function per (resource, operation), each issuing exactly one
// HTTP call. No retries, no caching, no batching — complexity lives one
// layer up, in the services.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/healthics/portal/internal/api/metrics"
	"github.com/healthics/portal/internal/core/domain"
)

// Client is the shared transport under all upstream gateways. It injects
// the session's bearer token on every call and maps failure statuses onto
// the domain error taxonomy. A 401 additionally fires the invalidation
// hook, tearing the session down globally.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger

	// onUnauthorized is invoked with the session ID whenever upstream
	// rejects the bearer token. Must be idempotent; set once at wiring time.
	onUnauthorized func(ctx context.Context, sessionID string)
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// OnUnauthorized installs the global session-invalidation hook.
func (c *Client) OnUnauthorized(fn func(ctx context.Context, sessionID string)) {
	c.onUnauthorized = fn
}

// Ping reports upstream reachability. Any HTTP response, including an
// error status, proves the backend is up; only transport failure counts
// as unreachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	resp.Body.Close()
	return nil
}

// do performs one upstream call and returns the response body and headers.
// Failure statuses are converted to domain sentinels; the caller never sees
// a raw *http.Response.
func (c *Client) do(ctx context.Context, op, method, path string, sess *domain.Session, body io.Reader, contentType string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if sess != nil {
		req.Header.Set("Authorization", "Bearer "+sess.UpstreamToken)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(op, "network_error").Inc()
		return nil, nil, fmt.Errorf("%w: %s %s: %v", domain.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(op, "network_error").Inc()
		return nil, nil, fmt.Errorf("%w: reading %s %s: %v", domain.ErrNetwork, method, path, err)
	}

	if resp.StatusCode >= 400 {
		metrics.UpstreamRequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()
		return nil, nil, c.statusError(ctx, op, resp.StatusCode, data, sess)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(op, "ok").Inc()
	return data, resp.Header, nil
}

func (c *Client) statusError(ctx context.Context, op string, status int, body []byte, sess *domain.Session) error {
	msg := upstreamMessage(body)

	switch {
	case status == http.StatusUnauthorized:
		c.invalidate(ctx, op, sess)
		return fmt.Errorf("%w: %s", domain.ErrAuth, msg)
	case status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrForbidden, msg)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
	case status >= 500:
		return fmt.Errorf("%w: status %d: %s", domain.ErrServer, status, msg)
	default:
		return fmt.Errorf("%w: unexpected status %d: %s", domain.ErrServer, status, msg)
	}
}

func (c *Client) invalidate(ctx context.Context, op string, sess *domain.Session) {
	if sess == nil || c.onUnauthorized == nil {
		return
	}
	c.log.Warn().Str("op", op).Str("session_id", sess.ID).Msg("upstream rejected token, invalidating session")
	c.onUnauthorized(ctx, sess.ID)
}

// upstreamMessage pulls a human-readable message out of an error body.
// The backend is inconsistent between {"message": ...} and {"error": ...},
// so read both without committing to a schema.
func upstreamMessage(body []byte) string {
	if m := gjson.GetBytes(body, "message"); m.Exists() && m.String() != "" {
		return m.String()
	}
	if m := gjson.GetBytes(body, "error"); m.Exists() && m.String() != "" {
		return m.String()
	}
	return "upstream request failed"
}

// --- JSON helpers ---

func (c *Client) getJSON(ctx context.Context, op, path string, sess *domain.Session, out any) error {
	data, _, err := c.do(ctx, op, http.MethodGet, path, sess, nil, "")
	if err != nil {
		return err
	}
	return decodeJSON(op, data, out)
}

func (c *Client) postJSON(ctx context.Context, op, path string, sess *domain.Session, in, out any) error {
	return c.sendJSON(ctx, op, http.MethodPost, path, sess, in, out)
}

func (c *Client) putJSON(ctx context.Context, op, path string, sess *domain.Session, in, out any) error {
	return c.sendJSON(ctx, op, http.MethodPut, path, sess, in, out)
}

func (c *Client) sendJSON(ctx context.Context, op, method, path string, sess *domain.Session, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}
	data, _, err := c.do(ctx, op, method, path, sess, body, contentType)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeJSON(op, data, out)
}

func (c *Client) delete(ctx context.Context, op, path string, sess *domain.Session) error {
	_, _, err := c.do(ctx, op, http.MethodDelete, path, sess, nil, "")
	return err
}

func decodeJSON(op string, data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: malformed payload: %v", domain.ErrServer, op, err)
	}
	return nil
}
