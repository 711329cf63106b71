package ports

import (
	"context"

	"github.com/healthics/portal/internal/core/domain"
)

// AuditRecorder accepts audit events for asynchronous recording. Record
// never blocks the request path beyond the recorder's channel buffer.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// ActivityLog is the capped feed behind the admin recent-activity panel.
type ActivityLog interface {
	Append(ctx context.Context, event domain.AuditEvent) error
	Recent(ctx context.Context, limit int) ([]domain.AuditEvent, error)
}
