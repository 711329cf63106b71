package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/healthics/portal/internal/core/domain"
)

const (
	activityKey = "activity:recent"
	activityCap = 500
)

// ActivityLog is a capped most-recent-first feed of audit events backing
// the admin activity panel. Key format: activity:recent (list, LTRIM-capped).
type ActivityLog struct {
	client *redis.Client
}

func NewActivityLog(client *redis.Client) *ActivityLog {
	return &ActivityLog{client: client}
}

func (l *ActivityLog) Append(ctx context.Context, event domain.AuditEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pipe := l.client.TxPipeline()
	pipe.LPush(ctx, activityKey, payload)
	pipe.LTrim(ctx, activityKey, 0, activityCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("activity append: %w", err)
	}
	return nil
}

func (l *ActivityLog) Recent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	if limit <= 0 || limit > activityCap {
		limit = activityCap
	}

	entries, err := l.client.LRange(ctx, activityKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("activity range: %w", err)
	}

	events := make([]domain.AuditEvent, 0, len(entries))
	for _, entry := range entries {
		var event domain.AuditEvent
		if err := json.Unmarshal([]byte(entry), &event); err != nil {
			continue // skip entries written by an incompatible version
		}
		events = append(events, event)
	}
	return events, nil
}
