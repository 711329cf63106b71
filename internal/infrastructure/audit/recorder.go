// Package audit records user-visible actions asynchronously, off the
// request path, into the structured log and the recent-activity feed.
package audit

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthics/portal/internal/api/metrics"
	"github.com/healthics/portal/internal/core/domain"
	"github.com/healthics/portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
	appendTimeout  = 5 * time.Second
)

// Recorder routes audit events to a fixed set of workers using consistent
// hashing on the user ID, guaranteeing per-user event ordering in the feed.
type Recorder struct {
	workers []chan domain.AuditEvent
	quit    chan struct{}
	sink    ports.ActivityLog
	log     zerolog.Logger
}

// NewRecorder creates a Recorder with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewRecorder(numWorkers int, sink ports.ActivityLog, log zerolog.Logger) *Recorder {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	r := &Recorder{
		workers: make([]chan domain.AuditEvent, numWorkers),
		quit:    make(chan struct{}),
		sink:    sink,
		log:     log,
	}
	for i := range r.workers {
		r.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return r
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (r *Recorder) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		close(r.quit)
	}()
	for i, ch := range r.workers {
		go r.runWorker(ctx, i, ch)
	}
}

// Record enqueues an event on the worker responsible for its user. The
// event's timestamp is stamped here if the caller left it zero. Once the
// recorder has stopped, events are dropped and counted instead of blocking
// the request goroutine on a full buffer nobody drains.
func (r *Recorder) Record(event domain.AuditEvent) {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}
	select {
	case r.workers[r.shardIndex(event.UserID)] <- event:
	case <-r.quit:
		metrics.AuditEventsDroppedTotal.Inc()
		r.log.Warn().
			Str("action", event.Action).
			Int64("user_id", event.UserID).
			Msg("audit event dropped, recorder stopped")
	}
}

// shardIndex maps a user ID deterministically to a worker index.
func (r *Recorder) shardIndex(userID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(userID, 10)))
	return int(h.Sum32()) % len(r.workers)
}

func (r *Recorder) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			r.log.Info().
				Int64("user_id", event.UserID).
				Str("username", event.Username).
				Str("action", event.Action).
				Str("detail", event.Detail).
				Msg("audit")

			appendCtx, cancel := context.WithTimeout(context.Background(), appendTimeout)
			if err := r.sink.Append(appendCtx, event); err != nil {
				r.log.Error().Err(err).
					Str("action", event.Action).
					Int("worker_id", id).
					Msg("activity append failed")
			}
			cancel()
		}
	}
}
