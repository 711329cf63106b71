package audit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthics/portal/internal/core/domain"
)

type memorySink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *memorySink) Append(_ context.Context, event domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *memorySink) Recent(_ context.Context, limit int) ([]domain.AuditEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit > len(s.events) {
		limit = len(s.events)
	}
	out := make([]domain.AuditEvent, limit)
	copy(out, s.events[len(s.events)-limit:])
	return out, nil
}

func (s *memorySink) snapshot() []domain.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuditEvent, len(s.events))
	copy(out, s.events)
	return out
}

func waitForEvents(t *testing.T, sink *memorySink, want int) []domain.AuditEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		events := sink.snapshot()
		if len(events) >= want {
			return events
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, have %d", want, len(sink.snapshot()))
	return nil
}

func TestRecorder_DeliversToSink(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &memorySink{}
	r := NewRecorder(2, sink, zerolog.Nop())
	r.Start(ctx)

	r.Record(domain.AuditEvent{UserID: 7, Username: "john", Action: domain.AuditLogin})
	r.Record(domain.AuditEvent{UserID: 8, Username: "jane", Action: domain.AuditUpload})

	events := waitForEvents(t, sink, 2)
	seen := map[string]bool{}
	for _, e := range events {
		seen[e.Action] = true
		if e.Time.IsZero() {
			t.Fatalf("event timestamp not stamped: %+v", e)
		}
	}
	if !seen[domain.AuditLogin] || !seen[domain.AuditUpload] {
		t.Fatalf("missing events: %+v", events)
	}
}

func TestRecorder_PerUserOrdering(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &memorySink{}
	r := NewRecorder(4, sink, zerolog.Nop())
	r.Start(ctx)

	const n = 50
	for i := 0; i < n; i++ {
		r.Record(domain.AuditEvent{UserID: 7, Action: domain.AuditUpload, Detail: string(rune('a' + i%26))})
		r.Record(domain.AuditEvent{UserID: 7, Action: domain.AuditDelete, Detail: string(rune('a' + i%26))})
	}

	events := waitForEvents(t, sink, 2*n)

	// same user always hashes to the same worker, so the per-user sequence
	// in the sink preserves submission order
	var actions []string
	for _, e := range events {
		if e.UserID == 7 {
			actions = append(actions, e.Action)
		}
	}
	for i := 0; i+1 < len(actions); i += 2 {
		if actions[i] != domain.AuditUpload || actions[i+1] != domain.AuditDelete {
			t.Fatalf("per-user order violated at %d: %v", i, actions[i:i+2])
		}
	}
}

func TestRecorder_DefaultWorkerCount(t *testing.T) {
	r := NewRecorder(0, &memorySink{}, zerolog.Nop())
	if len(r.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(r.workers))
	}
}

func TestRecorder_ShardIsStable(t *testing.T) {
	r := NewRecorder(4, &memorySink{}, zerolog.Nop())
	for _, id := range []int64{0, 1, 7, 99, 123456} {
		a := r.shardIndex(id)
		b := r.shardIndex(id)
		if a != b {
			t.Fatalf("shard for user %d not deterministic: %d vs %d", id, a, b)
		}
		if a < 0 || a >= len(r.workers) {
			t.Fatalf("shard %d out of range", a)
		}
	}
}

func TestRecorder_RecordAfterShutdownDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	r := NewRecorder(1, &memorySink{}, zerolog.Nop())
	r.Start(ctx)

	cancel()
	<-r.quit

	// enough events to overflow the single worker's buffer several times
	// over; every one must return promptly even with no worker draining
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 3*channelBuffer; i++ {
			r.Record(domain.AuditEvent{UserID: 7, Action: domain.AuditUpload})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked after shutdown")
	}
}
