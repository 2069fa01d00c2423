package claim

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Event is the structured telemetry record emitted once per arbitration
// attempt. Error is empty on success.
type Event struct {
	Operation  string    `json:"operation"`
	Attempt    int       `json:"attempt"`
	Error      string    `json:"error,omitempty"`
	ClaimantID string    `json:"claimantId"`
	Timestamp  time.Time `json:"timestamp"`
}

// Sink accepts telemetry events. Emission is fire-and-forget: sinks must
// not block arbitration and their failures are ignored.
type Sink interface {
	Emit(ctx context.Context, ev Event)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Emit(context.Context, Event) {}

// LogSink writes events to the context logger.
type LogSink struct{}

func (LogSink) Emit(ctx context.Context, ev Event) {
	e := log.Ctx(ctx).Info().
		Str("operation", ev.Operation).
		Int("attempt", ev.Attempt).
		Str("claimant_id", ev.ClaimantID)
	if ev.Error != "" {
		e = e.Str("error", ev.Error)
	}
	e.Msg("claim telemetry")
}

// OnceTracker deduplicates one-shot events within a bounded scope (one
// user session, one server lifetime). Callers ask First before emitting
// events that should fire at most once per scope, instead of threading
// has-this-fired flags through unrelated call sites.
type OnceTracker struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewOnceTracker() *OnceTracker {
	return &OnceTracker{seen: make(map[string]struct{})}
}

// First reports whether name has not been seen yet in this scope, and
// marks it seen.
func (o *OnceTracker) First(name string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.seen[name]; ok {
		return false
	}
	o.seen[name] = struct{}{}
	return true
}

// OnceSink emits each one-shot event name at most once per tracker scope.
// Repeat operations pass through unchanged; only names registered as
// one-shot are deduplicated.
type OnceSink struct {
	next    Sink
	tracker *OnceTracker
	oneShot map[string]struct{}
}

func NewOnceSink(next Sink, oneShotNames ...string) *OnceSink {
	names := make(map[string]struct{}, len(oneShotNames))
	for _, n := range oneShotNames {
		names[n] = struct{}{}
	}
	return &OnceSink{next: next, tracker: NewOnceTracker(), oneShot: names}
}

func (s *OnceSink) Emit(ctx context.Context, ev Event) {
	if _, ok := s.oneShot[ev.Operation]; ok {
		if !s.tracker.First(ev.Operation) {
			return
		}
	}
	s.next.Emit(ctx, ev)
}
