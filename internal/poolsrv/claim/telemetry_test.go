package claim_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolhouse/poolhouse/internal/poolsrv/claim"
)

func TestOnceTrackerFirst(t *testing.T) {
	tracker := claim.NewOnceTracker()

	assert.True(t, tracker.First("session_started"))
	assert.False(t, tracker.First("session_started"))
	assert.False(t, tracker.First("session_started"))

	// Distinct names track independently.
	assert.True(t, tracker.First("first_claim"))
	assert.False(t, tracker.First("first_claim"))
}

func TestOnceTrackerConcurrent(t *testing.T) {
	tracker := claim.NewOnceTracker()

	var mu sync.Mutex
	firsts := 0
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tracker.First("session_started") {
				mu.Lock()
				firsts++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, firsts)
}

func TestOnceSinkDeduplicatesOneShots(t *testing.T) {
	rec := &recordSink{}
	sink := claim.NewOnceSink(rec, "session_started")
	ctx := context.Background()

	emit := func(op string) {
		sink.Emit(ctx, claim.Event{Operation: op, Attempt: 1, ClaimantID: "u-1", Timestamp: time.Now()})
	}

	emit("session_started")
	emit("session_started")
	emit("claim")
	emit("claim")
	emit("session_started")

	events := rec.all()
	require.Len(t, events, 3)
	assert.Equal(t, "session_started", events[0].Operation)
	assert.Equal(t, "claim", events[1].Operation)
	assert.Equal(t, "claim", events[2].Operation)
}

func TestOnceSinkPassthroughWithoutNames(t *testing.T) {
	rec := &recordSink{}
	sink := claim.NewOnceSink(rec)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		sink.Emit(ctx, claim.Event{Operation: "claim", Attempt: i + 1})
	}
	assert.Len(t, rec.all(), 3)
}
