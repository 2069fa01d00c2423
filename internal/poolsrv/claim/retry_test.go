package claim_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolhouse/poolhouse/internal/poolsrv/claim"
	"github.com/poolhouse/poolhouse/internal/poolsrv/claim/claimerror"
)

// recordSink captures emitted events for inspection.
type recordSink struct {
	mu     sync.Mutex
	events []claim.Event
}

func (r *recordSink) Emit(_ context.Context, ev claim.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordSink) all() []claim.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]claim.Event(nil), r.events...)
}

func TestRunnerSuccessFirstTry(t *testing.T) {
	sink := &recordSink{}
	runner := claim.NewRunner(3, time.Millisecond, sink)

	calls := 0
	err := runner.Run(context.Background(), "claim", "u-1", func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	events := sink.all()
	require.Len(t, events, 1)
	assert.Equal(t, "claim", events[0].Operation)
	assert.Equal(t, 1, events[0].Attempt)
	assert.Empty(t, events[0].Error)
	assert.Equal(t, "u-1", events[0].ClaimantID)
}

// TestRunnerNeverRetriesBusinessRejection: a conflict is a final answer;
// asking again cannot change it.
func TestRunnerNeverRetriesBusinessRejection(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
	}{
		{"already claimed", claimerror.ErrAlreadyClaimed},
		{"pool not open", claimerror.ErrPoolNotOpen},
		{"matchup locked", claimerror.ErrMatchupLocked},
		{"not found", claimerror.ErrResourceNotFound},
		{"validation", claimerror.ErrValidation},
	} {
		t.Run(tc.name, func(t *testing.T) {
			runner := claim.NewRunner(5, time.Millisecond, nil)
			calls := 0
			err := runner.Run(context.Background(), "claim", "u-1", func(ctx context.Context) error {
				calls++
				return tc.err
			})
			assert.Equal(t, 1, calls)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestRunnerRetriesTransientUpToBudget(t *testing.T) {
	sink := &recordSink{}
	runner := claim.NewRunner(3, time.Millisecond, sink)

	calls := 0
	err := runner.Run(context.Background(), "claim", "u-1", func(ctx context.Context) error {
		calls++
		return claimerror.ErrStoreUnavailable
	})

	// The budget is total invocations, first try included.
	assert.Equal(t, 3, calls)
	require.Error(t, err)
	assert.ErrorIs(t, err, claimerror.ErrStoreUnavailable)

	events := sink.all()
	require.Len(t, events, 3)
	for i, ev := range events {
		assert.Equal(t, i+1, ev.Attempt)
		assert.NotEmpty(t, ev.Error)
	}
}

func TestRunnerRecoversMidway(t *testing.T) {
	runner := claim.NewRunner(4, time.Millisecond, nil)

	calls := 0
	err := runner.Run(context.Background(), "submitPick", "u-1", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return claimerror.ErrStoreUnavailable
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRunnerBackoffGrows(t *testing.T) {
	base := 20 * time.Millisecond
	runner := claim.NewRunner(3, base, nil)

	start := time.Now()
	_ = runner.Run(context.Background(), "claim", "u-1", func(ctx context.Context) error {
		return claimerror.ErrStoreUnavailable
	})
	elapsed := time.Since(start)

	// Two sleeps at base and 2*base.
	assert.GreaterOrEqual(t, elapsed, 3*base)
}

func TestRunnerHonorsContextCancellation(t *testing.T) {
	runner := claim.NewRunner(10, 50*time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := runner.Run(ctx, "claim", "u-1", func(ctx context.Context) error {
		calls++
		return claimerror.ErrStoreUnavailable
	})
	require.Error(t, err)
	assert.Less(t, calls, 10)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, claim.IsTransient(claimerror.ErrStoreUnavailable))
	assert.True(t, claim.IsTransient(claimerror.ErrStoreUnavailable.Msg("connection reset")))
	assert.False(t, claim.IsTransient(claimerror.ErrAlreadyClaimed))
	assert.False(t, claim.IsTransient(claimerror.ErrStore))
	assert.False(t, claim.IsTransient(nil))
}

func TestNewRunnerDefaults(t *testing.T) {
	runner := claim.NewRunner(0, 0, nil)

	calls := 0
	start := time.Now()
	err := runner.Run(context.Background(), "claim", "u-1", func(ctx context.Context) error {
		calls++
		return claimerror.ErrAlreadyClaimed
	})
	assert.ErrorIs(t, err, claimerror.ErrAlreadyClaimed)
	assert.Equal(t, 1, calls)
	// Business rejection returns without sleeping through default delays.
	assert.Less(t, time.Since(start), time.Second)
}
