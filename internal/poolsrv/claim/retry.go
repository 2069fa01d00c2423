package claim

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/poolhouse/poolhouse/internal/poolsrv/claim/claimerror"
)

const (
	DefaultRetryAttempts  = 3
	DefaultRetryBaseDelay = 1 * time.Second
)

// Runner wraps arbitration calls with bounded exponential-backoff retry
// for transient store failures. Business rejections are never retried:
// re-asking the store whether a strip is still claimed cannot change the
// answer and would only pollute telemetry.
//
// Delays follow baseDelay * 2^(attempt-1) with no jitter, matching the
// retry behavior the rest of the system expects.
type Runner struct {
	attempts  uint
	baseDelay time.Duration
	sink      Sink
}

// NewRunner builds a Runner. attempts is the total invocation budget
// including the first try; zero values fall back to the defaults. A nil
// sink disables telemetry.
func NewRunner(attempts uint, baseDelay time.Duration, sink Sink) *Runner {
	if attempts == 0 {
		attempts = DefaultRetryAttempts
	}
	if baseDelay <= 0 {
		baseDelay = DefaultRetryBaseDelay
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Runner{attempts: attempts, baseDelay: baseDelay, sink: sink}
}

// IsTransient reports whether err belongs to the retryable class:
// store-reported unavailability or connectivity failure. Business
// rejections and validation errors are final.
func IsTransient(err error) bool {
	return errors.Is(err, claimerror.ErrStoreUnavailable)
}

// Run invokes op, retrying on transient failures up to the attempt budget
// and propagating the final error unmodified. Every attempt, success or
// failure, emits one telemetry event; emission never affects the retry
// or commit decision.
func (r *Runner) Run(ctx context.Context, label, claimantID string, op func(ctx context.Context) error) error {
	attempt := 0
	return retry.Do(
		func() error {
			attempt++
			err := op(ctx)
			r.sink.Emit(ctx, Event{
				Operation:  label,
				Attempt:    attempt,
				Error:      errMessage(err),
				ClaimantID: claimantID,
				Timestamp:  time.Now(),
			})
			return err
		},
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.baseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsTransient),
	)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
