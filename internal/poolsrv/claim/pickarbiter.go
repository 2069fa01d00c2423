package claim

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/poolhouse/poolhouse/internal/common/apperrors"
	"github.com/poolhouse/poolhouse/internal/poolsrv/claim/claimerror"
)

// PickState is the outcome of a pick submission.
type PickState string

const (
	// PickCommitted means the claimant's entry was written.
	PickCommitted PickState = "committed"
	// PickPendingRevision means a differing prior pick exists and nothing
	// was written; the claimant must confirm the overwrite explicitly.
	PickPendingRevision PickState = "pending_revision"
)

// PickOutcome reports what a submission did. Matchup carries the
// post-commit state when State is PickCommitted.
type PickOutcome struct {
	State       PickState              `json:"state"`
	PriorChoice string                 `json:"priorChoice,omitempty"`
	Matchup     *MultiClaimantResource `json:"matchup,omitempty"`
}

// PickArbiter records claimants' choices on matchups. Many claimants hold
// independent entries on one matchup record; a commit merges exactly one
// entry and leaves every other claimant's entry untouched.
//
// Changing an existing pick is a two-step flow: SubmitPick on a matchup
// where the claimant already holds a different choice writes nothing and
// returns PickPendingRevision; the overwrite only happens through
// ConfirmPick. Cancelling a pending revision is client-local and needs no
// call at all.
type PickArbiter struct {
	store Store
	now   func() time.Time
}

func NewPickArbiter(store Store) *PickArbiter {
	return &PickArbiter{store: store, now: time.Now}
}

// NewPickArbiterWithClock builds a PickArbiter with an injected time
// source for the lock-time gate.
func NewPickArbiterWithClock(store Store, now func() time.Time) *PickArbiter {
	return &PickArbiter{store: store, now: now}
}

// errRevisionRequired never leaves this package; it aborts the store
// transaction without a write so SubmitPick can report pending state.
var errRevisionRequired = claimerror.ErrClaim.New("revision requires confirmation")

// SubmitPick records the claimant's choice. First-time picks and repeats
// of the current choice commit directly. A differing prior pick makes the
// call a no-op returning PickPendingRevision with the prior choice.
//
// The matchup's start time is a soft gate checked against the wall clock
// at call time: once it has passed every pick operation fails with
// ErrMatchupLocked. A commit racing exactly at lock time is best-effort.
func (p *PickArbiter) SubmitPick(ctx context.Context, poolID, matchupID string, by Claimant, choice string) (*PickOutcome, apperrors.Error) {
	if err := validatePickInput(poolID, matchupID, by, choice); err != nil {
		return nil, err
	}

	var prior string
	m, err := p.store.UpdateMatchup(ctx, poolID, matchupID, func(s MatchupSnapshot) (*PickEntry, apperrors.Error) {
		if err := p.gate(s); err != nil {
			return nil, err
		}
		if existing, ok := s.Matchup.PickFor(by.ID); ok && existing.Choice != choice {
			prior = existing.Choice
			return nil, errRevisionRequired
		}
		return &PickEntry{ClaimantID: by.ID, Choice: choice, DisplayName: by.DisplayName}, nil
	})
	if err != nil {
		if err.Is(errRevisionRequired) {
			log.Ctx(ctx).Info().
				Str("matchup_id", matchupID).
				Str("claimant_id", by.ID).
				Msg("pick revision pending confirmation")
			return &PickOutcome{State: PickPendingRevision, PriorChoice: prior}, nil
		}
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("matchup_id", matchupID).
		Str("claimant_id", by.ID).
		Str("choice", choice).
		Msg("pick committed")
	return &PickOutcome{State: PickCommitted, Matchup: m}, nil
}

// ConfirmPick commits the claimant's choice unconditionally, overwriting
// any prior entry of theirs. This is the second step of the revision flow;
// the merge still preserves every other claimant's entry.
func (p *PickArbiter) ConfirmPick(ctx context.Context, poolID, matchupID string, by Claimant, choice string) (*PickOutcome, apperrors.Error) {
	if err := validatePickInput(poolID, matchupID, by, choice); err != nil {
		return nil, err
	}

	m, err := p.store.UpdateMatchup(ctx, poolID, matchupID, func(s MatchupSnapshot) (*PickEntry, apperrors.Error) {
		if err := p.gate(s); err != nil {
			return nil, err
		}
		return &PickEntry{ClaimantID: by.ID, Choice: choice, DisplayName: by.DisplayName}, nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("matchup_id", matchupID).
		Str("claimant_id", by.ID).
		Str("choice", choice).
		Msg("pick revision committed")
	return &PickOutcome{State: PickCommitted, Matchup: m}, nil
}

// GetMatchup reads the current state of a matchup without arbitration.
func (p *PickArbiter) GetMatchup(ctx context.Context, poolID, matchupID string) (*MultiClaimantResource, apperrors.Error) {
	if !validID(poolID) || !validID(matchupID) {
		return nil, claimerror.ErrValidation.Msg("invalid pool or matchup identifier")
	}
	return p.store.GetMatchup(ctx, poolID, matchupID)
}

func (p *PickArbiter) gate(s MatchupSnapshot) apperrors.Error {
	if s.Matchup == nil {
		return claimerror.ErrMatchupNotFound
	}
	if s.PoolStatus != PoolOpen {
		return claimerror.ErrPoolNotOpen
	}
	if !p.now().Before(s.Matchup.StartsAt) {
		return claimerror.ErrMatchupLocked
	}
	return nil
}

func validatePickInput(poolID, matchupID string, by Claimant, choice string) apperrors.Error {
	if !validID(poolID) {
		return claimerror.ErrValidation.Msg("invalid pool identifier")
	}
	if !validID(matchupID) {
		return claimerror.ErrValidation.Msg("invalid matchup identifier")
	}
	if by.ID == "" {
		return claimerror.ErrValidation.Msg("missing claimant identity")
	}
	if choice == "" {
		return claimerror.ErrValidation.Msg("missing choice")
	}
	return nil
}
