package claim

import (
	"context"

	"github.com/poolhouse/poolhouse/internal/common/apperrors"
)

// Snapshot is what a claim transaction reads before deciding: the parent
// pool's status and the target resource. Resource is nil when the record
// does not exist. The snapshot is only valid inside the transaction that
// produced it.
type Snapshot struct {
	PoolStatus PoolStatus
	Resource   *SingleOwnerResource
}

// Grant is the conditional write a claim decision produces. The store sets
// the resource's ClaimedAt to its own server time when committing a grant,
// never to a client clock.
type Grant struct {
	OwnerID   string
	OwnerName string
}

// MatchupSnapshot is the read set of a pick transaction.
type MatchupSnapshot struct {
	PoolStatus PoolStatus
	Matchup    *MultiClaimantResource
}

// PickEntry is the single-entry merge a pick decision produces. The store
// must merge it into the matchup's pick map, preserving every entry for
// other claimants; a blind overwrite of the whole map is incorrect.
type PickEntry struct {
	ClaimantID  string
	Choice      string
	DisplayName string
}

// Store is the transactional record store the arbiters run against. An
// implementation must evaluate the decide callback and apply the returned
// write as one atomic unit: if the read records change concurrently, the
// whole transaction retries or aborts inside the store. Implementations
// report connectivity-class failures as claimerror.ErrStoreUnavailable so
// the retry runner can tell them apart from business rejections.
//
// The store is always passed in explicitly; nothing in this package reaches
// for an ambient handle, so tests can substitute a fake.
type Store interface {
	// UpdateResource runs decide against an atomic snapshot of the resource
	// and its pool. A nil grant with nil error leaves the record untouched.
	// Returns the post-transaction resource state when the record exists,
	// even when decide returned a business error.
	UpdateResource(ctx context.Context, poolID, resourceID string,
		decide func(s Snapshot) (*Grant, apperrors.Error)) (*SingleOwnerResource, apperrors.Error)

	// UpdateMatchup is the pick-map analogue of UpdateResource. The entry
	// returned by decide is merged into the matchup's pick map with
	// PickedAt assigned by the store.
	UpdateMatchup(ctx context.Context, poolID, matchupID string,
		decide func(s MatchupSnapshot) (*PickEntry, apperrors.Error)) (*MultiClaimantResource, apperrors.Error)

	// GetResource is a plain point lookup outside any transaction.
	GetResource(ctx context.Context, poolID, resourceID string) (*SingleOwnerResource, apperrors.Error)

	// GetMatchup is a plain point lookup outside any transaction.
	GetMatchup(ctx context.Context, poolID, matchupID string) (*MultiClaimantResource, apperrors.Error)
}
