package claim

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/poolhouse/poolhouse/internal/common/apperrors"
	"github.com/poolhouse/poolhouse/internal/poolsrv/claim/claimerror"
)

// Arbiter atomically transitions single-owner resources from unowned to
// owned by exactly one claimant. Among N concurrent claims on the same
// resource exactly one commits; the rest fail with ErrAlreadyClaimed.
// Which claimant wins is decided by commit order at the store.
type Arbiter struct {
	store Store
}

func NewArbiter(store Store) *Arbiter {
	return &Arbiter{store: store}
}

// Claim awards poolID/resourceID to the claimant iff the resource exists,
// is currently unowned, and the parent pool is open. All three checks and
// the ownership write happen inside one store transaction; there is no
// client-side pre-check to race against.
//
// On ErrAlreadyClaimed the returned resource carries the current owner so
// the caller can tell the user who holds it. A repeat claim by the current
// owner is also ErrAlreadyClaimed, not a no-op: re-arbitrating an owned
// resource would refresh ClaimedAt and reorder settlement.
func (a *Arbiter) Claim(ctx context.Context, poolID, resourceID string, by Claimant) (*SingleOwnerResource, apperrors.Error) {
	if err := validateClaimInput(poolID, resourceID, by); err != nil {
		return nil, err
	}

	res, err := a.store.UpdateResource(ctx, poolID, resourceID, func(s Snapshot) (*Grant, apperrors.Error) {
		if s.Resource == nil {
			return nil, claimerror.ErrResourceNotFound
		}
		if s.Resource.Claimed() {
			return nil, claimerror.AlreadyClaimedBy(s.Resource.OwnerName)
		}
		if s.PoolStatus != PoolOpen {
			return nil, claimerror.ErrPoolNotOpen
		}
		return &Grant{OwnerID: by.ID, OwnerName: by.DisplayName}, nil
	})
	if err != nil {
		log.Ctx(ctx).Info().
			Str("pool_id", poolID).
			Str("resource_id", resourceID).
			Str("claimant_id", by.ID).
			Err(err).
			Msg("claim rejected")
		return res, err
	}

	log.Ctx(ctx).Info().
		Str("pool_id", poolID).
		Str("resource_id", resourceID).
		Str("claimant_id", by.ID).
		Msg("claim awarded")
	return res, nil
}

// GetResource reads the current state of a resource without arbitration.
func (a *Arbiter) GetResource(ctx context.Context, poolID, resourceID string) (*SingleOwnerResource, apperrors.Error) {
	if !validID(poolID) || !validID(resourceID) {
		return nil, claimerror.ErrValidation.Msg("invalid pool or resource identifier")
	}
	return a.store.GetResource(ctx, poolID, resourceID)
}

func validateClaimInput(poolID, resourceID string, by Claimant) apperrors.Error {
	if !validID(poolID) {
		return claimerror.ErrValidation.Msg("invalid pool identifier")
	}
	if !validID(resourceID) {
		return claimerror.ErrValidation.Msg("invalid resource identifier")
	}
	if by.ID == "" {
		return claimerror.ErrValidation.Msg("missing claimant identity")
	}
	if by.DisplayName == "" {
		return claimerror.ErrValidation.Msg("missing claimant display name")
	}
	return nil
}
