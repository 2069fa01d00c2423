// Package claimerror defines the error taxonomy for claim arbitration.
//
// The errors split into two classes. Business rejections (ErrAlreadyClaimed,
// ErrPoolNotOpen, ErrMatchupLocked, ErrNotFound, ErrValidation) are final:
// retrying them cannot change the outcome and the retry runner must surface
// them on first occurrence. ErrStoreUnavailable is the transient class:
// connectivity and availability failures of the backing store that the retry
// runner is allowed to re-attempt.
package claimerror

import (
	"net/http"

	"github.com/poolhouse/poolhouse/internal/common/apperrors"
)

var (
	ErrClaim apperrors.Error = apperrors.New("claim error").SetStatusCode(http.StatusInternalServerError)

	ErrNotFound         apperrors.Error = ErrClaim.New("not found").SetStatusCode(http.StatusNotFound)
	ErrPoolNotFound     apperrors.Error = ErrNotFound.New("pool not found")
	ErrResourceNotFound apperrors.Error = ErrNotFound.New("resource not found")
	ErrMatchupNotFound  apperrors.Error = ErrNotFound.New("matchup not found")

	ErrAlreadyClaimed apperrors.Error = ErrClaim.New("already claimed").SetStatusCode(http.StatusConflict)
	ErrPoolNotOpen    apperrors.Error = ErrClaim.New("pool is not open").SetStatusCode(http.StatusConflict)
	ErrMatchupLocked  apperrors.Error = ErrClaim.New("matchup is locked").SetStatusCode(http.StatusLocked)

	ErrValidation apperrors.Error = ErrClaim.New("invalid input").SetStatusCode(http.StatusBadRequest)

	ErrStore            apperrors.Error = ErrClaim.New("store error").SetStatusCode(http.StatusInternalServerError)
	ErrStoreUnavailable apperrors.Error = ErrStore.New("store unavailable").SetStatusCode(http.StatusServiceUnavailable)
)

// AlreadyClaimedBy annotates ErrAlreadyClaimed with the identity that holds
// the resource, so callers can tell the user who beat them to it.
func AlreadyClaimedBy(ownerName string) apperrors.Error {
	if ownerName == "" {
		return ErrAlreadyClaimed
	}
	return ErrAlreadyClaimed.Msg("already claimed by " + ownerName)
}
