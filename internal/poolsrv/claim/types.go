// Package claim implements the arbitration protocol that awards scarce,
// uniquely-owned pool resources (strips, grid squares) and per-claimant
// matchup picks to concurrently racing users. All mutual exclusion is
// delegated to the Store's single-record atomic read-modify-write; the
// arbiters only decide inside that boundary.
package claim

import (
	"regexp"
	"time"
)

// PoolStatus gates claims. Only an open pool admits new claims and picks;
// the status is re-checked inside the store transaction, never trusted
// from an earlier read.
type PoolStatus string

const (
	PoolOpen   PoolStatus = "open"
	PoolLocked PoolStatus = "locked"
	PoolClosed PoolStatus = "closed"
)

// Kind discriminates the closed set of resource variants.
type Kind string

const (
	KindStrip   Kind = "strip"
	KindSquare  Kind = "square"
	KindMatchup Kind = "matchup"
)

// Claimant identifies a user attempting a claim. Both fields are opaque
// strings supplied by the identity collaborator. DisplayName is captured
// on the resource at claim time and not re-synced afterwards.
type Claimant struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// SingleOwnerResource is a strip or grid square: a resource with exactly
// one ownership slot. OwnerID empty means unclaimed. ClaimedAt is set by
// the store at commit time and is present iff OwnerID is present.
type SingleOwnerResource struct {
	PoolID     string     `json:"poolId"`
	ResourceID string     `json:"resourceId"`
	Kind       Kind       `json:"kind"`
	Label      string     `json:"label"`
	OwnerID    string     `json:"ownerId,omitempty"`
	OwnerName  string     `json:"ownerName,omitempty"`
	ClaimedAt  *time.Time `json:"claimedAt,omitempty"`
}

// Claimed reports whether the resource has an owner.
func (r *SingleOwnerResource) Claimed() bool {
	return r.OwnerID != ""
}

// Pick is one claimant's recorded choice on a matchup.
type Pick struct {
	Choice      string    `json:"choice"`
	DisplayName string    `json:"displayName"`
	PickedAt    time.Time `json:"pickedAt"`
}

// MultiClaimantResource is a matchup: many claimants hold independent
// entries in Picks rather than racing for a single slot. The map is keyed
// by claimant ID; a later write from the same claimant replaces their
// earlier entry and must never touch anyone else's.
type MultiClaimantResource struct {
	PoolID    string          `json:"poolId"`
	MatchupID string          `json:"matchupId"`
	Label     string          `json:"label"`
	StartsAt  time.Time       `json:"startsAt"`
	Picks     map[string]Pick `json:"picks"`
}

// PickFor returns the calling claimant's current pick, if any.
func (m *MultiClaimantResource) PickFor(claimantID string) (Pick, bool) {
	p, ok := m.Picks[claimantID]
	return p, ok
}

var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

const idMaxLength = 64

// validID accepts the identifier convention shared by pool, resource and
// matchup IDs: alphanumeric with hyphens and underscores, at most 64 chars.
func validID(id string) bool {
	return len(id) <= idMaxLength && idPattern.MatchString(id)
}
