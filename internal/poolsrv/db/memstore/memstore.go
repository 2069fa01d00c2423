// Package memstore is an in-memory implementation of the claim store and
// the pool-management store. It backs tests and single-node dev mode; the
// atomic read-modify-write guarantee comes from a store-wide mutex, which
// is exactly the isolation the arbiters assume from the production store.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/poolhouse/poolhouse/internal/common/apperrors"
	"github.com/poolhouse/poolhouse/internal/poolsrv/claim"
	"github.com/poolhouse/poolhouse/internal/poolsrv/claim/claimerror"
	"github.com/poolhouse/poolhouse/internal/poolsrv/db/models"
)

type Store struct {
	mu        sync.Mutex
	now       func() time.Time
	pools     map[string]*models.Pool
	resources map[string]map[string]*claim.SingleOwnerResource
	matchups  map[string]map[string]*claim.MultiClaimantResource

	// unavailable > 0 makes the next calls fail with ErrStoreUnavailable,
	// for exercising the retry path in tests.
	unavailable int
}

func New() *Store {
	return &Store{
		now:       time.Now,
		pools:     make(map[string]*models.Pool),
		resources: make(map[string]map[string]*claim.SingleOwnerResource),
		matchups:  make(map[string]map[string]*claim.MultiClaimantResource),
	}
}

// SetClock replaces the server-time source. Test hook.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// InjectUnavailable makes the next n store calls fail as transient.
func (s *Store) InjectUnavailable(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = n
}

func (s *Store) takeOutage() bool {
	if s.unavailable > 0 {
		s.unavailable--
		return true
	}
	return false
}

// CreatePool provisions the pool and its resources as one atomic unit.
func (s *Store) CreatePool(ctx context.Context, pool *models.Pool, resources []claim.SingleOwnerResource, matchups []claim.MultiClaimantResource) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.takeOutage() {
		return claimerror.ErrStoreUnavailable
	}
	if _, ok := s.pools[pool.PoolID]; ok {
		return claimerror.ErrValidation.Msg("pool already exists")
	}
	p := *pool
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	s.pools[p.PoolID] = &p
	rs := make(map[string]*claim.SingleOwnerResource, len(resources))
	for i := range resources {
		r := resources[i]
		rs[r.ResourceID] = &r
	}
	s.resources[p.PoolID] = rs
	ms := make(map[string]*claim.MultiClaimantResource, len(matchups))
	for i := range matchups {
		m := cloneMatchup(&matchups[i])
		if m.Picks == nil {
			m.Picks = make(map[string]claim.Pick)
		}
		ms[m.MatchupID] = m
	}
	s.matchups[p.PoolID] = ms
	*pool = p
	return nil
}

func (s *Store) GetPool(ctx context.Context, poolID string) (*models.Pool, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.takeOutage() {
		return nil, claimerror.ErrStoreUnavailable
	}
	p, ok := s.pools[poolID]
	if !ok {
		return nil, claimerror.ErrPoolNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) GetPoolByJoinCode(ctx context.Context, code string) (*models.Pool, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.takeOutage() {
		return nil, claimerror.ErrStoreUnavailable
	}
	for _, p := range s.pools {
		if p.JoinCode == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, claimerror.ErrPoolNotFound
}

func (s *Store) SetPoolStatus(ctx context.Context, poolID string, status claim.PoolStatus) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.takeOutage() {
		return claimerror.ErrStoreUnavailable
	}
	p, ok := s.pools[poolID]
	if !ok {
		return claimerror.ErrPoolNotFound
	}
	p.Status = status
	p.UpdatedAt = s.now()
	return nil
}

func (s *Store) ListResources(ctx context.Context, poolID string) ([]claim.SingleOwnerResource, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.takeOutage() {
		return nil, claimerror.ErrStoreUnavailable
	}
	if _, ok := s.pools[poolID]; !ok {
		return nil, claimerror.ErrPoolNotFound
	}
	out := make([]claim.SingleOwnerResource, 0, len(s.resources[poolID]))
	for _, r := range s.resources[poolID] {
		out = append(out, *r)
	}
	return out, nil
}

func (s *Store) ListMatchups(ctx context.Context, poolID string) ([]claim.MultiClaimantResource, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.takeOutage() {
		return nil, claimerror.ErrStoreUnavailable
	}
	if _, ok := s.pools[poolID]; !ok {
		return nil, claimerror.ErrPoolNotFound
	}
	out := make([]claim.MultiClaimantResource, 0, len(s.matchups[poolID]))
	for _, m := range s.matchups[poolID] {
		out = append(out, *cloneMatchup(m))
	}
	return out, nil
}

// UpdateResource implements claim.Store. The whole decide-and-write runs
// under the store mutex, giving the same atomicity as a row-locked
// transaction in the production store.
func (s *Store) UpdateResource(ctx context.Context, poolID, resourceID string,
	decide func(snap claim.Snapshot) (*claim.Grant, apperrors.Error)) (*claim.SingleOwnerResource, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.takeOutage() {
		return nil, claimerror.ErrStoreUnavailable
	}

	snap := claim.Snapshot{}
	if p, ok := s.pools[poolID]; ok {
		snap.PoolStatus = p.Status
	}
	res := s.resources[poolID][resourceID]
	if res != nil {
		cp := *res
		snap.Resource = &cp
	}

	grant, err := decide(snap)
	if err != nil {
		return snap.Resource, err
	}
	if grant == nil || res == nil {
		return snap.Resource, nil
	}

	claimedAt := s.now()
	res.OwnerID = grant.OwnerID
	res.OwnerName = grant.OwnerName
	res.ClaimedAt = &claimedAt
	cp := *res
	return &cp, nil
}

// UpdateMatchup implements claim.Store.
func (s *Store) UpdateMatchup(ctx context.Context, poolID, matchupID string,
	decide func(snap claim.MatchupSnapshot) (*claim.PickEntry, apperrors.Error)) (*claim.MultiClaimantResource, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.takeOutage() {
		return nil, claimerror.ErrStoreUnavailable
	}

	snap := claim.MatchupSnapshot{}
	if p, ok := s.pools[poolID]; ok {
		snap.PoolStatus = p.Status
	}
	m := s.matchups[poolID][matchupID]
	if m != nil {
		snap.Matchup = cloneMatchup(m)
	}

	entry, err := decide(snap)
	if err != nil {
		return snap.Matchup, err
	}
	if entry == nil || m == nil {
		return snap.Matchup, nil
	}

	m.Picks[entry.ClaimantID] = claim.Pick{
		Choice:      entry.Choice,
		DisplayName: entry.DisplayName,
		PickedAt:    s.now(),
	}
	return cloneMatchup(m), nil
}

// GetResource implements claim.Store.
func (s *Store) GetResource(ctx context.Context, poolID, resourceID string) (*claim.SingleOwnerResource, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.takeOutage() {
		return nil, claimerror.ErrStoreUnavailable
	}
	r := s.resources[poolID][resourceID]
	if r == nil {
		return nil, claimerror.ErrResourceNotFound
	}
	cp := *r
	return &cp, nil
}

// GetMatchup implements claim.Store.
func (s *Store) GetMatchup(ctx context.Context, poolID, matchupID string) (*claim.MultiClaimantResource, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.takeOutage() {
		return nil, claimerror.ErrStoreUnavailable
	}
	m := s.matchups[poolID][matchupID]
	if m == nil {
		return nil, claimerror.ErrMatchupNotFound
	}
	return cloneMatchup(m), nil
}

func cloneMatchup(m *claim.MultiClaimantResource) *claim.MultiClaimantResource {
	cp := *m
	cp.Picks = make(map[string]claim.Pick, len(m.Picks))
	for k, v := range m.Picks {
		cp.Picks[k] = v
	}
	return &cp
}
