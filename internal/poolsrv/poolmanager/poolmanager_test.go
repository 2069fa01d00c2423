package poolmanager_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolhouse/poolhouse/internal/poolsrv/claim"
	"github.com/poolhouse/poolhouse/internal/poolsrv/claim/claimerror"
	"github.com/poolhouse/poolhouse/internal/poolsrv/db/memstore"
	"github.com/poolhouse/poolhouse/internal/poolsrv/db/models"
	"github.com/poolhouse/poolhouse/internal/poolsrv/poolmanager"
)

func newManager() (*poolmanager.Manager, *memstore.Store) {
	store := memstore.New()
	return poolmanager.NewManager(store, 100, 8), store
}

func TestCreateSquaresPool(t *testing.T) {
	mgr, _ := newManager()
	ctx := context.Background()

	pool, err := mgr.CreatePool(ctx, &poolmanager.CreatePoolRequest{
		Name:             "Big Game Squares",
		Kind:             "squares",
		CommissionerID:   "u-1",
		CommissionerName: "Pat",
	})
	require.NoError(t, err)
	require.NotNil(t, pool)

	assert.NotEmpty(t, pool.PoolID)
	assert.Len(t, pool.JoinCode, 8)
	assert.Equal(t, claim.PoolOpen, pool.Status)
	assert.Equal(t, models.PoolKindSquares, pool.Kind)

	resources, lerr := mgr.ListResources(ctx, pool.PoolID)
	require.NoError(t, lerr)
	assert.Len(t, resources, 100)
	for _, r := range resources {
		assert.Equal(t, claim.KindSquare, r.Kind)
		assert.False(t, r.Claimed())
	}
}

func TestCreateStripsPool(t *testing.T) {
	mgr, _ := newManager()
	ctx := context.Background()

	pool, err := mgr.CreatePool(ctx, &poolmanager.CreatePoolRequest{
		Name:             "Week 1 Strips",
		Kind:             "strips",
		CommissionerID:   "u-1",
		CommissionerName: "Pat",
		StripCount:       25,
	})
	require.NoError(t, err)

	resources, lerr := mgr.ListResources(ctx, pool.PoolID)
	require.NoError(t, lerr)
	assert.Len(t, resources, 25)

	ids := make(map[string]bool, len(resources))
	for _, r := range resources {
		assert.Equal(t, claim.KindStrip, r.Kind)
		ids[r.ResourceID] = true
	}
	assert.True(t, ids["strip-1"])
	assert.True(t, ids["strip-25"])
}

func TestCreateStripsPoolDefaultCount(t *testing.T) {
	mgr, _ := newManager()
	ctx := context.Background()

	pool, err := mgr.CreatePool(ctx, &poolmanager.CreatePoolRequest{
		Name:             "Default Strips",
		Kind:             "strips",
		CommissionerID:   "u-1",
		CommissionerName: "Pat",
	})
	require.NoError(t, err)

	resources, lerr := mgr.ListResources(ctx, pool.PoolID)
	require.NoError(t, lerr)
	assert.Len(t, resources, 100)
}

func TestCreatePickemPool(t *testing.T) {
	mgr, _ := newManager()
	ctx := context.Background()
	kickoff := time.Now().Add(72 * time.Hour)

	pool, err := mgr.CreatePool(ctx, &poolmanager.CreatePoolRequest{
		Name:             "Week 1 Pickem",
		Kind:             "pickem",
		CommissionerID:   "u-1",
		CommissionerName: "Pat",
		Matchups: []poolmanager.MatchupSpec{
			{MatchupID: "game-1", Label: "Home vs Away", StartsAt: kickoff},
			{MatchupID: "game-2", Label: "East vs West", StartsAt: kickoff},
		},
	})
	require.NoError(t, err)

	matchups, lerr := mgr.ListMatchups(ctx, pool.PoolID)
	require.NoError(t, lerr)
	require.Len(t, matchups, 2)
	for _, m := range matchups {
		assert.NotNil(t, m.Picks)
		assert.Empty(t, m.Picks)
		assert.WithinDuration(t, kickoff, m.StartsAt, time.Second)
	}
}

func TestCreatePickemPoolRequiresMatchups(t *testing.T) {
	mgr, _ := newManager()

	_, err := mgr.CreatePool(context.Background(), &poolmanager.CreatePoolRequest{
		Name:             "Empty Pickem",
		Kind:             "pickem",
		CommissionerID:   "u-1",
		CommissionerName: "Pat",
	})
	assert.ErrorIs(t, err, poolmanager.ErrInvalidPoolRequest)
}

func TestCreatePoolValidation(t *testing.T) {
	mgr, _ := newManager()
	ctx := context.Background()

	cases := []struct {
		name string
		req  poolmanager.CreatePoolRequest
	}{
		{"missing name", poolmanager.CreatePoolRequest{Kind: "squares", CommissionerID: "u-1", CommissionerName: "Pat"}},
		{"unknown kind", poolmanager.CreatePoolRequest{Name: "x", Kind: "raffle", CommissionerID: "u-1", CommissionerName: "Pat"}},
		{"bad commissioner id", poolmanager.CreatePoolRequest{Name: "x", Kind: "squares", CommissionerID: "has spaces", CommissionerName: "Pat"}},
		{"bad strip count", poolmanager.CreatePoolRequest{Name: "x", Kind: "strips", CommissionerID: "u-1", CommissionerName: "Pat", StripCount: -5}},
		{"bad matchup id", poolmanager.CreatePoolRequest{Name: "x", Kind: "pickem", CommissionerID: "u-1", CommissionerName: "Pat",
			Matchups: []poolmanager.MatchupSpec{{MatchupID: "bad id!", Label: "x", StartsAt: time.Now()}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			_, err := mgr.CreatePool(ctx, &req)
			assert.ErrorIs(t, err, poolmanager.ErrInvalidPoolRequest)
		})
	}
}

func TestSetStatus(t *testing.T) {
	mgr, _ := newManager()
	ctx := context.Background()

	pool, err := mgr.CreatePool(ctx, &poolmanager.CreatePoolRequest{
		Name:             "Status Pool",
		Kind:             "squares",
		CommissionerID:   "u-1",
		CommissionerName: "Pat",
	})
	require.NoError(t, err)

	require.NoError(t, mgr.SetStatus(ctx, pool.PoolID, claim.PoolLocked))
	got, gerr := mgr.GetPool(ctx, pool.PoolID)
	require.NoError(t, gerr)
	assert.Equal(t, claim.PoolLocked, got.Status)

	// Reopening is allowed.
	require.NoError(t, mgr.SetStatus(ctx, pool.PoolID, claim.PoolOpen))
	got, gerr = mgr.GetPool(ctx, pool.PoolID)
	require.NoError(t, gerr)
	assert.Equal(t, claim.PoolOpen, got.Status)

	err = mgr.SetStatus(ctx, pool.PoolID, "archived")
	assert.ErrorIs(t, err, poolmanager.ErrInvalidPoolRequest)

	err = mgr.SetStatus(ctx, "no-such-pool", claim.PoolClosed)
	assert.ErrorIs(t, err, claimerror.ErrPoolNotFound)
}

func TestGetPoolByJoinCode(t *testing.T) {
	mgr, _ := newManager()
	ctx := context.Background()

	pool, err := mgr.CreatePool(ctx, &poolmanager.CreatePoolRequest{
		Name:             "Join Pool",
		Kind:             "squares",
		CommissionerID:   "u-1",
		CommissionerName: "Pat",
	})
	require.NoError(t, err)

	got, gerr := mgr.GetPoolByJoinCode(ctx, pool.JoinCode)
	require.NoError(t, gerr)
	assert.Equal(t, pool.PoolID, got.PoolID)

	_, gerr = mgr.GetPoolByJoinCode(ctx, "nope1234")
	assert.ErrorIs(t, gerr, claimerror.ErrPoolNotFound)
}
