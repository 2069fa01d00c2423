// Package poolmanager owns the pool lifecycle: creation with bulk
// resource provisioning, the open/locked/closed status transitions that
// gate claims, and the read side for dashboards. Arbitration itself lives
// in the claim package; this package only sets the stage for it.
package poolmanager

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog/log"

	"github.com/poolhouse/poolhouse/internal/common/apperrors"
	"github.com/poolhouse/poolhouse/internal/poolsrv/claim"
	"github.com/poolhouse/poolhouse/internal/poolsrv/claim/claimerror"
	"github.com/poolhouse/poolhouse/internal/poolsrv/db/models"
)

// Store is the persistence surface the manager needs. Both the
// PostgreSQL store and the in-memory store satisfy it.
type Store interface {
	CreatePool(ctx context.Context, pool *models.Pool, resources []claim.SingleOwnerResource, matchups []claim.MultiClaimantResource) apperrors.Error
	GetPool(ctx context.Context, poolID string) (*models.Pool, apperrors.Error)
	GetPoolByJoinCode(ctx context.Context, code string) (*models.Pool, apperrors.Error)
	SetPoolStatus(ctx context.Context, poolID string, status claim.PoolStatus) apperrors.Error
	ListResources(ctx context.Context, poolID string) ([]claim.SingleOwnerResource, apperrors.Error)
	ListMatchups(ctx context.Context, poolID string) ([]claim.MultiClaimantResource, apperrors.Error)
}

const gridSize = 10

var ErrInvalidPoolRequest = apperrors.New("invalid pool request").SetStatusCode(http.StatusBadRequest)

// MatchupSpec describes one matchup to provision in a pick'em pool.
type MatchupSpec struct {
	MatchupID string    `json:"matchupId" validate:"required,identifier"`
	Label     string    `json:"label" validate:"required,max=128"`
	StartsAt  time.Time `json:"startsAt" validate:"required"`
}

// CreatePoolRequest is the validated input for pool creation.
type CreatePoolRequest struct {
	Name             string        `json:"name" validate:"required,min=1,max=128"`
	Kind             string        `json:"kind" validate:"required,poolKind"`
	CommissionerID   string        `json:"commissionerId" validate:"required,identifier"`
	CommissionerName string        `json:"commissionerName" validate:"required,max=128"`
	StripCount       int           `json:"stripCount" validate:"omitempty,min=1,max=1000"`
	Matchups         []MatchupSpec `json:"matchups" validate:"omitempty,dive"`
}

type Manager struct {
	store          Store
	defaultStrips  int
	joinCodeLength int
}

func NewManager(store Store, defaultStrips, joinCodeLength int) *Manager {
	if defaultStrips <= 0 {
		defaultStrips = 100
	}
	if joinCodeLength <= 0 {
		joinCodeLength = 8
	}
	return &Manager{store: store, defaultStrips: defaultStrips, joinCodeLength: joinCodeLength}
}

// CreatePool validates the request, generates the pool identity and join
// code, and provisions the pool's full resource complement in one store
// transaction: a 10x10 grid for squares pools, numbered strips for strip
// pools, or the given matchups for pick'em pools. Pools start open.
func (m *Manager) CreatePool(ctx context.Context, req *CreatePoolRequest) (*models.Pool, apperrors.Error) {
	if err := V().Struct(req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			e := verrs[0]
			return nil, ErrInvalidPoolRequest.Msg(fmt.Sprintf("invalid value for %s", e.Field()))
		}
		return nil, ErrInvalidPoolRequest.Err(err)
	}
	kind := models.PoolKind(req.Kind)
	if kind == models.PoolKindPickem && len(req.Matchups) == 0 {
		return nil, ErrInvalidPoolRequest.Msg("pickem pool requires at least one matchup")
	}

	joinCode, nerr := gonanoid.New(m.joinCodeLength)
	if nerr != nil {
		return nil, claimerror.ErrStore.Err(nerr)
	}

	pool := &models.Pool{
		PoolID:           uuid.NewString(),
		Name:             req.Name,
		Kind:             kind,
		JoinCode:         joinCode,
		Status:           claim.PoolOpen,
		CommissionerID:   req.CommissionerID,
		CommissionerName: req.CommissionerName,
	}

	var resources []claim.SingleOwnerResource
	var matchups []claim.MultiClaimantResource
	switch kind {
	case models.PoolKindSquares:
		resources = provisionSquares(pool.PoolID)
	case models.PoolKindStrips:
		count := req.StripCount
		if count == 0 {
			count = m.defaultStrips
		}
		resources = provisionStrips(pool.PoolID, count)
	case models.PoolKindPickem:
		matchups = provisionMatchups(pool.PoolID, req.Matchups)
	}

	if err := m.store.CreatePool(ctx, pool, resources, matchups); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("pool_id", pool.PoolID).Msg("failed to create pool")
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("pool_id", pool.PoolID).
		Str("kind", string(kind)).
		Int("resources", len(resources)).
		Int("matchups", len(matchups)).
		Msg("pool created")
	return pool, nil
}

// SetStatus moves a pool through its lifecycle. Reopening a closed pool
// is allowed; it is the commissioner's call.
func (m *Manager) SetStatus(ctx context.Context, poolID string, status claim.PoolStatus) apperrors.Error {
	switch status {
	case claim.PoolOpen, claim.PoolLocked, claim.PoolClosed:
	default:
		return ErrInvalidPoolRequest.Msg("unknown pool status")
	}
	return m.store.SetPoolStatus(ctx, poolID, status)
}

// GetPool retrieves a pool by ID.
func (m *Manager) GetPool(ctx context.Context, poolID string) (*models.Pool, apperrors.Error) {
	return m.store.GetPool(ctx, poolID)
}

// GetPoolByJoinCode resolves a member join code to its pool.
func (m *Manager) GetPoolByJoinCode(ctx context.Context, code string) (*models.Pool, apperrors.Error) {
	return m.store.GetPoolByJoinCode(ctx, code)
}

// ListResources returns the pool's single-owner resources.
func (m *Manager) ListResources(ctx context.Context, poolID string) ([]claim.SingleOwnerResource, apperrors.Error) {
	return m.store.ListResources(ctx, poolID)
}

// ListMatchups returns the pool's matchups.
func (m *Manager) ListMatchups(ctx context.Context, poolID string) ([]claim.MultiClaimantResource, apperrors.Error) {
	return m.store.ListMatchups(ctx, poolID)
}

func provisionSquares(poolID string) []claim.SingleOwnerResource {
	out := make([]claim.SingleOwnerResource, 0, gridSize*gridSize)
	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			out = append(out, claim.SingleOwnerResource{
				PoolID:     poolID,
				ResourceID: fmt.Sprintf("square-%d-%d", row, col),
				Kind:       claim.KindSquare,
				Label:      fmt.Sprintf("Row %d / Col %d", row, col),
			})
		}
	}
	return out
}

func provisionStrips(poolID string, count int) []claim.SingleOwnerResource {
	out := make([]claim.SingleOwnerResource, 0, count)
	for n := 1; n <= count; n++ {
		out = append(out, claim.SingleOwnerResource{
			PoolID:     poolID,
			ResourceID: fmt.Sprintf("strip-%d", n),
			Kind:       claim.KindStrip,
			Label:      fmt.Sprintf("Strip #%d", n),
		})
	}
	return out
}

func provisionMatchups(poolID string, specs []MatchupSpec) []claim.MultiClaimantResource {
	out := make([]claim.MultiClaimantResource, 0, len(specs))
	for _, s := range specs {
		out = append(out, claim.MultiClaimantResource{
			PoolID:    poolID,
			MatchupID: s.MatchupID,
			Label:     s.Label,
			StartsAt:  s.StartsAt,
			Picks:     map[string]claim.Pick{},
		})
	}
	return out
}
