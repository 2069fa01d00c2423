package postgresql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/rs/zerolog/log"

	"github.com/poolhouse/poolhouse/internal/common/apperrors"
	"github.com/poolhouse/poolhouse/internal/poolsrv/claim"
	"github.com/poolhouse/poolhouse/internal/poolsrv/claim/claimerror"
	"github.com/poolhouse/poolhouse/internal/poolsrv/db/models"
)

// CreatePool inserts the pool and bulk-provisions its resources and
// matchups in a single transaction. A pool either comes up with its full
// complement of claimable resources or not at all.
func (s *Store) CreatePool(ctx context.Context, pool *models.Pool, resources []claim.SingleOwnerResource, matchups []claim.MultiClaimantResource) (err apperrors.Error) {
	tx, cleanup, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if pool.Settings.Status == pgtype.Undefined {
		pool.Settings.Set(nil)
	}

	errdb := tx.QueryRowContext(ctx, `
		INSERT INTO pools (pool_id, name, kind, join_code, status, commissioner_id, commissioner_name, settings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at;
	`, pool.PoolID, pool.Name, pool.Kind, pool.JoinCode, pool.Status,
		pool.CommissionerID, pool.CommissionerName, pool.Settings).Scan(&pool.CreatedAt, &pool.UpdatedAt)
	if errdb != nil {
		var pgErr *pgconn.PgError
		if errors.As(errdb, &pgErr) && pgErr.Code == "23505" {
			log.Ctx(ctx).Info().Str("pool_id", pool.PoolID).Msg("pool already exists")
			return claimerror.ErrValidation.Msg("pool already exists")
		}
		log.Ctx(ctx).Error().Err(errdb).Str("pool_id", pool.PoolID).Msg("failed to insert pool")
		return classify(ctx, errdb)
	}

	for i := range resources {
		r := &resources[i]
		_, errdb = tx.ExecContext(ctx, `
			INSERT INTO resources (pool_id, resource_id, kind, label)
			VALUES ($1, $2, $3, $4);
		`, r.PoolID, r.ResourceID, r.Kind, r.Label)
		if errdb != nil {
			log.Ctx(ctx).Error().Err(errdb).Str("resource_id", r.ResourceID).Msg("failed to provision resource")
			return classify(ctx, errdb)
		}
	}

	for i := range matchups {
		m := &matchups[i]
		_, errdb = tx.ExecContext(ctx, `
			INSERT INTO matchups (pool_id, matchup_id, label, starts_at, picks)
			VALUES ($1, $2, $3, $4, '{}'::jsonb);
		`, m.PoolID, m.MatchupID, m.Label, m.StartsAt)
		if errdb != nil {
			log.Ctx(ctx).Error().Err(errdb).Str("matchup_id", m.MatchupID).Msg("failed to provision matchup")
			return classify(ctx, errdb)
		}
	}

	if errdb = tx.Commit(); errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to commit pool provisioning")
		return classify(ctx, errdb)
	}
	return nil
}

// GetPool retrieves a pool by ID.
func (s *Store) GetPool(ctx context.Context, poolID string) (*models.Pool, apperrors.Error) {
	return s.getPool(ctx, `
		SELECT pool_id, name, kind, join_code, status, commissioner_id, commissioner_name, settings, created_at, updated_at
		FROM pools
		WHERE pool_id = $1;
	`, poolID)
}

// GetPoolByJoinCode retrieves a pool by its member join code.
func (s *Store) GetPoolByJoinCode(ctx context.Context, code string) (*models.Pool, apperrors.Error) {
	return s.getPool(ctx, `
		SELECT pool_id, name, kind, join_code, status, commissioner_id, commissioner_name, settings, created_at, updated_at
		FROM pools
		WHERE join_code = $1;
	`, code)
}

func (s *Store) getPool(ctx context.Context, query string, arg any) (*models.Pool, apperrors.Error) {
	conn, errdb := s.pool.Conn(ctx)
	if errdb != nil {
		return nil, classify(ctx, errdb)
	}
	defer conn.Close()

	pool := &models.Pool{}
	errdb = conn.Conn().QueryRowContext(ctx, query, arg).Scan(
		&pool.PoolID, &pool.Name, &pool.Kind, &pool.JoinCode, &pool.Status,
		&pool.CommissionerID, &pool.CommissionerName, &pool.Settings,
		&pool.CreatedAt, &pool.UpdatedAt)
	if errdb != nil {
		if errdb == sql.ErrNoRows {
			log.Ctx(ctx).Info().Msg("pool not found")
			return nil, claimerror.ErrPoolNotFound
		}
		return nil, classify(ctx, errdb)
	}
	return pool, nil
}

// SetPoolStatus moves the pool through its lifecycle. The status write is
// transactional with respect to in-flight claims: a claim transaction
// holding the pool row FOR SHARE finishes before the update lands.
func (s *Store) SetPoolStatus(ctx context.Context, poolID string, status claim.PoolStatus) apperrors.Error {
	conn, errdb := s.pool.Conn(ctx)
	if errdb != nil {
		return classify(ctx, errdb)
	}
	defer conn.Close()

	var returned string
	errdb = conn.Conn().QueryRowContext(ctx, `
		UPDATE pools
		SET status = $1, updated_at = now()
		WHERE pool_id = $2
		RETURNING pool_id;
	`, status, poolID).Scan(&returned)
	if errdb != nil {
		if errdb == sql.ErrNoRows {
			log.Ctx(ctx).Info().Str("pool_id", poolID).Msg("pool not found")
			return claimerror.ErrPoolNotFound
		}
		log.Ctx(ctx).Error().Err(errdb).Str("pool_id", poolID).Msg("failed to update pool status")
		return classify(ctx, errdb)
	}
	return nil
}
