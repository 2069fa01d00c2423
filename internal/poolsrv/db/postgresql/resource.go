package postgresql

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/poolhouse/poolhouse/internal/common/apperrors"
	"github.com/poolhouse/poolhouse/internal/poolsrv/claim"
	"github.com/poolhouse/poolhouse/internal/poolsrv/claim/claimerror"
	"github.com/poolhouse/poolhouse/internal/poolsrv/db/models"
)

// UpdateResource implements claim.Store. The pool status and the target
// row are read under lock inside one transaction; the ownership write and
// the server-assigned claimed_at commit atomically with those reads.
func (s *Store) UpdateResource(ctx context.Context, poolID, resourceID string,
	decide func(snap claim.Snapshot) (*claim.Grant, apperrors.Error)) (res *claim.SingleOwnerResource, err apperrors.Error) {
	tx, cleanup, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	snap := claim.Snapshot{}

	var status string
	errdb := tx.QueryRowContext(ctx, `
		SELECT status FROM pools WHERE pool_id = $1 FOR SHARE;
	`, poolID).Scan(&status)
	if errdb != nil && errdb != sql.ErrNoRows {
		return nil, classify(ctx, errdb)
	}
	snap.PoolStatus = claim.PoolStatus(status)

	var row models.Resource
	errdb = tx.QueryRowContext(ctx, `
		SELECT pool_id, resource_id, kind, label, owner_id, owner_name, claimed_at
		FROM resources
		WHERE pool_id = $1 AND resource_id = $2
		FOR UPDATE;
	`, poolID, resourceID).Scan(&row.PoolID, &row.ResourceID, &row.Kind, &row.Label, &row.OwnerID, &row.OwnerName, &row.ClaimedAt)
	if errdb != nil && errdb != sql.ErrNoRows {
		return nil, classify(ctx, errdb)
	}
	if errdb == nil {
		snap.Resource = resourceFromRow(&row)
	}

	grant, err := decide(snap)
	if err != nil {
		return snap.Resource, err
	}
	if grant == nil || snap.Resource == nil {
		return snap.Resource, nil
	}

	var claimedAt time.Time
	errdb = tx.QueryRowContext(ctx, `
		UPDATE resources
		SET owner_id = $1, owner_name = $2, claimed_at = now()
		WHERE pool_id = $3 AND resource_id = $4
		RETURNING claimed_at;
	`, grant.OwnerID, grant.OwnerName, poolID, resourceID).Scan(&claimedAt)
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Str("resource_id", resourceID).Msg("failed to write claim")
		return nil, classify(ctx, errdb)
	}

	if errdb = tx.Commit(); errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to commit claim transaction")
		return nil, classify(ctx, errdb)
	}

	out := *snap.Resource
	out.OwnerID = grant.OwnerID
	out.OwnerName = grant.OwnerName
	out.ClaimedAt = &claimedAt
	return &out, nil
}

// GetResource implements claim.Store.
func (s *Store) GetResource(ctx context.Context, poolID, resourceID string) (*claim.SingleOwnerResource, apperrors.Error) {
	conn, errdb := s.pool.Conn(ctx)
	if errdb != nil {
		return nil, classify(ctx, errdb)
	}
	defer conn.Close()

	var row models.Resource
	errdb = conn.Conn().QueryRowContext(ctx, `
		SELECT pool_id, resource_id, kind, label, owner_id, owner_name, claimed_at
		FROM resources
		WHERE pool_id = $1 AND resource_id = $2;
	`, poolID, resourceID).Scan(&row.PoolID, &row.ResourceID, &row.Kind, &row.Label, &row.OwnerID, &row.OwnerName, &row.ClaimedAt)
	if errdb != nil {
		if errdb == sql.ErrNoRows {
			return nil, claimerror.ErrResourceNotFound
		}
		return nil, classify(ctx, errdb)
	}
	return resourceFromRow(&row), nil
}

// ListResources returns all single-owner resources in the pool.
func (s *Store) ListResources(ctx context.Context, poolID string) ([]claim.SingleOwnerResource, apperrors.Error) {
	conn, errdb := s.pool.Conn(ctx)
	if errdb != nil {
		return nil, classify(ctx, errdb)
	}
	defer conn.Close()

	rows, errdb := conn.Conn().QueryContext(ctx, `
		SELECT pool_id, resource_id, kind, label, owner_id, owner_name, claimed_at
		FROM resources
		WHERE pool_id = $1
		ORDER BY resource_id;
	`, poolID)
	if errdb != nil {
		return nil, classify(ctx, errdb)
	}
	defer rows.Close()

	var out []claim.SingleOwnerResource
	for rows.Next() {
		var row models.Resource
		if errdb := rows.Scan(&row.PoolID, &row.ResourceID, &row.Kind, &row.Label, &row.OwnerID, &row.OwnerName, &row.ClaimedAt); errdb != nil {
			return nil, classify(ctx, errdb)
		}
		out = append(out, *resourceFromRow(&row))
	}
	if errdb := rows.Err(); errdb != nil {
		return nil, classify(ctx, errdb)
	}
	return out, nil
}

func resourceFromRow(row *models.Resource) *claim.SingleOwnerResource {
	r := &claim.SingleOwnerResource{
		PoolID:     row.PoolID,
		ResourceID: row.ResourceID,
		Kind:       claim.Kind(row.Kind),
		Label:      row.Label,
	}
	if row.OwnerID.Valid {
		r.OwnerID = row.OwnerID.String
	}
	if row.OwnerName.Valid {
		r.OwnerName = row.OwnerName.String
	}
	if row.ClaimedAt.Valid {
		t := row.ClaimedAt.Time
		r.ClaimedAt = &t
	}
	return r
}
