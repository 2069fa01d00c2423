package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/poolhouse/poolhouse/internal/common/apperrors"
	"github.com/poolhouse/poolhouse/internal/poolsrv/claim"
	"github.com/poolhouse/poolhouse/internal/poolsrv/claim/claimerror"
	"github.com/poolhouse/poolhouse/internal/poolsrv/db/models"
)

// UpdateMatchup implements claim.Store. The matchup row is read FOR
// UPDATE and the claimant's entry is merged with jsonb_set, so entries of
// other claimants on the same row are never rewritten. pickedAt comes
// from now() at the database.
func (s *Store) UpdateMatchup(ctx context.Context, poolID, matchupID string,
	decide func(snap claim.MatchupSnapshot) (*claim.PickEntry, apperrors.Error)) (m *claim.MultiClaimantResource, err apperrors.Error) {
	tx, cleanup, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	snap := claim.MatchupSnapshot{}

	var status string
	errdb := tx.QueryRowContext(ctx, `
		SELECT status FROM pools WHERE pool_id = $1 FOR SHARE;
	`, poolID).Scan(&status)
	if errdb != nil && errdb != sql.ErrNoRows {
		return nil, classify(ctx, errdb)
	}
	snap.PoolStatus = claim.PoolStatus(status)

	var row models.Matchup
	var picksRaw []byte
	errdb = tx.QueryRowContext(ctx, `
		SELECT pool_id, matchup_id, label, starts_at, picks
		FROM matchups
		WHERE pool_id = $1 AND matchup_id = $2
		FOR UPDATE;
	`, poolID, matchupID).Scan(&row.PoolID, &row.MatchupID, &row.Label, &row.StartsAt, &picksRaw)
	if errdb != nil && errdb != sql.ErrNoRows {
		return nil, classify(ctx, errdb)
	}
	if errdb == nil {
		snap.Matchup, err = matchupFromRow(ctx, &row, picksRaw)
		if err != nil {
			return nil, err
		}
	}

	entry, err := decide(snap)
	if err != nil {
		return snap.Matchup, err
	}
	if entry == nil || snap.Matchup == nil {
		return snap.Matchup, nil
	}

	var updatedRaw []byte
	errdb = tx.QueryRowContext(ctx, `
		UPDATE matchups
		SET picks = jsonb_set(
			picks,
			ARRAY[$3::text],
			jsonb_build_object('choice', $4::text, 'displayName', $5::text, 'pickedAt', now()),
			true
		)
		WHERE pool_id = $1 AND matchup_id = $2
		RETURNING picks;
	`, poolID, matchupID, entry.ClaimantID, entry.Choice, entry.DisplayName).Scan(&updatedRaw)
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Str("matchup_id", matchupID).Msg("failed to write pick")
		return nil, classify(ctx, errdb)
	}

	if errdb = tx.Commit(); errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to commit pick transaction")
		return nil, classify(ctx, errdb)
	}

	return matchupFromRow(ctx, &row, updatedRaw)
}

// GetMatchup implements claim.Store.
func (s *Store) GetMatchup(ctx context.Context, poolID, matchupID string) (*claim.MultiClaimantResource, apperrors.Error) {
	conn, errdb := s.pool.Conn(ctx)
	if errdb != nil {
		return nil, classify(ctx, errdb)
	}
	defer conn.Close()

	var row models.Matchup
	var picksRaw []byte
	errdb = conn.Conn().QueryRowContext(ctx, `
		SELECT pool_id, matchup_id, label, starts_at, picks
		FROM matchups
		WHERE pool_id = $1 AND matchup_id = $2;
	`, poolID, matchupID).Scan(&row.PoolID, &row.MatchupID, &row.Label, &row.StartsAt, &picksRaw)
	if errdb != nil {
		if errdb == sql.ErrNoRows {
			return nil, claimerror.ErrMatchupNotFound
		}
		return nil, classify(ctx, errdb)
	}
	return matchupFromRow(ctx, &row, picksRaw)
}

// ListMatchups returns all matchups in the pool.
func (s *Store) ListMatchups(ctx context.Context, poolID string) ([]claim.MultiClaimantResource, apperrors.Error) {
	conn, errdb := s.pool.Conn(ctx)
	if errdb != nil {
		return nil, classify(ctx, errdb)
	}
	defer conn.Close()

	rows, errdb := conn.Conn().QueryContext(ctx, `
		SELECT pool_id, matchup_id, label, starts_at, picks
		FROM matchups
		WHERE pool_id = $1
		ORDER BY starts_at, matchup_id;
	`, poolID)
	if errdb != nil {
		return nil, classify(ctx, errdb)
	}
	defer rows.Close()

	var out []claim.MultiClaimantResource
	for rows.Next() {
		var row models.Matchup
		var picksRaw []byte
		if errdb := rows.Scan(&row.PoolID, &row.MatchupID, &row.Label, &row.StartsAt, &picksRaw); errdb != nil {
			return nil, classify(ctx, errdb)
		}
		m, err := matchupFromRow(ctx, &row, picksRaw)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	if errdb := rows.Err(); errdb != nil {
		return nil, classify(ctx, errdb)
	}
	return out, nil
}

func matchupFromRow(ctx context.Context, row *models.Matchup, picksRaw []byte) (*claim.MultiClaimantResource, apperrors.Error) {
	m := &claim.MultiClaimantResource{
		PoolID:    row.PoolID,
		MatchupID: row.MatchupID,
		Label:     row.Label,
		StartsAt:  row.StartsAt,
		Picks:     make(map[string]claim.Pick),
	}
	if len(picksRaw) > 0 {
		if err := json.Unmarshal(picksRaw, &m.Picks); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("matchup_id", row.MatchupID).Msg("failed to decode pick map")
			return nil, claimerror.ErrStore.Err(err)
		}
	}
	return m, nil
}
