// Package postgresql implements the claim store and the pool-management
// store on PostgreSQL. Claims run as row-locked transactions: the decide
// callback sees a snapshot read under FOR UPDATE, so the check and the
// ownership write are one atomic unit at the database.
package postgresql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/poolhouse/poolhouse/internal/common/apperrors"
	"github.com/poolhouse/poolhouse/internal/poolsrv/claim/claimerror"
	"github.com/poolhouse/poolhouse/internal/poolsrv/db/dbmanager"
)

type Store struct {
	pool *dbmanager.Pool
}

func NewStore(pool *dbmanager.Pool) *Store {
	return &Store{pool: pool}
}

// begin checks out a connection and opens a transaction on it. The
// returned cleanup closes both; it rolls the transaction back unless
// Commit was called first.
func (s *Store) begin(ctx context.Context) (*sql.Tx, func(), apperrors.Error) {
	conn, err := s.pool.Conn(ctx)
	if err != nil {
		return nil, nil, classify(ctx, err)
	}
	tx, err := conn.Conn().BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to start transaction")
		conn.Close()
		return nil, nil, classify(ctx, err)
	}
	cleanup := func() {
		tx.Rollback()
		conn.Close()
	}
	return tx, cleanup, nil
}

// classify maps driver errors into the claim taxonomy. Connectivity and
// contention-class failures become ErrStoreUnavailable so the retry
// runner may re-attempt them; everything else is a hard store error.
func classify(ctx context.Context, err error) apperrors.Error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", // serialization_failure
			"40P01", // deadlock_detected
			"55P03", // lock_not_available
			"57P01", // admin_shutdown
			"53300": // too_many_connections
			return claimerror.ErrStoreUnavailable.Err(err)
		}
		log.Ctx(ctx).Error().Err(err).Str("pg_code", pgErr.Code).Msg("database error")
		return claimerror.ErrStore.Err(err)
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return claimerror.ErrStoreUnavailable.Err(err)
	}
	log.Ctx(ctx).Error().Err(err).Msg("database error")
	return claimerror.ErrStore.Err(err)
}
