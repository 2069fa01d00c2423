// Package dbmanager manages the PostgreSQL connection pool used by the
// claim store. Connections are handed out with lock and statement
// timeouts set, so a stuck row lock can never wedge a claim transaction
// indefinitely.
package dbmanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v4/stdlib"

	"github.com/rs/zerolog/log"
)

// Pool wraps the database handle and tracks checkout counts.
type Pool struct {
	db           *sql.DB
	connRequests uint64
	connReturns  uint64
}

// NewPool opens and pings a PostgreSQL pool for the given DSN using the
// pgx stdlib driver.
func NewPool(dsn string) (*Pool, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Error().Err(err).Msg("failed to open db")
		return nil, err
	}

	err = sqlDB.Ping()
	if err != nil {
		log.Error().Err(err).Msg("failed to ping db")
		return nil, err
	}

	return &Pool{db: sqlDB}, nil
}

// Conn checks a connection out of the pool with lock and statement
// timeouts applied. The caller must Close it to return it.
func (p *Pool) Conn(ctx context.Context) (*Conn, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to obtain connection")
		return nil, err
	}

	if _, err := conn.ExecContext(ctx, "SET lock_timeout = '5s'"); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to set lock timeout")
		conn.Close()
		return nil, err
	}
	if _, err := conn.ExecContext(ctx, "SET statement_timeout = '5s'"); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to set statement timeout")
		conn.Close()
		return nil, err
	}

	p.connRequests++
	return &Conn{conn: conn, pool: p}, nil
}

// Stats returns the number of connection checkouts and returns.
func (p *Pool) Stats() (requests, returns uint64) {
	return p.connRequests, p.connReturns
}

// Close closes the underlying pool.
func (p *Pool) Close() error {
	return p.db.Close()
}

// Conn is a checked-out connection.
type Conn struct {
	conn *sql.Conn
	pool *Pool
}

// Conn returns the underlying connection.
func (c *Conn) Conn() *sql.Conn {
	return c.conn
}

// Close returns the connection to the pool.
func (c *Conn) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
	c.pool.connReturns++
}
