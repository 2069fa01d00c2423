package models

import (
	"time"

	"github.com/jackc/pgtype"

	"github.com/poolhouse/poolhouse/internal/poolsrv/claim"
)

/*
   Column            | Type                    | Nullable | Default
--------------------+-------------------------+----------+---------
 pool_id            | character varying(64)   | not null |
 name               | character varying(128)  | not null |
 kind               | character varying(16)   | not null |
 join_code          | character varying(16)   | not null |
 status             | character varying(16)   | not null | 'open'
 commissioner_id    | character varying(64)   | not null |
 commissioner_name  | character varying(128)  | not null |
 settings           | jsonb                   |          |
 created_at         | timestamptz             | not null | now()
 updated_at         | timestamptz             | not null | now()
*/

// PoolKind is the pool format, which determines what gets provisioned at
// creation: a 10x10 square grid, N numbered strips, or per-event matchups.
type PoolKind string

const (
	PoolKindSquares PoolKind = "squares"
	PoolKindStrips  PoolKind = "strips"
	PoolKindPickem  PoolKind = "pickem"
)

// Pool model definition
type Pool struct {
	PoolID           string           `db:"pool_id" json:"poolId"`
	Name             string           `db:"name" json:"name"`
	Kind             PoolKind         `db:"kind" json:"kind"`
	JoinCode         string           `db:"join_code" json:"joinCode"`
	Status           claim.PoolStatus `db:"status" json:"status"`
	CommissionerID   string           `db:"commissioner_id" json:"commissionerId"`
	CommissionerName string           `db:"commissioner_name" json:"commissionerName"`
	Settings         pgtype.JSONB     `db:"settings" json:"-"`
	CreatedAt        time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updatedAt"`
}
