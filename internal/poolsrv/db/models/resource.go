package models

import (
	"database/sql"
	"time"

	"github.com/jackc/pgtype"
)

/*
   Column      | Type                    | Nullable | Default
--------------+-------------------------+----------+---------
 pool_id      | character varying(64)   | not null |
 resource_id  | character varying(64)   | not null |
 kind         | character varying(16)   | not null |
 label        | character varying(128)  | not null |
 owner_id     | character varying(64)   |          |
 owner_name   | character varying(128)  |          |
 claimed_at   | timestamptz             |          |

 PRIMARY KEY (pool_id, resource_id)

 owner_id, owner_name and claimed_at are written together in one
 transaction and never individually.
*/

// Resource is a single-owner resource row (strip or square).
type Resource struct {
	PoolID     string         `db:"pool_id"`
	ResourceID string         `db:"resource_id"`
	Kind       string         `db:"kind"`
	Label      string         `db:"label"`
	OwnerID    sql.NullString `db:"owner_id"`
	OwnerName  sql.NullString `db:"owner_name"`
	ClaimedAt  sql.NullTime   `db:"claimed_at"`
}

/*
   Column      | Type                    | Nullable | Default
--------------+-------------------------+----------+---------
 pool_id      | character varying(64)   | not null |
 matchup_id   | character varying(64)   | not null |
 label        | character varying(128)  | not null |
 starts_at    | timestamptz             | not null |
 picks        | jsonb                   | not null | '{}'

 PRIMARY KEY (pool_id, matchup_id)
*/

// Matchup is a multi-claimant resource row. Picks maps claimant ID to
// their current pick entry.
type Matchup struct {
	PoolID    string       `db:"pool_id"`
	MatchupID string       `db:"matchup_id"`
	Label     string       `db:"label"`
	StartsAt  time.Time    `db:"starts_at"`
	Picks     pgtype.JSONB `db:"picks"`
}
