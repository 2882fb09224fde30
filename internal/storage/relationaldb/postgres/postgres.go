// Package postgres registers the PostgreSQL journal driver.
package postgres

import (
	"strconv"

	"github.com/LeJamon/nftmarketd/internal/storage/relationaldb"
	_ "github.com/lib/pq" // PostgreSQL driver
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS results (
		seq          BIGSERIAL PRIMARY KEY,
		id           TEXT NOT NULL UNIQUE,
		command      TEXT NOT NULL,
		caller       TEXT NOT NULL,
		result       TEXT NOT NULL,
		code         INTEGER NOT NULL,
		status       TEXT NOT NULL,
		message      TEXT,
		payload      JSONB,
		attributes   JSONB,
		instructions JSONB,
		created_at   BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS results_caller ON results (caller)`,
	`CREATE INDEX IF NOT EXISTS results_command ON results (command)`,
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func init() {
	relationaldb.RegisterDriver(relationaldb.DriverPostgres, relationaldb.DriverInfo{
		SQLDriver: "postgres",
		Dialect:   relationaldb.Dialect{Placeholder: placeholder, Schema: schema},
	})
}
