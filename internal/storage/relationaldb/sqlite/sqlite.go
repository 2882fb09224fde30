// Package sqlite registers the embedded SQLite journal driver.
package sqlite

import (
	"github.com/LeJamon/nftmarketd/internal/storage/relationaldb"
	_ "modernc.org/sqlite" // SQLite driver
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS results (
		seq          INTEGER PRIMARY KEY AUTOINCREMENT,
		id           TEXT NOT NULL UNIQUE,
		command      TEXT NOT NULL,
		caller       TEXT NOT NULL,
		result       TEXT NOT NULL,
		code         INTEGER NOT NULL,
		status       TEXT NOT NULL,
		message      TEXT,
		payload      TEXT,
		attributes   TEXT,
		instructions TEXT,
		created_at   INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS results_caller ON results (caller)`,
	`CREATE INDEX IF NOT EXISTS results_command ON results (command)`,
}

func init() {
	relationaldb.RegisterDriver(relationaldb.DriverSQLite, relationaldb.DriverInfo{
		SQLDriver: "sqlite",
		Dialect:   relationaldb.Dialect{Schema: schema},
	})
}
