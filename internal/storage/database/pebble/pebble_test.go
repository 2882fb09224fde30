package pebble

import (
	"testing"

	"github.com/LeJamon/nftmarketd/internal/storage/database/databasetest"
	"github.com/stretchr/testify/require"
)

func TestPebbleDB(t *testing.T) {
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	databasetest.Run(t, db)
}
