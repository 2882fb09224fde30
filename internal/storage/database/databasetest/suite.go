// Package databasetest holds the conformance suite every database.DB
// backend runs in its own tests.
package databasetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/LeJamon/nftmarketd/internal/storage/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises db. The database must start empty.
func Run(t *testing.T, db database.DB) {
	ctx := context.Background()

	t.Run("ReadMissing", func(t *testing.T) {
		_, err := db.Read(ctx, []byte("missing"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("WriteReadDelete", func(t *testing.T) {
		key := []byte("lifecycle")
		require.NoError(t, db.Write(ctx, key, []byte("v1")))

		got, err := db.Read(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), got)

		require.NoError(t, db.Write(ctx, key, []byte("v2")))
		got, err = db.Read(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), got)

		require.NoError(t, db.Delete(ctx, key))
		_, err = db.Read(ctx, key)
		require.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("Batch", func(t *testing.T) {
		require.NoError(t, db.Write(ctx, []byte("b/gone"), []byte("x")))

		ops := []database.BatchOperation{
			database.Put([]byte("b/1"), []byte("one")),
			database.Put([]byte("b/2"), []byte("two")),
			database.Del([]byte("b/gone")),
		}
		require.NoError(t, db.Batch(ctx, ops))

		got, err := db.Read(ctx, []byte("b/2"))
		require.NoError(t, err)
		assert.Equal(t, []byte("two"), got)
		_, err = db.Read(ctx, []byte("b/gone"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("BatchRejectsUnknownOp", func(t *testing.T) {
		ops := []database.BatchOperation{
			database.Put([]byte("u/1"), []byte("one")),
			{Type: database.BatchOpType(9), Key: []byte("u/2")},
		}
		require.Error(t, db.Batch(ctx, ops))
		_, err := db.Read(ctx, []byte("u/1"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("IteratorRange", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			require.NoError(t, db.Write(ctx, []byte(fmt.Sprintf("i/%d", i)), []byte{byte(i)}))
		}
		require.NoError(t, db.Write(ctx, []byte("j/0"), []byte("outside")))

		it, err := db.Iterator(ctx, []byte("i/"), database.PrefixEnd([]byte("i/")))
		require.NoError(t, err)
		defer it.Close()

		var keys []string
		for it.Next() {
			keys = append(keys, string(it.Key()))
			assert.Equal(t, []byte{byte(len(keys) - 1)}, it.Value())
		}
		require.NoError(t, it.Error())
		assert.Equal(t, []string{"i/0", "i/1", "i/2", "i/3", "i/4"}, keys)
	})
}
