package database_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/LeJamon/nftmarketd/internal/storage/database"
	"github.com/LeJamon/nftmarketd/internal/storage/database/databasetest"
	"github.com/LeJamon/nftmarketd/internal/storage/database/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressedConformance(t *testing.T) {
	databasetest.Run(t, database.NewCompressed(memory.NewDB(), 4))
}

func TestCompressedShrinksLargeValues(t *testing.T) {
	ctx := context.Background()
	raw := memory.NewDB()
	db := database.NewCompressed(raw, 64)

	large := bytes.Repeat([]byte("listing"), 200)
	require.NoError(t, db.Write(ctx, []byte("large"), large))
	require.NoError(t, db.Write(ctx, []byte("small"), []byte("tiny")))

	stored, err := raw.Read(ctx, []byte("large"))
	require.NoError(t, err)
	assert.Less(t, len(stored), len(large))

	stored, err = raw.Read(ctx, []byte("small"))
	require.NoError(t, err)
	assert.Equal(t, append([]byte{0}, "tiny"...), stored)

	got, err := db.Read(ctx, []byte("large"))
	require.NoError(t, err)
	assert.Equal(t, large, got)
}

func TestCompressedRejectsCorruptValues(t *testing.T) {
	ctx := context.Background()
	raw := memory.NewDB()
	db := database.NewCompressed(raw, 0)

	require.NoError(t, raw.Write(ctx, []byte("bad"), []byte{7, 1, 2}))
	_, err := db.Read(ctx, []byte("bad"))
	require.ErrorIs(t, err, database.ErrCorruptValue)
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("b"), database.PrefixEnd([]byte("a")))
	assert.Equal(t, []byte{0x02}, database.PrefixEnd([]byte{0x01, 0xff}))
	assert.Nil(t, database.PrefixEnd([]byte{0xff, 0xff}))
}
