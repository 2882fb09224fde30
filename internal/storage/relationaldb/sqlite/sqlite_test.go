package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/LeJamon/nftmarketd/internal/storage/relationaldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openJournal(t *testing.T) relationaldb.Journal {
	t.Helper()
	cfg := relationaldb.SQLiteConfig(filepath.Join(t.TempDir(), "journal.db"))
	j, err := relationaldb.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalAppendGet(t *testing.T) {
	j := openJournal(t)
	ctx := context.Background()

	rec := &relationaldb.Record{
		ID:         "r-1",
		Command:    "Buy",
		Caller:     "nft1buyer",
		Result:     "mktSUCCESS",
		Status:     relationaldb.StatusApplied,
		Attributes: json.RawMessage(`[{"key":"price","value":"100"}]`),
	}
	require.NoError(t, j.Append(ctx, rec))

	got, err := j.Get(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, "Buy", got.Command)
	assert.Equal(t, relationaldb.StatusApplied, got.Status)
	assert.JSONEq(t, string(rec.Attributes), string(got.Attributes))
	assert.Nil(t, got.Instructions)
	assert.Equal(t, rec.CreatedAt.UnixMilli(), got.CreatedAt.UnixMilli())

	err = j.Append(ctx, rec)
	require.ErrorIs(t, err, relationaldb.ErrDuplicateEntry)

	_, err = j.Get(ctx, "missing")
	require.ErrorIs(t, err, relationaldb.ErrRecordNotFound)
}

func TestJournalListAndStatus(t *testing.T) {
	j := openJournal(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		caller := "alice"
		if i%2 == 1 {
			caller = "bob"
		}
		require.NoError(t, j.Append(ctx, &relationaldb.Record{
			ID:      fmt.Sprintf("r-%d", i),
			Command: "Bid",
			Caller:  caller,
			Result:  "mktSUCCESS",
			Status:  relationaldb.StatusApplied,
		}))
	}

	all, err := j.List(ctx, relationaldb.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "r-4", all[0].ID, "newest first")

	bobs, err := j.List(ctx, relationaldb.ListOptions{Caller: "bob", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, bobs, 2)

	_, err = j.List(ctx, relationaldb.ListOptions{Limit: relationaldb.MaxListLimit + 1})
	require.ErrorIs(t, err, relationaldb.ErrInvalidLimit)

	require.NoError(t, j.SetStatus(ctx, "r-2", relationaldb.StatusDispatchFailed, "bank unavailable"))
	got, err := j.Get(ctx, "r-2")
	require.NoError(t, err)
	assert.Equal(t, relationaldb.StatusDispatchFailed, got.Status)
	assert.Equal(t, "bank unavailable", got.Message)

	require.ErrorIs(t, j.SetStatus(ctx, "nope", relationaldb.StatusApplied, ""), relationaldb.ErrRecordNotFound)
	require.NoError(t, j.Ping(ctx))
}
