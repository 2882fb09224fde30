package market_test

import (
	"testing"

	"github.com/LeJamon/nftmarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/state"
	"github.com/LeJamon/nftmarketd/internal/core/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyStateTable_StagesUntilApply(t *testing.T) {
	base := state.NewMemoryStore()
	k := keylet.Listing("C", "1")

	table := market.NewApplyStateTable(base)
	require.NoError(t, table.Insert(k, []byte("v1")))

	data, err := table.Read(k)
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), data)

	// base is untouched until Apply
	exists, err := base.Exists(k)
	require.NoError(t, err)
	assert.False(t, exists)

	changes, err := table.Apply()
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, market.ActionInsert, changes[0].Action)

	data, err = base.Read(k)
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), data)
}

func TestApplyStateTable_Transitions(t *testing.T) {
	base := state.NewMemoryStore()
	existing := keylet.Listing("C", "1")
	require.NoError(t, base.Insert(existing, []byte("old")))

	t.Run("insert existing", func(t *testing.T) {
		table := market.NewApplyStateTable(base)
		assert.ErrorIs(t, table.Insert(existing, []byte("x")), market.ErrEntryExists)
	})

	t.Run("update missing", func(t *testing.T) {
		table := market.NewApplyStateTable(base)
		assert.ErrorIs(t, table.Update(keylet.Listing("C", "2"), []byte("x")), market.ErrEntryNotFound)
	})

	t.Run("erase twice", func(t *testing.T) {
		table := market.NewApplyStateTable(base)
		require.NoError(t, table.Erase(existing))
		assert.ErrorIs(t, table.Erase(existing), market.ErrEntryNotFound)

		data, err := table.Read(existing)
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("insert then erase is no change", func(t *testing.T) {
		table := market.NewApplyStateTable(base)
		fresh := keylet.Listing("C", "3")
		require.NoError(t, table.Insert(fresh, []byte("x")))
		require.NoError(t, table.Erase(fresh))
		assert.Empty(t, table.Changes())
	})

	t.Run("erase then insert is modify", func(t *testing.T) {
		table := market.NewApplyStateTable(base)
		require.NoError(t, table.Erase(existing))
		require.NoError(t, table.Insert(existing, []byte("new")))
		changes := table.Changes()
		require.Len(t, changes, 1)
		assert.Equal(t, market.ActionModify, changes[0].Action)
	})

	t.Run("restoring original bytes is no change", func(t *testing.T) {
		table := market.NewApplyStateTable(base)
		require.NoError(t, table.Update(existing, []byte("tmp")))
		require.NoError(t, table.Update(existing, []byte("old")))
		assert.Empty(t, table.Changes())
	})
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "created", market.ActionInsert.String())
	assert.Equal(t, "modified", market.ActionModify.String())
	assert.Equal(t, "deleted", market.ActionErase.String())
	assert.Equal(t, "cached", market.ActionCache.String())
}
