package state

import (
	"context"
	"sync"
	"testing"

	"github.com/LeJamon/nftmarketd/internal/core/amount"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/nftmarketd/internal/core/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMarshal(t *testing.T, e entry.Entry) []byte {
	t.Helper()
	data, err := entry.Marshal(e)
	require.NoError(t, err)
	return data
}

func TestStoreReadAbsent(t *testing.T) {
	s := NewMemoryStore()

	data, err := s.Read(keylet.State())
	require.NoError(t, err)
	assert.Nil(t, data)

	exists, err := s.Exists(keylet.State())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStoreCommit(t *testing.T) {
	s := NewMemoryStore()

	listing := &entry.Listing{Seller: "alice", Collection: "c", TokenID: "1", Price: 100, RoyaltyPct: 5}
	k := keylet.Listing("c", "1")
	require.NoError(t, s.Commit([]market.Change{
		{Key: k, Action: market.ActionInsert, Data: mustMarshal(t, listing)},
	}))

	got, err := market.LoadEntry[entry.Listing](s, k)
	require.NoError(t, err)
	assert.Equal(t, listing, got)

	require.NoError(t, s.Commit([]market.Change{{Key: k, Action: market.ActionErase}}))
	exists, err := s.Exists(k)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStoreCacheServesRepeatedReads(t *testing.T) {
	s := NewMemoryStore()
	k := keylet.Config()
	require.NoError(t, s.Insert(k, mustMarshal(t, &entry.Config{Denom: "unft"})))

	for i := 0; i < 3; i++ {
		_, err := s.Read(k)
		require.NoError(t, err)
	}
	hits, misses := s.Stats()
	assert.Equal(t, uint64(3), hits)
	assert.Equal(t, uint64(0), misses)
}

func TestStoreConcurrentReads(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Insert(keylet.Config(), mustMarshal(t, &entry.Config{Denom: "unft"})))
	require.NoError(t, s.Insert(keylet.State(), mustMarshal(t, &entry.MarketState{Owner: "owner", FeeRecipient: "fees"})))

	const readers, reads = 8, 200
	var wg sync.WaitGroup
	errs := make(chan error, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < reads; j++ {
				if _, err := s.Read(keylet.Config()); err != nil {
					errs <- err
					return
				}
				if _, err := s.Read(keylet.State()); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	hits, misses := s.Stats()
	assert.Equal(t, uint64(readers*reads*2), hits+misses)
}

func TestStoreScan(t *testing.T) {
	s := NewMemoryStore()
	for _, id := range []string{"1", "2", "3"} {
		l := &entry.Listing{Seller: "alice", Collection: "c", TokenID: id, Price: amount.Amount(10)}
		require.NoError(t, s.Insert(keylet.Listing("c", id), mustMarshal(t, l)))
	}
	require.NoError(t, s.Insert(keylet.Deposit("c", "alice", "1"),
		mustMarshal(t, &entry.Deposit{Owner: "alice", Collection: "c", TokenID: "1"})))

	listings, err := s.Listings(context.Background())
	require.NoError(t, err)
	assert.Len(t, listings, 3)

	deposits, err := s.Deposits(context.Background())
	require.NoError(t, err)
	require.Len(t, deposits, 1)
	assert.Equal(t, "alice", deposits[0].Owner)

	auctions, err := s.Auctions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, auctions)
}

func TestOpenBackends(t *testing.T) {
	for _, backend := range []string{BackendMemory, BackendPebble, BackendLevelDB} {
		t.Run(backend, func(t *testing.T) {
			s, err := Open(OpenConfig{Backend: backend, Path: t.TempDir(), CompressThreshold: 32})
			require.NoError(t, err)
			defer s.Close()

			k := keylet.Admins()
			set := &entry.AdminSet{Owner: "owner", Admins: []string{"a", "b"}}
			require.NoError(t, s.Insert(k, mustMarshal(t, set)))

			got, err := market.LoadEntry[entry.AdminSet](s, k)
			require.NoError(t, err)
			assert.Equal(t, set, got)
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(OpenConfig{Backend: "bolt"})
	require.Error(t, err)
}
