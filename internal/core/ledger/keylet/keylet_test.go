package keylet

import (
	"testing"

	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
	"github.com/stretchr/testify/assert"
)

func TestKeyletsAreDistinctPerSpace(t *testing.T) {
	keys := []Keylet{
		State(),
		Config(),
		Admins(),
		Listing("C", "1"),
		Auction("C", "1"),
		TokenStatus("C", "1"),
		Deposit("C", "owner", "1"),
	}

	seen := make(map[[32]byte]entry.Type)
	for _, k := range keys {
		if prev, ok := seen[k.Key]; ok {
			t.Fatalf("%s collides with %s", k.Type, prev)
		}
		seen[k.Key] = k.Type
	}
}

func TestKeyletIsDeterministic(t *testing.T) {
	assert.Equal(t, Listing("C", "1"), Listing("C", "1"))
	assert.NotEqual(t, Listing("C", "1").Key, Listing("C", "2").Key)
	assert.Equal(t, entry.TypeDeposit, Deposit("C", "o", "1").Type)
}

func TestKeyletPartsAreLengthPrefixed(t *testing.T) {
	assert.NotEqual(t, Listing("ab", "c").Key, Listing("a", "bc").Key)
	assert.NotEqual(t, Deposit("C", "o1", "").Key, Deposit("C", "o", "1").Key)
}
