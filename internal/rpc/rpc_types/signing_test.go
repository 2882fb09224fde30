package rpc_types

import (
	"testing"
	"time"

	"github.com/LeJamon/nftmarketd/internal/core/amount"
	"github.com/LeJamon/nftmarketd/internal/core/market"
	"github.com/LeJamon/nftmarketd/internal/core/market/listing"
	"github.com/LeJamon/nftmarketd/internal/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeys(t *testing.T, seed string) *crypto.KeyPair {
	t.Helper()
	keys, err := crypto.KeyPairFromSeed([]byte(seed))
	require.NoError(t, err)
	return keys
}

func TestSigningMessage_IsCanonical(t *testing.T) {
	cmd := listing.NewListForSale("C", "1", amount.New(100)).WithRoyalty(5)
	funds := market.Coin{Denom: "unft", Amount: amount.New(3)}

	a, err := SigningMessage(cmd, funds, "n")
	require.NoError(t, err)
	b, err := SigningMessage(cmd, funds, "n")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, string(a), "\nunft:3\nn")

	c, err := SigningMessage(cmd, funds, "m")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSignedEnvelope_Verify(t *testing.T) {
	keys := testKeys(t, "alice")
	cmd := listing.NewCancelListing("C", "1")

	env, err := Sign(keys, cmd, market.Coin{}, "n-1")
	require.NoError(t, err)
	assert.False(t, env.IsZero())

	signer, err := env.Verify(cmd, market.Coin{})
	require.NoError(t, err)
	assert.Equal(t, keys.Address(), signer)

	_, err = env.Verify(listing.NewCancelListing("C", "2"), market.Coin{})
	assert.Error(t, err)

	_, err = env.Verify(cmd, market.Coin{Denom: "unft", Amount: amount.New(1)})
	assert.Error(t, err)

	env.Signature = "zz"
	_, err = env.Verify(cmd, market.Coin{})
	assert.ErrorIs(t, err, crypto.ErrInvalidSignature)

	_, err = SignedEnvelope{Nonce: "n"}.Verify(cmd, market.Coin{})
	assert.ErrorIs(t, err, ErrMissingSignature)
}

func TestReplayGuard(t *testing.T) {
	g := NewReplayGuard(time.Minute)

	require.NoError(t, g.Use("alice", "1"))
	assert.ErrorIs(t, g.Use("alice", "1"), ErrNonceReplayed)
	assert.NoError(t, g.Use("bob", "1"))
	assert.NoError(t, g.Use("alice", "2"))
	assert.Equal(t, 3, g.Len())
}

func TestReplayGuard_Expires(t *testing.T) {
	g := NewReplayGuard(20 * time.Millisecond)
	require.NoError(t, g.Use("alice", "1"))
	time.Sleep(40 * time.Millisecond)
	assert.NoError(t, g.Use("alice", "1"))
}

func TestMethodRegistry_ListSorted(t *testing.T) {
	r := NewMethodRegistry()
	r.Register("b", nil)
	r.Register("a", nil)
	assert.Equal(t, []string{"a", "b"}, r.List())
}
