package testing

import (
	"testing"
	"time"

	"github.com/LeJamon/nftmarketd/internal/core/market"
	"github.com/LeJamon/nftmarketd/internal/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	// Same name should produce same account
	alice1 := NewAccount("alice")
	alice2 := NewAccount("alice")
	assert.Equal(t, alice1.Address, alice2.Address)
	assert.Equal(t, alice1.Keys.PublicKeyHex(), alice2.Keys.PublicKeyHex())

	// Different name should produce different account
	bob := NewAccount("bob")
	assert.NotEqual(t, alice1.Address, bob.Address)

	assert.True(t, crypto.IsValidAddress(alice1.Address))
	assert.Equal(t, alice1.Address, alice1.Human())
	assert.Contains(t, alice1.String(), "alice")
}

func TestManualClock(t *testing.T) {
	clock := NewManualClock()
	start := clock.Now()
	assert.Equal(t, GenesisTime, start)
	assert.Equal(t, uint64(start.Unix()), clock.Unix())

	clock.Advance(90 * time.Second)
	assert.Equal(t, uint64(start.Unix())+90, clock.Unix())

	at := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	clock.Set(at)
	assert.Equal(t, at, clock.Now())

	clock.SetUnix(uint64(start.Unix()))
	assert.Equal(t, start, clock.Now())
}

func TestNewTestEnvGenesis(t *testing.T) {
	env := NewTestEnv(t)

	st := env.MarketState()
	assert.Equal(t, env.Owner.Address, st.Owner)
	assert.Equal(t, env.FeeRecipient.Address, st.FeeRecipient)
	RequireCounts(t, env, 0, 0)

	cfg := env.Config()
	assert.Equal(t, DefaultDenom, cfg.Denom)
	assert.Equal(t, DefaultRoyaltyPct, cfg.DefaultRoyaltyPct)

	assert.Same(t, env.Account("alice"), env.Account("alice"))
	RequireInvariants(t, env)
}

func TestEnvFundAndMint(t *testing.T) {
	env := NewTestEnv(t)
	alice := env.Account("alice")

	env.Fund(250, alice)
	RequireBalance(t, env, alice, 250)

	env.Mint("C", "1", alice)
	RequireTokenOwner(t, env, "C", "1", alice)
}

func TestEnvFailedCommandDispatchesNothing(t *testing.T) {
	env := NewTestEnv(t)
	bob := env.Account("bob")
	env.Fund(100, bob)

	res := env.Buy(bob, "C", "404").Funds(100).Submit()
	RequireResult(t, res, market.MktNOT_FOUND_LISTING)
	require.Empty(t, res.Dispatched)
	RequireBalance(t, env, bob, 100)
}

func TestEnvBacked(t *testing.T) {
	env := NewTestEnvBacked(t)
	alice := env.Account("alice")
	env.Mint("C", "7", alice)

	RequireSuccess(t, env.List(alice, "C", "7").Price(40).Submit())
	l := RequireListing(t, env, "C", "7")
	assert.Equal(t, alice.Address, l.Seller)
	RequireInvariants(t, env)
}
