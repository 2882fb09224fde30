package sim

import (
	"context"
	"testing"

	"github.com/LeJamon/nftmarketd/internal/collab"
	"github.com/LeJamon/nftmarketd/internal/core/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCustodyTransfer(t *testing.T) {
	ctx := context.Background()
	c := NewCustody()
	require.NoError(t, c.Mint("C", "1", "alice"))
	require.Error(t, c.Mint("C", "1", "bob"))

	owner, err := c.OwnerOf(ctx, "C", "1")
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)

	require.ErrorIs(t, c.Transfer(ctx, "C", "1", "bob", "carol"), collab.ErrNotOwner)
	require.NoError(t, c.Transfer(ctx, "C", "1", "alice", "market"))
	assert.Equal(t, []string{"1"}, c.TokensOf("C", "market"))

	_, err = c.OwnerOf(ctx, "C", "404")
	require.ErrorIs(t, err, collab.ErrUnknownToken)
}

func TestBankMoves(t *testing.T) {
	ctx := context.Background()
	b := NewBank("market")
	require.NoError(t, b.Fund("alice", "unft", 100))

	require.ErrorIs(t, b.Collect(ctx, "alice", "unft", 101), collab.ErrInsufficientFunds)
	require.NoError(t, b.Collect(ctx, "alice", "unft", 60))
	require.NoError(t, b.Pay(ctx, "bob", "unft", 25))

	assert.Equal(t, uint64(40), b.Balance("alice", "unft").Uint64())
	assert.Equal(t, uint64(35), b.Balance("market", "unft").Uint64())
	assert.Equal(t, uint64(25), b.Balance("bob", "unft").Uint64())

	// zero payments are no-ops even without a balance
	require.NoError(t, b.Pay(ctx, "carol", "other", 0))
}

func TestDispatchAgainstSimulators(t *testing.T) {
	ctx := context.Background()
	custody := NewCustody()
	bank := NewBank("market")
	require.NoError(t, custody.Mint("C", "1", "market"))
	require.NoError(t, bank.Fund("buyer", "unft", 100))

	d := collab.NewDispatcher(custody, bank, zap.NewNop())
	env := market.Env{Caller: "buyer", Funds: market.Coin{Denom: "unft", Amount: 100}}
	ins := collab.WithAttachedFunds(env, []market.Instruction{
		market.TransferCustody("C", "1", "market", "buyer"),
		market.Pay("seller", "unft", 95),
		market.Pay("fees", "unft", 5),
	})
	require.Len(t, ins, 4)
	require.NoError(t, d.Dispatch(ctx, ins))

	owner, err := custody.OwnerOf(ctx, "C", "1")
	require.NoError(t, err)
	assert.Equal(t, "buyer", owner)
	assert.Equal(t, uint64(95), bank.Balance("seller", "unft").Uint64())
	assert.Equal(t, uint64(5), bank.Balance("fees", "unft").Uint64())
	assert.True(t, bank.Balance("market", "unft").IsZero())
}
