package market_test

import (
	"context"
	"errors"
	"testing"

	"github.com/LeJamon/nftmarketd/internal/core/amount"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/state"
	"github.com/LeJamon/nftmarketd/internal/core/market"
	_ "github.com/LeJamon/nftmarketd/internal/core/market/all"
	"github.com/LeJamon/nftmarketd/internal/core/market/auction"
	"github.com/LeJamon/nftmarketd/internal/core/market/listing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	owner  = "owner"
	fees   = "fees"
	mkt    = "market"
	seller = "alice"
	buyer  = "bob"
)

type staticCustody map[string]string

func (c staticCustody) OwnerOf(_ context.Context, collection, tokenID string) (string, error) {
	o, ok := c[collection+"/"+tokenID]
	if !ok {
		return "", errors.New("unknown token")
	}
	return o, nil
}

func newEngine(t *testing.T, custody market.OwnerQuerier) (*market.Engine, *state.Store) {
	t.Helper()
	store := state.NewMemoryStore()
	require.NoError(t, market.Genesis(store, market.GenesisParams{
		Owner:             owner,
		FeeRecipient:      fees,
		Denom:             "unft",
		DefaultRoyaltyPct: 3,
	}))
	return market.NewEngine(store, market.EngineConfig{MarketAddress: mkt}, custody), store
}

func TestGenesis_Twice(t *testing.T) {
	_, store := newEngine(t, nil)
	err := market.Genesis(store, market.GenesisParams{Owner: owner, FeeRecipient: fees, Denom: "unft"})
	assert.Equal(t, market.MktCONFLICT_GENESIS_EXISTS, market.ResultOf(err))
	assert.ErrorIs(t, err, market.ErrStateConflict)
}

func TestEngine_RequiresGenesis(t *testing.T) {
	e := market.NewEngine(state.NewMemoryStore(), market.EngineConfig{MarketAddress: mkt}, nil)
	res := e.Apply(context.Background(), listing.NewBuy("C", "1"), market.Env{Caller: buyer})
	assert.Equal(t, market.MktNOT_FOUND_STATE, res.Result)
}

func TestEngine_ValidationBeforeState(t *testing.T) {
	e, _ := newEngine(t, nil)
	res := e.Apply(context.Background(), listing.NewListForSale("C", "1", 0), market.Env{Caller: seller})
	assert.Equal(t, market.MktVAL_ZERO_PRICE, res.Result)
	assert.False(t, res.Applied)
	assert.Error(t, res.Err())
	assert.ErrorIs(t, res.Err(), market.ErrValidation)
}

func TestEngine_RejectsBadCaller(t *testing.T) {
	store := state.NewMemoryStore()
	require.NoError(t, market.Genesis(store, market.GenesisParams{Owner: owner, FeeRecipient: fees, Denom: "unft"}))
	e := market.NewEngine(store, market.EngineConfig{
		MarketAddress:    mkt,
		AddressValidator: func(a string) bool { return a == seller },
	}, nil)

	res := e.Apply(context.Background(), listing.NewListForSale("C", "1", 5), market.Env{Caller: "mallory"})
	assert.Equal(t, market.MktVAL_BAD_ADDRESS, res.Result)

	res = e.Apply(context.Background(), listing.NewListForSale("C", "1", 5), market.Env{})
	assert.Equal(t, market.MktVAL_BAD_ADDRESS, res.Result)
}

func TestEngine_CommitsAndCounts(t *testing.T) {
	e, store := newEngine(t, nil)

	res := e.Apply(context.Background(), listing.NewListForSale("C", "1", 100), market.Env{Caller: seller})
	require.NoError(t, res.Err())
	assert.True(t, res.Applied)
	// deposit, listing, state and token status
	assert.Len(t, res.Changes, 4)

	v, ok := res.Attr("royalty_pct")
	require.True(t, ok)
	assert.Equal(t, "3", v)

	n, err := market.GetListingCount(store)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	l, err := market.GetListingByKey(store, "C", "1")
	require.NoError(t, err)
	assert.Equal(t, seller, l.Seller)

	_, err = market.GetListingByKey(store, "C", "2")
	assert.ErrorIs(t, err, market.ErrNotFound)

	d, err := market.GetDeposit(store, "C", seller, "1")
	require.NoError(t, err)
	assert.Equal(t, seller, d.Owner)
}

func TestEngine_FailureLeavesStateUntouched(t *testing.T) {
	e, store := newEngine(t, nil)
	ctx := context.Background()
	require.NoError(t, e.Apply(ctx, listing.NewListForSale("C", "1", 100), market.Env{Caller: seller}).Err())

	before, err := market.GetState(store)
	require.NoError(t, err)

	env := market.Env{Caller: buyer, Funds: market.Coin{Denom: "unft", Amount: 99}}
	res := e.Apply(ctx, listing.NewBuy("C", "1"), env)
	assert.Equal(t, market.MktPAY_MISMATCH, res.Result)
	assert.Empty(t, res.Instructions)
	assert.Empty(t, res.Changes)
	assert.Contains(t, res.Message, "99")

	after, err := market.GetState(store)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	_, err = market.GetListingByKey(store, "C", "1")
	assert.NoError(t, err)
}

func TestEngine_CreateAuctionQueriesCustody(t *testing.T) {
	e, _ := newEngine(t, nil)
	cmd := auction.NewCreateAuction("C", "1", 10, 1, 100, 200)

	// no collaborator configured
	res := e.Apply(context.Background(), cmd, market.Env{Caller: seller, Now: 50})
	assert.Equal(t, market.MktINTERNAL_QUERY, res.Result)

	e, store := newEngine(t, staticCustody{"C/1": seller})
	res = e.Apply(context.Background(), cmd, market.Env{Caller: seller, Now: 50})
	require.NoError(t, res.Err())
	require.Len(t, res.Instructions, 1)
	assert.Equal(t, market.TransferCustody("C", "1", seller, mkt), res.Instructions[0])

	n, err := market.GetAuctionCount(store)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
}

func TestCommandJSONRoundTrip(t *testing.T) {
	cmds := []market.Command{
		listing.NewListForSale("C", "1", 100).WithRoyalty(5),
		listing.NewBuyBatch(listing.Ask{Collection: "C", TokenID: "1"}, listing.Ask{Collection: "D", TokenID: "2"}),
		auction.NewCreateAuction("C", "1", 10, 2, 100, 200),
		auction.NewBid("C", "1", amount.Amount(12)),
	}
	for _, cmd := range cmds {
		t.Run(string(cmd.CommandType()), func(t *testing.T) {
			data, err := market.ToJSON(cmd)
			require.NoError(t, err)

			decoded, err := market.FromJSON(data)
			require.NoError(t, err)
			assert.Equal(t, cmd, decoded)
		})
	}
}

func TestFromJSON_Errors(t *testing.T) {
	_, err := market.FromJSON([]byte(`{"collection":"C"}`))
	assert.ErrorIs(t, err, market.ErrUnknownCommandType)

	_, err = market.FromJSON([]byte(`{"command":"Burn"}`))
	assert.ErrorIs(t, err, market.ErrUnknownCommandType)

	_, err = market.FromJSON([]byte(`{"command":"Buy","token_id":7}`))
	assert.Error(t, err)
}

func TestRegisteredTypes(t *testing.T) {
	types := market.RegisteredTypes()
	assert.Len(t, types, 12)
	assert.Contains(t, types, market.TypeClaimAuction)
}

func TestResultCategories(t *testing.T) {
	tests := []struct {
		r        market.Result
		category market.Category
		sentinel error
	}{
		{market.MktVAL_BID_TOO_LOW, market.CategoryValidation, market.ErrValidation},
		{market.MktAUTH_NOT_SELLER, market.CategoryAuthorization, market.ErrAuthorization},
		{market.MktCONFLICT_TOKEN_BUSY, market.CategoryStateConflict, market.ErrStateConflict},
		{market.MktNOT_FOUND_AUCTION, market.CategoryNotFound, market.ErrNotFound},
		{market.MktPAY_MISMATCH, market.CategoryPayment, market.ErrPayment},
		{market.MktINTERNAL_QUERY, market.CategoryInternal, market.ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.r.String(), func(t *testing.T) {
			assert.Equal(t, tt.category, tt.r.Category())
			assert.ErrorIs(t, tt.r.Err(), tt.sentinel)
			assert.NotEmpty(t, tt.r.Message())

			back, ok := market.ResultFromName(tt.r.String())
			require.True(t, ok)
			assert.Equal(t, tt.r, back)
		})
	}
	assert.True(t, market.MktSUCCESS.IsSuccess())
	assert.NoError(t, market.MktSUCCESS.Err())
}
