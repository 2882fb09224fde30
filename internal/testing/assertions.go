package testing

import (
	"context"
	"fmt"
	"testing"

	"github.com/LeJamon/nftmarketd/internal/core/amount"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
	"github.com/LeJamon/nftmarketd/internal/core/market"
	"github.com/stretchr/testify/require"
)

// RequireSuccess asserts that a command was applied and its instructions
// dispatched without error.
func RequireSuccess(t *testing.T, result *Result) {
	t.Helper()
	require.True(t, result.Result.IsSuccess(),
		"Expected command success, got %s: %s", result.Code(), result.Message)
	require.NoError(t, result.DispatchErr, "Dispatch of %s failed", result.Command)
}

// RequireResult asserts that a command failed with a specific code and left
// no trace: no changes, no instructions.
func RequireResult(t *testing.T, result *Result, expected market.Result) {
	t.Helper()
	require.Equal(t, expected, result.Result,
		"Expected %s, got %s: %s", expected, result.Code(), result.Message)
	if !expected.IsSuccess() {
		require.False(t, result.Applied, "Failed command reported as applied")
		require.Empty(t, result.Changes, "Failed command staged changes")
		require.Empty(t, result.Instructions, "Failed command emitted instructions")
	}
}

// RequireCategory asserts that a command failed with a result of the
// given error family.
func RequireCategory(t *testing.T, result *Result, expected market.Category) {
	t.Helper()
	require.Equal(t, expected, result.Result.Category(),
		"Expected a %s, got %s: %s", expected, result.Code(), result.Message)
}

// RequireInstructions asserts the exact emitted instruction sequence.
func RequireInstructions(t *testing.T, result *Result, expected ...market.Instruction) {
	t.Helper()
	require.Equal(t, expected, result.Instructions, "Instruction sequence mismatch")
}

// RequireAttr asserts the value of an audit attribute.
func RequireAttr(t *testing.T, result *Result, key, expected string) {
	t.Helper()
	actual, ok := result.Attr(key)
	require.True(t, ok, "Attribute %q missing from %v", key, result.Attributes)
	require.Equal(t, expected, actual, "Attribute %q mismatch", key)
}

// RequireBalance asserts that an account holds the expected units.
func RequireBalance(t *testing.T, env *TestEnv, acc *Account, expected amount.Amount) {
	t.Helper()
	actual := env.Balance(acc)
	require.Equal(t, expected, actual,
		"Account %s balance mismatch: expected %s, got %s", acc.Name, expected, actual)
}

// RequireTokenOwner asserts the custody contract's owner of a token.
func RequireTokenOwner(t *testing.T, env *TestEnv, collection, tokenID string, expected *Account) {
	t.Helper()
	require.Equal(t, expected.Address, env.TokenOwner(collection, tokenID),
		"Token %s/%s is not held by %s", collection, tokenID, expected.Name)
}

// RequireListing asserts that a listing exists and returns it.
func RequireListing(t *testing.T, env *TestEnv, collection, tokenID string) *entry.Listing {
	t.Helper()
	l := env.Listing(collection, tokenID)
	require.NotNil(t, l, "Expected listing %s/%s to exist", collection, tokenID)
	return l
}

// RequireNoListing asserts that a token is not listed.
func RequireNoListing(t *testing.T, env *TestEnv, collection, tokenID string) {
	t.Helper()
	require.Nil(t, env.Listing(collection, tokenID), "Expected no listing for %s/%s", collection, tokenID)
}

// RequireAuctionStatus asserts the status of an auction and returns it.
func RequireAuctionStatus(t *testing.T, env *TestEnv, collection, tokenID string, expected entry.AuctionStatus) *entry.Auction {
	t.Helper()
	a := env.Auction(collection, tokenID)
	require.NotNil(t, a, "Expected auction %s/%s to exist", collection, tokenID)
	require.Equal(t, expected, a.Status, "Auction %s/%s status mismatch", collection, tokenID)
	return a
}

// RequireDeposit asserts that the market holds a token for owner.
func RequireDeposit(t *testing.T, env *TestEnv, collection string, owner *Account, tokenID string) {
	t.Helper()
	require.NotNil(t, env.Deposit(collection, owner, tokenID),
		"Expected deposit of %s/%s by %s", collection, tokenID, owner.Name)
}

// RequireNoDeposit asserts that the market holds no token for owner.
func RequireNoDeposit(t *testing.T, env *TestEnv, collection string, owner *Account, tokenID string) {
	t.Helper()
	require.Nil(t, env.Deposit(collection, owner, tokenID),
		"Expected no deposit of %s/%s by %s", collection, tokenID, owner.Name)
}

// RequireCounts asserts the active listing and auction gauges.
func RequireCounts(t *testing.T, env *TestEnv, listings, auctions uint64) {
	t.Helper()
	l, a := env.Counts()
	require.Equal(t, listings, l, "listing_count mismatch")
	require.Equal(t, auctions, a, "auction_count mismatch")
}

// AssertBalanceChange runs fn and asserts the signed balance change of acc.
func AssertBalanceChange(t *testing.T, env *TestEnv, acc *Account, expectedChange int64, fn func()) {
	t.Helper()
	before := env.Balance(acc).Uint64()
	fn()
	after := env.Balance(acc).Uint64()

	actualChange := int64(after) - int64(before)
	require.Equal(t, expectedChange, actualChange,
		"Account %s balance change mismatch (before: %d, after: %d)", acc.Name, before, after)
}

// RequireInvariants checks the escrow rules over the whole store:
//
//   - every deposit is backed by exactly one listing or live auction of the
//     same seller, and the reverse
//   - every deposit has a token status naming the same owner
//   - the gauges equal the number of listings and live auctions
//   - the market account holds every deposited token
//   - the market account holds exactly the price of every standing bid
func RequireInvariants(t *testing.T, env *TestEnv) {
	t.Helper()
	ctx := context.Background()
	store := env.Store()

	deposits, err := store.Deposits(ctx)
	require.NoError(t, err)
	listings, err := store.Listings(ctx)
	require.NoError(t, err)
	auctions, err := store.Auctions(ctx)
	require.NoError(t, err)
	statuses, err := store.TokenStatuses(ctx)
	require.NoError(t, err)

	type token struct{ collection, tokenID string }
	held := make(map[token]string)
	for _, d := range deposits {
		k := token{d.Collection, d.TokenID}
		_, dup := held[k]
		require.False(t, dup, "Token %s/%s deposited twice", d.Collection, d.TokenID)
		held[k] = d.Owner
	}

	backed := make(map[token]string)
	var escrowed amount.Amount
	for _, l := range listings {
		backed[token{l.Collection, l.TokenID}] = l.Seller
	}
	live := uint64(0)
	for _, a := range auctions {
		if a.Status.IsTerminal() {
			continue
		}
		live++
		k := token{a.Collection, a.TokenID}
		_, both := backed[k]
		require.False(t, both, "Token %s/%s is listed and auctioned", a.Collection, a.TokenID)
		backed[k] = a.Seller
		if a.HasBidder() {
			escrowed, err = escrowed.Add(a.CurrentPrice)
			require.NoError(t, err)
		}
	}
	require.Equal(t, held, backed, "Deposits and live listings/auctions do not pair up")

	require.Len(t, statuses, len(deposits), "Token statuses and deposits differ in number")
	for _, s := range statuses {
		require.Equal(t, held[token{s.Collection, s.TokenID}], s.Owner,
			"Token status of %s/%s names the wrong owner", s.Collection, s.TokenID)
	}

	RequireCounts(t, env, uint64(len(listings)), live)

	for k := range held {
		require.Equal(t, env.Market.Address, env.TokenOwner(k.collection, k.tokenID),
			"Market does not hold deposited token %s", fmt.Sprintf("%s/%s", k.collection, k.tokenID))
	}
	require.Equal(t, escrowed, env.Balance(env.Market), "Market balance does not equal standing bids")
}
