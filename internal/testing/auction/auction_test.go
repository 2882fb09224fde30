// Package auction_test contains integration tests for English auctions:
// create, start, bid, cancel and claim.
package auction_test

import (
	"math"
	"testing"
	"time"

	"github.com/LeJamon/nftmarketd/internal/core/amount"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
	"github.com/LeJamon/nftmarketd/internal/core/market"
	mtest "github.com/LeJamon/nftmarketd/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const denom = mtest.DefaultDenom

type fixture struct {
	env   *mtest.TestEnv
	alice *mtest.Account
	bob   *mtest.Account
	carol *mtest.Account
}

// setup mints C/1 to alice and funds bob and carol.
func setup(t *testing.T) fixture {
	t.Helper()
	env := mtest.NewTestEnv(t)
	f := fixture{
		env:   env,
		alice: env.Account("alice"),
		bob:   env.Account("bob"),
		carol: env.Account("carol"),
	}
	env.Mint("C", "1", f.alice)
	env.Fund(1_000, f.bob, f.carol)
	return f
}

// running creates and starts an auction of C/1 by alice.
func running(t *testing.T, f fixture, start, step amount.Amount, royalty uint32) {
	t.Helper()
	now := f.env.Now()
	mtest.RequireSuccess(t, f.env.CreateAuction(f.alice, "C", "1").
		StartPrice(start).Step(step).Window(now, now+3600).Royalty(royalty).Submit())
	mtest.RequireSuccess(t, f.env.StartAuction(f.alice, "C", "1").Submit())
}

// --------------------------------------------------------------------------
// CreateAuction
// --------------------------------------------------------------------------

func TestCreate_TakesCustody(t *testing.T) {
	f := setup(t)
	env := f.env
	now := env.Now()

	res := env.CreateAuction(f.alice, "C", "1").StartPrice(10).Step(2).Window(now+60, now+3600).Submit()
	mtest.RequireSuccess(t, res)
	mtest.RequireInstructions(t, res, market.TransferCustody("C", "1", f.alice.Address, env.Market.Address))
	mtest.RequireAttr(t, res, "auction_count", "1")

	a := mtest.RequireAuctionStatus(t, env, "C", "1", entry.AuctionWaiting)
	assert.Equal(t, f.alice.Address, a.Seller)
	assert.Equal(t, amount.Amount(10), a.CurrentPrice)
	assert.False(t, a.HasBidder())
	assert.Equal(t, mtest.DefaultRoyaltyPct, a.RoyaltyPct)

	mtest.RequireDeposit(t, env, "C", f.alice, "1")
	mtest.RequireTokenOwner(t, env, "C", "1", env.Market)
	mtest.RequireCounts(t, env, 0, 1)
	mtest.RequireInvariants(t, env)
}

func TestCreate_Validation(t *testing.T) {
	f := setup(t)
	env := f.env
	now := env.Now()

	tests := []struct {
		name     string
		sub      *mtest.Submission
		expected market.Result
	}{
		{"zero start price", env.CreateAuction(f.alice, "C", "1").StartPrice(0).Submission, market.MktVAL_ZERO_PRICE},
		{"zero step", env.CreateAuction(f.alice, "C", "1").Step(0).Submission, market.MktVAL_ZERO_STEP},
		{"end before start", env.CreateAuction(f.alice, "C", "1").Window(now+10, now+9).Submission, market.MktVAL_BAD_TIME_RANGE},
		{"start in past", env.CreateAuction(f.alice, "C", "1").Window(now-1, now+10).Submission, market.MktVAL_START_IN_PAST},
		{"bad royalty", env.CreateAuction(f.alice, "C", "1").Royalty(101).Submission, market.MktVAL_BAD_ROYALTY},
		{"not the owner", env.CreateAuction(f.bob, "C", "1").Submission, market.MktAUTH_OWNERSHIP_MISMATCH},
		{"unknown token", env.CreateAuction(f.alice, "C", "404").Submission, market.MktINTERNAL_QUERY},
		{"funds attached", env.CreateAuction(f.alice, "C", "1").Funds(1), market.MktPAY_UNEXPECTED_FUNDS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mtest.RequireResult(t, tt.sub.Submit(), tt.expected)
		})
	}
	mtest.RequireCounts(t, env, 0, 0)
	mtest.RequireInvariants(t, env)
}

func TestCreate_EqualStartAndEnd(t *testing.T) {
	f := setup(t)
	now := f.env.Now()
	mtest.RequireSuccess(t, f.env.CreateAuction(f.alice, "C", "1").Window(now, now).Submit())
}

func TestCreate_ListedTokenIsBusy(t *testing.T) {
	f := setup(t)
	env := f.env
	mtest.RequireSuccess(t, env.List(f.alice, "C", "1").Price(100).Submit())

	// custody now reports the market as owner
	mtest.RequireResult(t, env.CreateAuction(f.alice, "C", "1").Submit(), market.MktAUTH_OWNERSHIP_MISMATCH)
	mtest.RequireCounts(t, env, 1, 0)
}

func TestList_AuctionedTokenIsBusy(t *testing.T) {
	f := setup(t)
	env := f.env
	mtest.RequireSuccess(t, env.CreateAuction(f.alice, "C", "1").Submit())

	mtest.RequireResult(t, env.List(f.alice, "C", "1").Price(5).Submit(), market.MktCONFLICT_DEPOSIT_EXISTS)
	res := env.List(f.bob, "C", "1").Price(5).Submit()
	mtest.RequireResult(t, res, market.MktCONFLICT_TOKEN_BUSY)
	mtest.RequireNoDeposit(t, env, "C", f.bob, "1")
	mtest.RequireInvariants(t, env)
}

// --------------------------------------------------------------------------
// StartAuction / CancelAuction
// --------------------------------------------------------------------------

func TestStart_WaitsForStartTime(t *testing.T) {
	f := setup(t)
	env := f.env
	now := env.Now()
	mtest.RequireSuccess(t, env.CreateAuction(f.alice, "C", "1").Window(now+600, now+3600).Submit())

	mtest.RequireResult(t, env.StartAuction(f.alice, "C", "1").Submit(), market.MktCONFLICT_TOO_EARLY)

	env.Advance(10 * time.Minute)
	mtest.RequireResult(t, env.StartAuction(f.bob, "C", "1").Submit(), market.MktAUTH_NOT_SELLER)

	res := env.StartAuction(f.alice, "C", "1").Submit()
	mtest.RequireSuccess(t, res)
	assert.Empty(t, res.Instructions)
	mtest.RequireAuctionStatus(t, env, "C", "1", entry.AuctionInProgress)

	mtest.RequireResult(t, env.StartAuction(f.alice, "C", "1").Submit(), market.MktCONFLICT_AUCTION_STATUS)
}

func TestStart_ByAdminOrOwner(t *testing.T) {
	f := setup(t)
	env := f.env
	mtest.RequireSuccess(t, env.AddAdmin(env.Owner, f.carol).Submit())

	mtest.RequireSuccess(t, env.CreateAuction(f.alice, "C", "1").Submit())
	mtest.RequireSuccess(t, env.StartAuction(f.carol, "C", "1").Submit())

	env.Mint("C", "2", f.alice)
	mtest.RequireSuccess(t, env.CreateAuction(f.alice, "C", "2").Submit())
	mtest.RequireSuccess(t, env.StartAuction(env.Owner, "C", "2").Submit())
}

func TestCancel_ReturnsToken(t *testing.T) {
	f := setup(t)
	env := f.env
	mtest.RequireSuccess(t, env.CreateAuction(f.alice, "C", "1").Submit())

	mtest.RequireResult(t, env.CancelAuction(f.bob, "C", "1").Submit(), market.MktAUTH_NOT_SELLER)

	res := env.CancelAuction(f.alice, "C", "1").Submit()
	mtest.RequireSuccess(t, res)
	mtest.RequireInstructions(t, res, market.TransferCustody("C", "1", env.Market.Address, f.alice.Address))

	mtest.RequireAuctionStatus(t, env, "C", "1", entry.AuctionCancelled)
	mtest.RequireNoDeposit(t, env, "C", f.alice, "1")
	mtest.RequireTokenOwner(t, env, "C", "1", f.alice)
	mtest.RequireCounts(t, env, 0, 0)
	mtest.RequireInvariants(t, env)

	// terminal: no further transitions
	mtest.RequireResult(t, env.CancelAuction(f.alice, "C", "1").Submit(), market.MktCONFLICT_AUCTION_STATUS)
	mtest.RequireResult(t, env.StartAuction(f.alice, "C", "1").Submit(), market.MktCONFLICT_AUCTION_STATUS)
}

func TestCancel_StartedAuctionFails(t *testing.T) {
	f := setup(t)
	running(t, f, 10, 1, 0)
	mtest.RequireResult(t, f.env.CancelAuction(f.alice, "C", "1").Submit(), market.MktCONFLICT_AUCTION_STATUS)
}

// --------------------------------------------------------------------------
// Bid
// --------------------------------------------------------------------------

// start_price=10, min_bid_step=2: 10 accepted, 11 rejected, 12 accepted
// and the first bidder refunded.
func TestBid_IncrementAndRefund(t *testing.T) {
	f := setup(t)
	env := f.env
	running(t, f, 10, 2, 0)

	res := env.Bid(f.bob, "C", "1", 10).Submit()
	mtest.RequireSuccess(t, res)
	mtest.RequireInstructions(t, res, market.Collect(f.bob.Address, denom, 10))
	require.Len(t, res.Dispatched, 1)

	mtest.RequireResult(t, env.Bid(f.carol, "C", "1", 11).Submit(), market.MktVAL_BID_TOO_LOW)

	res = env.Bid(f.carol, "C", "1", 12).Submit()
	mtest.RequireSuccess(t, res)
	mtest.RequireInstructions(t, res,
		market.Collect(f.carol.Address, denom, 12),
		market.Pay(f.bob.Address, denom, 10),
	)
	mtest.RequireAttr(t, res, "refunded_bidder", f.bob.Address)

	a := mtest.RequireAuctionStatus(t, env, "C", "1", entry.AuctionInProgress)
	assert.Equal(t, f.carol.Address, a.CurrentBidder)
	assert.Equal(t, amount.Amount(12), a.CurrentPrice)

	mtest.RequireBalance(t, env, f.bob, 1_000)
	mtest.RequireBalance(t, env, f.carol, 988)
	mtest.RequireBalance(t, env, env.Market, 12)
	mtest.RequireInvariants(t, env)
}

func TestBid_FirstBidBelowStart(t *testing.T) {
	f := setup(t)
	running(t, f, 10, 2, 0)
	mtest.RequireResult(t, f.env.Bid(f.bob, "C", "1", 9).Submit(), market.MktVAL_BID_TOO_LOW)
}

func TestBid_Failures(t *testing.T) {
	f := setup(t)
	env := f.env
	env.Fund(1_000, f.alice)
	mtest.RequireSuccess(t, env.CreateAuction(f.alice, "C", "1").StartPrice(10).Step(2).Submit())

	// not started
	mtest.RequireResult(t, env.Bid(f.bob, "C", "1", 10).Submit(), market.MktCONFLICT_AUCTION_STATUS)
	mtest.RequireSuccess(t, env.StartAuction(f.alice, "C", "1").Submit())

	tests := []struct {
		name     string
		sub      *mtest.Submission
		expected market.Result
	}{
		{"zero bid", env.Bid(f.bob, "C", "1", 0), market.MktVAL_ZERO_PRICE},
		{"funds short", env.Bid(f.bob, "C", "1", 10).Funds(9), market.MktPAY_MISMATCH},
		{"wrong denom", env.Bid(f.bob, "C", "1", 10).Coin("uatom", 10), market.MktPAY_WRONG_DENOM},
		{"no auction", env.Bid(f.bob, "C", "2", 10), market.MktNOT_FOUND_AUCTION},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mtest.RequireResult(t, tt.sub.Submit(), tt.expected)
		})
	}
	mtest.RequireBalance(t, env, f.bob, 1_000)
}

func TestBid_SellerMayBid(t *testing.T) {
	f := setup(t)
	env := f.env
	env.Fund(100, f.alice)
	running(t, f, 10, 2, 0)

	res := env.Bid(f.alice, "C", "1", 10).Submit()
	mtest.RequireSuccess(t, res)
	mtest.RequireInstructions(t, res, market.Collect(f.alice.Address, denom, 10))

	a := mtest.RequireAuctionStatus(t, env, "C", "1", entry.AuctionInProgress)
	assert.Equal(t, f.alice.Address, a.CurrentBidder)
	mtest.RequireInvariants(t, env)
}

func TestBid_AfterEnd(t *testing.T) {
	f := setup(t)
	running(t, f, 10, 2, 0)

	f.env.Advance(time.Hour)
	mtest.RequireResult(t, f.env.Bid(f.bob, "C", "1", 10).Submit(), market.MktCONFLICT_AUCTION_OVER)
}

func TestBid_StepOverflowFailsClosed(t *testing.T) {
	f := setup(t)
	env := f.env
	env.Fund(math.MaxUint64-1_000, f.bob)
	running(t, f, 10, math.MaxUint64-5, 0)

	mtest.RequireSuccess(t, env.Bid(f.bob, "C", "1", 10).Submit())
	mtest.RequireResult(t, env.Bid(f.carol, "C", "1", math.MaxUint64).Submit(), market.MktVAL_OVERFLOW)

	a := mtest.RequireAuctionStatus(t, env, "C", "1", entry.AuctionInProgress)
	assert.Equal(t, f.bob.Address, a.CurrentBidder)
}

// --------------------------------------------------------------------------
// ClaimAuction
// --------------------------------------------------------------------------

func TestClaim_PaysSellerAndFee(t *testing.T) {
	f := setup(t)
	env := f.env
	running(t, f, 10, 2, 10)
	mtest.RequireSuccess(t, env.Bid(f.bob, "C", "1", 10).Submit())
	mtest.RequireSuccess(t, env.Bid(f.carol, "C", "1", 25).Submit())

	mtest.RequireResult(t, env.Claim(f.bob, "C", "1").Submit(), market.MktCONFLICT_TOO_EARLY)

	env.Advance(time.Hour)
	res := env.Claim(f.bob, "C", "1").Submit()
	mtest.RequireSuccess(t, res)
	mtest.RequireInstructions(t, res,
		market.TransferCustody("C", "1", env.Market.Address, f.carol.Address),
		market.Pay(f.alice.Address, denom, 23),
		market.Pay(env.FeeRecipient.Address, denom, 2),
	)
	mtest.RequireAttr(t, res, "winner", f.carol.Address)

	mtest.RequireAuctionStatus(t, env, "C", "1", entry.AuctionEnded)
	mtest.RequireTokenOwner(t, env, "C", "1", f.carol)
	mtest.RequireBalance(t, env, f.alice, 23)
	mtest.RequireBalance(t, env, env.FeeRecipient, 2)
	mtest.RequireBalance(t, env, f.carol, 975)
	mtest.RequireBalance(t, env, f.bob, 1_000)
	mtest.RequireNoDeposit(t, env, "C", f.alice, "1")
	mtest.RequireCounts(t, env, 0, 0)
	mtest.RequireInvariants(t, env)
}

// An auction with no bids unwinds on claim with no payment.
func TestClaim_NoBidsReturnsToken(t *testing.T) {
	f := setup(t)
	env := f.env
	running(t, f, 10, 2, 5)

	env.Advance(time.Hour)
	res := env.Claim(f.carol, "C", "1").Submit()
	mtest.RequireSuccess(t, res)
	mtest.RequireInstructions(t, res, market.TransferCustody("C", "1", env.Market.Address, f.alice.Address))
	assert.Empty(t, res.InstructionsOf(market.KindPay))

	mtest.RequireTokenOwner(t, env, "C", "1", f.alice)
	mtest.RequireBalance(t, env, env.FeeRecipient, 0)
	mtest.RequireInvariants(t, env)
}

func TestClaim_IsIdempotent(t *testing.T) {
	f := setup(t)
	env := f.env
	running(t, f, 10, 2, 5)
	mtest.RequireSuccess(t, env.Bid(f.bob, "C", "1", 40).Submit())
	env.Advance(2 * time.Hour)

	mtest.RequireSuccess(t, env.Claim(f.bob, "C", "1").Submit())
	before := env.Balance(f.alice)

	res := env.Claim(f.bob, "C", "1").Submit()
	mtest.RequireResult(t, res, market.MktCONFLICT_AUCTION_STATUS)
	assert.Equal(t, before, env.Balance(f.alice))
}

func TestClaim_WaitingAuctionFails(t *testing.T) {
	f := setup(t)
	mtest.RequireSuccess(t, f.env.CreateAuction(f.alice, "C", "1").Submit())
	f.env.Advance(2 * time.Hour)
	mtest.RequireResult(t, f.env.Claim(f.alice, "C", "1").Submit(), market.MktCONFLICT_AUCTION_STATUS)
}

func TestAuction_RunAgainAfterClaim(t *testing.T) {
	f := setup(t)
	env := f.env
	running(t, f, 10, 2, 0)
	env.Advance(time.Hour)
	mtest.RequireSuccess(t, env.Claim(f.alice, "C", "1").Submit())

	// the terminal record is replaced by a fresh auction
	mtest.RequireSuccess(t, env.CreateAuction(f.alice, "C", "1").Submit())
	mtest.RequireAuctionStatus(t, env, "C", "1", entry.AuctionWaiting)
	mtest.RequireCounts(t, env, 0, 1)
	mtest.RequireInvariants(t, env)
}
