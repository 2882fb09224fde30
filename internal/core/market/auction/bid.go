package auction

import (
	"github.com/LeJamon/nftmarketd/internal/core/amount"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/nftmarketd/internal/core/market"
)

func init() {
	market.Register(market.TypeBid, func() market.Command {
		return &Bid{}
	})
}

// Bid places a bid of Price, which must be attached as funds.
type Bid struct {
	tokenRef
	Price amount.Amount `json:"price"`
}

func NewBid(collection, tokenID string, price amount.Amount) *Bid {
	return &Bid{tokenRef: tokenRef{Collection: collection, TokenID: tokenID}, Price: price}
}

func (b *Bid) CommandType() market.CommandType {
	return market.TypeBid
}

func (b *Bid) Validate() error {
	if err := b.tokenRef.Validate(); err != nil {
		return err
	}
	if b.Price.IsZero() {
		return market.NewError(market.MktVAL_ZERO_PRICE, "bid is zero")
	}
	return nil
}

// MinimumBid returns the lowest acceptable next bid. Overflow is reported
// rather than saturated.
func MinimumBid(a *entry.Auction) (amount.Amount, error) {
	if !a.HasBidder() {
		return a.StartPrice, nil
	}
	return a.CurrentPrice.Add(a.MinBidStep)
}

func (b *Bid) Apply(ctx *market.ApplyContext) market.Result {
	auction, r := ctx.Auction(b.Collection, b.TokenID)
	if !r.IsSuccess() {
		return r
	}
	if auction.Status != entry.AuctionInProgress {
		return ctx.Fail(market.MktCONFLICT_AUCTION_STATUS, "auction is %s", auction.Status)
	}
	if ctx.Env.Now >= auction.EndTime {
		return ctx.Fail(market.MktCONFLICT_AUCTION_OVER, "ended at %d, now %d", auction.EndTime, ctx.Env.Now)
	}

	bidder := ctx.Env.Caller
	minimum, err := MinimumBid(auction)
	if err != nil {
		return ctx.Fail(market.MktVAL_OVERFLOW, "minimum bid: %v", err)
	}
	if b.Price < minimum {
		return ctx.Fail(market.MktVAL_BID_TOO_LOW, "bid %s, minimum %s", b.Price, minimum)
	}
	if r := ctx.RequireFunds(b.Price); !r.IsSuccess() {
		return r
	}

	cfg, r := ctx.MarketConfig()
	if !r.IsSuccess() {
		return r
	}

	ctx.Emit(market.Collect(bidder, cfg.Denom, b.Price))
	if auction.HasBidder() {
		ctx.Emit(market.Pay(auction.CurrentBidder, cfg.Denom, auction.CurrentPrice))
		ctx.Attr("refunded_bidder", auction.CurrentBidder)
		ctx.AttrAmount("refund", auction.CurrentPrice)
	}

	auction.CurrentPrice = b.Price
	auction.CurrentBidder = bidder
	if r := ctx.Put(keylet.Auction(b.Collection, b.TokenID), auction); !r.IsSuccess() {
		return r
	}

	ctx.Attr("bidder", bidder)
	b.attrs(ctx)
	ctx.AttrAmount("price", b.Price)
	return market.MktSUCCESS
}
