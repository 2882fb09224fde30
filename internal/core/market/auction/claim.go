package auction

import (
	"github.com/LeJamon/nftmarketd/internal/core/amount"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/nftmarketd/internal/core/market"
)

func init() {
	market.Register(market.TypeClaimAuction, func() market.Command {
		return &ClaimAuction{}
	})
}

// ClaimAuction settles an auction whose end time has passed. Anyone may
// claim. With a winning bid the token goes to the bidder and the price is
// split between seller and fee recipient; without one the token returns to
// the seller and nothing is paid.
type ClaimAuction struct {
	tokenRef
}

func NewClaimAuction(collection, tokenID string) *ClaimAuction {
	return &ClaimAuction{tokenRef{Collection: collection, TokenID: tokenID}}
}

func (c *ClaimAuction) CommandType() market.CommandType {
	return market.TypeClaimAuction
}

func (c *ClaimAuction) Apply(ctx *market.ApplyContext) market.Result {
	if r := ctx.RequireNoFunds(); !r.IsSuccess() {
		return r
	}
	auction, r := ctx.Auction(c.Collection, c.TokenID)
	if !r.IsSuccess() {
		return r
	}
	if auction.Status != entry.AuctionInProgress {
		return ctx.Fail(market.MktCONFLICT_AUCTION_STATUS, "auction is %s", auction.Status)
	}
	if ctx.Env.Now < auction.EndTime {
		return ctx.Fail(market.MktCONFLICT_TOO_EARLY, "ends at %d, now %d", auction.EndTime, ctx.Env.Now)
	}

	auction.Status = entry.AuctionEnded
	if r := ctx.Put(keylet.Auction(c.Collection, c.TokenID), auction); !r.IsSuccess() {
		return r
	}

	if !auction.HasBidder() {
		if r := ctx.ReleaseCustody(c.Collection, auction.Seller, c.TokenID, auction.Seller); !r.IsSuccess() {
			return r
		}
	} else {
		split, err := amount.SplitRoyalty(auction.CurrentPrice, auction.RoyaltyPct)
		if err != nil {
			return ctx.Fail(market.MktVAL_BAD_ROYALTY, "%v", err)
		}
		state, r := ctx.MarketState()
		if !r.IsSuccess() {
			return r
		}
		cfg, r := ctx.MarketConfig()
		if !r.IsSuccess() {
			return r
		}
		if r := ctx.ReleaseCustody(c.Collection, auction.Seller, c.TokenID, auction.CurrentBidder); !r.IsSuccess() {
			return r
		}
		ctx.Emit(
			market.Pay(auction.Seller, cfg.Denom, split.SellerAmount),
			market.Pay(state.FeeRecipient, cfg.Denom, split.Fee),
		)
		ctx.Attr("winner", auction.CurrentBidder)
		ctx.AttrAmount("price", split.Price)
		ctx.AttrAmount("royalty", split.Fee)
		ctx.AttrAmount("seller_amount", split.SellerAmount)
	}

	if r := ctx.AdjustCounts(0, -1); !r.IsSuccess() {
		return r
	}

	ctx.Attr("seller", auction.Seller)
	c.attrs(ctx)
	ctx.Attr("status", auction.Status.String())
	return market.MktSUCCESS
}
