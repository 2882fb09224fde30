package auction

import (
	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/nftmarketd/internal/core/market"
)

func init() {
	market.Register(market.TypeCancelAuction, func() market.Command {
		return &CancelAuction{}
	})
}

// CancelAuction withdraws an auction that has not started and returns the
// token to the seller. Once bidding is open it can no longer be cancelled.
type CancelAuction struct {
	tokenRef
}

func NewCancelAuction(collection, tokenID string) *CancelAuction {
	return &CancelAuction{tokenRef{Collection: collection, TokenID: tokenID}}
}

func (c *CancelAuction) CommandType() market.CommandType {
	return market.TypeCancelAuction
}

func (c *CancelAuction) Apply(ctx *market.ApplyContext) market.Result {
	if r := ctx.RequireNoFunds(); !r.IsSuccess() {
		return r
	}
	auction, r := ctx.Auction(c.Collection, c.TokenID)
	if !r.IsSuccess() {
		return r
	}
	if auction.Status != entry.AuctionWaiting {
		return ctx.Fail(market.MktCONFLICT_AUCTION_STATUS, "auction is %s", auction.Status)
	}
	if r := ctx.RequireSellerOrAdmin(auction.Seller); !r.IsSuccess() {
		return r
	}

	auction.Status = entry.AuctionCancelled
	if r := ctx.Put(keylet.Auction(c.Collection, c.TokenID), auction); !r.IsSuccess() {
		return r
	}
	if r := ctx.ReleaseCustody(c.Collection, auction.Seller, c.TokenID, auction.Seller); !r.IsSuccess() {
		return r
	}
	if r := ctx.AdjustCounts(0, -1); !r.IsSuccess() {
		return r
	}

	ctx.Attr("seller", auction.Seller)
	c.attrs(ctx)
	ctx.Attr("status", auction.Status.String())
	return market.MktSUCCESS
}
