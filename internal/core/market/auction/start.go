package auction

import (
	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/nftmarketd/internal/core/market"
)

func init() {
	market.Register(market.TypeStartAuction, func() market.Command {
		return &StartAuction{}
	})
}

// StartAuction opens bidding once the start time has been reached.
type StartAuction struct {
	tokenRef
}

func NewStartAuction(collection, tokenID string) *StartAuction {
	return &StartAuction{tokenRef{Collection: collection, TokenID: tokenID}}
}

func (s *StartAuction) CommandType() market.CommandType {
	return market.TypeStartAuction
}

func (s *StartAuction) Apply(ctx *market.ApplyContext) market.Result {
	if r := ctx.RequireNoFunds(); !r.IsSuccess() {
		return r
	}
	auction, r := ctx.Auction(s.Collection, s.TokenID)
	if !r.IsSuccess() {
		return r
	}
	if auction.Status != entry.AuctionWaiting {
		return ctx.Fail(market.MktCONFLICT_AUCTION_STATUS, "auction is %s", auction.Status)
	}
	if ctx.Env.Now < auction.StartTime {
		return ctx.Fail(market.MktCONFLICT_TOO_EARLY, "starts at %d, now %d", auction.StartTime, ctx.Env.Now)
	}
	if r := ctx.RequireSellerOrAdmin(auction.Seller); !r.IsSuccess() {
		return r
	}

	auction.Status = entry.AuctionInProgress
	if r := ctx.Put(keylet.Auction(s.Collection, s.TokenID), auction); !r.IsSuccess() {
		return r
	}

	s.attrs(ctx)
	ctx.Attr("status", auction.Status.String())
	return market.MktSUCCESS
}
