// Package auction implements English auctions over deposited tokens.
//
// An auction moves WaitingAuction -> InAuction -> Ended, or
// WaitingAuction -> Cancelled. Ended and Cancelled are terminal. The
// marketplace holds at most one bidder's funds per auction: accepting a bid
// refunds the previous bidder in the same result.
package auction

import "github.com/LeJamon/nftmarketd/internal/core/market"

// tokenRef is embedded by every command that addresses one auction.
type tokenRef struct {
	Collection string `json:"collection"`
	TokenID    string `json:"token_id"`
}

func (t tokenRef) Validate() error {
	return market.ValidateToken(t.Collection, t.TokenID)
}

func (t tokenRef) attrs(ctx *market.ApplyContext) {
	ctx.Attr("collection", t.Collection)
	ctx.Attr("token_id", t.TokenID)
}
