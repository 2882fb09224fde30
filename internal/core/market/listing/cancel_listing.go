package listing

import (
	"github.com/LeJamon/nftmarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/nftmarketd/internal/core/market"
)

func init() {
	market.Register(market.TypeCancelListing, func() market.Command {
		return &CancelListing{}
	})
}

// CancelListing withdraws a listing and returns the token to its depositor.
type CancelListing struct {
	Collection string `json:"collection"`
	TokenID    string `json:"token_id"`
}

func NewCancelListing(collection, tokenID string) *CancelListing {
	return &CancelListing{Collection: collection, TokenID: tokenID}
}

func (c *CancelListing) CommandType() market.CommandType {
	return market.TypeCancelListing
}

func (c *CancelListing) Validate() error {
	return market.ValidateToken(c.Collection, c.TokenID)
}

func (c *CancelListing) Apply(ctx *market.ApplyContext) market.Result {
	if r := ctx.RequireNoFunds(); !r.IsSuccess() {
		return r
	}
	listing, r := ctx.Listing(c.Collection, c.TokenID)
	if !r.IsSuccess() {
		return r
	}

	caller := ctx.Env.Caller
	if _, r := ctx.Deposits().Get(c.Collection, caller, c.TokenID); !r.IsSuccess() {
		if r == market.MktNOT_FOUND_DEPOSIT {
			return ctx.Fail(market.MktAUTH_NOT_DEPOSITOR, "%s did not deposit %s/%s", caller, c.Collection, c.TokenID)
		}
		return r
	}

	if r := ctx.ReleaseCustody(c.Collection, caller, c.TokenID, caller); !r.IsSuccess() {
		return r
	}
	if r := ctx.Remove(keylet.Listing(c.Collection, c.TokenID), market.MktNOT_FOUND_LISTING); !r.IsSuccess() {
		return r
	}
	if r := ctx.AdjustCounts(-1, 0); !r.IsSuccess() {
		return r
	}

	ctx.Attr("seller", listing.Seller)
	ctx.Attr("collection", c.Collection)
	ctx.Attr("token_id", c.TokenID)
	return market.MktSUCCESS
}
