package listing

import (
	"github.com/LeJamon/nftmarketd/internal/core/amount"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/nftmarketd/internal/core/market"
)

func init() {
	market.Register(market.TypeBuy, func() market.Command {
		return &Buy{}
	})
}

// Buy purchases a listed token for exactly its price, which must be
// attached as funds.
type Buy struct {
	Collection string `json:"collection"`
	TokenID    string `json:"token_id"`
}

func NewBuy(collection, tokenID string) *Buy {
	return &Buy{Collection: collection, TokenID: tokenID}
}

func (b *Buy) CommandType() market.CommandType {
	return market.TypeBuy
}

func (b *Buy) Validate() error {
	return market.ValidateToken(b.Collection, b.TokenID)
}

func (b *Buy) Apply(ctx *market.ApplyContext) market.Result {
	listing, r := ctx.Listing(b.Collection, b.TokenID)
	if !r.IsSuccess() {
		return r
	}
	buyer := ctx.Env.Caller
	if buyer == listing.Seller {
		return ctx.Fail(market.MktVAL_SELF_TRADE, "%s is the seller", buyer)
	}
	if r := ctx.RequireFunds(listing.Price); !r.IsSuccess() {
		return r
	}

	split, r := settle(ctx, listing, buyer, true)
	if !r.IsSuccess() {
		return r
	}
	if r := ctx.AdjustCounts(-1, 0); !r.IsSuccess() {
		return r
	}

	ctx.Attr("buyer", buyer)
	ctx.Attr("seller", listing.Seller)
	ctx.Attr("collection", b.Collection)
	ctx.Attr("token_id", b.TokenID)
	ctx.AttrAmount("price", split.Price)
	ctx.AttrAmount("royalty", split.Fee)
	ctx.AttrAmount("seller_amount", split.SellerAmount)
	return market.MktSUCCESS
}

// settle releases a sold token to the buyer, pays the seller and the fee
// recipient, and removes the listing. With alwaysPayFee set the fee payment
// is emitted even when it is zero.
func settle(ctx *market.ApplyContext, listing *entry.Listing, buyer string, alwaysPayFee bool) (amount.Split, market.Result) {
	split, err := amount.SplitRoyalty(listing.Price, listing.RoyaltyPct)
	if err != nil {
		return amount.Split{}, ctx.Fail(market.MktVAL_BAD_ROYALTY, "%v", err)
	}
	state, r := ctx.MarketState()
	if !r.IsSuccess() {
		return amount.Split{}, r
	}
	cfg, r := ctx.MarketConfig()
	if !r.IsSuccess() {
		return amount.Split{}, r
	}

	if r := ctx.ReleaseCustody(listing.Collection, listing.Seller, listing.TokenID, buyer); !r.IsSuccess() {
		return amount.Split{}, r
	}
	ctx.Emit(market.Pay(listing.Seller, cfg.Denom, split.SellerAmount))
	if alwaysPayFee || !split.Fee.IsZero() {
		ctx.Emit(market.Pay(state.FeeRecipient, cfg.Denom, split.Fee))
	}

	if r := ctx.Remove(keylet.Listing(listing.Collection, listing.TokenID), market.MktNOT_FOUND_LISTING); !r.IsSuccess() {
		return amount.Split{}, r
	}
	return split, market.MktSUCCESS
}
