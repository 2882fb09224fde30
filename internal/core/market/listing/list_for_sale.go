package listing

import (
	"github.com/LeJamon/nftmarketd/internal/core/amount"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/nftmarketd/internal/core/market"
)

func init() {
	market.Register(market.TypeListForSale, func() market.Command {
		return &ListForSale{}
	})
}

// ListForSale deposits a token with the marketplace at a fixed price.
// The caller is either the owner or the collection contract acting on the
// owner's behalf.
type ListForSale struct {
	// Owner defaults to the caller
	Owner      string        `json:"owner,omitempty"`
	Collection string        `json:"collection"`
	TokenID    string        `json:"token_id"`
	Price      amount.Amount `json:"price"`

	// RoyaltyPct defaults to the configured royalty when omitted
	RoyaltyPct *uint32 `json:"royalty_pct,omitempty"`
}

// NewListForSale creates a ListForSale using the configured royalty
func NewListForSale(collection, tokenID string, price amount.Amount) *ListForSale {
	return &ListForSale{Collection: collection, TokenID: tokenID, Price: price}
}

// WithRoyalty sets an explicit royalty percentage
func (l *ListForSale) WithRoyalty(pct uint32) *ListForSale {
	l.RoyaltyPct = &pct
	return l
}

func (l *ListForSale) CommandType() market.CommandType {
	return market.TypeListForSale
}

func (l *ListForSale) Validate() error {
	if err := market.ValidateToken(l.Collection, l.TokenID); err != nil {
		return err
	}
	if l.Price.IsZero() {
		return market.NewError(market.MktVAL_ZERO_PRICE, "price is zero")
	}
	if l.RoyaltyPct != nil && *l.RoyaltyPct > amount.MaxRoyaltyPct {
		return market.NewError(market.MktVAL_BAD_ROYALTY, "royalty %d%%", *l.RoyaltyPct)
	}
	return nil
}

func (l *ListForSale) Apply(ctx *market.ApplyContext) market.Result {
	if r := ctx.RequireNoFunds(); !r.IsSuccess() {
		return r
	}
	owner, r := ctx.ResolveDepositor(l.Owner, l.Collection)
	if !r.IsSuccess() {
		return r
	}
	royalty, r := ctx.ResolveRoyalty(l.RoyaltyPct)
	if !r.IsSuccess() {
		return r
	}

	if r := ctx.TakeCustody(l.Collection, owner, l.TokenID, entry.TokenForSale); !r.IsSuccess() {
		return r
	}

	listing := &entry.Listing{
		Seller:     owner,
		Collection: l.Collection,
		TokenID:    l.TokenID,
		Price:      l.Price,
		RoyaltyPct: royalty,
	}
	if r := ctx.Put(keylet.Listing(l.Collection, l.TokenID), listing); !r.IsSuccess() {
		return r
	}
	if r := ctx.AdjustCounts(1, 0); !r.IsSuccess() {
		return r
	}

	ctx.Attr("seller", owner)
	ctx.Attr("collection", l.Collection)
	ctx.Attr("token_id", l.TokenID)
	ctx.AttrAmount("price", l.Price)
	ctx.AttrUint("royalty_pct", uint64(royalty))
	return market.MktSUCCESS
}
