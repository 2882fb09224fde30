package auction

import (
	"github.com/LeJamon/nftmarketd/internal/core/amount"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/nftmarketd/internal/core/market"
)

func init() {
	market.Register(market.TypeCreateAuction, func() market.Command {
		return &CreateAuction{}
	})
}

// CreateAuction deposits a token and opens an auction that may be started
// once StartTime is reached. Times are unix seconds.
type CreateAuction struct {
	tokenRef

	// Owner defaults to the caller
	Owner      string        `json:"owner,omitempty"`
	StartPrice amount.Amount `json:"start_price"`
	MinBidStep amount.Amount `json:"min_bid_step"`
	StartTime  uint64        `json:"start_time"`
	EndTime    uint64        `json:"end_time"`

	// RoyaltyPct defaults to the configured royalty when omitted
	RoyaltyPct *uint32 `json:"royalty_pct,omitempty"`
}

// NewCreateAuction creates a CreateAuction using the configured royalty
func NewCreateAuction(collection, tokenID string, startPrice, step amount.Amount, start, end uint64) *CreateAuction {
	return &CreateAuction{
		tokenRef:   tokenRef{Collection: collection, TokenID: tokenID},
		StartPrice: startPrice,
		MinBidStep: step,
		StartTime:  start,
		EndTime:    end,
	}
}

// WithRoyalty sets an explicit royalty percentage
func (c *CreateAuction) WithRoyalty(pct uint32) *CreateAuction {
	c.RoyaltyPct = &pct
	return c
}

func (c *CreateAuction) CommandType() market.CommandType {
	return market.TypeCreateAuction
}

func (c *CreateAuction) Validate() error {
	if err := c.tokenRef.Validate(); err != nil {
		return err
	}
	if c.StartPrice.IsZero() {
		return market.NewError(market.MktVAL_ZERO_PRICE, "start_price is zero")
	}
	if c.MinBidStep.IsZero() {
		return market.NewError(market.MktVAL_ZERO_STEP, "min_bid_step is zero")
	}
	if c.EndTime < c.StartTime {
		return market.NewError(market.MktVAL_BAD_TIME_RANGE, "end_time %d before start_time %d", c.EndTime, c.StartTime)
	}
	if c.RoyaltyPct != nil && *c.RoyaltyPct > amount.MaxRoyaltyPct {
		return market.NewError(market.MktVAL_BAD_ROYALTY, "royalty %d%%", *c.RoyaltyPct)
	}
	return nil
}

func (c *CreateAuction) Apply(ctx *market.ApplyContext) market.Result {
	if r := ctx.RequireNoFunds(); !r.IsSuccess() {
		return r
	}
	if c.StartTime < ctx.Env.Now {
		return ctx.Fail(market.MktVAL_START_IN_PAST, "start_time %d before now %d", c.StartTime, ctx.Env.Now)
	}

	owner, r := ctx.ResolveDepositor(c.Owner, c.Collection)
	if !r.IsSuccess() {
		return r
	}

	// Ownership is read from the custody contract before anything is
	// staged or emitted.
	current, r := ctx.QueryOwner(c.Collection, c.TokenID)
	if !r.IsSuccess() {
		return r
	}
	if current != owner {
		return ctx.Fail(market.MktAUTH_OWNERSHIP_MISMATCH, "%s/%s is owned by %s", c.Collection, c.TokenID, current)
	}

	royalty, r := ctx.ResolveRoyalty(c.RoyaltyPct)
	if !r.IsSuccess() {
		return r
	}

	if r := ctx.TakeCustody(c.Collection, owner, c.TokenID, entry.TokenInAuction); !r.IsSuccess() {
		return r
	}

	auction := &entry.Auction{
		Seller:       owner,
		Collection:   c.Collection,
		TokenID:      c.TokenID,
		StartPrice:   c.StartPrice,
		MinBidStep:   c.MinBidStep,
		StartTime:    c.StartTime,
		EndTime:      c.EndTime,
		CurrentPrice: c.StartPrice,
		Status:       entry.AuctionWaiting,
		RoyaltyPct:   royalty,
	}
	if r := ctx.Put(keylet.Auction(c.Collection, c.TokenID), auction); !r.IsSuccess() {
		return r
	}
	if r := ctx.AdjustCounts(0, 1); !r.IsSuccess() {
		return r
	}

	ctx.Attr("seller", owner)
	c.attrs(ctx)
	ctx.AttrAmount("start_price", c.StartPrice)
	ctx.AttrAmount("min_bid_step", c.MinBidStep)
	ctx.AttrUint("start_time", c.StartTime)
	ctx.AttrUint("end_time", c.EndTime)
	ctx.AttrUint("royalty_pct", uint64(royalty))
	return market.MktSUCCESS
}
