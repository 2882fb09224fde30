package admin

import (
	"github.com/LeJamon/nftmarketd/internal/core/amount"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/nftmarketd/internal/core/market"
)

func init() {
	market.Register(market.TypeUpdateConfig, func() market.Command {
		return &UpdateConfig{}
	})
}

// UpdateConfig changes the denomination, the default royalty or the fee
// recipient. Omitted fields keep their value. Existing listings and
// auctions keep the royalty they were created with.
type UpdateConfig struct {
	Denom             *string `json:"denom,omitempty"`
	DefaultRoyaltyPct *uint32 `json:"default_royalty_pct,omitempty"`
	FeeRecipient      *string `json:"fee_recipient,omitempty"`
}

func (u *UpdateConfig) CommandType() market.CommandType {
	return market.TypeUpdateConfig
}

func (u *UpdateConfig) Validate() error {
	if u.Denom == nil && u.DefaultRoyaltyPct == nil && u.FeeRecipient == nil {
		return market.NewError(market.MktVAL_MALFORMED, "nothing to update")
	}
	if u.Denom != nil && *u.Denom == "" {
		return market.NewError(market.MktVAL_MALFORMED, "denom is empty")
	}
	if u.DefaultRoyaltyPct != nil && *u.DefaultRoyaltyPct > amount.MaxRoyaltyPct {
		return market.NewError(market.MktVAL_BAD_ROYALTY, "royalty %d%%", *u.DefaultRoyaltyPct)
	}
	if u.FeeRecipient != nil && *u.FeeRecipient == "" {
		return market.NewError(market.MktVAL_MALFORMED, "fee_recipient is empty")
	}
	return nil
}

func (u *UpdateConfig) Apply(ctx *market.ApplyContext) market.Result {
	if r := ctx.RequireNoFunds(); !r.IsSuccess() {
		return r
	}
	if r := ctx.RequireOwner(); !r.IsSuccess() {
		return r
	}

	if u.Denom != nil || u.DefaultRoyaltyPct != nil {
		cfg, r := ctx.MarketConfig()
		if !r.IsSuccess() {
			return r
		}
		if u.Denom != nil {
			cfg.Denom = *u.Denom
			ctx.Attr("denom", cfg.Denom)
		}
		if u.DefaultRoyaltyPct != nil {
			cfg.DefaultRoyaltyPct = *u.DefaultRoyaltyPct
			ctx.AttrUint("default_royalty_pct", uint64(cfg.DefaultRoyaltyPct))
		}
		if r := ctx.Put(keylet.Config(), cfg); !r.IsSuccess() {
			return r
		}
	}

	if u.FeeRecipient != nil {
		if !ctx.ValidAddress(*u.FeeRecipient) {
			return ctx.Fail(market.MktVAL_BAD_ADDRESS, "fee_recipient %q", *u.FeeRecipient)
		}
		state, r := ctx.MarketState()
		if !r.IsSuccess() {
			return r
		}
		state.FeeRecipient = *u.FeeRecipient
		if r := ctx.Put(keylet.State(), state); !r.IsSuccess() {
			return r
		}
		ctx.Attr("fee_recipient", state.FeeRecipient)
	}
	return market.MktSUCCESS
}
