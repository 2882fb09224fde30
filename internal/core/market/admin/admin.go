// Package admin holds the owner-only commands that manage the admin set and
// the market configuration.
package admin

import (
	"github.com/LeJamon/nftmarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/nftmarketd/internal/core/market"
)

func init() {
	market.Register(market.TypeAddAdmin, func() market.Command {
		return &AddAdmin{}
	})
	market.Register(market.TypeRemoveAdmin, func() market.Command {
		return &RemoveAdmin{}
	})
}

// AddAdmin appends an address to the admin list.
type AddAdmin struct {
	Address string `json:"address"`
}

func NewAddAdmin(addr string) *AddAdmin {
	return &AddAdmin{Address: addr}
}

func (a *AddAdmin) CommandType() market.CommandType {
	return market.TypeAddAdmin
}

func (a *AddAdmin) Validate() error {
	if a.Address == "" {
		return market.NewError(market.MktVAL_MALFORMED, "address is required")
	}
	return nil
}

func (a *AddAdmin) Apply(ctx *market.ApplyContext) market.Result {
	if r := ctx.RequireNoFunds(); !r.IsSuccess() {
		return r
	}
	if r := ctx.RequireOwner(); !r.IsSuccess() {
		return r
	}
	if !ctx.ValidAddress(a.Address) {
		return ctx.Fail(market.MktVAL_BAD_ADDRESS, "admin %q", a.Address)
	}
	set, r := ctx.AdminSet()
	if !r.IsSuccess() {
		return r
	}
	if !set.Add(a.Address) {
		return ctx.Fail(market.MktCONFLICT_ALREADY_ADMIN, "%s is already an admin", a.Address)
	}
	if r := ctx.Put(keylet.Admins(), set); !r.IsSuccess() {
		return r
	}
	ctx.Attr("admin", a.Address)
	return market.MktSUCCESS
}

// RemoveAdmin drops an address from the admin list.
type RemoveAdmin struct {
	Address string `json:"address"`
}

func NewRemoveAdmin(addr string) *RemoveAdmin {
	return &RemoveAdmin{Address: addr}
}

func (a *RemoveAdmin) CommandType() market.CommandType {
	return market.TypeRemoveAdmin
}

func (a *RemoveAdmin) Validate() error {
	if a.Address == "" {
		return market.NewError(market.MktVAL_MALFORMED, "address is required")
	}
	return nil
}

func (a *RemoveAdmin) Apply(ctx *market.ApplyContext) market.Result {
	if r := ctx.RequireNoFunds(); !r.IsSuccess() {
		return r
	}
	if r := ctx.RequireOwner(); !r.IsSuccess() {
		return r
	}
	set, r := ctx.AdminSet()
	if !r.IsSuccess() {
		return r
	}
	if !set.Remove(a.Address) {
		return ctx.Fail(market.MktNOT_FOUND_ADMIN, "%s is not an admin", a.Address)
	}
	if r := ctx.Put(keylet.Admins(), set); !r.IsSuccess() {
		return r
	}
	ctx.Attr("admin", a.Address)
	return market.MktSUCCESS
}
