package market

import "github.com/LeJamon/nftmarketd/internal/core/ledger/entry"

// AuthorizationProvider answers the two role predicates shared by every
// manager.
type AuthorizationProvider interface {
	IsOwner(addr string) bool
	IsAdminOrOwner(addr string) bool
}

// Authority is the AuthorizationProvider backed by the stored admin set.
type Authority struct {
	set *entry.AdminSet
}

// NewAuthority wraps an admin set.
func NewAuthority(set *entry.AdminSet) *Authority {
	return &Authority{set: set}
}

// IsOwner reports an exact match against the immutable owner.
func (a *Authority) IsOwner(addr string) bool {
	return addr != "" && addr == a.set.Owner
}

// IsAdmin reports admin membership. The owner is not implicitly an admin.
func (a *Authority) IsAdmin(addr string) bool {
	return a.set.Contains(addr)
}

func (a *Authority) IsAdminOrOwner(addr string) bool {
	return a.IsOwner(addr) || a.IsAdmin(addr)
}

// Authority loads the authorization provider for the current view.
func (ctx *ApplyContext) Authority() (*Authority, Result) {
	set, r := ctx.AdminSet()
	if !r.IsSuccess() {
		return nil, r
	}
	return NewAuthority(set), MktSUCCESS
}

// RequireOwner fails with MktAUTH_NOT_OWNER unless the caller is the owner.
func (ctx *ApplyContext) RequireOwner() Result {
	auth, r := ctx.Authority()
	if !r.IsSuccess() {
		return r
	}
	if !auth.IsOwner(ctx.Env.Caller) {
		return ctx.Fail(MktAUTH_NOT_OWNER, "%s is not the owner", ctx.Env.Caller)
	}
	return MktSUCCESS
}

// RequireSellerOrAdmin fails with MktAUTH_NOT_SELLER unless the caller is
// seller, an admin, or the owner.
func (ctx *ApplyContext) RequireSellerOrAdmin(seller string) Result {
	if ctx.Env.Caller == seller {
		return MktSUCCESS
	}
	auth, r := ctx.Authority()
	if !r.IsSuccess() {
		return r
	}
	if !auth.IsAdminOrOwner(ctx.Env.Caller) {
		return ctx.Fail(MktAUTH_NOT_SELLER, "%s is neither seller nor admin", ctx.Env.Caller)
	}
	return MktSUCCESS
}
