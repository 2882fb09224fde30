package market

import "github.com/LeJamon/nftmarketd/internal/core/ledger/entry"

// TakeCustody is the single path by which the marketplace acquires a token:
// it opens the deposit, claims the token status and emits the inbound
// custody transfer.
func (ctx *ApplyContext) TakeCustody(collection, owner, tokenID string, state entry.TokenState) Result {
	if r := ctx.Deposits().Open(collection, owner, tokenID); !r.IsSuccess() {
		return r
	}
	if r := ctx.Tokens().Claim(collection, tokenID, owner, state); !r.IsSuccess() {
		return r
	}
	ctx.Emit(TransferCustody(collection, tokenID, owner, ctx.Config.MarketAddress))
	return MktSUCCESS
}

// ReleaseCustody is the single path by which the marketplace gives a token
// up: it closes the owner's deposit, frees the token status and emits the
// outbound custody transfer to recipient.
func (ctx *ApplyContext) ReleaseCustody(collection, owner, tokenID, recipient string) Result {
	if r := ctx.Deposits().Close(collection, owner, tokenID); !r.IsSuccess() {
		return r
	}
	if r := ctx.Tokens().Release(collection, tokenID); !r.IsSuccess() {
		return r
	}
	ctx.Emit(TransferCustody(collection, tokenID, ctx.Config.MarketAddress, recipient))
	return MktSUCCESS
}

// ResolveDepositor returns the account a token is deposited for. A caller
// other than owner must be the collection contract itself.
func (ctx *ApplyContext) ResolveDepositor(owner, collection string) (string, Result) {
	caller := ctx.Env.Caller
	if owner == "" || owner == caller {
		return caller, MktSUCCESS
	}
	if caller != collection {
		return "", ctx.Fail(MktAUTH_NOT_COLLECTION, "%s may not deposit for %s", caller, owner)
	}
	if !ctx.ValidAddress(owner) {
		return "", ctx.Fail(MktVAL_BAD_ADDRESS, "owner %q", owner)
	}
	return owner, MktSUCCESS
}
