package market

import (
	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/keylet"
)

// TokenRegistry keeps one status record per (collection, token) so a token
// is never listed and auctioned at once.
type TokenRegistry struct {
	ctx *ApplyContext
}

// Tokens returns the token registry bound to the command's view.
func (ctx *ApplyContext) Tokens() TokenRegistry {
	return TokenRegistry{ctx: ctx}
}

// Get loads the status of a token, MktNOT_FOUND_TOKEN when it is free.
func (t TokenRegistry) Get(collection, tokenID string) (*entry.TokenStatus, Result) {
	return load[entry.TokenStatus](t.ctx, keylet.TokenStatus(collection, tokenID), MktNOT_FOUND_TOKEN)
}

// Claim marks a free token as held in state.
func (t TokenRegistry) Claim(collection, tokenID, owner string, state entry.TokenState) Result {
	k := keylet.TokenStatus(collection, tokenID)
	current, r := t.Get(collection, tokenID)
	switch r {
	case MktSUCCESS:
		return t.ctx.Fail(MktCONFLICT_TOKEN_BUSY, "%s/%s is %s", collection, tokenID, current.State)
	case MktNOT_FOUND_TOKEN:
	default:
		return r
	}
	return t.ctx.Put(k, &entry.TokenStatus{
		Collection: collection,
		TokenID:    tokenID,
		Owner:      owner,
		State:      state,
	})
}

// Release frees a token.
func (t TokenRegistry) Release(collection, tokenID string) Result {
	return t.ctx.Remove(keylet.TokenStatus(collection, tokenID), MktNOT_FOUND_TOKEN)
}
