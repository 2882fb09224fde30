package market

import (
	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/keylet"
)

// DepositLedger tracks which tokens the marketplace holds and for whom.
// A Deposit exists if and only if the marketplace has custody of that
// token on behalf of that owner.
type DepositLedger struct {
	ctx *ApplyContext
}

// Deposits returns the deposit ledger bound to the command's view.
func (ctx *ApplyContext) Deposits() DepositLedger {
	return DepositLedger{ctx: ctx}
}

// Get loads a deposit, returning MktNOT_FOUND_DEPOSIT when absent.
func (d DepositLedger) Get(collection, owner, tokenID string) (*entry.Deposit, Result) {
	return load[entry.Deposit](d.ctx, keylet.Deposit(collection, owner, tokenID), MktNOT_FOUND_DEPOSIT)
}

// Open records custody of a token, failing if it is already recorded.
func (d DepositLedger) Open(collection, owner, tokenID string) Result {
	k := keylet.Deposit(collection, owner, tokenID)
	exists, err := d.ctx.View.Exists(k)
	if err != nil {
		return d.ctx.Fail(MktINTERNAL, "deposit lookup: %v", err)
	}
	if exists {
		return d.ctx.Fail(MktCONFLICT_DEPOSIT_EXISTS, "%s/%s already deposited by %s", collection, tokenID, owner)
	}
	return d.ctx.Put(k, &entry.Deposit{Owner: owner, Collection: collection, TokenID: tokenID})
}

// Close removes the custody record of a token.
func (d DepositLedger) Close(collection, owner, tokenID string) Result {
	return d.ctx.Remove(keylet.Deposit(collection, owner, tokenID), MktNOT_FOUND_DEPOSIT)
}
