package market

import (
	"errors"

	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/keylet"
)

type entryPtr[T any] interface {
	*T
	entry.Entry
}

// LoadEntry reads and decodes the entry at k. It returns nil when absent.
func LoadEntry[T any, P entryPtr[T]](r Reader, k keylet.Keylet) (P, error) {
	data, err := r.Read(k)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	var v T
	p := P(&v)
	if err := entry.Unmarshal(data, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Put inserts or updates e at k.
func (ctx *ApplyContext) Put(k keylet.Keylet, e entry.Entry) Result {
	data, err := entry.Marshal(e)
	if err != nil {
		return ctx.Fail(MktINTERNAL, "encode %s: %v", k.Type, err)
	}
	exists, err := ctx.View.Exists(k)
	if err != nil {
		return ctx.Fail(MktINTERNAL, "exists %s: %v", k.Type, err)
	}
	if exists {
		err = ctx.View.Update(k, data)
	} else {
		err = ctx.View.Insert(k, data)
	}
	if err != nil {
		return ctx.Fail(MktINTERNAL, "write %s: %v", k.Type, err)
	}
	return MktSUCCESS
}

// Remove erases the entry at k, returning notFound when it is absent.
func (ctx *ApplyContext) Remove(k keylet.Keylet, notFound Result) Result {
	if err := ctx.View.Erase(k); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return notFound
		}
		return ctx.Fail(MktINTERNAL, "erase %s: %v", k.Type, err)
	}
	return MktSUCCESS
}

func load[T any, P entryPtr[T]](ctx *ApplyContext, k keylet.Keylet, notFound Result) (P, Result) {
	v, err := LoadEntry[T, P](ctx.View, k)
	if err != nil {
		return nil, ctx.Fail(MktINTERNAL, "read %s: %v", k.Type, err)
	}
	if v == nil {
		return nil, notFound
	}
	return v, MktSUCCESS
}

// Listing loads the listing of a token.
func (ctx *ApplyContext) Listing(collection, tokenID string) (*entry.Listing, Result) {
	return load[entry.Listing](ctx, keylet.Listing(collection, tokenID), MktNOT_FOUND_LISTING)
}

// Auction loads the auction of a token.
func (ctx *ApplyContext) Auction(collection, tokenID string) (*entry.Auction, Result) {
	return load[entry.Auction](ctx, keylet.Auction(collection, tokenID), MktNOT_FOUND_AUCTION)
}

// MarketState loads the singleton state.
func (ctx *ApplyContext) MarketState() (*entry.MarketState, Result) {
	return load[entry.MarketState](ctx, keylet.State(), MktNOT_FOUND_STATE)
}

// MarketConfig loads the singleton config.
func (ctx *ApplyContext) MarketConfig() (*entry.Config, Result) {
	return load[entry.Config](ctx, keylet.Config(), MktNOT_FOUND_STATE)
}

// AdminSet loads the singleton admin set.
func (ctx *ApplyContext) AdminSet() (*entry.AdminSet, Result) {
	return load[entry.AdminSet](ctx, keylet.Admins(), MktNOT_FOUND_STATE)
}

// AdjustCounts applies deltas to the active listing and auction gauges.
func (ctx *ApplyContext) AdjustCounts(listings, auctions int) Result {
	state, r := ctx.MarketState()
	if !r.IsSuccess() {
		return r
	}
	var ok bool
	if state.ListingCount, ok = adjust(state.ListingCount, listings); !ok {
		return ctx.Fail(MktINTERNAL, "listing count %d cannot move by %d", state.ListingCount, listings)
	}
	if state.AuctionCount, ok = adjust(state.AuctionCount, auctions); !ok {
		return ctx.Fail(MktINTERNAL, "auction count %d cannot move by %d", state.AuctionCount, auctions)
	}
	if r := ctx.Put(keylet.State(), state); !r.IsSuccess() {
		return r
	}
	if listings != 0 {
		ctx.AttrUint("listing_count", state.ListingCount)
	}
	if auctions != 0 {
		ctx.AttrUint("auction_count", state.AuctionCount)
	}
	return MktSUCCESS
}

func adjust(v uint64, delta int) (uint64, bool) {
	if delta >= 0 {
		next := v + uint64(delta)
		return next, next >= v
	}
	d := uint64(-delta)
	if d > v {
		return v, false
	}
	return v - d, true
}
