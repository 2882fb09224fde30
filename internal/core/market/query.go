package market

import (
	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/keylet"
)

// Queries are read-only projections over committed state. None of them
// returns a zero-valued record: an absent key is a NotFound error.

func query[T any, P entryPtr[T]](r Reader, k keylet.Keylet, notFound Result) (P, error) {
	v, err := LoadEntry[T, P](r, k)
	if err != nil {
		return nil, NewError(MktINTERNAL, "read %s: %v", k.Type, err)
	}
	if v == nil {
		return nil, notFound.Err()
	}
	return v, nil
}

// GetState returns the market state singleton.
func GetState(r Reader) (*entry.MarketState, error) {
	return query[entry.MarketState](r, keylet.State(), MktNOT_FOUND_STATE)
}

// GetConfig returns the market configuration.
func GetConfig(r Reader) (*entry.Config, error) {
	return query[entry.Config](r, keylet.Config(), MktNOT_FOUND_STATE)
}

// GetListingCount returns the number of active listings.
func GetListingCount(r Reader) (uint64, error) {
	s, err := GetState(r)
	if err != nil {
		return 0, err
	}
	return s.ListingCount, nil
}

// GetAuctionCount returns the number of live auctions.
func GetAuctionCount(r Reader) (uint64, error) {
	s, err := GetState(r)
	if err != nil {
		return 0, err
	}
	return s.AuctionCount, nil
}

// GetListingByKey returns the listing of a token.
func GetListingByKey(r Reader, collection, tokenID string) (*entry.Listing, error) {
	return query[entry.Listing](r, keylet.Listing(collection, tokenID), MktNOT_FOUND_LISTING)
}

// GetAuctionByKey returns the auction of a token, including terminal ones.
func GetAuctionByKey(r Reader, collection, tokenID string) (*entry.Auction, error) {
	return query[entry.Auction](r, keylet.Auction(collection, tokenID), MktNOT_FOUND_AUCTION)
}

// GetDeposit returns the escrow receipt of a token held for owner.
func GetDeposit(r Reader, collection, owner, tokenID string) (*entry.Deposit, error) {
	return query[entry.Deposit](r, keylet.Deposit(collection, owner, tokenID), MktNOT_FOUND_DEPOSIT)
}

// GetTokenStatus returns which mechanism holds a token.
func GetTokenStatus(r Reader, collection, tokenID string) (*entry.TokenStatus, error) {
	return query[entry.TokenStatus](r, keylet.TokenStatus(collection, tokenID), MktNOT_FOUND_TOKEN)
}

// IsAdmin reports whether addr is in the admin set.
func IsAdmin(r Reader, addr string) (bool, error) {
	set, err := query[entry.AdminSet](r, keylet.Admins(), MktNOT_FOUND_STATE)
	if err != nil {
		return false, err
	}
	return NewAuthority(set).IsAdmin(addr), nil
}

// ListAdmins returns the owner and the ordered admin list.
func ListAdmins(r Reader) (*entry.AdminSet, error) {
	return query[entry.AdminSet](r, keylet.Admins(), MktNOT_FOUND_STATE)
}
