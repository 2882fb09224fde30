package state

import (
	"context"

	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
)

// Listings returns every active listing.
func (s *Store) Listings(ctx context.Context) ([]*entry.Listing, error) {
	return scanAll[entry.Listing](ctx, s, entry.TypeListing)
}

// Auctions returns every auction, including terminal ones.
func (s *Store) Auctions(ctx context.Context) ([]*entry.Auction, error) {
	return scanAll[entry.Auction](ctx, s, entry.TypeAuction)
}

// Deposits returns every escrow receipt.
func (s *Store) Deposits(ctx context.Context) ([]*entry.Deposit, error) {
	return scanAll[entry.Deposit](ctx, s, entry.TypeDeposit)
}

// TokenStatuses returns the status of every token held by the market.
func (s *Store) TokenStatuses(ctx context.Context) ([]*entry.TokenStatus, error) {
	return scanAll[entry.TokenStatus](ctx, s, entry.TypeTokenStatus)
}

type decodable[T any] interface {
	*T
	entry.Entry
}

func scanAll[T any, P decodable[T]](ctx context.Context, s *Store, t entry.Type) ([]P, error) {
	var out []P
	err := s.Scan(ctx, t, func(data []byte) error {
		var v T
		p := P(&v)
		if err := entry.Unmarshal(data, p); err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	return out, err
}
