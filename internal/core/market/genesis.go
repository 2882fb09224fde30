package market

import (
	"fmt"

	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/keylet"
)

// GenesisParams seed a new marketplace.
type GenesisParams struct {
	Owner             string
	FeeRecipient      string
	Denom             string
	DefaultRoyaltyPct uint32
	Admins            []string
	Version           string
}

// Genesis writes the singleton state, config and admin set. It fails with
// MktCONFLICT_GENESIS_EXISTS if the marketplace is already initialized.
func Genesis(view LedgerView, p GenesisParams) error {
	exists, err := view.Exists(keylet.State())
	if err != nil {
		return err
	}
	if exists {
		return MktCONFLICT_GENESIS_EXISTS.Err()
	}

	admins := &entry.AdminSet{Owner: p.Owner}
	for _, a := range p.Admins {
		admins.Add(a)
	}
	records := []struct {
		k keylet.Keylet
		e entry.Entry
	}{
		{keylet.State(), &entry.MarketState{Owner: p.Owner, FeeRecipient: p.FeeRecipient, Version: p.Version}},
		{keylet.Config(), &entry.Config{Denom: p.Denom, DefaultRoyaltyPct: p.DefaultRoyaltyPct}},
		{keylet.Admins(), admins},
	}

	table := NewApplyStateTable(view)
	for _, rec := range records {
		data, err := entry.Marshal(rec.e)
		if err != nil {
			return NewError(MktVAL_MALFORMED, "genesis %s: %v", rec.k.Type, err)
		}
		if err := table.Insert(rec.k, data); err != nil {
			return fmt.Errorf("genesis %s: %w", rec.k.Type, err)
		}
	}
	_, err = table.Apply()
	return err
}
