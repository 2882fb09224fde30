package market

import "github.com/LeJamon/nftmarketd/internal/core/ledger/keylet"

// Reader provides read access to market state. Read returns nil data and
// a nil error for absent entries.
type Reader interface {
	Read(k keylet.Keylet) ([]byte, error)
	Exists(k keylet.Keylet) (bool, error)
}

// LedgerView provides read/write access to market state
type LedgerView interface {
	Reader

	// Insert adds a new entry
	Insert(k keylet.Keylet, data []byte) error

	// Update modifies an existing entry
	Update(k keylet.Keylet, data []byte) error

	// Erase removes an entry
	Erase(k keylet.Keylet) error
}

// Change is one staged mutation handed to a Committer.
type Change struct {
	Key    keylet.Keylet
	Action Action
	Data   []byte
}

// Committer is implemented by views that can apply a set of changes
// atomically. The apply state table prefers it over individual writes.
type Committer interface {
	Commit(changes []Change) error
}
