package testing

import (
	"fmt"

	"github.com/LeJamon/nftmarketd/internal/crypto"
)

// Account is a test account with a deterministic key pair.
type Account struct {
	// Name is a human-readable identifier for the account (used for debugging).
	Name string

	// Address is the bech32 account address.
	Address string

	// Keys signs submissions made on the account's behalf.
	Keys *crypto.KeyPair
}

// NewAccount creates a test account whose key pair is derived from name.
// Using the same name will always produce the same account.
func NewAccount(name string) *Account {
	keys, err := crypto.KeyPairFromSeed([]byte("nftmarketd test account " + name))
	if err != nil {
		panic("failed to derive keypair for account " + name + ": " + err.Error())
	}
	return &Account{Name: name, Address: keys.Address(), Keys: keys}
}

// Human returns the address.
func (a *Account) Human() string {
	return a.Address
}

func (a *Account) String() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.Address)
}
