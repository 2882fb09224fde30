package market

import (
	"context"

	"github.com/LeJamon/nftmarketd/internal/core/amount"
)

// Coin is an amount of one denomination.
type Coin struct {
	Denom  string        `json:"denom"`
	Amount amount.Amount `json:"amount"`
}

// IsZero reports whether no funds are attached.
func (c Coin) IsZero() bool {
	return c.Amount.IsZero()
}

// Env is the execution environment the host supplies with every command.
type Env struct {
	// Caller is the authenticated sender of the command
	Caller string `json:"caller"`

	// Now is the current time in unix seconds
	Now uint64 `json:"now"`

	// Funds are the native-currency funds attached to the command
	Funds Coin `json:"funds"`
}

// OwnerQuerier answers synchronous ownership reads from the token-custody
// collaborator.
type OwnerQuerier interface {
	OwnerOf(ctx context.Context, collection, tokenID string) (string, error)
}
