// Package collab defines the external collaborators the market instructs:
// the token-custody contract and the bank that moves native currency.
package collab

import (
	"context"
	"errors"

	"github.com/LeJamon/nftmarketd/internal/core/amount"
)

//go:generate mockgen -destination=mock/mock_collab.go -package=mock github.com/LeJamon/nftmarketd/internal/collab Custody,Bank

var (
	// ErrNotOwner is returned when a transfer names a sender that does not
	// hold the token.
	ErrNotOwner = errors.New("sender does not own token")

	// ErrUnknownToken is returned for tokens the custody contract never minted.
	ErrUnknownToken = errors.New("unknown token")

	// ErrInsufficientFunds is returned when a debit exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Custody is the token-custody contract of one or more collections.
type Custody interface {
	// OwnerOf answers the synchronous ownership query.
	OwnerOf(ctx context.Context, collection, tokenID string) (string, error)

	// Transfer moves a token from one account to another.
	Transfer(ctx context.Context, collection, tokenID, from, to string) error
}

// Bank moves native currency in and out of the market account.
type Bank interface {
	// Collect moves amt from an account into market custody.
	Collect(ctx context.Context, from, denom string, amt amount.Amount) error

	// Pay moves amt out of market custody to an account.
	Pay(ctx context.Context, to, denom string, amt amount.Amount) error
}
