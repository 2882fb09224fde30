// Package sim provides an in-memory custody contract and bank. It backs
// the test harness and the server's "sim" custody mode.
package sim

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/LeJamon/nftmarketd/internal/collab"
	"github.com/LeJamon/nftmarketd/internal/core/amount"
)

type tokenKey struct {
	collection string
	tokenID    string
}

// Custody tracks token ownership for any number of collections.
type Custody struct {
	mu     sync.RWMutex
	owners map[tokenKey]string
}

func NewCustody() *Custody {
	return &Custody{owners: make(map[tokenKey]string)}
}

// Mint assigns a new token to owner.
func (c *Custody) Mint(collection, tokenID, owner string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := tokenKey{collection, tokenID}
	if _, exists := c.owners[k]; exists {
		return fmt.Errorf("%s/%s already minted", collection, tokenID)
	}
	c.owners[k] = owner
	return nil
}

func (c *Custody) OwnerOf(ctx context.Context, collection, tokenID string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	owner, ok := c.owners[tokenKey{collection, tokenID}]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", collab.ErrUnknownToken, collection, tokenID)
	}
	return owner, nil
}

func (c *Custody) Transfer(ctx context.Context, collection, tokenID, from, to string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := tokenKey{collection, tokenID}
	owner, ok := c.owners[k]
	if !ok {
		return fmt.Errorf("%w: %s/%s", collab.ErrUnknownToken, collection, tokenID)
	}
	if owner != from {
		return fmt.Errorf("%w: %s/%s held by %s, not %s", collab.ErrNotOwner, collection, tokenID, owner, from)
	}
	c.owners[k] = to
	return nil
}

// TokensOf returns the token ids of a collection held by owner, sorted.
func (c *Custody) TokensOf(collection, owner string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var ids []string
	for k, o := range c.owners {
		if k.collection == collection && o == owner {
			ids = append(ids, k.tokenID)
		}
	}
	sort.Strings(ids)
	return ids
}

type balanceKey struct {
	account string
	denom   string
}

// Bank keeps balances per (account, denom). Collected funds are credited
// to the market account and payments are debited from it.
type Bank struct {
	mu       sync.RWMutex
	market   string
	balances map[balanceKey]amount.Amount
}

func NewBank(marketAddress string) *Bank {
	return &Bank{market: marketAddress, balances: make(map[balanceKey]amount.Amount)}
}

// Fund credits an account out of thin air.
func (b *Bank) Fund(account, denom string, amt amount.Amount) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.credit(balanceKey{account, denom}, amt)
}

// Balance returns the balance of account in denom.
func (b *Bank) Balance(account, denom string) amount.Amount {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.balances[balanceKey{account, denom}]
}

func (b *Bank) Collect(ctx context.Context, from, denom string, amt amount.Amount) error {
	return b.move(from, b.market, denom, amt)
}

func (b *Bank) Pay(ctx context.Context, to, denom string, amt amount.Amount) error {
	return b.move(b.market, to, denom, amt)
}

func (b *Bank) move(from, to, denom string, amt amount.Amount) error {
	if amt.IsZero() {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	src := balanceKey{from, denom}
	rest, err := b.balances[src].Sub(amt)
	if err != nil {
		return fmt.Errorf("%w: %s has %s%s, needs %s", collab.ErrInsufficientFunds, from, b.balances[src], denom, amt)
	}
	dst := balanceKey{to, denom}
	if _, err := b.balances[dst].Add(amt); err != nil {
		return err
	}
	b.balances[src] = rest
	return b.credit(dst, amt)
}

func (b *Bank) credit(k balanceKey, amt amount.Amount) error {
	next, err := b.balances[k].Add(amt)
	if err != nil {
		return err
	}
	b.balances[k] = next
	return nil
}
