package testing

import (
	"github.com/LeJamon/nftmarketd/internal/core/amount"
	"github.com/LeJamon/nftmarketd/internal/core/market"
	"github.com/LeJamon/nftmarketd/internal/core/market/admin"
	"github.com/LeJamon/nftmarketd/internal/core/market/auction"
	"github.com/LeJamon/nftmarketd/internal/core/market/listing"
)

// Submission is a command ready to be applied for a caller.
type Submission struct {
	env    *TestEnv
	caller *Account
	cmd    market.Command
	funds  *market.Coin
	// autoFunds computes the funds to attach when none were set.
	autoFunds func() amount.Amount
}

func (e *TestEnv) submission(caller *Account, cmd market.Command) *Submission {
	return &Submission{env: e, caller: caller, cmd: cmd}
}

// Funds attaches units of the market denomination.
func (s *Submission) Funds(units amount.Amount) *Submission {
	s.funds = &market.Coin{Denom: s.env.denom, Amount: units}
	return s
}

// Coin attaches funds of any denomination.
func (s *Submission) Coin(denom string, units amount.Amount) *Submission {
	s.funds = &market.Coin{Denom: denom, Amount: units}
	return s
}

// NoFunds attaches nothing, overriding any automatic funds.
func (s *Submission) NoFunds() *Submission {
	s.funds = &market.Coin{}
	return s
}

// Command returns the built command.
func (s *Submission) Command() market.Command {
	return s.cmd
}

// Submit applies the command.
func (s *Submission) Submit() *Result {
	s.env.t.Helper()
	funds := market.Coin{}
	switch {
	case s.funds != nil:
		funds = *s.funds
	case s.autoFunds != nil:
		if units := s.autoFunds(); !units.IsZero() {
			funds = market.Coin{Denom: s.env.denom, Amount: units}
		}
	}
	return s.env.Apply(s.caller, s.cmd, funds)
}

// ListBuilder builds a ListForSale command.
type ListBuilder struct {
	*Submission
	cmd *listing.ListForSale
}

// List starts a listing of a token at price 1.
func (e *TestEnv) List(seller *Account, collection, tokenID string) *ListBuilder {
	cmd := listing.NewListForSale(collection, tokenID, 1)
	return &ListBuilder{Submission: e.submission(seller, cmd), cmd: cmd}
}

func (b *ListBuilder) Price(p amount.Amount) *ListBuilder {
	b.cmd.Price = p
	return b
}

func (b *ListBuilder) Royalty(pct uint32) *ListBuilder {
	b.cmd.WithRoyalty(pct)
	return b
}

// For deposits on behalf of owner; the caller must be the collection.
func (b *ListBuilder) For(owner *Account) *ListBuilder {
	b.cmd.Owner = owner.Address
	return b
}

// CancelListing cancels a listing.
func (e *TestEnv) CancelListing(caller *Account, collection, tokenID string) *Submission {
	return e.submission(caller, listing.NewCancelListing(collection, tokenID))
}

// Buy purchases a listing. The listing price is attached unless funds are
// set explicitly.
func (e *TestEnv) Buy(buyer *Account, collection, tokenID string) *Submission {
	s := e.submission(buyer, listing.NewBuy(collection, tokenID))
	s.autoFunds = func() amount.Amount {
		if l := e.Listing(collection, tokenID); l != nil {
			return l.Price
		}
		return 0
	}
	return s
}

// BuyBatch purchases several listings. The sum of their prices is attached
// unless funds are set explicitly.
func (e *TestEnv) BuyBatch(buyer *Account, asks ...listing.Ask) *Submission {
	s := e.submission(buyer, listing.NewBuyBatch(asks...))
	s.autoFunds = func() amount.Amount {
		var total amount.Amount
		for _, ask := range asks {
			if l := e.Listing(ask.Collection, ask.TokenID); l != nil {
				total, _ = total.Add(l.Price)
			}
		}
		return total
	}
	return s
}

// AuctionBuilder builds a CreateAuction command.
type AuctionBuilder struct {
	*Submission
	cmd *auction.CreateAuction
}

// CreateAuction starts an auction of a token with start price 10, step 1,
// and a one hour window opening now.
func (e *TestEnv) CreateAuction(seller *Account, collection, tokenID string) *AuctionBuilder {
	now := e.Now()
	cmd := auction.NewCreateAuction(collection, tokenID, 10, 1, now, now+3600)
	return &AuctionBuilder{Submission: e.submission(seller, cmd), cmd: cmd}
}

func (b *AuctionBuilder) StartPrice(p amount.Amount) *AuctionBuilder {
	b.cmd.StartPrice = p
	return b
}

func (b *AuctionBuilder) Step(step amount.Amount) *AuctionBuilder {
	b.cmd.MinBidStep = step
	return b
}

// Window sets the start and end times in unix seconds.
func (b *AuctionBuilder) Window(start, end uint64) *AuctionBuilder {
	b.cmd.StartTime = start
	b.cmd.EndTime = end
	return b
}

func (b *AuctionBuilder) Royalty(pct uint32) *AuctionBuilder {
	b.cmd.WithRoyalty(pct)
	return b
}

// For deposits on behalf of owner; the caller must be the collection.
func (b *AuctionBuilder) For(owner *Account) *AuctionBuilder {
	b.cmd.Owner = owner.Address
	return b
}

// StartAuction opens bidding.
func (e *TestEnv) StartAuction(caller *Account, collection, tokenID string) *Submission {
	return e.submission(caller, auction.NewStartAuction(collection, tokenID))
}

// CancelAuction cancels an auction that has not started.
func (e *TestEnv) CancelAuction(caller *Account, collection, tokenID string) *Submission {
	return e.submission(caller, auction.NewCancelAuction(collection, tokenID))
}

// Bid places a bid, attaching its price unless funds are set explicitly.
func (e *TestEnv) Bid(bidder *Account, collection, tokenID string, price amount.Amount) *Submission {
	s := e.submission(bidder, auction.NewBid(collection, tokenID, price))
	s.autoFunds = func() amount.Amount { return price }
	return s
}

// Claim settles an auction that has ended.
func (e *TestEnv) Claim(caller *Account, collection, tokenID string) *Submission {
	return e.submission(caller, auction.NewClaimAuction(collection, tokenID))
}

// AddAdmin grants admin rights.
func (e *TestEnv) AddAdmin(caller, addr *Account) *Submission {
	return e.submission(caller, admin.NewAddAdmin(addr.Address))
}

// RemoveAdmin revokes admin rights.
func (e *TestEnv) RemoveAdmin(caller, addr *Account) *Submission {
	return e.submission(caller, admin.NewRemoveAdmin(addr.Address))
}

// UpdateConfig submits a config update.
func (e *TestEnv) UpdateConfig(caller *Account, update *admin.UpdateConfig) *Submission {
	return e.submission(caller, update)
}
