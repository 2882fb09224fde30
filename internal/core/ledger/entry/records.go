package entry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/LeJamon/nftmarketd/internal/core/amount"
)

var (
	ErrMissingField  = errors.New("missing required field")
	ErrInvalidStatus = errors.New("invalid status")
)

// MarketState is the singleton holding ownership and the active counts.
type MarketState struct {
	Owner        string `codec:"owner" json:"owner"`
	FeeRecipient string `codec:"fee_recipient" json:"fee_recipient"`
	ListingCount uint64 `codec:"listing_count" json:"listing_count"`
	AuctionCount uint64 `codec:"auction_count" json:"auction_count"`
	Version      string `codec:"version" json:"version"`
}

func (s *MarketState) Type() Type { return TypeMarketState }

func (s *MarketState) Validate() error {
	if s.Owner == "" {
		return fmt.Errorf("%w: owner", ErrMissingField)
	}
	if s.FeeRecipient == "" {
		return fmt.Errorf("%w: fee_recipient", ErrMissingField)
	}
	return nil
}

// Config holds the payment denomination and the royalty applied when a
// listing does not name one.
type Config struct {
	Denom             string `codec:"denom" json:"denom"`
	DefaultRoyaltyPct uint32 `codec:"default_royalty_pct" json:"default_royalty_pct"`
}

func (c *Config) Type() Type { return TypeConfig }

func (c *Config) Validate() error {
	if c.Denom == "" {
		return fmt.Errorf("%w: denom", ErrMissingField)
	}
	if c.DefaultRoyaltyPct > amount.MaxRoyaltyPct {
		return fmt.Errorf("default royalty %d above %d", c.DefaultRoyaltyPct, amount.MaxRoyaltyPct)
	}
	return nil
}

// AdminSet is the ordered admin list plus the immutable owner.
type AdminSet struct {
	Owner  string   `codec:"owner" json:"owner"`
	Admins []string `codec:"admins" json:"admins"`
}

func (a *AdminSet) Type() Type { return TypeAdminSet }

func (a *AdminSet) Validate() error {
	if a.Owner == "" {
		return fmt.Errorf("%w: owner", ErrMissingField)
	}
	return nil
}

func (a *AdminSet) Contains(addr string) bool {
	return slices.Contains(a.Admins, addr)
}

// Add appends addr and reports whether it was absent.
func (a *AdminSet) Add(addr string) bool {
	if a.Contains(addr) {
		return false
	}
	a.Admins = append(a.Admins, addr)
	return true
}

// Remove drops addr and reports whether it was present.
func (a *AdminSet) Remove(addr string) bool {
	i := slices.Index(a.Admins, addr)
	if i < 0 {
		return false
	}
	a.Admins = slices.Delete(a.Admins, i, i+1)
	return true
}

// Listing is a fixed-price ask for one token.
type Listing struct {
	Seller     string        `codec:"seller" json:"seller"`
	Collection string        `codec:"collection" json:"collection"`
	TokenID    string        `codec:"token_id" json:"token_id"`
	Price      amount.Amount `codec:"price" json:"price"`
	RoyaltyPct uint32        `codec:"royalty_pct" json:"royalty_pct"`
}

func (l *Listing) Type() Type { return TypeListing }

func (l *Listing) Validate() error {
	if l.Seller == "" || l.Collection == "" || l.TokenID == "" {
		return fmt.Errorf("%w: seller, collection and token_id", ErrMissingField)
	}
	return nil
}

// AuctionStatus is the lifecycle position of an auction.
type AuctionStatus uint8

const (
	AuctionWaiting AuctionStatus = iota + 1
	AuctionInProgress
	AuctionEnded
	AuctionCancelled
)

func (s AuctionStatus) String() string {
	switch s {
	case AuctionWaiting:
		return "WaitingAuction"
	case AuctionInProgress:
		return "InAuction"
	case AuctionEnded:
		return "Ended"
	case AuctionCancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("AuctionStatus(%d)", uint8(s))
	}
}

// IsTerminal reports whether no transition leaves s.
func (s AuctionStatus) IsTerminal() bool {
	return s == AuctionEnded || s == AuctionCancelled
}

func (s AuctionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *AuctionStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "WaitingAuction":
		*s = AuctionWaiting
	case "InAuction":
		*s = AuctionInProgress
	case "Ended":
		*s = AuctionEnded
	case "Cancelled":
		*s = AuctionCancelled
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, text)
	}
	return nil
}

// Auction is an English auction over one token. Times are unix seconds.
type Auction struct {
	Seller        string        `codec:"seller" json:"seller"`
	Collection    string        `codec:"collection" json:"collection"`
	TokenID       string        `codec:"token_id" json:"token_id"`
	StartPrice    amount.Amount `codec:"start_price" json:"start_price"`
	MinBidStep    amount.Amount `codec:"min_bid_step" json:"min_bid_step"`
	StartTime     uint64        `codec:"start_time" json:"start_time"`
	EndTime       uint64        `codec:"end_time" json:"end_time"`
	CurrentPrice  amount.Amount `codec:"current_price" json:"current_price"`
	CurrentBidder string        `codec:"current_bidder" json:"current_bidder,omitempty"`
	Status        AuctionStatus `codec:"status" json:"status"`
	RoyaltyPct    uint32        `codec:"royalty_pct" json:"royalty_pct"`
}

func (a *Auction) Type() Type { return TypeAuction }

func (a *Auction) Validate() error {
	if a.Seller == "" || a.Collection == "" || a.TokenID == "" {
		return fmt.Errorf("%w: seller, collection and token_id", ErrMissingField)
	}
	if a.Status < AuctionWaiting || a.Status > AuctionCancelled {
		return fmt.Errorf("%w: %d", ErrInvalidStatus, a.Status)
	}
	return nil
}

// HasBidder reports whether any bid has been accepted.
func (a *Auction) HasBidder() bool {
	return a.CurrentBidder != ""
}

// Deposit records that the marketplace holds a token on behalf of Owner.
type Deposit struct {
	Owner      string `codec:"owner" json:"owner"`
	Collection string `codec:"collection" json:"collection"`
	TokenID    string `codec:"token_id" json:"token_id"`
}

func (d *Deposit) Type() Type { return TypeDeposit }

func (d *Deposit) Validate() error {
	if d.Owner == "" || d.Collection == "" || d.TokenID == "" {
		return fmt.Errorf("%w: owner, collection and token_id", ErrMissingField)
	}
	return nil
}

// TokenState says which mechanism currently holds a token. An absent
// TokenStatus record means the token is free.
type TokenState uint8

const (
	TokenForSale TokenState = iota + 1
	TokenInAuction
)

func (s TokenState) String() string {
	switch s {
	case TokenForSale:
		return "ForSale"
	case TokenInAuction:
		return "InAuction"
	default:
		return "Free"
	}
}

func (s TokenState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *TokenState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ForSale":
		*s = TokenForSale
	case "InAuction":
		*s = TokenInAuction
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, text)
	}
	return nil
}

// TokenStatus is the single per-token record that keeps a token from being
// listed and auctioned at the same time.
type TokenStatus struct {
	Collection string     `codec:"collection" json:"collection"`
	TokenID    string     `codec:"token_id" json:"token_id"`
	Owner      string     `codec:"owner" json:"owner"`
	State      TokenState `codec:"state" json:"state"`
}

func (t *TokenStatus) Type() Type { return TypeTokenStatus }

func (t *TokenStatus) Validate() error {
	if t.Collection == "" || t.TokenID == "" || t.Owner == "" {
		return fmt.Errorf("%w: collection, token_id and owner", ErrMissingField)
	}
	if t.State != TokenForSale && t.State != TokenInAuction {
		return fmt.Errorf("%w: token state %d", ErrInvalidStatus, t.State)
	}
	return nil
}
