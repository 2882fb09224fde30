package entry

import (
	"fmt"
)

// Type identifies the kind of record stored under a keylet.
type Type uint16

const (
	TypeMarketState Type = 0x0053 // 'S' singleton
	TypeConfig      Type = 0x0043 // 'C' singleton
	TypeAdminSet    Type = 0x0041 // 'A' singleton
	TypeListing     Type = 0x004c // 'L'
	TypeAuction     Type = 0x0061 // 'a'
	TypeDeposit     Type = 0x0064 // 'd'
	TypeTokenStatus Type = 0x0074 // 't'
)

// String returns the string representation of the Type
func (t Type) String() string {
	switch t {
	case TypeMarketState:
		return "MarketState"
	case TypeConfig:
		return "Config"
	case TypeAdminSet:
		return "AdminSet"
	case TypeListing:
		return "Listing"
	case TypeAuction:
		return "Auction"
	case TypeDeposit:
		return "Deposit"
	case TypeTokenStatus:
		return "TokenStatus"
	default:
		return fmt.Sprintf("Unknown(%#x)", uint16(t))
	}
}

// Entry defines the interface for all ledger entries
type Entry interface {
	Type() Type
	Validate() error
}
