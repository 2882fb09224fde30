package keylet

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
	crypto "github.com/LeJamon/nftmarketd/internal/crypto/common"
)

// Space identifiers for keylet generation
const (
	spaceState       uint16 = 'S' // Market state (singleton)
	spaceConfig      uint16 = 'C' // Config (singleton)
	spaceAdmins      uint16 = 'A' // Admin set (singleton)
	spaceListing     uint16 = 'L' // Listing by (collection, token)
	spaceAuction     uint16 = 'a' // Auction by (collection, token)
	spaceDeposit     uint16 = 'd' // Deposit by (collection, owner, token)
	spaceTokenStatus uint16 = 't' // Token status by (collection, token)
)

// Keylet represents an addressable location in the market state.
// It combines a type identifier with a 256-bit key.
type Keylet struct {
	Type entry.Type
	Key  [32]byte
}

func (k Keylet) String() string {
	return k.Type.String() + ":" + hex.EncodeToString(k.Key[:])
}

// indexHash computes a keylet key by hashing the space and provided data.
// Each variable-length part is length-prefixed so ("ab","c") and ("a","bc")
// never collide.
func indexHash(space uint16, parts ...string) [32]byte {
	inputs := make([][]byte, 0, 2*len(parts)+1)

	spaceBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(spaceBytes, space)
	inputs = append(inputs, spaceBytes)

	for _, p := range parts {
		lenBytes := make([]byte, 4)
		binary.BigEndian.PutUint32(lenBytes, uint32(len(p)))
		inputs = append(inputs, lenBytes, []byte(p))
	}

	return crypto.Sha512Half(inputs...)
}

// State returns the keylet for the singleton market state.
func State() Keylet {
	return Keylet{Type: entry.TypeMarketState, Key: indexHash(spaceState)}
}

// Config returns the keylet for the singleton configuration.
func Config() Keylet {
	return Keylet{Type: entry.TypeConfig, Key: indexHash(spaceConfig)}
}

// Admins returns the keylet for the singleton admin set.
func Admins() Keylet {
	return Keylet{Type: entry.TypeAdminSet, Key: indexHash(spaceAdmins)}
}

// Listing returns the keylet for the listing of a token.
func Listing(collection, tokenID string) Keylet {
	return Keylet{Type: entry.TypeListing, Key: indexHash(spaceListing, collection, tokenID)}
}

// Auction returns the keylet for the auction of a token.
func Auction(collection, tokenID string) Keylet {
	return Keylet{Type: entry.TypeAuction, Key: indexHash(spaceAuction, collection, tokenID)}
}

// Deposit returns the keylet for the escrow receipt of a token held on
// behalf of owner.
func Deposit(collection, owner, tokenID string) Keylet {
	return Keylet{Type: entry.TypeDeposit, Key: indexHash(spaceDeposit, collection, owner, tokenID)}
}

// TokenStatus returns the keylet for the per-token status record.
func TokenStatus(collection, tokenID string) Keylet {
	return Keylet{Type: entry.TypeTokenStatus, Key: indexHash(spaceTokenStatus, collection, tokenID)}
}
