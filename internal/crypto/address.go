package crypto

import (
	"errors"
	"fmt"

	"github.com/decred/dcrd/bech32"
)

// AddressPrefix is the human readable part of every marketplace address.
const AddressPrefix = "nft"

var (
	// ErrInvalidAddress is returned for strings that do not decode to an
	// account ID under AddressPrefix.
	ErrInvalidAddress = errors.New("invalid address")
)

// EncodeAddress renders an account ID in its bech32 text form.
func EncodeAddress(id [AccountIDSize]byte) (string, error) {
	return bech32.EncodeFromBase256(AddressPrefix, id[:])
}

// DecodeAddress parses a bech32 address back into its account ID.
func DecodeAddress(addr string) ([AccountIDSize]byte, error) {
	var id [AccountIDSize]byte

	hrp, data, err := bech32.DecodeToBase256(addr)
	if err != nil {
		return id, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if hrp != AddressPrefix {
		return id, fmt.Errorf("%w: prefix %q", ErrInvalidAddress, hrp)
	}
	if len(data) != AccountIDSize {
		return id, fmt.Errorf("%w: %d byte payload", ErrInvalidAddress, len(data))
	}
	copy(id[:], data)
	return id, nil
}

// IsValidAddress reports whether addr decodes to a non-zero account ID.
func IsValidAddress(addr string) bool {
	id, err := DecodeAddress(addr)
	return err == nil && !IsZeroAccountID(id)
}

// AddressFromPublicKey derives the address owning a compressed public key.
func AddressFromPublicKey(publicKey []byte) (string, error) {
	return EncodeAddress(CalcAccountID(publicKey))
}
