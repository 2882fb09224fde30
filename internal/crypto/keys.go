package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

var (
	// ErrInvalidPrivateKey is returned for malformed private key material.
	ErrInvalidPrivateKey = errors.New("invalid private key")
	// ErrInvalidPublicKey is returned for keys that do not parse on the curve.
	ErrInvalidPublicKey = errors.New("invalid public key")
	// ErrInvalidSignature is returned when a signature does not verify.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrRandomGeneration is returned when the system CSPRNG fails.
	ErrRandomGeneration = errors.New("failed to generate random bytes")
)

// KeyPair is a secp256k1 key pair together with its derived address.
type KeyPair struct {
	private *btcec.PrivateKey
	public  *btcec.PublicKey
	address string
}

// GenerateKeyPair creates a key pair from the system CSPRNG.
func GenerateKeyPair() (*KeyPair, error) {
	seed := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, seed); err != nil {
		return nil, ErrRandomGeneration
	}
	return KeyPairFromSeed(seed)
}

// KeyPairFromSeed deterministically derives a key pair from arbitrary seed
// bytes. The seed is hashed so any length is accepted.
func KeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidPrivateKey
	}
	digest := sha256.Sum256(seed)
	return keyPairFromScalar(digest[:])
}

// KeyPairFromHex loads a key pair from a hex encoded 32-byte private key.
func KeyPairFromHex(privateKeyHex string) (*KeyPair, error) {
	raw, err := hex.DecodeString(privateKeyHex)
	if err != nil || len(raw) != 32 {
		return nil, ErrInvalidPrivateKey
	}
	return keyPairFromScalar(raw)
}

func keyPairFromScalar(scalar []byte) (*KeyPair, error) {
	priv, pub := btcec.PrivKeyFromBytes(scalar)
	if priv == nil || priv.Key.IsZero() {
		return nil, ErrInvalidPrivateKey
	}
	addr, err := AddressFromPublicKey(pub.SerializeCompressed())
	if err != nil {
		return nil, err
	}
	return &KeyPair{private: priv, public: pub, address: addr}, nil
}

func (k *KeyPair) Address() string {
	return k.address
}

// PublicKeyHex returns the compressed public key as hex.
func (k *KeyPair) PublicKeyHex() string {
	return hex.EncodeToString(k.public.SerializeCompressed())
}

// PrivateKeyHex returns the raw 32-byte private key as hex.
func (k *KeyPair) PrivateKeyHex() string {
	return hex.EncodeToString(k.private.Serialize())
}

// Sign returns a DER encoded ECDSA signature over SHA-256(message).
func (k *KeyPair) Sign(message []byte) []byte {
	digest := sha256.Sum256(message)
	return ecdsa.Sign(k.private, digest[:]).Serialize()
}

// Verify checks a DER signature over SHA-256(message) against a hex
// compressed public key and returns the signer's address.
func Verify(publicKeyHex string, message, signature []byte) (string, error) {
	raw, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return "", ErrInvalidPublicKey
	}
	pub, err := btcec.ParsePubKey(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	digest := sha256.Sum256(message)
	if !sig.Verify(digest[:], pub) {
		return "", ErrInvalidSignature
	}
	return AddressFromPublicKey(pub.SerializeCompressed())
}
