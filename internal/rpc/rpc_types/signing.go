package rpc_types

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/LeJamon/nftmarketd/internal/core/market"
	"github.com/LeJamon/nftmarketd/internal/crypto"
	cache "github.com/patrickmn/go-cache"
)

// DefaultReplayWindow is how long a nonce is remembered.
const DefaultReplayWindow = 10 * time.Minute

var (
	ErrMissingSignature = errors.New("missing signature fields")
	ErrNonceReplayed    = errors.New("nonce replayed")
)

// SigningMessage returns the bytes a submitter signs: the canonical
// command JSON, the attached funds and the nonce, newline separated.
func SigningMessage(cmd market.Command, funds market.Coin, nonce string) ([]byte, error) {
	body, err := market.ToJSON(cmd)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Write(body)
	buf.WriteByte('\n')
	buf.WriteString(funds.Denom)
	buf.WriteByte(':')
	buf.WriteString(funds.Amount.String())
	buf.WriteByte('\n')
	buf.WriteString(nonce)
	return buf.Bytes(), nil
}

// SignedEnvelope carries the signature fields of a submit request.
type SignedEnvelope struct {
	PublicKey string `json:"public_key,omitempty"`
	Nonce     string `json:"nonce,omitempty"`
	Signature string `json:"signature,omitempty"`
}

// IsZero reports whether no signature field is set.
func (e SignedEnvelope) IsZero() bool {
	return e.PublicKey == "" && e.Nonce == "" && e.Signature == ""
}

// Sign fills the envelope for cmd with keys.
func Sign(keys *crypto.KeyPair, cmd market.Command, funds market.Coin, nonce string) (SignedEnvelope, error) {
	msg, err := SigningMessage(cmd, funds, nonce)
	if err != nil {
		return SignedEnvelope{}, err
	}
	sig := keys.Sign(msg)
	return SignedEnvelope{
		PublicKey: keys.PublicKeyHex(),
		Nonce:     nonce,
		Signature: hex.EncodeToString(sig),
	}, nil
}

// Verify checks the envelope over cmd and returns the signer's address.
func (e SignedEnvelope) Verify(cmd market.Command, funds market.Coin) (string, error) {
	if e.PublicKey == "" || e.Nonce == "" || e.Signature == "" {
		return "", ErrMissingSignature
	}
	sig, err := hex.DecodeString(e.Signature)
	if err != nil {
		return "", crypto.ErrInvalidSignature
	}
	msg, err := SigningMessage(cmd, funds, e.Nonce)
	if err != nil {
		return "", err
	}
	return crypto.Verify(e.PublicKey, msg, sig)
}

// ReplayGuard remembers nonces per signer for a fixed window.
type ReplayGuard struct {
	seen *cache.Cache
	ttl  time.Duration
}

// NewReplayGuard creates a guard with the given window.
func NewReplayGuard(window time.Duration) *ReplayGuard {
	if window <= 0 {
		window = DefaultReplayWindow
	}
	return &ReplayGuard{
		seen: cache.New(window, window/2),
		ttl:  window,
	}
}

// Use records nonce for signer, failing if it was seen within the window.
func (g *ReplayGuard) Use(signer, nonce string) error {
	key := strings.Join([]string{signer, nonce}, "/")
	if err := g.seen.Add(key, struct{}{}, g.ttl); err != nil {
		return ErrNonceReplayed
	}
	return nil
}

// Len returns the number of remembered nonces.
func (g *ReplayGuard) Len() int {
	return g.seen.ItemCount()
}
