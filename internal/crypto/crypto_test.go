package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyPairFromSeedIsDeterministic(t *testing.T) {
	a, err := KeyPairFromSeed([]byte("alice"))
	require.NoError(t, err)
	b, err := KeyPairFromSeed([]byte("alice"))
	require.NoError(t, err)
	c, err := KeyPairFromSeed([]byte("bob"))
	require.NoError(t, err)

	assert.Equal(t, a.Address(), b.Address())
	assert.NotEqual(t, a.Address(), c.Address())
	assert.True(t, IsValidAddress(a.Address()))
}

func TestAddressRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	id, err := DecodeAddress(kp.Address())
	require.NoError(t, err)

	again, err := EncodeAddress(id)
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), again)
	assert.Equal(t, AddressPrefix+"1", kp.Address()[:len(AddressPrefix)+1])
}

func TestInvalidAddresses(t *testing.T) {
	kp, err := KeyPairFromSeed([]byte("carol"))
	require.NoError(t, err)
	addr := kp.Address()

	tests := []struct {
		name string
		addr string
	}{
		{"empty", ""},
		{"garbage", "not-an-address"},
		{"bad checksum", addr[:len(addr)-1] + flipChar(addr[len(addr)-1])},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, IsValidAddress(tt.addr))
		})
	}

	zero, err := EncodeAddress([AccountIDSize]byte{})
	require.NoError(t, err)
	assert.False(t, IsValidAddress(zero))
}

func TestSignAndVerify(t *testing.T) {
	kp, err := KeyPairFromSeed([]byte("signer"))
	require.NoError(t, err)

	msg := []byte(`{"command":"Bid"}`)
	sig := kp.Sign(msg)

	addr, err := Verify(kp.PublicKeyHex(), msg, sig)
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), addr)

	_, err = Verify(kp.PublicKeyHex(), []byte("tampered"), sig)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	loaded, err := KeyPairFromHex(kp.PrivateKeyHex())
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), loaded.Address())
}

func flipChar(c byte) string {
	if c == 'q' {
		return "p"
	}
	return "q"
}
