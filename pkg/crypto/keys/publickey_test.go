package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/nspcc-dev/neovm/pkg/crypto/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signMessage produces an r||s signature of sha256(msg) with the given key.
func signMessage(t *testing.T, priv *ecdsa.PrivateKey, msg []byte) []byte {
	digest := hash.Sha256(msg)
	r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	require.NoError(t, err)
	sig := make([]byte, SignatureLen)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:])
	return sig
}

func TestSecp256r1SignVerify(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	msg := []byte("sample")
	sig := signMessage(t, priv, msg)
	pub := (*PublicKey)(&priv.PublicKey)

	assert.True(t, VerifySignature(msg, sig, pub.Bytes()))
	assert.True(t, VerifySignature(msg, sig, elliptic.Marshal(elliptic.P256(), priv.X, priv.Y)))
	assert.False(t, VerifySignature([]byte("other"), sig, pub.Bytes()))
	assert.False(t, VerifySignature(msg, sig[:63], pub.Bytes()))
	assert.False(t, VerifySignature(msg, sig, pub.Bytes()[1:]))

	sig[0] ^= 0xff
	assert.False(t, VerifySignature(msg, sig, pub.Bytes()))
}

func TestSecp256k1SignVerify(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	msg := []byte("sample")
	sig := signMessage(t, priv.ToECDSA(), msg)
	pub := priv.PubKey().SerializeCompressed()

	assert.True(t, VerifySecp256k1(msg, sig, pub))
	assert.False(t, VerifySecp256k1([]byte("other"), sig, pub))
	// Wrong curve.
	assert.False(t, VerifySignature(msg, sig, pub))
}

func TestDecodeFromString(t *testing.T) {
	str := "03b209fd4f53a7170ea4444e0cb0a6bb6a53c2bd016926989cf85f9b0fba17a70c"
	pubKey, err := NewPublicKeyFromString(str)
	require.NoError(t, err)
	require.Equal(t, str, hex.EncodeToString(pubKey.Bytes()))

	_, err = NewPublicKeyFromString(str[2:])
	require.Error(t, err)

	_, err = NewPublicKeyFromString("zz")
	require.Error(t, err)
}

func TestInvalidKeys(t *testing.T) {
	for _, b := range [][]byte{
		nil,
		{0x00},
		{0x05, 0x01},
		append([]byte{0x02}, make([]byte, 31)...),
	} {
		_, err := NewPublicKeyFromBytes(b, elliptic.P256())
		assert.ErrorIs(t, err, ErrInvalidPublicKey)
	}
	_, err := NewPublicKeyFromBytes([]byte{0x02, 0x01}, secp256k1.S256())
	assert.ErrorIs(t, err, ErrInvalidPublicKey)
}
