package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/nspcc-dev/neovm/pkg/core/interop"
	"github.com/nspcc-dev/neovm/pkg/crypto/hash"
	"github.com/nspcc-dev/neovm/pkg/crypto/keys"
	"github.com/nspcc-dev/neovm/pkg/vm"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func signSecp256k1(t *testing.T, priv *secp256k1.PrivateKey, msg []byte) []byte {
	digest := hash.Sha256(msg)
	r, s, err := ecdsa.Sign(rand.Reader, priv.ToECDSA(), digest[:])
	require.NoError(t, err)
	sig := make([]byte, keys.SignatureLen)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:])
	return sig
}

func TestVerifySecp256k1(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	pub := priv.PubKey().SerializeCompressed()
	msg := []byte("NEO")
	sig := signSecp256k1(t, priv, msg)
	ic := interop.NewContext(zaptest.NewLogger(t))

	runCase := func(t *testing.T, msg, sig, pub []byte, expected bool) {
		v := vm.New()
		v.Estack().PushVal(msg)
		v.Estack().PushVal(sig)
		v.Estack().PushVal(pub)
		require.NoError(t, VerifySecp256k1(ic, v))
		require.Equal(t, 1, v.Estack().Len())
		require.Equal(t, expected, v.Estack().Pop().Bool())
	}

	t.Run("good", func(t *testing.T) {
		runCase(t, msg, sig, pub, true)
	})
	t.Run("uncompressed key", func(t *testing.T) {
		runCase(t, msg, sig, priv.PubKey().SerializeUncompressed(), true)
	})
	t.Run("other message", func(t *testing.T) {
		runCase(t, []byte("GAS"), sig, pub, false)
	})
	t.Run("bad key", func(t *testing.T) {
		runCase(t, msg, sig, pub[1:], false)
	})
	t.Run("bad signature", func(t *testing.T) {
		runCase(t, msg, sig[1:], pub, false)
	})
}
