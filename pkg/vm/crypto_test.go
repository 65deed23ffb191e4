package vm

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/nspcc-dev/neovm/pkg/crypto/hash"
	"github.com/nspcc-dev/neovm/pkg/crypto/keys"
	"github.com/nspcc-dev/neovm/pkg/vm/opcode"
	"github.com/nspcc-dev/neovm/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type testKey struct {
	priv *ecdsa.PrivateKey
	pub  []byte
}

func newTestKeys(t *testing.T, n int) []testKey {
	res := make([]testKey, n)
	for i := range res {
		priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)
		res[i] = testKey{
			priv: priv,
			pub:  elliptic.MarshalCompressed(elliptic.P256(), priv.X, priv.Y),
		}
	}
	return res
}

func (k testKey) sign(t *testing.T, msg []byte) []byte {
	digest := hash.Sha256(msg)
	r, s, err := ecdsa.Sign(rand.Reader, k.priv, digest[:])
	require.NoError(t, err)
	sig := make([]byte, keys.SignatureLen)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:])
	return sig
}

func TestHashes(t *testing.T) {
	data := []byte("hello")
	sha256 := hash.Sha256(data)
	hash160 := hash.Hash160(data)
	hash256 := hash.Hash256(data)

	t.Run("SHA1", getTestFuncForVM(makeProgram(opcode.SHA1), hash.Sha1(data), data))
	t.Run("SHA256", getTestFuncForVM(makeProgram(opcode.SHA256), sha256.BytesBE(), data))
	t.Run("HASH160", getTestFuncForVM(makeProgram(opcode.HASH160), hash160.BytesBE(), data))
	t.Run("HASH256", getTestFuncForVM(makeProgram(opcode.HASH256), hash256.BytesBE(), data))
	t.Run("SHA1 of array", getTestFuncForVM(makeProgram(opcode.SHA1), nil, stackitem.NewArray(nil)))
}

func TestVERIFY(t *testing.T) {
	k := newTestKeys(t, 1)[0]
	msg := []byte("message")
	sig := k.sign(t, msg)
	prog := makeProgram(opcode.VERIFY)

	t.Run("good", getTestFuncForVM(prog, true, msg, sig, k.pub))
	t.Run("other message", getTestFuncForVM(prog, false, []byte("other"), sig, k.pub))
	t.Run("bad key", getTestFuncForVM(prog, false, msg, sig, k.pub[1:]))
	t.Run("short signature", getTestFuncForVM(prog, false, msg, sig[:63], k.pub))
	t.Run("not enough arguments", getTestFuncForVM(prog, nil, sig, k.pub))
}

func TestCHECKSIG(t *testing.T) {
	k := newTestKeys(t, 1)[0]
	msg := []byte("container")
	sig := k.sign(t, msg)
	prog := makeProgram(opcode.CHECKSIG)
	provider := WithMessageProvider(MessageProviderFunc(func(uint32) []byte { return msg }))

	t.Run("good", func(t *testing.T) {
		v := load(prog, provider)
		v.estack.PushVal(sig)
		v.estack.PushVal(k.pub)
		runVM(t, v)
		checkStack(t, v, true)
	})
	t.Run("wrong key", func(t *testing.T) {
		other := newTestKeys(t, 1)[0]
		v := load(prog, provider)
		v.estack.PushVal(sig)
		v.estack.PushVal(other.pub)
		runVM(t, v)
		checkStack(t, v, false)
	})
	t.Run("no message", func(t *testing.T) {
		v := load(prog)
		v.estack.PushVal(sig)
		v.estack.PushVal(k.pub)
		checkVMFailed(t, v)
		require.ErrorIs(t, v.FaultError(), errNoMessage)
	})
}

func TestCHECKMULTISIG(t *testing.T) {
	ks := newTestKeys(t, 3)
	msg := []byte("multisig")
	sig0 := ks[0].sign(t, msg)
	sig2 := ks[2].sign(t, msg)
	prog := makeProgram(opcode.CHECKMULTISIG)
	provider := WithMessageProvider(MessageProviderFunc(func(uint32) []byte { return msg }))

	run := func(t *testing.T, expected any, args ...any) {
		v := load(prog, provider)
		for i := range args {
			v.estack.PushVal(args[i])
		}
		if expected == nil {
			checkVMFailed(t, v)
			return
		}
		runVM(t, v)
		checkStack(t, v, expected)
	}
	pubArr := stackitem.Make([]any{ks[0].pub, ks[1].pub, ks[2].pub})

	t.Run("counted", func(t *testing.T) {
		// Keys and signatures are taken from the top, so the key and the
		// signature pushed first are the last ones in their lists.
		run(t, true, sig0, sig2, 2, ks[0].pub, ks[1].pub, ks[2].pub, 3)
	})
	t.Run("arrays", func(t *testing.T) {
		run(t, true, stackitem.Make([]any{sig0, sig2}), pubArr)
	})
	t.Run("wrong order", func(t *testing.T) {
		run(t, false, stackitem.Make([]any{sig2, sig0}), pubArr)
	})
	t.Run("single of many", func(t *testing.T) {
		run(t, true, stackitem.Make([]any{sig2}), pubArr)
	})
	t.Run("foreign signature", func(t *testing.T) {
		other := newTestKeys(t, 1)[0].sign(t, msg)
		run(t, false, stackitem.Make([]any{sig0, other}), pubArr)
	})
	t.Run("more signatures than keys", func(t *testing.T) {
		run(t, nil, stackitem.Make([]any{sig0, sig0}), stackitem.Make([]any{ks[0].pub}))
	})
	t.Run("zero keys", func(t *testing.T) {
		run(t, nil, sig0, 1, 0)
	})
	t.Run("empty key array", func(t *testing.T) {
		run(t, nil, sig0, 1, stackitem.NewArray(nil))
	})
	t.Run("count too big", func(t *testing.T) {
		run(t, nil, sig0, 1, ks[0].pub, 5)
	})
	t.Run("no message", func(t *testing.T) {
		v := load(prog)
		v.estack.PushVal(stackitem.Make([]any{sig0}))
		v.estack.PushVal(pubArr)
		checkVMFailed(t, v)
		require.ErrorIs(t, v.FaultError(), errNoMessage)
	})
}
