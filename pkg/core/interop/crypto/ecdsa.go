package crypto

import (
	"github.com/nspcc-dev/neovm/pkg/core/interop"
	"github.com/nspcc-dev/neovm/pkg/crypto/keys"
	"github.com/nspcc-dev/neovm/pkg/vm"
)

// VerifySecp256k1 checks a secp256k1 ECDSA signature of the message, the
// stack is expected to contain the message, the signature and the public
// key (on top).
func VerifySecp256k1(_ *interop.Context, v *vm.VM) error {
	keyb := v.Estack().Pop().Bytes()
	signature := v.Estack().Pop().Bytes()
	msg := v.Estack().Pop().Bytes()
	v.Estack().PushVal(keys.VerifySecp256k1(msg, signature, keyb))
	return nil
}
