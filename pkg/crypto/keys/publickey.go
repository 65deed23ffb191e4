/*
Package keys implements public key decoding and signature verification for
the curves scripts can check signatures against: secp256r1 (used by
CHECKSIG, VERIFY and CHECKMULTISIG) and secp256k1 (exposed to scripts via
an interop method).
*/
package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/nspcc-dev/neovm/pkg/crypto/hash"
)

// SignatureLen is the length of a standard signature (r||s, 32 bytes each).
const SignatureLen = 64

// ErrInvalidPublicKey is returned when the key can't be decoded.
var ErrInvalidPublicKey = errors.New("invalid public key")

// PublicKey represents a public key and provides a high level
// API around the X/Y point.
type PublicKey ecdsa.PublicKey

// NewPublicKeyFromBytes returns a public key decoded from the given bytes in
// compressed (33 bytes) or uncompressed (65 bytes) form. Curve is either
// elliptic.P256() or secp256k1.S256().
func NewPublicKeyFromBytes(data []byte, curve elliptic.Curve) (*PublicKey, error) {
	if curve == secp256k1.S256() {
		pk, err := secp256k1.ParsePubKey(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
		}
		return (*PublicKey)(pk.ToECDSA()), nil
	}

	var x, y *big.Int
	switch {
	case len(data) == 33 && (data[0] == 0x02 || data[0] == 0x03):
		x, y = elliptic.UnmarshalCompressed(curve, data)
	case len(data) == 65 && data[0] == 0x04:
		x, y = elliptic.Unmarshal(curve, data) //nolint:staticcheck // Point coordinates are needed for ecdsa.
	default:
		return nil, fmt.Errorf("%w: unexpected encoding (%d bytes)", ErrInvalidPublicKey, len(data))
	}
	if x == nil {
		return nil, fmt.Errorf("%w: point is not on curve", ErrInvalidPublicKey)
	}
	return &PublicKey{Curve: curve, X: x, Y: y}, nil
}

// NewPublicKeyFromString returns a secp256r1 public key created from the
// given hex string.
func NewPublicKeyFromString(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return NewPublicKeyFromBytes(b, elliptic.P256())
}

// Bytes returns the compressed representation of the public key.
func (p *PublicKey) Bytes() []byte {
	return elliptic.MarshalCompressed(p.Curve, p.X, p.Y)
}

// Verify returns true if the signature (r||s) is valid for the given hash
// and corresponds to this public key.
func (p *PublicKey) Verify(signature []byte, hash []byte) bool {
	if p.X == nil || p.Y == nil || len(signature) != SignatureLen {
		return false
	}
	r := new(big.Int).SetBytes(signature[:32])
	s := new(big.Int).SetBytes(signature[32:])
	return ecdsa.Verify((*ecdsa.PublicKey)(p), hash, r, s)
}

// VerifyMessage hashes msg with sha256 and checks the signature against the
// digest.
func (p *PublicKey) VerifyMessage(signature []byte, msg []byte) bool {
	digest := hash.Sha256(msg)
	return p.Verify(signature, digest[:])
}

// VerifySignature is a convenience wrapper decoding the secp256r1 key and
// checking the signature of msg with it. Malformed keys or signatures simply
// fail verification.
func VerifySignature(msg, signature, pubKey []byte) bool {
	return verifyWithCurve(elliptic.P256(), msg, signature, pubKey)
}

// VerifySecp256k1 is the same as VerifySignature, but for secp256k1 keys.
func VerifySecp256k1(msg, signature, pubKey []byte) bool {
	return verifyWithCurve(secp256k1.S256(), msg, signature, pubKey)
}

func verifyWithCurve(curve elliptic.Curve, msg, signature, pubKey []byte) bool {
	if len(signature) != SignatureLen {
		return false
	}
	pk, err := NewPublicKeyFromBytes(pubKey, curve)
	if err != nil {
		return false
	}
	return pk.VerifyMessage(signature, msg)
}
