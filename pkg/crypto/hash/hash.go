/*
Package hash contains the hash functions available to scripts.
*/
package hash

import (
	"crypto/sha1"
	"crypto/sha256"

	"github.com/nspcc-dev/neovm/pkg/util"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // ripemd160 is a part of the protocol.
)

// Sha1 hashes the incoming byte slice using the sha1 algorithm.
func Sha1(data []byte) []byte {
	h := sha1.Sum(data)
	return h[:]
}

// Sha256 hashes the incoming byte slice using the sha256 algorithm.
func Sha256(data []byte) util.Uint256 {
	return sha256.Sum256(data)
}

// DoubleSha256 performs sha256 twice on the given data.
func DoubleSha256(data []byte) util.Uint256 {
	h1 := Sha256(data)
	return Sha256(h1[:])
}

// RipeMD160 performs the RIPEMD160 hash algorithm on the given data.
func RipeMD160(data []byte) util.Uint160 {
	var hash util.Uint160
	hasher := ripemd160.New()
	_, _ = hasher.Write(data)
	copy(hash[:], hasher.Sum(nil))
	return hash
}

// Hash160 performs sha256 and then ripemd160 on the given data. That's the
// script hash function.
func Hash160(data []byte) util.Uint160 {
	h1 := Sha256(data)
	return RipeMD160(h1[:])
}

// Hash256 performs double sha256 on the given data.
func Hash256(data []byte) util.Uint256 {
	return DoubleSha256(data)
}
