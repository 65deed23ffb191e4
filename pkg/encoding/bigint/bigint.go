/*
Package bigint implements the integer encoding used by the VM: little-endian
two's complement in the minimal number of bytes, with zero encoded as an
empty byte slice.
*/
package bigint

import (
	"math/big"

	"github.com/nspcc-dev/neovm/pkg/util/slice"
)

var bigOne = big.NewInt(1)

// FromBytesUnsigned converts data in little-endian format to an unsigned integer.
func FromBytesUnsigned(data []byte) *big.Int {
	bs := slice.CopyReverse(data)
	return new(big.Int).SetBytes(bs)
}

// FromBytes converts data in little-endian two's complement format to an
// integer. An empty slice is zero.
func FromBytes(data []byte) *big.Int {
	n := FromBytesUnsigned(data)
	size := len(data)
	if size != 0 && data[size-1]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(bigOne, uint(size)*8))
	}
	return n
}

// ToBytes converts an integer to a slice in little-endian two's complement
// format using the minimal number of bytes. Zero produces an empty slice.
func ToBytes(n *big.Int) []byte {
	return ToPreallocatedBytes(n, []byte{})
}

// ToPreallocatedBytes converts an integer to a slice in little-endian
// two's complement format and appends it to data.
func ToPreallocatedBytes(n *big.Int, data []byte) []byte {
	sign := n.Sign()
	if sign == 0 {
		return data[:0]
	}

	var (
		bs  []byte
		pad byte
	)
	if sign > 0 {
		bs = n.Bytes()
	} else {
		// ^x == -x-1 in two's complement, so encode |n|-1 and invert it.
		x := new(big.Int).Neg(n)
		x.Sub(x, bigOne)
		bs = x.Bytes()
		for i := range bs {
			bs[i] = ^bs[i]
		}
		pad = 0xFF
	}
	slice.Reverse(bs)
	if len(bs) == 0 || (bs[len(bs)-1]&0x80 != 0) != (sign < 0) {
		bs = append(bs, pad)
	}
	return append(data[:0], bs...)
}
