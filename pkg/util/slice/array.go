/*
Package slice contains byte slice helpers.
*/
package slice

// Copy returns a copy of the given byte slice. A nil slice produces an empty
// non-nil one.
func Copy(b []byte) []byte {
	dest := make([]byte, len(b))
	copy(dest, b)
	return dest
}

// CopyReverse returns a new byte slice containing reversed version of the
// original.
func CopyReverse(b []byte) []byte {
	dest := make([]byte, len(b))
	reverse(dest, b)
	return dest
}

// Reverse does in-place reversing of byte slice.
func Reverse(b []byte) {
	reverse(b, b)
}

func reverse(dst []byte, src []byte) {
	for i, j := 0, len(src)-1; i <= j; i, j = i+1, j-1 {
		dst[i], dst[j] = src[j], src[i]
	}
}
