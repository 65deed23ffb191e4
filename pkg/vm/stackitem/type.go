package stackitem

import "errors"

// Type represents type of the stack item.
type Type byte

// This block defines all known stack item types, the values are the ones
// used in the binary serialization format.
const (
	ByteArrayT Type = 0x00
	BooleanT   Type = 0x01
	IntegerT   Type = 0x02
	InteropT   Type = 0x40
	ArrayT     Type = 0x80
	StructT    Type = 0x81
	MapT       Type = 0x82
	InvalidT   Type = 0xFF
)

// String implements fmt.Stringer interface.
func (t Type) String() string {
	switch t {
	case ByteArrayT:
		return "ByteArray"
	case BooleanT:
		return "Boolean"
	case IntegerT:
		return "Integer"
	case InteropT:
		return "InteropInterface"
	case ArrayT:
		return "Array"
	case StructT:
		return "Struct"
	case MapT:
		return "Map"
	default:
		return "INVALID"
	}
}

// IsValid checks if s is a well defined stack item type.
func (t Type) IsValid() bool {
	switch t {
	case ByteArrayT, BooleanT, IntegerT, InteropT, ArrayT, StructT, MapT:
		return true
	default:
		return false
	}
}

// IsPrimitive checks if the type is a primitive one (usable as a map key).
func (t Type) IsPrimitive() bool {
	return t == ByteArrayT || t == BooleanT || t == IntegerT
}

// FromString returns stackitem type from string.
func FromString(s string) (Type, error) {
	switch s {
	case "ByteArray":
		return ByteArrayT, nil
	case "Boolean":
		return BooleanT, nil
	case "Integer":
		return IntegerT, nil
	case "InteropInterface":
		return InteropT, nil
	case "Array":
		return ArrayT, nil
	case "Struct":
		return StructT, nil
	case "Map":
		return MapT, nil
	default:
		return InvalidT, errors.New("invalid type")
	}
}
