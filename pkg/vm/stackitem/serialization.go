package stackitem

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neovm/pkg/encoding/bigint"
	"github.com/nspcc-dev/neovm/pkg/io"
)

// ErrRecursive is returned upon an attempt to serialize some recursive
// stack item (like an array including an item with a reference to the
// same array).
var ErrRecursive = errors.New("recursive item")

// ErrUnserializable is returned upon an attempt to serialize some item that
// can't be serialized (like Interop item).
var ErrUnserializable = errors.New("unserializable")

// serContext is an internal serialization context.
type serContext struct {
	*io.BinWriter
	buf  *io.BufBinWriter
	seen map[Item]bool
}

// deserContext is an internal deserialization context.
type deserContext struct {
	*io.BinReader
	limit int
}

// Serialize encodes the given Item into a byte slice.
func Serialize(item Item) ([]byte, error) {
	w := io.NewBufBinWriter()
	sc := serContext{
		BinWriter: w.BinWriter,
		buf:       w,
		seen:      make(map[Item]bool),
	}
	sc.serialize(item)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// EncodeBinary encodes the given Item into the given BinWriter.
func EncodeBinary(item Item, w *io.BinWriter) {
	sc := serContext{
		BinWriter: w,
		seen:      make(map[Item]bool),
	}
	sc.serialize(item)
}

func (w *serContext) serialize(item Item) {
	if w.Err != nil {
		return
	}
	if w.seen[item] {
		w.Err = ErrRecursive
		return
	}

	switch t := item.(type) {
	case *ByteArray:
		w.WriteB(byte(ByteArrayT))
		w.WriteVarBytes(*t)
	case Bool:
		w.WriteB(byte(BooleanT))
		w.WriteBool(bool(t))
	case *BigInteger:
		w.WriteB(byte(IntegerT))
		w.WriteVarBytes(t.Bytes())
	case *Interop:
		w.Err = fmt.Errorf("%w: interop item", ErrUnserializable)
	case *Array, *Struct:
		w.seen[item] = true

		w.WriteB(byte(t.Type()))
		arr := t.Value().([]Item)
		w.WriteVarUint(uint64(len(arr)))
		for i := range arr {
			w.serialize(arr[i])
		}
		delete(w.seen, item)
	case *Map:
		w.seen[item] = true

		w.WriteB(byte(MapT))
		w.WriteVarUint(uint64(len(t.value)))
		for i := range t.value {
			w.serialize(t.value[i].Key)
			w.serialize(t.value[i].Value)
		}
		delete(w.seen, item)
	default:
		w.Err = fmt.Errorf("%w: invalid stack item", ErrUnserializable)
	}

	if w.Err == nil && w.buf != nil && w.buf.Len() > MaxSize {
		w.Err = fmt.Errorf("%w: serialized item", ErrTooBig)
	}
}

// Deserialize decodes Item from the given byte slice.
func Deserialize(data []byte) (Item, error) {
	r := io.NewBinReaderFromBuf(data)
	item := DecodeBinary(r)
	if r.Err != nil {
		return nil, r.Err
	}
	return item, nil
}

// DecodeBinary decodes a previously serialized Item from the given
// reader. Caveat: always check reader's error value before using the
// returned Item. At most MaxDeserialized items are decoded.
func DecodeBinary(r *io.BinReader) Item {
	dc := deserContext{
		BinReader: r,
		limit:     MaxDeserialized,
	}
	return dc.decodeBinary()
}

func (r *deserContext) decodeBinary() Item {
	var t = Type(r.ReadB())
	if r.Err != nil {
		return nil
	}

	r.limit--
	if r.limit < 0 {
		r.Err = fmt.Errorf("%w: too many items", ErrTooBig)
		return nil
	}
	switch t {
	case ByteArrayT:
		data := r.ReadVarBytes(MaxSize)
		return NewByteArray(data)
	case BooleanT:
		var b = r.ReadBool()
		return NewBool(b)
	case IntegerT:
		data := r.ReadVarBytes(MaxSize)
		return NewBigInteger(bigint.FromBytes(data))
	case ArrayT, StructT:
		n := r.ReadVarUint()
		if n > MaxArraySize {
			r.Err = fmt.Errorf("%w: array of %d elements", ErrTooBig, n)
			return nil
		}
		size := int(n)
		arr := make([]Item, size)
		for i := 0; i < size && r.Err == nil; i++ {
			arr[i] = r.decodeBinary()
		}

		if t == ArrayT {
			return NewArray(arr)
		}
		return NewStruct(arr)
	case MapT:
		n := r.ReadVarUint()
		if n > MaxArraySize {
			r.Err = fmt.Errorf("%w: map of %d elements", ErrTooBig, n)
			return nil
		}
		size := int(n)
		m := NewMap()
		for i := 0; i < size; i++ {
			key := r.decodeBinary()
			value := r.decodeBinary()
			if r.Err != nil {
				break
			}
			if err := IsValidMapKey(key); err != nil {
				r.Err = err
				break
			}
			m.Add(key, value)
		}
		return m
	default:
		r.Err = fmt.Errorf("%w: unknown type %d", ErrInvalidType, byte(t))
		return nil
	}
}
