package vm

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neovm/pkg/vm/stackitem"
)

// Stack implementation for the neo virtual machine. The stack with its LIFO
// semantics is emulated from a simple slice where the top of the stack corresponds
// to the latest element of this slice. Pushes are appends to this slice, pops are
// slice resizes. Offsets used by the methods are counted from the top, 0 is
// the topmost element.

var (
	// ErrEmptyStack is the panic value (and TryPop error) for an attempt to
	// take an element from an empty stack.
	ErrEmptyStack = errors.New("stack is empty")
	// ErrInvalidIndex is used for stack offsets that are negative or not
	// less than the stack depth.
	ErrInvalidIndex = errors.New("invalid stack index")
)

// Element represents an element on the stack, technically it's a wrapper around
// stackitem.Item interface to provide some API simplification for VM.
type Element struct {
	value stackitem.Item
}

// NewElement returns a new Element object, with its underlying value inferred
// to the corresponding type.
func NewElement(v any) Element {
	return Element{stackitem.Make(v)}
}

// Item returns Item contained in the element.
func (e Element) Item() stackitem.Item {
	return e.value
}

// Value returns value of the Item contained in the element.
func (e Element) Value() any {
	return e.value.Value()
}

// BigInt attempts to get the underlying value of the element as a big integer.
// Will panic if the assertion failed which will be caught by the VM.
func (e Element) BigInt() *big.Int {
	val, err := e.value.TryInteger()
	if err != nil {
		panic(err)
	}
	return val
}

// Bool converts an underlying value of the element to a boolean if it's
// possible to do so, it will panic otherwise.
func (e Element) Bool() bool {
	b, err := e.value.TryBool()
	if err != nil {
		panic(err)
	}
	return b
}

// Bytes attempts to get the underlying value of the element as a byte array.
// Will panic if the assertion failed which will be caught by the VM.
func (e Element) Bytes() []byte {
	bs, err := e.value.TryBytes()
	if err != nil {
		panic(err)
	}
	return bs
}

// Array attempts to get the underlying value of the element as an array of
// other items. Will panic if the item type is different which will be caught
// by the VM.
func (e Element) Array() []stackitem.Item {
	switch t := e.value.(type) {
	case *stackitem.Array:
		return t.Value().([]stackitem.Item)
	case *stackitem.Struct:
		return t.Value().([]stackitem.Item)
	default:
		panic("element is not an array")
	}
}

// Interop attempts to get the underlying value of the element
// as an interop item.
func (e Element) Interop() *stackitem.Interop {
	switch t := e.value.(type) {
	case *stackitem.Interop:
		return t
	default:
		panic("element is not an interop")
	}
}

// String implements the fmt.Stringer interface.
func (e Element) String() string {
	if e.value == nil {
		return "<nil>"
	}
	return e.value.String()
}

// stackHook is notified about stack changes, index is the offset from the
// top where the change took place.
type stackHook func(s *Stack, item stackitem.Item, index int, op StackOperation)

// Stack represents a Stack backed by a slice of Elements.
type Stack struct {
	elems []Element
	name  string
	refs  *refCounter
	hook  stackHook
}

// NewStack returns a new stack name by the given name.
func NewStack(n string) *Stack {
	return newStack(n, newRefCounter())
}

func newStack(n string, refc *refCounter) *Stack {
	s := new(Stack)
	s.elems = make([]Element, 0, 16) // Most of uses are expected to fit.
	s.name = n
	s.refs = refc
	return s
}

func (s *Stack) notify(item stackitem.Item, index int, op StackOperation) {
	if s.hook != nil {
		s.hook(s, item, index, op)
	}
}

// Name returns the name of the stack.
func (s *Stack) Name() string {
	return s.name
}

// Clear removes all elements from the stack.
func (s *Stack) Clear() {
	for i := len(s.elems) - 1; i >= 0; i-- {
		s.refs.Remove(s.elems[i].value)
		s.notify(s.elems[i].value, 0, Pop)
		s.elems[i] = Element{}
	}
	s.elems = s.elems[:0]
}

// Len returns the number of elements that are on the stack.
func (s *Stack) Len() int {
	return len(s.elems)
}

// InsertAt inserts the given item (n) deep on the stack, so that n
// elements stay above it. It panics with ErrInvalidIndex if n is negative
// or bigger than the stack depth.
func (s *Stack) InsertAt(e Element, n int) {
	l := len(s.elems)
	if n < 0 || n > l {
		panic(ErrInvalidIndex)
	}
	s.elems = append(s.elems, e)
	copy(s.elems[l-n+1:], s.elems[l-n:l])
	s.elems[l-n] = e
	s.refs.Add(e.value)
	s.notify(e.value, n, Push)
}

// Push pushes the given element on the stack.
func (s *Stack) Push(e Element) {
	s.elems = append(s.elems, e)
	s.refs.Add(e.value)
	s.notify(e.value, 0, Push)
}

// PushItem pushes an Item to the stack.
func (s *Stack) PushItem(i stackitem.Item) {
	s.Push(Element{i})
}

// PushVal pushes the given value on the stack. It will infer the
// underlying Item to its corresponding type.
func (s *Stack) PushVal(v any) {
	s.Push(NewElement(v))
}

// Pop removes and returns the element on top of the stack. It panics with
// ErrEmptyStack if there are no elements.
func (s *Stack) Pop() Element {
	e, err := s.TryPop()
	if err != nil {
		panic(err)
	}
	return e
}

// TryPop is the same as Pop, but returns an error instead of panicking.
func (s *Stack) TryPop() (Element, error) {
	l := len(s.elems)
	if l == 0 {
		return Element{}, ErrEmptyStack
	}
	e := s.elems[l-1]
	s.elems[l-1] = Element{}
	s.elems = s.elems[:l-1]
	s.refs.Remove(e.value)
	s.notify(e.value, 0, Pop)
	return e, nil
}

// Top returns the element on top of the stack. Nil if the stack
// is empty.
func (s *Stack) Top() Element {
	if len(s.elems) == 0 {
		return Element{}
	}
	return s.elems[len(s.elems)-1]
}

// Back returns the element at the end of the stack. Nil if the stack
// is empty.
func (s *Stack) Back() Element {
	if len(s.elems) == 0 {
		return Element{}
	}
	return s.elems[0]
}

// Peek returns the element (n) far in the stack beginning from
// the top of the stack. For n == 0 it's, effectively, the same as Top,
// but it panics with ErrInvalidIndex if the stack is not deep enough.
func (s *Stack) Peek(n int) Element {
	e, err := s.TryPeek(n)
	if err != nil {
		panic(err)
	}
	return e
}

// TryPeek is the same as Peek, but returns an error instead of panicking.
func (s *Stack) TryPeek(n int) (Element, error) {
	if n < 0 || n >= len(s.elems) {
		return Element{}, fmt.Errorf("%w: %d", ErrInvalidIndex, n)
	}
	return s.elems[len(s.elems)-n-1], nil
}

// RemoveAt removes the element (n) deep on the stack beginning
// from the top of the stack. It panics if called with out of bounds n.
func (s *Stack) RemoveAt(n int) Element {
	l := len(s.elems)
	if n < 0 || n >= l {
		panic(ErrInvalidIndex)
	}
	e := s.elems[l-1-n]
	s.elems = append(s.elems[:l-1-n], s.elems[l-n:]...)
	s.refs.Remove(e.value)
	s.notify(e.value, n, Pop)
	return e
}

// Dup duplicates and returns the element at position n.
// Dup is used for copying elements on to the top of its own stack.
//
//	s.Push(s.Peek(0)) // will result in unexpected behavior.
//	s.Push(s.Dup(0)) // is the correct approach.
func (s *Stack) Dup(n int) Element {
	e := s.Peek(n)
	return Element{e.value.Dup()}
}

// Iter iterates over all elements int the stack, starting from the top
// of the stack.
//
//	s.Iter(func(elem *Element) {
//		// do something with the element.
//	})
func (s *Stack) Iter(f func(Element)) {
	for i := len(s.elems) - 1; i >= 0; i-- {
		f(s.elems[i])
	}
}

// IterBack iterates over all elements of the stack, starting from the bottom
// of the stack.
//
//	s.IterBack(func(elem *Element) {
//		// do something with the element.
//	})
func (s *Stack) IterBack(f func(Element)) {
	for i := 0; i < len(s.elems); i++ {
		f(s.elems[i])
	}
}

// Swap swaps two elements on the stack without popping and pushing them.
func (s *Stack) Swap(n1, n2 int) error {
	if n1 < 0 || n2 < 0 {
		return fmt.Errorf("%w: negative index", ErrInvalidIndex)
	}
	l := len(s.elems)
	if n1 >= l || n2 >= l {
		return fmt.Errorf("%w: too big index", ErrInvalidIndex)
	}
	if n1 == n2 {
		return nil
	}
	s.elems[l-n1-1], s.elems[l-n2-1] = s.elems[l-n2-1], s.elems[l-n1-1]
	s.notify(s.elems[l-n1-1].value, n1, Set)
	s.notify(s.elems[l-n2-1].value, n2, Set)
	return nil
}

// Roll brings an item with the given index to the top of the stack moving all
// other elements down accordingly. It does all of that without popping and
// pushing elements.
func (s *Stack) Roll(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative index", ErrInvalidIndex)
	}
	l := len(s.elems)
	if n >= l {
		return fmt.Errorf("%w: too big index", ErrInvalidIndex)
	}
	if n == 0 {
		return nil
	}
	e := s.elems[l-1-n]
	copy(s.elems[l-1-n:], s.elems[l-n:])
	s.elems[l-1] = e
	s.notify(e.value, n, Pop)
	s.notify(e.value, 0, Push)
	return nil
}

// PopSigElements pops keys or signatures from the stack as needed for
// CHECKMULTISIG. The top element is either an array of byte arrays or a
// count of byte array elements that follow it.
func (s *Stack) PopSigElements() ([][]byte, error) {
	var num int
	var elems [][]byte
	item, err := s.TryPop()
	if err != nil {
		return nil, err
	}
	switch item.value.(type) {
	case *stackitem.Array, *stackitem.Struct:
		arr := item.Array()
		num = len(arr)
		if num < 1 {
			return nil, fmt.Errorf("less than one element in the array")
		}
		elems = make([][]byte, num)
		for k, v := range arr {
			b, err := v.TryBytes()
			if err != nil {
				return nil, fmt.Errorf("bad element %s: %w", v.String(), err)
			}
			elems[k] = b
		}
	default:
		n := item.BigInt()
		if !n.IsInt64() || n.Int64() < 1 || n.Int64() > int64(s.Len()) {
			return nil, fmt.Errorf("wrong number of elements: %s", n)
		}
		num = int(n.Int64())
		elems = make([][]byte, num)
		for i := 0; i < num; i++ {
			elems[i] = s.Pop().Bytes()
		}
	}
	return elems, nil
}

// ToArray converts the stack to an array of stackitems with the top item
// being the first.
func (s *Stack) ToArray() []stackitem.Item {
	items := make([]stackitem.Item, 0, len(s.elems))
	s.Iter(func(e Element) {
		items = append(items, e.Item())
	})
	return items
}

// MarshalJSON implements the JSON marshalling interface.
func (s *Stack) MarshalJSON() ([]byte, error) {
	items := s.ToArray()
	arr := make([]json.RawMessage, len(items))
	for i := range items {
		data, err := stackitem.ToJSONWithTypes(items[i])
		if err != nil {
			data, _ = json.Marshal("error: " + err.Error())
		}
		arr[i] = data
	}
	return json.Marshal(arr)
}
