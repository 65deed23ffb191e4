package vm

import (
	"testing"

	"github.com/nspcc-dev/neovm/pkg/vm/stackitem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeStackOfInts(n int) *Stack {
	s := NewStack("test")
	for i := 1; i <= n; i++ {
		s.PushVal(i)
	}
	return s
}

// stackInts returns stack contents from the top.
func stackInts(t *testing.T, s *Stack) []int64 {
	var res []int64
	s.Iter(func(e Element) {
		res = append(res, e.BigInt().Int64())
	})
	return res
}

func TestPushPop(t *testing.T) {
	s := NewStack("test")
	_, err := s.TryPop()
	require.ErrorIs(t, err, ErrEmptyStack)
	require.PanicsWithValue(t, ErrEmptyStack, func() { s.Pop() })

	for i := 0; i < 10; i++ {
		s.PushVal(i)
	}
	assert.Equal(t, 10, s.Len())
	assert.Equal(t, 10, s.refs.Len())
	for i := 9; i >= 0; i-- {
		assert.Equal(t, int64(i), s.Pop().BigInt().Int64())
	}
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.refs.Len())
}

func TestTopBack(t *testing.T) {
	s := NewStack("test")
	assert.Nil(t, s.Top().Item())
	assert.Nil(t, s.Back().Item())

	s = makeStackOfInts(3)
	assert.Equal(t, int64(3), s.Top().BigInt().Int64())
	assert.Equal(t, int64(1), s.Back().BigInt().Int64())
	assert.Equal(t, 3, s.Len())
}

func TestPeek(t *testing.T) {
	s := makeStackOfInts(3)
	assert.Equal(t, int64(3), s.Peek(0).BigInt().Int64())
	assert.Equal(t, int64(1), s.Peek(2).BigInt().Int64())

	_, err := s.TryPeek(3)
	require.ErrorIs(t, err, ErrInvalidIndex)
	_, err = s.TryPeek(-1)
	require.ErrorIs(t, err, ErrInvalidIndex)
	require.Panics(t, func() { s.Peek(3) })
}

func TestInsertAt(t *testing.T) {
	s := makeStackOfInts(3)
	s.InsertAt(NewElement(9), 1)
	assert.Equal(t, []int64{3, 9, 2, 1}, stackInts(t, s))

	s.InsertAt(NewElement(8), 0)
	assert.Equal(t, []int64{8, 3, 9, 2, 1}, stackInts(t, s))

	s.InsertAt(NewElement(7), s.Len())
	assert.Equal(t, []int64{8, 3, 9, 2, 1, 7}, stackInts(t, s))
	assert.Equal(t, 6, s.refs.Len())

	require.Panics(t, func() { s.InsertAt(NewElement(0), -1) })
	require.Panics(t, func() { s.InsertAt(NewElement(0), 7) })
}

func TestRemoveAt(t *testing.T) {
	s := makeStackOfInts(3)
	e := s.RemoveAt(1)
	assert.Equal(t, int64(2), e.BigInt().Int64())
	assert.Equal(t, []int64{3, 1}, stackInts(t, s))
	assert.Equal(t, 2, s.refs.Len())

	require.Panics(t, func() { s.RemoveAt(2) })
	require.Panics(t, func() { s.RemoveAt(-1) })
}

func TestSwap(t *testing.T) {
	s := makeStackOfInts(3)
	require.NoError(t, s.Swap(0, 2))
	assert.Equal(t, []int64{1, 2, 3}, stackInts(t, s))
	require.NoError(t, s.Swap(1, 1))
	assert.Equal(t, []int64{1, 2, 3}, stackInts(t, s))

	require.ErrorIs(t, s.Swap(0, 3), ErrInvalidIndex)
	require.ErrorIs(t, s.Swap(-1, 0), ErrInvalidIndex)
}

func TestRoll(t *testing.T) {
	s := makeStackOfInts(4)
	require.NoError(t, s.Roll(3))
	assert.Equal(t, []int64{1, 4, 3, 2}, stackInts(t, s))
	require.NoError(t, s.Roll(0))
	assert.Equal(t, []int64{1, 4, 3, 2}, stackInts(t, s))

	require.ErrorIs(t, s.Roll(4), ErrInvalidIndex)
	require.ErrorIs(t, s.Roll(-1), ErrInvalidIndex)
}

func TestDupIsCopy(t *testing.T) {
	s := NewStack("test")
	s.PushVal([]byte{1})
	d := s.Dup(0)
	d.Bytes()[0] = 2
	assert.Equal(t, []byte{1}, s.Peek(0).Bytes())
}

func TestClear(t *testing.T) {
	var pops int
	s := makeStackOfInts(5)
	s.hook = func(_ *Stack, _ stackitem.Item, _ int, op StackOperation) {
		if op == Pop {
			pops++
		}
	}
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.refs.Len())
	assert.Equal(t, 5, pops)
}

func TestSharedRefCounter(t *testing.T) {
	refs := newRefCounter()
	a := newStack("a", refs)
	b := newStack("b", refs)
	a.PushVal(1)
	b.PushVal(2)
	b.Push(a.Pop())
	assert.Equal(t, 2, refs.Len())
	b.Clear()
	assert.Equal(t, 0, refs.Len())
}

func TestHook(t *testing.T) {
	type event struct {
		index int
		op    StackOperation
	}
	var events []event
	s := makeStackOfInts(3)
	s.hook = func(_ *Stack, _ stackitem.Item, index int, op StackOperation) {
		events = append(events, event{index, op})
	}

	s.PushVal(4)
	s.Pop()
	s.InsertAt(NewElement(5), 2)
	s.RemoveAt(2)
	require.NoError(t, s.Swap(0, 1))
	require.NoError(t, s.Roll(2))
	require.Equal(t, []event{
		{0, Push}, {0, Pop}, {2, Push}, {2, Pop},
		{0, Set}, {1, Set}, {2, Pop}, {0, Push},
	}, events)
}

func TestPopSigElements(t *testing.T) {
	t.Run("counted", func(t *testing.T) {
		s := NewStack("test")
		s.PushVal([]byte{3})
		s.PushVal([]byte{1})
		s.PushVal([]byte{2})
		s.PushVal(2)
		elems, err := s.PopSigElements()
		require.NoError(t, err)
		assert.Equal(t, [][]byte{{2}, {1}}, elems)
		assert.Equal(t, 1, s.Len())
	})
	t.Run("array", func(t *testing.T) {
		s := NewStack("test")
		s.PushVal(stackitem.Make([]any{[]byte{1}, []byte{2}}))
		elems, err := s.PopSigElements()
		require.NoError(t, err)
		assert.Equal(t, [][]byte{{1}, {2}}, elems)
	})
	t.Run("bad", func(t *testing.T) {
		for name, args := range map[string][]any{
			"empty stack": nil,
			"zero":        {0},
			"negative":    {-1},
			"too many":    {[]byte{1}, 2},
			"empty array": {stackitem.NewArray(nil)},
			"map element": {stackitem.NewArray([]stackitem.Item{stackitem.NewMap()})},
		} {
			s := NewStack("test")
			for _, a := range args {
				s.PushVal(a)
			}
			_, err := s.PopSigElements()
			require.Error(t, err, name)
		}
	})
}

func TestStackMarshalJSON(t *testing.T) {
	s := NewStack("test")
	s.PushVal([]byte{0xAB})
	s.PushVal(5)
	s.PushVal(true)

	data, err := s.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `[
		{"type":"Boolean","value":true},
		{"type":"Integer","value":"5"},
		{"type":"ByteArray","value":"ab"}
	]`, string(data))
}

func TestElementConversions(t *testing.T) {
	e := NewElement(stackitem.NewMap())
	require.Panics(t, func() { e.BigInt() })
	require.Panics(t, func() { e.Bytes() })
	require.Panics(t, func() { e.Array() })
	require.Panics(t, func() { e.Interop() })
	require.True(t, e.Bool())
	require.Equal(t, "Map", e.String())
	require.Equal(t, "<nil>", Element{}.String())

	i := NewElement(stackitem.NewInterop(42))
	require.Equal(t, 42, i.Interop().Value())
}
