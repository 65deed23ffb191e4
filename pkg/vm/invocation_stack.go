package vm

import (
	"fmt"
)

type istackHook func(s *InvocationStack, ctx *Context, index int, op StackOperation)

// InvocationStack is a stack of execution contexts, the topmost one is
// being executed, the bottom one is the entry context.
type InvocationStack struct {
	elems []*Context
	hook  istackHook
}

// NewInvocationStack returns an empty invocation stack.
func NewInvocationStack() *InvocationStack {
	return &InvocationStack{elems: make([]*Context, 0, 8)}
}

// Len returns the number of contexts.
func (s *InvocationStack) Len() int {
	return len(s.elems)
}

// Push puts ctx on top of the stack.
func (s *InvocationStack) Push(ctx *Context) {
	s.elems = append(s.elems, ctx)
	if s.hook != nil {
		s.hook(s, ctx, 0, Push)
	}
}

// Pop removes the topmost context and returns it. It panics with
// ErrEmptyStack if the stack is empty.
func (s *InvocationStack) Pop() *Context {
	ctx, err := s.TryPop()
	if err != nil {
		panic(err)
	}
	return ctx
}

// TryPop is the same as Pop, but returns an error instead of panicking.
func (s *InvocationStack) TryPop() (*Context, error) {
	l := len(s.elems)
	if l == 0 {
		return nil, ErrEmptyStack
	}
	ctx := s.elems[l-1]
	s.elems[l-1] = nil
	s.elems = s.elems[:l-1]
	if s.hook != nil {
		s.hook(s, ctx, 0, Pop)
	}
	return ctx, nil
}

// Peek returns the context n frames deep: 0 is the current one, 1 is the
// calling one and Len()-1 is the entry one. It panics with ErrInvalidIndex
// for out of range n.
func (s *InvocationStack) Peek(n int) *Context {
	ctx, err := s.TryPeek(n)
	if err != nil {
		panic(err)
	}
	return ctx
}

// TryPeek is the same as Peek, but returns an error instead of panicking.
func (s *InvocationStack) TryPeek(n int) (*Context, error) {
	if n < 0 || n >= len(s.elems) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, n)
	}
	return s.elems[len(s.elems)-1-n], nil
}

// Iter iterates over contexts starting from the current one.
func (s *InvocationStack) Iter(f func(*Context)) {
	for i := len(s.elems) - 1; i >= 0; i-- {
		f(s.elems[i])
	}
}

// Clear drops all contexts.
func (s *InvocationStack) Clear() {
	for len(s.elems) > 0 {
		s.Pop()
	}
}
