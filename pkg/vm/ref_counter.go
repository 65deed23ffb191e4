package vm

import (
	"github.com/nspcc-dev/neovm/pkg/vm/stackitem"
)

// refCounter counts the items held by all the stacks of a VM (the evaluation
// stack and every frame's alt stack), it's what the stack size limit is
// checked against.
type refCounter int

func newRefCounter() *refCounter {
	return new(refCounter)
}

// Add adds an item to the reference counter.
func (r *refCounter) Add(item stackitem.Item) {
	if r == nil {
		return
	}
	*r++
}

// Remove removes an item from the reference counter.
func (r *refCounter) Remove(item stackitem.Item) {
	if r == nil {
		return
	}
	*r--
}

// Len returns the number of items counted.
func (r *refCounter) Len() int {
	if r == nil {
		return 0
	}
	return int(*r)
}
