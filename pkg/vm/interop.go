package vm

import (
	"github.com/nspcc-dev/neovm/pkg/util"
)

// ScriptTable resolves scripts by their hashes for APPCALL and TAILCALL.
// isDynamicInvoke is set when the hash was taken from the stack rather than
// from the instruction operand. A nil result faults the calling opcode.
type ScriptTable interface {
	GetScript(hash util.Uint160, isDynamicInvoke bool) []byte
}

// InteropService dispatches SYSCALL method names to host functions. The
// function may use the VM stacks freely, returning false faults the VM.
type InteropService interface {
	Invoke(method string, v *VM) bool
}

// MessageProvider supplies the message signed by CHECKSIG and
// CHECKMULTISIG for the given iteration.
type MessageProvider interface {
	GetMessage(iteration uint32) []byte
}

// ScriptTableFunc is an adapter to use ordinary functions as ScriptTable.
type ScriptTableFunc func(hash util.Uint160, isDynamicInvoke bool) []byte

// GetScript implements the ScriptTable interface.
func (f ScriptTableFunc) GetScript(hash util.Uint160, isDynamicInvoke bool) []byte {
	return f(hash, isDynamicInvoke)
}

// InteropFunc is an adapter to use ordinary functions as InteropService.
type InteropFunc func(method string, v *VM) bool

// Invoke implements the InteropService interface.
func (f InteropFunc) Invoke(method string, v *VM) bool {
	return f(method, v)
}

// MessageProviderFunc is an adapter to use ordinary functions as
// MessageProvider.
type MessageProviderFunc func(iteration uint32) []byte

// GetMessage implements the MessageProvider interface.
func (f MessageProviderFunc) GetMessage(iteration uint32) []byte {
	return f(iteration)
}
