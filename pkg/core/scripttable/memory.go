/*
Package scripttable provides script tables the VM uses to resolve APPCALL
and TAILCALL targets.
*/
package scripttable

import (
	"sync"

	"github.com/nspcc-dev/neovm/pkg/crypto/hash"
	"github.com/nspcc-dev/neovm/pkg/util"
	"github.com/nspcc-dev/neovm/pkg/util/slice"
	"github.com/nspcc-dev/neovm/pkg/vm"
)

type entry struct {
	script  []byte
	dynamic bool
}

// Memory is an in-memory script table, scripts are keyed by their hashes.
// It's safe for concurrent use.
type Memory struct {
	mut     sync.RWMutex
	scripts map[util.Uint160]entry
}

var _ vm.ScriptTable = (*Memory)(nil)

// NewMemory creates an empty Memory table.
func NewMemory() *Memory {
	return &Memory{
		scripts: make(map[util.Uint160]entry),
	}
}

// Add stores a copy of the script and returns its hash. Scripts added with
// allowDynamic set can also be called via hashes taken from the stack.
func (m *Memory) Add(script []byte, allowDynamic bool) util.Uint160 {
	h := hash.Hash160(script)
	m.mut.Lock()
	m.scripts[h] = entry{script: slice.Copy(script), dynamic: allowDynamic}
	m.mut.Unlock()
	return h
}

// Delete removes the script with the given hash.
func (m *Memory) Delete(h util.Uint160) {
	m.mut.Lock()
	delete(m.scripts, h)
	m.mut.Unlock()
}

// Len returns the number of stored scripts.
func (m *Memory) Len() int {
	m.mut.RLock()
	defer m.mut.RUnlock()
	return len(m.scripts)
}

// GetScript implements the vm.ScriptTable interface.
func (m *Memory) GetScript(h util.Uint160, isDynamicInvoke bool) []byte {
	m.mut.RLock()
	defer m.mut.RUnlock()
	e, ok := m.scripts[h]
	if !ok || (isDynamicInvoke && !e.dynamic) {
		return nil
	}
	return e.script
}
