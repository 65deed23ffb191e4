package interop

import (
	"sort"

	"github.com/nspcc-dev/neovm/pkg/util"
	"github.com/nspcc-dev/neovm/pkg/vm"
	"github.com/nspcc-dev/neovm/pkg/vm/stackitem"
	"go.uber.org/zap"
)

// NotificationEvent is a tuple of the script hash that emitted the item
// and the item itself.
type NotificationEvent struct {
	ScriptHash util.Uint160
	Item       stackitem.Item
}

// Function binds function name with the function itself.
type Function struct {
	Name string
	Func func(*Context, *vm.VM) error
}

// Context represents context in which interops are executed. It implements
// vm.InteropService, so it's passed to the VM directly.
type Context struct {
	Functions     []Function
	Notifications []NotificationEvent
	Log           *zap.Logger
}

var _ vm.InteropService = (*Context)(nil)

// NewContext returns a new interop context with the given functions.
func NewContext(log *zap.Logger, fs ...[]Function) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	ic := &Context{Log: log}
	for _, f := range fs {
		ic.Register(f...)
	}
	return ic
}

// Register adds functions to the context replacing the ones with the same
// names.
func (ic *Context) Register(fs ...Function) {
	for _, f := range fs {
		if i := ic.index(f.Name); i >= 0 {
			ic.Functions[i] = f
			continue
		}
		ic.Functions = append(ic.Functions, f)
		sort.Slice(ic.Functions, func(i, j int) bool { return ic.Functions[i].Name < ic.Functions[j].Name })
	}
}

func (ic *Context) index(name string) int {
	n := sort.Search(len(ic.Functions), func(i int) bool {
		return ic.Functions[i].Name >= name
	})
	if n < len(ic.Functions) && ic.Functions[n].Name == name {
		return n
	}
	return -1
}

// GetFunction returns the function with the given name, nil if there is
// none.
func (ic *Context) GetFunction(name string) *Function {
	if i := ic.index(name); i >= 0 {
		return &ic.Functions[i]
	}
	return nil
}

// Invoke implements the vm.InteropService interface. Unknown methods and
// function errors are refusals.
func (ic *Context) Invoke(method string, v *vm.VM) bool {
	f := ic.GetFunction(method)
	if f == nil {
		ic.Log.Debug("unknown interop", zap.String("method", method))
		return false
	}
	if err := f.Func(ic, v); err != nil {
		ic.Log.Debug("interop failed", zap.String("method", method), zap.Error(err))
		return false
	}
	return true
}
