package core

/*
  Interops are designed to run under VM's execute() panic protection, so it's OK
  for them to do things like
          smth := v.Estack().Pop().Bytes()
  even though technically Pop() can return a nil pointer.
*/

import (
	"github.com/nspcc-dev/neovm/pkg/core/interop"
	"github.com/nspcc-dev/neovm/pkg/core/interop/crypto"
	"github.com/nspcc-dev/neovm/pkg/core/interop/interopnames"
	"github.com/nspcc-dev/neovm/pkg/core/interop/runtime"
	"github.com/nspcc-dev/neovm/pkg/vm"
	"go.uber.org/zap"
)

var systemInterops = []interop.Function{
	{Name: interopnames.SystemExecutionEngineGetCallingScriptHash, Func: runtime.GetCallingScriptHash},
	{Name: interopnames.SystemExecutionEngineGetEntryScriptHash, Func: runtime.GetEntryScriptHash},
	{Name: interopnames.SystemExecutionEngineGetExecutingScriptHash, Func: runtime.GetExecutingScriptHash},
	{Name: interopnames.SystemExecutionEngineGetScriptContainer, Func: runtime.GetScriptContainer},
	{Name: interopnames.SystemRuntimeDeserialize, Func: runtime.Deserialize},
	{Name: interopnames.SystemRuntimeLog, Func: runtime.Log},
	{Name: interopnames.SystemRuntimeNotify, Func: runtime.Notify},
	{Name: interopnames.SystemRuntimeSerialize, Func: runtime.Serialize},
}

var neoInterops = []interop.Function{
	{Name: interopnames.NeoCryptoVerifySecp256k1, Func: crypto.VerifySecp256k1},
}

// NewInteropContext returns an interop context with all the standard
// functions registered.
func NewInteropContext(log *zap.Logger) *interop.Context {
	return interop.NewContext(log, systemInterops, neoInterops)
}

// SpawnVM returns a VM with the standard interop functions set up, the
// context is returned as well to get notifications from it.
func SpawnVM(log *zap.Logger, opts ...vm.Option) (*vm.VM, *interop.Context) {
	ic := NewInteropContext(log)
	opts = append([]vm.Option{vm.WithLogger(log)}, opts...)
	opts = append(opts, vm.WithInteropService(ic))
	return vm.New(opts...), ic
}
