package core

import (
	"testing"

	"github.com/nspcc-dev/neovm/pkg/core/interop"
	"github.com/nspcc-dev/neovm/pkg/core/interop/interopnames"
	"github.com/nspcc-dev/neovm/pkg/crypto/hash"
	"github.com/nspcc-dev/neovm/pkg/io"
	"github.com/nspcc-dev/neovm/pkg/vm/emit"
	"github.com/nspcc-dev/neovm/pkg/vm/opcode"
	"github.com/nspcc-dev/neovm/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestAllInteropsRegistered(t *testing.T) {
	ic := NewInteropContext(nil)
	for _, name := range interopnames.All() {
		require.NotNil(t, ic.GetFunction(name), name)
	}
	require.Equal(t, len(interopnames.All()), len(ic.Functions))
}

func TestInteropsSorted(t *testing.T) {
	for _, fs := range [][]string{functionNames(systemInterops), functionNames(neoInterops)} {
		for i := 1; i < len(fs); i++ {
			require.True(t, fs[i-1] < fs[i], "%s >= %s", fs[i-1], fs[i])
		}
	}
}

func TestSpawnVM(t *testing.T) {
	w := io.NewBufBinWriter()
	emit.Array(w.BinWriter, 1, "two", true)
	emit.Syscall(w.BinWriter, interopnames.SystemRuntimeNotify)
	emit.Syscall(w.BinWriter, interopnames.SystemExecutionEngineGetExecutingScriptHash)
	emit.Opcodes(w.BinWriter, opcode.RET)
	require.NoError(t, w.Err)
	script := w.Bytes()

	v, ic := SpawnVM(zaptest.NewLogger(t))
	v.LoadScript(script)
	require.True(t, v.Execute())
	require.True(t, v.HasHalted())

	require.Equal(t, 1, v.Estack().Len())
	require.Equal(t, hash.Hash160(script).BytesBE(), v.Estack().Pop().Bytes())
	require.Len(t, ic.Notifications, 1)
	require.Equal(t, hash.Hash160(script), ic.Notifications[0].ScriptHash)
	arr, ok := ic.Notifications[0].Item.(*stackitem.Array)
	require.True(t, ok)
	require.Equal(t, 3, arr.Len())
}

func TestSpawnVMUnknownSyscall(t *testing.T) {
	w := io.NewBufBinWriter()
	emit.Syscall(w.BinWriter, "System.Unknown")
	require.NoError(t, w.Err)

	v, _ := SpawnVM(nil)
	v.LoadScript(w.Bytes())
	require.False(t, v.Execute())
	require.True(t, v.HasFailed())
	require.Error(t, v.FaultError())
}

func functionNames(fs []interop.Function) []string {
	res := make([]string, len(fs))
	for i := range fs {
		res[i] = fs[i].Name
	}
	return res
}
