package vm

import (
	"testing"

	"github.com/nspcc-dev/neovm/pkg/vm/opcode"
	"github.com/stretchr/testify/require"
)

func TestStepInto(t *testing.T) {
	prog := makeProgram(opcode.PUSH1, opcode.PUSH2, opcode.ADD)
	v := load(prog)

	require.NoError(t, v.StepInto())
	require.Equal(t, BreakState, v.State())
	checkStack(t, v, 1)

	require.NoError(t, v.StepInto())
	checkStack(t, v, 2, 1)
	ip, op := v.Context().NextInstr()
	require.Equal(t, 2, ip)
	require.Equal(t, opcode.ADD, op)

	require.NoError(t, v.StepInto())
	checkStack(t, v, 3)
	require.False(t, v.HasStopped())

	require.NoError(t, v.StepInto())
	require.True(t, v.HasHalted())
	require.Equal(t, 0, v.Istack().Len())
}

func TestStepIntoFault(t *testing.T) {
	v := load(makeProgram(opcode.PUSH1, opcode.THROW))
	require.NoError(t, v.StepInto())
	require.Error(t, v.StepInto())
	require.True(t, v.HasFailed())
	require.False(t, v.State().HasFlag(BreakState))
}

func TestStepOver(t *testing.T) {
	v := load(callProg)

	require.NoError(t, v.StepOver())
	require.Equal(t, BreakState, v.State())
	require.Equal(t, 1, v.Istack().Len())
	checkStack(t, v, 5)

	require.NoError(t, v.StepOver())
	checkStack(t, v, 2, 5)

	require.NoError(t, v.StepOver())
	require.True(t, v.HasHalted())
}

func TestStepOut(t *testing.T) {
	v := load(callProg)

	require.NoError(t, v.StepInto())
	require.Equal(t, 2, v.Istack().Len())

	require.NoError(t, v.StepOut())
	require.Equal(t, BreakState, v.State())
	require.Equal(t, 1, v.Istack().Len())
	checkStack(t, v, 5)
	require.Equal(t, 3, v.Context().NextIP())

	runVM(t, v)
	checkStack(t, v, 2, 5)
}

func TestStepOutOfEntry(t *testing.T) {
	v := load(makeProgram(opcode.PUSH1, opcode.PUSH2))
	require.NoError(t, v.StepOut())
	require.True(t, v.HasHalted())
	checkStack(t, v, 2, 1)
}

func TestBreakPoints(t *testing.T) {
	prog := makeProgram(opcode.PUSH1, opcode.PUSH2, opcode.PUSH3, opcode.ADD, opcode.ADD)
	v := load(prog)
	v.AddBreakPoint(2)

	require.False(t, v.Execute())
	require.Equal(t, BreakState, v.State())
	checkStack(t, v, 2, 1)

	runVM(t, v)
	checkStack(t, v, 6)

	t.Run("relative", func(t *testing.T) {
		v := load(prog)
		require.NoError(t, v.StepInto())
		v.AddBreakPointRel(2)
		require.False(t, v.Execute())
		_, op := v.Context().NextInstr()
		require.Equal(t, opcode.ADD, op)
		checkStack(t, v, 3, 2, 1)
	})
	t.Run("in called context", func(t *testing.T) {
		v := load(callProg)
		require.NoError(t, v.StepInto())
		v.AddBreakPoint(6)
		require.False(t, v.Execute())
		require.Equal(t, 2, v.Istack().Len())
		checkStack(t, v, 5)
	})
}
