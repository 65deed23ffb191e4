package emit

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neovm/pkg/encoding/bigint"
	"github.com/nspcc-dev/neovm/pkg/io"
	"github.com/nspcc-dev/neovm/pkg/util"
	"github.com/nspcc-dev/neovm/pkg/vm/opcode"
)

// MaxSyscallNameLen is the maximum length of SYSCALL method name.
const MaxSyscallNameLen = 252

// Instruction emits a VM Instruction with data to the given buffer.
func Instruction(w *io.BinWriter, op opcode.Opcode, b []byte) {
	w.WriteB(byte(op))
	w.WriteBytes(b)
}

// Opcode emits a single VM Instruction without arguments to the given buffer.
func Opcode(w *io.BinWriter, op opcode.Opcode) {
	w.WriteB(byte(op))
}

// Opcodes emits a sequence of single VM Instructions without arguments.
func Opcodes(w *io.BinWriter, ops ...opcode.Opcode) {
	for _, op := range ops {
		Opcode(w, op)
	}
}

// Bool emits a bool type to the given buffer.
func Bool(w *io.BinWriter, ok bool) {
	if ok {
		Opcode(w, opcode.PUSHT)
		return
	}
	Opcode(w, opcode.PUSHF)
}

// Int emits an int type to the given buffer.
func Int(w *io.BinWriter, i int64) {
	BigInt(w, big.NewInt(i))
}

// BigInt emits a big integer to the given buffer, small values use
// PUSHM1 and PUSH0-PUSH16, others are pushed as byte arrays.
func BigInt(w *io.BinWriter, n *big.Int) {
	switch {
	case n.Cmp(big.NewInt(-1)) == 0:
		Opcode(w, opcode.PUSHM1)
	case n.Sign() == 0:
		Opcode(w, opcode.PUSH0)
	case n.IsInt64() && n.Int64() > 0 && n.Int64() <= 16:
		Opcode(w, opcode.PUSH1-1+opcode.Opcode(n.Int64()))
	default:
		Bytes(w, bigint.ToBytes(n))
	}
}

// Array emits an array of elements to the given buffer.
func Array(w *io.BinWriter, es ...any) {
	for i := len(es) - 1; i >= 0; i-- {
		switch e := es[i].(type) {
		case int:
			Int(w, int64(e))
		case int64:
			Int(w, e)
		case *big.Int:
			BigInt(w, e)
		case string:
			String(w, e)
		case util.Uint160:
			Bytes(w, e.BytesBE())
		case []byte:
			Bytes(w, e)
		case bool:
			Bool(w, e)
		default:
			w.Err = fmt.Errorf("unsupported type %T", e)
			return
		}
	}
	Int(w, int64(len(es)))
	Opcode(w, opcode.PACK)
}

// String emits a string to the given buffer.
func String(w *io.BinWriter, s string) {
	Bytes(w, []byte(s))
}

// Bytes emits a byte array to the given buffer.
func Bytes(w *io.BinWriter, b []byte) {
	var n = len(b)

	switch {
	case n == 0:
		Opcode(w, opcode.PUSH0)
		return
	case n <= int(opcode.PUSHBYTES75):
		Opcode(w, opcode.Opcode(n))
	case n < 0x100:
		Instruction(w, opcode.PUSHDATA1, []byte{byte(n)})
	case n < 0x10000:
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(n))
		Instruction(w, opcode.PUSHDATA2, buf)
	default:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(n))
		Instruction(w, opcode.PUSHDATA4, buf)
	}
	w.WriteBytes(b)
}

// Syscall emits the syscall API to the given buffer.
// Syscall API string cannot be 0.
func Syscall(w *io.BinWriter, api string) {
	if w.Err != nil {
		return
	} else if len(api) == 0 {
		w.Err = errors.New("syscall api cannot be of length 0")
		return
	} else if len(api) > MaxSyscallNameLen {
		w.Err = fmt.Errorf("syscall api is too long: %d", len(api))
		return
	}
	Opcode(w, opcode.SYSCALL)
	w.WriteVarBytes([]byte(api))
}

// Call emits a CALL instruction with the offset relative to it.
func Call(w *io.BinWriter, offset int16) {
	Jmp(w, opcode.CALL, offset)
}

// Jmp emits a jump Instruction along with the offset relative to it.
func Jmp(w *io.BinWriter, op opcode.Opcode, offset int16) {
	if w.Err != nil {
		return
	} else if !isInstructionJmp(op) {
		w.Err = fmt.Errorf("opcode %s is not a jump or call type", op.String())
		return
	}
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(offset))
	Instruction(w, op, buf)
}

// AppCall emits APPCALL of the given script hash, zero hash makes it a
// dynamic call taking the hash from the stack.
func AppCall(w *io.BinWriter, scriptHash util.Uint160) {
	Instruction(w, opcode.APPCALL, scriptHash.BytesBE())
}

// TailCall emits TAILCALL of the given script hash.
func TailCall(w *io.BinWriter, scriptHash util.Uint160) {
	Instruction(w, opcode.TAILCALL, scriptHash.BytesBE())
}

// AppCallWithOperationAndArgs emits an APPCALL with the given operation and arguments.
func AppCallWithOperationAndArgs(w *io.BinWriter, scriptHash util.Uint160, operation string, args ...any) {
	Array(w, args...)
	String(w, operation)
	AppCall(w, scriptHash)
}

func isInstructionJmp(op opcode.Opcode) bool {
	return opcode.JMP <= op && op <= opcode.CALL
}
