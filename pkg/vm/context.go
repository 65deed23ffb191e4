package vm

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neovm/pkg/crypto/hash"
	"github.com/nspcc-dev/neovm/pkg/util"
	"github.com/nspcc-dev/neovm/pkg/vm/opcode"
)

// maxSyscallNameLen is the longest interop method name SYSCALL accepts.
const maxSyscallNameLen = 252

var errNoInstParam = errors.New("failed to read instruction parameter")

// Context represents the current execution context of the VM, a single
// frame of the invocation stack.
type Context struct {
	// Instruction pointer.
	ip int

	// The next instruction pointer.
	nextip int

	// The raw program script.
	prog []byte

	// Script hash of the prog, computed lazily.
	scriptHash util.Uint160
	hashed     bool

	// Whether only push instructions (and RET) are allowed.
	pushOnly bool

	// Alternative stack of this frame.
	alt *Stack

	// Evaluation stack shared by all frames of the VM.
	estack *Stack

	// Breakpoints.
	breakPoints []int
}

// NewContext returns a new Context object.
func NewContext(b []byte) *Context {
	return &Context{
		prog:   b,
		alt:    NewStack("alt"),
		estack: NewStack("evaluation"),
	}
}

// NextIP returns the next instruction pointer.
func (c *Context) NextIP() int {
	return c.nextip
}

// Jump unconditionally moves the next instruction pointer to the specified
// location.
func (c *Context) Jump(pos int) {
	if pos < 0 || pos > len(c.prog) {
		panic("instruction offset is out of range")
	}
	c.nextip = pos
}

// Next returns the next instruction to execute with its parameter if any.
// The parameter is not copied and shouldn't be written to. After its
// invocation, the instruction pointer points to the instruction returned.
// Reading past the end of the script yields an implicit RET.
func (c *Context) Next() (opcode.Opcode, []byte, error) {
	var err error

	c.ip = c.nextip
	prog := c.prog
	if c.ip >= len(prog) {
		return opcode.RET, nil, nil
	}

	var instrbyte = prog[c.ip]
	instr := opcode.Opcode(instrbyte)
	c.nextip++

	var numtoread int
	switch {
	case instr >= opcode.PUSHBYTES1 && instr <= opcode.PUSHBYTES75:
		numtoread = int(instr)
	case instr == opcode.PUSHDATA1, instr == opcode.PUSHDATA2, instr == opcode.PUSHDATA4:
		var n int
		switch instr {
		case opcode.PUSHDATA1:
			n = 1
		case opcode.PUSHDATA2:
			n = 2
		case opcode.PUSHDATA4:
			n = 4
		}
		if c.nextip+n > len(prog) {
			err = errNoInstParam
			break
		}
		var size uint32
		switch n {
		case 1:
			size = uint32(prog[c.nextip])
		case 2:
			size = uint32(binary.LittleEndian.Uint16(prog[c.nextip : c.nextip+2]))
		case 4:
			size = binary.LittleEndian.Uint32(prog[c.nextip : c.nextip+4])
		}
		c.nextip += n
		if uint64(size) > uint64(len(prog)-c.nextip) {
			err = errNoInstParam
			break
		}
		numtoread = int(size)
	case instr == opcode.JMP, instr == opcode.JMPIF, instr == opcode.JMPIFNOT,
		instr == opcode.CALL:
		numtoread = 2
	case instr == opcode.APPCALL, instr == opcode.TAILCALL:
		numtoread = util.Uint160Size
	case instr == opcode.SYSCALL:
		if c.nextip >= len(prog) {
			err = errNoInstParam
			break
		}
		numtoread = int(prog[c.nextip])
		if numtoread > maxSyscallNameLen {
			err = fmt.Errorf("too long SYSCALL method name: %d", numtoread)
			break
		}
		c.nextip++
	}
	if err != nil {
		return instr, nil, err
	}
	if c.nextip+numtoread > len(prog) {
		return instr, nil, errNoInstParam
	}
	parameter := prog[c.nextip : c.nextip+numtoread]
	c.nextip += numtoread
	return instr, parameter, nil
}

// IP returns the current instruction offset.
func (c *Context) IP() int {
	return c.ip
}

// LenInstr returns the number of instructions loaded.
func (c *Context) LenInstr() int {
	return len(c.prog)
}

// CurrInstr returns the current instruction and opcode.
func (c *Context) CurrInstr() (int, opcode.Opcode) {
	return c.ip, c.opcodeAt(c.ip)
}

// NextInstr returns the next instruction and opcode without changing the
// state of the context.
func (c *Context) NextInstr() (int, opcode.Opcode) {
	return c.nextip, c.opcodeAt(c.nextip)
}

func (c *Context) opcodeAt(pos int) opcode.Opcode {
	if pos < 0 || pos >= len(c.prog) {
		return opcode.RET
	}
	return opcode.Opcode(c.prog[pos])
}

// Program returns the loaded program.
func (c *Context) Program() []byte {
	return c.prog
}

// IsPushOnly returns true for contexts that only accept push instructions.
func (c *Context) IsPushOnly() bool {
	return c.pushOnly
}

// ScriptHash returns a hash of the script in the current context, it's
// computed once and cached.
func (c *Context) ScriptHash() util.Uint160 {
	if !c.hashed {
		c.scriptHash = hash.Hash160(c.prog)
		c.hashed = true
	}
	return c.scriptHash
}

// AltStack returns the alternative stack of this frame.
func (c *Context) AltStack() *Stack {
	return c.alt
}

// Estack returns the evaluation stack of this context.
func (c *Context) Estack() *Stack {
	return c.estack
}

// String implements the fmt.Stringer interface.
func (c *Context) String() string {
	return "Context"
}

// atBreakPoint returns whether the next instruction is a breakpoint.
func (c *Context) atBreakPoint() bool {
	for _, n := range c.breakPoints {
		if n == c.nextip {
			return true
		}
	}
	return false
}
