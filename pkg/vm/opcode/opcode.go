package opcode

import (
	"errors"
	"fmt"
)

// Opcode represents a single operation code for the NEO virtual machine.
type Opcode byte

// Viable list of supported instruction constants.
const (
	// Constants
	PUSH0       Opcode = 0x00
	PUSHF       Opcode = PUSH0
	PUSHBYTES1  Opcode = 0x01
	PUSHBYTES2  Opcode = 0x02
	PUSHBYTES3  Opcode = 0x03
	PUSHBYTES4  Opcode = 0x04
	PUSHBYTES5  Opcode = 0x05
	PUSHBYTES20 Opcode = 0x14
	PUSHBYTES32 Opcode = 0x20
	PUSHBYTES33 Opcode = 0x21
	PUSHBYTES64 Opcode = 0x40
	PUSHBYTES75 Opcode = 0x4B
	PUSHDATA1   Opcode = 0x4C
	PUSHDATA2   Opcode = 0x4D
	PUSHDATA4   Opcode = 0x4E
	PUSHM1      Opcode = 0x4F
	PUSH1       Opcode = 0x51
	PUSHT       Opcode = PUSH1
	PUSH2       Opcode = 0x52
	PUSH3       Opcode = 0x53
	PUSH4       Opcode = 0x54
	PUSH5       Opcode = 0x55
	PUSH6       Opcode = 0x56
	PUSH7       Opcode = 0x57
	PUSH8       Opcode = 0x58
	PUSH9       Opcode = 0x59
	PUSH10      Opcode = 0x5A
	PUSH11      Opcode = 0x5B
	PUSH12      Opcode = 0x5C
	PUSH13      Opcode = 0x5D
	PUSH14      Opcode = 0x5E
	PUSH15      Opcode = 0x5F
	PUSH16      Opcode = 0x60

	// Flow control
	NOP      Opcode = 0x61
	JMP      Opcode = 0x62
	JMPIF    Opcode = 0x63
	JMPIFNOT Opcode = 0x64
	CALL     Opcode = 0x65
	RET      Opcode = 0x66
	APPCALL  Opcode = 0x67
	SYSCALL  Opcode = 0x68
	TAILCALL Opcode = 0x69

	// Stack
	DUPFROMALTSTACK Opcode = 0x6A
	TOALTSTACK      Opcode = 0x6B
	FROMALTSTACK    Opcode = 0x6C
	XDROP           Opcode = 0x6D
	XSWAP           Opcode = 0x72
	XTUCK           Opcode = 0x73
	DEPTH           Opcode = 0x74
	DROP            Opcode = 0x75
	DUP             Opcode = 0x76
	NIP             Opcode = 0x77
	OVER            Opcode = 0x78
	PICK            Opcode = 0x79
	ROLL            Opcode = 0x7A
	ROT             Opcode = 0x7B
	SWAP            Opcode = 0x7C
	TUCK            Opcode = 0x7D

	// Splice
	CAT    Opcode = 0x7E
	SUBSTR Opcode = 0x7F
	LEFT   Opcode = 0x80
	RIGHT  Opcode = 0x81
	SIZE   Opcode = 0x82

	// Bitwise logic
	INVERT Opcode = 0x83
	AND    Opcode = 0x84
	OR     Opcode = 0x85
	XOR    Opcode = 0x86
	EQUAL  Opcode = 0x87

	// Arithmetic
	INC         Opcode = 0x8B
	DEC         Opcode = 0x8C
	SIGN        Opcode = 0x8D
	NEGATE      Opcode = 0x8F
	ABS         Opcode = 0x90
	NOT         Opcode = 0x91
	NZ          Opcode = 0x92
	ADD         Opcode = 0x93
	SUB         Opcode = 0x94
	MUL         Opcode = 0x95
	DIV         Opcode = 0x96
	MOD         Opcode = 0x97
	SHL         Opcode = 0x98
	SHR         Opcode = 0x99
	BOOLAND     Opcode = 0x9A
	BOOLOR      Opcode = 0x9B
	NUMEQUAL    Opcode = 0x9C
	NUMNOTEQUAL Opcode = 0x9E
	LT          Opcode = 0x9F
	GT          Opcode = 0xA0
	LTE         Opcode = 0xA1
	GTE         Opcode = 0xA2
	MIN         Opcode = 0xA3
	MAX         Opcode = 0xA4
	WITHIN      Opcode = 0xA5

	// Crypto
	SHA1          Opcode = 0xA7
	SHA256        Opcode = 0xA8
	HASH160       Opcode = 0xA9
	HASH256       Opcode = 0xAA
	CHECKSIG      Opcode = 0xAC
	VERIFY        Opcode = 0xAD
	CHECKMULTISIG Opcode = 0xAE

	// Array
	ARRAYSIZE Opcode = 0xC0
	PACK      Opcode = 0xC1
	UNPACK    Opcode = 0xC2
	PICKITEM  Opcode = 0xC3
	SETITEM   Opcode = 0xC4
	NEWARRAY  Opcode = 0xC5
	NEWSTRUCT Opcode = 0xC6
	NEWMAP    Opcode = 0xC7
	APPEND    Opcode = 0xC8
	REVERSE   Opcode = 0xC9
	REMOVE    Opcode = 0xCA
	HASKEY    Opcode = 0xCB
	KEYS      Opcode = 0xCC
	VALUES    Opcode = 0xCD

	// Stack isolation, reserved and not supported by this VM.
	CALLI   Opcode = 0xE0
	CALLE   Opcode = 0xE1
	CALLED  Opcode = 0xE2
	CALLET  Opcode = 0xE3
	CALLEDT Opcode = 0xE4

	// Exceptions
	THROW      Opcode = 0xF0
	THROWIFNOT Opcode = 0xF1
)

var names = map[Opcode]string{
	PUSH0: "PUSH0", PUSHDATA1: "PUSHDATA1", PUSHDATA2: "PUSHDATA2",
	PUSHDATA4: "PUSHDATA4", PUSHM1: "PUSHM1",

	NOP: "NOP", JMP: "JMP", JMPIF: "JMPIF", JMPIFNOT: "JMPIFNOT", CALL: "CALL",
	RET: "RET", APPCALL: "APPCALL", SYSCALL: "SYSCALL", TAILCALL: "TAILCALL",

	DUPFROMALTSTACK: "DUPFROMALTSTACK", TOALTSTACK: "TOALTSTACK",
	FROMALTSTACK: "FROMALTSTACK", XDROP: "XDROP", XSWAP: "XSWAP", XTUCK: "XTUCK",
	DEPTH: "DEPTH", DROP: "DROP", DUP: "DUP", NIP: "NIP", OVER: "OVER",
	PICK: "PICK", ROLL: "ROLL", ROT: "ROT", SWAP: "SWAP", TUCK: "TUCK",

	CAT: "CAT", SUBSTR: "SUBSTR", LEFT: "LEFT", RIGHT: "RIGHT", SIZE: "SIZE",

	INVERT: "INVERT", AND: "AND", OR: "OR", XOR: "XOR", EQUAL: "EQUAL",

	INC: "INC", DEC: "DEC", SIGN: "SIGN", NEGATE: "NEGATE", ABS: "ABS",
	NOT: "NOT", NZ: "NZ", ADD: "ADD", SUB: "SUB", MUL: "MUL", DIV: "DIV",
	MOD: "MOD", SHL: "SHL", SHR: "SHR", BOOLAND: "BOOLAND", BOOLOR: "BOOLOR",
	NUMEQUAL: "NUMEQUAL", NUMNOTEQUAL: "NUMNOTEQUAL", LT: "LT", GT: "GT",
	LTE: "LTE", GTE: "GTE", MIN: "MIN", MAX: "MAX", WITHIN: "WITHIN",

	SHA1: "SHA1", SHA256: "SHA256", HASH160: "HASH160", HASH256: "HASH256",
	CHECKSIG: "CHECKSIG", VERIFY: "VERIFY", CHECKMULTISIG: "CHECKMULTISIG",

	ARRAYSIZE: "ARRAYSIZE", PACK: "PACK", UNPACK: "UNPACK", PICKITEM: "PICKITEM",
	SETITEM: "SETITEM", NEWARRAY: "NEWARRAY", NEWSTRUCT: "NEWSTRUCT",
	NEWMAP: "NEWMAP", APPEND: "APPEND", REVERSE: "REVERSE", REMOVE: "REMOVE",
	HASKEY: "HASKEY", KEYS: "KEYS", VALUES: "VALUES",

	CALLI: "CALL_I", CALLE: "CALL_E", CALLED: "CALL_ED", CALLET: "CALL_ET",
	CALLEDT: "CALL_EDT",

	THROW: "THROW", THROWIFNOT: "THROWIFNOT",
}

var byName = make(map[string]Opcode)

func init() {
	for op := PUSHBYTES1; op <= PUSHBYTES75; op++ {
		names[op] = fmt.Sprintf("PUSHBYTES%d", op)
	}
	for op := PUSH1; op <= PUSH16; op++ {
		names[op] = fmt.Sprintf("PUSH%d", op.pushNum())
	}
	for op, s := range names {
		byName[s] = op
	}
}

func (op Opcode) pushNum() int {
	return int(op) - int(PUSH1) + 1
}

// String implements the fmt.Stringer interface.
func (op Opcode) String() string {
	if s, ok := names[op]; ok {
		return s
	}
	return fmt.Sprintf("Opcode(%d)", byte(op))
}

// FromString converts string representation to an opcode itself.
func FromString(s string) (Opcode, error) {
	if op, ok := byName[s]; ok {
		return op, nil
	}
	return 0, errors.New("invalid opcode")
}

// IsValid returns true if the opcode passed is valid (defined in the VM).
// Stack isolation opcodes are defined, but the VM faults on them.
func IsValid(op Opcode) bool {
	_, ok := names[op]
	return ok
}

// IsPush returns true for opcodes allowed in push-only scripts.
func IsPush(op Opcode) bool {
	return op <= PUSH16
}
