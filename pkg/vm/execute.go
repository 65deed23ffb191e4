package vm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/nspcc-dev/neovm/pkg/crypto/hash"
	"github.com/nspcc-dev/neovm/pkg/crypto/keys"
	"github.com/nspcc-dev/neovm/pkg/util"
	"github.com/nspcc-dev/neovm/pkg/util/slice"
	"github.com/nspcc-dev/neovm/pkg/vm/opcode"
	"github.com/nspcc-dev/neovm/pkg/vm/stackitem"
)

// maxSHLArg is the maximum absolute SHL/SHR shift value.
const maxSHLArg = 0xFFFF

var (
	errStackTooBig      = errors.New("stack is too big")
	errItemTooBig       = errors.New("item is too big")
	errArrayTooBig      = errors.New("array is too big")
	errInvocationTooBig = errors.New("invocation stack is too big")
	errTooFewItems      = errors.New("not enough items on the stack")
	errBadIndex         = errors.New("bad index")
	errPushOnly         = errors.New("only push instructions are allowed")
	errNoScriptTable    = errors.New("no script table")
	errNoMessage        = errors.New("no message to verify")
)

// minStackItems is the number of evaluation stack items an opcode needs,
// it's checked before anything is taken from the stack.
var minStackItems [256]int8

func init() {
	for op, n := range map[opcode.Opcode]int8{
		opcode.JMPIF: 1, opcode.JMPIFNOT: 1,
		opcode.TOALTSTACK: 1, opcode.XDROP: 1, opcode.XSWAP: 1, opcode.XTUCK: 1,
		opcode.DROP: 1, opcode.DUP: 1, opcode.NIP: 2, opcode.OVER: 2, opcode.PICK: 1,
		opcode.ROLL: 1, opcode.ROT: 3, opcode.SWAP: 2, opcode.TUCK: 2,
		opcode.CAT: 2, opcode.SUBSTR: 3, opcode.LEFT: 2, opcode.RIGHT: 2, opcode.SIZE: 1,
		opcode.INVERT: 1, opcode.AND: 2, opcode.OR: 2, opcode.XOR: 2, opcode.EQUAL: 2,
		opcode.INC: 1, opcode.DEC: 1, opcode.SIGN: 1, opcode.NEGATE: 1, opcode.ABS: 1,
		opcode.NOT: 1, opcode.NZ: 1, opcode.ADD: 2, opcode.SUB: 2, opcode.MUL: 2,
		opcode.DIV: 2, opcode.MOD: 2, opcode.SHL: 2, opcode.SHR: 2, opcode.BOOLAND: 2,
		opcode.BOOLOR: 2, opcode.NUMEQUAL: 2, opcode.NUMNOTEQUAL: 2, opcode.LT: 2,
		opcode.GT: 2, opcode.LTE: 2, opcode.GTE: 2, opcode.MIN: 2, opcode.MAX: 2,
		opcode.WITHIN: 3,
		opcode.SHA1: 1, opcode.SHA256: 1, opcode.HASH160: 1, opcode.HASH256: 1,
		opcode.CHECKSIG: 2, opcode.VERIFY: 3, opcode.CHECKMULTISIG: 1,
		opcode.ARRAYSIZE: 1, opcode.PACK: 1, opcode.UNPACK: 1, opcode.PICKITEM: 2,
		opcode.SETITEM: 3, opcode.NEWARRAY: 1, opcode.NEWSTRUCT: 1, opcode.APPEND: 2,
		opcode.REVERSE: 1, opcode.REMOVE: 2, opcode.HASKEY: 2, opcode.KEYS: 1,
		opcode.VALUES: 1, opcode.THROWIFNOT: 1,
	} {
		minStackItems[op] = n
	}
}

// toInt converts an item to a 32-bit signed integer panicking if it's not
// possible.
func toInt(i *big.Int) int {
	if !i.IsInt64() {
		panic("not an int32")
	}
	n := i.Int64()
	if n < math.MinInt32 || n > math.MaxInt32 {
		panic("not an int32")
	}
	return int(n)
}

// cloneIfStruct returns a copy of item if it's a Struct and item itself
// otherwise.
func cloneIfStruct(item stackitem.Item) stackitem.Item {
	if s, ok := item.(*stackitem.Struct); ok {
		c, err := s.Clone()
		if err != nil {
			panic(err)
		}
		return c
	}
	return item
}

// execute performs an instruction cycle in the VM. Acting on the instruction
// (opcode).
func (v *VM) execute(ctx *Context, op opcode.Opcode, parameter []byte) (vmErr *errorAtInstruct) {
	// Instead of polluting the whole VM logic with error handling, we will recover
	// each panic at a central point, putting the VM in a fault state and setting error.
	defer func() {
		if errRecover := recover(); errRecover != nil {
			v.state = FaultState
			vmErr = newError(ctx.ip, op, errRecover)
		} else if v.refs.Len() > v.limits.MaxStackSize {
			v.state = FaultState
			vmErr = newError(ctx.ip, op, errStackTooBig)
		}
	}()

	if ctx.pushOnly && op > opcode.PUSH16 && op != opcode.RET {
		panic(errPushOnly)
	}
	if n := int(minStackItems[op]); v.estack.Len() < n {
		panic(fmt.Errorf("%w: %d needed, %d present", errTooFewItems, n, v.estack.Len()))
	}

	if op >= opcode.PUSHBYTES1 && op <= opcode.PUSHDATA4 {
		if len(parameter) > v.limits.MaxItemSize {
			panic(errItemTooBig)
		}
		v.estack.PushVal(slice.Copy(parameter))
		return
	}

	switch op {
	case opcode.PUSH0:
		v.estack.PushVal([]byte{})

	case opcode.PUSHM1, opcode.PUSH1, opcode.PUSH2, opcode.PUSH3,
		opcode.PUSH4, opcode.PUSH5, opcode.PUSH6, opcode.PUSH7,
		opcode.PUSH8, opcode.PUSH9, opcode.PUSH10, opcode.PUSH11,
		opcode.PUSH12, opcode.PUSH13, opcode.PUSH14, opcode.PUSH15,
		opcode.PUSH16:
		val := int(op) - int(opcode.PUSH1) + 1
		v.estack.PushVal(val)

	case opcode.NOP:
		// unlucky ^^

	case opcode.JMP, opcode.JMPIF, opcode.JMPIFNOT:
		offset := v.getJumpOffset(ctx, parameter)
		cond := true
		if op != opcode.JMP {
			cond = v.estack.Pop().Bool() == (op == opcode.JMPIF)
		}
		if cond {
			ctx.Jump(offset)
		}

	case opcode.CALL:
		offset := v.getJumpOffset(ctx, parameter)
		v.checkInvocationStackSize()
		newCtx := v.newContext(ctx.prog, ctx.pushOnly)
		newCtx.Jump(offset)
		v.istack.Push(newCtx)

	case opcode.RET:
		oldCtx := v.istack.Pop()
		oldCtx.alt.Clear()
		if v.istack.Len() == 0 {
			v.state = HaltState
		}

	case opcode.APPCALL, opcode.TAILCALL:
		if v.table == nil {
			panic(errNoScriptTable)
		}
		h, err := util.Uint160DecodeBytesBE(parameter)
		if err != nil {
			panic(err)
		}
		isDynamic := h.IsZero()
		if isDynamic {
			h, err = util.Uint160DecodeBytesBE(v.estack.Pop().Bytes())
			if err != nil {
				panic(err)
			}
		}
		script := v.table.GetScript(h, isDynamic)
		if script == nil {
			panic(fmt.Sprintf("script %s not found", h.StringLE()))
		}
		if op == opcode.TAILCALL {
			oldCtx := v.istack.Pop()
			oldCtx.alt.Clear()
		} else {
			v.checkInvocationStackSize()
		}
		v.LoadScript(script)

	case opcode.SYSCALL:
		name := string(parameter)
		if v.interop == nil || !v.interop.Invoke(name, v) {
			panic(fmt.Sprintf("failed to invoke syscall %q", name))
		}

	// Stack operations.
	case opcode.DUPFROMALTSTACK:
		v.estack.Push(ctx.alt.Dup(0))

	case opcode.TOALTSTACK:
		ctx.alt.Push(v.estack.Pop())

	case opcode.FROMALTSTACK:
		v.estack.Push(ctx.alt.Pop())

	case opcode.XDROP:
		n := toInt(v.estack.Pop().BigInt())
		if n < 0 {
			panic(errBadIndex)
		}
		v.estack.RemoveAt(n)

	case opcode.XSWAP:
		n := toInt(v.estack.Pop().BigInt())
		if err := v.estack.Swap(0, n); err != nil {
			panic(err)
		}

	case opcode.XTUCK:
		n := toInt(v.estack.Pop().BigInt())
		if n <= 0 {
			panic(errBadIndex)
		}
		v.estack.InsertAt(v.estack.Dup(0), n)

	case opcode.DEPTH:
		v.estack.PushVal(v.estack.Len())

	case opcode.DROP:
		v.estack.Pop()

	case opcode.DUP:
		v.estack.Push(v.estack.Dup(0))

	case opcode.NIP:
		v.estack.RemoveAt(1)

	case opcode.OVER:
		v.estack.Push(v.estack.Dup(1))

	case opcode.PICK:
		n := toInt(v.estack.Pop().BigInt())
		if n < 0 {
			panic(errBadIndex)
		}
		v.estack.Push(v.estack.Dup(n))

	case opcode.ROLL:
		n := toInt(v.estack.Pop().BigInt())
		if err := v.estack.Roll(n); err != nil {
			panic(err)
		}

	case opcode.ROT:
		if err := v.estack.Roll(2); err != nil {
			panic(err)
		}

	case opcode.SWAP:
		if err := v.estack.Swap(0, 1); err != nil {
			panic(err)
		}

	case opcode.TUCK:
		v.estack.InsertAt(v.estack.Dup(0), 2)

	// Splice operations.
	case opcode.CAT:
		b := v.estack.Pop().Bytes()
		a := v.estack.Pop().Bytes()
		l := len(a) + len(b)
		if l > v.limits.MaxItemSize {
			panic(errItemTooBig)
		}
		ab := make([]byte, l)
		copy(ab, a)
		copy(ab[len(a):], b)
		v.estack.PushVal(ab)

	case opcode.SUBSTR:
		l := toInt(v.estack.Pop().BigInt())
		if l < 0 {
			panic("negative length")
		}
		o := toInt(v.estack.Pop().BigInt())
		if o < 0 {
			panic("negative index")
		}
		s := v.estack.Pop().Bytes()
		if o > len(s) {
			o = len(s)
		}
		last := len(s)
		if l < last-o {
			last = o + l
		}
		v.estack.PushVal(slice.Copy(s[o:last]))

	case opcode.LEFT:
		l := toInt(v.estack.Pop().BigInt())
		if l < 0 {
			panic("negative length")
		}
		s := v.estack.Pop().Bytes()
		if t := len(s); l > t {
			l = t
		}
		v.estack.PushVal(slice.Copy(s[:l]))

	case opcode.RIGHT:
		l := toInt(v.estack.Pop().BigInt())
		if l < 0 {
			panic("negative length")
		}
		s := v.estack.Pop().Bytes()
		if l > len(s) {
			panic("length is too big")
		}
		v.estack.PushVal(slice.Copy(s[len(s)-l:]))

	case opcode.SIZE:
		elem := v.estack.Pop()
		v.estack.PushVal(len(elem.Bytes()))

	// Bit operations.
	case opcode.INVERT:
		i := v.estack.Pop().BigInt()
		v.estack.PushVal(new(big.Int).Not(i))

	case opcode.AND:
		b := v.estack.Pop().BigInt()
		a := v.estack.Pop().BigInt()
		v.estack.PushVal(new(big.Int).And(b, a))

	case opcode.OR:
		b := v.estack.Pop().BigInt()
		a := v.estack.Pop().BigInt()
		v.estack.PushVal(new(big.Int).Or(b, a))

	case opcode.XOR:
		b := v.estack.Pop().BigInt()
		a := v.estack.Pop().BigInt()
		v.estack.PushVal(new(big.Int).Xor(b, a))

	case opcode.EQUAL:
		b := v.estack.Pop()
		a := v.estack.Pop()
		v.estack.PushVal(a.value.Equals(b.value))

	// Numeric operations.
	case opcode.INC:
		x := v.estack.Pop().BigInt()
		v.estack.PushVal(new(big.Int).Add(x, big.NewInt(1)))

	case opcode.DEC:
		x := v.estack.Pop().BigInt()
		v.estack.PushVal(new(big.Int).Sub(x, big.NewInt(1)))

	case opcode.SIGN:
		x := v.estack.Pop().BigInt()
		v.estack.PushVal(x.Sign())

	case opcode.NEGATE:
		x := v.estack.Pop().BigInt()
		v.estack.PushVal(new(big.Int).Neg(x))

	case opcode.ABS:
		x := v.estack.Pop().BigInt()
		v.estack.PushVal(new(big.Int).Abs(x))

	case opcode.NOT:
		x := v.estack.Pop().Bool()
		v.estack.PushVal(!x)

	case opcode.NZ:
		x := v.estack.Pop().BigInt()
		v.estack.PushVal(x.Sign() != 0)

	case opcode.ADD:
		a := v.estack.Pop().BigInt()
		b := v.estack.Pop().BigInt()
		v.estack.PushVal(new(big.Int).Add(a, b))

	case opcode.SUB:
		b := v.estack.Pop().BigInt()
		a := v.estack.Pop().BigInt()
		v.estack.PushVal(new(big.Int).Sub(a, b))

	case opcode.MUL:
		a := v.estack.Pop().BigInt()
		b := v.estack.Pop().BigInt()
		v.estack.PushVal(new(big.Int).Mul(a, b))

	case opcode.DIV:
		b := v.estack.Pop().BigInt()
		if b.Sign() == 0 {
			panic("division by zero")
		}
		a := v.estack.Pop().BigInt()
		v.estack.PushVal(new(big.Int).Quo(a, b))

	case opcode.MOD:
		b := v.estack.Pop().BigInt()
		if b.Sign() == 0 {
			panic("division by zero")
		}
		a := v.estack.Pop().BigInt()
		v.estack.PushVal(new(big.Int).Rem(a, b))

	case opcode.SHL, opcode.SHR:
		n := toInt(v.estack.Pop().BigInt())
		if n < -maxSHLArg || n > maxSHLArg {
			panic(fmt.Sprintf("operand must be between %d and %d", -maxSHLArg, maxSHLArg))
		}
		if n == 0 {
			return
		}
		if op == opcode.SHR {
			n = -n
		}
		x := v.estack.Pop().BigInt()
		if n > 0 {
			v.estack.PushVal(new(big.Int).Lsh(x, uint(n)))
		} else {
			v.estack.PushVal(new(big.Int).Rsh(x, uint(-n)))
		}

	case opcode.BOOLAND:
		b := v.estack.Pop().Bool()
		a := v.estack.Pop().Bool()
		v.estack.PushVal(a && b)

	case opcode.BOOLOR:
		b := v.estack.Pop().Bool()
		a := v.estack.Pop().Bool()
		v.estack.PushVal(a || b)

	case opcode.NUMEQUAL:
		b := v.estack.Pop().BigInt()
		a := v.estack.Pop().BigInt()
		v.estack.PushVal(a.Cmp(b) == 0)

	case opcode.NUMNOTEQUAL:
		b := v.estack.Pop().BigInt()
		a := v.estack.Pop().BigInt()
		v.estack.PushVal(a.Cmp(b) != 0)

	case opcode.LT:
		b := v.estack.Pop().BigInt()
		a := v.estack.Pop().BigInt()
		v.estack.PushVal(a.Cmp(b) < 0)

	case opcode.LTE:
		b := v.estack.Pop().BigInt()
		a := v.estack.Pop().BigInt()
		v.estack.PushVal(a.Cmp(b) <= 0)

	case opcode.GT:
		b := v.estack.Pop().BigInt()
		a := v.estack.Pop().BigInt()
		v.estack.PushVal(a.Cmp(b) > 0)

	case opcode.GTE:
		b := v.estack.Pop().BigInt()
		a := v.estack.Pop().BigInt()
		v.estack.PushVal(a.Cmp(b) >= 0)

	case opcode.MIN:
		b := v.estack.Pop().BigInt()
		a := v.estack.Pop().BigInt()
		val := a
		if a.Cmp(b) > 0 {
			val = b
		}
		v.estack.PushVal(val)

	case opcode.MAX:
		b := v.estack.Pop().BigInt()
		a := v.estack.Pop().BigInt()
		val := a
		if a.Cmp(b) < 0 {
			val = b
		}
		v.estack.PushVal(val)

	case opcode.WITHIN:
		// All operands are taken before conversion, a bad one leaves none.
		eb := v.estack.Pop()
		ea := v.estack.Pop()
		ex := v.estack.Pop()
		b, a, x := eb.BigInt(), ea.BigInt(), ex.BigInt()
		v.estack.PushVal(a.Cmp(x) <= 0 && x.Cmp(b) < 0)

	// Crypto operations.
	case opcode.SHA1:
		b := v.estack.Pop().Bytes()
		v.estack.PushVal(hash.Sha1(b))

	case opcode.SHA256:
		b := v.estack.Pop().Bytes()
		v.estack.PushVal(hash.Sha256(b).BytesBE())

	case opcode.HASH160:
		b := v.estack.Pop().Bytes()
		v.estack.PushVal(hash.Hash160(b).BytesBE())

	case opcode.HASH256:
		b := v.estack.Pop().Bytes()
		v.estack.PushVal(hash.Hash256(b).BytesBE())

	case opcode.CHECKSIG:
		pubkey := v.estack.Pop().Bytes()
		signature := v.estack.Pop().Bytes()
		msg := v.GetMessage()
		if msg == nil {
			panic(errNoMessage)
		}
		v.estack.PushVal(keys.VerifySignature(msg, signature, pubkey))

	case opcode.VERIFY:
		pubkey := v.estack.Pop().Bytes()
		signature := v.estack.Pop().Bytes()
		msg := v.estack.Pop().Bytes()
		v.estack.PushVal(keys.VerifySignature(msg, signature, pubkey))

	case opcode.CHECKMULTISIG:
		pkeys, err := v.estack.PopSigElements()
		if err != nil {
			panic(fmt.Sprintf("wrong parameters: %s", err))
		}
		sigs, err := v.estack.PopSigElements()
		if err != nil {
			panic(fmt.Sprintf("wrong parameters: %s", err))
		}
		if len(pkeys) < len(sigs) {
			panic("more signatures than there are keys")
		}
		msg := v.GetMessage()
		if msg == nil {
			panic(errNoMessage)
		}
		v.estack.PushVal(checkMultisig(msg, sigs, pkeys))

	// Array and Map operations.
	case opcode.ARRAYSIZE:
		elem := v.estack.Pop()
		switch t := elem.value.(type) {
		case *stackitem.Array:
			v.estack.PushVal(t.Len())
		case *stackitem.Struct:
			v.estack.PushVal(t.Len())
		case *stackitem.Map:
			v.estack.PushVal(t.Len())
		default:
			v.estack.PushVal(len(elem.Bytes()))
		}

	case opcode.PACK:
		n := toInt(v.estack.Pop().BigInt())
		if n < 0 || n > v.estack.Len() || n > v.limits.MaxArraySize {
			panic("PACK: invalid length")
		}
		items := make([]stackitem.Item, n)
		for i := 0; i < n; i++ {
			items[i] = v.estack.Pop().value
		}
		v.estack.PushVal(items)

	case opcode.UNPACK:
		arr := v.estack.Pop().Array()
		for i := len(arr) - 1; i >= 0; i-- {
			v.estack.PushItem(arr[i])
		}
		v.estack.PushVal(len(arr))

	case opcode.PICKITEM:
		key := v.estack.Pop()
		obj := v.estack.Pop()
		switch t := obj.value.(type) {
		case *stackitem.Array, *stackitem.Struct:
			arr := obj.Array()
			index := toInt(key.BigInt())
			if index < 0 || index >= len(arr) {
				panic("PICKITEM: invalid index")
			}
			v.estack.PushItem(cloneIfStruct(arr[index]))
		case *stackitem.Map:
			index := t.Index(key.Item())
			if index < 0 {
				panic("invalid key")
			}
			v.estack.PushItem(cloneIfStruct(t.Value().([]stackitem.MapElement)[index].Value))
		default:
			panic(fmt.Sprintf("PICKITEM: unsupported item type %s", obj.value.Type()))
		}

	case opcode.SETITEM:
		item := cloneIfStruct(v.estack.Pop().value)
		key := v.estack.Pop()
		obj := v.estack.Pop()
		switch t := obj.value.(type) {
		case *stackitem.Array, *stackitem.Struct:
			arr := obj.Array()
			index := toInt(key.BigInt())
			if index < 0 || index >= len(arr) {
				panic("SETITEM: invalid index")
			}
			arr[index] = item
		case *stackitem.Map:
			if err := stackitem.IsValidMapKey(key.value); err != nil {
				panic(err)
			}
			if !t.Has(key.value) && t.Len() >= v.limits.MaxArraySize {
				panic(errArrayTooBig)
			}
			t.Add(key.value, item)
		default:
			panic(fmt.Sprintf("SETITEM: invalid item type %s", t))
		}

	case opcode.NEWARRAY, opcode.NEWSTRUCT:
		item := v.estack.Pop()
		var items []stackitem.Item
		switch t := item.value.(type) {
		case *stackitem.Array:
			if op == opcode.NEWARRAY {
				v.estack.PushItem(t)
				return
			}
			items = t.Value().([]stackitem.Item)
		case *stackitem.Struct:
			if op == opcode.NEWSTRUCT {
				v.estack.PushItem(t)
				return
			}
			items = t.Value().([]stackitem.Item)
		default:
			n := toInt(item.BigInt())
			if n < 0 || n > v.limits.MaxArraySize {
				panic(errArrayTooBig)
			}
			items = make([]stackitem.Item, n)
			for i := range items {
				items[i] = stackitem.NewBool(false)
			}
		}
		items = append([]stackitem.Item(nil), items...)
		if op == opcode.NEWARRAY {
			v.estack.PushItem(stackitem.NewArray(items))
		} else {
			v.estack.PushItem(stackitem.NewStruct(items))
		}

	case opcode.NEWMAP:
		v.estack.PushItem(stackitem.NewMap())

	case opcode.APPEND:
		itemElem := v.estack.Pop()
		arrElem := v.estack.Pop()

		val := cloneIfStruct(itemElem.value)

		switch t := arrElem.value.(type) {
		case *stackitem.Array:
			if t.Len() >= v.limits.MaxArraySize {
				panic(errArrayTooBig)
			}
			t.Append(val)
		case *stackitem.Struct:
			if t.Len() >= v.limits.MaxArraySize {
				panic(errArrayTooBig)
			}
			t.Append(val)
		default:
			panic("APPEND: not of underlying type Array")
		}

	case opcode.REVERSE:
		item := v.estack.Pop()
		switch item.value.(type) {
		case *stackitem.Array, *stackitem.Struct:
			a := item.Array()
			for i, j := 0, len(a)-1; i < j; i, j = i+1, j-1 {
				a[i], a[j] = a[j], a[i]
			}
		default:
			panic(fmt.Sprintf("invalid item type %s", item.value))
		}

	case opcode.REMOVE:
		key := v.estack.Pop()
		elem := v.estack.Pop()
		switch t := elem.value.(type) {
		case *stackitem.Array:
			k := toInt(key.BigInt())
			if k < 0 || k >= t.Len() {
				panic("REMOVE: invalid index")
			}
			t.Remove(k)
		case *stackitem.Struct:
			k := toInt(key.BigInt())
			if k < 0 || k >= t.Len() {
				panic("REMOVE: invalid index")
			}
			t.Remove(k)
		case *stackitem.Map:
			if err := stackitem.IsValidMapKey(key.value); err != nil {
				panic(err)
			}
			index := t.Index(key.value)
			if index >= 0 {
				t.Drop(index)
			}
		default:
			panic("REMOVE: invalid type")
		}

	case opcode.HASKEY:
		key := v.estack.Pop()
		if err := stackitem.IsValidMapKey(key.value); err != nil {
			panic(err)
		}
		c := v.estack.Pop()
		switch t := c.value.(type) {
		case *stackitem.Array, *stackitem.Struct:
			index := key.BigInt()
			if index.Sign() < 0 {
				panic("negative index")
			}
			v.estack.PushVal(index.Cmp(big.NewInt(int64(len(c.Array())))) < 0)
		case *stackitem.Map:
			v.estack.PushVal(t.Has(key.value))
		default:
			panic("wrong collection type")
		}

	case opcode.KEYS:
		item := v.estack.Pop()
		m, ok := item.value.(*stackitem.Map)
		if !ok {
			panic("not a Map")
		}
		elems := m.Value().([]stackitem.MapElement)
		arr := make([]stackitem.Item, 0, len(elems))
		for k := range elems {
			arr = append(arr, elems[k].Key)
		}
		v.estack.PushVal(arr)

	case opcode.VALUES:
		item := v.estack.Pop()
		var arr []stackitem.Item
		switch t := item.value.(type) {
		case *stackitem.Array, *stackitem.Struct:
			src := item.Array()
			arr = make([]stackitem.Item, 0, len(src))
			for _, e := range src {
				arr = append(arr, cloneIfStruct(e))
			}
		case *stackitem.Map:
			elems := t.Value().([]stackitem.MapElement)
			arr = make([]stackitem.Item, 0, len(elems))
			for k := range elems {
				arr = append(arr, cloneIfStruct(elems[k].Value))
			}
		default:
			panic("not a Map, Array or Struct")
		}
		v.estack.PushVal(arr)

	// Exceptions.
	case opcode.THROW:
		panic("THROW")

	case opcode.THROWIFNOT:
		if !v.estack.Pop().Bool() {
			panic("THROWIFNOT")
		}

	default:
		panic(fmt.Sprintf("unknown opcode %s", op.String()))
	}
	return
}

// getJumpOffset returns the jump target for JMP-like and CALL instructions,
// the offset is relative to the instruction itself.
func (v *VM) getJumpOffset(ctx *Context, parameter []byte) int {
	offset := int(int16(binary.LittleEndian.Uint16(parameter)))
	target := ctx.ip + offset
	if target < 0 || target > len(ctx.prog) {
		panic(fmt.Sprintf("invalid offset %d ip at %d", offset, ctx.ip))
	}
	return target
}

func (v *VM) checkInvocationStackSize() {
	if v.istack.Len() >= v.limits.MaxInvocationStackSize {
		panic(errInvocationTooBig)
	}
}

// checkMultisig checks that the given signatures match some of the keys
// preserving their order.
func checkMultisig(msg []byte, sigs, pkeys [][]byte) bool {
	var (
		i, j = 0, 0
		m, n = len(sigs), len(pkeys)
	)
	for i < m && j < n {
		if keys.VerifySignature(msg, sigs[i], pkeys[j]) {
			i++
		}
		j++
		if m-i > n-j {
			return false
		}
	}
	return i == m
}

