package vm

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neovm/pkg/vm/opcode"
	"github.com/nspcc-dev/neovm/pkg/vm/stackitem"
	"go.uber.org/zap"
)

// ErrTerminated is the panic value for an attempt to run a VM that is
// already in HALT or FAULT state.
var ErrTerminated = errors.New("VM is terminated")

type errorAtInstruct struct {
	ip  int
	op  opcode.Opcode
	err any
}

func (e *errorAtInstruct) Error() string {
	return fmt.Sprintf("at instruction %d (%s): %s", e.ip, e.op, e.err)
}

func (e *errorAtInstruct) Unwrap() error {
	if err, ok := e.err.(error); ok {
		return err
	}
	return nil
}

func newError(ip int, op opcode.Opcode, err any) *errorAtInstruct {
	return &errorAtInstruct{ip: ip, op: op, err: err}
}

// VM represents the virtual machine.
type VM struct {
	state State

	// callbacks
	interop     InteropService
	table       ScriptTable
	msgProvider MessageProvider
	observer    Observer
	verbosity   Verbosity

	log    *zap.Logger
	limits Limits

	istack *InvocationStack // invocation stack.
	estack *Stack           // execution stack, shared by all contexts.

	refs *refCounter

	iteration   uint32
	message     []byte
	messageRead bool

	faultErr error
}

// New returns a new VM object ready to load scripts.
func New(opts ...Option) *VM {
	vm := &VM{
		log:    zap.NewNop(),
		limits: DefaultLimits(),
		istack: NewInvocationStack(),
		refs:   newRefCounter(),
	}
	for _, o := range opts {
		o(vm)
	}
	vm.estack = newStack("evaluation", vm.refs)
	if vm.observer != nil {
		vm.verbosity = vm.observer.Verbosity()
	}
	if vm.verbosity.HasFlag(EvaluationStackChanges) {
		vm.estack.hook = func(s *Stack, item stackitem.Item, index int, op StackOperation) {
			vm.observer.OnEvaluationStackChange(s, item, index, op)
		}
	}
	if vm.verbosity.HasFlag(ExecutionContextStackChanges) {
		vm.istack.hook = func(s *InvocationStack, ctx *Context, index int, op StackOperation) {
			vm.observer.OnExecutionContextChange(s, ctx, index, op)
		}
	}
	return vm
}

// newContext creates a context for the given script sharing the VM
// evaluation stack.
func (v *VM) newContext(b []byte, pushOnly bool) *Context {
	ctx := &Context{
		prog:     b,
		pushOnly: pushOnly,
		estack:   v.estack,
		alt:      newStack("alt", v.refs),
	}
	if v.verbosity.HasFlag(AltStackChanges) {
		ctx.alt.hook = func(s *Stack, item stackitem.Item, index int, op StackOperation) {
			v.observer.OnAltStackChange(s, item, index, op)
		}
	}
	return ctx
}

// LoadScript loads a script into a new context on top of the invocation
// stack.
func (v *VM) LoadScript(b []byte) {
	v.istack.Push(v.newContext(b, false))
}

// LoadPushOnlyScript loads a script that can only contain push
// instructions (and RET), anything else faults the VM.
func (v *VM) LoadPushOnlyScript(b []byte) {
	v.istack.Push(v.newContext(b, true))
}

// Context returns the current executed context. Nil if there is no context,
// which implies no program is loaded.
func (v *VM) Context() *Context {
	ctx, err := v.istack.TryPeek(0)
	if err != nil {
		return nil
	}
	return ctx
}

// CallingContext returns the context that called the current one, nil if
// there is none.
func (v *VM) CallingContext() *Context {
	ctx, err := v.istack.TryPeek(1)
	if err != nil {
		return nil
	}
	return ctx
}

// EntryContext returns the bottom context, nil if there is none.
func (v *VM) EntryContext() *Context {
	ctx, err := v.istack.TryPeek(v.istack.Len() - 1)
	if err != nil {
		return nil
	}
	return ctx
}

// Istack returns the invocation stack so interop hooks can utilize this.
func (v *VM) Istack() *InvocationStack {
	return v.istack
}

// Estack returns the evaluation stack so interop hooks can utilize this.
func (v *VM) Estack() *Stack {
	return v.estack
}

// ResultStack returns the stack with execution results. It's the
// evaluation stack.
func (v *VM) ResultStack() *Stack {
	return v.estack
}

// State returns the state for the VM.
func (v *VM) State() State {
	return v.state
}

// HasFailed returns whether the VM is in the failed state now. Usually, it's
// used to check status after Execute.
func (v *VM) HasFailed() bool {
	return v.state.HasFlag(FaultState)
}

// HasHalted returns whether the VM is in the Halt state.
func (v *VM) HasHalted() bool {
	return v.state.HasFlag(HaltState)
}

// HasStopped returns whether the VM is in the Halt or Failed state.
func (v *VM) HasStopped() bool {
	return v.state.HasFlag(HaltState) || v.state.HasFlag(FaultState)
}

// FaultError returns the error that caused FAULT, nil if there is none.
func (v *VM) FaultError() error {
	return v.faultErr
}

// Clean sets the message iteration and drops the cached message, stacks and
// contexts are not touched.
func (v *VM) Clean(iteration uint32) {
	v.iteration = iteration
	v.message = nil
	v.messageRead = false
}

// GetMessage returns the message signed by the script container for the
// current iteration, nil if there is no message provider or no message.
// The result is cached until the next Clean.
func (v *VM) GetMessage() []byte {
	if !v.messageRead {
		if v.msgProvider != nil {
			v.message = v.msgProvider.GetMessage(v.iteration)
		}
		v.messageRead = true
	}
	return v.message
}

// AddBreakPoint adds a breakpoint to the current context.
func (v *VM) AddBreakPoint(n int) {
	ctx := v.Context()
	ctx.breakPoints = append(ctx.breakPoints, n)
}

// AddBreakPointRel adds a breakpoint relative to the current
// instruction pointer.
func (v *VM) AddBreakPointRel(n int) {
	ctx := v.Context()
	v.AddBreakPoint(ctx.nextip + n)
}

func (v *VM) checkRunnable() {
	if v.HasStopped() {
		panic(ErrTerminated)
	}
}

// Execute runs the loaded scripts until the VM halts, faults or reaches a
// breakpoint. It returns true if the VM is in HALT state. It panics with
// ErrTerminated if the VM has already stopped.
func (v *VM) Execute() bool {
	v.checkRunnable()
	v.state = NoneState
	for !v.HasStopped() {
		_ = v.step()
		if v.HasStopped() {
			break
		}
		if ctx := v.Context(); ctx != nil && ctx.atBreakPoint() {
			v.state = BreakState
			break
		}
	}
	return v.HasHalted()
}

// StepInto executes the next instruction. It returns the fault error if
// the instruction has failed. A VM that is still running is left in BREAK
// state.
func (v *VM) StepInto() error {
	v.checkRunnable()
	err := v.step()
	v.pause()
	return err
}

// StepOut executes instructions until the current context returns.
func (v *VM) StepOut() error {
	var err error

	v.checkRunnable()
	v.state = NoneState
	expSize := v.istack.Len()
	for !v.HasStopped() && v.istack.Len() >= expSize {
		err = v.step()
	}
	v.pause()
	return err
}

// StepOver executes the next instruction, stepping over calls made by it.
func (v *VM) StepOver() error {
	var err error

	v.checkRunnable()
	v.state = NoneState
	expSize := v.istack.Len()
	for {
		err = v.step()
		if v.HasStopped() || v.istack.Len() <= expSize {
			break
		}
	}
	v.pause()
	return err
}

func (v *VM) pause() {
	if !v.HasStopped() {
		v.state = BreakState
	}
}

// step decodes and executes a single instruction of the current context.
func (v *VM) step() error {
	ctx := v.Context()
	if ctx == nil {
		v.state = HaltState
		updateExecutionsMetric(v.state)
		return nil
	}
	v.state = NoneState
	op, param, err := ctx.Next()
	if err != nil {
		v.state = FaultState
		v.fault(newError(ctx.ip, op, err))
		return v.faultErr
	}
	if v.verbosity.HasFlag(StepIntoLog) {
		v.observer.OnStepInto(ctx, ctx.ip, op)
	}
	updateOpcodeMetric(op.String())
	if err := v.execute(ctx, op, param); err != nil {
		v.fault(err)
		return v.faultErr
	}
	if v.HasStopped() {
		updateExecutionsMetric(v.state)
	}
	return nil
}

func (v *VM) fault(err *errorAtInstruct) {
	v.faultErr = err
	v.log.Warn("VM fault",
		zap.Stringer("opcode", err.op),
		zap.Int("ip", err.ip),
		zap.Error(err))
	updateFaultsMetric()
	updateExecutionsMetric(v.state)
}
