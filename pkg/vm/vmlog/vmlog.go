/*
Package vmlog provides a VM observer writing execution traces to a zap
logger.
*/
package vmlog

import (
	"fmt"

	"github.com/nspcc-dev/neovm/pkg/config"
	"github.com/nspcc-dev/neovm/pkg/vm"
	"github.com/nspcc-dev/neovm/pkg/vm/opcode"
	"github.com/nspcc-dev/neovm/pkg/vm/stackitem"
	"go.uber.org/zap"
)

// Observer logs VM events selected by its verbosity at Debug level.
type Observer struct {
	log       *zap.Logger
	verbosity vm.Verbosity
}

var _ vm.Observer = (*Observer)(nil)

// New creates an Observer writing to log.
func New(log *zap.Logger, verbosity vm.Verbosity) *Observer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Observer{
		log:       log,
		verbosity: verbosity,
	}
}

// NewFromConfig creates an Observer with the verbosity set in the VM
// configuration.
func NewFromConfig(log *zap.Logger, cfg config.VMConfiguration) (*Observer, error) {
	v, err := vm.VerbosityFromStrings(cfg.LogVerbosity)
	if err != nil {
		return nil, fmt.Errorf("bad LogVerbosity: %w", err)
	}
	return New(log, v), nil
}

// Verbosity implements the vm.Observer interface.
func (o *Observer) Verbosity() vm.Verbosity {
	return o.verbosity
}

// OnStepInto implements the vm.Observer interface.
func (o *Observer) OnStepInto(ctx *vm.Context, ip int, op opcode.Opcode) {
	o.log.Debug("step",
		zap.Stringer("script", ctx.ScriptHash()),
		zap.Int("ip", ip),
		zap.Stringer("opcode", op))
}

// OnExecutionContextChange implements the vm.Observer interface.
func (o *Observer) OnExecutionContextChange(s *vm.InvocationStack, ctx *vm.Context, index int, op vm.StackOperation) {
	o.log.Debug("invocation stack change",
		zap.Stringer("op", op),
		zap.Int("index", index),
		zap.Int("depth", s.Len()),
		zap.Stringer("script", ctx.ScriptHash()))
}

// OnAltStackChange implements the vm.Observer interface.
func (o *Observer) OnAltStackChange(s *vm.Stack, item stackitem.Item, index int, op vm.StackOperation) {
	o.logStackChange("alt stack change", s, item, index, op)
}

// OnEvaluationStackChange implements the vm.Observer interface.
func (o *Observer) OnEvaluationStackChange(s *vm.Stack, item stackitem.Item, index int, op vm.StackOperation) {
	o.logStackChange("evaluation stack change", s, item, index, op)
}

func (o *Observer) logStackChange(msg string, s *vm.Stack, item stackitem.Item, index int, op vm.StackOperation) {
	if ce := o.log.Check(zap.DebugLevel, msg); ce != nil {
		fields := []zap.Field{
			zap.Stringer("op", op),
			zap.Int("index", index),
			zap.Int("depth", s.Len()),
		}
		if data, err := stackitem.ToJSONWithTypes(item); err == nil {
			fields = append(fields, zap.ByteString("item", data))
		} else {
			fields = append(fields, zap.Stringer("type", item.Type()))
		}
		ce.Write(fields...)
	}
}
