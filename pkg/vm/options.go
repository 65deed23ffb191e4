package vm

import (
	"github.com/nspcc-dev/neovm/pkg/config"
	"go.uber.org/zap"
)

// Limits are execution limits enforced by the VM.
type Limits struct {
	// MaxStackSize is the maximum number of items on evaluation and alt
	// stacks together.
	MaxStackSize int
	// MaxInvocationStackSize is the maximum call depth.
	MaxInvocationStackSize int
	// MaxArraySize is the maximum number of elements in an Array, Struct
	// or Map.
	MaxArraySize int
	// MaxItemSize is the maximum size of a byte array.
	MaxItemSize int
}

// DefaultLimits returns the standard NEO 2.x limits.
func DefaultLimits() Limits {
	return LimitsFromConfig(config.DefaultVMConfiguration())
}

// LimitsFromConfig converts the VM configuration section into Limits.
func LimitsFromConfig(cfg config.VMConfiguration) Limits {
	return Limits{
		MaxStackSize:           cfg.MaxStackSize,
		MaxInvocationStackSize: cfg.MaxInvocationStackSize,
		MaxArraySize:           cfg.MaxArraySize,
		MaxItemSize:            cfg.MaxItemSize,
	}
}

// Option configures the VM created by New.
type Option func(v *VM)

// WithInteropService sets the service used by SYSCALL.
func WithInteropService(s InteropService) Option {
	return func(v *VM) {
		v.interop = s
	}
}

// WithScriptTable sets the table used by APPCALL and TAILCALL.
func WithScriptTable(t ScriptTable) Option {
	return func(v *VM) {
		v.table = t
	}
}

// WithMessageProvider sets the source of messages for signature checks.
func WithMessageProvider(p MessageProvider) Option {
	return func(v *VM) {
		v.msgProvider = p
	}
}

// WithObserver sets the execution events receiver.
func WithObserver(o Observer) Option {
	return func(v *VM) {
		v.observer = o
	}
}

// WithLogger sets the logger used for fault diagnostics, nil disables
// logging.
func WithLogger(log *zap.Logger) Option {
	return func(v *VM) {
		if log == nil {
			log = zap.NewNop()
		}
		v.log = log
	}
}

// WithLimits overrides the default execution limits.
func WithLimits(l Limits) Option {
	return func(v *VM) {
		v.limits = l
	}
}

// WithConfig applies limits from the VM configuration section.
func WithConfig(cfg config.VMConfiguration) Option {
	return WithLimits(LimitsFromConfig(cfg))
}
