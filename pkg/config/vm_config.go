package config

import (
	"fmt"
)

// Default VM limits, NEO 2.x values.
const (
	DefaultMaxStackSize           = 2 * 1024
	DefaultMaxInvocationStackSize = 1024
	DefaultMaxArraySize           = 1024
	DefaultMaxItemSize            = 1024 * 1024
)

// VMConfiguration contains VM execution limits and the set of events traced
// by the VM logger.
type VMConfiguration struct {
	// MaxStackSize is the maximum number of items on evaluation and alt
	// stacks together.
	MaxStackSize int `yaml:"MaxStackSize"`
	// MaxInvocationStackSize is the maximum call depth.
	MaxInvocationStackSize int `yaml:"MaxInvocationStackSize"`
	// MaxArraySize is the maximum number of elements in an Array, Struct or Map.
	MaxArraySize int `yaml:"MaxArraySize"`
	// MaxItemSize is the maximum size of a byte array item.
	MaxItemSize int `yaml:"MaxItemSize"`
	// LogVerbosity lists VM events to trace, like "StepInto" or "All".
	LogVerbosity []string `yaml:"LogVerbosity"`
}

// DefaultVMConfiguration returns VMConfiguration with default limits and no
// tracing.
func DefaultVMConfiguration() VMConfiguration {
	return VMConfiguration{
		MaxStackSize:           DefaultMaxStackSize,
		MaxInvocationStackSize: DefaultMaxInvocationStackSize,
		MaxArraySize:           DefaultMaxArraySize,
		MaxItemSize:            DefaultMaxItemSize,
	}
}

// Validate returns an error if some limit is not positive.
func (c VMConfiguration) Validate() error {
	for _, l := range []struct {
		name  string
		value int
	}{
		{"MaxStackSize", c.MaxStackSize},
		{"MaxInvocationStackSize", c.MaxInvocationStackSize},
		{"MaxArraySize", c.MaxArraySize},
		{"MaxItemSize", c.MaxItemSize},
	} {
		if l.value <= 0 {
			return fmt.Errorf("%s should be positive, got %d", l.name, l.value)
		}
	}
	return nil
}
