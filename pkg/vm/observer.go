package vm

import (
	"fmt"
	"strings"

	"github.com/nspcc-dev/neovm/pkg/vm/opcode"
	"github.com/nspcc-dev/neovm/pkg/vm/stackitem"
)

// StackOperation describes a change made to a stack.
type StackOperation byte

// Stack operations reported to the Observer.
const (
	Push StackOperation = iota
	Pop
	Set
)

// String implements the fmt.Stringer interface.
func (o StackOperation) String() string {
	switch o {
	case Push:
		return "Push"
	case Pop:
		return "Pop"
	case Set:
		return "Set"
	default:
		return fmt.Sprintf("StackOperation(%d)", byte(o))
	}
}

// Verbosity is a set of flags selecting events delivered to the Observer.
type Verbosity byte

// Verbosity flags.
const (
	NoLog                        Verbosity = 0
	StepIntoLog                  Verbosity = 1 << 0
	ExecutionContextStackChanges Verbosity = 1 << 1
	AltStackChanges              Verbosity = 1 << 2
	EvaluationStackChanges       Verbosity = 1 << 3
	AllLog                                 = StepIntoLog | ExecutionContextStackChanges |
		AltStackChanges | EvaluationStackChanges
)

var verbosityNames = []struct {
	flag Verbosity
	name string
}{
	{StepIntoLog, "StepInto"},
	{ExecutionContextStackChanges, "ExecutionContextStackChanges"},
	{AltStackChanges, "AltStackChanges"},
	{EvaluationStackChanges, "EvaluationStackChanges"},
}

// HasFlag checks for flag presence.
func (v Verbosity) HasFlag(f Verbosity) bool {
	return v&f == f
}

// String implements the fmt.Stringer interface.
func (v Verbosity) String() string {
	if v == NoLog {
		return "None"
	}
	var names []string
	for _, n := range verbosityNames {
		if v.HasFlag(n.flag) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, ", ")
}

// VerbosityFromStrings parses flag names ("StepInto", "AltStackChanges",
// "All", ...) into a Verbosity value. Names are case-insensitive.
func VerbosityFromStrings(ss []string) (Verbosity, error) {
	var v Verbosity
	for _, s := range ss {
		s = strings.TrimSpace(s)
		if strings.EqualFold(s, "All") {
			v |= AllLog
			continue
		}
		if strings.EqualFold(s, "None") {
			continue
		}
		var found bool
		for _, n := range verbosityNames {
			if strings.EqualFold(s, n.name) {
				v |= n.flag
				found = true
				break
			}
		}
		if !found {
			return NoLog, fmt.Errorf("unknown verbosity flag %q", s)
		}
	}
	return v, nil
}

// Observer receives execution events from the VM. Only the events selected
// by its Verbosity are delivered. Indexes are offsets from the top of the
// respective stack. Observers are called synchronously and must not modify
// the VM.
type Observer interface {
	Verbosity() Verbosity
	OnStepInto(ctx *Context, ip int, op opcode.Opcode)
	OnExecutionContextChange(s *InvocationStack, ctx *Context, index int, op StackOperation)
	OnAltStackChange(s *Stack, item stackitem.Item, index int, op StackOperation)
	OnEvaluationStackChange(s *Stack, item stackitem.Item, index int, op StackOperation)
}
