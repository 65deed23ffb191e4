package vm

import (
	"errors"
	"strings"
)

// State of the VM. It's a set of flags, the engine is either running (no
// flags), paused (BreakState) or terminated (HaltState or FaultState).
type State uint8

// Available States.
const (
	// NoneState represents the running state of the VM, it's ready to
	// process the next instruction.
	NoneState State = 0
	// HaltState represents the HALT state, the program has completed.
	HaltState State = 1 << 0
	// FaultState represents the FAULT state, the program has failed.
	FaultState State = 1 << 1
	// BreakState represents the BREAK state, execution is paused (either
	// by a step operation or by a breakpoint) and can be resumed.
	BreakState State = 1 << 2
)

// HasFlag checks for State flag presence.
func (s State) HasFlag(f State) bool {
	return s&f != 0
}

// String implements the fmt.Stringer interface.
func (s State) String() string {
	if s == NoneState {
		return "NONE"
	}

	ss := make([]string, 0, 3)
	if s.HasFlag(HaltState) {
		ss = append(ss, "HALT")
	}
	if s.HasFlag(FaultState) {
		ss = append(ss, "FAULT")
	}
	if s.HasFlag(BreakState) {
		ss = append(ss, "BREAK")
	}
	return strings.Join(ss, ", ")
}

// StateFromString converts a string into the VM State.
func StateFromString(s string) (st State, err error) {
	if s = strings.TrimSpace(s); s == "NONE" {
		return NoneState, nil
	}

	ss := strings.Split(s, ",")
	for _, state := range ss {
		s = strings.TrimSpace(state)
		if s == "HALT" {
			st |= HaltState
		} else if s == "FAULT" {
			st |= FaultState
		} else if s == "BREAK" {
			st |= BreakState
		} else {
			return 0, errors.New("unknown state")
		}
	}
	return
}

// MarshalJSON implements the json.Marshaler interface.
func (s State) MarshalJSON() (data []byte, err error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Marshaler interface.
func (s *State) UnmarshalJSON(data []byte) (err error) {
	l := len(data)
	if l < 2 || data[0] != '"' || data[l-1] != '"' {
		return errors.New("wrong format")
	}

	*s, err = StateFromString(string(data[1 : l-1]))
	return
}
