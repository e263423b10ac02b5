package fsm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/entitystate/ecs"
)

var (
	// ErrNoState means an entity with a machine carries none of its states.
	ErrNoState = errors.New("fsm: entity is in no state")
	// ErrMultipleStates means an entity carries more than one of its machine's states.
	ErrMultipleStates = errors.New("fsm: entity is in multiple states")
	// ErrUnregisteredTrigger means a trigger's Init reported a missing capability.
	ErrUnregisteredTrigger = errors.New("fsm: trigger capability not registered")
	// ErrUnknownState means a state is not part of the machine.
	ErrUnknownState = errors.New("fsm: state not registered with machine")
	// ErrNoMachine means the entity has no Machine component.
	ErrNoMachine = errors.New("fsm: entity has no state machine")
)

// EntityError wraps a contract violation with the entity and machine it
// happened on.
type EntityError struct {
	Entity  ecs.Entity
	Machine string
	States  []string
	Err     error
}

func (e *EntityError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "entity %s", e.Entity)
	if e.Machine != "" {
		fmt.Fprintf(&b, " (machine %s)", e.Machine)
	}
	if len(e.States) > 0 {
		fmt.Fprintf(&b, " states [%s]", strings.Join(e.States, ", "))
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

// violationReason maps a contract violation to a metric label.
func violationReason(err error) string {
	switch {
	case errors.Is(err, ErrNoState):
		return "no_state"
	case errors.Is(err, ErrMultipleStates):
		return "multiple_states"
	case errors.Is(err, ErrUnregisteredTrigger):
		return "unregistered_trigger"
	default:
		return "other"
	}
}
