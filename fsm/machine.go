package fsm

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/milk9111/entitystate/ecs"
	"github.com/milk9111/entitystate/ecs/component"
)

// StateMachine is an immutable machine definition. One definition may be
// attached to many entities.
type StateMachine struct {
	id             uuid.UUID
	name           string
	states         []StateRef
	byID           map[StateID]StateRef
	transitions    []transition
	onEnter        []hookEntry
	onExit         []hookEntry
	logTransitions bool
}

// ID is unique per built definition.
func (m *StateMachine) ID() uuid.UUID {
	return m.id
}

func (m *StateMachine) Name() string {
	return m.name
}

// States returns the registered states in registration order.
func (m *StateMachine) States() []StateRef {
	return append([]StateRef(nil), m.states...)
}

// State looks a registered state up by name.
func (m *StateMachine) State(name string) (StateRef, bool) {
	for _, s := range m.states {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// Transitions returns the number of registered transitions.
func (m *StateMachine) Transitions() int {
	return len(m.transitions)
}

// LogsTransitions reports whether transitions of this machine emit records.
func (m *StateMachine) LogsTransitions() bool {
	return m.logTransitions
}

// Current returns the entity's current state. It fails with ErrNoState or
// ErrMultipleStates when the single-state invariant does not hold.
func (m *StateMachine) Current(w *ecs.World, e ecs.Entity) (StateRef, error) {
	var found StateRef
	for _, s := range m.states {
		if !s.has(w, e) {
			continue
		}
		if found != nil {
			return nil, &EntityError{Entity: e, Machine: m.name, States: m.presentStates(w, e), Err: ErrMultipleStates}
		}
		found = s
	}
	if found == nil {
		return nil, &EntityError{Entity: e, Machine: m.name, Err: ErrNoState}
	}
	return found, nil
}

func (m *StateMachine) presentStates(w *ecs.World, e ecs.Entity) []string {
	var names []string
	for _, s := range m.states {
		if s.has(w, e) {
			names = append(names, s.Name())
		}
	}
	return names
}

// Machine is the per-entity component driving a StateMachine. Besides the
// definition it only keeps evaluation scratch data.
type Machine struct {
	def       *StateMachine
	needsInit bool
}

// Definition returns the attached machine definition.
func (m *Machine) Definition() *StateMachine {
	return m.def
}

var MachineComponent = component.NewComponent[Machine]()

// Attach gives e the machine and its initial state. Any state of the machine
// already on e is replaced.
func Attach[T any](w *ecs.World, e ecs.Entity, def *StateMachine, initial *State[T], value T) error {
	if def == nil {
		return fmt.Errorf("fsm: attach to entity %s: %w", e, ErrNoMachine)
	}
	if _, ok := def.byID[initial.ID()]; !ok {
		return fmt.Errorf("fsm: attach %s to entity %s: %w", initial.Name(), e, ErrUnknownState)
	}
	if err := ecs.Add(w, e, MachineComponent.Kind(), &Machine{def: def, needsInit: true}); err != nil {
		return fmt.Errorf("fsm: attach to entity %s: %w", e, err)
	}
	return SetState(w, e, initial, value)
}

// SetState replaces the entity's state without running hooks. It is meant for
// changes made outside the machine between ticks.
func SetState[T any](w *ecs.World, e ecs.Entity, s *State[T], value T) error {
	inst, ok := ecs.Get(w, e, MachineComponent.Kind())
	if !ok || inst.def == nil {
		return fmt.Errorf("fsm: set state on entity %s: %w", e, ErrNoMachine)
	}
	if _, ok := inst.def.byID[s.ID()]; !ok {
		return fmt.Errorf("fsm: set state %s on entity %s: %w", s.Name(), e, ErrUnknownState)
	}
	for _, other := range inst.def.states {
		other.remove(w, e)
	}
	if err := ecs.Add(w, e, s.Kind(), &value); err != nil {
		return fmt.Errorf("fsm: set state %s on entity %s: %w", s.Name(), e, err)
	}
	inst.needsInit = true
	return nil
}

// CurrentState returns the current state of an entity's machine.
func CurrentState(w *ecs.World, e ecs.Entity) (StateRef, error) {
	inst, ok := ecs.Get(w, e, MachineComponent.Kind())
	if !ok || inst.def == nil {
		return nil, &EntityError{Entity: e, Err: ErrNoMachine}
	}
	return inst.def.Current(w, e)
}

// Replace swaps the definition driving e, keeping its current state. The state
// must be registered with def. Triggers of def are initialised on the next
// evaluation.
func Replace(w *ecs.World, e ecs.Entity, def *StateMachine) error {
	inst, ok := ecs.Get(w, e, MachineComponent.Kind())
	if !ok || inst.def == nil || def == nil {
		return fmt.Errorf("fsm: replace machine of entity %s: %w", e, ErrNoMachine)
	}
	current, err := inst.def.Current(w, e)
	if err != nil {
		return err
	}
	if _, ok := def.byID[current.ID()]; !ok {
		return fmt.Errorf("fsm: replace machine of entity %s in %s: %w", e, current.Name(), ErrUnknownState)
	}
	inst.def = def
	inst.needsInit = true
	return nil
}
