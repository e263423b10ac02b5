package fsm

import (
	"fmt"

	"github.com/milk9111/entitystate/ecs"
)

// TransitionEventType is the ecs.Event type of transition records.
const TransitionEventType = "fsm.transition"

// Record describes one applied transition. It is pushed as the Data of an
// ecs.Event when the machine logs transitions.
type Record struct {
	Entity     ecs.Entity
	Machine    string
	From       string
	To         string
	Transition int
	Tick       uint64
}

type runResult uint8

const (
	resultStayed runResult = iota
	resultTransitioned
	resultAborted
)

// run evaluates and applies one entity's machine for this tick.
func (m *StateMachine) run(w *ecs.World, e ecs.Entity, inst *Machine) (Record, runResult, error) {
	current, err := m.Current(w, e)
	if err != nil {
		return Record{}, resultStayed, err
	}

	if inst.needsInit {
		for i := range m.transitions {
			if err := initTrigger(m.transitions[i].trigger, w); err != nil {
				return Record{}, resultStayed, &EntityError{
					Entity:  e,
					Machine: m.name,
					States:  []string{current.Name()},
					Err:     fmt.Errorf("%w: transition %d: %w", ErrUnregisteredTrigger, i, err),
				}
			}
		}
		inst.needsInit = false
	}

	for i := range m.transitions {
		t := &m.transitions[i]
		if !t.from.Matches(current.ID()) {
			continue
		}
		build, ok := t.check(w, e)
		if !ok {
			continue
		}
		prev, _ := current.get(w, e)
		next := build(prev)
		rec := Record{
			Entity:     e,
			Machine:    m.name,
			From:       current.Name(),
			To:         t.to.Name(),
			Transition: t.index,
			Tick:       w.Tick(),
		}
		applied, err := m.apply(w, e, current, t.to, prev, next)
		if err != nil {
			return rec, resultStayed, err
		}
		if !applied {
			return rec, resultAborted, nil
		}
		return rec, resultTransitioned, nil
	}
	return Record{}, resultStayed, nil
}

// apply swaps the entity from one state to the next, running hooks. It
// returns false without touching the entity when an exit hook removed the
// entity, its machine or its outgoing state.
func (m *StateMachine) apply(w *ecs.World, e ecs.Entity, from, to StateRef, prev, next any) (bool, error) {
	cmds := w.Commands()
	for _, h := range m.onExit {
		if h.state.Matches(from.ID()) && h.other.Matches(to.ID()) {
			h.run(cmds, e)
		}
	}
	w.ApplyCommands()

	inst, ok := ecs.Get(w, e, MachineComponent.Kind())
	if !ok || inst.def != m {
		return false, nil
	}
	if current, err := m.Current(w, e); err != nil || current.ID() != from.ID() {
		return false, nil
	}

	// remove first so self transitions keep their state
	from.remove(w, e)
	if err := to.insert(w, e, next); err != nil {
		_ = from.insert(w, e, prev)
		return false, &EntityError{Entity: e, Machine: m.name, States: []string{from.Name(), to.Name()}, Err: err}
	}

	for _, h := range m.onEnter {
		if h.state.Matches(to.ID()) && h.other.Matches(from.ID()) {
			h.run(cmds, e)
		}
	}
	w.ApplyCommands()

	inst.needsInit = true
	return true, nil
}
