package fsm

import "github.com/milk9111/entitystate/ecs"

// Trigger decides whether a transition fires for an entity. Check must not
// change the world; it may read any component or event. A trigger whose data
// is missing for the entity should fail rather than panic.
type Trigger[O, E any] interface {
	Check(w *ecs.World, e ecs.Entity) Outcome[O, E]
}

// Initializer is implemented by triggers that need setup before they are
// checked. Init runs when a machine is first evaluated and again after each
// transition of that machine. An error means the trigger's capability was
// never registered with the world and is reported as a contract violation.
type Initializer interface {
	Init(w *ecs.World) error
}

func initTrigger(t any, w *ecs.World) error {
	if i, ok := t.(Initializer); ok {
		return i.Init(w)
	}
	return nil
}

// TriggerFunc adapts a function to a Trigger.
type TriggerFunc[O, E any] func(w *ecs.World, e ecs.Entity) Outcome[O, E]

func (f TriggerFunc[O, E]) Check(w *ecs.World, e ecs.Entity) Outcome[O, E] {
	return f(w, e)
}

// BoolFunc is a trigger without payloads.
type BoolFunc func(w *ecs.World, e ecs.Entity) bool

func (f BoolFunc) Check(w *ecs.World, e ecs.Entity) Outcome[Unit, Unit] {
	if f(w, e) {
		return Pass[Unit, Unit](Unit{})
	}
	return Fail[Unit, Unit](Unit{})
}

// OptionFunc is a trigger that passes with a value when ok is true.
type OptionFunc[T any] func(w *ecs.World, e ecs.Entity) (value T, ok bool)

func (f OptionFunc[T]) Check(w *ecs.World, e ecs.Entity) Outcome[T, Unit] {
	if v, ok := f(w, e); ok {
		return Pass[T, Unit](v)
	}
	return Fail[T, Unit](Unit{})
}

type alwaysTrigger struct{}

func (alwaysTrigger) Check(*ecs.World, ecs.Entity) Outcome[Unit, Never] {
	return Pass[Unit, Never](Unit{})
}

// Always passes on every check.
func Always() Trigger[Unit, Never] {
	return alwaysTrigger{}
}

type eventTrigger struct {
	kind string
}

func (t eventTrigger) Check(w *ecs.World, e ecs.Entity) Outcome[ecs.Event, Unit] {
	for _, evt := range w.Events().Peek() {
		if evt.Type != t.kind {
			continue
		}
		if evt.Target != 0 && evt.Target != e {
			continue
		}
		return Pass[ecs.Event, Unit](evt)
	}
	return Fail[ecs.Event, Unit](Unit{})
}

// Event passes with the first event of the given type queued this tick that
// targets the entity or every entity. The queue is only peeked, so checking
// it several times in one tick always gives the same answer.
func Event(kind string) Trigger[ecs.Event, Unit] {
	return eventTrigger{kind: kind}
}
