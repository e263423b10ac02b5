package fsm

import (
	"fmt"

	"github.com/milk9111/entitystate/ecs"
	"github.com/milk9111/entitystate/ecs/component"
)

// StateID identifies a state. It is the id of the state's component storage.
type StateID uint32

// StateRef is the untyped view of a State. Only State values implement it.
type StateRef interface {
	ID() StateID
	Name() string

	has(w *ecs.World, e ecs.Entity) bool
	get(w *ecs.World, e ecs.Entity) (any, bool)
	remove(w *ecs.World, e ecs.Entity) bool
	insert(w *ecs.World, e ecs.Entity, v any) error
}

// State is a state identity whose data has type T. The entity's state data is
// stored as a T component.
type State[T any] struct {
	name string
	kind component.ComponentKind[T]
}

// NewState registers a new state identity. The name is used in logs, metrics
// and authored machine files; it defaults to the Go type name.
func NewState[T any](name string) *State[T] {
	if name == "" {
		var zero T
		name = fmt.Sprintf("%T", zero)
	}
	return &State[T]{name: name, kind: component.NewComponentKind[T]()}
}

func (s *State[T]) ID() StateID {
	return StateID(s.kind.ID())
}

func (s *State[T]) Name() string {
	return s.name
}

func (s *State[T]) String() string {
	return s.name
}

// Kind returns the component kind holding this state's data.
func (s *State[T]) Kind() component.ComponentKind[T] {
	return s.kind
}

// Get returns the entity's data for this state, if the entity is in it.
// Systems may mutate the data in place.
func (s *State[T]) Get(w *ecs.World, e ecs.Entity) (*T, bool) {
	return ecs.Get(w, e, s.kind)
}

// In reports whether the entity is in this state.
func (s *State[T]) In(w *ecs.World, e ecs.Entity) bool {
	return ecs.Has(w, e, s.kind)
}

// Query returns the entities currently in this state.
func (s *State[T]) Query(w *ecs.World) []ecs.Entity {
	return w.Query(s.kind.ID())
}

func (s *State[T]) has(w *ecs.World, e ecs.Entity) bool {
	return ecs.Has(w, e, s.kind)
}

func (s *State[T]) get(w *ecs.World, e ecs.Entity) (any, bool) {
	v, ok := ecs.Get(w, e, s.kind)
	if !ok {
		return nil, false
	}
	return *v, true
}

func (s *State[T]) remove(w *ecs.World, e ecs.Entity) bool {
	return ecs.Remove(w, e, s.kind)
}

func (s *State[T]) insert(w *ecs.World, e ecs.Entity, v any) error {
	data, ok := v.(T)
	if !ok {
		return fmt.Errorf("fsm: state %s: %w", s.name, component.ErrComponentType)
	}
	return ecs.Add(w, e, s.kind, &data)
}
