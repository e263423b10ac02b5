package input

import (
	"errors"

	"github.com/milk9111/entitystate/ecs"
	"github.com/milk9111/entitystate/ecs/component"
)

// ErrNotRegistered is returned by the Init of every input trigger when Register
// was never called on the world.
var ErrNotRegistered = errors.New("input: input actions not registered with world")

// Registration marks a world as driving ActionState components.
type Registration struct{}

var registrationComponent = component.NewComponent[Registration]()

// Register enables input triggers on w. Calling it again is a no-op.
func Register(w *ecs.World) (ecs.Entity, error) {
	if e, ok := w.First(registrationComponent.Kind().ID()); ok {
		return e, nil
	}
	e := w.CreateEntity()
	if err := ecs.Add(w, e, registrationComponent.Kind(), &Registration{}); err != nil {
		return 0, err
	}
	return e, nil
}

// Registered reports whether Register ran on w.
func Registered(w *ecs.World) bool {
	_, ok := w.First(registrationComponent.Kind().ID())
	return ok
}

// registered is embedded by every input trigger.
type registered struct{}

func (registered) Init(w *ecs.World) error {
	if !Registered(w) {
		return ErrNotRegistered
	}
	return nil
}
