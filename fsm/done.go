package fsm

import (
	"github.com/milk9111/entitystate/ecs"
	"github.com/milk9111/entitystate/ecs/component"
)

// Done marks that the entity's current state finished its work. Markers are
// removed once per tick by ClearDoneSystem, after transitions ran.
type Done uint8

const (
	DoneSuccess Done = iota + 1
	DoneFailure
)

func (d Done) String() string {
	switch d {
	case DoneSuccess:
		return "success"
	case DoneFailure:
		return "failure"
	default:
		return "unknown"
	}
}

var DoneComponent = component.NewComponent[Done]()

// MarkDone queues a Done marker on the entity.
func MarkDone(ec *ecs.EntityCommands, d Done) {
	ecs.QueueAdd(ec, DoneComponent.Kind(), &d)
}

type doneTrigger struct {
	want Done
}

func (t doneTrigger) Check(w *ecs.World, e ecs.Entity) Outcome[Unit, Unit] {
	if d, ok := ecs.Get(w, e, DoneComponent.Kind()); ok && *d == t.want {
		return Pass[Unit, Unit](Unit{})
	}
	return Fail[Unit, Unit](Unit{})
}

// DoneTrigger passes when the entity carries a Done marker with the given
// variant.
func DoneTrigger(d Done) Trigger[Unit, Unit] {
	return doneTrigger{want: d}
}

// ClearDoneSystem removes every Done marker.
type ClearDoneSystem struct{}

func (ClearDoneSystem) Update(w *ecs.World) {
	for _, e := range w.Query(DoneComponent.Kind().ID()) {
		ecs.QueueRemove(w.Commands().Entity(e), DoneComponent.Kind())
	}
}
