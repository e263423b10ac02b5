package ecs

import (
	"testing"

	"github.com/milk9111/entitystate/ecs/component"
)

type recordSystem struct {
	name string
	log  *[]string
	fn   func(w *World)
}

func (s *recordSystem) Update(w *World) {
	*s.log = append(*s.log, s.name)
	if s.fn != nil {
		s.fn(w)
	}
}

func TestSchedulerPhaseOrder(t *testing.T) {
	var log []string
	s := NewScheduler()
	s.AddTo(PostUpdate, &recordSystem{name: "post", log: &log})
	s.Add(&recordSystem{name: "update", log: &log})
	s.AddTo(PreUpdate, &recordSystem{name: "pre", log: &log})
	s.AddTo(Phase(42), &recordSystem{name: "fallback", log: &log})

	s.Update(NewWorld())

	want := []string{"pre", "update", "fallback", "post"}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, log)
		}
	}
	if got := len(s.Systems()); got != 4 {
		t.Fatalf("expected 4 systems, got %d", got)
	}
}

func TestSchedulerAppliesCommandsBetweenSystems(t *testing.T) {
	var log []string
	kind := component.NewComponentKind[int]()
	w := NewWorld()
	e := CreateEntity(w)

	seen := false
	s := NewScheduler(
		&recordSystem{name: "writer", log: &log, fn: func(w *World) {
			QueueAdd(w.Commands().Entity(e), kind, intPtr(7))
			if Has(w, e, kind) {
				t.Fatalf("queued insert must not be visible before the sync point")
			}
		}},
		&recordSystem{name: "reader", log: &log, fn: func(w *World) {
			v, ok := Get(w, e, kind)
			seen = ok && *v == 7
		}},
	)
	s.Update(w)
	if !seen {
		t.Fatalf("expected reader to observe the queued insert")
	}
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "despawn_drops_later_inserts",
			run: func(t *testing.T) {
				w := NewWorld()
				kind := component.NewComponentKind[int]()
				e := CreateEntity(w)
				ec := w.Commands().Entity(e)
				ec.Despawn()
				QueueAdd(ec, kind, intPtr(1))
				w.ApplyCommands()
				if IsAlive(w, e) {
					t.Fatalf("entity should be despawned")
				}
				if len(w.Query(kind.ID())) != 0 {
					t.Fatalf("insert on a dead entity must be dropped")
				}
			},
		},
		{
			name: "spawn_and_nested_commands",
			run: func(t *testing.T) {
				w := NewWorld()
				kind := component.NewComponentKind[string]()
				var spawned Entity
				w.Commands().Spawn(func(w *World, e Entity) {
					spawned = e
					QueueAdd(w.Commands().Entity(e), kind, stringPtr("child"))
				})
				w.ApplyCommands()
				v, ok := Get(w, spawned, kind)
				if !ok || *v != "child" {
					t.Fatalf("expected nested command to run, got %v ok=%v", v, ok)
				}
				if w.Commands().Len() != 0 {
					t.Fatalf("queue should be empty after apply")
				}
			},
		},
		{
			name: "remove",
			run: func(t *testing.T) {
				w := NewWorld()
				kind := component.NewComponentKind[int]()
				e := CreateEntity(w)
				if err := Add(w, e, kind, intPtr(3)); err != nil {
					t.Fatal(err)
				}
				QueueRemove(w.Commands().Entity(e), kind)
				w.ApplyCommands()
				if Has(w, e, kind) {
					t.Fatalf("component should be removed")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

func TestEntityGenerations(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()
	old := CreateEntity(w)
	if err := Add(w, old, kind, intPtr(1)); err != nil {
		t.Fatal(err)
	}
	DestroyEntity(w, old)
	reused := CreateEntity(w)
	if reused.id() != old.id() {
		t.Fatalf("expected slot reuse")
	}
	if reused == old || IsAlive(w, old) {
		t.Fatalf("stale handle must not be alive")
	}
	if Has(w, reused, kind) {
		t.Fatalf("reused slot must not inherit components")
	}
	if err := Add(w, old, kind, intPtr(2)); err != component.ErrEntityNotAlive {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
	if first, ok := w.First(kind.ID()); ok {
		t.Fatalf("expected no entity with component, got %v", first)
	}
}

func TestEventsLiveForOneTick(t *testing.T) {
	w := NewWorld()
	s := NewScheduler()
	w.Events().Push(Event{Type: "hit"})
	if len(w.Events().Peek()) != 1 || len(w.Events().Peek()) != 1 {
		t.Fatalf("peek must not consume events")
	}
	s.Update(w)
	if len(w.Events().Peek()) != 0 {
		t.Fatalf("events should be dropped when a new tick starts")
	}
	if w.Tick() != 1 {
		t.Fatalf("expected tick 1, got %d", w.Tick())
	}
}

func TestEventsDrain(t *testing.T) {
	w := NewWorld()
	w.Events().Push(Event{Type: "hit"})
	w.Events().Push(Event{Type: "miss"})

	got := w.Events().Drain()
	if len(got) != 2 || got[0].Type != "hit" || got[1].Type != "miss" {
		t.Fatalf("unexpected drained events: %+v", got)
	}
	if len(w.Events().Peek()) != 0 {
		t.Fatalf("drain should empty the queue")
	}
	if w.Events().Drain() != nil {
		t.Fatalf("draining an empty queue should return nil")
	}
}
