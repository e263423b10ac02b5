package main

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/entitystate/ecs"
	"github.com/milk9111/entitystate/fsm"
	"github.com/milk9111/entitystate/fsm/yamlfsm"
)

// nearestPlayer finds the closest player to e.
func nearestPlayer(w *ecs.World, e ecs.Entity) (Sighting, bool) {
	pos, ok := ecs.Get(w, e, PositionComponent.Kind())
	if !ok {
		return Sighting{}, false
	}
	best := Sighting{Distance: math.Inf(1)}
	found := false
	ecs.ForEach2(w, PlayerComponent.Kind(), PositionComponent.Kind(), func(p ecs.Entity, _ *Player, ppos *Position) {
		if d := pos.Distance(ppos.Vector); d < best.Distance {
			best = Sighting{Target: p, Distance: d}
			found = true
		}
	})
	return best, found
}

func nearTrigger(limit float64) fsm.Trigger[Sighting, fsm.Unit] {
	return fsm.OptionFunc[Sighting](func(w *ecs.World, e ecs.Entity) (Sighting, bool) {
		s, ok := nearestPlayer(w, e)
		if !ok || s.Distance > limit {
			return Sighting{}, false
		}
		s.Range = limit
		return s, true
	})
}

// newRegistry registers the chaser states and the near trigger.
func newRegistry(cfg Config) *yamlfsm.Registry {
	r := yamlfsm.NewRegistry()
	r.AutoStates = false

	yamlfsm.RegisterState(r, IdleState, nil)
	yamlfsm.RegisterState(r, ChasingState, func(_, out any) Chasing {
		s, _ := out.(Sighting)
		return Chasing{Target: s.Target}
	})
	yamlfsm.RegisterState(r, AttackingState, func(prev, out any) Attacking {
		a := Attacking{Frames: cfg.AttackFrames}
		if c, ok := prev.(Chasing); ok {
			a.Target = c.Target
		}
		if s, ok := out.(Sighting); ok {
			a.Target = s.Target
			a.Range = s.Range
		}
		return a
	})
	yamlfsm.RegisterState(r, StunnedState, func(any, any) Stunned {
		return Stunned{Frames: cfg.StunFrames}
	})

	r.RegisterTrigger("near", func(arg *yaml.Node) (yamlfsm.Trigger, error) {
		var limit float64
		if arg == nil || arg.Kind == 0 {
			return nil, fmt.Errorf("%w: near needs a distance", yamlfsm.ErrInvalidArgument)
		}
		if err := arg.Decode(&limit); err != nil {
			return nil, fmt.Errorf("%w: near: %w", yamlfsm.ErrInvalidArgument, err)
		}
		return yamlfsm.Erase(nearTrigger(limit)), nil
	})
	return r
}
