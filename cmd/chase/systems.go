package main

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/entitystate/ecs"
	"github.com/milk9111/entitystate/fsm"
	"github.com/milk9111/entitystate/fsm/input"
)

const moveAction input.Action = "move"

// PlayerMoveSystem moves players along the move axis.
type PlayerMoveSystem struct {
	width, height float64
}

func (s *PlayerMoveSystem) Update(w *ecs.World) {
	ecs.ForEach3(w, PlayerComponent.Kind(), PositionComponent.Kind(), input.ActionStateComponent.Kind(), func(_ ecs.Entity, p *Player, pos *Position, actions *input.ActionState) {
		axis, ok := actions.ClampedAxisPair(moveAction)
		if !ok {
			return
		}
		// screen Y grows downwards
		pos.Vector = pos.Add(cp.Vector{X: axis.X, Y: -axis.Y}.Mult(p.Speed))
		pos.X = min(max(pos.X, 0), s.width)
		pos.Y = min(max(pos.Y, 0), s.height)
	})
}

// ChaseSystem steps chasers towards their target or back home.
type ChaseSystem struct{}

func (ChaseSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, ChaserComponent.Kind(), PositionComponent.Kind(), func(e ecs.Entity, c *Chaser, pos *Position) {
		var goal cp.Vector
		switch {
		case ChasingState.In(w, e):
			chasing, _ := ChasingState.Get(w, e)
			target, ok := ecs.Get(w, chasing.Target, PositionComponent.Kind())
			if !ok {
				return
			}
			goal = target.Vector
		case IdleState.In(w, e):
			goal = c.Home
		default:
			return
		}
		delta := goal.Sub(pos.Vector)
		if delta.Length() <= c.Speed {
			pos.Vector = goal
			return
		}
		pos.Vector = pos.Add(delta.Normalize().Mult(c.Speed))
	})
}

// TimerSystem counts down attacks and stuns and marks them done.
type TimerSystem struct{}

func (TimerSystem) Update(w *ecs.World) {
	cmds := w.Commands()
	ecs.ForEach(w, AttackingState.Kind(), func(e ecs.Entity, a *Attacking) {
		if a.Frames--; a.Frames <= 0 {
			fsm.MarkDone(cmds.Entity(e), fsm.DoneSuccess)
		}
	})
	ecs.ForEach(w, StunnedState.Kind(), func(e ecs.Entity, s *Stunned) {
		if s.Frames--; s.Frames <= 0 {
			fsm.MarkDone(cmds.Entity(e), fsm.DoneSuccess)
		}
	})
}

// HitCounter counts hit events sent by attacking chasers. It is the last
// system of the tick and consumes the queue.
type HitCounter struct {
	Hits int
}

func (h *HitCounter) Update(w *ecs.World) {
	for _, evt := range w.Events().Drain() {
		if evt.Type == "hit" {
			h.Hits++
		}
	}
}
