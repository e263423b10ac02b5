package main

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/entitystate/ecs"
	"github.com/milk9111/entitystate/ecs/component"
	"github.com/milk9111/entitystate/fsm"
)

type Position struct {
	cp.Vector
}

type Player struct {
	Speed float64
}

type Chaser struct {
	Speed float64
	Home  cp.Vector
}

var (
	PositionComponent = component.NewComponent[Position]()
	PlayerComponent   = component.NewComponent[Player]()
	ChaserComponent   = component.NewComponent[Chaser]()
)

// Chaser states.
type Idle struct{}

type Chasing struct {
	Target ecs.Entity
}

type Attacking struct {
	Target ecs.Entity
	Range  float64
	Frames int
}

type Stunned struct {
	Frames int
}

var (
	IdleState      = fsm.NewState[Idle]("idle")
	ChasingState   = fsm.NewState[Chasing]("chasing")
	AttackingState = fsm.NewState[Attacking]("attacking")
	StunnedState   = fsm.NewState[Stunned]("stunned")
)

// Sighting is the payload of the near trigger.
type Sighting struct {
	Target   ecs.Entity
	Distance float64
	Range    float64
}
