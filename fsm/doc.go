// Package fsm runs component-based state machines for ECS entities.
//
// A state is an ordinary component type registered with NewState. An entity
// with a Machine component carries exactly one of its machine's states at any
// time. Once per tick the System scans the machine's transitions in
// registration order, fires the first one whose matcher accepts the current
// state and whose trigger passes, builds the next state's data and swaps the
// state components while running exit and enter hooks.
//
//	idle := fsm.NewState[Idle]("idle")
//	chase := fsm.NewState[Chase]("chase")
//
//	b := fsm.NewBuilder()
//	fsm.TransBuilder(b, idle, near, chase, func(_ Idle, t fsm.TransCtx[float64]) Chase {
//		return Chase{Distance: t.Out}
//	})
//	fsm.Trans(b, fsm.Is(chase), fsm.Not(near), idle, Idle{})
//	machine := b.Build()
//
//	fsm.Attach(w, e, machine, idle, Idle{})
//
// Transitions fire at most once per entity per tick; a freshly entered state
// is first evaluated on the next tick.
package fsm
