package fsm

import "github.com/milk9111/entitystate/ecs"

// TransCtx is what a transition builder receives besides the outgoing state:
// the entity, the index of the transition that fired and the trigger payload.
type TransCtx[O any] struct {
	Entity     ecs.Entity
	Transition int
	Out        O
}

// buildFunc produces the incoming state's data from the outgoing state's data.
type buildFunc func(prev any) any

// checkFunc checks the trigger and, when it passes, returns the builder bound
// to the trigger's payload.
type checkFunc func(w *ecs.World, e ecs.Entity) (buildFunc, bool)

// transition is one guarded edge. Its index is its priority: lower indexes are
// checked first.
type transition struct {
	index   int
	from    Matcher
	to      StateRef
	trigger any
	check   checkFunc
}

func makeCheck[O, E any](index int, trigger Trigger[O, E], build func(prev any, t TransCtx[O]) any) checkFunc {
	return func(w *ecs.World, e ecs.Entity) (buildFunc, bool) {
		out := trigger.Check(w, e)
		if !out.Passed() {
			return nil, false
		}
		ctx := TransCtx[O]{Entity: e, Transition: index, Out: out.Value()}
		return func(prev any) any {
			return build(prev, ctx)
		}, true
	}
}
