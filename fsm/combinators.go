package fsm

import (
	"errors"

	"github.com/milk9111/entitystate/ecs"
)

type notTrigger[O, E any] struct {
	inner Trigger[O, E]
}

func (t notTrigger[O, E]) Check(w *ecs.World, e ecs.Entity) Outcome[E, O] {
	return t.inner.Check(w, e).swap()
}

func (t notTrigger[O, E]) Init(w *ecs.World) error {
	return initTrigger(t.inner, w)
}

// Not passes when t fails. The payloads swap sides.
func Not[O, E any](t Trigger[O, E]) Trigger[E, O] {
	return notTrigger[O, E]{inner: t}
}

type andTrigger[O1, E1, O2, E2 any] struct {
	a Trigger[O1, E1]
	b Trigger[O2, E2]
}

func (t andTrigger[O1, E1, O2, E2]) Check(w *ecs.World, e ecs.Entity) Outcome[Pair[O1, O2], Either[E1, E2]] {
	a := t.a.Check(w, e)
	if !a.Passed() {
		return Fail[Pair[O1, O2]](Left[E1, E2](a.Failure()))
	}
	b := t.b.Check(w, e)
	if !b.Passed() {
		return Fail[Pair[O1, O2]](Right[E1](b.Failure()))
	}
	return Pass[Pair[O1, O2], Either[E1, E2]](Pair[O1, O2]{First: a.Value(), Second: b.Value()})
}

func (t andTrigger[O1, E1, O2, E2]) Init(w *ecs.World) error {
	return errors.Join(initTrigger(t.a, w), initTrigger(t.b, w))
}

// And passes when both a and b pass. b is not checked when a fails.
func And[O1, E1, O2, E2 any](a Trigger[O1, E1], b Trigger[O2, E2]) Trigger[Pair[O1, O2], Either[E1, E2]] {
	return andTrigger[O1, E1, O2, E2]{a: a, b: b}
}

type orTrigger[O1, E1, O2, E2 any] struct {
	a Trigger[O1, E1]
	b Trigger[O2, E2]
}

func (t orTrigger[O1, E1, O2, E2]) Check(w *ecs.World, e ecs.Entity) Outcome[Either[O1, O2], Pair[E1, E2]] {
	a := t.a.Check(w, e)
	if a.Passed() {
		return Pass[Either[O1, O2], Pair[E1, E2]](Left[O1, O2](a.Value()))
	}
	b := t.b.Check(w, e)
	if b.Passed() {
		return Pass[Either[O1, O2], Pair[E1, E2]](Right[O1](b.Value()))
	}
	return Fail[Either[O1, O2]](Pair[E1, E2]{First: a.Failure(), Second: b.Failure()})
}

func (t orTrigger[O1, E1, O2, E2]) Init(w *ecs.World) error {
	return errors.Join(initTrigger(t.a, w), initTrigger(t.b, w))
}

// Or passes when a or b passes. b is not checked when a passes.
func Or[O1, E1, O2, E2 any](a Trigger[O1, E1], b Trigger[O2, E2]) Trigger[Either[O1, O2], Pair[E1, E2]] {
	return orTrigger[O1, E1, O2, E2]{a: a, b: b}
}

type ignoreAndTrigger[O1, E1, O2, E2 any] struct {
	guard Trigger[O1, E1]
	t     Trigger[O2, E2]
}

func (t ignoreAndTrigger[O1, E1, O2, E2]) Check(w *ecs.World, e ecs.Entity) Outcome[O2, Either[E1, E2]] {
	g := t.guard.Check(w, e)
	if !g.Passed() {
		return Fail[O2](Left[E1, E2](g.Failure()))
	}
	out := t.t.Check(w, e)
	if !out.Passed() {
		return Fail[O2](Right[E1](out.Failure()))
	}
	return Pass[O2, Either[E1, E2]](out.Value())
}

func (t ignoreAndTrigger[O1, E1, O2, E2]) Init(w *ecs.World) error {
	return errors.Join(initTrigger(t.guard, w), initTrigger(t.t, w))
}

// IgnoreAnd is And for a guard whose payload is not needed: it passes with
// only t's payload.
func IgnoreAnd[O1, E1, O2, E2 any](guard Trigger[O1, E1], t Trigger[O2, E2]) Trigger[O2, Either[E1, E2]] {
	return ignoreAndTrigger[O1, E1, O2, E2]{guard: guard, t: t}
}
