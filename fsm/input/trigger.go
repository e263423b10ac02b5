package input

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/entitystate/ecs"
	"github.com/milk9111/entitystate/fsm"
)

func actionState(w *ecs.World, e ecs.Entity) (*ActionState, bool) {
	return ecs.Get(w, e, ActionStateComponent.Kind())
}

type boolTrigger struct {
	registered
	action Action
	test   func(s *ActionState, a Action) bool
}

func (t boolTrigger) Check(w *ecs.World, e ecs.Entity) fsm.Outcome[fsm.Unit, fsm.Unit] {
	s, ok := actionState(w, e)
	if ok && t.test(s, t.action) {
		return fsm.Pass[fsm.Unit, fsm.Unit](fsm.Unit{})
	}
	return fsm.Fail[fsm.Unit, fsm.Unit](fsm.Unit{})
}

// Pressed passes while the action is held.
func Pressed(a Action) fsm.Trigger[fsm.Unit, fsm.Unit] {
	return boolTrigger{action: a, test: (*ActionState).Pressed}
}

// JustPressed passes on the frame the action is pressed.
func JustPressed(a Action) fsm.Trigger[fsm.Unit, fsm.Unit] {
	return boolTrigger{action: a, test: (*ActionState).JustPressed}
}

// Released passes while the action is not held.
func Released(a Action) fsm.Trigger[fsm.Unit, fsm.Unit] {
	return boolTrigger{action: a, test: (*ActionState).Released}
}

// JustReleased passes on the frame the action is released.
func JustReleased(a Action) fsm.Trigger[fsm.Unit, fsm.Unit] {
	return boolTrigger{action: a, test: (*ActionState).JustReleased}
}

type dataTrigger struct {
	registered
	action Action
}

func (t dataTrigger) Check(w *ecs.World, e ecs.Entity) fsm.Outcome[ActionData, fsm.Never] {
	var d ActionData
	if s, ok := actionState(w, e); ok {
		d = s.Data(t.action)
	}
	return fsm.Pass[ActionData, fsm.Never](d)
}

// Data always passes with the action's current state.
func Data(a Action) fsm.Trigger[ActionData, fsm.Never] {
	return dataTrigger{action: a}
}

type valueTrigger struct {
	registered
	action   Action
	min, max float64
	clamped  bool
}

func (t valueTrigger) Check(w *ecs.World, e ecs.Entity) fsm.Outcome[float64, float64] {
	s, ok := actionState(w, e)
	if !ok {
		return fsm.Fail[float64, float64](0)
	}
	v := s.Value(t.action)
	if t.clamped {
		v = s.ClampedValue(t.action)
	}
	if v >= t.min && v <= t.max {
		return fsm.Pass[float64, float64](v)
	}
	return fsm.Fail[float64, float64](v)
}

// Value passes with the action's value when it lies in [min, max]. Use
// math.Inf for an open bound.
func Value(a Action, min, max float64) fsm.Trigger[float64, float64] {
	return valueTrigger{action: a, min: min, max: max}
}

// ClampedValue is Value over the value limited to [-1, 1].
func ClampedValue(a Action, min, max float64) fsm.Trigger[float64, float64] {
	return valueTrigger{action: a, min: min, max: max, clamped: true}
}

// AxisBounds limits an axis pair's length and direction. Rotations are in
// degrees clockwise from straight up. A range with MinRotation greater than
// MaxRotation wraps through 0; equal rotations disable the rotation check.
type AxisBounds struct {
	MinLength   float64
	MaxLength   float64
	MinRotation float64
	MaxRotation float64
}

// Unbounded accepts every axis pair.
func Unbounded() AxisBounds {
	return AxisBounds{MaxLength: math.Inf(1)}
}

// LengthBounds accepts axis pairs whose length lies in [min, max].
func LengthBounds(min, max float64) AxisBounds {
	return AxisBounds{MinLength: min, MaxLength: max}
}

// RotationBounds accepts axis pairs pointing between min and max degrees.
func RotationBounds(min, max float64) AxisBounds {
	return AxisBounds{MaxLength: math.Inf(1), MinRotation: min, MaxRotation: max}
}

func (b AxisBounds) accepts(v cp.Vector) bool {
	length := v.Length()
	if length < b.MinLength || length > b.MaxLength {
		return false
	}
	rot, ok := Rotation(v)
	if !ok {
		return true
	}
	if b.MinRotation < b.MaxRotation {
		return rot >= b.MinRotation && rot <= b.MaxRotation
	}
	return rot >= b.MinRotation || rot <= b.MaxRotation
}

type axisTrigger struct {
	registered
	action  Action
	bounds  AxisBounds
	clamped bool
}

func (t axisTrigger) Check(w *ecs.World, e ecs.Entity) fsm.Outcome[cp.Vector, *cp.Vector] {
	s, ok := actionState(w, e)
	if !ok {
		return fsm.Fail[cp.Vector, *cp.Vector](nil)
	}
	get := s.AxisPair
	if t.clamped {
		get = s.ClampedAxisPair
	}
	v, ok := get(t.action)
	if !ok {
		return fsm.Fail[cp.Vector, *cp.Vector](nil)
	}
	if !t.bounds.accepts(v) {
		return fsm.Fail[cp.Vector](&v)
	}
	return fsm.Pass[cp.Vector, *cp.Vector](v)
}

// AxisPair passes with the action's axis pair when it lies within bounds. The
// failure carries the rejected pair, or nil when the action has none.
func AxisPair(a Action, bounds AxisBounds) fsm.Trigger[cp.Vector, *cp.Vector] {
	return axisTrigger{action: a, bounds: bounds}
}

// ClampedAxisPair is AxisPair over the pair limited to length 1.
func ClampedAxisPair(a Action, bounds AxisBounds) fsm.Trigger[cp.Vector, *cp.Vector] {
	return axisTrigger{action: a, bounds: bounds, clamped: true}
}
