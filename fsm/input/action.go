package input

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/entitystate/ecs/component"
)

// Action names something a player or controller can do, such as "jump".
type Action string

// ActionData is the per-action state of one frame.
type ActionData struct {
	Pressed      bool
	JustPressed  bool
	JustReleased bool
	// Value is the analog value of the action, 1 or 0 for buttons.
	Value float64
	// Axis holds a two dimensional value for stick-like actions. HasAxis is
	// false for actions that never received one.
	Axis    cp.Vector
	HasAxis bool
}

// ActionState holds the current input actions of an entity.
type ActionState struct {
	actions map[Action]*ActionData
}

var ActionStateComponent = component.NewComponent[ActionState]()

func NewActionState() *ActionState {
	return &ActionState{actions: map[Action]*ActionData{}}
}

func (s *ActionState) data(a Action) *ActionData {
	if s.actions == nil {
		s.actions = map[Action]*ActionData{}
	}
	d, ok := s.actions[a]
	if !ok {
		d = &ActionData{}
		s.actions[a] = d
	}
	return d
}

// SetPressed records this frame's button state for a. The just pressed and
// just released flags are derived from the previous frame.
func (s *ActionState) SetPressed(a Action, pressed bool) {
	d := s.data(a)
	d.JustPressed = pressed && !d.Pressed
	d.JustReleased = !pressed && d.Pressed
	d.Pressed = pressed
	if pressed {
		d.Value = 1
	} else {
		d.Value = 0
	}
}

func (s *ActionState) Press(a Action) {
	s.SetPressed(a, true)
}

func (s *ActionState) Release(a Action) {
	s.SetPressed(a, false)
}

// SetValue records an analog value. Non-zero values count as pressed.
func (s *ActionState) SetValue(a Action, v float64) {
	s.SetPressed(a, v != 0)
	s.data(a).Value = v
}

// SetAxisPair records a two dimensional value. Non-zero vectors count as
// pressed and the value is the vector's length.
func (s *ActionState) SetAxisPair(a Action, v cp.Vector) {
	s.SetValue(a, v.Length())
	d := s.data(a)
	d.Axis = v
	d.HasAxis = true
}

// Data returns a copy of the action's state.
func (s *ActionState) Data(a Action) ActionData {
	if d, ok := s.actions[a]; ok {
		return *d
	}
	return ActionData{}
}

func (s *ActionState) Pressed(a Action) bool {
	return s.Data(a).Pressed
}

func (s *ActionState) JustPressed(a Action) bool {
	return s.Data(a).JustPressed
}

func (s *ActionState) Released(a Action) bool {
	return !s.Data(a).Pressed
}

func (s *ActionState) JustReleased(a Action) bool {
	return s.Data(a).JustReleased
}

func (s *ActionState) Value(a Action) float64 {
	return s.Data(a).Value
}

// ClampedValue is Value limited to [-1, 1].
func (s *ActionState) ClampedValue(a Action) float64 {
	return math.Max(-1, math.Min(1, s.Value(a)))
}

func (s *ActionState) AxisPair(a Action) (cp.Vector, bool) {
	d := s.Data(a)
	return d.Axis, d.HasAxis
}

// ClampedAxisPair is AxisPair limited to length 1.
func (s *ActionState) ClampedAxisPair(a Action) (cp.Vector, bool) {
	v, ok := s.AxisPair(a)
	if !ok {
		return v, false
	}
	return v.Clamp(1), true
}

// Rotation returns the direction of v in degrees, clockwise from straight up
// (positive Y), in [0, 360). The zero vector has no rotation.
func Rotation(v cp.Vector) (float64, bool) {
	if v.X == 0 && v.Y == 0 {
		return 0, false
	}
	deg := math.Atan2(v.X, v.Y) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg, true
}
