// Package keyboard feeds ebiten keyboard and gamepad state into
// input.ActionState components.
package keyboard

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/entitystate/ecs"
	"github.com/milk9111/entitystate/fsm/input"
)

const stickDeadzone = 0.2

// Stick selects a standard gamepad stick.
type Stick int

const (
	NoStick Stick = iota
	LeftStick
	RightStick
)

// Binding maps physical inputs to one action. Keys and buttons press the
// action; Negative and Positive keys form a digital axis on X, and Up and
// Down on Y.
type Binding struct {
	Keys     []ebiten.Key
	Buttons  []ebiten.StandardGamepadButton
	Negative []ebiten.Key
	Positive []ebiten.Key
	Up       []ebiten.Key
	Down     []ebiten.Key
	Stick    Stick
}

func (b Binding) axis() bool {
	return b.Stick != NoStick || len(b.Negative)+len(b.Positive)+len(b.Up)+len(b.Down) > 0
}

// Bindings maps actions to their physical inputs.
type Bindings map[input.Action]Binding

// DefaultBindings covers the actions used by the demos.
func DefaultBindings() Bindings {
	return Bindings{
		"move": {
			Negative: []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft},
			Positive: []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight},
			Up:       []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp},
			Down:     []ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown},
			Stick:    LeftStick,
		},
		"jump": {
			Keys:    []ebiten.Key{ebiten.KeySpace},
			Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightBottom},
		},
		"attack": {
			Keys:    []ebiten.Key{ebiten.KeyJ},
			Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightLeft},
		},
	}
}

// System writes the bound input state to every ActionState each tick. It
// registers input triggers with the world on its first update.
type System struct {
	bindings   Bindings
	registered bool
}

func NewSystem(bindings Bindings) *System {
	if bindings == nil {
		bindings = DefaultBindings()
	}
	return &System{bindings: bindings}
}

func (s *System) Update(w *ecs.World) {
	if w == nil {
		return
	}
	if !s.registered {
		if _, err := input.Register(w); err != nil {
			return
		}
		s.registered = true
	}

	gamepad, hasGamepad := firstGamepad()
	type sample struct {
		pressed bool
		axis    cp.Vector
		isAxis  bool
	}
	samples := make(map[input.Action]sample, len(s.bindings))
	for action, b := range s.bindings {
		smp := sample{pressed: anyPressed(b.Keys)}
		if hasGamepad {
			for _, btn := range b.Buttons {
				smp.pressed = smp.pressed || ebiten.IsStandardGamepadButtonPressed(gamepad, btn)
			}
		}
		if b.axis() {
			smp.isAxis = true
			smp.axis = keyAxis(b)
			if hasGamepad {
				if v, ok := stickAxis(gamepad, b.Stick); ok {
					smp.axis = v
				}
			}
		}
		samples[action] = smp
	}

	ecs.ForEach(w, input.ActionStateComponent.Kind(), func(_ ecs.Entity, state *input.ActionState) {
		for action, smp := range samples {
			if smp.isAxis {
				state.SetAxisPair(action, smp.axis)
				continue
			}
			state.SetPressed(action, smp.pressed)
		}
	})
}

func anyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func keyAxis(b Binding) cp.Vector {
	var v cp.Vector
	if anyPressed(b.Negative) {
		v.X--
	}
	if anyPressed(b.Positive) {
		v.X++
	}
	if anyPressed(b.Up) {
		v.Y++
	}
	if anyPressed(b.Down) {
		v.Y--
	}
	return v
}

func firstGamepad() (ebiten.GamepadID, bool) {
	ids := ebiten.AppendGamepadIDs(nil)
	if len(ids) == 0 {
		return 0, false
	}
	if !ebiten.IsStandardGamepadLayoutAvailable(ids[0]) {
		return 0, false
	}
	return ids[0], true
}

func stickAxis(id ebiten.GamepadID, stick Stick) (cp.Vector, bool) {
	var h, v ebiten.StandardGamepadAxis
	switch stick {
	case LeftStick:
		h, v = ebiten.StandardGamepadAxisLeftStickHorizontal, ebiten.StandardGamepadAxisLeftStickVertical
	case RightStick:
		h, v = ebiten.StandardGamepadAxisRightStickHorizontal, ebiten.StandardGamepadAxisRightStickVertical
	default:
		return cp.Vector{}, false
	}
	// gamepad Y grows downwards
	x := ebiten.StandardGamepadAxisValue(id, h)
	y := -ebiten.StandardGamepadAxisValue(id, v)
	if math.Hypot(x, y) <= stickDeadzone {
		return cp.Vector{}, false
	}
	return cp.Vector{X: x, Y: y}, true
}

// JustPressedKey reports a key pressed this frame. Debug shortcuts in the
// demos use it outside of action bindings.
func JustPressedKey(k ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(k)
}
