package input

import (
	"context"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/entitystate/ecs"
	"github.com/milk9111/entitystate/fsm"
)

const (
	jump Action = "jump"
	move Action = "move"
	aim  Action = "aim"
)

func newActor(t *testing.T) (*ecs.World, ecs.Entity, *ActionState) {
	t.Helper()
	w := ecs.NewWorld()
	_, err := Register(w)
	require.NoError(t, err)

	e := w.CreateEntity()
	require.NoError(t, ecs.Add(w, e, ActionStateComponent.Kind(), NewActionState()))
	s, ok := ecs.Get(w, e, ActionStateComponent.Kind())
	require.True(t, ok)
	return w, e, s
}

func TestButtonTriggers(t *testing.T) {
	w, e, s := newActor(t)

	tests := []struct {
		name    string
		frame   func()
		pressed bool
		just    bool
		release bool
		justRel bool
	}{
		{name: "idle", frame: func() {}, release: true},
		{name: "press", frame: func() { s.Press(jump) }, pressed: true, just: true},
		{name: "hold", frame: func() { s.Press(jump) }, pressed: true},
		{name: "release", frame: func() { s.Release(jump) }, release: true, justRel: true},
		{name: "stay released", frame: func() { s.Release(jump) }, release: true},
	}

	for _, tt := range tests {
		tt.frame()
		assert.Equal(t, tt.pressed, Pressed(jump).Check(w, e).Passed(), tt.name)
		assert.Equal(t, tt.just, JustPressed(jump).Check(w, e).Passed(), tt.name)
		assert.Equal(t, tt.release, Released(jump).Check(w, e).Passed(), tt.name)
		assert.Equal(t, tt.justRel, JustReleased(jump).Check(w, e).Passed(), tt.name)
	}
}

func TestValueTriggers(t *testing.T) {
	w, e, s := newActor(t)
	s.SetValue(move, 1.5)

	out := Value(move, 1, math.Inf(1)).Check(w, e)
	require.True(t, out.Passed())
	assert.InDelta(t, 1.5, out.Value(), 1e-9)

	out = ClampedValue(move, -0.5, 0.9).Check(w, e)
	require.False(t, out.Passed())
	assert.InDelta(t, 1.0, out.Failure(), 1e-9)

	out = Value(move, math.Inf(-1), 0).Check(w, e)
	assert.False(t, out.Passed())
}

func TestAxisPairTriggers(t *testing.T) {
	w, e, s := newActor(t)

	out := AxisPair(aim, Unbounded()).Check(w, e)
	require.False(t, out.Passed())
	assert.Nil(t, out.Failure())

	tests := []struct {
		name   string
		axis   cp.Vector
		bounds AxisBounds
		clamp  bool
		want   bool
	}{
		{name: "unbounded", axis: cp.Vector{X: 3, Y: 4}, bounds: Unbounded(), want: true},
		{name: "too long", axis: cp.Vector{X: 3, Y: 4}, bounds: LengthBounds(0, 2), want: false},
		{name: "clamped fits", axis: cp.Vector{X: 3, Y: 4}, bounds: LengthBounds(0, 2), clamp: true, want: true},
		{name: "east in right half", axis: cp.Vector{X: 1}, bounds: RotationBounds(45, 135), want: true},
		{name: "west not in right half", axis: cp.Vector{X: -1}, bounds: RotationBounds(45, 135), want: false},
		{name: "north in wrapped range", axis: cp.Vector{Y: 1}, bounds: RotationBounds(315, 45), want: true},
		{name: "south not in wrapped range", axis: cp.Vector{Y: -1}, bounds: RotationBounds(315, 45), want: false},
		{name: "neutral passes rotation", axis: cp.Vector{}, bounds: RotationBounds(45, 135), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.SetAxisPair(aim, tt.axis)
			tr := AxisPair(aim, tt.bounds)
			if tt.clamp {
				tr = ClampedAxisPair(aim, tt.bounds)
			}
			out := tr.Check(w, e)
			assert.Equal(t, tt.want, out.Passed())
			if !tt.want {
				require.NotNil(t, out.Failure())
				assert.Equal(t, tt.axis, *out.Failure())
			}
		})
	}
}

func TestRotation(t *testing.T) {
	tests := []struct {
		v    cp.Vector
		want float64
	}{
		{v: cp.Vector{Y: 1}, want: 0},
		{v: cp.Vector{X: 1}, want: 90},
		{v: cp.Vector{Y: -1}, want: 180},
		{v: cp.Vector{X: -1}, want: 270},
	}
	for _, tt := range tests {
		got, ok := Rotation(tt.v)
		require.True(t, ok)
		assert.InDelta(t, tt.want, got, 1e-9)
	}

	_, ok := Rotation(cp.Vector{})
	assert.False(t, ok)
}

func TestMissingActionStateFails(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()

	assert.False(t, Pressed(jump).Check(w, e).Passed())
	assert.False(t, Value(move, math.Inf(-1), math.Inf(1)).Check(w, e).Passed())
	assert.True(t, Data(jump).Check(w, e).Passed())
}

func TestUnregisteredInputIsContractViolation(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	require.NoError(t, ecs.Add(w, e, ActionStateComponent.Kind(), NewActionState()))

	standing := fsm.NewState[struct{}]("standing")
	jumping := fsm.NewState[struct{}]("jumping")
	b := fsm.NewBuilder()
	fsm.Trans(b, fsm.Is(standing), JustPressed(jump), jumping, struct{}{})
	def := b.Build()
	require.NoError(t, fsm.Attach(w, e, def, standing, struct{}{}))

	sys := fsm.NewSystem(fsm.WithLogger(slogt.New(t)))
	err := sys.Evaluate(context.Background(), w)
	require.ErrorIs(t, err, fsm.ErrUnregisteredTrigger)
	require.ErrorIs(t, err, ErrNotRegistered)

	_, err = Register(w)
	require.NoError(t, err)
	s, _ := ecs.Get(w, e, ActionStateComponent.Kind())
	s.Press(jump)

	require.NoError(t, sys.Evaluate(context.Background(), w))
	assert.True(t, jumping.In(w, e))
}

func TestRegisterIsIdempotent(t *testing.T) {
	w := ecs.NewWorld()
	first, err := Register(w)
	require.NoError(t, err)
	second, err := Register(w)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.True(t, Registered(w))
}
