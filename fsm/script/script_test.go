package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/entitystate/ecs"
	"github.com/milk9111/entitystate/ecs/component"
	"github.com/milk9111/entitystate/fsm"
)

type distance struct{ D float64 }

var distanceComponent = component.NewComponent[distance]()

func distanceEnv(w *ecs.World, e ecs.Entity) map[string]any {
	d, ok := ecs.Get(w, e, distanceComponent.Kind())
	if !ok {
		return map[string]any{"distance": 1000.0}
	}
	return map[string]any{"distance": d.D}
}

func TestScriptTrigger(t *testing.T) {
	tr, err := Compile("near", `
result := distance < 5
value := distance * 2
`, distanceEnv, "distance")
	require.NoError(t, err)

	w := ecs.NewWorld()
	e := w.CreateEntity()
	require.NoError(t, ecs.Add(w, e, distanceComponent.Kind(), &distance{D: 3}))

	out := tr.Check(w, e)
	require.True(t, out.Passed())
	assert.Equal(t, 6.0, out.Value())

	d, _ := ecs.Get(w, e, distanceComponent.Kind())
	d.D = 9
	out = tr.Check(w, e)
	require.False(t, out.Passed())
	assert.NoError(t, out.Failure())
}

func TestScriptEngine(t *testing.T) {
	tr, err := Compile("alarm", `
text := import("text")
result := engine.event("alarm") && text.has_prefix(engine.entity, "")
`, nil)
	require.NoError(t, err)

	w := ecs.NewWorld()
	e := w.CreateEntity()
	assert.False(t, tr.Check(w, e).Passed())

	w.Events().Push(ecs.Event{Type: "alarm"})
	assert.True(t, tr.Check(w, e).Passed())
}

func TestScriptEngineDeclared(t *testing.T) {
	tr, err := Compile("declared", `result := engine != undefined`, nil)
	require.NoError(t, err)
	w := ecs.NewWorld()
	assert.True(t, tr.Check(w, w.CreateEntity()).Passed())
}

func TestScriptErrors(t *testing.T) {
	_, err := Compile("broken", `result := (`, nil)
	require.Error(t, err)

	tr, err := Compile("silent", `x := 1`, nil)
	require.NoError(t, err)
	w := ecs.NewWorld()
	out := tr.Check(w, w.CreateEntity())
	require.False(t, out.Passed())
	assert.ErrorIs(t, out.Failure(), ErrNoResult)

	tr, err = Compile("panicky", `result := [1][5] + 1`, nil)
	require.NoError(t, err)
	out = tr.Check(w, w.CreateEntity())
	require.False(t, out.Passed())
	assert.Error(t, out.Failure())
}

func TestScriptDrivesMachine(t *testing.T) {
	tr, err := Compile("near", `result := distance < 5`, distanceEnv, "distance")
	require.NoError(t, err)

	far := fsm.NewState[struct{}]("far")
	near := fsm.NewState[struct{}]("near")
	b := fsm.NewBuilder()
	fsm.Trans[any, error](b, fsm.Is(far), tr, near, struct{}{})
	def := b.Build()

	w := ecs.NewWorld()
	sched := ecs.NewScheduler()
	fsm.Install(sched)

	e := w.CreateEntity()
	require.NoError(t, fsm.Attach(w, e, def, far, struct{}{}))
	require.NoError(t, ecs.Add(w, e, distanceComponent.Kind(), &distance{D: 20}))

	sched.Update(w)
	assert.True(t, far.In(w, e))

	d, _ := ecs.Get(w, e, distanceComponent.Kind())
	d.D = 1
	sched.Update(w)
	assert.True(t, near.In(w, e))
}
