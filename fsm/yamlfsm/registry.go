package yamlfsm

import (
	"fmt"
	"math"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/entitystate/ecs"
	"github.com/milk9111/entitystate/fsm"
	"github.com/milk9111/entitystate/fsm/input"
	"github.com/milk9111/entitystate/fsm/script"
)

// Trigger is the erased trigger type machine files compile to.
type Trigger = fsm.Trigger[any, any]

// TriggerFactory builds a trigger from its YAML argument. arg is the zero
// Node when the file gives none.
type TriggerFactory func(arg *yaml.Node) (Trigger, error)

// HookFactory builds a hook from its YAML argument.
type HookFactory func(arg *yaml.Node) (fsm.Hook, error)

// Data is the state data of states declared only by machine files.
type Data struct {
	State   string
	Payload any
}

type stateEntry struct {
	ref    fsm.StateRef
	trans  func(b *fsm.Builder, from fsm.Matcher, t Trigger)
	attach func(w *ecs.World, e ecs.Entity, def *fsm.StateMachine) error
}

// Registry resolves the names used in machine files. States declared in a
// file but never registered are created as Data states when AutoStates is
// set, and keep their identity across compilations.
type Registry struct {
	AutoStates bool
	// ScriptEnv and ScriptVars are handed to every script condition.
	ScriptEnv  script.Env
	ScriptVars []string

	states   map[string]stateEntry
	triggers map[string]TriggerFactory
	hooks    map[string]HookFactory
}

// NewRegistry returns a registry holding the built-in triggers and hooks.
func NewRegistry() *Registry {
	r := &Registry{
		AutoStates: true,
		states:     map[string]stateEntry{},
		triggers:   map[string]TriggerFactory{},
		hooks:      map[string]HookFactory{},
	}
	registerBuiltins(r)
	return r
}

// RegisterState makes a typed state available under its name. build makes
// the state's data from the outgoing state's data and the trigger payload; a
// nil build yields the zero value.
func RegisterState[T any](r *Registry, s *fsm.State[T], build func(prev, out any) T) {
	if build == nil {
		build = func(any, any) T {
			var zero T
			return zero
		}
	}
	r.states[s.Name()] = stateEntry{
		ref: s,
		trans: func(b *fsm.Builder, from fsm.Matcher, t Trigger) {
			fsm.TransBuilderFrom(b, from, t, s, func(prev any, c fsm.TransCtx[any]) T {
				return build(prev, c.Out)
			})
		},
		attach: func(w *ecs.World, e ecs.Entity, def *fsm.StateMachine) error {
			return fsm.Attach(w, e, def, s, build(nil, nil))
		},
	}
}

func (r *Registry) RegisterTrigger(name string, f TriggerFactory) {
	r.triggers[name] = f
}

func (r *Registry) RegisterHook(name string, f HookFactory) {
	r.hooks[name] = f
}

// State returns the state registered under name.
func (r *Registry) State(name string) (fsm.StateRef, bool) {
	s, ok := r.states[name]
	return s.ref, ok
}

func (r *Registry) state(name string) (stateEntry, error) {
	if s, ok := r.states[name]; ok {
		return s, nil
	}
	if !r.AutoStates {
		return stateEntry{}, fmt.Errorf("%w: %q", ErrUnknownState, name)
	}
	s := fsm.NewState[Data](name)
	RegisterState(r, s, func(_, out any) Data {
		return Data{State: name, Payload: out}
	})
	return r.states[name], nil
}

// Triggers lists the registered trigger names.
func (r *Registry) Triggers() []string {
	return sortedKeys(r.triggers)
}

// Hooks lists the registered hook names.
func (r *Registry) Hooks() []string {
	return sortedKeys(r.hooks)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Erase adapts a typed trigger to the erased Trigger type. Init is
// forwarded.
func Erase[O, E any](t fsm.Trigger[O, E]) Trigger {
	return erased[O, E]{t: t}
}

type erased[O, E any] struct {
	t fsm.Trigger[O, E]
}

func (e erased[O, E]) Check(w *ecs.World, ent ecs.Entity) fsm.Outcome[any, any] {
	ok, fail, passed := e.t.Check(w, ent).Unpack()
	if passed {
		return fsm.Pass[any, any](ok)
	}
	return fsm.Fail[any, any](fail)
}

func (e erased[O, E]) Init(w *ecs.World) error {
	if i, ok := e.t.(fsm.Initializer); ok {
		return i.Init(w)
	}
	return nil
}

func decodeArg(name string, arg *yaml.Node, v any) error {
	if arg == nil || arg.Kind == 0 {
		return fmt.Errorf("%w: %s needs an argument", ErrInvalidArgument, name)
	}
	if err := arg.Decode(v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidArgument, name, err)
	}
	return nil
}

type valueArg struct {
	Action input.Action `yaml:"action"`
	Min    *float64     `yaml:"min"`
	Max    *float64     `yaml:"max"`
}

func (a valueArg) bounds() (float64, float64) {
	lo, hi := math.Inf(-1), math.Inf(1)
	if a.Min != nil {
		lo = *a.Min
	}
	if a.Max != nil {
		hi = *a.Max
	}
	return lo, hi
}

func registerBuiltins(r *Registry) {
	r.RegisterTrigger("always", func(*yaml.Node) (Trigger, error) {
		return Erase(fsm.Always()), nil
	})
	r.RegisterTrigger("event", func(arg *yaml.Node) (Trigger, error) {
		var kind string
		if err := decodeArg("event", arg, &kind); err != nil {
			return nil, err
		}
		return Erase(fsm.Event(kind)), nil
	})
	r.RegisterTrigger("done", func(arg *yaml.Node) (Trigger, error) {
		d, err := decodeDone(arg)
		if err != nil {
			return nil, err
		}
		return Erase(fsm.DoneTrigger(d)), nil
	})

	buttons := map[string]func(input.Action) fsm.Trigger[fsm.Unit, fsm.Unit]{
		"pressed":       input.Pressed,
		"just_pressed":  input.JustPressed,
		"released":      input.Released,
		"just_released": input.JustReleased,
	}
	for name, newTrigger := range buttons {
		r.RegisterTrigger(name, func(arg *yaml.Node) (Trigger, error) {
			var action input.Action
			if err := decodeArg(name, arg, &action); err != nil {
				return nil, err
			}
			return Erase(newTrigger(action)), nil
		})
	}
	r.RegisterTrigger("value", func(arg *yaml.Node) (Trigger, error) {
		var v valueArg
		if err := decodeArg("value", arg, &v); err != nil {
			return nil, err
		}
		lo, hi := v.bounds()
		return Erase(input.Value(v.Action, lo, hi)), nil
	})
	r.RegisterTrigger("clamped_value", func(arg *yaml.Node) (Trigger, error) {
		var v valueArg
		if err := decodeArg("clamped_value", arg, &v); err != nil {
			return nil, err
		}
		lo, hi := v.bounds()
		return Erase(input.ClampedValue(v.Action, lo, hi)), nil
	})

	r.RegisterHook("despawn", func(*yaml.Node) (fsm.Hook, error) {
		return func(ec *ecs.EntityCommands) { ec.Despawn() }, nil
	})
	r.RegisterHook("mark_done", func(arg *yaml.Node) (fsm.Hook, error) {
		d, err := decodeDone(arg)
		if err != nil {
			return nil, err
		}
		return func(ec *ecs.EntityCommands) { fsm.MarkDone(ec, d) }, nil
	})
	r.RegisterHook("emit", func(arg *yaml.Node) (fsm.Hook, error) {
		var kind string
		if err := decodeArg("emit", arg, &kind); err != nil {
			return nil, err
		}
		return func(ec *ecs.EntityCommands) {
			e := ec.ID()
			ec.Commands().Push(func(w *ecs.World) {
				w.Events().Push(ecs.Event{Type: kind, Target: e})
			})
		}, nil
	})
}

func decodeDone(arg *yaml.Node) (fsm.Done, error) {
	var s string
	if err := decodeArg("done", arg, &s); err != nil {
		return 0, err
	}
	switch s {
	case "success":
		return fsm.DoneSuccess, nil
	case "failure":
		return fsm.DoneFailure, nil
	default:
		return 0, fmt.Errorf("%w: done must be success or failure, got %q", ErrInvalidArgument, s)
	}
}
