// Package script provides triggers written in tengo.
//
// A script sees an immutable map named engine and the variables declared
// when the trigger was created, and reports its decision in a variable named
// result. A truthy result passes; the optional variable value becomes the
// payload.
//
//	cond := `result := engine.event("alarm") || distance < 5`
package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/entitystate/ecs"
	"github.com/milk9111/entitystate/fsm"
)

// ErrNoResult means a script finished without assigning result.
var ErrNoResult = errors.New("script: result not defined")

// Env returns the values of the declared variables for one check.
type Env func(w *ecs.World, e ecs.Entity) map[string]any

// Trigger runs a compiled script on every check.
type Trigger struct {
	name     string
	compiled *tengo.Compiled
	env      Env
	vars     []string
}

const (
	engineVar = "engine"
	resultVar = "result"
	valueVar  = "value"
)

// Compile prepares src. Every name in vars must be provided by env, which
// may be nil when vars is empty.
func Compile(name, src string, env Env, vars ...string) (*Trigger, error) {
	s := tengo.NewScript([]byte(src))
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	if err := s.Add(engineVar, map[string]any{}); err != nil {
		return nil, fmt.Errorf("script %s: declare %s: %w", name, engineVar, err)
	}
	for _, v := range vars {
		if err := s.Add(v, nil); err != nil {
			return nil, fmt.Errorf("script %s: declare %s: %w", name, v, err)
		}
	}
	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	return &Trigger{name: name, compiled: compiled, env: env, vars: vars}, nil
}

func (t *Trigger) Name() string {
	return t.name
}

// Check runs the script. Runtime errors fail the check and are carried as
// the failure payload; a falsy result fails with a nil error.
func (t *Trigger) Check(w *ecs.World, e ecs.Entity) fsm.Outcome[any, error] {
	if err := t.bind(w, e); err != nil {
		return fsm.Fail[any](err)
	}
	if err := t.compiled.Run(); err != nil {
		return fsm.Fail[any](fmt.Errorf("script %s: %w", t.name, err))
	}
	if !t.compiled.IsDefined(resultVar) {
		return fsm.Fail[any](fmt.Errorf("script %s: %w", t.name, ErrNoResult))
	}
	if !t.compiled.Get(resultVar).Bool() {
		return fsm.Fail[any, error](nil)
	}
	var payload any
	if t.compiled.IsDefined(valueVar) {
		payload = t.compiled.Get(valueVar).Value()
	}
	return fsm.Pass[any, error](payload)
}

func (t *Trigger) bind(w *ecs.World, e ecs.Entity) error {
	if err := t.compiled.Set(engineVar, engine(w, e)); err != nil {
		return fmt.Errorf("script %s: %w", t.name, err)
	}
	if len(t.vars) == 0 {
		return nil
	}
	var values map[string]any
	if t.env != nil {
		values = t.env(w, e)
	}
	for _, v := range t.vars {
		if err := t.compiled.Set(v, values[v]); err != nil {
			return fmt.Errorf("script %s: set %s: %w", t.name, v, err)
		}
	}
	return nil
}

func engine(w *ecs.World, e ecs.Entity) *tengo.ImmutableMap {
	values := map[string]tengo.Object{
		"entity": &tengo.String{Value: e.String()},
		"tick":   &tengo.Int{Value: int64(w.Tick())},
	}
	values["event"] = &tengo.UserFunction{Name: "event", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name, ok := tengo.ToString(args[0])
		if !ok || strings.TrimSpace(name) == "" {
			return tengo.FalseValue, nil
		}
		if fsm.Event(name).Check(w, e).Passed() {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}
	return &tengo.ImmutableMap{Value: values}
}
