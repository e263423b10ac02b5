package yamlfsm

import (
	"errors"
	"fmt"

	"github.com/milk9111/entitystate/ecs"
	"github.com/milk9111/entitystate/fsm"
	"github.com/milk9111/entitystate/fsm/script"
)

// Machine is a compiled machine file.
type Machine struct {
	Def     *fsm.StateMachine
	initial stateEntry
}

// Initial returns the state entities start in.
func (m *Machine) Initial() fsm.StateRef {
	return m.initial.ref
}

// Attach gives e the machine in its initial state.
func (m *Machine) Attach(w *ecs.World, e ecs.Entity) error {
	return m.initial.attach(w, e, m.Def)
}

// Compile turns a machine file into a machine definition. Every problem in
// the file is reported, joined.
func (r *Registry) Compile(f *File) (*Machine, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil file", ErrInvalidFile)
	}
	var errs []error
	b := fsm.NewBuilder().SetTransLogging(f.LogTransitions)
	if f.Name != "" {
		b.Named(f.Name)
	}

	var initial stateEntry
	if f.Initial == "" {
		errs = append(errs, fmt.Errorf("%w: missing initial state", ErrInvalidFile))
	} else if s, err := r.state(f.Initial); err != nil {
		errs = append(errs, fmt.Errorf("initial: %w", err))
	} else {
		initial = s
		b.WithState(s.ref)
	}
	for _, name := range f.States {
		s, err := r.state(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("states: %w", err))
			continue
		}
		b.WithState(s.ref)
	}

	for i, edge := range f.Transitions {
		if err := r.compileEdge(b, edge); err != nil {
			errs = append(errs, fmt.Errorf("transition %d: %w", i, err))
		}
	}
	for i, h := range f.OnEnter {
		hook, state, other, err := r.compileHook(h)
		if err != nil {
			errs = append(errs, fmt.Errorf("on_enter %d: %w", i, err))
			continue
		}
		b.OnEnterFrom(state, other, hook)
	}
	for i, h := range f.OnExit {
		hook, state, other, err := r.compileHook(h)
		if err != nil {
			errs = append(errs, fmt.Errorf("on_exit %d: %w", i, err))
			continue
		}
		b.OnExitTo(state, other, hook)
	}

	if err := errors.Join(errs...); err != nil {
		if f.Name != "" {
			return nil, fmt.Errorf("yamlfsm: compile %s: %w", f.Name, err)
		}
		return nil, fmt.Errorf("yamlfsm: compile: %w", err)
	}
	return &Machine{Def: b.Build(), initial: initial}, nil
}

func (r *Registry) compileEdge(b *fsm.Builder, edge Edge) error {
	if edge.From.unset() {
		return fmt.Errorf("%w: missing from", ErrInvalidFile)
	}
	if edge.To == "" {
		return fmt.Errorf("%w: missing to", ErrInvalidFile)
	}
	from, err := r.matcher(edge.From)
	if err != nil {
		return err
	}
	to, err := r.state(edge.To)
	if err != nil {
		return err
	}
	t, err := r.condition(edge.When)
	if err != nil {
		return err
	}
	to.trans(b, from, t)
	return nil
}

func (r *Registry) compileHook(h HookRef) (fsm.Hook, fsm.Matcher, fsm.Matcher, error) {
	if h.State.unset() {
		return nil, fsm.Matcher{}, fsm.Matcher{}, fmt.Errorf("%w: missing state", ErrInvalidFile)
	}
	state, err := r.matcher(h.State)
	if err != nil {
		return nil, fsm.Matcher{}, fsm.Matcher{}, err
	}
	other := fsm.Any()
	if !h.Other.unset() {
		if other, err = r.matcher(h.Other); err != nil {
			return nil, fsm.Matcher{}, fsm.Matcher{}, err
		}
	}
	factory, ok := r.hooks[h.Hook]
	if !ok {
		return nil, fsm.Matcher{}, fsm.Matcher{}, fmt.Errorf("%w: %q", ErrUnknownHook, h.Hook)
	}
	hook, err := factory(&h.Arg)
	if err != nil {
		return nil, fsm.Matcher{}, fsm.Matcher{}, err
	}
	return hook, state, other, nil
}

func (r *Registry) matcher(src Source) (fsm.Matcher, error) {
	if src.Any {
		return fsm.Any(), nil
	}
	names := src.OneOf
	if len(src.NoneOf) > 0 {
		names = src.NoneOf
	}
	refs := make([]fsm.StateRef, 0, len(names))
	for _, name := range names {
		s, err := r.state(name)
		if err != nil {
			return fsm.Matcher{}, err
		}
		refs = append(refs, s.ref)
	}
	switch {
	case len(src.NoneOf) > 0:
		return fsm.NoneOf(refs...), nil
	case len(refs) == 1:
		return fsm.Is(refs[0]), nil
	default:
		return fsm.OneOf(refs...), nil
	}
}

func (r *Registry) condition(c Condition) (Trigger, error) {
	set := 0
	for _, ok := range []bool{c.Trigger != "", len(c.All) > 0, len(c.Any) > 0, c.Not != nil, c.Script != ""} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("%w: condition needs exactly one of trigger, all, any, not, script", ErrInvalidFile)
	}

	switch {
	case c.Trigger != "":
		factory, ok := r.triggers[c.Trigger]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTrigger, c.Trigger)
		}
		return factory(&c.Arg)
	case c.Not != nil:
		inner, err := r.condition(*c.Not)
		if err != nil {
			return nil, err
		}
		return Erase(fsm.Not(inner)), nil
	case c.Script != "":
		return r.compileScript(c.Script)
	}

	all := len(c.All) > 0
	list := c.All
	if !all {
		list = c.Any
	}
	var acc Trigger
	for _, sub := range list {
		t, err := r.condition(sub)
		if err != nil {
			return nil, err
		}
		switch {
		case acc == nil:
			acc = t
		case all:
			acc = Erase(fsm.And(acc, t))
		default:
			acc = Erase(fsm.Or(acc, t))
		}
	}
	return acc, nil
}

func (r *Registry) compileScript(src string) (Trigger, error) {
	t, err := script.Compile("inline", src, r.ScriptEnv, r.ScriptVars...)
	if err != nil {
		return nil, err
	}
	return Erase[any, error](t), nil
}
