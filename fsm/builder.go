package fsm

import (
	"github.com/google/uuid"

	"github.com/milk9111/entitystate/ecs"
)

// Hook runs when a machine enters or exits a state. Changes queued on the
// entity commands are applied right after the hook group finishes.
type Hook func(ec *ecs.EntityCommands)

type hookEntry struct {
	state Matcher
	other Matcher
	hook  Hook
	cmd   ecs.Command
}

func (h hookEntry) run(cmds *ecs.Commands, e ecs.Entity) {
	if h.hook != nil {
		h.hook(cmds.Entity(e))
	}
	if h.cmd != nil {
		cmds.Push(h.cmd)
	}
}

// Builder collects states, transitions and hooks. It only ever appends.
// Build freezes it; using a builder after Build panics.
type Builder struct {
	name           string
	states         []StateRef
	known          map[StateID]StateRef
	transitions    []transition
	onEnter        []hookEntry
	onExit         []hookEntry
	logTransitions bool
	built          bool
}

// NewBuilder returns an empty, open builder.
func NewBuilder() *Builder {
	return &Builder{known: map[StateID]StateRef{}}
}

func (b *Builder) mustOpen() {
	if b.built {
		panic("fsm: builder used after Build")
	}
}

func (b *Builder) register(states ...StateRef) {
	for _, s := range states {
		if s == nil {
			panic("fsm: nil state")
		}
		if _, ok := b.known[s.ID()]; ok {
			continue
		}
		b.known[s.ID()] = s
		b.states = append(b.states, s)
	}
}

// Named sets the machine name used in logs and errors.
func (b *Builder) Named(name string) *Builder {
	b.mustOpen()
	b.name = name
	return b
}

// WithState registers a state that no transition mentions, so an entity in it
// is still recognised as being in a state of this machine.
func (b *Builder) WithState(s StateRef) *Builder {
	b.mustOpen()
	b.register(s)
	return b
}

// OnEnter runs hook whenever the machine enters a state matched by to.
func (b *Builder) OnEnter(to Matcher, hook Hook) *Builder {
	return b.OnEnterFrom(to, Any(), hook)
}

// OnEnterFrom runs hook when the machine enters a state matched by to while
// leaving a state matched by from.
func (b *Builder) OnEnterFrom(to, from Matcher, hook Hook) *Builder {
	b.mustOpen()
	b.register(to.states...)
	b.register(from.states...)
	b.onEnter = append(b.onEnter, hookEntry{state: to, other: from, hook: hook})
	return b
}

// OnExit runs hook whenever the machine leaves a state matched by from.
func (b *Builder) OnExit(from Matcher, hook Hook) *Builder {
	return b.OnExitTo(from, Any(), hook)
}

// OnExitTo runs hook when the machine leaves a state matched by from for a
// state matched by to.
func (b *Builder) OnExitTo(from, to Matcher, hook Hook) *Builder {
	b.mustOpen()
	b.register(from.states...)
	b.register(to.states...)
	b.onExit = append(b.onExit, hookEntry{state: from, other: to, hook: hook})
	return b
}

// CommandOnEnter queues cmd whenever the machine enters a state matched by to.
func (b *Builder) CommandOnEnter(to Matcher, cmd ecs.Command) *Builder {
	b.mustOpen()
	b.register(to.states...)
	b.onEnter = append(b.onEnter, hookEntry{state: to, other: Any(), cmd: cmd})
	return b
}

// CommandOnExit queues cmd whenever the machine leaves a state matched by from.
func (b *Builder) CommandOnExit(from Matcher, cmd ecs.Command) *Builder {
	b.mustOpen()
	b.register(from.states...)
	b.onExit = append(b.onExit, hookEntry{state: from, other: Any(), cmd: cmd})
	return b
}

// SetTransLogging makes every transition of this machine emit a record.
func (b *Builder) SetTransLogging(enabled bool) *Builder {
	b.mustOpen()
	b.logTransitions = enabled
	return b
}

// Build freezes the builder into a StateMachine.
func (b *Builder) Build() *StateMachine {
	b.mustOpen()
	b.built = true
	byID := make(map[StateID]StateRef, len(b.states))
	for _, s := range b.states {
		byID[s.ID()] = s
	}
	name := b.name
	id := uuid.New()
	if name == "" {
		name = id.String()[:8]
	}
	return &StateMachine{
		id:             id,
		name:           name,
		states:         b.states,
		byID:           byID,
		transitions:    b.transitions,
		onEnter:        b.onEnter,
		onExit:         b.onExit,
		logTransitions: b.logTransitions,
	}
}

func (b *Builder) addTransition(from Matcher, to StateRef, trigger any, check checkFunc) {
	b.mustOpen()
	b.register(from.states...)
	b.register(to)
	b.transitions = append(b.transitions, transition{
		index:   len(b.transitions),
		from:    from,
		to:      to,
		trigger: trigger,
		check:   check,
	})
}

// Trans moves the entity from any state matched by from to the given next
// state data when trigger passes.
func Trans[O, E, N any](b *Builder, from Matcher, trigger Trigger[O, E], to *State[N], next N) {
	TransBuilderFrom(b, from, trigger, to, func(any, TransCtx[O]) N { return next })
}

// TransBuilder moves the entity from state from to state to when trigger
// passes, building the next state's data from the outgoing data and the
// trigger's payload.
func TransBuilder[P, O, E, N any](b *Builder, from *State[P], trigger Trigger[O, E], to *State[N], build func(prev P, t TransCtx[O]) N) {
	b.addTransition(Is(from), to, trigger, makeCheck(len(b.transitions), trigger, func(prev any, t TransCtx[O]) any {
		p, _ := prev.(P)
		return build(p, t)
	}))
}

// TransBuilderFrom is TransBuilder for a source matched by a Matcher. The
// outgoing state's data is passed untyped.
func TransBuilderFrom[O, E, N any](b *Builder, from Matcher, trigger Trigger[O, E], to *State[N], build func(prev any, t TransCtx[O]) N) {
	b.addTransition(from, to, trigger, makeCheck(len(b.transitions), trigger, func(prev any, t TransCtx[O]) any {
		return build(prev, t)
	}))
}
