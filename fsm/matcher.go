package fsm

import "strings"

type matchOp uint8

const (
	matchAny matchOp = iota
	matchIs
	matchOneOf
	matchNoneOf
)

// Matcher selects the current states a transition or hook applies to. The
// zero Matcher matches every state.
type Matcher struct {
	op     matchOp
	states []StateRef
}

// Any matches every state.
func Any() Matcher {
	return Matcher{op: matchAny}
}

// Is matches exactly one state.
func Is(s StateRef) Matcher {
	return Matcher{op: matchIs, states: []StateRef{s}}
}

// OneOf matches any of the listed states.
func OneOf(states ...StateRef) Matcher {
	return Matcher{op: matchOneOf, states: append([]StateRef(nil), states...)}
}

// NoneOf matches every state except the listed ones.
func NoneOf(states ...StateRef) Matcher {
	return Matcher{op: matchNoneOf, states: append([]StateRef(nil), states...)}
}

// Matches reports whether the matcher accepts the state id.
func (m Matcher) Matches(id StateID) bool {
	switch m.op {
	case matchAny:
		return true
	case matchIs, matchOneOf:
		return m.contains(id)
	case matchNoneOf:
		return !m.contains(id)
	default:
		return false
	}
}

func (m Matcher) contains(id StateID) bool {
	for _, s := range m.states {
		if s.ID() == id {
			return true
		}
	}
	return false
}

// States returns the states named by the matcher.
func (m Matcher) States() []StateRef {
	return append([]StateRef(nil), m.states...)
}

func (m Matcher) String() string {
	names := make([]string, 0, len(m.states))
	for _, s := range m.states {
		names = append(names, s.Name())
	}
	switch m.op {
	case matchIs:
		return names[0]
	case matchOneOf:
		return "one_of(" + strings.Join(names, ",") + ")"
	case matchNoneOf:
		return "none_of(" + strings.Join(names, ",") + ")"
	default:
		return "any"
	}
}
