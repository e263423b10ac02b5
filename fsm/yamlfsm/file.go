// Package yamlfsm compiles state machines authored in YAML.
//
//	name: guard
//	initial: idle
//	log_transitions: true
//	transitions:
//	  - from: idle
//	    to: alert
//	    when: {trigger: event, arg: noise}
//	  - from: "*"
//	    to: idle
//	    when:
//	      not: {trigger: near, arg: 12}
//	on_enter:
//	  - state: alert
//	    hook: emit
//	    arg: alarm
//
// Trigger, hook and state names resolve through a Registry.
package yamlfsm

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidFile     = errors.New("yamlfsm: invalid machine file")
	ErrUnknownTrigger  = errors.New("yamlfsm: unknown trigger")
	ErrUnknownHook     = errors.New("yamlfsm: unknown hook")
	ErrUnknownState    = errors.New("yamlfsm: unknown state")
	ErrInvalidArgument = errors.New("yamlfsm: invalid argument")
)

// File is one machine definition.
type File struct {
	Name           string    `yaml:"name"`
	Initial        string    `yaml:"initial"`
	LogTransitions bool      `yaml:"log_transitions"`
	States         []string  `yaml:"states"`
	Transitions    []Edge    `yaml:"transitions"`
	OnEnter        []HookRef `yaml:"on_enter"`
	OnExit         []HookRef `yaml:"on_exit"`
}

// Edge is one transition. Transitions are prioritised in file order.
type Edge struct {
	From Source    `yaml:"from"`
	To   string    `yaml:"to"`
	When Condition `yaml:"when"`
}

// Condition is a trigger tree. Exactly one of its fields is set.
type Condition struct {
	Trigger string      `yaml:"trigger"`
	Arg     yaml.Node   `yaml:"arg"`
	All     []Condition `yaml:"all"`
	Any     []Condition `yaml:"any"`
	Not     *Condition  `yaml:"not"`
	Script  string      `yaml:"script"`
}

// HookRef attaches a registered hook to entering or leaving State. Other
// limits it to transitions from (on_enter) or to (on_exit) a set of states.
type HookRef struct {
	State Source    `yaml:"state"`
	Other Source    `yaml:"other"`
	Hook  string    `yaml:"hook"`
	Arg   yaml.Node `yaml:"arg"`
}

// Source selects states. In YAML it is a state name, "*" for every state, a
// list of names, or a mapping with one_of or none_of.
type Source struct {
	Any    bool
	OneOf  []string
	NoneOf []string
}

func (s *Source) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Value == "*" || n.Value == "" {
			*s = Source{Any: true}
			return nil
		}
		*s = Source{OneOf: []string{n.Value}}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := n.Decode(&names); err != nil {
			return err
		}
		*s = Source{OneOf: names}
		return nil
	case yaml.MappingNode:
		var m struct {
			OneOf  []string `yaml:"one_of"`
			NoneOf []string `yaml:"none_of"`
		}
		if err := n.Decode(&m); err != nil {
			return err
		}
		if (len(m.OneOf) > 0) == (len(m.NoneOf) > 0) {
			return fmt.Errorf("%w: line %d: state selector needs exactly one of one_of, none_of", ErrInvalidFile, n.Line)
		}
		*s = Source{OneOf: m.OneOf, NoneOf: m.NoneOf}
		return nil
	default:
		return fmt.Errorf("%w: line %d: invalid state selector", ErrInvalidFile, n.Line)
	}
}

func (s Source) unset() bool {
	return !s.Any && len(s.OneOf) == 0 && len(s.NoneOf) == 0
}

// Parse decodes a machine file. Unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	return &f, nil
}

// Load reads and decodes a machine file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("yamlfsm: load %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("yamlfsm: load %s: %w", path, err)
	}
	return f, nil
}
