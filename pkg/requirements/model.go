// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package requirements

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Requirement is a named, described unit of testable behavior with
// ordered steps. Requirements are immutable once loaded and are keyed by
// Name within a catalog.
type Requirement struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Labels      []string `yaml:"labels,omitempty"` // nil when absent
	Links       []string `yaml:"links,omitempty"`
	Steps       []Step   `yaml:"steps"`
}

// HasLabel returns true if the requirement carries the given label.
func (r Requirement) HasLabel(label string) bool {
	for _, l := range r.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of r sharing no slices with it.
func (r Requirement) Clone() Requirement {
	out := r
	out.Labels = cloneSlice(r.Labels)
	out.Links = cloneSlice(r.Links)
	if r.Steps != nil {
		out.Steps = make([]Step, len(r.Steps))
		for i, s := range r.Steps {
			out.Steps[i] = Step{Action: cloneSlice(s.Action), Expect: cloneSlice(s.Expect)}
		}
	}
	return out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// Step holds the actions performed and the outcomes expected at one point
// of a requirement. Steps are sequential.
type Step struct {
	Action []Action `yaml:"action"`
	Expect []Expect `yaml:"expect"`
}

// Terminal is a numbered text fragment, typically one terminal line.
type Terminal struct {
	Number int    `yaml:"number"`
	Text   string `yaml:"text"`
}

// ActionKind discriminates the Action variants.
type ActionKind string

const (
	ActionStdIn    ActionKind = "stdin"
	ActionImage    ActionKind = "image"
	ActionDescribe ActionKind = "describe"
)

// Action is what a tester performs. Exactly one payload is meaningful
// per Kind: Terminal for ActionStdIn, Text for ActionImage (the image
// path) and ActionDescribe.
type Action struct {
	Kind     ActionKind
	Terminal Terminal
	Text     string
}

// StdIn returns an action typing t into the terminal.
func StdIn(t Terminal) Action { return Action{Kind: ActionStdIn, Terminal: t} }

// Image returns an action showing the image at path.
func Image(path string) Action { return Action{Kind: ActionImage, Text: path} }

// Describe returns a free-text action.
func Describe(text string) Action { return Action{Kind: ActionDescribe, Text: text} }

// UnmarshalYAML decodes a single-key mapping such as
// {stdin: {number: 1, text: ls}} or {describe: "open the app"}.
func (a *Action) UnmarshalYAML(value *yaml.Node) error {
	key, val, err := singleKey(value, "action")
	if err != nil {
		return err
	}
	switch ActionKind(key) {
	case ActionStdIn:
		var t Terminal
		if err := DecodeStrict(val, &t); err != nil {
			return fmt.Errorf("action %q: %w", key, err)
		}
		*a = StdIn(t)
	case ActionImage, ActionDescribe:
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: action %q expects a string", val.Line, key)
		}
		*a = Action{Kind: ActionKind(key), Text: val.Value}
	default:
		return fmt.Errorf("line %d: unknown action %q", value.Line, key)
	}
	return nil
}

// MarshalYAML encodes the action as a single-key mapping.
func (a Action) MarshalYAML() (any, error) {
	switch a.Kind {
	case ActionStdIn:
		return map[string]Terminal{string(a.Kind): a.Terminal}, nil
	case ActionImage, ActionDescribe:
		return map[string]string{string(a.Kind): a.Text}, nil
	default:
		return nil, fmt.Errorf("unknown action kind %q", a.Kind)
	}
}

// ExpectKind discriminates the Expect variants.
type ExpectKind string

const (
	ExpectStdOut ExpectKind = "stdout"
)

// Expect is an asserted outcome.
type Expect struct {
	Kind     ExpectKind
	Terminal Terminal
}

// StdOut returns an expectation that t appears on standard output.
func StdOut(t Terminal) Expect { return Expect{Kind: ExpectStdOut, Terminal: t} }

// UnmarshalYAML decodes a single-key mapping such as
// {stdout: {number: 1, text: hello}}.
func (e *Expect) UnmarshalYAML(value *yaml.Node) error {
	key, val, err := singleKey(value, "expect")
	if err != nil {
		return err
	}
	switch ExpectKind(key) {
	case ExpectStdOut:
		var t Terminal
		if err := DecodeStrict(val, &t); err != nil {
			return fmt.Errorf("expect %q: %w", key, err)
		}
		*e = StdOut(t)
	default:
		return fmt.Errorf("line %d: unknown expect %q", value.Line, key)
	}
	return nil
}

// MarshalYAML encodes the expectation as a single-key mapping.
func (e Expect) MarshalYAML() (any, error) {
	switch e.Kind {
	case ExpectStdOut:
		return map[string]Terminal{string(e.Kind): e.Terminal}, nil
	default:
		return nil, fmt.Errorf("unknown expect kind %q", e.Kind)
	}
}

// singleKey returns the key and value of a one-entry mapping node.
func singleKey(value *yaml.Node, what string) (string, *yaml.Node, error) {
	if value.Kind != yaml.MappingNode {
		return "", nil, fmt.Errorf("line %d: %s must be a mapping, got %v", value.Line, what, value.Kind)
	}
	if len(value.Content) != 2 {
		return "", nil, fmt.Errorf("line %d: %s must have exactly one key", value.Line, what)
	}
	return value.Content[0].Value, value.Content[1], nil
}

// DecodeStrict decodes node into out, rejecting unknown keys. Custom
// unmarshalers must use it in place of node.Decode, which does not carry
// the outer decoder's KnownFields setting. A null node leaves out as is.
func DecodeStrict(node *yaml.Node, out any) error {
	if node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return nil
	}
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	return nil
}
