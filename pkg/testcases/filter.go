// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package testcases

import (
	"fmt"

	"github.com/mesh-intelligence/yatm/pkg/requirements"
	"gopkg.in/yaml.v3"
)

// Filter is a label/name predicate with optional negation. A nil slice
// means the predicate is absent; an empty non-nil slice is present and
// empty.
type Filter struct {
	AllLabels []string `yaml:"all_labels,omitempty"`
	AnyNames  []string `yaml:"any_names,omitempty"`
	Negate    bool     `yaml:"negate,omitempty"`
}

// Matches reports whether r has every label in AllLabels and its name is
// one of AnyNames, skipping absent predicates, then applies Negate.
func (f Filter) Matches(r requirements.Requirement) bool {
	return f.base(r) != f.Negate
}

func (f Filter) base(r requirements.Requirement) bool {
	if f.AllLabels != nil {
		for _, label := range f.AllLabels {
			if !r.HasLabel(label) {
				return false
			}
		}
	}
	if f.AnyNames != nil {
		found := false
		for _, name := range f.AnyNames {
			if name == r.Name {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// SetStepKind discriminates the SetStep variants.
type SetStepKind string

const (
	StepInclude SetStepKind = "include"
	StepExclude SetStepKind = "exclude"
)

// SetStep is one operation of a builder's selection program.
type SetStep struct {
	Kind   SetStepKind
	Filter Filter
}

// Include returns a step adding every catalog requirement matching f.
func Include(f Filter) SetStep { return SetStep{Kind: StepInclude, Filter: f} }

// Exclude returns a step removing every selected requirement matching f.
func Exclude(f Filter) SetStep { return SetStep{Kind: StepExclude, Filter: f} }

// UnmarshalYAML decodes {include: <filter>} or {exclude: <filter>}. A
// null filter ({include: }) is the match-everything filter.
func (s *SetStep) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return fmt.Errorf("line %d: set step must be a single-key mapping", value.Line)
	}
	key, val := value.Content[0].Value, value.Content[1]
	kind := SetStepKind(key)
	switch kind {
	case StepInclude, StepExclude:
	default:
		return fmt.Errorf("line %d: unknown set step %q", value.Line, key)
	}
	var f Filter
	if err := requirements.DecodeStrict(val, &f); err != nil {
		return fmt.Errorf("set step %q: %w", key, err)
	}
	*s = SetStep{Kind: kind, Filter: f}
	return nil
}

// MarshalYAML encodes the step as a single-key mapping.
func (s SetStep) MarshalYAML() (any, error) {
	switch s.Kind {
	case StepInclude, StepExclude:
		return map[string]Filter{string(s.Kind): s.Filter}, nil
	default:
		return nil, fmt.Errorf("unknown set step kind %q", s.Kind)
	}
}
