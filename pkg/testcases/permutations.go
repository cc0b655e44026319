// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package testcases

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/yatm/pkg/requirements"
	"gopkg.in/yaml.v3"
)

// Variable is a named permutation axis and its candidate values.
type Variable struct {
	Name   string
	Values []string
}

// Permutations holds the builder's variables in declaration order. In
// YAML it is a mapping from variable name to a list of values; the
// mapping order is kept.
type Permutations []Variable

// Assignment maps each variable name to its chosen value.
type Assignment map[string]string

// Expand returns the cross product of all variables. Variables are
// iterated in declaration order with the last one varying fastest. No
// variables yield one empty assignment; any variable with no values
// yields none.
func Expand(perms Permutations) []Assignment {
	out := []Assignment{{}}
	for _, v := range perms {
		next := make([]Assignment, 0, len(out)*len(v.Values))
		for _, a := range out {
			for _, value := range v.Values {
				b := make(Assignment, len(a)+1)
				for k, x := range a {
					b[k] = x
				}
				b[v.Name] = value
				next = append(next, b)
			}
		}
		out = next
	}
	return out
}

// Count returns len(Expand(perms)) without building the assignments.
func (p Permutations) Count() int {
	n := 1
	for _, v := range p {
		n *= len(v.Values)
	}
	return n
}

// Names returns the variable names in declaration order.
func (p Permutations) Names() []string {
	names := make([]string, 0, len(p))
	for _, v := range p {
		names = append(names, v.Name)
	}
	return names
}

// Format renders a in declaration order as "k=v,k=v".
func (p Permutations) Format(a Assignment, sep string) string {
	parts := make([]string, 0, len(p))
	for _, v := range p {
		if value, ok := a[v.Name]; ok {
			parts = append(parts, v.Name+"="+value)
		}
	}
	return strings.Join(parts, sep)
}

func (p Permutations) clone() Permutations {
	if p == nil {
		return nil
	}
	out := make(Permutations, len(p))
	for i, v := range p {
		out[i] = Variable{Name: v.Name, Values: cloneStrings(v.Values)}
	}
	return out
}

// UnmarshalYAML decodes a mapping of variable name to value list,
// keeping declaration order.
func (p *Permutations) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: permutations must be a mapping, got %v", value.Line, value.Kind)
	}
	perms := make(Permutations, 0, len(value.Content)/2)
	seen := make(map[string]bool, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		if seen[name] {
			return fmt.Errorf("line %d: duplicate permutation variable %q", value.Content[i].Line, name)
		}
		seen[name] = true
		var values []string
		if err := requirements.DecodeStrict(value.Content[i+1], &values); err != nil {
			return fmt.Errorf("permutation variable %q: %w", name, err)
		}
		perms = append(perms, Variable{Name: name, Values: values})
	}
	*p = perms
	return nil
}

// MarshalYAML encodes the variables as an ordered mapping.
func (p Permutations) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, v := range p {
		var values yaml.Node
		if err := values.Encode(v.Values); err != nil {
			return nil, fmt.Errorf("permutation variable %q: %w", v.Name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Name},
			&values,
		)
	}
	return node, nil
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
