// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package testcases

import (
	"github.com/mesh-intelligence/yatm/pkg/requirements"
)

// TestCasesBuilder declares which requirements to select and which
// permutation variables to expand them over.
type TestCasesBuilder struct {
	Name         string       `yaml:"name"`
	Description  string       `yaml:"description"`
	Labels       []string     `yaml:"labels,omitempty"`
	Set          []SetStep    `yaml:"set"`
	Permutations Permutations `yaml:"permutations,omitempty"`
	Version      int          `yaml:"version"`
}

// Clone returns a deep copy sharing no slices with b.
func (b TestCasesBuilder) Clone() TestCasesBuilder {
	out := b
	out.Labels = cloneStrings(b.Labels)
	if b.Set != nil {
		out.Set = make([]SetStep, len(b.Set))
		for i, s := range b.Set {
			out.Set[i] = SetStep{
				Kind: s.Kind,
				Filter: Filter{
					AllLabels: cloneStrings(s.Filter.AllLabels),
					AnyNames:  cloneStrings(s.Filter.AnyNames),
					Negate:    s.Filter.Negate,
				},
			}
		}
	}
	out.Permutations = b.Permutations.clone()
	return out
}

// TestCase is one requirement materialized under one permutation
// assignment.
type TestCase struct {
	Requirement         requirements.Requirement `yaml:"requirement"`
	BuilderUsed         TestCasesBuilder         `yaml:"builder_used"`
	SelectedPermutation Assignment               `yaml:"selected_permutation"`
}

// ID returns a reproducible identifier: builder/requirement, followed by
// [k=v,...] in declaration order when the builder declares variables.
func (tc TestCase) ID() string {
	id := tc.BuilderUsed.Name + "/" + tc.Requirement.Name
	if len(tc.BuilderUsed.Permutations) > 0 {
		id += "[" + tc.BuilderUsed.Permutations.Format(tc.SelectedPermutation, ",") + "]"
	}
	return id
}

// Build materializes one TestCase per selected requirement and
// permutation assignment, requirement-major. Every case carries its own
// copy of the requirement and the builder, so later edits to the catalog
// or to b do not leak into them.
func Build(catalog []requirements.Requirement, b TestCasesBuilder) []TestCase {
	selected := Select(catalog, b.Set)
	assignments := Expand(b.Permutations)

	out := make([]TestCase, 0, len(selected)*len(assignments))
	for _, r := range selected {
		for _, a := range assignments {
			out = append(out, TestCase{
				Requirement:         r.Clone(),
				BuilderUsed:         b.Clone(),
				SelectedPermutation: a,
			})
		}
	}
	return out
}
