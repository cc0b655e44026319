// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package issues

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/mesh-intelligence/yatm/pkg/requirements"
	"github.com/mesh-intelligence/yatm/pkg/testcases"
)

//go:embed templates/issue.md.tmpl
var defaultIssueTemplate string

// Identity label prefixes. Together with the permutation labels they
// make a test case's label set unique on the tracker.
const (
	LabelRequirementPrefix = "yatm-req:"
	LabelBuilderPrefix     = "yatm-builder:"
)

// Renderer turns test cases into local issues.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer compiles text as the issue body template. An empty text
// selects the embedded default.
func NewRenderer(text string) (*Renderer, error) {
	if text == "" {
		text = defaultIssueTemplate
	}
	tmpl, err := template.New("issue").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing issue template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// variableValue is one permutation variable as seen by the template.
type variableValue struct {
	Name  string
	Value string
}

// issueData is the template data for one test case.
type issueData struct {
	ID          string
	Requirement requirements.Requirement
	Builder     testcases.TestCasesBuilder
	Variables   []variableValue
}

// Render projects tc into a LocalIssue: labels, title, and a body made of
// YAML front-matter followed by the rendered template.
func (r *Renderer) Render(tc testcases.TestCase) (LocalIssue, error) {
	vars := variablesOf(tc)

	var sb strings.Builder
	fm := FrontMatter{
		Requirement: tc.Requirement.Name,
		Builder:     tc.BuilderUsed.Name,
		Version:     tc.BuilderUsed.Version,
		Permutation: tc.SelectedPermutation,
	}
	head, err := FormatFrontMatter(fm)
	if err != nil {
		return LocalIssue{}, err
	}
	sb.WriteString(head)
	data := issueData{ID: tc.ID(), Requirement: tc.Requirement, Builder: tc.BuilderUsed, Variables: vars}
	if err := r.tmpl.Execute(&sb, data); err != nil {
		return LocalIssue{}, fmt.Errorf("rendering issue for %s: %w", tc.ID(), err)
	}

	return LocalIssue{
		Labels:   labelsOf(tc, vars),
		Title:    titleOf(tc.Requirement.Name, vars),
		TextBody: sb.String(),
	}, nil
}

// RenderRequirement projects a bare requirement, outside any builder.
func (r *Renderer) RenderRequirement(req requirements.Requirement) (LocalIssue, error) {
	return r.Render(testcases.TestCase{Requirement: req})
}

// RenderAll renders every case, stopping at the first failure.
func (r *Renderer) RenderAll(cases []testcases.TestCase) ([]LocalIssue, error) {
	out := make([]LocalIssue, 0, len(cases))
	for _, tc := range cases {
		li, err := r.Render(tc)
		if err != nil {
			return nil, err
		}
		out = append(out, li)
	}
	return out, nil
}

// variablesOf lists the assignment in the builder's declaration order.
func variablesOf(tc testcases.TestCase) []variableValue {
	var vars []variableValue
	for _, v := range tc.BuilderUsed.Permutations {
		if value, ok := tc.SelectedPermutation[v.Name]; ok {
			vars = append(vars, variableValue{Name: v.Name, Value: value})
		}
	}
	return vars
}

func labelsOf(tc testcases.TestCase, vars []variableValue) []string {
	var labels []string
	seen := make(map[string]bool)
	add := func(l string) {
		if l != "" && !seen[l] {
			seen[l] = true
			labels = append(labels, l)
		}
	}
	for _, l := range tc.Requirement.Labels {
		add(l)
	}
	for _, l := range tc.BuilderUsed.Labels {
		add(l)
	}
	add(LabelRequirementPrefix + tc.Requirement.Name)
	if tc.BuilderUsed.Name != "" {
		add(LabelBuilderPrefix + tc.BuilderUsed.Name)
	}
	for _, v := range vars {
		add(v.Name + ":" + v.Value)
	}
	return labels
}

func titleOf(name string, vars []variableValue) string {
	if len(vars) == 0 {
		return name
	}
	parts := make([]string, 0, len(vars))
	for _, v := range vars {
		parts = append(parts, v.Name+"="+v.Value)
	}
	return name + " (" + strings.Join(parts, ", ") + ")"
}
