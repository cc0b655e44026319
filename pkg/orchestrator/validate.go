// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package orchestrator

import (
	"fmt"
	"io"

	"github.com/mesh-intelligence/yatm/pkg/requirements"
	"github.com/mesh-intelligence/yatm/pkg/testcases"
)

// ValidateResult holds the findings of a catalog and builder check.
type ValidateResult struct {
	SchemaErrors   []string // catalog files not matching the catalog schema
	LoadErrors     []string // files that could not be read or strictly decoded
	DuplicateNames []string // requirement names declared more than once
	UnknownNames   []string // any_names entries naming no requirement
	RenderErrors   []string // requirements the issue template cannot render
	EmptyDomains   []string // builders with a variable that has no values (notice)
	EmptySelection []string // builders selecting no requirement (notice)

	Requirements int
	Builders     int
	TestCases    int
}

// Validate checks the catalog and every builder: schema conformance,
// strict decoding, unique requirement names, any_names entries that
// refer to requirements the catalog does not declare, and that the issue
// template renders every requirement. Builders
// that yield no test cases are reported as notices only. It prints a
// report and returns an error when problems are found.
func (o *Orchestrator) Validate() error {
	o.logConfig("validate")
	r := o.validate()
	return r.printReport(o.out)
}

func (o *Orchestrator) validate() ValidateResult {
	var r ValidateResult

	paths, err := requirements.ExpandGlobs(o.cfg.Catalog.Globs)
	if err != nil {
		r.LoadErrors = append(r.LoadErrors, err.Error())
	}
	for _, path := range paths {
		r.SchemaErrors = append(r.SchemaErrors, requirements.ValidateFile(path)...)
	}

	var catalog []requirements.Requirement
	var sources []requirements.Source
	for _, path := range paths {
		f, err := requirements.LoadFile(path)
		if err != nil {
			r.LoadErrors = append(r.LoadErrors, err.Error())
			continue
		}
		for _, req := range f.Requirements {
			sources = append(sources, requirements.Source{Path: path, Requirement: req})
		}
	}
	first := make(map[string]string, len(sources))
	for _, s := range sources {
		if prev, ok := first[s.Requirement.Name]; ok {
			r.DuplicateNames = append(r.DuplicateNames,
				fmt.Sprintf("%s (declared in %s and %s)", s.Requirement.Name, prev, s.Path))
			continue
		}
		first[s.Requirement.Name] = s.Path
		catalog = append(catalog, s.Requirement)
	}
	r.Requirements = len(catalog)
	logf("validate: %d requirement(s) in %d file(s)", len(catalog), len(paths))
	r.RenderErrors = o.renderCheck(catalog)

	builders, err := testcases.LoadBuilders(o.cfg.Builders.Globs)
	if err != nil {
		r.LoadErrors = append(r.LoadErrors, err.Error())
		return r
	}
	r.Builders = len(builders)
	for _, b := range builders {
		for _, step := range b.Set {
			for _, name := range step.Filter.AnyNames {
				if _, ok := first[name]; !ok {
					r.UnknownNames = append(r.UnknownNames,
						fmt.Sprintf("builder %s: %s step names unknown requirement %q", b.Name, step.Kind, name))
				}
			}
		}
		if b.Permutations.Count() == 0 {
			r.EmptyDomains = append(r.EmptyDomains, b.Name)
			continue
		}
		cases := testcases.Build(catalog, b)
		if len(cases) == 0 {
			r.EmptySelection = append(r.EmptySelection, b.Name)
		}
		r.TestCases += len(cases)
	}
	return r
}

// renderCheck renders each requirement outside any builder and returns
// one entry per failure.
func (o *Orchestrator) renderCheck(catalog []requirements.Requirement) []string {
	rd, err := o.renderer()
	if err != nil {
		return []string{err.Error()}
	}
	var errs []string
	for _, req := range catalog {
		if _, err := rd.RenderRequirement(req); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", req.Name, err))
		}
	}
	return errs
}

// printSection prints a labeled list if items is non-empty, returning true.
func printSection(w io.Writer, marker, label string, items []string) bool {
	if len(items) == 0 {
		return false
	}
	fmt.Fprintf(w, "\n%s  %s:\n", marker, label)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
	return true
}

// printReport formats the validation results. Returns nil when all
// checks pass, or an error summarising that problems were found.
// Notices never fail the check.
func (r ValidateResult) printReport(w io.Writer) error {
	hasIssues := false
	hasIssues = printSection(w, "⚠️", "Catalog schema errors", r.SchemaErrors) || hasIssues
	hasIssues = printSection(w, "⚠️", "Load errors", r.LoadErrors) || hasIssues
	hasIssues = printSection(w, "⚠️", "Duplicate requirement names", r.DuplicateNames) || hasIssues
	hasIssues = printSection(w, "⚠️", "Unknown requirement names in builders", r.UnknownNames) || hasIssues
	hasIssues = printSection(w, "⚠️", "Issue template errors", r.RenderErrors) || hasIssues
	printSection(w, "ℹ️", "Builders with an empty permutation domain (no test cases)", r.EmptyDomains)
	printSection(w, "ℹ️", "Builders selecting no requirements", r.EmptySelection)

	if !hasIssues {
		fmt.Fprintf(w, "\n✅ All checks passed\n")
		fmt.Fprintf(w, "   - %d requirements\n", r.Requirements)
		fmt.Fprintf(w, "   - %d builders\n", r.Builders)
		fmt.Fprintf(w, "   - %d test cases\n", r.TestCases)
		return nil
	}
	return fmt.Errorf("found validation problems (see above)")
}
