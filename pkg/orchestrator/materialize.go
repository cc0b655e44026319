// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package orchestrator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/yatm/pkg/issues"
	"github.com/mesh-intelligence/yatm/pkg/logger"
	"github.com/mesh-intelligence/yatm/pkg/requirements"
	"github.com/mesh-intelligence/yatm/pkg/testcases"
)

// Materialize loads the catalog and every builder and returns the test
// cases of all builders, builder by builder in load order.
func (o *Orchestrator) Materialize() ([]testcases.TestCase, error) {
	_, cases, err := o.materialize()
	return cases, err
}

func (o *Orchestrator) materialize() ([]testcases.TestCasesBuilder, []testcases.TestCase, error) {
	o.logConfig("materialize")
	catalog, err := requirements.LoadCatalog(o.cfg.Catalog.Globs)
	if err != nil {
		return nil, nil, fmt.Errorf("loading catalog: %w", err)
	}
	builders, err := testcases.LoadBuilders(o.cfg.Builders.Globs)
	if err != nil {
		return nil, nil, fmt.Errorf("loading builders: %w", err)
	}

	var cases []testcases.TestCase
	for _, b := range builders {
		built := testcases.Build(catalog, b)
		logf("materialize: builder %s: %d case(s) from %d permutation(s) of %v",
			b.Name, len(built), b.Permutations.Count(), b.Permutations.Names())
		cases = append(cases, built...)
	}
	return builders, cases, nil
}

// renderer returns the configured issue renderer.
func (o *Orchestrator) renderer() (*issues.Renderer, error) {
	return issues.NewRenderer(o.cfg.Render.Template)
}

// Generate materializes every test case and writes its rendered issue
// body to <output.dir>/<builder>/<file>.md. The directory of every loaded
// builder is recreated, including builders that now yield no cases.
// Directories of removed builders are deleted when they hold only
// generated case files. Returns the paths written.
func (o *Orchestrator) Generate() ([]string, error) {
	builders, cases, err := o.materialize()
	if err != nil {
		return nil, err
	}
	r, err := o.renderer()
	if err != nil {
		return nil, err
	}

	current := make(map[string]bool, len(builders))
	for _, b := range builders {
		dir := filepath.Join(o.cfg.Output.Dir, sanitizeFileName(b.Name))
		if err := os.RemoveAll(dir); err != nil {
			return nil, fmt.Errorf("cleaning %s: %w", dir, err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
		current[filepath.Base(dir)] = true
	}
	if err := removeStaleBuilderDirs(o.cfg.Output.Dir, current); err != nil {
		return nil, err
	}

	written := make([]string, 0, len(cases))
	for _, tc := range cases {
		li, err := r.Render(tc)
		if err != nil {
			return nil, err
		}
		dir := filepath.Join(o.cfg.Output.Dir, sanitizeFileName(tc.BuilderUsed.Name))
		path := filepath.Join(dir, caseFileName(tc))
		if err := os.WriteFile(path, []byte(li.TextBody), 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}

	o.printf("Generated %d test case(s) under %s\n", len(written), o.cfg.Output.Dir)
	return written, nil
}

// removeStaleBuilderDirs deletes subdirectories of root not named in
// current whose entries are all generated case files. Anything else is
// left in place.
func removeStaleBuilderDirs(root string, current map[string]bool) error {
	entries, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", root, err)
	}
	for _, e := range entries {
		if !e.IsDir() || current[e.Name()] {
			continue
		}
		dir := filepath.Join(root, e.Name())
		generated, err := onlyGeneratedCases(dir)
		if err != nil {
			return err
		}
		if !generated {
			logger.Warnf("generate: keeping %s, it holds files yatm did not write", dir)
			continue
		}
		logger.Infof("generate: removing stale builder directory %s", dir)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("removing %s: %w", dir, err)
		}
	}
	return nil
}

// onlyGeneratedCases reports whether every entry of dir is a .md file
// carrying yatm front-matter.
func onlyGeneratedCases(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			return false, nil
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return false, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		if !issues.IsTracked(string(data)) {
			return false, nil
		}
	}
	return true, nil
}

// caseFileName is the requirement name followed by the assigned values
// in declaration order, e.g. install--linux--bash.md.
func caseFileName(tc testcases.TestCase) string {
	parts := []string{tc.Requirement.Name}
	for _, v := range tc.BuilderUsed.Permutations {
		parts = append(parts, tc.SelectedPermutation[v.Name])
	}
	return sanitizeFileName(strings.Join(parts, "--")) + ".md"
}

// sanitizeFileName replaces characters outside [A-Za-z0-9._-] with '-'.
func sanitizeFileName(s string) string {
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			return r
		}
		return '-'
	}, s)
}
