// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package requirements

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// ErrDuplicateRequirementName reports that two requirements in one
// catalog share a name.
var ErrDuplicateRequirementName = errors.New("duplicate requirement name")

// DuplicateRequirementNameError names the clashing requirement and the
// files that declare it.
type DuplicateRequirementNameError struct {
	Name   string
	First  string // source of the first declaration
	Second string // source of the clashing declaration
}

func (e *DuplicateRequirementNameError) Error() string {
	return fmt.Sprintf("%s %q (declared in %s and %s)", ErrDuplicateRequirementName, e.Name, e.First, e.Second)
}

// Is lets errors.Is match ErrDuplicateRequirementName.
func (e *DuplicateRequirementNameError) Is(target error) bool {
	return target == ErrDuplicateRequirementName
}

// CatalogFile is the on-disk shape of a requirement catalog file.
type CatalogFile struct {
	Requirements []Requirement `yaml:"requirements"`
}

// Source pairs a requirement with the file it was loaded from.
type Source struct {
	Path        string
	Requirement Requirement
}

// LoadCatalog expands each doublestar pattern, loads every matched file
// in sorted order and returns the requirements in file order. A pattern
// matching no file is an error, and so is a duplicate name.
func LoadCatalog(patterns []string) ([]Requirement, error) {
	sources, err := LoadSources(patterns)
	if err != nil {
		return nil, err
	}
	if err := CheckUnique(sources); err != nil {
		return nil, err
	}
	reqs := make([]Requirement, 0, len(sources))
	for _, s := range sources {
		reqs = append(reqs, s.Requirement)
	}
	return reqs, nil
}

// LoadSources loads the catalog without checking name uniqueness.
func LoadSources(patterns []string) ([]Source, error) {
	paths, err := ExpandGlobs(patterns)
	if err != nil {
		return nil, err
	}
	var sources []Source
	for _, path := range paths {
		file, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		for _, r := range file.Requirements {
			sources = append(sources, Source{Path: path, Requirement: r})
		}
	}
	return sources, nil
}

// ExpandGlobs resolves doublestar patterns into a sorted, de-duplicated
// list of file paths.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", pattern)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadFile reads one catalog file. Unknown keys and nameless
// requirements are errors; an empty file is an empty catalog.
func LoadFile(path string) (CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CatalogFile{}, fmt.Errorf("reading catalog file: %w", err)
	}
	var file CatalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return CatalogFile{}, fmt.Errorf("parsing catalog file %s: %w", path, err)
	}
	for i, r := range file.Requirements {
		if r.Name == "" {
			return CatalogFile{}, fmt.Errorf("%s: requirement %d has no name", path, i)
		}
	}
	return file, nil
}

// CheckUnique returns a *DuplicateRequirementNameError for the first
// name declared twice.
func CheckUnique(sources []Source) error {
	first := make(map[string]string, len(sources))
	for _, s := range sources {
		if prev, ok := first[s.Requirement.Name]; ok {
			return &DuplicateRequirementNameError{Name: s.Requirement.Name, First: prev, Second: s.Path}
		}
		first[s.Requirement.Name] = s.Path
	}
	return nil
}
