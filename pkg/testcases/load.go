// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package testcases

import (
	"bytes"
	"fmt"
	"os"

	"github.com/mesh-intelligence/yatm/pkg/requirements"
	"gopkg.in/yaml.v3"
)

// LoadBuilder reads a single builder file with strict field checking.
func LoadBuilder(path string) (TestCasesBuilder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TestCasesBuilder{}, fmt.Errorf("reading builder file: %w", err)
	}
	b, err := ParseBuilder(data)
	if err != nil {
		return TestCasesBuilder{}, fmt.Errorf("parsing builder file %s: %w", path, err)
	}
	return b, nil
}

// ParseBuilder decodes builder YAML. Unknown keys are rejected and the
// builder must be named.
func ParseBuilder(data []byte) (TestCasesBuilder, error) {
	var b TestCasesBuilder
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return TestCasesBuilder{}, err
	}
	if b.Name == "" {
		return TestCasesBuilder{}, fmt.Errorf("builder has no name")
	}
	return b, nil
}

// LoadBuilders expands doublestar patterns and loads every builder in
// sorted path order. Builder names must be unique.
func LoadBuilders(patterns []string) ([]TestCasesBuilder, error) {
	paths, err := requirements.ExpandGlobs(patterns)
	if err != nil {
		return nil, err
	}
	builders := make([]TestCasesBuilder, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		b, err := LoadBuilder(path)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[b.Name]; ok {
			return nil, fmt.Errorf("duplicate builder name %q (declared in %s and %s)", b.Name, prev, path)
		}
		seen[b.Name] = path
		builders = append(builders, b)
	}
	return builders, nil
}
