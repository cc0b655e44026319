// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package issues

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FrontMatter is the YAML block embedded at the top of every rendered
// issue body. It ties a tracker issue back to the test case it was
// rendered from.
type FrontMatter struct {
	Requirement string            `yaml:"yatm_requirement"`
	Builder     string            `yaml:"yatm_builder,omitempty"`
	Version     int               `yaml:"yatm_version,omitempty"`
	Permutation map[string]string `yaml:"yatm_permutation,omitempty"`
}

// FormatFrontMatter formats the front-matter block for an issue body.
// Map keys are emitted sorted, so the output is stable.
func FormatFrontMatter(fm FrontMatter) (string, error) {
	out, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("formatting front-matter: %w", err)
	}
	return "---\n" + string(out) + "---\n\n", nil
}

// ParseFrontMatter splits an issue body into its front-matter and
// description. CRLF line endings are read as LF. Returns zero-value
// front-matter and the whole body when the block is absent or malformed.
func ParseFrontMatter(body string) (FrontMatter, string) {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	if !strings.HasPrefix(body, "---\n") {
		return FrontMatter{}, body
	}
	rest := body[4:]
	idx := strings.Index(rest, "\n---\n")
	if idx < 0 {
		return FrontMatter{}, body
	}
	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(rest[:idx]), &fm); err != nil {
		return FrontMatter{}, body
	}
	description := strings.TrimPrefix(rest[idx+5:], "\n")
	return fm, description
}

// IsTracked reports whether body carries yatm front-matter.
func IsTracked(body string) bool {
	fm, _ := ParseFrontMatter(body)
	return fm.Requirement != ""
}
