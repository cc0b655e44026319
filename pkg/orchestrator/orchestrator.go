// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package orchestrator ties the requirement catalog, test case builders,
// issue renderer and tracker reconciliation into the targets the yatm
// command and the magefile expose.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mesh-intelligence/yatm/pkg/issues"
	"github.com/mesh-intelligence/yatm/pkg/logger"
)

// Orchestrator runs yatm targets against one Config.
type Orchestrator struct {
	cfg    Config
	source issues.IssueSource
	out    io.Writer
}

// New returns an Orchestrator for cfg with defaults applied.
func New(cfg Config) *Orchestrator {
	cfg.applyDefaults()
	return &Orchestrator{cfg: cfg, out: os.Stdout}
}

// NewFromFile loads path (DefaultConfigFile when empty), sets the log
// level it names, and returns an Orchestrator.
func NewFromFile(path string) (*Orchestrator, error) {
	if path == "" {
		path = DefaultConfigFile
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := logger.Level.SetByName(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("config file %s: log.level: %w", path, err)
	}
	return New(cfg), nil
}

// Config returns the resolved configuration.
func (o *Orchestrator) Config() Config { return o.cfg }

// WithIssueSource replaces the tracker the orchestrator lists remote
// issues from. Tests use it to avoid the gh CLI.
func (o *Orchestrator) WithIssueSource(src issues.IssueSource) *Orchestrator {
	o.source = src
	return o
}

// WithOutput redirects reports from stdout to w.
func (o *Orchestrator) WithOutput(w io.Writer) *Orchestrator {
	o.out = w
	return o
}

// issueSource returns the configured source, building a gh-backed one
// on first use.
func (o *Orchestrator) issueSource(ctx context.Context) (issues.IssueSource, string, error) {
	if o.source != nil {
		return o.source, o.cfg.Tracker.Repo, nil
	}
	repoRoot, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("resolving working directory: %w", err)
	}
	repo, err := issues.DetectRepo(ctx, repoRoot, o.cfg.Tracker.Repo)
	if err != nil {
		return nil, "", err
	}
	o.source = issues.NewGitHub(repo, o.cfg.Tracker.State, o.cfg.Tracker.Label)
	o.cfg.Tracker.Repo = repo
	return o.source, repo, nil
}

// logConfig prints the resolved configuration for debugging.
func (o *Orchestrator) logConfig(target string) {
	logf("%s config: catalog=%v builders=%v", target, o.cfg.Catalog.Globs, o.cfg.Builders.Globs)
	logf("%s config: tracker repo=%q state=%s label=%q", target, o.cfg.Tracker.Repo, o.cfg.Tracker.State, o.cfg.Tracker.Label)
	if o.cfg.History.Path != "" {
		logf("%s config: history=%s", target, o.cfg.History.Path)
	}
}

func (o *Orchestrator) printf(format string, args ...any) {
	fmt.Fprintf(o.out, format, args...)
}
