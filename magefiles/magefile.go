//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/mesh-intelligence/yatm/pkg/orchestrator"
)

// Default target when mage runs without arguments.
var Default = Validate

// Test groups the test targets.
type Test mg.Namespace

func newOrchestrator() (*orchestrator.Orchestrator, error) {
	return orchestrator.NewFromFile(orchestrator.DefaultConfigFile)
}

// Validate checks the requirement catalog and the test case builders.
func Validate() error {
	o, err := newOrchestrator()
	if err != nil {
		return err
	}
	return o.Validate()
}

// Generate writes every materialized test case under output.dir.
func Generate() error {
	o, err := newOrchestrator()
	if err != nil {
		return err
	}
	_, err = o.Generate()
	return err
}

// Status reconciles the test cases with the tracker's issues.
func Status(ctx context.Context) error {
	o, err := newOrchestrator()
	if err != nil {
		return err
	}
	_, err = o.Status(ctx)
	return err
}

// History prints the ten most recent status runs.
func History(ctx context.Context) error {
	o, err := newOrchestrator()
	if err != nil {
		return err
	}
	_, err = o.History(ctx, 10)
	return err
}

// Build compiles the yatm binary into bin/.
func Build() error {
	return sh.RunV("go", "build", "-o", "bin/yatm", "./cmd/yatm")
}

// Unit runs the unit and property tests.
func (Test) Unit() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs the unit tests under the race detector.
func (Test) Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// E2e builds the binary and runs the end-to-end tests.
func (Test) E2e() error {
	mg.Deps(Build)
	return sh.RunV("go", "test", "-tags", "e2e", "./tests/e2e/...")
}
