// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the catalog and builders for errors",
		Long: `Check every catalog file against the catalog schema, decode catalog and
builder files strictly, and report duplicate requirement names and
builders that name unknown requirements.

Builders that yield no test cases are listed as notices and do not fail
the check.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := loadOrchestrator(cmd)
			if err != nil {
				return err
			}
			return o.Validate()
		},
	}
}

func materializeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "materialize",
		Short: "List every test case the builders produce",
		Long: `Expand each builder's selection over its permutation variables and list
the resulting test cases.

Examples:
  # Table of test case ids
  yatm materialize

  # Full test cases as YAML
  yatm materialize -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := loadOrchestrator(cmd)
			if err != nil {
				return err
			}
			cases, err := o.Materialize()
			if err != nil {
				return err
			}
			return outputResult(cmd.OutOrStdout(), newMaterializeResult(cases), outputFmt)
		},
	}
}

func generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Write every test case as a markdown file",
		Long: `Render every test case with the issue template and write it under
output.dir, one directory per builder. Builder directories are recreated
on every run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := loadOrchestrator(cmd)
			if err != nil {
				return err
			}
			_, err = o.Generate()
			return err
		},
	}
}

func statusCmd() *cobra.Command {
	var failOnDrift bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Compare the test cases with the tracker's issues",
		Long: `Render every test case as an issue, list the tracker's issues, and
classify each test case as missing, matched, or matched with differences.

Examples:
  # Report against the configured repository
  yatm status

  # Fail in CI when the tracker is out of date
  yatm status --fail-on-drift -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := loadOrchestrator(cmd)
			if err != nil {
				return err
			}
			if outputFmt != "table" {
				o.WithOutput(io.Discard)
			}
			result, err := o.Status(cmd.Context())
			if err != nil {
				return err
			}
			if outputFmt != "table" {
				if err := outputResult(cmd.OutOrStdout(), newStatusResult(result), outputFmt); err != nil {
					return err
				}
			}
			if failOnDrift && result.Run.Missing+result.Run.MatchedWithDiff > 0 {
				return fmt.Errorf("%d missing and %d changed test case(s)", result.Run.Missing, result.Run.MatchedWithDiff)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&failOnDrift, "fail-on-drift", false, "Exit non-zero when any test case is missing or changed")
	return cmd
}

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded status runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := loadOrchestrator(cmd)
			if err != nil {
				return err
			}
			if outputFmt != "table" {
				o.WithOutput(io.Discard)
			}
			runs, err := o.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if outputFmt != "table" {
				return outputResult(cmd.OutOrStdout(), newHistoryResult(runs), outputFmt)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	return cmd
}
