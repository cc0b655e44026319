// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// yatm materializes a requirement catalog into test cases and reconciles
// them with the issues of a GitHub repository.
//
// Usage:
//
//	yatm validate
//	yatm materialize -o json
//	yatm generate
//	yatm status --fail-on-drift
//	yatm history --limit 10
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mesh-intelligence/yatm/pkg/logger"
	"github.com/mesh-intelligence/yatm/pkg/orchestrator"
	"github.com/spf13/cobra"
)

var (
	version    = "dev"
	configPath string
	logLevel   string
	outputFmt  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yatm",
		Short: "Materialize requirements into test cases and track them as issues",
		Long: `yatm reads a catalog of requirements and a set of test case builders,
expands every selected requirement over the builder's permutation
variables, and reconciles the resulting test cases with GitHub issues.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", orchestrator.DefaultConfigFile, "Path to the configuration file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override: debug, info, warn, error")
	cmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format: table, json, yaml")

	cmd.AddCommand(validateCmd())
	cmd.AddCommand(materializeCmd())
	cmd.AddCommand(generateCmd())
	cmd.AddCommand(statusCmd())
	cmd.AddCommand(historyCmd())
	return cmd
}

// loadOrchestrator reads the configuration, applies the --log-level
// override, and points reports at the command's output.
func loadOrchestrator(cmd *cobra.Command) (*orchestrator.Orchestrator, error) {
	switch outputFmt {
	case "table", "json", "yaml":
	default:
		return nil, fmt.Errorf("unknown output format %q", outputFmt)
	}
	o, err := orchestrator.NewFromFile(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		if err := logger.Level.SetByName(logLevel); err != nil {
			return nil, err
		}
	}
	return o.WithOutput(cmd.OutOrStdout()), nil
}
