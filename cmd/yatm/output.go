// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/mesh-intelligence/yatm/pkg/history"
	"github.com/mesh-intelligence/yatm/pkg/orchestrator"
	"github.com/mesh-intelligence/yatm/pkg/testcases"
	"gopkg.in/yaml.v3"
)

// MaterializeResult is the result of a materialize command.
type MaterializeResult struct {
	TestCases []CaseInfo `json:"testCases" yaml:"testCases"`
	Total     int        `json:"total" yaml:"total"`
}

// CaseInfo describes one materialized test case.
type CaseInfo struct {
	ID          string            `json:"id" yaml:"id"`
	Requirement string            `json:"requirement" yaml:"requirement"`
	Builder     string            `json:"builder" yaml:"builder"`
	Permutation map[string]string `json:"permutation,omitempty" yaml:"permutation,omitempty"`
}

// StatusResult is the result of a status command.
type StatusResult struct {
	Repo            string      `json:"repo" yaml:"repo"`
	RunID           string      `json:"runId,omitempty" yaml:"runId,omitempty"`
	Issues          []IssueInfo `json:"issues" yaml:"issues"`
	Missing         int         `json:"missing" yaml:"missing"`
	Match           int         `json:"match" yaml:"match"`
	MatchedWithDiff int         `json:"matchedWithDiff" yaml:"matchedWithDiff"`
	Untracked       []int       `json:"untracked,omitempty" yaml:"untracked,omitempty"`
}

// IssueInfo is one reconciled test case.
type IssueInfo struct {
	Title  string `json:"title" yaml:"title"`
	Status string `json:"status" yaml:"status"`
	Number int    `json:"number,omitempty" yaml:"number,omitempty"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
}

// HistoryResult is the result of a history command.
type HistoryResult struct {
	Runs []RunInfo `json:"runs" yaml:"runs"`
}

// RunInfo is one recorded status run.
type RunInfo struct {
	ID              string    `json:"id" yaml:"id"`
	Repo            string    `json:"repo" yaml:"repo"`
	StartedAt       time.Time `json:"startedAt" yaml:"startedAt"`
	Missing         int       `json:"missing" yaml:"missing"`
	Match           int       `json:"match" yaml:"match"`
	MatchedWithDiff int       `json:"matchedWithDiff" yaml:"matchedWithDiff"`
	Untracked       int       `json:"untracked" yaml:"untracked"`
}

func newMaterializeResult(cases []testcases.TestCase) MaterializeResult {
	r := MaterializeResult{TestCases: make([]CaseInfo, 0, len(cases)), Total: len(cases)}
	for _, tc := range cases {
		r.TestCases = append(r.TestCases, CaseInfo{
			ID:          tc.ID(),
			Requirement: tc.Requirement.Name,
			Builder:     tc.BuilderUsed.Name,
			Permutation: tc.SelectedPermutation,
		})
	}
	return r
}

func newStatusResult(s orchestrator.StatusResult) StatusResult {
	r := StatusResult{
		Repo:            s.Repo,
		RunID:           s.Run.ID,
		Issues:          make([]IssueInfo, 0, len(s.Matches)),
		Missing:         s.Run.Missing,
		Match:           s.Run.Match,
		MatchedWithDiff: s.Run.MatchedWithDiff,
	}
	for _, m := range s.Matches {
		info := IssueInfo{Title: m.LocalIssue.Title, Status: m.MatchType.String()}
		if m.GithubIssue != nil {
			info.Number = m.GithubIssue.Number
			info.URL = m.GithubIssue.URL
		}
		r.Issues = append(r.Issues, info)
	}
	for _, ri := range s.Untracked {
		r.Untracked = append(r.Untracked, ri.Number)
	}
	return r
}

func newHistoryResult(runs []history.Run) HistoryResult {
	r := HistoryResult{Runs: make([]RunInfo, 0, len(runs))}
	for _, run := range runs {
		r.Runs = append(r.Runs, RunInfo{
			ID:              run.ID,
			Repo:            run.Repo,
			StartedAt:       run.StartedAt,
			Missing:         run.Missing,
			Match:           run.Match,
			MatchedWithDiff: run.MatchedWithDiff,
			Untracked:       run.UnmatchedRemote,
		})
	}
	return r
}

// outputResult outputs the result in the specified format.
func outputResult(w io.Writer, result any, format string) error {
	switch format {
	case "json":
		return outputJSON(w, result)
	case "yaml":
		return outputYAML(w, result)
	default:
		return outputTable(w, result)
	}
}

func outputJSON(w io.Writer, result any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputYAML(w io.Writer, result any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return err
	}
	return enc.Close()
}

func outputTable(w io.Writer, result any) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	switch r := result.(type) {
	case MaterializeResult:
		fmt.Fprintln(tw, "ID\tREQUIREMENT\tBUILDER")
		for _, c := range r.TestCases {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Requirement, c.Builder)
		}
		fmt.Fprintf(tw, "\nTOTAL\t%d\n", r.Total)
		return nil
	default:
		// Fall back to JSON for unknown types
		return outputJSON(w, result)
	}
}
