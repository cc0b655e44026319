// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package orchestrator

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/yatm/pkg/history"
	"github.com/mesh-intelligence/yatm/pkg/issues"
	"github.com/mesh-intelligence/yatm/pkg/logger"
)

// StatusResult is the outcome of reconciling the materialized test cases
// against the tracker.
type StatusResult struct {
	Repo      string
	Matches   []issues.GithubIssueMatches // one per local issue, in materialization order
	Untracked []issues.RemoteIssue        // yatm issues no local issue claimed
	Run       history.Run                 // counts; ID is set when history is recorded
}

// Status materializes and renders every test case, lists the tracker's
// issues, and reconciles the two. A failed listing aborts before any
// matching. The report is printed and, when history.path is set, the
// run is recorded.
func (o *Orchestrator) Status(ctx context.Context) (StatusResult, error) {
	o.logConfig("status")
	cases, err := o.Materialize()
	if err != nil {
		return StatusResult{}, err
	}
	r, err := o.renderer()
	if err != nil {
		return StatusResult{}, err
	}
	local, err := r.RenderAll(cases)
	if err != nil {
		return StatusResult{}, err
	}

	src, repo, err := o.issueSource(ctx)
	if err != nil {
		return StatusResult{}, err
	}
	remote, err := src.ListIssues(ctx)
	if err != nil {
		return StatusResult{}, fmt.Errorf("fetching remote issues: %w", err)
	}
	logf("status: %d local issue(s), %d remote issue(s)", len(local), len(remote))

	matches := issues.Reconcile(local, remote)
	var untracked []issues.RemoteIssue
	for _, ri := range issues.Unmatched(matches, remote) {
		if issues.IsTracked(ri.BodyText()) {
			untracked = append(untracked, ri)
		}
	}

	result := StatusResult{
		Repo:      repo,
		Matches:   matches,
		Untracked: untracked,
		Run:       history.Summarize(repo, matches, len(untracked)),
	}
	if o.cfg.History.Path != "" {
		if result.Run, err = o.recordRun(ctx, result.Run); err != nil {
			return StatusResult{}, err
		}
	}
	result.printReport(o)
	return result, nil
}

func (o *Orchestrator) recordRun(ctx context.Context, run history.Run) (history.Run, error) {
	store, err := history.Open(ctx, o.cfg.History.Path)
	if err != nil {
		return run, err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Errorf("status: closing history %s: %v", o.cfg.History.Path, err)
		}
	}()
	return store.Record(ctx, run)
}

// printReport lists each local issue under its match type, then the
// tracker issues nothing claimed.
func (r StatusResult) printReport(o *Orchestrator) {
	var missing, diff, matched []string
	for _, m := range r.Matches {
		switch m.MatchType {
		case issues.Missing:
			missing = append(missing, m.LocalIssue.Title)
		case issues.MatchedWithDiff:
			diff = append(diff, fmt.Sprintf("%s (#%d)", m.LocalIssue.Title, m.GithubIssue.Number))
		case issues.Match:
			matched = append(matched, fmt.Sprintf("%s (#%d)", m.LocalIssue.Title, m.GithubIssue.Number))
		}
	}
	var untracked []string
	for _, ri := range r.Untracked {
		untracked = append(untracked, fmt.Sprintf("#%d %s", ri.Number, ri.Title))
	}

	printSection(o.out, "❌", "Missing on the tracker", missing)
	printSection(o.out, "⚠️", "Matched with differences", diff)
	printSection(o.out, "✅", "Matched", matched)
	printSection(o.out, "ℹ️", "Tracker issues with no local test case", untracked)

	repo := r.Repo
	if repo == "" {
		repo = "tracker"
	}
	o.printf("\n%s: %d test case(s): %d missing, %d matched with differences, %d matched\n",
		repo, r.Run.Total(), r.Run.Missing, r.Run.MatchedWithDiff, r.Run.Match)
	if r.Run.ID != "" {
		o.printf("Recorded run %s\n", r.Run.ID)
	}
}

// History prints up to limit recorded runs, newest first. A limit <= 0
// prints every run.
func (o *Orchestrator) History(ctx context.Context, limit int) ([]history.Run, error) {
	if o.cfg.History.Path == "" {
		return nil, fmt.Errorf("history.path is not configured")
	}
	store, err := history.Open(ctx, o.cfg.History.Path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Errorf("status: closing history %s: %v", o.cfg.History.Path, err)
		}
	}()

	runs, err := store.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		o.printf("No runs recorded in %s\n", o.cfg.History.Path)
		return runs, nil
	}
	o.printf("%-20s  %-36s  %-24s  %7s  %5s  %5s  %9s\n",
		"STARTED", "ID", "REPO", "MISSING", "DIFF", "MATCH", "UNTRACKED")
	for _, run := range runs {
		o.printf("%-20s  %-36s  %-24s  %7d  %5d  %5d  %9d\n",
			run.StartedAt.Format("2006-01-02 15:04:05"), run.ID, run.Repo,
			run.Missing, run.MatchedWithDiff, run.Match, run.UnmatchedRemote)
	}
	return runs, nil
}
