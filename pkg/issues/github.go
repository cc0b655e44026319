// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package issues

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// binGh is the GitHub CLI binary.
const binGh = "gh"

// IssueSource supplies the complete current set of remote issues in one
// call, or fails.
type IssueSource interface {
	ListIssues(ctx context.Context) ([]RemoteIssue, error)
}

// runFunc executes a command and returns its stdout.
type runFunc func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	return cmd.Output()
}

// GitHub lists issues of one repository through the gh CLI.
type GitHub struct {
	Repo  string // owner/repo
	State string // open, closed or all (default all)
	Label string // optional label every listed issue must carry

	run runFunc
}

// NewGitHub returns a source for repo. State defaults to "all".
func NewGitHub(repo, state, label string) *GitHub {
	if state == "" {
		state = "all"
	}
	return &GitHub{Repo: repo, State: state, Label: label, run: runCommand}
}

// ListIssues returns every issue of the repository. It uses the REST API
// endpoint (gh api repos/.../issues) rather than gh issue list, because
// gh issue list goes through the search API, which is eventually
// consistent. --paginate walks every page, so the result is a complete
// snapshot. Pull requests, which the endpoint also returns, are skipped.
func (g *GitHub) ListIssues(ctx context.Context) ([]RemoteIssue, error) {
	if g.Repo == "" {
		return nil, fmt.Errorf("listing issues: no repository configured")
	}
	args := []string{"api", "--paginate", "--method", "GET",
		fmt.Sprintf("repos/%s/issues", g.Repo),
		"-f", "state=" + g.State,
		"-f", "per_page=100",
	}
	if g.Label != "" {
		args = append(args, "-f", "labels="+g.Label)
	}
	args = append(args, "--jq", ".[]")

	run := g.run
	if run == nil {
		run = runCommand
	}
	logf("listIssues: repo=%s state=%s label=%q", g.Repo, g.State, g.Label)
	out, err := run(ctx, "", binGh, args...)
	if err != nil {
		return nil, fmt.Errorf("gh api repos issues: %w", err)
	}
	issues, err := parseIssueLines(out)
	if err != nil {
		return nil, fmt.Errorf("parsing gh api repos issues: %w", err)
	}
	logf("listIssues: %d issue(s) from %s", len(issues), g.Repo)
	return issues, nil
}

// parseIssueLines parses one JSON issue object per line, as printed by
// gh api --jq '.[]'.
func parseIssueLines(out []byte) ([]RemoteIssue, error) {
	var (
		issues  []RemoteIssue
		lineErr error
		lineNo  int
	)
	gjson.ForEachLine(string(out), func(line gjson.Result) bool {
		lineNo++
		if !line.IsObject() {
			lineErr = fmt.Errorf("line %d: expected a JSON object, got %q", lineNo, line.Raw)
			return false
		}
		if line.Get("pull_request").Exists() {
			return true
		}
		issue := RemoteIssue{
			Number: int(line.Get("number").Int()),
			Title:  line.Get("title").String(),
			URL:    line.Get("html_url").String(),
		}
		if body := line.Get("body"); body.Exists() && body.Type != gjson.Null {
			text := body.String()
			issue.Body = &text
		}
		for _, name := range line.Get("labels.#.name").Array() {
			issue.Labels = append(issue.Labels, name.String())
		}
		issues = append(issues, issue)
		return true
	})
	if lineErr != nil {
		return nil, lineErr
	}
	return issues, nil
}

// DetectRepo resolves the GitHub owner/repo string for the project.
// Resolution order:
//  1. override if set (tracker.repo in configuration.yaml)
//  2. `gh repo view --json nameWithOwner` run in repoRoot (reads git remote)
//  3. Strip "github.com/" from the go.mod module path in repoRoot
func DetectRepo(ctx context.Context, repoRoot, override string) (string, error) {
	return detectRepo(ctx, runCommand, repoRoot, override)
}

func detectRepo(ctx context.Context, run runFunc, repoRoot, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if out, err := run(ctx, repoRoot, binGh, "repo", "view", "--json", "nameWithOwner", "-q", ".nameWithOwner"); err == nil {
		if repo := strings.TrimSpace(string(out)); repo != "" {
			return repo, nil
		}
	}

	modPath := goModModulePath(repoRoot)
	if strings.HasPrefix(modPath, "github.com/") {
		return strings.TrimPrefix(modPath, "github.com/"), nil
	}

	return "", fmt.Errorf("cannot determine GitHub repo: set tracker.repo in configuration.yaml or ensure the project has a github.com module path")
}

// goModModulePath reads the module path from the go.mod in repoRoot.
func goModModulePath(repoRoot string) string {
	data, err := os.ReadFile(filepath.Join(repoRoot, "go.mod"))
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "module ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "module "))
		}
	}
	return ""
}
