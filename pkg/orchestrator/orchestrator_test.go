// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mesh-intelligence/yatm/pkg/issues"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `requirements:
  - name: install
    description: Install from the release archive
    labels: [smoke, cli]
    steps:
      - action:
          - stdin: {number: 1, text: tar xzf yatm.tgz}
        expect:
          - stdout: {number: 1, text: yatm}
  - name: upgrade
    description: Upgrade in place
    labels: [cli]
  - name: docs
    description: Documentation renders
    labels: [smoke, web]
`

const smokeYAML = `name: smoke
description: Smoke tests
set:
  - include:
      all_labels: [smoke]
permutations:
  os: [linux, mac]
version: 1
`

const upgradeYAML = `name: upgrade-only
set:
  - include:
      any_names: [upgrade]
`

// fakeSource is an IssueSource returning canned issues.
type fakeSource struct {
	issues []issues.RemoteIssue
	err    error
	calls  int
}

func (f *fakeSource) ListIssues(context.Context) ([]issues.RemoteIssue, error) {
	f.calls++
	return f.issues, f.err
}

// project lays out a catalog and builders under a temp dir and returns
// a Config pointing at them.
func project(t *testing.T, files map[string]string) Config {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return Config{
		Catalog:  CatalogConfig{Globs: []string{filepath.Join(dir, "requirements", "*.yaml")}},
		Builders: BuildersConfig{Globs: []string{filepath.Join(dir, "builders", "*.yaml")}},
		Tracker:  TrackerConfig{Repo: "acme/widgets"},
		Output:   OutputConfig{Dir: filepath.Join(dir, "out")},
	}
}

func defaultProject(t *testing.T) Config {
	return project(t, map[string]string{
		"requirements/catalog.yaml": catalogYAML,
		"builders/smoke.yaml":       smokeYAML,
		"builders/upgrade.yaml":     upgradeYAML,
	})
}

func newTestOrchestrator(cfg Config) (*Orchestrator, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(cfg).WithOutput(&buf), &buf
}

func TestMaterialize(t *testing.T) {
	t.Parallel()

	o, _ := newTestOrchestrator(defaultProject(t))
	cases, err := o.Materialize()
	require.NoError(t, err)

	ids := make([]string, 0, len(cases))
	for _, tc := range cases {
		ids = append(ids, tc.ID())
	}
	assert.Equal(t, []string{
		"smoke/install[os=linux]",
		"smoke/install[os=mac]",
		"smoke/docs[os=linux]",
		"smoke/docs[os=mac]",
		"upgrade-only/upgrade",
	}, ids)
}

func TestMaterialize_LoadErrors(t *testing.T) {
	t.Parallel()

	cfg := project(t, map[string]string{
		"requirements/a.yaml": catalogYAML,
		"requirements/b.yaml": "requirements:\n  - name: install\n",
		"builders/smoke.yaml": smokeYAML,
	})
	_, err := New(cfg).Materialize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading catalog")
}

func TestValidate_Passes(t *testing.T) {
	t.Parallel()

	o, out := newTestOrchestrator(defaultProject(t))
	require.NoError(t, o.Validate())
	assert.Contains(t, out.String(), "All checks passed")
	assert.Contains(t, out.String(), "3 requirements")
	assert.Contains(t, out.String(), "5 test cases")
}

func TestValidate_ReportsProblems(t *testing.T) {
	t.Parallel()

	cfg := project(t, map[string]string{
		"requirements/a.yaml":   catalogYAML,
		"requirements/b.yaml":   "requirements:\n  - name: install\n    owner: qa\n",
		"requirements/c.yaml":   "requirements:\n  - name: docs\n",
		"builders/smoke.yaml":   smokeYAML,
		"builders/typo.yaml":    "name: typo\nset:\n  - include:\n      any_names: [instal]\n",
		"builders/empty.yaml":   "name: empty\nset:\n  - include: {}\npermutations:\n  os: []\n",
		"builders/nomatch.yaml": "name: nomatch\nset:\n  - include:\n      all_labels: [nothing]\n",
	})
	o, out := newTestOrchestrator(cfg)
	r := o.validate()

	assert.NotEmpty(t, r.SchemaErrors, "b.yaml has an unknown field")
	assert.NotEmpty(t, r.LoadErrors, "b.yaml fails strict decoding")
	require.Len(t, r.DuplicateNames, 1)
	assert.Contains(t, r.DuplicateNames[0], "docs")
	require.Len(t, r.UnknownNames, 1)
	assert.Contains(t, r.UnknownNames[0], `"instal"`)
	assert.Equal(t, []string{"empty"}, r.EmptyDomains)
	assert.Contains(t, r.EmptySelection, "nomatch")

	require.Error(t, r.printReport(out))
	assert.Contains(t, out.String(), "Duplicate requirement names")
	assert.Contains(t, out.String(), "empty permutation domain")
}

func TestValidate_ReportsTemplateErrors(t *testing.T) {
	t.Parallel()

	cfg := project(t, map[string]string{
		"requirements/a.yaml": "requirements:\n  - name: install\n    description: Install it\n  - name: bare\n",
		"builders/all.yaml":   "name: all\nset:\n  - include: {}\n",
	})
	cfg.Render.Template = `{{ required "description is required" .Requirement.Description }}`
	o, out := newTestOrchestrator(cfg)
	r := o.validate()

	require.Len(t, r.RenderErrors, 1)
	assert.Contains(t, r.RenderErrors[0], "bare")
	require.Error(t, r.printReport(out))
	assert.Contains(t, out.String(), "Issue template errors")
}

func TestValidate_NoticesDoNotFail(t *testing.T) {
	t.Parallel()

	cfg := project(t, map[string]string{
		"requirements/a.yaml": catalogYAML,
		"builders/empty.yaml": "name: empty\npermutations:\n  os: []\n",
	})
	o, out := newTestOrchestrator(cfg)
	require.NoError(t, o.Validate())
	assert.Contains(t, out.String(), "empty permutation domain")
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	cfg := defaultProject(t)
	stale := filepath.Join(cfg.Output.Dir, "smoke", "removed.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	o, out := newTestOrchestrator(cfg)
	paths, err := o.Generate()
	require.NoError(t, err)

	rel := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(cfg.Output.Dir, p)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{
		"smoke/install--linux.md",
		"smoke/install--mac.md",
		"smoke/docs--linux.md",
		"smoke/docs--mac.md",
		"upgrade-only/upgrade.md",
	}, rel)
	assert.NoFileExists(t, stale)

	body, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	fm, _ := issues.ParseFrontMatter(string(body))
	assert.Equal(t, "install", fm.Requirement)
	assert.Equal(t, "mac", fm.Permutation["os"])
	assert.Contains(t, out.String(), "Generated 5 test case(s)")
}

func TestGenerate_RemovesStaleCases(t *testing.T) {
	t.Parallel()

	cfg := defaultProject(t)
	o, _ := newTestOrchestrator(cfg)
	_, err := o.Generate()
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(cfg.Output.Dir, "smoke", "install--linux.md"))
	require.FileExists(t, filepath.Join(cfg.Output.Dir, "upgrade-only", "upgrade.md"))

	notes := filepath.Join(cfg.Output.Dir, "notes", "readme.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(notes), 0o755))
	require.NoError(t, os.WriteFile(notes, []byte("hand written"), 0o644))

	// smoke now yields no cases and upgrade-only is gone.
	buildersDir := filepath.Dir(cfg.Builders.Globs[0])
	emptyDomain := strings.Replace(smokeYAML, "os: [linux, mac]", "os: []", 1)
	require.NoError(t, os.WriteFile(filepath.Join(buildersDir, "smoke.yaml"), []byte(emptyDomain), 0o644))
	require.NoError(t, os.Remove(filepath.Join(buildersDir, "upgrade.yaml")))

	paths, err := o.Generate()
	require.NoError(t, err)
	assert.Empty(t, paths)

	entries, err := os.ReadDir(filepath.Join(cfg.Output.Dir, "smoke"))
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoDirExists(t, filepath.Join(cfg.Output.Dir, "upgrade-only"))
	assert.FileExists(t, notes)
}

func TestSanitizeFileName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"install":   "install",
		"a b/c":     "a-b-c",
		"":          "_",
		"..":        "_",
		"v1.2_rc-3": "v1.2_rc-3",
		"ünïcode":   "-n-code",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitizeFileName(in), in)
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	cfg := defaultProject(t)
	o, out := newTestOrchestrator(cfg)

	// Render the cases once to build a tracker holding one identical and
	// one stale issue.
	cases, err := o.Materialize()
	require.NoError(t, err)
	r, err := o.renderer()
	require.NoError(t, err)
	local, err := r.RenderAll(cases)
	require.NoError(t, err)

	identical := local[0].TextBody
	stale := "---\nyatm_requirement: install\n---\n\nold body"
	orphan := "---\nyatm_requirement: retired\n---\n\ngone"
	src := &fakeSource{issues: []issues.RemoteIssue{
		{Number: 1, Title: local[0].Title, Body: &identical, Labels: local[0].Labels},
		{Number: 2, Title: local[1].Title, Body: &stale, Labels: local[1].Labels},
		{Number: 3, Title: "retired", Body: &orphan, Labels: []string{"yatm-req:retired"}},
		{Number: 4, Title: "a bug report", Labels: []string{"bug"}},
	}}
	o.WithIssueSource(src)

	result, err := o.Status(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Matches, 5)

	got := make([]issues.IssueMatchType, 0, len(result.Matches))
	for _, m := range result.Matches {
		got = append(got, m.MatchType)
	}
	assert.Equal(t, []issues.IssueMatchType{
		issues.Match, issues.MatchedWithDiff, issues.Missing, issues.Missing, issues.Missing,
	}, got)
	require.Len(t, result.Untracked, 1)
	assert.Equal(t, 3, result.Untracked[0].Number)
	assert.Equal(t, 3, result.Run.Missing)
	assert.Empty(t, result.Run.ID, "history is not configured")

	report := out.String()
	assert.Contains(t, report, "Missing on the tracker")
	assert.Contains(t, report, "(#2)")
	assert.Contains(t, report, "#3 retired")
	assert.NotContains(t, report, "a bug report")
	assert.Contains(t, report, "acme/widgets: 5 test case(s): 3 missing, 1 matched with differences, 1 matched")
}

func TestStatus_FetchFailureAborts(t *testing.T) {
	t.Parallel()

	cfg := defaultProject(t)
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")
	boom := errors.New("gh: authentication required")
	o, out := newTestOrchestrator(cfg)
	o.WithIssueSource(&fakeSource{err: boom})

	_, err := o.Status(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Empty(t, out.String())
	assert.NoFileExists(t, cfg.History.Path)
}

func TestStatus_RecordsHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := defaultProject(t)
	cfg.History.Path = filepath.Join(t.TempDir(), "state", "history.db")
	o, out := newTestOrchestrator(cfg)
	o.WithIssueSource(&fakeSource{})

	first, err := o.Status(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, first.Run.ID)
	assert.Equal(t, 5, first.Run.Missing)
	_, err = o.Status(ctx)
	require.NoError(t, err)

	out.Reset()
	runs, err := o.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "acme/widgets", runs[0].Repo)
	assert.True(t, strings.HasPrefix(out.String(), "STARTED"))

	all, err := o.History(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestHistory_NotConfigured(t *testing.T) {
	t.Parallel()

	o, _ := newTestOrchestrator(DefaultConfig())
	_, err := o.History(context.Background(), 10)
	require.Error(t, err)
}
