// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package orchestrator

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mesh-intelligence/yatm/pkg/logger"
)

// writeTemp writes content to a temp file and returns its path.
func writeTemp(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	f.Close()
	return f.Name()
}

func TestLoadConfig_HierarchicalYAML(t *testing.T) {
	t.Parallel()

	yaml := `
catalog:
  globs: [specs/**/*.yaml]
builders:
  globs: [suites/*.yaml, extra/*.yaml]
tracker:
  repo: acme/widgets
  state: open
  label: yatm
output:
  dir: build/cases
history:
  path: .yatm/history.db
log:
  level: debug
`
	f := writeTemp(t, yaml)
	cfg, err := LoadConfig(f)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.Catalog.Globs) != 1 || cfg.Catalog.Globs[0] != "specs/**/*.yaml" {
		t.Errorf("Catalog.Globs: got %v", cfg.Catalog.Globs)
	}
	if len(cfg.Builders.Globs) != 2 || cfg.Builders.Globs[1] != "extra/*.yaml" {
		t.Errorf("Builders.Globs: got %v", cfg.Builders.Globs)
	}
	if cfg.Tracker.Repo != "acme/widgets" {
		t.Errorf("Tracker.Repo: got %q, want %q", cfg.Tracker.Repo, "acme/widgets")
	}
	if cfg.Tracker.State != "open" {
		t.Errorf("Tracker.State: got %q, want %q", cfg.Tracker.State, "open")
	}
	if cfg.Tracker.Label != "yatm" {
		t.Errorf("Tracker.Label: got %q, want %q", cfg.Tracker.Label, "yatm")
	}
	if cfg.Output.Dir != "build/cases" {
		t.Errorf("Output.Dir: got %q, want %q", cfg.Output.Dir, "build/cases")
	}
	if cfg.History.Path != ".yatm/history.db" {
		t.Errorf("History.Path: got %q, want %q", cfg.History.Path, ".yatm/history.db")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level: got %q, want %q", cfg.Log.Level, "debug")
	}
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(writeTemp(t, "tracker:\n  repo: o/r\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	def := DefaultConfig()
	checks := []struct {
		field string
		got   string
		want  string
	}{
		{"Catalog.Globs", strings.Join(cfg.Catalog.Globs, ","), strings.Join(def.Catalog.Globs, ",")},
		{"Builders.Globs", strings.Join(cfg.Builders.Globs, ","), "docs/builders/**/*.yaml"},
		{"Tracker.State", cfg.Tracker.State, "all"},
		{"Output.Dir", cfg.Output.Dir, "generated/testcases"},
		{"History.Path", cfg.History.Path, ""},
		{"Log.Level", cfg.Log.Level, "info"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
}

func TestLoadConfig_ReadsTemplateFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tmpl := filepath.Join(dir, "issue.tmpl")
	if err := os.WriteFile(tmpl, []byte("# {{ .Requirement.Name }}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(writeTemp(t, "render:\n  template: "+tmpl+"\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Render.Template != "# {{ .Requirement.Name }}\n" {
		t.Errorf("Render.Template: got %q, want file content", cfg.Render.Template)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "catalog: [unclosed\n", "parsing config file"},
		{"missing template", "render:\n  template: /nonexistent/issue.tmpl\n", "reading issue template"},
		{"bad state", "tracker:\n  state: pending\n", "tracker.state"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadConfig(writeTemp(t, tc.content))
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("got %v, want error containing %q", err, tc.wantErr)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	t.Parallel()

	o := New(Config{Tracker: TrackerConfig{Repo: "o/r"}})
	cfg := o.Config()
	if cfg.Tracker.Repo != "o/r" {
		t.Errorf("Tracker.Repo: got %q", cfg.Tracker.Repo)
	}
	if cfg.Tracker.State != "all" || cfg.Output.Dir == "" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

// TestNewFromFile changes the shared log level, so it does not run in
// parallel.
func TestNewFromFile(t *testing.T) {
	defer logger.Level.Set(slog.LevelInfo)

	o, err := NewFromFile(writeTemp(t, "log:\n  level: warn\n"))
	if err != nil {
		t.Fatalf("NewFromFile: %v", err)
	}
	if o.Config().Log.Level != "warn" {
		t.Errorf("Log.Level: got %q", o.Config().Log.Level)
	}
	if logger.Level.Enabled(slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}

	if _, err := NewFromFile(writeTemp(t, "log:\n  level: chatty\n")); err == nil {
		t.Error("expected error for unknown log level")
	}
}
