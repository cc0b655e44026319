// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package logger is the process-wide structured logger. Output goes to
// stderr through tint when stderr is a terminal and through a plain
// slog text handler otherwise.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Level is the shared minimum level of every logger built here.
var Level = &level{lvl: &slog.LevelVar{}}

type level struct {
	lvl *slog.LevelVar
}

func (l *level) Enabled(level slog.Level) bool {
	return level >= l.lvl.Level()
}

func (l *level) Set(level slog.Level) {
	l.lvl.Set(level)
}

// SetByName sets the level from a config string. Unknown names are an
// error and leave the level unchanged.
func (l *level) SetByName(name string) error {
	switch strings.ToLower(name) {
	case "debug":
		l.lvl.Set(slog.LevelDebug)
	case "", "info":
		l.lvl.Set(slog.LevelInfo)
	case "warn", "warning":
		l.lvl.Set(slog.LevelWarn)
	case "err", "error":
		l.lvl.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level %q", name)
	}
	return nil
}

// New returns a logger writing to w. Terminals get colored tint output.
func New(w io.Writer) *slog.Logger {
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      Level.lvl,
			TimeFormat: "15:04:05",
		}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: Level.lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				return slog.String(a.Key, strings.ToLower(a.Value.String()))
			}
			return a
		},
	}))
}

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(New(os.Stderr))
}

// Default returns the process-wide logger.
func Default() *slog.Logger { return defaultLogger.Load() }

// SetDefault replaces the process-wide logger; tests use it to capture
// output.
func SetDefault(l *slog.Logger) { defaultLogger.Store(l) }

func Debugf(format string, a ...any) { Default().Debug(fmt.Sprintf(format, a...)) }
func Infof(format string, a ...any)  { Default().Info(fmt.Sprintf(format, a...)) }
func Warnf(format string, a ...any)  { Default().Warn(fmt.Sprintf(format, a...)) }
func Errorf(format string, a ...any) { Default().Error(fmt.Sprintf(format, a...)) }
