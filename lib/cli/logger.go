// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates a logger writing to stderr. When stderr is
// a terminal the output is slog text; when piped or redirected it is
// JSON, one record per line.
func NewCommandLogger(level slog.Leveler) *slog.Logger {
	return slog.New(newStreamHandler(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), level))
}

func newStreamHandler(writer io.Writer, terminal bool, level slog.Leveler) slog.Handler {
	options := &slog.HandlerOptions{Level: level}
	if terminal {
		return slog.NewTextHandler(writer, options)
	}
	return slog.NewJSONHandler(writer, options)
}

// OpenFileLogHandler creates a JSON handler appending to path. The
// returned function closes the file.
func OpenFileLogHandler(path string, level slog.Leveler) (slog.Handler, func() error, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}), file.Close, nil
}

// ParseLevel parses a level name ("debug", "info", "warn", "error").
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, Validation("invalid log level %q: want debug, info, warn, or error", name)
	}
	return level, nil
}

// FanoutHandler sends each record to every handler enabled for its
// level. A level is enabled if any handler enables it.
type FanoutHandler []slog.Handler

func (handlers FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (handlers FanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (handlers FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make(FanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithAttrs(attrs)
	}
	return derived
}

func (handlers FanoutHandler) WithGroup(name string) slog.Handler {
	derived := make(FanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithGroup(name)
	}
	return derived
}
