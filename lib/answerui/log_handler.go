// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package answerui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// statusLogMsg carries a log record into the model for display in the
// status line.
type statusLogMsg struct {
	Summary string
	Level   slog.Level
}

// statusLogFadeMsg clears the status line log message. Sequence
// identifies which message the fade belongs to, so a fade scheduled
// for an older message does not clear a newer one.
type statusLogFadeMsg struct {
	Sequence int
}

// statusLogFadeDelay is how long a log message replaces the help line.
const statusLogFadeDelay = 5 * time.Second

// TUILogHandler is a slog.Handler that delivers records to a running
// bubbletea program, where the answer viewer shows them in its status
// line. Writing to stderr while the alternate screen is active would
// corrupt the display.
//
// Records arriving before SetProgram are dropped. Handlers derived
// with WithAttrs or WithGroup share the program pointer of their root.
type TUILogHandler struct {
	level   slog.Leveler
	program *atomic.Pointer[tea.Program]
	attrs   []string
	prefix  string
}

// NewTUILogHandler creates a handler for records at or above level.
func NewTUILogHandler(level slog.Leveler) *TUILogHandler {
	return &TUILogHandler{
		level:   level,
		program: &atomic.Pointer[tea.Program]{},
	}
}

// SetProgram sets the program that receives records. Safe to call
// from any goroutine.
func (handler *TUILogHandler) SetProgram(program *tea.Program) {
	handler.program.Store(program)
}

// Enabled implements slog.Handler.
func (handler *TUILogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level.Level()
}

// Handle implements slog.Handler. The record becomes a one-line
// summary: "message (key=value, ...)".
func (handler *TUILogHandler) Handle(_ context.Context, record slog.Record) error {
	program := handler.program.Load()
	if program == nil {
		return nil
	}
	program.Send(statusLogMsg{
		Summary: handler.summarize(record),
		Level:   record.Level,
	})
	return nil
}

func (handler *TUILogHandler) summarize(record slog.Record) string {
	parts := append([]string(nil), handler.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, handler.formatAttr(attr))
		return true
	})
	if len(parts) == 0 {
		return record.Message
	}
	return record.Message + " (" + strings.Join(parts, ", ") + ")"
}

func (handler *TUILogHandler) formatAttr(attr slog.Attr) string {
	return fmt.Sprintf("%s%s=%s", handler.prefix, attr.Key, attr.Value.Resolve())
}

// WithAttrs implements slog.Handler.
func (handler *TUILogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *handler
	derived.attrs = append([]string(nil), handler.attrs...)
	for _, attr := range attrs {
		derived.attrs = append(derived.attrs, handler.formatAttr(attr))
	}
	return &derived
}

// WithGroup implements slog.Handler. Keys of later attributes are
// qualified with the group name.
func (handler *TUILogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	derived := *handler
	derived.attrs = append([]string(nil), handler.attrs...)
	derived.prefix = handler.prefix + name + "."
	return &derived
}
