// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package answerui

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func TestTUILogHandlerEnabled(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelWarn)
	if handler.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info enabled at warn level")
	}
	if !handler.Enabled(context.Background(), slog.LevelError) {
		t.Error("error disabled at warn level")
	}
}

func TestTUILogHandlerDropsWithoutProgram(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelInfo)
	record := slog.NewRecord(time.Now(), slog.LevelWarn, "dropped", 0)
	if err := handler.Handle(context.Background(), record); err != nil {
		t.Errorf("Handle without program: %v", err)
	}
}

func TestTUILogHandlerSummary(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelInfo)
	derived := handler.
		WithAttrs([]slog.Attr{slog.String("file", "answer.json")}).
		WithGroup("cache").(*TUILogHandler)

	record := slog.NewRecord(time.Now(), slog.LevelWarn, "normalized answer", 0)
	record.AddAttrs(slog.Int("hits", 3))

	want := "normalized answer (file=answer.json, cache.hits=3)"
	if got := derived.summarize(record); got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
	if got := handler.summarize(slog.NewRecord(time.Now(), slog.LevelWarn, "bare", 0)); got != "bare" {
		t.Errorf("root handler summary = %q, want %q", got, "bare")
	}
}

func TestTUILogHandlerSharesProgram(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelInfo)
	derived := handler.WithAttrs(nil).(*TUILogHandler)
	if derived.program != handler.program {
		t.Error("derived handler has its own program pointer")
	}
}
