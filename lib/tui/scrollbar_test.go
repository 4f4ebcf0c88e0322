// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestRenderScrollbarHeight(t *testing.T) {
	bar := RenderScrollbar(DefaultTheme, 5, 50, 5, 0, false)
	if lines := strings.Split(bar, "\n"); len(lines) != 5 {
		t.Errorf("scrollbar has %d lines, want 5", len(lines))
	}
}

func TestRenderScrollbarThumbMoves(t *testing.T) {
	top := ansi.Strip(RenderScrollbar(DefaultTheme, 10, 100, 10, 0, false))
	bottom := ansi.Strip(RenderScrollbar(DefaultTheme, 10, 100, 10, 90, false))
	if top == bottom {
		t.Errorf("thumb did not move between top and bottom:\n%s", top)
	}
}

func TestRenderScrollbarContentFits(t *testing.T) {
	full := ansi.Strip(RenderScrollbar(DefaultTheme, 4, 3, 4, 0, true))
	lines := strings.Split(full, "\n")
	for index, line := range lines[1:] {
		if line != lines[0] {
			t.Errorf("line %d = %q, want uniform thumb %q", index+1, line, lines[0])
		}
	}
}
