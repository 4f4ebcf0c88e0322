// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui holds the terminal UI pieces shared by the answer viewer
// and the markdown renderer: the color theme, the scrollbar used beside
// scrollable panes, and bordered cards spliced over a rendered view.
// Built for bubbletea (Elm architecture) views styled with lipgloss.
package tui
