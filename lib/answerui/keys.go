// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package answerui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the answer viewer.
type KeyMap struct {
	// Answer body scrolling. Always active regardless of focus.
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Focus cycling through the reference label, the chevron, and
	// each visible chip.
	FocusNext     key.Binding
	FocusPrevious key.Binding

	// Activate performs the focused element's action: toggle the
	// panel, or select a citation.
	Activate key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Enter and Space are
// both activation keys so the reference label and chevron behave like
// buttons.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	FocusNext: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next"),
	),
	FocusPrevious: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-Tab", "previous"),
	),
	Activate: key.NewBinding(
		key.WithKeys("enter", " ", "space"),
		key.WithHelp("⏎/Space", "select"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
