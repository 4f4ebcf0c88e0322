// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the answer viewer. All colors
// use lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Links inside the rendered answer, including citation markers.
	LinkForeground lipgloss.Color

	// Reference chips in the disclosure panel.
	ChipForeground lipgloss.Color
	ChipBackground lipgloss.Color

	// Keyboard focus ring: applied to whichever footer control or
	// chip currently has focus.
	FocusForeground lipgloss.Color
	FocusBackground lipgloss.Color

	// Scrollbar thumb while the answer body has focus.
	ScrollAccent lipgloss.Color

	// Status line notices.
	WarningText lipgloss.Color
	ErrorText   lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme. Designed for
// 256-color terminals with a dark background (the common case for
// development environments and tmux sessions).
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	LinkForeground: lipgloss.Color("75"), // blue

	ChipForeground: lipgloss.Color("252"),
	ChipBackground: lipgloss.Color("237"), // slightly lighter than terminal background

	FocusForeground: lipgloss.Color("255"),
	FocusBackground: lipgloss.Color("25"), // deep blue, pairs with LinkForeground

	ScrollAccent: lipgloss.Color("220"), // yellow/amber

	WarningText: lipgloss.Color("220"),
	ErrorText:   lipgloss.Color("196"), // bright red
}

// LightTheme is a palette for terminals with a light background.
var LightTheme = Theme{
	NormalText: lipgloss.Color("236"),
	FaintText:  lipgloss.Color("243"),

	HeaderForeground: lipgloss.Color("232"),
	BorderColor:      lipgloss.Color("250"),
	HelpText:         lipgloss.Color("244"),

	LinkForeground: lipgloss.Color("25"),

	ChipForeground: lipgloss.Color("236"),
	ChipBackground: lipgloss.Color("254"),

	FocusForeground: lipgloss.Color("255"),
	FocusBackground: lipgloss.Color("25"),

	ScrollAccent: lipgloss.Color("166"),

	WarningText: lipgloss.Color("166"),
	ErrorText:   lipgloss.Color("160"),
}

// ThemeByName returns the named theme ("dark" or "light"). Unknown
// names report false.
func ThemeByName(name string) (Theme, bool) {
	switch name {
	case "", "dark":
		return DefaultTheme, true
	case "light":
		return LightTheme, true
	default:
		return Theme{}, false
	}
}
