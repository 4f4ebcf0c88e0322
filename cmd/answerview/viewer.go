// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/answerview/lib/answerui"
	"github.com/bureau-foundation/answerview/lib/markdown"
	"github.com/bureau-foundation/answerview/lib/schema/answer"
	"github.com/bureau-foundation/answerview/lib/tui"
)

// Card placement inside the answer body.
const (
	cardMarginX  = 2
	cardTop      = 1
	cardMaxWidth = 80
)

// detailMsg opens the detail card for a selected citation.
type detailMsg struct {
	selection answerui.CitationSelectedMsg
}

// viewer wraps the answer model and draws a card with the selected
// citation's passage over the answer body. Esc closes the card.
type viewer struct {
	answer   answerui.Model
	renderer markdown.Renderer
	theme    tui.Theme
	logger   *slog.Logger

	width  int
	height int
	detail *answerui.CitationSelectedMsg
}

func newViewer(record answer.Record, options answerui.Options, logger *slog.Logger) viewer {
	if options.Theme == (tui.Theme{}) {
		options.Theme = tui.DefaultTheme
	}
	options.OnSelect = func(selection answerui.CitationSelectedMsg) tea.Cmd {
		return func() tea.Msg {
			return detailMsg{selection: selection}
		}
	}
	return viewer{
		answer:   answerui.NewModel(record, options),
		renderer: markdown.NewTerminalRenderer(options.Theme, options.CodeStyle),
		theme:    options.Theme,
		logger:   logger,
	}
}

func (model viewer) Init() tea.Cmd {
	return model.answer.Init()
}

func (model viewer) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if model.detail != nil && message.Type == tea.KeyEsc {
			model.detail = nil
			return model, nil
		}

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height

	case detailMsg:
		selection := message.selection
		model.detail = &selection
		// Logging from a command: the status-line handler sends to the
		// program, which would block inside Update.
		logger := model.logger
		return model, func() tea.Msg {
			logger.Debug("citation selected",
				"id", selection.Citation.ID,
				"label", selection.Label,
			)
			return nil
		}
	}

	updated, cmd := model.answer.Update(message)
	model.answer = updated.(answerui.Model)
	return model, cmd
}

func (model viewer) View() string {
	view := model.answer.View()
	if model.detail == nil {
		return view
	}
	card := model.renderCard()
	if len(card) == 0 {
		return view
	}
	return tui.SpliceOverlay(view, card, cardMarginX, cardTop)
}

// renderCard draws the detail card sized to fit inside the answer
// body. It returns nil when the body is too small to hold one.
func (model viewer) renderCard() []string {
	width := min(model.width-2*cardMarginX, cardMaxWidth)
	// Border rows, footer row, and at least one body row.
	available := model.answer.BodyHeight() - cardTop
	if width < 20 || available < 4 {
		return nil
	}

	citation := model.detail.Citation
	footer := "esc close"
	switch {
	case citation.URL != nil && *citation.URL != "":
		footer = *citation.URL + "  ·  " + footer
	case citation.FilePath != nil && *citation.FilePath != "":
		footer = *citation.FilePath + "  ·  " + footer
	}

	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	maxBody := available - 3

	var body []string
	if citation.Content == "" {
		body = []string{faint.Italic(true).Render("No passage text for this source.")}
	} else {
		rendered := model.renderer.RenderTerminal(citation.Content, width-4)
		lines, truncated := tui.Excerpt(rendered, maxBody)
		if truncated && len(lines) > 0 {
			lines[len(lines)-1] = faint.Render("…")
		}
		body = lines
	}

	return tui.Card{
		Title:  model.detail.Label,
		Body:   body,
		Footer: footer,
	}.Render(model.theme, width)
}
