// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package answerui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/answerview/lib/citation"
	"github.com/bureau-foundation/answerview/lib/markdown"
	"github.com/bureau-foundation/answerview/lib/schema/answer"
	"github.com/bureau-foundation/answerview/lib/tui"
)

// DefaultDisclaimer is the notice shown under every answer.
const DefaultDisclaimer = "Our AI Chat can make mistakes. Consider checking important information."

// Glyphs for the reference panel chevron.
const (
	chevronClosed = "▸"
	chevronOpen   = "▾"
)

// Focus positions. Chips follow focusFirstChip in panel order.
const (
	focusBody = iota
	focusLabel
	focusChevron
	focusFirstChip
)

// chipGap is the horizontal space between adjacent chips.
const chipGap = 1

// CitationSelectedMsg is emitted once each time a reference chip is
// activated by mouse click, Enter, or Space.
type CitationSelectedMsg struct {
	Citation answer.Citation

	// Label is the chip's untruncated label.
	Label string
}

// SelectHandler receives selected citations. The returned command, if
// any, is run by the bubbletea program.
type SelectHandler func(CitationSelectedMsg) tea.Cmd

// Options configures a [Model]. The zero value is usable: default
// theme, key map, renderer, and disclaimer, and no selection handler.
type Options struct {
	Theme tui.Theme

	// Keys overrides [DefaultKeyMap] when non-nil.
	Keys *KeyMap

	// Renderer renders the answer body. Nil selects a
	// markdown.TerminalRenderer using Theme and CodeStyle.
	Renderer  markdown.Renderer
	CodeStyle string

	// MaxWidth caps the answer body's wrap width. Zero means the
	// full terminal width.
	MaxWidth int

	// Disclaimer replaces [DefaultDisclaimer] when non-empty.
	// HideDisclaimer suppresses the line entirely.
	Disclaimer     string
	HideDisclaimer bool

	// Memo caches normalization results across answers. Nil
	// normalizes directly.
	Memo *citation.Memo

	// OnSelect is called for every [CitationSelectedMsg].
	OnSelect SelectHandler
}

// chip is one entry in the reference panel.
type chip struct {
	citation answer.Citation

	// label is the truncated form shown on the chip; description is
	// the full label shown in the status line while focused.
	label       string
	description string
}

// chipPlacement is where a chip landed in the wrapped chip rows.
// Columns are half-open: [x0, x1).
type chipPlacement struct {
	row    int
	x0, x1 int
	text   string
}

// Model is the bubbletea model for one answer: the scrollable
// markdown body, the reference panel, and a status line.
type Model struct {
	theme          tui.Theme
	keys           KeyMap
	renderer       markdown.Renderer
	maxWidth       int
	disclaimer     string
	showDisclaimer bool
	memo           *citation.Memo
	onSelect       SelectHandler

	parsed answer.Parsed
	chips  []chip
	panel  PanelState
	focus  int

	viewport   viewport.Model
	width      int
	height     int
	ready      bool
	placements []chipPlacement
	chipRows   int

	statusLog      string
	statusLevel    slog.Level
	statusSequence int
}

// NewModel creates a viewer for record. The reference panel starts
// closed.
func NewModel(record answer.Record, options Options) Model {
	theme := options.Theme
	if theme == (tui.Theme{}) {
		theme = tui.DefaultTheme
	}
	keys := DefaultKeyMap
	if options.Keys != nil {
		keys = *options.Keys
	}
	renderer := options.Renderer
	if renderer == nil {
		renderer = markdown.NewTerminalRenderer(theme, options.CodeStyle)
	}
	disclaimer := options.Disclaimer
	if disclaimer == "" {
		disclaimer = DefaultDisclaimer
	}

	model := Model{
		theme:          theme,
		keys:           keys,
		renderer:       renderer,
		maxWidth:       options.MaxWidth,
		disclaimer:     disclaimer,
		showDisclaimer: !options.HideDisclaimer,
		memo:           options.Memo,
		onSelect:       options.OnSelect,
		viewport:       viewport.New(0, 0),
	}
	model.SetAnswer(record)
	return model
}

// SetAnswer replaces the displayed answer. The panel keeps its
// open/closed state; keyboard focus is clamped to what remains
// focusable.
func (model *Model) SetAnswer(record answer.Record) {
	if model.memo != nil {
		model.parsed = model.memo.Normalize(record)
	} else {
		model.parsed = citation.Normalize(record)
	}

	unique := citation.Deduplicate(model.parsed.Citations)
	model.chips = make([]chip, len(unique))
	for index, entry := range unique {
		model.chips[index] = chip{
			citation:    entry,
			label:       citation.Label(entry, index+1, true),
			description: citation.Label(entry, index+1, false),
		}
	}

	model.clampFocus()
	if model.ready {
		model.layout()
		model.renderBody()
	}
}

// Parsed returns the normalized answer being displayed.
func (model Model) Parsed() answer.Parsed {
	return model.parsed
}

// Panel returns the reference panel state.
func (model Model) Panel() PanelState {
	return model.panel
}

// ChipLabels returns the truncated label of every chip in panel order,
// whether or not the panel is open.
func (model Model) ChipLabels() []string {
	labels := make([]string, len(model.chips))
	for index, entry := range model.chips {
		labels[index] = entry.label
	}
	return labels
}

// CountLabel is the text of the reference-count label. It counts the
// normalized citations, duplicates included.
func (model Model) CountLabel() string {
	return ReferenceCountLabel(len(model.parsed.Citations))
}

// ReferenceCountLabel returns "1 relevant link" or "N relevant links".
func ReferenceCountLabel(count int) string {
	if count == 1 {
		return "1 relevant link"
	}
	return fmt.Sprintf("%d relevant links", count)
}

// BodyHeight is the number of rows the answer body occupies at the
// top of the view. It is zero before the first window size message.
func (model Model) BodyHeight() int {
	if !model.ready {
		return 0
	}
	return model.bodyHeight()
}

// hasAffordance reports whether the reference label and chevron are
// rendered at all.
func (model Model) hasAffordance() bool {
	return len(model.parsed.Citations) > 0
}

func (model Model) listVisible() bool {
	return model.hasAffordance() && model.panel.ShowList(len(model.chips))
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return model.handleKey(message)

	case tea.MouseMsg:
		cmd := model.handleMouse(message)
		return model, cmd

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.layout()
		model.renderBody()

	case CitationSelectedMsg:
		if model.onSelect != nil {
			return model, model.onSelect(message)
		}

	case statusLogMsg:
		model.statusSequence++
		model.statusLog = message.Summary
		model.statusLevel = message.Level
		sequence := model.statusSequence
		return model, tea.Tick(statusLogFadeDelay, func(time.Time) tea.Msg {
			return statusLogFadeMsg{Sequence: sequence}
		})

	case statusLogFadeMsg:
		if message.Sequence == model.statusSequence {
			model.statusLog = ""
		}
	}
	return model, nil
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.FocusNext):
		model.moveFocus(1)

	case key.Matches(message, model.keys.FocusPrevious):
		model.moveFocus(-1)

	case key.Matches(message, model.keys.Activate):
		cmd := model.activate()
		return model, cmd

	case key.Matches(message, model.keys.Up):
		model.viewport.LineUp(1)
	case key.Matches(message, model.keys.Down):
		model.viewport.LineDown(1)
	case key.Matches(message, model.keys.PageUp):
		model.viewport.HalfViewUp()
	case key.Matches(message, model.keys.PageDown):
		model.viewport.HalfViewDown()
	case key.Matches(message, model.keys.Home):
		model.viewport.GotoTop()
	case key.Matches(message, model.keys.End):
		model.viewport.GotoBottom()
	}
	return model, nil
}

// focusCount is the number of focus positions, including the body.
func (model Model) focusCount() int {
	if !model.hasAffordance() {
		return 1
	}
	count := focusFirstChip
	if model.listVisible() {
		count += len(model.chips)
	}
	return count
}

func (model *Model) moveFocus(delta int) {
	count := model.focusCount()
	model.focus = ((model.focus+delta)%count + count) % count
}

func (model *Model) clampFocus() {
	if model.focus >= model.focusCount() {
		model.focus = focusBody
	}
}

// activate performs the focused element's action.
func (model *Model) activate() tea.Cmd {
	switch {
	case model.focus == focusLabel:
		model.panel.ToggleLabel()
		model.afterToggle()
	case model.focus == focusChevron:
		model.panel.ToggleChevron()
		model.afterToggle()
	case model.focus >= focusFirstChip:
		return model.selectChip(model.focus - focusFirstChip)
	}
	return nil
}

func (model *Model) afterToggle() {
	model.clampFocus()
	if model.ready {
		model.layout()
	}
}

func (model *Model) selectChip(index int) tea.Cmd {
	if index < 0 || index >= len(model.chips) {
		return nil
	}
	selected := CitationSelectedMsg{
		Citation: model.chips[index].citation,
		Label:    model.chips[index].description,
	}
	return func() tea.Msg {
		return selected
	}
}

// Footer rows below the body, top to bottom: separator, reference row
// (label and chevron), chip rows, disclaimer, status line.
func (model Model) bodyHeight() int {
	footer := 2
	if model.hasAffordance() {
		footer++
		if model.listVisible() {
			footer += model.chipRows
		}
	}
	if model.showDisclaimer {
		footer++
	}
	return max(model.height-footer, 1)
}

// contentWidth excludes the scrollbar column.
func (model Model) contentWidth() int {
	return max(model.width-1, 1)
}

func (model Model) bodyWidth() int {
	width := model.contentWidth()
	if model.maxWidth > 0 {
		width = min(width, model.maxWidth)
	}
	return width
}

// layout places the chips and sizes the viewport.
func (model *Model) layout() {
	model.placeChips()
	model.viewport.Width = model.contentWidth()
	model.viewport.Height = model.bodyHeight()
}

func (model *Model) placeChips() {
	model.placements = make([]chipPlacement, len(model.chips))
	model.chipRows = 0
	if len(model.chips) == 0 {
		return
	}

	available := model.contentWidth()
	row, x := 0, 0
	for index, entry := range model.chips {
		text := entry.label
		if lipgloss.Width(text)+2 > available {
			text = ansi.Truncate(text, max(available-2, 1), "…")
		}
		width := lipgloss.Width(text) + 2
		if x > 0 && x+width > available {
			row++
			x = 0
		}
		model.placements[index] = chipPlacement{row: row, x0: x, x1: x + width, text: text}
		x += width + chipGap
	}
	model.chipRows = row + 1
}

func (model *Model) renderBody() {
	content := model.renderer.RenderTerminal(model.parsed.MarkdownFormatText, model.bodyWidth())
	if strings.TrimSpace(ansi.Strip(content)) == "" {
		content = lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("No answer text.")
	}
	model.viewport.SetContent(content)
}

// Screen rows of the footer elements.
func (model Model) separatorY() int {
	return model.bodyHeight()
}

func (model Model) referenceRowY() int {
	return model.separatorY() + 1
}

func (model Model) firstChipRowY() int {
	return model.referenceRowY() + 1
}

// chevronX returns the chevron's half-open column range on the
// reference row. The label is followed by one space.
func (model Model) chevronX() (int, int) {
	start := lipgloss.Width(model.CountLabel()) + 1
	return start, start + lipgloss.Width(chevronClosed)
}

func (model *Model) handleMouse(message tea.MouseMsg) tea.Cmd {
	if !model.ready {
		return nil
	}

	switch message.Button {
	case tea.MouseButtonWheelUp:
		if message.Y < model.bodyHeight() {
			model.viewport.LineUp(3)
		}
		return nil
	case tea.MouseButtonWheelDown:
		if message.Y < model.bodyHeight() {
			model.viewport.LineDown(3)
		}
		return nil
	case tea.MouseButtonLeft:
		if message.Action != tea.MouseActionPress {
			return nil
		}
	default:
		return nil
	}

	if !model.hasAffordance() {
		return nil
	}

	if message.Y == model.referenceRowY() {
		chevronStart, chevronEnd := model.chevronX()
		switch {
		case message.X >= 0 && message.X < lipgloss.Width(model.CountLabel()):
			model.focus = focusLabel
			model.panel.ToggleLabel()
			model.afterToggle()
		case message.X >= chevronStart && message.X < chevronEnd:
			model.focus = focusChevron
			model.panel.ToggleChevron()
			model.afterToggle()
		}
		return nil
	}

	if !model.listVisible() {
		return nil
	}
	row := message.Y - model.firstChipRowY()
	if row < 0 || row >= model.chipRows {
		return nil
	}
	for index, placement := range model.placements {
		if placement.row == row && message.X >= placement.x0 && message.X < placement.x1 {
			model.focus = focusFirstChip + index
			return model.selectChip(index)
		}
	}
	return nil
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	var sections []string

	bodyHeight := model.bodyHeight()
	body := lipgloss.NewStyle().
		Width(model.contentWidth()).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(model.viewport.View())
	scrollbar := tui.RenderScrollbar(
		model.theme, bodyHeight,
		model.viewport.TotalLineCount(), model.viewport.Height, model.viewport.YOffset,
		model.focus == focusBody,
	)
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, body, scrollbar))

	sections = append(sections, lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", model.width)))

	if model.hasAffordance() {
		sections = append(sections, model.renderReferenceRow())
		if model.listVisible() {
			sections = append(sections, model.renderChipRows()...)
		}
	}

	if model.showDisclaimer {
		disclaimer := ansi.Truncate(model.disclaimer, model.width, "…")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(model.theme.FaintText).
			Italic(true).
			Render(disclaimer))
	}

	sections = append(sections, model.renderStatus())
	return strings.Join(sections, "\n")
}

func (model Model) focusStyle(focused bool) lipgloss.Style {
	if focused {
		return lipgloss.NewStyle().
			Foreground(model.theme.FocusForeground).
			Background(model.theme.FocusBackground).
			Bold(true)
	}
	return lipgloss.NewStyle().Foreground(model.theme.LinkForeground)
}

func (model Model) renderReferenceRow() string {
	glyph := chevronClosed
	if model.panel.Open() {
		glyph = chevronOpen
	}
	label := model.focusStyle(model.focus == focusLabel).Underline(true).Render(model.CountLabel())
	chevron := model.focusStyle(model.focus == focusChevron).Render(glyph)
	return label + " " + chevron
}

func (model Model) renderChipRows() []string {
	rows := make([]strings.Builder, model.chipRows)
	columns := make([]int, model.chipRows)
	for index, placement := range model.placements {
		style := lipgloss.NewStyle().
			Foreground(model.theme.ChipForeground).
			Background(model.theme.ChipBackground)
		if model.focus == focusFirstChip+index {
			style = model.focusStyle(true)
		}
		row := &rows[placement.row]
		row.WriteString(strings.Repeat(" ", placement.x0-columns[placement.row]))
		row.WriteString(style.Render(" " + placement.text + " "))
		columns[placement.row] = placement.x1
	}

	lines := make([]string, len(rows))
	for index := range rows {
		lines[index] = rows[index].String()
	}
	return lines
}

// statusText returns the status line contents: a recent log message,
// the focused element's description, or key help.
func (model Model) statusText() (string, lipgloss.TerminalColor) {
	if model.statusLog != "" {
		color := model.theme.WarningText
		if model.statusLevel >= slog.LevelError {
			color = model.theme.ErrorText
		}
		return model.statusLog, color
	}

	switch {
	case model.focus == focusLabel:
		return "Open references", model.theme.NormalText
	case model.focus == focusChevron:
		if model.panel.Open() {
			return "Collapse references", model.theme.NormalText
		}
		return "Expand references", model.theme.NormalText
	case model.focus >= focusFirstChip && model.focus-focusFirstChip < len(model.chips):
		entry := model.chips[model.focus-focusFirstChip]
		description := entry.description
		if entry.citation.URL != nil && *entry.citation.URL != "" {
			description += "  " + *entry.citation.URL
		}
		return description, model.theme.NormalText
	}

	help := []string{"Tab focus", "⏎ select", "↑/↓ scroll", "q quit"}
	if !model.hasAffordance() {
		help = help[2:]
	}
	return strings.Join(help, " · "), model.theme.HelpText
}

func (model Model) renderStatus() string {
	text, color := model.statusText()
	return lipgloss.NewStyle().Foreground(color).Render(ansi.Truncate(text, model.width, "…"))
}
