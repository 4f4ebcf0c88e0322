// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Card is a bordered panel drawn over another view, used for detail
// popups. Body lines may carry ANSI styling; they are truncated to the
// card's inner width, never wrapped.
type Card struct {
	Title  string
	Body   []string
	Footer string
}

// Render draws the card at exactly width columns. Every returned line
// has the same display width, so the result can be passed to
// [SpliceOverlay].
func (card Card) Render(theme Theme, width int) []string {
	if width < 6 {
		return nil
	}
	innerWidth := width - 4

	border := lipgloss.NewStyle().Foreground(theme.BorderColor)
	title := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true)
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)

	lines := make([]string, 0, len(card.Body)+4)

	// ╭─ Title ─────╮
	heading := ansi.Truncate(card.Title, innerWidth-2, "…")
	fill := width - 5 - ansi.StringWidth(heading)
	if heading == "" {
		fill = width - 2
		lines = append(lines, border.Render("╭"+strings.Repeat("─", fill)+"╮"))
	} else {
		lines = append(lines, border.Render("╭─ ")+title.Render(heading)+border.Render(" "+strings.Repeat("─", fill)+"╮"))
	}

	for _, line := range card.Body {
		lines = append(lines, cardLine(border, line, innerWidth))
	}
	if card.Footer != "" {
		lines = append(lines, cardLine(border, faint.Render(ansi.Truncate(card.Footer, innerWidth, "…")), innerWidth))
	}

	lines = append(lines, border.Render("╰"+strings.Repeat("─", width-2)+"╯"))
	return lines
}

func cardLine(border lipgloss.Style, content string, innerWidth int) string {
	content = ansi.Truncate(content, innerWidth, "…")
	pad := innerWidth - ansi.StringWidth(content)
	if pad < 0 {
		pad = 0
	}
	return border.Render("│") + " " + content + "\x1b[0m" + strings.Repeat(" ", pad) + " " + border.Render("│")
}

// Excerpt returns at most maxLines lines of rendered text with leading
// and trailing blank lines removed. Styling is preserved; lines are not
// truncated. The second result reports whether lines were dropped.
func Excerpt(rendered string, maxLines int) ([]string, bool) {
	lines := strings.Split(rendered, "\n")
	for len(lines) > 0 && strings.TrimSpace(ansi.Strip(lines[0])) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(ansi.Strip(lines[len(lines)-1])) == "" {
		lines = lines[:len(lines)-1]
	}
	if maxLines <= 0 {
		return nil, len(lines) > 0
	}
	if len(lines) > maxLines {
		return lines[:maxLines], true
	}
	return lines, false
}

// SpliceOverlay replaces a rectangular region of a rendered view with
// overlay lines placed at (anchorX, anchorY) in screen coordinates.
// Truncation is ANSI-aware, so styling on either side of the overlay
// survives. Overlay rows outside the view are dropped.
func SpliceOverlay(view string, overlayLines []string, anchorX, anchorY int) string {
	if len(overlayLines) == 0 {
		return view
	}

	viewLines := strings.Split(view, "\n")
	overlayWidth := ansi.StringWidth(overlayLines[0])

	for index, overlayLine := range overlayLines {
		row := anchorY + index
		if row < 0 || row >= len(viewLines) {
			continue
		}

		viewLine := viewLines[row]
		viewLineWidth := ansi.StringWidth(viewLine)

		var result strings.Builder
		if anchorX > 0 {
			prefix := ansi.Truncate(viewLine, anchorX, "")
			result.WriteString(prefix)
			if gap := anchorX - ansi.StringWidth(prefix); gap > 0 {
				result.WriteString(strings.Repeat(" ", gap))
			}
		}
		result.WriteString("\x1b[0m")
		result.WriteString(overlayLine)
		result.WriteString("\x1b[0m")

		if suffixStart := anchorX + overlayWidth; suffixStart < viewLineWidth {
			result.WriteString(ansi.TruncateLeft(viewLine, suffixStart, ""))
		}

		viewLines[row] = result.String()
	}

	return strings.Join(viewLines, "\n")
}
