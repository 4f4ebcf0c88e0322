// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package markdown

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/bureau-foundation/answerview/lib/schema/answer"
	"github.com/bureau-foundation/answerview/lib/tui"
)

// DefaultCodeStyle is the chroma style used for fenced code blocks
// when none is configured.
const DefaultCodeStyle = "monokai"

// wrapBreakpoints are the characters ansi.Wrap may break after in
// addition to spaces.
const wrapBreakpoints = " ,.;-+|"

// parserInstance is shared by every renderer. The goldmark parser is
// safe to reuse: each Parse call creates its own state.
var (
	parserInstance goldmark.Markdown
	parserOnce     sync.Once
)

func sharedParser() goldmark.Markdown {
	parserOnce.Do(func() {
		parserInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM, SuperSub),
		)
	})
	return parserInstance
}

// Parse parses markdown source into a goldmark document tree using the
// answer dialect (GFM tables plus superscript and subscript).
func Parse(source []byte) ast.Node {
	return sharedParser().Parser().Parse(text.NewReader(source))
}

// Renderer turns markdown source into display text of a given width.
// The answer viewer depends on this interface rather than on goldmark
// so its output can be tested with any renderer.
type Renderer interface {
	RenderTerminal(source string, width int) string
}

// TerminalRenderer renders markdown as ANSI-styled terminal text.
type TerminalRenderer struct {
	theme     tui.Theme
	codeStyle string
}

// NewTerminalRenderer creates a renderer using the given theme and
// chroma style for code blocks. An empty codeStyle selects
// [DefaultCodeStyle].
func NewTerminalRenderer(theme tui.Theme, codeStyle string) *TerminalRenderer {
	if codeStyle == "" {
		codeStyle = DefaultCodeStyle
	}
	return &TerminalRenderer{theme: theme, codeStyle: codeStyle}
}

// RenderTerminal parses source and renders it word-wrapped to width.
// Soft line breaks become spaces so hard-wrapped source reflows at any
// width; code blocks and tables keep their layout.
func (r *TerminalRenderer) RenderTerminal(source string, width int) string {
	if source == "" {
		return ""
	}
	input := []byte(source)
	document := sharedParser().Parser().Parse(text.NewReader(input))

	// Output always goes to a bubbletea view, so force ANSI256 rather
	// than letting lipgloss detect the (possibly absent) terminal.
	// SetColorProfile is needed in addition to the termenv option:
	// the renderer otherwise re-detects from the environment.
	styles := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	styles.SetColorProfile(termenv.ANSI256)

	// trailingNewlines starts at 2 so the first block gets no leading
	// blank line.
	walker := &terminalWalker{
		source:           input,
		theme:            r.theme,
		codeStyle:        r.codeStyle,
		width:            width,
		styles:           styles,
		trailingNewlines: 2,
	}
	_ = ast.Walk(document, walker.walk)
	return strings.TrimRight(walker.output.String(), "\n")
}

// terminalWalker accumulates inline content per block and wraps it
// when the block closes. goldmark's streaming NodeRenderer callbacks
// don't fit accumulate-then-wrap, so this walks the AST directly.
type terminalWalker struct {
	source    []byte
	theme     tui.Theme
	codeStyle string
	width     int
	styles    *lipgloss.Renderer

	output strings.Builder
	inline strings.Builder

	// Nested block prefixes (blockquote bars, list indentation).
	prefixes    []prefix
	prefix      string
	prefixWidth int

	// bullet replaces prefix for the next emitted line only.
	bullet string

	// Counters rather than booleans so nested emphasis unwinds
	// correctly.
	bold          int
	italic        int
	strikethrough int

	lists []listState

	trailingNewlines int
}

type prefix struct {
	text  string
	width int
}

type listState struct {
	ordered bool
	next    int
	tight   bool
}

func (w *terminalWalker) style() lipgloss.Style {
	return w.styles.NewStyle()
}

// contentWidth is the wrap width after nesting prefixes, never below 10.
func (w *terminalWalker) contentWidth() int {
	return max(w.width-w.prefixWidth, 10)
}

func (w *terminalWalker) pushPrefix(value string, width int) {
	w.prefixes = append(w.prefixes, prefix{text: value, width: width})
	w.prefix += value
	w.prefixWidth += width
}

func (w *terminalWalker) popPrefix() {
	if len(w.prefixes) == 0 {
		return
	}
	top := w.prefixes[len(w.prefixes)-1]
	w.prefixes = w.prefixes[:len(w.prefixes)-1]
	w.prefix = w.prefix[:len(w.prefix)-len(top.text)]
	w.prefixWidth -= top.width
}

func (w *terminalWalker) tightList() bool {
	return len(w.lists) > 0 && w.lists[len(w.lists)-1].tight
}

// write appends to the output and tracks how many newlines end it.
func (w *terminalWalker) write(value string) {
	if value == "" {
		return
	}
	w.output.WriteString(value)
	trimmed := strings.TrimRight(value, "\n")
	newlines := len(value) - len(trimmed)
	if trimmed == "" {
		w.trailingNewlines += newlines
	} else {
		w.trailingNewlines = newlines
	}
}

func (w *terminalWalker) endLine() {
	if w.trailingNewlines < 1 {
		w.write("\n")
	}
}

func (w *terminalWalker) blankLine() {
	for w.trailingNewlines < 2 {
		w.write("\n")
	}
}

// linePrefix returns the pending bullet for the first line of a list
// item, and the nesting prefix otherwise.
func (w *terminalWalker) linePrefix() string {
	if w.bullet != "" {
		value := w.bullet
		w.bullet = ""
		return value
	}
	return w.prefix
}

func (w *terminalWalker) withPrefixes(content string) string {
	lines := strings.Split(content, "\n")
	for index, line := range lines {
		if index == 0 {
			lines[index] = w.linePrefix() + line
		} else {
			lines[index] = w.prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// flushInline wraps the collected inline content and resets the buffer.
func (w *terminalWalker) flushInline() string {
	content := w.inline.String()
	w.inline.Reset()
	if content == "" {
		return ""
	}
	return w.withPrefixes(w.wrap(content))
}

// wrap word-wraps content to the content width. ansi.Wrap lets a
// trailing breakpoint character hang one column past the limit, so the
// result is hard-wrapped as well.
func (w *terminalWalker) wrap(content string) string {
	width := w.contentWidth()
	return ansi.Hardwrap(ansi.Wrap(content, width, wrapBreakpoints), width, true)
}

func (w *terminalWalker) styledText(content string) string {
	style := w.style().Foreground(w.theme.NormalText)
	if w.bold > 0 {
		style = style.Bold(true)
	}
	if w.italic > 0 {
		style = style.Italic(true)
	}
	if w.strikethrough > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

// childInline renders a node's children into a string without
// disturbing the caller's inline buffer or emphasis state.
func (w *terminalWalker) childInline(node ast.Node) string {
	saved := w.inline.String()
	bold, italic, strikethrough := w.bold, w.italic, w.strikethrough

	w.inline.Reset()
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		_ = ast.Walk(child, w.walk)
	}
	result := w.inline.String()

	w.inline.Reset()
	w.inline.WriteString(saved)
	w.bold, w.italic, w.strikethrough = bold, italic, strikethrough
	return result
}

func (w *terminalWalker) blockLines(node ast.Node) string {
	var content strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		content.Write(segment.Value(w.source))
	}
	return content.String()
}

func (w *terminalWalker) highlight(code, language string) string {
	faint := w.style().Foreground(w.theme.FaintText)
	if language == "" {
		return faint.Render(code)
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, code, language, "terminal256", w.codeStyle); err != nil {
		return faint.Render(code)
	}
	return buffer.String()
}

func (w *terminalWalker) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindDocument:

	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			w.inline.Reset()
			break
		}
		if flushed := w.flushInline(); flushed != "" {
			w.write(flushed)
			w.endLine()
			if !w.tightList() {
				w.blankLine()
			}
		}

	case ast.KindHeading:
		if entering {
			w.inline.Reset()
		} else {
			w.heading(node.(*ast.Heading))
		}

	case ast.KindFencedCodeBlock:
		if entering {
			block := node.(*ast.FencedCodeBlock)
			w.codeLines(w.highlight(w.blockLines(block), string(block.Language(w.source))))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindCodeBlock:
		if entering {
			w.codeLines(w.style().Foreground(w.theme.FaintText).Render(w.blockLines(node)))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindBlockquote:
		if entering {
			w.pushPrefix("│ ", 2)
		} else {
			w.popPrefix()
			w.blankLine()
		}

	case ast.KindList:
		if entering {
			list := node.(*ast.List)
			w.lists = append(w.lists, listState{ordered: list.IsOrdered(), next: list.Start, tight: list.IsTight})
		} else {
			w.lists = w.lists[:len(w.lists)-1]
			if !w.tightList() {
				w.blankLine()
			}
		}

	case ast.KindListItem:
		if entering {
			w.enterListItem()
		} else {
			w.popPrefix()
			if w.tightList() {
				w.endLine()
			} else {
				w.blankLine()
			}
		}

	case ast.KindThematicBreak:
		if entering {
			rule := w.style().Foreground(w.theme.BorderColor).Render(strings.Repeat("─", w.contentWidth()))
			w.blankLine()
			w.write(w.withPrefixes(rule))
			w.endLine()
			w.blankLine()
		}

	case ast.KindHTMLBlock:
		if entering {
			if stripped := strings.TrimSpace(stripTags(w.blockLines(node))); stripped != "" {
				w.write(w.withPrefixes(w.style().Foreground(w.theme.FaintText).Render(stripped)))
				w.endLine()
				w.blankLine()
			}
		}
		return ast.WalkSkipChildren, nil

	case ast.KindText:
		if entering {
			textNode := node.(*ast.Text)
			w.inline.WriteString(w.styledText(string(textNode.Segment.Value(w.source))))
			if textNode.SoftLineBreak() {
				w.inline.WriteString(" ")
			}
			if textNode.HardLineBreak() {
				w.inline.WriteString("\n")
			}
		}

	case ast.KindString:
		if entering {
			w.inline.WriteString(w.styledText(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		counter := &w.italic
		if node.(*ast.Emphasis).Level >= 2 {
			counter = &w.bold
		}
		if entering {
			*counter++
		} else {
			*counter--
		}

	case ast.KindCodeSpan:
		if entering {
			w.inline.WriteString(w.style().Foreground(w.theme.FaintText).Render(w.plainText(node)))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindLink:
		if entering {
			w.link(node.(*ast.Link))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(w.source))
			w.inline.WriteString(w.style().Foreground(w.theme.LinkForeground).Underline(true).Render(url))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindImage:
		if entering {
			image := node.(*ast.Image)
			faint := w.style().Foreground(w.theme.FaintText)
			w.inline.WriteString(faint.Render("[" + ansi.Strip(w.childInline(image)) + "]"))
			if destination := string(image.Destination); destination != "" {
				w.inline.WriteString(" " + faint.Render("("+destination+")"))
			}
		}
		return ast.WalkSkipChildren, nil

	case ast.KindRawHTML:
		if entering {
			raw := node.(*ast.RawHTML)
			var html strings.Builder
			for index := 0; index < raw.Segments.Len(); index++ {
				segment := raw.Segments.At(index)
				html.Write(segment.Value(w.source))
			}
			if stripped := stripTags(html.String()); stripped != "" {
				w.inline.WriteString(w.style().Foreground(w.theme.FaintText).Render(stripped))
			}
		}

	case extast.KindStrikethrough:
		if entering {
			w.strikethrough++
		} else {
			w.strikethrough--
		}

	case extast.KindTable:
		if entering {
			w.table(node.(*extast.Table))
		}
		return ast.WalkSkipChildren, nil

	case extast.KindTaskCheckBox:
		if entering {
			if node.(*extast.TaskCheckBox).IsChecked {
				w.inline.WriteString(w.styledText("[x] "))
			} else {
				w.inline.WriteString(w.styledText("[ ] "))
			}
		}

	case KindSuperscript:
		if entering {
			w.inline.WriteString(w.styledText(toSuperscript(w.plainText(node))))
		}
		return ast.WalkSkipChildren, nil

	case KindSubscript:
		if entering {
			w.inline.WriteString(w.styledText(toSubscript(w.plainText(node))))
		}
		return ast.WalkSkipChildren, nil
	}

	return ast.WalkContinue, nil
}

func (w *terminalWalker) heading(heading *ast.Heading) {
	// The heading style replaces the inline NormalText styling.
	content := ansi.Strip(w.inline.String())
	w.inline.Reset()
	if content == "" {
		return
	}
	style := w.style().Bold(true).Foreground(w.theme.NormalText)
	if heading.Level <= 2 {
		style = style.Foreground(w.theme.HeaderForeground)
	}
	w.blankLine()
	w.write(w.withPrefixes(w.wrap(style.Render(content))))
	w.endLine()
	w.blankLine()
}

func (w *terminalWalker) codeLines(rendered string) {
	w.blankLine()
	for _, line := range strings.Split(strings.TrimRight(rendered, "\n"), "\n") {
		w.write(w.linePrefix() + line)
		w.endLine()
	}
	w.blankLine()
}

func (w *terminalWalker) enterListItem() {
	if len(w.lists) == 0 {
		return
	}
	list := &w.lists[len(w.lists)-1]
	marker := "- "
	if list.ordered {
		marker = fmt.Sprintf("%d. ", list.next)
		list.next++
	}
	// Markers are ASCII, so byte length is display width.
	w.bullet = w.prefix + marker
	w.pushPrefix(strings.Repeat(" ", len(marker)), len(marker))
}

// link renders citation links as a compact "[N]" marker and other
// links as their text followed by the faint destination.
func (w *terminalWalker) link(link *ast.Link) {
	destination := string(link.Destination)
	if _, isCitation := answer.ParseCitationTarget(destination); isCitation {
		label := w.plainText(link)
		w.inline.WriteString(w.style().Foreground(w.theme.LinkForeground).Bold(true).Render("[" + label + "]"))
		return
	}

	w.inline.WriteString(w.childInline(link))
	if destination != "" {
		w.inline.WriteString(" " + w.style().Foreground(w.theme.FaintText).Render("("+destination+")"))
	}
}

// plainText concatenates the text of a node's descendants, ignoring
// all formatting.
func (w *terminalWalker) plainText(node ast.Node) string {
	var content strings.Builder
	_ = ast.Walk(node, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch typed := child.(type) {
		case *ast.Text:
			content.Write(typed.Segment.Value(w.source))
		case *ast.String:
			content.Write(typed.Value)
		}
		return ast.WalkContinue, nil
	})
	return content.String()
}

func (w *terminalWalker) table(table *extast.Table) {
	var header []string
	var rows [][]string
	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		var cells []string
		for cell := child.FirstChild(); cell != nil; cell = cell.NextSibling() {
			if cell.Kind() == extast.KindTableCell {
				cells = append(cells, w.childInline(cell))
			}
		}
		switch child.Kind() {
		case extast.KindTableHeader:
			header = cells
		case extast.KindTableRow:
			rows = append(rows, cells)
		}
	}

	columns := len(header)
	if columns == 0 && len(rows) > 0 {
		columns = len(rows[0])
	}
	if columns == 0 {
		return
	}

	widths := make([]int, columns)
	for _, row := range append([][]string{header}, rows...) {
		for index, cell := range row {
			if index < columns {
				widths[index] = max(widths[index], lipgloss.Width(cell))
			}
		}
	}

	// Shrink proportionally when the table is wider than the pane,
	// keeping at least 3 columns per cell.
	const gap = "  "
	total := len(gap) * (columns - 1)
	for _, width := range widths {
		total += width
	}
	if available := w.contentWidth(); total > available {
		usable := max(available-len(gap)*(columns-1), columns*3)
		for index := range widths {
			widths[index] = max(widths[index]*usable/total, 3)
		}
	}

	w.blankLine()
	if len(header) > 0 {
		bold := w.style().Bold(true).Foreground(w.theme.NormalText)
		w.write(w.linePrefix() + bold.Render(formatRow(header, widths, table.Alignments, gap)))
		w.endLine()

		rules := make([]string, columns)
		for index, width := range widths {
			rules[index] = strings.Repeat("─", width)
		}
		w.write(w.prefix + w.style().Foreground(w.theme.BorderColor).Render(strings.Join(rules, gap)))
		w.endLine()
	}
	for _, row := range rows {
		w.write(w.linePrefix() + formatRow(row, widths, table.Alignments, gap))
		w.endLine()
	}
	w.blankLine()
}

// formatRow pads or truncates each cell to its column width.
func formatRow(cells []string, widths []int, alignments []extast.Alignment, gap string) string {
	parts := make([]string, len(widths))
	for index, width := range widths {
		var cell string
		if index < len(cells) {
			cell = cells[index]
		}
		if lipgloss.Width(cell) > width {
			cell = ansi.Truncate(cell, width, "…")
		}
		padding := max(width-lipgloss.Width(cell), 0)

		alignment := extast.AlignNone
		if index < len(alignments) {
			alignment = alignments[index]
		}
		switch alignment {
		case extast.AlignRight:
			cell = strings.Repeat(" ", padding) + cell
		case extast.AlignCenter:
			left := padding / 2
			cell = strings.Repeat(" ", left) + cell + strings.Repeat(" ", padding-left)
		default:
			cell += strings.Repeat(" ", padding)
		}
		parts[index] = cell
	}
	return strings.Join(parts, gap)
}

var (
	superscriptDigits = []rune("⁰¹²³⁴⁵⁶⁷⁸⁹")
	subscriptDigits   = []rune("₀₁₂₃₄₅₆₇₈₉")
)

// toSuperscript maps an all-digit string to Unicode superscript
// digits. Anything else is shown as ^text.
func toSuperscript(value string) string {
	if mapped, ok := mapDigits(value, superscriptDigits); ok {
		return mapped
	}
	return "^" + value
}

// toSubscript maps an all-digit string to Unicode subscript digits.
// Anything else is shown as _text.
func toSubscript(value string) string {
	if mapped, ok := mapDigits(value, subscriptDigits); ok {
		return mapped
	}
	return "_" + value
}

func mapDigits(value string, digits []rune) (string, bool) {
	if value == "" {
		return "", false
	}
	var result strings.Builder
	for _, character := range value {
		if character < '0' || character > '9' {
			return "", false
		}
		result.WriteRune(digits[character-'0'])
	}
	return result.String(), true
}

// stripTags removes HTML tags, keeping only text content.
func stripTags(html string) string {
	var result strings.Builder
	inTag := false
	for _, character := range html {
		switch {
		case character == '<':
			inTag = true
		case character == '>':
			inTag = false
		case !inTag:
			result.WriteRune(character)
		}
	}
	return result.String()
}
