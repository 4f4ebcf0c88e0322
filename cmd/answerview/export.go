// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/answerview/lib/answerui"
	"github.com/bureau-foundation/answerview/lib/citation"
	"github.com/bureau-foundation/answerview/lib/cli"
	"github.com/bureau-foundation/answerview/lib/config"
	"github.com/bureau-foundation/answerview/lib/markdown"
	"github.com/bureau-foundation/answerview/lib/schema/answer"
)

// plainWidth is the wrap width for --plain when the config sets none.
const plainWidth = 80

// writePlain renders the answer body followed by the deduplicated
// reference list and the disclaimer. The body keeps its ANSI styling
// for a pager such as less -R.
func writePlain(writer io.Writer, parsed answer.Parsed, cfg *config.Config) error {
	width := cfg.Display.MaxWidth
	if width == 0 {
		width = plainWidth
	}

	renderer := markdown.NewTerminalRenderer(cfg.Theme(), cfg.Display.CodeStyle)
	var output strings.Builder
	output.WriteString(renderer.RenderTerminal(parsed.MarkdownFormatText, width))
	output.WriteString("\n")

	references := citation.Deduplicate(parsed.Citations)
	if len(parsed.Citations) > 0 {
		output.WriteString("\n")
		output.WriteString(answerui.ReferenceCountLabel(len(parsed.Citations)))
		output.WriteString(":\n")
		for index, entry := range references {
			line := fmt.Sprintf("  [%d] %s", index+1, citation.Label(entry, index+1, false))
			if entry.URL != nil && *entry.URL != "" {
				line += " <" + *entry.URL + ">"
			}
			output.WriteString(ansi.Truncate(line, width, "…"))
			output.WriteString("\n")
		}
	}

	if cfg.Display.ShowDisclaimer {
		disclaimer := cfg.Display.Disclaimer
		if disclaimer == "" {
			disclaimer = answerui.DefaultDisclaimer
		}
		output.WriteString("\n")
		output.WriteString(disclaimer)
		output.WriteString("\n")
	}

	if _, err := io.WriteString(writer, output.String()); err != nil {
		return cli.Internal("writing answer: %w", err)
	}
	return nil
}

// writeHTML renders the answer as an HTML fragment. The references
// list carries an anchor for every citation number, so each in-text
// citation link lands on its source even after duplicates merge.
func writeHTML(writer io.Writer, parsed answer.Parsed) error {
	body, err := markdown.RenderHTML(parsed.MarkdownFormatText)
	if err != nil {
		return cli.Internal("%w", err)
	}

	var output strings.Builder
	output.WriteString(`<div class="answer">` + "\n")
	output.WriteString(body)

	if len(parsed.Citations) > 0 {
		references := citation.Deduplicate(parsed.Citations)
		anchors := make([][]string, len(references))
		for _, entry := range parsed.Citations {
			for index, reference := range references {
				if citation.SameSource(entry, reference) {
					anchors[index] = append(anchors[index], entry.ID)
					break
				}
			}
		}

		fmt.Fprintf(&output, "<details class=\"references\">\n<summary>%s</summary>\n<ol>\n",
			html.EscapeString(answerui.ReferenceCountLabel(len(parsed.Citations))))
		for index, entry := range references {
			output.WriteString("<li>")
			for _, id := range anchors[index] {
				number, err := strconv.Atoi(id)
				if err != nil {
					continue
				}
				fmt.Fprintf(&output, `<a id="%s"></a>`, strings.TrimPrefix(answer.CitationTarget(number), "#"))
			}
			label := html.EscapeString(citation.Label(entry, index+1, false))
			if entry.URL != nil && markdown.SafeLinkURL(*entry.URL) {
				fmt.Fprintf(&output, `<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`,
					html.EscapeString(*entry.URL), label)
			} else {
				output.WriteString(label)
			}
			output.WriteString("</li>\n")
		}
		output.WriteString("</ol>\n</details>\n")
	}
	output.WriteString("</div>\n")

	if _, err := io.WriteString(writer, output.String()); err != nil {
		return cli.Internal("writing answer: %w", err)
	}
	return nil
}
