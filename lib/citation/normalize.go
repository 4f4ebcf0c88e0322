// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package citation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bureau-foundation/answerview/lib/schema/answer"
)

// markerPattern matches both citation marker forms:
//
//   - the raw provider form "[doc3]" (group 1 holds the index)
//   - the normalized link form "[^2^](#doc3)" (group 3 holds the
//     original index; group 2 is the previous display number, which
//     is recomputed and therefore ignored)
//
// Accepting the normalized form makes Normalize a fixed point: feeding
// its own output back in with the same citations produces the same
// text and numbering.
var markerPattern = regexp.MustCompile(`\[doc(\d+)\]|\[\^(\d+)\^\]\(#doc(\d+)\)`)

// TokenKind distinguishes literal text from citation markers.
type TokenKind int

const (
	// TokenLiteral is a span of answer text copied through unchanged.
	TokenLiteral TokenKind = iota
	// TokenMarker is a citation marker referencing a citation by its
	// original 1-based index.
	TokenMarker
)

// Token is one span of answer text produced by [Tokenize].
type Token struct {
	Kind TokenKind

	// Text is the exact source text of the span.
	Text string

	// Index is the original 1-based citation index for TokenMarker
	// tokens. Zero for literals.
	Index int
}

// Tokenize splits answer text into an ordered sequence of literal and
// marker spans. Concatenating the Text of every token reproduces the
// input exactly. Markers whose index does not parse as a positive
// integer (zero, or too many digits for an int) are returned as
// literals.
func Tokenize(text string) []Token {
	matches := markerPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		if text == "" {
			return nil
		}
		return []Token{{Kind: TokenLiteral, Text: text}}
	}

	var tokens []Token
	appendLiteral := func(literal string) {
		if literal == "" {
			return
		}
		// Merge adjacent literals so rejected markers don't fragment
		// the surrounding text.
		if last := len(tokens) - 1; last >= 0 && tokens[last].Kind == TokenLiteral {
			tokens[last].Text += literal
			return
		}
		tokens = append(tokens, Token{Kind: TokenLiteral, Text: literal})
	}

	position := 0
	for _, match := range matches {
		start, end := match[0], match[1]
		appendLiteral(text[position:start])
		position = end

		var digits string
		if match[2] >= 0 {
			digits = text[match[2]:match[3]]
		} else {
			digits = text[match[6]:match[7]]
		}
		index, err := strconv.Atoi(digits)
		if err != nil || index < 1 {
			appendLiteral(text[start:end])
			continue
		}
		tokens = append(tokens, Token{Kind: TokenMarker, Text: text[start:end], Index: index})
	}
	appendLiteral(text[position:])
	return tokens
}

// Normalize converts a raw answer into its display form.
//
// Each distinct citation index receives the next display number the
// first time it appears in the text; later occurrences reuse it. Every
// occurrence is rewritten as a superscript markdown link,
// "[^K^](#docN)", whose label is the display number K and whose
// destination names the original index N (see
// [answer.Parsed.ResolveTarget]). The returned citations are copies
// ordered by display number, each with ID set to N and ReindexID set
// to K.
//
// Markers referring to an index outside record.Citations stay in the
// text unchanged and consume no display number.
func Normalize(record answer.Record) answer.Parsed {
	tokens := Tokenize(record.Text)

	displayNumbers := make(map[int]int)
	var citations []answer.Citation
	var output strings.Builder
	output.Grow(len(record.Text))

	for _, token := range tokens {
		if token.Kind == TokenLiteral || token.Index > len(record.Citations) {
			output.WriteString(token.Text)
			continue
		}

		displayNumber, seen := displayNumbers[token.Index]
		if !seen {
			displayNumber = len(citations) + 1
			displayNumbers[token.Index] = displayNumber

			resolved := record.Citations[token.Index-1].Clone()
			resolved.ID = strconv.Itoa(token.Index)
			resolved.ReindexID = answer.String(strconv.Itoa(displayNumber))
			citations = append(citations, resolved)
		}

		output.WriteString(markerLink(displayNumber, token.Index))
	}

	return answer.Parsed{
		MarkdownFormatText: output.String(),
		Citations:          citations,
	}
}

// markerLink renders the normalized marker for a citation.
func markerLink(displayNumber, index int) string {
	return "[^" + strconv.Itoa(displayNumber) + "^](" + answer.CitationTarget(index) + ")"
}
