// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package citation

import (
	"strconv"
	"strings"
	"testing"

	"github.com/bureau-foundation/answerview/lib/schema/answer"
)

// testCitations returns count citations titled "Source 1".."Source N".
func testCitations(count int) []answer.Citation {
	citations := make([]answer.Citation, count)
	for index := range citations {
		number := strconv.Itoa(index + 1)
		citations[index] = answer.Citation{
			Title:   answer.String("Source " + number),
			Content: "Passage " + number,
			ChunkID: answer.String(number),
		}
	}
	return citations
}

func TestNormalizeFirstAppearanceOrder(t *testing.T) {
	record := answer.Record{
		Text:      "Alpha [doc2] beta [doc1] gamma [doc2].",
		Citations: testCitations(2),
	}

	parsed := Normalize(record)

	want := "Alpha [^1^](#doc2) beta [^2^](#doc1) gamma [^1^](#doc2)."
	if parsed.MarkdownFormatText != want {
		t.Errorf("text =\n  %q\nwant\n  %q", parsed.MarkdownFormatText, want)
	}
	if len(parsed.Citations) != 2 {
		t.Fatalf("got %d citations, want 2", len(parsed.Citations))
	}

	first := parsed.Citations[0]
	if first.TitleValue() != "Source 2" || first.ID != "2" || first.ReindexID == nil || *first.ReindexID != "1" {
		t.Errorf("citation 1 = title %q id %q reindex %v, want Source 2 / 2 / 1",
			first.TitleValue(), first.ID, first.ReindexID)
	}
	second := parsed.Citations[1]
	if second.TitleValue() != "Source 1" || second.ID != "1" || second.ReindexID == nil || *second.ReindexID != "2" {
		t.Errorf("citation 2 = title %q id %q reindex %v, want Source 1 / 1 / 2",
			second.TitleValue(), second.ID, second.ReindexID)
	}
}

func TestNormalizeDenseNumbering(t *testing.T) {
	record := answer.Record{
		Text:      "[doc5][doc3] x [doc5] [doc1] [doc4] [doc3] [doc2]",
		Citations: testCitations(5),
	}

	parsed := Normalize(record)

	wantIDs := []string{"5", "3", "1", "4", "2"}
	if len(parsed.Citations) != len(wantIDs) {
		t.Fatalf("got %d citations, want %d", len(parsed.Citations), len(wantIDs))
	}
	for position, citation := range parsed.Citations {
		if citation.ID != wantIDs[position] {
			t.Errorf("citation %d id = %q, want %q", position+1, citation.ID, wantIDs[position])
		}
		wantDisplay := strconv.Itoa(position + 1)
		if citation.ReindexID == nil || *citation.ReindexID != wantDisplay {
			t.Errorf("citation %d reindex = %v, want %s", position+1, citation.ReindexID, wantDisplay)
		}
		marker := "[^" + wantDisplay + "^](#doc" + citation.ID + ")"
		if !strings.Contains(parsed.MarkdownFormatText, marker) {
			t.Errorf("text missing marker %q:\n%s", marker, parsed.MarkdownFormatText)
		}
	}
}

func TestNormalizeInvalidMarkersStayLiteral(t *testing.T) {
	record := answer.Record{
		Text:      "a [doc0] b [doc3] c [doc1] d [doc99999999999999999999999] e [docx] f [doc2]",
		Citations: testCitations(2),
	}

	parsed := Normalize(record)

	want := "a [doc0] b [doc3] c [^1^](#doc1) d [doc99999999999999999999999] e [docx] f [^2^](#doc2)"
	if parsed.MarkdownFormatText != want {
		t.Errorf("text =\n  %q\nwant\n  %q", parsed.MarkdownFormatText, want)
	}
	if len(parsed.Citations) != 2 {
		t.Errorf("got %d citations, want 2", len(parsed.Citations))
	}
}

func TestNormalizeNoCitations(t *testing.T) {
	record := answer.Record{Text: "Nothing to cite here [doc1]."}

	parsed := Normalize(record)

	if parsed.MarkdownFormatText != record.Text {
		t.Errorf("text = %q, want unchanged %q", parsed.MarkdownFormatText, record.Text)
	}
	if len(parsed.Citations) != 0 {
		t.Errorf("got %d citations, want 0", len(parsed.Citations))
	}
}

func TestNormalizeEmptyText(t *testing.T) {
	parsed := Normalize(answer.Record{Citations: testCitations(3)})
	if parsed.MarkdownFormatText != "" {
		t.Errorf("text = %q, want empty", parsed.MarkdownFormatText)
	}
	if len(parsed.Citations) != 0 {
		t.Errorf("got %d citations, want 0", len(parsed.Citations))
	}
}

func TestNormalizeIsFixedPoint(t *testing.T) {
	citations := testCitations(4)
	record := answer.Record{
		Text:      "Intro [doc3].\n\n| a | b |\n|---|---|\n| [doc1] | [doc3] |\n\nEnd [doc4][doc1].",
		Citations: citations,
	}

	first := Normalize(record)
	second := Normalize(answer.Record{Text: first.MarkdownFormatText, Citations: citations})

	if second.MarkdownFormatText != first.MarkdownFormatText {
		t.Errorf("re-normalized text differs:\nfirst:  %q\nsecond: %q",
			first.MarkdownFormatText, second.MarkdownFormatText)
	}
	if len(second.Citations) != len(first.Citations) {
		t.Fatalf("re-normalized citation count = %d, want %d", len(second.Citations), len(first.Citations))
	}
	for index := range first.Citations {
		if second.Citations[index].ID != first.Citations[index].ID {
			t.Errorf("citation %d id = %q, want %q", index+1, second.Citations[index].ID, first.Citations[index].ID)
		}
		if *second.Citations[index].ReindexID != *first.Citations[index].ReindexID {
			t.Errorf("citation %d reindex = %q, want %q", index+1,
				*second.Citations[index].ReindexID, *first.Citations[index].ReindexID)
		}
	}
}

func TestNormalizeRepeatable(t *testing.T) {
	record := answer.Record{Text: "x [doc2] y [doc1]", Citations: testCitations(2)}
	first := Normalize(record)
	second := Normalize(record)
	if first.MarkdownFormatText != second.MarkdownFormatText {
		t.Errorf("repeated normalization differs: %q vs %q", first.MarkdownFormatText, second.MarkdownFormatText)
	}
}

func TestNormalizeDoesNotModifyRecord(t *testing.T) {
	citations := testCitations(1)
	record := answer.Record{Text: "see [doc1]", Citations: citations}

	parsed := Normalize(record)
	*parsed.Citations[0].Title = "changed"

	if citations[0].ID != "" {
		t.Errorf("input citation id = %q, want empty", citations[0].ID)
	}
	if citations[0].ReindexID != nil {
		t.Errorf("input citation reindex = %q, want absent", *citations[0].ReindexID)
	}
	if citations[0].TitleValue() != "Source 1" {
		t.Errorf("input citation title = %q, want Source 1", citations[0].TitleValue())
	}
}

func TestTokenizeReassembles(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"[doc1]",
		"[doc1][doc2]",
		"a [doc0] b [^1^](#doc2) c [doc] d",
		"unicode ✓ [doc12] ünïcödé",
	}
	for _, input := range inputs {
		var rebuilt strings.Builder
		for _, token := range Tokenize(input) {
			rebuilt.WriteString(token.Text)
		}
		if rebuilt.String() != input {
			t.Errorf("Tokenize(%q) reassembled to %q", input, rebuilt.String())
		}
	}
}

func TestTokenizeSpans(t *testing.T) {
	tokens := Tokenize("a [doc0] b [doc7] [^3^](#doc2)")

	want := []Token{
		{Kind: TokenLiteral, Text: "a [doc0] b "},
		{Kind: TokenMarker, Text: "[doc7]", Index: 7},
		{Kind: TokenLiteral, Text: " "},
		{Kind: TokenMarker, Text: "[^3^](#doc2)", Index: 2},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens %+v, want %d", len(tokens), tokens, len(want))
	}
	for index := range want {
		if tokens[index] != want[index] {
			t.Errorf("token %d = %+v, want %+v", index, tokens[index], want[index])
		}
	}
}

func TestParsedResolveTarget(t *testing.T) {
	parsed := Normalize(answer.Record{
		Text:      "b [doc2] a [doc1]",
		Citations: testCitations(2),
	})

	citation, ok := parsed.ResolveTarget("#doc1")
	if !ok {
		t.Fatal("ResolveTarget(#doc1) not found")
	}
	if citation.TitleValue() != "Source 1" {
		t.Errorf("resolved title = %q, want Source 1", citation.TitleValue())
	}

	byNumber, ok := parsed.Citation(1)
	if !ok || byNumber.TitleValue() != "Source 2" {
		t.Errorf("Citation(1) = %q, %v; want Source 2", byNumber.TitleValue(), ok)
	}

	for _, destination := range []string{"#doc3", "#doc", "#doc0", "https://example.com", "#docx"} {
		if _, ok := parsed.ResolveTarget(destination); ok {
			t.Errorf("ResolveTarget(%q) resolved, want not found", destination)
		}
	}
}
