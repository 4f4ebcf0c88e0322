// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package citation

import (
	"strings"
	"testing"

	"github.com/bureau-foundation/answerview/lib/schema/answer"
)

func TestLabelFallsBackToLinkNumber(t *testing.T) {
	got := Label(answer.Citation{Content: "passage"}, 3, true)
	if got != "Link 3" {
		t.Errorf("Label = %q, want %q", got, "Link 3")
	}
}

func TestLabelTitleWithoutIdentifiers(t *testing.T) {
	citation := answer.Citation{Title: answer.String("Quarterly planning notes")}
	if got := Label(citation, 2, false); got != "Link 2" {
		t.Errorf("Label = %q, want %q", got, "Link 2")
	}
}

func TestLabelEmptyTitleCountsAsAbsent(t *testing.T) {
	citation := answer.Citation{
		Title:   answer.String(""),
		URL:     answer.String("https://example.com/files/report.pdf"),
		ChunkID: answer.String("4"),
	}
	if got := Label(citation, 1, false); got != "Link 1" {
		t.Errorf("Label = %q, want %q", got, "Link 1")
	}
}

func TestLabelShortTitleUsesFilename(t *testing.T) {
	citation := answer.Citation{
		Title:   answer.String("doc1"),
		URL:     answer.String("https://storage.example.com/container/My-File_Name.pdf"),
		ChunkID: answer.String("0"),
	}
	if got := Label(citation, 1, true); got != "My File Name" {
		t.Errorf("Label = %q, want %q", got, "My File Name")
	}
}

func TestLabelFilenameDecodesPercentEscapes(t *testing.T) {
	citation := answer.Citation{
		Title: answer.String("q3"),
		URL:   answer.String("https://example.com/reports/Q3%20Revenue__Summary.final.docx"),
	}
	if got := Label(citation, 1, false); got != "Q3 Revenue Summary.final" {
		t.Errorf("Label = %q, want %q", got, "Q3 Revenue Summary.final")
	}
}

func TestLabelFilenameMalformedEscapeUsedRaw(t *testing.T) {
	citation := answer.Citation{
		Title: answer.String("x"),
		URL:   answer.String("https://example.com/%zz-notes.txt"),
	}
	if got := Label(citation, 1, false); got != "%zz notes" {
		t.Errorf("Label = %q, want %q", got, "%zz notes")
	}
}

func TestLabelEmptyFilenameFallsThrough(t *testing.T) {
	citation := answer.Citation{
		Title:   answer.String("doc1"),
		URL:     answer.String("https://example.com/folder/"),
		ChunkID: answer.String("0"),
	}
	if got := Label(citation, 1, false); got != "doc1" {
		t.Errorf("Label = %q, want %q", got, "doc1")
	}
}

func TestLabelLongTitleIgnoresURL(t *testing.T) {
	citation := answer.Citation{
		Title:   answer.String("Network onboarding handbook"),
		URL:     answer.String("https://example.com/handbook.pdf"),
		ChunkID: answer.String("2"),
	}
	if got := Label(citation, 1, false); got != "Network onboarding handbook" {
		t.Errorf("Label = %q, want title", got)
	}
}

func TestLabelTruncation(t *testing.T) {
	title := strings.Repeat("abcdefghijklmno", 10)
	if len(title) != 150 {
		t.Fatalf("test title length = %d, want 150", len(title))
	}
	citation := answer.Citation{
		Title:   answer.String(title),
		ChunkID: answer.String("7"),
	}

	want := title[0:30] + "..." + title[120:150]
	if got := Label(citation, 1, true); got != want {
		t.Errorf("truncated Label = %q, want %q", got, want)
	}
	if got := Label(citation, 1, false); got != title {
		t.Errorf("untruncated Label = %q, want full title", got)
	}
}

func TestLabelTruncationThreshold(t *testing.T) {
	title := strings.Repeat("x", 100)
	citation := answer.Citation{Title: answer.String(title), ChunkID: answer.String("1")}
	if got := Label(citation, 1, true); got != title {
		t.Errorf("100-rune title was truncated to %q", got)
	}
}

func TestLabelTruncationCountsRunes(t *testing.T) {
	title := strings.Repeat("é", 120)
	citation := answer.Citation{Title: answer.String(title), ChunkID: answer.String("1")}
	want := strings.Repeat("é", 30) + "..." + strings.Repeat("é", 30)
	if got := Label(citation, 1, true); got != want {
		t.Errorf("Label = %q, want %q", got, want)
	}
}

func TestLabelReindexedTitleNeverTruncated(t *testing.T) {
	title := strings.Repeat("long title ", 20)
	citation := answer.Citation{Title: answer.String(title), ReindexID: answer.String("1")}
	if got := Label(citation, 1, true); got != title {
		t.Errorf("Label = %q, want full title", got)
	}
}

func TestLabelNeverEmpty(t *testing.T) {
	citations := []answer.Citation{
		{},
		{Title: answer.String("")},
		{URL: answer.String("")},
		{Title: answer.String("a"), URL: answer.String("")},
		{Title: answer.String("a"), URL: answer.String("/")},
		{Title: answer.String("a"), URL: answer.String(".pdf")},
		{Title: answer.String("a"), URL: answer.String("___")},
		{ChunkID: answer.String("1"), ReindexID: answer.String("1")},
	}
	for index, citation := range citations {
		for _, truncate := range []bool{false, true} {
			if got := Label(citation, index+1, truncate); got == "" {
				t.Errorf("citation %d (truncate=%v): empty label", index, truncate)
			}
		}
	}
}

func TestDeduplicateKeepsFirstPerTitle(t *testing.T) {
	citations := []answer.Citation{
		{Title: answer.String("A"), Content: "a1"},
		{Title: answer.String("B"), Content: "b1"},
		{Title: answer.String("A"), Content: "a2"},
		{Title: answer.String("C"), Content: "c1"},
		{Title: answer.String("B"), Content: "b2"},
	}

	unique := Deduplicate(citations)

	want := []string{"a1", "b1", "c1"}
	if len(unique) != len(want) {
		t.Fatalf("got %d citations, want %d", len(unique), len(want))
	}
	for index, content := range want {
		if unique[index].Content != content {
			t.Errorf("position %d content = %q, want %q", index, unique[index].Content, content)
		}
	}
	if len(citations) != 5 {
		t.Errorf("input modified: length %d", len(citations))
	}
}

func TestDeduplicateUntitledCollapse(t *testing.T) {
	citations := []answer.Citation{
		{Content: "first untitled"},
		{Title: answer.String("Titled")},
		{Content: "second untitled", URL: answer.String("https://example.com/other")},
		{Title: answer.String(""), Content: "empty title"},
	}

	unique := Deduplicate(citations)

	if len(unique) != 3 {
		t.Fatalf("got %d citations, want 3", len(unique))
	}
	if unique[0].Content != "first untitled" {
		t.Errorf("first entry = %q, want first untitled", unique[0].Content)
	}
	if unique[2].Content != "empty title" {
		t.Errorf("third entry = %q, want the empty-title citation", unique[2].Content)
	}
}

func TestDeduplicateIdempotent(t *testing.T) {
	citations := []answer.Citation{
		{Title: answer.String("X")},
		{},
		{Title: answer.String("X")},
		{Title: answer.String("Y")},
		{},
	}

	once := Deduplicate(citations)
	twice := Deduplicate(once)

	if len(once) != len(twice) {
		t.Fatalf("lengths differ: %d vs %d", len(once), len(twice))
	}
	for index := range once {
		if once[index].TitleValue() != twice[index].TitleValue() || (once[index].Title == nil) != (twice[index].Title == nil) {
			t.Errorf("position %d differs", index)
		}
	}
}

func TestDeduplicateEmpty(t *testing.T) {
	if unique := Deduplicate(nil); len(unique) != 0 {
		t.Errorf("Deduplicate(nil) = %v, want empty", unique)
	}
}

func TestSameSource(t *testing.T) {
	tests := []struct {
		name string
		a, b answer.Citation
		want bool
	}{
		{"equal titles", answer.Citation{Title: answer.String("A"), Content: "x"}, answer.Citation{Title: answer.String("A"), Content: "y"}, true},
		{"different titles", answer.Citation{Title: answer.String("A")}, answer.Citation{Title: answer.String("B")}, false},
		{"both untitled", answer.Citation{URL: answer.String("u1")}, answer.Citation{URL: answer.String("u2")}, true},
		{"empty versus absent", answer.Citation{Title: answer.String("")}, answer.Citation{}, false},
	}
	for _, test := range tests {
		if got := SameSource(test.a, test.b); got != test.want {
			t.Errorf("%s: SameSource = %v, want %v", test.name, got, test.want)
		}
	}
}

func TestLabelEmptyChunkIDCountsAsAbsent(t *testing.T) {
	title := strings.Repeat("long title ", 20)

	citation := answer.Citation{Title: answer.String(title), ChunkID: answer.String("")}
	if got := Label(citation, 4, true); got != "Link 4" {
		t.Errorf("Label = %q, want %q", got, "Link 4")
	}

	// An empty chunk id defers to the reindex rule, which never truncates.
	citation.ReindexID = answer.String("2")
	if got := Label(citation, 4, true); got != title {
		t.Errorf("Label = %q, want full title", got)
	}

	citation.ReindexID = answer.String("")
	if got := Label(citation, 4, true); got != "Link 4" {
		t.Errorf("Label with empty reindex id = %q, want %q", got, "Link 4")
	}
}
