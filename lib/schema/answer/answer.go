// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package answer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is one answer returned by the chat provider. Text is the
// assistant's markdown answer with inline "[docN]" markers, where N is
// a 1-based index into Citations.
type Record struct {
	// Text is the raw answer text. The provider's wire name is
	// "answer"; "text" is accepted on input as an alias.
	Text string `json:"answer"`

	// Citations are the retrieved passages, in provider order. The
	// list may be empty.
	Citations []Citation `json:"citations"`
}

// UnmarshalJSON decodes a Record, accepting "text" as an alias for
// "answer" when "answer" is absent.
func (r *Record) UnmarshalJSON(data []byte) error {
	var wire struct {
		Answer    *string    `json:"answer"`
		Text      *string    `json:"text"`
		Citations []Citation `json:"citations"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*r = Record{Citations: wire.Citations}
	switch {
	case wire.Answer != nil:
		r.Text = *wire.Answer
	case wire.Text != nil:
		r.Text = *wire.Text
	}
	return nil
}

// Validate checks the record for structurally invalid fields. Empty
// text and an empty citation list are both valid.
func (r *Record) Validate() error {
	for index, citation := range r.Citations {
		if citation.PartIndex != nil && *citation.PartIndex < 0 {
			return fmt.Errorf("answer record: citation %d: part_index must be >= 0, got %d", index+1, *citation.PartIndex)
		}
	}
	return nil
}

// Citation is one retrieved source passage. No single field is a
// reliable identity: Title is the practical deduplication key even
// though the retrieval system does not guarantee its uniqueness.
type Citation struct {
	// ID is the citation's original 1-based position in the record's
	// citation list, as a decimal string. Providers usually leave it
	// empty; the normalizer fills it in.
	ID string `json:"id,omitempty"`

	Title     *string `json:"title,omitempty"`
	URL       *string `json:"url,omitempty"`
	Content   string  `json:"content"`
	ChunkID   *string `json:"chunk_id,omitempty"`
	ReindexID *string `json:"reindex_id,omitempty"`
	FilePath  *string `json:"filepath,omitempty"`
	PartIndex *int    `json:"part_index,omitempty"`
}

// TitleValue returns the title, or "" when absent.
func (c Citation) TitleValue() string {
	if c.Title == nil {
		return ""
	}
	return *c.Title
}

// HasTitle reports whether a non-empty title is present. An empty
// string counts as absent, matching how labels are derived.
func (c Citation) HasTitle() bool {
	return c.Title != nil && *c.Title != ""
}

// Clone returns a deep copy. Optional fields are re-allocated so the
// copy can be modified without touching the original record.
func (c Citation) Clone() Citation {
	clone := c
	clone.Title = cloneString(c.Title)
	clone.URL = cloneString(c.URL)
	clone.ChunkID = cloneString(c.ChunkID)
	clone.ReindexID = cloneString(c.ReindexID)
	clone.FilePath = cloneString(c.FilePath)
	if c.PartIndex != nil {
		partIndex := *c.PartIndex
		clone.PartIndex = &partIndex
	}
	return clone
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

// String returns a pointer to value. Convenience for building
// citations with optional fields in code and tests.
func String(value string) *string {
	return &value
}

// Int returns a pointer to value.
func Int(value int) *int {
	return &value
}

// Parsed is the display form of a Record. Every citation marker in
// MarkdownFormatText carries a display number K and refers to
// Citations[K-1]. Citations may contain entries with equal titles;
// deduplication happens at render time.
type Parsed struct {
	MarkdownFormatText string
	Citations          []Citation
}

// Citation returns the citation shown with the given 1-based display
// number.
func (p Parsed) Citation(displayNumber int) (Citation, bool) {
	if displayNumber < 1 || displayNumber > len(p.Citations) {
		return Citation{}, false
	}
	return p.Citations[displayNumber-1], true
}

// ResolveTarget maps a citation link destination (see [CitationTarget])
// back to the citation it refers to.
func (p Parsed) ResolveTarget(destination string) (Citation, bool) {
	index, ok := ParseCitationTarget(destination)
	if !ok {
		return Citation{}, false
	}
	id := strconv.Itoa(index)
	for _, citation := range p.Citations {
		if citation.ID == id {
			return citation, true
		}
	}
	return Citation{}, false
}

// citationTargetPrefix starts every in-answer citation link destination.
const citationTargetPrefix = "#doc"

// CitationTarget returns the link destination for the citation at the
// given original 1-based index.
func CitationTarget(index int) string {
	return citationTargetPrefix + strconv.Itoa(index)
}

// ParseCitationTarget extracts the original 1-based index from a link
// destination produced by [CitationTarget].
func ParseCitationTarget(destination string) (int, bool) {
	digits, found := strings.CutPrefix(destination, citationTargetPrefix)
	if !found || digits == "" {
		return 0, false
	}
	for _, character := range digits {
		if character < '0' || character > '9' {
			return 0, false
		}
	}
	index, err := strconv.Atoi(digits)
	if err != nil || index < 1 {
		return 0, false
	}
	return index, true
}
