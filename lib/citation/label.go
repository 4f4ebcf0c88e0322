// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package citation

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bureau-foundation/answerview/lib/schema/answer"
)

const (
	// shortTitleLength is the rune count below which a title is
	// considered a placeholder ("doc1", "file") and the URL's filename
	// is used instead.
	shortTitleLength = 10

	// truncateTitleLength is the rune count above which a truncated
	// label elides the middle of the title.
	truncateTitleLength = 100

	// truncateKeepLength is how many runes of the title survive at
	// each end of a truncated label.
	truncateKeepLength = 30
)

var (
	// extensionPattern matches a trailing file extension.
	extensionPattern = regexp.MustCompile(`\.[^/.]+$`)

	// separatorPattern matches runs of dashes and underscores used as
	// word separators in filenames.
	separatorPattern = regexp.MustCompile(`[-_]+`)
)

// Label returns the user-facing name for a citation in the reference
// panel. displayIndex is the citation's 1-based position in the
// deduplicated panel list. With truncate set, long titles are
// shortened to their first and last 30 runes around "...".
//
// The result is never empty: a citation with no usable fields is
// labelled "Link <displayIndex>".
func Label(citation answer.Citation, displayIndex int, truncate bool) string {
	title := citation.TitleValue()

	if citation.HasTitle() && utf8.RuneCountInString(title) < shortTitleLength && citation.URL != nil {
		if name := filenameFromURL(*citation.URL); name != "" {
			return name
		}
	}

	if citation.HasTitle() && present(citation.ChunkID) {
		if truncate && utf8.RuneCountInString(title) > truncateTitleLength {
			return truncateMiddle(title, truncateKeepLength)
		}
		return title
	}

	if citation.HasTitle() && present(citation.ReindexID) {
		return title
	}

	return "Link " + strconv.Itoa(displayIndex)
}

// present reports whether an optional field is set and non-empty.
func present(value *string) bool {
	return value != nil && *value != ""
}

// filenameFromURL derives a readable name from the last path segment
// of a URL: percent-decoded, extension removed, dash and underscore
// runs turned into spaces. A segment that fails to decode is used
// as-is. Returns "" when nothing readable remains.
func filenameFromURL(rawURL string) string {
	segment := rawURL
	if slash := strings.LastIndex(rawURL, "/"); slash >= 0 {
		segment = rawURL[slash+1:]
	}
	if decoded, err := url.PathUnescape(segment); err == nil {
		segment = decoded
	}
	segment = extensionPattern.ReplaceAllString(segment, "")
	segment = separatorPattern.ReplaceAllString(segment, " ")
	if strings.TrimSpace(segment) == "" {
		return ""
	}
	return segment
}

func truncateMiddle(title string, keep int) string {
	runes := []rune(title)
	return string(runes[:keep]) + "..." + string(runes[len(runes)-keep:])
}

// titleKey is the deduplication identity of a citation. An absent
// title is its own key, so all untitled citations collapse into one.
type titleKey struct {
	present bool
	title   string
}

func keyOf(citation answer.Citation) titleKey {
	if citation.Title == nil {
		return titleKey{}
	}
	return titleKey{present: true, title: *citation.Title}
}

// Deduplicate returns the citations with later duplicates removed,
// keeping the first citation (in list order) for each distinct title.
// Citations without a title all share one identity, so only the first
// of them survives. The input slice is not modified.
func Deduplicate(citations []answer.Citation) []answer.Citation {
	if len(citations) == 0 {
		return nil
	}
	seen := make(map[titleKey]bool, len(citations))
	unique := make([]answer.Citation, 0, len(citations))
	for _, citation := range citations {
		key := keyOf(citation)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, citation)
	}
	return unique
}

// SameSource reports whether Deduplicate treats a and b as one
// reference.
func SameSource(a, b answer.Citation) bool {
	return keyOf(a) == keyOf(b)
}
