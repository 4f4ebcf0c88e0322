// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package citation turns raw chat answers into their display form.
//
// [Normalize] rewrites the inline "[docN]" markers of an answer into
// markdown citation links numbered densely from 1 in order of first
// appearance, and returns the citations aligned with those numbers.
// [Label] derives the short name shown for a citation in the
// reference panel, and [Deduplicate] collapses citations sharing a
// title for that panel.
//
// Everything here is a pure function of its input and never fails:
// markers that cannot be resolved stay in the text as literals, and
// citations with no usable fields still get a "Link N" label. [Memo]
// caches normalization results keyed by a digest of the record so
// callers can recompute freely on every change.
package citation
