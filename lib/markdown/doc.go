// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package markdown renders normalized answer text. It is the boundary
// between the citation core, which only produces markdown source, and
// the goldmark engine, which parses it.
//
// The dialect is CommonMark plus GitHub tables, strikethrough, task
// lists, and autolinks, extended with superscript (^text^) and
// subscript (~text~). Citation markers produced by lib/citation are
// ordinary links whose label is a superscript display number and whose
// destination is a "#docN" fragment.
//
// Two outputs are supported:
//
//   - [TerminalRenderer] walks the goldmark AST and emits word-wrapped,
//     ANSI-styled text for the bubbletea viewer. Citation links become
//     compact "[N]" markers.
//   - [RenderHTML] uses goldmark's HTML renderer. External links open
//     in a new browsing context (target="_blank"); citation links carry
//     class="citation" so a host page can intercept them.
//
// [Parse] exposes the AST itself for callers that need the tree.
package markdown
