// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package answerui is the terminal viewer for one chat answer and its
// references.
//
// The [Model] normalizes the answer with lib/citation, renders the
// markdown body in a scrollable viewport, and shows a reference panel
// below it: a count label ("3 relevant links"), a chevron, and, when
// open, one chip per distinct citation title. The panel's open state is
// a [PanelState]; the label and the chevron drive it through separate
// transitions that always leave it consistent.
//
// Every control is reachable from the keyboard. Tab and Shift+Tab move
// focus through the label, the chevron, and the visible chips; Enter
// or Space performs the same action as a mouse click. Activating a
// chip emits a [CitationSelectedMsg], which the model hands to the
// host's [SelectHandler].
//
// [TUILogHandler] routes slog records into the status line while the
// program owns the terminal.
package answerui
