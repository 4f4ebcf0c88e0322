// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package answerui

// PanelState is the open/closed state of the reference panel. Two
// input channels drive it, the count label and the chevron, so it is
// kept as two flags. VisuallyExpanded is the only one rendering reads;
// after every transition it equals RequestedOpen, so externally the
// pair behaves as a single boolean.
//
// The zero value is Closed. A PanelState lives as long as the [Model]
// that owns it: replacing the answer with [Model.SetAnswer] keeps it.
type PanelState struct {
	RequestedOpen    bool
	VisuallyExpanded bool
}

// ToggleLabel is the count-label transition: flip RequestedOpen, then
// propagate it to VisuallyExpanded.
func (state *PanelState) ToggleLabel() {
	state.RequestedOpen = !state.RequestedOpen
	state.sync()
}

// ToggleChevron is the chevron transition: flip both flags in one
// step.
func (state *PanelState) ToggleChevron() {
	state.VisuallyExpanded = !state.VisuallyExpanded
	state.RequestedOpen = !state.RequestedOpen
	state.sync()
}

// Open reports whether the panel is expanded.
func (state PanelState) Open() bool {
	return state.VisuallyExpanded
}

// sync makes VisuallyExpanded follow RequestedOpen. The dependency is
// one-directional: VisuallyExpanded never feeds back.
func (state *PanelState) sync() {
	state.VisuallyExpanded = state.RequestedOpen
}

// ShowList reports whether the citation list is rendered for the given
// number of unique citations.
func (state PanelState) ShowList(citationCount int) bool {
	return citationCount > 0 && state.Open()
}
