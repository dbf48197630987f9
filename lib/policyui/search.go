// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package policyui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/policyview/lib/reactive"
	"github.com/bureau-foundation/policyview/lib/tui"
)

// SearchBox is the search input above the list. Every edit is written
// through to the bound query value, which re-filters the listing.
type SearchBox struct {
	input textinput.Model
	query *reactive.Value[string]
}

// NewSearchBox creates a search box editing query.
func NewSearchBox(query *reactive.Value[string], theme tui.Theme) SearchBox {
	input := textinput.New()
	input.Prompt = " / "
	input.PromptStyle = lipgloss.NewStyle().Foreground(theme.SearchPrompt)
	input.Placeholder = "name, description or subject; /regex/"
	input.SetValue(query.Get())
	return SearchBox{input: input, query: query}
}

// Active reports whether the box has keyboard focus.
func (box SearchBox) Active() bool {
	return box.input.Focused()
}

// Activate gives the box keyboard focus.
func (box *SearchBox) Activate() tea.Cmd {
	return box.input.Focus()
}

// Deactivate returns focus to the list, keeping the query.
func (box *SearchBox) Deactivate() {
	box.input.Blur()
}

// Clear empties the query.
func (box *SearchBox) Clear() {
	box.input.SetValue("")
	box.query.Set("")
}

// Query returns the current query text.
func (box SearchBox) Query() string {
	return box.input.Value()
}

// Update feeds a key to the input and publishes the resulting query.
func (box *SearchBox) Update(message tea.KeyMsg) tea.Cmd {
	var command tea.Cmd
	box.input, command = box.input.Update(message)
	box.query.Set(box.input.Value())
	return command
}

// View renders the search bar. It is hidden when the box is inactive
// and empty. A query that does not compile is shown with the error in
// place of the placeholder text.
func (box SearchBox) View(theme tui.Theme, width int, searchErr error) string {
	if !box.Active() && box.input.Value() == "" {
		return ""
	}

	var line string
	if box.Active() {
		line = box.input.View()
	} else {
		line = lipgloss.NewStyle().Foreground(theme.FaintText).Render(" search: " + box.input.Value())
	}
	if searchErr != nil {
		line += "  " + lipgloss.NewStyle().Foreground(theme.SearchError).Render(searchErr.Error())
	}
	return ansi.Truncate(line, width, "…")
}
