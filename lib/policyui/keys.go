// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package policyui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the policy listing screen.
type KeyMap struct {
	// Row movement. Moving past either end of a page turns the page.
	Up   key.Binding
	Down key.Binding

	// Paging.
	NextPage     key.Binding
	PreviousPage key.Binding
	FirstPage    key.Binding
	LastPage     key.Binding
	TogglePaging key.Binding

	// Expand or collapse the selected file's validation errors.
	ToggleValidation key.Binding

	// Open or close the selected file's source pane.
	ToggleSource key.Binding

	// Search.
	SearchActivate key.Binding // Focus the search box.
	SearchClear    key.Binding // Clear the query, then leave the box.

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style movement
// (j/k, h/l) alongside arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("l", "right", "pgdown", "ctrl+d"),
		key.WithHelp("l/→", "next page"),
	),
	PreviousPage: key.NewBinding(
		key.WithKeys("h", "left", "pgup", "ctrl+u"),
		key.WithHelp("h/←", "prev page"),
	),
	FirstPage: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "first"),
	),
	LastPage: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last"),
	),
	TogglePaging: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "paging"),
	),
	ToggleValidation: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("⏎", "errors"),
	),
	ToggleSource: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "source"),
	),
	SearchActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	SearchClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear search"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp lists the bindings shown in the help bar, in order.
func (keys KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		keys.Quit, keys.Up, keys.Down, keys.PreviousPage, keys.NextPage,
		keys.FirstPage, keys.LastPage, keys.SearchActivate, keys.TogglePaging,
		keys.ToggleValidation, keys.ToggleSource,
	}
}
