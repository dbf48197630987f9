// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette of the policy viewer. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Validity markers on rows and the listing banner.
	Valid   lipgloss.Color
	Invalid lipgloss.Color

	// Validation error lines under an expanded row.
	ValidationText lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	ScrollThumb      lipgloss.Color

	// Search input and match highlighting.
	SearchPrompt              lipgloss.Color
	SearchHighlightBackground lipgloss.Color
	SearchError               lipgloss.Color

	// Background tints for documents touched by a reload.
	ChangedAccent lipgloss.Color
	AddedAccent   lipgloss.Color
}

// ValidityColor returns Valid or Invalid.
func (theme Theme) ValidityColor(valid bool) lipgloss.Color {
	if valid {
		return theme.Valid
	}
	return theme.Invalid
}

// ChangeAccent returns the row tint for a change kind.
func (theme Theme) ChangeAccent(kind ChangeKind) lipgloss.Color {
	if kind == ChangeAdded {
		return theme.AddedAccent
	}
	return theme.ChangedAccent
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	Valid:          lipgloss.Color("114"), // green
	Invalid:        lipgloss.Color("196"), // red
	ValidationText: lipgloss.Color("210"), // light red

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	ScrollThumb:      lipgloss.Color("220"), // amber

	SearchPrompt:              lipgloss.Color("75"), // blue
	SearchHighlightBackground: lipgloss.Color("58"), // dark amber
	SearchError:               lipgloss.Color("203"),

	ChangedAccent: lipgloss.Color("58"), // dark amber, same as search hits
	AddedAccent:   lipgloss.Color("22"), // dark green
}
