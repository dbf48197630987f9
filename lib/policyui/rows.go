// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package policyui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dlclark/regexp2"

	"github.com/bureau-foundation/policyview/lib/aclpolicy"
	"github.com/bureau-foundation/policyview/lib/tui"
)

// Validity markers. Both are one cell wide.
const (
	validMarker   = "✓"
	invalidMarker = "✗"
)

// RowRenderer draws policy file rows within a fixed width.
//
// Row layout: marker + " " + name + " " + resume [+ "  " + description]
//
//	✓ base.policy (3 Policies)  Baseline access for all staff
//	✗ admin.policy (1 Policy)
type RowRenderer struct {
	theme tui.Theme
	width int

	// pattern highlights the first match in each name. Nil when the
	// search box is empty or invalid.
	pattern *regexp2.Regexp
}

// NewRowRenderer creates a renderer for the given width.
func NewRowRenderer(theme tui.Theme, width int, pattern *regexp2.Regexp) RowRenderer {
	return RowRenderer{theme: theme, width: width, pattern: pattern}
}

// RenderRow renders one document. Selected rows use uniform highlight
// colors so the cursor is visible regardless of validity.
func (renderer RowRenderer) RenderRow(document *aclpolicy.Document, selected bool) string {
	valid := document.Valid.Get()
	marker := validMarker
	if !valid {
		marker = invalidMarker
	}
	name := document.Name.Get()
	resume := document.Resume()
	description := document.Description.Get()
	if description == "" {
		description = document.Meta.Get().Description
	}

	if selected {
		text := marker + " " + name + " " + resume
		if description != "" {
			text += "  " + description
		}
		return lipgloss.NewStyle().
			Background(renderer.theme.SelectedBackground).
			Foreground(renderer.theme.SelectedForeground).
			Bold(true).
			Width(renderer.width).
			Render(ansi.Truncate(text, renderer.width, "…"))
	}

	markerStyle := lipgloss.NewStyle().Foreground(renderer.theme.ValidityColor(valid))
	nameStyle := lipgloss.NewStyle().Foreground(renderer.theme.NormalText)
	faintStyle := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)

	row := markerStyle.Render(marker) + " " +
		renderer.highlightName(name, nameStyle) + " " +
		faintStyle.Render(resume)
	if description != "" {
		row += "  " + faintStyle.Render(description)
	}
	return ansi.Truncate(row, renderer.width, "…")
}

// RenderValidation renders the expanded validation errors of a
// document, one indented line per message.
func (renderer RowRenderer) RenderValidation(document *aclpolicy.Document) []string {
	messages := document.ValidationMessages()
	style := lipgloss.NewStyle().Foreground(renderer.theme.ValidationText)
	if len(messages) == 0 {
		style = lipgloss.NewStyle().Foreground(renderer.theme.FaintText)
		messages = []string{"no validation errors reported"}
	}
	lines := make([]string, len(messages))
	for index, message := range messages {
		lines[index] = ansi.Truncate(style.Render("    "+message), renderer.width, "…")
	}
	return lines
}

// ValidationLineCount is the number of lines RenderValidation
// produces for document.
func ValidationLineCount(document *aclpolicy.Document) int {
	return max(1, len(document.ValidationMessages()))
}

// highlightName renders name with the first pattern match on the
// search highlight background. regexp2 reports match positions in
// runes.
func (renderer RowRenderer) highlightName(name string, baseStyle lipgloss.Style) string {
	if renderer.pattern == nil {
		return baseStyle.Render(name)
	}
	match, err := renderer.pattern.FindStringMatch(name)
	if err != nil || match == nil || match.Length == 0 {
		return baseStyle.Render(name)
	}

	runes := []rune(name)
	highlightStyle := baseStyle.Background(renderer.theme.SearchHighlightBackground)
	var result strings.Builder
	result.WriteString(baseStyle.Render(string(runes[:match.Index])))
	result.WriteString(highlightStyle.Render(string(runes[match.Index : match.Index+match.Length])))
	result.WriteString(baseStyle.Render(string(runes[match.Index+match.Length:])))
	return result.String()
}
