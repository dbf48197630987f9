// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ScrollRegion describes which part of a list is on screen.
type ScrollRegion struct {
	// Total is the number of items in the list.
	Total int
	// Visible is how many of them are on screen.
	Visible int
	// Offset is the index of the first visible item.
	Offset int
}

// RenderScrollbar produces a single-column scrollbar of the given
// height. With paging on, region.Offset is the page offset into the
// filtered list, so the thumb shows which page is displayed.
//
// When everything fits, the thumb fills the track.
func RenderScrollbar(theme Theme, height int, region ScrollRegion) string {
	if height <= 0 {
		return ""
	}

	trackStyle := lipgloss.NewStyle().Foreground(theme.BorderColor)
	thumbStyle := lipgloss.NewStyle().Foreground(theme.ScrollThumb)

	thumbSize, thumbOffset := height, 0
	if region.Total > region.Visible && region.Total > 0 {
		thumbSize = max(1, height*region.Visible/region.Total)
		scrollableRange := region.Total - region.Visible
		if trackRange := height - thumbSize; trackRange > 0 {
			thumbOffset = min(region.Offset, scrollableRange) * trackRange / scrollableRange
		}
		thumbOffset = min(thumbOffset, height-thumbSize)
	}

	lines := make([]string, height)
	for index := range lines {
		if index >= thumbOffset && index < thumbOffset+thumbSize {
			lines[index] = thumbStyle.Render("┃")
		} else {
			lines[index] = trackStyle.Render("│")
		}
	}
	return strings.Join(lines, "\n")
}
