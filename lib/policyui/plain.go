// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package policyui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/policyview/lib/aclpolicy"
)

// PageIndicator describes the visible window, e.g.
// "31–60 of 65 · page 2/3" or "1–65 of 65 · paging off". A narrowed
// list adds the unfiltered total.
func PageIndicator(files *aclpolicy.Files) string {
	total := len(files.Policies.Get())
	filtered := len(files.Filtered())

	var indicator string
	if files.View.PagingEnabled.Get() {
		pager := files.Pager()
		first, last := pager.Range()
		indicator = fmt.Sprintf("%d–%d of %d · page %d/%d",
			first, last, filtered, pager.CurrentPageIndex()+1, pager.PageCount())
	} else {
		first := min(1, filtered)
		indicator = fmt.Sprintf("%d–%d of %d · paging off", first, filtered, filtered)
	}
	if filtered < total {
		indicator += fmt.Sprintf(" (filtered from %d)", total)
	}
	return indicator
}

// ValiditySummary is the listing banner: "✓ all 12 valid" or
// "✗ 2 of 12 invalid".
func ValiditySummary(files *aclpolicy.Files) string {
	documents := files.Policies.Get()
	invalid := 0
	for _, document := range documents {
		if !document.Valid.Get() {
			invalid++
		}
	}
	if invalid == 0 {
		return fmt.Sprintf("%s all %d valid", validMarker, len(documents))
	}
	return fmt.Sprintf("%s %d of %d invalid", invalidMarker, invalid, len(documents))
}

// RenderPlain writes the visible documents as uncolored text, for
// pipes and --plain. Invalid documents are followed by their
// validation errors. Lines are truncated to width when it is positive.
func RenderPlain(w io.Writer, files *aclpolicy.Files, width int) error {
	var output strings.Builder
	writeLine := func(line string) {
		if width > 0 {
			line = ansi.Truncate(line, width, "…")
		}
		output.WriteString(line)
		output.WriteByte('\n')
	}

	visible := files.Visible()
	if len(files.Policies.Get()) == 0 {
		writeLine("No policy files loaded.")
	} else if len(visible) == 0 {
		writeLine("No policy files match the search.")
	}

	for _, document := range visible {
		valid := document.Valid.Get()
		marker := validMarker
		if !valid {
			marker = invalidMarker
		}
		row := marker + " " + document.Name.Get() + " " + document.Resume()
		description := document.Description.Get()
		if description == "" {
			description = document.Meta.Get().Description
		}
		if description != "" {
			row += "  " + description
		}
		writeLine(row)

		if !valid || document.ShowValidation.Get() {
			for _, message := range document.ValidationMessages() {
				writeLine("    " + message)
			}
		}
	}

	writeLine("")
	writeLine(PageIndicator(files))
	writeLine(ValiditySummary(files))
	if err := files.SearchError(); err != nil {
		writeLine(err.Error())
	}

	_, err := io.WriteString(w, output.String())
	return err
}
