// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package aclpolicy

import (
	"slices"

	"github.com/dlclark/regexp2"

	"github.com/bureau-foundation/policyview/lib/listview"
	"github.com/bureau-foundation/policyview/lib/reactive"
)

// FilesConfig configures a Files view model.
type FilesConfig struct {
	// PageSize is the number of documents per page. Zero selects
	// listview.DefaultPageSize.
	PageSize int

	// Offset is the initial page offset.
	Offset int

	// DisablePaging starts with the full filtered list visible.
	DisablePaging bool

	// Search is the initial search query.
	Search string
}

// Files is the view model of the policy listing screen.
type Files struct {
	// Search is the search box text.
	Search *reactive.Value[string]

	// Policies is the raw collection, in listing order.
	Policies *reactive.Slice[*Document]

	// SearchRule is the filter rule bound to Search.
	SearchRule *SearchRule

	// View filters and pages Policies.
	View *listview.View[*Document]

	// Selected is the document whose details are open, or nil.
	Selected *reactive.Value[*Document]
}

// NewFiles creates an empty view model.
func NewFiles(config FilesConfig) *Files {
	search := reactive.NewComparable(config.Search)
	policies := reactive.NewSlice[*Document]()
	rule := NewSearchRule(search)

	return &Files{
		Search:     search,
		Policies:   policies,
		SearchRule: rule,
		View: listview.NewView[*Document](policies, listview.ViewConfig[*Document]{
			Page:          listview.PageConfig{PageSize: config.PageSize, Offset: config.Offset},
			DisablePaging: config.DisablePaging,
			Rules:         []listview.Rule[*Document]{rule},
			Valid: func(scope *reactive.Scope, document *Document) bool {
				return document.Valid.Read(scope)
			},
		}),
		Selected: reactive.NewComparable[*Document](nil),
	}
}

// Filtered returns the documents passing the search filter.
func (files *Files) Filtered() []*Document {
	return files.View.Filter.FilteredContent()
}

// Pager returns the page stage over the filtered documents.
func (files *Files) Pager() *listview.PageStage[*Document] {
	return files.View.Pager
}

// Visible returns the documents to render.
func (files *Files) Visible() []*Document {
	return files.View.Visible()
}

// Valid reports whether every loaded policy file is valid. Saving is
// gated on this.
func (files *Files) Valid() bool {
	return files.View.AllValid()
}

// SearchError returns the compile error of the current search query,
// or nil.
func (files *Files) SearchError() error {
	return files.SearchRule.Err()
}

// SearchPattern returns the compiled search query for highlighting,
// or nil when there is none.
func (files *Files) SearchPattern() *regexp2.Regexp {
	return files.SearchRule.Pattern()
}

// Select opens a document's details. Pass nil to close them.
func (files *Files) Select(document *Document) {
	files.Selected.Set(document)
}

// Find returns the loaded document with the given name.
func (files *Files) Find(name string) (*Document, bool) {
	for _, document := range files.Policies.Get() {
		if document.Name.Get() == name {
			return document, true
		}
	}
	return nil, false
}

// Load merges a listing into Policies. Documents are matched by name:
// a match is updated in place so references held by the screen (the
// selection, an expanded validation panel) survive a reload. Unmatched
// entries become new documents and documents missing from the listing
// are dropped. The resulting order is the listing's order.
func (files *Files) Load(listing Listing) {
	existing := make(map[string]*Document, len(files.Policies.Get()))
	for _, document := range files.Policies.Get() {
		existing[document.Name.Get()] = document
	}

	loaded := make([]*Document, 0, len(listing.Policies))
	for _, data := range listing.Policies {
		document, found := existing[data.Name]
		if found {
			// A repeated name in one listing gets its own document.
			delete(existing, data.Name)
			document.update(data)
		} else {
			document = NewDocument(data)
		}
		loaded = append(loaded, document)
	}
	files.Policies.Replace(loaded)

	if selected := files.Selected.Get(); selected != nil && !slices.Contains(loaded, selected) {
		files.Selected.Set(nil)
	}
}

// Close detaches the view model's stages.
func (files *Files) Close() {
	files.View.Close()
}
