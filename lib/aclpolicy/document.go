// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package aclpolicy

import (
	"fmt"
	"maps"
	"slices"

	"github.com/bureau-foundation/policyview/lib/reactive"
)

// PolicyMeta describes one policy rule inside a policy file.
type PolicyMeta struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// By is the subject the rule applies to (a user or group
	// expression), matched by search like a description.
	By string `json:"by,omitempty" yaml:"by,omitempty"`
}

// Meta summarizes the contents of a policy file.
type Meta struct {
	// Count is the number of policies in the file.
	Count       int          `json:"count" yaml:"count"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Policies    []PolicyMeta `json:"policies,omitempty" yaml:"policies,omitempty"`
}

// DocumentData is the wire form of one policy file in a listing.
type DocumentData struct {
	Name        string `json:"name" yaml:"name"`
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Valid       bool   `json:"valid" yaml:"valid"`
	WasSaved    bool   `json:"wasSaved,omitempty" yaml:"wasSaved,omitempty"`
	SavedSize   int64  `json:"savedSize,omitempty" yaml:"savedSize,omitempty"`

	// Validation maps a policy identifier inside the file to the
	// validation errors reported for it.
	Validation map[string][]string `json:"validation,omitempty" yaml:"validation,omitempty"`

	// Meta is absent for files the server could not parse.
	Meta *Meta `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Document is the live, observable state of one policy file. Fields
// that the listing screen reacts to are reactive values; the rest are
// fixed for the life of the document and replaced only by a reload.
type Document struct {
	ID         string
	WasSaved   bool
	SavedSize  int64
	Validation map[string][]string

	Name           *reactive.Value[string]
	Description    *reactive.Value[string]
	Valid          *reactive.Value[bool]
	ShowValidation *reactive.Value[bool]
	Meta           *reactive.Value[Meta]
}

// NewDocument creates a Document from its wire form.
func NewDocument(data DocumentData) *Document {
	document := &Document{
		Name:           reactive.NewComparable(""),
		Description:    reactive.NewComparable(""),
		Valid:          reactive.NewComparable(false),
		ShowValidation: reactive.NewComparable(false),
		Meta:           reactive.NewValue(Meta{}),
	}
	document.update(data)
	return document
}

// update overwrites the document with data, keeping its identity and
// its ShowValidation state.
func (document *Document) update(data DocumentData) {
	document.ID = data.ID
	document.WasSaved = data.WasSaved
	document.SavedSize = data.SavedSize
	document.Validation = data.Validation

	document.Name.Set(data.Name)
	document.Description.Set(data.Description)
	document.Valid.Set(data.Valid)

	var meta Meta
	if data.Meta != nil {
		meta = *data.Meta
	}
	if !metaEqual(document.Meta.Get(), meta) {
		document.Meta.Set(meta)
	}
}

func metaEqual(a, b Meta) bool {
	return a.Count == b.Count &&
		a.Description == b.Description &&
		slices.Equal(a.Policies, b.Policies)
}

// Data returns the wire form of the document's current state.
func (document *Document) Data() DocumentData {
	meta := document.Meta.Get()
	return DocumentData{
		Name:        document.Name.Get(),
		ID:          document.ID,
		Description: document.Description.Get(),
		Valid:       document.Valid.Get(),
		WasSaved:    document.WasSaved,
		SavedSize:   document.SavedSize,
		Validation:  maps.Clone(document.Validation),
		Meta:        &meta,
	}
}

// Resume returns the short policy count shown next to the file name.
func (document *Document) Resume() string {
	count := document.Meta.Get().Count
	if count > 1 {
		return fmt.Sprintf("(%d Policies)", count)
	}
	return fmt.Sprintf("(%d Policy)", count)
}

// ToggleShowValidation flips whether validation errors are expanded.
func (document *Document) ToggleShowValidation() {
	document.ShowValidation.Update(func(shown bool) bool { return !shown })
}

// ValidationMessages returns validation errors as "identifier: message"
// lines, ordered by identifier.
func (document *Document) ValidationMessages() []string {
	var lines []string
	for _, identifier := range slices.Sorted(maps.Keys(document.Validation)) {
		for _, message := range document.Validation[identifier] {
			lines = append(lines, identifier+": "+message)
		}
	}
	return lines
}
