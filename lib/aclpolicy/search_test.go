// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package aclpolicy

import (
	"errors"
	"testing"

	"github.com/bureau-foundation/policyview/lib/reactive"
)

func documentNamed(name string) *Document {
	return NewDocument(DocumentData{Name: name, Valid: true})
}

func matches(t *testing.T, query string, document *Document) bool {
	t.Helper()
	pattern, err := CompileQuery(query)
	if err != nil {
		t.Fatalf("CompileQuery(%q): %v", query, err)
	}
	return DocumentMatches(&reactive.Scope{}, document, pattern)
}

func TestCompileQuery(t *testing.T) {
	tests := []struct {
		query string
		name  string
		want  bool
	}{
		{"foo", "FOO", true},
		{"foo", "a-foo-b", true},
		{"Admin", "admins.policy", true},
		{"/^a.*z$/", "abz", true},
		{"/^a.*z$/", "xabz", false},
		{"/^A/", "admin", true},
		{"a.b", "a.b", true},
		{"a.b", "axb", false},
		{"(x)", "f(x)", true},
		{"[ab]", "a", false},
		{"$", "cost$", true},
		{"/", "a/b", true},
		{"//", "anything", true},
		{"/a", "/a", true},
		{"/a", "a", false},
	}
	for _, test := range tests {
		if got := matches(t, test.query, documentNamed(test.name)); got != test.want {
			t.Errorf("query %q against %q = %v, want %v", test.query, test.name, got, test.want)
		}
	}
}

func TestCompileQueryInvalidRegex(t *testing.T) {
	_, err := CompileQuery("/(/")
	var patternError *PatternError
	if !errors.As(err, &patternError) {
		t.Fatalf("CompileQuery(\"/(/\") error = %v, want *PatternError", err)
	}
	if patternError.Query != "/(/" {
		t.Errorf("PatternError.Query = %q", patternError.Query)
	}
	if patternError.Unwrap() == nil {
		t.Error("PatternError does not wrap the compile error")
	}
}

func TestDocumentMatchesMetaFields(t *testing.T) {
	document := NewDocument(DocumentData{
		Name: "base.policy",
		Meta: &Meta{
			Count:       2,
			Description: "Baseline rules",
			Policies: []PolicyMeta{
				{Description: "read access for auditors"},
				{Description: "", By: "group:operators"},
			},
		},
	})

	tests := []struct {
		query string
		want  bool
	}{
		{"baseline", true},
		{"AUDITORS", true},
		{"operators", true},
		{"/^group:/", true},
		{"writers", false},
	}
	for _, test := range tests {
		if got := matches(t, test.query, document); got != test.want {
			t.Errorf("query %q = %v, want %v", test.query, got, test.want)
		}
	}
}

func TestDocumentMatchesWithoutMeta(t *testing.T) {
	document := NewDocument(DocumentData{Name: "broken.policy"})
	if matches(t, "baseline", document) {
		t.Error("document without meta matched a description query")
	}
	if !matches(t, "broken", document) {
		t.Error("document without meta did not match its own name")
	}
}

func TestSearchRule(t *testing.T) {
	query := reactive.NewComparable("")
	rule := NewSearchRule(query)
	documents := []*Document{documentNamed("alpha"), documentNamed("beta"), documentNamed("alphabet")}

	if rule.Enabled(&reactive.Scope{}) {
		t.Error("rule enabled with an empty query")
	}

	query.Set("alpha")
	if !rule.Enabled(&reactive.Scope{}) {
		t.Fatal("rule disabled with a query")
	}
	got := rule.Apply(&reactive.Scope{}, documents)
	if len(got) != 2 || got[0] != documents[0] || got[1] != documents[2] {
		t.Errorf("Apply(alpha) = %v, want alpha and alphabet", names(got))
	}
	if rule.Err() != nil {
		t.Errorf("Err = %v for a valid query", rule.Err())
	}
}

func TestSearchRuleInvalidPatternMatchesNothing(t *testing.T) {
	query := reactive.NewComparable("/(/")
	rule := NewSearchRule(query)
	documents := []*Document{documentNamed("a"), documentNamed("(")}

	if got := rule.Apply(&reactive.Scope{}, documents); len(got) != 0 {
		t.Errorf("Apply with invalid pattern = %v, want none", names(got))
	}
	var patternError *PatternError
	if !errors.As(rule.Err(), &patternError) {
		t.Fatalf("Err = %v, want *PatternError", rule.Err())
	}

	query.Set("/\\(/")
	if rule.Err() != nil {
		t.Errorf("Err = %v after fixing the query", rule.Err())
	}
	if got := rule.Apply(&reactive.Scope{}, documents); len(got) != 1 || got[0] != documents[1] {
		t.Errorf("Apply after fix = %v, want [(]", names(got))
	}
}

func TestSearchRulePattern(t *testing.T) {
	query := reactive.NewComparable("")
	rule := NewSearchRule(query)
	if rule.Pattern() != nil {
		t.Error("Pattern non-nil for an empty query")
	}

	query.Set("admin")
	first := rule.Pattern()
	if first == nil {
		t.Fatal("Pattern nil for a valid query")
	}
	if rule.Pattern() != first {
		t.Error("Pattern recompiled an unchanged query")
	}

	query.Set("/(/")
	if rule.Pattern() != nil {
		t.Error("Pattern non-nil for an invalid query")
	}

	query.Set("ops")
	if pattern := rule.Pattern(); pattern == nil || pattern == first {
		t.Errorf("Pattern after a new query = %v", pattern)
	}
}

func names(documents []*Document) []string {
	result := make([]string, len(documents))
	for i, document := range documents {
		result[i] = document.Name.Get()
	}
	return result
}
