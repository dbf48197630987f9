// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package aclpolicy

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/bureau-foundation/policyview/lib/listview"
	"github.com/bureau-foundation/policyview/lib/reactive"
)

// matchTimeout bounds a single pattern evaluation against one field.
// User-supplied regular expressions can backtrack catastrophically; a
// match that runs out of time counts as no match.
const matchTimeout = 50 * time.Millisecond

// PatternError reports a search query that does not compile as a
// regular expression.
type PatternError struct {
	Query string
	Err   error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid search pattern %q: %v", e.Query, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// literalEscaper escapes exactly the characters that are special in
// an ECMAScript pattern.
var literalEscaper = strings.NewReplacer(
	`\`, `\\`, `.`, `\.`, `*`, `\*`, `+`, `\+`, `?`, `\?`,
	`^`, `\^`, `$`, `\$`, `{`, `\{`, `}`, `\}`, `(`, `\(`,
	`)`, `\)`, `|`, `\|`, `[`, `\[`, `]`, `\]`,
)

// CompileQuery turns search text into a case-insensitive pattern.
// Text wrapped in slashes ("/^admin/") is a regular expression in
// ECMAScript syntax; anything else matches as a literal substring.
func CompileQuery(query string) (*regexp2.Regexp, error) {
	expression := literalEscaper.Replace(query)
	if len(query) >= 2 && strings.HasPrefix(query, "/") && strings.HasSuffix(query, "/") {
		expression = query[1 : len(query)-1]
	}

	pattern, err := regexp2.Compile(expression, regexp2.ECMAScript|regexp2.IgnoreCase)
	if err != nil {
		return nil, &PatternError{Query: query, Err: err}
	}
	pattern.MatchTimeout = matchTimeout
	return pattern, nil
}

// SearchRule narrows documents to those matching a free-text query.
// It is disabled while the query is empty.
//
// A query that fails to compile matches no documents until it is
// corrected; the compile error is available from Err so the screen
// can explain the empty list.
type SearchRule struct {
	query *reactive.Value[string]

	compiledQuery string
	pattern       *regexp2.Regexp
	err           error
}

var _ listview.Rule[*Document] = (*SearchRule)(nil)

// NewSearchRule creates a rule bound to query. Writes to query
// re-filter every stage the rule is installed in.
func NewSearchRule(query *reactive.Value[string]) *SearchRule {
	return &SearchRule{query: query}
}

// Enabled implements [listview.Rule].
func (rule *SearchRule) Enabled(scope *reactive.Scope) bool {
	return rule.query.Read(scope) != ""
}

// Apply implements [listview.Rule].
func (rule *SearchRule) Apply(scope *reactive.Scope, documents []*Document) []*Document {
	pattern, err := rule.compile(rule.query.Read(scope))
	if err != nil {
		return nil
	}
	return listview.Filter(documents, func(document *Document) bool {
		return DocumentMatches(scope, document, pattern)
	})
}

// Err returns the *PatternError for the current query, or nil.
func (rule *SearchRule) Err() error {
	_, err := rule.compile(rule.query.Get())
	return err
}

// Pattern returns the compiled current query, or nil when the query
// is empty or invalid. Repeated calls for the same query return the
// same pattern.
func (rule *SearchRule) Pattern() *regexp2.Regexp {
	query := rule.query.Get()
	if query == "" {
		return nil
	}
	pattern, err := rule.compile(query)
	if err != nil {
		return nil
	}
	return pattern
}

// compile memoizes the last compiled query.
func (rule *SearchRule) compile(query string) (*regexp2.Regexp, error) {
	if query == rule.compiledQuery && (rule.pattern != nil || rule.err != nil) {
		return rule.pattern, rule.err
	}
	rule.compiledQuery = query
	rule.pattern, rule.err = CompileQuery(query)
	return rule.pattern, rule.err
}

// DocumentMatches reports whether pattern matches the document's
// name, its file description, or the description or subject of any
// policy in the file. Fields are tried in that order and the first
// hit wins.
func DocumentMatches(scope *reactive.Scope, document *Document, pattern *regexp2.Regexp) bool {
	if matched, err := pattern.MatchString(document.Name.Read(scope)); err == nil && matched {
		return true
	}
	meta := document.Meta.Read(scope)
	if fieldMatches(pattern, meta.Description) {
		return true
	}
	for _, policy := range meta.Policies {
		if fieldMatches(pattern, policy.Description) || fieldMatches(pattern, policy.By) {
			return true
		}
	}
	return false
}

// fieldMatches treats empty optional fields and evaluation errors
// (timeouts) as non-matches.
func fieldMatches(pattern *regexp2.Regexp, field string) bool {
	if field == "" {
		return false
	}
	matched, err := pattern.MatchString(field)
	return err == nil && matched
}
