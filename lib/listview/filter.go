// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package listview

import (
	"slices"

	"github.com/bureau-foundation/policyview/lib/reactive"
)

// Content is any node producing an ordered sequence of items:
// a [reactive.Slice], a [reactive.Computed], or another stage.
type Content[T any] interface {
	Read(scope *reactive.Scope) []T
}

// Rule narrows a candidate sequence. Reactive state the rule depends
// on (a query string, a toggle) must be read through the scope so
// that the owning stage recomputes when it changes.
type Rule[T any] interface {
	// Enabled reports whether the rule participates. A rule without a
	// condition (an empty search box) should report false rather than
	// pass everything through.
	Enabled(scope *reactive.Scope) bool

	// Apply returns the subsequence of items the rule keeps. It must
	// not reorder or duplicate items and must not modify the input.
	Apply(scope *reactive.Scope, items []T) []T
}

// RuleFunc adapts a per-item predicate into a Rule. A nil EnabledFunc
// means the rule is always enabled.
type RuleFunc[T any] struct {
	EnabledFunc func(scope *reactive.Scope) bool
	Keep        func(scope *reactive.Scope, item T) bool
}

// Enabled implements [Rule].
func (rule RuleFunc[T]) Enabled(scope *reactive.Scope) bool {
	if rule.EnabledFunc == nil {
		return true
	}
	return rule.EnabledFunc(scope)
}

// Apply implements [Rule].
func (rule RuleFunc[T]) Apply(scope *reactive.Scope, items []T) []T {
	return Filter(items, func(item T) bool { return rule.Keep(scope, item) })
}

// Filter returns the items for which keep returns true, in their
// original order. The input is not modified.
func Filter[T any](items []T, keep func(T) bool) []T {
	var kept []T
	for _, item := range items {
		if keep(item) {
			kept = append(kept, item)
		}
	}
	return kept
}

// FilterStage holds an ordered rule list and derives the subset of
// its content that every enabled rule keeps.
type FilterStage[T any] struct {
	content  Content[T]
	rules    *reactive.Slice[Rule[T]]
	filtered *reactive.Computed[[]T]
}

// NewFilterStage creates a stage over content with an initial rule
// list. The stage reads content but never modifies it.
func NewFilterStage[T any](content Content[T], rules ...Rule[T]) *FilterStage[T] {
	stage := &FilterStage[T]{
		content: content,
		rules:   reactive.NewSlice(rules...),
	}
	stage.filtered = reactive.NewComputed(stage.fold)
	return stage
}

// fold applies every enabled rule in insertion order, each to the
// output of the previous one. With no enabled rule the result is the
// content itself.
func (stage *FilterStage[T]) fold(scope *reactive.Scope) []T {
	items := stage.content.Read(scope)
	for _, rule := range stage.rules.Read(scope) {
		if !rule.Enabled(scope) {
			continue
		}
		items = rule.Apply(scope, items)
	}
	return slices.Clip(items)
}

// AddRule appends a rule. Rules are not deduplicated.
func (stage *FilterStage[T]) AddRule(rule Rule[T]) {
	stage.rules.Append(rule)
}

// Rules returns the current rule list in evaluation order.
func (stage *FilterStage[T]) Rules() []Rule[T] {
	return stage.rules.Get()
}

// FilteredContent returns the derived sequence. The result may share
// its backing array with the raw collection; callers must not modify
// it.
func (stage *FilterStage[T]) FilteredContent() []T {
	return stage.filtered.Get()
}

// Read implements [Content], so stages can be chained.
func (stage *FilterStage[T]) Read(scope *reactive.Scope) []T {
	return stage.filtered.Read(scope)
}

// Subscribe registers callback to run whenever the filtered content
// may have changed.
func (stage *FilterStage[T]) Subscribe(callback func()) *reactive.Subscription {
	return stage.filtered.Subscribe(callback)
}

// Close detaches the stage from its content and rules.
func (stage *FilterStage[T]) Close() {
	stage.filtered.Close()
}
