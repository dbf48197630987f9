// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package listview

import "github.com/bureau-foundation/policyview/lib/reactive"

// ViewConfig configures a View.
type ViewConfig[T any] struct {
	// Page configures the PageStage.
	Page PageConfig

	// DisablePaging starts the view showing the full filtered content.
	DisablePaging bool

	// Rules are installed on the FilterStage in order.
	Rules []Rule[T]

	// Valid reports an item's validity flag. When nil, the view has
	// no validity aggregate and AllValid always reports true.
	Valid func(scope *reactive.Scope, item T) bool
}

// View composes the stages of a list screen over one collection.
type View[T any] struct {
	Raw           Content[T]
	Filter        *FilterStage[T]
	Pager         *PageStage[T]
	PagingEnabled *reactive.Value[bool]

	visible  *reactive.Computed[[]T]
	allValid *reactive.Computed[bool]
	rendered *reactive.Computed[struct{}]
}

// NewView wires raw through a FilterStage and a PageStage.
func NewView[T any](raw Content[T], config ViewConfig[T]) *View[T] {
	filter := NewFilterStage(raw, config.Rules...)
	pager := NewPageStage[T](filter, config.Page)
	view := &View[T]{
		Raw:           raw,
		Filter:        filter,
		Pager:         pager,
		PagingEnabled: reactive.NewComparable(!config.DisablePaging),
	}
	view.visible = reactive.NewComputed(func(scope *reactive.Scope) []T {
		if view.PagingEnabled.Read(scope) {
			return pager.ReadPage(scope)
		}
		return pager.ReadContent(scope)
	})
	if config.Valid != nil {
		view.allValid = NewAllValid(raw, config.Valid)
	}
	view.rendered = reactive.NewComputed(func(scope *reactive.Scope) struct{} {
		view.visible.Read(scope)
		if view.allValid != nil {
			view.allValid.Read(scope)
		}
		return struct{}{}
	})
	return view
}

// Visible returns what the list should render: the current page when
// paging is enabled, otherwise the full filtered content.
func (view *View[T]) Visible() []T {
	return view.visible.Get()
}

// ReadVisible is Visible with dependency tracking.
func (view *View[T]) ReadVisible(scope *reactive.Scope) []T {
	return view.visible.Read(scope)
}

// AllValid reports whether every raw item is valid.
func (view *View[T]) AllValid() bool {
	if view.allValid == nil {
		return true
	}
	return view.allValid.Get()
}

// Subscribe registers callback to run whenever the visible items or
// the validity aggregate may have changed.
func (view *View[T]) Subscribe(callback func()) *reactive.Subscription {
	return view.rendered.Subscribe(callback)
}

// Close detaches every stage of the view from its inputs.
func (view *View[T]) Close() {
	view.rendered.Close()
	view.visible.Close()
	if view.allValid != nil {
		view.allValid.Close()
	}
	view.Pager.Close()
	view.Filter.Close()
}
