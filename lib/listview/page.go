// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package listview

import "github.com/bureau-foundation/policyview/lib/reactive"

// DefaultPageSize is the window size used when PageConfig.PageSize
// is not positive.
const DefaultPageSize = 30

// PageConfig is the construction-time configuration of a PageStage.
type PageConfig struct {
	// PageSize is the maximum number of items per window.
	PageSize int

	// Offset is the initial start index. It is clamped like any
	// other offset, against whatever content exists when it is read,
	// so an offset given before the collection is loaded still
	// applies once the data arrives.
	Offset int
}

// PageStage derives a window of at most PageSize items from its
// content, plus the navigation state needed to render page controls.
//
// The requested offset is clamped to [0, (PageCount-1)*PageSize]. When
// the content shrinks under the current offset the stored offset is
// clamped in the same propagation that delivered the change, so the
// page never goes empty while items remain.
type PageStage[T any] struct {
	content  Content[T]
	pageSize int

	requested *reactive.Value[int]
	total     *reactive.Computed[int]
	offset    *reactive.Computed[int]
	page      *reactive.Computed[[]T]
	full      *reactive.Computed[[]T]

	clamp *reactive.Subscription
}

// NewPageStage creates a stage windowing content.
func NewPageStage[T any](content Content[T], config PageConfig) *PageStage[T] {
	pageSize := config.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	stage := &PageStage[T]{
		content:   content,
		pageSize:  pageSize,
		requested: reactive.NewComparable(config.Offset),
	}
	stage.full = reactive.NewComputed(func(scope *reactive.Scope) []T {
		return content.Read(scope)
	})
	stage.total = reactive.NewComputed(func(scope *reactive.Scope) int {
		return len(stage.full.Read(scope))
	})
	stage.offset = reactive.NewComputed(func(scope *reactive.Scope) int {
		return stage.clampOffset(stage.requested.Read(scope), stage.total.Read(scope))
	})
	stage.page = reactive.NewComputed(func(scope *reactive.Scope) []T {
		items := stage.full.Read(scope)
		start := stage.offset.Read(scope)
		end := min(start+stage.pageSize, len(items))
		return items[start:end:end]
	})

	stage.clamp = stage.total.Subscribe(func() {
		clamped := stage.clampOffset(stage.requested.Get(), stage.total.Get())
		stage.requested.Set(clamped)
	})
	return stage
}

// pageCountFor returns ceil(total/pageSize), with a minimum of 1.
func (stage *PageStage[T]) pageCountFor(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + stage.pageSize - 1) / stage.pageSize
}

func (stage *PageStage[T]) clampOffset(offset, total int) int {
	maximum := (stage.pageCountFor(total) - 1) * stage.pageSize
	return max(0, min(offset, maximum))
}

// Page returns the current window. Callers must not modify it.
func (stage *PageStage[T]) Page() []T {
	return stage.page.Get()
}

// ReadPage returns the current window and records a dependency.
func (stage *PageStage[T]) ReadPage(scope *reactive.Scope) []T {
	return stage.page.Read(scope)
}

// Content returns the full sequence being paged, for callers that
// switch paging off.
func (stage *PageStage[T]) Content() []T {
	return stage.full.Get()
}

// ReadContent returns the full sequence and records a dependency.
func (stage *PageStage[T]) ReadContent(scope *reactive.Scope) []T {
	return stage.full.Read(scope)
}

// PageSize returns the configured window size.
func (stage *PageStage[T]) PageSize() int {
	return stage.pageSize
}

// Offset returns the start index of the current window.
func (stage *PageStage[T]) Offset() int {
	return stage.offset.Get()
}

// Total returns the number of items being paged.
func (stage *PageStage[T]) Total() int {
	return stage.total.Get()
}

// PageCount returns the number of pages, at least 1.
func (stage *PageStage[T]) PageCount() int {
	return stage.pageCountFor(stage.total.Get())
}

// CurrentPageIndex returns the 0-based index of the page containing
// the current offset.
func (stage *PageStage[T]) CurrentPageIndex() int {
	return stage.offset.Get() / stage.pageSize
}

// Range returns the 1-based positions of the first and last items in
// the window, or (0, 0) when there are no items.
func (stage *PageStage[T]) Range() (first, last int) {
	count := len(stage.page.Get())
	if count == 0 {
		return 0, 0
	}
	offset := stage.offset.Get()
	return offset + 1, offset + count
}

// HasNext reports whether NextPage would move the window.
func (stage *PageStage[T]) HasNext() bool {
	return stage.offset.Get()+stage.pageSize < stage.total.Get()
}

// HasPrevious reports whether PreviousPage would move the window.
func (stage *PageStage[T]) HasPrevious() bool {
	return stage.offset.Get() > 0
}

// SetOffset moves the window to start at offset, clamped into the
// valid range.
func (stage *PageStage[T]) SetOffset(offset int) {
	stage.requested.Set(stage.clampOffset(offset, stage.total.Get()))
}

// GoToPage moves to the 0-based page index, clamped.
func (stage *PageStage[T]) GoToPage(index int) {
	stage.SetOffset(index * stage.pageSize)
}

// NextPage advances by one page size; it stops at the last page.
func (stage *PageStage[T]) NextPage() {
	stage.SetOffset(stage.offset.Get() + stage.pageSize)
}

// PreviousPage moves back by one page size; it stops at offset 0.
func (stage *PageStage[T]) PreviousPage() {
	stage.SetOffset(stage.offset.Get() - stage.pageSize)
}

// FirstPage moves to offset 0.
func (stage *PageStage[T]) FirstPage() {
	stage.SetOffset(0)
}

// LastPage moves to the start of the last page.
func (stage *PageStage[T]) LastPage() {
	stage.GoToPage(stage.PageCount() - 1)
}

// Subscribe registers callback to run whenever the window may have
// changed.
func (stage *PageStage[T]) Subscribe(callback func()) *reactive.Subscription {
	return stage.page.Subscribe(callback)
}

// Close detaches the stage from its content.
func (stage *PageStage[T]) Close() {
	stage.clamp.Close()
	stage.page.Close()
	stage.offset.Close()
	stage.total.Close()
	stage.full.Close()
}
