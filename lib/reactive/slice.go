// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package reactive

import "slices"

// Slice is an ordered, observable collection. Mutations never modify
// a backing array that was already handed out by Get or Read, so a
// slice obtained before a write stays stable afterward.
type Slice[T any] struct {
	Value[[]T]
}

// NewSlice creates a Slice holding items. The Slice takes ownership of
// the argument.
func NewSlice[T any](items ...T) *Slice[T] {
	return &Slice[T]{Value: Value[[]T]{value: slices.Clip(items)}}
}

// Len returns the number of items, recording a dependency on scope.
func (collection *Slice[T]) Len(scope *Scope) int {
	return len(collection.Read(scope))
}

// Append adds items to the end of the collection.
func (collection *Slice[T]) Append(items ...T) {
	if len(items) == 0 {
		return
	}
	collection.Set(append(slices.Clip(collection.value), items...))
}

// Replace swaps the entire contents for items, taking ownership of
// the argument.
func (collection *Slice[T]) Replace(items []T) {
	collection.Set(slices.Clip(items))
}

// RemoveFunc removes every item for which remove returns true and
// reports whether anything was removed. Survivors keep their order.
func (collection *Slice[T]) RemoveFunc(remove func(T) bool) bool {
	kept := make([]T, 0, len(collection.value))
	for _, item := range collection.value {
		if !remove(item) {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(collection.value) {
		return false
	}
	collection.Set(kept)
	return true
}
