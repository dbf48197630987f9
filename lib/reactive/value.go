// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package reactive

// Value is a writable node holding a single value of type T.
type Value[T any] struct {
	node
	value T
	equal func(a, b T) bool
}

// NewValue creates a Value. Every Set notifies dependents, even when
// the new value equals the old one; use [NewComparable] for types
// where redundant writes should be suppressed.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{value: initial}
}

// NewComparable creates a Value whose Set is a no-op when the new
// value == the current one.
func NewComparable[T comparable](initial T) *Value[T] {
	return &Value[T]{
		value: initial,
		equal: func(a, b T) bool { return a == b },
	}
}

// Get returns the current value without recording a dependency.
func (value *Value[T]) Get() T {
	return value.value
}

// Read returns the current value and records it as a dependency of
// the computation owning scope.
func (value *Value[T]) Read(scope *Scope) T {
	scope.track(&value.node)
	return value.value
}

// Set stores a new value and propagates the change.
func (value *Value[T]) Set(next T) {
	if value.equal != nil && value.equal(value.value, next) {
		return
	}
	value.value = next
	value.node.notify()
}

// Update replaces the value with fn applied to the current one.
func (value *Value[T]) Update(fn func(T) T) {
	value.Set(fn(value.value))
}

// Touch propagates a change without replacing the value. Use it after
// mutating the contents of a reference-typed value in place.
func (value *Value[T]) Touch() {
	value.node.notify()
}

// Subscribe registers callback to run after every change.
func (value *Value[T]) Subscribe(callback func()) *Subscription {
	return value.node.subscribe(callback)
}
