// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package reactive

// Computed is a derived node. Its function runs lazily: on the first
// read, and on the next read after any dependency changed.
type Computed[T any] struct {
	node
	compute      func(*Scope) T
	value        T
	dirty        bool
	evaluating   bool
	closed       bool
	dependencies []*node
}

// NewComputed creates a derived node. The function must be pure with
// respect to the nodes it reads through its scope: given the same
// inputs it returns an equivalent result, and it never writes nodes.
func NewComputed[T any](compute func(*Scope) T) *Computed[T] {
	return &Computed[T]{compute: compute, dirty: true}
}

// Get returns the current derived value, recomputing if stale.
func (computed *Computed[T]) Get() T {
	if computed.closed {
		return computed.compute(&Scope{})
	}
	if computed.dirty {
		computed.evaluate()
	}
	return computed.value
}

// Read returns the current derived value and records it as a
// dependency of the computation owning scope.
func (computed *Computed[T]) Read(scope *Scope) T {
	scope.track(&computed.node)
	return computed.Get()
}

// Subscribe registers callback to run whenever an input of this
// computation changes. The value is evaluated first so that its
// dependencies are known.
func (computed *Computed[T]) Subscribe(callback func()) *Subscription {
	computed.Get()
	return computed.node.subscribe(callback)
}

// Close detaches the computation from its inputs. A closed Computed
// still answers Get by recomputing, but is no longer notified of
// changes and no longer notifies its own dependents.
func (computed *Computed[T]) Close() {
	for _, dependency := range computed.dependencies {
		dependency.detach(computed)
	}
	computed.dependencies = nil
	computed.dirty = true
	computed.closed = true
}

func (computed *Computed[T]) evaluate() {
	if computed.evaluating {
		panic("reactive: computed value depends on itself")
	}
	computed.evaluating = true
	defer func() { computed.evaluating = false }()

	scope := &Scope{}
	value := computed.compute(scope)

	for _, dependency := range computed.dependencies {
		dependency.detach(computed)
	}
	for _, dependency := range scope.sources {
		dependency.attach(computed)
	}
	computed.dependencies = scope.sources
	computed.value = value
	computed.dirty = false
}

func (computed *Computed[T]) invalidate(pass *propagation) {
	if !pass.visit(computed) {
		return
	}
	computed.dirty = true
	computed.node.changed(pass)
}
