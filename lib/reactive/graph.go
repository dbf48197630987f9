// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package reactive

import "slices"

// observer is a node that depends on other nodes and must be told
// when they change.
type observer interface {
	invalidate(pass *propagation)
}

// node is the dependents half of every readable node: the computeds
// that read it and the callbacks subscribed to it.
type node struct {
	observers []observer
	listeners []*Subscription
}

func (n *node) attach(dependent observer) {
	if slices.Contains(n.observers, dependent) {
		return
	}
	n.observers = append(n.observers, dependent)
}

func (n *node) detach(dependent observer) {
	n.observers = slices.DeleteFunc(n.observers, func(candidate observer) bool {
		return candidate == dependent
	})
}

func (n *node) subscribe(callback func()) *Subscription {
	subscription := &Subscription{callback: callback, owner: n}
	n.listeners = append(n.listeners, subscription)
	return subscription
}

// changed queues this node's listeners and invalidates its
// dependents. The observer list is cloned because invalidation never
// re-enters evaluation, but Close on a computed may detach mid-walk.
func (n *node) changed(pass *propagation) {
	for _, listener := range n.listeners {
		pass.enqueue(listener)
	}
	for _, dependent := range slices.Clone(n.observers) {
		dependent.invalidate(pass)
	}
}

// notify runs a complete propagation rooted at n.
func (n *node) notify() {
	pass := &propagation{
		visited: make(map[observer]struct{}),
		queued:  make(map[*Subscription]struct{}),
	}
	n.changed(pass)
	pass.flush()
}

// propagation carries the state of one write through the graph:
// which computeds were already invalidated and which callbacks are
// waiting to run.
type propagation struct {
	visited map[observer]struct{}
	queued  map[*Subscription]struct{}
	pending []*Subscription
}

// visit reports whether dependent is seen for the first time in
// this pass.
func (pass *propagation) visit(dependent observer) bool {
	if _, seen := pass.visited[dependent]; seen {
		return false
	}
	pass.visited[dependent] = struct{}{}
	return true
}

func (pass *propagation) enqueue(subscription *Subscription) {
	if _, seen := pass.queued[subscription]; seen {
		return
	}
	pass.queued[subscription] = struct{}{}
	pass.pending = append(pass.pending, subscription)
}

// flush runs queued callbacks. A callback that writes a node starts
// its own nested propagation, which completes before flush moves on.
func (pass *propagation) flush() {
	for _, subscription := range pass.pending {
		if subscription.closed {
			continue
		}
		subscription.callback()
	}
}

// Subscription is a registered change callback. The zero value is
// not usable; obtain one from a node's Subscribe method.
type Subscription struct {
	callback func()
	owner    *node
	closed   bool
}

// Close unregisters the callback. A callback already queued by an
// in-flight write is skipped. Close is idempotent.
func (subscription *Subscription) Close() {
	if subscription == nil || subscription.closed {
		return
	}
	subscription.closed = true
	subscription.owner.listeners = slices.DeleteFunc(subscription.owner.listeners, func(candidate *Subscription) bool {
		return candidate == subscription
	})
}

// Scope records the nodes a computation reads. A nil *Scope is valid
// and records nothing, which makes Read(nil) an untracked read.
type Scope struct {
	sources []*node
}

func (scope *Scope) track(source *node) {
	if scope == nil || slices.Contains(scope.sources, source) {
		return
	}
	scope.sources = append(scope.sources, source)
}
