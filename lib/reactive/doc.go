// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package reactive is a small synchronous dependency graph for
// client-side view state. Writes push invalidation through the graph;
// reads pull fresh values lazily.
//
// There are two kinds of node:
//
//   - [Value] holds state written by a collaborator (a search query,
//     a loaded collection, a validity flag). [Slice] is a Value of a
//     slice with copy-on-write helpers.
//   - [Computed] derives a value from other nodes. Its function
//     receives a [Scope]; every node read through that scope via
//     Read becomes a dependency edge. Edges are re-recorded on every
//     evaluation, so the dependency set may change between runs.
//
// A write marks every transitive dependent dirty first, then runs
// subscriber callbacks, each at most once per write, in the order
// they were registered. Callbacks therefore never observe a
// half-propagated graph: anything they read recomputes from the
// current inputs.
//
// The graph is single-threaded. Nodes must only be touched from one
// goroutine (for a TUI, the event loop). Background producers hand
// data to that goroutine rather than writing nodes directly.
package reactive
