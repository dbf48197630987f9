// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package listview derives what a list screen shows from an in-memory
// collection: a filtered subset and a page-sized window over it.
//
// The pipeline is one-directional:
//
//	[raw collection] --> [FilterStage] --> [PageStage] --> window
//
// Both stages are built on [reactive.Computed], so they recompute
// lazily and only after one of their inputs changed: the collection,
// the rule list, any state a rule reads through its scope, or the
// page offset. Callers never re-invoke a stage explicitly.
//
// Filtering is a left fold of the enabled rules over the collection;
// each [Rule] narrows what the previous one kept and must preserve
// order. Paging clamps its offset so that a non-empty result never
// shows an empty window.
//
// [View] bundles a collection, a FilterStage, a PageStage, a paging
// toggle and optionally a validity aggregate, which is the shape a
// typical list screen needs.
package listview
