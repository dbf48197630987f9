// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"time"
)

// ChangeDecayDuration is how long a reloaded row stays tinted.
const ChangeDecayDuration = 5 * time.Second

// ChangeTickInterval is the re-render interval while any row is tinted.
const ChangeTickInterval = 100 * time.Millisecond

// ChangeKind distinguishes how a reload touched an item.
type ChangeKind int

const (
	// ChangeUpdated marks an item whose content differs from the
	// previous listing.
	ChangeUpdated ChangeKind = iota
	// ChangeAdded marks an item that was not in the previous listing.
	ChangeAdded
)

type changeEntry struct {
	marked time.Time
	kind   ChangeKind
}

// ChangeTracker remembers which items a reload touched and fades them
// out over [ChangeDecayDuration]. Items are keyed by name.
type ChangeTracker struct {
	entries map[string]changeEntry
}

// NewChangeTracker creates an empty tracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{entries: make(map[string]changeEntry)}
}

// Mark records a change. Marking an item again restarts its fade.
func (tracker *ChangeTracker) Mark(name string, kind ChangeKind, now time.Time) {
	tracker.entries[name] = changeEntry{marked: now, kind: kind}
}

// Intensity is 1.0 at Mark, decaying linearly to 0.0.
func (tracker *ChangeTracker) Intensity(name string, now time.Time) float64 {
	entry, exists := tracker.entries[name]
	if !exists {
		return 0.0
	}
	elapsed := now.Sub(entry.marked)
	if elapsed >= ChangeDecayDuration {
		return 0.0
	}
	return 1.0 - float64(elapsed)/float64(ChangeDecayDuration)
}

// Kind returns how the item was changed. Only meaningful while
// Intensity is positive.
func (tracker *ChangeTracker) Kind(name string) ChangeKind {
	return tracker.entries[name].kind
}

// Active reports whether any item is still fading, pruning entries
// that have finished.
func (tracker *ChangeTracker) Active(now time.Time) bool {
	active := false
	for name, entry := range tracker.entries {
		if now.Sub(entry.marked) < ChangeDecayDuration {
			active = true
			continue
		}
		delete(tracker.entries, name)
	}
	return active
}
