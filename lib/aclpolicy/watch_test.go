// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package aclpolicy

import (
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/bureau-foundation/policyview/lib/testutil"
)

func mustSnapshot(t *testing.T, listing Listing) snapshot {
	t.Helper()
	result, err := takeSnapshot(listing)
	if err != nil {
		t.Fatalf("takeSnapshot: %v", err)
	}
	return result
}

func TestDiffSnapshots(t *testing.T) {
	previous := mustSnapshot(t, listingOf("a", "b", "c"))

	changedListing := listingOf("a", "b", "d")
	changedListing.Policies[1].Valid = false
	update, changed := diffSnapshots(previous, mustSnapshot(t, changedListing))
	if !changed {
		t.Fatal("diff reported no change")
	}
	if !slices.Equal(update.Changed, []string{"b", "d"}) {
		t.Errorf("Changed = %v, want [b d]", update.Changed)
	}
	if !slices.Equal(update.Removed, []string{"c"}) {
		t.Errorf("Removed = %v, want [c]", update.Removed)
	}
}

func TestDiffSnapshotsNoChange(t *testing.T) {
	previous := mustSnapshot(t, listingOf("a", "b"))
	if _, changed := diffSnapshots(previous, mustSnapshot(t, listingOf("a", "b"))); changed {
		t.Error("identical listings reported as changed")
	}
}

func TestDiffSnapshotsReorder(t *testing.T) {
	previous := mustSnapshot(t, listingOf("a", "b"))
	update, changed := diffSnapshots(previous, mustSnapshot(t, listingOf("b", "a")))
	if !changed {
		t.Error("reordering not reported")
	}
	if !slices.Equal(update.Changed, []string{"b", "a"}) {
		t.Errorf("Changed = %v, want [b a]", update.Changed)
	}
	if len(update.Removed) != 0 {
		t.Errorf("Removed = %v", update.Removed)
	}
}

func TestDiffSnapshotsPartialMove(t *testing.T) {
	previous := mustSnapshot(t, listingOf("a", "b", "c", "d"))
	update, changed := diffSnapshots(previous, mustSnapshot(t, listingOf("a", "c", "b", "d")))
	if !changed {
		t.Fatal("move not reported")
	}
	if !slices.Equal(update.Changed, []string{"c", "b"}) {
		t.Errorf("Changed = %v, want [c b]", update.Changed)
	}
}

func TestDiffSnapshotsMetaChange(t *testing.T) {
	before := listingOf("a")
	before.Policies[0].Meta = &Meta{Count: 1, Policies: []PolicyMeta{{By: "group:ops"}}}
	after := listingOf("a")
	after.Policies[0].Meta = &Meta{Count: 1, Policies: []PolicyMeta{{By: "group:dev"}}}

	update, changed := diffSnapshots(mustSnapshot(t, before), mustSnapshot(t, after))
	if !changed || !slices.Equal(update.Changed, []string{"a"}) {
		t.Errorf("meta change: changed=%v update=%+v", changed, update)
	}
}

func TestMergeUpdates(t *testing.T) {
	older := Update{Listing: listingOf("a", "b"), Changed: []string{"a"}, Removed: []string{"c", "d"}}
	newer := Update{Listing: listingOf("b", "d"), Changed: []string{"d"}, Removed: []string{"a"}}

	merged := mergeUpdates(older, newer)
	if !slices.Equal(merged.Changed, []string{"d"}) {
		t.Errorf("Changed = %v, want [d]", merged.Changed)
	}
	if !slices.Equal(merged.Removed, []string{"a", "c"}) {
		t.Errorf("Removed = %v, want [a c]", merged.Removed)
	}
	if len(merged.Listing.Policies) != 2 || merged.Listing.Policies[0].Name != "b" {
		t.Errorf("merged listing is not the newer one: %+v", merged.Listing)
	}
}

func TestInotifyMatchesFileEmpty(t *testing.T) {
	if inotifyMatchesFile(nil, "policies.json") {
		t.Error("empty buffer matched")
	}
}

const watchFixture = `{"policies": [
	{"name": "base.policy", "valid": true, "meta": {"count": 2}},
	{"name": "admin.policy", "valid": false}
]}`

func TestWatchListing(t *testing.T) {
	path := testutil.WriteFixture(t, "policies.json", watchFixture)

	watcher, initial, err := WatchListing(path, "", slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("WatchListing: %v", err)
	}
	defer watcher.Close()

	if len(initial.Policies) != 2 || initial.Policies[0].Name != "base.policy" {
		t.Fatalf("initial listing = %+v", initial)
	}

	testutil.ReplaceFile(t, path, `{"policies": [
	{"name": "base.policy", "valid": true, "meta": {"count": 2}},
	{"name": "admin.policy", "valid": true}
]}`)

	update := testutil.RequireReceive(t, watcher.Updates(), 5*time.Second, "waiting for reload")
	if !slices.Equal(update.Changed, []string{"admin.policy"}) {
		t.Errorf("Changed = %v, want [admin.policy]", update.Changed)
	}
	if len(update.Removed) != 0 {
		t.Errorf("Removed = %v", update.Removed)
	}
	if !update.Listing.Policies[1].Valid {
		t.Error("reloaded listing still has admin.policy invalid")
	}
}

func TestWatchListingIgnoresOtherFiles(t *testing.T) {
	path := testutil.WriteFixture(t, "policies.json", watchFixture)

	watcher, _, err := WatchListing(path, "", slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("WatchListing: %v", err)
	}
	defer watcher.Close()

	testutil.ReplaceFile(t, path+".bak", watchFixture)
	testutil.RequireNoReceive(t, watcher.Updates(), 300*time.Millisecond, "sibling file write")
}

func TestWatchListingUnchangedRewrite(t *testing.T) {
	path := testutil.WriteFixture(t, "policies.json", watchFixture)

	watcher, _, err := WatchListing(path, "", slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("WatchListing: %v", err)
	}
	defer watcher.Close()

	// Same documents, different formatting.
	testutil.ReplaceFile(t, path, `{"policies":[{"name":"base.policy","valid":true,"meta":{"count":2}},{"name":"admin.policy","valid":false}]}`)
	testutil.RequireNoReceive(t, watcher.Updates(), 300*time.Millisecond, "formatting-only rewrite")
}

func TestWatchListingClose(t *testing.T) {
	path := testutil.WriteFixture(t, "policies.json", watchFixture)

	watcher, _, err := WatchListing(path, "", slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("WatchListing: %v", err)
	}
	watcher.Close()
	watcher.Close()

	if _, open := <-watcher.Updates(); open {
		t.Error("Updates still open after Close")
	}
}

func TestWatchListingNilLogger(t *testing.T) {
	path := testutil.WriteFixture(t, "policies.json", watchFixture)

	watcher, _, err := WatchListing(path, "", nil)
	if err != nil {
		t.Fatalf("WatchListing: %v", err)
	}
	defer watcher.Close()

	// A truncated write makes the reload fail, which logs a warning.
	testutil.ReplaceFile(t, path, `{"policies": [`)
	testutil.RequireNoReceive(t, watcher.Updates(), 300*time.Millisecond, "truncated listing")
	testutil.ReplaceFile(t, path, `{"policies": [{"name": "base.policy", "valid": false}]}`)

	update := testutil.RequireReceive(t, watcher.Updates(), 5*time.Second, "waiting for reload")
	if !slices.Equal(update.Removed, []string{"admin.policy"}) {
		t.Errorf("Removed = %v, want [admin.policy]", update.Removed)
	}
}

func TestWatchListingMissingFile(t *testing.T) {
	if _, _, err := WatchListing("/nonexistent/policies.json", "", slog.New(slog.DiscardHandler)); err == nil {
		t.Error("WatchListing on a missing file succeeded")
	}
}
