// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] and [RequireNoReceive] encapsulate the timeout
// safety valve pattern (select with time.After fallback) so that
// individual tests do not need direct time.After calls. The listing
// watcher delivers reloads from its own goroutine, and these helpers
// are the only place tests wait on wall-clock time for them.
//
// [WriteFixture] and [ReplaceFile] create and atomically rewrite
// listing files in a per-test temporary directory.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
