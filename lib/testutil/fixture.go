// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFixture writes content to name inside a fresh temporary
// directory and returns the file's path. The directory is removed
// when the test completes.
func WriteFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}

// ReplaceFile atomically replaces path with content by writing a
// sibling temporary file and renaming it over the original, the way
// editors and servers publish new versions.
func ReplaceFile(t *testing.T, path, content string) {
	t.Helper()
	temporary, err := os.CreateTemp(filepath.Dir(path), ".replace-*")
	if err != nil {
		t.Fatalf("creating replacement for %s: %v", path, err)
	}
	if _, err := temporary.WriteString(content); err != nil {
		temporary.Close()
		t.Fatalf("writing replacement for %s: %v", path, err)
	}
	if err := temporary.Close(); err != nil {
		t.Fatalf("closing replacement for %s: %v", path, err)
	}
	if err := os.Rename(temporary.Name(), path); err != nil {
		t.Fatalf("renaming replacement over %s: %v", path, err)
	}
}
