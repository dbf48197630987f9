// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestInfoUsesInjectedCommit(t *testing.T) {
	savedCommit, savedDirty, savedTime := GitCommit, GitDirty, BuildTime
	t.Cleanup(func() { GitCommit, GitDirty, BuildTime = savedCommit, savedDirty, savedTime })

	GitCommit, GitDirty, BuildTime = "abc1234", "true", "2026-01-02T03:04:05Z"
	want := Version + " (abc1234-dirty, 2026-01-02T03:04:05Z)"
	if got := Info(); got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}

func TestPrint(t *testing.T) {
	var output strings.Builder
	Print(&output, "bureau-policy-viewer")

	lines := strings.Split(strings.TrimSuffix(output.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Print wrote %d lines, want 3:\n%s", len(lines), output.String())
	}
	if !strings.HasPrefix(lines[0], "bureau-policy-viewer "+Version) {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  Go: go") {
		t.Errorf("second line = %q", lines[1])
	}
}
