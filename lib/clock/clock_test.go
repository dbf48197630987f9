// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClockNow(t *testing.T) {
	clock := Fake(epoch)
	if got := clock.Now(); !got.Equal(epoch) {
		t.Errorf("Now() = %v, want %v", got, epoch)
	}
	// Time stands still without Advance.
	if got := clock.Now(); !got.Equal(epoch) {
		t.Errorf("second Now() = %v, want %v", got, epoch)
	}
}

func TestFakeClockAdvance(t *testing.T) {
	clock := Fake(epoch)
	clock.Advance(90 * time.Second)
	if got, want := clock.Now(), epoch.Add(90*time.Second); !got.Equal(want) {
		t.Errorf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeClockAdvanceNegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Advance(-1s) did not panic")
		}
	}()
	Fake(epoch).Advance(-time.Second)
}

func TestRealClockMovesForward(t *testing.T) {
	clock := Real()
	first := clock.Now()
	if second := clock.Now(); second.Before(first) {
		t.Errorf("Real clock went backwards: %v then %v", first, second)
	}
}
