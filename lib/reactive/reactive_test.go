// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package reactive

import (
	"slices"
	"testing"
)

func TestComputedIsLazy(t *testing.T) {
	source := NewValue(2)
	evaluations := 0
	doubled := NewComputed(func(scope *Scope) int {
		evaluations++
		return source.Read(scope) * 2
	})

	if evaluations != 0 {
		t.Fatalf("computed evaluated %d times before first read", evaluations)
	}
	if got := doubled.Get(); got != 4 {
		t.Errorf("doubled = %d, want 4", got)
	}
	doubled.Get()
	if evaluations != 1 {
		t.Errorf("repeated read evaluated %d times, want 1", evaluations)
	}

	source.Set(5)
	source.Set(6)
	if evaluations != 1 {
		t.Errorf("writes without reads evaluated %d times, want 1", evaluations)
	}
	if got := doubled.Get(); got != 12 {
		t.Errorf("doubled = %d after Set(6), want 12", got)
	}
	if evaluations != 2 {
		t.Errorf("evaluations = %d after second read, want 2", evaluations)
	}
}

func TestUntrackedReadIsNotADependency(t *testing.T) {
	tracked := NewValue("a")
	untracked := NewValue("b")
	joined := NewComputed(func(scope *Scope) string {
		return tracked.Read(scope) + untracked.Get()
	})

	if got := joined.Get(); got != "ab" {
		t.Fatalf("joined = %q, want ab", got)
	}
	untracked.Set("c")
	if got := joined.Get(); got != "ab" {
		t.Errorf("untracked write invalidated computed: got %q", got)
	}
	tracked.Set("x")
	if got := joined.Get(); got != "xc" {
		t.Errorf("joined = %q after tracked write, want xc", got)
	}
}

func TestDiamondNotifiesSubscriberOnce(t *testing.T) {
	root := NewValue(1)
	left := NewComputed(func(scope *Scope) int { return root.Read(scope) + 1 })
	right := NewComputed(func(scope *Scope) int { return root.Read(scope) * 10 })
	sum := NewComputed(func(scope *Scope) int { return left.Read(scope) + right.Read(scope) })

	var observed []int
	sum.Subscribe(func() { observed = append(observed, sum.Get()) })

	root.Set(2)
	if !slices.Equal(observed, []int{23}) {
		t.Fatalf("observed = %v, want [23]", observed)
	}
	root.Set(3)
	if !slices.Equal(observed, []int{23, 34}) {
		t.Errorf("observed = %v, want [23 34]", observed)
	}
}

func TestSubscribersRunAfterWholeGraphIsDirty(t *testing.T) {
	root := NewValue(1)
	first := NewComputed(func(scope *Scope) int { return root.Read(scope) })
	second := NewComputed(func(scope *Scope) int { return root.Read(scope) })

	var seen []int
	first.Subscribe(func() { seen = append(seen, second.Get()) })
	second.Subscribe(func() {})

	root.Set(7)
	if !slices.Equal(seen, []int{7}) {
		t.Errorf("first's subscriber saw second = %v, want [7]", seen)
	}
}

func TestDynamicDependencies(t *testing.T) {
	useLeft := NewValue(true)
	left := NewValue("L")
	right := NewValue("R")
	chosen := NewComputed(func(scope *Scope) string {
		if useLeft.Read(scope) {
			return left.Read(scope)
		}
		return right.Read(scope)
	})

	notifications := 0
	chosen.Subscribe(func() { notifications++ })

	right.Set("R2")
	if notifications != 0 {
		t.Errorf("write to unread branch notified %d times", notifications)
	}

	useLeft.Set(false)
	if got := chosen.Get(); got != "R2" {
		t.Fatalf("chosen = %q, want R2", got)
	}
	notifications = 0
	left.Set("L2")
	if notifications != 0 {
		t.Errorf("write to abandoned branch notified %d times", notifications)
	}
	right.Set("R3")
	if notifications != 1 {
		t.Errorf("write to active branch notified %d times, want 1", notifications)
	}
}

func TestComparableSuppressesRedundantWrites(t *testing.T) {
	value := NewComparable("same")
	notifications := 0
	value.Subscribe(func() { notifications++ })

	value.Set("same")
	if notifications != 0 {
		t.Errorf("redundant write notified %d times", notifications)
	}
	value.Set("different")
	if notifications != 1 {
		t.Errorf("notifications = %d, want 1", notifications)
	}
}

func TestTouchNotifiesWithoutReplacing(t *testing.T) {
	flags := NewValue(map[string]bool{"a": true})
	count := NewComputed(func(scope *Scope) int {
		total := 0
		for _, set := range flags.Read(scope) {
			if set {
				total++
			}
		}
		return total
	})
	if count.Get() != 1 {
		t.Fatalf("count = %d, want 1", count.Get())
	}

	flags.Get()["b"] = true
	flags.Touch()
	if count.Get() != 2 {
		t.Errorf("count = %d after Touch, want 2", count.Get())
	}
}

func TestClosedSubscriptionIsSkipped(t *testing.T) {
	value := NewValue(0)
	calls := 0
	subscription := value.Subscribe(func() { calls++ })

	value.Set(1)
	subscription.Close()
	subscription.Close()
	value.Set(2)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestSubscriptionClosedDuringFlushIsSkipped(t *testing.T) {
	value := NewValue(0)
	var second *Subscription
	secondCalls := 0
	value.Subscribe(func() { second.Close() })
	second = value.Subscribe(func() { secondCalls++ })

	value.Set(1)
	if secondCalls != 0 {
		t.Errorf("subscription closed by an earlier callback still ran %d times", secondCalls)
	}
}

func TestNestedWriteFromSubscriber(t *testing.T) {
	input := NewValue(10)
	clamped := NewValue(10)
	limit := NewComputed(func(scope *Scope) int { return input.Read(scope) })
	limit.Subscribe(func() {
		if clamped.Get() > limit.Get() {
			clamped.Set(limit.Get())
		}
	})

	view := NewComputed(func(scope *Scope) int { return clamped.Read(scope) })
	if view.Get() != 10 {
		t.Fatalf("view = %d, want 10", view.Get())
	}

	input.Set(4)
	if got := view.Get(); got != 4 {
		t.Errorf("view = %d after shrinking input, want 4", got)
	}
}

func TestComputedClose(t *testing.T) {
	source := NewValue(1)
	evaluations := 0
	mirror := NewComputed(func(scope *Scope) int {
		evaluations++
		return source.Read(scope)
	})
	notifications := 0
	mirror.Subscribe(func() { notifications++ })

	mirror.Close()
	source.Set(2)
	if notifications != 0 {
		t.Errorf("closed computed notified %d times", notifications)
	}
	if got := mirror.Get(); got != 2 {
		t.Errorf("closed computed Get = %d, want 2", got)
	}
}

func TestSelfDependencyPanics(t *testing.T) {
	var loop *Computed[int]
	loop = NewComputed(func(scope *Scope) int { return loop.Read(scope) + 1 })

	defer func() {
		if recover() == nil {
			t.Error("expected panic for self-referential computed")
		}
	}()
	loop.Get()
}

func TestSliceCopyOnWrite(t *testing.T) {
	collection := NewSlice(1, 2, 3)
	before := collection.Get()

	collection.Append(4)
	if !slices.Equal(before, []int{1, 2, 3}) {
		t.Errorf("earlier snapshot changed to %v", before)
	}
	if !slices.Equal(collection.Get(), []int{1, 2, 3, 4}) {
		t.Errorf("after Append = %v", collection.Get())
	}

	snapshot := collection.Get()
	if !collection.RemoveFunc(func(item int) bool { return item%2 == 0 }) {
		t.Fatal("RemoveFunc reported no removal")
	}
	if !slices.Equal(snapshot, []int{1, 2, 3, 4}) {
		t.Errorf("snapshot changed to %v after RemoveFunc", snapshot)
	}
	if !slices.Equal(collection.Get(), []int{1, 3}) {
		t.Errorf("after RemoveFunc = %v, want [1 3]", collection.Get())
	}
	if collection.RemoveFunc(func(int) bool { return false }) {
		t.Error("RemoveFunc reported removal when nothing matched")
	}
}

func TestSliceLenTracksChanges(t *testing.T) {
	collection := NewSlice[string]()
	size := NewComputed(func(scope *Scope) int { return collection.Len(scope) })

	if size.Get() != 0 {
		t.Fatalf("size = %d, want 0", size.Get())
	}
	collection.Append("a", "b")
	if size.Get() != 2 {
		t.Errorf("size = %d after Append, want 2", size.Get())
	}
	collection.Replace(nil)
	if size.Get() != 0 {
		t.Errorf("size = %d after Replace(nil), want 0", size.Get())
	}
}
