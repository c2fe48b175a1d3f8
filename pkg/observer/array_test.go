package observer

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// observedList returns an observed object holding list under "list" and a
// subscriber that has read it.
func observedList(t *testing.T, items ...any) (*Array, *testSubscriber) {
	t.Helper()
	list := NewArray(items...)
	obj := ObjectOf(map[string]any{"list": list})
	Observe(obj)

	s := newTestSubscriber()
	track(s, func() { obj.Get("list") })
	return list, s
}

func TestArrayMutationsNotifyOncePerCall(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *Array)
		want   []any
	}{
		{"push", func(a *Array) { a.Push(4, 5) }, []any{3, 1, 2, 4, 5}},
		{"pop", func(a *Array) { a.Pop() }, []any{3, 1}},
		{"shift", func(a *Array) { a.Shift() }, []any{1, 2}},
		{"unshift", func(a *Array) { a.Unshift(0) }, []any{0, 3, 1, 2}},
		{"splice", func(a *Array) { a.Splice(1, 1, "x", "y") }, []any{3, "x", "y", 2}},
		{"sort", func(a *Array) { a.Sort(nil) }, []any{1, 2, 3}},
		{"reverse", func(a *Array) { a.Reverse() }, []any{2, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, s := observedList(t, 3, 1, 2)

			tt.mutate(list)

			if s.dirty != 1 {
				t.Errorf("dirty = %d, want exactly 1", s.dirty)
			}
			if diff := cmp.Diff(tt.want, list.Items()); diff != "" {
				t.Errorf("items mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestArrayInsertedContainersAreObserved(t *testing.T) {
	list, _ := observedList(t)

	pushed := NewObject()
	unshifted := NewArray()
	spliced := NewObject()

	list.Push(pushed)
	list.Unshift(unshifted)
	list.Splice(1, 0, spliced)

	for name, v := range map[string]any{"push": pushed, "unshift": unshifted, "splice": spliced} {
		if ObserverOf(v) == nil {
			t.Errorf("%s: inserted container should be observed", name)
		}
	}
}

func TestArrayIndexWriteDoesNotNotify(t *testing.T) {
	list, s := observedList(t, 1, 2)

	list.SetIndex(0, 9)
	if s.dirty != 0 {
		t.Error("raw index writes are not intercepted")
	}
	if list.At(0) != 9 {
		t.Errorf("At(0) = %v, want 9", list.At(0))
	}

	list.SetIndex(3, "x")
	if diff := cmp.Diff([]any{9, 2, nil, "x"}, list.Items()); diff != "" {
		t.Errorf("SetIndex should grow with nils (-want +got):\n%s", diff)
	}

	for _, i := range []int{-1, maxArrayIndex + 1, math.MaxInt} {
		if list.SetIndex(i, "y") {
			t.Errorf("SetIndex(%d) should be rejected", i)
		}
	}
	if list.Len() != 4 {
		t.Errorf("Len() = %d after rejected writes, want 4", list.Len())
	}
}

func TestArrayUnobservedIsNative(t *testing.T) {
	list := NewArray(1)
	list.Push(NewObject())

	if list.hook != nil {
		t.Error("unobserved arrays have no interception hook")
	}
	if ObserverOf(list.At(1)) != nil {
		t.Error("unobserved arrays do not observe inserted elements")
	}
}

func TestArrayInterceptionInstalledOnce(t *testing.T) {
	list := NewArray()
	ob := Observe(list)
	hook := list.hook

	if Observe(list) != ob {
		t.Fatal("re-observing must return the same Observer")
	}
	if list.hook != hook {
		t.Error("interception must not be installed twice")
	}

	s := newTestSubscriber()
	ob.Dep().AddSub(s)
	list.Push(1)
	if s.dirty != 1 {
		t.Errorf("dirty = %d, want one notification per mutation", s.dirty)
	}
}

func TestArraySpliceBounds(t *testing.T) {
	tests := []struct {
		name        string
		start, del  int
		vals        []any
		wantRemoved []any
		wantItems   []any
	}{
		{"negative start", -1, 1, nil, []any{3}, []any{1, 2}},
		{"start past end", 10, 1, []any{4}, []any{}, []any{1, 2, 3, 4}},
		{"negative delete", 0, -2, []any{0}, []any{}, []any{0, 1, 2, 3}},
		{"delete past end", 1, 10, nil, []any{2, 3}, []any{1}},
		{"very negative start", -10, 1, nil, []any{1}, []any{2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArray(1, 2, 3)
			removed := a.Splice(tt.start, tt.del, tt.vals...)
			if removed == nil {
				removed = []any{}
			}
			if diff := cmp.Diff(tt.wantRemoved, removed); diff != "" {
				t.Errorf("removed mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantItems, a.Items()); diff != "" {
				t.Errorf("items mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestArrayPopShiftEmpty(t *testing.T) {
	list, s := observedList(t)

	if list.Pop() != nil || list.Shift() != nil {
		t.Error("Pop/Shift on empty array should return nil")
	}
	if s.dirty != 2 {
		t.Errorf("dirty = %d, every intercepted call notifies", s.dirty)
	}
}

func TestArraySortCustomLess(t *testing.T) {
	a := NewArray(3, nil, 1, 2)
	a.Sort(nil)
	if diff := cmp.Diff([]any{1, 2, 3, nil}, a.Items()); diff != "" {
		t.Errorf("default sort mismatch (-want +got):\n%s", diff)
	}

	a.Sort(func(x, y any) bool {
		xi, _ := x.(int)
		yi, _ := y.(int)
		return xi > yi
	})
	if diff := cmp.Diff([]any{3, 2, 1, nil}, a.Items()); diff != "" {
		t.Errorf("custom sort mismatch (-want +got):\n%s", diff)
	}
}
