package watcher

import (
	"testing"

	"github.com/seven-it/Learn-Vue/internal/errors"
	"github.com/seven-it/Learn-Vue/pkg/observer"
)

func TestSchedulerBatchesWrites(t *testing.T) {
	s := NewScheduler()
	obj := reactive(map[string]any{"a": 1})
	rec := &recorder{}

	New(func() any { return obj.Get("a") }, rec.cb, WithScheduler(s))

	obj.Set("a", 2)
	obj.Set("a", 3)

	if len(rec.calls) != 0 {
		t.Fatalf("callback ran before flush")
	}
	if s.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", s.Pending())
	}

	if ran := s.Flush(); ran != 1 {
		t.Errorf("Flush() = %d, want 1", ran)
	}
	if len(rec.calls) != 1 || rec.calls[0] != (change{3, 1}) {
		t.Errorf("calls = %+v, want [{3 1}]", rec.calls)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after flush, want 0", s.Pending())
	}
}

func TestSchedulerRunsInCreationOrder(t *testing.T) {
	s := NewScheduler()
	obj := reactive(map[string]any{"a": 1, "b": 1, "c": 1})

	var order []string
	watch := func(key string) {
		New(func() any { return obj.Get(key) }, func(_, _ any) {
			order = append(order, key)
		}, WithScheduler(s))
	}
	watch("a")
	watch("b")
	watch("c")

	obj.Set("c", 2)
	obj.Set("a", 2)
	obj.Set("b", 2)
	s.Flush()

	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestSchedulerQueuesDuringFlush(t *testing.T) {
	s := NewScheduler()
	obj := reactive(map[string]any{"a": 1, "b": 1})

	var order []string
	New(func() any { return obj.Get("a") }, func(v, _ any) {
		order = append(order, "a")
		obj.Set("b", v)
	}, WithScheduler(s))
	New(func() any { return obj.Get("b") }, func(_, _ any) {
		order = append(order, "b")
	}, WithScheduler(s))

	obj.Set("a", 5)
	if ran := s.Flush(); ran != 2 {
		t.Errorf("Flush() = %d, want 2", ran)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("order = %v, want [a b]", order)
	}
}

func TestSchedulerBeforeHook(t *testing.T) {
	s := NewScheduler()
	obj := reactive(map[string]any{"a": 1})

	var events []string
	New(func() any { return obj.Get("a") }, func(_, _ any) {
		events = append(events, "run")
	}, WithScheduler(s), WithBefore(func() {
		events = append(events, "before")
	}))

	obj.Set("a", 2)
	s.Flush()

	if len(events) != 2 || events[0] != "before" || events[1] != "run" {
		t.Errorf("events = %v, want [before run]", events)
	}
}

func TestSchedulerDetectsInfiniteLoop(t *testing.T) {
	warnings := captureWarnings(t)
	s := NewScheduler()
	obj := reactive(map[string]any{"a": 0})

	New(func() any { return obj.Get("a") }, func(v, _ any) {
		obj.Set("a", v.(int)+1)
	}, WithScheduler(s), WithName("counter"))

	obj.Set("a", 1)
	ran := s.Flush()

	if ran != MaxUpdateCount+1 {
		t.Errorf("Flush() = %d, want %d", ran, MaxUpdateCount+1)
	}
	if len(*warnings) != 1 || (*warnings)[0].Code != errors.CodeInfiniteUpdateLoop {
		t.Fatalf("warnings = %v, want one %s", *warnings, errors.CodeInfiniteUpdateLoop)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after aborted flush, want 0", s.Pending())
	}
}

func TestSchedulerFlushHook(t *testing.T) {
	var flushed []int
	s := NewScheduler(OnFlush(func(ran int) { flushed = append(flushed, ran) }))
	obj := reactive(map[string]any{"a": 1})

	New(func() any { return obj.Get("a") }, nil, WithScheduler(s))
	obj.Set("a", 2)
	s.Flush()
	s.Flush()

	if len(flushed) != 2 || flushed[0] != 1 || flushed[1] != 0 {
		t.Errorf("flush hook got %v, want [1 0]", flushed)
	}
}

func TestSchedulerFlushesImmediatelyWhenNotAsync(t *testing.T) {
	cfg := observer.CurrentConfig()
	cfg.Async = false
	old := observer.SetConfig(cfg)
	defer observer.SetConfig(old)

	s := NewScheduler()
	obj := reactive(map[string]any{"a": 1})
	rec := &recorder{}

	New(func() any { return obj.Get("a") }, rec.cb, WithScheduler(s))
	obj.Set("a", 2)

	if len(rec.calls) != 1 {
		t.Errorf("callback ran %d times without flush, want 1", len(rec.calls))
	}
}
