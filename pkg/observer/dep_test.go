package observer

import (
	"testing"
)

func TestDepAddSubDeduplicates(t *testing.T) {
	d := NewDep()
	s := newTestSubscriber()

	d.AddSub(s)
	d.AddSub(s)

	if d.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", d.Len())
	}

	d.Notify()
	if s.dirty != 1 {
		t.Errorf("dirty = %d, want 1 notification despite duplicate add", s.dirty)
	}
}

func TestDepRemoveSub(t *testing.T) {
	d := NewDep()
	a, b := newTestSubscriber(), newTestSubscriber()
	d.AddSub(a)
	d.AddSub(b)

	d.RemoveSub(a)
	d.RemoveSub(a) // non-member
	d.RemoveSub(nil)

	subs := d.Subs()
	if len(subs) != 1 || subs[0] != b {
		t.Fatalf("Subs() = %v, want only b", subs)
	}

	d.Notify()
	if a.dirty != 0 || b.dirty != 1 {
		t.Errorf("dirty a=%d b=%d, want 0 and 1", a.dirty, b.dirty)
	}
}

func TestDepDependWithoutTarget(t *testing.T) {
	d := NewDep()
	d.Depend()
	if d.Len() != 0 {
		t.Errorf("Depend() without target added %d subscribers", d.Len())
	}
}

func TestDepDependLinksBothWays(t *testing.T) {
	d := NewDep()
	s := newTestSubscriber()

	track(s, d.Depend)

	if d.Len() != 1 {
		t.Errorf("registry has %d subscribers, want 1", d.Len())
	}
	if len(s.deps) != 1 || s.deps[0] != d {
		t.Errorf("subscriber recorded %v, want the registry", s.deps)
	}
}

func TestDepNotifySyncOrdersByID(t *testing.T) {
	withConfig(t, Config{Async: false})

	var order []uint64
	subs := make([]*testSubscriber, 3)
	for i := range subs {
		s := newTestSubscriber()
		s.onDirty = func() { order = append(order, s.id) }
		subs[i] = s
	}

	d := NewDep()
	d.AddSub(subs[2])
	d.AddSub(subs[0])
	d.AddSub(subs[1])
	d.Notify()

	want := []uint64{subs[0].id, subs[1].id, subs[2].id}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestDepNotifyAsyncKeepsInsertionOrder(t *testing.T) {
	withConfig(t, Config{Async: true})

	var order []uint64
	a, b := newTestSubscriber(), newTestSubscriber()
	a.onDirty = func() { order = append(order, a.id) }
	b.onDirty = func() { order = append(order, b.id) }

	d := NewDep()
	d.AddSub(b)
	d.AddSub(a)
	d.Notify()

	if len(order) != 2 || order[0] != b.id || order[1] != a.id {
		t.Errorf("order = %v, want insertion order [%d %d]", order, b.id, a.id)
	}
}

func TestDepNotifyUsesSnapshot(t *testing.T) {
	d := NewDep()
	late := newTestSubscriber()
	first := newTestSubscriber()
	first.onDirty = func() {
		d.AddSub(late)
		d.RemoveSub(first)
	}
	second := newTestSubscriber()

	d.AddSub(first)
	d.AddSub(second)
	d.Notify()

	if first.dirty != 1 || second.dirty != 1 {
		t.Errorf("dirty first=%d second=%d, want 1 and 1", first.dirty, second.dirty)
	}
	if late.dirty != 0 {
		t.Error("subscriber added during notification must wait for the next Notify")
	}

	d.Notify()
	if late.dirty != 1 || first.dirty != 1 {
		t.Errorf("second Notify: late=%d first=%d, want 1 and 1", late.dirty, first.dirty)
	}
}

func TestDepNotifyReentrant(t *testing.T) {
	d := NewDep()
	calls := 0
	s := newTestSubscriber()
	s.onDirty = func() {
		calls++
		if calls == 1 {
			d.Notify()
		}
	}
	d.AddSub(s)
	d.Notify()

	if s.dirty != 2 {
		t.Errorf("dirty = %d, want 2 (outer + nested notify)", s.dirty)
	}
}

type countingInstrumentation struct {
	observed map[string]int
	notified []int
	warned   []string
}

func (c *countingInstrumentation) Observed(kind string) {
	if c.observed == nil {
		c.observed = map[string]int{}
	}
	c.observed[kind]++
}

func (c *countingInstrumentation) Notified(n int) { c.notified = append(c.notified, n) }

func (c *countingInstrumentation) Warned(code string) { c.warned = append(c.warned, code) }

func TestDepNotifyInstrumentation(t *testing.T) {
	in := &countingInstrumentation{}
	withConfig(t, Config{Async: true, Instrumentation: in})

	d := NewDep()
	d.AddSub(newTestSubscriber())
	d.AddSub(newTestSubscriber())
	d.Notify()

	if len(in.notified) != 1 || in.notified[0] != 2 {
		t.Errorf("notified = %v, want [2]", in.notified)
	}
}
