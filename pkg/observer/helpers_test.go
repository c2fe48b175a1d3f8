package observer

import "testing"

// testSubscriber records its dependencies and how often it was marked dirty.
type testSubscriber struct {
	id      uint64
	deps    []*Dep
	dirty   int
	onDirty func()
}

func newTestSubscriber() *testSubscriber {
	return &testSubscriber{id: nextID()}
}

func (s *testSubscriber) AddDep(d *Dep) {
	s.deps = append(s.deps, d)
}

func (s *testSubscriber) MarkDirty() {
	s.dirty++
	if s.onDirty != nil {
		s.onDirty()
	}
}

func (s *testSubscriber) ID() uint64 {
	return s.id
}

// withConfig installs c for the duration of the test.
func withConfig(t *testing.T, c Config) {
	t.Helper()
	old := SetConfig(c)
	t.Cleanup(func() { SetConfig(old) })
}

// captureWarnings routes warnings into the returned slice for the duration
// of the test.
func captureWarnings(t *testing.T) *[]*Warning {
	t.Helper()
	var got []*Warning
	cfg := CurrentConfig()
	cfg.WarnHandler = func(w *Warning) { got = append(got, w) }
	withConfig(t, cfg)
	return &got
}

// track reads through fn with sub as the current target.
func track(sub Subscriber, fn func()) {
	WithTarget(sub, fn)
}
