package watcher

import (
	"testing"

	"github.com/seven-it/Learn-Vue/pkg/observer"
)

// reactive builds an observed object from m.
func reactive(m map[string]any) *observer.Object {
	obj := observer.ObjectOf(m)
	observer.Observe(obj)
	return obj
}

// captureWarnings routes warnings into the returned slice for the duration
// of the test.
func captureWarnings(t *testing.T) *[]*observer.Warning {
	t.Helper()
	var got []*observer.Warning
	cfg := observer.CurrentConfig()
	cfg.WarnHandler = func(w *observer.Warning) { got = append(got, w) }
	old := observer.SetConfig(cfg)
	t.Cleanup(func() { observer.SetConfig(old) })
	return &got
}

type change struct {
	value, old any
}

// recorder collects callback invocations.
type recorder struct {
	calls []change
}

func (r *recorder) cb(value, old any) {
	r.calls = append(r.calls, change{value, old})
}
