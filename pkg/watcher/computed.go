package watcher

import "github.com/seven-it/Learn-Vue/pkg/observer"

// Computed is a cached derived value. It re-evaluates only when read after
// one of its dependencies changed, and readers depend on its dependencies
// directly.
type Computed struct {
	w *Watcher
}

// NewComputed creates a computed value backed by a lazy watcher over fn.
func NewComputed(fn func() any, opts ...Option) *Computed {
	opts = append(opts[:len(opts):len(opts)], Lazy())
	return &Computed{w: New(fn, nil, opts...)}
}

// Get returns the cached value, evaluating it first when stale.
func (c *Computed) Get() any {
	if c.w.Dirty() {
		c.w.Evaluate()
	}
	if observer.CurrentTarget() != nil {
		c.w.Depend()
	}
	return c.w.Value()
}

// Watcher returns the underlying lazy watcher.
func (c *Computed) Watcher() *Watcher {
	return c.w
}
