package watcher

import "go.opentelemetry.io/otel/trace"

// Option configures a Watcher.
type Option func(*Watcher)

// Deep makes the watcher read everything reachable from its value, so
// changes anywhere inside it trigger the callback.
func Deep() Option {
	return func(w *Watcher) {
		w.deep = true
	}
}

// Lazy defers evaluation until Evaluate is called. Lazy watchers are only
// marked dirty when dependencies change.
func Lazy() Option {
	return func(w *Watcher) {
		w.lazy = true
	}
}

// Sync re-runs the watcher as soon as a dependency changes instead of
// queueing it.
func Sync() Option {
	return func(w *Watcher) {
		w.sync = true
	}
}

// User marks the watcher as user-supplied: panics in its getter or callback
// are recovered and reported as warnings.
func User() Option {
	return func(w *Watcher) {
		w.user = true
	}
}

// Immediate invokes the callback once with the initial value.
func Immediate() Option {
	return func(w *Watcher) {
		w.immediate = true
	}
}

// WithName sets the expression used in warnings and traces.
func WithName(name string) Option {
	return func(w *Watcher) {
		w.expression = name
	}
}

// WithScheduler queues the watcher on s instead of the default scheduler.
func WithScheduler(s *Scheduler) Option {
	return func(w *Watcher) {
		w.scheduler = s
	}
}

// WithBefore registers fn to run right before the scheduler re-runs the
// watcher.
func WithBefore(fn func()) Option {
	return func(w *Watcher) {
		w.before = fn
	}
}

// WithTracer records a span for every evaluation and callback.
func WithTracer(t trace.Tracer) Option {
	return func(w *Watcher) {
		w.tracer = t
	}
}
