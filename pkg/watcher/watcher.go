package watcher

import (
	"sync/atomic"

	"github.com/seven-it/Learn-Vue/internal/errors"
	"github.com/seven-it/Learn-Vue/pkg/observer"
)

// watcherIDCounter is the source of watcher ids. Watchers created earlier
// get smaller ids, which is the order schedulers and synchronous
// notification run them in.
var watcherIDCounter uint64

func nextID() uint64 {
	return atomic.AddUint64(&watcherIDCounter, 1)
}

// Callback receives the new and the previous value of a watcher.
type Callback func(value, old any)

// Watcher evaluates a getter, collects the reactive keys it reads and
// re-runs when any of them changes. It implements observer.Subscriber.
type Watcher struct {
	id         uint64
	expression string

	getter func() any
	cb     Callback

	deep      bool
	lazy      bool
	sync      bool
	user      bool
	immediate bool

	// dirty is set on lazy watchers whose value must be re-evaluated.
	dirty  bool
	active bool

	// deps are the registries read by the last evaluation; newDeps collects
	// those read by the evaluation in progress.
	deps      []*observer.Dep
	newDeps   []*observer.Dep
	depIDs    map[uint64]struct{}
	newDepIDs map[uint64]struct{}

	value any

	scheduler *Scheduler
	before    func()
	tracer    tracer
}

// New creates a watcher for getter and evaluates it immediately unless the
// watcher is lazy. cb may be nil.
func New(getter func() any, cb Callback, opts ...Option) *Watcher {
	w := &Watcher{
		id:        nextID(),
		getter:    getter,
		cb:        cb,
		active:    true,
		depIDs:    make(map[uint64]struct{}),
		newDepIDs: make(map[uint64]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.getter == nil {
		w.getter = func() any { return nil }
	}

	w.dirty = w.lazy
	if !w.lazy {
		w.value = w.get()
		if w.immediate {
			w.invoke(w.value, nil)
		}
	}
	return w
}

// NewPath creates a user watcher for a dot-delimited path below root, such
// as "user.tags.0.name".
func NewPath(root any, path string, cb Callback, opts ...Option) (*Watcher, error) {
	get, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{User(), WithName(path)}, opts...)
	return New(func() any { return get(root) }, cb, opts...), nil
}

// ID returns the watcher's ordering key.
func (w *Watcher) ID() uint64 {
	return w.id
}

// Expression returns the name used in warnings and traces.
func (w *Watcher) Expression() string {
	return w.expression
}

// Value returns the value of the last evaluation.
func (w *Watcher) Value() any {
	return w.value
}

// Dirty reports whether a lazy watcher needs re-evaluation.
func (w *Watcher) Dirty() bool {
	return w.dirty
}

// Active reports whether the watcher has not been torn down.
func (w *Watcher) Active() bool {
	return w.active
}

// Deps returns the registries read by the last evaluation.
func (w *Watcher) Deps() []*observer.Dep {
	return append([]*observer.Dep(nil), w.deps...)
}

// get evaluates the getter with the watcher as the current target and
// re-collects dependencies.
func (w *Watcher) get() (value any) {
	span := w.startSpan("get")
	defer span.End()

	observer.PushTarget(w)
	defer func() {
		if w.deep {
			Traverse(value)
		}
		observer.PopTarget()
		w.cleanupDeps()
	}()

	if w.user {
		defer func() {
			if r := recover(); r != nil {
				recordPanic(span, r)
				observer.Warn(errors.CodeWatcherGetter, "%q: %v", w.expression, r)
				value = nil
			}
		}()
	}

	return w.getter()
}

// AddDep records d for the evaluation in progress.
// Implements observer.Subscriber.
func (w *Watcher) AddDep(d *observer.Dep) {
	id := d.ID()
	if _, ok := w.newDepIDs[id]; ok {
		return
	}
	w.newDepIDs[id] = struct{}{}
	w.newDeps = append(w.newDeps, d)
}

// cleanupDeps unsubscribes from registries the last evaluation did not read
// and makes the new set current.
func (w *Watcher) cleanupDeps() {
	for _, d := range w.deps {
		if _, ok := w.newDepIDs[d.ID()]; !ok {
			d.RemoveSub(w)
		}
	}

	w.depIDs, w.newDepIDs = w.newDepIDs, w.depIDs
	clear(w.newDepIDs)

	old := w.deps
	w.deps = w.newDeps
	clear(old)
	w.newDeps = old[:0]
}

// MarkDirty reacts to a dependency change.
// Implements observer.Subscriber.
func (w *Watcher) MarkDirty() {
	switch {
	case w.lazy:
		w.dirty = true
	case w.sync:
		w.Run()
	default:
		w.schedulerOrDefault().Queue(w)
	}
}

// Run re-evaluates the watcher and invokes the callback when the value
// changed, is a container (which may have been mutated in place), or the
// watcher is deep.
func (w *Watcher) Run() {
	if !w.active {
		return
	}
	value := w.get()
	if !observer.SameValue(value, w.value) || observer.IsContainer(value) || w.deep {
		old := w.value
		w.value = value
		w.invoke(value, old)
	}
}

func (w *Watcher) invoke(value, old any) {
	if w.cb == nil {
		return
	}

	span := w.startSpan("callback")
	defer span.End()

	if w.user {
		defer func() {
			if r := recover(); r != nil {
				recordPanic(span, r)
				observer.Warn(errors.CodeWatcherCallback, "%q: %v", w.expression, r)
			}
		}()
	}
	w.cb(value, old)
}

// Evaluate re-runs the getter of a lazy watcher and clears its dirty flag.
func (w *Watcher) Evaluate() {
	w.value = w.get()
	w.dirty = false
}

// Depend makes the current target depend on every registry this watcher
// depends on.
func (w *Watcher) Depend() {
	for _, d := range w.deps {
		d.Depend()
	}
}

// Teardown unsubscribes the watcher from all its registries. A torn down
// watcher never runs again.
func (w *Watcher) Teardown() {
	if !w.active {
		return
	}
	for _, d := range w.deps {
		d.RemoveSub(w)
	}
	w.active = false
}

func (w *Watcher) schedulerOrDefault() *Scheduler {
	if w.scheduler != nil {
		return w.scheduler
	}
	return defaultScheduler
}

var _ observer.Subscriber = (*Watcher)(nil)
