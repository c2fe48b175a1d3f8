package script

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/seven-it/Learn-Vue/internal/errors"
	"github.com/seven-it/Learn-Vue/internal/logging"
	"github.com/seven-it/Learn-Vue/pkg/observer"
	"github.com/seven-it/Learn-Vue/pkg/watcher"
)

// runMu serialises runs: the observer configuration is process-wide.
var runMu sync.Mutex

// Runner executes scenarios.
type Runner struct {
	logger          *slog.Logger
	instrumentation observer.Instrumentation
	onFlush         func(ran int)
	onEvent         func(Event)
	tracer          trace.Tracer
	sync            bool
	silent          bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger for run progress.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithInstrumentation forwards observer activity to in.
func WithInstrumentation(in observer.Instrumentation) Option {
	return func(r *Runner) {
		r.instrumentation = in
	}
}

// WithFlushHook receives the number of watcher runs of every flush.
func WithFlushHook(fn func(ran int)) Option {
	return func(r *Runner) {
		r.onFlush = fn
	}
}

// WithEventHook receives every event as it is recorded.
func WithEventHook(fn func(Event)) Option {
	return func(r *Runner) {
		r.onEvent = fn
	}
}

// WithTracer records watcher spans on t.
func WithTracer(t trace.Tracer) Option {
	return func(r *Runner) {
		r.tracer = t
	}
}

// WithSync forces synchronous watchers for every scenario.
func WithSync(sync bool) Option {
	return func(r *Runner) {
		r.sync = sync
	}
}

// WithSilent drops warnings from results. They still reach the
// instrumentation.
func WithSilent(silent bool) Option {
	return func(r *Runner) {
		r.silent = silent
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{logger: logging.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// run is the state of one scenario execution.
type run struct {
	*Runner
	sc       *Scenario
	res      *Result
	step     int
	sync     bool
	root     *observer.Object
	scope    *scope
	sched    *watcher.Scheduler
	watchers []*watcher.Watcher
}

// Run executes sc. On a failing step the partial result is returned along
// with the error.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Result, error) {
	runMu.Lock()
	defer runMu.Unlock()

	x := &run{
		Runner: r,
		sc:     sc,
		res:    &Result{Events: []Event{}, Warnings: []Warning{}},
		sync:   r.sync || sc.Sync,
	}

	cfg := observer.DefaultConfig()
	cfg.Async = !x.sync
	cfg.Silent = r.silent
	cfg.Logger = r.logger
	cfg.Instrumentation = r.instrumentation
	cfg.WarnHandler = x.warn
	old := observer.SetConfig(cfg)
	defer observer.SetConfig(old)

	defer x.teardown()
	if err := x.setup(); err != nil {
		return x.res, err
	}

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return x.res, err
		}
		x.step = i + 1
		if err := x.apply(step); err != nil {
			r.logger.Debug("step failed", "step", x.step, "op", step.Op, "error", err)
			return x.res, err
		}
		if !x.sync {
			x.sched.Flush()
		}
	}

	x.res.Data = observer.ToValue(x.root)
	r.logger.Debug("scenario finished",
		"steps", len(sc.Steps),
		"events", len(x.res.Events),
		"warnings", len(x.res.Warnings))
	return x.res, nil
}

func (x *run) warn(w *observer.Warning) {
	msg := w.Message
	if w.Detail != "" {
		msg += ": " + w.Detail
	}
	x.res.Warnings = append(x.res.Warnings, Warning{Step: x.step, Code: w.Code, Message: msg})
	x.logger.Debug("warning", "step", x.step, "code", w.Code, "detail", w.Detail)
}

func (x *run) record(name string) watcher.Callback {
	return func(value, old any) {
		var ev Event
		observer.Untracked(func() {
			ev = Event{Step: x.step, Watcher: name, Value: observer.ToValue(value), Old: observer.ToValue(old)}
		})
		x.res.Events = append(x.res.Events, ev)
		if x.onEvent != nil {
			x.onEvent(ev)
		}
	}
}

func (x *run) setup() error {
	x.root = observer.FromValue(x.sc.Data).(*observer.Object)
	if x.sc.Root {
		observer.ObserveRoot(x.root)
	} else {
		observer.Observe(x.root)
	}

	var schedOpts []watcher.SchedulerOption
	if x.onFlush != nil {
		schedOpts = append(schedOpts, watcher.OnFlush(x.onFlush))
	}
	x.sched = watcher.NewScheduler(schedOpts...)
	x.scope = newScope(x.root)

	for _, c := range x.sc.Computed {
		program, err := x.scope.compile(c.Name, c.Expr)
		if err != nil {
			return err
		}
		x.scope.computed[c.Name] = watcher.NewComputed(x.scope.getter(c.Name, program), x.watcherOptions(c.Name)...)
	}

	for _, w := range x.sc.Watch {
		opts := x.watcherOptions(w.Name)
		if w.Deep {
			opts = append(opts, watcher.Deep())
		}
		if w.Immediate {
			opts = append(opts, watcher.Immediate())
		}

		var wt *watcher.Watcher
		if w.Path != "" {
			var err error
			if wt, err = watcher.NewPath(x.root, w.Path, x.record(w.Name), opts...); err != nil {
				return err
			}
		} else {
			program, err := x.scope.compile(w.Name, w.Expr)
			if err != nil {
				return err
			}
			opts = append(opts, watcher.User())
			wt = watcher.New(x.scope.getter(w.Name, program), x.record(w.Name), opts...)
		}
		x.watchers = append(x.watchers, wt)
	}
	return nil
}

func (x *run) watcherOptions(name string) []watcher.Option {
	opts := []watcher.Option{watcher.WithName(name), watcher.WithScheduler(x.sched)}
	if x.sync {
		opts = append(opts, watcher.Sync())
	}
	if x.tracer != nil {
		opts = append(opts, watcher.WithTracer(x.tracer))
	}
	return opts
}

func (x *run) teardown() {
	for _, w := range x.watchers {
		w.Teardown()
	}
	if x.scope == nil {
		return
	}
	for _, c := range x.scope.computed {
		c.Watcher().Teardown()
	}
}

func (x *run) stepError(s Step, format string, args ...any) error {
	return errors.New(errors.CodeScenarioStep).
		WithDetailf("step %d (%s %s): "+format, append([]any{x.step, s.Op, s.Path}, args...)...)
}

// resolve returns the value at path without tracking.
func (x *run) resolve(path string) any {
	if path == "" {
		return x.root
	}
	get, err := watcher.ParsePath(path)
	if err != nil {
		return nil
	}
	var v any
	observer.Untracked(func() { v = get(x.root) })
	return v
}

// split returns the container holding the last segment of path and that
// segment.
func (x *run) split(path string) (any, string) {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return x.root, path
	}
	return x.resolve(path[:i]), path[i+1:]
}

func (x *run) apply(s Step) error {
	switch s.Op {
	case OpAssign, OpSet, OpDelete:
		parent, key := x.split(s.Path)
		return x.applyKey(s, parent, key)
	}

	arr, ok := x.resolve(s.Path).(*observer.Array)
	if !ok {
		return x.stepError(s, "not an array")
	}
	values := make([]any, len(s.Values))
	for i, v := range s.Values {
		values[i] = observer.FromValue(v)
	}

	switch s.Op {
	case OpPush:
		arr.Push(values...)
	case OpPop:
		arr.Pop()
	case OpShift:
		arr.Shift()
	case OpUnshift:
		arr.Unshift(values...)
	case OpSplice:
		deleteCount := arr.Len()
		if s.DeleteCount != nil {
			deleteCount = *s.DeleteCount
		}
		arr.Splice(s.Start, deleteCount, values...)
	case OpSort:
		arr.Sort(nil)
	case OpReverse:
		arr.Reverse()
	}
	return nil
}

func (x *run) applyKey(s Step, parent any, key string) error {
	switch s.Op {
	case OpSet:
		observer.Set(parent, key, observer.FromValue(s.Value))
		return nil
	case OpDelete:
		observer.Del(parent, key)
		return nil
	}

	// Plain assignment: reactive on object keys, silent on array indexes.
	switch p := parent.(type) {
	case *observer.Object:
		p.Set(key, observer.FromValue(s.Value))
	case *observer.Array:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 {
			return x.stepError(s, "invalid index %q", key)
		}
		if i > p.Len() {
			return x.stepError(s, "index %d out of range [0, %d]", i, p.Len())
		}
		if !p.SetIndex(i, observer.FromValue(s.Value)) {
			return x.stepError(s, "invalid index %q", key)
		}
	default:
		return x.stepError(s, "parent is not an object or array")
	}
	return nil
}
