package watcher

import (
	"sort"

	"github.com/seven-it/Learn-Vue/internal/errors"
	"github.com/seven-it/Learn-Vue/pkg/observer"
)

// MaxUpdateCount is how many times a single watcher may be re-queued during
// one flush before the flush is aborted as an infinite update loop.
const MaxUpdateCount = 100

// Scheduler batches asynchronous watchers and runs each of them once per
// flush, in creation order. A Scheduler is not safe for concurrent use.
type Scheduler struct {
	queue    []*Watcher
	has      map[uint64]bool
	circular map[uint64]int
	flushing bool
	index    int

	onFlush func(ran int)
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// OnFlush registers fn to receive the number of watcher runs after every
// flush.
func OnFlush(fn func(ran int)) SchedulerOption {
	return func(s *Scheduler) {
		s.onFlush = fn
	}
}

// NewScheduler creates an empty scheduler.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		has:      make(map[uint64]bool),
		circular: make(map[uint64]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultScheduler = NewScheduler()

// Default returns the scheduler used by watchers created without
// WithScheduler.
func Default() *Scheduler {
	return defaultScheduler
}

// Flush runs the default scheduler's queue.
func Flush() int {
	return defaultScheduler.Flush()
}

// Queue adds w unless it is already waiting. With Config.Async off the queue
// is flushed right away. While a flush is running, w is
// inserted after the watcher currently running and before any watcher with a
// larger id, so it still runs in this flush.
func (s *Scheduler) Queue(w *Watcher) {
	if s.has[w.id] {
		return
	}
	s.has[w.id] = true

	if !s.flushing {
		s.queue = append(s.queue, w)
		if !observer.CurrentConfig().Async {
			s.Flush()
		}
		return
	}

	i := len(s.queue) - 1
	for i > s.index && s.queue[i].id > w.id {
		i--
	}
	s.queue = append(s.queue, nil)
	copy(s.queue[i+2:], s.queue[i+1:])
	s.queue[i+1] = w
}

// Pending returns the number of watchers waiting to run.
func (s *Scheduler) Pending() int {
	if s.flushing {
		return len(s.queue) - s.index - 1
	}
	return len(s.queue)
}

// Flush runs every queued watcher, including watchers queued by callbacks
// during the flush, and returns how many runs happened. A nested call from
// inside a callback returns 0.
func (s *Scheduler) Flush() int {
	if s.flushing {
		return 0
	}
	s.flushing = true

	sort.SliceStable(s.queue, func(i, j int) bool {
		return s.queue[i].id < s.queue[j].id
	})

	ran := 0
	for s.index = 0; s.index < len(s.queue); s.index++ {
		w := s.queue[s.index]
		if w.before != nil {
			w.before()
		}
		delete(s.has, w.id)
		w.Run()
		ran++

		if s.has[w.id] {
			s.circular[w.id]++
			if s.circular[w.id] > MaxUpdateCount {
				observer.Warn(errors.CodeInfiniteUpdateLoop, "in watcher %q", w.expression)
				break
			}
		}
	}

	s.reset()
	if s.onFlush != nil {
		s.onFlush(ran)
	}
	return ran
}

func (s *Scheduler) reset() {
	clear(s.queue)
	s.queue = s.queue[:0]
	clear(s.has)
	clear(s.circular)
	s.index = 0
	s.flushing = false
}
