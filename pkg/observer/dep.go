package observer

import (
	"sort"
	"sync"
)

// Subscriber is anything that can depend on reactive state.
type Subscriber interface {
	// AddDep records d as a dependency of the subscriber so it can later
	// unsubscribe. Called by Dep.Depend while the subscriber is the target.
	AddDep(d *Dep)

	// MarkDirty signals that one of the subscriber's dependencies may have
	// changed. What happens next is up to the subscriber.
	MarkDirty()

	// ID returns the subscriber's ordering key. Subscribers created earlier
	// must return smaller ids.
	ID() uint64
}

// Dep is a dependency registry: the set of subscribers interested in one
// reactive value.
type Dep struct {
	id uint64

	// subs holds each subscriber at most once, keyed by ID.
	subs []Subscriber

	// mu protects subs.
	mu sync.RWMutex
}

// NewDep creates an empty registry.
func NewDep() *Dep {
	return &Dep{id: nextID()}
}

// ID returns the unique identifier for this registry.
func (d *Dep) ID() uint64 {
	return d.id
}

// AddSub adds s to the registry. Adding a member again is a no-op.
func (d *Dep) AddSub(s Subscriber) {
	if s == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	sid := s.ID()
	for _, existing := range d.subs {
		if existing.ID() == sid {
			return
		}
	}
	d.subs = append(d.subs, s)
}

// RemoveSub removes s from the registry. Removing a non-member is a no-op.
func (d *Dep) RemoveSub(s Subscriber) {
	if s == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	sid := s.ID()
	for i, existing := range d.subs {
		if existing.ID() == sid {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

// Depend links the current target and this registry in both directions.
// It does nothing when no target is active.
func (d *Dep) Depend() {
	target := CurrentTarget()
	if target == nil {
		return
	}
	d.AddSub(target)
	target.AddDep(d)
}

// Notify signals every current subscriber that the value may be stale.
//
// Subscribers are taken from a snapshot, so subscribers added or removed
// while notifying do not affect this call. When notification is synchronous
// (Config.Async is false) the snapshot is ordered by subscriber ID so that
// older subscribers run before the ones created from them.
func (d *Dep) Notify() {
	subs := d.Subs()

	cfg := CurrentConfig()
	if !cfg.Async {
		sort.SliceStable(subs, func(i, j int) bool {
			return subs[i].ID() < subs[j].ID()
		})
	}
	if cfg.Instrumentation != nil {
		cfg.Instrumentation.Notified(len(subs))
	}

	for _, sub := range subs {
		sub.MarkDirty()
	}
}

// Subs returns a snapshot of the current subscribers.
func (d *Dep) Subs() []Subscriber {
	d.mu.RLock()
	defer d.mu.RUnlock()
	subs := make([]Subscriber, len(d.subs))
	copy(subs, d.subs)
	return subs
}

// Len returns the number of subscribers.
func (d *Dep) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subs)
}
