package observer

// Observer is attached to every observed container. It owns the registry
// for the container's identity, which is notified on structural changes:
// keys added or deleted through Set and Del, and array mutations.
type Observer struct {
	id    uint64
	value any
	dep   *Dep

	// rootCount is the number of root contexts that use the container as
	// their top-level state.
	rootCount int
}

// ID returns the unique identifier for this observer.
func (ob *Observer) ID() uint64 {
	return ob.id
}

// Value returns the observed container, an *Object or *Array.
func (ob *Observer) Value() any {
	return ob.value
}

// Dep returns the container's own registry.
func (ob *Observer) Dep() *Dep {
	return ob.dep
}

// RootCount returns how many root contexts use the container as their
// top-level state.
func (ob *Observer) RootCount() int {
	return ob.rootCount
}

// Observe makes value reactive and returns its Observer. Observing an
// already observed container returns the existing Observer.
//
// Observe returns nil, leaving value untouched, for anything other than a
// non-nil *Object or *Array, for objects marked raw, for containers that are
// not extensible, and while observation is disabled.
func Observe(value any) *Observer {
	return observe(value, false)
}

// ObserveRoot is like Observe but also records value as the top-level
// state of a root context. Keys cannot be added to or deleted from root
// state through Set and Del.
func ObserveRoot(value any) *Observer {
	return observe(value, true)
}

// ObserverOf returns the Observer attached to value, or nil.
func ObserverOf(value any) *Observer {
	switch v := value.(type) {
	case *Object:
		if v != nil {
			return v.ob
		}
	case *Array:
		if v != nil {
			return v.ob
		}
	}
	return nil
}

func observe(value any, asRoot bool) *Observer {
	ob := ObserverOf(value)
	if ob == nil && ObservationEnabled() {
		switch v := value.(type) {
		case *Object:
			if v != nil && !v.raw && !v.locked {
				ob = newObjectObserver(v)
			}
		case *Array:
			if v != nil {
				ob = newArrayObserver(v)
			}
		}
	}
	if asRoot && ob != nil {
		ob.rootCount++
	}
	return ob
}

func newObjectObserver(obj *Object) *Observer {
	ob := &Observer{id: nextID(), value: obj, dep: NewDep()}
	obj.ob = ob
	instrumentObserved("object")
	ob.walk(obj)
	return ob
}

func newArrayObserver(a *Array) *Observer {
	ob := &Observer{id: nextID(), value: a, dep: NewDep()}
	a.ob = ob
	if a.hook == nil {
		a.hook = interceptor{}
	}
	instrumentObserved("array")
	ob.observeArray(a.items)
	return ob
}

// walk converts every enumerable key of obj into a reactive property.
func (ob *Observer) walk(obj *Object) {
	for _, key := range obj.Keys() {
		defineReactive(obj, key, nil, false, defineOptions{})
	}
}

// observeArray observes every element of items.
func (ob *Observer) observeArray(items []any) {
	for _, item := range items {
		observe(item, false)
	}
}

func instrumentObserved(kind string) {
	if in := CurrentConfig().Instrumentation; in != nil {
		in.Observed(kind)
	}
}
