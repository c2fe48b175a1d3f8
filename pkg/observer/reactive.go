package observer

// DefineOption configures DefineReactive.
type DefineOption func(*defineOptions)

type defineOptions struct {
	shallow      bool
	customSetter func()
}

// Shallow stops DefineReactive from observing the property's values.
func Shallow() DefineOption {
	return func(o *defineOptions) {
		o.shallow = true
	}
}

// WithCustomSetter registers fn to run before every write that changes the
// property, typically to warn about writes that should not happen.
func WithCustomSetter(fn func()) DefineOption {
	return func(o *defineOptions) {
		o.customSetter = fn
	}
}

// DefineReactive turns key of obj into a reactive property holding val.
// Existing accessor pairs on key are kept and called through; in that case
// val is only the initial value when the accessor has no getter.
// Non-configurable keys are left untouched.
func DefineReactive(obj *Object, key string, val any, opts ...DefineOption) {
	var o defineOptions
	for _, opt := range opts {
		opt(&o)
	}
	defineReactive(obj, key, val, true, o)
}

// defineReactive installs the reactive accessor pair. When hasVal is false
// the initial value is read from the existing key, unless the key is a
// getter-only accessor, which is never called at definition time.
func defineReactive(obj *Object, key string, val any, hasVal bool, o defineOptions) {
	dep := NewDep()

	prop := obj.slot(key)
	if prop != nil && !prop.Configurable {
		return
	}
	if prop == nil && obj.locked {
		return
	}

	var getter func() any
	var setter func(any)
	if prop != nil {
		getter, setter = prop.Get, prop.Set
	}
	if (getter == nil || setter != nil) && !hasVal {
		val = obj.Get(key)
	}

	var childOb *Observer
	if !o.shallow {
		childOb = observe(val, false)
	}

	reactiveGetter := func() any {
		value := val
		if getter != nil {
			value = getter()
		}
		if CurrentTarget() != nil {
			dep.Depend()
			if childOb != nil {
				childOb.dep.Depend()
				if arr, ok := value.(*Array); ok {
					dependArray(arr)
				}
			}
		}
		return value
	}

	reactiveSetter := func(newVal any) {
		value := val
		if getter != nil {
			value = getter()
		}
		if SameValue(newVal, value) {
			return
		}
		if o.customSetter != nil {
			o.customSetter()
		}
		if getter != nil && setter == nil {
			return
		}
		if setter != nil {
			setter(newVal)
		} else {
			val = newVal
		}
		if o.shallow {
			childOb = nil
		} else {
			childOb = observe(newVal, false)
		}
		dep.Notify()
	}

	obj.put(key, &Descriptor{
		Get:          reactiveGetter,
		Set:          reactiveSetter,
		Configurable: true,
		Enumerable:   true,
	})
}

// dependArray makes the current target depend on every observed element of
// a, recursively. Element reads cannot be intercepted, so reaching an array
// through a reactive key counts as reading everything inside it. Each
// nested array is visited once, so arrays that contain themselves stop.
func dependArray(a *Array) {
	dependArraySeen(a, map[*Array]struct{}{a: {}})
}

func dependArraySeen(a *Array, seen map[*Array]struct{}) {
	for _, e := range a.items {
		if ob := ObserverOf(e); ob != nil {
			ob.dep.Depend()
		}
		if inner, ok := e.(*Array); ok && inner != nil {
			if _, done := seen[inner]; done {
				continue
			}
			seen[inner] = struct{}{}
			dependArraySeen(inner, seen)
		}
	}
}
