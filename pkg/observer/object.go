package observer

// Descriptor describes one key of an Object, either a data value or an
// accessor pair. The zero Descriptor is a hidden, non-configurable nil value,
// mirroring the defaults of property definition in dynamic languages.
type Descriptor struct {
	// Value is the stored value of a data key. Ignored when Get or Set is set.
	Value any

	// Get, when set, makes the key an accessor: reads call Get.
	Get func() any

	// Set is the accessor's write half. An accessor with Get but no Set is
	// read-only: writes are ignored.
	Set func(v any)

	// Configurable keys may be redefined or deleted.
	Configurable bool

	// Enumerable keys are listed by Keys and observed by Observe.
	Enumerable bool
}

// isAccessor reports whether the descriptor defines an accessor pair.
func (d Descriptor) isAccessor() bool {
	return d.Get != nil || d.Set != nil
}

// Object is an ordered string-keyed container whose keys can be rewired
// into reactive properties.
//
// Before it is observed an Object behaves like a plain record. Observe
// replaces every enumerable, configurable key with an accessor pair that
// tracks reads and notifies on writes.
type Object struct {
	// ob is the Observer attached to this object, if any.
	ob *Observer

	keys  []string
	slots map[string]*Descriptor

	// locked is set once extensions are prevented.
	locked bool

	// raw marks objects that must never be observed.
	raw bool
}

// NewObject creates an empty, extensible Object.
func NewObject() *Object {
	return &Object{slots: make(map[string]*Descriptor)}
}

// ObjectOf creates an Object holding the entries of m as plain keys, in
// sorted key order. Nested values are stored as-is; use FromValue for deep
// conversion.
func ObjectOf(m map[string]any) *Object {
	obj := NewObject()
	for _, k := range sortedKeys(m) {
		obj.Set(k, m[k])
	}
	return obj
}

func (o *Object) slot(key string) *Descriptor {
	if o.slots == nil {
		return nil
	}
	return o.slots[key]
}

// Get returns the value of key, calling its getter when the key is an
// accessor. Missing keys read as nil.
func (o *Object) Get(key string) any {
	v, _ := o.Lookup(key)
	return v
}

// Lookup is like Get but also reports whether the key exists.
func (o *Object) Lookup(key string) (any, bool) {
	s := o.slot(key)
	if s == nil {
		return nil, false
	}
	if s.Get != nil {
		return s.Get(), true
	}
	if s.Set != nil {
		return nil, true
	}
	return s.Value, true
}

// Set assigns v to key with plain assignment semantics: accessor keys call
// their setter (and ignore the write when they have none), data keys are
// overwritten, and missing keys are added as plain data keys unless
// extensions have been prevented.
//
// A key added this way is not reactive even on an observed object; use the
// package-level Set for that.
func (o *Object) Set(key string, v any) {
	if s := o.slot(key); s != nil {
		switch {
		case s.Set != nil:
			s.Set(v)
		case s.Get != nil:
		default:
			s.Value = v
		}
		return
	}
	if o.locked {
		return
	}
	o.put(key, &Descriptor{Value: v, Configurable: true, Enumerable: true})
}

// Has reports whether key is an own key of the object.
func (o *Object) Has(key string) bool {
	return o.slot(key) != nil
}

// Keys returns the enumerable keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.keys))
	for _, k := range o.keys {
		if o.slots[k].Enumerable {
			keys = append(keys, k)
		}
	}
	return keys
}

// Len returns the number of enumerable keys.
func (o *Object) Len() int {
	n := 0
	for _, k := range o.keys {
		if o.slots[k].Enumerable {
			n++
		}
	}
	return n
}

// Delete removes key. It returns false, leaving the key in place, when the
// key is not configurable. Deleting a missing key succeeds.
func (o *Object) Delete(key string) bool {
	s := o.slot(key)
	if s == nil {
		return true
	}
	if !s.Configurable {
		return false
	}
	delete(o.slots, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// DefineProperty defines or redefines key. It returns false when an
// existing key is not configurable, or when key is new and extensions have
// been prevented.
func (o *Object) DefineProperty(key string, d Descriptor) bool {
	if s := o.slot(key); s != nil {
		if !s.Configurable {
			return false
		}
	} else if o.locked {
		return false
	}
	if d.isAccessor() {
		d.Value = nil
	}
	o.put(key, &d)
	return true
}

// GetDescriptor returns a copy of the descriptor of key.
func (o *Object) GetDescriptor(key string) (Descriptor, bool) {
	s := o.slot(key)
	if s == nil {
		return Descriptor{}, false
	}
	return *s, true
}

// PreventExtensions stops new keys from being added. Objects that are not
// extensible are never observed.
func (o *Object) PreventExtensions() {
	o.locked = true
}

// IsExtensible reports whether new keys may be added.
func (o *Object) IsExtensible() bool {
	return !o.locked
}

// MarkRaw flags the object as one that must never be observed, such as
// rendering output or framework internals stored inside user state.
func (o *Object) MarkRaw() *Object {
	o.raw = true
	return o
}

// IsRaw reports whether MarkRaw was called.
func (o *Object) IsRaw() bool {
	return o.raw
}

// put stores d under key, keeping the position of an existing key.
func (o *Object) put(key string, d *Descriptor) {
	if o.slots == nil {
		o.slots = make(map[string]*Descriptor)
	}
	if _, ok := o.slots[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.slots[key] = d
}
