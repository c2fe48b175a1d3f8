package observer

import (
	"fmt"

	"github.com/seven-it/Learn-Vue/internal/errors"
)

// Set sets key on target and returns val. Use it to add keys to observed
// objects or to replace array elements so that dependents are notified.
//
//   - Array targets with a valid index are grown as needed and the element
//     is replaced through Splice.
//   - Existing object keys are assigned normally; reactive keys notify.
//   - New keys on an observed object become reactive and the object's own
//     registry is notified. On root state this is refused with a warning.
//   - New keys on an unobserved object are plain assignments.
//
// Invalid targets produce a warning; Set never panics on misuse.
func Set(target any, key any, val any) any {
	switch t := target.(type) {
	case *Array:
		if t == nil {
			break
		}
		idx, ok := validArrayIndex(key)
		if !ok {
			Warn(errors.CodeInvalidArrayIndex, "%v", key)
			return val
		}
		t.grow(idx)
		t.Splice(idx, 1, val)
		return val

	case *Object:
		if t == nil {
			break
		}
		k := keyString(key)
		if t.Has(k) {
			t.Set(k, val)
			return val
		}
		ob := t.ob
		if ob != nil && ob.rootCount > 0 {
			Warn(errors.CodeAddRootProperty, "key %q", k)
			return val
		}
		if ob == nil {
			t.Set(k, val)
			return val
		}
		if t.locked {
			return val
		}
		defineReactive(t, k, val, true, defineOptions{})
		ob.dep.Notify()
		return val
	}

	Warn(errors.CodeSetInvalidTarget, "%s", describe(target))
	return val
}

// Del deletes key from target, notifying dependents of the container.
// Array targets with a valid index remove the element through Splice.
// Deleting from root state is refused with a warning; deleting a missing or
// non-configurable key does nothing.
func Del(target any, key any) {
	switch t := target.(type) {
	case *Array:
		if t == nil {
			break
		}
		idx, ok := validArrayIndex(key)
		if !ok {
			Warn(errors.CodeInvalidArrayIndex, "%v", key)
			return
		}
		t.Splice(idx, 1)
		return

	case *Object:
		if t == nil {
			break
		}
		k := keyString(key)
		ob := t.ob
		if ob != nil && ob.rootCount > 0 {
			Warn(errors.CodeDeleteRootProperty, "key %q", k)
			return
		}
		if !t.Has(k) {
			return
		}
		if !t.Delete(k) {
			return
		}
		if ob == nil {
			return
		}
		ob.dep.Notify()
		return
	}

	Warn(errors.CodeDelInvalidTarget, "%s", describe(target))
}

func keyString(key any) string {
	if s, ok := key.(string); ok {
		return s
	}
	return fmt.Sprint(key)
}

func describe(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T(%v)", v, v)
}
