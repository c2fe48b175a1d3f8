package observer

import (
	"math"
	"reflect"
	"sort"
	"strconv"
)

// SameValue reports whether a write of b over a must be treated as no
// change. Values are compared by identity: comparable values with ==,
// maps, slices, funcs, chans and pointers by address. Two NaNs are equal.
func SameValue(a, b any) bool {
	if isNaN(a) && isNaN(b) {
		return true
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}

	switch ta.Kind() {
	case reflect.Map, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	case reflect.Slice:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}

	if !ta.Comparable() {
		return false
	}
	return safeEqual(a, b)
}

// safeEqual compares two values of the same comparable type. Structs and
// arrays holding interfaces with non-comparable dynamic values panic on ==;
// those are treated as different.
func safeEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

func isNaN(v any) bool {
	switch f := v.(type) {
	case float64:
		return math.IsNaN(f)
	case float32:
		return math.IsNaN(float64(f))
	}
	return false
}

// IsContainer reports whether v is a non-nil *Object or *Array.
func IsContainer(v any) bool {
	switch c := v.(type) {
	case *Object:
		return c != nil
	case *Array:
		return c != nil
	}
	return false
}

// maxArrayIndex is the largest index Set and Del accept. Larger keys are
// invalid, whatever their kind.
const maxArrayIndex = 1<<24 - 1

// validArrayIndex converts key to an array index. Accepted keys are
// non-negative integers of any integer kind, integral non-negative finite
// floats, and decimal strings of either, all at most maxArrayIndex.
func validArrayIndex(key any) (int, bool) {
	switch k := key.(type) {
	case int:
		return intIndex(int64(k))
	case int8:
		return intIndex(int64(k))
	case int16:
		return intIndex(int64(k))
	case int32:
		return intIndex(int64(k))
	case int64:
		return intIndex(k)
	case uint:
		return uintIndex(uint64(k))
	case uint8:
		return uintIndex(uint64(k))
	case uint16:
		return uintIndex(uint64(k))
	case uint32:
		return uintIndex(uint64(k))
	case uint64:
		return uintIndex(k)
	case float32:
		return floatIndex(float64(k))
	case float64:
		return floatIndex(k)
	case string:
		f, err := strconv.ParseFloat(k, 64)
		if err != nil {
			return 0, false
		}
		return floatIndex(f)
	}
	return 0, false
}

func intIndex(i int64) (int, bool) {
	if i < 0 || i > maxArrayIndex {
		return 0, false
	}
	return int(i), true
}

func uintIndex(u uint64) (int, bool) {
	if u > maxArrayIndex {
		return 0, false
	}
	return int(u), true
}

func floatIndex(f float64) (int, bool) {
	if f < 0 || math.IsInf(f, 0) || math.IsNaN(f) || math.Floor(f) != f || f > maxArrayIndex {
		return 0, false
	}
	return int(f), true
}

// FromValue converts decoded data into reactive containers: every
// map[string]any becomes an *Object (keys sorted) and every []any an
// *Array, recursively. Other values are returned unchanged. The result is
// not observed.
func FromValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		obj := NewObject()
		for _, k := range sortedKeys(t) {
			obj.Set(k, FromValue(t[k]))
		}
		return obj
	case []any:
		items := make([]any, len(t))
		for i, item := range t {
			items[i] = FromValue(item)
		}
		return NewArray(items...)
	}
	return v
}

// ToValue converts reactive containers back into map[string]any and []any.
// Object keys are read through their accessors, so a current target
// depends on everything ToValue visits.
func ToValue(v any) any {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return nil
		}
		out := make(map[string]any, t.Len())
		for _, k := range t.Keys() {
			out[k] = ToValue(t.Get(k))
		}
		return out
	case *Array:
		if t == nil {
			return nil
		}
		items := t.Items()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = ToValue(item)
		}
		return out
	}
	return v
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
