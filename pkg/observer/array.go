package observer

import (
	"fmt"
	"sort"
)

// mutationHook is installed on an observed array and runs after each
// structural mutation with the elements that were inserted.
type mutationHook interface {
	mutated(a *Array, inserted []any)
}

// Array is a growable sequence that reports its structural mutations once
// observed.
//
// Element reads and index writes are not tracked. Dependents register
// through the key that holds the array, and are notified by the mutating
// methods Push, Pop, Shift, Unshift, Splice, Sort and Reverse.
type Array struct {
	// ob is the Observer attached to this array, if any.
	ob *Observer

	items []any

	// hook intercepts mutations; nil means native behaviour.
	hook mutationHook
}

// NewArray creates an Array holding items.
func NewArray(items ...any) *Array {
	a := &Array{}
	if len(items) > 0 {
		a.items = append([]any(nil), items...)
	}
	return a
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.items)
}

// At returns the element at index i, or nil when i is out of range.
func (a *Array) At(i int) any {
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Items returns a copy of the elements.
func (a *Array) Items() []any {
	return append([]any(nil), a.items...)
}

// SetIndex writes v at index i, growing the array with nils when needed,
// and reports whether the write happened. Negative indexes and indexes
// past the largest valid index are rejected.
// Index writes are invisible to dependents; use the package-level Set to
// replace an element reactively.
func (a *Array) SetIndex(i int, v any) bool {
	if i < 0 || i > maxArrayIndex {
		return false
	}
	a.grow(i + 1)
	a.items[i] = v
	return true
}

// grow extends the array with nils to at least n elements.
func (a *Array) grow(n int) {
	if n > len(a.items) {
		a.items = append(a.items, make([]any, n-len(a.items))...)
	}
}

// after runs the interception hook, if installed.
func (a *Array) after(inserted []any) {
	if a.hook != nil {
		a.hook.mutated(a, inserted)
	}
}

// Push appends vals and returns the new length.
func (a *Array) Push(vals ...any) int {
	a.items = append(a.items, vals...)
	a.after(vals)
	return len(a.items)
}

// Pop removes and returns the last element.
func (a *Array) Pop() any {
	var v any
	if n := len(a.items); n > 0 {
		v = a.items[n-1]
		a.items[n-1] = nil
		a.items = a.items[:n-1]
	}
	a.after(nil)
	return v
}

// Shift removes and returns the first element.
func (a *Array) Shift() any {
	var v any
	if len(a.items) > 0 {
		v = a.items[0]
		a.items = append(a.items[:0:0], a.items[1:]...)
	}
	a.after(nil)
	return v
}

// Unshift inserts vals at the front and returns the new length.
func (a *Array) Unshift(vals ...any) int {
	items := make([]any, 0, len(vals)+len(a.items))
	items = append(items, vals...)
	a.items = append(items, a.items...)
	a.after(vals)
	return len(a.items)
}

// Splice removes deleteCount elements starting at start, inserts vals in
// their place and returns the removed elements. A negative start counts
// from the end; start and deleteCount are clamped to the array bounds.
func (a *Array) Splice(start, deleteCount int, vals ...any) []any {
	n := len(a.items)
	if start < 0 {
		start = max(n+start, 0)
	} else if start > n {
		start = n
	}
	deleteCount = min(max(deleteCount, 0), n-start)

	removed := append([]any(nil), a.items[start:start+deleteCount]...)

	items := make([]any, 0, n-deleteCount+len(vals))
	items = append(items, a.items[:start]...)
	items = append(items, vals...)
	items = append(items, a.items[start+deleteCount:]...)
	a.items = items

	a.after(vals)
	return removed
}

// Sort sorts the elements in place. A nil less orders elements by their
// default string form, nils last.
func (a *Array) Sort(less func(x, y any) bool) *Array {
	if less == nil {
		less = defaultLess
	}
	sort.SliceStable(a.items, func(i, j int) bool {
		return less(a.items[i], a.items[j])
	})
	a.after(nil)
	return a
}

// Reverse reverses the elements in place.
func (a *Array) Reverse() *Array {
	for i, j := 0, len(a.items)-1; i < j; i, j = i+1, j-1 {
		a.items[i], a.items[j] = a.items[j], a.items[i]
	}
	a.after(nil)
	return a
}

func defaultLess(x, y any) bool {
	if y == nil {
		return x != nil
	}
	if x == nil {
		return false
	}
	return fmt.Sprint(x) < fmt.Sprint(y)
}

// interceptor is the mutation hook of observed arrays.
type interceptor struct{}

// mutated observes the inserted elements and notifies the array's own
// registry.
func (interceptor) mutated(a *Array, inserted []any) {
	ob := a.ob
	if len(inserted) > 0 {
		ob.observeArray(inserted)
	}
	ob.dep.Notify()
}
