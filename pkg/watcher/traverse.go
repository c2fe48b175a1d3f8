package watcher

import "github.com/seven-it/Learn-Vue/pkg/observer"

// Traverse reads every value reachable from v so the current target
// depends on all of it. Raw objects are not entered and each container is
// visited once.
func Traverse(v any) {
	traverse(v, make(map[any]struct{}))
}

func traverse(v any, seen map[any]struct{}) {
	switch c := v.(type) {
	case *observer.Object:
		if c == nil || c.IsRaw() {
			return
		}
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		for _, k := range c.Keys() {
			traverse(c.Get(k), seen)
		}
	case *observer.Array:
		if c == nil {
			return
		}
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		for i := 0; i < c.Len(); i++ {
			traverse(c.At(i), seen)
		}
	}
}
