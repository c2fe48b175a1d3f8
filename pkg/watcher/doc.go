// Package watcher provides the subscribers that drive the observer core.
//
// A Watcher evaluates a getter with itself as the current target, so every
// reactive key the getter reads registers the watcher. When one of those
// keys changes the watcher is marked dirty and, depending on its mode:
//
//   - lazy watchers (see Computed) only remember that they are dirty;
//   - sync watchers re-run immediately;
//   - all other watchers are queued on a Scheduler and re-run on Flush.
//
// Re-running re-collects dependencies from scratch, unsubscribing from any
// registry the getter no longer reads.
//
//	state := observer.FromValue(map[string]any{"n": 1}).(*observer.Object)
//	observer.Observe(state)
//
//	w, _ := watcher.NewPath(state, "n", func(v, old any) {
//	    fmt.Println(old, "->", v)
//	})
//	state.Set("n", 2)
//	watcher.Flush() // prints "1 -> 2"
//	w.Teardown()
package watcher
