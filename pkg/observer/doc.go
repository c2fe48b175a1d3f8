// Package observer provides the dependency-tracking core of the reactivity
// engine.
//
// Plain data is held in explicit reactive containers, *Object and *Array.
// Observe walks a container and rewires its keys so that reads register the
// currently evaluating subscriber and writes notify everyone who read the
// value:
//
//	state := observer.ObjectOf(map[string]any{"count": 1})
//	observer.Observe(state)
//
//	observer.WithTarget(sub, func() {
//	    _ = state.Get("count") // sub now depends on "count"
//	})
//
//	state.Set("count", 2) // sub.MarkDirty() is called once
//
// # Core Types
//
// Dep is a dependency registry: a set of Subscribers interested in one
// reactive value. Every reactive key owns one, and every container's
// Observer owns one for structural changes (keys added or removed, array
// mutation).
//
// Subscriber is implemented by whatever recomputes when state changes. The
// watcher package provides the standard implementation.
//
// # Evaluation Context
//
// Dependency attribution is implicit: whoever is the current target when a
// read happens becomes a dependent. PushTarget and PopTarget (or the scoped
// WithTarget and Untracked) maintain a stack so evaluations can nest. The
// context is kept per goroutine.
//
// # Arrays
//
// Index writes cannot be intercepted, so arrays notify through their
// mutating methods (Push, Pop, Shift, Unshift, Splice, Sort, Reverse) once
// observed. Use Set and Del to replace or remove elements by index.
//
// # Adding and Removing Keys
//
// Keys added with Object.Set after observation are plain. Use Set and Del
// so that dependents of the whole container are told about the change.
//
// # Thread Safety
//
// Dep is safe for concurrent use. Objects and Arrays are not: the engine is
// single-threaded and cooperative, and each goroutine carries its own
// evaluation context.
package observer
