// Package errors provides coded, actionable diagnostics for the reactivity
// engine and its tooling.
//
// Every diagnostic carries a stable code (e.g. "E003") that maps to a short
// message, a longer explanation and, where one exists, a hint on how to fix
// the problem. The observer core never aborts for ordinary misuse: it emits
// these values as warnings and falls back to untracked behaviour. The CLI
// and scenario runner return them as ordinary errors.
//
// # Categories
//
//   - reactivity: misuse of the mutation API (Set/Del) and invalid targets
//   - watcher: failing getters and callbacks, runaway update loops
//   - config: learnvue.json problems
//   - scenario: scenario files, steps and expressions
//
// # Usage
//
//	err := errors.New("E003").
//	    WithDetail(`key "age"`).
//	    WithSuggestion("Declare the key in the initial data")
//
//	fmt.Println(err.Format())
//	// Output:
//	// WARN E003: Avoid adding reactive properties to a root data object at runtime
//	//
//	//   key "age"
//	//
//	//   Hint: Declare the key in the initial data
package errors
