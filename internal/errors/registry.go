package errors

// Template describes a registered diagnostic.
type Template struct {
	Category   Category
	Message    string
	Suggestion string
}

// Registered codes.
const (
	CodeSetInvalidTarget    = "E001"
	CodeDelInvalidTarget    = "E002"
	CodeAddRootProperty     = "E003"
	CodeDeleteRootProperty  = "E004"
	CodeInvalidArrayIndex   = "E005"
	CodeWatcherGetter       = "E006"
	CodeWatcherCallback     = "E007"
	CodeInfiniteUpdateLoop  = "E008"
	CodeInvalidWatchPath    = "E009"
	CodeConfigNotFound      = "E101"
	CodeConfigInvalid       = "E102"
	CodeScenarioInvalid     = "E201"
	CodeScenarioStep        = "E202"
	CodeScenarioExpression  = "E203"
	CodeScenarioUnavailable = "E204"
)

var registry = map[string]Template{
	// ============================================
	// Reactivity (E001-E005)
	// ============================================

	CodeSetInvalidTarget: {
		Category: CategoryReactivity,
		Message:  "Cannot set reactive property on nil or primitive value",
	},
	CodeDelInvalidTarget: {
		Category: CategoryReactivity,
		Message:  "Cannot delete reactive property on nil or primitive value",
	},
	CodeAddRootProperty: {
		Category:   CategoryReactivity,
		Message:    "Avoid adding reactive properties to a root data object at runtime",
		Suggestion: "Declare the property upfront in the initial data.",
	},
	CodeDeleteRootProperty: {
		Category:   CategoryReactivity,
		Message:    "Avoid deleting properties on a root data object",
		Suggestion: "Set the property to nil instead.",
	},
	CodeInvalidArrayIndex: {
		Category: CategoryReactivity,
		Message:  "Invalid array index",
	},

	// ============================================
	// Watchers (E006-E009)
	// ============================================

	CodeWatcherGetter: {
		Category: CategoryWatcher,
		Message:  "Error in getter for watcher",
	},
	CodeWatcherCallback: {
		Category: CategoryWatcher,
		Message:  "Error in callback for watcher",
	},
	CodeInfiniteUpdateLoop: {
		Category:   CategoryWatcher,
		Message:    "You may have an infinite update loop",
		Suggestion: "Check for watchers that mutate the state they depend on.",
	},
	CodeInvalidWatchPath: {
		Category:   CategoryWatcher,
		Message:    "Failed watching path",
		Suggestion: "Watch paths only accept dot-delimited identifiers and indexes. Use a function for full control.",
	},

	// ============================================
	// Config (E101-E199)
	// ============================================

	CodeConfigNotFound: {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Create learnvue.json or pass --config.",
	},
	CodeConfigInvalid: {
		Category:   CategoryConfig,
		Message:    "Invalid configuration",
		Suggestion: "Check that learnvue.json is valid JSON.",
	},

	// ============================================
	// Scenarios (E201-E299)
	// ============================================

	CodeScenarioInvalid: {
		Category:   CategoryScenario,
		Message:    "Invalid scenario",
		Suggestion: "Check the scenario YAML against the documented format.",
	},
	CodeScenarioStep: {
		Category: CategoryScenario,
		Message:  "Scenario step failed",
	},
	CodeScenarioExpression: {
		Category: CategoryScenario,
		Message:  "Invalid expression",
	},
	CodeScenarioUnavailable: {
		Category: CategoryScenario,
		Message:  "Scenario could not be loaded",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
