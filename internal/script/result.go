package script

// Event is one watcher callback. Step 0 is the setup phase, where
// immediate watchers fire.
type Event struct {
	Step    int    `json:"step" yaml:"step"`
	Watcher string `json:"watcher" yaml:"watcher"`
	Value   any    `json:"value" yaml:"value"`
	Old     any    `json:"old" yaml:"old"`
}

// Warning is a warning raised while a step ran.
type Warning struct {
	Step    int    `json:"step" yaml:"step"`
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// Result is the outcome of a run.
type Result struct {
	Events   []Event   `json:"events" yaml:"events"`
	Warnings []Warning `json:"warnings" yaml:"warnings"`

	// Data is the final state as plain values.
	Data any `json:"data" yaml:"data"`
}
