// Package script runs reactivity scenarios: a block of data made reactive,
// computed values and watchers over it, and a list of mutation steps. Every
// watcher callback is recorded as an event, and every warning raised along
// the way is kept with the step that caused it.
package script

import (
	"gopkg.in/yaml.v3"

	"github.com/seven-it/Learn-Vue/internal/errors"
)

// Step operations.
const (
	OpAssign  = "assign"
	OpSet     = "set"
	OpDelete  = "delete"
	OpPush    = "push"
	OpPop     = "pop"
	OpShift   = "shift"
	OpUnshift = "unshift"
	OpSplice  = "splice"
	OpSort    = "sort"
	OpReverse = "reverse"
)

var knownOps = map[string]bool{
	OpAssign: true, OpSet: true, OpDelete: true,
	OpPush: true, OpPop: true, OpShift: true, OpUnshift: true,
	OpSplice: true, OpSort: true, OpReverse: true,
}

// Scenario is a parsed scenario document.
type Scenario struct {
	// Data is the initial state. It is converted to reactive containers
	// and observed before anything else happens.
	Data map[string]any `yaml:"data" json:"data"`

	// Root observes Data as a root object: adding or deleting its keys
	// through set and delete warns instead of changing it.
	Root bool `yaml:"root,omitempty" json:"root,omitempty"`

	// Sync runs watchers as soon as their dependencies change instead of
	// once after every step.
	Sync bool `yaml:"sync,omitempty" json:"sync,omitempty"`

	Computed []Computed `yaml:"computed,omitempty" json:"computed,omitempty"`
	Watch    []Watch    `yaml:"watch,omitempty" json:"watch,omitempty"`
	Steps    []Step     `yaml:"steps" json:"steps"`
}

// Computed declares a cached derived value.
type Computed struct {
	Name string `yaml:"name" json:"name"`
	Expr string `yaml:"expr" json:"expr"`
}

// Watch declares a watcher over either a path or an expression.
type Watch struct {
	Name      string `yaml:"name" json:"name"`
	Path      string `yaml:"path,omitempty" json:"path,omitempty"`
	Expr      string `yaml:"expr,omitempty" json:"expr,omitempty"`
	Deep      bool   `yaml:"deep,omitempty" json:"deep,omitempty"`
	Immediate bool   `yaml:"immediate,omitempty" json:"immediate,omitempty"`
}

// Step is one mutation.
type Step struct {
	Op   string `yaml:"op" json:"op"`
	Path string `yaml:"path" json:"path"`

	// Value is written by assign and set.
	Value any `yaml:"value,omitempty" json:"value,omitempty"`

	// Values are inserted by push, unshift and splice.
	Values []any `yaml:"values,omitempty" json:"values,omitempty"`

	// Start and DeleteCount drive splice. A missing DeleteCount removes
	// everything from Start on.
	Start       int  `yaml:"start,omitempty" json:"start,omitempty"`
	DeleteCount *int `yaml:"deleteCount,omitempty" json:"deleteCount,omitempty"`
}

// Parse decodes a YAML (or JSON) scenario and validates it.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, errors.New(errors.CodeScenarioInvalid).Wrap(err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks names, watch sources and step operations.
func (sc *Scenario) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.CodeScenarioInvalid).WithDetailf(format, args...)
	}

	computed := make(map[string]bool, len(sc.Computed))
	for i, c := range sc.Computed {
		if c.Name == "" {
			return invalid("computed[%d] has no name", i)
		}
		if computed[c.Name] {
			return invalid("computed %q is declared twice", c.Name)
		}
		if c.Expr == "" {
			return invalid("computed %q has no expr", c.Name)
		}
		computed[c.Name] = true
	}

	watches := make(map[string]bool, len(sc.Watch))
	for i, w := range sc.Watch {
		if w.Name == "" {
			return invalid("watch[%d] has no name", i)
		}
		if watches[w.Name] {
			return invalid("watch %q is declared twice", w.Name)
		}
		if (w.Path == "") == (w.Expr == "") {
			return invalid("watch %q needs exactly one of path and expr", w.Name)
		}
		watches[w.Name] = true
	}

	for i, s := range sc.Steps {
		if !knownOps[s.Op] {
			return invalid("step %d: unknown op %q", i+1, s.Op)
		}
		if s.Path == "" {
			return invalid("step %d: %s needs a path", i+1, s.Op)
		}
	}
	return nil
}
