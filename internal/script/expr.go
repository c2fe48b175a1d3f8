package script

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/seven-it/Learn-Vue/internal/errors"
	"github.com/seven-it/Learn-Vue/pkg/observer"
	"github.com/seven-it/Learn-Vue/pkg/watcher"
)

// scope is what expressions can see: get("a.b") reads a path below the
// root, computed("name") reads a computed value. Both track, so an
// expression used as a getter depends on what it reads.
type scope struct {
	root     *observer.Object
	paths    map[string]watcher.Getter
	computed map[string]*watcher.Computed
	env      map[string]any
}

func newScope(root *observer.Object) *scope {
	s := &scope{
		root:     root,
		paths:    make(map[string]watcher.Getter),
		computed: make(map[string]*watcher.Computed),
	}
	s.env = map[string]any{
		"get":      s.get,
		"computed": s.readComputed,
	}
	return s
}

func (s *scope) get(path string) any {
	get, ok := s.paths[path]
	if !ok {
		var err error
		if get, err = watcher.ParsePath(path); err != nil {
			panic(err)
		}
		s.paths[path] = get
	}
	return observer.ToValue(get(s.root))
}

func (s *scope) readComputed(name string) any {
	c, ok := s.computed[name]
	if !ok {
		panic(errors.New(errors.CodeScenarioExpression).WithDetailf("unknown computed %q", name))
	}
	return c.Get()
}

func (s *scope) compile(name, code string) (*vm.Program, error) {
	program, err := expr.Compile(code, expr.Env(s.env))
	if err != nil {
		return nil, errors.New(errors.CodeScenarioExpression).
			WithDetailf("%s: %q", name, code).
			Wrap(err)
	}
	return program, nil
}

// getter turns program into a watcher getter. Evaluation errors become
// warnings and yield nil.
func (s *scope) getter(name string, program *vm.Program) func() any {
	return func() any {
		v, err := expr.Run(program, s.env)
		if err != nil {
			observer.Warn(errors.CodeScenarioExpression, "%s: %v", name, err)
			return nil
		}
		return v
	}
}
