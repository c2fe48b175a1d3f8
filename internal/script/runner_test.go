package script

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seven-it/Learn-Vue/internal/errors"
	"github.com/seven-it/Learn-Vue/pkg/observer"
)

func runDoc(t *testing.T, doc string, opts ...Option) (*Result, error) {
	t.Helper()
	sc, err := Parse([]byte(doc))
	require.NoError(t, err)
	return NewRunner(opts...).Run(context.Background(), sc)
}

func TestRunComputedAndWatchers(t *testing.T) {
	res, err := runDoc(t, `
data:
  user: {name: Ada}
computed:
  - {name: label, expr: 'get("user.name") + "!"'}
watch:
  - {name: name, path: user.name, immediate: true}
  - {name: shout, expr: 'computed("label")'}
steps:
  - {op: assign, path: user.name, value: Grace}
`)
	require.NoError(t, err)

	assert.Equal(t, []Event{
		{Step: 0, Watcher: "name", Value: "Ada", Old: nil},
		{Step: 1, Watcher: "name", Value: "Grace", Old: "Ada"},
		{Step: 1, Watcher: "shout", Value: "Grace!", Old: "Ada!"},
	}, res.Events)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, map[string]any{"user": map[string]any{"name": "Grace"}}, res.Data)
}

func TestRunArrayMutations(t *testing.T) {
	res, err := runDoc(t, `
data: {list: [3, 1, 2]}
watch:
  - {name: list, path: list}
steps:
  - {op: push, path: list, values: [4]}
  - {op: sort, path: list}
  - {op: splice, path: list, start: 0, deleteCount: 1, values: [9]}
  - {op: reverse, path: list}
  - {op: shift, path: list}
  - {op: unshift, path: list, values: [0]}
  - {op: pop, path: list}
`)
	require.NoError(t, err)

	require.Len(t, res.Events, 7)
	for i, ev := range res.Events {
		assert.Equal(t, i+1, ev.Step)
		assert.Equal(t, "list", ev.Watcher)
	}
	assert.Equal(t, map[string]any{"list": []any{0, 3, 2}}, res.Data)
}

func TestRunSetAndDelete(t *testing.T) {
	res, err := runDoc(t, `
data: {user: {name: Ada}, list: [1]}
watch:
  - {name: user, path: user, deep: true}
  - {name: list, path: list}
steps:
  - {op: set, path: user.age, value: 36}
  - {op: delete, path: user.age}
  - {op: set, path: list.3, value: 7}
  - {op: assign, path: list.0, value: 5}
`)
	require.NoError(t, err)

	steps := make([]int, 0, len(res.Events))
	for _, ev := range res.Events {
		steps = append(steps, ev.Step)
	}
	assert.Equal(t, []int{1, 2, 3}, steps, "plain index assignment must not notify")
	assert.Equal(t, map[string]any{
		"user": map[string]any{"name": "Ada"},
		"list": []any{5, nil, nil, 7},
	}, res.Data)
}

func TestRunRootWarnings(t *testing.T) {
	res, err := runDoc(t, `
root: true
data: {user: {name: Ada}}
steps:
  - {op: set, path: age, value: 36}
  - {op: delete, path: user}
  - {op: set, path: user.age, value: 36}
`)
	require.NoError(t, err)

	require.Len(t, res.Warnings, 2)
	assert.Equal(t, Warning{Step: 1, Code: errors.CodeAddRootProperty, Message: res.Warnings[0].Message}, res.Warnings[0])
	assert.Equal(t, 2, res.Warnings[1].Step)
	assert.Equal(t, errors.CodeDeleteRootProperty, res.Warnings[1].Code)
	assert.Equal(t, map[string]any{"user": map[string]any{"name": "Ada", "age": 36}}, res.Data)
}

func TestRunInvalidTargetsWarn(t *testing.T) {
	res, err := runDoc(t, `
data: {n: 1, list: []}
steps:
  - {op: set, path: n.x, value: 1}
  - {op: delete, path: missing.x}
  - {op: set, path: list.x, value: 1}
`)
	require.NoError(t, err)

	codes := make([]string, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []string{errors.CodeSetInvalidTarget, errors.CodeDelInvalidTarget, errors.CodeInvalidArrayIndex}, codes)
}

func TestRunSyncScenario(t *testing.T) {
	before := observer.CurrentConfig().Async

	var hooked []Event
	res, err := runDoc(t, `
sync: true
data: {a: 1, b: 1}
computed:
  - {name: sum, expr: 'get("a") + get("b")'}
watch:
  - {name: sum, expr: 'computed("sum")'}
steps:
  - {op: assign, path: a, value: 2}
  - {op: assign, path: b, value: 3}
`, WithEventHook(func(ev Event) { hooked = append(hooked, ev) }))
	require.NoError(t, err)

	assert.Equal(t, []Event{
		{Step: 1, Watcher: "sum", Value: 3, Old: 2},
		{Step: 2, Watcher: "sum", Value: 5, Old: 3},
	}, res.Events)
	assert.Equal(t, res.Events, hooked)
	assert.Equal(t, before, observer.CurrentConfig().Async, "observer config must be restored")
}

func TestRunFlushHook(t *testing.T) {
	var flushes []int
	_, err := runDoc(t, `
data: {a: 1}
watch:
  - {name: a, path: a}
  - {name: b, path: a}
steps:
  - {op: assign, path: a, value: 2}
  - {op: assign, path: a, value: 2}
`, WithFlushHook(func(ran int) { flushes = append(flushes, ran) }))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, flushes)
}

func TestRunSilent(t *testing.T) {
	res, err := runDoc(t, `
root: true
data: {}
steps:
  - {op: set, path: a, value: 1}
`, WithSilent(true))
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
}

func TestRunStepError(t *testing.T) {
	res, err := runDoc(t, `
data: {name: Ada}
watch:
  - {name: name, path: name}
steps:
  - {op: assign, path: name, value: Grace}
  - {op: push, path: name, values: [1]}
  - {op: assign, path: name, value: Never}
`)
	require.Error(t, err)
	assert.Equal(t, errors.CodeScenarioStep, errors.Code(err))
	require.Len(t, res.Events, 1, "events before the failing step are kept")
	assert.Nil(t, res.Data)
}

func TestRunAssignIndexOutOfRange(t *testing.T) {
	for _, index := range []string{"9223372036854775807", "2000000000", "2"} {
		t.Run(index, func(t *testing.T) {
			res, err := runDoc(t, `
data: {tags: [a]}
steps:
  - {op: assign, path: tags.`+index+`, value: z}
`)
			require.Error(t, err)
			assert.Equal(t, errors.CodeScenarioStep, errors.Code(err))
			assert.Contains(t, err.Error(), "out of range")
			assert.Empty(t, res.Events)
		})
	}

	res, err := runDoc(t, `
data: {tags: [a]}
steps:
  - {op: assign, path: tags.1, value: z}
`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"tags": []any{"a", "z"}}, res.Data, "assigning at the length appends")
}

func TestRunExpressionErrors(t *testing.T) {
	_, err := runDoc(t, `
computed:
  - {name: broken, expr: 'get('}
`)
	require.Error(t, err)
	assert.Equal(t, errors.CodeScenarioExpression, errors.Code(err))

	res, err := runDoc(t, `
watch:
  - {name: ghost, expr: 'computed("missing")'}
`)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 0, res.Warnings[0].Step)
	assert.Equal(t, errors.CodeScenarioExpression, res.Warnings[0].Code)
}

func TestRunCanceled(t *testing.T) {
	sc, err := Parse([]byte(`steps: [{op: assign, path: a, value: 1}]`))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewRunner().Run(ctx, sc)
	assert.ErrorIs(t, err, context.Canceled)
}
