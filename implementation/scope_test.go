package implementation

import (
	"testing"

	"github.com/influxdata/flux/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionsInScopeBeforePosition(t *testing.T) {
	file := parseSource(t, "f = (a, b=1) => a + b\nx = 1\ng = () => 2\n")

	// At the end of line one only f is defined.
	functions := functionsInScope([]*ast.File{file}, ast.Position{Line: 1, Column: 22})
	require.Len(t, functions, 1)
	assert.Equal(t, "f", functions[0].Name)
	assert.Equal(t, "self", functions[0].Owner)
	assert.Equal(t, []string{"a"}, functions[0].Required)
	assert.Equal(t, []string{"b"}, functions[0].Optional)

	// After line three both f and g are in scope; strictly later
	// definitions never leak backwards.
	functions = functionsInScope([]*ast.File{file}, ast.Position{Line: 4, Column: 1})
	require.Len(t, functions, 2)
	assert.Equal(t, "g", functions[1].Name)
	assert.Empty(t, functions[1].Required)
}

func TestFunctionsInScopeIncludeOptionAssignments(t *testing.T) {
	file := parseSource(t, "option tick = () => 1\n")

	functions := functionsInScope([]*ast.File{file}, ast.Position{Line: 2, Column: 1})
	require.Len(t, functions, 1)
	assert.Equal(t, "tick", functions[0].Name)
}

func TestObjectFunctionCollector(t *testing.T) {
	file := parseSource(t, "o = {inc: (v) => v + 1, label: \"x\"}\n")

	members := objectFunctionsIn([]*ast.File{file})
	require.Len(t, members, 1)
	assert.Equal(t, "o", members[0].Object)
	assert.Equal(t, "inc", members[0].Function.Name)
	assert.Equal(t, []string{"v"}, members[0].Function.Required)
}

func TestVariablesInScope(t *testing.T) {
	file := parseSource(t, "bucket = \"telegraf\"\nf = () => 1\nlater = 2\n")

	variables := variablesInScope([]*ast.File{file}, ast.Position{Line: 2, Column: 1})
	require.Len(t, variables, 1)
	assert.Equal(t, "bucket", variables[0].Name)
}
