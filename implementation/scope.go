package implementation

import (
	"github.com/influxdata/flux/ast"

	"github.com/influxdata/flux-lsp-go/flux"
)

// FunctionInfo describes one callable visible at a cursor: its required
// argument names in declaration order and its optional names. Owner is
// "self" for locally defined functions, else the source package name.
type FunctionInfo struct {
	Name     string
	Owner    string
	Required []string
	Optional []string
}

const ownerSelf = "self"

func functionInfoFromExpression(name string, fn *ast.FunctionExpression) FunctionInfo {
	info := FunctionInfo{Name: name, Owner: ownerSelf}
	for _, param := range fn.Params {
		key := flux.PropertyKeyName(param.Key)
		if key == "" {
			continue
		}
		if param.Value != nil {
			info.Optional = append(info.Optional, key)
		} else {
			info.Required = append(info.Required, key)
		}
	}
	return info
}

func functionInfoFromStdlib(fn flux.Function) FunctionInfo {
	return FunctionInfo{
		Name:     fn.Name,
		Owner:    fn.Package,
		Required: fn.Required,
		Optional: fn.Optional,
	}
}

// inScopeFunctionCollector gathers every assignment (plain or option) whose
// right-hand side is a function literal and whose location starts at or
// before the target position. Strictly later definitions are skipped.
type inScopeFunctionCollector struct {
	pos       ast.Position
	functions []FunctionInfo
}

func (c *inScopeFunctionCollector) Visit(node ast.Node) ast.Visitor {
	assign, ok := node.(*ast.VariableAssignment)
	if !ok {
		return c
	}
	if flux.After(assign.Location().Start, c.pos) {
		return nil
	}
	if fn, ok := assign.Init.(*ast.FunctionExpression); ok {
		c.functions = append(c.functions, functionInfoFromExpression(assign.ID.Name, fn))
	}
	return c
}

func (c *inScopeFunctionCollector) Done(ast.Node) {}

// functionsInScope returns the user-defined callables visible at pos across
// the given trees.
func functionsInScope(files []*ast.File, pos ast.Position) []FunctionInfo {
	var functions []FunctionInfo
	for _, file := range files {
		collector := &inScopeFunctionCollector{pos: pos}
		ast.Walk(collector, file)
		functions = append(functions, collector.functions...)
	}
	return functions
}

// objectFunction is one member callable: `object.name(...)`.
type objectFunction struct {
	Object   string
	Function FunctionInfo
}

// objectFunctionCollector finds object-literal assignments and records each
// property whose value is a function literal.
type objectFunctionCollector struct {
	functions []objectFunction
}

func (c *objectFunctionCollector) Visit(node ast.Node) ast.Visitor {
	assign, ok := node.(*ast.VariableAssignment)
	if !ok {
		return c
	}
	object, ok := assign.Init.(*ast.ObjectExpression)
	if !ok {
		return c
	}
	for _, prop := range object.Properties {
		name := flux.PropertyKeyName(prop.Key)
		if name == "" {
			continue
		}
		if fn, ok := prop.Value.(*ast.FunctionExpression); ok {
			c.functions = append(c.functions, objectFunction{
				Object:   assign.ID.Name,
				Function: functionInfoFromExpression(name, fn),
			})
		}
	}
	return c
}

func (c *objectFunctionCollector) Done(ast.Node) {}

// objectFunctionsIn returns the member callables defined in the given trees.
func objectFunctionsIn(files []*ast.File) []objectFunction {
	var functions []objectFunction
	for _, file := range files {
		collector := &objectFunctionCollector{}
		ast.Walk(collector, file)
		functions = append(functions, collector.functions...)
	}
	return functions
}

// variablesInScope returns the names and locations of non-function
// assignments made at or before pos, for completion.
type scopeVariable struct {
	Name string
	Loc  ast.SourceLocation
}

type variableCollector struct {
	pos       ast.Position
	variables []scopeVariable
}

func (c *variableCollector) Visit(node ast.Node) ast.Visitor {
	assign, ok := node.(*ast.VariableAssignment)
	if !ok {
		return c
	}
	if flux.After(assign.Location().Start, c.pos) {
		return nil
	}
	if _, isFn := assign.Init.(*ast.FunctionExpression); !isFn {
		c.variables = append(c.variables, scopeVariable{Name: assign.ID.Name, Loc: assign.ID.Location()})
	}
	return c
}

func (c *variableCollector) Done(ast.Node) {}

func variablesInScope(files []*ast.File, pos ast.Position) []scopeVariable {
	var variables []scopeVariable
	for _, file := range files {
		collector := &variableCollector{pos: pos}
		ast.Walk(collector, file)
		variables = append(variables, collector.variables...)
	}
	return variables
}
