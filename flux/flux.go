// Package flux adapts the Flux parser, AST and formatter to the server's
// needs: parse errors as position-tagged values, canonical text with a
// trailing newline, and the builtin signature environment.
package flux

import (
	"fmt"
	"strings"

	"github.com/influxdata/flux/ast"
	"github.com/influxdata/flux/ast/astutil"
	"github.com/influxdata/flux/parser"
)

// Error is a parse error tagged with its source position.
type Error struct {
	Pos ast.Position
	Msg string
}

func (e Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// Parse parses src into a File. The parser always yields a usable (possibly
// partial) tree; syntax problems come back as the error slice so callers can
// degrade instead of failing.
func Parse(name, src string) (*ast.File, []Error) {
	pkg := parser.ParseSource(src)
	if len(pkg.Files) == 0 {
		return &ast.File{}, nil
	}
	file := pkg.Files[0]
	file.Name = name
	return file, treeErrors(file)
}

// treeErrors flattens the per-node error lists the parser leaves behind,
// tagging each with the owning node's start position.
func treeErrors(file *ast.File) []Error {
	collector := &errorCollector{}
	ast.Walk(collector, file)
	return collector.errors
}

type errorCollector struct {
	errors []Error
}

func (c *errorCollector) Visit(node ast.Node) ast.Visitor {
	for _, err := range node.Errs() {
		c.errors = append(c.errors, Error{Pos: node.Location().Start, Msg: err.Msg})
	}
	return c
}

func (c *errorCollector) Done(ast.Node) {}

// Format renders a file in its canonical form with a trailing newline.
func Format(file *ast.File) (string, error) {
	text, err := astutil.Format(file)
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text, nil
}

// Before reports whether p comes before q in source order.
func Before(p, q ast.Position) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Column < q.Column)
}

// After reports whether p comes after q in source order.
func After(p, q ast.Position) bool {
	return Before(q, p)
}

// PropertyKeyName returns the name a property key binds: the identifier name
// or the literal string.
func PropertyKeyName(key ast.PropertyKey) string {
	switch k := key.(type) {
	case *ast.Identifier:
		return k.Name
	case *ast.StringLiteral:
		return k.Value
	}
	return ""
}

// NamedArguments returns a call's keyword arguments. The parser gathers them
// into a single object expression in the argument list.
func NamedArguments(call *ast.CallExpression) []*ast.Property {
	if len(call.Arguments) == 0 {
		return nil
	}
	object, ok := call.Arguments[0].(*ast.ObjectExpression)
	if !ok {
		return nil
	}
	return object.Properties
}
