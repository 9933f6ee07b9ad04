package implementation

import (
	"github.com/influxdata/flux/ast"
)

// identifierCollector finds every identifier matching a name, excluding
// occurrences used as labels: object-literal keys, named-argument keys and
// the property side of a member expression (in `a.b`, `a` counts but `b`
// does not). Function parameters are declarations, not labels, so a
// parameter key does count — renaming `v` in `(v) => v + 1` has to rewrite
// both sides.
type identifierCollector struct {
	name        string
	occurrences []*ast.Identifier
}

func (c *identifierCollector) Visit(node ast.Node) ast.Visitor {
	switch n := node.(type) {
	case *ast.MemberExpression:
		ast.Walk(c, n.Object)
		return nil
	case *ast.FunctionExpression:
		for _, param := range n.Params {
			if key, ok := param.Key.(*ast.Identifier); ok && key.Name == c.name {
				c.occurrences = append(c.occurrences, key)
			}
			if param.Value != nil {
				ast.Walk(c, param.Value)
			}
		}
		if n.Body != nil {
			ast.Walk(c, n.Body)
		}
		return nil
	case *ast.Property:
		if n.Value != nil {
			ast.Walk(c, n.Value)
		}
		return nil
	case *ast.Identifier:
		if n.Name == c.name {
			c.occurrences = append(c.occurrences, n)
		}
		return nil
	}
	return c
}

func (c *identifierCollector) Done(ast.Node) {}

// identifierOccurrences returns every reference-position identifier in file
// matching name, in source order.
func identifierOccurrences(file *ast.File, name string) []*ast.Identifier {
	collector := &identifierCollector{name: name}
	ast.Walk(collector, file)
	return collector.occurrences
}

// importCollector lists the literal import path strings of a tree.
type importCollector struct {
	paths []string
}

func (c *importCollector) Visit(node ast.Node) ast.Visitor {
	if imp, ok := node.(*ast.ImportDeclaration); ok {
		if imp.Path != nil {
			c.paths = append(c.paths, imp.Path.Value)
		}
		return nil
	}
	return c
}

func (c *importCollector) Done(ast.Node) {}

func importPaths(file *ast.File) []string {
	collector := &importCollector{}
	ast.Walk(collector, file)
	return collector.paths
}
