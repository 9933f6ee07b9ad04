package implementation

import (
	"github.com/influxdata/flux/ast"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/influxdata/flux-lsp-go/flux"
)

// toTreePosition converts a 0-based protocol position to the 1-based
// coordinates the tree uses.
func toTreePosition(pos protocol.Position) ast.Position {
	return ast.Position{Line: int(pos.Line) + 1, Column: int(pos.Character) + 1}
}

// toProtocolRange converts a 1-based tree extent to a 0-based range.
func toProtocolRange(loc ast.SourceLocation) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{
			Line:      protocol.UInteger(loc.Start.Line - 1),
			Character: protocol.UInteger(loc.Start.Column - 1),
		},
		End: protocol.Position{
			Line:      protocol.UInteger(loc.End.Line - 1),
			Character: protocol.UInteger(loc.End.Column - 1),
		},
	}
}

// containsPosition reports whether pos falls within loc. Equality with
// either bound counts as contained, so a cursor touching a node's edge still
// resolves to it.
func containsPosition(loc ast.SourceLocation, pos ast.Position) bool {
	if flux.Before(pos, loc.Start) {
		return false
	}
	if flux.After(pos, loc.End) {
		return false
	}
	return true
}

// nodeFinder walks the whole tree, parents before children, and keeps
// updating its match on every containing node it visits. After a full
// traversal the retained match is the most deeply nested containing node,
// along with the ancestor chain leading to it (used to tell, e.g., a call's
// callee apart from an argument's key).
type nodeFinder struct {
	pos       ast.Position
	stack     []ast.Node
	node      ast.Node
	ancestors []ast.Node
}

func (f *nodeFinder) Visit(node ast.Node) ast.Visitor {
	if containsPosition(node.Location(), f.pos) {
		f.node = node
		f.ancestors = append([]ast.Node(nil), f.stack...)
	}
	f.stack = append(f.stack, node)
	return f
}

func (f *nodeFinder) Done(node ast.Node) {
	f.stack = f.stack[:len(f.stack)-1]
}

// findNodeAt locates the innermost node containing pos, plus its ancestor
// path from the root. A position touching no node yields nil.
func findNodeAt(file *ast.File, pos ast.Position) (ast.Node, []ast.Node) {
	finder := &nodeFinder{pos: pos}
	ast.Walk(finder, file)
	return finder.node, finder.ancestors
}

// enclosingCall returns the innermost call expression at or around the
// match: the node itself if it is a call, else the nearest call ancestor.
func enclosingCall(node ast.Node, ancestors []ast.Node) *ast.CallExpression {
	if call, ok := node.(*ast.CallExpression); ok {
		return call
	}
	for i := len(ancestors) - 1; i >= 0; i-- {
		if call, ok := ancestors[i].(*ast.CallExpression); ok {
			return call
		}
	}
	return nil
}

// enclosingMember returns the innermost member expression at or around the
// match.
func enclosingMember(node ast.Node, ancestors []ast.Node) *ast.MemberExpression {
	if member, ok := node.(*ast.MemberExpression); ok {
		return member
	}
	for i := len(ancestors) - 1; i >= 0; i-- {
		if member, ok := ancestors[i].(*ast.MemberExpression); ok {
			return member
		}
	}
	return nil
}
