package implementation

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/influxdata/flux/ast"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/influxdata/flux-lsp-go/flux"
)

// textDocumentDocumentSymbol returns the symbol outline of one document.
func (s *Session) textDocumentDocumentSymbol(context *glsp.Context) (interface{}, error) {
	var params protocol.DocumentSymbolParams
	if err := json.Unmarshal(context.Params, &params); err != nil {
		return nil, invalidParams(err)
	}
	parsed := s.parse(params.TextDocument.URI)
	return collectSymbols(parsed.file, params.TextDocument.URI), nil
}

// collectSymbols runs the symbol visitor over a tree and returns the
// outline sorted by ascending start position.
func collectSymbols(file *ast.File, uri protocol.DocumentUri) []protocol.SymbolInformation {
	collector := &symbolCollector{uri: uri}
	ast.Walk(collector, file)
	symbols := collector.symbols
	sort.SliceStable(symbols, func(i, j int) bool {
		a, b := symbols[i].Location.Range.Start, symbols[j].Location.Range.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Character < b.Character
	})
	return symbols
}

// symbolCollector is a single-pass visitor with a private accumulator.
// Assignments emit the target (and function parameters), calls emit the
// callee and one symbol per named argument, binary expressions emit their
// identifier operands, scalar literals and arrays emit leaf symbols, and
// member expressions with a resolvable source fragment emit object symbols.
type symbolCollector struct {
	uri     protocol.DocumentUri
	symbols []protocol.SymbolInformation
}

func (c *symbolCollector) emit(name string, kind protocol.SymbolKind, loc ast.SourceLocation) {
	c.symbols = append(c.symbols, protocol.SymbolInformation{
		Name: name,
		Kind: kind,
		Location: protocol.Location{
			URI:   c.uri,
			Range: toProtocolRange(loc),
		},
	})
}

func (c *symbolCollector) Visit(node ast.Node) ast.Visitor {
	switch n := node.(type) {
	case *ast.VariableAssignment:
		kind := protocol.SymbolKindVariable
		if fn, ok := n.Init.(*ast.FunctionExpression); ok {
			kind = protocol.SymbolKindFunction
			for _, param := range fn.Params {
				if key, ok := param.Key.(*ast.Identifier); ok {
					c.emit(key.Name, protocol.SymbolKindVariable, key.Location())
				}
			}
		}
		c.emit(n.ID.Name, kind, n.ID.Location())

	case *ast.CallExpression:
		if callee, ok := n.Callee.(*ast.Identifier); ok {
			c.emit(callee.Name, protocol.SymbolKindFunction, callee.Location())
		}
		for _, arg := range flux.NamedArguments(n) {
			name := flux.PropertyKeyName(arg.Key)
			if name == "" {
				continue
			}
			kind := protocol.SymbolKindVariable
			if _, ok := arg.Value.(*ast.FunctionExpression); ok {
				kind = protocol.SymbolKindFunction
			}
			c.emit(name, kind, arg.Location())
		}

	case *ast.BinaryExpression:
		if id, ok := n.Left.(*ast.Identifier); ok {
			c.emit(id.Name, protocol.SymbolKindVariable, id.Location())
		}
		if id, ok := n.Right.(*ast.Identifier); ok {
			c.emit(id.Name, protocol.SymbolKindVariable, id.Location())
		}

	case *ast.LogicalExpression:
		if id, ok := n.Left.(*ast.Identifier); ok {
			c.emit(id.Name, protocol.SymbolKindVariable, id.Location())
		}
		if id, ok := n.Right.(*ast.Identifier); ok {
			c.emit(id.Name, protocol.SymbolKindVariable, id.Location())
		}

	case *ast.MemberExpression:
		if source, ok := memberSource(n); ok {
			c.emit(source, protocol.SymbolKindObject, n.Location())
		}

	case *ast.ArrayExpression:
		c.emit("[]", protocol.SymbolKindArray, n.Location())
		return nil

	case *ast.IntegerLiteral:
		c.emit(strconv.FormatInt(n.Value, 10), protocol.SymbolKindNumber, n.Location())
		return nil
	case *ast.FloatLiteral:
		c.emit(strconv.FormatFloat(n.Value, 'f', -1, 64), protocol.SymbolKindNumber, n.Location())
		return nil
	case *ast.StringLiteral:
		c.emit(n.Value, protocol.SymbolKindString, n.Location())
		return nil
	case *ast.BooleanLiteral:
		c.emit(strconv.FormatBool(n.Value), protocol.SymbolKindBoolean, n.Location())
		return nil
	case *ast.DateTimeLiteral:
		c.emit(n.Value.Format(time.RFC3339), protocol.SymbolKindConstant, n.Location())
		return nil
	case *ast.DurationLiteral:
		c.emit(durationText(n), protocol.SymbolKindConstant, n.Location())
		return nil
	}
	return c
}

func (c *symbolCollector) Done(ast.Node) {}

func durationText(d *ast.DurationLiteral) string {
	var b strings.Builder
	for _, part := range d.Values {
		b.WriteString(strconv.FormatInt(part.Magnitude, 10))
		b.WriteString(part.Unit)
	}
	return b.String()
}

// memberSource renders a member expression's source fragment when the whole
// chain is made of plain identifiers, e.g. "pkg.fn".
func memberSource(member *ast.MemberExpression) (string, bool) {
	var object string
	switch o := member.Object.(type) {
	case *ast.Identifier:
		object = o.Name
	case *ast.MemberExpression:
		var ok bool
		if object, ok = memberSource(o); !ok {
			return "", false
		}
	default:
		return "", false
	}
	property := flux.PropertyKeyName(member.Property)
	if property == "" {
		return "", false
	}
	return object + "." + property, true
}
