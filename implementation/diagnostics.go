package implementation

import (
	"fmt"
	"strings"

	"github.com/influxdata/flux/ast"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/influxdata/flux-lsp-go/flux"
)

const experimentalPrefix = "experimental"

// diagnose re-parses uri and produces its diagnostics: structural parse
// errors plus experimental-usage hints.
func (s *Session) diagnose(uri protocol.DocumentUri) []protocol.Diagnostic {
	parsed := s.parse(uri)

	diagnostics := make([]protocol.Diagnostic, 0, len(parsed.errs))
	for _, err := range parsed.errs {
		diagnostics = append(diagnostics, parseErrorDiagnostic(err))
	}

	diagnostics = append(diagnostics, experimentalDiagnostics(s.packageFiles(uri), parsed.file)...)
	return diagnostics
}

func parseErrorDiagnostic(err flux.Error) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := diagnosticSource
	pos := protocol.Position{
		Line:      protocol.UInteger(err.Pos.Line - 1),
		Character: protocol.UInteger(err.Pos.Column - 1),
	}
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: pos, End: pos},
		Severity: &severity,
		Source:   &source,
		Message:  err.Msg,
	}
}

// experimentalDiagnostics emits a hint wherever target calls into a
// namespace bound by an "experimental"-prefixed import anywhere in the
// package. When no such import exists the traversal is pruned entirely:
// no diagnostic is possible.
func experimentalDiagnostics(pkg []*ast.File, target *ast.File) []protocol.Diagnostic {
	watched := watchedNamespaces(pkg)
	if len(watched) == 0 {
		return nil
	}
	collector := &experimentalUsageCollector{watched: watched}
	ast.Walk(collector, target)
	return collector.diagnostics
}

// watchedNamespaces maps each experimental import to the namespace it
// binds: the alias when present, else the last path segment.
func watchedNamespaces(pkg []*ast.File) map[string]bool {
	watched := make(map[string]bool)
	for _, file := range pkg {
		for _, imp := range file.Imports {
			if imp.Path == nil || !strings.HasPrefix(imp.Path.Value, experimentalPrefix) {
				continue
			}
			name := flux.PackageName(imp.Path.Value)
			if imp.As != nil {
				name = imp.As.Name
			}
			watched[name] = true
		}
	}
	return watched
}

type experimentalUsageCollector struct {
	watched     map[string]bool
	diagnostics []protocol.Diagnostic
}

func (c *experimentalUsageCollector) Visit(node ast.Node) ast.Visitor {
	call, ok := node.(*ast.CallExpression)
	if !ok {
		return c
	}
	switch callee := call.Callee.(type) {
	case *ast.Identifier:
		if c.watched[callee.Name] {
			c.hint(callee.Name, callee.Location())
		}
	case *ast.MemberExpression:
		if object, ok := callee.Object.(*ast.Identifier); ok && c.watched[object.Name] {
			name := object.Name
			if property := flux.PropertyKeyName(callee.Property); property != "" {
				name += "." + property
			}
			c.hint(name, callee.Location())
		}
	}
	return c
}

func (c *experimentalUsageCollector) Done(ast.Node) {}

func (c *experimentalUsageCollector) hint(name string, loc ast.SourceLocation) {
	severity := protocol.DiagnosticSeverityHint
	source := diagnosticSource
	c.diagnostics = append(c.diagnostics, protocol.Diagnostic{
		Range:    toProtocolRange(loc),
		Severity: &severity,
		Source:   &source,
		Message:  fmt.Sprintf("%s is experimental and subject to change", name),
	})
}
