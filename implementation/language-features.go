package implementation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/influxdata/flux/ast"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/influxdata/flux-lsp-go/flux"
)

// importedPackage resolves an identifier to the stdlib package an import in
// any of the given trees binds to that name.
func importedPackage(files []*ast.File, name string) (*flux.Package, bool) {
	for _, file := range files {
		for _, imp := range file.Imports {
			if imp.Path == nil {
				continue
			}
			binding := flux.PackageName(imp.Path.Value)
			if imp.As != nil {
				binding = imp.As.Name
			}
			if binding != name {
				continue
			}
			if pkg, ok := flux.LookupPackage(imp.Path.Value); ok {
				return pkg, true
			}
		}
	}
	return nil, false
}

// textDocumentCompletion offers package members after `pkg.`, otherwise
// builtins, in-scope user functions and variables, and import namespaces.
func (s *Session) textDocumentCompletion(context *glsp.Context) (interface{}, error) {
	var params protocol.CompletionParams
	if err := json.Unmarshal(context.Params, &params); err != nil {
		return nil, invalidParams(err)
	}

	uri := params.TextDocument.URI
	pos := toTreePosition(params.Position)
	parsed := s.parse(uri)
	files := s.packageFiles(uri)

	builder := newCompletionBuilder()

	node, ancestors := findNodeAt(parsed.file, pos)
	if node != nil {
		if member := enclosingMember(node, ancestors); member != nil {
			if object, ok := member.Object.(*ast.Identifier); ok && !flux.Before(pos, object.Location().End) {
				s.completeMember(builder, files, object.Name)
				return builder.list(), nil
			}
		}
	}

	for _, fn := range flux.Universe() {
		builder.function(functionInfoFromStdlib(fn))
	}
	for _, fn := range functionsInScope(files, pos) {
		builder.function(fn)
	}
	for _, v := range variablesInScope(files, pos) {
		builder.variable(v.Name, ownerSelf)
	}
	for _, file := range files {
		for _, path := range importPaths(file) {
			builder.module(flux.PackageName(path), path)
		}
	}
	return builder.list(), nil
}

// completeMember fills the builder with the members reachable as `name.`:
// stdlib package exports, or member functions of a local object literal.
func (s *Session) completeMember(builder *completionBuilder, files []*ast.File, name string) {
	if pkg, ok := importedPackage(files, name); ok {
		for _, fn := range pkg.Functions {
			builder.function(functionInfoFromStdlib(fn))
		}
		for _, constant := range pkg.Constants {
			builder.constant(constant, pkg.Name)
		}
		return
	}
	for _, member := range objectFunctionsIn(files) {
		if member.Object == name {
			builder.function(member.Function)
		}
	}
}

// completionBuilder accumulates items, de-duplicated by label.
type completionBuilder struct {
	seen  map[string]bool
	items []protocol.CompletionItem
}

func newCompletionBuilder() *completionBuilder {
	return &completionBuilder{seen: make(map[string]bool)}
}

func (b *completionBuilder) add(label string, kind protocol.CompletionItemKind, detail string) {
	if b.seen[label] {
		return
	}
	b.seen[label] = true
	k := kind
	d := detail
	b.items = append(b.items, protocol.CompletionItem{
		Label:  label,
		Kind:   &k,
		Detail: &d,
	})
}

func (b *completionBuilder) function(info FunctionInfo) {
	b.add(info.Name, protocol.CompletionItemKindFunction, functionDetail(info))
}

func (b *completionBuilder) variable(name, owner string) {
	b.add(name, protocol.CompletionItemKindVariable, owner)
}

func (b *completionBuilder) constant(name, owner string) {
	b.add(name, protocol.CompletionItemKindConstant, owner)
}

func (b *completionBuilder) module(name, path string) {
	b.add(name, protocol.CompletionItemKindModule, path)
}

func (b *completionBuilder) list() *protocol.CompletionList {
	return &protocol.CompletionList{IsIncomplete: false, Items: b.items}
}

// functionDetail renders a short signature: required args bare, optional
// args marked with '?'.
func functionDetail(info FunctionInfo) string {
	args := make([]string, 0, len(info.Required)+len(info.Optional))
	args = append(args, info.Required...)
	for _, opt := range info.Optional {
		args = append(args, "?"+opt)
	}
	return fmt.Sprintf("(%s) %s", strings.Join(args, ", "), info.Owner)
}

// completionItemResolve attaches documentation for known stdlib functions
// and otherwise returns the item unchanged.
func (s *Session) completionItemResolve(context *glsp.Context) (interface{}, error) {
	var item protocol.CompletionItem
	if err := json.Unmarshal(context.Params, &item); err != nil {
		return nil, invalidParams(err)
	}
	if item.Documentation != nil {
		return item, nil
	}
	for _, fn := range flux.Universe() {
		if fn.Name == item.Label {
			item.Documentation = functionDetail(functionInfoFromStdlib(fn))
			break
		}
	}
	return item, nil
}

// textDocumentSignatureHelp expands every candidate callable at the cursor
// into one signature per legal argument combination.
func (s *Session) textDocumentSignatureHelp(context *glsp.Context) (interface{}, error) {
	var params protocol.SignatureHelpParams
	if err := json.Unmarshal(context.Params, &params); err != nil {
		return nil, invalidParams(err)
	}

	uri := params.TextDocument.URI
	pos := toTreePosition(params.Position)
	parsed := s.parse(uri)
	files := s.packageFiles(uri)

	node, ancestors := findNodeAt(parsed.file, pos)
	if node == nil {
		return nil, nil
	}
	call := enclosingCall(node, ancestors)
	if call == nil {
		return nil, nil
	}

	var signatures []protocol.SignatureInformation
	switch callee := call.Callee.(type) {
	case *ast.Identifier:
		for _, fn := range flux.Universe() {
			if fn.Name == callee.Name {
				signatures = append(signatures, generateSignatures(functionInfoFromStdlib(fn))...)
			}
		}
		for _, fn := range functionsInScope(files, pos) {
			if fn.Name == callee.Name {
				signatures = append(signatures, generateSignatures(fn)...)
			}
		}
	case *ast.MemberExpression:
		object, ok := callee.Object.(*ast.Identifier)
		if !ok {
			break
		}
		property := flux.PropertyKeyName(callee.Property)
		if property == "" {
			break
		}
		if pkg, ok := importedPackage(files, object.Name); ok {
			for _, fn := range pkg.Functions {
				if fn.Name == property {
					signatures = append(signatures, generateSignatures(functionInfoFromStdlib(fn))...)
				}
			}
			break
		}
		for _, member := range objectFunctionsIn(files) {
			if member.Object == object.Name && member.Function.Name == property {
				signatures = append(signatures, generateSignatures(member.Function)...)
			}
		}
	}

	if len(signatures) == 0 {
		return nil, nil
	}
	return &protocol.SignatureHelp{Signatures: signatures}, nil
}

// textDocumentDefinition resolves an identifier to the assignment binding
// that name at or before the cursor.
func (s *Session) textDocumentDefinition(context *glsp.Context) (interface{}, error) {
	var params protocol.DefinitionParams
	if err := json.Unmarshal(context.Params, &params); err != nil {
		return nil, invalidParams(err)
	}

	uri := params.TextDocument.URI
	pos := toTreePosition(params.Position)
	parsed := s.parse(uri)

	node, _ := findNodeAt(parsed.file, pos)
	ident, ok := node.(*ast.Identifier)
	if !ok {
		return nil, nil
	}

	var definition *ast.Identifier
	for _, stmt := range parsed.file.Body {
		assign := assignmentOf(stmt)
		if assign == nil || assign.ID.Name != ident.Name {
			continue
		}
		if flux.After(assign.Location().Start, pos) {
			break
		}
		definition = assign.ID
	}
	if definition == nil {
		return nil, nil
	}
	return protocol.Location{URI: uri, Range: toProtocolRange(definition.Location())}, nil
}

func assignmentOf(stmt ast.Statement) *ast.VariableAssignment {
	switch s := stmt.(type) {
	case *ast.VariableAssignment:
		return s
	case *ast.OptionStatement:
		if assign, ok := s.Assignment.(*ast.VariableAssignment); ok {
			return assign
		}
	}
	return nil
}

// textDocumentReferences lists every reference-position occurrence of the
// identifier under the cursor.
func (s *Session) textDocumentReferences(context *glsp.Context) (interface{}, error) {
	var params protocol.ReferenceParams
	if err := json.Unmarshal(context.Params, &params); err != nil {
		return nil, invalidParams(err)
	}
	locations, _ := s.referenceLocations(params.TextDocument.URI, toTreePosition(params.Position))
	return locations, nil
}

// textDocumentRename rewrites every occurrence of the identifier under the
// cursor to the new name.
func (s *Session) textDocumentRename(context *glsp.Context) (interface{}, error) {
	var params protocol.RenameParams
	if err := json.Unmarshal(context.Params, &params); err != nil {
		return nil, invalidParams(err)
	}

	uri := params.TextDocument.URI
	locations, ok := s.referenceLocations(uri, toTreePosition(params.Position))
	if !ok || len(locations) == 0 {
		return nil, nil
	}
	edits := make([]protocol.TextEdit, 0, len(locations))
	for _, location := range locations {
		edits = append(edits, protocol.TextEdit{Range: location.Range, NewText: params.NewName})
	}
	return &protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentUri][]protocol.TextEdit{uri: edits},
	}, nil
}

func (s *Session) referenceLocations(uri protocol.DocumentUri, pos ast.Position) ([]protocol.Location, bool) {
	parsed := s.parse(uri)
	node, _ := findNodeAt(parsed.file, pos)
	ident, ok := node.(*ast.Identifier)
	if !ok {
		return nil, false
	}
	occurrences := identifierOccurrences(parsed.file, ident.Name)
	locations := make([]protocol.Location, 0, len(occurrences))
	for _, occurrence := range occurrences {
		locations = append(locations, protocol.Location{
			URI:   uri,
			Range: toProtocolRange(occurrence.Location()),
		})
	}
	return locations, true
}

// textDocumentFormatting diffs the document against its canonical
// reformatting and returns minimal whole-line edits. A file that does not
// parse cleanly yields no edits.
func (s *Session) textDocumentFormatting(context *glsp.Context) (interface{}, error) {
	var params protocol.DocumentFormattingParams
	if err := json.Unmarshal(context.Params, &params); err != nil {
		return nil, invalidParams(err)
	}

	uri := params.TextDocument.URI
	doc := s.documents.get(uri)
	file, errs := flux.Parse(string(uri), doc.contents)
	if len(errs) > 0 {
		log.Debugf("not formatting %s: %d parse errors", uri, len(errs))
		return nil, nil
	}
	formatted, err := flux.Format(file)
	if err != nil {
		log.Warningf("formatting %s: %s", uri, err)
		return nil, nil
	}
	return formatEdits(doc.contents, formatted), nil
}

// textDocumentFoldingRange emits one region per multi-line function or
// object literal.
func (s *Session) textDocumentFoldingRange(context *glsp.Context) (interface{}, error) {
	var params protocol.FoldingRangeParams
	if err := json.Unmarshal(context.Params, &params); err != nil {
		return nil, invalidParams(err)
	}
	parsed := s.parse(params.TextDocument.URI)
	collector := &foldingRangeCollector{}
	ast.Walk(collector, parsed.file)
	return collector.ranges, nil
}

type foldingRangeCollector struct {
	ranges []protocol.FoldingRange
}

func (c *foldingRangeCollector) Visit(node ast.Node) ast.Visitor {
	switch node.(type) {
	case *ast.FunctionExpression, *ast.ObjectExpression:
		loc := node.Location()
		if loc.End.Line > loc.Start.Line {
			c.ranges = append(c.ranges, protocol.FoldingRange{
				StartLine: protocol.UInteger(loc.Start.Line - 1),
				EndLine:   protocol.UInteger(loc.End.Line - 1),
			})
		}
	}
	return c
}

func (c *foldingRangeCollector) Done(ast.Node) {}

// textDocumentHover shows a signature for the callable or namespace under
// the cursor.
func (s *Session) textDocumentHover(context *glsp.Context) (interface{}, error) {
	var params protocol.HoverParams
	if err := json.Unmarshal(context.Params, &params); err != nil {
		return nil, invalidParams(err)
	}

	uri := params.TextDocument.URI
	pos := toTreePosition(params.Position)
	parsed := s.parse(uri)
	files := s.packageFiles(uri)

	node, ancestors := findNodeAt(parsed.file, pos)
	ident, ok := node.(*ast.Identifier)
	if !ok {
		return nil, nil
	}

	if member := enclosingMember(node, ancestors); member != nil {
		if key, isIdent := member.Property.(*ast.Identifier); isIdent && key == ident {
			if object, isObject := member.Object.(*ast.Identifier); isObject {
				if pkg, found := importedPackage(files, object.Name); found {
					for _, fn := range pkg.Functions {
						if fn.Name == ident.Name {
							return hoverFor(functionInfoFromStdlib(fn), ident.Location()), nil
						}
					}
				}
			}
			return nil, nil
		}
	}

	for _, fn := range flux.Universe() {
		if fn.Name == ident.Name {
			return hoverFor(functionInfoFromStdlib(fn), ident.Location()), nil
		}
	}
	for _, fn := range functionsInScope(files, pos) {
		if fn.Name == ident.Name {
			return hoverFor(fn, ident.Location()), nil
		}
	}
	if pkg, ok := importedPackage(files, ident.Name); ok {
		return hoverMarkdown(fmt.Sprintf("package `%s`", pkg.Path), ident.Location()), nil
	}
	return nil, nil
}

func hoverFor(info FunctionInfo, loc ast.SourceLocation) *protocol.Hover {
	return hoverMarkdown(fmt.Sprintf("**%s**%s", info.Name, functionDetail(info)), loc)
}

func hoverMarkdown(value string, loc ast.SourceLocation) *protocol.Hover {
	r := toProtocolRange(loc)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: value,
		},
		Range: &r,
	}
}
