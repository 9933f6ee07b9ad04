package implementation

import (
	"github.com/influxdata/flux/ast"
	"github.com/op/go-logging"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/influxdata/flux-lsp-go/flux"
)

var log = logging.MustGetLogger("flux-lsp.implementation")

const diagnosticSource = "flux-lsp"

// Session owns all per-connection state: the document store and the
// capabilities negotiated at initialize. One Session serves one client and
// is torn down at shutdown.
type Session struct {
	documents *documentStore

	// multiFile gates package-directory grouping for completion and
	// signature help. Negotiated at initialize.
	multiFile bool

	// shuttingDown is set by the shutdown request; the router replies with
	// empty no-ops from then on.
	shuttingDown bool
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{documents: newDocumentStore()}
}

// parsedDocument pairs a stored document with its freshly parsed tree.
// Trees are request-local and never cached across requests.
type parsedDocument struct {
	uri  protocol.DocumentUri
	file *ast.File
	errs []flux.Error
}

// parse re-parses the stored contents of uri.
func (s *Session) parse(uri protocol.DocumentUri) *parsedDocument {
	doc := s.documents.get(uri)
	file, errs := flux.Parse(string(uri), doc.contents)
	return &parsedDocument{uri: uri, file: file, errs: errs}
}

// parsePackage re-parses every document grouped with uri. With multi-file
// support off this is just the single document.
func (s *Session) parsePackage(uri protocol.DocumentUri) []*parsedDocument {
	docs := s.documents.getPackage(uri, s.multiFile)
	parsed := make([]*parsedDocument, 0, len(docs))
	for _, doc := range docs {
		file, errs := flux.Parse(string(doc.uri), doc.contents)
		parsed = append(parsed, &parsedDocument{uri: doc.uri, file: file, errs: errs})
	}
	return parsed
}

// packageFiles returns the parsed trees of uri's package.
func (s *Session) packageFiles(uri protocol.DocumentUri) []*ast.File {
	parsed := s.parsePackage(uri)
	files := make([]*ast.File, 0, len(parsed))
	for _, p := range parsed {
		files = append(files, p.file)
	}
	return files
}

// publishDiagnostics re-checks uri and pushes its diagnostics to the client.
func (s *Session) publishDiagnostics(notify glsp.NotifyFunc, uri protocol.DocumentUri) {
	if notify == nil {
		return
	}
	diagnostics := s.diagnose(uri)
	go notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// clearDiagnostics removes all published diagnostics for uri.
func (s *Session) clearDiagnostics(notify glsp.NotifyFunc, uri protocol.DocumentUri) {
	if notify == nil {
		return
	}
	go notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
}
