package implementation

import (
	"encoding/json"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDidOpen stores the opened document and checks it.
func (s *Session) textDocumentDidOpen(context *glsp.Context) (interface{}, error) {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(context.Params, &params); err != nil {
		return nil, invalidParams(err)
	}
	s.documents.force(params.TextDocument.URI, int32(params.TextDocument.Version), params.TextDocument.Text)
	s.publishDiagnostics(context.Notify, params.TextDocument.URI)
	return nil, nil
}

// textDocumentDidChange applies whole-content replacements. The store's
// version check drops stale updates; the server advertises full sync, so a
// ranged change event is logged and skipped rather than applied.
func (s *Session) textDocumentDidChange(context *glsp.Context) (interface{}, error) {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(context.Params, &params); err != nil {
		return nil, invalidParams(err)
	}
	uri := params.TextDocument.URI
	for _, change := range params.ContentChanges {
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.documents.set(uri, int32(params.TextDocument.Version), whole.Text)
		} else {
			log.Warningf("ignoring incremental change for %s: full sync negotiated", uri)
		}
	}
	s.publishDiagnostics(context.Notify, uri)
	return nil, nil
}

// textDocumentDidSave re-applies the saved text when the client includes it.
func (s *Session) textDocumentDidSave(context *glsp.Context) (interface{}, error) {
	var params protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(context.Params, &params); err != nil {
		return nil, invalidParams(err)
	}
	uri := params.TextDocument.URI
	if params.Text != nil {
		current := s.documents.get(uri)
		s.documents.force(uri, current.version, *params.Text)
	}
	s.publishDiagnostics(context.Notify, uri)
	return nil, nil
}

// textDocumentDidClose removes the document and clears its diagnostics.
func (s *Session) textDocumentDidClose(context *glsp.Context) (interface{}, error) {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(context.Params, &params); err != nil {
		return nil, invalidParams(err)
	}
	s.documents.remove(params.TextDocument.URI)
	s.clearDiagnostics(context.Notify, params.TextDocument.URI)
	return nil, nil
}
