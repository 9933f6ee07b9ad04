package implementation

import (
	"encoding/json"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const serverName = "flux-lsp"

// initialize negotiates capabilities. Documents are synchronized as whole
// contents; multi-file resolution is opt-in via initializationOptions.
func (s *Session) initialize(context *glsp.Context) (interface{}, error) {
	var params protocol.InitializeParams
	if err := json.Unmarshal(context.Params, &params); err != nil {
		return nil, invalidParams(err)
	}

	if options, ok := params.InitializationOptions.(map[string]interface{}); ok {
		if multiFile, ok := options["multiFileSupport"].(bool); ok {
			s.multiFile = multiFile
			log.Infof("multi-file support: %t", multiFile)
		}
	}

	capabilities := protocol.ServerCapabilities{
		TextDocumentSync: protocol.TextDocumentSyncKindFull,
		CompletionProvider: &protocol.CompletionOptions{
			TriggerCharacters: []string{".", ":", "("},
			ResolveProvider:   boolPtr(true),
		},
		SignatureHelpProvider: &protocol.SignatureHelpOptions{
			TriggerCharacters: []string{"("},
		},
		DocumentSymbolProvider:     true,
		DefinitionProvider:         true,
		ReferencesProvider:         true,
		RenameProvider:             true,
		DocumentFormattingProvider: true,
		FoldingRangeProvider:       true,
		HoverProvider:              true,
	}

	return &protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name: serverName,
		},
	}, nil
}

func (s *Session) initialized(context *glsp.Context) (interface{}, error) {
	return nil, nil
}

// shutdown tears down the session's store and flags the session so later
// requests get empty no-op replies. The transport exits when the client
// closes the stream.
func (s *Session) shutdown(context *glsp.Context) (interface{}, error) {
	s.shuttingDown = true
	s.documents = newDocumentStore()
	return nil, nil
}

func boolPtr(v bool) *bool {
	return &v
}
