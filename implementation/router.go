package implementation

import (
	"errors"
	"fmt"

	"github.com/tliron/glsp"
)

// errInvalidParams marks a handler failure caused by a malformed parameter
// payload. The router maps it to the protocol's invalid-params error.
var errInvalidParams = errors.New("invalid params")

func invalidParams(err error) error {
	return fmt.Errorf("%w: %s", errInvalidParams, err)
}

// handlerFunc is the uniform handler contract: a nil result means no reply
// (notification), a non-nil result is serialized as the reply, and an error
// becomes a protocol-level error object.
type handlerFunc func(context *glsp.Context) (interface{}, error)

// Router dispatches protocol methods to handlers. The table is built once at
// startup; dispatch reads only the envelope (method), and each handler
// parses its own parameter payload from the raw request body.
type Router struct {
	session  *Session
	handlers map[string]handlerFunc
}

// NewRouter builds the method table for a session.
func NewRouter(session *Session) *Router {
	return &Router{session: session, handlers: map[string]handlerFunc{
		"initialize":                  session.initialize,
		"initialized":                 session.initialized,
		"shutdown":                    session.shutdown,
		"textDocument/didOpen":        session.textDocumentDidOpen,
		"textDocument/didChange":      session.textDocumentDidChange,
		"textDocument/didSave":        session.textDocumentDidSave,
		"textDocument/didClose":       session.textDocumentDidClose,
		"textDocument/completion":     session.textDocumentCompletion,
		"completionItem/resolve":      session.completionItemResolve,
		"textDocument/signatureHelp":  session.textDocumentSignatureHelp,
		"textDocument/documentSymbol": session.textDocumentDocumentSymbol,
		"textDocument/definition":     session.textDocumentDefinition,
		"textDocument/references":     session.textDocumentReferences,
		"textDocument/rename":         session.textDocumentRename,
		"textDocument/formatting":     session.textDocumentFormatting,
		"textDocument/foldingRange":   session.textDocumentFoldingRange,
		"textDocument/hover":          session.textDocumentHover,
	}}
}

// Handle implements glsp.Handler. Methods without a handler are silently
// ignored with an empty reply: the protocol treats unsupported optional
// capabilities as no-ops, not errors. A started handler always runs to
// completion; nothing is retried or reordered.
func (r *Router) Handle(context *glsp.Context) (interface{}, bool, bool, error) {
	if r.session.shuttingDown {
		log.Debugf("ignoring %q after shutdown", context.Method)
		return nil, true, true, nil
	}
	handler, ok := r.handlers[context.Method]
	if !ok {
		log.Debugf("ignoring unsupported method %q", context.Method)
		return nil, true, true, nil
	}
	result, err := handler(context)
	if err != nil {
		if errors.Is(err, errInvalidParams) {
			log.Warningf("%s: %s", context.Method, err)
			return nil, true, false, nil
		}
		return nil, true, true, err
	}
	return result, true, true, nil
}
