package implementation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func requestContext(t *testing.T, method string, params interface{}) *glsp.Context {
	t.Helper()
	data, err := json.Marshal(params)
	require.NoError(t, err)
	return &glsp.Context{
		Method: method,
		Params: data,
		Notify: func(method string, params interface{}) {},
	}
}

func TestRouterIgnoresUnknownMethods(t *testing.T) {
	router := NewRouter(NewSession())

	result, validMethod, validParams, err := router.Handle(&glsp.Context{Method: "workspace/didChangeConfiguration"})
	assert.Nil(t, result)
	assert.True(t, validMethod)
	assert.True(t, validParams)
	assert.NoError(t, err)
}

func TestRouterReportsMalformedParams(t *testing.T) {
	router := NewRouter(NewSession())

	_, validMethod, validParams, err := router.Handle(&glsp.Context{
		Method: "textDocument/didOpen",
		Params: json.RawMessage(`{"textDocument":`),
	})
	assert.True(t, validMethod)
	assert.False(t, validParams)
	assert.NoError(t, err)
}

func TestRouterDispatchesInitialize(t *testing.T) {
	session := NewSession()
	router := NewRouter(session)

	context := &glsp.Context{
		Method: "initialize",
		Params: json.RawMessage(`{"capabilities":{},"initializationOptions":{"multiFileSupport":true}}`),
	}
	result, _, _, err := router.Handle(context)
	require.NoError(t, err)

	initialized, ok := result.(*protocol.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, "flux-lsp", initialized.ServerInfo.Name)
	assert.True(t, session.multiFile)
}

func TestRouterLifecycleRoundTrip(t *testing.T) {
	session := NewSession()
	router := NewRouter(session)

	uri := "file:///p/main.flux"
	open := requestContext(t, "textDocument/didOpen", map[string]interface{}{
		"textDocument": map[string]interface{}{
			"uri":        uri,
			"languageId": "flux",
			"version":    1,
			"text":       "x = 1\n",
		},
	})
	_, _, _, err := router.Handle(open)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", session.documents.get(protocol.DocumentUri(uri)).contents)

	change := requestContext(t, "textDocument/didChange", map[string]interface{}{
		"textDocument":   map[string]interface{}{"uri": uri, "version": 2},
		"contentChanges": []map[string]interface{}{{"text": "x = 2\n"}},
	})
	_, _, _, err = router.Handle(change)
	require.NoError(t, err)
	assert.Equal(t, "x = 2\n", session.documents.get(protocol.DocumentUri(uri)).contents)

	// A stale change (version below the stored one) is dropped.
	stale := requestContext(t, "textDocument/didChange", map[string]interface{}{
		"textDocument":   map[string]interface{}{"uri": uri, "version": 1},
		"contentChanges": []map[string]interface{}{{"text": "stale\n"}},
	})
	_, _, _, err = router.Handle(stale)
	require.NoError(t, err)
	assert.Equal(t, "x = 2\n", session.documents.get(protocol.DocumentUri(uri)).contents)

	save := requestContext(t, "textDocument/didSave", map[string]interface{}{
		"textDocument": map[string]interface{}{"uri": uri},
		"text":         "x = 3\n",
	})
	_, _, _, err = router.Handle(save)
	require.NoError(t, err)
	assert.Equal(t, "x = 3\n", session.documents.get(protocol.DocumentUri(uri)).contents)

	closeDoc := requestContext(t, "textDocument/didClose", map[string]interface{}{
		"textDocument": map[string]interface{}{"uri": uri},
	})
	_, _, _, err = router.Handle(closeDoc)
	require.NoError(t, err)

	// After close the store degrades to the placeholder.
	doc := session.documents.get(protocol.DocumentUri(uri))
	assert.Equal(t, int32(1), doc.version)
	assert.Equal(t, "", doc.contents)
}

func TestRouterIgnoresRequestsAfterShutdown(t *testing.T) {
	session := NewSession()
	router := NewRouter(session)

	_, _, _, err := router.Handle(&glsp.Context{Method: "shutdown"})
	require.NoError(t, err)

	uri := "file:///p/late.flux"
	open := requestContext(t, "textDocument/didOpen", map[string]interface{}{
		"textDocument": map[string]interface{}{
			"uri":        uri,
			"languageId": "flux",
			"version":    1,
			"text":       "x = 1\n",
		},
	})
	result, validMethod, validParams, err := router.Handle(open)
	assert.Nil(t, result)
	assert.True(t, validMethod)
	assert.True(t, validParams)
	assert.NoError(t, err)

	// The late open never reached the store.
	_, ok := session.documents.lookup(protocol.DocumentUri(uri))
	assert.False(t, ok)
}
