package implementation

import (
	"path"
	"sort"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// document is one open file: full contents only, no incremental buffer.
// Versions are monotonic per client.
type document struct {
	uri      protocol.DocumentUri
	version  int32
	contents string
}

// documentStore holds the open documents, keyed by uri. All operations
// serialize through one mutex; critical sections are pure in-memory.
type documentStore struct {
	mu        sync.Mutex
	documents map[protocol.DocumentUri]*document
}

func newDocumentStore() *documentStore {
	return &documentStore{documents: make(map[protocol.DocumentUri]*document)}
}

// lookup returns a copy of the document for uri, reporting whether it is
// held at all.
func (s *documentStore) lookup(uri protocol.DocumentUri) (*document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.documents[uri]; ok {
		dup := *doc
		return &dup, true
	}
	return nil, false
}

// get returns the document for uri. An unknown uri yields a placeholder
// {version: 1, contents: ""} rather than an error.
func (s *documentStore) get(uri protocol.DocumentUri) *document {
	if doc, ok := s.lookup(uri); ok {
		return doc
	}
	return &document{uri: uri, version: 1}
}

// set stores contents at version unless a newer version is already held.
// A tie re-applies the contents; the "<=" comparison is deliberate and
// treated as idempotent re-application.
func (s *documentStore) set(uri protocol.DocumentUri, version int32, contents string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.documents[uri]; ok && doc.version > version {
		log.Debugf("stale update for %s: version %d > %d", uri, doc.version, version)
		return
	}
	s.documents[uri] = &document{uri: uri, version: version, contents: contents}
}

// force stores contents unconditionally.
func (s *documentStore) force(uri protocol.DocumentUri, version int32, contents string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[uri] = &document{uri: uri, version: version, contents: contents}
}

// remove drops uri from the store. Removing an unknown uri is a no-op.
func (s *documentStore) remove(uri protocol.DocumentUri) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, uri)
}

// keys returns every stored uri in stable order.
func (s *documentStore) keys() []protocol.DocumentUri {
	s.mu.Lock()
	defer s.mu.Unlock()
	uris := make([]protocol.DocumentUri, 0, len(s.documents))
	for uri := range s.documents {
		uris = append(uris, uri)
	}
	sort.Slice(uris, func(i, j int) bool { return uris[i] < uris[j] })
	return uris
}

// getPackage returns the documents grouped with uri: with multiFile set,
// every stored document sharing uri's parent path; otherwise just get(uri).
func (s *documentStore) getPackage(uri protocol.DocumentUri, multiFile bool) []*document {
	if !multiFile {
		return []*document{s.get(uri)}
	}
	parent := parentPath(uri)
	var docs []*document
	for _, key := range s.keys() {
		if parentPath(key) != parent {
			continue
		}
		// A sibling may be closed between the key scan and this lookup.
		doc, ok := s.lookup(key)
		if !ok {
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

func parentPath(uri protocol.DocumentUri) string {
	return path.Dir(string(uri))
}
