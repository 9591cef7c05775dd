package index

// DocumentIndex defines the interface for document indexing operations.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type DocumentIndex interface {
	UpsertDocument(d DocRow, anns []AnnRow, searchText string) error
	DeleteDocument(path string) error
	GetChecksum(path string) (string, error)
	GetDocument(path string) (*DocRow, error)
	ListDocuments(limit, offset int, ns, sort string) ([]DocRow, int, error)
	Search(query string, limit int) ([]SearchResult, error)
	NamespaceStats() ([]NamespaceStat, error)
	DocumentsByNamespace(ns string) ([]string, error)
	AllPaths() (map[string]struct{}, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies DocumentIndex at compile time.
var _ DocumentIndex = (*DB)(nil)
