package index

// Snapshot defines the operations on an exported catalog snapshot. Export
// writes through it; the snapshot commands read through it.
type Snapshot interface {
	ReplaceAll(rows []ManuscriptRow) error
	Get(slug string) (*ManuscriptRow, error)
	List() ([]ManuscriptRow, error)
	Count() (int, error)
	AllChecksums() (map[string]string, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies Snapshot at compile time.
var _ Snapshot = (*DB)(nil)
