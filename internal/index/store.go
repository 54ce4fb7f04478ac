package index

import (
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"

	"github.com/indexhouse/mcp-ftindex-server/internal/domain"
)

// LockMode selects the advisory write-lock discipline for an index store.
type LockMode string

const (
	// LockNone relies on the underlying segment store's single-writer
	// discipline, matching the original behavior. Concurrent writers for
	// the same index name are a documented hazard in this mode.
	LockNone LockMode = "none"

	// LockProcess serializes writers for the same index name within this
	// process.
	LockProcess LockMode = "process"

	// LockFlock serializes writers across processes using an flock(2)
	// sibling file per index.
	LockFlock LockMode = "flock"
)

const (
	// MaxBatchSize is the number of pending documents flushed per batch.
	MaxBatchSize = 100

	// DefaultLockTimeout bounds flock acquisition on the write path.
	DefaultLockTimeout = 30 * time.Second
)

// LockOptions configures the store's advisory write locking. Read
// operations never take the write lock regardless of mode.
type LockOptions struct {
	Mode    LockMode
	Timeout time.Duration
}

// Store manages named inverted-index stores under a tenant-scoped root.
// Every operation resolves the physical location by name, opens a handle,
// and releases it before returning; no index state is retained across
// calls beyond the shared analyzer and builder.
type Store struct {
	registry *Registry
	builder  *DocumentBuilder
	analyzer *Analyzer
	observer Observer
	lock     LockOptions

	mu         sync.Mutex
	writeLocks map[string]*sync.Mutex
}

// NewStore creates an index store. A nil observer discards events.
func NewStore(registry *Registry, observer Observer, lock LockOptions) *Store {
	if observer == nil {
		observer = NopObserver{}
	}
	if lock.Mode == "" {
		lock.Mode = LockNone
	}
	if lock.Timeout <= 0 {
		lock.Timeout = DefaultLockTimeout
	}
	analyzer := NewAnalyzer()
	return &Store{
		registry:   registry,
		builder:    NewDocumentBuilder(analyzer),
		analyzer:   analyzer,
		observer:   observer,
		lock:       lock,
		writeLocks: make(map[string]*sync.Mutex),
	}
}

// Analyzer returns the analyzer shared by indexing and query parsing.
func (s *Store) Analyzer() *Analyzer {
	return s.analyzer
}

// Registry returns the path resolver backing this store.
func (s *Store) Registry() *Registry {
	return s.registry
}

// Exists reports whether the physical directory for name exists. No side
// effects.
func (s *Store) Exists(name string) bool {
	if ValidateIndexName(name) != nil {
		return false
	}
	_, err := os.Stat(s.registry.IndexPath(name))
	return err == nil
}

// NumDocs returns the live document count, or 0 for an absent index. The
// read handle is released on every exit path.
func (s *Store) NumDocs(name string) (count int, err error) {
	if !s.Exists(name) {
		return 0, nil
	}

	idx, err := s.openRead(name)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := idx.Close(); cerr != nil && err == nil {
			err = storagef("close index %q: %v", name, cerr)
		}
	}()

	n, err := idx.DocCount()
	if err != nil {
		return 0, storagef("count documents in %q: %v", name, err)
	}
	return int(n), nil
}

// IsEmpty reports whether the index is absent or holds zero live documents.
func (s *Store) IsEmpty(name string) (bool, error) {
	n, err := s.NumDocs(name)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// GetFields enumerates the names of all fields ever indexed across live
// documents, deduplicated and sorted. An absent index yields an empty set.
func (s *Store) GetFields(name string) (fields []string, err error) {
	if !s.Exists(name) {
		return nil, nil
	}

	idx, err := s.openRead(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := idx.Close(); cerr != nil && err == nil {
			err = storagef("close index %q: %v", name, cerr)
		}
	}()

	raw, err := idx.Fields()
	if err != nil {
		return nil, storagef("enumerate fields of %q: %v", name, err)
	}
	for _, f := range raw {
		// Internal engine fields are not part of the document schema.
		if strings.HasPrefix(f, "_") {
			continue
		}
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields, nil
}

// CreateIndex creates the physical segment store for name, truncating any
// existing one. It opens a write handle in create mode and closes it
// immediately, establishing an empty, valid index.
func (s *Store) CreateIndex(name string) (err error) {
	if err := ValidateIndexName(name); err != nil {
		return err
	}
	if err := s.registry.EnsureRoot(); err != nil {
		return err
	}

	release, err := s.acquireWrite(name)
	if err != nil {
		return err
	}
	defer release()

	path := s.registry.IndexPath(name)
	if _, statErr := os.Stat(path); statErr == nil {
		if err := os.RemoveAll(path); err != nil {
			return storagef("truncate index %q: %v", name, err)
		}
	}

	idx, err := bleve.New(path, NewIndexMapping())
	if err != nil {
		return storagef("create index %q: %v", name, err)
	}
	if err := idx.Close(); err != nil {
		return storagef("close new index %q: %v", name, err)
	}

	s.observer.IndexCreated(name)
	return nil
}

// DeleteIndex removes the segment directory, the sibling settings record
// and the lock file. Deleting an absent index is not an error.
func (s *Store) DeleteIndex(name string) error {
	if err := ValidateIndexName(name); err != nil {
		return err
	}

	if err := os.RemoveAll(s.registry.IndexPath(name)); err != nil {
		return storagef("delete index %q: %v", name, err)
	}
	for _, sidecar := range []string{s.registry.SettingsPath(name), s.registry.LockPath(name)} {
		if err := os.Remove(sidecar); err != nil && !os.IsNotExist(err) {
			return storagef("delete sidecar %s: %v", sidecar, err)
		}
	}
	return nil
}

// Store appends documents to an existing index. An empty batch is a no-op
// that opens no handle and fires no events. Each document is finalized by
// the builder and appended; successes and failures are reported through
// the observer. The first failing document stops the batch — documents
// after it are not attempted — but the writer is still released exactly
// once. This fail-fast policy is deliberate and differs from Delete's
// per-item isolation.
func (s *Store) Store(name string, docs []domain.IndexDocument) (err error) {
	if len(docs) == 0 {
		return nil
	}
	if err := ValidateIndexName(name); err != nil {
		return err
	}

	release, err := s.acquireWrite(name)
	if err != nil {
		return err
	}
	defer release()

	idx, err := s.openWrite(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := idx.Close(); cerr != nil && err == nil {
			err = storagef("close index %q: %v", name, cerr)
		}
	}()

	batch := idx.NewBatch()
	var pending []int64

	commit := func() bool {
		if len(pending) == 0 {
			return true
		}
		if berr := idx.Batch(batch); berr != nil {
			for _, id := range pending {
				s.observer.DocumentIndexFailed(name, id, berr)
			}
			return false
		}
		for _, id := range pending {
			s.observer.DocumentIndexed(name, id)
		}
		pending = pending[:0]
		batch = idx.NewBatch()
		return true
	}

	for _, doc := range docs {
		engineDoc, buildErr := s.builder.Build(doc)
		if buildErr != nil {
			s.observer.DocumentIndexFailed(name, doc.DocumentID, buildErr)
			break
		}
		if addErr := batch.IndexAdvanced(engineDoc); addErr != nil {
			s.observer.DocumentIndexFailed(name, doc.DocumentID, addErr)
			break
		}
		pending = append(pending, doc.DocumentID)

		if len(pending) >= MaxBatchSize {
			if !commit() {
				return nil
			}
		}
	}

	commit()
	return nil
}

// Delete removes documents by external identifier. An empty batch is a
// no-op. One write-capable handle serves the whole batch and is released
// exactly once; each id's failure is caught, reported through the observer
// and does not stop the remaining ids. Deleting from an absent index, or
// deleting an unknown id, is a silent no-op.
func (s *Store) Delete(name string, documentIDs []int64) (err error) {
	if len(documentIDs) == 0 {
		return nil
	}
	if err := ValidateIndexName(name); err != nil {
		return err
	}
	if !s.Exists(name) {
		return nil
	}

	release, err := s.acquireWrite(name)
	if err != nil {
		return err
	}
	defer release()

	idx, err := s.openWrite(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := idx.Close(); cerr != nil && err == nil {
			err = storagef("close index %q: %v", name, cerr)
		}
	}()

	for _, id := range documentIDs {
		if derr := idx.Delete(strconv.FormatInt(id, 10)); derr != nil {
			s.observer.DocumentDeleteFailed(name, id, derr)
			continue
		}
		s.observer.DocumentDeleted(name, id)
	}
	return nil
}

// openRead opens an existing index for reading. The handle sees a
// consistent snapshot at acquisition time; hold it briefly, the segment
// store admits one open handle per path at a time.
func (s *Store) openRead(name string) (bleve.Index, error) {
	idx, err := bleve.Open(s.registry.IndexPath(name))
	if err != nil {
		return nil, storagef("open index %q: %v", name, err)
	}
	return idx, nil
}

// openWrite opens an existing index in append mode. The index must already
// have been created.
func (s *Store) openWrite(name string) (bleve.Index, error) {
	idx, err := bleve.Open(s.registry.IndexPath(name))
	if err != nil {
		return nil, storagef("open index %q for append: %v", name, err)
	}
	return idx, nil
}

// acquireWrite takes the advisory write lock for name according to the
// configured mode and returns its release function. Read operations never
// call it.
func (s *Store) acquireWrite(name string) (release func(), err error) {
	switch s.lock.Mode {
	case LockProcess:
		mu := s.processLock(name)
		mu.Lock()
		return mu.Unlock, nil
	case LockFlock:
		fl := NewFileLock(s.registry.LockPath(name))
		if err := fl.Lock(s.lock.Timeout); err != nil {
			return nil, err
		}
		return func() { _ = fl.Unlock() }, nil
	default:
		return func() {}, nil
	}
}

func (s *Store) processLock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := s.writeLocks[name]
	if !ok {
		mu = &sync.Mutex{}
		s.writeLocks[name] = mu
	}
	return mu
}
