package index

import (
	"sync"
	"testing"

	"github.com/indexhouse/mcp-ftindex-server/internal/config"
)

// newTestStore creates a store over a fresh temp root with the given
// observer. A nil observer discards events.
func newTestStore(t *testing.T, observer Observer) *Store {
	t.Helper()
	registry, err := NewRegistry(t.TempDir(), "default")
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	return NewStore(registry, observer, LockOptions{})
}

// newTestService creates a service over a fresh temp root.
func newTestService(t *testing.T, maxResults int) *Service {
	t.Helper()
	settings := &config.IndexSettings{
		BaseDir:    t.TempDir(),
		Tenant:     "default",
		WriteLock:  config.WriteLockNone,
		MaxResults: maxResults,
	}
	svc, err := NewService(settings)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

// countingObserver counts events per kind for assertions.
type countingObserver struct {
	mu            sync.Mutex
	created       int
	indexed       int
	indexFailed   int
	deleted       int
	deleteFailed  int
	lastIndexErr  error
	lastDeleteErr error
}

func (o *countingObserver) IndexCreated(string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.created++
}

func (o *countingObserver) DocumentIndexed(string, int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.indexed++
}

func (o *countingObserver) DocumentIndexFailed(_ string, _ int64, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.indexFailed++
	o.lastIndexErr = err
}

func (o *countingObserver) DocumentDeleted(string, int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deleted++
}

func (o *countingObserver) DocumentDeleteFailed(_ string, _ int64, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deleteFailed++
	o.lastDeleteErr = err
}

func (o *countingObserver) counts() (created, indexed, indexFailed, deleted, deleteFailed int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.created, o.indexed, o.indexFailed, o.deleted, o.deleteFailed
}
