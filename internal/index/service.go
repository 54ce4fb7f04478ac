package index

import (
	"fmt"
	"time"

	"github.com/indexhouse/mcp-ftindex-server/internal/config"
)

// Service wires the index store, the settings store and the path registry
// together from configuration. It holds no open index handles; every store
// operation opens and releases its own.
type Service struct {
	settings *config.IndexSettings
	registry *Registry
	store    *Store
	sidecar  *SettingsStore
}

// NewService creates the index service, resolving and creating the tenant
// root directory.
func NewService(settings *config.IndexSettings) (*Service, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}

	registry, err := NewRegistry(settings.BaseDir, settings.Tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve index root: %w", err)
	}

	store := NewStore(registry, NewSlogObserver(nil), LockOptions{
		Mode:    LockMode(settings.WriteLock),
		Timeout: settings.LockTimeout,
	})

	return &Service{
		settings: settings,
		registry: registry,
		store:    store,
		sidecar:  NewSettingsStore(registry),
	}, nil
}

// Store returns the index store.
func (s *Service) Store() *Store {
	return s.store
}

// Registry returns the path resolver.
func (s *Service) Registry() *Registry {
	return s.registry
}

// SettingsStore returns the per-index settings store.
func (s *Service) SettingsStore() *SettingsStore {
	return s.sidecar
}

// MaxResults returns the configured result cap for search surfaces.
func (s *Service) MaxResults() int {
	return s.settings.MaxResults
}

// IndexStats summarizes one index for the admin surfaces.
type IndexStats struct {
	Name           string
	Exists         bool
	NumDocs        int
	Fields         []string
	LastIndexedUtc time.Time
}

// Stats collects the stats snapshot for a named index. Absent indexes
// report the empty state rather than an error.
func (s *Service) Stats(name string) (IndexStats, error) {
	stats := IndexStats{Name: name, Exists: s.store.Exists(name)}

	if stats.Exists {
		numDocs, err := s.store.NumDocs(name)
		if err != nil {
			return stats, err
		}
		stats.NumDocs = numDocs

		fields, err := s.store.GetFields(name)
		if err != nil {
			return stats, err
		}
		stats.Fields = fields
	}

	lastIndexed, err := s.sidecar.GetLastIndexedUtc(name)
	if err != nil {
		return stats, err
	}
	stats.LastIndexedUtc = lastIndexed

	return stats, nil
}
