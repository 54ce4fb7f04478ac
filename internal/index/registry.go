package index

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// IndexSuffix is the suffix for index segment directories.
	IndexSuffix = ".bleve"

	// SettingsSuffix is the suffix for the sibling settings record.
	SettingsSuffix = ".settings.json"

	// LockSuffix is the suffix for the sibling advisory lock file.
	LockSuffix = ".lock"

	// indexesSubdir holds all index directories and their sidecar files
	// under the tenant root.
	indexesSubdir = "indexes"
)

// Registry maps logical index names to physical storage locations under a
// tenant-scoped root. Path resolution is deterministic and pure; the only
// side effect the registry performs is the idempotent creation of the root.
type Registry struct {
	root string
}

// NewRegistry resolves the tenant root under baseDir and ensures it exists.
func NewRegistry(baseDir, tenant string) (*Registry, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory cannot be empty")
	}
	r := &Registry{root: filepath.Join(baseDir, tenant)}
	if err := r.EnsureRoot(); err != nil {
		return nil, err
	}
	return r, nil
}

// EnsureRoot creates the tenant root and its indexes directory. Safe to
// call repeatedly.
func (r *Registry) EnsureRoot() error {
	if err := os.MkdirAll(filepath.Join(r.root, indexesSubdir), 0755); err != nil {
		return storagef("create root %s: %v", r.root, err)
	}
	return nil
}

// Root returns the resolved tenant root directory.
func (r *Registry) Root() string {
	return r.root
}

// IndexPath returns the segment directory for a named index.
func (r *Registry) IndexPath(name string) string {
	return filepath.Join(r.root, indexesSubdir, name+IndexSuffix)
}

// SettingsPath returns the settings record path for a named index. The
// record lives alongside the segment directory, not inside it, so it
// survives index deletion and recreation independently.
func (r *Registry) SettingsPath(name string) string {
	return filepath.Join(r.root, indexesSubdir, name+SettingsSuffix)
}

// LockPath returns the advisory lock file path for a named index.
func (r *Registry) LockPath(name string) string {
	return filepath.Join(r.root, indexesSubdir, name+LockSuffix)
}

// ListIndexes enumerates the names of all indexes that physically exist
// under the root, sorted.
func (r *Registry) ListIndexes() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.root, indexesSubdir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, storagef("list indexes: %v", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasSuffix(entry.Name(), IndexSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), IndexSuffix))
	}
	sort.Strings(names)
	return names, nil
}

// ValidateIndexName rejects names that would escape the indexes directory
// or collide with sidecar files.
func ValidateIndexName(name string) error {
	if name == "" {
		return fmt.Errorf("index name cannot be empty")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("invalid index name %q", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("index name %q must not contain path separators", name)
	}
	return nil
}
