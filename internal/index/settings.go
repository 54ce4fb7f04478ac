package index

import (
	"encoding/json"
	"os"
	"time"
)

// SettingsVersion is the current settings record schema version.
const SettingsVersion = 1

// EpochFloor is the lowest value the last-indexed timestamp can take.
// Reads of an absent record return it and writes of earlier values are
// clamped up to it.
var EpochFloor = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// settingsRecord is the persisted per-index settings document. The shape
// is a key/value JSON object so new keys can be added without breaking
// older readers; one key is recognized today.
type settingsRecord struct {
	Version        int       `json:"version"`
	LastIndexedUtc time.Time `json:"lastIndexedUtc"`
}

// SettingsStore persists small per-index bookkeeping records, durable
// independently of the index segment files.
type SettingsStore struct {
	registry *Registry
}

// NewSettingsStore creates a settings store resolving record paths through
// the given registry.
func NewSettingsStore(registry *Registry) *SettingsStore {
	return &SettingsStore{registry: registry}
}

// GetLastIndexedUtc reads the last-indexed timestamp for an index. An
// absent record, or a recorded value earlier than the floor, yields the
// epoch floor.
func (s *SettingsStore) GetLastIndexedUtc(name string) (time.Time, error) {
	data, err := os.ReadFile(s.registry.SettingsPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return EpochFloor, nil
		}
		return EpochFloor, storagef("read settings for %q: %v", name, err)
	}

	var record settingsRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return EpochFloor, storagef("parse settings for %q: %v", name, err)
	}

	if record.LastIndexedUtc.Before(EpochFloor) {
		return EpochFloor, nil
	}
	return record.LastIndexedUtc.UTC(), nil
}

// SetLastIndexedUtc persists the last-indexed timestamp for an index,
// clamping values earlier than the epoch floor up to the floor. The first
// write creates the record and the resolver root if missing.
func (s *SettingsStore) SetLastIndexedUtc(name string, t time.Time) error {
	if err := s.registry.EnsureRoot(); err != nil {
		return err
	}

	if t.Before(EpochFloor) {
		t = EpochFloor
	}

	record := settingsRecord{
		Version:        SettingsVersion,
		LastIndexedUtc: t.UTC(),
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return storagef("marshal settings for %q: %v", name, err)
	}

	// Write-to-temp plus rename keeps a crash from leaving a torn record.
	path := s.registry.SettingsPath(name)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return storagef("write settings for %q: %v", name, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return storagef("rename settings for %q: %v", name, err)
	}
	return nil
}
