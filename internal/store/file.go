package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Joonasjoonasjoonas/target-watcher/internal/logger"
)

// stateDoc is the on-disk shape: {"seen_request_ids": {"<id>": true, ...}}.
type stateDoc struct {
	SeenRequestIDs map[string]bool `json:"seen_request_ids"`
}

// FileStore keeps the seen set in a human-formatted JSON file. Writes fully
// overwrite the file; a crash mid-write can truncate it, which the next run
// treats as empty state. That matches the at-least-once notification
// tolerance of the system.
type FileStore struct {
	path string
	log  logger.Logger
}

func NewFileStore(path string, log logger.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Load reads the state file. Missing, unreadable or corrupt files yield an
// empty set rather than failing the run.
func (f *FileStore) Load(ctx context.Context) *SeenSet {
	set := NewSeenSet()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.log.Warn("state file unreadable, starting from empty state",
				logger.String("path", f.path), logger.Error(err))
		}
		return set
	}

	var doc stateDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		f.log.Warn("state file corrupt, starting from empty state",
			logger.String("path", f.path), logger.Error(err))
		return set
	}

	for id, ok := range doc.SeenRequestIDs {
		if ok {
			set.Add(id)
		}
	}
	return set
}

// Save trims the set per the eviction policy and rewrites the whole file.
func (f *FileStore) Save(ctx context.Context, set *SeenSet) error {
	if evicted := set.Trim(); evicted > 0 {
		f.log.Info("evicted oldest seen entries",
			logger.Int("evicted", evicted), logger.Int("remaining", set.Len()))
	}

	data, err := json.MarshalIndent(stateDoc{SeenRequestIDs: set.IDs()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", f.path, err)
	}
	return nil
}
