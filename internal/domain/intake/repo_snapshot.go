package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// snapshotVersion is written into every snapshot so a future format change
// can detect and migrate old files.
const snapshotVersion = 1

type snapshot struct {
	Version int       `json:"version"`
	Records []*Record `json:"records"`
}

// SnapshotRepo keeps the full record sequence in memory and mirrors it to a
// single JSON file. Every append rewrites the whole snapshot. A failed write
// is logged but does not roll back the in-memory append: for the rest of the
// session the in-memory sequence stays authoritative. This is a demo-grade
// durability tradeoff, not suitable where writes must not be lost.
type SnapshotRepo struct {
	mu      sync.RWMutex
	path    string
	records []*Record
	logger  zerolog.Logger
}

// NewSnapshotRepo loads the snapshot at path if one exists. A missing file
// yields an empty store; a corrupt file yields an empty store and a logged
// warning. Neither case is an error: startup never fails on a bad snapshot.
func NewSnapshotRepo(path string, logger zerolog.Logger) *SnapshotRepo {
	r := &SnapshotRepo{path: path, logger: logger}
	r.records = r.load()
	return r
}

func (r *SnapshotRepo) load() []*Record {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn().Err(err).Str("path", r.path).Msg("snapshot unreadable, starting with empty store")
		}
		return nil
	}
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		r.logger.Warn().Err(err).Str("path", r.path).Msg("snapshot corrupt, starting with empty store")
		return nil
	}
	return s.Records
}

// Append adds the record to the in-memory sequence and persists the whole
// updated sequence. Persistence failure is reported via the log only.
func (r *SnapshotRepo) Append(_ context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	if err := r.persist(); err != nil {
		r.logger.Error().Err(err).Str("path", r.path).Msg("snapshot write failed, in-memory store remains authoritative")
	}
	return nil
}

// persist writes the snapshot atomically via a temp file and rename.
func (r *SnapshotRepo) persist() error {
	data, err := json.Marshal(snapshot{Version: snapshotVersion, Records: r.records})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// List returns a copy of the full sequence in submission order.
func (r *SnapshotRepo) List(_ context.Context) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Record, len(r.records))
	copy(out, r.records)
	return out, nil
}
