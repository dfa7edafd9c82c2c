// Package jsonfile keeps the audit log as a single JSON array on disk.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage"
	"github.com/DjordjeVuckovic/mcqa-filter/pkg/fileutil"
)

const DefaultPath = "output.json"

type Storer struct {
	path string
	mu   sync.Mutex
}

func NewStorer(path string) *Storer {
	if path == "" {
		path = DefaultPath
	}
	return &Storer{path: path}
}

func (s *Storer) Path() string {
	return s.path
}

// SaveBulk appends entries to the array stored at path. The file is re-read,
// merged and atomically replaced on every call.
func (s *Storer) SaveBulk(ctx context.Context, entries []storage.AuditEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return err
	}
	merged := append(existing, storage.Prepare(entries, time.Now().UTC())...)
	if err := fileutil.WriteJSONAtomic(s.path, merged); err != nil {
		return fmt.Errorf("failed to save audit log: %w", err)
	}

	slog.Debug("Audit log updated", "path", s.path, "added", len(entries), "total", len(merged))
	return nil
}

// Load returns every stored entry. Content that is not a JSON array of
// entries is treated as empty.
func (s *Storer) Load() ([]storage.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// CountRun counts the stored entries carrying runID.
func (s *Storer) CountRun(_ context.Context, runID string) (int, error) {
	entries, err := s.Load()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.RunID == runID {
			n++
		}
	}
	return n, nil
}

func (s *Storer) Close() error {
	return nil
}

func (s *Storer) load() ([]storage.AuditEntry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []storage.AuditEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read audit log %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []storage.AuditEntry{}, nil
	}

	var entries []storage.AuditEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		slog.Warn("Audit log is corrupt, starting from empty", "path", s.path, "error", err)
		return []storage.AuditEntry{}, nil
	}
	if entries == nil {
		entries = []storage.AuditEntry{}
	}
	return entries, nil
}
