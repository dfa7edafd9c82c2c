package in_mem

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage"
)

type InMemStorer struct {
	storageLock sync.RWMutex
	entries     []storage.AuditEntry
}

func NewInMemStorer() *InMemStorer {
	return &InMemStorer{
		entries: make([]storage.AuditEntry, 0),
	}
}

func (s *InMemStorer) SaveBulk(ctx context.Context, entries []storage.AuditEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	prepared := storage.Prepare(entries, time.Now().UTC())

	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	s.entries = append(s.entries, prepared...)

	slog.Debug("Saved audit entries in memory", "count", len(prepared), "total", len(s.entries))
	return nil
}

// Entries returns a copy of everything stored so far.
func (s *InMemStorer) Entries() []storage.AuditEntry {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	out := make([]storage.AuditEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *InMemStorer) CountRun(_ context.Context, runID string) (int, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	n := 0
	for _, e := range s.entries {
		if e.RunID == runID {
			n++
		}
	}
	return n, nil
}

func (s *InMemStorer) Close() error {
	return nil
}
