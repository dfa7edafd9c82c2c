package storage

import (
	"context"
	"time"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/verdict"
	"github.com/google/uuid"
)

// AuditEntry is the record kept for every rejected question.
type AuditEntry struct {
	ID              uuid.UUID         `json:"id"`
	RunID           string            `json:"run_id"`
	QuestionIndex   int               `json:"question_index"`
	QuestionPreview string            `json:"question_preview"`
	Errors          []verdict.Finding `json:"errors"`
	Score           float64           `json:"score"`
	Outcome         string            `json:"outcome"`
	Reasons         []string          `json:"reasons"`
	CreatedAt       time.Time         `json:"created_at"`
}

// AuditStore persists audit entries. SaveBulk must either store the whole
// batch or return an error.
type AuditStore interface {
	SaveBulk(ctx context.Context, entries []AuditEntry) error
	Close() error
}

// RunCounter is implemented by stores that can count the entries recorded
// under a run ID.
type RunCounter interface {
	CountRun(ctx context.Context, runID string) (int, error)
}

// Prepare fills ID, CreatedAt and nil slices so every backend stores the same
// shape.
func Prepare(entries []AuditEntry, now time.Time) []AuditEntry {
	out := make([]AuditEntry, len(entries))
	for i, e := range entries {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		if e.Errors == nil {
			e.Errors = []verdict.Finding{}
		}
		if e.Reasons == nil {
			e.Reasons = []string{}
		}
		out[i] = e
	}
	return out
}

type Type string

const (
	JSON   Type = "json"
	PG     Type = "pg"
	ES     Type = "es"
	SQLite Type = "sqlite"
	InMem  Type = "in_mem"
)

func Types() []Type {
	return []Type{JSON, PG, ES, SQLite, InMem}
}

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported audit storage type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}
