package pg

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage"
	"github.com/jackc/pgx/v5"
)

const auditTable = "filtered_questions"

const schema = `
CREATE TABLE IF NOT EXISTS filtered_questions (
	id               UUID PRIMARY KEY,
	run_id           TEXT NOT NULL,
	question_index   INTEGER NOT NULL,
	question_preview TEXT NOT NULL,
	errors           JSONB NOT NULL DEFAULT '[]'::jsonb,
	score            DOUBLE PRECISION NOT NULL,
	outcome          TEXT NOT NULL,
	reasons          TEXT[] NOT NULL DEFAULT '{}',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_filtered_questions_run ON filtered_questions (run_id, question_index);
`

var auditColumns = []string{
	"id", "run_id", "question_index", "question_preview", "errors", "score", "outcome", "reasons", "created_at",
}

// Storer writes audit entries to PostgreSQL using COPY.
type Storer struct {
	pool *ConnectionPool
}

// NewStorer creates the audit table when it is missing.
func NewStorer(ctx context.Context, pool *ConnectionPool) (*Storer, error) {
	if _, err := pool.conn.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create audit schema: %w", err)
	}
	return &Storer{pool: pool}, nil
}

func (s *Storer) SaveBulk(ctx context.Context, entries []storage.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}

	prepared := storage.Prepare(entries, time.Now().UTC())
	rows := make([][]interface{}, len(prepared))

	for i, e := range prepared {
		errorsJSON, err := json.Marshal(e.Errors)
		if err != nil {
			return fmt.Errorf("failed to marshal errors for question %d: %w", e.QuestionIndex, err)
		}

		rows[i] = []interface{}{
			e.ID,
			e.RunID,
			e.QuestionIndex,
			e.QuestionPreview,
			errorsJSON,
			e.Score,
			e.Outcome,
			e.Reasons,
			e.CreatedAt,
		}
	}

	n, err := s.pool.conn.CopyFrom(
		ctx,
		pgx.Identifier{auditTable},
		auditColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk insert audit entries: %w", err)
	}

	slog.Debug("Audit entries copied", "table", auditTable, "rows", n)
	return nil
}

// CountRun returns how many entries a run has stored.
func (s *Storer) CountRun(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.pool.conn.QueryRow(ctx,
		`SELECT count(*) FROM filtered_questions WHERE run_id = $1`, runID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}
	return n, nil
}

func (s *Storer) Close() error {
	s.pool.Close()
	return nil
}

// Healthy lets the storer back the API health endpoint.
func (s *Storer) Healthy(ctx context.Context) bool {
	return NewHealthChecker(s.pool).Healthy(ctx)
}
