// Package sqlite stores audit entries in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/verdict"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const DefaultPath = "audit.db"

const schema = `
CREATE TABLE IF NOT EXISTS filtered_questions (
	id               TEXT PRIMARY KEY,
	run_id           TEXT NOT NULL,
	question_index   INTEGER NOT NULL,
	question_preview TEXT NOT NULL,
	errors_json      TEXT NOT NULL,
	score            REAL NOT NULL,
	outcome          TEXT NOT NULL,
	reasons_json     TEXT NOT NULL,
	created_at       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_filtered_questions_run ON filtered_questions (run_id, question_index);
`

type Storer struct {
	db *sql.DB
}

// NewStorer opens the database at path and creates the schema.
func NewStorer(path string) (*Storer, error) {
	if path == "" {
		path = DefaultPath
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Storer{db: db}, nil
}

func (s *Storer) SaveBulk(ctx context.Context, entries []storage.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO filtered_questions
		 (id, run_id, question_index, question_preview, errors_json, score, outcome, reasons_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range storage.Prepare(entries, time.Now().UTC()) {
		errorsJSON, err := json.Marshal(e.Errors)
		if err != nil {
			return fmt.Errorf("marshal errors: %w", err)
		}
		reasonsJSON, err := json.Marshal(e.Reasons)
		if err != nil {
			return fmt.Errorf("marshal reasons: %w", err)
		}

		_, err = stmt.ExecContext(ctx,
			e.ID.String(),
			e.RunID,
			e.QuestionIndex,
			e.QuestionPreview,
			string(errorsJSON),
			e.Score,
			e.Outcome,
			string(reasonsJSON),
			e.CreatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert question %d: %w", e.QuestionIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// CountRun returns how many entries a run has stored.
func (s *Storer) CountRun(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM filtered_questions WHERE run_id = ?`, runID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// listByRun returns the entries of a run ordered by question index.
func (s *Storer) listByRun(ctx context.Context, runID string) ([]storage.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, question_index, question_preview, errors_json, score, outcome, reasons_json, created_at
		 FROM filtered_questions WHERE run_id = ? ORDER BY question_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var out []storage.AuditEntry
	for rows.Next() {
		var (
			e                       storage.AuditEntry
			id, errorsJSON, reasons string
			createdAt               string
		)
		if err := rows.Scan(&id, &e.RunID, &e.QuestionIndex, &e.QuestionPreview, &errorsJSON, &e.Score, &e.Outcome, &reasons, &createdAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse id: %w", err)
		}
		e.Errors = []verdict.Finding{}
		if err := json.Unmarshal([]byte(errorsJSON), &e.Errors); err != nil {
			return nil, fmt.Errorf("unmarshal errors: %w", err)
		}
		if err := json.Unmarshal([]byte(reasons), &e.Reasons); err != nil {
			return nil, fmt.Errorf("unmarshal reasons: %w", err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Storer) Close() error {
	return s.db.Close()
}
