package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"

	"naturaledit/internal/summary"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS pair_results (
	task_id    TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	error      TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PGSink upserts each processed pair into Postgres, one row per task id.
// Reruns overwrite previous rows; mappings are rebuilt from scratch each run.
type PGSink struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

// NewPGSink opens a Postgres connection with the pgx stdlib driver.
func NewPGSink(dsn string) (*PGSink, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PGSink{db: db}, nil
}

// NewPGSinkFromEnv returns a sink when RESULT_PG_DSN is set, nil otherwise.
func NewPGSinkFromEnv() (*PGSink, error) {
	dsn := strings.TrimSpace(os.Getenv("RESULT_PG_DSN"))
	if dsn == "" {
		return nil, nil
	}
	return NewPGSink(dsn)
}

func (s *PGSink) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, pgSchema)
	})
	return s.schemaErr
}

// Upsert stores one result, replacing any previous row for the task.
func (s *PGSink) Upsert(ctx context.Context, r summary.PairResult) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pair_results (task_id, payload, error, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (task_id) DO UPDATE
		SET payload = EXCLUDED.payload,
		    error = EXCLUDED.error,
		    updated_at = now()`,
		r.TaskID, payload, r.Err)
	return err
}

func (s *PGSink) Close() error { return s.db.Close() }
