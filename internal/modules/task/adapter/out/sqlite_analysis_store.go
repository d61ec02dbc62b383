package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"jarvis/internal/modules/task/domain"
	taskout "jarvis/internal/modules/task/port/out"
	apperrors "jarvis/internal/platform/errors"
	"jarvis/internal/platform/sqlite"
	"jarvis/internal/platform/tx"
)

// SQLiteAnalysisStore appends analyses; rows are never updated.
type SQLiteAnalysisStore struct {
	db *sql.DB
}

// NewSQLiteAnalysisStore expects the tasks table to exist already.
func NewSQLiteAnalysisStore(db *sql.DB) (taskout.AnalysisStore, error) {
	store := &SQLiteAnalysisStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteAnalysisStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS analyses (
  id TEXT PRIMARY KEY,
  task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
  timing TEXT NOT NULL,
  prep_steps TEXT NOT NULL,
  success_criteria TEXT NOT NULL,
  duration_minutes INTEGER NOT NULL,
  result_text TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS analyses_task_id ON analyses (task_id, created_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("%w: create analyses table: %w", apperrors.ErrStorage, err)
	}
	return nil
}

func (s *SQLiteAnalysisStore) Save(ctx context.Context, a domain.Analysis) error {
	prep, err := json.Marshal(a.PrepSteps)
	if err != nil {
		return fmt.Errorf("%w: marshal prep steps: %w", apperrors.ErrStorage, err)
	}
	criteria, err := json.Marshal(a.SuccessCriteria)
	if err != nil {
		return fmt.Errorf("%w: marshal success criteria: %w", apperrors.ErrStorage, err)
	}
	const stmt = `
INSERT INTO analyses (id, task_id, timing, prep_steps, success_criteria, duration_minutes, result_text, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.Executor(ctx, s.db).ExecContext(ctx, stmt,
		a.ID,
		a.TaskID,
		a.Timing,
		string(prep),
		string(criteria),
		a.DurationMinutes,
		a.RawText,
		sqlite.FormatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("%w: save analysis: %w", apperrors.ErrStorage, err)
	}
	return nil
}

func (s *SQLiteAnalysisStore) ListByTask(ctx context.Context, taskID string) ([]domain.Analysis, error) {
	const query = `
SELECT id, task_id, timing, prep_steps, success_criteria, duration_minutes, result_text, created_at
FROM analyses
WHERE task_id = ?
ORDER BY created_at DESC, id DESC`
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("%w: query analyses: %w", apperrors.ErrStorage, err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Analysis
	for rows.Next() {
		var (
			a         domain.Analysis
			prep      string
			criteria  string
			createdAt string
		)
		if err := rows.Scan(&a.ID, &a.TaskID, &a.Timing, &prep, &criteria, &a.DurationMinutes, &a.RawText, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scan analysis: %w", apperrors.ErrStorage, err)
		}
		if err := json.Unmarshal([]byte(prep), &a.PrepSteps); err != nil {
			return nil, fmt.Errorf("%w: decode prep steps %s: %w", apperrors.ErrStorage, a.ID, err)
		}
		if err := json.Unmarshal([]byte(criteria), &a.SuccessCriteria); err != nil {
			return nil, fmt.Errorf("%w: decode success criteria %s: %w", apperrors.ErrStorage, a.ID, err)
		}
		if a.CreatedAt, err = sqlite.ParseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate analyses: %w", apperrors.ErrStorage, err)
	}
	return out, nil
}
