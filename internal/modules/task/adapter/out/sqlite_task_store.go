package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jarvis/internal/modules/task/domain"
	taskout "jarvis/internal/modules/task/port/out"
	apperrors "jarvis/internal/platform/errors"
	"jarvis/internal/platform/sqlite"
	"jarvis/internal/platform/tx"
)

type SQLiteTaskStore struct {
	db *sql.DB
}

func NewSQLiteTaskStore(db *sql.DB) (taskout.TaskStore, error) {
	store := &SQLiteTaskStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteTaskStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
  id TEXT PRIMARY KEY,
  description TEXT NOT NULL,
  metadata TEXT NOT NULL DEFAULT '{}',
  status TEXT NOT NULL DEFAULT 'pending',
  actual_minutes INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  completed_at TEXT
);
CREATE INDEX IF NOT EXISTS tasks_created_at ON tasks (created_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("%w: create tasks table: %w", apperrors.ErrStorage, err)
	}
	return nil
}

func (s *SQLiteTaskStore) Save(ctx context.Context, task domain.Task) error {
	meta, err := json.Marshal(task.Metadata)
	if err != nil {
		return fmt.Errorf("%w: marshal task metadata: %w", apperrors.ErrStorage, err)
	}
	const stmt = `
INSERT INTO tasks (id, description, metadata, status, actual_minutes, created_at, completed_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  description=excluded.description,
  metadata=excluded.metadata,
  status=excluded.status,
  actual_minutes=excluded.actual_minutes,
  completed_at=excluded.completed_at;
`
	_, err = tx.Executor(ctx, s.db).ExecContext(ctx, stmt,
		task.ID,
		task.Description,
		string(meta),
		string(task.Status),
		task.ActualMinutes,
		sqlite.FormatTime(task.CreatedAt),
		nullableTime(task.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("%w: save task: %w", apperrors.ErrStorage, err)
	}
	return nil
}

const taskColumns = `id, description, metadata, status, actual_minutes, created_at, completed_at`

func (s *SQLiteTaskStore) FindByID(ctx context.Context, id string) (domain.Task, error) {
	row := tx.Executor(ctx, s.db).QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, fmt.Errorf("task %s: %w", id, apperrors.ErrNotFound)
	}
	return task, err
}

func (s *SQLiteTaskStore) Recent(ctx context.Context, limit int, status domain.Status) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query tasks: %w", apperrors.ErrStorage, err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate tasks: %w", apperrors.ErrStorage, err)
	}
	return out, nil
}

func (s *SQLiteTaskStore) MarkCompleted(ctx context.Context, id string, actualMinutes int, at time.Time) error {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`UPDATE tasks SET status = ?, actual_minutes = ?, completed_at = ? WHERE id = ?`,
		string(domain.StatusCompleted), actualMinutes, sqlite.FormatTime(at), id,
	)
	if err != nil {
		return fmt.Errorf("%w: complete task: %w", apperrors.ErrStorage, err)
	}
	return requireAffected(res, "task", id)
}

func (s *SQLiteTaskStore) Delete(ctx context.Context, id string) error {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete task: %w", apperrors.ErrStorage, err)
	}
	return requireAffected(res, "task", id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (domain.Task, error) {
	var (
		task        domain.Task
		meta        string
		status      string
		createdAt   string
		completedAt sql.NullString
	)
	if err := row.Scan(&task.ID, &task.Description, &meta, &status, &task.ActualMinutes, &createdAt, &completedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, err
		}
		return domain.Task{}, fmt.Errorf("%w: scan task: %w", apperrors.ErrStorage, err)
	}
	if err := json.Unmarshal([]byte(meta), &task.Metadata); err != nil {
		return domain.Task{}, fmt.Errorf("%w: decode task metadata %s: %w", apperrors.ErrStorage, task.ID, err)
	}
	task.Status = domain.Status(status)
	var err error
	if task.CreatedAt, err = sqlite.ParseTime(createdAt); err != nil {
		return domain.Task{}, err
	}
	if completedAt.Valid {
		if task.CompletedAt, err = sqlite.ParseTime(completedAt.String); err != nil {
			return domain.Task{}, err
		}
	}
	return task, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return sqlite.FormatTime(t)
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %w", apperrors.ErrStorage, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, apperrors.ErrNotFound)
	}
	return nil
}
