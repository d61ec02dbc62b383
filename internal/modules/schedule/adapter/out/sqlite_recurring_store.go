package out

import (
	"context"
	"database/sql"
	"fmt"

	"jarvis/internal/modules/schedule/domain"
	scheduleout "jarvis/internal/modules/schedule/port/out"
	apperrors "jarvis/internal/platform/errors"
	"jarvis/internal/platform/sqlite"
	"jarvis/internal/platform/tx"
)

type SQLiteRecurringStore struct {
	db *sql.DB
}

func NewSQLiteRecurringStore(db *sql.DB) (scheduleout.RecurringStore, error) {
	store := &SQLiteRecurringStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteRecurringStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS recurring_tasks (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  duration_minutes INTEGER NOT NULL DEFAULT 0,
  preferred_time TEXT NOT NULL DEFAULT '',
  frequency TEXT NOT NULL,
  days TEXT NOT NULL DEFAULT '',
  cron_expr TEXT NOT NULL DEFAULT '',
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("%w: create recurring_tasks table: %w", apperrors.ErrStorage, err)
	}
	return nil
}

func (s *SQLiteRecurringStore) Save(ctx context.Context, r domain.RecurringTask) error {
	const stmt = `
INSERT INTO recurring_tasks (id, name, duration_minutes, preferred_time, frequency, days, cron_expr, active, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  name=excluded.name,
  duration_minutes=excluded.duration_minutes,
  preferred_time=excluded.preferred_time,
  frequency=excluded.frequency,
  days=excluded.days,
  cron_expr=excluded.cron_expr,
  active=excluded.active;
`
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, stmt,
		r.ID,
		r.Name,
		r.DurationMinutes,
		r.PreferredTime,
		string(r.Frequency),
		domain.FormatDays(r.Days),
		r.CronExpr,
		r.Active,
		sqlite.FormatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("%w: save recurring task: %w", apperrors.ErrStorage, err)
	}
	return nil
}

func (s *SQLiteRecurringStore) List(ctx context.Context, includeInactive bool) ([]domain.RecurringTask, error) {
	query := `SELECT id, name, duration_minutes, preferred_time, frequency, days, cron_expr, active, created_at FROM recurring_tasks`
	if !includeInactive {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY created_at, id`

	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query recurring tasks: %w", apperrors.ErrStorage, err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.RecurringTask
	for rows.Next() {
		var (
			r         domain.RecurringTask
			freq      string
			days      string
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.Name, &r.DurationMinutes, &r.PreferredTime, &freq, &days, &r.CronExpr, &r.Active, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scan recurring task: %w", apperrors.ErrStorage, err)
		}
		r.Frequency = domain.Frequency(freq)
		if r.Days, err = domain.ParseDays(days); err != nil {
			return nil, fmt.Errorf("%w: decode recurring days %s: %w", apperrors.ErrStorage, r.ID, err)
		}
		if r.CreatedAt, err = sqlite.ParseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate recurring tasks: %w", apperrors.ErrStorage, err)
	}
	return out, nil
}

func (s *SQLiteRecurringStore) Deactivate(ctx context.Context, id string) error {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx, `UPDATE recurring_tasks SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: deactivate recurring task: %w", apperrors.ErrStorage, err)
	}
	return requireAffected(res, "recurring task", id)
}
