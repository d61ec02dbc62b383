package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"jarvis/internal/modules/schedule/domain"
	scheduleout "jarvis/internal/modules/schedule/port/out"
	apperrors "jarvis/internal/platform/errors"
	"jarvis/internal/platform/sqlite"
	"jarvis/internal/platform/tx"
)

type SQLiteScheduleStore struct {
	db *sql.DB
}

func NewSQLiteScheduleStore(db *sql.DB) (scheduleout.ScheduleStore, error) {
	store := &SQLiteScheduleStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteScheduleStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS schedules (
  id TEXT PRIMARY KEY,
  date TEXT NOT NULL,
  entries_text TEXT NOT NULL,
  tips TEXT NOT NULL DEFAULT '[]',
  raw_text TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL DEFAULT 'model',
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS schedules_date ON schedules (date, active);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("%w: create schedules table: %w", apperrors.ErrStorage, err)
	}
	return nil
}

type entryRow struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Task      string `json:"task"`
	Reasoning string `json:"reasoning,omitempty"`
	Energy    string `json:"energy,omitempty"`
}

func (s *SQLiteScheduleStore) Supersede(ctx context.Context, date string) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, `UPDATE schedules SET active = 0 WHERE date = ? AND active = 1`, date)
	if err != nil {
		return fmt.Errorf("%w: supersede schedules: %w", apperrors.ErrStorage, err)
	}
	return nil
}

func (s *SQLiteScheduleStore) Insert(ctx context.Context, schedule domain.Schedule) error {
	rows := make([]entryRow, 0, len(schedule.Entries))
	for _, e := range schedule.Entries {
		rows = append(rows, entryRow(e))
	}
	entries, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("%w: marshal schedule entries: %w", apperrors.ErrStorage, err)
	}
	tips := schedule.Tips
	if tips == nil {
		tips = []string{}
	}
	tipsJSON, err := json.Marshal(tips)
	if err != nil {
		return fmt.Errorf("%w: marshal schedule tips: %w", apperrors.ErrStorage, err)
	}
	const stmt = `
INSERT INTO schedules (id, date, entries_text, tips, raw_text, source, active, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.Executor(ctx, s.db).ExecContext(ctx, stmt,
		schedule.ID,
		schedule.Date,
		string(entries),
		string(tipsJSON),
		schedule.RawText,
		schedule.Source,
		schedule.Active,
		sqlite.FormatTime(schedule.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("%w: insert schedule: %w", apperrors.ErrStorage, err)
	}
	return nil
}

const scheduleColumns = `id, date, entries_text, tips, raw_text, source, active, created_at`

func (s *SQLiteScheduleStore) Active(ctx context.Context, date string) (domain.Schedule, error) {
	row := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+scheduleColumns+` FROM schedules WHERE date = ? AND active = 1 ORDER BY created_at DESC, id DESC LIMIT 1`, date)
	schedule, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Schedule{}, fmt.Errorf("schedule for %s: %w", date, apperrors.ErrNotFound)
	}
	return schedule, err
}

func (s *SQLiteScheduleStore) FindByID(ctx context.Context, id string) (domain.Schedule, error) {
	row := tx.Executor(ctx, s.db).QueryRowContext(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE id = ?`, id)
	schedule, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Schedule{}, fmt.Errorf("schedule %s: %w", id, apperrors.ErrNotFound)
	}
	return schedule, err
}

func (s *SQLiteScheduleStore) ListByDate(ctx context.Context, date string) ([]domain.Schedule, error) {
	return s.query(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE date = ? ORDER BY created_at DESC, id DESC`, date)
}

func (s *SQLiteScheduleStore) Recent(ctx context.Context, limit int) ([]domain.Schedule, error) {
	return s.query(ctx, `SELECT `+scheduleColumns+` FROM schedules ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
}

// Delete removes one schedule. When it was the active one, the newest
// remaining schedule for the same date becomes active.
func (s *SQLiteScheduleStore) Delete(ctx context.Context, id string) error {
	exec := tx.Executor(ctx, s.db)
	var date string
	err := exec.QueryRowContext(ctx, `DELETE FROM schedules WHERE id = ? RETURNING date`, id).Scan(&date)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("schedule %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%w: delete schedule: %w", apperrors.ErrStorage, err)
	}
	_, err = exec.ExecContext(ctx, `
UPDATE schedules SET active = 1
WHERE id = (SELECT id FROM schedules WHERE date = ? ORDER BY created_at DESC, id DESC LIMIT 1)
  AND NOT EXISTS (SELECT 1 FROM schedules WHERE date = ? AND active = 1)`, date, date)
	if err != nil {
		return fmt.Errorf("%w: reactivate schedule: %w", apperrors.ErrStorage, err)
	}
	return nil
}

func (s *SQLiteScheduleStore) query(ctx context.Context, query string, args ...any) ([]domain.Schedule, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query schedules: %w", apperrors.ErrStorage, err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Schedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate schedules: %w", apperrors.ErrStorage, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row scanner) (domain.Schedule, error) {
	var (
		schedule  domain.Schedule
		entries   string
		tips      string
		createdAt string
	)
	err := row.Scan(&schedule.ID, &schedule.Date, &entries, &tips, &schedule.RawText, &schedule.Source, &schedule.Active, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Schedule{}, err
		}
		return domain.Schedule{}, fmt.Errorf("%w: scan schedule: %w", apperrors.ErrStorage, err)
	}
	var rows []entryRow
	if err := json.Unmarshal([]byte(entries), &rows); err != nil {
		return domain.Schedule{}, fmt.Errorf("%w: decode schedule entries %s: %w", apperrors.ErrStorage, schedule.ID, err)
	}
	for _, r := range rows {
		schedule.Entries = append(schedule.Entries, domain.Entry(r))
	}
	if err := json.Unmarshal([]byte(tips), &schedule.Tips); err != nil {
		return domain.Schedule{}, fmt.Errorf("%w: decode schedule tips %s: %w", apperrors.ErrStorage, schedule.ID, err)
	}
	if schedule.CreatedAt, err = sqlite.ParseTime(createdAt); err != nil {
		return domain.Schedule{}, err
	}
	return schedule, nil
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
