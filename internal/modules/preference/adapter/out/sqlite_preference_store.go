package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jarvis/internal/modules/preference/domain"
	apperrors "jarvis/internal/platform/errors"
	"jarvis/internal/platform/sqlite"
	"jarvis/internal/platform/tx"
)

// SQLitePreferenceStore keeps preferences and observations in the shared
// database file.
type SQLitePreferenceStore struct {
	db *sql.DB
}

func NewSQLitePreferenceStore(db *sql.DB) (*SQLitePreferenceStore, error) {
	store := &SQLitePreferenceStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLitePreferenceStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS preferences (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  confidence REAL NOT NULL DEFAULT 0.5,
  updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS observations (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  detail TEXT NOT NULL,
  created_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("%w: create preference tables: %w", apperrors.ErrStorage, err)
	}
	return nil
}

func (s *SQLitePreferenceStore) Find(ctx context.Context, key string) (domain.Preference, bool, error) {
	var (
		p         domain.Preference
		updatedAt string
	)
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT key, value, confidence, updated_at FROM preferences WHERE key = ?`, key,
	).Scan(&p.Key, &p.Value, &p.Confidence, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Preference{}, false, nil
	}
	if err != nil {
		return domain.Preference{}, false, fmt.Errorf("%w: find preference: %w", apperrors.ErrStorage, err)
	}
	if p.UpdatedAt, err = sqlite.ParseTime(updatedAt); err != nil {
		return domain.Preference{}, false, err
	}
	return p, true, nil
}

func (s *SQLitePreferenceStore) Upsert(ctx context.Context, p domain.Preference) error {
	const stmt = `
INSERT INTO preferences (key, value, confidence, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  value=excluded.value,
  confidence=excluded.confidence,
  updated_at=excluded.updated_at;
`
	if _, err := tx.Executor(ctx, s.db).ExecContext(ctx, stmt, p.Key, p.Value, p.Confidence, sqlite.FormatTime(p.UpdatedAt)); err != nil {
		return fmt.Errorf("%w: upsert preference: %w", apperrors.ErrStorage, err)
	}
	return nil
}

func (s *SQLitePreferenceStore) List(ctx context.Context) ([]domain.Preference, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, `SELECT key, value, confidence, updated_at FROM preferences ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("%w: query preferences: %w", apperrors.ErrStorage, err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Preference
	for rows.Next() {
		var (
			p         domain.Preference
			updatedAt string
		)
		if err := rows.Scan(&p.Key, &p.Value, &p.Confidence, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan preference: %w", apperrors.ErrStorage, err)
		}
		if p.UpdatedAt, err = sqlite.ParseTime(updatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate preferences: %w", apperrors.ErrStorage, err)
	}
	return out, nil
}

func (s *SQLitePreferenceStore) Append(ctx context.Context, o domain.Observation) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`INSERT INTO observations (id, kind, detail, created_at) VALUES (?, ?, ?, ?)`,
		o.ID, o.Kind, o.Detail, sqlite.FormatTime(o.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("%w: insert observation: %w", apperrors.ErrStorage, err)
	}
	return nil
}

func (s *SQLitePreferenceStore) Recent(ctx context.Context, limit int) ([]domain.Observation, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx,
		`SELECT id, kind, detail, created_at FROM observations ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query observations: %w", apperrors.ErrStorage, err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Observation
	for rows.Next() {
		var (
			o         domain.Observation
			createdAt string
		)
		if err := rows.Scan(&o.ID, &o.Kind, &o.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scan observation: %w", apperrors.ErrStorage, err)
		}
		if o.CreatedAt, err = sqlite.ParseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate observations: %w", apperrors.ErrStorage, err)
	}
	return out, nil
}
