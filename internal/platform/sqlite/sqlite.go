package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	apperrors "jarvis/internal/platform/errors"

	_ "modernc.org/sqlite"
)

// TimeLayout is fixed width so TEXT columns sort chronologically.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA foreign_keys=ON",
}

// Open creates the parent directory, opens the database file and applies
// connection pragmas. The caller owns the returned handle.
func Open(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create db dir: %w", apperrors.ErrStorage, err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %w", apperrors.ErrStorage, err)
	}
	// One connection keeps pragmas and transactions on the same handle.
	db.SetMaxOpenConns(1)
	for _, p := range pragmas {
		if _, err := db.ExecContext(context.Background(), p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: exec %q: %w", apperrors.ErrStorage, p, err)
		}
	}
	return db, nil
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func ParseTime(raw string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", raw, err)
	}
	return t, nil
}
