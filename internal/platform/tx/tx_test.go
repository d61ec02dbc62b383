package tx_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"jarvis/internal/platform/sqlite"
	"jarvis/internal/platform/tx"
)

func TestSQLManagerCommitsAndRollsBack(t *testing.T) {
	t.Parallel()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "tx.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer func() { _ = db.Close() }()
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `CREATE TABLE items (name TEXT NOT NULL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	m := tx.NewSQLManager(db)
	insert := func(ctx context.Context, name string) error {
		_, err := tx.Executor(ctx, db).ExecContext(ctx, `INSERT INTO items (name) VALUES (?)`, name)
		return err
	}

	if err := m.Within(ctx, func(ctx context.Context) error {
		if err := insert(ctx, "kept"); err != nil {
			return err
		}
		return m.Within(ctx, func(ctx context.Context) error { return insert(ctx, "nested") })
	}); err != nil {
		t.Fatalf("commit path: %v", err)
	}

	boom := errors.New("boom")
	err = m.Within(ctx, func(ctx context.Context) error {
		if err := insert(ctx, "dropped"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		t.Fatalf("count items: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 committed rows, got %d", count)
	}
}
