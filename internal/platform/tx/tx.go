package tx

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "jarvis/internal/platform/errors"
)

// Manager wraps transactional boundaries for multi-adapter operations.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// DBTX is the query surface shared by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// SQLManager runs fn inside one database transaction. Nested calls join the
// outer transaction.
type SQLManager struct {
	db *sql.DB
}

func NewSQLManager(db *sql.DB) *SQLManager {
	return &SQLManager{db: db}
}

func (m *SQLManager) Within(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %w", apperrors.ErrStorage, err)
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx: %w", apperrors.ErrStorage, err)
	}
	return nil
}

// Executor returns the transaction bound to ctx, or db when there is none.
func Executor(ctx context.Context, db *sql.DB) DBTX {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}
