package out

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"jarvis/internal/modules/completion/domain"
	completionout "jarvis/internal/modules/completion/port/out"
	apperrors "jarvis/internal/platform/errors"
	"jarvis/internal/platform/sqlite"
	"jarvis/internal/platform/tx"
)

type SQLiteInteractionStore struct {
	db *sql.DB
}

func NewSQLiteInteractionStore(db *sql.DB) (completionout.InteractionStore, error) {
	store := &SQLiteInteractionStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteInteractionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS interactions (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  provider TEXT NOT NULL,
  model TEXT NOT NULL,
  prompt TEXT NOT NULL,
  response TEXT NOT NULL,
  input_tokens INTEGER NOT NULL DEFAULT 0,
  output_tokens INTEGER NOT NULL DEFAULT 0,
  latency_ms INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS interactions_created_at ON interactions (created_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("%w: create interactions table: %w", apperrors.ErrStorage, err)
	}
	return nil
}

func (s *SQLiteInteractionStore) Append(ctx context.Context, i domain.Interaction) error {
	const stmt = `
INSERT INTO interactions (id, kind, provider, model, prompt, response, input_tokens, output_tokens, latency_ms, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, stmt,
		i.ID,
		string(i.Kind),
		i.Provider,
		i.Model,
		i.Prompt,
		i.Response,
		i.InputTokens,
		i.OutputTokens,
		i.Latency.Milliseconds(),
		sqlite.FormatTime(i.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("%w: insert interaction: %w", apperrors.ErrStorage, err)
	}
	return nil
}

func (s *SQLiteInteractionStore) Recent(ctx context.Context, limit int) ([]domain.Interaction, error) {
	const query = `
SELECT id, kind, provider, model, prompt, response, input_tokens, output_tokens, latency_ms, created_at
FROM interactions
ORDER BY created_at DESC, id DESC
LIMIT ?`
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query interactions: %w", apperrors.ErrStorage, err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Interaction
	for rows.Next() {
		var (
			i         domain.Interaction
			kind      string
			latencyMS int64
			createdAt string
		)
		if err := rows.Scan(&i.ID, &kind, &i.Provider, &i.Model, &i.Prompt, &i.Response, &i.InputTokens, &i.OutputTokens, &latencyMS, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scan interaction: %w", apperrors.ErrStorage, err)
		}
		i.Kind = domain.Kind(kind)
		i.Latency = time.Duration(latencyMS) * time.Millisecond
		if i.CreatedAt, err = sqlite.ParseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate interactions: %w", apperrors.ErrStorage, err)
	}
	return out, nil
}
