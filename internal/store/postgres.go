package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// PostgresKV stores each collection document as one JSONB row, keeping the
// same whole-collection snapshot semantics as the Redis backend.
type PostgresKV struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresKV creates a Postgres-backed store.
func NewPostgresKV(db *sql.DB, logger *zap.Logger) *PostgresKV {
	return &PostgresKV{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the collections table if it does not exist.
func (s *PostgresKV) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS collections (
			collection_key TEXT PRIMARY KEY,
			document JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create collections table: %w", err)
	}

	return nil
}

func (s *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT document
		FROM collections
		WHERE collection_key = $1
	`

	var document []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&document)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get collection %s: %w", key, err)
	}

	return document, nil
}

func (s *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO collections (collection_key, document, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (collection_key)
		DO UPDATE SET document = $2, updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to save collection %s: %w", key, err)
	}

	s.logger.Debug("Collection saved",
		zap.String("key", key),
		zap.Int("bytes", len(value)),
	)

	return nil
}
