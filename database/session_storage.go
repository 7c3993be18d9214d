package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const createSessionTable = `
CREATE TABLE IF NOT EXISTS session_kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStorage guarda as chaves da sessão na tabela session_kv.
// Satisfaz session.Storage.
type PostgresStorage struct {
	db *sql.DB
}

// NewPostgresStorage cria a tabela se ainda não existir.
func NewPostgresStorage(ctx context.Context, db *sql.DB) (*PostgresStorage, error) {
	if _, err := db.ExecContext(ctx, createSessionTable); err != nil {
		return nil, fmt.Errorf("erro ao criar tabela session_kv: %w", err)
	}
	return &PostgresStorage{db: db}, nil
}

func (s *PostgresStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM session_kv WHERE key = $1", key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("erro ao ler chave %s: %w", key, err)
	}
	return value, true, nil
}

func (s *PostgresStorage) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_kv (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("erro ao gravar chave %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM session_kv WHERE key = ANY($1)", pq.Array(keys)); err != nil {
		return fmt.Errorf("erro ao remover chaves de sessão: %w", err)
	}
	return nil
}
