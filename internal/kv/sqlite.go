package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite is the file-backed store used when no Postgres URL is configured.
// Same single-table shape as the Postgres backend.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	// Single writer; sqlite handles its own locking.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv_entries (
		scope TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (scope, key)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init kv_entries: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Get(ctx context.Context, scope, key string) (json.RawMessage, bool, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE scope=? AND key=?`, scope, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (s *SQLite) Set(ctx context.Context, scope, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO kv_entries (scope, key, value, updated_at) VALUES (?,?,?,?)
		ON CONFLICT (scope, key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		scope, key, raw, time.Now().Unix())
	return err
}

func (s *SQLite) Remove(ctx context.Context, scope, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE scope=? AND key=?`, scope, key)
	return err
}

func (s *SQLite) MultiRemove(ctx context.Context, scope string, keys []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv_entries WHERE scope=? AND key=?`, scope, key); err != nil {
			return err
		}
	}
	return tx.Commit()
}
