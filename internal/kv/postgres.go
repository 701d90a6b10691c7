package kv

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores every entry in a single kv_entries table keyed by
// (scope, key), with the value as jsonb.
type Postgres struct {
	Pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{Pool: pool}
}

func (p *Postgres) Get(ctx context.Context, scope, key string) (json.RawMessage, bool, error) {
	var raw []byte
	err := p.Pool.QueryRow(ctx, `SELECT value FROM kv_entries WHERE scope=$1 AND key=$2`, scope, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (p *Postgres) Set(ctx context.Context, scope, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = p.Pool.Exec(ctx, `INSERT INTO kv_entries (scope, key, value, updated_at) VALUES ($1,$2,$3,now())
		ON CONFLICT (scope, key) DO UPDATE SET value=EXCLUDED.value, updated_at=now()`, scope, key, raw)
	return err
}

func (p *Postgres) Remove(ctx context.Context, scope, key string) error {
	_, err := p.Pool.Exec(ctx, `DELETE FROM kv_entries WHERE scope=$1 AND key=$2`, scope, key)
	return err
}

func (p *Postgres) MultiRemove(ctx context.Context, scope string, keys []string) error {
	_, err := p.Pool.Exec(ctx, `DELETE FROM kv_entries WHERE scope=$1 AND key=ANY($2)`, scope, keys)
	return err
}
