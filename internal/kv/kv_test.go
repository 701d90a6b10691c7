package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// exerciseStore runs the shared contract checks against any backend.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "user-1", KeyCampaignStats); err != nil || ok {
		t.Fatalf("get missing: ok=%v err=%v", ok, err)
	}

	doc := map[string]int{"treesPlanted": 4}
	if err := store.Set(ctx, "user-1", KeyCampaignStats, doc); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got map[string]int
	ok, err := GetJSON(ctx, store, "user-1", KeyCampaignStats, &got)
	if err != nil || !ok {
		t.Fatalf("get json: ok=%v err=%v", ok, err)
	}
	if got["treesPlanted"] != 4 {
		t.Fatalf("value = %v", got)
	}

	// Overwrite replaces the document.
	if err := store.Set(ctx, "user-1", KeyCampaignStats, map[string]int{"treesPlanted": 9}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got = nil
	GetJSON(ctx, store, "user-1", KeyCampaignStats, &got)
	if got["treesPlanted"] != 9 {
		t.Fatalf("overwritten value = %v", got)
	}

	// Scopes are independent.
	if _, ok, _ := store.Get(ctx, "user-2", KeyCampaignStats); ok {
		t.Fatalf("value leaked across scopes")
	}

	if err := store.Remove(ctx, "user-1", KeyCampaignStats); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "user-1", KeyCampaignStats); ok {
		t.Fatalf("value survived remove")
	}

	for _, key := range UserKeys() {
		if err := store.Set(ctx, "user-1", key, "x"); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}
	if err := store.MultiRemove(ctx, "user-1", UserKeys()); err != nil {
		t.Fatalf("multi remove: %v", err)
	}
	for _, key := range UserKeys() {
		if _, ok, _ := store.Get(ctx, "user-1", key); ok {
			t.Fatalf("key %s survived multi remove", key)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()
	exerciseStore(t, store)
}

func TestSQLiteStorePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	first, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := first.Set(ctx, "user-1", KeyJoinedCampaigns, []string{"A"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	first.Close()

	second, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer second.Close()
	var titles []string
	ok, err := GetJSON(ctx, second, "user-1", KeyJoinedCampaigns, &titles)
	if err != nil || !ok || len(titles) != 1 || titles[0] != "A" {
		t.Fatalf("reloaded titles = %v ok=%v err=%v", titles, ok, err)
	}
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS kv_entries (
		scope TEXT NOT NULL, key TEXT NOT NULL, value JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(), PRIMARY KEY (scope, key))`); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	store := NewPostgres(pool)
	t.Cleanup(func() {
		store.MultiRemove(ctx, "user-1", UserKeys())
		store.MultiRemove(ctx, "user-2", UserKeys())
	})
	exerciseStore(t, store)
}
