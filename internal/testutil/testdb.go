// Package testutil holds helpers shared by tests that need a real
// Postgres behind them. Tests using it skip themselves unless
// TEST_POSTGRES_DSN points at a database the suite may scribble on.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"color-crack/internal/config"
	"color-crack/internal/store/postgres"
)

// OpenPostgres connects to the test database, installs the ledger
// schema inside a throwaway Postgres schema, and returns a store bound
// to it. The schema is dropped on test cleanup so runs do not collide.
func OpenPostgres(t *testing.T) *postgres.Store {
	t.Helper()

	cfg, err := config.LoadTest()
	if err != nil {
		t.Skipf("postgres tests disabled: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	name := "test_" + strings.ToLower(ulid.Make().String())

	admin, err := pgxpool.New(ctx, cfg.TestPostgresDSN)
	if err != nil {
		t.Fatalf("connect admin pool: %v", err)
	}
	if _, err := admin.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", name)); err != nil {
		admin.Close()
		t.Fatalf("create schema %s: %v", name, err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.TestPostgresDSN)
	if err != nil {
		admin.Close()
		t.Fatalf("parse dsn: %v", err)
	}
	poolCfg.ConnConfig.RuntimeParams["search_path"] = name

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		admin.Close()
		t.Fatalf("connect test pool: %v", err)
	}

	s := &postgres.Store{Pool: pool}
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		admin.Close()
		t.Fatalf("ensure schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer dropCancel()
		if _, err := admin.Exec(dropCtx, fmt.Sprintf("DROP SCHEMA %s CASCADE", name)); err != nil {
			t.Logf("drop schema %s: %v", name, err)
		}
		admin.Close()
	})

	return s
}
