// Package postgres implements the ledger store on Postgres. Every
// mutating operation runs in a single DB transaction with the account
// row (and wager row, where relevant) locked FOR UPDATE, so the
// balance change and the ledger append commit or roll back together.
package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}

func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id         text PRIMARY KEY,
	name       text NOT NULL DEFAULT '',
	balance    numeric(12,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS accounts_name_idx ON accounts (name) WHERE name <> '';

CREATE TABLE IF NOT EXISTS wagers (
	id             text PRIMARY KEY,
	number         text NOT NULL DEFAULT '',
	account_id     text NOT NULL REFERENCES accounts (id),
	category       text NOT NULL,
	stake          numeric(12,2) NOT NULL CHECK (stake > 0),
	status         text NOT NULL DEFAULT 'placed',
	outcome        text NOT NULL DEFAULT '',
	payout         numeric(12,2) NOT NULL DEFAULT 0,
	is_win         boolean NOT NULL DEFAULT false,
	fairness_token text NOT NULL DEFAULT '',
	placed_at      timestamptz NOT NULL DEFAULT now(),
	resolved_at    timestamptz
);
CREATE INDEX IF NOT EXISTS wagers_account_idx ON wagers (account_id, placed_at DESC);

CREATE TABLE IF NOT EXISTS transactions (
	id         text PRIMARY KEY,
	account_id text NOT NULL REFERENCES accounts (id),
	kind       text NOT NULL,
	amount     numeric(12,2) NOT NULL CHECK (amount > 0),
	status     text NOT NULL DEFAULT 'completed',
	method     text NOT NULL DEFAULT '',
	wager_id   text NOT NULL DEFAULT '',
	created_at timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS transactions_account_idx ON transactions (account_id, created_at DESC);
`

// EnsureSchema creates the three ledger tables when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, schema)
	return err
}
