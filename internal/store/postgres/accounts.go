package postgres

import (
	"context"
	"errors"
	"time"

	"color-crack/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const accountCols = `id, name, balance::text, created_at, updated_at`

func scanAccount(row pgx.Row) (*store.Account, error) {
	var a store.Account
	var balance string
	if err := row.Scan(&a.ID, &a.Name, &balance, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrAccountNotFound
		}
		return nil, err
	}
	var err error
	a.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) CreateAccount(ctx context.Context, name string) (*store.Account, error) {
	row := s.Pool.QueryRow(ctx,
		`INSERT INTO accounts (id, name) VALUES ($1, $2) RETURNING `+accountCols,
		store.NewID(), name)
	return scanAccount(row)
}

func (s *Store) EnsureAccount(ctx context.Context, name string, initial decimal.Decimal) (*store.Account, error) {
	acct, err := scanAccount(s.Pool.QueryRow(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE name = $1`, name))
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, store.ErrAccountNotFound) {
		return nil, err
	}
	row := s.Pool.QueryRow(ctx,
		`INSERT INTO accounts (id, name, balance) VALUES ($1, $2, $3::numeric)
		 ON CONFLICT (name) WHERE name <> '' DO UPDATE SET name = EXCLUDED.name
		 RETURNING `+accountCols,
		store.NewID(), name, initial.StringFixed(2))
	return scanAccount(row)
}

func (s *Store) GetAccount(ctx context.Context, id string) (*store.Account, error) {
	return scanAccount(s.Pool.QueryRow(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE id = $1`, id))
}

func (s *Store) Debit(ctx context.Context, accountID string, amount decimal.Decimal, kind store.TxKind, method string) (*store.Transaction, error) {
	if amount.Sign() <= 0 {
		return nil, store.ErrInvalidAmount
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	balance, err := lockBalance(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	if balance.LessThan(amount) {
		return nil, store.ErrInsufficientFunds
	}
	if err := setBalance(ctx, tx, accountID, balance.Sub(amount)); err != nil {
		return nil, err
	}
	rec, err := insertTx(ctx, tx, accountID, kind, amount, method, "")
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) Credit(ctx context.Context, accountID string, amount decimal.Decimal, kind store.TxKind, method string) (*store.Transaction, error) {
	if amount.Sign() <= 0 {
		return nil, store.ErrInvalidAmount
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	balance, err := lockBalance(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	if err := setBalance(ctx, tx, accountID, balance.Add(amount)); err != nil {
		return nil, err
	}
	rec, err := insertTx(ctx, tx, accountID, kind, amount, method, "")
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) ListTransactions(ctx context.Context, accountID string, limit int) ([]store.Transaction, error) {
	if err := s.accountExists(ctx, accountID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT id, account_id, kind, amount::text, status, method, wager_id, created_at
		 FROM transactions WHERE account_id = $1
		 ORDER BY created_at DESC, id DESC LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]store.Transaction, 0, limit)
	for rows.Next() {
		var rec store.Transaction
		var amount string
		if err := rows.Scan(&rec.ID, &rec.AccountID, &rec.Kind, &amount, &rec.Status, &rec.Method, &rec.WagerID, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if rec.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) accountExists(ctx context.Context, accountID string) error {
	var one int
	err := s.Pool.QueryRow(ctx, `SELECT 1 FROM accounts WHERE id = $1`, accountID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrAccountNotFound
	}
	return err
}

func lockBalance(ctx context.Context, tx pgx.Tx, accountID string) (decimal.Decimal, error) {
	var balance string
	err := tx.QueryRow(ctx,
		`SELECT balance::text FROM accounts WHERE id = $1 FOR UPDATE`, accountID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, store.ErrAccountNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(balance)
}

func setBalance(ctx context.Context, tx pgx.Tx, accountID string, balance decimal.Decimal) error {
	_, err := tx.Exec(ctx,
		`UPDATE accounts SET balance = $1::numeric, updated_at = now() WHERE id = $2`,
		balance.StringFixed(2), accountID)
	return err
}

func insertTx(ctx context.Context, tx pgx.Tx, accountID string, kind store.TxKind, amount decimal.Decimal, method, wagerID string) (*store.Transaction, error) {
	rec := &store.Transaction{
		ID:        store.NewID(),
		AccountID: accountID,
		Kind:      kind,
		Amount:    amount,
		Status:    store.TxCompleted,
		Method:    method,
		WagerID:   wagerID,
		CreatedAt: time.Now().UTC(),
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO transactions (id, account_id, kind, amount, status, method, wager_id, created_at)
		 VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8)`,
		rec.ID, rec.AccountID, string(rec.Kind), rec.Amount.StringFixed(2), string(rec.Status), rec.Method, rec.WagerID, rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}
