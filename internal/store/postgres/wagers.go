package postgres

import (
	"context"
	"errors"
	"time"

	"color-crack/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const wagerCols = `id, number, account_id, category, stake::text, status, outcome, payout::text, is_win, fairness_token, placed_at, resolved_at`

func scanWager(row pgx.Row) (*store.Wager, error) {
	var w store.Wager
	var stake, payout string
	var status string
	if err := row.Scan(&w.ID, &w.Number, &w.AccountID, &w.Category, &stake, &status, &w.Outcome, &payout, &w.IsWin, &w.FairnessToken, &w.PlacedAt, &w.ResolvedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrWagerNotFound
		}
		return nil, err
	}
	w.Status = store.WagerStatus(status)
	var err error
	if w.Stake, err = decimal.NewFromString(stake); err != nil {
		return nil, err
	}
	if w.Payout, err = decimal.NewFromString(payout); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Store) PlaceWager(ctx context.Context, w *store.Wager) (*store.Wager, *store.Transaction, error) {
	if w.Stake.Sign() <= 0 {
		return nil, nil, store.ErrInvalidAmount
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	balance, err := lockBalance(ctx, tx, w.AccountID)
	if err != nil {
		return nil, nil, err
	}
	if balance.LessThan(w.Stake) {
		return nil, nil, store.ErrInsufficientFunds
	}
	if err := setBalance(ctx, tx, w.AccountID, balance.Sub(w.Stake)); err != nil {
		return nil, nil, err
	}

	rec := *w
	if rec.ID == "" {
		rec.ID = store.NewID()
	}
	rec.Status = store.WagerPlaced
	rec.Outcome = ""
	rec.IsWin = false
	rec.Payout = decimal.Zero
	rec.ResolvedAt = nil
	rec.PlacedAt = time.Now().UTC()
	if _, err := tx.Exec(ctx,
		`INSERT INTO wagers (id, number, account_id, category, stake, status, fairness_token, placed_at)
		 VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8)`,
		rec.ID, rec.Number, rec.AccountID, rec.Category, rec.Stake.StringFixed(2), string(rec.Status), rec.FairnessToken, rec.PlacedAt); err != nil {
		return nil, nil, err
	}
	debit, err := insertTx(ctx, tx, rec.AccountID, store.TxDebitStake, rec.Stake, "", rec.ID)
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return &rec, debit, nil
}

func (s *Store) ResolveWager(ctx context.Context, wagerID, outcome string, isWin bool, payout decimal.Decimal) (*store.Wager, *store.Transaction, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	// Row lock on the wager makes the Placed->Resolved transition
	// exactly-once: a concurrent resolve blocks here and then sees
	// the resolved status.
	w, err := scanWager(tx.QueryRow(ctx,
		`SELECT `+wagerCols+` FROM wagers WHERE id = $1 FOR UPDATE`, wagerID))
	if err != nil {
		return nil, nil, err
	}
	if w.Status == store.WagerResolved {
		return w, nil, store.ErrAlreadyResolved
	}

	var credit *store.Transaction
	if payout.Sign() > 0 {
		balance, err := lockBalance(ctx, tx, w.AccountID)
		if err != nil {
			return nil, nil, err
		}
		if err := setBalance(ctx, tx, w.AccountID, balance.Add(payout)); err != nil {
			return nil, nil, err
		}
		if credit, err = insertTx(ctx, tx, w.AccountID, store.TxCreditPayout, payout, "", w.ID); err != nil {
			return nil, nil, err
		}
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx,
		`UPDATE wagers SET status = $1, outcome = $2, is_win = $3, payout = $4::numeric, resolved_at = $5 WHERE id = $6`,
		string(store.WagerResolved), outcome, isWin, payout.StringFixed(2), now, w.ID); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	w.Status = store.WagerResolved
	w.Outcome = outcome
	w.IsWin = isWin
	w.Payout = payout
	w.ResolvedAt = &now
	return w, credit, nil
}

func (s *Store) GetWager(ctx context.Context, id string) (*store.Wager, error) {
	return scanWager(s.Pool.QueryRow(ctx,
		`SELECT `+wagerCols+` FROM wagers WHERE id = $1`, id))
}

func (s *Store) ListWagers(ctx context.Context, accountID string, limit int) ([]store.Wager, error) {
	if err := s.accountExists(ctx, accountID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT `+wagerCols+` FROM wagers WHERE account_id = $1
		 ORDER BY placed_at DESC, id DESC LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]store.Wager, 0, limit)
	for rows.Next() {
		w, err := scanWager(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

func (s *Store) AccountStats(ctx context.Context, accountID string) (*store.AccountStats, error) {
	if err := s.accountExists(ctx, accountID); err != nil {
		return nil, err
	}
	var winnings, best string
	stats := &store.AccountStats{}
	err := s.Pool.QueryRow(ctx,
		`SELECT count(*),
		        count(*) FILTER (WHERE is_win),
		        COALESCE(sum(payout), 0)::text,
		        COALESCE(max(payout), 0)::text
		 FROM wagers WHERE account_id = $1`, accountID).
		Scan(&stats.TotalWagers, &stats.TotalWins, &winnings, &best)
	if err != nil {
		return nil, err
	}
	if stats.TotalWinnings, err = decimal.NewFromString(winnings); err != nil {
		return nil, err
	}
	if stats.BestWin, err = decimal.NewFromString(best); err != nil {
		return nil, err
	}
	if stats.TotalWagers > 0 {
		stats.WinRate = int(float64(stats.TotalWins)/float64(stats.TotalWagers)*100 + 0.5)
	}
	return stats, nil
}
