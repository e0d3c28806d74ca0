package memory

import (
	"context"
	"time"

	"color-crack/internal/store"

	"github.com/shopspring/decimal"
)

func (s *Store) PlaceWager(ctx context.Context, w *store.Wager) (*store.Wager, *store.Transaction, error) {
	if w.Stake.Sign() <= 0 {
		return nil, nil, store.ErrInvalidAmount
	}
	al := s.accountLock(w.AccountID)
	al.Lock()
	defer al.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[w.AccountID]
	if !ok {
		return nil, nil, store.ErrAccountNotFound
	}
	if acct.Balance.LessThan(w.Stake) {
		return nil, nil, store.ErrInsufficientFunds
	}

	rec := cloneWager(w)
	if rec.ID == "" {
		rec.ID = store.NewID()
	}
	rec.Status = store.WagerPlaced
	rec.Outcome = ""
	rec.IsWin = false
	rec.Payout = decimal.Zero
	rec.ResolvedAt = nil
	rec.PlacedAt = time.Now().UTC()

	acct.Balance = acct.Balance.Sub(rec.Stake)
	acct.UpdatedAt = rec.PlacedAt
	tx := s.appendTx(rec.AccountID, store.TxDebitStake, rec.Stake, "", rec.ID)

	s.wagers[rec.ID] = rec
	s.wagersByAcct[rec.AccountID] = append(s.wagersByAcct[rec.AccountID], rec.ID)
	return cloneWager(rec), cloneTx(tx), nil
}

func (s *Store) ResolveWager(ctx context.Context, wagerID, outcome string, isWin bool, payout decimal.Decimal) (*store.Wager, *store.Transaction, error) {
	// Wager lock first, then the account lock. Every resolution takes
	// the same order, so two racing resolve calls serialize here and
	// the loser observes Resolved status.
	wl := s.wagerLock(wagerID)
	wl.Lock()
	defer wl.Unlock()

	s.mu.Lock()
	w, ok := s.wagers[wagerID]
	if !ok {
		s.mu.Unlock()
		return nil, nil, store.ErrWagerNotFound
	}
	if w.Status == store.WagerResolved {
		res := cloneWager(w)
		s.mu.Unlock()
		return res, nil, store.ErrAlreadyResolved
	}
	accountID := w.AccountID
	s.mu.Unlock()

	al := s.accountLock(accountID)
	al.Lock()
	defer al.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	var tx *store.Transaction
	if payout.Sign() > 0 {
		acct := s.accounts[accountID]
		acct.Balance = acct.Balance.Add(payout)
		acct.UpdatedAt = time.Now().UTC()
		tx = s.appendTx(accountID, store.TxCreditPayout, payout, "", wagerID)
	}
	now := time.Now().UTC()
	w.Status = store.WagerResolved
	w.Outcome = outcome
	w.IsWin = isWin
	w.Payout = payout
	w.ResolvedAt = &now
	if tx != nil {
		tx = cloneTx(tx)
	}
	return cloneWager(w), tx, nil
}

func (s *Store) GetWager(ctx context.Context, id string) (*store.Wager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wagers[id]
	if !ok {
		return nil, store.ErrWagerNotFound
	}
	return cloneWager(w), nil
}

func (s *Store) ListWagers(ctx context.Context, accountID string, limit int) ([]store.Wager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[accountID]; !ok {
		return nil, store.ErrAccountNotFound
	}
	ids := s.wagersByAcct[accountID]
	if limit <= 0 || limit > len(ids) {
		limit = len(ids)
	}
	out := make([]store.Wager, 0, limit)
	for i := len(ids) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *cloneWager(s.wagers[ids[i]]))
	}
	return out, nil
}

func (s *Store) AccountStats(ctx context.Context, accountID string) (*store.AccountStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[accountID]; !ok {
		return nil, store.ErrAccountNotFound
	}
	stats := &store.AccountStats{
		TotalWinnings: decimal.Zero,
		BestWin:       decimal.Zero,
	}
	for _, id := range s.wagersByAcct[accountID] {
		w := s.wagers[id]
		stats.TotalWagers++
		if w.IsWin {
			stats.TotalWins++
		}
		stats.TotalWinnings = stats.TotalWinnings.Add(w.Payout)
		if w.Payout.GreaterThan(stats.BestWin) {
			stats.BestWin = w.Payout
		}
	}
	if stats.TotalWagers > 0 {
		rate := float64(stats.TotalWins) / float64(stats.TotalWagers) * 100
		stats.WinRate = int(rate + 0.5)
	}
	return stats, nil
}
