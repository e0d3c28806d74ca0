// Package account is the only component allowed to move money. It wraps
// the ledger store's atomic operations with the wallet flows: deposits,
// withdrawals, balance reads, history, and the stake/settle legs of a
// wager. The wager engine asks this service for every balance change it
// needs; it never touches an account itself.
package account

import (
	"context"

	"color-crack/internal/store"

	"github.com/shopspring/decimal"
)

type Service struct {
	store store.Store
}

func New(st store.Store) *Service {
	return &Service{store: st}
}

func (s *Service) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	acct, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return acct.Balance, nil
}

func (s *Service) Get(ctx context.Context, accountID string) (*store.Account, error) {
	return s.store.GetAccount(ctx, accountID)
}

func (s *Service) Register(ctx context.Context, name string) (*store.Account, error) {
	return s.store.CreateAccount(ctx, name)
}

// Deposit credits the wallet and settles immediately: the transaction
// is written Completed, there is no external payment rail.
func (s *Service) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, method string) (*store.Transaction, error) {
	if amount.Sign() <= 0 {
		return nil, store.ErrInvalidAmount
	}
	return s.store.Credit(ctx, accountID, amount, store.TxDeposit, method)
}

func (s *Service) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, method string) (*store.Transaction, error) {
	if amount.Sign() <= 0 {
		return nil, store.ErrInvalidAmount
	}
	return s.store.Debit(ctx, accountID, amount, store.TxWithdraw, method)
}

func (s *Service) History(ctx context.Context, accountID string, limit int) ([]store.Transaction, error) {
	return s.store.ListTransactions(ctx, accountID, limit)
}

func (s *Service) Stats(ctx context.Context, accountID string) (*store.AccountStats, error) {
	return s.store.AccountStats(ctx, accountID)
}

// StakeWager reserves the stake: debit plus wager creation as one unit.
func (s *Service) StakeWager(ctx context.Context, w *store.Wager) (*store.Wager, *store.Transaction, error) {
	return s.store.PlaceWager(ctx, w)
}

// SettleWager applies a resolution: the payout credit (if any) and the
// Placed->Resolved transition as one unit.
func (s *Service) SettleWager(ctx context.Context, wagerID, outcome string, isWin bool, payout decimal.Decimal) (*store.Wager, *store.Transaction, error) {
	return s.store.ResolveWager(ctx, wagerID, outcome, isWin, payout)
}
