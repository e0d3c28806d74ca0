// Package player is the boundary service behind the public HTTP
// handlers. It parses amounts, applies the deposit/withdraw minimums,
// clamps history pages and maps domain records to response DTOs. Domain
// errors pass through untouched for the transport layer to map.
package player

import (
	"context"
	"strings"

	"color-crack/internal/account"
	"color-crack/internal/store"
	"color-crack/internal/wager"

	"github.com/shopspring/decimal"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

type Config struct {
	MinDeposit  decimal.Decimal
	MinWithdraw decimal.Decimal
}

type Service struct {
	accounts *account.Service
	engine   *wager.Engine
	cfg      Config
}

func NewService(accounts *account.Service, engine *wager.Engine, cfg Config) *Service {
	return &Service{accounts: accounts, engine: engine, cfg: cfg}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AccountResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidRequest
	}
	acct, err := s.accounts.Register(ctx, name)
	if err != nil {
		return nil, err
	}
	return toAccountResponse(acct), nil
}

func (s *Service) Account(ctx context.Context, accountID string) (*AccountResponse, error) {
	acct, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return toAccountResponse(acct), nil
}

func (s *Service) Balance(ctx context.Context, accountID string) (*BalanceResponse, error) {
	balance, err := s.accounts.Balance(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &BalanceResponse{AccountID: accountID, Balance: balance.StringFixed(2)}, nil
}

func (s *Service) Stats(ctx context.Context, accountID string) (*StatsResponse, error) {
	stats, err := s.accounts.Stats(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &StatsResponse{
		TotalWagers:   stats.TotalWagers,
		TotalWins:     stats.TotalWins,
		WinRate:       stats.WinRate,
		TotalWinnings: stats.TotalWinnings.StringFixed(2),
		BestWin:       stats.BestWin.StringFixed(2),
	}, nil
}

func (s *Service) PlaceWager(ctx context.Context, req PlaceWagerRequest) (*WagerResponse, error) {
	if req.AccountID == "" || req.Category == "" {
		return nil, ErrInvalidRequest
	}
	stake, err := parseAmount(req.Stake)
	if err != nil {
		return nil, err
	}
	w, err := s.engine.Place(ctx, req.AccountID, req.Category, stake)
	if err != nil {
		return nil, err
	}
	return toWagerResponse(w), nil
}

// ResolveWager settles the wager. On an already-resolved wager the
// stored result comes back together with store.ErrAlreadyResolved so
// the handler can return both the conflict status and the result.
func (s *Service) ResolveWager(ctx context.Context, wagerID string) (*WagerResponse, error) {
	w, err := s.engine.Resolve(ctx, wagerID)
	if w != nil {
		return toWagerResponse(w), err
	}
	return nil, err
}

func (s *Service) Wager(ctx context.Context, wagerID string) (*WagerResponse, error) {
	w, err := s.engine.Get(ctx, wagerID)
	if err != nil {
		return nil, err
	}
	return toWagerResponse(w), nil
}

func (s *Service) Deposit(ctx context.Context, accountID string, req AmountRequest) (*TransactionResponse, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if amount.LessThan(s.cfg.MinDeposit) {
		return nil, store.ErrInvalidAmount
	}
	tx, err := s.accounts.Deposit(ctx, accountID, amount, req.Method)
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(tx), nil
}

func (s *Service) Withdraw(ctx context.Context, accountID string, req AmountRequest) (*TransactionResponse, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if amount.LessThan(s.cfg.MinWithdraw) {
		return nil, store.ErrInvalidAmount
	}
	tx, err := s.accounts.Withdraw(ctx, accountID, amount, req.Method)
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(tx), nil
}

func (s *Service) Wagers(ctx context.Context, accountID string, limit int) (*WagersResponse, error) {
	limit = clampHistoryLimit(limit)
	items, err := s.engine.History(ctx, accountID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]WagerResponse, 0, len(items))
	for i := range items {
		out = append(out, *toWagerResponse(&items[i]))
	}
	return &WagersResponse{Items: out, Limit: limit}, nil
}

func (s *Service) Transactions(ctx context.Context, accountID string, limit int) (*TransactionsResponse, error) {
	limit = clampHistoryLimit(limit)
	items, err := s.accounts.History(ctx, accountID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]TransactionResponse, 0, len(items))
	for i := range items {
		out = append(out, *toTransactionResponse(&items[i]))
	}
	return &TransactionsResponse{Items: out, Limit: limit}, nil
}

func clampHistoryLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}

func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, store.ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, store.ErrInvalidAmount
	}
	return amount, nil
}

func toAccountResponse(a *store.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Balance:   a.Balance.StringFixed(2),
		CreatedAt: a.CreatedAt,
	}
}

func toWagerResponse(w *store.Wager) *WagerResponse {
	return &WagerResponse{
		ID:            w.ID,
		Number:        w.Number,
		AccountID:     w.AccountID,
		Category:      w.Category,
		Stake:         w.Stake.StringFixed(2),
		Status:        string(w.Status),
		Outcome:       w.Outcome,
		Payout:        w.Payout.StringFixed(2),
		IsWin:         w.IsWin,
		FairnessToken: w.FairnessToken,
		PlacedAt:      w.PlacedAt,
		ResolvedAt:    w.ResolvedAt,
	}
}

func toTransactionResponse(t *store.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:        t.ID,
		AccountID: t.AccountID,
		Kind:      string(t.Kind),
		Amount:    t.Amount.StringFixed(2),
		Status:    string(t.Status),
		Method:    t.Method,
		WagerID:   t.WagerID,
		CreatedAt: t.CreatedAt,
	}
}
