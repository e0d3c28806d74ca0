// Package wager owns the wager lifecycle: Placed -> Resolved, exactly
// once. The engine validates requests, draws from the outcome source
// and computes the payout; every balance change goes through the
// account service, which applies it atomically with the wager state.
package wager

import (
	"context"
	"errors"
	"slices"

	"color-crack/internal/account"
	"color-crack/internal/outcome"
	"color-crack/internal/store"

	"github.com/shopspring/decimal"
)

var (
	ErrStakeTooLow     = errors.New("stake_too_low")
	ErrInvalidCategory = errors.New("invalid_category")
)

type Config struct {
	PayoutMultiplier decimal.Decimal
	Categories       []string
	MinimumStake     decimal.Decimal
}

type Engine struct {
	store    store.Store
	accounts *account.Service
	source   outcome.Source
	cfg      Config
}

func NewEngine(st store.Store, accounts *account.Service, source outcome.Source, cfg Config) *Engine {
	return &Engine{store: st, accounts: accounts, source: source, cfg: cfg}
}

func (e *Engine) Config() Config { return e.cfg }

// Place validates the stake and category, then reserves the stake and
// records the wager with a fresh fairness token. The debit and the
// wager creation either both happen or neither does.
func (e *Engine) Place(ctx context.Context, accountID, category string, stake decimal.Decimal) (*store.Wager, error) {
	if stake.LessThan(e.cfg.MinimumStake) {
		return nil, ErrStakeTooLow
	}
	if !slices.Contains(e.cfg.Categories, category) {
		return nil, ErrInvalidCategory
	}
	w := &store.Wager{
		ID:            store.NewID(),
		Number:        store.NewWagerNumber(),
		AccountID:     accountID,
		Category:      category,
		Stake:         stake,
		FairnessToken: outcome.NewFairnessToken(),
	}
	placed, _, err := e.accounts.StakeWager(ctx, w)
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// Resolve draws one outcome and settles the wager exactly once. A
// wager that is already resolved returns the stored result together
// with ErrAlreadyResolved; nothing is recomputed or re-credited, even
// when two calls race.
func (e *Engine) Resolve(ctx context.Context, wagerID string) (*store.Wager, error) {
	w, err := e.store.GetWager(ctx, wagerID)
	if err != nil {
		return nil, err
	}
	if w.Status == store.WagerResolved {
		return w, store.ErrAlreadyResolved
	}

	drawn := e.source.Draw()
	isWin := drawn == w.Category
	payout := decimal.Zero
	if isWin {
		payout = w.Stake.Mul(e.cfg.PayoutMultiplier)
	}

	resolved, _, err := e.accounts.SettleWager(ctx, w.ID, drawn, isWin, payout)
	if errors.Is(err, store.ErrAlreadyResolved) {
		// Lost the race: return whatever the winner committed.
		return resolved, store.ErrAlreadyResolved
	}
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

func (e *Engine) Get(ctx context.Context, wagerID string) (*store.Wager, error) {
	return e.store.GetWager(ctx, wagerID)
}

func (e *Engine) History(ctx context.Context, accountID string, limit int) ([]store.Wager, error) {
	return e.store.ListWagers(ctx, accountID, limit)
}
