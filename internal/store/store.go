package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Sentinel errors surfaced by every Store implementation. The services
// propagate these unchanged; the HTTP layer maps them to status codes.
var (
	ErrAccountNotFound   = errors.New("account_not_found")
	ErrWagerNotFound     = errors.New("wager_not_found")
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrAlreadyResolved   = errors.New("already_resolved")
)

// Store is the ledger: accounts, wagers and an append-only transaction
// log. Balances change only inside Store operations, each of which
// applies its balance change and its transaction append as one unit.
// Mutations on the same account are serialized; operations on different
// accounts may run in parallel.
type Store interface {
	CreateAccount(ctx context.Context, name string) (*Account, error)
	// EnsureAccount creates the named account with the given starting
	// balance unless one already exists, and returns it either way.
	EnsureAccount(ctx context.Context, name string, initial decimal.Decimal) (*Account, error)
	GetAccount(ctx context.Context, id string) (*Account, error)

	// Debit atomically decreases the balance and appends a Completed
	// transaction. Fails with ErrInsufficientFunds when amount exceeds
	// the balance; the balance is never observable negative.
	Debit(ctx context.Context, accountID string, amount decimal.Decimal, kind TxKind, method string) (*Transaction, error)
	// Credit atomically increases the balance and appends a Completed
	// transaction.
	Credit(ctx context.Context, accountID string, amount decimal.Decimal, kind TxKind, method string) (*Transaction, error)

	// PlaceWager debits the stake and records the wager in Placed
	// status as one unit: either both happen or neither does. The
	// debit transaction is linked to the wager.
	PlaceWager(ctx context.Context, w *Wager) (*Wager, *Transaction, error)
	// ResolveWager transitions the wager Placed->Resolved exactly
	// once, crediting the payout (when positive) in the same critical
	// section. A later call fails with ErrAlreadyResolved and leaves
	// the stored result untouched.
	ResolveWager(ctx context.Context, wagerID, outcome string, isWin bool, payout decimal.Decimal) (*Wager, *Transaction, error)
	GetWager(ctx context.Context, id string) (*Wager, error)

	ListWagers(ctx context.Context, accountID string, limit int) ([]Wager, error)
	ListTransactions(ctx context.Context, accountID string, limit int) ([]Transaction, error)
	AccountStats(ctx context.Context, accountID string) (*AccountStats, error)

	Ping(ctx context.Context) error
	Close()
}
