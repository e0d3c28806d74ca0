package store

import (
	"time"

	"github.com/shopspring/decimal"
)

type TxKind string

const (
	TxDebitStake   TxKind = "debit_stake"
	TxCreditPayout TxKind = "credit_payout"
	TxDeposit      TxKind = "deposit"
	TxWithdraw     TxKind = "withdraw"
)

// Debits reports whether the kind decreases the balance.
func (k TxKind) Debits() bool {
	return k == TxDebitStake || k == TxWithdraw
}

type TxStatus string

// Pending and Failed exist for an external settlement rail; the
// reference flows settle immediately and only ever write Completed.
const (
	TxPending   TxStatus = "pending"
	TxCompleted TxStatus = "completed"
	TxFailed    TxStatus = "failed"
)

type WagerStatus string

const (
	WagerPlaced   WagerStatus = "placed"
	WagerResolved WagerStatus = "resolved"
)

type Account struct {
	ID        string
	Name      string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Wager struct {
	ID            string
	Number        string
	AccountID     string
	Category      string
	Stake         decimal.Decimal
	Status        WagerStatus
	Outcome       string // empty until resolved
	Payout        decimal.Decimal
	IsWin         bool
	FairnessToken string
	PlacedAt      time.Time
	ResolvedAt    *time.Time
}

type Transaction struct {
	ID        string
	AccountID string
	Kind      TxKind
	Amount    decimal.Decimal
	Status    TxStatus
	Method    string
	WagerID   string
	CreatedAt time.Time
}

type AccountStats struct {
	TotalWagers   int
	TotalWins     int
	WinRate       int // percent, rounded
	TotalWinnings decimal.Decimal
	BestWin       decimal.Decimal
}
