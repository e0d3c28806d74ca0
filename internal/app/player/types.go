package player

import "time"

type RegisterRequest struct {
	Name string `json:"name"`
}

type PlaceWagerRequest struct {
	AccountID string `json:"account_id"`
	Category  string `json:"category"`
	Stake     string `json:"stake"`
}

type AmountRequest struct {
	Amount string `json:"amount"`
	Method string `json:"method,omitempty"`
}

type AccountResponse struct {
	ID        string    `json:"account_id"`
	Name      string    `json:"name"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

type WagerResponse struct {
	ID            string     `json:"wager_id"`
	Number        string     `json:"number"`
	AccountID     string     `json:"account_id"`
	Category      string     `json:"category"`
	Stake         string     `json:"stake"`
	Status        string     `json:"status"`
	Outcome       string     `json:"outcome,omitempty"`
	Payout        string     `json:"payout"`
	IsWin         bool       `json:"is_win"`
	FairnessToken string     `json:"fairness_token"`
	PlacedAt      time.Time  `json:"placed_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}

type TransactionResponse struct {
	ID        string    `json:"transaction_id"`
	AccountID string    `json:"account_id"`
	Kind      string    `json:"kind"`
	Amount    string    `json:"amount"`
	Status    string    `json:"status"`
	Method    string    `json:"method,omitempty"`
	WagerID   string    `json:"wager_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type StatsResponse struct {
	TotalWagers   int    `json:"total_wagers"`
	TotalWins     int    `json:"total_wins"`
	WinRate       int    `json:"win_rate"`
	TotalWinnings string `json:"total_winnings"`
	BestWin       string `json:"best_win"`
}

type WagersResponse struct {
	Items []WagerResponse `json:"items"`
	Limit int             `json:"limit"`
}

type TransactionsResponse struct {
	Items []TransactionResponse `json:"items"`
	Limit int                   `json:"limit"`
}

type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
}
