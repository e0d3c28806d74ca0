package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"color-crack/internal/store"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func seedAccount(t *testing.T, s *Store, balance string) *store.Account {
	t.Helper()
	acct, err := s.EnsureAccount(context.Background(), "tester", dec(t, balance))
	if err != nil {
		t.Fatalf("ensure account: %v", err)
	}
	return acct
}

// reconcile recomputes the balance from the completed transaction log.
func reconcile(t *testing.T, s *Store, accountID string) decimal.Decimal {
	t.Helper()
	txs, err := s.ListTransactions(context.Background(), accountID, 0)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	sum := decimal.Zero
	for _, tx := range txs {
		if tx.Status != store.TxCompleted {
			continue
		}
		if tx.Kind.Debits() {
			sum = sum.Sub(tx.Amount)
		} else {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum
}

func TestDebitCredit(t *testing.T) {
	s := New()
	acct := seedAccount(t, s, "100.00")
	ctx := context.Background()

	if _, err := s.Credit(ctx, acct.ID, dec(t, "50.00"), store.TxDeposit, "upi"); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if _, err := s.Debit(ctx, acct.ID, dec(t, "30.00"), store.TxWithdraw, ""); err != nil {
		t.Fatalf("debit: %v", err)
	}

	got, err := s.GetAccount(ctx, acct.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if !got.Balance.Equal(dec(t, "120.00")) {
		t.Fatalf("balance = %s, want 120.00", got.Balance)
	}
	// initial balance is seeded, not logged; net of logged txs is +20
	if net := reconcile(t, s, acct.ID); !net.Equal(dec(t, "20.00")) {
		t.Fatalf("reconciled net = %s, want 20.00", net)
	}
}

func TestDebitInsufficientFunds(t *testing.T) {
	s := New()
	acct := seedAccount(t, s, "150.00")

	_, err := s.Debit(context.Background(), acct.ID, dec(t, "200.00"), store.TxWithdraw, "")
	if !errors.Is(err, store.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	got, _ := s.GetAccount(context.Background(), acct.ID)
	if !got.Balance.Equal(dec(t, "150.00")) {
		t.Fatalf("balance changed on failed debit: %s", got.Balance)
	}
	txs, _ := s.ListTransactions(context.Background(), acct.ID, 0)
	if len(txs) != 0 {
		t.Fatalf("expected no transactions after failed debit, got %d", len(txs))
	}
}

func TestAmountValidation(t *testing.T) {
	s := New()
	acct := seedAccount(t, s, "100.00")
	ctx := context.Background()

	tests := []struct {
		name   string
		amount string
	}{
		{name: "zero", amount: "0"},
		{name: "negative", amount: "-5.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Credit(ctx, acct.ID, dec(t, tt.amount), store.TxDeposit, ""); !errors.Is(err, store.ErrInvalidAmount) {
				t.Fatalf("credit err = %v, want ErrInvalidAmount", err)
			}
			if _, err := s.Debit(ctx, acct.ID, dec(t, tt.amount), store.TxWithdraw, ""); !errors.Is(err, store.ErrInvalidAmount) {
				t.Fatalf("debit err = %v, want ErrInvalidAmount", err)
			}
		})
	}
}

func TestAccountNotFound(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, err := s.GetAccount(ctx, "missing"); !errors.Is(err, store.ErrAccountNotFound) {
		t.Fatalf("get err = %v, want ErrAccountNotFound", err)
	}
	if _, err := s.Credit(ctx, "missing", dec(t, "10.00"), store.TxDeposit, ""); !errors.Is(err, store.ErrAccountNotFound) {
		t.Fatalf("credit err = %v, want ErrAccountNotFound", err)
	}
}

func TestPlaceWagerDebitsStakeOnce(t *testing.T) {
	s := New()
	acct := seedAccount(t, s, "1250.00")
	ctx := context.Background()

	w, tx, err := s.PlaceWager(ctx, &store.Wager{
		AccountID:     acct.ID,
		Number:        store.NewWagerNumber(),
		Category:      "red",
		Stake:         dec(t, "100.00"),
		FairnessToken: "tok",
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if w.Status != store.WagerPlaced {
		t.Fatalf("status = %s, want placed", w.Status)
	}
	if tx.Kind != store.TxDebitStake || tx.WagerID != w.ID {
		t.Fatalf("debit tx not linked: kind=%s wager=%s", tx.Kind, tx.WagerID)
	}
	got, _ := s.GetAccount(ctx, acct.ID)
	if !got.Balance.Equal(dec(t, "1150.00")) {
		t.Fatalf("balance = %s, want 1150.00", got.Balance)
	}
}

func TestPlaceWagerInsufficientHasNoEffect(t *testing.T) {
	s := New()
	acct := seedAccount(t, s, "50.00")
	ctx := context.Background()

	_, _, err := s.PlaceWager(ctx, &store.Wager{AccountID: acct.ID, Category: "red", Stake: dec(t, "100.00")})
	if !errors.Is(err, store.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	wagers, _ := s.ListWagers(ctx, acct.ID, 0)
	if len(wagers) != 0 {
		t.Fatalf("expected no wagers, got %d", len(wagers))
	}
	txs, _ := s.ListTransactions(ctx, acct.ID, 0)
	if len(txs) != 0 {
		t.Fatalf("expected no transactions, got %d", len(txs))
	}
}

func TestResolveWagerWin(t *testing.T) {
	s := New()
	acct := seedAccount(t, s, "1250.00")
	ctx := context.Background()

	w, _, err := s.PlaceWager(ctx, &store.Wager{AccountID: acct.ID, Category: "red", Stake: dec(t, "100.00")})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	res, tx, err := s.ResolveWager(ctx, w.ID, "red", true, dec(t, "200.00"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Status != store.WagerResolved || !res.IsWin || res.Outcome != "red" {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	if res.ResolvedAt == nil {
		t.Fatal("resolved_at not set")
	}
	if tx == nil || tx.Kind != store.TxCreditPayout || tx.WagerID != w.ID {
		t.Fatalf("payout tx not linked: %+v", tx)
	}
	got, _ := s.GetAccount(ctx, acct.ID)
	if !got.Balance.Equal(dec(t, "1350.00")) {
		t.Fatalf("balance = %s, want 1350.00", got.Balance)
	}
}

func TestResolveWagerLossCreatesNoCredit(t *testing.T) {
	s := New()
	acct := seedAccount(t, s, "1250.00")
	ctx := context.Background()

	w, _, _ := s.PlaceWager(ctx, &store.Wager{AccountID: acct.ID, Category: "red", Stake: dec(t, "100.00")})
	res, tx, err := s.ResolveWager(ctx, w.ID, "blue", false, decimal.Zero)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.IsWin || !res.Payout.IsZero() {
		t.Fatalf("loss resolution wrong: win=%v payout=%s", res.IsWin, res.Payout)
	}
	if tx != nil {
		t.Fatalf("expected no credit tx on loss, got %+v", tx)
	}
	got, _ := s.GetAccount(ctx, acct.ID)
	if !got.Balance.Equal(dec(t, "1150.00")) {
		t.Fatalf("balance = %s, want 1150.00", got.Balance)
	}
	txs, _ := s.ListTransactions(ctx, acct.ID, 0)
	if len(txs) != 1 {
		t.Fatalf("expected only the stake debit, got %d txs", len(txs))
	}
}

func TestResolveWagerExactlyOnce(t *testing.T) {
	s := New()
	acct := seedAccount(t, s, "1250.00")
	ctx := context.Background()

	w, _, _ := s.PlaceWager(ctx, &store.Wager{AccountID: acct.ID, Category: "red", Stake: dec(t, "100.00")})
	first, _, err := s.ResolveWager(ctx, w.ID, "red", true, dec(t, "200.00"))
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, tx, err := s.ResolveWager(ctx, w.ID, "blue", false, decimal.Zero)
	if !errors.Is(err, store.ErrAlreadyResolved) {
		t.Fatalf("second resolve err = %v, want ErrAlreadyResolved", err)
	}
	if tx != nil {
		t.Fatal("second resolve produced a transaction")
	}
	if second.Outcome != first.Outcome || !second.Payout.Equal(first.Payout) {
		t.Fatalf("second resolve returned different result: %+v vs %+v", second, first)
	}
}

func TestResolveWagerConcurrent(t *testing.T) {
	s := New()
	acct := seedAccount(t, s, "1250.00")
	ctx := context.Background()

	w, _, _ := s.PlaceWager(ctx, &store.Wager{AccountID: acct.ID, Category: "red", Stake: dec(t, "100.00")})

	const callers = 16
	var wg sync.WaitGroup
	applied := make(chan struct{}, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.ResolveWager(ctx, w.ID, "red", true, dec(t, "200.00"))
			if err == nil {
				applied <- struct{}{}
			} else if !errors.Is(err, store.ErrAlreadyResolved) {
				t.Errorf("unexpected resolve error: %v", err)
			}
		}()
	}
	wg.Wait()
	close(applied)
	wins := 0
	for range applied {
		wins++
	}
	if wins != 1 {
		t.Fatalf("resolution applied %d times, want 1", wins)
	}
	got, _ := s.GetAccount(ctx, acct.ID)
	if !got.Balance.Equal(dec(t, "1350.00")) {
		t.Fatalf("balance = %s, want 1350.00 (single credit)", got.Balance)
	}
	credits := 0
	txs, _ := s.ListTransactions(ctx, acct.ID, 0)
	for _, tx := range txs {
		if tx.Kind == store.TxCreditPayout {
			credits++
		}
	}
	if credits != 1 {
		t.Fatalf("credit transactions = %d, want 1", credits)
	}
}

func TestConcurrentPlacementsDrainBalanceExactly(t *testing.T) {
	s := New()
	acct := seedAccount(t, s, "300.00")
	ctx := context.Background()

	const attempts = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, refused := 0, 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.PlaceWager(ctx, &store.Wager{AccountID: acct.ID, Category: "green", Stake: dec(t, "10.00")})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, store.ErrInsufficientFunds):
				refused++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 30 || refused != 20 {
		t.Fatalf("succeeded=%d refused=%d, want 30/20", succeeded, refused)
	}
	got, _ := s.GetAccount(ctx, acct.ID)
	if !got.Balance.IsZero() {
		t.Fatalf("final balance = %s, want 0", got.Balance)
	}
	txs, _ := s.ListTransactions(ctx, acct.ID, 0)
	if len(txs) != 30 {
		t.Fatalf("debit transactions = %d, want 30", len(txs))
	}
}

func TestHistoriesNewestFirst(t *testing.T) {
	s := New()
	acct := seedAccount(t, s, "1000.00")
	ctx := context.Background()

	for _, amount := range []string{"100.00", "200.00", "300.00"} {
		if _, err := s.Credit(ctx, acct.ID, dec(t, amount), store.TxDeposit, ""); err != nil {
			t.Fatalf("credit: %v", err)
		}
	}
	txs, err := s.ListTransactions(ctx, acct.ID, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("len = %d, want 2", len(txs))
	}
	if !txs[0].Amount.Equal(dec(t, "300.00")) || !txs[1].Amount.Equal(dec(t, "200.00")) {
		t.Fatalf("unexpected order: %s, %s", txs[0].Amount, txs[1].Amount)
	}
}

func TestAccountStats(t *testing.T) {
	s := New()
	acct := seedAccount(t, s, "1000.00")
	ctx := context.Background()

	w1, _, _ := s.PlaceWager(ctx, &store.Wager{AccountID: acct.ID, Category: "red", Stake: dec(t, "50.00")})
	w2, _, _ := s.PlaceWager(ctx, &store.Wager{AccountID: acct.ID, Category: "red", Stake: dec(t, "20.00")})
	w3, _, _ := s.PlaceWager(ctx, &store.Wager{AccountID: acct.ID, Category: "blue", Stake: dec(t, "30.00")})
	s.ResolveWager(ctx, w1.ID, "red", true, dec(t, "100.00"))
	s.ResolveWager(ctx, w2.ID, "green", false, decimal.Zero)
	s.ResolveWager(ctx, w3.ID, "blue", true, dec(t, "60.00"))

	stats, err := s.AccountStats(ctx, acct.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalWagers != 3 || stats.TotalWins != 2 {
		t.Fatalf("wagers=%d wins=%d, want 3/2", stats.TotalWagers, stats.TotalWins)
	}
	if stats.WinRate != 67 {
		t.Fatalf("win rate = %d, want 67", stats.WinRate)
	}
	if !stats.TotalWinnings.Equal(dec(t, "160.00")) {
		t.Fatalf("total winnings = %s, want 160.00", stats.TotalWinnings)
	}
	if !stats.BestWin.Equal(dec(t, "100.00")) {
		t.Fatalf("best win = %s, want 100.00", stats.BestWin)
	}
}
