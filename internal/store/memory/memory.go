// Package memory implements the ledger store on process-local maps with
// an append-only transaction log. Each account has its own lock, so
// mutations on one account serialize while other accounts proceed in
// parallel. The store is built explicitly at startup and handed to the
// services; nothing reaches the maps except through its methods.
package memory

import (
	"context"
	"sync"
	"time"

	"color-crack/internal/store"

	"github.com/shopspring/decimal"
)

type Store struct {
	mu            sync.Mutex // guards every map and the log
	accounts      map[string]*store.Account
	accountByName map[string]string
	wagers        map[string]*store.Wager
	wagersByAcct  map[string][]string
	txlog         []*store.Transaction
	txByAcct      map[string][]int

	accountLocks map[string]*sync.Mutex
	wagerLocks   map[string]*sync.Mutex
}

func New() *Store {
	return &Store{
		accounts:      make(map[string]*store.Account),
		accountByName: make(map[string]string),
		wagers:        make(map[string]*store.Wager),
		wagersByAcct:  make(map[string][]string),
		txByAcct:      make(map[string][]int),
		accountLocks:  make(map[string]*sync.Mutex),
		wagerLocks:    make(map[string]*sync.Mutex),
	}
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() {}

// accountLock returns the per-account mutex, creating it on first use.
// Callers lock it before touching the account's balance so the debit /
// credit history of one account is linearizable.
func (s *Store) accountLock(accountID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.accountLocks[accountID]
	if !ok {
		l = &sync.Mutex{}
		s.accountLocks[accountID] = l
	}
	return l
}

func (s *Store) wagerLock(wagerID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.wagerLocks[wagerID]
	if !ok {
		l = &sync.Mutex{}
		s.wagerLocks[wagerID] = l
	}
	return l
}

func (s *Store) CreateAccount(ctx context.Context, name string) (*store.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	acct := &store.Account{
		ID:        store.NewID(),
		Name:      name,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.accounts[acct.ID] = acct
	if name != "" {
		s.accountByName[name] = acct.ID
	}
	return cloneAccount(acct), nil
}

func (s *Store) EnsureAccount(ctx context.Context, name string, initial decimal.Decimal) (*store.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.accountByName[name]; ok {
		return cloneAccount(s.accounts[id]), nil
	}
	now := time.Now().UTC()
	acct := &store.Account{
		ID:        store.NewID(),
		Name:      name,
		Balance:   initial,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.accounts[acct.ID] = acct
	s.accountByName[name] = acct.ID
	return cloneAccount(acct), nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (*store.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	return cloneAccount(acct), nil
}

func (s *Store) Debit(ctx context.Context, accountID string, amount decimal.Decimal, kind store.TxKind, method string) (*store.Transaction, error) {
	if amount.Sign() <= 0 {
		return nil, store.ErrInvalidAmount
	}
	al := s.accountLock(accountID)
	al.Lock()
	defer al.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[accountID]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	if acct.Balance.LessThan(amount) {
		return nil, store.ErrInsufficientFunds
	}
	acct.Balance = acct.Balance.Sub(amount)
	acct.UpdatedAt = time.Now().UTC()
	tx := s.appendTx(accountID, kind, amount, method, "")
	return cloneTx(tx), nil
}

func (s *Store) Credit(ctx context.Context, accountID string, amount decimal.Decimal, kind store.TxKind, method string) (*store.Transaction, error) {
	if amount.Sign() <= 0 {
		return nil, store.ErrInvalidAmount
	}
	al := s.accountLock(accountID)
	al.Lock()
	defer al.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[accountID]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	acct.Balance = acct.Balance.Add(amount)
	acct.UpdatedAt = time.Now().UTC()
	tx := s.appendTx(accountID, kind, amount, method, "")
	return cloneTx(tx), nil
}

func (s *Store) ListTransactions(ctx context.Context, accountID string, limit int) ([]store.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[accountID]; !ok {
		return nil, store.ErrAccountNotFound
	}
	idxs := s.txByAcct[accountID]
	if limit <= 0 || limit > len(idxs) {
		limit = len(idxs)
	}
	// newest first
	out := make([]store.Transaction, 0, limit)
	for i := len(idxs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *cloneTx(s.txlog[idxs[i]]))
	}
	return out, nil
}

// appendTx records a Completed transaction on the log. Callers hold
// both the account lock and s.mu.
func (s *Store) appendTx(accountID string, kind store.TxKind, amount decimal.Decimal, method, wagerID string) *store.Transaction {
	tx := &store.Transaction{
		ID:        store.NewID(),
		AccountID: accountID,
		Kind:      kind,
		Amount:    amount,
		Status:    store.TxCompleted,
		Method:    method,
		WagerID:   wagerID,
		CreatedAt: time.Now().UTC(),
	}
	s.txlog = append(s.txlog, tx)
	s.txByAcct[accountID] = append(s.txByAcct[accountID], len(s.txlog)-1)
	return tx
}

func cloneAccount(a *store.Account) *store.Account {
	c := *a
	return &c
}

func cloneTx(t *store.Transaction) *store.Transaction {
	c := *t
	return &c
}

func cloneWager(w *store.Wager) *store.Wager {
	c := *w
	if w.ResolvedAt != nil {
		ts := *w.ResolvedAt
		c.ResolvedAt = &ts
	}
	return &c
}
