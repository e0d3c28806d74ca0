package main

import (
	"encoding/json"
	"errors"
	"expvar"
	"net/http"

	"color-crack/internal/app/player"
	"color-crack/internal/store"
	"color-crack/internal/wager"

	"github.com/go-chi/chi/v5"
)

var (
	wagersPlacedTotal   = expvar.NewInt("wagers_placed_total")
	wagersResolvedTotal = expvar.NewInt("wagers_resolved_total")
	wagersWonTotal      = expvar.NewInt("wagers_won_total")
	depositsTotal       = expvar.NewInt("deposits_total")
	withdrawalsTotal    = expvar.NewInt("withdrawals_total")
)

func registerHandler(svc *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body player.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		acct, err := svc.Register(r.Context(), body)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(acct)
	}
}

func accountHandler(svc *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acct, err := svc.Account(r.Context(), chi.URLParam(r, "account_id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(acct)
	}
}

func balanceHandler(svc *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		balance, err := svc.Balance(r.Context(), chi.URLParam(r, "account_id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(balance)
	}
}

func statsHandler(svc *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context(), chi.URLParam(r, "account_id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(stats)
	}
}

func wagersHandler(svc *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := svc.Wagers(r.Context(), chi.URLParam(r, "account_id"), parseLimit(r))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(page)
	}
}

func transactionsHandler(svc *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := svc.Transactions(r.Context(), chi.URLParam(r, "account_id"), parseLimit(r))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(page)
	}
}

func depositHandler(svc *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body player.AmountRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		tx, err := svc.Deposit(r.Context(), chi.URLParam(r, "account_id"), body)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		depositsTotal.Add(1)
		_ = json.NewEncoder(w).Encode(tx)
	}
}

func withdrawHandler(svc *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body player.AmountRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		tx, err := svc.Withdraw(r.Context(), chi.URLParam(r, "account_id"), body)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		withdrawalsTotal.Add(1)
		_ = json.NewEncoder(w).Encode(tx)
	}
}

func placeWagerHandler(svc *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body player.PlaceWagerRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		placed, err := svc.PlaceWager(r.Context(), body)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		wagersPlacedTotal.Add(1)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(placed)
	}
}

func resolveWagerHandler(svc *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resolved, err := svc.ResolveWager(r.Context(), chi.URLParam(r, "wager_id"))
		if errors.Is(err, store.ErrAlreadyResolved) {
			// Conflict, but the stored result still goes out so the
			// caller learns what the winning resolution committed.
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": "already_resolved",
				"wager": resolved,
			})
			return
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}
		wagersResolvedTotal.Add(1)
		if resolved.IsWin {
			wagersWonTotal.Add(1)
		}
		_ = json.NewEncoder(w).Encode(resolved)
	}
}

func getWagerHandler(svc *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found, err := svc.Wager(r.Context(), chi.URLParam(r, "wager_id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(found)
	}
}

// writeDomainError maps service errors to HTTP. The sentinel text
// doubles as the wire error code.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidAmount),
		errors.Is(err, store.ErrInsufficientFunds),
		errors.Is(err, wager.ErrStakeTooLow),
		errors.Is(err, wager.ErrInvalidCategory),
		errors.Is(err, player.ErrInvalidRequest):
		writeHTTPError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrAccountNotFound),
		errors.Is(err, store.ErrWagerNotFound):
		writeHTTPError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrAlreadyResolved):
		writeHTTPError(w, http.StatusConflict, err.Error())
	default:
		writeHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
