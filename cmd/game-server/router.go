package main

import (
	"encoding/json"
	"expvar"
	"net/http"

	"color-crack/internal/app/player"
	"color-crack/internal/config"
	"color-crack/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func newRouter(st store.Store, cfg config.ServerConfig, svc *player.Service) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(apiLogMiddleware()).Get("/healthz", healthHandler(st))

	r.Route("/api", func(r chi.Router) {
		r.Use(apiLogMiddleware())
		r.Use(bodyCaptureMiddleware(4096))

		r.Post("/accounts", registerHandler(svc))
		r.Get("/accounts/{account_id}", accountHandler(svc))
		r.Get("/accounts/{account_id}/balance", balanceHandler(svc))
		r.Get("/accounts/{account_id}/stats", statsHandler(svc))
		r.Get("/accounts/{account_id}/wagers", wagersHandler(svc))
		r.Get("/accounts/{account_id}/transactions", transactionsHandler(svc))
		r.Post("/accounts/{account_id}/deposit", depositHandler(svc))
		r.Post("/accounts/{account_id}/withdraw", withdrawHandler(svc))

		r.Post("/wagers", placeWagerHandler(svc))
		r.Post("/wagers/{wager_id}/resolve", resolveWagerHandler(svc))
		r.Get("/wagers/{wager_id}", getWagerHandler(svc))

		r.Group(func(r chi.Router) {
			r.Use(adminAuthMiddleware(cfg.AdminAPIKey))
			r.Get("/debug/vars", expvar.Handler().ServeHTTP)
		})
	})

	return r
}

func healthHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "store": "down"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "store": "up"})
	}
}

func adminAuthMiddleware(adminKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey != "" && !checkAdminAuth(r, adminKey) {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func checkAdminAuth(r *http.Request, adminKey string) bool {
	if v := r.Header.Get("X-Admin-Key"); v == adminKey {
		return true
	}
	auth := r.Header.Get("Authorization")
	prefix := "Bearer "
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):] == adminKey
	}
	return false
}
