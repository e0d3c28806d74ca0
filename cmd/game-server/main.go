package main

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"color-crack/internal/account"
	"color-crack/internal/app/player"
	"color-crack/internal/config"
	"color-crack/internal/logging"
	"color-crack/internal/outcome"
	"color-crack/internal/store"
	"color-crack/internal/store/memory"
	"color-crack/internal/store/postgres"
	"color-crack/internal/wager"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(logCfg); err != nil {
		panic(err)
	}
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("load server config failed")
	}
	gameCfg, err := config.LoadGame()
	if err != nil {
		log.Fatal().Err(err).Msg("load game config failed")
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("store ping failed")
	}

	seedDemoAccount(st, cfg)

	accounts := account.New(st)
	engine := wager.NewEngine(st, accounts, outcome.NewUniform(gameCfg.Categories), wager.Config{
		PayoutMultiplier: mustDecimal(gameCfg.PayoutMultiplier),
		Categories:       gameCfg.Categories,
		MinimumStake:     mustDecimal(gameCfg.MinimumStake),
	})
	svc := player.NewService(accounts, engine, player.Config{
		MinDeposit:  mustDecimal(gameCfg.MinimumDeposit),
		MinWithdraw: mustDecimal(gameCfg.MinimumWithdraw),
	})

	r := newRouter(st, cfg, svc)
	logRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}

func openStore(cfg config.ServerConfig) (store.Store, error) {
	if cfg.PostgresDSN == "" {
		log.Info().Msg("no POSTGRES_DSN, using in-memory ledger store")
		return memory.New(), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pg, err := postgres.New(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	return pg, nil
}

func seedDemoAccount(st store.Store, cfg config.ServerConfig) {
	if cfg.DemoAccountName == "" {
		return
	}
	initial := mustDecimal(cfg.DemoInitialBalance)
	acct, err := st.EnsureAccount(context.Background(), cfg.DemoAccountName, initial)
	if err != nil {
		log.Error().Err(err).Msg("seed demo account failed")
		return
	}
	log.Info().
		Str("account_id", acct.ID).
		Str("balance", acct.Balance.StringFixed(2)).
		Msg("demo account ready")
}

func mustDecimal(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Fatal().Err(err).Str("value", raw).Msg("bad decimal in config")
	}
	return d
}

func logRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 16)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
