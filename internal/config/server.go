package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	// Empty DSN selects the in-memory ledger store.
	PostgresDSN string `env:"POSTGRES_DSN"`

	AdminAPIKey string `env:"ADMIN_API_KEY"`

	DemoAccountName    string `env:"DEMO_ACCOUNT_NAME" envDefault:"demo"`
	DemoInitialBalance string `env:"DEMO_INITIAL_BALANCE" envDefault:"1250.00"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
