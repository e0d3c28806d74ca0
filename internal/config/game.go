package config

import "github.com/caarlos0/env/v11"

// GameConfig carries the wagering policy. Monetary values stay strings
// here; main parses them into decimals when wiring the engine.
type GameConfig struct {
	PayoutMultiplier string   `env:"PAYOUT_MULTIPLIER" envDefault:"2"`
	Categories       []string `env:"CATEGORIES" envDefault:"red,green,blue"`
	MinimumStake     string   `env:"MINIMUM_STAKE" envDefault:"10.00"`
	MinimumDeposit   string   `env:"MINIMUM_DEPOSIT" envDefault:"100.00"`
	MinimumWithdraw  string   `env:"MINIMUM_WITHDRAW" envDefault:"250.00"`
}

func LoadGame() (GameConfig, error) {
	var cfg GameConfig
	err := env.Parse(&cfg)
	return cfg, err
}
