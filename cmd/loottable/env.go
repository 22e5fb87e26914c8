package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// eth backend
	RPCURL          string `env:"RPC_URL" envDefault:"http://127.0.0.1:8545"`
	ContractAddress string `env:"CONTRACT_ADDRESS"`

	// Hex private key; optional. Without it the client is read-only and
	// cannot sign reveal challenges.
	PrivateKey string `env:"PRIVATE_KEY"`

	// "eth" or "sqlite"
	LedgerBackend string `env:"LEDGER_BACKEND" envDefault:"eth"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"data/ledger.db"`
	// Chain id used in reveal challenges when the sqlite backend is
	// selected; the eth backend discovers it from the endpoint.
	ChainID int64 `env:"CHAIN_ID" envDefault:"0"`

	SessionDays int `env:"SESSION_DAYS" envDefault:"30"`
}

func LoadConfig() (*Config, error) {
	// .env is optional; the environment itself may carry everything.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.LedgerBackend == "eth" && cfg.ContractAddress == "" {
		return nil, fmt.Errorf("No CONTRACT_ADDRESS in environment")
	}
	return cfg, nil
}
