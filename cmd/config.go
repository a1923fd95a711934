package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/ghodss/yaml"
)

// Config is the CLI configuration: the YAML file is read first, then
// environment variables override it.
type Config struct {
	DBFile       string        `json:"db_file" env:"LEDGER_DB"`
	MainCurrency string        `json:"main_currency" env:"LEDGER_CURRENCY"`
	CostBasis    string        `json:"cost_basis" env:"LEDGER_COST_BASIS"`
	QuoteTimeout time.Duration `json:"quote_timeout" env:"LEDGER_QUOTE_TIMEOUT"`
}

// LoadConfig reads the config file when it exists and applies the
// environment on top. A missing file is not an error, the defaults and
// the environment are enough to run.
func LoadConfig(filename string) (*Config, error) {
	cfg := Config{
		DBFile:       "ledger.db",
		CostBasis:    "average",
		QuoteTimeout: 10 * time.Second,
	}

	raw, err := os.ReadFile(filename)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading config %q: %w", filename, err)
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %q: %w", filename, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
