package main

import (
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/xerrors"
)

// Config is the configuration of the command read from the environment. The
// values are the defaults of the global flags.
type Config struct {
	Network     string        `env:"NEARAPI_NETWORK" envDefault:"testnet"`
	NetworkFile string        `env:"NEARAPI_NETWORK_FILE"`
	Cache       string        `env:"NEARAPI_CACHE"`
	Timeout     time.Duration `env:"NEARAPI_TIMEOUT" envDefault:"30s"`
	Tracing     bool          `env:"NEARAPI_TRACING"`
}

// LoadConfig parses the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config

	err := env.Parse(&cfg)
	if err != nil {
		return cfg, xerrors.Errorf("parse env: %v", err)
	}

	if cfg.Timeout < 0 {
		return cfg, xerrors.Errorf("invalid timeout %v", cfg.Timeout)
	}

	return cfg, nil
}
