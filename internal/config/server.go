package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	// Chain assumed for catalog lookups when a request carries none.
	DefaultChainID string `env:"DEFAULT_CHAIN_ID" envDefault:"base-sepolia"`

	// Grants access to /api/debug. Empty leaves the debug routes open,
	// so set it anywhere the server is reachable.
	AdminKey string `env:"ADMIN_API_KEY"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
