package config

import "github.com/caarlos0/env/v11"

// EngineConfig points at the chain-engine service that runs the agents
// and owns their wallets. The dashboard never talks to a chain itself.
type EngineConfig struct {
	BaseURL    string `env:"ENGINE_BASE_URL,required,notEmpty"`
	ServiceKey string `env:"ENGINE_SERVICE_KEY"`
	TimeoutSec int    `env:"ENGINE_TIMEOUT_SECONDS" envDefault:"10"`
	MaxRetries int    `env:"ENGINE_MAX_RETRIES" envDefault:"3"`
}

func LoadEngine() (EngineConfig, error) {
	var cfg EngineConfig
	err := env.Parse(&cfg)
	return cfg, err
}
