package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	appenv "github.com/garrettladley/moyo/internal/env"
)

const DefaultServerURL = "http://localhost:8080"

type Config struct {
	ServerURL string             `env:"SERVER_URL" envDefault:"http://localhost:8080"`
	Env       appenv.Environment `env:"ENV" envDefault:"production"`
}

// Read loads the CLI configuration from MOYO_* variables.
func Read() (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: "MOYO_"})
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
