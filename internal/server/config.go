package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/garrettladley/moyo/internal/service/token"
)

type Config struct {
	// Calendar days follow time.Local, which the runtime takes from $TZ.
	Port string `env:"PORT" envDefault:"8080"`

	Database  DatabaseConfig  `envPrefix:"DATABASE_"`
	Redis     RedisConfig     `envPrefix:"REDIS_"`
	JWT       token.Config    `envPrefix:"JWT_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_"`
	Reminder  ReminderConfig  `envPrefix:"REMINDER_"`
	Shutdown  ShutdownConfig  `envPrefix:"SHUTDOWN_"`
}

type DatabaseConfig struct {
	URL string `env:"URL,required"`
	// MaxConns of zero keeps the pgxpool default.
	MaxConns int32 `env:"MAX_CONNS" envDefault:"0"`
}

type ShutdownConfig struct {
	// StreamGrace is how long open notification streams get to receive
	// their shutdown event before connections are closed.
	StreamGrace time.Duration `env:"STREAM_GRACE" envDefault:"2s"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type RedisConfig struct {
	// URL is optional; without it rate limits, the token denylist and live
	// notifications are kept in process.
	URL string `env:"URL"`
	// PoolSize of zero keeps the go-redis default.
	PoolSize    int           `env:"POOL_SIZE" envDefault:"0"`
	PingTimeout time.Duration `env:"PING_TIMEOUT" envDefault:"5s"`
}

type RateLimitConfig struct {
	// Limit is requests per second per IP.
	Limit int `env:"LIMIT" envDefault:"10"`
	Burst int `env:"BURST" envDefault:"20"`
}

type ReminderConfig struct {
	Enabled  bool          `env:"ENABLED" envDefault:"true"`
	Interval time.Duration `env:"INTERVAL" envDefault:"1m"`
}

func ReadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
