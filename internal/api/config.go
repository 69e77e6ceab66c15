package api

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config controls the HTTP server. Values are read from the environment
// at startup; serve flags override them.
type Config struct {
	Addr            string        `env:"STORYFORGE_HTTP_ADDR"             envDefault:"127.0.0.1:8000"`
	ShutdownTimeout time.Duration `env:"STORYFORGE_HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CookieSecure    bool          `env:"STORYFORGE_COOKIE_SECURE"         envDefault:"false"`
}

// LoadConfigFromEnv loads server configuration from environment variables.
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
