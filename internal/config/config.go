package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
)

const devSessionSecret = "dev-secret-change-in-production"

// Config holds the runtime configuration, populated from the environment.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"ENV" envDefault:"development"`

	// DatabaseDriver selects the storage backend: "mysql" or "sqlite".
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"mysql"`
	DatabaseDSN    string `env:"DATABASE_DSN" envDefault:"root:password@tcp(127.0.0.1:3306)/taskflow"`

	SessionSecret string        `env:"SESSION_SECRET" envDefault:"dev-secret-change-in-production"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Env == "production" && cfg.SessionSecret == devSessionSecret {
		slog.Error("SESSION_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg, nil
}

// Production reports whether the app runs in production mode; it controls the
// session cookie's Secure attribute.
func (c Config) Production() bool {
	return c.Env == "production"
}
