package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Auth gate modes. Marker accepts any bearer credential; jwt verifies
// HS256-signed tokens issued by the /auth endpoints.
const (
	AuthModeMarker = "marker"
	AuthModeJWT    = "jwt"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	Service string `env:"SERVICE_NAME" envDefault:"catalog"`

	// DatabaseURL switches both stores from memory to postgres when set.
	DatabaseURL string `env:"DATABASE_URL"`

	AuthMode  string `env:"AUTH_MODE" envDefault:"marker"`
	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret"`

	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"false"`
	MetricsToken   string `env:"METRICS_TOKEN"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.AuthMode != AuthModeMarker && cfg.AuthMode != AuthModeJWT {
		return Config{}, fmt.Errorf("invalid AUTH_MODE %q", cfg.AuthMode)
	}

	return cfg, nil
}
