// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full service configuration. DatabaseURL selects the Postgres
// backend when set; otherwise state goes to the SQLite file at SQLitePath.
type Config struct {
	Port       string   `env:"PORT" envDefault:"8080"`
	JWTSecret  string   `env:"JWT_SECRET,required"`
	CORSOrigin []string `env:"CORS_ORIGIN" envSeparator:","`

	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"eco-unity.db"`

	// Optional YAML file overriding the compiled-in campaign templates.
	TemplatesPath string `env:"CAMPAIGN_TEMPLATES"`
	// Fixed catalog seed for reproducible runs; 0 seeds from the clock.
	CatalogSeed int64 `env:"CATALOG_SEED"`

	WAQIBaseURL   string        `env:"WAQI_BASE_URL" envDefault:"https://api.waqi.info"`
	WAQIToken     string        `env:"WAQI_TOKEN" envDefault:"demo"`
	ClimateAPIURL string        `env:"CLIMATE_API_URL" envDefault:"https://global-warming.org/api"`
	FeedTimeout   time.Duration `env:"FEED_TIMEOUT" envDefault:"5s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
