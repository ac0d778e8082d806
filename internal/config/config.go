package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the full service configuration, populated from BOOKIFY_*
// environment variables with .env.local layered underneath for local runs.
type Config struct {
	Addr        string `default:":8080"`
	Environment string `default:"development"`

	// CatalogSource is the location of the raw catalog document: a local
	// path or an http(s) URL.
	CatalogSource string `split_words:"true" default:"books.xml"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	TokenTTL  time.Duration `split_words:"true" default:"24h"`

	RateLimitRPS   float64 `split_words:"true" default:"20"`
	RateLimitBurst int     `split_words:"true" default:"40"`

	AllowedOrigins []string `split_words:"true" default:"http://localhost:3000"`

	Store StoreConfig
}

// StoreConfig selects and configures the session key-value backend.
type StoreConfig struct {
	// Backend is one of: sqlite, redis, memory.
	Backend    string `default:"sqlite"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"bookify.db"`
	RedisURL   string `split_words:"true" default:"redis://localhost:6379/0"`
}

// Load reads configuration from the environment. A missing .env.local
// is fine; explicit environment variables always win.
func Load() (Config, error) {
	_ = godotenv.Load(".env.local")

	var cfg Config
	if err := envconfig.Process("bookify", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
