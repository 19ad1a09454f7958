package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	API        API        `yaml:"api"`
	Session    Session    `yaml:"session"`
	Listing    Listing    `yaml:"listing"`
	Upload     Upload     `yaml:"upload"`
	Import     Import     `yaml:"import"`

	// DemoFallback substitutes bundled sample data when the API is unreachable.
	DemoFallback bool `yaml:"demo_fallback" env:"DEMO_FALLBACK" env-default:"false"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type API struct {
	BaseURL string        `yaml:"base_url" env:"API_BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"10s"`
}

type Session struct {
	Secret string `yaml:"secret" env:"SESSION_SECRET"`
	Name   string `yaml:"name" env:"SESSION_NAME" env-default:"newsdesk"`
	MaxAge int    `yaml:"max_age" env:"SESSION_MAX_AGE" env-default:"86400"`
	Secure bool   `yaml:"secure" env:"SESSION_SECURE" env-default:"false"`
}

type Listing struct {
	PageSize         int           `yaml:"page_size" env:"PAGE_SIZE" env-default:"10"`
	ReaderPageSize   int           `yaml:"reader_page_size" env:"READER_PAGE_SIZE" env-default:"9"`
	SearchDebounce   time.Duration `yaml:"search_debounce" env:"SEARCH_DEBOUNCE" env-default:"400ms"`
	CategoryCacheTTL time.Duration `yaml:"category_cache_ttl" env:"CATEGORY_CACHE_TTL" env-default:"1m"`
}

type Upload struct {
	MaxBytes int64 `yaml:"max_bytes" env:"UPLOAD_MAX_BYTES" env-default:"5242880"`
}

type Import struct {
	Timeout time.Duration `yaml:"timeout" env:"IMPORT_TIMEOUT" env-default:"10s"`
}

// Load reads .env (if any), then CONFIG_PATH as YAML when set, otherwise the
// process environment alone.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return errors.New("API_BASE_URL is not set")
	}
	if len(c.Session.Secret) < 16 {
		return errors.New("SESSION_SECRET must be at least 16 bytes")
	}
	if c.Listing.PageSize <= 0 {
		c.Listing.PageSize = 10
	}
	if c.Listing.ReaderPageSize <= 0 {
		c.Listing.ReaderPageSize = 9
	}
	return nil
}
