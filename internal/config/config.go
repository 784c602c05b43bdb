// Package config loads the ticket configuration from YAML, the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/zappabad/orderticket/internal/form"
	"github.com/zappabad/orderticket/internal/intent"
	"github.com/zappabad/orderticket/internal/logging"
	"github.com/zappabad/orderticket/internal/transport"
)

const (
	DefaultPath = "config/config.yaml"
	PathEnv     = "ORDERTICKET_CONFIG"
)

var ErrNotFound = errors.New("config file not found")

// Defaults prefill the forms on mount. Empty values keep the built-in
// defaults.
type Defaults struct {
	Side      string `yaml:"side"`
	OrdType   string `yaml:"ord_type"`
	TIF       string `yaml:"tif"`
	ShortCode string `yaml:"short_cd"`
	Reason    string `yaml:"reason"`
	Qty       string `yaml:"qty"`
}

type Config struct {
	// Account prefills ACNT_NO on every form.
	Account   string           `yaml:"account"`
	Transport transport.Config `yaml:"transport"`
	Log       logging.Config   `yaml:"log"`
	Defaults  Defaults         `yaml:"defaults"`
}

func Default() Config {
	return Config{
		Transport: transport.DefaultConfig(),
		Log:       logging.DefaultConfig(),
	}
}

// LoadEnv loads a .env file into the process environment. A missing file is
// not an error.
func LoadEnv(envPath string) {
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}
}

// Path returns the configuration file path, honouring ORDERTICKET_CONFIG.
func Path() string {
	return getEnv(PathEnv, DefaultPath)
}

// Load reads path over the defaults and applies environment overrides.
// Priority: ENV > file > defaults. A missing file yields the defaults
// together with ErrNotFound.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		applyEnv(&cfg)
		return cfg, fmt.Errorf("%w: %s", ErrNotFound, path)
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Account = getEnv("ORDERTICKET_ACCOUNT", cfg.Account)
	cfg.Transport.Mode = getEnv("ORDERTICKET_TRANSPORT", cfg.Transport.Mode)
	cfg.Transport.Endpoint = getEnv("ORDERTICKET_ENDPOINT", cfg.Transport.Endpoint)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)

	if latency := os.Getenv("VENUE_LATENCY_MS"); latency != "" {
		if ms, err := strconv.Atoi(latency); err == nil {
			cfg.Transport.Venue.Latency = time.Duration(ms) * time.Millisecond
		}
	}
}

// ReadResult is the configuration as shown to the operator: either the raw
// parsed document or the reason it could not be read.
type ReadResult struct {
	OK    bool
	Data  map[string]any
	Error string
}

// Read parses path without applying defaults or overrides.
func Read(path string) ReadResult {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ReadResult{Error: err.Error()}
	}
	data := map[string]any{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return ReadResult{Error: err.Error()}
	}
	return ReadResult{OK: true, Data: data}
}

// Initial converts the account and defaults into per-kind starting values.
func (c Config) Initial() form.Initial {
	set := func(m map[intent.Field]string, f intent.Field, v string) {
		if v != "" {
			m[f] = v
		}
	}

	newOrder := map[intent.Field]string{}
	set(newOrder, intent.FieldAccount, c.Account)
	set(newOrder, intent.FieldSide, c.Defaults.Side)
	set(newOrder, intent.FieldOrdType, c.Defaults.OrdType)
	set(newOrder, intent.FieldTIF, c.Defaults.TIF)
	set(newOrder, intent.FieldShortCode, c.Defaults.ShortCode)
	set(newOrder, intent.FieldQty, c.Defaults.Qty)

	cancel := map[intent.Field]string{}
	set(cancel, intent.FieldAccount, c.Account)
	set(cancel, intent.FieldReason, c.Defaults.Reason)

	amend := map[intent.Field]string{}
	set(amend, intent.FieldAccount, c.Account)

	return form.Initial{
		intent.KindNewOrder: newOrder,
		intent.KindCancel:   cancel,
		intent.KindAmend:    amend,
	}
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
