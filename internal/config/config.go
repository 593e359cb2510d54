// internal/config/config.go
//
// Server configuration: defaults → optional YAML file → env overrides.
// The Config is read-only after Load() returns and safe for concurrent reads.

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Game    GameConfig    `yaml:"game"`
	Store   StoreConfig   `yaml:"store"`
	Auth    AuthConfig    `yaml:"auth"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	ClientOrigin   string   `yaml:"client_origin"`
	RequestTimeout Duration `yaml:"request_timeout"`
}

// CatalogConfig locates the remote category documents.
// An empty BaseURL keeps the server on its embedded fallback catalogs.
type CatalogConfig struct {
	BaseURL      string   `yaml:"base_url"`
	FetchTimeout Duration `yaml:"fetch_timeout"`
}

// GameConfig holds the daily scheduling parameters.
type GameConfig struct {
	Epoch         string `yaml:"epoch"` // dd/mm/yyyy, day 1 of the sequence
	LookaheadDays int    `yaml:"lookahead_days"`
}

// StoreConfig selects and configures the progress store backend.
type StoreConfig struct {
	Backend       string `yaml:"backend"` // memory | sqlite | redis
	SQLitePath    string `yaml:"sqlite_path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"-"` // env-only, never in YAML
	RedisDB       int    `yaml:"redis_db"`
}

// AuthConfig contains JWT/cookie settings.
type AuthConfig struct {
	JWTSecret  string `yaml:"-"` // env-only, never in YAML
	CookieName string `yaml:"cookie_name"`
	TokenDays  int    `yaml:"token_days"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// EpochTime parses the configured epoch into a local-midnight time.
func (g GameConfig) EpochTime() (time.Time, error) {
	t, err := time.ParseInLocation("02/01/2006", g.Epoch, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("config: invalid epoch %q: %w", g.Epoch, err)
	}
	return t, nil
}

// Load loads configuration with precedence: defaults → YAML file → env vars.
func Load() (*Config, error) {
	cfg := newDefaults()

	path := getEnv("BRAINBOX_CONFIG_PATH", "config/brainbox.yaml")
	if err := loadYAMLFile(cfg, path); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific path (tests, explicit paths).
func LoadFromFile(path string) (*Config, error) {
	cfg := newDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newDefaults returns a Config with all default values.
// The zero-config server runs on embedded catalogs and a local SQLite file.
func newDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           5175,
			ClientOrigin:   "http://localhost:5173",
			RequestTimeout: Duration(10 * time.Second),
		},
		Catalog: CatalogConfig{
			BaseURL:      "",
			FetchTimeout: Duration(10 * time.Second),
		},
		Game: GameConfig{
			Epoch:         "28/01/2026",
			LookaheadDays: 6,
		},
		Store: StoreConfig{
			Backend:    "sqlite",
			SQLitePath: "data/brainbox.db",
			RedisAddr:  "localhost:6379",
		},
		Auth: AuthConfig{
			JWTSecret:  "dev_secret_change_me",
			CookieName: "brainbox_token",
			TokenDays:  14,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// loadYAMLFile loads configuration from a YAML file if it exists.
// Missing file is not an error; we just use defaults.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CLIENT_ORIGIN"); v != "" {
		cfg.Server.ClientOrigin = v
	}
	if v := os.Getenv("CATALOG_BASE_URL"); v != "" {
		cfg.Catalog.BaseURL = v
	}
	if v := os.Getenv("CATALOG_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Catalog.FetchTimeout = Duration(d)
		}
	}
	if v := os.Getenv("GAME_EPOCH"); v != "" {
		cfg.Game.Epoch = v
	}
	if v := os.Getenv("GAME_LOOKAHEAD_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Game.LookaheadDays = n
		}
	}
	if v := os.Getenv("STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Store.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Store.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Store.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Store.RedisDB = n
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("COOKIE_NAME"); v != "" {
		cfg.Auth.CookieName = v
	}
	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Auth.TokenDays = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// validate rejects configurations the server cannot run with.
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Server.Port)
	}
	if c.Game.LookaheadDays < 0 {
		return fmt.Errorf("config: lookahead_days must be >= 0, got %d", c.Game.LookaheadDays)
	}
	if _, err := c.Game.EpochTime(); err != nil {
		return err
	}
	switch c.Store.Backend {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
