package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"countrycard/internal/kv"

	"gopkg.in/yaml.v3"
)

const AppName = "countrycard"

// Config holds all countrycard configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Display DisplayConfig `yaml:"display"`
}

// APIConfig configures the REST Countries client.
type APIConfig struct {
	BaseURL       string  `yaml:"base_url"`
	Timeout       string  `yaml:"timeout"`
	UserAgent     string  `yaml:"user_agent"`
	RatePerSecond float64 `yaml:"rate_per_second"`
	MaxRetries    int     `yaml:"max_retries"`
}

// StorageConfig selects where recent searches are persisted.
type StorageConfig struct {
	Backend       string `yaml:"backend"` // file, sqlite, redis, memory
	Key           string `yaml:"key"`
	FilePath      string `yaml:"file_path"`
	SQLitePath    string `yaml:"sqlite_path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

type DisplayConfig struct {
	Width int `yaml:"width"`
}

// Dir is <user config dir>/countrycard, or .countrycard when the user
// config dir cannot be determined.
func Dir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(dir, AppName)
}

// DefaultPath is the config file read when --config is not given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	dir := Dir()
	return &Config{
		API: APIConfig{
			BaseURL:       "https://restcountries.com/v3.1",
			Timeout:       "12s",
			UserAgent:     "countrycard/0.1",
			RatePerSecond: 2,
			MaxRetries:    2,
		},
		Storage: StorageConfig{
			Backend:    kv.BackendFile,
			Key:        "countrySearchHistory",
			FilePath:   filepath.Join(dir, "storage.json"),
			SQLitePath: filepath.Join(dir, "countrycard.db"),
			RedisAddr:  "localhost:6379",
		},
		Logging: LoggingConfig{Level: "warn"},
	}
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults. Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("COUNTRYCARD_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("COUNTRYCARD_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("COUNTRYCARD_REDIS_ADDR"); v != "" {
		c.Storage.RedisAddr = v
	}
	if v := os.Getenv("COUNTRYCARD_REDIS_PASSWORD"); v != "" {
		c.Storage.RedisPassword = v
	}
	if v := os.Getenv("COUNTRYCARD_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Storage.RedisDB = n
		}
	}
	if v := os.Getenv("COUNTRYCARD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// GetAPITimeout returns the per-request timeout, 12s when unset or invalid.
func (c *Config) GetAPITimeout() time.Duration {
	if d, err := time.ParseDuration(c.API.Timeout); err == nil && d > 0 {
		return d
	}
	return 12 * time.Second
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must be >= 0")
	}
	if c.API.RatePerSecond < 0 {
		return fmt.Errorf("api.rate_per_second must be >= 0")
	}

	switch c.Storage.Backend {
	case kv.BackendFile:
		if c.Storage.FilePath == "" {
			return fmt.Errorf("storage.file_path is required for the file backend")
		}
	case kv.BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite backend")
		}
	case kv.BackendRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("storage.redis_addr is required for the redis backend")
		}
	case kv.BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

// KVOptions maps the storage section onto kv.Open options.
func (c *Config) KVOptions() kv.Options {
	return kv.Options{
		Backend:       c.Storage.Backend,
		FilePath:      c.Storage.FilePath,
		SQLitePath:    c.Storage.SQLitePath,
		RedisAddr:     c.Storage.RedisAddr,
		RedisPassword: c.Storage.RedisPassword,
		RedisDB:       c.Storage.RedisDB,
	}
}
