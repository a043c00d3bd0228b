package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "STAGEASSETS_"

type Config struct {
	// Backend
	APIBaseURL        string  `yaml:"api_base_url" env:"API_URL"`
	APIToken          string  `yaml:"api_token" env:"API_TOKEN"`
	TimeoutSeconds    int     `yaml:"timeout_seconds" env:"TIMEOUT_SECONDS"`
	MaxRetries        int     `yaml:"max_retries" env:"MAX_RETRIES"`
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"REQUESTS_PER_SECOND"`
	OfflineFallback   bool    `yaml:"offline_fallback" env:"OFFLINE_FALLBACK"`

	// Defaults for commands
	DefaultEvent   int64 `yaml:"default_event" env:"EVENT"`
	DefaultSpeaker int64 `yaml:"default_speaker" env:"SPEAKER"`

	// Downloads
	DownloadWorkers int    `yaml:"download_workers" env:"DOWNLOAD_WORKERS"`
	DownloadDir     string `yaml:"download_dir" env:"DOWNLOAD_DIR"`

	// UI Settings
	DisplayDateFormat string `yaml:"display_date_format" env:"DATE_FORMAT"`
	ColorTheme        string `yaml:"color_theme" env:"COLOR_THEME"`

	// Logging
	LogMode  string `yaml:"log_mode" env:"LOG_MODE"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	// Performance
	WatchDebounceMS int `yaml:"watch_debounce_ms" env:"WATCH_DEBOUNCE_MS"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:        "http://localhost:3000/api",
		APIToken:          "",
		TimeoutSeconds:    30,
		MaxRetries:        3,
		RequestsPerSecond: 10,
		OfflineFallback:   true,
		DownloadWorkers:   4,
		DownloadDir:       "",
		DisplayDateFormat: "2006-01-02",
		ColorTheme:        "auto",
		LogMode:           "dev",
		LogLevel:          "warn",
		WatchDebounceMS:   500,
	}
}

// Load reads configuration from the specified file path and applies
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.backfill()
	return cfg, nil
}

// LoadFile reads only the config file, ignoring the environment. Use it when
// the result is written back so overrides are not persisted.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.backfill()
	return cfg, nil
}

// ApplyEnv overrides fields from STAGEASSETS_* variables that are set
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// backfill restores defaults for essential values left empty
func (c *Config) backfill() {
	def := DefaultConfig()
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		c.APIBaseURL = def.APIBaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = def.TimeoutSeconds
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RequestsPerSecond < 0 {
		c.RequestsPerSecond = 0
	}
	if c.DownloadWorkers <= 0 {
		c.DownloadWorkers = def.DownloadWorkers
	}
	if c.DisplayDateFormat == "" {
		c.DisplayDateFormat = def.DisplayDateFormat
	}
	if c.ColorTheme == "" {
		c.ColorTheme = def.ColorTheme
	}
	if c.LogMode != "dev" && c.LogMode != "prod" {
		c.LogMode = def.LogMode
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.WatchDebounceMS <= 0 {
		c.WatchDebounceMS = def.WatchDebounceMS
	}
}

// Timeout returns the per-request timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// WatchDebounce returns the file watcher debounce window
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMS) * time.Millisecond
}

// Save persists the current configuration to the specified file path. The
// file may hold a token, so it is written owner-only.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Keys lists the settable keys in file order
func Keys() []string {
	return []string{
		"api_base_url", "api_token", "timeout_seconds", "max_retries", "requests_per_second",
		"offline_fallback", "default_event", "default_speaker", "download_workers", "download_dir",
		"display_date_format", "color_theme", "log_mode", "log_level", "watch_debounce_ms",
	}
}

// Get returns a setting as text. The token is masked.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_base_url":
		return c.APIBaseURL, nil
	case "api_token":
		return maskToken(c.APIToken), nil
	case "timeout_seconds":
		return strconv.Itoa(c.TimeoutSeconds), nil
	case "max_retries":
		return strconv.Itoa(c.MaxRetries), nil
	case "requests_per_second":
		return strconv.FormatFloat(c.RequestsPerSecond, 'g', -1, 64), nil
	case "offline_fallback":
		return strconv.FormatBool(c.OfflineFallback), nil
	case "default_event":
		return strconv.FormatInt(c.DefaultEvent, 10), nil
	case "default_speaker":
		return strconv.FormatInt(c.DefaultSpeaker, 10), nil
	case "download_workers":
		return strconv.Itoa(c.DownloadWorkers), nil
	case "download_dir":
		return c.DownloadDir, nil
	case "display_date_format":
		return c.DisplayDateFormat, nil
	case "color_theme":
		return c.ColorTheme, nil
	case "log_mode":
		return c.LogMode, nil
	case "log_level":
		return c.LogLevel, nil
	case "watch_debounce_ms":
		return strconv.Itoa(c.WatchDebounceMS), nil
	}
	return "", fmt.Errorf("unknown config key %q", key)
}

// Set parses and assigns one setting
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	var err error
	switch key {
	case "api_base_url":
		c.APIBaseURL = strings.TrimRight(value, "/")
	case "api_token":
		c.APIToken = value
	case "timeout_seconds":
		c.TimeoutSeconds, err = positiveInt(value)
	case "max_retries":
		c.MaxRetries, err = strconv.Atoi(value)
		if err == nil && c.MaxRetries < 0 {
			err = fmt.Errorf("must not be negative")
		}
	case "requests_per_second":
		c.RequestsPerSecond, err = strconv.ParseFloat(value, 64)
	case "offline_fallback":
		c.OfflineFallback, err = strconv.ParseBool(value)
	case "default_event":
		c.DefaultEvent, err = strconv.ParseInt(value, 10, 64)
	case "default_speaker":
		c.DefaultSpeaker, err = strconv.ParseInt(value, 10, 64)
	case "download_workers":
		c.DownloadWorkers, err = positiveInt(value)
	case "download_dir":
		c.DownloadDir = value
	case "display_date_format":
		c.DisplayDateFormat = value
	case "color_theme":
		if !isValidTheme(value) {
			err = fmt.Errorf("expected one of auto, dark, light, none")
			break
		}
		c.ColorTheme = value
	case "log_mode":
		if value != "dev" && value != "prod" {
			err = fmt.Errorf("expected dev or prod")
			break
		}
		c.LogMode = value
	case "log_level":
		c.LogLevel = value
	case "watch_debounce_ms":
		c.WatchDebounceMS, err = positiveInt(value)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value %q for %s: %w", value, key, err)
	}
	return nil
}

func positiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return n, nil
}

func isValidTheme(theme string) bool {
	switch theme {
	case "auto", "dark", "light", "none":
		return true
	}
	return false
}

func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "…" + token[len(token)-4:]
}
