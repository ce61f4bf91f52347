// Package config loads the YAML configuration shared by the CLI and the server
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thenoetrevino/kanban/internal/config/colors"
)

// ColorScheme is the palette used by the CLI board renderer
type ColorScheme = colors.ColorScheme

// Defaults
const (
	DefaultAPIURL     = "http://localhost:8080"
	DefaultTimeout    = 10 * time.Second
	DefaultListenAddr = ":8080"
	DefaultCacheTTL   = 30 * time.Second
	DefaultLogLevel   = "info"
)

// Config represents the application configuration
type Config struct {
	Client      ClientConfig `yaml:"client"`
	Server      ServerConfig `yaml:"server"`
	Log         LogConfig    `yaml:"log"`
	ColorScheme ColorScheme  `yaml:"theme"`
}

// ClientConfig controls how the CLI reaches the board server
type ClientConfig struct {
	APIURL  string        `yaml:"api_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig controls the board server
type ServerConfig struct {
	ListenAddr string        `yaml:"listen_addr"`
	DBPath     string        `yaml:"db_path"`
	RedisURL   string        `yaml:"redis_url"` // empty disables the listing cache
	CacheTTL   time.Duration `yaml:"cache_ttl"`
}

// LogConfig controls the log file
type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads config from the user's config directory, then applies
// environment overrides. Returns default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		// Return default config if we can't determine config path
		cfg := Default()
		if err := cfg.applyEnv(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return LoadFrom(configPath)
}

// LoadFrom loads config from a specific file
func LoadFrom(configPath string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	// Fill in any missing values with defaults
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes the config as YAML to configPath
func (c *Config) SaveTo(configPath string) error {
	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// Path returns the path to the config file
func Path() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "kanban", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "kanban", "config.yaml"), nil
}

// Validate rejects values that would fail later in a confusing way
func (c *Config) Validate() error {
	if c.Client.Timeout <= 0 {
		return fmt.Errorf("client.timeout must be positive, got %s", c.Client.Timeout)
	}
	if c.Server.CacheTTL < 0 {
		return fmt.Errorf("server.cache_ttl cannot be negative, got %s", c.Server.CacheTTL)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error: got %q", c.Log.Level)
	}
	return nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Client.APIURL == "" {
		c.Client.APIURL = DefaultAPIURL
	}
	if c.Client.Timeout == 0 {
		c.Client.Timeout = DefaultTimeout
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.Server.DBPath == "" {
		c.Server.DBPath = defaultDataPath("kanban.db")
	}
	if c.Server.CacheTTL == 0 {
		c.Server.CacheTTL = DefaultCacheTTL
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Path == "" {
		c.Log.Path = defaultDataPath(filepath.Join("logs", "kanban.log"))
	}
	c.ColorScheme.ApplyDefaults()
}

// applyEnv overrides file values with KANBAN_* environment variables
func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"KANBAN_API_URL":     &c.Client.APIURL,
		"KANBAN_DB_PATH":     &c.Server.DBPath,
		"KANBAN_LISTEN_ADDR": &c.Server.ListenAddr,
		"KANBAN_REDIS_URL":   &c.Server.RedisURL,
		"KANBAN_LOG_LEVEL":   &c.Log.Level,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"KANBAN_TIMEOUT":   &c.Client.Timeout,
		"KANBAN_CACHE_TTL": &c.Server.CacheTTL,
	}
	for key, dst := range durations {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
	}
	return nil
}

// defaultDataPath places a file under ~/.kanban
func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".kanban", name)
	}
	return filepath.Join(home, ".kanban", name)
}
