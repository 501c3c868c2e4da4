package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all client configuration
type Config struct {
	API    APIConfig    `yaml:"api"`
	Log    LogConfig    `yaml:"log"`
	State  StateConfig  `yaml:"state"`
	Server ServerConfig `yaml:"server"`
}

// APIConfig holds settings for the remote notes API
type APIConfig struct {
	// Base URL of the API, e.g. http://localhost:8000/api/
	BaseURL string `yaml:"base_url"`

	// Transport-level timeout for every request
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// StateConfig holds paths for client-local persisted state
type StateConfig struct {
	// Directory for the cookie jar and theme preference files
	Dir string `yaml:"dir"`
}

// ServerConfig holds devserver settings, unused by the client binary
type ServerConfig struct {
	Port      int    `yaml:"port"`
	JWTSecret string `yaml:"jwt_secret"`
}

// Load builds configuration from environment variables, overlaid by an
// optional YAML file at $QUILL_CONFIG (or <state dir>/config.yaml).
func Load() (*Config, error) {
	cfg := &Config{
		API: APIConfig{
			BaseURL: getEnv("QUILL_API_URL", "http://localhost:8000/api/"),
			Timeout: getEnvDuration("QUILL_API_TIMEOUT", 30*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("QUILL_LOG_LEVEL", "info"),
			Format: getEnv("QUILL_LOG_FORMAT", "text"),
		},
		State: StateConfig{
			Dir: getEnv("QUILL_STATE_DIR", defaultStateDir()),
		},
		Server: ServerConfig{
			Port:      getEnvInt("QUILL_SERVER_PORT", 8000),
			JWTSecret: getEnv("QUILL_JWT_SECRET", "dev-only-secret"),
		},
	}

	path := getEnv("QUILL_CONFIG", filepath.Join(cfg.State.Dir, "config.yaml"))
	if err := overlayFile(cfg, path); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// overlayFile merges a YAML config file over cfg. A missing file is
// fine; a malformed one is not.
func overlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base url: %q", c.API.BaseURL)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be positive, got %s", c.API.Timeout)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	return nil
}

// CookieFile returns the path of the persisted cookie jar
func (c *Config) CookieFile() string {
	return filepath.Join(c.State.Dir, "cookies.json")
}

// ThemeFile returns the path of the persisted theme preference
func (c *Config) ThemeFile() string {
	return filepath.Join(c.State.Dir, "theme.yaml")
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "quill")
	}
	return ".quill"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
