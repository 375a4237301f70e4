package shared

import (
	_ "embed"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// APIBaseURLEnv overrides [APIConfig.BaseURL] when set.
const APIBaseURLEnv = "PAGEHOPPERS_API_URL"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Server   ServerConfig   `toml:"server"`
	Session  SessionConfig  `toml:"session"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
}

// APIConfig points at the reading-log REST API.
type APIConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout int    `toml:"timeout"` // seconds, 0 = none
}

// CatalogConfig contains the Open Library endpoints.
type CatalogConfig struct {
	SearchURL string  `toml:"search_url"`
	CoversURL string  `toml:"covers_url"`
	RateLimit float64 `toml:"rate_limit"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// SessionConfig controls the web session cookie that holds credentials.
type SessionConfig struct {
	Secret     string `toml:"secret"`
	CookieName string `toml:"cookie_name"`
	Secure     bool   `toml:"secure"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig sets the minimum log level (debug, info, warn, error).
type LogConfig struct {
	Level string `toml:"level"`
}

// Addr joins host and port for [http.Server].
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// RequestTimeout converts the configured timeout to a [time.Duration].
func (a APIConfig) RequestTimeout() time.Duration {
	if a.Timeout <= 0 {
		return 0
	}
	return time.Duration(a.Timeout) * time.Second
}

// Validate reports settings that would make the clients unusable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("%w: api.base_url is empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Catalog.SearchURL) == "" {
		return fmt.Errorf("%w: catalog.search_url is empty", ErrInvalidConfig)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ResolveConfig loads path when it exists and falls back to [DefaultConfig] otherwise,
// then applies the environment override.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	ApplyEnv(config)
	return config, config.Validate()
}

// LoadEnv reads .env files into the process environment. Missing files are not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}

	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}

// ApplyEnv overrides the API base URL from [APIBaseURLEnv].
func ApplyEnv(c *Config) {
	if v := strings.TrimSpace(os.Getenv(APIBaseURLEnv)); v != "" {
		c.API.BaseURL = v
	}
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
