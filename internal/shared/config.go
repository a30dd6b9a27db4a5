package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database  DatabaseConfig  `toml:"database"`
	Server    ServerConfig    `toml:"server"`
	Catalog   CatalogConfig   `toml:"catalog"`
	Identity  IdentityConfig  `toml:"identity"`
	Remote    RemoteConfig    `toml:"remote"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Export    ExportConfig    `toml:"export"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains the local HTTP listener settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CatalogConfig points at the movie catalog REST API.
type CatalogConfig struct {
	BaseURL         string `toml:"base_url"`
	ImageBaseURL    string `toml:"image_base_url"`
	ReadAccessToken string `toml:"read_access_token"`
}

// IdentityConfig contains the identity provider endpoints and social client credentials.
type IdentityConfig struct {
	APIKey   string            `toml:"api_key"`
	BaseURL  string            `toml:"base_url"`
	TokenURL string            `toml:"token_url"`
	Google   OAuthClientConfig `toml:"google"`
	Facebook OAuthClientConfig `toml:"facebook"`
	Apple    OAuthClientConfig `toml:"apple"`

	// CallbackTimeout bounds the wait for a social sign-in redirect, e.g. "2m".
	CallbackTimeout time.Duration `toml:"callback_timeout"`
}

// OAuthClientConfig holds one social provider's client credentials.
type OAuthClientConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// Configured reports whether both credentials are present.
func (o OAuthClientConfig) Configured() bool {
	return o.ClientID != "" && o.ClientSecret != ""
}

// RemoteConfig selects where per-user favorites documents live.
type RemoteConfig struct {
	Driver    string `toml:"driver"`
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	KeyPrefix string `toml:"key_prefix"`
}

// TelemetryConfig toggles usage event recording.
type TelemetryConfig struct {
	Enabled bool `toml:"enabled"`
}

// ExportConfig tunes the favorites export job.
type ExportConfig struct {
	Workers           int     `toml:"workers"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
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

// LoadConfigOrDefault loads path when it exists and falls back to [DefaultConfig] otherwise.
func LoadConfigOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
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

// SaveConfig encodes config as TOML at path, replacing any existing file.
func SaveConfig(path string, config *Config) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// LoadEnv reads .env style files into the process environment. Missing files are ignored.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides secrets and endpoints with values from the environment when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("TMDB_READ_ACCESS_TOKEN"); v != "" {
		c.Catalog.ReadAccessToken = v
	}
	if v := os.Getenv("FIREBASE_API_KEY"); v != "" {
		c.Identity.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Remote.Addr = v
		c.Remote.Driver = "redis"
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Remote.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Remote.DB = n
		}
	}
}
