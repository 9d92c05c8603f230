package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for OVOS Bridge.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Bus      BusConfig      `yaml:"bus"`
	API      APIConfig      `yaml:"api"`
	Users    UsersConfig    `yaml:"users"`
	Logging  LoggingConfig  `yaml:"logging"`
	Security SecurityConfig `yaml:"security"`
}

// AppConfig contains application identity and data-shaping settings.
type AppConfig struct {
	Name string `yaml:"name"`

	// Key is the shared application key presented to the companion skill
	// on the assistant side. It authenticates the bridge itself,
	// independently of the caller's JWT.
	Key string `yaml:"key"`

	// HideSensitiveData enables redaction of sensitive keys from
	// configuration and skill-settings payloads before they leave the API.
	HideSensitiveData bool `yaml:"hide_sensitive_data"`

	// SensitiveKeys is the list of JSON keys stripped when redaction is on.
	SensitiveKeys []string `yaml:"sensitive_keys"`
}

// EncodedKey returns the application key in the base64 form the companion
// skill expects on the bus.
func (a AppConfig) EncodedKey() string {
	return base64.StdEncoding.EncodeToString([]byte(a.Key))
}

// BusConfig contains message bus connection settings.
type BusConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Path string `yaml:"path"`

	// ConnectTimeout bounds the websocket dial, in seconds.
	ConnectTimeout int `yaml:"connect_timeout"`

	// ReceiveTimeout bounds the correlated-reply wait window, in seconds.
	ReceiveTimeout int `yaml:"receive_timeout"`
}

// URI returns the websocket URI of the message bus.
func (b BusConfig) URI() string {
	return fmt.Sprintf("ws://%s:%d%s", b.Host, b.Port, b.Path)
}

// GetConnectTimeout returns the bus connect timeout as a Duration.
func (b BusConfig) GetConnectTimeout() time.Duration {
	return time.Duration(b.ConnectTimeout) * time.Second
}

// GetReceiveTimeout returns the bus receive timeout as a Duration.
func (b BusConfig) GetReceiveTimeout() time.Duration {
	return time.Duration(b.ReceiveTimeout) * time.Second
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// UsersConfig contains user credential store settings.
type UsersConfig struct {
	// Path is the location of the JSON user database file.
	Path string `yaml:"path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	JWT JWTConfig `yaml:"jwt"`
}

// JWTConfig contains JWT token settings. TTLs are in seconds.
type JWTConfig struct {
	Secret          string `yaml:"secret"`
	Algorithm       string `yaml:"algorithm"`
	AccessTokenTTL  int    `yaml:"access_token_ttl"`
	RefreshTokenTTL int    `yaml:"refresh_token_ttl"`
}

// GetAccessTTL returns the access token lifetime as a Duration.
func (j JWTConfig) GetAccessTTL() time.Duration {
	return time.Duration(j.AccessTokenTTL) * time.Second
}

// GetRefreshTTL returns the refresh token lifetime as a Duration.
func (j JWTConfig) GetRefreshTTL() time.Duration {
	return time.Duration(j.RefreshTokenTTL) * time.Second
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: OVOS_BRIDGE_SECTION_KEY
// For example: OVOS_BRIDGE_BUS_HOST, OVOS_BRIDGE_JWT_SECRET
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:              "OVOS Bridge",
			HideSensitiveData: true,
			SensitiveKeys: []string{
				"password",
				"key",
				"code",
				"username",
				"access_key_id",
				"secret_access_key",
			},
		},
		Bus: BusConfig{
			Host:           "localhost",
			Port:           8181,
			Path:           "/core",
			ConnectTimeout: 10,
			ReceiveTimeout: 5,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8000,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Users: UsersConfig{
			Path: "./data/users.json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			JWT: JWTConfig{
				Algorithm:       "HS256",
				AccessTokenTTL:  1800,
				RefreshTokenTTL: 21600,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: OVOS_BRIDGE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Application
	if v := os.Getenv("OVOS_BRIDGE_APP_KEY"); v != "" {
		cfg.App.Key = v
	}

	// Bus
	if v := os.Getenv("OVOS_BRIDGE_BUS_HOST"); v != "" {
		cfg.Bus.Host = v
	}
	if v := os.Getenv("OVOS_BRIDGE_BUS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Bus.Port = port
		}
	}

	// API
	if v := os.Getenv("OVOS_BRIDGE_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// Users
	if v := os.Getenv("OVOS_BRIDGE_USERS_DB"); v != "" {
		cfg.Users.Path = v
	}

	// Security - JWT secret (IMPORTANT: always override in production)
	if v := os.Getenv("OVOS_BRIDGE_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}
}

// validAlgorithms is the set of accepted JWT signing algorithms.
var validAlgorithms = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
}

// Validate checks the configuration for errors and security issues.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Application validation
	if c.App.Key == "" {
		errs = append(errs, "app.key is required (set OVOS_BRIDGE_APP_KEY environment variable)")
	}

	// Bus validation
	if c.Bus.Host == "" {
		errs = append(errs, "bus.host is required")
	}
	if c.Bus.Port < 1 || c.Bus.Port > 65535 {
		errs = append(errs, "bus.port must be between 1 and 65535")
	}
	if c.Bus.ConnectTimeout <= 0 {
		errs = append(errs, "bus.connect_timeout must be positive")
	}
	if c.Bus.ReceiveTimeout <= 0 {
		errs = append(errs, "bus.receive_timeout must be positive")
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// Users validation
	if c.Users.Path == "" {
		errs = append(errs, "users.path is required")
	}

	// Security validation - JWT secret is REQUIRED.
	// An empty or weak secret would let anyone forge tokens and drive the
	// voice assistant through the privileged bus operations.
	const minJWTSecretLength = 32
	if c.Security.JWT.Secret == "" {
		errs = append(errs, "security.jwt.secret is required (set OVOS_BRIDGE_JWT_SECRET environment variable)")
	} else if len(c.Security.JWT.Secret) < minJWTSecretLength {
		errs = append(errs, "security.jwt.secret must be at least 32 characters for adequate security")
	}
	if !validAlgorithms[c.Security.JWT.Algorithm] {
		errs = append(errs, "security.jwt.algorithm must be one of HS256, HS384, HS512")
	}
	if c.Security.JWT.AccessTokenTTL <= 0 {
		errs = append(errs, "security.jwt.access_token_ttl must be positive")
	}
	if c.Security.JWT.RefreshTokenTTL <= c.Security.JWT.AccessTokenTTL {
		errs = append(errs, "security.jwt.refresh_token_ttl must be greater than access_token_ttl")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
