package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tagcache/internal/cache"
	"github.com/tagcache/internal/logging"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the time.Duration value
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// ServerConfig holds the ops HTTP listener configuration.
type ServerConfig struct {
	Host         string   `yaml:"host"`
	Port         int      `yaml:"port"`
	ReadTimeout  Duration `yaml:"read_timeout,omitempty"`
	WriteTimeout Duration `yaml:"write_timeout,omitempty"`
	IdleTimeout  Duration `yaml:"idle_timeout,omitempty"`
}

// CacheConfig holds the engine settings applied to every named cache unless
// a per-cache override says otherwise.
type CacheConfig struct {
	DefaultTTL      Duration `yaml:"default_ttl"`
	MaxSize         int      `yaml:"max_size"`
	MaxMemoryMB     int      `yaml:"max_memory_mb"`
	CleanupInterval Duration `yaml:"cleanup_interval"`
	EnableMetrics   bool     `yaml:"enable_metrics"`
	SingleFlight    bool     `yaml:"single_flight"`
}

// CacheOverride narrows the global cache section for one named cache. Zero
// fields inherit the global value; a negative MaxSize makes that cache
// unbounded.
type CacheOverride struct {
	DefaultTTL      Duration `yaml:"default_ttl,omitempty"`
	MaxSize         int      `yaml:"max_size,omitempty"`
	CleanupInterval Duration `yaml:"cleanup_interval,omitempty"`
}

// Config represents the complete application configuration.
type Config struct {
	Server    ServerConfig             `yaml:"server"`
	Cache     CacheConfig              `yaml:"cache"`
	Caches    map[string]CacheOverride `yaml:"caches,omitempty"`
	KeyPrefix string                   `yaml:"key_prefix"`
	Logging   logging.Config           `yaml:"logging"`
}

// Default configurations.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "localhost",
		Port:         8080,
		ReadTimeout:  Duration(15 * time.Second),
		WriteTimeout: Duration(30 * time.Second),
		IdleTimeout:  Duration(60 * time.Second),
	}
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		DefaultTTL:      Duration(5 * time.Minute),
		MaxSize:         1000,
		MaxMemoryMB:     100,
		CleanupInterval: Duration(10 * time.Minute),
		EnableMetrics:   true,
		SingleFlight:    false,
	}
}

func DefaultLoggingConfig() logging.Config {
	return logging.Config{
		Level:      "info",
		Console:    true,
		JSON:       false,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
	}
}

// DefaultConfig assembles the full default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server:    DefaultServerConfig(),
		Cache:     DefaultCacheConfig(),
		KeyPrefix: "tc",
		Logging:   DefaultLoggingConfig(),
	}
}

// LoadConfig loads configuration from a YAML file. A missing file is not an
// error: the defaults apply. Values from the file overlay the defaults, so
// booleans like enable_metrics keep their documented default when the key
// is absent.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Fill gaps first so validation judges the effective configuration.
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves configuration to a YAML file.
func SaveConfig(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// validate fills configuration gaps with defaults. Range checks live in
// Validate so one load reports every problem at once.
func (c *Config) validate() error {
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(15 * time.Second)
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = Duration(30 * time.Second)
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = Duration(60 * time.Second)
	}

	if c.Cache.DefaultTTL == 0 {
		c.Cache.DefaultTTL = Duration(5 * time.Minute)
	}
	if c.Cache.MaxSize == 0 {
		c.Cache.MaxSize = 1000
	}
	if c.Cache.MaxMemoryMB == 0 {
		c.Cache.MaxMemoryMB = 100
	}

	if c.KeyPrefix == "" {
		c.KeyPrefix = "tc"
	}

	for name := range c.Caches {
		if name == "" {
			return fmt.Errorf("caches section contains an empty cache name")
		}
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if !c.Logging.Console && c.Logging.File == "" {
		c.Logging.Console = true
	}
	if c.Logging.MaxSize == 0 {
		c.Logging.MaxSize = 100
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 3
	}
	if c.Logging.MaxAge == 0 {
		c.Logging.MaxAge = 28
	}
	return nil
}

// EffectiveCache returns the settings for the named cache: the global cache
// section with that cache's override applied field by field.
func (c *Config) EffectiveCache(name string) CacheConfig {
	out := c.Cache
	ov, ok := c.Caches[name]
	if !ok {
		return out
	}
	if ov.DefaultTTL != 0 {
		out.DefaultTTL = ov.DefaultTTL
	}
	if ov.MaxSize != 0 {
		out.MaxSize = ov.MaxSize
	}
	if ov.CleanupInterval != 0 {
		out.CleanupInterval = ov.CleanupInterval
	}
	return out
}

// ToEngineConfig converts a cache section to the engine's Config.
func (cc CacheConfig) ToEngineConfig() cache.Config {
	return cache.Config{
		DefaultTTL:      cc.DefaultTTL.Duration(),
		MaxSize:         cc.MaxSize,
		MaxMemoryMB:     cc.MaxMemoryMB,
		CleanupInterval: cc.CleanupInterval.Duration(),
		EnableMetrics:   cc.EnableMetrics,
		SingleFlight:    cc.SingleFlight,
	}
}

// CreateExampleConfig writes a fully populated example configuration file.
func CreateExampleConfig(dir string) error {
	config := DefaultConfig()
	config.Caches = map[string]CacheOverride{
		"users":  {DefaultTTL: Duration(15 * time.Minute), MaxSize: 500},
		"search": {DefaultTTL: Duration(1 * time.Minute)},
	}

	if err := SaveConfig(config, filepath.Join(dir, "config.example.yaml")); err != nil {
		return fmt.Errorf("failed to create example config: %w", err)
	}

	return nil
}
