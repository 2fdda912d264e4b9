package config

import (
	"fmt"
	"strings"

	"github.com/tagcache/internal/logging"
)

// Validator interface for config validation.
type Validator interface {
	Validate() error
}

// ValidationErrors collects multiple validation errors so one load reports
// every problem at once.
type ValidationErrors struct {
	Errors []error
}

func (ve *ValidationErrors) Add(err error) {
	if err != nil {
		ve.Errors = append(ve.Errors, err)
	}
}

func (ve *ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return ""
	}

	messages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		messages[i] = fmt.Sprintf("  - %s", err.Error())
	}

	return fmt.Sprintf("configuration validation failed:\n%s",
		strings.Join(messages, "\n"))
}

func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

// Validate validates the entire configuration. Per-cache overrides are
// checked in their merged form, the shape the engine will actually see.
func (c *Config) Validate() error {
	var errs ValidationErrors

	errs.Add(c.Server.Validate())
	errs.Add(c.Cache.Validate("cache"))
	for name := range c.Caches {
		errs.Add(c.EffectiveCache(name).Validate("caches." + name))
	}
	errs.Add(validateLoggingConfig(&c.Logging))

	if errs.HasErrors() {
		return &errs
	}
	return nil
}

// Validate validates the ops server configuration.
func (c *ServerConfig) Validate() error {
	var errs ValidationErrors

	if c.Host == "" {
		errs.Add(fmt.Errorf("server.host is required"))
	}

	if c.Port < 1 || c.Port > 65535 {
		errs.Add(fmt.Errorf("server.port must be between 1-65535, got %d", c.Port))
	}

	if c.ReadTimeout < 0 {
		errs.Add(fmt.Errorf("server.read_timeout cannot be negative"))
	}

	if c.WriteTimeout < 0 {
		errs.Add(fmt.Errorf("server.write_timeout cannot be negative"))
	}

	if c.IdleTimeout < 0 {
		errs.Add(fmt.Errorf("server.idle_timeout cannot be negative"))
	}

	if errs.HasErrors() {
		return &errs
	}
	return nil
}

// Validate validates one cache section. A negative MaxSize (unbounded
// store) and a negative DefaultTTL (no caching without an explicit TTL) are
// deliberate settings, so only the memory budget has a hard floor.
func (c CacheConfig) Validate(section string) error {
	var errs ValidationErrors

	if c.MaxMemoryMB < 1 {
		errs.Add(fmt.Errorf("%s.max_memory_mb must be positive, got %d", section, c.MaxMemoryMB))
	}

	if errs.HasErrors() {
		return &errs
	}
	return nil
}

// validateLoggingConfig validates the logging section. The struct lives in
// the logging package, so this cannot be a method on it.
func validateLoggingConfig(c *logging.Config) error {
	var errs ValidationErrors

	validLevels := []string{"debug", "info", "warn", "error"}
	levelValid := false
	for _, l := range validLevels {
		if c.Level == l {
			levelValid = true
			break
		}
	}
	if !levelValid && c.Level != "" {
		errs.Add(fmt.Errorf("logging.level must be one of: %v, got %s", validLevels, c.Level))
	}

	if c.MaxSize < 0 {
		errs.Add(fmt.Errorf("logging.max_size cannot be negative, got %d", c.MaxSize))
	}

	if c.MaxBackups < 0 {
		errs.Add(fmt.Errorf("logging.max_backups cannot be negative, got %d", c.MaxBackups))
	}

	if c.MaxAge < 0 {
		errs.Add(fmt.Errorf("logging.max_age cannot be negative, got %d", c.MaxAge))
	}

	if errs.HasErrors() {
		return &errs
	}
	return nil
}
