// Package config resolves runtime settings from defaults, dotenv files and
// REA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment keys.
const (
	EnvAddr          = "REA_ADDR"
	EnvTheme         = "REA_THEME"
	EnvThemeVariant  = "REA_THEME_VARIANT"
	EnvSessionTTL    = "REA_SESSION_TTL"
	EnvShutdownGrace = "REA_SHUTDOWN_GRACE"
	EnvVocabulary    = "REA_VOCABULARY"
	EnvNotifyAfter   = "REA_NOTIFY_AFTER"
)

// DefaultEnvFiles are loaded in order. Variables already present in the
// process environment are never overridden.
var DefaultEnvFiles = []string{".env", ".env.local"}

// Config is the resolved runtime configuration.
type Config struct {
	Addr          string
	Theme         string
	ThemeVariant  string
	SessionTTL    time.Duration
	ShutdownGrace time.Duration
	// VocabularyPath optionally overrides the embedded vocabulary.
	VocabularyPath string
	// NotifyAfter is how long a notification stays visible.
	NotifyAfter time.Duration
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Addr:          ":8383",
		Theme:         "ikasnova",
		ThemeVariant:  "light",
		SessionTTL:    2 * time.Hour,
		ShutdownGrace: 5 * time.Second,
		NotifyAfter:   5 * time.Second,
	}
}

// LoadEnvFiles loads dotenv files, skipping the ones that do not exist.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = DefaultEnvFiles
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	return nil
}

// Load applies dotenv files and the environment on top of Defaults.
func Load(envFiles ...string) (Config, error) {
	if err := LoadEnvFiles(envFiles...); err != nil {
		return Config{}, err
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv resolves the configuration using lookup, which has the signature of
// os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Defaults()
	if lookup == nil {
		return cfg, nil
	}
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str(EnvAddr, &cfg.Addr)
	str(EnvTheme, &cfg.Theme)
	str(EnvThemeVariant, &cfg.ThemeVariant)
	str(EnvVocabulary, &cfg.VocabularyPath)

	var errs []error
	dur := func(key string, dst *time.Duration) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", key, err))
			return
		}
		*dst = d
	}
	dur(EnvSessionTTL, &cfg.SessionTTL)
	dur(EnvShutdownGrace, &cfg.ShutdownGrace)
	dur(EnvNotifyAfter, &cfg.NotifyAfter)

	if err := errors.Join(append(errs, cfg.Validate())...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("config: address is required"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("config: session ttl must be positive, got %s", c.SessionTTL))
	}
	if c.ShutdownGrace < 0 {
		errs = append(errs, fmt.Errorf("config: shutdown grace must not be negative, got %s", c.ShutdownGrace))
	}
	if c.NotifyAfter <= 0 {
		errs = append(errs, fmt.Errorf("config: notify delay must be positive, got %s", c.NotifyAfter))
	}
	return errors.Join(errs...)
}
