// Package config loads normalizer settings from a YAML file, an optional
// .env file and the process environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/statement-normalizer/internal/models"
	"github.com/insightdelivered/statement-normalizer/internal/source"
)

const (
	DefaultCurrency = "EUR"
	DefaultCharset  = "utf-8"
	DefaultLogLevel = "info"

	EnvCurrency = "STMTNORM_CURRENCY"
	EnvCharset  = "STMTNORM_CHARSET"
	EnvLogLevel = "STMTNORM_LOG_LEVEL"
)

// Config is the top-level configuration file.
type Config struct {
	// Currency is assumed for rows that do not name one.
	Currency string `yaml:"currency"`

	// Charset of delimited exports. XML exports declare their own.
	Charset string `yaml:"charset"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Banks overrides Currency and Charset per format. Keys are format names
	// or their aliases.
	Banks map[string]BankConfig `yaml:"banks"`
}

// BankConfig holds per-format overrides. Blank values inherit.
type BankConfig struct {
	Currency string `yaml:"currency"`
	Charset  string `yaml:"charset"`
}

// Settings is the resolved configuration for one parse run.
type Settings struct {
	Currency string
	Charset  string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Currency: DefaultCurrency,
		Charset:  DefaultCharset,
		LogLevel: DefaultLogLevel,
	}
}

// Load reads the YAML file at path, applies environment overrides and
// validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
			}
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv copies variables from .env files into the process environment
// without overriding ones already set. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %q: %w", f, err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvCurrency); v != "" {
		cfg.Currency = v
	}
	if v := os.Getenv(EnvCharset); v != "" {
		cfg.Charset = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Currency) == "" {
		cfg.Currency = DefaultCurrency
	}
	if strings.TrimSpace(cfg.Charset) == "" {
		cfg.Charset = DefaultCharset
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	cfg.Currency = strings.ToUpper(strings.TrimSpace(cfg.Currency))
	for name, bank := range cfg.Banks {
		bank.Currency = strings.ToUpper(strings.TrimSpace(bank.Currency))
		cfg.Banks[name] = bank
	}
}

// Validate checks currency codes, charsets and bank names.
func (c *Config) Validate() error {
	if !validCurrency(c.Currency) {
		return fmt.Errorf("invalid currency %q: want a three-letter ISO code", c.Currency)
	}
	if err := source.ValidCharset(c.Charset); err != nil {
		return fmt.Errorf("charset: %w", err)
	}
	for name, bank := range c.Banks {
		if _, err := models.ParseFormat(name); err != nil {
			return fmt.Errorf("banks: %w", err)
		}
		if bank.Currency != "" && !validCurrency(bank.Currency) {
			return fmt.Errorf("banks.%s: invalid currency %q", name, bank.Currency)
		}
		if bank.Charset != "" {
			if err := source.ValidCharset(bank.Charset); err != nil {
				return fmt.Errorf("banks.%s: %w", name, err)
			}
		}
	}
	return nil
}

// For resolves the settings for format, applying its bank section.
func (c *Config) For(format models.Format) Settings {
	s := Settings{Currency: c.Currency, Charset: c.Charset}
	for name, bank := range c.Banks {
		f, err := models.ParseFormat(name)
		if err != nil || f != format {
			continue
		}
		if bank.Currency != "" {
			s.Currency = bank.Currency
		}
		if bank.Charset != "" {
			s.Charset = bank.Charset
		}
	}
	return s
}

func validCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
