// Package config loads runtime settings for the xzqh form hosts. Values are
// layered: built-in defaults, then an optional YAML file, then .env files and
// the process environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	ModeServe = "serve"
	ModeTUI   = "tui"
)

// DefaultEnvFiles are loaded when present.
var DefaultEnvFiles = []string{".env", ".env.local"}

// Config holds the settings shared by the page host and the terminal
// session.
type Config struct {
	Mode         string        `yaml:"mode" env:"XZQH_MODE"`
	GeneratorURL string        `yaml:"generator_url" env:"XZQH_GENERATOR_URL"`
	Timeout      time.Duration `yaml:"timeout" env:"XZQH_TIMEOUT"`
	ListenAddr   string        `yaml:"listen" env:"XZQH_LISTEN"`
	Prefix       string        `yaml:"prefix" env:"XZQH_PREFIX"`
	Title        string        `yaml:"title" env:"XZQH_TITLE"`
	ThemeName    string        `yaml:"theme" env:"XZQH_THEME"`
	ThemeVariant string        `yaml:"theme_variant" env:"XZQH_THEME_VARIANT"`
	Stylesheet   string        `yaml:"stylesheet" env:"XZQH_STYLESHEET"`
	LogLevel     string        `yaml:"log_level" env:"LOG_LEVEL"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Mode:         ModeServe,
		GeneratorURL: "http://localhost:8080",
		Timeout:      60 * time.Second,
		ListenAddr:   ":3200",
		Prefix:       "/xzqh",
		LogLevel:     "error",
	}
}

// LoadOptions selects the sources Load reads.
type LoadOptions struct {
	// File is an optional YAML file.
	File string
	// EnvFiles are dotenv files loaded when they exist. Nil means
	// DefaultEnvFiles.
	EnvFiles []string
}

// Load builds a Config from defaults, the YAML file and the environment.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	if opts.File != "" {
		raw, err := os.ReadFile(opts.File)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", opts.File, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", opts.File, err)
		}
	}

	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = DefaultEnvFiles
	}
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, fmt.Errorf("config: load env files: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv loads the dotenv files that exist and reports how many were found.
// Variables already set in the process environment win.
func LoadEnv(files []string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, file := range files {
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Validate normalises and checks the settings.
func (c *Config) Validate() error {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	switch c.Mode {
	case ModeServe, ModeTUI:
	default:
		return fmt.Errorf("config: invalid XZQH_MODE=%q (expected serve|tui)", c.Mode)
	}

	u, err := url.Parse(strings.TrimSpace(c.GeneratorURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: invalid XZQH_GENERATOR_URL=%q", c.GeneratorURL)
	}
	c.GeneratorURL = strings.TrimRight(u.String(), "/")

	if c.Timeout <= 0 {
		return errors.New("config: XZQH_TIMEOUT must be positive")
	}

	c.Prefix = "/" + strings.Trim(strings.TrimSpace(c.Prefix), "/")
	return nil
}

// LogrusLevel maps LogLevel onto logrus levels.
func (c *Config) LogrusLevel() logrus.Level {
	switch strings.ToLower(c.LogLevel) {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

// Logger returns a stderr logger at the configured level.
func (c *Config) Logger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(c.LogrusLevel())
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger
}
