// Package config resolves cristin-report settings from the config file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/henrybloomingdale/cristin-report/internal/cristin"
	"github.com/henrybloomingdale/cristin-report/internal/registry"
	"gopkg.in/yaml.v3"
)

const (
	// Dir is the directory name under XDG_CONFIG_HOME.
	Dir = "cristin-report"
	// File is the config file name.
	File = "config.yml"

	// DefaultOutputDir receives generated reports.
	DefaultOutputDir = "reports"
	// DefaultTemplateDir is searched for the report template when none is
	// configured.
	DefaultTemplateDir = "templates"
)

// Config holds every setting that is not specific to one invocation.
type Config struct {
	BaseURL   string        `yaml:"base_url,omitempty"`
	Template  string        `yaml:"template,omitempty"`
	OutputDir string        `yaml:"output_dir,omitempty"`
	PerPage   int           `yaml:"per_page,omitempty"`
	MaxPages  int           `yaml:"max_pages,omitempty"`
	Timeout   time.Duration `yaml:"timeout,omitempty"`
	Rate      float64       `yaml:"rate,omitempty"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		BaseURL:   registry.DefaultBaseURL,
		OutputDir: DefaultOutputDir,
		PerPage:   cristin.DefaultPerPage,
		MaxPages:  cristin.DefaultMaxPages,
		Timeout:   registry.DefaultTimeout,
		Rate:      registry.DefaultRate,
	}
}

// Path returns the config file location, honouring XDG_CONFIG_HOME.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, Dir, File)
}

// Load builds the effective config: defaults, then the file at path (the
// default location when path is empty), then CRISTIN_* environment
// variables. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		path = Path()
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.mergeEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the client cannot work with.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url must not be empty")
	}
	if c.PerPage <= 0 {
		return fmt.Errorf("per_page must be positive, got %d", c.PerPage)
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("max_pages must be positive, got %d", c.MaxPages)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Rate <= 0 {
		return fmt.Errorf("rate must be positive, got %g", c.Rate)
	}
	return nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	// Unset keys keep their defaults.
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() {
	c.BaseURL = getEnv("CRISTIN_BASE_URL", c.BaseURL)
	c.Template = getEnv("CRISTIN_TEMPLATE", c.Template)
	c.OutputDir = getEnv("CRISTIN_OUTPUT_DIR", c.OutputDir)
	c.PerPage = getInt("CRISTIN_PER_PAGE", c.PerPage)
	c.MaxPages = getInt("CRISTIN_MAX_PAGES", c.MaxPages)
	c.Timeout = getDuration("CRISTIN_TIMEOUT", c.Timeout)
	c.Rate = getFloat("CRISTIN_RATE", c.Rate)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
