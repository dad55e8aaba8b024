package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	perrors "github.com/pstuifzand/opml-pages/internal/errors"
	"github.com/pstuifzand/opml-pages/internal/opml"
	"github.com/pstuifzand/opml-pages/internal/slug"
	"github.com/pstuifzand/opml-pages/internal/writer"
)

// Config holds the site generator configuration
type Config struct {
	Output      string   `toml:"output"`
	Templates   string   `toml:"templates"`
	Theme       string   `toml:"theme"`
	Format      string   `toml:"format"`
	Slug        string   `toml:"slug"`
	RenderTypes []string `toml:"render_types"`
	SkipPrefix  string   `toml:"skip_prefix"`
	RulePrefix  string   `toml:"rule_prefix"`
	Collisions  string   `toml:"collisions"`
	Workers     int      `toml:"workers"`
	DateFormat  string   `toml:"date_format"`
	CheckLinks  bool     `toml:"check_links"`

	Fetch FetchConfig `toml:"fetch"`
	Serve ServeConfig `toml:"serve"`
}

// FetchConfig controls loading remote outlines
type FetchConfig struct {
	Timeout string `toml:"timeout"`
	Retries int    `toml:"retries"`
}

// ServeConfig controls the preview server
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return defaultConfig(), nil // Return default if can't find config path
	}

	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a specific file. Keys missing from the file
// keep their defaults; a missing file means all defaults.
func LoadFromFile(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := defaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// defaultConfig returns the default configuration
func defaultConfig() *Config {
	return &Config{
		Output:      "html",
		Theme:       "tokyo-night",
		Format:      string(opml.FormatAuto),
		Slug:        "hyphen",
		RenderTypes: []string{"outline", "link", "thread"},
		SkipPrefix:  "#",
		RulePrefix:  "---",
		Collisions:  string(writer.Overwrite),
		Workers:     1,
		DateFormat:  "%Y-%m-%d",
		Fetch: FetchConfig{
			Timeout: "30s",
			Retries: 3,
		},
		Serve: ServeConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}

// Default returns a fresh default configuration
func Default() *Config {
	return defaultConfig()
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config", "opml-pages"), nil
}

// ThemeDir returns the directory holding user theme files
func ThemeDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "themes"), nil
}

// Validate checks every value that has a closed set of choices.
func (c *Config) Validate() error {
	if c.Output == "" {
		return perrors.Config("output", "must not be empty")
	}
	if _, err := slug.ForName(c.Slug); err != nil {
		return perrors.Config("slug", err.Error())
	}
	if _, err := writer.ParsePolicy(c.Collisions); err != nil {
		return perrors.Config("collisions", err.Error())
	}
	if _, err := opml.ParseFormat(c.Format); err != nil {
		return perrors.Config("format", err.Error())
	}
	if len(c.RenderTypes) == 0 {
		return perrors.Config("render_types", "at least one render type is required")
	}
	for _, typ := range c.RenderTypes {
		if strings.TrimSpace(typ) == "" {
			return perrors.Config("render_types", "render types must not be empty")
		}
	}
	if c.Workers < 1 {
		return perrors.Config("workers", "must be at least 1")
	}
	if _, err := c.FetchTimeout(); err != nil {
		return perrors.Config("fetch.timeout", err.Error())
	}
	if c.Fetch.Retries < 0 {
		return perrors.Config("fetch.retries", "cannot be negative")
	}
	return nil
}

// FetchTimeout parses the fetch timeout
func (c *Config) FetchTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Fetch.Timeout)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive")
	}
	return d, nil
}

// Set overrides a single value by its config key, e.g. "fetch.retries".
// Overrides come from the command line and are never saved.
func (c *Config) Set(key, value string) error {
	switch key {
	case "output":
		c.Output = value
	case "templates":
		c.Templates = value
	case "theme":
		c.Theme = value
	case "format":
		c.Format = value
	case "slug":
		c.Slug = value
	case "render_types":
		c.RenderTypes = splitList(value)
	case "skip_prefix":
		c.SkipPrefix = value
	case "rule_prefix":
		c.RulePrefix = value
	case "collisions":
		c.Collisions = value
	case "date_format":
		c.DateFormat = value
	case "fetch.timeout":
		c.Fetch.Timeout = value
	case "serve.addr":
		c.Serve.Addr = value
	case "workers", "fetch.retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return perrors.Config(key, "not a number")
		}
		if key == "workers" {
			c.Workers = n
		} else {
			c.Fetch.Retries = n
		}
	case "check_links":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return perrors.Config(key, "not a boolean")
		}
		c.CheckLinks = b
	default:
		return perrors.Config(key, "unknown setting")
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Save writes the configuration to filePath, creating parent directories
func (c *Config) Save(filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
