package theme

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
)

// ThemeConfig represents the raw TOML theme configuration
type ThemeConfig struct {
	Name string `toml:"name"`
	// Base names the built-in theme supplying colours the file leaves out.
	Base   string `toml:"base"`
	Colors struct {
		Background string `toml:"background"`
		Surface    string `toml:"surface"`
		Text       string `toml:"text"`
		Muted      string `toml:"muted"`
		Link       string `toml:"link"`
		Accent     string `toml:"accent"`
		Border     string `toml:"border"`
	} `toml:"colors"`
}

// findThemeFile searches dirs in order for name.toml
func findThemeFile(themeName string, dirs []string) (string, error) {
	filename := themeName + ".toml"

	for _, dir := range dirs {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("theme file not found: %s", filename)
}

// LoadThemeFromFile loads a theme from a TOML file
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var config ThemeConfig
	err = toml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	theme, err := configToTheme(config)
	if err != nil {
		return nil, fmt.Errorf("invalid theme file %s: %w", filePath, err)
	}
	return theme, nil
}

// LoadTheme loads a theme by name. Theme files in dirs take precedence over
// the built-in themes of the same name.
func LoadTheme(themeName string, dirs ...string) (*Theme, error) {
	filePath, err := findThemeFile(themeName, dirs)
	if err == nil {
		return LoadThemeFromFile(filePath)
	}
	if theme, ok := Builtin(themeName); ok {
		return theme, nil
	}
	return nil, err
}

// configToTheme converts a ThemeConfig to a Theme, taking missing colors from
// the base theme (Tokyo Night unless set)
func configToTheme(config ThemeConfig) (*Theme, error) {
	base := TokyoNight()
	if config.Base != "" {
		b, ok := Builtin(config.Base)
		if !ok {
			return nil, fmt.Errorf("unknown base theme %q", config.Base)
		}
		base = b
	}

	overrides := []struct {
		key   string
		value string
		dst   *colorful.Color
	}{
		{"background", config.Colors.Background, &base.Colors.Background},
		{"surface", config.Colors.Surface, &base.Colors.Surface},
		{"text", config.Colors.Text, &base.Colors.Text},
		{"muted", config.Colors.Muted, &base.Colors.Muted},
		{"link", config.Colors.Link, &base.Colors.Link},
		{"accent", config.Colors.Accent, &base.Colors.Accent},
		{"border", config.Colors.Border, &base.Colors.Border},
	}
	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		c, err := ParseColorString(o.value)
		if err != nil {
			return nil, fmt.Errorf("colors.%s: %w", o.key, err)
		}
		*o.dst = c
	}

	if config.Name != "" {
		base.Name = config.Name
	}
	return base, nil
}

// LoadThemeOrDefault loads a theme by name, or returns Tokyo Night if it
// cannot be loaded
func LoadThemeOrDefault(themeName string, logger *slog.Logger, dirs ...string) *Theme {
	theme, err := LoadTheme(themeName, dirs...)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("Falling back to tokyo-night theme", "theme", themeName, "error", err)
		return TokyoNight()
	}

	return theme
}
