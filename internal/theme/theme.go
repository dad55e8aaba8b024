// Package theme holds the colour palettes used to generate the site
// stylesheet.
package theme

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Colors holds all the color definitions for the theme
type Colors struct {
	// Page colors
	Background colorful.Color
	Surface    colorful.Color
	Text       colorful.Color
	Muted      colorful.Color

	// Link colors
	Link   colorful.Color
	Accent colorful.Color

	Border colorful.Color
}

// Theme represents a complete color theme
type Theme struct {
	Name   string
	Colors Colors
}

// Default returns a plain light theme
func Default() *Theme {
	return &Theme{
		Name: "default",
		Colors: Colors{
			Background: HexToColor("#ffffff"),
			Surface:    HexToColor("#f6f8fa"),
			Text:       HexToColor("#1f2328"),
			Muted:      HexToColor("#656d76"),
			Link:       HexToColor("#0969da"),
			Accent:     HexToColor("#8250df"),
			Border:     HexToColor("#d0d7de"),
		},
	}
}

// TokyoNight returns the Tokyo Night theme
func TokyoNight() *Theme {
	return &Theme{
		Name: "tokyo-night",
		Colors: Colors{
			// Tokyo Night palette
			Background: HexToColor("#1a1b26"), // Dark background
			Surface:    HexToColor("#24283b"), // Storm
			Text:       HexToColor("#c0caf5"), // Light gray-blue
			Muted:      HexToColor("#565f89"), // Comment gray
			Link:       HexToColor("#7aa2f7"), // Blue
			Accent:     HexToColor("#bb9af7"), // Magenta
			Border:     HexToColor("#414868"),
		},
	}
}

// Builtin returns the built-in theme called name.
func Builtin(name string) (*Theme, bool) {
	switch name {
	case "default":
		return Default(), true
	case "tokyo-night":
		return TokyoNight(), true
	}
	return nil, false
}

// IsDark reports whether the background is dark, judged by Lab lightness.
func (t *Theme) IsDark() bool {
	l, _, _ := t.Colors.Background.Lab()
	return l < 0.5
}
