package theme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// HexToColor converts a hex color string (#RRGGBB or #RGB) to a color.
// Invalid input yields black; use ParseColorString to detect it.
func HexToColor(hexColor string) colorful.Color {
	c, err := parseHex(hexColor)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

func parseHex(hexColor string) (colorful.Color, error) {
	hexColor = strings.TrimPrefix(hexColor, "#")

	// Handle short form (#RGB)
	if len(hexColor) == 3 {
		hexColor = string(hexColor[0]) + string(hexColor[0]) +
			string(hexColor[1]) + string(hexColor[1]) +
			string(hexColor[2]) + string(hexColor[2])
	}

	if len(hexColor) != 6 {
		return colorful.Color{}, fmt.Errorf("invalid hex color %q", hexColor)
	}

	return colorful.Hex("#" + hexColor)
}

// RGBToColor converts 0-255 RGB values to a color
func RGBToColor(r, g, b int) (colorful.Color, error) {
	if r < 0 || r > 255 || g < 0 || g > 255 || b < 0 || b > 255 {
		return colorful.Color{}, fmt.Errorf("rgb(%d,%d,%d) out of range", r, g, b)
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, nil
}

// ParseColorString handles multiple color formats: #RRGGBB, #RGB, or rgb(r,g,b)
func ParseColorString(colorStr string) (colorful.Color, error) {
	colorStr = strings.TrimSpace(colorStr)

	// Handle hex colors
	if strings.HasPrefix(colorStr, "#") {
		return parseHex(colorStr)
	}

	// Handle rgb(r,g,b) format
	if strings.HasPrefix(colorStr, "rgb(") && strings.HasSuffix(colorStr, ")") {
		innerStr := strings.TrimPrefix(colorStr, "rgb(")
		innerStr = strings.TrimSuffix(innerStr, ")")
		parts := strings.Split(innerStr, ",")
		if len(parts) == 3 {
			r, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
			g, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
			b, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
			if err1 == nil && err2 == nil && err3 == nil {
				return RGBToColor(r, g, b)
			}
		}
	}

	return colorful.Color{}, fmt.Errorf("unrecognized color %q", colorStr)
}

// cssColor formats c as a #rrggbb CSS value
func cssColor(c colorful.Color) string {
	return c.Clamped().Hex()
}
