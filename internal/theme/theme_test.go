package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColorString(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"#7aa2f7", "#7aa2f7", true},
		{" #abc ", "#aabbcc", true},
		{"rgb(255, 0, 128)", "#ff0080", true},
		{"rgb(256,0,0)", "", false},
		{"rgb(1,2)", "", false},
		{"#12345", "", false},
		{"blue", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := ParseColorString(tt.input)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cssColor(c))
		})
	}
}

func TestBuiltin(t *testing.T) {
	for _, name := range []string{"default", "tokyo-night"} {
		th, ok := Builtin(name)
		require.True(t, ok, name)
		assert.Equal(t, name, th.Name)
	}
	_, ok := Builtin("solarized")
	assert.False(t, ok)

	assert.True(t, TokyoNight().IsDark())
	assert.False(t, Default().IsDark())
}

func TestStylesheet(t *testing.T) {
	css := TokyoNight().Stylesheet()

	assert.Contains(t, css, "/* theme: tokyo-night */")
	assert.Contains(t, css, "color-scheme: dark;")
	assert.Contains(t, css, "--bg: #1a1b26;")
	assert.Contains(t, css, "--link: #7aa2f7;")
	assert.Contains(t, css, "a:hover { color: var(--link-hover); }")
	assert.NotContains(t, css, "--link-hover: #7aa2f7;")

	assert.Contains(t, Default().Stylesheet(), "color-scheme: light;")
}

func TestLoadThemeFromFileOverridesBase(t *testing.T) {
	dir := t.TempDir()
	content := `
name = "paper"
base = "default"

[colors]
link = "#cc0000"
background = "rgb(250, 248, 240)"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "paper.toml"), []byte(content), 0644))

	th, err := LoadTheme("paper", dir)
	require.NoError(t, err)

	assert.Equal(t, "paper", th.Name)
	assert.Equal(t, "#cc0000", cssColor(th.Colors.Link))
	assert.Equal(t, "#faf8f0", cssColor(th.Colors.Background))
	assert.Equal(t, cssColor(Default().Colors.Text), cssColor(th.Colors.Text))
}

func TestLoadThemeFileShadowsBuiltin(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tokyo-night.toml"), []byte("[colors]\naccent = \"#ff9e64\"\n"), 0644))

	th, err := LoadTheme("tokyo-night", t.TempDir(), dir)
	require.NoError(t, err)
	assert.Equal(t, "#ff9e64", cssColor(th.Colors.Accent))
}

func TestLoadThemeErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.toml"), []byte("[colors]\nlink = \"bright\"\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orphan.toml"), []byte("base = \"nope\"\n"), 0644))

	_, err := LoadTheme("bad", dir)
	assert.ErrorContains(t, err, "colors.link")

	_, err = LoadTheme("orphan", dir)
	assert.ErrorContains(t, err, "unknown base theme")

	_, err = LoadTheme("missing", dir)
	assert.Error(t, err)

	assert.Equal(t, "tokyo-night", LoadThemeOrDefault("missing", nil, dir).Name)
	assert.Equal(t, "default", LoadThemeOrDefault("default", nil).Name)
}
