package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	perrors "github.com/pstuifzand/opml-pages/internal/errors"
)

const siteOPML = `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
  <head><title>Notes</title></head>
  <body>
    <outline text="Blog">
      <outline text="First Post" type="outline">
        <outline text="hello *world*"/>
      </outline>
    </outline>
    <outline text="About" type="outline"/>
    <outline text="# draft">
      <outline text="Hidden" type="outline"/>
    </outline>
  </body>
</opml>`

// run parses args the way main does and runs the selected command.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cli := CLI{stdout: &out}
	parser, err := newParser(&cli)
	require.NoError(t, err)

	args = append([]string{"-c", filepath.Join(t.TempDir(), "config.toml")}, args...)
	ctx, err := parser.Parse(args)
	if err != nil {
		return "", err
	}
	err = ctx.Run()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "site.opml", siteOPML)
	output := filepath.Join(dir, "html")

	out, err := run(t, "build", input, "-o", output, "--check-links")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 4 pages")

	for _, name := range []string{"style.css", "index.html", "blog/index.html", "blog/first-post.html", "about.html"} {
		assert.FileExists(t, filepath.Join(output, filepath.FromSlash(name)))
	}
	assert.NoDirExists(t, filepath.Join(output, "draft"))

	page, err := os.ReadFile(filepath.Join(output, "blog", "first-post.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), `href="../style.css"`)
	assert.Contains(t, string(page), "<em>world</em>")
}

func TestBuildCommandWithoutTheme(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "site.opml", siteOPML)
	output := filepath.Join(dir, "html")

	_, err := run(t, "build", input, "-o", output, "--theme", "none", "-j", "2")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(output, "style.css"))
	assert.FileExists(t, filepath.Join(output, "about.html"))
}

func TestBuildCommandCollisionError(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "dup.opml", `<opml version="2.0"><body>
<outline text="Same" type="outline"/><outline text="same!" type="outline"/>
</body></opml>`)

	_, err := run(t, "build", input, "-o", filepath.Join(dir, "html"), "--collisions", "error")
	require.Error(t, err)
	assert.ErrorIs(t, err, perrors.ErrWrite)
}

func TestBuildCommandMissingInput(t *testing.T) {
	_, err := run(t, "build", filepath.Join(t.TempDir(), "nope.opml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, perrors.ErrInput)
}

func TestPlanCommand(t *testing.T) {
	input := writeFile(t, t.TempDir(), "site.opml", siteOPML)

	out, err := run(t, "--set", "slug=camel", "plan", input)
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &entries))
	var paths, kinds []string
	for _, e := range entries {
		kinds = append(kinds, e["kind"].(string))
		if p, ok := e["path"].(string); ok {
			paths = append(paths, p)
		}
	}
	assert.Equal(t, []string{"blog/index.html", "blog/firstPost.html", "about.html"}, paths)
	assert.Equal(t, []string{"index", "render", "render", "skip"}, kinds)
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "notes.md", "# Notes\n\n- first\n  - nested\n- second\n")

	out, err := run(t, "convert", input)
	require.NoError(t, err)
	assert.Contains(t, out, `<opml version="2.0">`)
	assert.Contains(t, out, `<outline text="Notes">`)
	assert.Contains(t, out, `<outline text="nested"></outline>`)

	target := filepath.Join(dir, "out", "notes.opml")
	_, err = run(t, "convert", input, "-o", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, out, string(data))

	opmlFile := writeFile(t, dir, "site.opml", siteOPML)
	md, err := run(t, "convert", opmlFile, "--to", "markdown")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(md, "---\ntitle: Notes\n---\n"))
	assert.Contains(t, md, "- Blog\n  - First Post\n    - hello *world*\n")
}

func TestCheckCommandReportsBrokenLinks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html", `<a href="gone.html">gone</a>`)

	_, err := run(t, "check", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 broken links")
}

func TestInvalidOverride(t *testing.T) {
	input := writeFile(t, t.TempDir(), "site.opml", siteOPML)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"--set", "colour=red", "plan", input}},
		{"bad workers", []string{"--set", "workers=many", "plan", input}},
		{"bad slug", []string{"--set", "slug=snake", "plan", input}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, perrors.ErrConfig)
		})
	}
}
