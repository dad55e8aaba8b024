package theme

import (
	"fmt"
	"strings"
)

// StylesheetFile is the name the stylesheet is written under, at the
// output root.
const StylesheetFile = "style.css"

// Stylesheet returns the site CSS for the theme. Hover and visited link
// colours are blended in Lab space so they stay perceptually even.
func (t *Theme) Stylesheet() string {
	c := t.Colors
	scheme := "light"
	if t.IsDark() {
		scheme = "dark"
	}

	vars := []struct{ name, value string }{
		{"bg", cssColor(c.Background)},
		{"surface", cssColor(c.Surface)},
		{"text", cssColor(c.Text)},
		{"muted", cssColor(c.Muted)},
		{"link", cssColor(c.Link)},
		{"link-hover", cssColor(c.Link.BlendLab(c.Accent, 0.5))},
		{"link-visited", cssColor(c.Link.BlendLab(c.Muted, 0.35))},
		{"accent", cssColor(c.Accent)},
		{"border", cssColor(c.Border)},
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "/* theme: %s */\n:root {\n  color-scheme: %s;\n", t.Name, scheme)
	for _, v := range vars {
		fmt.Fprintf(&sb, "  --%s: %s;\n", v.name, v.value)
	}
	sb.WriteString("}\n")
	sb.WriteString(baseRules)
	return sb.String()
}

const baseRules = `body {
  margin: 0 auto;
  max-width: 46rem;
  padding: 1.5rem;
  background: var(--bg);
  color: var(--text);
  font-family: system-ui, sans-serif;
  line-height: 1.6;
}
header {
  border-bottom: 1px solid var(--border);
  padding-bottom: 0.5rem;
  margin-bottom: 1.5rem;
}
header a { color: var(--accent); font-weight: 600; text-decoration: none; }
a { color: var(--link); }
a:visited { color: var(--link-visited); }
a:hover { color: var(--link-hover); }
ul.listing { list-style: none; padding-left: 0; }
ul.listing li { padding: 0.2rem 0; }
ul.listing li.depth-1 { padding-left: 1.5rem; }
ul.listing li.depth-2 { padding-left: 3rem; }
ul.body ul { border-left: 2px solid var(--border); padding-left: 1rem; }
blockquote, pre, code { background: var(--surface); }
footer {
  margin-top: 2rem;
  border-top: 1px solid var(--border);
  padding-top: 0.5rem;
  color: var(--muted);
  font-size: 0.875rem;
}
`
