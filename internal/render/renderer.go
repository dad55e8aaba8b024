// Package render turns page contexts into HTML with html/template. Each
// variant has its own template file; a template directory can override any
// of the built-in files.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pstuifzand/opml-pages/internal/site"
	"github.com/pstuifzand/opml-pages/internal/slug"
)

//go:embed templates/*.html
var builtin embed.FS

// shared files parsed into every variant's template set
var shared = []string{"base.html", "partials.html"}

// Options configure a TemplateRenderer.
type Options struct {
	// Dir overrides built-in templates file by file. Empty means built-ins only.
	Dir      string
	Resolver slug.Resolver
	// DateFormat is the strftime format used by the date filter when a
	// template gives none.
	DateFormat   string
	Logger       *slog.Logger
	DumpContexts bool
}

// TemplateRenderer renders contexts with one template set per variant.
type TemplateRenderer struct {
	sets   map[Variant]*template.Template
	log    *slog.Logger
	dump   bool
	warned sync.Map
}

// New loads and parses all variant templates.
func New(opts Options) (*TemplateRenderer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sub, err := fs.Sub(builtin, "templates")
	if err != nil {
		return nil, err
	}

	funcs := Funcs(opts.Resolver, opts.DateFormat)
	r := &TemplateRenderer{sets: make(map[Variant]*template.Template), log: logger, dump: opts.DumpContexts}
	for _, v := range variants {
		t := template.New(v.String()).Funcs(funcs)
		for _, name := range append(append([]string(nil), shared...), v.File()) {
			src, err := readTemplate(sub, opts.Dir, name)
			if err != nil {
				return nil, err
			}
			if _, err := t.New(name).Parse(string(src)); err != nil {
				return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
			}
		}
		r.sets[v] = t
	}
	return r, nil
}

// readTemplate prefers dir/name and falls back to the built-in file.
func readTemplate(builtins fs.FS, dir, name string) ([]byte, error) {
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read template %s: %w", name, err)
		}
	}
	data, err := fs.ReadFile(builtins, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in template %s: %w", name, err)
	}
	return data, nil
}

// Render executes the template of the context's variant.
func (r *TemplateRenderer) Render(c *site.Context) ([]byte, error) {
	v := VariantOf(c)
	if v == VariantDefault && c.Type != "" {
		r.warnFallback(c.Type)
	}
	if r.dump {
		r.log.Debug("Render context", "path", c.Path, "variant", v.String(), "context", DumpContext(c))
	}

	var buf bytes.Buffer
	if err := r.sets[v].ExecuteTemplate(&buf, "base", c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// warnFallback logs once per type that the default template is used,
// suggesting the closest known type.
func (r *TemplateRenderer) warnFallback(typ string) {
	if _, seen := r.warned.LoadOrStore(typ, true); seen {
		return
	}
	attrs := []any{"type", typ, "template", VariantDefault.File()}
	if hint := suggestType(typ); hint != "" {
		attrs = append(attrs, "did_you_mean", hint)
	}
	r.log.Warn("No template for node type, using default", attrs...)
}

// suggestType returns the known type closest to typ, or "".
func suggestType(typ string) string {
	known := []string{"outline", "link", "thread"}
	ranks := fuzzy.RankFindFold(typ, known)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}
	// typ may be a known type with extra characters, e.g. "outlines"
	for _, k := range known {
		if fuzzy.MatchFold(k, typ) {
			return k
		}
	}
	return ""
}
