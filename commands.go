package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/pstuifzand/opml-pages/internal/config"
	"github.com/pstuifzand/opml-pages/internal/export"
	"github.com/pstuifzand/opml-pages/internal/linkcheck"
	"github.com/pstuifzand/opml-pages/internal/model"
	"github.com/pstuifzand/opml-pages/internal/opml"
	"github.com/pstuifzand/opml-pages/internal/preview"
	"github.com/pstuifzand/opml-pages/internal/render"
	"github.com/pstuifzand/opml-pages/internal/site"
	"github.com/pstuifzand/opml-pages/internal/slug"
	"github.com/pstuifzand/opml-pages/internal/theme"
	"github.com/pstuifzand/opml-pages/internal/writer"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Input       string `arg:"" help:"OPML, Markdown or indented text file, or an http(s) URL"`
	Output      string `short:"o" help:"Output directory (overrides config output)"`
	Templates   string `short:"t" help:"Template directory overriding the built-in templates" type:"path"`
	Theme       string `help:"Stylesheet theme name; 'none' writes no stylesheet"`
	Workers     int    `short:"j" help:"Render top-level subtrees in parallel"`
	Collisions  string `help:"What to do when two pages map to one path (overwrite|error)"`
	CheckLinks  bool   `name:"check-links" help:"Verify relative links after building"`
	DumpContext bool   `name:"dump-context" help:"Log every render context (needs -v)"`
}

func (b *BuildCmd) overrides() map[string]string {
	o := map[string]string{}
	setIf(o, "output", b.Output)
	setIf(o, "templates", b.Templates)
	setIf(o, "theme", b.Theme)
	setIf(o, "collisions", b.Collisions)
	if b.Workers > 0 {
		o["workers"] = strconv.Itoa(b.Workers)
	}
	if b.CheckLinks {
		o["check_links"] = "true"
	}
	return o
}

func (b *BuildCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig(b.overrides())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	doc, err := loadDocument(ctx, b.Input, cfg)
	if err != nil {
		return err
	}
	opts, err := siteOptions(cfg)
	if err != nil {
		return err
	}
	r, err := render.New(render.Options{
		Dir:          cfg.Templates,
		Resolver:     opts.Resolver,
		DateFormat:   cfg.DateFormat,
		Logger:       slog.Default(),
		DumpContexts: b.DumpContext,
	})
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	policy, err := writer.ParsePolicy(cfg.Collisions)
	if err != nil {
		return err
	}
	w := writer.NewFileWriter(cfg.Output, policy, slog.Default())

	slog.Info("Starting build", "input", b.Input, "output", cfg.Output, "nodes", doc.Count(), "workers", opts.Workers)
	res, err := site.NewBuilder(opts, r, w).Build(ctx, doc)
	if err != nil {
		return err
	}
	if c := w.Collisions(); len(c) > 0 {
		slog.Warn("Some pages were overwritten", "paths", len(c))
	}
	fmt.Fprintf(cli.out(), "Wrote %d pages to %s\n", res.Pages, cfg.Output)

	if cfg.CheckLinks {
		return checkLinks(ctx, cfg.Output)
	}
	return nil
}

// PlanCmd implements the 'plan' command.
type PlanCmd struct {
	Input string `arg:"" help:"OPML, Markdown or indented text file, or an http(s) URL"`
}

func (p *PlanCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig(nil)
	if err != nil {
		return err
	}
	ctx := context.Background()
	doc, err := loadDocument(ctx, p.Input, cfg)
	if err != nil {
		return err
	}
	opts, err := siteOptions(cfg)
	if err != nil {
		return err
	}
	entries, err := site.Plan(ctx, doc, opts)
	if err != nil {
		return err
	}
	return site.WritePlanYAML(cli.out(), entries)
}

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Dir string `arg:"" optional:"" help:"Site directory (default: configured output)" type:"path"`
}

func (c *CheckCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig(nil)
	if err != nil {
		return err
	}
	dir := c.Dir
	if dir == "" {
		dir = cfg.Output
	}
	return checkLinks(context.Background(), dir)
}

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Dir  string `arg:"" optional:"" help:"Site directory (default: configured output)" type:"path"`
	Addr string `short:"a" help:"Listen address (overrides config serve.addr)"`
}

func (s *ServeCmd) Run(cli *CLI) error {
	o := map[string]string{}
	setIf(o, "serve.addr", s.Addr)
	cfg, err := cli.loadConfig(o)
	if err != nil {
		return err
	}
	dir := s.Dir
	if dir == "" {
		dir = cfg.Output
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return preview.NewServer(dir, slog.Default()).ListenAndServe(ctx, cfg.Serve.Addr)
}

// ConvertCmd implements the 'convert' command.
type ConvertCmd struct {
	Input  string `arg:"" help:"Outline to convert (OPML, Markdown or indented text)"`
	Output string `short:"o" help:"Output file (default: stdout)" type:"path"`
	To     string `default:"opml" enum:"opml,markdown" help:"Output format (opml|markdown)"`
}

func (c *ConvertCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig(nil)
	if err != nil {
		return err
	}
	doc, err := loadDocument(context.Background(), c.Input, cfg)
	if err != nil {
		return err
	}

	encode := opml.Encode
	if c.To == "markdown" {
		encode = export.WriteMarkdown
	}
	if c.Output == "" {
		return encode(cli.out(), doc)
	}
	if err := os.MkdirAll(filepath.Dir(c.Output), 0o755); err != nil {
		return err
	}
	f, err := os.Create(c.Output)
	if err != nil {
		return err
	}
	if err := encode(f, doc); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func setIf(m map[string]string, key, value string) {
	if value != "" {
		m[key] = value
	}
}

func loadDocument(ctx context.Context, source string, cfg *config.Config) (*model.Document, error) {
	timeout, err := cfg.FetchTimeout()
	if err != nil {
		return nil, err
	}
	format, err := opml.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	return opml.Load(ctx, source, opml.Options{
		Format:  format,
		Timeout: timeout,
		Retries: cfg.Fetch.Retries,
		Logger:  slog.Default(),
	})
}

// siteOptions turns the validated config into the read-only options of one
// run.
func siteOptions(cfg *config.Config) (site.Options, error) {
	strategy, err := slug.ForName(cfg.Slug)
	if err != nil {
		return site.Options{}, err
	}

	opts := site.DefaultOptions()
	opts.Resolver = slug.NewResolver(strategy)
	opts.RenderTypes = cfg.RenderTypes
	opts.SkipPrefix = cfg.SkipPrefix
	opts.RulePrefix = cfg.RulePrefix
	opts.Workers = cfg.Workers
	opts.Logger = slog.Default()

	if cfg.Theme != "" && cfg.Theme != "none" {
		var dirs []string
		if dir, err := config.ThemeDir(); err == nil {
			dirs = append(dirs, dir)
		}
		th := theme.LoadThemeOrDefault(cfg.Theme, slog.Default(), dirs...)
		opts.Assets = map[string][]byte{theme.StylesheetFile: []byte(th.Stylesheet())}
	}
	return opts, nil
}

func checkLinks(ctx context.Context, dir string) error {
	report, err := linkcheck.Check(ctx, dir, slog.Default())
	if err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("%d broken links in %s", len(report.Broken), dir)
	}
	return nil
}
