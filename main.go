package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/pstuifzand/opml-pages/internal/config"
)

// CLI definition and global flags
type CLI struct {
	Config  string            `short:"c" help:"Configuration file path (default ~/.config/opml-pages/config.toml)" type:"path"`
	Verbose bool              `short:"v" help:"Enable debug logging"`
	Set     map[string]string `help:"Override a configuration value, e.g. --set workers=4" placeholder:"KEY=VALUE"`

	Build   BuildCmd   `cmd:"" help:"Render an outline into a tree of HTML pages"`
	Plan    PlanCmd    `cmd:"" help:"Show the pages a build would write, as YAML"`
	Check   CheckCmd   `cmd:"" help:"Verify the relative links of a generated site"`
	Serve   ServeCmd   `cmd:"" help:"Serve a generated site for preview"`
	Convert ConvertCmd `cmd:"" help:"Convert an outline between OPML and Markdown"`

	stdout io.Writer
}

// AfterApply runs after flag parsing and sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads the config file, then applies --set overrides and
// finally the command's own flag overrides.
func (c *CLI) loadConfig(overrides map[string]string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.Config != "" {
		cfg, err = config.LoadFromFile(c.Config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	for _, set := range []map[string]string{c.Set, overrides} {
		for k, v := range set {
			if err := cfg.Set(k, v); err != nil {
				return nil, err
			}
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *CLI) out() io.Writer {
	if c.stdout != nil {
		return c.stdout
	}
	return os.Stdout
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("opml-pages"),
		kong.Description("Turn an OPML outline into a static site."),
		kong.UsageOnError(),
		kong.Bind(cli),
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}
