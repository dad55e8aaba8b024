// Package site turns an outline document into a tree of pages. It classifies
// nodes, maps them to destination paths, assembles render contexts and hands
// them to a Renderer and Writer supplied by the caller.
package site

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	perrors "github.com/pstuifzand/opml-pages/internal/errors"
	"github.com/pstuifzand/opml-pages/internal/model"
	"github.com/pstuifzand/opml-pages/internal/slug"
)

// Renderer turns a context into page bytes.
type Renderer interface {
	Render(c *Context) ([]byte, error)
}

// Writer persists a page at a path relative to the output root.
type Writer interface {
	Write(path string, data []byte) error
}

// Options configure a build. They are fixed for the duration of a run.
type Options struct {
	Resolver    slug.Resolver
	RenderTypes []string
	SkipPrefix  string
	RulePrefix  string
	// Workers > 1 renders independent top-level subtrees concurrently.
	Workers int
	// Assets are written at the output root before any page.
	Assets map[string][]byte
	Logger *slog.Logger
	Now    func() time.Time
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Resolver:    slug.NewResolver(slug.Hyphen{}),
		RenderTypes: DefaultRenderTypes,
		SkipPrefix:  DefaultSkipPrefix,
		RulePrefix:  DefaultRulePrefix,
		Workers:     1,
	}
}

// Result summarizes a finished build.
type Result struct {
	Pages int
	// Paths lists every written page in write order (per top-level group
	// when running in parallel).
	Paths []string
}

// Builder runs a build for one document.
type Builder struct {
	opts     Options
	cls      Classifier
	paths    PathBuilder
	engine   *Engine
	renderer Renderer
	writer   Writer
	log      *slog.Logger
}

// NewBuilder creates a builder.
func NewBuilder(opts Options, r Renderer, w Writer) *Builder {
	if opts.Resolver.Strategy == nil {
		opts.Resolver = slug.NewResolver(nil)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cls := NewClassifier(opts.RenderTypes, opts.SkipPrefix)
	return &Builder{
		opts:     opts,
		cls:      cls,
		paths:    PathBuilder{Resolver: opts.Resolver, Classifier: cls},
		engine:   NewEngine(opts.Resolver, cls),
		renderer: r,
		writer:   w,
		log:      logger,
	}
}

// Classifier returns the classification rules of this build.
func (b *Builder) Classifier() Classifier {
	return b.cls
}

// Build writes the assets, the root listing and one page per render and
// index node. The first error aborts the build; pages written before it
// are left in place.
func (b *Builder) Build(ctx context.Context, doc *model.Document) (*Result, error) {
	if len(doc.Body.Children) == 0 {
		return nil, perrors.EmptyBody()
	}

	asm := NewAssembler(doc, b.paths, b.opts.RulePrefix, b.opts.Now)
	res := &Result{}

	if err := b.writeAssets(res); err != nil {
		return res, err
	}
	if err := b.page(asm.Home(doc.Body), res); err != nil {
		return res, err
	}

	var err error
	if b.opts.Workers > 1 {
		err = b.walkParallel(ctx, doc, asm, res)
	} else {
		err = b.engine.Walk(ctx, doc, b.visitor(asm, res))
	}
	if err != nil {
		return res, err
	}

	b.log.Info("Build finished", "pages", res.Pages)
	return res, nil
}

func (b *Builder) writeAssets(res *Result) error {
	names := make([]string, 0, len(b.opts.Assets))
	for name := range b.opts.Assets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := b.write(name, b.opts.Assets[name]); err != nil {
			return err
		}
		res.Paths = append(res.Paths, name)
	}
	return nil
}

func (b *Builder) visitor(asm *Assembler, res *Result) VisitFunc {
	return func(s Step) error {
		if s.Kind != KindRender && s.Kind != KindIndex {
			return nil
		}
		return b.page(asm.Assemble(s.Node, s.Kind, s.Path), res)
	}
}

func (b *Builder) page(c *Context, res *Result) error {
	data, err := b.renderer.Render(c)
	if err == nil {
		err = c.Listing.Err()
	}
	if err != nil {
		var categorized *perrors.Error
		if !errors.As(err, &categorized) {
			err = perrors.Render(c.Path, err)
		}
		return err
	}
	if err := b.write(c.Path, data); err != nil {
		return err
	}
	b.log.Debug("Rendered page", "path", c.Path, "kind", c.Kind.String(), "type", c.Type)
	res.Pages++
	res.Paths = append(res.Paths, c.Path)
	return nil
}

func (b *Builder) write(path string, data []byte) error {
	err := b.writer.Write(path, data)
	if err != nil && !perrors.IsCategory(err, perrors.CategoryWrite) {
		err = perrors.Write(path, err)
	}
	return err
}

type group struct {
	id    string
	nodes []*model.Node
}

// groups partitions the top-level page nodes by identifier. Nodes sharing an
// identifier share destination directories, so they stay in one group and
// keep their document order.
func (b *Builder) groups(doc *model.Document) ([]*group, error) {
	var out []*group
	byID := make(map[string]*group)
	for _, n := range doc.Body.Children {
		kind := b.cls.Classify(n)
		if kind != KindRender && kind != KindIndex {
			continue
		}
		id, err := b.paths.Resolver.Identifier(n)
		if err != nil {
			return nil, err
		}
		g, ok := byID[id]
		if !ok {
			g = &group{id: id}
			byID[id] = g
			out = append(out, g)
		}
		g.nodes = append(g.nodes, n)
	}
	return out, nil
}

func (b *Builder) walkParallel(ctx context.Context, doc *model.Document, asm *Assembler, res *Result) error {
	groups, err := b.groups(doc)
	if err != nil {
		return err
	}

	partial := make([]*Result, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)
	for i, grp := range groups {
		partial[i] = &Result{}
		g.Go(func() error {
			visit := b.visitor(asm, partial[i])
			for _, n := range grp.nodes {
				if err := b.engine.WalkSubtree(gctx, n, visit); err != nil {
					return err
				}
			}
			return nil
		})
	}
	err = g.Wait()

	for _, p := range partial {
		res.Pages += p.Pages
		res.Paths = append(res.Paths, p.Paths...)
	}
	return err
}
