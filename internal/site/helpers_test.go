package site

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/opml-pages/internal/model"
	"github.com/pstuifzand/opml-pages/internal/slug"
)

func node(text string, children ...*model.Node) *model.Node {
	return withAttrs(model.Attrs{Text: text}, children...)
}

func typed(text, typ string, children ...*model.Node) *model.Node {
	return withAttrs(model.Attrs{Text: text, Type: typ}, children...)
}

func comment(text string, children ...*model.Node) *model.Node {
	return withAttrs(model.Attrs{Text: text, IsComment: "true"}, children...)
}

func withAttrs(attrs model.Attrs, children ...*model.Node) *model.Node {
	n := model.NewNode(attrs)
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

func document(nodes ...*model.Node) *model.Document {
	d := model.NewDocument()
	for _, n := range nodes {
		d.Body.AddChild(n)
	}
	return d
}

func testEngine() *Engine {
	return NewEngine(slug.NewResolver(nil), NewClassifier(DefaultRenderTypes, DefaultSkipPrefix))
}

func testPaths() PathBuilder {
	return PathBuilder{Resolver: slug.NewResolver(nil), Classifier: NewClassifier(DefaultRenderTypes, DefaultSkipPrefix)}
}

// walk returns the visited steps of a full walk.
func walk(t *testing.T, d *model.Document) []Step {
	t.Helper()
	var steps []Step
	require.NoError(t, testEngine().Walk(context.Background(), d, func(s Step) error {
		steps = append(steps, s)
		return nil
	}))
	return steps
}

func texts(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Node.Attrs.Text
	}
	return out
}

func pagePaths(steps []Step) []string {
	var out []string
	for _, s := range steps {
		if s.Path != "" {
			out = append(out, s.Path)
		}
	}
	return out
}

// stubRenderer renders a context as "path|text:" followed by the listing hrefs.
type stubRenderer struct {
	mu       sync.Mutex
	contexts []*Context
	failOn   string
}

func (r *stubRenderer) Render(c *Context) ([]byte, error) {
	if c.Path == r.failOn {
		return nil, fmt.Errorf("template exploded")
	}
	r.mu.Lock()
	r.contexts = append(r.contexts, c)
	r.mu.Unlock()

	out := c.Path + "|" + c.Text + ":"
	for l := range c.Listing.All() {
		out += " " + l.Href
	}
	return []byte(out), nil
}
