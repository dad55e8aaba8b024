package site

import (
	"iter"

	"github.com/pstuifzand/opml-pages/internal/model"
)

// Collector enumerates the render descendants of a subtree in document order.
// It is lazy and single-pass: once Next reports false it stays exhausted.
// Skip subtrees are pruned without being entered.
type Collector struct {
	cls     Classifier
	pending []*model.Node
}

// NewCollector creates a collector over the descendants of root.
func NewCollector(root *model.Node, cls Classifier) *Collector {
	c := &Collector{cls: cls}
	c.push(root.Children)
	return c
}

func (c *Collector) push(nodes []*model.Node) {
	for i := len(nodes) - 1; i >= 0; i-- {
		c.pending = append(c.pending, nodes[i])
	}
}

// Next returns the next render descendant.
func (c *Collector) Next() (*model.Node, bool) {
	for len(c.pending) > 0 {
		n := c.pending[len(c.pending)-1]
		c.pending = c.pending[:len(c.pending)-1]

		kind := c.cls.Classify(n)
		if kind == KindSkip {
			continue
		}
		c.push(n.Children)
		if kind == KindRender {
			return n, true
		}
	}
	c.pending = nil
	return nil, false
}

// All drains the collector as a sequence.
func (c *Collector) All() iter.Seq[*model.Node] {
	return func(yield func(*model.Node) bool) {
		for {
			n, ok := c.Next()
			if !ok || !yield(n) {
				return
			}
		}
	}
}

// Link is a listing entry for a render descendant.
type Link struct {
	Text  string
	Type  string
	Attrs map[string]string
	// Path is relative to the output root.
	Path string
	// Href is relative to the page holding the listing.
	Href string
	// Depth is the nesting depth below the listing root, starting at 0.
	Depth int
	// Paged is false when the node sits below another render node and so
	// never gets a page of its own.
	Paged bool
}

// Listing turns a Collector into links for one page. Path errors stop the
// sequence and are reported by Err after iteration.
type Listing struct {
	root  *model.Node
	from  string
	paths PathBuilder
	col   *Collector
	err   error
}

func newListing(root *model.Node, from string, paths PathBuilder) *Listing {
	return &Listing{
		root:  root,
		from:  from,
		paths: paths,
		col:   NewCollector(root, paths.Classifier),
	}
}

// All yields the listing's links. Like the underlying collector it can be
// consumed once.
func (l *Listing) All() iter.Seq[Link] {
	return func(yield func(Link) bool) {
		for n := range l.col.All() {
			link, err := l.link(n)
			if err != nil {
				l.err = err
				return
			}
			if !yield(link) {
				return
			}
		}
	}
}

// Err returns the first error met while producing links.
func (l *Listing) Err() error {
	return l.err
}

func (l *Listing) link(n *model.Node) (Link, error) {
	p, err := l.paths.Path(n)
	if err != nil {
		return Link{}, err
	}
	depth, paged := 0, true
	for a := n.Parent; a != nil && a != l.root && !a.IsBody(); a = a.Parent {
		depth++
		if l.paths.Classifier.Classify(a) == KindRender {
			paged = false
		}
	}
	if paged {
		paged = !l.renderAncestorAbove()
	}
	return Link{
		Text:  n.Attrs.Text,
		Type:  n.Attrs.Type,
		Attrs: n.Attrs.Map(),
		Path:  p,
		Href:  RelativeHref(l.from, p),
		Depth: depth,
		Paged: paged,
	}, nil
}

// renderAncestorAbove reports whether the listing root itself is, or sits
// below, a render node.
func (l *Listing) renderAncestorAbove() bool {
	for a := l.root; a != nil && !a.IsBody(); a = a.Parent {
		if l.paths.Classifier.Classify(a) == KindRender {
			return true
		}
	}
	return false
}
