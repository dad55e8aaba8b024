package site

import (
	"strings"
	"time"

	"github.com/pstuifzand/opml-pages/internal/model"
)

// FragmentKind tags an element of a flattened body.
type FragmentKind int

const (
	// FragmentText holds one child's text.
	FragmentText FragmentKind = iota
	// FragmentOpen starts the nested group of the preceding text.
	FragmentOpen
	// FragmentClose ends the innermost open group.
	FragmentClose
)

// Fragment is one element of a flattened body: a child's text, or the
// opening or closing marker of a nested group.
type Fragment struct {
	Kind  FragmentKind
	Text  string
	Attrs map[string]string
}

// IsText reports whether f carries text.
func (f Fragment) IsText() bool { return f.Kind == FragmentText }

// IsOpen reports whether f opens a nested group.
func (f Fragment) IsOpen() bool { return f.Kind == FragmentOpen }

// IsClose reports whether f closes a nested group.
func (f Fragment) IsClose() bool { return f.Kind == FragmentClose }

// Context is the data handed to the renderer for one page.
type Context struct {
	Head  map[string]string
	Attrs map[string]string
	Text  string
	Type  string
	Kind  Kind
	Home  bool
	// Path is the page's destination relative to the output root.
	Path string
	// Root leads from the page back to the output root, e.g. "../".
	Root    string
	Listing *Listing
	Body    []Fragment
	Built   time.Time
}

// Title returns the document title from the header, falling back to the
// node text.
func (c *Context) Title() string {
	if c.Home || c.Text == "" {
		return c.Head["title"]
	}
	return c.Text
}

// Assembler builds render contexts. Every context gets its own Listing.
type Assembler struct {
	head       map[string]string
	paths      PathBuilder
	rulePrefix string
	now        func() time.Time
}

// NewAssembler creates an assembler for one document.
func NewAssembler(doc *model.Document, paths PathBuilder, rulePrefix string, now func() time.Time) *Assembler {
	if now == nil {
		now = time.Now
	}
	return &Assembler{head: doc.Head, paths: paths, rulePrefix: rulePrefix, now: now}
}

// Assemble builds the context for n rendered at path.
func (a *Assembler) Assemble(n *model.Node, kind Kind, path string) *Context {
	return &Context{
		Head:    a.head,
		Attrs:   n.Attrs.Map(),
		Text:    n.Attrs.Text,
		Type:    n.Attrs.Type,
		Kind:    kind,
		Path:    path,
		Root:    RootPrefix(path),
		Listing: newListing(n, path, a.paths),
		Body:    Flatten(n, a.paths.Classifier, a.rulePrefix),
		Built:   a.now(),
	}
}

// Home builds the root listing context for the document body.
func (a *Assembler) Home(body *model.Node) *Context {
	return &Context{
		Head:    a.head,
		Attrs:   map[string]string{},
		Kind:    KindIndex,
		Home:    true,
		Path:    HomePath,
		Listing: newListing(body, HomePath, a.paths),
		Built:   a.now(),
	}
}

// Flatten walks the children of n in pre-order and emits one text fragment
// per kept child, wrapping each child's own children in open/close markers.
// A child whose text starts with rulePrefix, or that classifies as skip, is
// dropped together with its subtree.
func Flatten(n *model.Node, cls Classifier, rulePrefix string) []Fragment {
	type frame struct {
		nodes []*model.Node
		next  int
	}

	var out []Fragment
	stack := []frame{{nodes: n.Children}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.nodes) {
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				out = append(out, Fragment{Kind: FragmentClose})
			}
			continue
		}
		child := top.nodes[top.next]
		top.next++

		if excluded(child, cls, rulePrefix) {
			continue
		}
		out = append(out, Fragment{Kind: FragmentText, Text: child.Attrs.Text, Attrs: child.Attrs.Map()})
		if len(child.Children) > 0 {
			out = append(out, Fragment{Kind: FragmentOpen})
			stack = append(stack, frame{nodes: child.Children})
		}
	}
	return out
}

func excluded(n *model.Node, cls Classifier, rulePrefix string) bool {
	if rulePrefix != "" && strings.HasPrefix(n.Attrs.Text, rulePrefix) {
		return true
	}
	return cls.IsSkip(n)
}
