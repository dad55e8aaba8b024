package site

import (
	"strings"

	"github.com/pstuifzand/opml-pages/internal/model"
)

// Kind is the behaviour the traversal engine applies to a node. It is
// recomputed from the node's attributes and children on every visit.
type Kind int

const (
	// KindPlain is a childless node with no recognized type. It produces no output.
	KindPlain Kind = iota
	// KindSkip excludes the node and its whole subtree.
	KindSkip
	// KindRender renders the node as a leaf page.
	KindRender
	// KindIndex renders an index page and descends into the children.
	KindIndex
)

func (k Kind) String() string {
	switch k {
	case KindSkip:
		return "skip"
	case KindRender:
		return "render"
	case KindIndex:
		return "index"
	default:
		return "plain"
	}
}

// MarshalText encodes the kind by name, for plan output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// DefaultRenderTypes are the leaf page types recognized out of the box.
var DefaultRenderTypes = []string{"outline", "link", "thread"}

const (
	// DefaultSkipPrefix marks node text whose subtree is excluded.
	DefaultSkipPrefix = "#"
	// DefaultRulePrefix marks body children dropped from flattened bodies.
	DefaultRulePrefix = "---"
)

// Classifier assigns a Kind to nodes.
type Classifier struct {
	renderTypes map[string]bool
	skipPrefix  string
}

// NewClassifier creates a classifier recognizing renderTypes as leaf page
// types. Text starting with skipPrefix marks a skip node; an empty prefix
// disables the text rule, leaving only isComment.
func NewClassifier(renderTypes []string, skipPrefix string) Classifier {
	types := make(map[string]bool, len(renderTypes))
	for _, t := range renderTypes {
		types[t] = true
	}
	return Classifier{renderTypes: types, skipPrefix: skipPrefix}
}

// IsSkip reports whether n and its subtree are excluded from output.
func (c Classifier) IsSkip(n *model.Node) bool {
	if n.Attrs.IsComment == "true" {
		return true
	}
	return c.skipPrefix != "" && strings.HasPrefix(n.Attrs.Text, c.skipPrefix)
}

// IsRenderType reports whether typ selects a leaf page.
func (c Classifier) IsRenderType(typ string) bool {
	return c.renderTypes[typ]
}

// Classify returns the kind of n.
func (c Classifier) Classify(n *model.Node) Kind {
	switch {
	case c.IsSkip(n):
		return KindSkip
	case c.renderTypes[n.Attrs.Type]:
		return KindRender
	case len(n.Children) > 0:
		return KindIndex
	default:
		return KindPlain
	}
}
