package site

import (
	"errors"
	"path/filepath"
	"strings"

	perrors "github.com/pstuifzand/opml-pages/internal/errors"
	"github.com/pstuifzand/opml-pages/internal/model"
	"github.com/pstuifzand/opml-pages/internal/slug"
)

// HomePath is the destination of the root listing page.
const HomePath = "index.html"

// PathBuilder maps nodes to destination paths relative to the output root.
// Paths depend only on tree shape and node attributes. They are not unique:
// siblings with the same identifier map to the same path.
type PathBuilder struct {
	Resolver   slug.Resolver
	Classifier Classifier
}

// Path returns the destination of n: "a/b/self/index.html" for index nodes,
// "a/b/self.html" for everything else.
func (b PathBuilder) Path(n *model.Node) (string, error) {
	ancestors, err := b.ancestorIDs(n)
	if err != nil {
		return "", err
	}
	id, err := b.Resolver.Identifier(n)
	if err != nil {
		return "", locate(err, n, ancestors)
	}
	return joinPath(ancestors, id, b.Classifier.Classify(n)), nil
}

// locate adds where n sits in the outline to an identifier error: its
// sibling position, the identifiers of its ancestors and its type.
func locate(err error, n *model.Node, ancestors []string) error {
	var pe *perrors.Error
	if !errors.As(err, &pe) {
		return err
	}
	pe.WithContext("position", n.Position()).
		WithContext("ancestors", strings.Join(ancestors, "/"))
	if n.Attrs.Type != "" {
		pe.WithContext("type", n.Attrs.Type)
	}
	return pe
}

func (b PathBuilder) ancestorIDs(n *model.Node) ([]string, error) {
	chain := n.Ancestors()
	ids := make([]string, len(chain))
	for i, a := range chain {
		id, err := b.Resolver.Identifier(a)
		if err != nil {
			return nil, locate(err, a, ids[:i])
		}
		ids[i] = id
	}
	return ids, nil
}

func joinPath(ancestors []string, id string, kind Kind) string {
	var sb strings.Builder
	for _, a := range ancestors {
		sb.WriteString(a)
		sb.WriteByte('/')
	}
	sb.WriteString(id)
	if kind == KindIndex {
		sb.WriteString("/index.html")
	} else {
		sb.WriteString(".html")
	}
	return sb.String()
}

// RelativeHref returns the link from the page at from to the page at to.
func RelativeHref(from, to string) string {
	dir := filepath.Dir(filepath.FromSlash(from))
	rel, err := filepath.Rel(dir, filepath.FromSlash(to))
	if err != nil {
		return to
	}
	return filepath.ToSlash(rel)
}

// RootPrefix returns the relative prefix leading from the page at p back to
// the output root: "" for "x.html", "../../" for "a/b/index.html".
func RootPrefix(p string) string {
	return strings.Repeat("../", strings.Count(p, "/"))
}
