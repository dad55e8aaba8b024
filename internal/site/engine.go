package site

import (
	"context"

	"github.com/pstuifzand/opml-pages/internal/model"
	"github.com/pstuifzand/opml-pages/internal/slug"
)

// Step describes one visited node. Path is set for render and index nodes.
type Step struct {
	Node *model.Node
	Kind Kind
	Path string
}

// VisitFunc is called once per visited node, in document order. Returning an
// error aborts the walk.
type VisitFunc func(Step) error

type state int

const (
	stateVisiting state = iota
	stateDescending
	stateAdvancing
	stateDone
)

// Engine walks an outline in document order, descending only into index
// nodes. It runs as a loop over explicit states so document depth never
// grows the call stack.
type Engine struct {
	paths PathBuilder
}

// NewEngine creates an engine using the given identifier and classification rules.
func NewEngine(res slug.Resolver, cls Classifier) *Engine {
	return &Engine{paths: PathBuilder{Resolver: res, Classifier: cls}}
}

// Walk visits the whole document starting at the body's first child.
func (e *Engine) Walk(ctx context.Context, doc *model.Document, visit VisitFunc) error {
	first := doc.Body.FirstChild()
	if first == nil {
		return nil
	}
	return e.walk(ctx, first, nil, visit)
}

// WalkSubtree visits root and its subtree, never moving on to root's siblings.
func (e *Engine) WalkSubtree(ctx context.Context, root *model.Node, visit VisitFunc) error {
	return e.walk(ctx, root, root, visit)
}

func (e *Engine) walk(ctx context.Context, start, scope *model.Node, visit VisitFunc) error {
	// prefix holds the identifiers of cur's real ancestors, oldest first.
	prefix, err := e.paths.ancestorIDs(start)
	if err != nil {
		return err
	}

	cur := start
	curID := ""
	st := stateVisiting
	for st != stateDone {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch st {
		case stateVisiting:
			kind := e.paths.Classifier.Classify(cur)
			step := Step{Node: cur, Kind: kind}
			st = stateAdvancing
			if kind == KindRender || kind == KindIndex {
				id, err := e.paths.Resolver.Identifier(cur)
				if err != nil {
					return locate(err, cur, prefix)
				}
				step.Path = joinPath(prefix, id, kind)
				if kind == KindIndex {
					curID = id
					st = stateDescending
				}
			}
			if err := visit(step); err != nil {
				return err
			}

		case stateDescending:
			prefix = append(prefix, curID)
			cur = cur.FirstChild()
			st = stateVisiting

		case stateAdvancing:
			st = stateDone
			for ref := cur; ref != nil && ref != scope && !ref.IsBody(); {
				if next := ref.NextSibling(); next != nil {
					cur = next
					st = stateVisiting
					break
				}
				ref = ref.Parent
				if ref != nil && !ref.IsBody() {
					prefix = prefix[:len(prefix)-1]
				}
			}
		}
	}
	return nil
}
