package site

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/pstuifzand/opml-pages/internal/errors"
	"github.com/pstuifzand/opml-pages/internal/model"
	"github.com/pstuifzand/opml-pages/internal/slug"
)

func TestPathForms(t *testing.T) {
	leaf := typed("Leaf Page", "outline")
	plain := node("Just text")
	named := withAttrs(model.Attrs{Text: "Ignored text", Name: "Keep_This"}, leaf, plain)
	top := node("Top Level!", named)
	document(top)

	tests := []struct {
		name string
		node *model.Node
		want string
	}{
		{"top level index", top, "top-level/index.html"},
		{"name used verbatim", named, "top-level/Keep_This/index.html"},
		{"render leaf", leaf, "top-level/Keep_This/leaf-page.html"},
		{"plain node", plain, "top-level/Keep_This/just-text.html"},
	}

	paths := testPaths()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := paths.Path(tt.node)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathIsPure(t *testing.T) {
	leaf := typed("Leaf", "outline")
	document(node("A", node("B", leaf)))
	paths := testPaths()

	first, err := paths.Path(leaf)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := paths.Path(leaf)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPathCamelStrategy(t *testing.T) {
	leaf := typed("Second Post", "outline")
	document(node("My Blog", leaf))
	paths := PathBuilder{
		Resolver:   slug.NewResolver(slug.Camel{}),
		Classifier: NewClassifier(DefaultRenderTypes, DefaultSkipPrefix),
	}

	got, err := paths.Path(leaf)
	require.NoError(t, err)
	assert.Equal(t, "myBlog/secondPost.html", got)
}

func TestPathMissingIdentifierInAncestor(t *testing.T) {
	leaf := typed("Fine", "outline")
	document(node("!!!", leaf))

	_, err := testPaths().Path(leaf)
	require.ErrorIs(t, err, perrors.ErrMissingIdentifier)

	var pe *perrors.Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "1", pe.Context["position"])
	assert.Equal(t, "", pe.Context["ancestors"])
	assert.Equal(t, "!!!", pe.Context["text"])
}

func TestPathMissingIdentifierNamesAncestors(t *testing.T) {
	leaf := typed("", "link")
	document(node("Blog", node("Old"), node("Archive", leaf)))

	_, err := testPaths().Path(leaf)
	require.ErrorIs(t, err, perrors.ErrMissingIdentifier)

	var pe *perrors.Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "1.2.1", pe.Context["position"])
	assert.Equal(t, "blog/archive", pe.Context["ancestors"])
	assert.Equal(t, "link", pe.Context["type"])
}

func TestRelativeHref(t *testing.T) {
	tests := []struct {
		from, to, want string
	}{
		{"index.html", "a/b.html", "a/b.html"},
		{"a/index.html", "a/b.html", "b.html"},
		{"a/index.html", "a/c/d.html", "c/d.html"},
		{"a/b/index.html", "a/c.html", "../c.html"},
		{"a/b.html", "index.html", "../index.html"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RelativeHref(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestRootPrefix(t *testing.T) {
	assert.Equal(t, "", RootPrefix("x.html"))
	assert.Equal(t, "../", RootPrefix("a/x.html"))
	assert.Equal(t, "../../", RootPrefix("a/b/index.html"))
}

func TestClassify(t *testing.T) {
	cls := NewClassifier(DefaultRenderTypes, DefaultSkipPrefix)

	tests := []struct {
		name string
		node *model.Node
		want Kind
	}{
		{"comment wins over type", withAttrs(model.Attrs{Text: "x", Type: "outline", IsComment: "true"}), KindSkip},
		{"skip prefix", node("#private", node("child")), KindSkip},
		{"render type with children", typed("post", "outline", node("p")), KindRender},
		{"link type", typed("site", "link"), KindRender},
		{"untyped parent", node("section", node("x")), KindIndex},
		{"unknown type parent", typed("section", "note", node("x")), KindIndex},
		{"untyped leaf", node("leaf"), KindPlain},
		{"isComment false", withAttrs(model.Attrs{Text: "x", IsComment: "false"}), KindPlain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cls.Classify(tt.node))
		})
	}
}

func TestClassifyEmptySkipPrefix(t *testing.T) {
	cls := NewClassifier([]string{"note"}, "")

	assert.Equal(t, KindPlain, cls.Classify(node("#not skipped")))
	assert.Equal(t, KindRender, cls.Classify(typed("n", "note")))
	assert.Equal(t, KindPlain, cls.Classify(typed("o", "outline")))
}
