package opml

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/opml-pages/internal/model"
)

const sampleOPML = `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
  <head>
    <title> My Notes </title>
    <dateModified>Sat, 09 Mar 2024 10:00:00 GMT</dateModified>
    <ownerName>Peter</ownerName>
  </head>
  <body>
    <outline text="Blog" name="blog">
      <outline text="First Post" type="outline" created="Fri, 08 Mar 2024 09:00:00 GMT">
        <outline text="Hello"/>
      </outline>
      <outline text="Drafts" isComment="true"/>
    </outline>
    <outline text="Example" type="link" url="https://example.com/"/>
  </body>
</opml>`

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleOPML))
	require.NoError(t, err)

	assert.Equal(t, "My Notes", doc.Head["title"])
	assert.Equal(t, "Peter", doc.Head["ownerName"])
	assert.Equal(t, "Sat, 09 Mar 2024 10:00:00 GMT", doc.Head["dateModified"])

	require.Len(t, doc.Body.Children, 2)
	blog := doc.Body.Children[0]
	assert.Equal(t, "Blog", blog.Attrs.Text)
	assert.Equal(t, "blog", blog.Attrs.Name)
	assert.Same(t, doc.Body, blog.Parent)
	require.Len(t, blog.Children, 2)

	post := blog.Children[0]
	assert.Equal(t, "outline", post.Attrs.Type)
	assert.Equal(t, "Fri, 08 Mar 2024 09:00:00 GMT", post.Attrs.Extra["created"])
	assert.Same(t, blog, post.Parent)
	assert.Same(t, blog.Children[1], post.NextSibling())
	assert.Equal(t, "true", blog.Children[1].Attrs.IsComment)

	link := doc.Body.Children[1]
	assert.Equal(t, "https://example.com/", link.Attrs.Get("url"))
	assert.Equal(t, 5, doc.Count())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not xml", "hello world"},
		{"wrong root", `<html><body></body></html>`},
		{"missing body", `<opml><head><title>x</title></head></opml>`},
		{"unclosed outline", `<opml><body><outline text="a"></body></opml>`},
		{"truncated", `<opml><body><outline text="a">`},
		{"outline outside body", `<opml><outline text="a"/><body/></opml>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestParseEmptyBody(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<opml version="2.0"><head/><body/></opml>`))
	require.NoError(t, err)
	assert.Empty(t, doc.Body.Children)
}

func TestParseIgnoresForeignElements(t *testing.T) {
	input := `<opml><head><title>T<b>bold</b></title><extra><x/></extra></head>
<body><note>ignored<outline text="also ignored"/></note><outline text="kept"/></body></opml>`
	doc, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "T", doc.Head["title"])
	require.Len(t, doc.Body.Children, 1)
	assert.Equal(t, "kept", doc.Body.Children[0].Attrs.Text)
}

func TestParseDeepNesting(t *testing.T) {
	const depth = 5000
	var sb strings.Builder
	sb.WriteString("<opml><body>")
	for i := 0; i < depth; i++ {
		fmt.Fprintf(&sb, `<outline text="n%d">`, i)
	}
	for i := 0; i < depth; i++ {
		sb.WriteString("</outline>")
	}
	sb.WriteString("</body></opml>")

	doc, err := Parse(strings.NewReader(sb.String()))
	require.NoError(t, err)
	assert.Equal(t, depth, doc.Count())
}

func TestEncodeRoundTrip(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleOPML))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))
	assert.True(t, strings.HasPrefix(buf.String(), "<?xml"))
	assert.Contains(t, buf.String(), `<outline text="Example" type="link" url="https://example.com/">`)

	again, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc.Head, again.Head)
	assert.Equal(t, outlineTexts(doc), outlineTexts(again))
	assert.Equal(t, doc.Body.Children[0].Children[0].Attrs, again.Body.Children[0].Children[0].Attrs)
}

func TestEncodeEscapes(t *testing.T) {
	doc := model.NewDocument()
	doc.Body.AddChild(model.NewNode(model.Attrs{Text: `Tom & "Jerry" <3`}))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))
	again, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, `Tom & "Jerry" <3`, again.Body.Children[0].Attrs.Text)
}

// outlineTexts lists node texts in pre-order with their depth.
func outlineTexts(doc *model.Document) []string {
	var out []string
	stack := append([]*model.Node(nil), doc.Body.Children...)
	for i, j := 0, len(stack)-1; i < j; i, j = i+1, j-1 {
		stack[i], stack[j] = stack[j], stack[i]
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, fmt.Sprintf("%d:%s", n.Depth(), n.Attrs.Text))
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return out
}
