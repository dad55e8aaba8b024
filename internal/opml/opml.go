// Package opml reads outline documents. OPML is the native format; Markdown
// and indented text are imported into the same tree.
package opml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pstuifzand/opml-pages/internal/model"
)

var (
	errNotOPML   = errors.New("root element is not <opml>")
	errNoBody    = errors.New("document has no <body>")
	errEmpty     = errors.New("document is empty")
	errNoOutline = errors.New("<outline> outside <body>")
)

// Parse reads an OPML document. Every attribute of an outline element is
// kept; the ones the site generator interprets are typed, the rest land in
// Attrs.Extra. Nesting depth is bounded only by memory.
func Parse(r io.Reader) (*model.Document, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true

	doc := model.NewDocument()
	var (
		rootSeen bool
		bodySeen bool
		inHead   bool
		inBody   bool
		headKey  string
		headText strings.Builder
		// stack holds the open outline elements below the body
		stack []*model.Node
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed OPML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			switch {
			case !rootSeen:
				if name != "opml" {
					return nil, errNotOPML
				}
				rootSeen = true
			case inBody:
				if name != "outline" {
					if err := dec.Skip(); err != nil {
						return nil, fmt.Errorf("malformed OPML: %w", err)
					}
					continue
				}
				parent := doc.Body
				if len(stack) > 0 {
					parent = stack[len(stack)-1]
				}
				stack = append(stack, parent.AddChild(model.NewNode(attrsOf(t.Attr))))
			case inHead:
				if headKey != "" {
					// nested element inside a header field
					if err := dec.Skip(); err != nil {
						return nil, fmt.Errorf("malformed OPML: %w", err)
					}
					continue
				}
				headKey = name
				headText.Reset()
			case name == "head":
				inHead = true
			case name == "body":
				inBody, bodySeen = true, true
			case name == "outline":
				return nil, errNoOutline
			default:
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("malformed OPML: %w", err)
				}
			}

		case xml.CharData:
			if inHead && headKey != "" {
				headText.Write(t)
			}

		case xml.EndElement:
			switch {
			case inBody && len(stack) > 0:
				stack = stack[:len(stack)-1]
			case inBody:
				inBody = false
			case inHead && headKey != "":
				doc.Head[headKey] = strings.TrimSpace(headText.String())
				headKey = ""
			case inHead:
				inHead = false
			}
		}
	}

	if !rootSeen {
		return nil, errEmpty
	}
	if !bodySeen {
		return nil, errNoBody
	}
	return doc, nil
}

func attrsOf(xattrs []xml.Attr) model.Attrs {
	var a model.Attrs
	for _, x := range xattrs {
		switch x.Name.Local {
		case "text":
			a.Text = x.Value
		case "name":
			a.Name = x.Value
		case "type":
			a.Type = x.Value
		case "isComment":
			a.IsComment = x.Value
		default:
			if a.Extra == nil {
				a.Extra = make(map[string]string)
			}
			a.Extra[x.Name.Local] = x.Value
		}
	}
	return a
}

// Encode writes doc as an indented OPML 2.0 document. Header fields are
// written in key order, extra outline attributes likewise.
func Encode(w io.Writer, doc *model.Document) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	start := func(name string, attrs ...xml.Attr) error {
		return enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
	}
	end := func(name string) error {
		return enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
	}

	if err := start("opml", xml.Attr{Name: xml.Name{Local: "version"}, Value: "2.0"}); err != nil {
		return err
	}
	if err := start("head"); err != nil {
		return err
	}
	keys := make([]string, 0, len(doc.Head))
	for k := range doc.Head {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := enc.EncodeElement(doc.Head[k], xml.StartElement{Name: xml.Name{Local: k}}); err != nil {
			return err
		}
	}
	if err := end("head"); err != nil {
		return err
	}
	if err := start("body"); err != nil {
		return err
	}

	type frame struct {
		nodes []*model.Node
		next  int
	}
	stack := []frame{{nodes: doc.Body.Children}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.nodes) {
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				if err := end("outline"); err != nil {
					return err
				}
			}
			continue
		}
		n := top.nodes[top.next]
		top.next++
		if err := start("outline", xmlAttrs(n.Attrs)...); err != nil {
			return err
		}
		stack = append(stack, frame{nodes: n.Children})
	}

	if err := end("body"); err != nil {
		return err
	}
	if err := end("opml"); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func xmlAttrs(a model.Attrs) []xml.Attr {
	m := a.Map()
	keys := make([]string, 0, len(m))
	for k := range m {
		if k != "text" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	// text always comes first and is always present
	out := []xml.Attr{{Name: xml.Name{Local: "text"}, Value: a.Text}}
	for _, k := range keys {
		out = append(out, xml.Attr{Name: xml.Name{Local: k}, Value: m[k]})
	}
	return out
}
