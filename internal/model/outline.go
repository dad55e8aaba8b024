// Package model contains the outline document tree
package model

import (
	"slices"
	"strconv"
	"strings"
)

// Attrs holds the attributes of an outline element
type Attrs struct {
	Text      string            `json:"text" yaml:"text"`
	Name      string            `json:"name,omitempty" yaml:"name,omitempty"`
	Type      string            `json:"type,omitempty" yaml:"type,omitempty"`
	IsComment string            `json:"isComment,omitempty" yaml:"isComment,omitempty"`
	Extra     map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Get returns an attribute by its OPML name
func (a Attrs) Get(key string) string {
	switch key {
	case "text":
		return a.Text
	case "name":
		return a.Name
	case "type":
		return a.Type
	case "isComment":
		return a.IsComment
	}
	return a.Extra[key]
}

// Map returns all attributes keyed by their OPML names. Empty values are omitted.
func (a Attrs) Map() map[string]string {
	m := make(map[string]string, len(a.Extra)+4)
	for k, v := range a.Extra {
		m[k] = v
	}
	for _, kv := range [][2]string{{"text", a.Text}, {"name", a.Name}, {"type", a.Type}, {"isComment", a.IsComment}} {
		if kv[1] != "" {
			m[kv[0]] = kv[1]
		}
	}
	return m
}

// Node represents a single outline element. The body of a document is a
// synthetic Node that has no attributes of its own.
type Node struct {
	Attrs    Attrs
	Children []*Node
	Parent   *Node `json:"-"` // back-reference, not ownership

	index int
	body  bool
}

// Document represents a parsed outline document
type Document struct {
	Head map[string]string
	Body *Node
}

// NewNode creates a detached node with the given attributes
func NewNode(attrs Attrs) *Node {
	return &Node{Attrs: attrs, Children: make([]*Node, 0)}
}

// NewDocument creates an empty document with a synthetic body
func NewDocument() *Document {
	return &Document{
		Head: make(map[string]string),
		Body: &Node{body: true, Children: make([]*Node, 0)},
	}
}

// AddChild appends child to this node and sets its parent
func (n *Node) AddChild(child *Node) *Node {
	child.Parent = n
	child.index = len(n.Children)
	n.Children = append(n.Children, child)
	return child
}

// IsBody reports whether n is the synthetic body boundary
func (n *Node) IsBody() bool {
	return n.body
}

// NextSibling returns the node following n under the same parent, or nil
func (n *Node) NextSibling() *Node {
	if n.Parent == nil {
		return nil
	}
	next := n.index + 1
	if next < len(n.Parent.Children) && n.Parent.Children[n.index] == n {
		return n.Parent.Children[next]
	}
	// index is stale when Children was assembled by hand
	for i, c := range n.Parent.Children {
		if c == n && i+1 < len(n.Parent.Children) {
			return n.Parent.Children[i+1]
		}
	}
	return nil
}

// Index returns the position of n among its parent's children, or -1 for a
// detached node
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}
	if n.index < len(n.Parent.Children) && n.Parent.Children[n.index] == n {
		return n.index
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// Position locates n in its document as 1-based sibling numbers from the
// top level down, e.g. "2.1.3" for the third child of the first child of
// the second top-level node.
func (n *Node) Position() string {
	var parts []string
	for cur := n; cur != nil && !cur.body && cur.Parent != nil; cur = cur.Parent {
		parts = append(parts, strconv.Itoa(cur.Index()+1))
	}
	slices.Reverse(parts)
	return strings.Join(parts, ".")
}

// FirstChild returns the first child of n, or nil
func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// Ancestors returns the real outline ancestors of n, oldest first. The body
// boundary is never included.
func (n *Node) Ancestors() []*Node {
	var chain []*Node
	for p := n.Parent; p != nil && !p.body; p = p.Parent {
		chain = append(chain, p)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Depth returns the number of real ancestors of n
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil && !p.body; p = p.Parent {
		d++
	}
	return d
}

// Count returns the number of real nodes in the document
func (d *Document) Count() int {
	count := 0
	stack := append([]*Node(nil), d.Body.Children...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, n.Children...)
	}
	return count
}

// RestoreParents rebuilds parent pointers and sibling positions below n.
// Importers that assemble Children slices directly call this once afterwards.
func RestoreParents(n *Node) {
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i, c := range cur.Children {
			c.Parent = cur
			c.index = i
			stack = append(stack, c)
		}
	}
}
