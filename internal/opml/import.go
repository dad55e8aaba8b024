package opml

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pstuifzand/opml-pages/internal/model"
)

// Format identifies a source document format.
type Format string

const (
	FormatOPML     Format = "opml"
	FormatMarkdown Format = "markdown"
	FormatIndented Format = "indented"
	FormatAuto     Format = "auto" // detect from the file extension
)

// ParseFormat validates a format name. Empty means auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return FormatAuto, nil
	case FormatOPML, FormatMarkdown, FormatIndented, FormatAuto:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// Importer turns a plain text format into top-level outline nodes.
type Importer interface {
	Parse(content string) ([]*model.Node, error)
	Name() string
}

// DetectFormat guesses the format from the file extension. Unknown
// extensions are read as OPML.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".txt":
		return FormatIndented
	default:
		return FormatOPML
	}
}

// Decode parses data in the given format. FormatAuto is resolved against
// name.
func Decode(data []byte, format Format, name string) (*model.Document, error) {
	if format == FormatAuto || format == "" {
		format = DetectFormat(name)
	}
	if format == FormatOPML {
		return Parse(bytes.NewReader(data))
	}
	return Import(string(data), format)
}

// Import converts Markdown or indented text into a document. Markdown front
// matter becomes the head; without a title there, the first top-level
// node's text becomes the title.
func Import(content string, format Format) (*model.Document, error) {
	var (
		imp  Importer
		head map[string]string
	)
	switch format {
	case FormatMarkdown:
		imp = MarkdownImporter{}
		var err error
		if head, content, err = SplitFrontMatter(content); err != nil {
			return nil, fmt.Errorf("parse error (%s): %w", imp.Name(), err)
		}
	case FormatIndented:
		imp = IndentedImporter{}
	default:
		return nil, fmt.Errorf("unsupported import format: %s", format)
	}

	roots, err := imp.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse error (%s): %w", imp.Name(), err)
	}

	doc := model.NewDocument()
	for k, v := range head {
		doc.Head[k] = v
	}
	for _, n := range roots {
		doc.Body.AddChild(n)
	}
	if _, ok := doc.Head["title"]; !ok && len(roots) > 0 {
		doc.Head["title"] = roots[0].Attrs.Text
	}
	return doc, nil
}

// levelStack tracks the open node at each nesting level while importing.
type levelStack struct {
	roots  []*model.Node
	frames []levelFrame
}

type levelFrame struct {
	node  *model.Node
	level int
}

// attach places n below the nearest open node with a lower level and makes
// it the open node at level.
func (s *levelStack) attach(n *model.Node, level int) {
	for len(s.frames) > 0 && s.frames[len(s.frames)-1].level >= level {
		s.frames = s.frames[:len(s.frames)-1]
	}
	s.add(n)
	s.frames = append(s.frames, levelFrame{node: n, level: level})
}

// add places n below the innermost open node without opening it.
func (s *levelStack) add(n *model.Node) {
	if len(s.frames) == 0 {
		s.roots = append(s.roots, n)
		return
	}
	s.frames[len(s.frames)-1].node.AddChild(n)
}

func newScanner(content string) *bufio.Scanner {
	sc := bufio.NewScanner(strings.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return sc
}

// indentWidth counts leading whitespace, a tab counting as two spaces.
func indentWidth(line string) int {
	indent := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\t':
			indent += 2
		case ' ':
			indent++
		default:
			return indent
		}
	}
	return indent
}
