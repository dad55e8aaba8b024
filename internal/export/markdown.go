// Package export writes outline documents in formats other than OPML.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pstuifzand/opml-pages/internal/model"
	"github.com/pstuifzand/opml-pages/internal/opml"
)

// WriteMarkdown writes doc as an unordered Markdown list, with the head as
// YAML front matter. Items are bullets indented by depth. The Markdown
// importer reads the result back into the same tree.
func WriteMarkdown(w io.Writer, doc *model.Document) error {
	var sb strings.Builder
	if err := opml.WriteFrontMatter(&sb, doc.Head); err != nil {
		return err
	}

	type frame struct {
		node  *model.Node
		depth int
	}
	stack := make([]frame, 0, len(doc.Body.Children))
	push := func(children []*model.Node, depth int) {
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{children[i], depth})
		}
	}
	push(doc.Body.Children, 0)

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		text := strings.Join(strings.Fields(f.node.Attrs.Text), " ")
		// Empty items are dropped, their children move up a level
		if text == "" {
			push(f.node.Children, f.depth)
			continue
		}

		sb.WriteString(strings.Repeat("  ", f.depth))
		sb.WriteString("- ")
		sb.WriteString(text)
		sb.WriteString("\n")
		push(f.node.Children, f.depth+1)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// ExportToMarkdown writes doc as Markdown to filePath.
func ExportToMarkdown(doc *model.Document, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to write markdown file: %w", err)
	}
	if err := WriteMarkdown(f, doc); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write markdown file: %w", err)
	}
	return f.Close()
}
