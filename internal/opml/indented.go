package opml

import (
	"strings"

	"github.com/pstuifzand/opml-pages/internal/model"
)

// IndentedImporter imports plain text where a line nests below the nearest
// preceding line with less indentation. A tab counts as two spaces.
type IndentedImporter struct{}

func (IndentedImporter) Name() string {
	return "Indented Text"
}

func (IndentedImporter) Parse(content string) ([]*model.Node, error) {
	sc := newScanner(content)

	var s levelStack
	for sc.Scan() {
		line := sc.Text()
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		s.attach(model.NewNode(model.Attrs{Text: text}), indentWidth(line))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s.roots, nil
}
