package opml

import (
	"strings"

	"github.com/pstuifzand/opml-pages/internal/model"
)

// listLevel is the level of an unindented list item. It is deeper than every
// heading level so a heading always closes open lists.
const listLevel = 6

// MarkdownImporter imports headings, bullet lists and paragraphs. Headings
// nest by level, list items nest below the last heading by indentation and
// other lines become children of the innermost open node.
type MarkdownImporter struct{}

func (MarkdownImporter) Name() string {
	return "Markdown"
}

func (MarkdownImporter) Parse(content string) ([]*model.Node, error) {
	sc := newScanner(content)

	var s levelStack
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		if level, text, ok := parseHeading(line); ok {
			s.attach(model.NewNode(model.Attrs{Text: text}), level)
			continue
		}

		if indent, text, ok := parseListItem(line); ok {
			s.attach(model.NewNode(model.Attrs{Text: text}), listLevel+indent)
			continue
		}

		s.add(model.NewNode(model.Attrs{Text: strings.TrimSpace(line)}))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s.roots, nil
}

// parseHeading returns the 0-based level and text of an ATX heading.
func parseHeading(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0, "", false
	}
	rest := line[level:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return 0, "", false
	}
	text := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(rest), "#"))
	if text == "" {
		return 0, "", false
	}
	return level - 1, text, true
}

// parseListItem returns the indentation and text of a "-", "*" or "+" item.
func parseListItem(line string) (int, string, bool) {
	indent := indentWidth(line)
	trimmed := strings.TrimSpace(line)
	if len(trimmed) > 2 && strings.ContainsRune("-*+", rune(trimmed[0])) && trimmed[1] == ' ' {
		return indent, strings.TrimSpace(trimmed[2:]), true
	}
	return 0, "", false
}
