package opml

import (
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

const frontMatterFence = "---"

// SplitFrontMatter separates a leading front matter block (YAML or TOML)
// from Markdown content. Content without one is returned unchanged with a
// nil head. Values are flattened to strings: lists are joined with ", ",
// nested tables become dotted keys and null values are dropped.
func SplitFrontMatter(content string) (map[string]string, string, error) {
	var raw map[string]any
	body, err := frontmatter.Parse(strings.NewReader(content), &raw)
	if err != nil {
		return nil, "", fmt.Errorf("front matter: %w", err)
	}
	if raw == nil {
		return nil, string(body), nil
	}

	head := map[string]string{}
	flattenInto(head, "", raw)
	return head, string(body), nil
}

func flattenInto(head map[string]string, prefix string, value any) {
	switch v := value.(type) {
	case nil:
	case map[string]any:
		for k, item := range v {
			flattenInto(head, joinKey(prefix, k), item)
		}
	case map[any]any:
		for k, item := range v {
			flattenInto(head, joinKey(prefix, fmt.Sprint(k)), item)
		}
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := scalarString(item); ok {
				parts = append(parts, s)
			}
		}
		head[prefix] = strings.Join(parts, ", ")
	default:
		if s, ok := scalarString(v); ok {
			head[prefix] = s
		}
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// scalarString formats a decoded scalar. Dates without a time of day keep
// their short form.
func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case nil, map[string]any, map[any]any, []any:
		return "", false
	case string:
		return s, true
	case time.Time:
		if s.Equal(s.Truncate(24*time.Hour)) && s.Location() == time.UTC {
			return s.Format(time.DateOnly), true
		}
		return s.Format(time.RFC3339), true
	default:
		return fmt.Sprint(s), true
	}
}

// WriteFrontMatter renders head as a YAML front matter block. An empty head
// renders nothing.
func WriteFrontMatter(sb *strings.Builder, head map[string]string) error {
	if len(head) == 0 {
		return nil
	}
	data, err := yaml.Marshal(head)
	if err != nil {
		return fmt.Errorf("front matter: %w", err)
	}
	sb.WriteString(frontMatterFence + "\n")
	sb.Write(data)
	sb.WriteString(frontMatterFence + "\n\n")
	return nil
}

