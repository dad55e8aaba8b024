package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/pstuifzand/opml-pages/internal/slug"
)

// dateLayouts are tried in order when a date filter receives a string.
// OPML dates are RFC 822 style; the rest cover hand-written headers.
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2006-01-02",
}

// FormatDate formats value with a strftime format string.
// Common formats:
//
//	%Y - 4-digit year
//	%m - 2-digit month (01-12)
//	%d - 2-digit day (01-31)
//	%B - full month name
//	%A - full weekday name
//
// Strings that do not parse as a date are returned unchanged.
func FormatDate(value any, format string) (string, error) {
	if format == "" {
		format = "%Y-%m-%d"
	}
	switch v := value.(type) {
	case time.Time:
		return strftime.Format(format, v), nil
	case *time.Time:
		if v == nil {
			return "", nil
		}
		return strftime.Format(format, *v), nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return strftime.Format(format, t), nil
			}
		}
		return v, nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("date: unsupported value of type %T", value)
	}
}

// inlineMarkdown renders outline text as inline HTML. A lone paragraph
// wrapper is removed so the result fits inside headings and list items.
func inlineMarkdown(md goldmark.Markdown) func(string) (template.HTML, error) {
	return func(s string) (template.HTML, error) {
		var buf bytes.Buffer
		if err := md.Convert([]byte(s), &buf); err != nil {
			return "", fmt.Errorf("markdown: %w", err)
		}
		out := strings.TrimSpace(buf.String())
		if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
			out = out[len("<p>") : len(out)-len("</p>")]
		}
		return template.HTML(out), nil
	}
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))
}

// Funcs returns the template functions available to page templates. The
// date filter uses dateFormat when a template passes an empty format.
func Funcs(res slug.Resolver, dateFormat string) template.FuncMap {
	return template.FuncMap{
		"date": func(value any, format string) (string, error) {
			if format == "" {
				format = dateFormat
			}
			return FormatDate(value, format)
		},
		"markdown": inlineMarkdown(newMarkdown()),
		"slug":     res.FromText,
	}
}
