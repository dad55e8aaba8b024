// Package linkcheck verifies that the relative links in a generated site
// point at files that exist.
package linkcheck

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Link is a reference found in a page.
type Link struct {
	URL       string
	Text      string
	Tag       string // a, link, img, script
	Attribute string // href or src
}

// Broken is a relative link whose target does not exist.
type Broken struct {
	Page string // relative to the site root
	Link Link
	// Target is the resolved path relative to the site root.
	Target string
}

func (b Broken) String() string {
	return fmt.Sprintf("%s: %s %s=%q -> %s", b.Page, b.Link.Tag, b.Link.Attribute, b.Link.URL, b.Target)
}

// Report summarizes a check.
type Report struct {
	Pages  int
	Links  int
	Broken []Broken
}

// OK reports whether every checked link resolved.
func (r *Report) OK() bool {
	return len(r.Broken) == 0
}

// ExtractLinks returns the links of an HTML document in document order.
func ExtractLinks(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var links []Link
	stack := []*html.Node{doc}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Type == html.ElementNode {
			if l, ok := elementLink(n); ok {
				links = append(links, l)
			}
		}
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return links, nil
}

func elementLink(n *html.Node) (Link, bool) {
	attr := ""
	switch n.Data {
	case "a", "link":
		attr = "href"
	case "img", "script":
		attr = "src"
	default:
		return Link{}, false
	}
	v := getAttr(n, attr)
	if v == "" {
		return Link{}, false
	}
	text := extractText(n)
	if n.Data == "link" {
		text = getAttr(n, "rel")
	}
	return Link{URL: v, Text: text, Tag: n.Data, Attribute: attr}, true
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func extractText(n *html.Node) string {
	var sb strings.Builder
	stack := []*html.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.Type == html.TextNode {
			sb.WriteString(cur.Data)
		}
		for c := cur.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return strings.TrimSpace(sb.String())
}

// resolve maps a link found on page to a site-relative path. It reports
// false for links that are not checked: external URLs, other schemes,
// pure fragments and root-absolute paths.
func resolve(page, ref string) (string, bool) {
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" || strings.HasPrefix(u.Path, "/") {
		return "", false
	}
	target := path.Clean(path.Join(path.Dir(page), u.Path))
	if strings.HasSuffix(u.Path, "/") {
		target = path.Join(target, "index.html")
	}
	return target, true
}

// Check walks every .html file below root and verifies its relative links.
func Check(ctx context.Context, root string, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	report := &Report{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		page := filepath.ToSlash(rel)

		links, err := extractFile(p)
		if err != nil {
			return fmt.Errorf("%s: %w", page, err)
		}
		report.Pages++
		for _, l := range links {
			target, ok := resolve(page, l.URL)
			if !ok {
				continue
			}
			report.Links++
			if !exists(root, target) {
				report.Broken = append(report.Broken, Broken{Page: page, Link: l, Target: target})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(report.Broken, func(i, j int) bool {
		return report.Broken[i].Page < report.Broken[j].Page
	})
	logger.Info("Link check finished", "pages", report.Pages, "links", report.Links, "broken", len(report.Broken))
	for _, b := range report.Broken {
		logger.Warn("Broken link", "page", b.Page, "href", b.Link.URL, "target", b.Target)
	}
	return report, nil
}

func extractFile(p string) ([]Link, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close() // read-only
	}()
	return ExtractLinks(f)
}

func exists(root, target string) bool {
	if target == ".." || strings.HasPrefix(target, "../") {
		return false
	}
	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(target)))
	if err != nil {
		return false
	}
	if info.IsDir() {
		_, err = os.Stat(filepath.Join(root, filepath.FromSlash(target), "index.html"))
		return err == nil
	}
	return true
}
