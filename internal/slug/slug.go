// Package slug derives page identifiers from outline nodes.
package slug

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	perrors "github.com/pstuifzand/opml-pages/internal/errors"
	"github.com/pstuifzand/opml-pages/internal/model"
)

// Strategy joins the words of a node's text into a slug.
type Strategy interface {
	Name() string
	Join(words []string) string
}

// Hyphen lowercases every word and joins them with "-": "Hello World" -> "hello-world".
type Hyphen struct{}

func (Hyphen) Name() string { return "hyphen" }

func (Hyphen) Join(words []string) string {
	lower := cases.Lower(language.Und)
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = lower.String(w)
	}
	return strings.Join(out, "-")
}

// Camel lowercases the first word and title-cases the rest: "Hello World" -> "helloWorld".
type Camel struct{}

func (Camel) Name() string { return "camel" }

func (Camel) Join(words []string) string {
	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)
	var sb strings.Builder
	for i, w := range words {
		if i == 0 {
			sb.WriteString(lower.String(w))
			continue
		}
		sb.WriteString(title.String(w))
	}
	return sb.String()
}

// ForName returns the strategy registered under name.
func ForName(name string) (Strategy, error) {
	switch name {
	case "", "hyphen":
		return Hyphen{}, nil
	case "camel":
		return Camel{}, nil
	default:
		return nil, fmt.Errorf("unknown slug strategy %q", name)
	}
}

// Resolver computes node identifiers with a fixed strategy.
type Resolver struct {
	Strategy Strategy
}

// NewResolver creates a resolver; a nil strategy means Hyphen.
func NewResolver(s Strategy) Resolver {
	if s == nil {
		s = Hyphen{}
	}
	return Resolver{Strategy: s}
}

// Identifier returns the node's name verbatim when set, otherwise the slug of
// its text. It fails when neither yields a non-empty identifier.
func (r Resolver) Identifier(n *model.Node) (string, error) {
	if n.Attrs.Name != "" {
		return n.Attrs.Name, nil
	}
	s := r.FromText(n.Attrs.Text)
	if s == "" {
		return "", perrors.MissingIdentifier(n.Attrs.Text)
	}
	return s, nil
}

// FromText slugs arbitrary text.
func (r Resolver) FromText(text string) string {
	words := Words(text)
	if len(words) == 0 {
		return ""
	}
	s := r.Strategy
	if s == nil {
		s = Hyphen{}
	}
	return s.Join(words)
}

// Words strips everything except word characters and whitespace, then splits
// on whitespace. Word characters are letters with their combining marks,
// digits and underscore. Text is NFC-normalized first so decomposed and
// precomposed accents give the same words.
func Words(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, norm.NFC.String(text))
	return strings.Fields(cleaned)
}
