package render

import "github.com/pstuifzand/opml-pages/internal/site"

// Variant selects the page template. The set is closed: node types without
// a dedicated variant render with VariantDefault.
type Variant int

const (
	VariantDefault Variant = iota
	VariantOutline
	VariantLink
	VariantThread
	VariantIndex
	VariantHome
)

var variants = []Variant{VariantDefault, VariantOutline, VariantLink, VariantThread, VariantIndex, VariantHome}

func (v Variant) String() string {
	switch v {
	case VariantOutline:
		return "outline"
	case VariantLink:
		return "link"
	case VariantThread:
		return "thread"
	case VariantIndex:
		return "index"
	case VariantHome:
		return "home"
	default:
		return "default"
	}
}

// File is the template file implementing the variant.
func (v Variant) File() string {
	return v.String() + ".html"
}

// VariantFor maps a node type to its variant.
func VariantFor(typ string) Variant {
	switch typ {
	case "outline":
		return VariantOutline
	case "link":
		return VariantLink
	case "thread":
		return VariantThread
	default:
		return VariantDefault
	}
}

// VariantOf picks the variant for a render context.
func VariantOf(c *site.Context) Variant {
	switch {
	case c.Home:
		return VariantHome
	case c.Kind == site.KindIndex:
		return VariantIndex
	default:
		return VariantFor(c.Type)
	}
}
