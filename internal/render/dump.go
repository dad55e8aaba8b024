package render

import (
	"github.com/davecgh/go-spew/spew"

	"github.com/pstuifzand/opml-pages/internal/site"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	MaxDepth:                4,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// contextView is the part of a context worth dumping. The listing is left
// out: it holds the subtree and consuming it would empty the page's listing.
type contextView struct {
	Path  string
	Kind  string
	Type  string
	Home  bool
	Head  map[string]string
	Attrs map[string]string
	Body  []site.Fragment
}

// DumpContext returns a readable dump of c for debug logging.
func DumpContext(c *site.Context) string {
	return dumpConfig.Sdump(contextView{
		Path:  c.Path,
		Kind:  c.Kind.String(),
		Type:  c.Type,
		Home:  c.Home,
		Head:  c.Head,
		Attrs: c.Attrs,
		Body:  c.Body,
	})
}
