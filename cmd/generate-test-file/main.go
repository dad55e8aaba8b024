package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pstuifzand/opml-pages/internal/model"
	"github.com/pstuifzand/opml-pages/internal/opml"
)

func main() {
	numNodes := flag.Int("nodes", 1000, "Number of nodes to generate")
	output := flag.String("output", "large_test.opml", "Output file path")
	depth := flag.Int("depth", 3, "Maximum nesting depth")
	chain := flag.Int("chain", 0, "Generate a single chain of this many nested sections instead")
	flag.Parse()

	if *numNodes < 1 {
		fmt.Fprintf(os.Stderr, "nodes must be at least 1\n")
		os.Exit(1)
	}

	var doc *model.Document
	if *chain > 0 {
		doc = generateChain(*chain)
	} else {
		doc = generateOutline(*numNodes, *depth)
	}

	var buf bytes.Buffer
	if err := opml.Encode(&buf, doc); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode OPML: %v\n", err)
		os.Exit(1)
	}
	data := buf.Bytes()

	// Ensure directory exists
	dir := filepath.Dir(*output)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create directory: %v\n", err)
			os.Exit(1)
		}
	}

	if err := os.WriteFile(*output, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated outline with %d nodes\n", doc.Count())
	fmt.Printf("Saved to: %s\n", *output)
	fmt.Printf("File size: %.2f MB\n", float64(len(data))/(1024*1024))
}

func generateOutline(totalNodes int, maxDepth int) *model.Document {
	doc := model.NewDocument()
	doc.Head["title"] = fmt.Sprintf("Generated site (%d nodes)", totalNodes)

	remaining := totalNodes
	for remaining > 0 {
		if n := generateNodeRecursive(&remaining, 0, maxDepth); n != nil {
			doc.Body.AddChild(n)
		}
	}
	return doc
}

// generateNodeRecursive builds a balanced subtree. Nodes with children
// become sections, leaves get a page type, and every 13th node is a draft
// that the generator skips.
func generateNodeRecursive(remaining *int, currentDepth int, maxDepth int) *model.Node {
	if *remaining <= 0 {
		return nil
	}

	index := *remaining
	n := model.NewNode(model.Attrs{Text: generateUniqueText(index)})
	*remaining--
	if index%13 == 0 {
		n.Attrs.Text = "# draft " + n.Attrs.Text
	}

	if currentDepth < maxDepth && *remaining > 0 {
		numChildren := getChildCount(*remaining, maxDepth-currentDepth)
		for i := 0; i < numChildren && *remaining > 0; i++ {
			if child := generateNodeRecursive(remaining, currentDepth+1, maxDepth); child != nil {
				n.AddChild(child)
			}
		}
	}
	if len(n.Children) == 0 {
		n.Attrs.Type = pageTypes[index%len(pageTypes)]
		if n.Attrs.Type == "link" {
			n.Attrs.Extra = map[string]string{"url": fmt.Sprintf("https://example.com/%d", index)}
		}
	}
	return n
}

// generateChain builds sections nested depth levels deep, ending in one
// page. It does not recurse so any depth can be generated.
func generateChain(depth int) *model.Document {
	doc := model.NewDocument()
	doc.Head["title"] = fmt.Sprintf("Chain of %d sections", depth)

	parent := doc.Body
	for i := 0; i < depth; i++ {
		parent = parent.AddChild(model.NewNode(model.Attrs{Text: fmt.Sprintf("Level %d", i)}))
	}
	parent.AddChild(model.NewNode(model.Attrs{Text: "Bottom", Type: "outline"}))
	return doc
}

var pageTypes = []string{"outline", "link", "thread"}

func getChildCount(remaining int, depthLeft int) int {
	// Distribute nodes across children based on remaining nodes
	if depthLeft == 1 {
		// Leaf level: create fewer children
		if remaining > 10 {
			return 5
		}
		return remaining / 2
	}
	// Internal levels: create 2-3 children
	if remaining > 50 {
		return 3
	}
	return 2
}

func generateUniqueText(index int) string {
	categories := []string{
		"Post", "Note", "Idea", "Essay", "Review", "Link",
		"Journal", "Recipe", "Talk", "Project",
	}

	category := categories[index%len(categories)]
	return fmt.Sprintf("%s %d %s", category, index, generateDescription(index))
}

func generateDescription(index int) string {
	descriptions := []string{
		"on gardening",
		"about *outlines*",
		"from the road",
		"for the weekend",
		"in review",
		"with pictures",
		"& friends",
		"<draft>",
	}

	return descriptions[index%len(descriptions)]
}
