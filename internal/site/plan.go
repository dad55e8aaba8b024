package site

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/pstuifzand/opml-pages/internal/model"
)

// PlanEntry records what a build would do with one visited node.
type PlanEntry struct {
	Path  string `yaml:"path,omitempty"`
	Kind  Kind   `yaml:"kind"`
	Type  string `yaml:"type,omitempty"`
	Text  string `yaml:"text"`
	Depth int    `yaml:"depth"`
}

// Plan walks doc exactly like Build but only records the visits. Skip nodes
// appear once, without a path; their subtrees do not appear at all.
func Plan(ctx context.Context, doc *model.Document, opts Options) ([]PlanEntry, error) {
	b := NewBuilder(opts, nil, nil)
	var entries []PlanEntry
	err := b.engine.Walk(ctx, doc, func(s Step) error {
		entries = append(entries, PlanEntry{
			Path:  s.Path,
			Kind:  s.Kind,
			Type:  s.Node.Attrs.Type,
			Text:  s.Node.Attrs.Text,
			Depth: s.Node.Depth(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// WritePlanYAML encodes entries as a YAML sequence.
func WritePlanYAML(w io.Writer, entries []PlanEntry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	return enc.Close()
}
