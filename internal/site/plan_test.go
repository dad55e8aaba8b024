package site

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPlan(t *testing.T) {
	entries, err := Plan(context.Background(), blogDocument(), DefaultOptions())
	require.NoError(t, err)

	var got []string
	for _, e := range entries {
		got = append(got, e.Kind.String()+" "+e.Path)
	}
	assert.Equal(t, []string{
		"index blog/index.html",
		"render blog/first.html",
		"index blog/archive/index.html",
		"render blog/archive/old.html",
		"render about.html",
		"skip ",
		"plain ",
	}, got)
	assert.Equal(t, 2, entries[3].Depth)
	assert.Equal(t, "thread", entries[3].Type)
}

func TestWritePlanYAML(t *testing.T) {
	entries, err := Plan(context.Background(), document(node("Top", typed("Post", "outline")), comment("Hidden")), DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePlanYAML(&buf, entries))

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)

	assert.Equal(t, "top/index.html", decoded[0]["path"])
	assert.Equal(t, "index", decoded[0]["kind"])
	assert.Equal(t, "render", decoded[1]["kind"])
	assert.Equal(t, "outline", decoded[1]["type"])
	assert.Equal(t, 1, decoded[1]["depth"])
	assert.Equal(t, "skip", decoded[2]["kind"])
	assert.NotContains(t, decoded[2], "path")
}
