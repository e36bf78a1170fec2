package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/checktree/pkg/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"tree.json", FormatJSON},
		{"TREE.JSON", FormatJSON},
		{"tree.yaml", FormatYAML},
		{"tree.yml", FormatYAML},
		{"-", FormatJSON},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := FormatFromPath("tree.toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseJSONObject(t *testing.T) {
	doc, err := Parse([]byte(`{
		"nodes": [{"value": "a", "label": "A", "children": [{"value": "b", "halfChecked": true}]}],
		"checked": ["b"],
		"expanded": ["a"]
	}`), FormatJSON)
	require.NoError(t, err)

	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, "A", doc.Nodes[0].Label)
	require.Len(t, doc.Nodes[0].Children, 1)
	assert.True(t, doc.Nodes[0].Children[0].HalfChecked)
	assert.Equal(t, model.Lists{Checked: []string{"b"}, Expanded: []string{"a"}}, doc.Lists())
}

func TestParseJSONBareArray(t *testing.T) {
	doc, err := Parse([]byte(`  [{"value": "x"}, {"value": "y"}]`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 2, model.Count(doc.Nodes))
	assert.Empty(t, doc.Checked)
}

func TestParseYAML(t *testing.T) {
	object := `
nodes:
  - value: fruits
    label: Fruits
    children:
      - value: apple
        disabled: true
expanded: [fruits]
`
	doc, err := Parse([]byte(object), FormatYAML)
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 1)
	assert.True(t, doc.Nodes[0].Children[0].Disabled)
	assert.Equal(t, []string{"fruits"}, doc.Expanded)

	bare := "- value: a\n- value: b\n  tooltipText: hi\n"
	doc, err = Parse([]byte(bare), FormatYAML)
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, "hi", doc.Nodes[1].TooltipText)
}

func TestParseEmpty(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML} {
		doc, err := Parse(nil, f)
		require.NoError(t, err)
		assert.Empty(t, doc.Nodes)
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte(`{"nodes": [`), FormatJSON)
	assert.Error(t, err)

	_, err = Parse([]byte("nodes: [\n"), FormatYAML)
	assert.Error(t, err)

	_, err = Parse([]byte("{}"), Format("toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tree.json", `[{"value": "a"}]`)

	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAllMergesInOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "one.json", `{"nodes": [{"value": "a"}], "checked": ["a"]}`)
	second := writeFile(t, dir, "two.yaml", "nodes:\n  - value: b\nchecked: [b]\n")

	doc, err := LoadAll(context.Background(), first, second)
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, "a", doc.Nodes[0].Value)
	assert.Equal(t, "b", doc.Nodes[1].Value)
	assert.Equal(t, []string{"a", "b"}, doc.Checked)
}

func TestLoadAllFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `[]`)

	_, err := LoadAll(context.Background(), good, filepath.Join(dir, "nope.json"))
	assert.Error(t, err)

	_, err = LoadAll(context.Background())
	assert.Error(t, err)
}
