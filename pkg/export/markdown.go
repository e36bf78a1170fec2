// Package export writes a tree's current selection to other formats: a
// markdown checklist and a SQLite snapshot.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/checktree/pkg/checktree"
	"github.com/vanderheijden86/checktree/pkg/model"
)

// MarkdownOptions controls GenerateMarkdown.
type MarkdownOptions struct {
	Title string
	// Generated is printed under the title when non-zero.
	Generated time.Time
	// VisibleOnly limits the checklist to nodes visible in the tree.
	VisibleOnly bool
}

// GenerateMarkdown renders the tree as a nested GitHub-style checklist.
// Half-checked nodes render unchecked with a "partial" marker.
func GenerateMarkdown(tree *checktree.Tree, opts MarkdownOptions) string {
	var sb strings.Builder

	title := opts.Title
	if title == "" {
		title = "Checklist"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	if !opts.Generated.IsZero() {
		fmt.Fprintf(&sb, "Generated: %s\n\n", opts.Generated.Format(time.RFC1123))
	}

	total, checked, partial := 0, 0, 0
	for _, rec := range tree.Records() {
		if !rec.IsLeaf() {
			continue
		}
		total++
		switch tree.CheckState(rec.Value) {
		case model.Checked:
			checked++
		case model.HalfChecked:
			partial++
		}
	}
	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- **Items**: %d\n", total)
	fmt.Fprintf(&sb, "- **Checked**: %d\n", checked)
	if partial > 0 {
		fmt.Fprintf(&sb, "- **Partial**: %d\n", partial)
	}
	sb.WriteString("\n## Items\n\n")

	writeItems(&sb, tree, tree.Nodes(), 0, opts.VisibleOnly)
	return sb.String()
}

func writeItems(sb *strings.Builder, tree *checktree.Tree, nodes []model.Node, depth int, visibleOnly bool) {
	for i := range nodes {
		rec, ok := tree.Record(nodes[i].Value)
		if !ok {
			continue
		}
		label := rec.Label
		if label == "" {
			label = rec.Value
		}

		box, suffix := "[ ]", ""
		switch tree.CheckState(rec.Value) {
		case model.Checked:
			box = "[x]"
		case model.HalfChecked:
			suffix = " _(partial)_"
		}
		if rec.Disabled {
			suffix += " _(locked)_"
		}
		fmt.Fprintf(sb, "%s- %s %s%s\n", strings.Repeat("  ", depth), box, escapeMarkdown(label), suffix)

		if visibleOnly && !rec.Expanded {
			continue
		}
		writeItems(sb, tree, nodes[i].Children, depth+1, visibleOnly)
	}
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"`", "\\`",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// RenderTerminal renders markdown for a terminal of the given width.
func RenderTerminal(markdown string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
