// tree.go renders a checktree.Tree into terminal lines and maps mouse
// positions back to rows.
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/checktree/pkg/checktree"
	"github.com/vanderheijden86/checktree/pkg/model"
)

// RowHeight is the height of one tree row in terminal lines.
const RowHeight = 1

// indentWidth is the number of columns per depth level. The expand arrow
// sits in the first column of a row's indent slot.
const indentWidth = 2

// TreeView paints the materialized rows of a tree into a viewport. Rows are
// placed at their display index, so the lines between them stand in for the
// top and bottom padding.
type TreeView struct {
	tree     *checktree.Tree
	theme    Theme
	viewport viewport.Model
	mounted  bool
	pass     checktree.Pass
}

// NewTreeView creates a view over tree. The tree's row height is forced to
// one line.
func NewTreeView(tree *checktree.Tree, theme Theme) *TreeView {
	opts := tree.Options()
	opts.ChildHeight = RowHeight
	tree.SetOptions(opts)
	return &TreeView{
		tree:     tree,
		theme:    theme,
		viewport: viewport.New(0, 0),
	}
}

// SetSize mounts the tree on first use and resizes it afterwards.
func (v *TreeView) SetSize(width, height int) {
	v.viewport.Width = width
	v.viewport.Height = height
	if !v.mounted {
		v.tree.Mount(height)
		v.mounted = true
	} else {
		v.tree.Resize(height)
	}
	v.Refresh()
}

// Refresh runs a render pass and rebuilds the viewport content.
func (v *TreeView) Refresh() {
	v.pass = v.tree.Render()

	lines := make([]string, v.pass.TotalVisible)
	for _, row := range v.pass.Rows {
		if row.Index >= 0 && row.Index < len(lines) {
			lines[row.Index] = v.renderRow(row)
		}
	}
	v.viewport.SetContent(strings.Join(lines, "\n"))
	v.viewport.SetYOffset(v.tree.Window().ScrollTop)
}

// ScrollBy moves the view by delta lines, clamped to the content.
func (v *TreeView) ScrollBy(delta int) {
	offset := v.tree.Window().ScrollTop + delta
	maxOffset := v.pass.TotalVisible - v.viewport.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	v.tree.Scroll(offset)
	v.Refresh()
}

// RowAt returns the row painted at viewport line y.
func (v *TreeView) RowAt(y int) (checktree.Row, bool) {
	if y < 0 || y >= v.viewport.Height {
		return checktree.Row{}, false
	}
	index := v.tree.Window().ScrollTop + y
	for _, row := range v.pass.Rows {
		if row.Index == index {
			return row, true
		}
	}
	return checktree.Row{}, false
}

// OnArrow reports whether column x falls on row's expand arrow.
func OnArrow(row checktree.Row, x int) bool {
	col := row.Depth * indentWidth
	return x >= col && x < col+indentWidth
}

// Pass returns the last render pass.
func (v *TreeView) Pass() checktree.Pass {
	return v.pass
}

// View renders the visible part of the tree.
func (v *TreeView) View() string {
	if v.pass.TotalVisible == 0 {
		return v.renderEmptyState()
	}
	return v.viewport.View()
}

func (v *TreeView) renderEmptyState() string {
	r := v.theme.Renderer
	muted := r.NewStyle().Foreground(v.theme.Muted)
	return v.theme.Header.Render("Empty tree") + "\n\n" +
		muted.Render("The document has no nodes. Edit it and it will reload.")
}

// renderRow paints one row: indent, expand arrow, checkbox, icon, label.
func (v *TreeView) renderRow(row checktree.Row) string {
	r := v.theme.Renderer
	var sb strings.Builder

	sb.WriteString(strings.Repeat(" ", row.Depth*indentWidth))
	arrowStyle := r.NewStyle().Foreground(v.theme.Secondary)
	sb.WriteString(arrowStyle.Render(expandIndicator(row)))
	sb.WriteString(" ")

	if row.ShowCheckbox {
		boxStyle := r.NewStyle().Foreground(v.theme.Highlight)
		if row.Disabled {
			boxStyle = r.NewStyle().Foreground(v.theme.Muted)
		}
		sb.WriteString(boxStyle.Render(checkbox(row.Checked)))
		sb.WriteString(" ")
	}

	if row.ShowNodeIcon && row.Icon != "" {
		sb.WriteString(row.Icon)
		sb.WriteString(" ")
	}

	label := row.Label
	if label == "" {
		label = row.Value
	}
	used := lipgloss.Width(sb.String())
	maxLabel := v.viewport.Width - used
	if maxLabel < 8 {
		maxLabel = 8
	}
	label = runewidth.Truncate(label, maxLabel, "…")
	if row.Disabled {
		label = r.NewStyle().Foreground(v.theme.Muted).Render(label)
	}
	sb.WriteString(label)

	line := sb.String()
	if row.EvenNode {
		return v.theme.EvenRow.Render(line)
	}
	return v.theme.OddRow.Render(line)
}

func expandIndicator(row checktree.Row) string {
	switch {
	case row.IsLeaf || row.ExpandDisabled:
		return " "
	case row.Loading:
		return "…"
	case row.Expanded:
		return "▾"
	}
	return "▸"
}

func checkbox(state model.CheckState) string {
	switch state {
	case model.Checked:
		return "[x]"
	case model.HalfChecked:
		return "[-]"
	}
	return "[ ]"
}
