package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/checktree/pkg/checktree"
	"github.com/vanderheijden86/checktree/pkg/debug"
	"github.com/vanderheijden86/checktree/pkg/loader"
	"github.com/vanderheijden86/checktree/pkg/model"
	"github.com/vanderheijden86/checktree/pkg/state"
	"github.com/vanderheijden86/checktree/pkg/watcher"
)

const (
	headerHeight = 1
	footerHeight = 1
	wheelStep    = 3
)

// DocumentReloadedMsg carries a document reloaded after a file change.
type DocumentReloadedMsg struct {
	Doc *loader.Document
	Err error
}

// Options configures the program.
type Options struct {
	Title   string
	Paths   []string
	Watcher *watcher.Watcher
	State   *state.Store
	Theme   Theme
	// CopyFunc writes to the clipboard; defaults to clipboard.WriteAll.
	CopyFunc func(string) error
}

// Model is the bubbletea model for the interactive tree.
type Model struct {
	tree   *checktree.Tree
	view   *TreeView
	opts   Options
	width  int
	height int
	status string
	err    error
	help   bool
}

// NewModel wraps tree. Check and expand events are persisted to opts.State
// when set, after any callbacks already on the tree.
func NewModel(tree *checktree.Tree, opts Options) Model {
	if opts.CopyFunc == nil {
		opts.CopyFunc = clipboard.WriteAll
	}
	if opts.Title == "" {
		opts.Title = "checktree"
	}

	treeOpts := tree.Options()
	onCheck, onExpand := treeOpts.OnCheck, treeOpts.OnExpand
	treeOpts.OnCheck = func(checked []string, node checktree.NodeInfo) {
		if onCheck != nil {
			onCheck(checked, node)
		}
		if opts.State != nil {
			opts.State.Save(tree.Lists())
		}
	}
	treeOpts.OnExpand = func(expanded, loading []string, node checktree.NodeInfo) {
		if onExpand != nil {
			onExpand(expanded, loading, node)
		}
		if opts.State != nil {
			opts.State.Save(tree.Lists())
		}
	}
	tree.SetOptions(treeOpts)

	return Model{
		tree: tree,
		view: NewTreeView(tree, opts.Theme),
		opts: opts,
	}
}

// Init starts waiting for document changes.
func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

// waitForChange blocks on the watcher and reloads the documents.
func (m Model) waitForChange() tea.Cmd {
	w := m.opts.Watcher
	if w == nil {
		return nil
	}
	paths := m.opts.Paths
	return func() tea.Msg {
		<-w.Changed()
		doc, err := loader.LoadAll(context.Background(), paths...)
		return DocumentReloadedMsg{Doc: doc, Err: err}
	}
}

// Update handles window, mouse, key and reload messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.view.SetSize(msg.Width, m.bodyHeight())
		return m, nil

	case tea.MouseMsg:
		if m.help {
			return m, nil
		}
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "?":
			m.help = !m.help
		case "esc":
			m.help = false
		case "y":
			m.copyChecked()
		case "e":
			m.tree.ExpandAll()
			m.view.Refresh()
		case "c":
			m.tree.CollapseAll()
			m.view.Refresh()
		}
		return m, nil

	case DocumentReloadedMsg:
		m.applyReload(msg)
		return m, m.waitForChange()
	}
	return m, nil
}

func (m *Model) bodyHeight() int {
	h := m.height - headerHeight - footerHeight
	if h < 0 {
		return 0
	}
	return h
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress {
		return
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.view.ScrollBy(-wheelStep)
		return
	case tea.MouseButtonWheelDown:
		m.view.ScrollBy(wheelStep)
		return
	case tea.MouseButtonLeft:
	default:
		return
	}

	row, ok := m.view.RowAt(msg.Y - headerHeight)
	if !ok {
		return
	}
	if OnArrow(row, msg.X) {
		if row.IsLeaf || row.ExpandDisabled {
			return
		}
		m.tree.OnExpand(checktree.NodeInfo{Value: row.Value, Expanded: !row.Expanded})
	} else {
		if !row.ShowCheckbox || (row.Disabled && row.IsLeaf) {
			return
		}
		m.tree.OnCheck(checktree.NodeInfo{Value: row.Value, Checked: row.Checked != model.Checked})
	}
	m.view.Refresh()
}

func (m *Model) copyChecked() {
	checked := m.tree.Checked()
	if err := m.opts.CopyFunc(strings.Join(checked, "\n")); err != nil {
		m.status = "clipboard unavailable"
		debug.Warn("copy to clipboard failed: %v", err)
		return
	}
	m.status = fmt.Sprintf("copied %d values", len(checked))
}

func (m *Model) applyReload(msg DocumentReloadedMsg) {
	if msg.Err != nil {
		m.err = msg.Err
		m.status = "reload failed"
		debug.Warn("reload failed: %v", msg.Err)
		return
	}
	m.err = nil
	rebuilt, err := m.tree.Update(msg.Doc.Nodes, m.tree.Lists())
	if err != nil {
		m.err = err
		m.status = "invalid document"
		return
	}
	if rebuilt {
		m.status = "reloaded"
	}
	m.view.Refresh()
}

// View renders header, tree and footer, or the help modal.
func (m Model) View() string {
	if m.help {
		return RenderHelp(m.opts.Theme, m.width, m.height)
	}
	var sb strings.Builder
	pass := m.view.Pass()
	header := fmt.Sprintf("%s  %d checked · %d visible", m.opts.Title, len(m.tree.Checked()), pass.TotalVisible)
	sb.WriteString(m.opts.Theme.Header.Render(header))
	sb.WriteString("\n")

	body := m.view.View()
	if m.err != nil {
		body = m.opts.Theme.Footer.Render("error: "+m.err.Error()) + "\n" + body
	}
	sb.WriteString(body)
	sb.WriteString("\n")

	footer := "click ▸ expand · click row check · wheel scroll · y copy · ? help · q quit"
	if m.status != "" {
		footer = m.status + " · " + footer
	}
	sb.WriteString(m.opts.Theme.Footer.Render(footer))
	return sb.String()
}

// Tree returns the underlying tree.
func (m Model) Tree() *checktree.Tree {
	return m.tree
}

// Run starts the program with the alternate screen and mouse reporting.
func Run(ctx context.Context, m Model) error {
	restore := debug.SetOutput(io.Discard)
	defer restore()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
