// Package checktree ties the node store, cascade engine, visibility filter
// and windower into one tree instance driven by host events: document
// updates, mount, scroll, check clicks and expand clicks.
//
// A Tree is owned by a single goroutine. Every method runs to completion and
// leaves the store consistent before returning.
package checktree

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/checktree/pkg/cascade"
	"github.com/vanderheijden86/checktree/pkg/debug"
	"github.com/vanderheijden86/checktree/pkg/model"
	"github.com/vanderheijden86/checktree/pkg/nodestore"
	"github.com/vanderheijden86/checktree/pkg/visibility"
	"github.com/vanderheijden86/checktree/pkg/window"
)

// NodeInfo describes the node a check or expand event was triggered on,
// along with the state the user asked for.
type NodeInfo struct {
	Value    string `json:"value"`
	Checked  bool   `json:"checked,omitempty"`
	Expanded bool   `json:"expanded,omitempty"`
	Loading  bool   `json:"loading,omitempty"`
}

// Options configures a tree. The zero value is usable but hides checkboxes;
// DefaultOptions returns the usual interactive setup.
type Options struct {
	// Checkable makes OnCheck report the whole checked list. When false it
	// reports only the clicked value; the toggle itself cascades either way.
	Checkable bool
	// ChildHeight is the fixed row height in host units.
	ChildHeight int
	// ExpandDisabled hides the expand affordance in rows.
	ExpandDisabled bool
	// Name and NameAsArray control HiddenInputs.
	Name        string
	NameAsArray bool
	// NoCascade makes CheckState report each node's own flag.
	NoCascade bool
	// Passed through to rows untouched.
	OptimisticToggle bool
	ShowNodeIcon     bool
	// ShowCheckbox is the default for nodes that do not set their own.
	ShowCheckbox bool
	// Validate runs model.Validate on every document before flattening.
	Validate bool

	OnCheck  func(checked []string, node NodeInfo)
	OnExpand func(expanded, loading []string, node NodeInfo)
}

// DefaultOptions returns options for a checkable tree with icons and
// checkboxes shown.
func DefaultOptions() Options {
	return Options{
		Checkable:        true,
		ChildHeight:      window.DefaultChildHeight,
		OptimisticToggle: true,
		ShowNodeIcon:     true,
		ShowCheckbox:     true,
	}
}

// Tree is one checkbox tree instance.
type Tree struct {
	opts   Options
	store  *nodestore.Store
	engine *cascade.Engine
	win    *window.Window

	nodes     []model.Node
	shapeHash string   // hash of the last flattened document
	expanded  []string // expanded list supplied with the last rebuild
}

// New flattens nodes and applies the initial lists.
func New(nodes []model.Node, lists model.Lists, opts Options) (*Tree, error) {
	store := nodestore.New()
	t := &Tree{
		opts:   opts,
		store:  store,
		engine: cascade.New(store),
		win:    window.New(opts.ChildHeight),
	}
	if err := t.rebuild(nodes, lists); err != nil {
		return nil, err
	}
	return t, nil
}

// Options returns the tree's options.
func (t *Tree) Options() Options {
	return t.opts
}

// SetOptions replaces the options. A changed row height takes effect on the
// next Mount.
func (t *Tree) SetOptions(opts Options) {
	if opts.ChildHeight != t.opts.ChildHeight {
		t.win = window.New(opts.ChildHeight)
	}
	t.opts = opts
}

// Update applies a new document and lists. A changed document shape or
// expanded list rebuilds the store and reapplies every list. Otherwise only
// the checked and loading flags are patched and the expanded flags set by
// user interaction are kept.
func (t *Tree) Update(nodes []model.Node, lists model.Lists) (rebuilt bool, err error) {
	hash := shapeHash(nodes)
	if hash != t.shapeHash || hash == "" || !slices.Equal(lists.Expanded, t.expanded) {
		if err := t.rebuild(nodes, lists); err != nil {
			return false, err
		}
		return true, nil
	}

	t.nodes = nodes
	t.store.UnserializeLists(map[model.ListName][]string{
		model.ListChecked: lists.Checked,
		model.ListLoading: lists.Loading,
	})
	debug.Log("checktree: patched checked=%d loading=%d", len(lists.Checked), len(lists.Loading))
	return false, nil
}

func (t *Tree) rebuild(nodes []model.Node, lists model.Lists) error {
	if t.opts.Validate {
		if err := model.Validate(nodes); err != nil {
			return fmt.Errorf("validating tree: %w", err)
		}
	}

	t.store.Reset()
	t.store.Flatten(nodes)
	t.store.UnserializeLists(lists.ByName())

	t.nodes = nodes
	t.shapeHash = shapeHash(nodes)
	t.expanded = slices.Clone(lists.Expanded)

	debug.WithField("records", t.store.Len()).Debug("checktree: rebuilt store")
	return nil
}

// shapeHash fingerprints a document. An empty hash means the document could
// not be encoded and forces a rebuild.
func shapeHash(nodes []model.Node) string {
	data, err := json.Marshal(nodes)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Mount sizes the render window for the viewport and scrolls to the top.
func (t *Tree) Mount(viewportHeight int) {
	t.win.Mount(viewportHeight)
}

// Resize changes the viewport height and keeps the scroll position.
func (t *Tree) Resize(viewportHeight int) {
	t.win.Resize(viewportHeight)
}

// Scroll moves the render window to offset.
func (t *Tree) Scroll(offset int) {
	t.win.Scroll(offset)
}

// Window exposes the current render window.
func (t *Tree) Window() window.Window {
	return *t.win
}

// OnCheck applies a check click and reports it to the callback. The
// callback receives the serialized checked list when the tree is checkable,
// otherwise just the clicked value.
func (t *Tree) OnCheck(node NodeInfo) {
	t.engine.ToggleChecked(node.Value, node.Checked)
	if t.opts.OnCheck == nil {
		return
	}
	if t.opts.Checkable {
		t.opts.OnCheck(t.Checked(), node)
	} else {
		t.opts.OnCheck([]string{node.Value}, node)
	}
}

// OnExpand applies an expand or collapse click and reports the new lists.
func (t *Tree) OnExpand(node NodeInfo) {
	t.store.ToggleNode(node.Value, model.ListExpanded, node.Expanded)
	t.store.ToggleNode(node.Value, model.ListLoading, node.Loading)
	if t.opts.OnExpand != nil {
		t.opts.OnExpand(t.Expanded(), t.Loading(), node)
	}
}

// ExpandAll expands every node that has children.
func (t *Tree) ExpandAll() {
	t.setExpandedAll(true)
}

// CollapseAll collapses every node.
func (t *Tree) CollapseAll() {
	t.setExpandedAll(false)
}

func (t *Tree) setExpandedAll(expanded bool) {
	t.store.Each(func(rec *nodestore.Record) bool {
		if !rec.IsLeaf() {
			rec.Expanded = expanded
		}
		return true
	})
	if t.opts.OnExpand != nil {
		t.opts.OnExpand(t.Expanded(), t.Loading(), NodeInfo{Expanded: expanded})
	}
}

// Checked returns the checked values in store order.
func (t *Tree) Checked() []string {
	return t.store.SerializeList(model.ListChecked)
}

// Expanded returns the expanded values in store order.
func (t *Tree) Expanded() []string {
	return t.store.SerializeList(model.ListExpanded)
}

// Loading returns the loading values in store order.
func (t *Tree) Loading() []string {
	return t.store.SerializeList(model.ListLoading)
}

// Lists returns all three lists.
func (t *Tree) Lists() model.Lists {
	return t.store.SerializeLists()
}

// CheckState returns the tri-state value shown for value.
func (t *Tree) CheckState(value string) model.CheckState {
	return t.engine.CheckState(value, t.opts.NoCascade)
}

// Record returns the flattened record for value.
func (t *Tree) Record(value string) (*nodestore.Record, bool) {
	return t.store.Get(value)
}

// Records returns every record in store order.
func (t *Tree) Records() []*nodestore.Record {
	return t.store.Records()
}

// Nodes returns the document the store was last built or patched from.
func (t *Tree) Nodes() []model.Node {
	return t.nodes
}

// Visible returns the number of currently visible nodes.
func (t *Tree) Visible() int {
	return len(visibility.DisplayableNodes(t.store))
}
