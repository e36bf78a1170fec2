package checktree

import (
	"github.com/vanderheijden86/checktree/pkg/model"
	"github.com/vanderheijden86/checktree/pkg/nodestore"
	"github.com/vanderheijden86/checktree/pkg/visibility"
	"github.com/vanderheijden86/checktree/pkg/window"
)

// Row is everything a renderer needs to paint one visible node.
type Row struct {
	Key         string           `json:"key"`
	Value       string           `json:"value"`
	Label       string           `json:"label"`
	Depth       int              `json:"depth"`
	Index       int              `json:"index"`
	EvenNode    bool             `json:"evenNode"`
	Checked     model.CheckState `json:"checked"`
	Expanded    bool             `json:"expanded"`
	Loading     bool             `json:"loading"`
	IsLeaf      bool             `json:"isLeaf"`
	Disabled    bool             `json:"disabled"`
	Icon        string           `json:"icon,omitempty"`
	TooltipText string           `json:"tooltipText,omitempty"`
	ClassName   string           `json:"className,omitempty"`

	Checkable        bool `json:"checkable"`
	ExpandDisabled   bool `json:"expandDisabled"`
	OptimisticToggle bool `json:"optimisticToggle"`
	ShowNodeIcon     bool `json:"showNodeIcon"`
	ShowCheckbox     bool `json:"showCheckbox"`
}

// Pass is the result of one render: the materialized rows plus the spacer
// heights around them.
type Pass struct {
	Rows          []Row `json:"rows"`
	TopPadding    int   `json:"topPadding"`
	BottomPadding int   `json:"bottomPadding"`
	TotalVisible  int   `json:"totalVisible"`
	ContentHeight int   `json:"contentHeight"`
}

// Render runs one full pass: filter visible nodes, number them, pick the
// window and read the check state of every materialized row. Before Mount
// no rows are materialized and the whole content is bottom padding.
func (t *Tree) Render() Pass {
	visible := visibility.DisplayableNodes(t.store)
	visibility.UpdateNodeMetaData(visible)

	pass := Pass{
		TotalVisible:  len(visible),
		ContentHeight: t.win.ContentHeight(len(visible)),
	}
	if !t.win.Mounted() {
		pass.BottomPadding = pass.ContentHeight
		return pass
	}

	selected := window.NodesToRender(t.win.StartIndex, t.win.EndIndex, visible)
	pass.TopPadding, pass.BottomPadding = t.win.Padding(len(visible))
	pass.Rows = make([]Row, 0, len(selected))
	for _, rec := range selected {
		pass.Rows = append(pass.Rows, t.row(rec))
	}
	return pass
}

func (t *Tree) row(rec *nodestore.Record) Row {
	return Row{
		Key:         rec.Value,
		Value:       rec.Value,
		Label:       rec.Label,
		Depth:       rec.Depth,
		Index:       rec.Index,
		EvenNode:    rec.EvenNode,
		Checked:     t.engine.CheckState(rec.Value, t.opts.NoCascade),
		Expanded:    rec.Expanded,
		Loading:     t.engine.LoadingState(rec.Value),
		IsLeaf:      rec.IsLeaf(),
		Disabled:    rec.Disabled,
		Icon:        rec.Icon,
		TooltipText: rec.TooltipText,
		ClassName:   rec.ClassName,

		Checkable:        t.opts.Checkable,
		ExpandDisabled:   t.opts.ExpandDisabled,
		OptimisticToggle: t.opts.OptimisticToggle,
		ShowNodeIcon:     t.opts.ShowNodeIcon,
		ShowCheckbox:     t.showCheckbox(rec),
	}
}

// showCheckbox resolves the per-node override against the tree default.
// Hidden nodes never show a checkbox.
func (t *Tree) showCheckbox(rec *nodestore.Record) bool {
	if rec.Hidden {
		return false
	}
	if rec.ShowCheckbox != nil {
		return *rec.ShowCheckbox
	}
	return t.opts.ShowCheckbox
}
