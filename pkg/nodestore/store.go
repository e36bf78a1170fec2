// Package nodestore flattens an input tree into an arena of records keyed by
// node value. Relationships between records are expressed as value lookups
// (Parent, Children), never as pointers between records.
//
// The store is owned by a single tree instance and is not safe for
// concurrent use.
package nodestore

import (
	"github.com/vanderheijden86/checktree/pkg/model"
)

// Record is the flattened, mutable view of one input node.
type Record struct {
	Value        string
	Label        string
	Disabled     bool
	Hidden       bool
	Icon         string
	TooltipText  string
	ClassName    string
	ShowCheckbox *bool

	Parent   string   // parent value, or model.RootParent
	Children []string // child values in input order
	Depth    int      // 0 for top-level nodes

	// Runtime flags. These are authoritative once set and may diverge from
	// the input after user interaction.
	Checked     bool
	HalfChecked bool
	Expanded    bool
	Loading     bool

	// Derived every render pass from the current visible set.
	Index    int
	EvenNode bool
}

// IsLeaf reports whether the record currently has no children.
func (r *Record) IsLeaf() bool {
	return len(r.Children) == 0
}

// DisplayIndex returns the position among visible nodes assigned by the
// last metadata pass.
func (r *Record) DisplayIndex() int {
	return r.Index
}

// Store maps node values to records and remembers the order in which values
// were first flattened (depth-first pre-order).
type Store struct {
	records map[string]*Record
	order   []string
}

// New creates an empty store.
func New() *Store {
	return &Store{records: make(map[string]*Record)}
}

// Reset discards every record. Callers do this before re-flattening a tree
// whose shape changed, since Flatten never purges stale entries.
func (s *Store) Reset() {
	s.records = make(map[string]*Record)
	s.order = s.order[:0]
}

// Flatten walks the forest in depth-first pre-order and creates or
// overwrites one record per node. Top-level nodes get model.RootParent as
// their parent.
//
// A value seen twice overwrites the earlier record but keeps the earlier
// iteration position. Values must be globally unique; model.Validate
// reports violations.
func (s *Store) Flatten(nodes []model.Node) {
	s.flatten(nodes, model.RootParent, 0)
}

func (s *Store) flatten(nodes []model.Node, parent string, depth int) {
	for i := range nodes {
		node := &nodes[i]

		rec := &Record{
			Value:        node.Value,
			Label:        node.Label,
			Disabled:     node.Disabled,
			Hidden:       node.Hidden,
			Icon:         node.Icon,
			TooltipText:  node.TooltipText,
			ClassName:    node.ClassName,
			ShowCheckbox: node.ShowCheckbox,
			Checked:      node.Checked,
			HalfChecked:  node.HalfChecked,
			Parent:       parent,
			Depth:        depth,
		}
		if len(node.Children) > 0 {
			rec.Children = make([]string, len(node.Children))
			for j := range node.Children {
				rec.Children[j] = node.Children[j].Value
			}
		}

		if _, exists := s.records[node.Value]; !exists {
			s.order = append(s.order, node.Value)
		}
		s.records[node.Value] = rec

		s.flatten(node.Children, node.Value, depth+1)
	}
}

// Get returns the record for value.
func (s *Store) Get(value string) (*Record, bool) {
	rec, ok := s.records[value]
	return rec, ok
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// IsLeaf reports whether value names a record with no children. Unknown
// values are not leaves.
func (s *Store) IsLeaf(value string) bool {
	rec, ok := s.records[value]
	return ok && rec.IsLeaf()
}

// Values returns every value in iteration order.
func (s *Store) Values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Records returns every record in iteration order.
func (s *Store) Records() []*Record {
	out := make([]*Record, 0, len(s.order))
	for _, v := range s.order {
		out = append(out, s.records[v])
	}
	return out
}

// Each calls fn for every record in iteration order until fn returns false.
func (s *Store) Each(fn func(*Record) bool) {
	for _, v := range s.order {
		if !fn(s.records[v]) {
			return
		}
	}
}

// ToggleNode sets one flag on one record. Unknown values and list names are
// ignored.
func (s *Store) ToggleNode(value string, list model.ListName, on bool) {
	rec, ok := s.records[value]
	if !ok {
		return
	}
	setFlag(rec, list, on)
}

func setFlag(rec *Record, list model.ListName, on bool) {
	switch list {
	case model.ListChecked:
		rec.Checked = on
	case model.ListExpanded:
		rec.Expanded = on
	case model.ListLoading:
		rec.Loading = on
	}
}

func flag(rec *Record, list model.ListName) bool {
	switch list {
	case model.ListChecked:
		return rec.Checked
	case model.ListExpanded:
		return rec.Expanded
	case model.ListLoading:
		return rec.Loading
	}
	return false
}
