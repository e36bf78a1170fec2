package model

import "fmt"

// RootParent is the parent value recorded for top-level nodes.
const RootParent = "root"

// Node is one node of the input tree handed to the widget by its host.
// Values must be unique across the whole tree, not just among siblings.
type Node struct {
	Value        string `json:"value" yaml:"value"`
	Label        string `json:"label,omitempty" yaml:"label,omitempty"`
	Children     []Node `json:"children,omitempty" yaml:"children,omitempty"`
	Checked      bool   `json:"checked,omitempty" yaml:"checked,omitempty"`
	HalfChecked  bool   `json:"halfChecked,omitempty" yaml:"halfChecked,omitempty"`
	Disabled     bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Hidden       bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Icon         string `json:"icon,omitempty" yaml:"icon,omitempty"`
	TooltipText  string `json:"tooltipText,omitempty" yaml:"tooltipText,omitempty"`
	ClassName    string `json:"className,omitempty" yaml:"className,omitempty"`
	ShowCheckbox *bool  `json:"showCheckbox,omitempty" yaml:"showCheckbox,omitempty"`
}

// IsLeaf reports whether the node has no children. Absent and empty
// children are the same thing.
func (n Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Count returns the number of nodes in the forest, descendants included.
func Count(nodes []Node) int {
	total := 0
	for i := range nodes {
		total += 1 + Count(nodes[i].Children)
	}
	return total
}

// ListName identifies one of the serialized selection lists.
type ListName string

const (
	ListChecked  ListName = "checked"
	ListExpanded ListName = "expanded"
	ListLoading  ListName = "loading"
)

// IsValid returns true if the list name is one the store understands
func (l ListName) IsValid() bool {
	switch l {
	case ListChecked, ListExpanded, ListLoading:
		return true
	}
	return false
}

// Lists is the external list-of-identities form of the per-node flags.
type Lists struct {
	Checked  []string `json:"checked,omitempty" yaml:"checked,omitempty"`
	Expanded []string `json:"expanded,omitempty" yaml:"expanded,omitempty"`
	Loading  []string `json:"loading,omitempty" yaml:"loading,omitempty"`
}

// ByName returns the lists keyed by name. Every list is present, so
// unserializing the result resets all three flags.
func (l Lists) ByName() map[ListName][]string {
	return map[ListName][]string{
		ListChecked:  l.Checked,
		ListExpanded: l.Expanded,
		ListLoading:  l.Loading,
	}
}

// Clone creates a deep copy of the lists
func (l Lists) Clone() Lists {
	return Lists{
		Checked:  cloneStrings(l.Checked),
		Expanded: cloneStrings(l.Expanded),
		Loading:  cloneStrings(l.Loading),
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// CheckState is the tri-state check value of a node.
type CheckState int

const (
	Unchecked   CheckState = 0
	Checked     CheckState = 1
	HalfChecked CheckState = 2
)

func (c CheckState) String() string {
	switch c {
	case Unchecked:
		return "unchecked"
	case Checked:
		return "checked"
	case HalfChecked:
		return "half-checked"
	default:
		return fmt.Sprintf("CheckState(%d)", int(c))
	}
}
