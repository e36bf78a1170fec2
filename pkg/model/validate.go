package model

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// InvalidKind classifies a tree that breaks the input contract.
type InvalidKind string

const (
	InvalidEmptyValue     InvalidKind = "empty_value"
	InvalidDuplicateValue InvalidKind = "duplicate_value"
	InvalidCycle          InvalidKind = "cycle"
)

// InvalidTreeError reports the first contract violation found by Validate.
type InvalidTreeError struct {
	Kind  InvalidKind
	Value string
	Path  []string // values from the top level down to the offending node
}

func (e *InvalidTreeError) Error() string {
	switch e.Kind {
	case InvalidEmptyValue:
		return fmt.Sprintf("invalid tree: node under %q has an empty value", parentOf(e.Path))
	case InvalidDuplicateValue:
		return fmt.Sprintf("invalid tree: value %q appears more than once", e.Value)
	case InvalidCycle:
		return fmt.Sprintf("invalid tree: value %q is its own ancestor", e.Value)
	default:
		return fmt.Sprintf("invalid tree: %s at %q", e.Kind, e.Value)
	}
}

func parentOf(path []string) string {
	if len(path) < 2 {
		return RootParent
	}
	return path[len(path)-2]
}

// IsInvalidTree reports whether err is an InvalidTreeError of the given kind.
// An empty kind matches any InvalidTreeError.
func IsInvalidTree(err error, kind InvalidKind) bool {
	var ite *InvalidTreeError
	if !errors.As(err, &ite) {
		return false
	}
	return kind == "" || ite.Kind == kind
}

// Validate checks the forest against the flattening contract: every value
// non-empty and globally unique. A repeated value that reappears below
// itself would make parent walks loop forever, so that case is reported as
// a cycle rather than a plain duplicate.
//
// Well-formed trees pass unchanged; the store never calls this itself.
func Validate(nodes []Node) error {
	ids := make(map[string]int64)
	g := simple.NewDirectedGraph()
	var first *InvalidTreeError

	nodeFor := func(value string) int64 {
		if id, ok := ids[value]; ok {
			return id
		}
		n := g.NewNode()
		g.AddNode(n)
		ids[value] = n.ID()
		return n.ID()
	}

	var walk func(nodes []Node, parent string, path []string) *InvalidTreeError
	walk = func(nodes []Node, parent string, path []string) *InvalidTreeError {
		for i := range nodes {
			node := &nodes[i]
			here := append(path[:len(path):len(path)], node.Value)
			if node.Value == "" {
				return &InvalidTreeError{Kind: InvalidEmptyValue, Path: here}
			}
			if _, seen := ids[node.Value]; seen && first == nil {
				first = &InvalidTreeError{Kind: InvalidDuplicateValue, Value: node.Value, Path: here}
			}
			child := nodeFor(node.Value)
			if parent != "" {
				if parent == node.Value {
					return &InvalidTreeError{Kind: InvalidCycle, Value: node.Value, Path: here}
				}
				from := g.Node(nodeFor(parent))
				to := g.Node(child)
				if !g.HasEdgeFromTo(from.ID(), to.ID()) {
					g.SetEdge(g.NewEdge(from, to))
				}
			}
			if err := walk(node.Children, node.Value, here); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(nodes, "", nil); err != nil {
		return err
	}

	if _, err := topo.Sort(g); err != nil {
		var unorderable topo.Unorderable
		if errors.As(err, &unorderable) && len(unorderable) > 0 && len(unorderable[0]) > 0 {
			value := valueFor(ids, unorderable[0][0].ID())
			return &InvalidTreeError{Kind: InvalidCycle, Value: value}
		}
		return &InvalidTreeError{Kind: InvalidCycle}
	}

	if first != nil {
		return first
	}
	return nil
}

func valueFor(ids map[string]int64, id int64) string {
	for value, nid := range ids {
		if nid == id {
			return value
		}
	}
	return ""
}
