// Package visibility decides which flattened nodes are on screen given the
// expanded flags of their ancestors, and numbers them for display.
package visibility

import (
	"github.com/vanderheijden86/checktree/pkg/model"
	"github.com/vanderheijden86/checktree/pkg/nodestore"
)

// IsAnyParentCollapsed walks the parent chain of value and reports whether
// some ancestor is collapsed. Top-level nodes are always visible; a node's
// own expanded flag only affects its descendants.
//
// The walk is O(depth) and assumes the chain ends at model.RootParent. A
// parent value missing from the store ends the walk as not collapsed.
func IsAnyParentCollapsed(s *nodestore.Store, value string) bool {
	rec, ok := s.Get(value)
	if !ok {
		return false
	}
	for rec.Parent != model.RootParent {
		parent, ok := s.Get(rec.Parent)
		if !ok {
			return false
		}
		if !parent.Expanded {
			return true
		}
		rec = parent
	}
	return false
}

// DisplayableNodes returns every record whose ancestors are all expanded,
// in store iteration order (depth-first pre-order of the last flatten).
func DisplayableNodes(s *nodestore.Store) []*nodestore.Record {
	var out []*nodestore.Record
	s.Each(func(rec *nodestore.Record) bool {
		if !IsAnyParentCollapsed(s, rec.Value) {
			out = append(out, rec)
		}
		return true
	})
	return out
}

// UpdateNodeMetaData assigns each record its position in nodes and the
// matching zebra-stripe parity.
func UpdateNodeMetaData(nodes []*nodestore.Record) {
	for i, rec := range nodes {
		rec.Index = i
		rec.EvenNode = i%2 == 0
	}
}
