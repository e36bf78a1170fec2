package nodestore

import (
	"fmt"
	"reflect"
	"sort"
	"testing"

	"github.com/vanderheijden86/checktree/pkg/model"
	"pgregory.net/rapid"
)

func sampleTree() []model.Node {
	return []model.Node{
		{Value: "fruits", Label: "Fruits", Children: []model.Node{
			{Value: "apple", Label: "Apple"},
			{Value: "citrus", Label: "Citrus", Children: []model.Node{
				{Value: "lemon", Label: "Lemon"},
				{Value: "orange", Label: "Orange", Disabled: true},
			}},
		}},
		{Value: "veg", Label: "Vegetables", Icon: "leaf", TooltipText: "greens", ClassName: "veg"},
	}
}

// genForest draws a forest with globally unique values.
func genForest(t *rapid.T) []model.Node {
	next := 0
	var build func(depth int) []model.Node
	build = func(depth int) []model.Node {
		limit := 4
		if depth >= 3 {
			limit = 0
		}
		n := rapid.IntRange(0, limit).Draw(t, fmt.Sprintf("width-%d-%d", depth, next))
		nodes := make([]model.Node, n)
		for i := range nodes {
			nodes[i].Value = fmt.Sprintf("n%d", next)
			next++
			nodes[i].Children = build(depth + 1)
		}
		return nodes
	}
	return build(0)
}

// TestFlattenSample verifies parent links, children and copied fields
func TestFlattenSample(t *testing.T) {
	s := New()
	s.Flatten(sampleTree())

	if s.Len() != 6 {
		t.Fatalf("expected 6 records, got %d", s.Len())
	}

	wantOrder := []string{"fruits", "apple", "citrus", "lemon", "orange", "veg"}
	if got := s.Values(); !reflect.DeepEqual(got, wantOrder) {
		t.Errorf("Values() = %v, want %v", got, wantOrder)
	}

	wantParent := map[string]string{
		"fruits": model.RootParent,
		"apple":  "fruits",
		"citrus": "fruits",
		"lemon":  "citrus",
		"orange": "citrus",
		"veg":    model.RootParent,
	}
	for value, parent := range wantParent {
		rec, ok := s.Get(value)
		if !ok {
			t.Fatalf("missing record %s", value)
		}
		if rec.Parent != parent {
			t.Errorf("%s.Parent = %q, want %q", value, rec.Parent, parent)
		}
	}

	citrus, _ := s.Get("citrus")
	if !reflect.DeepEqual(citrus.Children, []string{"lemon", "orange"}) {
		t.Errorf("citrus.Children = %v", citrus.Children)
	}
	if citrus.Depth != 1 {
		t.Errorf("citrus.Depth = %d, want 1", citrus.Depth)
	}

	veg, _ := s.Get("veg")
	if veg.Icon != "leaf" || veg.TooltipText != "greens" || veg.ClassName != "veg" {
		t.Errorf("scalar fields not copied: %+v", veg)
	}
	orange, _ := s.Get("orange")
	if !orange.Disabled {
		t.Error("expected orange to stay disabled")
	}
}

// TestFlattenDoesNotSetFlags verifies expanded/loading only come from lists
func TestFlattenDoesNotSetFlags(t *testing.T) {
	s := New()
	s.Flatten(sampleTree())
	for _, rec := range s.Records() {
		if rec.Expanded || rec.Loading {
			t.Errorf("%s has flags set after flatten: %+v", rec.Value, rec)
		}
	}
}

// TestIsLeafFollowsChildren verifies leafness is derived, not cached
func TestIsLeafFollowsChildren(t *testing.T) {
	s := New()
	s.Flatten([]model.Node{{Value: "a", Children: []model.Node{}}, {Value: "b", Children: []model.Node{{Value: "c"}}}})

	if !s.IsLeaf("a") {
		t.Error("empty children should be a leaf")
	}
	if s.IsLeaf("b") {
		t.Error("b has children")
	}
	if s.IsLeaf("missing") {
		t.Error("unknown values are not leaves")
	}

	b, _ := s.Get("b")
	b.Children = nil
	if !s.IsLeaf("b") {
		t.Error("b should become a leaf once its children are removed")
	}
}

// TestFlattenDuplicateKeepsPosition verifies later duplicates overwrite in place
func TestFlattenDuplicateKeepsPosition(t *testing.T) {
	s := New()
	s.Flatten([]model.Node{
		{Value: "a", Label: "first"},
		{Value: "b"},
		{Value: "a", Label: "second"},
	})
	if got := s.Values(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Values() = %v, want [a b]", got)
	}
	a, _ := s.Get("a")
	if a.Label != "second" {
		t.Errorf("expected later record to win, got %q", a.Label)
	}
}

// TestFlattenWithoutResetKeepsStale verifies stale entries survive a re-flatten
func TestFlattenWithoutResetKeepsStale(t *testing.T) {
	s := New()
	s.Flatten(sampleTree())
	s.Flatten([]model.Node{{Value: "veg"}})
	if _, ok := s.Get("apple"); !ok {
		t.Error("flatten alone must not purge stale records")
	}

	s.Reset()
	s.Flatten([]model.Node{{Value: "veg"}})
	if s.Len() != 1 {
		t.Errorf("expected 1 record after reset, got %d", s.Len())
	}
}

// TestToggleNode verifies single flag updates and unknown value no-ops
func TestToggleNode(t *testing.T) {
	s := New()
	s.Flatten(sampleTree())
	s.ToggleNode("citrus", model.ListExpanded, true)
	s.ToggleNode("lemon", model.ListLoading, true)
	s.ToggleNode("nope", model.ListChecked, true)

	if got := s.SerializeList(model.ListExpanded); !reflect.DeepEqual(got, []string{"citrus"}) {
		t.Errorf("expanded = %v", got)
	}
	if got := s.SerializeList(model.ListLoading); !reflect.DeepEqual(got, []string{"lemon"}) {
		t.Errorf("loading = %v", got)
	}
}

// TestEachStopsEarly verifies the iteration callback can stop the walk
func TestEachStopsEarly(t *testing.T) {
	s := New()
	s.Flatten(sampleTree())
	var seen []string
	s.Each(func(r *Record) bool {
		seen = append(seen, r.Value)
		return len(seen) < 2
	})
	if !reflect.DeepEqual(seen, []string{"fruits", "apple"}) {
		t.Errorf("seen = %v", seen)
	}
}

// TestFlattenCompleteness checks every generated node appears once with the right parent
func TestFlattenCompleteness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		forest := genForest(t)
		s := New()
		s.Flatten(forest)

		if s.Len() != model.Count(forest) {
			t.Fatalf("store has %d records, forest has %d nodes", s.Len(), model.Count(forest))
		}

		var check func(nodes []model.Node, parent string)
		check = func(nodes []model.Node, parent string) {
			for _, n := range nodes {
				rec, ok := s.Get(n.Value)
				if !ok {
					t.Fatalf("missing %s", n.Value)
				}
				if rec.Parent != parent {
					t.Fatalf("%s.Parent = %q, want %q", n.Value, rec.Parent, parent)
				}
				check(n.Children, n.Value)
			}
		}
		check(forest, model.RootParent)
	})
}

func sortedUnique(in []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
