package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestListName_IsValid(t *testing.T) {
	tests := []struct {
		name string
		list ListName
		want bool
	}{
		{"Checked", ListChecked, true},
		{"Expanded", ListExpanded, true},
		{"Loading", ListLoading, true},
		{"HalfChecked", "halfChecked", false},
		{"Empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.list.IsValid(); got != tt.want {
				t.Errorf("ListName.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckState_String(t *testing.T) {
	tests := []struct {
		state CheckState
		want  string
	}{
		{Unchecked, "unchecked"},
		{Checked, "checked"},
		{HalfChecked, "half-checked"},
		{CheckState(7), "CheckState(7)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("CheckState(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
	}
}

func TestNode_IsLeaf(t *testing.T) {
	if !(Node{Value: "a"}).IsLeaf() {
		t.Error("node without children should be a leaf")
	}
	if !(Node{Value: "a", Children: []Node{}}).IsLeaf() {
		t.Error("node with empty children should be a leaf")
	}
	if (Node{Value: "a", Children: []Node{{Value: "b"}}}).IsLeaf() {
		t.Error("node with children should not be a leaf")
	}
}

func TestCount(t *testing.T) {
	nodes := []Node{
		{Value: "a", Children: []Node{{Value: "b"}, {Value: "c", Children: []Node{{Value: "d"}}}}},
		{Value: "e"},
	}
	if got := Count(nodes); got != 5 {
		t.Errorf("Count() = %d, want 5", got)
	}
	if got := Count(nil); got != 0 {
		t.Errorf("Count(nil) = %d, want 0", got)
	}
}

func TestLists_ByNameCoversEveryList(t *testing.T) {
	l := Lists{Checked: []string{"a"}}
	byName := l.ByName()
	for _, name := range []ListName{ListChecked, ListExpanded, ListLoading} {
		if _, ok := byName[name]; !ok {
			t.Errorf("ByName() missing %q", name)
		}
	}
	if len(byName[ListChecked]) != 1 || byName[ListChecked][0] != "a" {
		t.Errorf("ByName()[checked] = %v, want [a]", byName[ListChecked])
	}
}

func TestLists_CloneIsDeep(t *testing.T) {
	orig := Lists{Checked: []string{"a"}, Expanded: []string{"b"}}
	clone := orig.Clone()
	clone.Checked[0] = "z"
	if orig.Checked[0] != "a" {
		t.Error("modifying clone changed original checked list")
	}
	if clone.Loading != nil {
		t.Error("nil list should stay nil after clone")
	}
}

func TestNode_JSONFieldNames(t *testing.T) {
	show := false
	n := Node{Value: "v", HalfChecked: true, TooltipText: "tip", ClassName: "c", ShowCheckbox: &show}
	data, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, key := range []string{`"halfChecked":true`, `"tooltipText":"tip"`, `"className":"c"`, `"showCheckbox":false`} {
		if !strings.Contains(s, key) {
			t.Errorf("expected %s in %s", key, s)
		}
	}
}

func TestNode_YAMLDecodeIgnoresUnknownFields(t *testing.T) {
	src := `
- value: fruits
  label: Fruits
  colour: red
  children:
    - value: apple
      disabled: true
`
	var nodes []Node
	if err := yaml.Unmarshal([]byte(src), &nodes); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(nodes) != 1 || len(nodes[0].Children) != 1 {
		t.Fatalf("unexpected shape: %+v", nodes)
	}
	if !nodes[0].Children[0].Disabled {
		t.Error("expected apple to be disabled")
	}
}

func TestValidate_WellFormed(t *testing.T) {
	nodes := []Node{
		{Value: "a", Children: []Node{{Value: "b"}, {Value: "c"}}},
		{Value: "d"},
	}
	if err := Validate(nodes); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	if err := Validate(nil); err != nil {
		t.Errorf("Validate(nil) = %v, want nil", err)
	}
}

func TestValidate_EmptyValue(t *testing.T) {
	nodes := []Node{{Value: "a", Children: []Node{{Label: "no value"}}}}
	err := Validate(nodes)
	if !IsInvalidTree(err, InvalidEmptyValue) {
		t.Fatalf("expected empty value error, got %v", err)
	}
	if !strings.Contains(err.Error(), `"a"`) {
		t.Errorf("error should name the parent, got %q", err.Error())
	}
}

func TestValidate_Duplicate(t *testing.T) {
	nodes := []Node{
		{Value: "a", Children: []Node{{Value: "x"}}},
		{Value: "b", Children: []Node{{Value: "x"}}},
	}
	err := Validate(nodes)
	if !IsInvalidTree(err, InvalidDuplicateValue) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	var ite *InvalidTreeError
	if errors.As(err, &ite) && ite.Value != "x" {
		t.Errorf("expected duplicate value x, got %q", ite.Value)
	}
}

func TestValidate_SelfChild(t *testing.T) {
	nodes := []Node{{Value: "a", Children: []Node{{Value: "a"}}}}
	if err := Validate(nodes); !IsInvalidTree(err, InvalidCycle) {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestValidate_AncestorRepeated(t *testing.T) {
	nodes := []Node{
		{Value: "a", Children: []Node{
			{Value: "b", Children: []Node{{Value: "a"}}},
		}},
	}
	if err := Validate(nodes); !IsInvalidTree(err, InvalidCycle) {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestValidate_WrappedErrorKeepsKind(t *testing.T) {
	err := Validate([]Node{{Value: "a"}, {Value: "a"}})
	wrapped := fmt.Errorf("loading tree: %w", err)
	if !IsInvalidTree(wrapped, "") {
		t.Errorf("expected wrapped error to match InvalidTreeError")
	}
	if IsInvalidTree(errors.New("other"), "") {
		t.Errorf("plain error should not match")
	}
}
