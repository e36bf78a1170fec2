package checktree

import "strings"

// HiddenInput is one name/value pair for a plain form submission.
type HiddenInput struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HiddenInputs serializes the checked list as form fields. It returns nil
// when Options.Name is empty. With NameAsArray every checked value gets its
// own "name[]" field; otherwise one field carries the comma-joined list.
func (t *Tree) HiddenInputs() []HiddenInput {
	if t.opts.Name == "" {
		return nil
	}
	checked := t.Checked()
	if t.opts.NameAsArray {
		out := make([]HiddenInput, len(checked))
		for i, v := range checked {
			out[i] = HiddenInput{Name: t.opts.Name + "[]", Value: v}
		}
		return out
	}
	return []HiddenInput{{Name: t.opts.Name, Value: strings.Join(checked, ",")}}
}
