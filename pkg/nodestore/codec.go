package nodestore

import (
	"github.com/vanderheijden86/checktree/pkg/model"
)

// UnserializeLists applies external selection lists to the store. For each
// recognized list the flag is first cleared on every record and then set on
// every named value, so repeated calls with the same input are idempotent.
// Unknown list names and values not in the store are ignored.
func (s *Store) UnserializeLists(lists map[model.ListName][]string) {
	for name, values := range lists {
		if !name.IsValid() {
			continue
		}
		for _, v := range s.order {
			setFlag(s.records[v], name, false)
		}
		for _, v := range values {
			if rec, ok := s.records[v]; ok {
				setFlag(rec, name, true)
			}
		}
	}
}

// SerializeList returns the values whose flag is set, in iteration order.
func (s *Store) SerializeList(name model.ListName) []string {
	if !name.IsValid() {
		return nil
	}
	var out []string
	for _, v := range s.order {
		if flag(s.records[v], name) {
			out = append(out, v)
		}
	}
	return out
}

// SerializeLists returns all three lists at once.
func (s *Store) SerializeLists() model.Lists {
	return model.Lists{
		Checked:  s.SerializeList(model.ListChecked),
		Expanded: s.SerializeList(model.ListExpanded),
		Loading:  s.SerializeList(model.ListLoading),
	}
}
