// Package cascade implements tri-state check semantics over a node store.
//
// Reading and writing are deliberately separate paths. CheckState derives a
// node's displayed state from its subtree and honours no-cascade mode;
// ToggleChecked always percolates a check action down to every descendant.
package cascade

import (
	"github.com/vanderheijden86/checktree/pkg/model"
	"github.com/vanderheijden86/checktree/pkg/nodestore"
)

// Engine computes and mutates check state for records in one store.
type Engine struct {
	store *nodestore.Store
}

// New creates an engine bound to store.
func New(store *nodestore.Store) *Engine {
	return &Engine{store: store}
}

// CheckState returns the tri-state value for value. Rules, in order:
//
//  1. a half-checked leaf is HalfChecked
//  2. a leaf, or any node in no-cascade mode, reports its own flag
//  3. every descendant leaf checked: Checked
//  4. some descendant leaf checked or half-checked: HalfChecked
//  5. otherwise Unchecked
//
// Unknown values are Unchecked.
func (e *Engine) CheckState(value string, noCascade bool) model.CheckState {
	rec, ok := e.store.Get(value)
	if !ok {
		return model.Unchecked
	}

	if rec.IsLeaf() && rec.HalfChecked {
		return model.HalfChecked
	}
	if rec.IsLeaf() || noCascade {
		if rec.Checked {
			return model.Checked
		}
		return model.Unchecked
	}
	if e.isEveryChildChecked(rec) {
		return model.Checked
	}
	if e.isSomeChildChecked(rec) {
		return model.HalfChecked
	}
	return model.Unchecked
}

// isEveryChildChecked reports whether every descendant leaf of rec is checked.
func (e *Engine) isEveryChildChecked(rec *nodestore.Record) bool {
	for _, v := range rec.Children {
		child, ok := e.store.Get(v)
		if !ok {
			return false
		}
		if child.IsLeaf() {
			if !child.Checked {
				return false
			}
			continue
		}
		if !e.isEveryChildChecked(child) {
			return false
		}
	}
	return true
}

// isSomeChildChecked reports whether any descendant leaf of rec is checked
// or half-checked.
func (e *Engine) isSomeChildChecked(rec *nodestore.Record) bool {
	for _, v := range rec.Children {
		child, ok := e.store.Get(v)
		if !ok {
			continue
		}
		if child.IsLeaf() {
			if child.Checked || child.HalfChecked {
				return true
			}
			continue
		}
		if e.isSomeChildChecked(child) {
			return true
		}
	}
	return false
}

// ToggleChecked applies a user check or uncheck to value and all of its
// descendants. Disabled leaves keep their state. Non-leaf nodes always take
// the new flag, even when some of their children are disabled; the disabled
// check is applied to leaves only.
func (e *Engine) ToggleChecked(value string, isChecked bool) {
	rec, ok := e.store.Get(value)
	if !ok {
		return
	}

	if rec.IsLeaf() {
		if rec.Disabled {
			return
		}
		rec.Checked = isChecked
		return
	}

	rec.Checked = isChecked
	for _, child := range rec.Children {
		e.ToggleChecked(child, isChecked)
	}
}

// LoadingState reports whether value is flagged as loading.
func (e *Engine) LoadingState(value string) bool {
	rec, ok := e.store.Get(value)
	return ok && rec.Loading
}
