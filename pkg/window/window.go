// Package window computes the contiguous range of visible rows that has to
// be materialized for a scroll position, plus the spacer heights that keep
// the scrollable area as tall as an unvirtualized render.
//
// All rows share one fixed height. Heights and offsets are in the host's
// unit (pixels for a browser, lines for a terminal).
package window

import (
	"slices"
)

// DefaultChildHeight is the row height used when none is configured.
const DefaultChildHeight = 28

// slack is the extra backward margin applied when selecting rows, on top of
// the one row of backward slack in the scroll computation.
const slack = 2

// Indexed is anything carrying a display index among visible rows.
type Indexed interface {
	DisplayIndex() int
}

// Window tracks the render range for one tree. Until Mount is called the
// range is empty.
type Window struct {
	childHeight           int
	ViewportHeight        int
	ScrollTop             int
	NumberOfNodesToRender int
	StartIndex            int
	EndIndex              int
}

// New creates a window with the given row height. Non-positive heights
// fall back to DefaultChildHeight.
func New(childHeight int) *Window {
	if childHeight <= 0 {
		childHeight = DefaultChildHeight
	}
	return &Window{childHeight: childHeight, EndIndex: -1}
}

// ChildHeight returns the row height. A zero Window uses DefaultChildHeight.
func (w Window) ChildHeight() int {
	if w.childHeight <= 0 {
		return DefaultChildHeight
	}
	return w.childHeight
}

// Mounted reports whether Mount has sized the window.
func (w Window) Mounted() bool {
	return w.NumberOfNodesToRender > 0
}

// Mount sizes the window for a viewport and resets it to the top.
// Two extra rows keep gaps from showing while scrolling.
func (w *Window) Mount(viewportHeight int) {
	w.setViewport(viewportHeight)
	w.ScrollTop = 0
	w.StartIndex = 0
	w.EndIndex = w.NumberOfNodesToRender - 1
}

// Resize changes the viewport height without moving the scroll position.
func (w *Window) Resize(viewportHeight int) {
	w.setViewport(viewportHeight)
	w.EndIndex = w.StartIndex + w.NumberOfNodesToRender - 1
}

func (w *Window) setViewport(viewportHeight int) {
	if viewportHeight < 0 {
		viewportHeight = 0
	}
	w.ViewportHeight = viewportHeight
	w.NumberOfNodesToRender = viewportHeight/w.ChildHeight() + 2
}

// Scroll moves the window to a new scroll offset. The first row is kept one
// row behind the first fully scrolled-to row, except at the very top.
func (w *Window) Scroll(scrollTop int) {
	if scrollTop < 0 {
		scrollTop = 0
	}
	w.ScrollTop = scrollTop

	h := w.ChildHeight()
	startPosition := (scrollTop + h - 1) / h
	if startPosition == 0 {
		w.StartIndex = 0
	} else {
		w.StartIndex = startPosition - 1
	}
	w.EndIndex = w.StartIndex + w.NumberOfNodesToRender - 1
}

// Padding returns the spacer heights to render before and after the
// materialized rows for total visible rows. When everything fits no padding
// is needed.
func (w *Window) Padding(total int) (top, bottom int) {
	if total <= w.NumberOfNodesToRender {
		return 0, 0
	}
	top = w.StartIndex * w.ChildHeight()
	bottom = (total - w.StartIndex - w.NumberOfNodesToRender) * w.ChildHeight()
	if bottom < 0 {
		bottom = 0
	}
	return top, bottom
}

// ContentHeight is the height of the full scrollable area for total rows.
func (w *Window) ContentHeight(total int) int {
	return total * w.ChildHeight()
}

// NodesToRender selects the rows with startIndex-2 <= index <= endIndex and
// returns them sorted by index. The input slice is not modified.
func NodesToRender[T Indexed](startIndex, endIndex int, visible []T) []T {
	var out []T
	for _, node := range visible {
		idx := node.DisplayIndex()
		if idx >= startIndex-slack && idx <= endIndex {
			out = append(out, node)
		}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return a.DisplayIndex() - b.DisplayIndex()
	})
	return out
}
