package logic

// Viewport tracks which rows of the menu are on screen
type Viewport struct {
	offset int
	height int
}

// NewViewport creates a viewport showing height rows
func NewViewport(height int) *Viewport {
	v := &Viewport{}
	v.SetHeight(height)
	return v
}

// SetHeight changes the number of visible rows
func (v *Viewport) SetHeight(height int) {
	if height < 1 {
		height = 1
	}
	v.height = height
}

// Height returns the number of visible rows
func (v *Viewport) Height() int {
	return v.height
}

// Offset returns the first visible row
func (v *Viewport) Offset() int {
	return v.offset
}

// EnsureVisible scrolls so that row index is on screen and returns the new
// offset. A negative index only clamps the offset to total.
func (v *Viewport) EnsureVisible(index, total int) int {
	if index >= 0 {
		// If selected item is above viewport, scroll up
		if index < v.offset {
			v.offset = index
		}
		// If selected item is below viewport, scroll down
		if index >= v.offset+v.height {
			v.offset = index - v.height + 1
		}
	}

	// The maximum offset should ensure we can still fill the viewport
	maxOffset := total - v.height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if v.offset > maxOffset {
		v.offset = maxOffset
	}
	if v.offset < 0 {
		v.offset = 0
	}
	return v.offset
}

// Window returns the visible row range [start, end) of total rows and
// whether rows are hidden above or below it
func (v *Viewport) Window(total int) (start, end int, above, below bool) {
	start = min(v.offset, total)
	end = min(start+v.height, total)
	return start, end, start > 0, end < total
}
