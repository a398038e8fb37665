package viewport

// ScrollState is the scroll position of a viewport.
type ScrollState struct {
	StartRes int
	StartSeq int
}

// State returns the current scroll position.
func (v *Viewport) State() ScrollState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return ScrollState{StartRes: v.startRes, StartSeq: v.startSeq}
}

// SetScrollState restores a scroll position.
func (v *Viewport) SetScrollState(state ScrollState) {
	v.ScrollTo(state.StartRes, state.StartSeq)
}

// RequestScroll scrolls one step in the given direction. It is the entry
// point used by the drag autoscroller. Returns true if the view moved.
func (v *Viewport) RequestScroll(dx, dy int) bool {
	return v.ScrollBy(sign(dx), sign(dy))
}

// EdgeDirection returns the autoscroll direction for a point on or outside
// the canvas edges: -1, 0 or 1 on each axis.
func (v *Viewport) EdgeDirection(p Point) (dx, dy int) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	switch {
	case p.X < 0:
		dx = -1
	case p.X >= v.width:
		dx = 1
	}
	switch {
	case p.Y < 0:
		dy = -1
	case p.Y >= v.height:
		dy = 1
	}
	if v.wrapped {
		dx = 0
	}
	return dx, dy
}

// ScrollPercent returns how far the view is scrolled through the columns,
// from 0.0 to 1.0.
func (v *Viewport) ScrollPercent() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()

	span := v.visibleWidthLocked() - v.colsLocked()
	if span <= 0 {
		return 0
	}
	return float64(v.startRes) / float64(span)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
