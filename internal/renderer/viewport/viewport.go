// Package viewport holds the scroll and layout state of an alignment view
// and maps pointer positions to alignment coordinates.
//
// Positions are in canvas units: a character cell is CharWidth by
// CharHeight units. A terminal host uses 1x1 cells.
package viewport

import (
	"slices"
	"sync"

	"github.com/dshills/alnstorm/internal/engine/alignment"
	"github.com/dshills/alnstorm/internal/engine/hidden"
)

// Viewport is the visible portion of an alignment.
//
// StartRes and EndRes are visible columns; hidden columns are skipped when
// scrolling. The alignment size and hidden columns are snapshotted by
// SyncAlignment.
type Viewport struct {
	mu sync.RWMutex

	// canvas size
	width  int
	height int

	charWidth  int
	charHeight int

	startRes int
	startSeq int

	wrapped   bool
	wrapWidth int // 0 derives the width from the canvas

	// wrapped mode layout
	labelWest   int
	labelEast   int
	scaleRows   int
	showAnnots  bool
	annotHeight []int

	// alignment snapshot
	alHeight int
	alWidth  int
	hidden   *hidden.Columns
}

// New creates a viewport for a canvas of the given size.
// Sizes are clamped to a minimum of 1.
func New(width, height, charWidth, charHeight int) *Viewport {
	return &Viewport{
		width:      max(width, 1),
		height:     max(height, 1),
		charWidth:  max(charWidth, 1),
		charHeight: max(charHeight, 1),
		hidden:     hidden.New(),
	}
}

// Resize updates the canvas size.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = max(width, 1)
	v.height = max(height, 1)
	v.clampLocked()
}

// Size returns the canvas size.
func (v *Viewport) Size() (width, height int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width, v.height
}

// SetCharSize sets the character cell size.
func (v *Viewport) SetCharSize(w, h int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.charWidth = max(w, 1)
	v.charHeight = max(h, 1)
	v.clampLocked()
}

// SetWrapped switches wrapped mode. A wrapWidth of 0 or less fits the
// band width to the canvas.
func (v *Viewport) SetWrapped(wrapped bool, wrapWidth int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.wrapped = wrapped
	v.wrapWidth = max(wrapWidth, 0)
	v.clampLocked()
}

// Wrapped reports whether wrapped mode is on.
func (v *Viewport) Wrapped() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.wrapped
}

// SetLabelWidths sets the west and east scale label widths drawn inside
// the canvas in wrapped mode.
func (v *Viewport) SetLabelWidths(west, east int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.labelWest = max(west, 0)
	v.labelEast = max(east, 0)
	v.clampLocked()
}

// SetScaleRows sets the number of scale rows above each wrapped band.
func (v *Viewport) SetScaleRows(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scaleRows = max(n, 0)
}

// SetAnnotations sets whether annotation rows are shown below each wrapped
// band and their heights.
func (v *Viewport) SetAnnotations(show bool, heights []int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.showAnnots = show
	v.annotHeight = slices.Clone(heights)
}

// SyncAlignment snapshots the size and hidden columns of al.
func (v *Viewport) SyncAlignment(al *alignment.Alignment) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alHeight = al.Height()
	v.alWidth = al.Width()
	v.hidden = al.HiddenColumns().Clone()
	v.clampLocked()
}

// StartRes returns the first visible column.
func (v *Viewport) StartRes() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.startRes
}

// EndRes returns the last visible column shown.
func (v *Viewport) EndRes() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.endResLocked()
}

// StartSeq returns the first sequence row shown.
func (v *Viewport) StartSeq() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.startSeq
}

// EndSeq returns the last sequence row shown.
func (v *Viewport) EndSeq() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.wrapped {
		return max(v.alHeight-1, 0)
	}
	return max(min(v.startSeq+v.rowsLocked()-1, v.alHeight-1), v.startSeq)
}

// Columns returns how many columns fit across the canvas, or the band
// width in wrapped mode.
func (v *Viewport) Columns() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.colsLocked()
}

func (v *Viewport) colsLocked() int {
	if v.wrapped {
		return v.effectiveWrapLocked()
	}
	return max(v.width/v.charWidth, 1)
}

func (v *Viewport) rowsLocked() int {
	return max(v.height/v.charHeight, 1)
}

func (v *Viewport) effectiveWrapLocked() int {
	if v.wrapWidth > 0 {
		return v.wrapWidth
	}
	return max((v.width-v.labelWest-v.labelEast)/v.charWidth, 1)
}

func (v *Viewport) visibleWidthLocked() int {
	return v.hidden.VisibleWidth(v.alWidth)
}

func (v *Viewport) bandHeightLocked() int {
	band := (v.scaleRows + v.alHeight) * v.charHeight
	if v.showAnnots {
		for _, h := range v.annotHeight {
			band += h
		}
	}
	return max(band, v.charHeight)
}

func (v *Viewport) endResLocked() int {
	last := max(v.visibleWidthLocked()-1, 0)
	span := v.colsLocked()
	if v.wrapped {
		span *= max(v.height/v.bandHeightLocked(), 1)
	}
	return max(min(v.startRes+span-1, last), v.startRes)
}

// clampLocked keeps the scroll position inside the alignment.
func (v *Viewport) clampLocked() {
	visW := v.visibleWidthLocked()
	if v.wrapped {
		wrap := v.effectiveWrapLocked()
		lastBlock := max(visW-1, 0) / wrap
		v.startRes = min(max(v.startRes, 0)/wrap, lastBlock) * wrap
		v.startSeq = 0
		return
	}
	v.startRes = min(max(v.startRes, 0), max(visW-v.colsLocked(), 0))
	v.startSeq = min(max(v.startSeq, 0), max(v.alHeight-v.rowsLocked(), 0))
}

// ScrollTo scrolls so that visible column res and row seq are at the top
// left. In wrapped mode res is rounded down to the start of its band and
// seq is ignored.
func (v *Viewport) ScrollTo(res, seq int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.startRes = res
	v.startSeq = seq
	v.clampLocked()
}

// ScrollBy scrolls by whole columns and rows. In wrapped mode each row
// step moves one band. Returns true if the position changed.
func (v *Viewport) ScrollBy(dRes, dSeq int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	oldRes, oldSeq := v.startRes, v.startSeq
	if v.wrapped {
		v.startRes += dSeq * v.effectiveWrapLocked()
	} else {
		v.startRes += dRes
		v.startSeq += dSeq
	}
	v.clampLocked()
	return v.startRes != oldRes || v.startSeq != oldSeq
}

// ScrollToReveal scrolls minimally so that the absolute column col and
// row seq are shown. Returns true if scrolling occurred.
func (v *Viewport) ScrollToReveal(col, seq int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	oldRes, oldSeq := v.startRes, v.startSeq
	vis := v.hidden.AbsoluteToVisible(col)
	end := v.endResLocked()
	switch {
	case vis < v.startRes, v.wrapped && vis > end:
		v.startRes = vis
	case vis > end:
		v.startRes = vis - (end - v.startRes)
	}
	if !v.wrapped {
		rows := v.rowsLocked()
		switch {
		case seq < v.startSeq:
			v.startSeq = seq
		case seq >= v.startSeq+rows:
			v.startSeq = seq - rows + 1
		}
	}
	v.clampLocked()
	return v.startRes != oldRes || v.startSeq != oldSeq
}

// Geometry returns a snapshot of the layout used for pointer mapping.
func (v *Viewport) Geometry() Geometry {
	v.mu.RLock()
	defer v.mu.RUnlock()
	g := Geometry{
		CanvasWidth:     v.width,
		CanvasHeight:    v.height,
		CharWidth:       v.charWidth,
		CharHeight:      v.charHeight,
		StartRes:        v.startRes,
		EndRes:          v.endResLocked(),
		StartSeq:        v.startSeq,
		Height:          v.alHeight,
		Width:           v.alWidth,
		Wrapped:         v.wrapped,
		WrapWidth:       v.wrapWidth,
		LabelWest:       v.labelWest,
		LabelEast:       v.labelEast,
		ScaleRows:       v.scaleRows,
		ShowAnnotations: v.showAnnots,
		Hidden:          v.hidden.Clone(),
	}
	g.AnnotationHeights = slices.Clone(v.annotHeight)
	return g
}

// MapPosition maps a canvas point using the current geometry.
func (v *Viewport) MapPosition(p Point) MousePos {
	return MapPosition(p, v.Geometry())
}
