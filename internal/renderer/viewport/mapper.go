package viewport

import "github.com/dshills/alnstorm/internal/engine/hidden"

// Point is a position on the alignment canvas.
type Point struct {
	X, Y int
}

// MousePos is the logical position under the pointer.
type MousePos struct {
	// Column is the absolute column, or -1 over a label gutter.
	Column int

	// SeqIndex is the visible sequence row.
	SeqIndex int

	// AnnotationIndex is the annotation row in wrapped mode, or -1.
	AnnotationIndex int

	// Block is the wrapped band index, 0 when unwrapped.
	Block int
}

// HasColumn reports whether the pointer was over a column.
func (m MousePos) HasColumn() bool {
	return m.Column >= 0
}

// InAnnotation reports whether the pointer was over an annotation row.
func (m MousePos) InAnnotation() bool {
	return m.AnnotationIndex >= 0
}

// Geometry is the layout state pointer mapping depends on.
//
// In unwrapped mode points are relative to the first shown cell and the
// label widths are ignored. In wrapped mode the canvas is split into
// repeated bands of ScaleRows scale rows, Height sequence rows and the
// annotation rows, with labels drawn west and east of each band.
type Geometry struct {
	CanvasWidth  int
	CanvasHeight int
	CharWidth    int
	CharHeight   int

	// scroll window, visible columns
	StartRes int
	EndRes   int
	StartSeq int

	// alignment size; Width is in absolute columns
	Height int
	Width  int

	Wrapped   bool
	WrapWidth int

	LabelWest int
	LabelEast int
	ScaleRows int

	ShowAnnotations   bool
	AnnotationHeights []int

	Hidden *hidden.Columns
}

// EffectiveWrapWidth returns the band width in columns.
func (g Geometry) EffectiveWrapWidth() int {
	if g.WrapWidth > 0 {
		return g.WrapWidth
	}
	return max((g.CanvasWidth-g.LabelWest-g.LabelEast)/max(g.CharWidth, 1), 1)
}

// AnnotationHeight returns the height of the annotation rows of one band.
func (g Geometry) AnnotationHeight() int {
	if !g.ShowAnnotations {
		return 0
	}
	h := 0
	for _, a := range g.AnnotationHeights {
		h += a
	}
	return h
}

// BandHeight returns the height of one wrapped band.
func (g Geometry) BandHeight() int {
	ch := max(g.CharHeight, 1)
	return max((g.ScaleRows+g.Height)*ch+g.AnnotationHeight(), ch)
}

// MapPosition converts a canvas point to a logical position. It does not
// modify g; equal inputs give equal results.
func MapPosition(p Point, g Geometry) MousePos {
	if g.Wrapped {
		return mapWrapped(p, g)
	}
	return mapUnwrapped(p, g)
}

func mapUnwrapped(p Point, g Geometry) MousePos {
	cw, ch := max(g.CharWidth, 1), max(g.CharHeight, 1)

	col := g.StartRes + floorDiv(p.X, cw)
	col = clamp(col, g.StartRes, max(g.EndRes, g.StartRes))
	if g.Hidden.HasHidden() {
		col = g.Hidden.VisibleToAbsolute(col)
	}

	row := clamp(g.StartSeq+floorDiv(p.Y, ch), 0, max(g.Height-1, 0))
	return MousePos{Column: col, SeqIndex: row, AnnotationIndex: -1}
}

func mapWrapped(p Point, g Geometry) MousePos {
	cw, ch := max(g.CharWidth, 1), max(g.CharHeight, 1)
	wrap := g.EffectiveWrapWidth()
	band := g.BandHeight()
	y := max(p.Y, 0)

	pos := MousePos{Column: -1, AnnotationIndex: -1}
	pos.Block = y/band + g.StartRes/wrap

	if x := p.X - g.LabelWest; x >= 0 && x/cw < wrap {
		vis := pos.Block*wrap + x/cw
		vis = clamp(vis, 0, max(g.Hidden.VisibleWidth(g.Width)-1, 0))
		if g.Hidden.HasHidden() {
			vis = g.Hidden.VisibleToAbsolute(vis)
		}
		pos.Column = vis
	}

	scaleH := g.ScaleRows * ch
	rowsH := g.Height * ch
	off := y % band
	switch {
	case off < scaleH:
		pos.SeqIndex = 0
	case off < scaleH+rowsH:
		pos.SeqIndex = clamp((off-scaleH)/ch, 0, max(g.Height-1, 0))
	default:
		pos.SeqIndex = max(g.Height-1, 0)
		pos.AnnotationIndex = annotationAt(off-scaleH-rowsH, g.AnnotationHeights)
	}
	return pos
}

// annotationAt returns the first row whose cumulative height exceeds off.
func annotationAt(off int, heights []int) int {
	cum := 0
	for i, h := range heights {
		cum += h
		if cum > off {
			return i
		}
	}
	return max(len(heights)-1, 0)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
