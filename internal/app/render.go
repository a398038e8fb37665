package app

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/alnstorm/internal/engine/alignment"
	"github.com/dshills/alnstorm/internal/renderer/viewport"
)

var (
	styleDefault   = tcell.StyleDefault
	styleLabel     = tcell.StyleDefault.Bold(true)
	styleGap       = tcell.StyleDefault.Dim(true)
	styleSelected  = tcell.StyleDefault.Reverse(true)
	styleCursor    = tcell.StyleDefault.Reverse(true).Bold(true)
	styleScale     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatusBar = tcell.StyleDefault.Reverse(true)
)

// draw renders the view and the status line.
func (a *Application) draw() {
	s := a.screen
	if s == nil {
		return
	}
	s.Clear()
	w, h := s.Size()

	g := a.view.vp.Geometry()
	if g.Wrapped {
		a.drawWrapped(s, g)
	} else {
		a.drawUnwrapped(s, g)
	}
	a.drawStatus(s, w, h-1)
	s.Show()
}

// cellStyle returns the style of the cell of seq at absolute column col.
func (a *Application) cellStyle(seq *alignment.Sequence, row, col int, c byte) tcell.Style {
	if r, cc := a.view.cursor.Position(); r == row && cc == col {
		return styleCursor
	}
	if sel := a.view.al.Selection(); sel != nil && sel.ContainsCell(seq, col) {
		return styleSelected
	}
	if alignment.IsGap(c) {
		return styleGap
	}
	return styleDefault
}

func (a *Application) drawUnwrapped(s tcell.Screen, g viewport.Geometry) {
	al := a.view.al
	lw := a.view.labelWidth
	cw, ch := max(g.CharWidth, 1), max(g.CharHeight, 1)
	end := min(g.StartSeq+g.CanvasHeight/ch, g.Height)

	for row := g.StartSeq; row < end; row++ {
		seq := al.SequenceAt(row)
		y := (row - g.StartSeq) * ch
		drawText(s, 0, y, lw-1, seq.Name, styleLabel)

		for vis := g.StartRes; vis <= g.EndRes; vis++ {
			col := g.Hidden.VisibleToAbsolute(vis)
			if col >= g.Width {
				break
			}
			c := seq.CharAt(col)
			x := lw + (vis-g.StartRes)*cw
			s.SetContent(x, y, rune(c), nil, a.cellStyle(seq, row, col, c))
		}
	}
}

// drawWrapped renders bands of EffectiveWrapWidth columns. Each band has
// its scale rows, one row per sequence, then the annotation rows.
func (a *Application) drawWrapped(s tcell.Screen, g viewport.Geometry) {
	al := a.view.al
	cw, ch := max(g.CharWidth, 1), max(g.CharHeight, 1)
	wrap := g.EffectiveWrapWidth()
	band := g.BandHeight()
	visWidth := g.Hidden.VisibleWidth(g.Width)

	for y0, block := 0, g.StartRes/wrap; y0+band <= g.CanvasHeight || y0 == 0; y0, block = y0+band, block+1 {
		first := block * wrap
		if first >= visWidth {
			break
		}
		if g.ScaleRows > 0 {
			a.drawScale(s, g, first, min(first+wrap, visWidth), y0+(g.ScaleRows-1)*ch)
		}
		for row := 0; row < g.Height; row++ {
			seq := al.SequenceAt(row)
			y := y0 + (g.ScaleRows+row)*ch
			drawText(s, 0, y, g.LabelWest-1, seq.Name, styleLabel)
			for i := 0; i < wrap && first+i < visWidth; i++ {
				col := g.Hidden.VisibleToAbsolute(first + i)
				c := seq.CharAt(col)
				s.SetContent(g.LabelWest+i*cw, y, rune(c), nil, a.cellStyle(seq, row, col, c))
			}
		}
	}
}

// drawScale marks every tenth absolute column of visible columns
// [from, to) with its 1-based number.
func (a *Application) drawScale(s tcell.Screen, g viewport.Geometry, from, to, y int) {
	cw := max(g.CharWidth, 1)
	for vis := from; vis < to; vis++ {
		col := g.Hidden.VisibleToAbsolute(vis)
		if (col+1)%10 != 0 {
			continue
		}
		label := strconv.Itoa(col + 1)
		x := g.LabelWest + (vis-from)*cw - len(label) + 1
		drawText(s, max(x, g.LabelWest), y, len(label), label, styleScale)
	}
}

func (a *Application) drawStatus(s tcell.Screen, w, y int) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, styleStatusBar)
	}
	row, col := a.view.cursor.Position()
	pos := fmt.Sprintf(" %d,%d ", row+1, col+1)
	drawText(s, 0, y, w-len(pos), " "+a.status, styleStatusBar)
	drawText(s, max(w-len(pos), 0), y, len(pos), pos, styleStatusBar)
}

// drawText writes at most width cells of text starting at x.
func drawText(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		if i >= width {
			return
		}
		s.SetContent(x+i, y, r, nil, style)
	}
}
