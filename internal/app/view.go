package app

import (
	"sync/atomic"

	"github.com/dshills/alnstorm/internal/config"
	"github.com/dshills/alnstorm/internal/engine/alignment"
	"github.com/dshills/alnstorm/internal/input/cursor"
	"github.com/dshills/alnstorm/internal/input/mouse"
	"github.com/dshills/alnstorm/internal/notify"
	"github.com/dshills/alnstorm/internal/renderer/viewport"
)

// View is the terminal rendering of one alignment. The alignment area sits
// right of a name column of LabelWidth cells and above the status line.
type View struct {
	id string
	al *alignment.Alignment
	vp *viewport.Viewport

	mouse  *mouse.Handler
	cursor *cursor.Controller
	tr     mouse.Translator

	labelWidth int
	changes    atomic.Int64
}

func newView(id string, al *alignment.Alignment, vc config.ViewConfig) *View {
	v := &View{
		id: id,
		al: al,
		vp: viewport.New(1, 1, vc.CharWidth, vc.CharHeight),
	}
	v.vp.SyncAlignment(al)
	v.applyConfig(vc)
	return v
}

// ID implements views.View.
func (v *View) ID() string { return v.id }

// Alignment implements views.View.
func (v *View) Alignment() *alignment.Alignment { return v.al }

// AlignmentChanged implements views.View.
func (v *View) AlignmentChanged(notify.Change) {
	v.vp.SyncAlignment(v.al)
	v.changes.Add(1)
}

// Changes returns the number of change notifications received.
func (v *View) Changes() int64 {
	return v.changes.Load()
}

// Viewport returns the view's scroll and layout state.
func (v *View) Viewport() *viewport.Viewport {
	return v.vp
}

// Cursor returns the keyboard cursor.
func (v *View) Cursor() *cursor.Controller {
	return v.cursor
}

// applyConfig updates the layout from the view settings.
func (v *View) applyConfig(vc config.ViewConfig) {
	v.labelWidth = vc.LabelWidth
	v.vp.SetCharSize(vc.CharWidth, vc.CharHeight)
	v.vp.SetWrapped(vc.Wrap, vc.WrapWidth)
	v.vp.SetScaleRows(vc.ScaleRows)
	v.vp.SetAnnotations(vc.ShowAnnotations, nil)
	v.layout()
}

// resize fits the canvas to a terminal of w by h cells.
func (v *View) resize(w, h int) {
	rows := max(h-1, 1)
	if v.vp.Wrapped() {
		v.vp.SetLabelWidths(v.labelWidth, 0)
		v.vp.Resize(w, rows)
	} else {
		v.vp.SetLabelWidths(0, 0)
		v.vp.Resize(w-v.labelWidth, rows)
	}
	v.layout()
}

// layout places the mouse translator origin on the first alignment cell.
func (v *View) layout() {
	if v.vp.Wrapped() {
		v.tr.OriginX = 0
	} else {
		v.tr.OriginX = v.labelWidth
	}
	v.tr.OriginY = 0
}
