// Package selection grows and shrinks the rectangular selection group while
// the pointer is dragged.
package selection

import (
	"slices"

	"github.com/dshills/alnstorm/internal/engine/alignment"
	"github.com/dshills/alnstorm/internal/renderer/viewport"
)

// Window reports the first visible column of the view being dragged in.
type Window interface {
	StartRes() int
}

// Stretcher drives one selection drag: Begin on press, Update on every
// pointer move and End on release.
type Stretcher struct {
	al     *alignment.Alignment
	window Window

	group       *alignment.SequenceGroup
	changeStart bool
	changeEnd   bool
	oldSeq      int
	block       int
	before      []*alignment.Sequence
	active      bool
}

// NewStretcher creates a stretcher for al. window may be nil.
func NewStretcher(al *alignment.Alignment, window Window) *Stretcher {
	return &Stretcher{al: al, window: window}
}

// Active reports whether a drag is in progress.
func (s *Stretcher) Active() bool {
	return s.active
}

// Group returns the group being stretched.
func (s *Stretcher) Group() *alignment.SequenceGroup {
	return s.group
}

// Begin starts a drag at pos. The selection is reused when it contains the
// cell, otherwise a defined group containing it becomes the selection, and
// failing that a new one-cell group is created. Returns false when pos is
// not over a sequence cell.
func (s *Stretcher) Begin(pos viewport.MousePos) bool {
	if !pos.HasColumn() || pos.InAnnotation() {
		return false
	}
	seq := s.al.SequenceAt(pos.SeqIndex)
	if seq == nil {
		return false
	}
	col := pos.Column

	g := s.al.Selection()
	if !g.ContainsCell(seq, col) {
		g = s.al.GroupAt(seq, col)
		if g == nil {
			g = alignment.NewGroup("", col, col, seq)
		}
		s.al.SetSelection(g)
	}

	s.group = g
	s.changeEnd = col == g.EndRes()
	s.changeStart = !s.changeEnd && col == g.StartRes()
	s.oldSeq = pos.SeqIndex
	s.block = pos.Block
	s.before = g.Sequences()
	s.active = true
	return true
}

// Update stretches the group towards pos. Positions over a gutter, over an
// annotation row or in a different wrapped block than the drag started
// in are ignored. Returns true if the group changed.
func (s *Stretcher) Update(pos viewport.MousePos) bool {
	if !s.active || !pos.HasColumn() || pos.InAnnotation() || pos.Block != s.block {
		return false
	}

	st := s.group.State()
	before := s.group.State()

	res := min(pos.Column, s.al.Width()-1)
	res = max(res, s.scrollStart())
	switch {
	case s.changeEnd && res >= st.StartRes:
		st.EndRes = res
	case s.changeStart && res <= st.EndRes:
		st.StartRes = res
	}

	s.walkRows(&st, min(max(pos.SeqIndex, 0), s.al.Height()-1))

	if sameState(before, st) {
		return false
	}
	s.group.Commit(st)
	return true
}

// walkRows moves one row at a time from the previous row to y. Passing
// over a member row in the shrink direction removes it; otherwise rows are
// added.
func (s *Stretcher) walkRows(st *alignment.GroupState, y int) {
	dir := 1
	if y < s.oldSeq {
		dir = -1
	}
	for y != s.oldSeq && s.oldSeq >= 0 {
		cur := s.al.SequenceAt(s.oldSeq)
		s.oldSeq += dir
		next := s.al.SequenceAt(s.oldSeq)
		if next == nil {
			break
		}
		if st.Contains(next) {
			st.Remove(cur)
		} else {
			st.Add(cur)
			st.Add(next)
		}
	}
}

// End finishes the drag and reports whether group membership changed.
func (s *Stretcher) End() bool {
	if !s.active {
		return false
	}
	s.active = false
	after := s.group.Sequences()
	if len(after) != len(s.before) {
		return true
	}
	for _, seq := range after {
		if !slices.Contains(s.before, seq) {
			return true
		}
	}
	return false
}

func (s *Stretcher) scrollStart() int {
	if s.window == nil {
		return 0
	}
	return s.al.HiddenColumns().VisibleToAbsolute(s.window.StartRes())
}

func sameState(a, b alignment.GroupState) bool {
	return a.StartRes == b.StartRes && a.EndRes == b.EndRes && slices.Equal(a.Members, b.Members)
}
