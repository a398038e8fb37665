package gapedit

import (
	"fmt"

	"github.com/dshills/alnstorm/internal/engine/alignment"
	"github.com/dshills/alnstorm/internal/engine/history"
	"github.com/dshills/alnstorm/internal/logging"
)

// Command labels given to finished gestures.
const (
	LabelInsert = "Insert Gap"
	LabelDelete = "Delete Gap"
	LabelEdit   = "Edit Sequence"
)

// Editor performs gap edits on one alignment.
// It is not safe for concurrent use.
type Editor struct {
	al  *alignment.Alignment
	log *logging.Logger

	cmd       *history.Command
	lastSeq   *alignment.Sequence
	lastGroup bool
}

// New creates an editor for al.
func New(al *alignment.Alignment, log *logging.Logger) *Editor {
	return &Editor{
		al:  al,
		log: logging.OrNull(log).WithComponent("gapedit"),
	}
}

// Alignment returns the edited alignment.
func (e *Editor) Alignment() *alignment.Alignment {
	return e.al
}

// lock is the column range an edit must stay balanced within.
// A negative right edge means no right lock.
type lock struct {
	locked bool
	left   int
	right  int
	group  *alignment.SequenceGroup
}

// request is one resolved edit.
type request struct {
	insert  bool
	seq     *alignment.Sequence
	from    int
	to      int
	col     int
	n       int
	targets []*alignment.Sequence
	scope   *alignment.SequenceGroup
}

// Edit inserts or deletes gap columns for seq. fromCol is the anchor
// column and toCol the column the pointer moved to: an insert moves right
// and inserts toCol-fromCol gaps at fromCol, a delete moves left and
// removes fromCol-toCol gaps at toCol. With group set, the whole selection
// is edited when it contains seq.
//
// Accepted edits are applied and appended to the open command, which is
// created when absent. Returns false when the edit is rejected; the
// alignment is then left untouched.
func (e *Editor) Edit(insert, group bool, seq *alignment.Sequence, fromCol, toCol int) bool {
	r, ok := e.resolve(insert, group, seq, fromCol, toCol)
	if !ok {
		return false
	}
	lk, ok := e.lockFor(&r)
	if !ok {
		return false
	}

	e.lastSeq = seq
	e.lastGroup = r.scope != nil

	var edits []*history.Edit
	if insert {
		edits, ok = e.planInsert(r, lk)
	} else {
		edits, ok = e.planDelete(r, lk)
	}
	if !ok {
		return false
	}

	if e.cmd == nil {
		e.cmd = history.NewCommand(LabelEdit, e.al)
	}
	for _, ed := range edits {
		e.cmd.Append(ed)
	}
	return true
}

// InsertGaps inserts n gap columns at col.
func (e *Editor) InsertGaps(group bool, seq *alignment.Sequence, col, n int) bool {
	return e.Edit(true, group, seq, col, col+n)
}

// DeleteGaps deletes n gap columns at col.
func (e *Editor) DeleteGaps(group bool, seq *alignment.Sequence, col, n int) bool {
	return e.Edit(false, group, seq, col+n, col)
}

func (e *Editor) resolve(insert, group bool, seq *alignment.Sequence, from, to int) (request, bool) {
	r := request{insert: insert, seq: seq, from: from, to: to}
	switch {
	case seq == nil || from < 0 || to < 0:
		return r, e.reject("no sequence or negative column")
	case insert && to > from:
		r.col, r.n = from, to-from
	case !insert && from > to:
		r.col, r.n = to, from-to
	default:
		return r, false
	}
	if r.col > e.al.Width() {
		return r, e.reject("column %d past alignment end", r.col)
	}

	sel := e.al.Selection()
	switch {
	case group && sel.Contains(seq):
		r.scope = sel
		r.targets = e.al.ExpandRepresented(sel.Sequences())
	case e.al.IsRepresentative(seq):
		r.scope = e.al.RepresentedGroup(seq)
		r.targets = r.scope.Sequences()
	default:
		r.targets = []*alignment.Sequence{seq}
	}
	return r, true
}

// lockFor resolves the lock of r, rejecting requests that cross an edge.
func (e *Editor) lockFor(r *request) (lock, bool) {
	lk := lock{left: 0, right: -1}

	lk.group = r.scope
	if sel := e.al.Selection(); lk.group == nil && sel.Contains(r.seq) {
		lk.group = sel
	}

	if g := lk.group; g != nil {
		lk.locked = true
		lk.left, lk.right = g.StartRes(), g.EndRes()
		if straddles(r.from, r.to, lk.left) || straddles(r.from, r.to, lk.right+1) {
			return lk, e.reject("edit crosses group edge [%d,%d]", lk.left, lk.right)
		}
		switch {
		case r.col < lk.left:
			lk.right = lk.left - 1
			lk.left = 0
		case r.col > lk.right:
			lk.left = lk.right
			lk.right = -1
		}
	}

	hc := e.al.HiddenColumns()
	if hc.HasHidden() {
		if !hc.IsVisible(r.col) {
			return lk, e.reject("column %d is hidden", r.col)
		}
		before := hc.BoundaryBefore(r.col)
		after := hc.BoundaryAfter(r.col)
		if (after >= 0 && straddles(r.from, r.to, after)) ||
			(before >= 0 && straddles(r.from, r.to, before+1)) {
			return lk, e.reject("edit crosses hidden columns")
		}
		if after >= 0 {
			lk.locked = true
			if lk.right < 0 || lk.right > after-1 {
				lk.right = after - 1
			}
		}
		if before >= 0 {
			lk.locked = true
			lk.left = max(lk.left, before+1)
		}
	}
	return lk, true
}

func (e *Editor) planInsert(r request, lk lock) ([]*history.Edit, bool) {
	gap := e.al.GapChar()
	insert := history.NewGapEdit(history.InsertGap, r.targets, r.col, r.n, gap)

	if !lk.locked || lk.right < 0 {
		return []*history.Edit{insert}, true
	}

	if g := r.scope; g != nil && g == lk.group && e.al.SpansAll(g) &&
		g.StartRes() == 0 && g.EndRes() == e.al.Width()-1 &&
		lk.right == g.EndRes() {
		g.SetBounds(g.StartRes(), g.EndRes()+r.n)
		return []*history.Edit{insert}, true
	}

	if ws, ok := blankWindow(r.targets, r.col, lk.right, r.n); ok {
		balance := history.NewGapEdit(history.DeleteGap, r.targets, ws, r.n, gap)
		balance.SystemGenerated = true
		return []*history.Edit{balance, insert}, true
	}

	if g := r.scope; g != nil && g == lk.group && e.al.SpansAll(g) {
		if e.al.HiddenColumns().BoundaryAfter(r.col) >= 0 {
			return nil, e.reject("cannot widen group past hidden columns")
		}
		g.SetBounds(g.StartRes(), g.EndRes()+r.n)
		return []*history.Edit{insert}, true
	}
	return nil, e.reject("no blank %d column window in [%d,%d]", r.n, r.col, lk.right)
}

func (e *Editor) planDelete(r request, lk lock) ([]*history.Edit, bool) {
	gap := e.al.GapChar()
	n := r.n

	// Group and locked deletes are all or nothing so that every target
	// loses the same columns and a balancing insert restores its length.
	if lk.locked || r.scope != nil {
		if r.col+n > e.al.Width() {
			return nil, e.reject("delete [%d,%d) past alignment end %d", r.col, r.col+n, e.al.Width())
		}
		for _, s := range r.targets {
			if r.col+n > s.Len() || !s.AllGaps(r.col, r.col+n) {
				return nil, e.reject("residue in %s within [%d,%d)", s.Name, r.col, r.col+n)
			}
		}
	} else {
		n = min(r.seq.GapRun(r.col, r.col+n), r.seq.Len()-r.col)
		if n <= 0 {
			return nil, e.reject("no gap at %d in %s", r.col, r.seq.Name)
		}
	}

	del := history.NewGapEdit(history.DeleteGap, r.targets, r.col, n, gap)
	if !lk.locked || lk.right < 0 {
		return []*history.Edit{del}, true
	}

	right := min(lk.right, e.al.Width()-1)
	balance := history.NewGapEdit(history.InsertGap, r.targets, right-n+1, n, gap)
	balance.SystemGenerated = true
	return []*history.Edit{del, balance}, true
}

// blankWindow finds the rightmost n-column window inside [col, right] that
// ends right of col and in which every target holds only gaps. It returns
// the first column of the window.
func blankWindow(targets []*alignment.Sequence, col, right, n int) (int, bool) {
	for end := right; end > col && end-n+1 >= col; end-- {
		ws := end - n + 1
		blank := true
		for _, s := range targets {
			if !s.AllGaps(ws, end+1) {
				blank = false
				break
			}
		}
		if blank {
			return ws, true
		}
	}
	return 0, false
}

// straddles reports whether a and b lie on different sides of edge.
func straddles(a, b, edge int) bool {
	return (a < edge) != (b < edge)
}

func (e *Editor) reject(format string, args ...any) bool {
	e.log.Debug("edit rejected: "+format, args...)
	return false
}

// InProgress reports whether a command is open.
func (e *Editor) InProgress() bool {
	return e.cmd != nil
}

// NetGaps returns the signed gap count of the open command, excluding
// system generated balancing edits.
func (e *Editor) NetGaps() int {
	if e.cmd == nil {
		return 0
	}
	return e.cmd.NetGaps()
}

// Summary describes the open command for a status line, for example
// "Edit sequence: seq1 insert 2 gaps". It is empty when the net change is
// zero.
func (e *Editor) Summary() string {
	net := e.NetGaps()
	if net == 0 {
		return ""
	}
	verb := "insert"
	if net < 0 {
		verb, net = "delete", -net
	}
	noun := "gaps"
	if net == 1 {
		noun = "gap"
	}
	if e.lastGroup {
		return fmt.Sprintf("Edit group: %s %d %s", verb, net, noun)
	}
	name := ""
	if e.lastSeq != nil {
		name = e.lastSeq.Name
	}
	return fmt.Sprintf("Edit sequence: %s %s %d %s", name, verb, net, noun)
}

// Finish closes the open command, labels it by its net change and returns
// it. Returns nil when no edit was accepted since the last Finish.
func (e *Editor) Finish() *history.Command {
	cmd := e.cmd
	e.cmd = nil
	e.lastSeq = nil
	e.lastGroup = false
	if cmd == nil {
		return nil
	}
	switch net := cmd.NetGaps(); {
	case net > 0:
		cmd.SetDescription(LabelInsert)
	case net < 0:
		cmd.SetDescription(LabelDelete)
	default:
		cmd.SetDescription(LabelEdit)
	}
	return cmd
}

// Abort drops the open command. Edits already applied stay applied.
func (e *Editor) Abort() {
	e.cmd = nil
	e.lastSeq = nil
	e.lastGroup = false
}
