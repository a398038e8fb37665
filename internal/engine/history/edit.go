package history

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dshills/alnstorm/internal/engine/alignment"
)

// ErrNotGap is returned by Validate when a gap deletion would remove a residue.
var ErrNotGap = errors.New("deletion range contains residues")

// Action is the kind of a primitive edit.
type Action int

const (
	// InsertGap inserts Count gap characters at Position.
	InsertGap Action = iota
	// DeleteGap removes Count gap characters at Position.
	DeleteGap
	// InsertResidue inserts per-target text at Position.
	InsertResidue
	// Cut removes Count characters at Position.
	Cut
	// Replace overwrites characters from Position with per-target text.
	Replace
)

var actionNames = [...]string{
	InsertGap:     "Insert Gap",
	DeleteGap:     "Delete Gap",
	InsertResidue: "Insert Residue",
	Cut:           "Cut",
	Replace:       "Replace",
}

// String returns the display name of the action.
func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// inverse maps each action to the action that undoes it.
var inverse = map[Action]Action{
	InsertGap:     DeleteGap,
	DeleteGap:     InsertGap,
	InsertResidue: Cut,
	Cut:           InsertResidue,
	Replace:       Replace,
}

// Inverse returns the action that undoes a.
func (a Action) Inverse() Action {
	return inverse[a]
}

func (a Action) inserts() bool { return a == InsertGap || a == InsertResidue }
func (a Action) deletes() bool { return a == DeleteGap || a == Cut }

// Edit is a primitive change applied to the same position of every target
// sequence. Apply records what it changed so that Invert can build an
// exact inverse.
type Edit struct {
	Action          Action
	Targets         []*alignment.Sequence
	Position        int
	Count           int
	SystemGenerated bool

	// Gap is the gap character inserted and used for padding.
	Gap byte

	// Text holds per-target characters for InsertResidue and Replace and
	// for inserts produced by Invert. A nil Text inserts Count gaps.
	// A single entry is used for every target.
	Text [][]byte

	widths []int // per-target delete widths, nil means Count
	trim   []int // per-target length to truncate to after applying

	// recorded by Apply
	prior    [][]byte
	lens     []int
	inserted []int
}

// NewGapEdit creates an InsertGap or DeleteGap edit.
func NewGapEdit(action Action, targets []*alignment.Sequence, pos, count int, gap byte) *Edit {
	return &Edit{
		Action:   action,
		Targets:  targets,
		Position: pos,
		Count:    count,
		Gap:      gap,
	}
}

// GapDelta returns the signed number of gap columns the edit adds.
func (e *Edit) GapDelta() int {
	switch e.Action {
	case InsertGap:
		return e.Count
	case DeleteGap:
		return -e.Count
	default:
		return 0
	}
}

func (e *Edit) textFor(i int) ([]byte, bool) {
	switch {
	case e.Text == nil:
		return nil, false
	case len(e.Text) == 1:
		return e.Text[0], true
	case i < len(e.Text):
		return e.Text[i], true
	default:
		return nil, true
	}
}

func (e *Edit) widthFor(i int) int {
	if e.widths != nil && i < len(e.widths) {
		return e.widths[i]
	}
	return e.Count
}

func (e *Edit) gap() byte {
	if alignment.IsGap(e.Gap) {
		return e.Gap
	}
	return alignment.DefaultGap
}

// Validate reports whether the edit can be applied to its current targets
// without removing residues.
func (e *Edit) Validate() error {
	if e.Action != DeleteGap {
		return nil
	}
	for i, s := range e.Targets {
		w := e.widthFor(i)
		if !s.AllGaps(e.Position, e.Position+w) {
			return fmt.Errorf("%s at %d in %s: %w", e.Action, e.Position, s.Name, ErrNotGap)
		}
	}
	return nil
}

// Apply mutates the targets.
func (e *Edit) Apply() {
	n := len(e.Targets)
	e.prior = make([][]byte, n)
	e.lens = make([]int, n)
	e.inserted = make([]int, n)
	gap := e.gap()

	for i, s := range e.Targets {
		e.lens[i] = s.Len()
		switch {
		case e.Action.inserts():
			chars, ok := e.textFor(i)
			if !ok {
				chars = bytes.Repeat([]byte{gap}, e.Count)
			}
			if len(chars) == 0 {
				continue
			}
			s.InsertAt(e.Position, chars, gap)
			e.inserted[i] = len(chars)
		case e.Action.deletes():
			e.prior[i] = s.DeleteRange(e.Position, e.widthFor(i))
		case e.Action == Replace:
			if e.Position < s.Len() {
				e.prior[i] = s.Residues()[e.Position:]
			}
			if chars, _ := e.textFor(i); len(chars) > 0 {
				s.ReplaceRange(e.Position, chars, gap)
			}
		}
		if e.trim != nil && i < len(e.trim) {
			s.Truncate(e.trim[i])
		}
	}
}

// Invert returns an edit that undoes the applied edit e.
func (e *Edit) Invert() *Edit {
	inv := &Edit{
		Action:          e.Action.Inverse(),
		Targets:         e.Targets,
		Position:        e.Position,
		Count:           e.Count,
		SystemGenerated: e.SystemGenerated,
		Gap:             e.Gap,
	}
	switch {
	case e.Action.inserts():
		inv.widths = cloneInts(e.inserted)
		inv.trim = cloneInts(e.lens)
	case e.Action.deletes():
		inv.Text = cloneText(e.prior)
		if inv.Text == nil {
			inv.Text = make([][]byte, len(e.Targets))
		}
	case e.Action == Replace:
		inv.Text = cloneText(e.prior)
		if inv.Text == nil {
			inv.Text = make([][]byte, len(e.Targets))
		}
		inv.trim = cloneInts(e.lens)
	}
	return inv
}

// Retarget returns a copy of e whose targets are the sequences of al with
// the same identities. It fails if any target is missing from al.
func (e *Edit) Retarget(al *alignment.Alignment) (*Edit, error) {
	targets := make([]*alignment.Sequence, len(e.Targets))
	for i, s := range e.Targets {
		t := al.FindByID(s.ID())
		if t == nil {
			return nil, fmt.Errorf("sequence %s: %w", s.Name, ErrReconcile)
		}
		targets[i] = t
	}
	out := *e
	out.Targets = targets
	out.Text = cloneText(e.Text)
	out.widths = cloneInts(e.widths)
	out.trim = cloneInts(e.trim)
	out.prior = cloneText(e.prior)
	out.lens = cloneInts(e.lens)
	out.inserted = cloneInts(e.inserted)
	return &out, nil
}

// String describes the edit for logs.
func (e *Edit) String() string {
	s := fmt.Sprintf("%s pos=%d n=%d targets=%d", e.Action, e.Position, e.Count, len(e.Targets))
	if e.SystemGenerated {
		s += " system"
	}
	return s
}

func cloneInts(v []int) []int {
	if v == nil {
		return nil
	}
	return append([]int(nil), v...)
}

func cloneText(v [][]byte) [][]byte {
	if v == nil {
		return nil
	}
	out := make([][]byte, len(v))
	for i, b := range v {
		out[i] = bytes.Clone(b)
	}
	return out
}
