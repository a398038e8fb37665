// Package alignment holds the multiple sequence alignment model edited by
// the engine: ordered gapped sequences, sequence groups, the current
// selection, hidden columns and hidden-row representatives.
//
// The model is not safe for concurrent use. All mutation happens on the
// single edit path; views observe it through change notifications.
package alignment

import (
	"errors"
	"slices"

	"github.com/google/uuid"

	"github.com/dshills/alnstorm/internal/engine/hidden"
)

// Errors returned by alignment operations.
var (
	// ErrOutOfRange indicates a row or column outside the alignment.
	ErrOutOfRange = errors.New("position out of range")

	// ErrNotMember indicates a sequence that is not part of the alignment.
	ErrNotMember = errors.New("sequence not in alignment")
)

// Alignment is an ordered collection of sequences plus the groups and
// visibility state defined over them.
type Alignment struct {
	id        string
	seqs      []*Sequence
	groups    []*SequenceGroup
	selection *SequenceGroup
	columns   *hidden.Columns
	gap       byte

	// representative -> sequences hidden behind it (representative excluded)
	represented map[*Sequence][]*Sequence
}

// New creates an alignment with a fresh identity.
func New(seqs ...*Sequence) *Alignment {
	return &Alignment{
		id:          uuid.NewString(),
		seqs:        slices.Clone(seqs),
		columns:     hidden.New(),
		gap:         DefaultGap,
		represented: make(map[*Sequence][]*Sequence),
	}
}

// FromStrings builds an alignment from name/residue pairs given in order.
func FromStrings(rows ...[2]string) *Alignment {
	seqs := make([]*Sequence, len(rows))
	for i, r := range rows {
		seqs[i] = NewSequence(r[0], r[1])
	}
	return New(seqs...)
}

// ID returns the alignment identity shared by all views of it.
func (a *Alignment) ID() string {
	return a.id
}

// GapChar returns the gap character used for inserted gaps.
func (a *Alignment) GapChar() byte {
	return a.gap
}

// SetGapChar changes the gap character used for inserted gaps.
func (a *Alignment) SetGapChar(c byte) {
	if IsGap(c) {
		a.gap = c
	}
}

// Height returns the number of visible sequence rows.
func (a *Alignment) Height() int {
	return len(a.seqs)
}

// Width returns the length of the longest sequence, hidden rows included.
func (a *Alignment) Width() int {
	w := 0
	for _, s := range a.seqs {
		w = max(w, s.Len())
	}
	for _, hiddenSeqs := range a.represented {
		for _, s := range hiddenSeqs {
			w = max(w, s.Len())
		}
	}
	return w
}

// SequenceAt returns the visible sequence at row i, or nil.
func (a *Alignment) SequenceAt(i int) *Sequence {
	if i < 0 || i >= len(a.seqs) {
		return nil
	}
	return a.seqs[i]
}

// IndexOf returns the visible row of seq, or -1.
func (a *Alignment) IndexOf(seq *Sequence) int {
	return slices.Index(a.seqs, seq)
}

// Sequences returns the visible sequences in display order.
func (a *Alignment) Sequences() []*Sequence {
	return slices.Clone(a.seqs)
}

// AllSequences returns visible sequences followed by hidden ones.
func (a *Alignment) AllSequences() []*Sequence {
	out := slices.Clone(a.seqs)
	for _, rep := range a.seqs {
		out = append(out, a.represented[rep]...)
	}
	return out
}

// FindByID returns the sequence with the given identity, searching hidden
// rows too.
func (a *Alignment) FindByID(id string) *Sequence {
	for _, s := range a.AllSequences() {
		if s.ID() == id {
			return s
		}
	}
	return nil
}

// HiddenColumns returns the hidden column set.
func (a *Alignment) HiddenColumns() *hidden.Columns {
	return a.columns
}

// Groups returns the defined sequence groups.
func (a *Alignment) Groups() []*SequenceGroup {
	return slices.Clone(a.groups)
}

// AddGroup adds g to the alignment's groups.
func (a *Alignment) AddGroup(g *SequenceGroup) {
	if g != nil && !slices.Contains(a.groups, g) {
		a.groups = append(a.groups, g)
	}
}

// RemoveGroup removes g. If g is the current selection the selection is
// cleared as well.
func (a *Alignment) RemoveGroup(g *SequenceGroup) {
	a.groups = slices.DeleteFunc(a.groups, func(x *SequenceGroup) bool { return x == g })
	if a.selection == g {
		a.selection = nil
	}
}

// GroupAt returns the first defined group containing the cell (seq, col).
func (a *Alignment) GroupAt(seq *Sequence, col int) *SequenceGroup {
	for _, g := range a.groups {
		if g.ContainsCell(seq, col) {
			return g
		}
	}
	return nil
}

// Selection returns the active selection group, or nil.
func (a *Alignment) Selection() *SequenceGroup {
	return a.selection
}

// SetSelection makes g the active selection. Pass nil to clear it.
func (a *Alignment) SetSelection(g *SequenceGroup) {
	a.selection = g
}

// SpansAll reports whether every sequence of the alignment, hidden rows
// included, is a member of g.
func (a *Alignment) SpansAll(g *SequenceGroup) bool {
	if g == nil {
		return false
	}
	all := a.AllSequences()
	if len(all) == 0 {
		return false
	}
	for _, s := range all {
		if !g.Contains(s) {
			return false
		}
	}
	return true
}

// HideRepresented hides members behind the representative rep.
// rep stays visible; the other members are removed from the visible rows.
func (a *Alignment) HideRepresented(rep *Sequence, members []*Sequence) error {
	if a.IndexOf(rep) < 0 {
		return ErrNotMember
	}
	for _, m := range members {
		if m != rep && a.IndexOf(m) < 0 {
			return ErrNotMember
		}
	}
	for _, m := range members {
		if m == rep {
			continue
		}
		a.seqs = slices.DeleteFunc(a.seqs, func(s *Sequence) bool { return s == m })
		if !slices.Contains(a.represented[rep], m) {
			a.represented[rep] = append(a.represented[rep], m)
		}
	}
	return nil
}

// ShowRepresented reveals the sequences hidden behind rep, directly below it.
func (a *Alignment) ShowRepresented(rep *Sequence) {
	hiddenSeqs, ok := a.represented[rep]
	if !ok {
		return
	}
	delete(a.represented, rep)
	idx := a.IndexOf(rep)
	if idx < 0 {
		a.seqs = append(a.seqs, hiddenSeqs...)
		return
	}
	a.seqs = slices.Insert(a.seqs, idx+1, hiddenSeqs...)
}

// HasHiddenRows reports whether any sequence is hidden behind a representative.
func (a *Alignment) HasHiddenRows() bool {
	return len(a.represented) > 0
}

// IsRepresentative reports whether seq represents hidden sequences.
func (a *Alignment) IsRepresentative(seq *Sequence) bool {
	_, ok := a.represented[seq]
	return ok
}

// RepresentedGroup returns a group made of rep and the sequences it hides,
// spanning the full alignment width. Returns nil if seq is not a representative.
func (a *Alignment) RepresentedGroup(rep *Sequence) *SequenceGroup {
	hiddenSeqs, ok := a.represented[rep]
	if !ok {
		return nil
	}
	members := append([]*Sequence{rep}, hiddenSeqs...)
	return NewGroup(rep.Name, 0, max(a.Width()-1, 0), members...)
}

// ExpandRepresented returns members with the hidden sequences of any
// representative among them appended.
func (a *Alignment) ExpandRepresented(members []*Sequence) []*Sequence {
	out := slices.Clone(members)
	for _, m := range members {
		for _, h := range a.represented[m] {
			if !slices.Contains(out, h) {
				out = append(out, h)
			}
		}
	}
	return out
}

// Clone returns a deep copy with the same identity. Sequences keep their
// identities; groups and the selection are remapped onto the copies.
func (a *Alignment) Clone() *Alignment {
	mapping := make(map[*Sequence]*Sequence)
	cp := func(s *Sequence) *Sequence {
		if c, ok := mapping[s]; ok {
			return c
		}
		c := s.Clone()
		mapping[s] = c
		return c
	}

	out := &Alignment{
		id:          a.id,
		columns:     a.columns.Clone(),
		gap:         a.gap,
		represented: make(map[*Sequence][]*Sequence),
	}
	for _, s := range a.seqs {
		out.seqs = append(out.seqs, cp(s))
	}
	for rep, hiddenSeqs := range a.represented {
		for _, h := range hiddenSeqs {
			out.represented[cp(rep)] = append(out.represented[cp(rep)], cp(h))
		}
	}
	remap := func(g *SequenceGroup) *SequenceGroup {
		st := g.State()
		for i, m := range st.Members {
			st.Members[i] = cp(m)
		}
		ng := &SequenceGroup{Name: g.Name}
		ng.Commit(st)
		return ng
	}
	groups := make(map[*SequenceGroup]*SequenceGroup)
	for _, g := range a.groups {
		ng := remap(g)
		groups[g] = ng
		out.groups = append(out.groups, ng)
	}
	if a.selection != nil {
		if ng, ok := groups[a.selection]; ok {
			out.selection = ng
		} else {
			out.selection = remap(a.selection)
		}
	}
	return out
}
