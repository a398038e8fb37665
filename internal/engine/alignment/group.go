package alignment

import "slices"

// GroupState is a value snapshot of a group's bounds and membership.
// Changes are made on a snapshot and applied with SequenceGroup.Commit so
// that a group is never observed half-updated.
type GroupState struct {
	StartRes int
	EndRes   int
	Members  []*Sequence
}

// Contains reports whether seq is a member.
func (st GroupState) Contains(seq *Sequence) bool {
	return seq != nil && slices.Contains(st.Members, seq)
}

// Add adds seq if it is not already a member.
func (st *GroupState) Add(seq *Sequence) {
	if seq != nil && !st.Contains(seq) {
		st.Members = append(st.Members, seq)
	}
}

// Remove removes seq from the members.
func (st *GroupState) Remove(seq *Sequence) {
	st.Members = slices.DeleteFunc(st.Members, func(s *Sequence) bool { return s == seq })
}

// SequenceGroup is a rectangular block of an alignment: an inclusive column
// range plus a set of member sequences. It references its members, it does
// not own them.
type SequenceGroup struct {
	Name  string
	state GroupState
}

// NewGroup creates a group over columns start..end.
func NewGroup(name string, start, end int, members ...*Sequence) *SequenceGroup {
	g := &SequenceGroup{Name: name}
	st := GroupState{StartRes: start, EndRes: end}
	for _, m := range members {
		st.Add(m)
	}
	g.Commit(st)
	return g
}

// StartRes returns the first column of the group.
func (g *SequenceGroup) StartRes() int {
	return g.state.StartRes
}

// EndRes returns the last column of the group.
func (g *SequenceGroup) EndRes() int {
	return g.state.EndRes
}

// Size returns the number of member sequences.
func (g *SequenceGroup) Size() int {
	return len(g.state.Members)
}

// Sequences returns the members in insertion order.
func (g *SequenceGroup) Sequences() []*Sequence {
	return slices.Clone(g.state.Members)
}

// Contains reports whether seq is a member.
func (g *SequenceGroup) Contains(seq *Sequence) bool {
	return g != nil && g.state.Contains(seq)
}

// ContainsCell reports whether the cell (seq, col) lies inside the group.
func (g *SequenceGroup) ContainsCell(seq *Sequence, col int) bool {
	return g.Contains(seq) && col >= g.state.StartRes && col <= g.state.EndRes
}

// State returns a snapshot that can be modified freely.
func (g *SequenceGroup) State() GroupState {
	return GroupState{
		StartRes: g.state.StartRes,
		EndRes:   g.state.EndRes,
		Members:  slices.Clone(g.state.Members),
	}
}

// Commit replaces the group's bounds and membership with st.
// Bounds are normalised so that StartRes <= EndRes.
func (g *SequenceGroup) Commit(st GroupState) {
	if st.StartRes > st.EndRes {
		st.StartRes, st.EndRes = st.EndRes, st.StartRes
	}
	st.Members = slices.Clone(st.Members)
	g.state = st
}

// SetBounds changes only the column range.
func (g *SequenceGroup) SetBounds(start, end int) {
	st := g.State()
	st.StartRes, st.EndRes = start, end
	g.Commit(st)
}
