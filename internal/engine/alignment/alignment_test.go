package alignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsGap(t *testing.T) {
	for _, c := range []byte{'-', '.', ' '} {
		assert.True(t, IsGap(c), "%q", c)
	}
	for _, c := range []byte{'A', 'c', '*', 'X'} {
		assert.False(t, IsGap(c), "%q", c)
	}
}

func TestSequenceInsertAndDelete(t *testing.T) {
	s := NewSequence("s1", "AC--GT")

	s.InsertGaps(2, 2, '-')
	assert.Equal(t, "AC----GT", s.String())

	removed := s.DeleteRange(2, 2)
	assert.Equal(t, []byte("--"), removed)
	assert.Equal(t, "AC--GT", s.String())
}

func TestSequenceInsertPastEndPads(t *testing.T) {
	s := NewSequence("s1", "AC")
	s.InsertAt(4, []byte("--"), '.')
	assert.Equal(t, "AC..--", s.String())
}

func TestSequenceDeleteRangeClips(t *testing.T) {
	s := NewSequence("s1", "ACGT")
	assert.Equal(t, []byte("GT"), s.DeleteRange(2, 10))
	assert.Equal(t, "AC", s.String())
	assert.Nil(t, s.DeleteRange(5, 1))
}

func TestSequenceReplaceRange(t *testing.T) {
	s := NewSequence("s1", "ACGT")
	old := s.ReplaceRange(2, []byte("TTAA"), '-')
	assert.Equal(t, []byte("GT"), old)
	assert.Equal(t, "ACTTAA", s.String())
}

func TestSequenceCharAtPastEnd(t *testing.T) {
	s := NewSequence("s1", "AC")
	assert.Equal(t, byte('C'), s.CharAt(1))
	assert.Equal(t, GapSpace, s.CharAt(2))
	assert.Equal(t, GapSpace, s.CharAt(-1))
}

func TestSequenceGapQueries(t *testing.T) {
	s := NewSequence("s1", "A--.C")
	assert.True(t, s.AllGaps(1, 4))
	assert.False(t, s.AllGaps(0, 2))
	assert.True(t, s.AllGaps(5, 9), "columns past the end are gaps")
	assert.Equal(t, 3, s.GapRun(1, 5))
	assert.Equal(t, 0, s.GapRun(0, 5))
	assert.Equal(t, 2, s.GapRun(1, 3))
}

func TestSequenceCloneKeepsIdentity(t *testing.T) {
	s := NewSequence("s1", "ACGT")
	ds := s.DeriveDataset()
	c := s.Clone()

	assert.Equal(t, s.ID(), c.ID())
	assert.Same(t, ds, c.Dataset())

	c.InsertGaps(0, 1, '-')
	assert.Equal(t, "ACGT", s.String())
}

func TestDeriveDatasetRemovesGaps(t *testing.T) {
	s := NewSequence("s1", "A-C.G T")
	assert.Equal(t, "ACGT", s.DeriveDataset().String())
	assert.NotEqual(t, s.ID(), s.Dataset().ID())
}

func TestAlignmentWidthAndHeight(t *testing.T) {
	al := FromStrings(
		[2]string{"a", "ACGT"},
		[2]string{"b", "ACGTAA"},
	)
	assert.Equal(t, 2, al.Height())
	assert.Equal(t, 6, al.Width())
	assert.NotEmpty(t, al.ID())
	assert.Nil(t, al.SequenceAt(2))
}

func TestGroupCommitIsTwoPhase(t *testing.T) {
	al := FromStrings([2]string{"a", "ACGT"}, [2]string{"b", "ACGT"})
	a, b := al.SequenceAt(0), al.SequenceAt(1)
	g := NewGroup("g", 1, 2, a)

	st := g.State()
	st.Add(b)
	st.EndRes = 3
	assert.False(t, g.Contains(b), "snapshot changes are not visible before commit")

	g.Commit(st)
	assert.True(t, g.Contains(b))
	assert.Equal(t, 3, g.EndRes())
	assert.True(t, g.ContainsCell(b, 3))
	assert.False(t, g.ContainsCell(b, 0))
}

func TestGroupCommitNormalisesBounds(t *testing.T) {
	g := NewGroup("g", 5, 2)
	assert.Equal(t, 2, g.StartRes())
	assert.Equal(t, 5, g.EndRes())
}

func TestGroupsAndSelection(t *testing.T) {
	al := FromStrings([2]string{"a", "ACGT"}, [2]string{"b", "ACGT"})
	a := al.SequenceAt(0)
	g := NewGroup("g", 0, 1, a)
	al.AddGroup(g)
	al.AddGroup(g)
	al.SetSelection(g)

	assert.Len(t, al.Groups(), 1)
	assert.Same(t, g, al.GroupAt(a, 1))
	assert.Nil(t, al.GroupAt(a, 2))

	al.RemoveGroup(g)
	assert.Empty(t, al.Groups())
	assert.Nil(t, al.Selection())
}

func TestSpansAll(t *testing.T) {
	al := FromStrings([2]string{"a", "ACGT"}, [2]string{"b", "ACGT"})
	a, b := al.SequenceAt(0), al.SequenceAt(1)

	assert.False(t, al.SpansAll(NewGroup("g", 0, 3, a)))
	assert.True(t, al.SpansAll(NewGroup("g", 0, 3, a, b)))
	assert.False(t, al.SpansAll(nil))
}

func TestHideAndShowRepresented(t *testing.T) {
	al := FromStrings(
		[2]string{"a", "ACGT"},
		[2]string{"b", "AC"},
		[2]string{"c", "ACGTTTT"},
		[2]string{"d", "A"},
	)
	a, b, c, d := al.SequenceAt(0), al.SequenceAt(1), al.SequenceAt(2), al.SequenceAt(3)

	require.NoError(t, al.HideRepresented(a, []*Sequence{a, b, c}))
	assert.Equal(t, []*Sequence{a, d}, al.Sequences())
	assert.Equal(t, 7, al.Width(), "hidden rows still count towards the width")
	assert.True(t, al.IsRepresentative(a))
	assert.True(t, al.HasHiddenRows())
	assert.Same(t, c, al.FindByID(c.ID()))

	rg := al.RepresentedGroup(a)
	require.NotNil(t, rg)
	assert.Equal(t, 3, rg.Size())
	assert.Equal(t, 6, rg.EndRes())
	assert.Nil(t, al.RepresentedGroup(d))

	assert.ElementsMatch(t, []*Sequence{a, b, c}, al.ExpandRepresented([]*Sequence{a}))

	al.ShowRepresented(a)
	assert.Equal(t, []*Sequence{a, b, c, d}, al.Sequences())
	assert.False(t, al.HasHiddenRows())
}

func TestHideRepresentedRejectsStrangers(t *testing.T) {
	al := FromStrings([2]string{"a", "ACGT"})
	stranger := NewSequence("x", "AAA")
	assert.ErrorIs(t, al.HideRepresented(al.SequenceAt(0), []*Sequence{stranger}), ErrNotMember)
	assert.ErrorIs(t, al.HideRepresented(stranger, nil), ErrNotMember)
}

func TestCloneRemapsGroups(t *testing.T) {
	al := FromStrings([2]string{"a", "ACGT"}, [2]string{"b", "ACGT"})
	a := al.SequenceAt(0)
	g := NewGroup("g", 0, 1, a)
	al.AddGroup(g)
	al.SetSelection(g)
	al.HiddenColumns().Hide(2, 2)

	cp := al.Clone()
	assert.Equal(t, al.ID(), cp.ID())
	assert.NotSame(t, a, cp.SequenceAt(0))
	assert.Equal(t, a.ID(), cp.SequenceAt(0).ID())
	require.NotNil(t, cp.Selection())
	assert.True(t, cp.Selection().Contains(cp.SequenceAt(0)))
	assert.Same(t, cp.Groups()[0], cp.Selection())
	assert.True(t, cp.HiddenColumns().HasHidden())

	cp.SequenceAt(0).InsertGaps(0, 1, '-')
	assert.Equal(t, "ACGT", a.String())
}
