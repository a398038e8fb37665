package cursor

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/alnstorm/internal/engine/alignment"
	"github.com/dshills/alnstorm/internal/engine/history"
)

type revealRecorder struct {
	col, seq int
	calls    int
}

func (r *revealRecorder) ScrollToReveal(col, seq int) bool {
	r.col, r.seq = col, seq
	r.calls++
	return true
}

type broadcastRecorder struct {
	cmds []*history.Command
}

func (b *broadcastRecorder) Broadcast(cmd *history.Command) {
	b.cmds = append(b.cmds, cmd)
}

func newController(rows ...[2]string) (*Controller, *alignment.Alignment, *history.History) {
	al := alignment.FromStrings(rows...)
	hist := history.NewHistory(0, nil)
	return New(al, hist), al, hist
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune, mod tcell.ModMask) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, mod)
}

func TestMoveClampsToAlignment(t *testing.T) {
	c, _, _ := newController([2]string{"a", "ACGT"}, [2]string{"b", "ACGT"})

	assert.False(t, c.Move(-1, 0))
	assert.False(t, c.Move(0, -1))
	assert.True(t, c.Move(1, 1))
	row, col := c.Position()
	assert.Equal(t, 1, row)
	assert.Equal(t, 1, col)

	c.Digit(9)
	c.Move(1, 0)
	_, col = c.Position()
	assert.Equal(t, 3, col)
}

func TestMoveSkipsHiddenColumns(t *testing.T) {
	c, al, _ := newController([2]string{"a", "ACGTACGT"})
	al.HiddenColumns().Hide(2, 4)

	c.SetPosition(0, 1)
	c.Move(1, 0)
	_, col := c.Position()
	assert.Equal(t, 5, col)

	c.Move(-1, 0)
	_, col = c.Position()
	assert.Equal(t, 1, col)

	c.SetPosition(0, 3)
	_, col = c.Position()
	assert.Equal(t, 5, col, "a hidden column snaps right")
}

func TestNumericPrefixRepeatsMoves(t *testing.T) {
	c, _, _ := newController([2]string{"a", "ACGTACGTACGTACGT"})

	c.Digit(1)
	c.Digit(2)
	first, _, ok := c.Prefix()
	require.True(t, ok)
	assert.Equal(t, 12, first)

	c.Move(1, 0)
	_, col := c.Position()
	assert.Equal(t, 12, col)

	_, _, ok = c.Prefix()
	assert.False(t, ok, "the prefix is consumed by the command")
}

func TestJumps(t *testing.T) {
	rows := make([][2]string, 5)
	for i := range rows {
		rows[i] = [2]string{"s", "ACGTACGTAC"}
	}
	c, _, _ := newController(rows...)
	rev := &revealRecorder{}
	c.revealer = rev

	c.Digit(3)
	require.True(t, c.JumpRow())
	row, _ := c.Position()
	assert.Equal(t, 2, row)

	c.Digit(7)
	require.True(t, c.JumpColumn())
	_, col := c.Position()
	assert.Equal(t, 6, col)
	assert.Equal(t, 6, rev.col)

	c.Digit(5)
	c.Comma()
	c.Digit(1)
	c.Digit(0)
	require.True(t, c.JumpRowColumn())
	row, col = c.Position()
	assert.Equal(t, 4, row)
	assert.Equal(t, 9, col)
	assert.Equal(t, 4, rev.seq)

	c.Digit(2)
	assert.False(t, c.JumpRowColumn(), "needs both numbers")
	assert.False(t, c.JumpRow(), "needs a number")

	c.Digit(9)
	c.Digit(9)
	c.JumpRow()
	row, _ = c.Position()
	assert.Equal(t, 4, row, "clamped to the last row")
}

func TestInsertAndDeleteAtCursor(t *testing.T) {
	c, al, hist := newController([2]string{"seq1", "AC--GT"})
	bc := &broadcastRecorder{}
	c.bc = bc
	s := al.SequenceAt(0)

	c.SetPosition(0, 2)
	c.Digit(2)
	require.True(t, c.InsertGaps(false))
	assert.Equal(t, "AC----GT", s.String())
	assert.Equal(t, "Edit sequence: seq1 insert 2 gaps", c.Status())

	require.True(t, c.DeleteGaps(false))
	assert.Equal(t, "AC---GT", s.String())

	assert.Equal(t, 2, hist.UndoCount(), "each keystroke is one command")
	assert.Len(t, bc.cmds, 2)

	_, err := hist.Undo()
	require.NoError(t, err)
	_, err = hist.Undo()
	require.NoError(t, err)
	assert.Equal(t, "AC--GT", s.String())
}

func TestRejectedKeyboardEditIsNotRecorded(t *testing.T) {
	c, al, hist := newController([2]string{"a", "ACGT"})

	c.SetPosition(0, 1)
	assert.False(t, c.DeleteGaps(false))
	assert.Equal(t, "ACGT", al.SequenceAt(0).String())
	assert.False(t, hist.CanUndo())
	assert.Empty(t, c.Status())
}

func TestGroupInsertAtCursor(t *testing.T) {
	c, al, _ := newController([2]string{"a", "ACGT"}, [2]string{"b", "TTGA"})
	a, b := al.SequenceAt(0), al.SequenceAt(1)
	al.SetSelection(alignment.NewGroup("g", 0, 3, a, b))

	require.True(t, c.InsertGaps(true))
	assert.Equal(t, "-ACGT", a.String())
	assert.Equal(t, "-TTGA", b.String())
}

func TestHandleKey(t *testing.T) {
	c, al, hist := newController([2]string{"a", "AC--GT"}, [2]string{"b", "ACGTAA"})
	s := al.SequenceAt(0)

	assert.True(t, c.HandleKey(key(tcell.KeyRight)))
	assert.True(t, c.HandleKey(key(tcell.KeyRight)))
	assert.True(t, c.HandleKey(runeKey(' ', tcell.ModNone)))
	assert.Equal(t, "AC---GT", s.String())

	assert.True(t, c.HandleKey(key(tcell.KeyBackspace2)))
	assert.Equal(t, "AC--GT", s.String())
	assert.Equal(t, 2, hist.UndoCount())

	assert.True(t, c.HandleKey(runeKey('2', tcell.ModNone)))
	assert.True(t, c.HandleKey(runeKey(',', tcell.ModNone)))
	assert.True(t, c.HandleKey(runeKey('5', tcell.ModNone)))
	assert.True(t, c.HandleKey(runeKey('P', tcell.ModNone)))
	row, col := c.Position()
	assert.Equal(t, 1, row)
	assert.Equal(t, 4, col)

	assert.True(t, c.HandleKey(runeKey('4', tcell.ModNone)))
	assert.True(t, c.HandleKey(key(tcell.KeyEscape)))
	_, _, ok := c.Prefix()
	assert.False(t, ok)

	assert.False(t, c.HandleKey(runeKey('x', tcell.ModNone)))
	assert.False(t, c.HandleKey(key(tcell.KeyF1)))
}
