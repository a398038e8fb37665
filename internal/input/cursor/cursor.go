// Package cursor implements keyboard cursor mode: a cell cursor over the
// alignment that moves with the arrow keys and inserts or deletes gaps at
// its position.
//
// Digits typed before a command form a numeric prefix. A comma separates a
// second number, used by the row and column jump. Every gap edit made from
// the keyboard is one history command.
package cursor

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/alnstorm/internal/engine/alignment"
	"github.com/dshills/alnstorm/internal/engine/gapedit"
	"github.com/dshills/alnstorm/internal/engine/history"
	"github.com/dshills/alnstorm/internal/logging"
)

// Revealer scrolls a view so that an absolute column and row are shown.
type Revealer interface {
	ScrollToReveal(col, seq int) bool
}

// Broadcaster forwards a completed command to the other views.
type Broadcaster interface {
	Broadcast(cmd *history.Command)
}

// prefix is the numeric argument typed before a command.
type prefix struct {
	first, second   int
	hasFirst, comma bool
	hasSecond       bool
}

func (p *prefix) digit(d int) {
	if p.comma {
		p.second = p.second*10 + d
		p.hasSecond = true
		return
	}
	p.first = p.first*10 + d
	p.hasFirst = true
}

// count returns the first number, or 1 when none was typed.
func (p prefix) count() int {
	if p.hasFirst && p.first > 0 {
		return p.first
	}
	return 1
}

// Controller is the keyboard cursor of one view.
// It is not safe for concurrent use.
type Controller struct {
	al       *alignment.Alignment
	editor   *gapedit.Editor
	hist     *history.History
	bc       Broadcaster
	revealer Revealer
	log      *logging.Logger

	row, col int
	prefix   prefix
	status   string
}

// Option configures a Controller.
type Option func(*Controller)

// WithBroadcaster forwards every recorded command to b.
func WithBroadcaster(b Broadcaster) Option {
	return func(c *Controller) { c.bc = b }
}

// WithRevealer keeps the cursor on screen after it moves.
func WithRevealer(r Revealer) Option {
	return func(c *Controller) { c.revealer = r }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New creates a cursor at the top left cell of al.
func New(al *alignment.Alignment, hist *history.History, opts ...Option) *Controller {
	c := &Controller{al: al, hist: hist}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logging.OrNull(c.log).WithComponent("cursor")
	c.editor = gapedit.New(al, c.log)
	return c
}

// Position returns the cursor row and absolute column.
func (c *Controller) Position() (row, col int) {
	return c.row, c.col
}

// SetPosition moves the cursor, clamped to the alignment. A hidden column
// moves the cursor to the nearest visible column to its right.
func (c *Controller) SetPosition(row, col int) {
	c.row = clamp(row, 0, c.al.Height()-1)
	c.col = c.visibleFrom(clamp(col, 0, c.al.Width()-1))
	c.reveal()
}

// Status returns the summary of the last keyboard edit, or "".
func (c *Controller) Status() string {
	return c.status
}

// Digit appends d to the numeric prefix.
func (c *Controller) Digit(d int) {
	if d >= 0 && d <= 9 {
		c.prefix.digit(d)
	}
}

// Comma starts the second number of the prefix.
func (c *Controller) Comma() {
	c.prefix.comma = true
}

// ClearPrefix discards the numeric prefix.
func (c *Controller) ClearPrefix() {
	c.prefix = prefix{}
}

// Prefix returns the numbers typed so far.
func (c *Controller) Prefix() (first, second int, ok bool) {
	return c.prefix.first, c.prefix.second, c.prefix.hasFirst
}

// Move moves the cursor by the prefix count times (dx, dy), skipping hidden
// columns. Reports whether the cursor moved.
func (c *Controller) Move(dx, dy int) bool {
	n := c.prefix.count()
	c.ClearPrefix()

	row, col := c.row, c.col
	for range n {
		c.row = clamp(c.row+dy, 0, c.al.Height()-1)
		if dx != 0 {
			c.col = c.step(c.col, dx)
		}
	}
	c.reveal()
	return row != c.row || col != c.col
}

// step moves one visible column in direction dx, staying put at the edges.
func (c *Controller) step(col, dx int) int {
	hc := c.al.HiddenColumns()
	last := c.al.Width() - 1
	for next := col + dx; next >= 0 && next <= last; next += dx {
		if hc.IsVisible(next) {
			return next
		}
	}
	return col
}

// visibleFrom returns col when visible, otherwise the next visible column
// to its right, or to its left when none remains.
func (c *Controller) visibleFrom(col int) int {
	hc := c.al.HiddenColumns()
	if hc.IsVisible(col) {
		return col
	}
	if next := c.step(col, 1); next != col {
		return next
	}
	return c.step(col, -1)
}

// JumpRow moves the cursor to the 1-based row given by the prefix.
func (c *Controller) JumpRow() bool {
	p := c.prefix
	c.ClearPrefix()
	if !p.hasFirst {
		return false
	}
	c.SetPosition(p.first-1, c.col)
	return true
}

// JumpColumn moves the cursor to the 1-based column given by the prefix.
func (c *Controller) JumpColumn() bool {
	p := c.prefix
	c.ClearPrefix()
	if !p.hasFirst {
		return false
	}
	c.SetPosition(c.row, p.first-1)
	return true
}

// JumpRowColumn moves the cursor to the 1-based row and column given as
// "row,column" in the prefix.
func (c *Controller) JumpRowColumn() bool {
	p := c.prefix
	c.ClearPrefix()
	if !p.hasFirst || !p.hasSecond {
		c.log.Debug("row,column jump needs two numbers")
		return false
	}
	c.SetPosition(p.first-1, p.second-1)
	return true
}

// InsertGaps inserts prefix-count gaps at the cursor, in the cursor's
// sequence or, with group set, in the selection containing it.
func (c *Controller) InsertGaps(group bool) bool {
	n := c.prefix.count()
	c.ClearPrefix()
	return c.edit(c.editor.InsertGaps(group, c.al.SequenceAt(c.row), c.col, n))
}

// DeleteGaps deletes prefix-count gaps at the cursor.
func (c *Controller) DeleteGaps(group bool) bool {
	n := c.prefix.count()
	c.ClearPrefix()
	return c.edit(c.editor.DeleteGaps(group, c.al.SequenceAt(c.row), c.col, n))
}

// edit closes the editor command and records it.
func (c *Controller) edit(ok bool) bool {
	c.status = c.editor.Summary()
	cmd := c.editor.Finish()
	if !ok || cmd == nil {
		return false
	}
	if c.hist.Push(cmd) && c.bc != nil {
		c.bc.Broadcast(cmd)
	}
	return true
}

func (c *Controller) reveal() {
	if c.revealer != nil {
		c.revealer.ScrollToReveal(c.col, c.row)
	}
}

// HandleKey runs the command bound to ev. It returns false for keys that
// are not cursor commands.
//
//	0-9 ,      numeric prefix
//	arrows     move
//	S C P      jump to row, column, or row,column
//	space      insert gaps (Alt or Ctrl: in the group)
//	Backspace  delete gaps (Alt or Ctrl: in the group)
//	Delete     delete gaps
//	Esc        clear the prefix
func (c *Controller) HandleKey(ev *tcell.EventKey) bool {
	group := ev.Modifiers()&(tcell.ModAlt|tcell.ModCtrl) != 0

	switch ev.Key() {
	case tcell.KeyUp:
		c.Move(0, -1)
	case tcell.KeyDown:
		c.Move(0, 1)
	case tcell.KeyLeft:
		c.Move(-1, 0)
	case tcell.KeyRight:
		c.Move(1, 0)
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		c.DeleteGaps(group)
	case tcell.KeyEscape:
		c.ClearPrefix()
	case tcell.KeyRune:
		return c.handleRune(ev.Rune(), group)
	default:
		return false
	}
	return true
}

func (c *Controller) handleRune(r rune, group bool) bool {
	switch {
	case r >= '0' && r <= '9':
		c.Digit(int(r - '0'))
	case r == ',':
		c.Comma()
	case r == ' ':
		c.InsertGaps(group)
	case r == 'S' || r == 's':
		c.JumpRow()
	case r == 'C' || r == 'c':
		c.JumpColumn()
	case r == 'P' || r == 'p':
		c.JumpRowColumn()
	default:
		return false
	}
	return true
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
