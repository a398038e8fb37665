package mouse

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/alnstorm/internal/engine/alignment"
	"github.com/dshills/alnstorm/internal/engine/gapedit"
	"github.com/dshills/alnstorm/internal/engine/history"
	"github.com/dshills/alnstorm/internal/engine/selection"
	"github.com/dshills/alnstorm/internal/logging"
	"github.com/dshills/alnstorm/internal/notify"
	"github.com/dshills/alnstorm/internal/renderer/viewport"
)

// Button represents a mouse button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonLeft is the primary (left) mouse button.
	ButtonLeft
	// ButtonMiddle is the middle mouse button (scroll wheel click).
	ButtonMiddle
	// ButtonRight is the secondary (right) mouse button.
	ButtonRight
	// ButtonScrollUp indicates scroll wheel up.
	ButtonScrollUp
	// ButtonScrollDown indicates scroll wheel down.
	ButtonScrollDown
	// ButtonScrollLeft indicates horizontal scroll left.
	ButtonScrollLeft
	// ButtonScrollRight indicates horizontal scroll right.
	ButtonScrollRight
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonScrollUp:
		return "scroll-up"
	case ButtonScrollDown:
		return "scroll-down"
	case ButtonScrollLeft:
		return "scroll-left"
	case ButtonScrollRight:
		return "scroll-right"
	default:
		return "none"
	}
}

// IsScroll returns true if this is a scroll button.
func (b Button) IsScroll() bool {
	return b == ButtonScrollUp || b == ButtonScrollDown ||
		b == ButtonScrollLeft || b == ButtonScrollRight
}

// Action represents the type of mouse action.
type Action uint8

const (
	// ActionNone indicates no action.
	ActionNone Action = iota
	// ActionPress indicates a button press.
	ActionPress
	// ActionRelease indicates a button release.
	ActionRelease
	// ActionMove indicates mouse movement (no button held).
	ActionMove
	// ActionDrag indicates mouse movement with a button held.
	ActionDrag
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionRelease:
		return "release"
	case ActionMove:
		return "move"
	case ActionDrag:
		return "drag"
	default:
		return "none"
	}
}

// Modifier is a set of keyboard modifiers held during a mouse event.
type Modifier uint8

// ModNone means no modifier is held.
const ModNone Modifier = 0

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// HasShift reports whether Shift is held.
func (m Modifier) HasShift() bool { return m&ModShift != 0 }

// HasCtrl reports whether Ctrl is held.
func (m Modifier) HasCtrl() bool { return m&ModCtrl != 0 }

// HasAlt reports whether Alt is held.
func (m Modifier) HasAlt() bool { return m&ModAlt != 0 }

// HasMeta reports whether Meta is held.
func (m Modifier) HasMeta() bool { return m&ModMeta != 0 }

// Position represents a canvas coordinate.
type Position struct {
	X int
	Y int
}

// Equal returns true if two positions are equal.
func (p Position) Equal(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// Distance returns the Manhattan distance (|dx| + |dy|) between two positions.
func (p Position) Distance(other Position) int {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Point converts p to a viewport point.
func (p Position) Point() viewport.Point {
	return viewport.Point{X: p.X, Y: p.Y}
}

// Event represents a mouse input event.
type Event struct {
	// Position is the canvas coordinate, relative to the first shown cell.
	Position Position

	// Button is the mouse button involved.
	Button Button

	// Modifiers are any keyboard modifiers held during the event.
	Modifiers Modifier

	// Action is the type of mouse action.
	Action Action

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Config configures mouse handler behavior.
type Config struct {
	// DoubleClickTime is the maximum time between clicks for a double-click.
	DoubleClickTime time.Duration

	// DoubleClickDistance is the maximum distance between clicks for a double-click.
	DoubleClickDistance int

	// ScrollLines is the number of rows or columns to scroll per wheel tick.
	ScrollLines int

	// AutoscrollInterval is the autoscroll polling period.
	AutoscrollInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		DoubleClickTime:     400 * time.Millisecond,
		DoubleClickDistance: 1,
		ScrollLines:         3,
		AutoscrollInterval:  DefaultAutoscrollInterval,
	}
}

// Broadcaster forwards a completed command to the other views.
type Broadcaster interface {
	Broadcast(cmd *history.Command)
}

// Notifier publishes a change for an alignment identity.
type Notifier interface {
	Notify(alignmentID string, change notify.Change)
}

// Deps are the collaborators a Handler drives.
type Deps struct {
	Alignment *alignment.Alignment
	Viewport  *viewport.Viewport
	History   *history.History

	// Optional.
	Broadcaster Broadcaster
	Notifier    Notifier
	Scroller    ScrollRequester
	Logger      *logging.Logger
	Context     context.Context
}

// Result tells the host what a handled event changed.
type Result struct {
	// Redraw is set when the alignment, the selection or the scroll
	// position changed.
	Redraw bool

	// Status is the running edit summary, empty outside edit gestures.
	Status string
}

type gesture uint8

const (
	gestureNone gesture = iota
	gestureSelect
	gestureEdit
)

// editState tracks a gap editing drag.
type editState struct {
	seq     *alignment.Sequence
	group   bool
	lastRes int
	halted  bool
}

// Handler processes mouse events for one alignment view.
type Handler struct {
	mu     sync.Mutex
	config Config
	deps   Deps
	log    *logging.Logger

	clicks *doubleClicks
	drag   *dragTracker

	gesture   gesture
	edit      editState
	status    string
	editor    *gapedit.Editor
	stretcher *selection.Stretcher
	selBefore *alignment.SequenceGroup
	auto      *Autoscroller
}

// NewHandler creates a new mouse handler with the given configuration.
func NewHandler(config Config, deps Deps) *Handler {
	log := logging.OrNull(deps.Logger).WithComponent("mouse")
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Scroller == nil {
		deps.Scroller = deps.Viewport
	}
	return &Handler{
		config:    config,
		deps:      deps,
		log:       log,
		clicks:    newDoubleClicks(config.DoubleClickTime, config.DoubleClickDistance),
		drag:      newDragTracker(),
		editor:    gapedit.New(deps.Alignment, deps.Logger),
		stretcher: selection.NewStretcher(deps.Alignment, deps.Viewport),
		auto:      NewAutoscroller(deps.Scroller, deps.Viewport.EdgeDirection, config.AutoscrollInterval, deps.Logger),
	}
}

// Handle processes a mouse event.
func (h *Handler) Handle(event Event) Result {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch event.Action {
	case ActionPress:
		return h.handlePress(event)
	case ActionRelease:
		return h.handleRelease(event)
	case ActionDrag:
		return h.handleDrag(event)
	}
	return Result{}
}

// Redrag reapplies the drag at the last pointer position. Hosts call it
// after an autoscroll step moved the view under a stationary pointer.
func (h *Handler) Redrag() Result {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.drag.isActive() {
		return Result{}
	}
	return h.handleDrag(Event{
		Position: h.drag.getCurrentPos(),
		Button:   h.drag.getButton(),
		Action:   ActionDrag,
	})
}

// handlePress handles mouse button press events.
func (h *Handler) handlePress(event Event) Result {
	if event.Button.IsScroll() {
		return h.handleScroll(event)
	}
	if event.Button != ButtonLeft {
		return Result{}
	}

	double := h.clicks.press(event.Position, event.Timestamp)
	pos := h.deps.Viewport.MapPosition(event.Position.Point())
	seq := h.deps.Alignment.SequenceAt(pos.SeqIndex)
	if !pos.HasColumn() || pos.InAnnotation() || seq == nil {
		return Result{}
	}

	if h.gesture != gestureNone {
		h.finishLocked()
	}
	h.drag.start(event.Position, event.Button)
	h.auto.Start(h.deps.Context, event.Position.Point())

	switch {
	case event.Modifiers.HasShift():
		h.beginEdit(seq, false, pos.Column)
		return Result{}
	case event.Modifiers.HasCtrl() || event.Modifiers.HasAlt():
		h.beginEdit(seq, true, pos.Column)
		return Result{}
	}

	h.gesture = gestureSelect
	h.selBefore = h.deps.Alignment.Selection()
	if double {
		h.selectRow(seq)
		return Result{Redraw: true}
	}
	return Result{Redraw: h.stretcher.Begin(pos)}
}

func (h *Handler) beginEdit(seq *alignment.Sequence, group bool, col int) {
	h.gesture = gestureEdit
	h.edit = editState{seq: seq, group: group, lastRes: col}
	h.status = ""
	h.drag.startEditing()
}

// selectRow replaces the selection with the whole row of seq.
func (h *Handler) selectRow(seq *alignment.Sequence) {
	al := h.deps.Alignment
	g := alignment.NewGroup(seq.Name, 0, max(al.Width()-1, 0), seq)
	al.SetSelection(g)
}

// handleDrag handles mouse drag (movement with button held).
func (h *Handler) handleDrag(event Event) Result {
	if !h.drag.isActive() || h.drag.getButton() != ButtonLeft {
		return Result{}
	}
	h.drag.update(event.Position)
	h.auto.Update(event.Position.Point())

	pos := h.deps.Viewport.MapPosition(event.Position.Point())
	switch h.gesture {
	case gestureSelect:
		if h.stretcher.Active() {
			return Result{Redraw: h.stretcher.Update(pos)}
		}
	case gestureEdit:
		return h.dragEdit(pos)
	}
	return Result{}
}

func (h *Handler) dragEdit(pos viewport.MousePos) Result {
	e := &h.edit
	if e.halted || !pos.HasColumn() || pos.InAnnotation() || pos.Column == e.lastRes {
		return Result{Status: h.status}
	}
	insert := pos.Column > e.lastRes
	if !h.editor.Edit(insert, e.group, e.seq, e.lastRes, pos.Column) {
		e.halted = true
		return Result{Status: h.status}
	}
	e.lastRes = pos.Column
	h.deps.Viewport.SyncAlignment(h.deps.Alignment)
	h.status = h.editor.Summary()
	return Result{Redraw: true, Status: h.status}
}

// handleRelease handles mouse button release events.
func (h *Handler) handleRelease(_ Event) Result {
	if h.gesture == gestureNone {
		h.drag.end()
		return Result{}
	}
	return h.finishLocked()
}

// finishLocked ends the current gesture.
func (h *Handler) finishLocked() Result {
	h.auto.Stop()
	h.drag.end()

	g := h.gesture
	h.gesture = gestureNone
	status := h.status
	h.status = ""

	switch g {
	case gestureEdit:
		cmd := h.editor.Finish()
		if cmd == nil || !h.deps.History.Push(cmd) {
			return Result{}
		}
		h.log.Debug("pushed %q (%d gaps)", cmd.Description(), cmd.NetGaps())
		if h.deps.Broadcaster != nil {
			h.deps.Broadcaster.Broadcast(cmd)
		}
		return Result{Redraw: true, Status: status}

	case gestureSelect:
		// Bounds-only stretches are redrawn but not published.
		changed := h.stretcher.End() || h.deps.Alignment.Selection() != h.selBefore
		h.selBefore = nil
		if changed {
			h.notifySelection()
		}
		return Result{Redraw: true}
	}
	return Result{}
}

func (h *Handler) notifySelection() {
	if h.deps.Notifier == nil {
		return
	}
	desc := "selection cleared"
	if sel := h.deps.Alignment.Selection(); sel != nil {
		desc = fmt.Sprintf("selection of %d sequences", sel.Size())
	}
	h.deps.Notifier.Notify(h.deps.Alignment.ID(), notify.Change{
		Type:        notify.ChangeSelection,
		Description: desc,
		Source:      "mouse",
	})
}

// handleScroll handles scroll wheel events. Shift turns vertical wheel
// movement into horizontal scrolling.
func (h *Handler) handleScroll(event Event) Result {
	se := ParseScrollEvent(event, h.config)
	if se == nil {
		return Result{}
	}
	dx, dy := se.Delta()
	return Result{Redraw: h.deps.Viewport.ScrollBy(dx, dy)}
}

// Reset abandons any gesture in progress. Edits already applied by an
// abandoned edit gesture are kept but not recorded.
func (h *Handler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.auto.Stop()
	h.editor.Abort()
	if h.stretcher.Active() {
		h.stretcher.End()
	}
	h.selBefore = nil
	h.gesture = gestureNone
	h.status = ""
	h.clicks.clear()
	h.drag.end()
}

// IsDragging returns true if a drag operation is in progress.
func (h *Handler) IsDragging() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.drag.isActive()
}

// IsEditing returns true if a gap editing gesture is in progress.
func (h *Handler) IsEditing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.gesture == gestureEdit
}

// Status returns the running edit summary.
func (h *Handler) Status() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// DragState returns a snapshot of the drag in progress.
func (h *Handler) DragState() DragState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.drag.GetState()
}

// Close stops the autoscroll worker.
func (h *Handler) Close() {
	h.auto.Stop()
}
