package mouse

// dragTracker tracks mouse drag state.
type dragTracker struct {
	// active indicates a drag is in progress.
	active bool

	// editing indicates the drag is editing gaps rather than stretching
	// the selection.
	editing bool

	// button is the mouse button being held.
	button Button

	// startPos is where the drag started.
	startPos Position

	// currentPos is the current drag position.
	currentPos Position
}

// newDragTracker creates a new drag tracker.
func newDragTracker() *dragTracker {
	return &dragTracker{}
}

// start begins a new drag operation.
func (t *dragTracker) start(pos Position, button Button) {
	t.active = true
	t.editing = false
	t.button = button
	t.startPos = pos
	t.currentPos = pos
}

// update updates the current drag position.
func (t *dragTracker) update(pos Position) {
	if t.active {
		t.currentPos = pos
	}
}

// end ends the current drag operation.
func (t *dragTracker) end() {
	t.active = false
	t.editing = false
	t.button = ButtonNone
	t.startPos = Position{}
	t.currentPos = Position{}
}

// isActive returns true if a drag is in progress.
func (t *dragTracker) isActive() bool {
	return t.active
}

// startEditing marks the drag as a gap editing drag.
func (t *dragTracker) startEditing() {
	if t.active {
		t.editing = true
	}
}

// getButton returns the button being held during the drag.
func (t *dragTracker) getButton() Button {
	return t.button
}

// getCurrentPos returns the current drag position.
func (t *dragTracker) getCurrentPos() Position {
	return t.currentPos
}

// DragState represents the current state of a drag operation.
type DragState struct {
	// Active indicates a drag is in progress.
	Active bool

	// Editing indicates the drag is inserting or deleting gaps.
	Editing bool

	// Button is the mouse button being held.
	Button Button

	// StartPos is where the drag started.
	StartPos Position

	// Delta is the distance dragged from the start.
	Delta Position

	// CurrentPos is the current drag position.
	CurrentPos Position
}

// GetState returns the current drag state.
func (t *dragTracker) GetState() DragState {
	return DragState{
		Active:     t.active,
		Editing:    t.editing,
		Button:     t.button,
		StartPos:   t.startPos,
		Delta:      Position{X: t.currentPos.X - t.startPos.X, Y: t.currentPos.Y - t.startPos.Y},
		CurrentPos: t.currentPos,
	}
}
