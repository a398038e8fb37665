package history

import (
	"errors"
	"sync"
	"time"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrReconcile indicates a command could not be replayed on any live
	// alignment.
	ErrReconcile = errors.New("cannot reconcile command with alignment")
)

// DefaultMaxEntries is used when a non-positive depth is configured.
const DefaultMaxEntries = 1000

// Replayer applies undo and redo of a command.
type Replayer interface {
	Undo(cmd *Command) error
	Redo(cmd *Command) error
}

// direct replays on the command's own alignment only.
type direct struct{}

func (direct) Undo(cmd *Command) error { return cmd.Undo() }
func (direct) Redo(cmd *Command) error { return cmd.Redo() }

// Info describes a history entry for menus and status lines.
type Info struct {
	Description string
	Timestamp   time.Time
	NetGaps     int
}

type undoEntry struct {
	command   *Command
	timestamp time.Time
}

func (e *undoEntry) info() Info {
	return Info{
		Description: e.command.Description(),
		Timestamp:   e.timestamp,
		NetGaps:     e.command.NetGaps(),
	}
}

// History is the undo/redo stack pair of one view-state owner.
type History struct {
	mu sync.Mutex

	undoStack []*undoEntry
	redoStack []*undoEntry

	replayer   Replayer
	maxEntries int
}

// NewHistory creates a history. A nil replayer applies commands to their
// own alignment only.
func NewHistory(maxEntries int, replayer Replayer) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if replayer == nil {
		replayer = direct{}
	}
	return &History{
		maxEntries: maxEntries,
		replayer:   replayer,
	}
}

// Push adds an applied command to the undo stack and clears the redo stack.
// Empty commands are ignored. Reports whether cmd was added.
func (h *History) Push(cmd *Command) bool {
	if cmd.IsEmpty() {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = append(h.undoStack, &undoEntry{
		command:   cmd,
		timestamp: time.Now(),
	})
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
	return true
}

// Undo reverts the last command and returns it.
// The lock is released while the command is replayed.
func (h *History) Undo() (*Command, error) {
	h.mu.Lock()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return nil, ErrNothingToUndo
	}
	entry := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.mu.Unlock()

	if err := h.replayer.Undo(entry.command); err != nil {
		// Restore entry on failure
		h.mu.Lock()
		h.undoStack = append(h.undoStack, entry)
		h.mu.Unlock()
		return nil, err
	}

	h.mu.Lock()
	h.redoStack = append(h.redoStack, entry)
	h.mu.Unlock()
	return entry.command, nil
}

// Redo reapplies the last undone command and returns it.
func (h *History) Redo() (*Command, error) {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return nil, ErrNothingToRedo
	}
	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.mu.Unlock()

	if err := h.replayer.Redo(entry.command); err != nil {
		h.mu.Lock()
		h.redoStack = append(h.redoStack, entry)
		h.mu.Unlock()
		return nil, err
	}

	h.mu.Lock()
	h.undoStack = append(h.undoStack, entry)
	h.mu.Unlock()
	return entry.command, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo operations available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo operations available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
}

// UndoInfo lists the undo entries, oldest first.
func (h *History) UndoInfo() []Info {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.undoStack)
}

// RedoInfo lists the redo entries, oldest first.
func (h *History) RedoInfo() []Info {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.redoStack)
}

func infos(stack []*undoEntry) []Info {
	out := make([]Info, len(stack))
	for i, e := range stack {
		out[i] = e.info()
	}
	return out
}

// PeekUndo returns the next undo entry without removing it.
func (h *History) PeekUndo() (Info, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undoStack) == 0 {
		return Info{}, false
	}
	return h.undoStack[len(h.undoStack)-1].info(), true
}

// PeekRedo returns the next redo entry without removing it.
func (h *History) PeekRedo() (Info, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redoStack) == 0 {
		return Info{}, false
	}
	return h.redoStack[len(h.redoStack)-1].info(), true
}

// SetMaxEntries changes the depth bound, dropping the oldest entries.
func (h *History) SetMaxEntries(n int) {
	if n <= 0 {
		n = DefaultMaxEntries
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.maxEntries = n
	if len(h.undoStack) > n {
		h.undoStack = h.undoStack[len(h.undoStack)-n:]
	}
}

// MaxEntries returns the depth bound.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}

// Checkpoint is a position in the undo stack that can be returned to.
type Checkpoint struct {
	undoDepth int
}

// CreateCheckpoint records the current undo depth.
func (h *History) CreateCheckpoint() Checkpoint {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Checkpoint{undoDepth: len(h.undoStack)}
}

// UndoToCheckpoint undoes every command pushed since cp.
func (h *History) UndoToCheckpoint(cp Checkpoint) error {
	for h.UndoCount() > cp.undoDepth {
		if _, err := h.Undo(); err != nil {
			return err
		}
	}
	return nil
}
