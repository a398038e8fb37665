package history

import (
	"github.com/dshills/alnstorm/internal/engine/alignment"
)

// Command is one logical edit gesture: an ordered list of primitive edits
// recorded against one alignment.
type Command struct {
	label       string
	al          *alignment.Alignment
	alignmentID string
	edits       []*Edit
}

// NewCommand creates an empty command for al.
func NewCommand(label string, al *alignment.Alignment) *Command {
	c := &Command{label: label, al: al}
	if al != nil {
		c.alignmentID = al.ID()
	}
	return c
}

// Append applies e to the alignment and records it.
func (c *Command) Append(e *Edit) {
	e.Apply()
	c.edits = append(c.edits, e)
}

// Edits returns the recorded edits in application order.
func (c *Command) Edits() []*Edit {
	return append([]*Edit(nil), c.edits...)
}

// Len returns the number of recorded edits.
func (c *Command) Len() int {
	return len(c.edits)
}

// IsEmpty reports whether no edit has been recorded.
func (c *Command) IsEmpty() bool {
	return c == nil || len(c.edits) == 0
}

// Alignment returns the alignment the command was recorded against.
func (c *Command) Alignment() *alignment.Alignment {
	return c.al
}

// AlignmentID returns the identity of the recorded alignment.
func (c *Command) AlignmentID() string {
	return c.alignmentID
}

// Description returns the label shown as "Undo <label>".
func (c *Command) Description() string {
	return c.label
}

// SetDescription changes the label.
func (c *Command) SetDescription(label string) {
	c.label = label
}

// NetGaps returns the signed gap count of the user edits. System generated
// balancing edits are not counted.
func (c *Command) NetGaps() int {
	n := 0
	for _, e := range c.edits {
		if !e.SystemGenerated {
			n += e.GapDelta()
		}
	}
	return n
}

// inverses returns the inverse edits in undo order.
func (c *Command) inverses() []*Edit {
	out := make([]*Edit, len(c.edits))
	for i, e := range c.edits {
		out[len(c.edits)-1-i] = e.Invert()
	}
	return out
}

// Undo reverts the command on its own alignment.
func (c *Command) Undo() error {
	for _, e := range c.inverses() {
		e.Apply()
	}
	return nil
}

// Redo reapplies the command on its own alignment.
func (c *Command) Redo() error {
	for _, e := range c.edits {
		e.Apply()
	}
	return nil
}

// Retarget returns a copy of the command bound to al, which must have the
// same identity and contain every target sequence.
func (c *Command) Retarget(al *alignment.Alignment) (*Command, error) {
	if al == nil || al.ID() != c.alignmentID {
		return nil, ErrReconcile
	}
	edits, err := retargetAll(c.edits, al)
	if err != nil {
		return nil, err
	}
	return &Command{label: c.label, al: al, alignmentID: c.alignmentID, edits: edits}, nil
}

func retargetAll(edits []*Edit, al *alignment.Alignment) ([]*Edit, error) {
	out := make([]*Edit, len(edits))
	for i, e := range edits {
		r, err := e.Retarget(al)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
