// Package history records alignment edits and replays them for undo/redo.
//
// # Edits
//
// An Edit is a primitive change applied at one column of a set of target
// sequences: InsertGap, DeleteGap, InsertResidue, Cut or Replace. Each
// action has an inverse (InsertGap and DeleteGap invert each other,
// InsertResidue and Cut invert each other, Replace inverts to Replace).
// Applying an edit records the removed or overwritten characters and the
// prior sequence lengths, so its inverse restores the targets exactly,
// including padding added when inserting past the end of a sequence.
//
// # Commands
//
// A Command groups the edits of one gesture. Edits are applied as they are
// appended, so views can redraw during a drag:
//
//	cmd := NewCommand("Insert Gap", al)
//	cmd.Append(NewGapEdit(InsertGap, targets, 3, 2, '-'))
//
// # History Stack
//
//	h := NewHistory(1000, NewViewReplayer(registry, logger))
//	h.Push(cmd)   // ignored when cmd is empty
//	h.Undo()
//	h.Redo()
//
// A ViewReplayer applies undo and redo to the alignment the command was
// recorded against and to every other live alignment with the same
// identity. When the originating view has closed, the command is rebound
// to a live copy by sequence identity. Copies that fail reconciliation are
// skipped without aborting the others.
package history
