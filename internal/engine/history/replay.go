package history

import (
	"fmt"

	"github.com/dshills/alnstorm/internal/engine/alignment"
	"github.com/dshills/alnstorm/internal/engine/views"
	"github.com/dshills/alnstorm/internal/logging"
	"github.com/dshills/alnstorm/internal/notify"
)

// ViewReplayer replays undo and redo on every live alignment that shares
// the command's alignment identity, then notifies their views.
type ViewReplayer struct {
	registry *views.Registry
	log      *logging.Logger
}

// NewViewReplayer creates a replayer over registry.
func NewViewReplayer(registry *views.Registry, log *logging.Logger) *ViewReplayer {
	return &ViewReplayer{
		registry: registry,
		log:      logging.OrNull(log).WithComponent("history"),
	}
}

// Undo reverts cmd everywhere.
func (r *ViewReplayer) Undo(cmd *Command) error {
	return r.replay(cmd, true)
}

// Redo reapplies cmd everywhere.
func (r *ViewReplayer) Redo(cmd *Command) error {
	return r.replay(cmd, false)
}

// Broadcast applies a newly completed command to the other live copies of
// its alignment and notifies every view.
func (r *ViewReplayer) Broadcast(cmd *Command) {
	if r.registry == nil || cmd.IsEmpty() {
		return
	}
	for _, al := range r.registry.Alignments(cmd.alignmentID) {
		if al == cmd.al {
			continue
		}
		if err := applyTo(al, cmd.edits); err != nil {
			r.log.Warn("skipping view update for %q: %v", cmd.Description(), err)
		}
	}
	r.registry.Notify(cmd.alignmentID, notify.Change{
		Type:        notify.ChangeEdit,
		Description: cmd.Description(),
		Source:      "edit",
	})
}

func (r *ViewReplayer) replay(cmd *Command, undo bool) error {
	if r.registry == nil {
		if undo {
			return cmd.Undo()
		}
		return cmd.Redo()
	}
	live := r.registry.Alignments(cmd.alignmentID)

	// The originating view has closed: rebind to the first live copy the
	// command reconciles with.
	if len(live) > 0 && r.registry.Originating(cmd.al) == nil {
		if err := r.rebind(cmd, live, undo); err != nil {
			return err
		}
	}

	edits := cmd.edits
	if undo {
		edits = cmd.inverses()
	}
	for _, e := range edits {
		e.Apply()
	}

	for _, al := range live {
		if al == cmd.al {
			continue
		}
		if err := applyTo(al, edits); err != nil {
			r.log.Warn("skipping view replay of %q: %v", cmd.Description(), err)
		}
	}

	ct := notify.ChangeRedo
	if undo {
		ct = notify.ChangeUndo
	}
	r.registry.Notify(cmd.alignmentID, notify.Change{
		Type:        ct,
		Description: cmd.Description(),
		Source:      "history",
	})
	return nil
}

func (r *ViewReplayer) rebind(cmd *Command, live []*alignment.Alignment, undo bool) error {
	for _, al := range live {
		rc, err := cmd.Retarget(al)
		if err == nil {
			edits := rc.edits
			if undo {
				edits = rc.inverses()
			}
			err = dryRun(al, edits)
		}
		if err != nil {
			r.log.Debug("cannot rebind %q: %v", cmd.Description(), err)
			continue
		}
		cmd.al = rc.al
		cmd.edits = rc.edits
		return nil
	}
	return ErrReconcile
}

// applyTo replays edits on al after a dry run against a copy of it.
func applyTo(al *alignment.Alignment, edits []*Edit) error {
	if err := dryRun(al, edits); err != nil {
		return err
	}
	rt, err := retargetAll(edits, al)
	if err != nil {
		return err
	}
	for _, e := range rt {
		e.Apply()
	}
	return nil
}

// dryRun checks that edits apply cleanly to a copy of al.
func dryRun(al *alignment.Alignment, edits []*Edit) error {
	scratch := al.Clone()
	rt, err := retargetAll(edits, scratch)
	if err != nil {
		return err
	}
	for _, e := range rt {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("reconcile %s: %w", al.ID(), err)
		}
		e.Apply()
	}
	return nil
}
