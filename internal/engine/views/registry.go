// Package views tracks the open views of alignments.
//
// Several views can show the same alignment, either sharing one alignment
// object or holding their own copy with the same identity. The registry is
// keyed by alignment identity and is passed explicitly to the components
// that broadcast edits.
package views

import (
	"slices"
	"sync"

	"github.com/dshills/alnstorm/internal/engine/alignment"
	"github.com/dshills/alnstorm/internal/notify"
)

// View is a rendering of an alignment that must be told about changes.
type View interface {
	// ID identifies the view.
	ID() string

	// Alignment returns the live alignment object the view shows.
	Alignment() *alignment.Alignment

	// AlignmentChanged is called after the alignment has been mutated.
	AlignmentChanged(change notify.Change)
}

// Registry holds the open views grouped by alignment identity.
type Registry struct {
	mu       sync.RWMutex
	views    map[string][]View
	notifier *notify.Notifier
}

// NewRegistry creates a registry. Changes passed to Notify are also
// published on notifier when it is not nil.
func NewRegistry(notifier *notify.Notifier) *Registry {
	return &Registry{
		views:    make(map[string][]View),
		notifier: notifier,
	}
}

// Register adds v under the identity of its alignment.
func (r *Registry) Register(v View) {
	al := v.Alignment()
	if al == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := al.ID()
	if !slices.Contains(r.views[id], v) {
		r.views[id] = append(r.views[id], v)
	}
}

// Unregister removes v.
func (r *Registry) Unregister(v View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, vs := range r.views {
		vs = slices.DeleteFunc(vs, func(x View) bool { return x == v })
		if len(vs) == 0 {
			delete(r.views, id)
		} else {
			r.views[id] = vs
		}
	}
}

// Views returns the views of the alignment with the given identity.
func (r *Registry) Views(alignmentID string) []View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.views[alignmentID])
}

// Alignments returns the distinct live alignment objects with the given
// identity, in registration order.
func (r *Registry) Alignments(alignmentID string) []*alignment.Alignment {
	var out []*alignment.Alignment
	for _, v := range r.Views(alignmentID) {
		if al := v.Alignment(); al != nil && !slices.Contains(out, al) {
			out = append(out, al)
		}
	}
	return out
}

// Originating returns the view whose live alignment object is al, or nil
// when no such view is open.
func (r *Registry) Originating(al *alignment.Alignment) View {
	if al == nil {
		return nil
	}
	for _, v := range r.Views(al.ID()) {
		if v.Alignment() == al {
			return v
		}
	}
	return nil
}

// Notify tells every view of the alignment about change, then publishes it.
func (r *Registry) Notify(alignmentID string, change notify.Change) {
	if change.Topic == "" {
		change.Topic = notify.AlignmentTopic(alignmentID)
	}
	for _, v := range r.Views(alignmentID) {
		v.AlignmentChanged(change)
	}
	if r.notifier != nil {
		r.notifier.Notify(change)
	}
}

// Len returns the number of registered views.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, vs := range r.views {
		n += len(vs)
	}
	return n
}

// Simple is a minimal View that records the changes it receives.
type Simple struct {
	id      string
	al      *alignment.Alignment
	mu      sync.Mutex
	changes []notify.Change
}

// NewSimple creates a view of al.
func NewSimple(id string, al *alignment.Alignment) *Simple {
	return &Simple{id: id, al: al}
}

// ID returns the view identifier.
func (s *Simple) ID() string { return s.id }

// Alignment returns the shown alignment.
func (s *Simple) Alignment() *alignment.Alignment { return s.al }

// AlignmentChanged records change.
func (s *Simple) AlignmentChanged(change notify.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changes = append(s.changes, change)
}

// Changes returns the changes received so far.
func (s *Simple) Changes() []notify.Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.changes)
}
