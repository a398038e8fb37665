// Package notify delivers change notifications to subscribers.
//
// Changes are published on dot-separated topics. Alignment changes use
// "alignment.<id>", configuration changes use "config.<section>.<key>".
// A subscriber to a topic also receives changes published on any of its
// sub-topics.
package notify

import (
	"slices"
	"strings"
	"sync"
)

// ChangeType is the kind of change being reported.
type ChangeType int

const (
	// ChangeSet indicates a value was set or updated.
	ChangeSet ChangeType = iota
	// ChangeDelete indicates a value was removed.
	ChangeDelete
	// ChangeReload indicates a whole source was reloaded.
	ChangeReload
	// ChangeEdit indicates a completed edit gesture.
	ChangeEdit
	// ChangeUndo indicates an edit was undone.
	ChangeUndo
	// ChangeRedo indicates an edit was redone.
	ChangeRedo
	// ChangeSelection indicates the selection group changed.
	ChangeSelection
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	case ChangeReload:
		return "reload"
	case ChangeEdit:
		return "edit"
	case ChangeUndo:
		return "undo"
	case ChangeRedo:
		return "redo"
	case ChangeSelection:
		return "selection"
	default:
		return "unknown"
	}
}

// Change describes one change event.
type Change struct {
	// Topic is the dot-separated topic. Empty reaches every subscriber.
	Topic string

	// Type is the kind of change.
	Type ChangeType

	// Description is a human readable summary, e.g. "Insert Gap".
	Description string

	// Source identifies the producer of the change.
	Source string

	// OldValue and NewValue carry the values for set changes.
	OldValue any
	NewValue any
}

// Observer receives changes.
type Observer func(change Change)

// Subscription is an active observer registration.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes the subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type entry struct {
	id       uint64
	topic    string
	observer Observer
}

// Notifier fans changes out to subscribers in subscription order. Changes
// are delivered synchronously on the publishing goroutine.
type Notifier struct {
	mu      sync.RWMutex
	entries []entry
	nextID  uint64
	closed  bool
}

// New creates a Notifier.
func New() *Notifier {
	return &Notifier{}
}

// Subscribe registers an observer for every change.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.SubscribeTopic("", observer)
}

// SubscribeTopic registers an observer for topic and its sub-topics.
func (n *Notifier) SubscribeTopic(topic string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.entries = append(n.entries, entry{id: id, topic: topic, observer: observer})
	return &Subscription{id: id, notifier: n}
}

// Notify publishes a change.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	closed := n.closed
	n.mu.RUnlock()
	if closed {
		return
	}
	n.deliver(change)
}

// NotifySet publishes a ChangeSet.
func (n *Notifier) NotifySet(topic string, oldValue, newValue any, source string) {
	n.Notify(Change{Topic: topic, Type: ChangeSet, OldValue: oldValue, NewValue: newValue, Source: source})
}

// NotifyReload publishes a ChangeReload.
func (n *Notifier) NotifyReload(topic, source string) {
	n.Notify(Change{Topic: topic, Type: ChangeReload, Source: source})
}

// Close stops delivery. Later changes are dropped.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries = slices.DeleteFunc(n.entries, func(e entry) bool { return e.id == id })
}

func (n *Notifier) deliver(change Change) {
	n.mu.RLock()
	var observers []Observer
	for _, e := range n.entries {
		if Matches(e.topic, change.Topic) {
			observers = append(observers, e.observer)
		}
	}
	n.mu.RUnlock()

	// observers may subscribe or notify again
	for _, obs := range observers {
		obs(change)
	}
}

// Matches reports whether a subscription on sub receives a change on topic.
// An empty subscription or an empty topic always matches.
func Matches(sub, topic string) bool {
	if sub == "" || topic == "" || sub == topic {
		return true
	}
	return strings.HasPrefix(topic, sub) && topic[len(sub)] == '.'
}

// AlignmentTopic returns the topic for changes to the alignment with the
// given identity.
func AlignmentTopic(id string) string {
	return "alignment." + id
}
