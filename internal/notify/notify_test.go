package notify

import "testing"

func TestChangeTypeString(t *testing.T) {
	tests := []struct {
		ct       ChangeType
		expected string
	}{
		{ChangeSet, "set"},
		{ChangeDelete, "delete"},
		{ChangeReload, "reload"},
		{ChangeEdit, "edit"},
		{ChangeUndo, "undo"},
		{ChangeRedo, "redo"},
		{ChangeSelection, "selection"},
		{ChangeType(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.ct.String(); got != tt.expected {
			t.Errorf("ChangeType(%d).String() = %q, want %q", tt.ct, got, tt.expected)
		}
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		sub, topic string
		want       bool
	}{
		{"", "alignment.x", true},
		{"alignment", "alignment.x", true},
		{"alignment.x", "alignment.x", true},
		{"alignment.x", "alignment.xy", false},
		{"alignment.x", "alignment.y", false},
		{"config", "alignment.x", false},
		{"config.editor", "", true},
	}
	for _, tt := range tests {
		if got := Matches(tt.sub, tt.topic); got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.sub, tt.topic, got, tt.want)
		}
	}
}

func TestSubscribeTopic(t *testing.T) {
	n := New()
	defer n.Close()

	var got []Change
	n.SubscribeTopic(AlignmentTopic("a1"), func(c Change) { got = append(got, c) })

	n.Notify(Change{Topic: AlignmentTopic("a1"), Type: ChangeEdit, Description: "Insert Gap"})
	n.Notify(Change{Topic: AlignmentTopic("a2"), Type: ChangeEdit})
	n.NotifySet("config.editor.gapChar", "-", ".", "test")

	if len(got) != 1 {
		t.Fatalf("got %d changes, want 1", len(got))
	}
	if got[0].Description != "Insert Gap" {
		t.Errorf("Description = %q", got[0].Description)
	}
}

func TestDeliveryOrder(t *testing.T) {
	n := New()
	defer n.Close()

	var order []int
	for i := range 5 {
		n.Subscribe(func(Change) { order = append(order, i) })
	}
	n.NotifyReload("config", "test")

	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v", order)
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	n := New()
	defer n.Close()

	calls := 0
	sub := n.Subscribe(func(Change) { calls++ })
	n.Notify(Change{})
	sub.Unsubscribe()
	sub.Unsubscribe()
	n.Notify(Change{})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestCloseDropsLaterChanges(t *testing.T) {
	n := New()

	var got []Change
	n.Subscribe(func(c Change) { got = append(got, c) })
	n.NotifySet("config.view.wrap", false, true, "session")
	n.Close()
	n.Close()
	n.Notify(Change{Type: ChangeEdit})

	if len(got) != 1 {
		t.Fatalf("got %d changes, want 1", len(got))
	}
	if got[0].Type != ChangeSet || got[0].NewValue != true || got[0].Source != "session" {
		t.Errorf("change = %+v", got[0])
	}
}
