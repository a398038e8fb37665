package mouse

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestTranslatorGesture(t *testing.T) {
	tr := &Translator{OriginX: 2, OriginY: 1}

	tests := []struct {
		name    string
		x, y    int
		buttons tcell.ButtonMask
		mods    tcell.ModMask
		want    Event
	}{
		{"press", 5, 3, tcell.Button1, tcell.ModShift,
			Event{Position: Position{3, 2}, Button: ButtonLeft, Action: ActionPress, Modifiers: ModShift}},
		{"drag", 7, 3, tcell.Button1, tcell.ModShift,
			Event{Position: Position{5, 2}, Button: ButtonLeft, Action: ActionDrag, Modifiers: ModShift}},
		{"release", 7, 4, tcell.ButtonNone, tcell.ModNone,
			Event{Position: Position{5, 3}, Button: ButtonLeft, Action: ActionRelease}},
		{"move", 8, 4, tcell.ButtonNone, tcell.ModNone,
			Event{Position: Position{6, 3}, Action: ActionMove}},
		{"right", 8, 4, tcell.Button2, tcell.ModCtrl | tcell.ModAlt,
			Event{Position: Position{6, 3}, Button: ButtonRight, Action: ActionPress, Modifiers: ModCtrl | ModAlt}},
		{"wheel", 2, 1, tcell.WheelDown, tcell.ModNone,
			Event{Position: Position{0, 0}, Button: ButtonScrollDown, Action: ActionPress}},
	}

	for _, tt := range tests {
		got := tr.Translate(tcell.NewEventMouse(tt.x, tt.y, tt.buttons, tt.mods))
		got.Timestamp = tt.want.Timestamp
		if got != tt.want {
			t.Errorf("%s: Translate() = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestFromTcellModifiers(t *testing.T) {
	got := FromTcellModifiers(tcell.ModShift | tcell.ModCtrl | tcell.ModAlt | tcell.ModMeta)
	if got != ModShift|ModCtrl|ModAlt|ModMeta {
		t.Errorf("FromTcellModifiers() = %v", got)
	}
	if FromTcellModifiers(tcell.ModNone) != ModNone {
		t.Error("expected no modifiers")
	}
}
