package mouse

import (
	"github.com/gdamore/tcell/v2"
)

// Translator converts tcell mouse events into Events. tcell reports only
// the buttons currently held, so press, drag and release are derived from
// the previous event.
type Translator struct {
	// OriginX and OriginY are the terminal cell of the first shown
	// alignment cell; positions are reported relative to it.
	OriginX int
	OriginY int

	buttons tcell.ButtonMask
}

// Translate converts ev.
func (t *Translator) Translate(ev *tcell.EventMouse) Event {
	x, y := ev.Position()
	out := Event{
		Position:  Position{X: x - t.OriginX, Y: y - t.OriginY},
		Modifiers: FromTcellModifiers(ev.Modifiers()),
		Timestamp: ev.When(),
	}

	btn := ev.Buttons()
	prev := t.buttons
	t.buttons = btn & (tcell.Button1 | tcell.Button2 | tcell.Button3)

	switch {
	case btn&tcell.WheelUp != 0:
		out.Button, out.Action = ButtonScrollUp, ActionPress
		return out
	case btn&tcell.WheelDown != 0:
		out.Button, out.Action = ButtonScrollDown, ActionPress
		return out
	case btn&tcell.WheelLeft != 0:
		out.Button, out.Action = ButtonScrollLeft, ActionPress
		return out
	case btn&tcell.WheelRight != 0:
		out.Button, out.Action = ButtonScrollRight, ActionPress
		return out
	}

	held := btn&tcell.Button1 != 0
	wasHeld := prev&tcell.Button1 != 0
	switch {
	case held && !wasHeld:
		out.Button, out.Action = ButtonLeft, ActionPress
	case held:
		out.Button, out.Action = ButtonLeft, ActionDrag
	case wasHeld:
		out.Button, out.Action = ButtonLeft, ActionRelease
	case btn&tcell.Button2 != 0 && prev&tcell.Button2 == 0:
		out.Button, out.Action = ButtonRight, ActionPress
	case btn&tcell.Button3 != 0 && prev&tcell.Button3 == 0:
		out.Button, out.Action = ButtonMiddle, ActionPress
	default:
		out.Action = ActionMove
	}
	return out
}

// FromTcellModifiers converts a tcell modifier mask.
func FromTcellModifiers(m tcell.ModMask) Modifier {
	var out Modifier
	if m&tcell.ModShift != 0 {
		out |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= ModMeta
	}
	return out
}
