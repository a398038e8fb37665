package app

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/alnstorm/internal/engine/history"
)

// handleEvent dispatches one screen event. It returns ErrQuit when the
// user asked to leave.
func (a *Application) handleEvent(ev tcell.Event) error {
	var err error
	switch e := ev.(type) {
	case *tcell.EventResize:
		if a.screen != nil {
			a.screen.Sync()
		}
		a.view.resize(e.Size())

	case *tcell.EventKey:
		err = a.handleKey(e)

	case *tcell.EventMouse:
		res := a.view.mouse.Handle(a.view.tr.Translate(e))
		if res.Status != "" {
			a.status = res.Status
		}

	case *tcell.EventInterrupt:
		err = a.handleInterrupt(e)
	}

	if a.configPending.Swap(false) {
		a.applyConfig()
	}
	return err
}

func (a *Application) handleKey(ev *tcell.EventKey) error {
	switch {
	case isCtrl(ev, tcell.KeyCtrlC, 'c'):
		return ErrQuit
	case isCtrl(ev, tcell.KeyCtrlZ, 'z'):
		a.undo()
		return nil
	case isCtrl(ev, tcell.KeyCtrlY, 'y'):
		a.redo()
		return nil
	case ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0:
		switch ev.Rune() {
		case 'q':
			return ErrQuit
		case 'u':
			a.undo()
			return nil
		case 'r':
			a.redo()
			return nil
		case 'w':
			a.toggleWrap()
			return nil
		}
	}

	if a.view.cursor.HandleKey(ev) {
		a.status = a.view.cursor.Status()
	}
	return nil
}

// isCtrl matches a control key whether the terminal reports it as a
// control code or as a rune with the Ctrl modifier.
func isCtrl(ev *tcell.EventKey, key tcell.Key, letter rune) bool {
	if ev.Key() == key {
		return true
	}
	return ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 &&
		(ev.Rune() == letter || ev.Rune() == letter-'a'+'A')
}

func (a *Application) undo() {
	a.status = historyStatus("Undo", a.history.Undo)
}

func (a *Application) redo() {
	a.status = historyStatus("Redo", a.history.Redo)
}

func historyStatus(verb string, op func() (*history.Command, error)) string {
	cmd, err := op()
	switch {
	case errors.Is(err, history.ErrNothingToUndo), errors.Is(err, history.ErrNothingToRedo):
		return "Nothing to " + verb
	case err != nil:
		return fmt.Sprintf("%s failed: %v", verb, err)
	}
	return verb + " " + cmd.Description()
}

// toggleWrap flips wrapped mode through the session settings so that
// every subscriber sees the change.
func (a *Application) toggleWrap() {
	wrap := !a.config.View().Wrap
	if err := a.config.Set("view.wrap", wrap); err != nil {
		a.status = err.Error()
		return
	}
	a.status = "wrap off"
	if wrap {
		a.status = "wrap on"
	}
}

func (a *Application) handleInterrupt(ev *tcell.EventInterrupt) error {
	switch req := ev.Data().(type) {
	case quitRequest:
		return ErrQuit
	case scrollRequest:
		if a.view.vp.RequestScroll(req.dx, req.dy) {
			if res := a.view.mouse.Redrag(); res.Status != "" {
				a.status = res.Status
			}
		}
	}
	return nil
}
