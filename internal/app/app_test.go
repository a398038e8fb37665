package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func newTestApp(t *testing.T, opts Options, rows ...[2]string) (*Application, tcell.SimulationScreen) {
	t.Helper()
	opts.Sequences = rows
	if opts.UserConfigDir == "" {
		opts.UserConfigDir = t.TempDir()
	}
	if opts.Environ == nil {
		opts.Environ = []string{}
	}
	a, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(a.Close)

	sim := tcell.NewSimulationScreen("")
	if err := sim.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(sim.Fini)
	sim.SetSize(40, 10)
	a.attachScreen(sim)
	return a, sim
}

func mouseAt(x, y int, btn tcell.ButtonMask, mods tcell.ModMask) *tcell.EventMouse {
	return tcell.NewEventMouse(x, y, btn, mods)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func send(t *testing.T, a *Application, evs ...tcell.Event) {
	t.Helper()
	for _, ev := range evs {
		if err := a.handleEvent(ev); err != nil {
			t.Fatalf("handleEvent(%T) error = %v", ev, err)
		}
	}
	a.draw()
}

func rowText(s tcell.SimulationScreen, x, y, n int) string {
	out := make([]rune, 0, n)
	for i := 0; i < n; i++ {
		r, _, _, _ := s.GetContent(x+i, y) //nolint:staticcheck // GetContent is the correct API
		out = append(out, r)
	}
	return string(out)
}

func TestNew_RequiresSequences(t *testing.T) {
	if _, err := New(Options{}); !errors.Is(err, ErrNoSequences) {
		t.Errorf("New() error = %v, want ErrNoSequences", err)
	}
}

func TestParseSequence(t *testing.T) {
	tests := []struct {
		arg     string
		want    [2]string
		wantErr bool
	}{
		{"seq1=AC--GT", [2]string{"seq1", "AC--GT"}, false},
		{"a=b=c", [2]string{"a", "b=c"}, false},
		{"ACGT", [2]string{}, true},
		{"=ACGT", [2]string{}, true},
		{"seq1=", [2]string{}, true},
	}
	for _, tt := range tests {
		got, err := ParseSequence(tt.arg)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSequence(%q) error = %v", tt.arg, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSequence(%q) = %v, want %v", tt.arg, got, tt.want)
		}
	}
}

func TestApplication_DrawsAlignment(t *testing.T) {
	a, sim := newTestApp(t, Options{}, [2]string{"seq1", "AC--GT"}, [2]string{"seq2", "ACGTAC"})

	if got := rowText(sim, 0, 0, 4); got != "seq1" {
		t.Errorf("label = %q", got)
	}
	if got := rowText(sim, 10, 0, 6); got != "AC--GT" {
		t.Errorf("row 0 = %q", got)
	}
	if got := rowText(sim, 10, 1, 6); got != "ACGTAC" {
		t.Errorf("row 1 = %q", got)
	}
	if w, h := a.View().Viewport().Size(); w != 30 || h != 9 {
		t.Errorf("viewport size = %dx%d, want 30x9", w, h)
	}
}

func TestApplication_ShiftDragThenUndoRedo(t *testing.T) {
	a, sim := newTestApp(t, Options{}, [2]string{"seq1", "AC--GT"})
	seq := a.View().Alignment().SequenceAt(0)

	send(t, a,
		mouseAt(12, 0, tcell.Button1, tcell.ModShift),
		mouseAt(14, 0, tcell.Button1, tcell.ModShift),
	)
	if got := a.Status(); got != "Edit sequence: seq1 insert 2 gaps" {
		t.Errorf("status during drag = %q", got)
	}
	send(t, a, mouseAt(14, 0, tcell.ButtonNone, tcell.ModNone))

	if got := seq.String(); got != "AC----GT" {
		t.Fatalf("sequence = %q, want AC----GT", got)
	}
	if got := rowText(sim, 10, 0, 8); got != "AC----GT" {
		t.Errorf("screen = %q", got)
	}
	if a.View().Changes() == 0 {
		t.Error("view was not notified of the edit")
	}

	send(t, a, runeKey('u'))
	if got := seq.String(); got != "AC--GT" {
		t.Errorf("after undo = %q", got)
	}
	if got := a.Status(); got != "Undo Insert Gap" {
		t.Errorf("status = %q", got)
	}

	send(t, a, tcell.NewEventKey(tcell.KeyCtrlY, 0, tcell.ModCtrl))
	if got := seq.String(); got != "AC----GT" {
		t.Errorf("after redo = %q", got)
	}

	send(t, a, runeKey('r'))
	if got := a.Status(); got != "Nothing to Redo" {
		t.Errorf("status = %q", got)
	}
}

func TestApplication_CursorInsertUsesConfiguredGap(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "settings.toml"), []byte("[editor]\ngapChar = \".\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a, _ := newTestApp(t, Options{UserConfigDir: dir}, [2]string{"seq1", "ACGT"})

	send(t, a,
		tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone),
		runeKey(' '),
	)
	if got := a.View().Alignment().SequenceAt(0).String(); got != "AC.GT" {
		t.Errorf("sequence = %q, want AC.GT", got)
	}
	if !a.History().CanUndo() {
		t.Error("cursor edit was not recorded")
	}
}

func TestApplication_WrapToggle(t *testing.T) {
	a, _ := newTestApp(t, Options{}, [2]string{"seq1", "ACGT"})

	send(t, a, runeKey('w'))
	if !a.View().Viewport().Wrapped() {
		t.Fatal("viewport not wrapped after toggle")
	}
	if got := a.Config().Source("view.wrap"); got != "session" {
		t.Errorf("Source(view.wrap) = %q", got)
	}
	if got := a.Status(); got != "wrap on" {
		t.Errorf("status = %q", got)
	}
	if g := a.View().Viewport().Geometry(); g.LabelWest != 10 {
		t.Errorf("LabelWest = %d, want 10", g.LabelWest)
	}

	send(t, a, runeKey('w'))
	if a.View().Viewport().Wrapped() {
		t.Error("viewport still wrapped")
	}
}

func TestApplication_Overrides(t *testing.T) {
	a, _ := newTestApp(t, Options{
		LogLevel:  "debug",
		Overrides: map[string]any{"view.labelWidth": 6},
	}, [2]string{"seq1", "ACGT"})

	if got := a.Config().Logging().Level; got != "debug" {
		t.Errorf("log level = %q", got)
	}
	if w, _ := a.View().Viewport().Size(); w != 34 {
		t.Errorf("viewport width = %d, want 34", w)
	}
}

func TestApplication_ReportsConfigErrorsOnce(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "settings.toml"), []byte("[view]\nlabelWidth = -3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	a, _ := newTestApp(t, Options{UserConfigDir: dir, LogOutput: &logs}, [2]string{"seq1", "ACGT"})

	if !strings.Contains(logs.String(), "setting view.labelWidth") {
		t.Errorf("logs = %q, want a view.labelWidth warning", logs.String())
	}
	if errs := a.Config().ConfigErrors(); len(errs) != 0 {
		t.Errorf("ConfigErrors() = %v after reporting", errs)
	}

	logs.Reset()
	if err := a.Config().Set("view.labelWidth", 4); err != nil {
		t.Fatal(err)
	}
	send(t, a, tcell.NewEventResize(40, 10))

	if strings.Contains(logs.String(), "view.labelWidth") {
		t.Errorf("logs = %q, a corrected setting was reported again", logs.String())
	}
	if w, _ := a.View().Viewport().Size(); w != 36 {
		t.Errorf("viewport width = %d, want 36", w)
	}
}

func TestApplication_Quit(t *testing.T) {
	a, _ := newTestApp(t, Options{}, [2]string{"seq1", "ACGT"})

	if err := a.handleEvent(runeKey('q')); !errors.Is(err, ErrQuit) {
		t.Errorf("q: error = %v", err)
	}
	if err := a.handleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)); !errors.Is(err, ErrQuit) {
		t.Errorf("Ctrl+C: error = %v", err)
	}
}

func TestApplication_RunAndShutdown(t *testing.T) {
	sim := tcell.NewSimulationScreen("")
	a, err := New(Options{
		Sequences:     [][2]string{{"seq1", "ACGT"}},
		Screen:        sim,
		UserConfigDir: t.TempDir(),
		Environ:       []string{},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	done := make(chan error, 1)
	go func() { done <- a.Run() }()

	deadline := time.Now().Add(2 * time.Second)
	for !a.post(quitRequest{}) {
		if time.Now().After(deadline) {
			t.Fatal("screen never attached")
		}
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after quit")
	}
}
