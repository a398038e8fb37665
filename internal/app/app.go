// Package app is the terminal host for the alignment editor. It wires the
// configuration, the undo history, the view registry and the input
// handlers to a tcell screen and runs the event loop.
package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/alnstorm/internal/config"
	"github.com/dshills/alnstorm/internal/engine/alignment"
	"github.com/dshills/alnstorm/internal/engine/history"
	"github.com/dshills/alnstorm/internal/engine/views"
	"github.com/dshills/alnstorm/internal/input/cursor"
	"github.com/dshills/alnstorm/internal/input/mouse"
	"github.com/dshills/alnstorm/internal/logging"
	"github.com/dshills/alnstorm/internal/notify"
)

// Options configures the application.
type Options struct {
	// ConfigPath overrides the user settings file.
	ConfigPath string

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// LogOutput receives log output. Defaults to io.Discard so that logging
	// does not corrupt the terminal.
	LogOutput io.Writer

	// Overrides are command line settings, keyed by dotted path.
	Overrides map[string]any

	// Sequences are the rows of the alignment as name, residues pairs.
	Sequences [][2]string

	// Screen is used instead of the terminal when set.
	Screen tcell.Screen

	// Environ replaces the process environment for configuration.
	Environ []string

	// UserConfigDir overrides the settings directory.
	UserConfigDir string
}

// Application is the terminal alignment editor.
type Application struct {
	mu   sync.Mutex
	opts Options
	log  *logging.Logger

	config   *config.Config
	notifier *notify.Notifier
	registry *views.Registry
	replayer *history.ViewReplayer
	history  *history.History
	view     *View
	subs     []*notify.Subscription

	screen tcell.Screen
	status string

	ctx    context.Context
	cancel context.CancelFunc

	running       atomic.Bool
	configPending atomic.Bool
}

// New creates an application. Configuration errors are logged and the
// defaults are used.
func New(opts Options) (*Application, error) {
	if len(opts.Sequences) == 0 {
		return nil, ErrNoSequences
	}
	if opts.LogOutput == nil {
		opts.LogOutput = io.Discard
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &Application{
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
	}
	if err := a.bootstrap(); err != nil {
		cancel()
		return nil, err
	}
	return a, nil
}

// ParseSequence parses a NAME=RESIDUES argument.
func ParseSequence(arg string) ([2]string, error) {
	name, residues, ok := strings.Cut(arg, "=")
	if !ok || name == "" || residues == "" {
		return [2]string{}, ErrBadSequence
	}
	return [2]string{name, residues}, nil
}

func (a *Application) bootstrap() error {
	a.log = logging.New(logging.Config{
		Level:  logging.LevelInfo,
		Output: a.opts.LogOutput,
		Prefix: "alnstorm",
	})
	a.notifier = notify.New()

	cfgOpts := []config.Option{
		config.WithWatcher(true),
		config.WithNotifier(a.notifier),
		config.WithLogger(a.log),
	}
	if a.opts.UserConfigDir != "" {
		cfgOpts = append(cfgOpts, config.WithUserConfigDir(a.opts.UserConfigDir))
	}
	if a.opts.ConfigPath != "" {
		cfgOpts = append(cfgOpts, config.WithSettingsFile(a.opts.ConfigPath))
	}
	if a.opts.Environ != nil {
		cfgOpts = append(cfgOpts, config.WithEnviron(a.opts.Environ))
	}
	if a.opts.LogLevel != "" {
		cfgOpts = append(cfgOpts, config.WithOverride("logging.level", a.opts.LogLevel))
	}
	for path, value := range a.opts.Overrides {
		cfgOpts = append(cfgOpts, config.WithOverride(path, value))
	}
	a.config = config.New(cfgOpts...)
	if err := a.config.Load(a.ctx); err != nil {
		a.log.Warn("using default settings: %v", err)
	}
	a.log.SetLevel(logging.ParseLevel(a.config.Logging().Level))
	if a.config.Watching() {
		a.log.Debug("watching %s", a.config.SettingsPath())
	}

	editor := a.config.Editor()
	al := alignment.FromStrings(a.opts.Sequences...)
	al.SetGapChar(editor.GapChar)

	a.registry = views.NewRegistry(a.notifier)
	a.replayer = history.NewViewReplayer(a.registry, a.log)
	a.history = history.NewHistory(editor.HistoryMaxEntries, a.replayer)

	a.view = newView("main", al, a.config.View())
	a.attachMouse(a.view)
	a.attachCursor(a.view)
	a.registry.Register(a.view)

	a.subs = append(a.subs,
		a.config.SubscribePath("view", a.configChanged),
		a.config.SubscribePath("logging", a.configChanged),
		a.config.SubscribePath("mouse", a.configChanged),
	)
	a.reportConfigErrors()
	return nil
}

// reportConfigErrors logs the settings that fell back to their defaults
// and clears them, so each reload reports only what is still wrong.
func (a *Application) reportConfigErrors() {
	for path, err := range a.config.ConfigErrors() {
		a.log.Warn("setting %s: %v", path, err)
	}
	a.config.ClearConfigErrors()
}

// attachMouse creates the mouse handler of v from the mouse settings.
func (a *Application) attachMouse(v *View) {
	mc := a.config.Mouse()
	v.mouse = mouse.NewHandler(mouse.Config{
		DoubleClickTime:     mc.DoubleClickTime,
		DoubleClickDistance: mc.DoubleClickDistance,
		ScrollLines:         mc.ScrollLines,
		AutoscrollInterval:  mc.AutoscrollInterval,
	}, mouse.Deps{
		Alignment:   v.al,
		Viewport:    v.vp,
		History:     a.history,
		Broadcaster: a.replayer,
		Notifier:    a.registry,
		Scroller:    &hostScroller{app: a},
		Logger:      a.log,
		Context:     a.ctx,
	})
}

// attachCursor creates the keyboard cursor of v.
func (a *Application) attachCursor(v *View) {
	v.cursor = cursor.New(v.al, a.history,
		cursor.WithBroadcaster(a.replayer),
		cursor.WithRevealer(v.vp),
		cursor.WithLogger(a.log),
	)
}

// configChanged runs on the publishing goroutine, which is the watcher for
// file reloads. The change is applied on the event loop.
func (a *Application) configChanged(notify.Change) {
	a.configPending.Store(true)
	a.post(redrawRequest{})
}

// applyConfig reapplies view, logging and mouse settings.
func (a *Application) applyConfig() {
	a.log.SetLevel(logging.ParseLevel(a.config.Logging().Level))
	a.view.applyConfig(a.config.View())
	if a.screen != nil {
		a.view.resize(a.screen.Size())
	}

	// Mouse settings only take effect between gestures.
	if !a.view.mouse.IsDragging() {
		a.view.mouse.Close()
		a.attachMouse(a.view)
	}
	a.reportConfigErrors()
}

// Run initializes the screen and runs the event loop until quit.
func (a *Application) Run() error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	screen := a.opts.Screen
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return &InitError{Component: "screen", Err: err}
		}
		screen = s
	}
	if err := screen.Init(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	defer screen.Fini()
	a.attachScreen(screen)
	defer a.attachScreen(nil)

	a.log.Info("editing %d sequences of width %d", a.view.al.Height(), a.view.al.Width())
	return a.eventLoop()
}

// attachScreen sets the screen drawn to. A nil screen detaches it.
func (a *Application) attachScreen(s tcell.Screen) {
	a.mu.Lock()
	a.screen = s
	a.mu.Unlock()
	if s == nil {
		return
	}
	s.EnableMouse()
	s.Clear()
	a.view.resize(s.Size())
	a.draw()
}

func (a *Application) eventLoop() error {
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if err := a.handleEvent(ev); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
		a.draw()
	}
}

// Shutdown asks a running event loop to exit.
func (a *Application) Shutdown() {
	a.post(quitRequest{})
}

// post queues an event on the screen. It is safe from any goroutine.
func (a *Application) post(data any) bool {
	a.mu.Lock()
	s := a.screen
	a.mu.Unlock()
	if s == nil {
		return false
	}
	// Best effort; the queue may be full.
	return s.PostEvent(tcell.NewEventInterrupt(data)) == nil
}

// Close releases the configuration watcher and the input handlers.
func (a *Application) Close() {
	a.cancel()
	for _, sub := range a.subs {
		sub.Unsubscribe()
	}
	a.subs = nil
	a.view.mouse.Close()
	a.registry.Unregister(a.view)
	a.config.Close()
	a.notifier.Close()
}

// Config returns the application configuration.
func (a *Application) Config() *config.Config { return a.config }

// History returns the undo history.
func (a *Application) History() *history.History { return a.history }

// View returns the main view.
func (a *Application) View() *View { return a.view }

// Registry returns the view registry.
func (a *Application) Registry() *views.Registry { return a.registry }

// Status returns the status line message.
func (a *Application) Status() string { return a.status }

// hostScroller turns autoscroll steps into events on the screen queue so
// that scrolling and the drag that follows run on the event loop.
type hostScroller struct {
	app *Application
}

func (s *hostScroller) RequestScroll(dx, dy int) bool {
	return s.app.post(scrollRequest{dx: dx, dy: dy})
}

type (
	scrollRequest struct{ dx, dy int }
	redrawRequest struct{}
	quitRequest   struct{}
)
