package mouse

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/alnstorm/internal/logging"
	"github.com/dshills/alnstorm/internal/renderer/viewport"
)

// DefaultAutoscrollInterval is the default autoscroll polling period.
const DefaultAutoscrollInterval = 50 * time.Millisecond

// ScrollRequester scrolls the view one step in each non-zero direction and
// reports whether it moved. Hosts that redraw on their own event loop post
// the request there.
type ScrollRequester interface {
	RequestScroll(dx, dy int) bool
}

// EdgeFunc returns the autoscroll direction for a pointer position.
type EdgeFunc func(p viewport.Point) (dx, dy int)

// Autoscroller scrolls the view while a dragged pointer sits outside it.
// At most one worker runs at a time.
type Autoscroller struct {
	req      ScrollRequester
	edge     EdgeFunc
	interval time.Duration
	log      *logging.Logger

	mu      sync.Mutex
	last    viewport.Point
	running bool
	stop    *atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
	steps   atomic.Int64
}

// NewAutoscroller creates an autoscroller. A non-positive interval uses
// DefaultAutoscrollInterval.
func NewAutoscroller(req ScrollRequester, edge EdgeFunc, interval time.Duration, log *logging.Logger) *Autoscroller {
	if interval <= 0 {
		interval = DefaultAutoscrollInterval
	}
	return &Autoscroller{
		req:      req,
		edge:     edge,
		interval: interval,
		log:      logging.OrNull(log).WithComponent("autoscroll"),
	}
}

// Start launches the worker, stopping any previous one first.
func (a *Autoscroller) Start(ctx context.Context, p viewport.Point) {
	a.Stop()

	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	stop := &atomic.Bool{}
	done := make(chan struct{})
	a.last = p
	a.running = true
	a.stop = stop
	a.cancel = cancel
	a.done = done

	go a.run(ctx, stop, done)
}

// Update records the latest pointer position.
func (a *Autoscroller) Update(p viewport.Point) {
	a.mu.Lock()
	a.last = p
	a.mu.Unlock()
}

// Stop cancels the worker and waits for it to exit.
func (a *Autoscroller) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	a.stop.Store(true)
	a.cancel()
	done := a.done
	a.mu.Unlock()

	<-done
}

// Running reports whether a worker is active.
func (a *Autoscroller) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Steps returns the number of scroll steps that moved the view.
func (a *Autoscroller) Steps() int64 {
	return a.steps.Load()
}

func (a *Autoscroller) run(ctx context.Context, stop *atomic.Bool, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if stop.Load() {
			return
		}

		a.mu.Lock()
		p := a.last
		a.mu.Unlock()

		dx, dy := a.edge(p)
		if dx == 0 && dy == 0 {
			continue
		}
		if a.req.RequestScroll(dx, dy) {
			a.steps.Add(1)
		} else {
			a.log.Debug("cannot scroll %d,%d", dx, dy)
		}
	}
}
