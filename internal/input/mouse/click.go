package mouse

import "time"

// doubleClicks pairs left presses into double clicks. A completed pair is
// reported once and the next press starts a new pair.
type doubleClicks struct {
	window time.Duration
	radius int

	pending bool
	at      Position
	when    time.Time
}

func newDoubleClicks(window time.Duration, radius int) *doubleClicks {
	return &doubleClicks{window: window, radius: radius}
}

// press records a press at pos and reports whether it completes a double
// click. A zero timestamp is replaced with time.Now(). A press stamped
// before the previous one never pairs with it.
func (d *doubleClicks) press(pos Position, when time.Time) bool {
	if when.IsZero() {
		when = time.Now()
	}
	if d.pending {
		dt := when.Sub(d.when)
		if dt >= 0 && dt <= d.window && pos.Distance(d.at) <= d.radius {
			d.pending = false
			return true
		}
	}
	d.pending, d.at, d.when = true, pos, when
	return false
}

// clear forgets the pending press.
func (d *doubleClicks) clear() {
	d.pending = false
}
