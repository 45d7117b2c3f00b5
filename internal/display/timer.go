package display

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// timer is a re-armable clock timer. Every arm or stop bumps the
// generation, so a firing that was already in flight when the timer was
// replaced is recognised as stale and dropped by the owning loop.
type timer struct {
	clock clockwork.Clock
	t     clockwork.Timer
	gen   uint64
}

func (t *timer) arm(d time.Duration, fire func(gen uint64)) {
	t.stop()
	gen := t.gen
	t.t = t.clock.AfterFunc(d, func() { fire(gen) })
}

func (t *timer) stop() {
	t.gen++
	if t.t != nil {
		t.t.Stop()
		t.t = nil
	}
}

// fired reports whether gen is the live firing and, if so, marks the timer
// as no longer pending.
func (t *timer) fired(gen uint64) bool {
	if gen != t.gen || t.t == nil {
		return false
	}
	t.t = nil
	return true
}

func (t *timer) pending() bool { return t.t != nil }
