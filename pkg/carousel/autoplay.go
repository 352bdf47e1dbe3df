package carousel

import "time"

// DefaultInterval is the auto-advance period.
const DefaultInterval = 3000 * time.Millisecond

// Autoplay owns the single repeating timer that advances a carousel.
//
// The timer is keyed on (count, highlight, epoch). Reconcile with an unchanged
// key keeps the running timer; any change releases it and, when advancing is
// allowed, starts a fresh one. Autoplay does no locking of its own: the owner
// serializes calls and checks Current before acting on a tick.
type Autoplay struct {
	sched    Scheduler
	interval time.Duration
	enabled  bool
	fire     func(gen uint64)

	key   autoplayKey
	keyed bool
	stop  func()
	gen   uint64
}

type autoplayKey struct {
	count     int
	highlight bool
	epoch     uint64
}

// NewAutoplay creates a controller. fire receives the generation of the timer
// that ticked; pass it to Current to discard ticks from released timers.
func NewAutoplay(sched Scheduler, interval time.Duration, enabled bool, fire func(gen uint64)) *Autoplay {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Autoplay{
		sched:    sched,
		interval: interval,
		enabled:  enabled,
		fire:     fire,
	}
}

// Reconcile brings the timer in line with the current inputs and reports
// whether a timer is running afterwards.
func (a *Autoplay) Reconcile(count int, highlight bool, epoch uint64) bool {
	key := autoplayKey{count: count, highlight: highlight, epoch: epoch}
	if a.keyed && key == a.key {
		return a.stop != nil
	}
	a.release()
	a.key, a.keyed = key, true

	if !a.enabled || count <= 1 || highlight {
		return false
	}
	a.gen++
	gen := a.gen
	a.stop = a.sched.Every(a.interval, func() { a.fire(gen) })
	return true
}

// Current reports whether gen belongs to the live timer.
func (a *Autoplay) Current(gen uint64) bool {
	return a.stop != nil && gen == a.gen
}

// Running reports whether a timer is armed.
func (a *Autoplay) Running() bool {
	return a.stop != nil
}

// Stop releases the timer and forgets the key, so the next Reconcile re-arms.
func (a *Autoplay) Stop() {
	a.release()
	a.keyed = false
}

func (a *Autoplay) release() {
	if a.stop != nil {
		a.stop()
		a.stop = nil
	}
	a.gen++
}
