package carousel

import (
	"sort"
	"sync"
	"time"
)

// Scheduler runs callbacks later. Both methods return a stop function that
// releases the timer; calling it more than once is safe.
type Scheduler interface {
	// Every calls fn every d until stopped.
	Every(d time.Duration, fn func()) (stop func())

	// After calls fn once after d unless stopped first.
	After(d time.Duration, fn func()) (stop func())
}

// RealScheduler uses runtime timers. Callbacks run on their own goroutines.
type RealScheduler struct{}

// Every starts a ticker goroutine that exits when stopped.
func (RealScheduler) Every(d time.Duration, fn func()) func() {
	if d <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// After wraps time.AfterFunc.
func (RealScheduler) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// ManualScheduler keeps virtual time that only moves when Advance is called.
// Callbacks run synchronously on the goroutine calling Advance, in due order.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers map[uint64]*manualTimer
}

type manualTimer struct {
	id     uint64
	at     time.Duration
	period time.Duration
	fn     func()
}

// NewManualScheduler returns a scheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{timers: make(map[uint64]*manualTimer)}
}

// Every registers a repeating timer.
func (m *ManualScheduler) Every(d time.Duration, fn func()) func() {
	if d <= 0 {
		return func() {}
	}
	return m.add(d, d, fn)
}

// After registers a one-shot timer.
func (m *ManualScheduler) After(d time.Duration, fn func()) func() {
	return m.add(d, 0, fn)
}

func (m *ManualScheduler) add(d, period time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	id := m.seq
	m.timers[id] = &manualTimer{id: id, at: m.now + d, period: period, fn: fn}
	return func() {
		m.mu.Lock()
		delete(m.timers, id)
		m.mu.Unlock()
	}
}

// Advance moves virtual time forward by d, firing every timer that falls due.
// Timers registered by callbacks fire within the same call if they are due.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		t := m.nextDue(target)
		if t == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = t.at
		if t.period > 0 {
			t.at += t.period
		} else {
			delete(m.timers, t.id)
		}
		fn := t.fn
		m.mu.Unlock()

		fn()
	}
}

// nextDue returns the earliest timer due at or before target. Caller holds mu.
func (m *ManualScheduler) nextDue(target time.Duration) *manualTimer {
	due := make([]*manualTimer, 0, len(m.timers))
	for _, t := range m.timers {
		if t.at <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].id < due[j].id
	})
	return due[0]
}

// Now returns the virtual time elapsed since creation.
func (m *ManualScheduler) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of live timers.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Verify both schedulers implement Scheduler at compile time.
var (
	_ Scheduler = RealScheduler{}
	_ Scheduler = (*ManualScheduler)(nil)
)
