package carousel

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recorder collects published states.
type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) observe(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func newManual(t *testing.T, count int, policy Policy, pointer PointerKind) (*Carousel, *ManualScheduler, *recorder) {
	t.Helper()
	sched := NewManualScheduler()
	rec := &recorder{}
	c := NewCarousel(Config{
		Count:     count,
		Policy:    policy,
		Pointer:   pointer,
		Scheduler: sched,
		OnChange:  rec.observe,
	})
	t.Cleanup(c.Close)
	return c, sched, rec
}

func TestAutoAdvance(t *testing.T) {
	t.Run("three periods wrap around", func(t *testing.T) {
		c, sched, _ := newManual(t, 3, ScreenshotsPolicy(), PointerFine)
		c.Mount()

		sched.Advance(2999 * time.Millisecond)
		if c.State().Active != 0 {
			t.Fatalf("advanced before the first period")
		}
		sched.Advance(time.Millisecond)
		if c.State().Active != 1 {
			t.Fatalf("expected 1 after one period, got %d", c.State().Active)
		}
		sched.Advance(6000 * time.Millisecond)
		if c.State().Active != 0 {
			t.Errorf("expected back at 0 after 9000ms, got %d", c.State().Active)
		}
		if sched.Pending() != 1 {
			t.Errorf("expected exactly one timer, got %d", sched.Pending())
		}
	})

	t.Run("highlight halts advancing", func(t *testing.T) {
		c, sched, _ := newManual(t, 3, ScreenshotsPolicy(), PointerFine)
		c.Mount()

		sched.Advance(3000 * time.Millisecond)
		c.PointerEnter()
		if !c.State().Highlight || c.State().AutoAdvancing {
			t.Fatalf("expected highlight to pause auto-advance: %+v", c.State())
		}
		sched.Advance(30 * time.Second)
		if c.State().Active != 1 {
			t.Errorf("advanced while highlighted: %d", c.State().Active)
		}
		if sched.Pending() != 0 {
			t.Errorf("expected timer released, %d pending", sched.Pending())
		}

		c.PointerLeave()
		sched.Advance(3000 * time.Millisecond)
		if c.State().Active != 2 {
			t.Errorf("expected advancing to resume, got %d", c.State().Active)
		}
	})

	t.Run("single item never arms a timer", func(t *testing.T) {
		c, sched, _ := newManual(t, 1, ScreenshotsPolicy(), PointerFine)
		c.Mount()
		if sched.Pending() != 0 || c.State().AutoAdvancing {
			t.Error("expected no timer for a single item")
		}
	})

	t.Run("projects policy does not advance", func(t *testing.T) {
		c, sched, _ := newManual(t, 3, ProjectsPolicy(), PointerFine)
		c.Mount()
		sched.Advance(10 * time.Second)
		if c.State().Active != 0 {
			t.Errorf("projects carousel advanced to %d", c.State().Active)
		}
	})

	t.Run("close releases timers", func(t *testing.T) {
		c, sched, _ := newManual(t, 4, ScreenshotsPolicy(), PointerCoarse)
		c.Mount()
		if sched.Pending() != 2 {
			t.Fatalf("expected auto-advance and focus timers, got %d", sched.Pending())
		}
		c.Close()
		if sched.Pending() != 0 {
			t.Errorf("expected all timers released, %d pending", sched.Pending())
		}
		c.Next()
		if c.State().Active != 0 {
			t.Error("closed carousel must ignore navigation")
		}
	})
}

func TestTouchFocus(t *testing.T) {
	t.Run("delay focuses after 3000ms", func(t *testing.T) {
		c, sched, _ := newManual(t, 5, ScreenshotsPolicy(), PointerCoarse)
		c.Mount()
		if c.State().Highlight {
			t.Fatal("highlight must start false")
		}
		sched.Advance(2999 * time.Millisecond)
		if c.State().Highlight {
			t.Fatal("highlight set before the delay")
		}
		sched.Advance(time.Millisecond)
		st := c.State()
		if !st.Highlight {
			t.Fatal("expected highlight after the delay")
		}
		if st.AutoAdvancing {
			t.Error("expected auto-advance paused by touch focus")
		}
	})

	t.Run("tap pre-empts the delay", func(t *testing.T) {
		c, sched, _ := newManual(t, 5, ScreenshotsPolicy(), PointerCoarse)
		c.Mount()
		sched.Advance(1000 * time.Millisecond)

		c.Tap(1)
		st := c.State()
		if !st.Highlight {
			t.Fatal("expected highlight right after a tap")
		}
		if st.Active != 1 {
			t.Errorf("expected tap on the right item to advance, got %d", st.Active)
		}
		if sched.Pending() != 0 {
			t.Errorf("expected both timers released, %d pending", sched.Pending())
		}
		sched.Advance(10 * time.Second)
		if c.State().Active != 1 {
			t.Errorf("advanced after interaction: %d", c.State().Active)
		}
	})

	t.Run("short drag is not an interaction", func(t *testing.T) {
		c, _, _ := newManual(t, 5, ScreenshotsPolicy(), PointerCoarse)
		c.Mount()
		if dir := c.DragEnd(-20); dir != None {
			t.Errorf("expected no navigation, got %v", dir)
		}
		if c.State().Highlight {
			t.Error("short drag must not focus")
		}
		if dir := c.DragEnd(-80); dir != Forward {
			t.Errorf("expected forward, got %v", dir)
		}
		if !c.State().Highlight {
			t.Error("drag past threshold must focus")
		}
	})

	t.Run("indicator selection focuses", func(t *testing.T) {
		c, _, _ := newManual(t, 5, ScreenshotsPolicy(), PointerCoarse)
		c.Mount()
		c.Select(3)
		st := c.State()
		if st.Active != 3 || !st.Highlight {
			t.Errorf("unexpected state after select: %+v", st)
		}
	})

	t.Run("fine pointer never auto-focuses", func(t *testing.T) {
		c, sched, _ := newManual(t, 5, ScreenshotsPolicy(), PointerFine)
		c.Mount()
		c.Next()
		sched.Advance(5 * time.Second)
		if c.State().Highlight {
			t.Error("fine pointer highlight must follow hover only")
		}
	})

	t.Run("switching to touch restarts the delay", func(t *testing.T) {
		c, sched, _ := newManual(t, 5, ScreenshotsPolicy(), PointerFine)
		c.Mount()
		sched.Advance(2000 * time.Millisecond)
		c.SetPointer(PointerCoarse)
		sched.Advance(2000 * time.Millisecond)
		if c.State().Highlight {
			t.Fatal("delay must count from the pointer switch")
		}
		sched.Advance(1000 * time.Millisecond)
		if !c.State().Highlight {
			t.Error("expected highlight 3000ms after switching to touch")
		}
	})
}

func TestTap(t *testing.T) {
	c, _, _ := newManual(t, 5, ProjectsPolicy(), PointerFine)

	c.Tap(4)
	if c.State().Active != 4 {
		t.Errorf("tap on left item should go back, got %d", c.State().Active)
	}
	c.Tap(4)
	if c.State().Active != 4 {
		t.Errorf("tap on center must not move, got %d", c.State().Active)
	}
	c.Tap(1)
	if c.State().Active != 4 {
		t.Errorf("tap on far item must not move, got %d", c.State().Active)
	}
}

func TestOnChange(t *testing.T) {
	c, _, rec := newManual(t, 3, ProjectsPolicy(), PointerFine)

	c.Next()
	c.DragEnd(10)
	c.Tap(c.State().Active)
	c.Prev()

	if rec.count() != 2 {
		t.Fatalf("expected 2 published states, got %d", rec.count())
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.states[0].Version >= rec.states[1].Version {
		t.Error("versions must increase")
	}
	if rec.states[1].Active != 0 || rec.states[1].Layout != "projects" {
		t.Errorf("unexpected last state %+v", rec.states[1])
	}
}

func TestInitialIndex(t *testing.T) {
	c := NewCarousel(Config{Count: 3, InitialIndex: 1, Policy: ProjectsPolicy(), Scheduler: NewManualScheduler()})
	defer c.Close()

	st := c.State()
	if st.Active != 1 {
		t.Errorf("expected initial index 1, got %d", st.Active)
	}
	if len(st.Slots) != 3 {
		t.Errorf("expected 3 slots, got %d", len(st.Slots))
	}
}

func TestEmptyCarousel(t *testing.T) {
	c, sched, rec := newManual(t, 0, ScreenshotsPolicy(), PointerCoarse)
	c.Mount()
	c.Next()
	c.Select(2)
	sched.Advance(time.Minute)

	st := c.State()
	if st.Count != 0 || len(st.Slots) != 0 || st.AutoAdvancing {
		t.Errorf("expected inert carousel, got %+v", st)
	}
	if rec.count() != 1 {
		t.Errorf("expected only the mount to publish, got %d", rec.count())
	}
}

func TestRealSchedulerAdvances(t *testing.T) {
	changes := make(chan State, 16)
	policy := ScreenshotsPolicy()
	policy.Interval = 10 * time.Millisecond

	c := NewCarousel(Config{
		Count:  3,
		Policy: policy,
		OnChange: func(s State) {
			select {
			case changes <- s:
			default:
			}
		},
	})
	c.Mount()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-changes:
			if s.Active == 2 {
				c.Close()
				return
			}
		case <-deadline:
			c.Close()
			t.Fatal("timed out waiting for auto-advance")
		}
	}
}
