package carousel

import (
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Policy is what differs between carousel call sites.
type Policy struct {
	Layout        Layout
	AutoAdvance   bool
	Interval      time.Duration
	TouchFocus    bool
	FocusDelay    time.Duration
	DragThreshold float64
}

// ProjectsPolicy is the home page carousel: hover highlight, no auto-advance.
func ProjectsPolicy() Policy {
	return Policy{
		Layout:        ProjectsLayout,
		DragThreshold: DefaultDragThreshold,
	}
}

// ScreenshotsPolicy is the app page carousel: auto-advance paused by hover or
// touch focus.
func ScreenshotsPolicy() Policy {
	return Policy{
		Layout:        ScreenshotsLayout,
		AutoAdvance:   true,
		Interval:      DefaultInterval,
		TouchFocus:    true,
		FocusDelay:    DefaultFocusDelay,
		DragThreshold: DefaultDragThreshold,
	}
}

// Config configures a Carousel.
type Config struct {
	Count        int
	InitialIndex int
	Policy       Policy
	Pointer      PointerKind

	// Scheduler defaults to RealScheduler.
	Scheduler Scheduler

	// OnChange receives a snapshot after every change. It is called without
	// the carousel lock held; use State.Version to drop stale snapshots.
	OnChange func(State)

	Logger *slog.Logger
}

// Slot is one rendered item.
type Slot struct {
	Index    int     `json:"index"`
	Relative int     `json:"relative"`
	Variant  Variant `json:"variant"`
}

// State is a snapshot of a carousel.
type State struct {
	Version       uint64      `json:"version"`
	Active        int         `json:"active"`
	Count         int         `json:"count"`
	Highlight     bool        `json:"highlight"`
	AutoAdvancing bool        `json:"autoAdvancing"`
	Pointer       PointerKind `json:"pointer"`
	Layout        string      `json:"layout"`
	Slots         []Slot      `json:"slots"`
}

// Slots lays out count items around active, which is reduced modulo count.
// Hidden items are left out.
func Slots(layout Layout, count, active int, highlight bool) []Slot {
	e := New(count)
	e.SetIndex(active)
	return slotsFor(e, layout, highlight)
}

// slotOffsets are the relative offsets Classify can place anywhere but Hidden.
func slotOffsets(count int) []int {
	return []int{0, 1, 2, count - 2, count - 1}
}

func slotsFor(e *Engine, layout Layout, highlight bool) []Slot {
	n := e.Count()
	if n == 0 {
		return []Slot{}
	}
	indexes := make([]int, 0, min(n, len(slotOffsets(n))))
	for _, rel := range slotOffsets(n) {
		i := mod(e.Active()+mod(rel, n), n)
		if !slices.Contains(indexes, i) {
			indexes = append(indexes, i)
		}
	}
	slices.Sort(indexes)

	slots := make([]Slot, 0, len(indexes))
	for _, i := range indexes {
		p := e.Position(i)
		if !p.Visible() {
			continue
		}
		slots = append(slots, Slot{
			Index:    i,
			Relative: e.RelativeIndex(i),
			Variant:  layout.Variant(p, highlight),
		})
	}
	return slots
}

var epochs atomic.Uint64

// Carousel is one live carousel instance: an Engine plus its focus and
// auto-advance policies. All methods are safe for concurrent use.
type Carousel struct {
	mu       sync.Mutex
	engine   *Engine
	policy   Policy
	focus    *Focus
	autoplay *Autoplay
	epoch    uint64
	version  uint64
	mounted  bool
	closed   bool

	onChange func(State)
	logger   *slog.Logger
}

// NewCarousel builds a carousel. Timers start on Mount.
func NewCarousel(cfg Config) *Carousel {
	sched := cfg.Scheduler
	if sched == nil {
		sched = RealScheduler{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Carousel{
		engine:   New(cfg.Count, WithInitialIndex(cfg.InitialIndex), WithDragThreshold(cfg.Policy.DragThreshold)),
		policy:   cfg.Policy,
		epoch:    epochs.Add(1),
		onChange: cfg.OnChange,
		logger:   logger.With("carousel", cfg.Policy.Layout.Name),
	}
	c.focus = NewFocus(sched, cfg.Policy.FocusDelay, cfg.Policy.TouchFocus, cfg.Pointer, c.focusFired)
	c.autoplay = NewAutoplay(sched, cfg.Policy.Interval, cfg.Policy.AutoAdvance, c.tick)
	return c
}

// Mount starts the focus delay and auto-advance timers.
func (c *Carousel) Mount() {
	c.update(func() bool {
		if c.mounted {
			return false
		}
		c.mounted = true
		if !c.engine.Empty() {
			c.focus.Mount()
		}
		c.logger.Debug("carousel mounted", "count", c.engine.Count(), "pointer", c.focus.Pointer())
		return true
	})
}

// Next advances one item as a manual interaction.
func (c *Carousel) Next() {
	c.update(func() bool {
		if c.engine.Empty() {
			return false
		}
		c.engine.Next()
		c.focus.Interact()
		return true
	})
}

// Prev goes back one item as a manual interaction.
func (c *Carousel) Prev() {
	c.update(func() bool {
		if c.engine.Empty() {
			return false
		}
		c.engine.Prev()
		c.focus.Interact()
		return true
	})
}

// Select jumps to item i, as when an indicator dot is pressed.
func (c *Carousel) Select(i int) {
	c.update(func() bool {
		if c.engine.Empty() {
			return false
		}
		c.engine.SetIndex(i)
		c.focus.Interact()
		return true
	})
}

// Tap handles a tap on item i. Tapping a side item brings it to the center;
// other taps do nothing.
func (c *Carousel) Tap(i int) {
	c.update(func() bool {
		switch c.engine.Position(i) {
		case Right:
			c.engine.Next()
		case Left:
			c.engine.Prev()
		default:
			return false
		}
		c.focus.Interact()
		return true
	})
}

// DragEnd handles a drag released at offsetX.
func (c *Carousel) DragEnd(offsetX float64) Direction {
	var dir Direction
	c.update(func() bool {
		if c.engine.Empty() {
			return false
		}
		dir = c.engine.DragEnd(offsetX)
		if dir == None {
			return false
		}
		c.focus.Interact()
		return true
	})
	return dir
}

// PointerEnter marks the carousel as hovered.
func (c *Carousel) PointerEnter() {
	c.update(func() bool {
		c.focus.Enter()
		return true
	})
}

// PointerLeave clears the hover.
func (c *Carousel) PointerLeave() {
	c.update(func() bool {
		c.focus.Leave()
		return true
	})
}

// SetPointer reports a change of the device's primary pointer.
func (c *Carousel) SetPointer(kind PointerKind) {
	c.update(func() bool {
		c.focus.SetPointer(kind)
		return true
	})
}

// State returns a snapshot.
func (c *Carousel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Close releases every timer. Later calls are no-ops.
func (c *Carousel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.autoplay.Stop()
	c.focus.Stop()
	c.logger.Debug("carousel closed", "active", c.engine.Active())
}

// update runs fn under the lock, re-arms timers and publishes the new state
// when fn reports a change.
func (c *Carousel) update(fn func() bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	before := c.key()
	changed := fn()
	c.reconcile()
	changed = changed && c.key() != before
	var st State
	if changed {
		c.version++
		st = c.snapshot()
	}
	notify := c.onChange
	c.mu.Unlock()

	if changed && notify != nil {
		notify(st)
	}
}

type stateKey struct {
	active    int
	highlight bool
	auto      bool
	pointer   PointerKind
	mounted   bool
}

func (c *Carousel) key() stateKey {
	return stateKey{
		active:    c.engine.Active(),
		highlight: c.focus.Highlight(),
		auto:      c.autoplay.Running(),
		pointer:   c.focus.Pointer(),
		mounted:   c.mounted,
	}
}

// reconcile keeps the auto-advance timer keyed on the current inputs.
func (c *Carousel) reconcile() {
	if !c.mounted {
		return
	}
	c.autoplay.Reconcile(c.engine.Count(), c.focus.Highlight(), c.epoch)
}

func (c *Carousel) tick(gen uint64) {
	c.update(func() bool {
		if !c.autoplay.Current(gen) {
			return false
		}
		c.engine.Next()
		return true
	})
}

func (c *Carousel) focusFired(gen uint64) {
	c.update(func() bool {
		return c.focus.Fired(gen)
	})
}

func (c *Carousel) snapshot() State {
	highlight := c.focus.Highlight()
	return State{
		Version:       c.version,
		Active:        c.engine.Active(),
		Count:         c.engine.Count(),
		Highlight:     highlight,
		AutoAdvancing: c.autoplay.Running(),
		Pointer:       c.focus.Pointer(),
		Layout:        c.policy.Layout.Name,
		Slots:         slotsFor(c.engine, c.policy.Layout, highlight),
	}
}
