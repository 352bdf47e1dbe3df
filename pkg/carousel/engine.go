// Package carousel implements a circular carousel: an active index over a fixed
// item count, relative-position classification for layout, drag interpretation,
// and the auto-advance and highlight policies layered on top.
//
// The Engine is a plain value and is not safe for concurrent use. Carousel wraps
// it with a lock and owns the timers.
package carousel

// DefaultDragThreshold is the gesture distance a drag must exceed to navigate.
const DefaultDragThreshold = 50.0

// Direction reports which way a gesture moved the carousel.
type Direction int

const (
	// None means the gesture did not navigate.
	None Direction = iota
	// Forward means the carousel advanced to the next item.
	Forward
	// Backward means the carousel went back to the previous item.
	Backward
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "none"
	}
}

// Engine holds the circular active index over count items.
type Engine struct {
	active    int
	count     int
	threshold float64
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	initial   int
	threshold float64
}

// WithInitialIndex sets the starting index. Out-of-range values fall back to 0.
func WithInitialIndex(i int) Option {
	return func(c *engineConfig) {
		c.initial = i
	}
}

// WithDragThreshold overrides DefaultDragThreshold. Non-positive values are ignored.
func WithDragThreshold(t float64) Option {
	return func(c *engineConfig) {
		if t > 0 {
			c.threshold = t
		}
	}
}

// New creates an engine for count items. A negative count is treated as 0, which
// makes the engine inert.
func New(count int, opts ...Option) *Engine {
	cfg := engineConfig{threshold: DefaultDragThreshold}
	for _, opt := range opts {
		opt(&cfg)
	}
	if count < 0 {
		count = 0
	}

	e := &Engine{count: count, threshold: cfg.threshold}
	if cfg.initial >= 0 && cfg.initial < count {
		e.active = cfg.initial
	}
	return e
}

// Active returns the active index. It is 0 for an empty engine.
func (e *Engine) Active() int { return e.active }

// Count returns the fixed item count.
func (e *Engine) Count() int { return e.count }

// Threshold returns the drag threshold.
func (e *Engine) Threshold() float64 { return e.threshold }

// Empty reports whether there is nothing to render.
func (e *Engine) Empty() bool { return e.count == 0 }

// Next advances to the following item, wrapping around.
func (e *Engine) Next() {
	if e.count <= 1 {
		return
	}
	e.active = (e.active + 1) % e.count
}

// Prev goes back to the preceding item, wrapping around.
func (e *Engine) Prev() {
	if e.count <= 1 {
		return
	}
	e.active = (e.active - 1 + e.count) % e.count
}

// SetIndex jumps to item i. Out-of-range values are reduced modulo count.
func (e *Engine) SetIndex(i int) {
	if e.count == 0 {
		return
	}
	e.active = mod(i, e.count)
}

// RelativeIndex returns the position of item i counted clockwise from the
// active item: 0 is the active item, 1 the next one, count-1 the previous one.
func (e *Engine) RelativeIndex(i int) int {
	if e.count == 0 {
		return 0
	}
	return mod(i-e.active, e.count)
}

// Position classifies item i for layout.
func (e *Engine) Position(i int) Position {
	return Classify(e.RelativeIndex(i), e.count)
}

// DragEnd interprets a horizontal drag released at offsetX. Dragging left past
// the threshold advances, dragging right past it goes back.
func (e *Engine) DragEnd(offsetX float64) Direction {
	switch {
	case offsetX < -e.threshold:
		e.Next()
		return Forward
	case offsetX > e.threshold:
		e.Prev()
		return Backward
	default:
		return None
	}
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
