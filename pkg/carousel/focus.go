package carousel

import (
	"fmt"
	"time"
)

// DefaultFocusDelay is how long a touch device waits before focusing on its own.
const DefaultFocusDelay = 3000 * time.Millisecond

// PointerKind is the primary input of the device showing the carousel.
type PointerKind int

const (
	// PointerFine is a mouse or trackpad that can hover.
	PointerFine PointerKind = iota
	// PointerCoarse is a touch screen without hover.
	PointerCoarse
)

// String returns "fine" or "coarse".
func (k PointerKind) String() string {
	if k == PointerCoarse {
		return "coarse"
	}
	return "fine"
}

// MarshalText encodes the pointer kind.
func (k PointerKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts "fine", "coarse" and the aliases "mouse" and "touch".
func (k *PointerKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "fine", "mouse", "":
		*k = PointerFine
	case "coarse", "touch":
		*k = PointerCoarse
	default:
		return fmt.Errorf("carousel: unknown pointer kind %q", text)
	}
	return nil
}

// Focus tracks the highlight state. On hover-capable devices highlight follows
// the pointer. On touch devices it switches on after a delay, or at once when
// the user interacts, so auto-advance never moves the carousel out from under
// someone who just touched it.
//
// Like Autoplay, Focus leaves locking to its owner.
type Focus struct {
	sched     Scheduler
	delay     time.Duration
	touchAuto bool
	fire      func(gen uint64)

	pointer     PointerKind
	hovered     bool
	autoFocused bool
	mounted     bool

	stop func()
	gen  uint64
}

// NewFocus creates a focus tracker. When touchAuto is false only hover counts.
func NewFocus(sched Scheduler, delay time.Duration, touchAuto bool, pointer PointerKind, fire func(gen uint64)) *Focus {
	if delay <= 0 {
		delay = DefaultFocusDelay
	}
	return &Focus{
		sched:     sched,
		delay:     delay,
		touchAuto: touchAuto,
		pointer:   pointer,
		fire:      fire,
	}
}

// Highlight reports the combined highlight state.
func (f *Focus) Highlight() bool {
	return f.hovered || (f.touchAuto && f.pointer == PointerCoarse && f.autoFocused)
}

// Pointer returns the current pointer kind.
func (f *Focus) Pointer() PointerKind { return f.pointer }

// Mount starts the touch delay if needed.
func (f *Focus) Mount() {
	f.mounted = true
	f.arm()
}

// SetPointer switches the pointer kind, restarting the touch delay.
func (f *Focus) SetPointer(kind PointerKind) {
	if kind == f.pointer {
		return
	}
	f.release()
	f.pointer = kind
	if f.mounted {
		f.arm()
	}
}

// Enter marks the pointer as hovering.
func (f *Focus) Enter() { f.hovered = true }

// Leave marks the pointer as gone.
func (f *Focus) Leave() { f.hovered = false }

// Interact records a manual interaction.
func (f *Focus) Interact() {
	if !f.touchAuto || f.pointer != PointerCoarse {
		return
	}
	f.release()
	f.autoFocused = true
}

// Fired applies the delayed focus if gen belongs to the live timer and reports
// whether it did.
func (f *Focus) Fired(gen uint64) bool {
	if f.stop == nil || gen != f.gen {
		return false
	}
	f.stop = nil
	f.autoFocused = true
	return true
}

// Stop releases the pending delay.
func (f *Focus) Stop() {
	f.release()
	f.mounted = false
}

func (f *Focus) arm() {
	if !f.touchAuto || f.pointer != PointerCoarse || f.autoFocused || f.stop != nil {
		return
	}
	f.gen++
	gen := f.gen
	f.stop = f.sched.After(f.delay, func() { f.fire(gen) })
}

func (f *Focus) release() {
	if f.stop != nil {
		f.stop()
		f.stop = nil
	}
	f.gen++
}
