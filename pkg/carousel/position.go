package carousel

import "fmt"

// Position is the visual slot an item occupies relative to the active item.
type Position int

const (
	Hidden Position = iota
	Center
	Right
	Left
	FarRight
	FarLeft
)

var positionNames = [...]string{
	Hidden:   "hidden",
	Center:   "center",
	Right:    "right",
	Left:     "left",
	FarRight: "far-right",
	FarLeft:  "far-left",
}

// String returns the slot name used by the front end.
func (p Position) String() string {
	if p < 0 || int(p) >= len(positionNames) {
		return fmt.Sprintf("Position(%d)", int(p))
	}
	return positionNames[p]
}

// MarshalText encodes the slot name.
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a slot name.
func (p *Position) UnmarshalText(text []byte) error {
	for i, name := range positionNames {
		if name == string(text) {
			*p = Position(i)
			return nil
		}
	}
	return fmt.Errorf("carousel: unknown position %q", text)
}

// Visible reports whether the slot is rendered at all. Far slots are rendered
// transparent so the next slide can enter smoothly.
func (p Position) Visible() bool {
	return p != Hidden
}

// Classify maps a relative index to a slot. The checks run in order, so with few
// items the nearer slot wins (count 3 has no far slots, count 4 puts relative 2
// on the far right).
func Classify(relative, count int) Position {
	if count <= 0 {
		return Hidden
	}
	switch relative {
	case 0:
		return Center
	case 1:
		return Right
	case count - 1:
		return Left
	case 2:
		return FarRight
	case count - 2:
		return FarLeft
	default:
		return Hidden
	}
}
