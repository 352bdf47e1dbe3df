package carousel

// Variant is the visual state of one item. Offsets are percentages of the item
// size; X is positive to the right and Y positive downwards.
type Variant struct {
	Position Position `json:"position"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Scale    float64  `json:"scale"`
	Z        int      `json:"z"`
	Opacity  float64  `json:"opacity"`
	Blur     float64  `json:"blur"`
	Visible  bool     `json:"visible"`
}

// Layout holds the numbers behind each slot. Highlight pulls the side items
// further out and shrinks them while the center item grows.
type Layout struct {
	Name string

	CenterY         float64
	CenterScale     float64
	CenterHighlight float64

	SideX          float64
	SideHighlightX float64
	SideY          float64
	SideHighlightY float64
	SideScale      float64
	SideHighlight  float64
	SideOpacity    float64
	SideBlur       float64

	// StageFar renders far slots transparent and off to the side instead of
	// collapsing them with the hidden ones.
	StageFar   bool
	FarX       float64
	FarScale   float64
	FarBlur    float64
	HiddenSize float64
	HiddenBlur float64
}

// ProjectsLayout is the home page project carousel.
var ProjectsLayout = Layout{
	Name:            "projects",
	CenterScale:     1,
	CenterHighlight: 1.05,
	SideX:           88,
	SideHighlightX:  97,
	SideHighlightY:  -25,
	SideScale:       0.85,
	SideHighlight:   0.75,
	SideOpacity:     0.6,
	SideBlur:        1,
}

// ScreenshotsLayout is the app page screenshot carousel.
var ScreenshotsLayout = Layout{
	Name:            "screenshots",
	CenterY:         -50,
	CenterScale:     1,
	CenterHighlight: 1.05,
	SideX:           70,
	SideHighlightX:  85,
	SideY:           -50,
	SideHighlightY:  -55,
	SideScale:       0.85,
	SideHighlight:   0.75,
	SideOpacity:     0.8,
	StageFar:        true,
	FarX:            100,
	FarScale:        0.6,
	FarBlur:         5,
	HiddenSize:      0.5,
	HiddenBlur:      10,
}

// LayoutByName returns one of the shipped layouts.
func LayoutByName(name string) (Layout, bool) {
	switch name {
	case ProjectsLayout.Name:
		return ProjectsLayout, true
	case ScreenshotsLayout.Name:
		return ScreenshotsLayout, true
	}
	return Layout{}, false
}

// Variant computes the visual state for a slot.
func (l Layout) Variant(p Position, highlight bool) Variant {
	switch p {
	case Center:
		scale := l.CenterScale
		if highlight {
			scale = l.CenterHighlight
		}
		return Variant{Position: p, Y: l.CenterY, Scale: scale, Z: 20, Opacity: 1, Visible: true}

	case Right, Left:
		v := Variant{
			Position: p,
			X:        l.SideX,
			Y:        l.SideY,
			Scale:    l.SideScale,
			Z:        10,
			Opacity:  l.SideOpacity,
			Blur:     l.SideBlur,
			Visible:  true,
		}
		if highlight {
			v.X, v.Y, v.Scale = l.SideHighlightX, l.SideHighlightY, l.SideHighlight
		}
		if p == Left {
			v.X = -v.X
		}
		return v

	case FarRight, FarLeft:
		if !l.StageFar {
			return l.hidden(p)
		}
		x := l.FarX
		if p == FarLeft {
			x = -x
		}
		return Variant{Position: p, X: x, Y: l.CenterY, Scale: l.FarScale, Z: 5, Blur: l.FarBlur, Visible: true}
	}
	return l.hidden(p)
}

func (l Layout) hidden(p Position) Variant {
	return Variant{Position: p, Scale: l.HiddenSize, Blur: l.HiddenBlur}
}
