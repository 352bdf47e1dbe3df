package carousel

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		count    int
		relative int
		want     Position
	}{
		{5, 0, Center},
		{5, 1, Right},
		{5, 4, Left},
		{5, 2, FarRight},
		{5, 3, FarLeft},
		{7, 3, Hidden},
		{7, 4, Hidden},
		{3, 2, Left},
		{2, 1, Right},
		{4, 2, FarRight},
		{1, 0, Center},
		{0, 0, Hidden},
	}
	for _, tt := range tests {
		if got := Classify(tt.relative, tt.count); got != tt.want {
			t.Errorf("Classify(%d, %d) = %v, want %v", tt.relative, tt.count, got, tt.want)
		}
	}
}

func TestEnginePosition(t *testing.T) {
	e := New(5, WithInitialIndex(1))
	want := []Position{Left, Center, Right, FarRight, FarLeft}
	for i, p := range want {
		if got := e.Position(i); got != p {
			t.Errorf("Position(%d) = %v, want %v", i, got, p)
		}
	}
}

func TestPositionText(t *testing.T) {
	data, err := json.Marshal(map[string]Position{"p": FarLeft})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"p":"far-left"}` {
		t.Errorf("unexpected JSON %s", data)
	}

	var p Position
	if err := p.UnmarshalText([]byte("right")); err != nil || p != Right {
		t.Errorf("expected right, got %v (%v)", p, err)
	}
	if err := p.UnmarshalText([]byte("sideways")); err == nil {
		t.Error("expected error for unknown position")
	}
}

func TestScreenshotsVariants(t *testing.T) {
	l := ScreenshotsLayout

	t.Run("center grows on highlight", func(t *testing.T) {
		if v := l.Variant(Center, false); v.Scale != 1 || !v.Visible || v.Z != 20 {
			t.Errorf("unexpected center %+v", v)
		}
		if v := l.Variant(Center, true); v.Scale != 1.05 {
			t.Errorf("expected 1.05, got %v", v.Scale)
		}
	})

	t.Run("sides spread on highlight", func(t *testing.T) {
		right := l.Variant(Right, false)
		if right.X != 70 || right.Scale != 0.85 || right.Y != -50 {
			t.Errorf("unexpected right %+v", right)
		}
		spread := l.Variant(Right, true)
		if spread.X != 85 || spread.Scale != 0.75 || spread.Y != -55 {
			t.Errorf("unexpected highlighted right %+v", spread)
		}
		left := l.Variant(Left, true)
		if left.X != -85 {
			t.Errorf("expected mirrored left, got %v", left.X)
		}
	})

	t.Run("far slots are staged but transparent", func(t *testing.T) {
		v := l.Variant(FarLeft, false)
		if !v.Visible || v.Opacity != 0 || v.X != -100 || v.Blur != 5 {
			t.Errorf("unexpected far-left %+v", v)
		}
	})

	t.Run("hidden is not rendered", func(t *testing.T) {
		if v := l.Variant(Hidden, true); v.Visible || v.Opacity != 0 {
			t.Errorf("unexpected hidden %+v", v)
		}
	})
}

func TestProjectsLayoutCollapsesFarSlots(t *testing.T) {
	v := ProjectsLayout.Variant(FarRight, false)
	if v.Visible || v.Scale != 0 {
		t.Errorf("expected collapsed far slot, got %+v", v)
	}
	side := ProjectsLayout.Variant(Left, true)
	if side.X != -97 || side.Y != -25 || side.Opacity != 0.6 {
		t.Errorf("unexpected highlighted left %+v", side)
	}
}

func TestSlotsOmitHidden(t *testing.T) {
	slots := Slots(ScreenshotsLayout, 7, 0, false)
	if len(slots) != 5 {
		t.Fatalf("expected 5 rendered slots, got %d", len(slots))
	}
	seen := map[Position]int{}
	for _, s := range slots {
		seen[s.Variant.Position] = s.Index
	}
	if seen[Center] != 0 || seen[Right] != 1 || seen[Left] != 6 || seen[FarRight] != 2 || seen[FarLeft] != 5 {
		t.Errorf("unexpected slot assignment %v", seen)
	}

	if got := Slots(ProjectsLayout, 0, 0, false); len(got) != 0 {
		t.Errorf("expected no slots for empty carousel, got %d", len(got))
	}
}

func TestSlotsSmallCounts(t *testing.T) {
	tests := []struct {
		count, active int
		want          []int
	}{
		{1, 0, []int{0}},
		{2, 1, []int{0, 1}},
		{3, 2, []int{0, 1, 2}},
		{4, 0, []int{0, 1, 2, 3}},
		{6, 0, []int{0, 1, 2, 4, 5}},
	}
	for _, tt := range tests {
		slots := Slots(ScreenshotsLayout, tt.count, tt.active, false)
		got := make([]int, len(slots))
		for i, s := range slots {
			got[i] = s.Index
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("count %d active %d: expected indexes %v, got %v", tt.count, tt.active, tt.want, got)
		}
	}
}

func TestSlotsHugeCount(t *testing.T) {
	const count = 1_000_000_000
	var slots []Slot
	allocs := testing.AllocsPerRun(5, func() {
		slots = Slots(ScreenshotsLayout, count, 7, false)
	})
	if allocs > 10 {
		t.Errorf("layout must not scale with count, %.0f allocations", allocs)
	}
	want := []int{5, 6, 7, 8, 9}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i, s := range slots {
		if s.Index != want[i] {
			t.Errorf("slot %d: expected index %d, got %d", i, want[i], s.Index)
		}
	}
	if slots[0].Variant.Position != FarLeft || slots[2].Variant.Position != Center {
		t.Errorf("unexpected positions %+v", slots)
	}

	wrapped := Slots(ProjectsLayout, count, 0, false)
	if len(wrapped) != 5 {
		t.Fatalf("expected 5 slots, got %d", len(wrapped))
	}
	if last := wrapped[4]; last.Index != count-1 || last.Variant.Position != Left {
		t.Errorf("expected wrapped left item last, got %+v", last)
	}
}

func TestLayoutByName(t *testing.T) {
	if l, ok := LayoutByName("projects"); !ok || l.Name != "projects" {
		t.Error("expected projects layout")
	}
	if _, ok := LayoutByName("grid"); ok {
		t.Error("expected unknown layout to be rejected")
	}
}
