package zone

import (
	"image"
	"math"
	"testing"

	"puckscore/internal/model"
)

func defaultLayout() Layout {
	return NewLayout(320, 320, 80, 260)
}

func TestNewLayout_Scale(t *testing.T) {
	l := defaultLayout()
	if l.Scale != 4 {
		t.Errorf("Expected scale 4, got %v", l.Scale)
	}
	if d := l.Dividers(); d != [3]int{80, 160, 240} {
		t.Errorf("Unexpected dividers: %v", d)
	}

	if l := NewLayout(320, 320, 0, 260); l.Scale != 1 {
		t.Errorf("Expected scale 1 for zero source width, got %v", l.Scale)
	}
}

func TestProjectAndCenter(t *testing.T) {
	l := defaultLayout()
	d := model.Detection{X: 10, Y: 5, Width: 4, Height: 4}

	if r := l.Project(d); r != image.Rect(40, 20, 56, 36) {
		t.Errorf("Project() = %v", r)
	}
	if c := l.Center(d); c != image.Pt(48, 28) {
		t.Errorf("Center() = %v", c)
	}

	// odd scaled sizes round the half-width down
	l = NewLayout(100, 100, 100, 90)
	d = model.Detection{X: 0, Y: 0, Width: 5, Height: 3}
	if c := l.Center(d); c != image.Pt(2, 1) {
		t.Errorf("Center() = %v, expected (2,1)", c)
	}
}

func TestClassify(t *testing.T) {
	l := defaultLayout()

	tests := []struct {
		name     string
		point    image.Point
		expected Area
	}{
		{"top band", image.Pt(10, 10), Area1},
		{"second band", image.Pt(10, 100), Area4},
		{"third band", image.Pt(10, 200), Area3},
		{"bottom band", image.Pt(10, 300), Area2},
		{"right strip", image.Pt(300, 10), AreaNone},
		{"below canvas", image.Pt(10, 400), Area2},
		{"on first divider", image.Pt(10, 80), Area4},
		{"on second divider", image.Pt(10, 160), Area3},
		{"on third divider", image.Pt(10, 240), Area2},
		{"on vertical divider", image.Pt(260, 10), AreaNone},
		{"just left of vertical divider", image.Pt(259, 79), Area1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.Classify(tt.point); got != tt.expected {
				t.Errorf("Classify(%v) = %s, expected %s", tt.point, got, tt.expected)
			}
		})
	}
}

func TestClassify_LargeCoordinates(t *testing.T) {
	l := defaultLayout()

	tests := []struct {
		name     string
		det      model.Detection
		expected Area
	}{
		{"far right", model.Detection{X: 1 << 30, Y: 0, Width: 4, Height: 4}, AreaNone},
		{"max x", model.Detection{X: math.MaxInt, Y: 0, Width: 4, Height: 4}, AreaNone},
		{"max x and width", model.Detection{X: math.MaxInt, Y: 0, Width: math.MaxInt, Height: 4}, AreaNone},
		{"far below", model.Detection{X: 10, Y: math.MaxInt, Width: 4, Height: math.MaxInt}, Area2},
		{"huge box from origin", model.Detection{X: 0, Y: 0, Width: math.MaxInt, Height: 4}, AreaNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			center := l.Center(tt.det)
			if center.X < 0 || center.Y < 0 {
				t.Errorf("Center(%+v) = %v, expected no wrap-around", tt.det, center)
			}
			if got := l.Classify(center); got != tt.expected {
				t.Errorf("Classify(Center(%+v)) = %s, expected %s", tt.det, got, tt.expected)
			}
		})
	}
}

func TestClassify_ExactlyOneCounter(t *testing.T) {
	l := defaultLayout()

	for x := 0; x < 80; x++ {
		for y := 0; y < 80; y++ {
			d := model.Detection{X: x, Y: y, Width: x % 7, Height: y % 5}
			center := l.Center(d)

			var c Counters
			c.Add(l.Classify(center))

			expected := 1
			if center.X >= l.DividerX {
				expected = 0
			}
			if c.Total() != expected {
				t.Fatalf("Detection %+v at %v incremented %d counters, expected %d", d, center, c.Total(), expected)
			}
		}
	}
}

func TestOnBoundary(t *testing.T) {
	l := defaultLayout()

	boundary := []image.Point{{10, 80}, {10, 160}, {10, 240}, {260, 5}}
	for _, p := range boundary {
		if !l.OnBoundary(p) {
			t.Errorf("Expected %v to be on a boundary", p)
		}
	}

	inside := []image.Point{{10, 79}, {10, 81}, {259, 100}, {300, 80}}
	for _, p := range inside {
		if l.OnBoundary(p) {
			t.Errorf("Expected %v not to be on a boundary", p)
		}
	}
}

func TestAreaString(t *testing.T) {
	if Area3.String() != "Area 3" {
		t.Errorf("Unexpected name %q", Area3.String())
	}
	if AreaNone.String() != "None" {
		t.Errorf("Unexpected name %q", AreaNone.String())
	}
	if AreaNone.Weight() != 0 || Area4.Weight() != 4 {
		t.Error("Unexpected area weights")
	}
}
